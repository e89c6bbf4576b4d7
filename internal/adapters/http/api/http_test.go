package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fieldside/ultilog/internal/adapters/http/api"
	service "github.com/fieldside/ultilog/internal/app"
	"github.com/fieldside/ultilog/internal/domain/model"
	"github.com/fieldside/ultilog/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

// newTestServer starts a real service behind the HTTP mux.
func newTestServer(ctx context.Context, opts ...service.Option) (*httptest.Server, *service.Service) {
	svc := service.New(opts...)
	So(svc.Start(ctx), ShouldBeNil)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(ctx, mux)
	return httptest.NewServer(mux), svc
}

func postJSON(ts *httptest.Server, path string, body any) *http.Response {
	data, err := json.Marshal(body)
	So(err, ShouldBeNil)
	resp, err := http.Post(ts.URL+path, "application/json", bytes.NewReader(data))
	So(err, ShouldBeNil)
	return resp
}

func decodeBody[T any](resp *http.Response) T {
	defer resp.Body.Close()
	var v T
	So(json.NewDecoder(resp.Body).Decode(&v), ShouldBeNil)
	return v
}

type rowsBody struct {
	Status string           `json:"status"`
	Rows   []model.EventRow `json:"rows"`
}

type undoBody struct {
	Status  string `json:"status"`
	Removed int    `json:"removed"`
}

type playersBody struct {
	Team    string   `json:"team"`
	Players []string `json:"players"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func TestClickAndPressEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given a running API server", t, func() {
		ts, svc := newTestServer(ctx)
		Reset(func() {
			ts.Close()
			svc.Stop()
		})

		Convey("When the first click arrives", func() {
			resp := postJSON(ts, "/click", map[string]string{"team": "A", "player": "A1"})
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			body := decodeBody[rowsBody](resp)
			So(body.Status, ShouldEqual, "ok")
			So(body.Rows, ShouldBeEmpty)
		})

		Convey("When a pass completes over two clicks", func() {
			resp := postJSON(ts, "/click", map[string]string{"team": "A", "player": "A1"})
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			resp.Body.Close()

			resp = postJSON(ts, "/click", map[string]string{"team": "A", "player": "A2"})
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			body := decodeBody[rowsBody](resp)
			So(len(body.Rows), ShouldEqual, 1)
			So(body.Rows[0].Event, ShouldEqual, model.KindPass)
			So(body.Rows[0].From, ShouldEqual, "A1")
			So(body.Rows[0].To, ShouldEqual, "A2")
		})

		Convey("When the click body is invalid", func() {
			Convey("And the team is unknown", func() {
				resp := postJSON(ts, "/click", map[string]string{"team": "X", "player": "A1"})
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				So(decodeBody[errorBody](resp).Code, ShouldEqual, "bad_request")
			})

			Convey("And the player is missing", func() {
				resp := postJSON(ts, "/click", map[string]string{"team": "A"})
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				resp.Body.Close()
			})

			Convey("And the body is not JSON", func() {
				resp, err := http.Post(ts.URL+"/click", "application/json", strings.NewReader("not json"))
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				resp.Body.Close()
			})
		})

		Convey("When the same request ID is submitted twice", func() {
			req := map[string]string{"team": "A", "player": "A1", "request_id": "click-1"}

			resp := postJSON(ts, "/click", req)
			So(decodeBody[rowsBody](resp).Status, ShouldEqual, "ok")

			resp = postJSON(ts, "/click", req)
			body := decodeBody[rowsBody](resp)

			Convey("Then the retry is acknowledged without reapplying", func() {
				So(body.Status, ShouldEqual, "duplicate")
				So(body.Rows, ShouldBeEmpty)
				So(svc.State(ctx).LastHolder.Name, ShouldEqual, "A1")
			})
		})

		Convey("When a press is invalid for the current state", func() {
			resp := postJSON(ts, "/press/score", nil)

			Convey("Then the rule violation maps to 409", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusConflict)
				So(decodeBody[errorBody](resp).Code, ShouldEqual, "invalid_action")
			})
		})

		Convey("When the press action is unknown", func() {
			resp := postJSON(ts, "/press/smash", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			resp.Body.Close()
		})

		Convey("When a full point is played over the API", func() {
			for _, click := range []map[string]string{
				{"team": "A", "player": "A1"},
				{"team": "A", "player": "A2"},
				{"team": "A", "player": "A3"},
			} {
				resp := postJSON(ts, "/click", click)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				resp.Body.Close()
			}

			resp := postJSON(ts, "/press/score", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			body := decodeBody[rowsBody](resp)
			So(len(body.Rows), ShouldEqual, 1)
			So(body.Rows[0].Event, ShouldEqual, model.KindScore)
			So(body.Rows[0].From, ShouldEqual, "A2")
			So(body.Rows[0].To, ShouldEqual, "A3")

			Convey("Then /state reflects the next point", func() {
				stateResp, err := http.Get(ts.URL + "/state")
				So(err, ShouldBeNil)
				So(stateResp.StatusCode, ShouldEqual, http.StatusOK)

				st := decodeBody[struct {
					Point        int  `json:"point"`
					AwaitingPull bool `json:"awaiting_pull"`
				}](stateResp)
				So(st.Point, ShouldEqual, 2)
				So(st.AwaitingPull, ShouldBeTrue)
			})

			Convey("Then /log returns all rows in order", func() {
				logResp, err := http.Get(ts.URL + "/log")
				So(err, ShouldBeNil)
				rows := decodeBody[[]model.EventRow](logResp)
				So(len(rows), ShouldEqual, 3)
				So(rows[0].Event, ShouldEqual, model.KindPass)
				So(rows[2].Event, ShouldEqual, model.KindScore)
			})

			Convey("Then /log.csv serves the export", func() {
				csvResp, err := http.Get(ts.URL + "/log.csv")
				So(err, ShouldBeNil)
				defer csvResp.Body.Close()

				So(csvResp.StatusCode, ShouldEqual, http.StatusOK)
				So(csvResp.Header.Get("Content-Type"), ShouldContainSubstring, "text/csv")
				So(csvResp.Header.Get("Content-Disposition"), ShouldContainSubstring, "game_log.csv")

				var buf bytes.Buffer
				_, err = buf.ReadFrom(csvResp.Body)
				So(err, ShouldBeNil)
				lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
				So(len(lines), ShouldEqual, 4)
				So(lines[0], ShouldStartWith, "Timestamp,Team,Event")
			})
		})

		Convey("When a substitution is driven over the API", func() {
			resp := postJSON(ts, "/sub", nil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(decodeBody[rowsBody](resp).Status, ShouldEqual, "sub_mode")

			resp = postJSON(ts, "/click", map[string]string{"team": "B", "player": "B2"})
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			resp.Body.Close()

			resp = postJSON(ts, "/click", map[string]string{"team": "B", "player": "B8"})
			body := decodeBody[rowsBody](resp)

			Convey("Then the swap row comes back", func() {
				So(len(body.Rows), ShouldEqual, 1)
				So(body.Rows[0].Event, ShouldEqual, model.KindSub)
				So(body.Rows[0].From, ShouldEqual, "B2")
				So(body.Rows[0].To, ShouldEqual, "B8")
			})

			Convey("Then an invalid IN click maps to 409", func() {
				// Start another substitution and pick an on-field IN.
				r := postJSON(ts, "/sub", nil)
				r.Body.Close()
				r = postJSON(ts, "/click", map[string]string{"team": "B", "player": "B1"})
				r.Body.Close()
				r = postJSON(ts, "/click", map[string]string{"team": "B", "player": "B3"})
				So(r.StatusCode, ShouldEqual, http.StatusConflict)
				So(decodeBody[errorBody](r).Code, ShouldEqual, "invalid_action")
			})
		})

		Convey("When undo is requested", func() {
			for _, player := range []string{"A1", "A2", "A3"} {
				r := postJSON(ts, "/click", map[string]string{"team": "A", "player": player})
				r.Body.Close()
			}

			resp := postJSON(ts, "/undo", map[string]int{"count": 5})
			body := decodeBody[undoBody](resp)

			Convey("Then the removal count is clamped to the log length", func() {
				So(body.Status, ShouldEqual, "ok")
				So(body.Removed, ShouldEqual, 2)
			})
		})

		Convey("When undo has a non-positive count", func() {
			resp := postJSON(ts, "/undo", map[string]int{"count": -1})
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			resp.Body.Close()
		})

		Convey("When mutation routes receive the wrong method", func() {
			for _, path := range []string{"/click", "/press/score", "/sub", "/undo"} {
				resp, err := http.Get(ts.URL + path)
				So(err, ShouldBeNil)
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
				resp.Body.Close()
			}
		})

		Convey("When /healthz is probed", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("When /stats is fetched", func() {
			resp, err := http.Get(ts.URL + "/stats")
			So(err, ShouldBeNil)
			stats := decodeBody[map[string]any](resp)
			So(stats["started"], ShouldEqual, true)
		})
	})
}

func TestRosterEndpoints(t *testing.T) {
	ctx := context.Background()

	Convey("Given a server with custom rosters", t, func() {
		ts, svc := newTestServer(ctx,
			service.WithPlayersPerSide(3),
			service.WithLineups([]string{"Ann", "Bea", "Cat"}, []string{"Dee", "Eva", "Fay"}),
			service.WithRosters([]string{"Ann", "Bea", "Cat", "Gia"}, []string{"Dee", "Eva", "Fay"}),
		)
		Reset(func() {
			ts.Close()
			svc.Stop()
		})

		Convey("When the roster is fetched", func() {
			resp, err := http.Get(ts.URL + "/roster/A")
			So(err, ShouldBeNil)
			body := decodeBody[playersBody](resp)
			So(body.Team, ShouldEqual, "A")
			So(body.Players, ShouldResemble, []string{"Ann", "Bea", "Cat", "Gia"})
		})

		Convey("When the team key is invalid", func() {
			resp, err := http.Get(ts.URL + "/roster/X")
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			resp.Body.Close()
		})

		Convey("When the bench is fetched", func() {
			resp, err := http.Get(ts.URL + "/bench/A")
			So(err, ShouldBeNil)
			body := decodeBody[playersBody](resp)
			So(body.Players, ShouldResemble, []string{"Gia"})
		})

		Convey("When the roster is replaced", func() {
			req, err := http.NewRequest(http.MethodPut, ts.URL+"/roster/A",
				strings.NewReader(`{"players":["Ann","Bea","Cat","Hana"]}`))
			So(err, ShouldBeNil)
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			resp.Body.Close()

			Convey("Then the bench follows the new roster", func() {
				benchResp, err := http.Get(ts.URL + "/bench/A")
				So(err, ShouldBeNil)
				So(decodeBody[playersBody](benchResp).Players, ShouldResemble, []string{"Hana"})
			})
		})

		Convey("When the lineup is replaced", func() {
			req, err := http.NewRequest(http.MethodPut, ts.URL+"/onfield/A",
				strings.NewReader(`{"players":["Ann","Bea","Gia"]}`))
			So(err, ShouldBeNil)
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			resp.Body.Close()

			benchResp, err := http.Get(ts.URL + "/bench/A")
			So(err, ShouldBeNil)
			So(decodeBody[playersBody](benchResp).Players, ShouldResemble, []string{"Cat"})
		})

		Convey("When the lineup names someone off the roster", func() {
			req, err := http.NewRequest(http.MethodPut, ts.URL+"/onfield/A",
				strings.NewReader(`{"players":["Ann","Bea","Zoe"]}`))
			So(err, ShouldBeNil)
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)

			Convey("Then the unknown player maps to 404", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
				So(decodeBody[errorBody](resp).Code, ShouldEqual, "not_found")
			})
		})

		Convey("When the lineup has the wrong size", func() {
			req, err := http.NewRequest(http.MethodPut, ts.URL+"/onfield/A",
				strings.NewReader(`{"players":["Ann","Bea"]}`))
			So(err, ShouldBeNil)
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			resp.Body.Close()
		})
	})
}
