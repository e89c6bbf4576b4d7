package game_test

import (
	"context"
	"testing"

	"github.com/fieldside/ultilog/internal/domain/game"
	"github.com/fieldside/ultilog/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClickPlayer(t *testing.T) {
	ctx := context.Background()

	Convey("Given a machine at the start of a point", t, func() {
		m := newTestMachine(ctx)

		Convey("When an invalid team clicks", func() {
			_, err := m.ClickPlayer(ctx, model.Team("X"), "A1")
			So(err, ShouldWrap, game.ErrUnknownTeam)
		})

		Convey("When the first player clicks", func() {
			rows, err := m.ClickPlayer(ctx, model.TeamA, "A1")
			So(err, ShouldBeNil)

			Convey("Then no row is logged but the holder is established", func() {
				So(rows, ShouldBeEmpty)
				st := m.State(ctx)
				So(st.Possession, ShouldEqual, model.TeamA)
				So(st.LastHolder.Name, ShouldEqual, "A1")
				So(st.EventCount, ShouldEqual, 0)
			})
		})
	})

	Convey("Given an established holder", t, func() {
		m := newTestMachine(ctx)
		_, err := m.ClickPlayer(ctx, model.TeamA, "A1")
		So(err, ShouldBeNil)

		Convey("When the holder clicks themselves", func() {
			rows, err := m.ClickPlayer(ctx, model.TeamA, "A1")
			So(err, ShouldBeNil)

			Convey("Then nothing is logged and the holder is unchanged", func() {
				So(rows, ShouldBeEmpty)
				So(m.State(ctx).LastHolder.Name, ShouldEqual, "A1")
				So(len(m.Rows(ctx)), ShouldEqual, 0)
			})
		})

		Convey("When a teammate clicks", func() {
			rows, err := m.ClickPlayer(ctx, model.TeamA, "A2")
			So(err, ShouldBeNil)

			Convey("Then a pass row is logged and the receiver becomes holder", func() {
				So(len(rows), ShouldEqual, 1)
				So(rows[0].Event, ShouldEqual, model.KindPass)
				So(rows[0].Team, ShouldEqual, model.TeamA)
				So(rows[0].From, ShouldEqual, "A1")
				So(rows[0].To, ShouldEqual, "A2")
				So(rows[0].Point, ShouldEqual, 1)
				So(m.State(ctx).LastHolder.Name, ShouldEqual, "A2")
			})
		})

		Convey("When a chain of passes happens", func() {
			for _, name := range []string{"A2", "A3", "A4"} {
				_, err := m.ClickPlayer(ctx, model.TeamA, name)
				So(err, ShouldBeNil)
			}

			Convey("Then each hop is a separate pass row", func() {
				rows := m.Rows(ctx)
				So(len(rows), ShouldEqual, 3)
				So(rows[0].From+rows[0].To, ShouldEqual, "A1A2")
				So(rows[1].From+rows[1].To, ShouldEqual, "A2A3")
				So(rows[2].From+rows[2].To, ShouldEqual, "A3A4")
			})
		})

		Convey("When a defender clicks", func() {
			rows, err := m.ClickPlayer(ctx, model.TeamB, "B3")
			So(err, ShouldBeNil)

			Convey("Then a turnover and a block are logged together", func() {
				So(len(rows), ShouldEqual, 2)
				So(rows[0].Event, ShouldEqual, model.KindTurn)
				So(rows[0].Team, ShouldEqual, model.TeamA)
				So(rows[0].From, ShouldEqual, "A1")
				So(rows[1].Event, ShouldEqual, model.KindD)
				So(rows[1].Team, ShouldEqual, model.TeamB)
				So(rows[1].From, ShouldEqual, "B3")
			})

			Convey("Then the defender takes over possession", func() {
				st := m.State(ctx)
				So(st.Possession, ShouldEqual, model.TeamB)
				So(st.LastHolder.Name, ShouldEqual, "B3")
			})

			Convey("And play continues for the defending team", func() {
				passRows, err := m.ClickPlayer(ctx, model.TeamB, "B4")
				So(err, ShouldBeNil)
				So(len(passRows), ShouldEqual, 1)
				So(passRows[0].Event, ShouldEqual, model.KindPass)
				So(passRows[0].Team, ShouldEqual, model.TeamB)
			})
		})
	})

	Convey("Given the machine awaits a new holder after a drop", t, func() {
		m := newTestMachine(ctx)
		_, err := m.ClickPlayer(ctx, model.TeamA, "A1")
		So(err, ShouldBeNil)
		_, err = m.ClickPlayer(ctx, model.TeamA, "A2")
		So(err, ShouldBeNil)
		_, err = m.PressDrop(ctx)
		So(err, ShouldBeNil)

		Convey("When the wrong team clicks", func() {
			rows, err := m.ClickPlayer(ctx, model.TeamA, "A3")
			So(err, ShouldBeNil)

			Convey("Then the click is ignored", func() {
				So(rows, ShouldBeEmpty)
				So(m.State(ctx).AwaitingNewHolder, ShouldEqual, model.TeamB)
			})
		})

		Convey("When the expected team clicks", func() {
			rows, err := m.ClickPlayer(ctx, model.TeamB, "B1")
			So(err, ShouldBeNil)

			Convey("Then possession is established silently", func() {
				So(rows, ShouldBeEmpty)
				st := m.State(ctx)
				So(st.Possession, ShouldEqual, model.TeamB)
				So(st.LastHolder.Name, ShouldEqual, "B1")
				So(st.AwaitingNewHolder, ShouldEqual, model.Team(""))
			})
		})
	})

	Convey("Given the machine awaits a pull after a score", t, func() {
		m := newTestMachine(ctx)
		_, err := m.ClickPlayer(ctx, model.TeamA, "A1")
		So(err, ShouldBeNil)
		_, err = m.ClickPlayer(ctx, model.TeamA, "A2")
		So(err, ShouldBeNil)
		_, err = m.PressScore(ctx)
		So(err, ShouldBeNil)
		before := len(m.Rows(ctx))

		Convey("When any player clicks", func() {
			rowsA, err := m.ClickPlayer(ctx, model.TeamA, "A5")
			So(err, ShouldBeNil)
			rowsB, err := m.ClickPlayer(ctx, model.TeamB, "B5")
			So(err, ShouldBeNil)

			Convey("Then the clicks are ignored", func() {
				So(rowsA, ShouldBeEmpty)
				So(rowsB, ShouldBeEmpty)
				So(len(m.Rows(ctx)), ShouldEqual, before)
				So(m.State(ctx).AwaitingPull, ShouldBeTrue)
			})
		})
	})
}
