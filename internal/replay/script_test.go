package replay

import (
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseScript(t *testing.T) {
	Convey("Given a well-formed script", t, func() {
		script := `
# warmup point
{"op":"click","team":"A","player":"A3"}
{"op":"press","action":"pull"}

{"op":"click","team":"B","player":"B1"}
{"op":"sub"}
{"op":"undo","count":2}
`
		actions, err := ParseScript(strings.NewReader(script))
		So(err, ShouldBeNil)

		Convey("Then comments and blank lines are skipped", func() {
			So(len(actions), ShouldEqual, 5)
		})

		Convey("Then each action carries its parameters", func() {
			So(actions[0], ShouldResemble, Action{Op: "click", Team: "A", Player: "A3"})
			So(actions[1], ShouldResemble, Action{Op: "press", Action: "pull"})
			So(actions[3], ShouldResemble, Action{Op: "sub"})
			So(actions[4], ShouldResemble, Action{Op: "undo", Count: 2})
		})
	})

	Convey("Given malformed scripts", t, func() {
		cases := map[string]string{
			"invalid JSON":       `{"op":`,
			"unknown op":         `{"op":"dance"}`,
			"click without team": `{"op":"click","player":"A1"}`,
			"click bad team":     `{"op":"click","team":"Z","player":"A1"}`,
			"click no player":    `{"op":"click","team":"A"}`,
			"unknown press":      `{"op":"press","action":"smash"}`,
			"undo no count":      `{"op":"undo"}`,
		}
		for name, line := range cases {
			Convey("Then "+name+" is rejected", func() {
				_, err := ParseScript(strings.NewReader(line))
				So(err, ShouldNotBeNil)
			})
		}
	})

	Convey("Given an empty script", t, func() {
		actions, err := ParseScript(strings.NewReader(""))
		So(err, ShouldBeNil)
		So(actions, ShouldBeEmpty)
	})
}
