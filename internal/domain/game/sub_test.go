package game_test

import (
	"context"
	"testing"

	"github.com/fieldside/ultilog/internal/domain/game"
	"github.com/fieldside/ultilog/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSubstitution(t *testing.T) {
	ctx := context.Background()

	Convey("Given substitution mode", t, func() {
		m := newTestMachine(ctx)
		m.StartSub(ctx)
		So(m.State(ctx).SubMode, ShouldBeTrue)

		Convey("When the OUT player is not on-field", func() {
			_, err := m.ClickPlayer(ctx, model.TeamA, "A99")
			So(err, ShouldWrap, game.ErrInvalidSubstitution)

			Convey("Then sub mode stays armed for another OUT click", func() {
				So(m.State(ctx).SubMode, ShouldBeTrue)
				So(m.State(ctx).SubOut, ShouldBeNil)
			})
		})

		Convey("When OUT and IN are clicked in order", func() {
			_, err := m.ClickPlayer(ctx, model.TeamA, "A3")
			So(err, ShouldBeNil)
			So(m.State(ctx).SubOut.Name, ShouldEqual, "A3")

			rows, err := m.ClickPlayer(ctx, model.TeamA, "A8")
			So(err, ShouldBeNil)

			Convey("Then one SUB row is logged", func() {
				So(len(rows), ShouldEqual, 1)
				So(rows[0].Event, ShouldEqual, model.KindSub)
				So(rows[0].Team, ShouldEqual, model.TeamA)
				So(rows[0].From, ShouldEqual, "A3")
				So(rows[0].To, ShouldEqual, "A8")
			})

			Convey("Then the IN player takes the OUT player's slot", func() {
				onfield, err := m.OnField(ctx, model.TeamA)
				So(err, ShouldBeNil)
				So(onfield, ShouldResemble, []string{"A1", "A2", "A8", "A4", "A5", "A6", "A7"})
			})

			Convey("Then the row snapshot shows the post-swap lineup", func() {
				So(rows[0].OnFieldA, ShouldContain, "A8")
				So(rows[0].OnFieldA, ShouldNotContain, "A3")
			})

			Convey("Then sub mode is cleared", func() {
				st := m.State(ctx)
				So(st.SubMode, ShouldBeFalse)
				So(st.SubOut, ShouldBeNil)
			})
		})

		Convey("When the IN player is on the other team", func() {
			_, err := m.ClickPlayer(ctx, model.TeamA, "A3")
			So(err, ShouldBeNil)
			_, err = m.ClickPlayer(ctx, model.TeamB, "B8")
			So(err, ShouldWrap, game.ErrInvalidSubstitution)
		})

		Convey("When the IN player is already on-field", func() {
			_, err := m.ClickPlayer(ctx, model.TeamA, "A3")
			So(err, ShouldBeNil)
			_, err = m.ClickPlayer(ctx, model.TeamA, "A5")
			So(err, ShouldWrap, game.ErrInvalidSubstitution)
		})
	})

	Convey("Given the current holder is substituted out", t, func() {
		m := newTestMachine(ctx)
		_, err := m.ClickPlayer(ctx, model.TeamA, "A1")
		So(err, ShouldBeNil)
		_, err = m.ClickPlayer(ctx, model.TeamA, "A2")
		So(err, ShouldBeNil)
		So(m.State(ctx).LastHolder.Name, ShouldEqual, "A2")

		m.StartSub(ctx)
		_, err = m.ClickPlayer(ctx, model.TeamA, "A2")
		So(err, ShouldBeNil)
		_, err = m.ClickPlayer(ctx, model.TeamA, "A8")
		So(err, ShouldBeNil)

		Convey("Then holder status is voided", func() {
			So(m.State(ctx).LastHolder, ShouldBeNil)
		})

		Convey("Then the next click establishes a fresh holder, not a pass", func() {
			rows, err := m.ClickPlayer(ctx, model.TeamA, "A4")
			So(err, ShouldBeNil)
			So(rows, ShouldBeEmpty)
			So(m.State(ctx).LastHolder.Name, ShouldEqual, "A4")
		})
	})

	Convey("Given a substitution during live play", t, func() {
		m := newTestMachine(ctx)
		_, err := m.ClickPlayer(ctx, model.TeamA, "A1")
		So(err, ShouldBeNil)

		m.StartSub(ctx)
		_, err = m.ClickPlayer(ctx, model.TeamB, "B5")
		So(err, ShouldBeNil)
		_, err = m.ClickPlayer(ctx, model.TeamB, "B8")
		So(err, ShouldBeNil)

		Convey("Then the non-possessing team's lineup changed and play resumes", func() {
			onfield, err := m.OnField(ctx, model.TeamB)
			So(err, ShouldBeNil)
			So(onfield, ShouldContain, "B8")

			rows, err := m.ClickPlayer(ctx, model.TeamA, "A2")
			So(err, ShouldBeNil)
			So(len(rows), ShouldEqual, 1)
			So(rows[0].Event, ShouldEqual, model.KindPass)
		})
	})
}
