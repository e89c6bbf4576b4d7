package game

import (
	"context"
	"fmt"

	"github.com/fieldside/ultilog/internal/domain/model"
)

// ClickPlayer handles a click on an on-field player and returns the rows
// it created (zero, one or two). The branches are evaluated in strict
// priority order: substitution mode, awaiting a new holder, awaiting a
// pull, first holder of a point, self-click, same-team pass, cross-team
// turnover, then the no-holder fallback.
//
// Several branches are silent no-ops rather than errors: a click from the
// wrong team while a new holder is awaited, any click while a pull is
// awaited, and a click on the current holder.
func (m *Machine) ClickPlayer(ctx context.Context, team model.Team, name string) ([]model.EventRow, error) {
	if !team.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTeam, team)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := model.PlayerRef{Team: team, Name: name}
	m.lastClicked = &p

	if m.subMode {
		return m.subClick(ctx, p)
	}

	// After a drop, manual turn or pull: the first click from the
	// expected team establishes possession; the other team's clicks
	// are ignored until then.
	if m.awaitNewHolder != "" {
		if p.Team != m.awaitNewHolder {
			return nil, nil
		}
		m.possession = p.Team
		m.lastHolder = &p
		m.lastThrow = nil
		m.awaitNewHolder = ""
		return nil, nil
	}

	// Between a score and the next pull, clicks do nothing.
	if m.awaitPull {
		return nil, nil
	}

	// Start of point: the click establishes the first holder.
	if m.possession == "" && m.lastHolder == nil {
		m.possession = p.Team
		m.lastHolder = &p
		m.lastThrow = nil
		return nil, nil
	}

	// Self-click guards against an accidental double-click.
	if p.Team == m.possession && m.holderIs(p) {
		return nil, nil
	}

	// Same-team click: a completed pass from the holder to the
	// clicked player.
	if m.lastHolder != nil && p.Team == m.possession {
		row := m.makeRow(ctx, m.possession, model.KindPass, m.lastHolder.Name, p.Name)
		m.lastThrow = &model.Throw{Thrower: *m.lastHolder, Receiver: p}
		m.lastHolder = &p
		return []model.EventRow{row}, nil
	}

	// Cross-team click: a turnover charged to the throwing team paired
	// with a block credited to the clicked defender, who takes over.
	if m.lastHolder != nil && p.Team != m.possession {
		turn := m.makeRow(ctx, m.possession, model.KindTurn, m.lastHolder.Name, "")
		d := m.makeRow(ctx, p.Team, model.KindD, p.Name, "")
		m.possession = p.Team
		m.lastHolder = &p
		m.lastThrow = nil
		return []model.EventRow{turn, d}, nil
	}

	// No holder in any other combination: treat the click as
	// establishing the first holder.
	m.possession = p.Team
	m.lastHolder = &p
	return nil, nil
}

// subClick runs the two-step OUT/IN substitution flow. The caller holds
// m.mu and has already recorded p as the last click.
func (m *Machine) subClick(ctx context.Context, p model.PlayerRef) ([]model.EventRow, error) {
	// Step OUT: the clicked player must currently be on-field.
	if m.subOut == nil {
		if !m.isOnField(p.Team, p.Name) {
			return nil, fmt.Errorf("%w: player %q is not on-field for team %s", ErrInvalidSubstitution, p.Name, p.Team)
		}
		m.subOut = &p
		return nil, nil
	}

	// Step IN: same team as the OUT player, and not already on-field.
	if p.Team != m.subOut.Team {
		return nil, fmt.Errorf("%w: OUT and IN players must be on the same team", ErrInvalidSubstitution)
	}
	if m.isOnField(p.Team, p.Name) {
		return nil, fmt.Errorf("%w: player %q is already on-field for team %s", ErrInvalidSubstitution, p.Name, p.Team)
	}

	out := *m.subOut
	idx := -1
	for i, name := range m.onfield[out.Team] {
		if name == out.Name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: player %q is no longer on-field for team %s", ErrInvalidSubstitution, out.Name, out.Team)
	}

	// Order-preserving swap: the IN player takes the OUT player's slot.
	m.onfield[out.Team][idx] = p.Name

	// Substituting out the current holder voids their holder status;
	// the next click establishes a fresh holder via the normal flow.
	if m.holderIs(out) {
		m.lastHolder = nil
	}

	row := m.makeRow(ctx, p.Team, model.KindSub, out.Name, p.Name)
	m.subMode = false
	m.subOut = nil
	return []model.EventRow{row}, nil
}
