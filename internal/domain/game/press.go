package game

import (
	"context"
	"fmt"

	"github.com/fieldside/ultilog/internal/domain/model"
)

// PressScore logs a goal for the possession team and ends the point.
// The thrower/receiver pair comes from the most recent completed pass
// when one exists; otherwise the current holder is the thrower and the
// last click the receiver, provided that click was on the possession
// team. The point number advances and the machine waits for a pull
// before accepting clicks again.
func (m *Machine) PressScore(ctx context.Context) (model.EventRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.possession == "" {
		return model.EventRow{}, fmt.Errorf("%w: establish possession before pressing score", ErrNoPossession)
	}
	if m.lastClicked == nil {
		return model.EventRow{}, fmt.Errorf("%w: click the scoring receiver, then press score", ErrNoClick)
	}

	var thrower, receiver model.PlayerRef
	switch {
	case m.lastThrow != nil:
		thrower, receiver = m.lastThrow.Thrower, m.lastThrow.Receiver
	case m.lastHolder != nil && m.lastClicked.Team == m.possession:
		thrower, receiver = *m.lastHolder, *m.lastClicked
	default:
		return model.EventRow{}, fmt.Errorf("%w: click a receiver on the possession team", ErrUnresolvedScore)
	}

	row := m.makeRow(ctx, m.possession, model.KindScore, thrower.Name, receiver.Name)

	m.point++
	m.possession = ""
	m.lastHolder = nil
	m.lastThrow = nil
	m.awaitNewHolder = ""
	m.awaitPull = true
	return row, nil
}

// PressDrop logs a drop by the last clicked player. If the immediately
// preceding row is a pass to that player, the pass was provisional and
// is revoked in the same step: the row is removed and holder status
// reverts to its thrower before the drop row is appended. Possession
// flips and the other team's next click establishes the new holder.
func (m *Machine) PressDrop(ctx context.Context) (model.EventRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.possession == "" {
		return model.EventRow{}, fmt.Errorf("%w: establish possession before pressing drop", ErrNoPossession)
	}
	if m.lastClicked == nil {
		return model.EventRow{}, fmt.Errorf("%w: click the dropping receiver, then press drop", ErrNoClick)
	}
	dropper := *m.lastClicked
	if dropper.Team != m.possession {
		return model.EventRow{}, fmt.Errorf("%w: dropper must be on the team in possession", ErrNotPossessionTeam)
	}

	if last, ok := m.log.Last(ctx); ok &&
		last.Event == model.KindPass &&
		last.Team == m.possession &&
		last.To == dropper.Name {
		m.log.TruncateLast(ctx, 1)
		m.lastHolder = &model.PlayerRef{Team: m.possession, Name: last.From}
		m.lastThrow = nil
	}

	row := m.makeRow(ctx, m.possession, model.KindDrop, dropper.Name, "")

	other := m.possession.Other()
	m.awaitNewHolder = other
	m.possession = other
	m.lastHolder = nil
	m.lastThrow = nil
	return row, nil
}

// PressTurn logs a manual, undefended turnover by the current holder,
// such as a throwaway out of bounds. Unlike the cross-team click flow it
// pairs with no block row. Possession flips exactly as for a drop.
func (m *Machine) PressTurn(ctx context.Context) (model.EventRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.possession == "" || m.lastHolder == nil {
		return model.EventRow{}, fmt.Errorf("%w: click the thrower (current holder) before pressing turn", ErrNoHolder)
	}

	row := m.makeRow(ctx, m.possession, model.KindTurn, m.lastHolder.Name, "")

	other := m.possession.Other()
	m.awaitNewHolder = other
	m.possession = other
	m.lastHolder = nil
	m.lastThrow = nil
	return row, nil
}

// PressPull logs the opening throw of a point by the last clicked
// player. Possession is unset until the receiving team's first click
// establishes the new holder, which produces no row of its own.
func (m *Machine) PressPull(ctx context.Context) (model.EventRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lastClicked == nil {
		return model.EventRow{}, fmt.Errorf("%w: click the puller, then press pull", ErrNoClick)
	}
	puller := *m.lastClicked

	row := m.makeRow(ctx, puller.Team, model.KindPull, puller.Name, "")

	m.possession = ""
	m.lastHolder = nil
	m.lastThrow = nil
	m.awaitNewHolder = puller.Team.Other()
	m.awaitPull = false
	return row, nil
}
