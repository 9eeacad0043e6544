package main

import (
	"context"
	"errors"

	"bloxpace/internal/blocks"
	"bloxpace/internal/types"

	"github.com/samber/lo"
)

var (
	errGameOver         = errors.New(ErrorGameOver)
	errInvalidSelection = errors.New(ErrorInvalidSelection)
	errInvalidPlacement = errors.New(ErrorInvalidPlacement)
	errBadRequest       = errors.New(ErrorBadRequest)
	errUnknownCommand   = errors.New(ErrorUnknownCommand)
)

// applyCommand runs cmd against the session's game while holding the
// session lock. The resulting view is returned even when cmd is rejected.
func (app *App) applyCommand(ctx context.Context, sess *Session, cmd types.CommandMessage) (types.GameView, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	scoreBefore := sess.Game.Score()
	err := runCommand(sess.Game, cmd)
	switch {
	case err != nil:
		logWarn("%sSession %s: %s rejected: %v", requestTag(ctx), sess.ID, cmd.Type, err)
	case cmd.Type == CommandPlace:
		stats := sess.Game.Stats()
		logInfo("%sSession %s placed at (%d,%d): +%d, score %d", requestTag(ctx), sess.ID,
			*cmd.X, *cmd.Y, sess.Game.Score()-scoreBefore, sess.Game.Score())
		if stats.LastClear > 0 {
			logInfo("%sSession %s cleared lines for %d points", requestTag(ctx), sess.ID, stats.LastClear)
		}
		if sess.Game.IsGameOver() {
			logInfo("%sSession %s game over with score %d after %d placement%s", requestTag(ctx), sess.ID,
				sess.Game.Score(), stats.Placements, plural(stats.Placements))
		}
	case cmd.Type == CommandRestart:
		logInfo("%sSession %s restarted", requestTag(ctx), sess.ID)
	}
	return buildGameView(sess.Game), err
}

// runCommand maps one command onto the game. Rejected commands leave the
// board and score untouched.
func runCommand(g *blocks.Game, cmd types.CommandMessage) error {
	switch cmd.Type {
	case CommandState:
	case CommandSelect:
		if cmd.Slot == nil {
			return errBadRequest
		}
		if g.IsGameOver() {
			return errGameOver
		}
		if !g.Select(*cmd.Slot) {
			return errInvalidSelection
		}
	case CommandCancel:
		g.CancelSelection()
	case CommandPlace:
		if cmd.X == nil || cmd.Y == nil {
			return errBadRequest
		}
		if g.IsGameOver() {
			return errGameOver
		}
		if !g.TryPlace(*cmd.X, *cmd.Y) {
			return errInvalidPlacement
		}
	case CommandRestart:
		g.Restart()
	default:
		return errUnknownCommand
	}
	return nil
}

// buildGameView snapshots g into the view sent to clients.
func buildGameView(g *blocks.Game) types.GameView {
	board := g.Board()
	selected, ok := g.SelectedSlot()
	if !ok {
		selected = -1
	}
	stats := g.Stats()

	return types.GameView{
		Board: lo.Map(lo.Range(blocks.Size), func(y int, _ int) []types.CellView {
			return lo.Map(lo.Range(blocks.Size), func(x int, _ int) types.CellView {
				color, _ := board.Get(x, y)
				return types.CellView{X: x, Y: y, Color: string(color)}
			})
		}),
		Shapes: lo.Map(lo.Range(blocks.Slots), func(i int, _ int) types.ShapeView {
			return buildShapeView(g, i, i == selected)
		}),
		Selected: selected,
		Score:    g.Score(),
		State:    g.State().String(),
		GameOver: g.IsGameOver(),
		Filled:   board.Filled(),
		Stats: types.StatsView{
			Placements: stats.Placements,
			Rows:       stats.Rows,
			Columns:    stats.Columns,
			LastClear:  stats.LastClear,
		},
	}
}

func buildShapeView(g *blocks.Game, slot int, selected bool) types.ShapeView {
	shape, err := g.ShapeInSlot(slot)
	if err != nil {
		return types.ShapeView{Slot: slot}
	}
	return types.ShapeView{
		Slot:   slot,
		Width:  shape.Width(),
		Height: shape.Height(),
		Color:  string(shape.Color()),
		Rows: lo.Map(lo.Range(shape.Height()), func(y int, _ int) []bool {
			return lo.Map(lo.Range(shape.Width()), func(x int, _ int) bool {
				filled, _ := shape.Get(x, y)
				return filled
			})
		}),
		Value:    shape.Value(),
		Fits:     g.ShapeFits(slot),
		Selected: selected,
	}
}
