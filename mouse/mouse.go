// Package mouse turns pointer events into hover effects and game moves.
//
// The package doesn't track raw coordinates. Positions arrive already
// transformed to graph space, and the [Mouse] immediately reduces them to
// the clickable element they land on, so the rest of the code never sees a
// point it would have to re-interpret.
package mouse

import (
	"honnef.co/go/curve"

	"github.com/goopgame/goopdraw/board"
	"github.com/goopgame/goopdraw/grid"
)

// An affordance is a thing on the map the user can interact with. It plays
// the role of a mouse position, expressed in terms we actually care about.
type affordance struct {
	// kind distinguishes the variants below.
	kind affordanceKind

	// from and to name the outflow edge when kind is overOutflow.
	from, to grid.Node
}

type affordanceKind int

const (
	overNothing affordanceKind = iota
	overOutflow
)

// A Mouse interprets pointer activity against a map on behalf of one
// player.
type Mouse struct {
	player board.Player
	m      *board.Map

	// position is the affordance under the last reported mouse position.
	position affordance

	// click is the affordance the button went down on, while it is held.
	click *affordance
}

// New returns a Mouse controlling m for player.
func New(player board.Player, m *board.Map) *Mouse {
	return &Mouse{player: player, m: m}
}

// MoveTo reports that the mouse moved to pos, in graph space coordinates.
func (mo *Mouse) MoveTo(pos curve.Point) {
	if from, to, ok := mo.m.Graph.BoundaryHit(pos); ok {
		mo.position = affordance{kind: overOutflow, from: from, to: to}
	} else {
		mo.position = affordance{kind: overNothing}
	}
}

// Click reports that the main mouse button went down at the last reported
// position.
func (mo *Mouse) Click() {
	click := mo.position
	mo.click = &click
}

// Release reports that the main mouse button came up, and returns the
// action to take on the game state, if any. Releasing over a different
// element than the one clicked is a drag-off and does nothing.
func (mo *Mouse) Release() (board.Action, bool) {
	if mo.click == nil {
		// A release with no click. Ignore.
		return nil, false
	}
	clicked := *mo.click
	mo.click = nil

	if clicked != mo.position || clicked.kind != overOutflow {
		return nil, false
	}
	return board.ToggleOutflow{
		Player: mo.player,
		From:   clicked.from,
		To:     clicked.to,
	}, true
}

// A Display says how to draw the interactive parts of the board right now.
// It is always computed fresh from the mouse state; nothing retains one.
type Display struct {
	// Kind selects the variant; the other fields only apply to
	// DisplayOutflow.
	Kind DisplayKind

	// From and To name the highlighted outflow edge.
	From, To grid.Node

	// Active is true while the button is held down over the edge, false
	// for a plain hover.
	Active bool
}

type DisplayKind int

const (
	// DisplayNothing draws no highlight.
	DisplayNothing DisplayKind = iota

	// DisplayOutflow highlights the edge From..To.
	DisplayOutflow
)

// Display chooses how to highlight the element under the mouse.
func (mo *Mouse) Display() Display {
	switch {
	case mo.click == nil && mo.position.kind == overOutflow:
		return Display{
			Kind: DisplayOutflow,
			From: mo.position.from,
			To:   mo.position.to,
		}

	case mo.click != nil && mo.click.kind == overOutflow:
		// Clicked on an edge. If the mouse has moved off it, show the
		// click position as a stuck hover instead of an active press.
		return Display{
			Kind:   DisplayOutflow,
			From:   mo.click.from,
			To:     mo.click.to,
			Active: *mo.click == mo.position,
		}

	default:
		return Display{Kind: DisplayNothing}
	}
}
