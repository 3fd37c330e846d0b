package board

import (
	"fmt"
	"slices"

	"github.com/goopgame/goopdraw/grid"
)

// MaxGoop is the most goop a node can hold.
const MaxGoop = 15

// Occupied is the state of a node some player controls.
type Occupied struct {
	// Player controls this node.
	Player Player

	// Outflows lists the neighbors this node sends goop to.
	Outflows []grid.Node

	// Goop held by this node, 0..MaxGoop.
	Goop int
}

// State is the complete varying state of a game board.
type State struct {
	// Map is the board being played on.
	Map *Map

	// Nodes records which nodes are occupied; nil entries are vacant.
	// Indexed by node.
	Nodes []*Occupied

	// rng drives the flow ordering. Seeded identically on every host.
	rng xorShift128Plus
}

// Parameters describe a new game.
type Parameters struct {
	// Rows and Cols are the board dimensions.
	Rows, Cols int

	// Sources holds each player's goop source node. Implies the player
	// count.
	Sources []grid.Node
}

var defaultSeed = [2]uint64{0xcd9d5eaaf04bc9a7, 0x4602cc7098d01ef9}

// NewState starts a game on a fresh square-grid map.
func NewState(params Parameters) *State {
	g := grid.NewSquareGrid(params.Rows, params.Cols)
	m := NewMap(g, params.Sources, Palette(len(params.Sources)))
	return NewStateOn(m)
}

// NewStateOn starts a game on an existing map, with each source occupied by
// its player.
func NewStateOn(m *Map) *State {
	nodes := make([]*Occupied, m.Graph.Nodes())
	for player, source := range m.Sources {
		nodes[source] = &Occupied{Player: Player(player)}
	}
	return &State{Map: m, Nodes: nodes, rng: newXorShift128Plus(defaultSeed)}
}

// flow lets one unit of goop through each chosen outflow.
//
// There are algorithms for finding the flow through a graph precisely; this
// is not one of them. Every outgoing edge is visited once in random order,
// and a unit of goop propagates if the destination permits it.
func (s *State) flow() {
	type edge struct{ from, to grid.Node }
	var outflows []edge
	for node, occupied := range s.Nodes {
		if occupied == nil {
			continue
		}
		for _, to := range occupied.Outflows {
			outflows = append(outflows, edge{node, to})
		}
	}

	shuffle(&s.rng, outflows)

	for len(outflows) > 0 {
		e := outflows[len(outflows)-1]
		outflows = outflows[:len(outflows)-1]

		from := s.Nodes[e.from]
		if from == nil {
			// Edges are only generated from occupied nodes, and clearing a
			// node removes its pending edges below.
			panic(fmt.Sprintf("outflow from vacant node %d", e.from))
		}
		if from.Goop == 0 {
			continue
		}

		to := s.Nodes[e.to]
		switch {
		case to == nil:
			// Goop flowing into a vacant node claims it.
			from.Goop--
			s.Nodes[e.to] = &Occupied{Player: from.Player, Goop: 1}

		case to.Player == from.Player:
			if to.Goop < MaxGoop {
				from.Goop--
				to.Goop++
			}

		case to.Goop > 1:
			// Attacking an enemy node without clearing it. All outflow from
			// the defender stops.
			from.Goop--
			to.Goop--
			to.Outflows = nil
			outflows = slices.DeleteFunc(outflows, func(p edge) bool {
				return p.from == e.to
			})

		default:
			// The attack clears the node; the attacker takes it over,
			// empty.
			from.Goop--
			s.Nodes[e.to] = &Occupied{Player: from.Player}
			outflows = slices.DeleteFunc(outflows, func(p edge) bool {
				return p.from == e.to
			})
		}
	}
}

// generateGoop tops up every source node.
func (s *State) generateGoop() {
	for _, source := range s.Map.Sources {
		occupied := s.Nodes[source]
		if occupied == nil {
			panic(fmt.Sprintf("source node %d is vacant", source))
		}
		if occupied.Goop < MaxGoop {
			occupied.Goop++
		}
	}
}

// Advance steps the board to the next tick.
func (s *State) Advance() {
	s.flow()
	s.generateGoop()
}

// An Action is a move a player can make.
type Action interface {
	isAction()
}

// ToggleOutflow switches the outflow from From to To on or off, on behalf
// of Player.
type ToggleOutflow struct {
	Player   Player
	From, To grid.Node
}

func (ToggleOutflow) isAction() {}

// Take applies action to the state. Actions affecting nodes the acting
// player doesn't control are ignored.
func (s *State) Take(action Action) {
	switch action := action.(type) {
	case ToggleOutflow:
		occupied := s.Nodes[action.From]
		if occupied == nil || occupied.Player != action.Player {
			return
		}
		if i := slices.Index(occupied.Outflows, action.To); i >= 0 {
			occupied.Outflows = slices.Delete(occupied.Outflows, i, i+1)
		} else {
			occupied.Outflows = append(occupied.Outflows, action.To)
		}
	default:
		panic(fmt.Sprintf("unhandled action %T", action))
	}
}
