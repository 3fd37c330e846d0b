// Command goopdemo simulates a small goop board, renders it with the
// host-side pipeline and exercises picking against the identifier frame.
// It is a development tool for eyeballing the renderer without a GPU or a
// window.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"os"

	"github.com/goopgame/goopdraw"
	"github.com/goopgame/goopdraw/board"
	"github.com/goopgame/goopdraw/grid"
	"github.com/goopgame/goopdraw/mouse"
)

func main() {
	var (
		rows    int
		cols    int
		ticks   int
		size    int
		out     string
		ids     bool
		verbose bool
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.IntVar(&rows, "rows", 3, "Board height in `cells`")
	flag.IntVar(&cols, "cols", 4, "Board width in `cells`")
	flag.IntVar(&ticks, "ticks", 10, "Number of `ticks` to simulate")
	flag.IntVar(&size, "size", 512, "Output image `pixels` per side")
	flag.StringVar(&out, "out", "board.png", "Output PNG `file`")
	flag.BoolVar(&ids, "ids", false, "Render the identifier frame instead of the visible one")
	flag.BoolVar(&verbose, "v", false, "Log renderer diagnostics to stderr")
	flag.Parse()

	if verbose {
		goopdraw.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if len(flag.Args()) != 0 {
		flag.Usage()
		os.Exit(2)
	}

	dief := func(f string, v ...any) {
		fmt.Fprintf(os.Stderr, f, v...)
		fmt.Fprintln(os.Stderr)
		os.Exit(1)
	}

	state := board.NewState(board.Parameters{
		Rows:    rows,
		Cols:    cols,
		Sources: []grid.Node{0, rows*cols - 1},
	})

	// Give both players something to do: push goop toward the board
	// center for the whole run.
	for player, source := range state.Map.Sources {
		for _, n := range state.Map.Graph.Neighbors(source) {
			state.Take(board.ToggleOutflow{Player: board.Player(player), From: source, To: n})
		}
	}
	for range ticks {
		state.Advance()
	}

	drawer, err := goopdraw.NewDrawer(state.Map)
	if err != nil {
		dief("building drawer: %s", err)
	}

	frame := goopdraw.NewCPUFrame(size, size)
	idFrame := goopdraw.NewCPUFrame(size, size)
	drawer.DrawCPU(frame, state, mouse.Display{})
	drawer.DrawIDsCPU(idFrame, false)

	for node := range state.Map.Graph.Nodes() {
		c := state.Map.Graph.Center(node)
		d := goopdraw.GraphToDevice(state.Map, size, size).Apply(c)
		x := int((d.X + 1) / 2 * float64(size))
		y := int((1 - d.Y) / 2 * float64(size))

		owner := "vacant"
		if o := state.Nodes[node]; o != nil {
			owner = fmt.Sprintf("player %d, %d goop", o.Player, o.Goop)
		}
		if picked, ok := drawer.PickNode(idFrame, x, y); ok {
			fmt.Printf("pick (%3d, %3d) -> node %2d (%s)\n", x, y, picked, owner)
		} else {
			fmt.Printf("pick (%3d, %3d) -> nothing   (%s)\n", x, y, owner)
		}
	}

	result := frame
	if ids {
		result = idFrame
	}
	f, err := os.Create(out)
	if err != nil {
		dief("creating %s: %s", out, err)
	}
	defer f.Close()
	if err := png.Encode(f, result.Image()); err != nil {
		dief("encoding %s: %s", out, err)
	}
}
