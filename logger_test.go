package goopdraw

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/goopgame/goopdraw/board"
	"github.com/goopgame/goopdraw/grid"
)

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger should not be enabled for %v", level)
		}
	}
}

func TestSetLogger(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	custom := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	SetLogger(custom)

	if got := Logger(); got != custom {
		t.Error("Logger() did not return the logger set via SetLogger")
	}

	Logger().Info("test message", "key", "value")
	if !strings.Contains(buf.String(), "test message") {
		t.Errorf("expected log output to contain %q, got: %s", "test message", buf.String())
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(slog.Default())
	SetLogger(nil)

	l := Logger()
	if l == nil {
		t.Fatal("SetLogger(nil) should set the nop logger, not nil")
	}
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should produce a disabled logger")
	}
}

func TestNewDrawerLogsSharedColorSlot(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	// Two players with identical colors quantize to the same atlas slot,
	// so their goop is indistinguishable on screen.
	c := colorful.Color{R: 0.8, G: 0.2, B: 0.2}
	m := board.NewMap(grid.NewSquareGrid(2, 2), []grid.Node{0, 3}, []colorful.Color{c, c})
	d, err := NewDrawer(m)
	if err != nil {
		t.Fatal(err)
	}
	if d.PlayerSlot(0) != d.PlayerSlot(1) {
		t.Fatal("expected both players to share an atlas slot")
	}
	if !strings.Contains(buf.String(), "same atlas slot") {
		t.Errorf("expected a shared-slot warning, got: %s", buf.String())
	}

	// Distinct colors stay quiet.
	buf.Reset()
	colors := []colorful.Color{{R: 0.8, G: 0.2, B: 0.2}, {R: 0.2, G: 0.2, B: 0.8}}
	if _, err := NewDrawer(board.NewMap(grid.NewSquareGrid(2, 2), []grid.Node{0, 3}, colors)); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log output for distinct colors: %s", buf.String())
	}
}
