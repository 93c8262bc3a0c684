// Package studio is the headless session behind the window: node entry,
// pointer gestures, the frame tick and the result surface.
package studio

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"

	"github.com/olivierh59500/spatial-forge/internal/forge"
	"github.com/olivierh59500/spatial-forge/internal/interact"
	"github.com/olivierh59500/spatial-forge/internal/render"
	"github.com/olivierh59500/spatial-forge/internal/sim"
)

// Clipboard receives accepted results.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// Options configures a Studio.
type Options struct {
	Width, Height float64
	Seed          int64
	Generator     forge.Generator
	Clipboard     Clipboard     // nil uses the system clipboard
	Timeout       time.Duration // per generation request
}

// Studio owns the world and everything that mutates it. All methods except
// the result accessors must be called from the loop goroutine.
type Studio struct {
	world    *sim.World
	ctrl     *interact.Controller
	board    *forge.Board
	renderer *render.Renderer
	gen      forge.Generator
	clip     Clipboard
	timeout  time.Duration

	inflight sync.WaitGroup
}

// New creates a studio.
func New(opts Options) *Studio {
	s := &Studio{
		world:    sim.NewWorld(opts.Width, opts.Height, opts.Seed),
		board:    &forge.Board{},
		renderer: render.NewRenderer(opts.Seed),
		gen:      opts.Generator,
		clip:     opts.Clipboard,
		timeout:  opts.Timeout,
	}
	if s.clip == nil {
		s.clip = systemClipboard{}
	}
	if s.timeout <= 0 {
		s.timeout = 30 * time.Second
	}
	s.ctrl = interact.New(s.world, interact.BinRegion(opts.Width, opts.Height), s.startForge)
	return s
}

// World returns the simulated world.
func (s *Studio) World() *sim.World { return s.world }

// Controller returns the pointer controller.
func (s *Studio) Controller() *interact.Controller { return s.ctrl }

// Board returns the result surface state.
func (s *Studio) Board() *forge.Board { return s.board }

// Count returns the number of live nodes.
func (s *Studio) Count() int { return s.world.Len() }

// Submit adds a node for the trimmed text. Blank input is ignored.
func (s *Studio) Submit(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	s.world.Spawn(text)
	return true
}

// PointerDown, PointerMove and PointerUp forward pointer events to the
// controller. A release over the bin starts a generation.
func (s *Studio) PointerDown(x, y float64) { s.ctrl.PointerDown(x, y) }
func (s *Studio) PointerMove(x, y float64) { s.ctrl.PointerMove(x, y) }
func (s *Studio) PointerUp(x, y float64)   { s.ctrl.PointerUp(x, y) }

// Tick advances the simulation and the animation clock by one frame.
func (s *Studio) Tick() {
	s.world.Step()
	s.renderer.Tick()
}

// Draw renders the current frame onto surf.
func (s *Studio) Draw(surf render.Surface) {
	s.renderer.Frame(surf, s.world)
}

// Resize updates the bounds and re-anchors the bin. Nodes are not moved.
func (s *Studio) Resize(width, height float64) {
	s.world.Resize(width, height)
	s.ctrl.SetBin(interact.BinRegion(width, height))
}

// Accept copies the result, clears every node and closes the result surface.
// It does nothing while the latest request is pending and reports whether
// the result was accepted.
func (s *Studio) Accept() bool {
	if s.board.Pending() {
		return false
	}
	if err := s.clip.WriteAll(s.board.Text()); err != nil {
		log.Printf("forge: failed to copy to clipboard: %v", err)
	}
	s.ctrl.Reset()
	s.world.Clear()
	s.board.Hide()
	return true
}

// Dismiss closes the result surface and keeps the nodes.
func (s *Studio) Dismiss() {
	s.board.Hide()
}

// Wait blocks until every in-flight generation has resolved.
func (s *Studio) Wait() {
	s.inflight.Wait()
}

// startForge runs a generation without blocking the loop.
func (s *Studio) startForge(payload string) {
	token := s.board.Begin()
	if s.gen == nil {
		s.board.Resolve(token, forge.Fallback)
		return
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		text, err := s.gen.Generate(ctx, payload)
		if err != nil {
			log.Printf("forge: generation failed: %v", err)
			text = forge.Fallback
		}
		if !s.board.Resolve(token, text) {
			log.Printf("forge: dropped stale result for request %d", token)
		}
	}()
}

// Snapshot renders the current frame as PNG into w.
func (s *Studio) Snapshot(w io.Writer) error {
	surf, err := render.NewImageSurface(int(s.world.Width), int(s.world.Height))
	if err != nil {
		return err
	}
	s.renderer.Frame(surf, s.world)
	return surf.EncodePNG(w)
}

// SaveSnapshot writes a timestamped PNG into dir and returns its path.
func (s *Studio) SaveSnapshot(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("forge-%d.png", time.Now().UnixNano()))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer f.Close()

	if err := s.Snapshot(f); err != nil {
		return "", fmt.Errorf("failed to render snapshot: %w", err)
	}
	return path, nil
}
