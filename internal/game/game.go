// Package game runs a studio inside an ebiten window.
package game

import (
	"bytes"
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/olivierh59500/spatial-forge/internal/interact"
	"github.com/olivierh59500/spatial-forge/internal/render"
	"github.com/olivierh59500/spatial-forge/internal/studio"
)

const (
	maxEntryRunes = 48
	statusTicks   = 180 // 3 seconds at 60 TPS
	uiTextSize    = 14.0
)

// Game implements ebiten.Game. Update is the simulation tick.
type Game struct {
	studio      *studio.Studio
	surf        *Surface
	uiFace      *text.GoTextFace
	snapshotDir string

	entry []rune
	chars []rune

	width, height int
	lastX, lastY  int

	status      string
	statusTicks int
}

// New creates a game driving s. Snapshots are written to snapshotDir.
func New(s *studio.Studio, snapshotDir string) (*Game, error) {
	bold, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load label font: %w", err)
	}
	regular, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("failed to load ui font: %w", err)
	}

	w := s.World()
	return &Game{
		studio:      s,
		surf:        &Surface{face: &text.GoTextFace{Source: bold, Size: render.LabelSize}},
		uiFace:      &text.GoTextFace{Source: regular, Size: uiTextSize},
		snapshotDir: snapshotDir,
		width:       int(w.Width),
		height:      int(w.Height),
		lastX:       -1 << 30,
		lastY:       -1 << 30,
	}, nil
}

// Update is called each tick by Ebitengine
func (g *Game) Update() error {
	g.handleKeys()
	g.handlePointer()
	g.studio.Tick()

	if g.statusTicks > 0 {
		g.statusTicks--
	}
	return nil
}

// Draw is called each frame by Ebitengine
func (g *Game) Draw(screen *ebiten.Image) {
	g.surf.dst = screen
	g.studio.Draw(g.surf)

	g.drawBin(screen)
	g.drawEntry(screen)
	g.drawCounter(screen)
	if g.statusTicks > 0 {
		g.drawStatus(screen)
	}
	if g.studio.Board().Visible() {
		g.drawResult(screen)
	}
}

// Layout follows the window size so resizes reach the simulation.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.studio.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// handleKeys processes text entry and result surface shortcuts
func (g *Game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF2) {
		g.snapshot()
	}

	g.chars = ebiten.AppendInputChars(g.chars[:0])
	enter := inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyNumpadEnter)

	if g.studio.Board().Visible() {
		switch {
		case enter:
			g.studio.Accept()
		case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
			g.studio.Dismiss()
		}
		return
	}

	for _, r := range g.chars {
		if len(g.entry) < maxEntryRunes {
			g.entry = append(g.entry, r)
		}
	}
	if repeatingKeyPressed(ebiten.KeyBackspace) && len(g.entry) > 0 {
		g.entry = g.entry[:len(g.entry)-1]
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.entry = g.entry[:0]
	}
	if enter && g.studio.Submit(string(g.entry)) {
		g.entry = g.entry[:0]
	}
}

// handlePointer forwards mouse motion, presses and releases to the studio
func (g *Game) handlePointer() {
	x, y := ebiten.CursorPosition()
	fx, fy := float64(x), float64(y)

	if x != g.lastX || y != g.lastY || g.studio.Controller().State() == interact.Dragging {
		g.studio.PointerMove(fx, fy)
		g.lastX, g.lastY = x, y
	}
	// Clicks go to the result surface while it is open.
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !g.studio.Board().Visible() {
		g.studio.PointerDown(fx, fy)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		g.studio.PointerUp(fx, fy)
	}
}

func (g *Game) snapshot() {
	path, err := g.studio.SaveSnapshot(g.snapshotDir)
	if err != nil {
		log.Printf("forge: snapshot failed: %v", err)
		g.setStatus("Snapshot failed")
		return
	}
	log.Printf("forge: snapshot saved to %s", path)
	g.setStatus("Saved " + path)
}

func (g *Game) setStatus(s string) {
	g.status = s
	g.statusTicks = statusTicks
}

// repeatingKeyPressed reports a press on the first frame and then at a
// steady rate while the key is held.
func repeatingKeyPressed(key ebiten.Key) bool {
	const (
		delay    = 30
		interval = 3
	)
	d := inpututil.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= delay && (d-delay)%interval == 0
}
