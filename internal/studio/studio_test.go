package studio

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/olivierh59500/spatial-forge/internal/forge"
)

type fakeClipboard struct {
	mu   sync.Mutex
	text []string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = append(c.text, text)
	return c.err
}

// recordingGenerator records payloads and answers with reply.
type recordingGenerator struct {
	mu       sync.Mutex
	payloads []string
	reply    string
	err      error
}

func (g *recordingGenerator) Generate(ctx context.Context, payload string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.payloads = append(g.payloads, payload)
	return g.reply, g.err
}

func (g *recordingGenerator) seen() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.payloads...)
}

func newStudio(gen forge.Generator, clip Clipboard) *Studio {
	return New(Options{Width: 800, Height: 600, Seed: 42, Generator: gen, Clipboard: clip})
}

// dropOnBin drags the first node into the bin and releases it there.
func dropOnBin(s *Studio) {
	n := s.World().Nodes[0]
	s.PointerMove(n.X, n.Y)
	s.PointerDown(n.X, n.Y)
	bin := s.Controller().Bin()
	x, y := (bin.Left+bin.Right)/2, bin.Top+10
	s.PointerMove(x, y)
	s.PointerUp(x, y)
}

func TestSubmit(t *testing.T) {
	s := newStudio(nil, &fakeClipboard{})

	tests := []struct {
		input string
		ok    bool
		label string
	}{
		{"cat", true, "cat"},
		{"  dog \n", true, "dog"},
		{"", false, ""},
		{"   \t ", false, ""},
	}

	count := 0
	for _, tt := range tests {
		if got := s.Submit(tt.input); got != tt.ok {
			t.Errorf("Submit(%q) = %v, want %v", tt.input, got, tt.ok)
		}
		if tt.ok {
			count++
			labels := s.World().Labels()
			if labels[len(labels)-1] != tt.label {
				t.Errorf("label = %q, want %q", labels[len(labels)-1], tt.label)
			}
		}
		if s.Count() != count {
			t.Errorf("Count() = %d, want %d", s.Count(), count)
		}
	}
}

func TestDropSendsJoinedLabels(t *testing.T) {
	gen := &recordingGenerator{reply: "A refined prompt"}
	s := newStudio(gen, &fakeClipboard{})
	s.Submit("cat")
	s.Submit("dog")

	dropOnBin(s)
	s.Wait()

	if got := gen.seen(); len(got) != 1 || got[0] != "cat, dog" {
		t.Fatalf("payloads = %q, want [\"cat, dog\"]", got)
	}
	b := s.Board()
	if !b.Visible() || b.Pending() || b.Text() != "A refined prompt" {
		t.Errorf("board visible=%v pending=%v text=%q", b.Visible(), b.Pending(), b.Text())
	}
}

func TestFailureShowsFallback(t *testing.T) {
	gen := &recordingGenerator{err: errors.New("connection refused")}
	s := newStudio(gen, &fakeClipboard{})
	s.Submit("cat")
	s.Submit("dog")

	dropOnBin(s)
	s.Wait()

	if got := s.Board().Text(); got != "Forge Error. Check API Key." {
		t.Errorf("text = %q", got)
	}
	if s.Count() != 2 {
		t.Errorf("Count() = %d, nodes must survive a failure", s.Count())
	}
}

func TestNilGeneratorShowsFallback(t *testing.T) {
	s := newStudio(nil, &fakeClipboard{})
	s.Submit("cat")

	dropOnBin(s)

	if s.Board().Text() != forge.Fallback {
		t.Errorf("text = %q", s.Board().Text())
	}
}

func TestAcceptClearsNodes(t *testing.T) {
	clip := &fakeClipboard{}
	s := newStudio(&recordingGenerator{reply: "final prompt"}, clip)
	s.Submit("cat")
	s.Submit("dog")
	dropOnBin(s)
	s.Wait()

	s.Accept()

	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
	if s.Board().Visible() {
		t.Error("result surface should close")
	}
	if len(clip.text) != 1 || clip.text[0] != "final prompt" {
		t.Errorf("clipboard = %q", clip.text)
	}
	if s.World().Dragged != nil {
		t.Error("accept should release any drag")
	}
}

func TestAcceptIgnoresClipboardFailure(t *testing.T) {
	s := newStudio(&recordingGenerator{reply: "x"}, &fakeClipboard{err: errors.New("no display")})
	s.Submit("cat")
	dropOnBin(s)
	s.Wait()

	s.Accept()
	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
}

func TestDismissKeepsNodes(t *testing.T) {
	clip := &fakeClipboard{}
	s := newStudio(&recordingGenerator{reply: "x"}, clip)
	s.Submit("cat")
	s.Submit("dog")
	dropOnBin(s)
	s.Wait()

	s.Dismiss()

	if s.Count() != 2 {
		t.Errorf("Count() = %d, want 2", s.Count())
	}
	if s.Board().Visible() {
		t.Error("result surface should close")
	}
	if len(clip.text) != 0 {
		t.Error("dismiss should not touch the clipboard")
	}
}

func TestPendingWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	gen := forge.GeneratorFunc(func(ctx context.Context, payload string) (string, error) {
		<-release
		return "done", nil
	})
	s := newStudio(gen, &fakeClipboard{})
	s.Submit("cat")

	dropOnBin(s)

	if !s.Board().Pending() || s.Board().Text() != forge.Pending {
		t.Errorf("expected pending board, got %q", s.Board().Text())
	}
	// The loop keeps running while the request is outstanding.
	before := s.World().Nodes[0].X
	s.PointerMove(-1000, -1000)
	s.World().Nodes[0].VX = 5
	s.Tick()
	if s.World().Nodes[0].X == before {
		t.Error("simulation should advance during a request")
	}

	close(release)
	s.Wait()
	if s.Board().Text() != "done" {
		t.Errorf("text = %q", s.Board().Text())
	}
}

func TestLatestRequestWins(t *testing.T) {
	firstGate := make(chan struct{})
	gen := forge.GeneratorFunc(func(ctx context.Context, payload string) (string, error) {
		if payload == "cat" {
			<-firstGate
			return "first", nil
		}
		return "second", nil
	})
	s := newStudio(gen, &fakeClipboard{})

	s.Submit("cat")
	dropOnBin(s)
	s.Submit("dog")
	dropOnBin(s)

	// Let the second request finish before releasing the first.
	deadline := time.Now().Add(5 * time.Second)
	for s.Board().Text() != "second" {
		if time.Now().After(deadline) {
			close(firstGate)
			t.Fatalf("second request never resolved, text = %q", s.Board().Text())
		}
		time.Sleep(time.Millisecond)
	}
	close(firstGate)
	s.Wait()

	if got := s.Board().Text(); got != "second" {
		t.Errorf("text = %q, want the latest request's result", got)
	}
}

func TestAcceptWhilePending(t *testing.T) {
	release := make(chan struct{})
	gen := forge.GeneratorFunc(func(ctx context.Context, payload string) (string, error) {
		<-release
		return "done", nil
	})
	clip := &fakeClipboard{}
	s := newStudio(gen, clip)
	s.Submit("cat")
	dropOnBin(s)

	if s.Accept() {
		t.Error("Accept should refuse while the request is pending")
	}
	if s.Count() != 1 || len(clip.text) != 0 || !s.Board().Visible() {
		t.Errorf("count=%d clipboard=%q visible=%v", s.Count(), clip.text, s.Board().Visible())
	}

	close(release)
	s.Wait()
	if !s.Accept() {
		t.Error("Accept should succeed once the result arrives")
	}
	if s.Count() != 0 || len(clip.text) != 1 || clip.text[0] != "done" {
		t.Errorf("count=%d clipboard=%q", s.Count(), clip.text)
	}
}

func TestResizeMovesBinNotNodes(t *testing.T) {
	s := newStudio(nil, &fakeClipboard{})
	s.Submit("cat")
	n := s.World().Nodes[0]
	x, y := n.X, n.Y

	s.Resize(200, 200)

	if n.X != x || n.Y != y {
		t.Error("resize should not move nodes")
	}
	if s.World().Width != 200 || s.World().Height != 200 {
		t.Errorf("bounds = %vx%v", s.World().Width, s.World().Height)
	}
	if bin := s.Controller().Bin(); bin.Right > 200 || bin.Left < 0 {
		t.Errorf("bin %+v not re-anchored", bin)
	}
}

func TestSnapshot(t *testing.T) {
	s := newStudio(nil, &fakeClipboard{})
	s.Submit("cat")
	s.Submit("dog")
	s.Tick()

	var buf bytes.Buffer
	if err := s.Snapshot(&buf); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Errorf("size = %v", b)
	}

	dir := filepath.Join(t.TempDir(), "shots")
	path, err := s.SaveSnapshot(dir)
	if err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "forge-") || filepath.Ext(path) != ".png" {
		t.Errorf("path = %q", path)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("snapshot file missing or empty: %v", err)
	}
}
