package forge

import "sync"

// Board is the result surface state. Responses arrive from request
// goroutines; only the response to the most recent request is applied.
type Board struct {
	mu      sync.Mutex
	visible bool
	pending bool
	text    string
	latest  uint64
}

// Begin shows the board in its pending state and returns the token the
// response must carry.
func (b *Board) Begin() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest++
	b.visible = true
	b.pending = true
	b.text = Pending
	return b.latest
}

// Resolve sets the result text if token belongs to the latest request.
// It reports whether the text was applied.
func (b *Board) Resolve(token uint64, text string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if token != b.latest {
		return false
	}
	b.pending = false
	b.text = text
	return true
}

// Hide closes the board without touching its text.
func (b *Board) Hide() {
	b.mu.Lock()
	b.visible = false
	b.mu.Unlock()
}

// Text returns the current result text.
func (b *Board) Text() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.text
}

// Visible reports whether the board is shown.
func (b *Board) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

// Pending reports whether the latest request is still outstanding.
func (b *Board) Pending() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pending
}
