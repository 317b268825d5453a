package store

import "sync"

// Slot holds the current bearer credential, if any.
type Slot struct {
	acquire sync.Mutex
	mux     sync.RWMutex
	bearer  string
	present bool
}

// NewSlot creates a slot; an empty bearer leaves it empty.
func NewSlot(bearer string) *Slot {
	return &Slot{bearer: bearer, present: bearer != ""}
}

// Read returns the cached bearer credential. It never blocks for the duration
// of an acquisition.
func (s *Slot) Read() (string, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.bearer, s.present
}

// Acquire blocks until the caller holds exclusive write access to the slot.
// The returned guard must be released, typically with defer.
func (s *Slot) Acquire() *Guard {
	s.acquire.Lock()
	return &Guard{slot: s}
}

// Guard is the exclusive write scope of a Slot.
type Guard struct {
	slot     *Slot
	released bool
}

// Read returns the cached bearer credential.
func (g *Guard) Read() (string, bool) {
	return g.slot.Read()
}

// Set caches bearer. An empty bearer clears the slot.
func (g *Guard) Set(bearer string) {
	g.mustHold()
	g.slot.mux.Lock()
	defer g.slot.mux.Unlock()
	g.slot.bearer = bearer
	g.slot.present = bearer != ""
}

// Clear removes the cached bearer credential.
func (g *Guard) Clear() {
	g.Set("")
}

// Release gives up exclusive access. It is safe to call more than once.
func (g *Guard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.slot.acquire.Unlock()
}

func (g *Guard) mustHold() {
	if g.released {
		panic("store: slot guard used after release")
	}
}
