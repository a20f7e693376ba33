package app

import (
	"log"
	"time"
)

// Autosaver periodically saves the current document while it has unsaved
// changes. Documents that have never been saved are left alone so the user
// still chooses the initial path.
type Autosaver struct {
	state    *State
	interval time.Duration
	stopCh   chan struct{}
	onSave   func(path string)
}

// NewAutosaver creates an autosaver for the given state. Returns nil when
// the interval is zero or negative.
func NewAutosaver(state *State, interval time.Duration) *Autosaver {
	if interval <= 0 {
		return nil
	}
	return &Autosaver{
		state:    state,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// OnSave sets the callback invoked after each successful autosave. The
// callback is called from a background goroutine - use appropriate
// synchronization if updating UI.
func (a *Autosaver) OnSave(callback func(path string)) {
	a.onSave = callback
}

// Start begins the autosave loop in a background goroutine.
func (a *Autosaver) Start() {
	a.stopCh = make(chan struct{})
	go a.saveLoop()
}

// Stop stops the autosave goroutine.
func (a *Autosaver) Stop() {
	close(a.stopCh)
}

func (a *Autosaver) saveLoop() {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			a.saveIfNeeded()
		}
	}
}

func (a *Autosaver) saveIfNeeded() {
	a.state.mu.RLock()
	path := a.state.DocumentPath
	modified := a.state.Modified
	a.state.mu.RUnlock()

	if path == "" || !modified {
		return
	}

	if err := a.state.SaveDocument(path); err != nil {
		log.Printf("autosave failed: %v", err)
		return
	}
	if a.onSave != nil {
		a.onSave(path)
	}
}
