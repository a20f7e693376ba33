package region

import (
	"fmt"
	"sync"

	"text-overlay/pkg/geometry"
)

// Command is a mutation applied to the store. The UI translates pointer
// interactions into commands rather than touching regions directly, keeping
// the model independent of any particular toolkit.
type Command interface {
	apply(s *Store) (*Region, error)
}

// Create adds a new region. Style zero value means DefaultStyle.
type Create struct {
	Rect       geometry.RectInt
	Text       string
	Style      *Style
	Source     Source
	Confidence float64
}

// Move repositions a region's rectangle, clamped to the image bounds.
type Move struct {
	ID int
	To geometry.PointInt
}

// Resize replaces a region's rectangle, clamped to the image bounds.
type Resize struct {
	ID   int
	Rect geometry.RectInt
}

// Delete removes a region.
type Delete struct {
	ID int
}

// SetText replaces a region's text.
type SetText struct {
	ID   int
	Text string
}

// SetStyle replaces a region's style.
type SetStyle struct {
	ID    int
	Style Style
}

// SetVisible toggles whether a region is drawn.
type SetVisible struct {
	ID      int
	Visible bool
}

// Store holds the ordered region collection for one document. All mutation
// goes through Apply; reads return copies so render calls see an immutable
// snapshot.
type Store struct {
	mu        sync.RWMutex
	bounds    geometry.RectInt
	regions   []*Region
	nextID    int
	listeners []func()
}

// NewStore creates an empty store clamped to the given image bounds.
func NewStore(bounds geometry.RectInt) *Store {
	return &Store{bounds: bounds, nextID: 1}
}

// SetBounds updates the target image bounds and re-clamps every region.
func (s *Store) SetBounds(bounds geometry.RectInt) {
	s.mu.Lock()
	s.bounds = bounds
	for _, r := range s.regions {
		r.Rect = r.Rect.ClampTo(bounds)
	}
	s.mu.Unlock()
	s.notify()
}

// Bounds returns the current target image bounds.
func (s *Store) Bounds() geometry.RectInt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bounds
}

// OnChange registers a listener called after every successful mutation.
func (s *Store) OnChange(listener func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *Store) notify() {
	s.mu.RLock()
	listeners := s.listeners
	s.mu.RUnlock()
	for _, l := range listeners {
		l()
	}
}

// Apply executes a command and returns the affected region (a copy), if any.
func (s *Store) Apply(cmd Command) (*Region, error) {
	r, err := cmd.apply(s)
	if err != nil {
		return nil, err
	}
	s.notify()
	return r, nil
}

func (c Create) apply(s *Store) (*Region, error) {
	style := DefaultStyle()
	if c.Style != nil {
		style = *c.Style
	}
	source := c.Source
	if source == "" {
		source = SourceManual
	}
	r := &Region{
		Rect:       c.Rect,
		Text:       c.Text,
		Style:      style,
		Source:     source,
		Visible:    true,
		Confidence: c.Confidence,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	r.ID = s.nextID
	s.nextID++
	if !s.bounds.Empty() {
		r.Rect = r.Rect.ClampTo(s.bounds)
	}
	s.regions = append(s.regions, r)
	out := *r
	s.mu.Unlock()
	return &out, nil
}

func (c Move) apply(s *Store) (*Region, error) {
	return s.update(c.ID, func(r *Region) error {
		moved := r.Rect
		moved.X, moved.Y = c.To.X, c.To.Y
		if !s.bounds.Empty() {
			moved = moved.ClampTo(s.bounds)
		}
		r.Rect = moved
		return nil
	})
}

func (c Resize) apply(s *Store) (*Region, error) {
	if c.Rect.Width < 0 || c.Rect.Height < 0 {
		return nil, fmt.Errorf("resize region %d: negative size %dx%d", c.ID, c.Rect.Width, c.Rect.Height)
	}
	return s.update(c.ID, func(r *Region) error {
		rect := c.Rect
		if !s.bounds.Empty() {
			rect = rect.ClampTo(s.bounds)
		}
		r.Rect = rect
		return nil
	})
}

func (c Delete) apply(s *Store) (*Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.regions {
		if r.ID == c.ID {
			out := *r
			s.regions = append(s.regions[:i], s.regions[i+1:]...)
			return &out, nil
		}
	}
	return nil, fmt.Errorf("region %d not found", c.ID)
}

func (c SetText) apply(s *Store) (*Region, error) {
	return s.update(c.ID, func(r *Region) error {
		r.Text = c.Text
		return nil
	})
}

func (c SetStyle) apply(s *Store) (*Region, error) {
	if err := c.Style.Validate(); err != nil {
		return nil, err
	}
	return s.update(c.ID, func(r *Region) error {
		r.Style = c.Style
		return nil
	})
}

func (c SetVisible) apply(s *Store) (*Region, error) {
	return s.update(c.ID, func(r *Region) error {
		r.Visible = c.Visible
		return nil
	})
}

// update locates a region by ID, mutates it under the lock, and returns a
// copy of the result.
func (s *Store) update(id int, fn func(*Region) error) (*Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.regions {
		if r.ID == id {
			if err := fn(r); err != nil {
				return nil, err
			}
			out := *r
			return &out, nil
		}
	}
	return nil, fmt.Errorf("region %d not found", id)
}

// Get returns a copy of the region with the given ID.
func (s *Store) Get(id int) (*Region, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.regions {
		if r.ID == id {
			out := *r
			return &out, true
		}
	}
	return nil, false
}

// Regions returns a snapshot copy of all regions in creation order.
func (s *Store) Regions() []Region {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Region, len(s.regions))
	for i, r := range s.regions {
		out[i] = *r
	}
	return out
}

// Len returns the number of regions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.regions)
}

// HitTest returns the topmost region containing the point, preferring the
// most recently created one.
func (s *Store) HitTest(p geometry.PointInt) (*Region, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.regions) - 1; i >= 0; i-- {
		if s.regions[i].Rect.Contains(p) {
			out := *s.regions[i]
			return &out, true
		}
	}
	return nil, false
}

// Replace swaps the whole collection, used when loading a document. IDs are
// preserved; the next ID continues past the highest seen.
func (s *Store) Replace(regions []Region) {
	s.mu.Lock()
	s.regions = s.regions[:0]
	maxID := 0
	for i := range regions {
		r := regions[i]
		if !s.bounds.Empty() {
			r.Rect = r.Rect.ClampTo(s.bounds)
		}
		s.regions = append(s.regions, &r)
		if r.ID > maxID {
			maxID = r.ID
		}
	}
	s.nextID = maxID + 1
	s.mu.Unlock()
	s.notify()
}

// Clear removes every region.
func (s *Store) Clear() {
	s.mu.Lock()
	s.regions = nil
	s.nextID = 1
	s.mu.Unlock()
	s.notify()
}
