package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/signalsfoundry/globe-renderer/model"
)

// Sentinel errors for entity registration.
var (
	ErrPointExists        = errors.New("point already exists")
	ErrPointNotFound      = errors.New("point not found")
	ErrRodExists          = errors.New("rod already exists")
	ErrRodNotFound        = errors.New("rod not found")
	ErrRegionExists       = errors.New("region already exists")
	ErrRegionNotFound     = errors.New("region not found")
	ErrConnectionExists   = errors.New("connection already exists")
	ErrConnectionNotFound = errors.New("connection not found")
)

// EventType indicates what kind of change happened in the scene.
type EventType int

const (
	EventPointUpdated EventType = iota
	EventRodUpdated
	EventRegionUpdated
	EventConnectionUpdated
	EventEntityRemoved
)

// Event is emitted to subscribers when the scene changes between frames.
type Event struct {
	Type     EventType
	EntityID string
}

// Scene is an in-memory, thread-safe store for the entities a host feeds
// into the renderer. The renderer itself never touches it: hosts mutate
// the scene between frames and hand the renderer an isolated Snapshot,
// so a pass can never observe a concurrent edit.
type Scene struct {
	mu sync.RWMutex

	points      map[string]model.Point
	rods        map[string]model.Rod
	regions     map[string]model.Region
	connections map[string]model.Connection

	// order preserves insertion order per kind so frames draw
	// deterministically.
	order map[string][]string

	subs    []subscriber
	nextSub int
}

// subscriber pairs a callback with the token handed back by Subscribe so
// unsubscribing stays correct after earlier subscribers have left.
type subscriber struct {
	token int
	fn    func(Event)
}

// NewScene constructs an empty scene.
func NewScene() *Scene {
	return &Scene{
		points:      make(map[string]model.Point),
		rods:        make(map[string]model.Rod),
		regions:     make(map[string]model.Region),
		connections: make(map[string]model.Connection),
		order: map[string][]string{
			"point": nil, "rod": nil, "region": nil, "connection": nil,
		},
	}
}

// AddPoint adds a point, assigning a fresh UUID when the ID is empty. The
// assigned ID is returned. Adding a duplicate ID fails.
func (s *Scene) AddPoint(p model.Point) (string, error) {
	s.mu.Lock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if _, exists := s.points[p.ID]; exists {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: %q", ErrPointExists, p.ID)
	}
	s.points[p.ID] = p
	s.order["point"] = append(s.order["point"], p.ID)
	s.mu.Unlock()

	s.notify(Event{Type: EventPointUpdated, EntityID: p.ID})
	return p.ID, nil
}

// UpdatePoint replaces an existing point.
func (s *Scene) UpdatePoint(p model.Point) error {
	s.mu.Lock()
	if _, ok := s.points[p.ID]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrPointNotFound, p.ID)
	}
	s.points[p.ID] = p
	s.mu.Unlock()

	s.notify(Event{Type: EventPointUpdated, EntityID: p.ID})
	return nil
}

// MovePoint updates just the coordinate of an existing point.
func (s *Scene) MovePoint(id string, coord model.GeoCoordinate) error {
	s.mu.Lock()
	p, ok := s.points[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrPointNotFound, id)
	}
	p.Coord = coord
	s.points[id] = p
	s.mu.Unlock()

	s.notify(Event{Type: EventPointUpdated, EntityID: id})
	return nil
}

// AddRod adds a rod, assigning a fresh UUID when the ID is empty.
func (s *Scene) AddRod(r model.Rod) (string, error) {
	s.mu.Lock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if _, exists := s.rods[r.ID]; exists {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: %q", ErrRodExists, r.ID)
	}
	s.rods[r.ID] = r
	s.order["rod"] = append(s.order["rod"], r.ID)
	s.mu.Unlock()

	s.notify(Event{Type: EventRodUpdated, EntityID: r.ID})
	return r.ID, nil
}

// AddRegion adds a region, assigning a fresh UUID when the ID is empty.
func (s *Scene) AddRegion(r model.Region) (string, error) {
	s.mu.Lock()
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if _, exists := s.regions[r.ID]; exists {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: %q", ErrRegionExists, r.ID)
	}
	s.regions[r.ID] = r
	s.order["region"] = append(s.order["region"], r.ID)
	s.mu.Unlock()

	s.notify(Event{Type: EventRegionUpdated, EntityID: r.ID})
	return r.ID, nil
}

// AddConnection adds a connection, assigning a fresh UUID when the ID is
// empty.
func (s *Scene) AddConnection(c model.Connection) (string, error) {
	s.mu.Lock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, exists := s.connections[c.ID]; exists {
		s.mu.Unlock()
		return "", fmt.Errorf("%w: %q", ErrConnectionExists, c.ID)
	}
	s.connections[c.ID] = c
	s.order["connection"] = append(s.order["connection"], c.ID)
	s.mu.Unlock()

	s.notify(Event{Type: EventConnectionUpdated, EntityID: c.ID})
	return c.ID, nil
}

// SetConnectionProgress updates the draw-in progress of a connection.
func (s *Scene) SetConnectionProgress(id string, progress float64) error {
	s.mu.Lock()
	c, ok := s.connections[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrConnectionNotFound, id)
	}
	c.Progress = progress
	s.connections[id] = c
	s.mu.Unlock()

	s.notify(Event{Type: EventConnectionUpdated, EntityID: id})
	return nil
}

// Remove deletes an entity of any kind by ID. Unknown IDs are a no-op:
// removal is idempotent.
func (s *Scene) Remove(id string) {
	s.mu.Lock()
	removed := false
	if _, ok := s.points[id]; ok {
		delete(s.points, id)
		s.dropOrder("point", id)
		removed = true
	}
	if _, ok := s.rods[id]; ok {
		delete(s.rods, id)
		s.dropOrder("rod", id)
		removed = true
	}
	if _, ok := s.regions[id]; ok {
		delete(s.regions, id)
		s.dropOrder("region", id)
		removed = true
	}
	if _, ok := s.connections[id]; ok {
		delete(s.connections, id)
		s.dropOrder("connection", id)
		removed = true
	}
	s.mu.Unlock()

	if removed {
		s.notify(Event{Type: EventEntityRemoved, EntityID: id})
	}
}

func (s *Scene) dropOrder(kind, id string) {
	ids := s.order[kind]
	for i, v := range ids {
		if v == id {
			s.order[kind] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

// Entities is one frame's isolated copy of the scene contents, in stable
// insertion order. Mutating it never touches the store.
type Entities struct {
	Points      []model.Point
	Rods        []model.Rod
	Regions     []model.Region
	Connections []model.Connection
}

// Snapshot copies the current entities for one render pass.
func (s *Scene) Snapshot() Entities {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Entities{
		Points:      make([]model.Point, 0, len(s.points)),
		Rods:        make([]model.Rod, 0, len(s.rods)),
		Regions:     make([]model.Region, 0, len(s.regions)),
		Connections: make([]model.Connection, 0, len(s.connections)),
	}
	for _, id := range s.order["point"] {
		out.Points = append(out.Points, s.points[id])
	}
	for _, id := range s.order["rod"] {
		out.Rods = append(out.Rods, s.rods[id])
	}
	for _, id := range s.order["region"] {
		out.Regions = append(out.Regions, s.regions[id])
	}
	for _, id := range s.order["connection"] {
		out.Connections = append(out.Connections, s.connections[id])
	}
	return out
}

// Subscribe registers a callback for scene events. It returns an
// unsubscribe function.
func (s *Scene) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{token: token, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.token == token {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// notify fans out an event outside the lock to avoid deadlocks when a
// subscriber edits the scene.
func (s *Scene) notify(ev Event) {
	s.mu.RLock()
	subs := append([]subscriber{}, s.subs...)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.fn(ev)
	}
}
