package scene

import (
	"errors"
	"testing"

	"github.com/signalsfoundry/globe-renderer/model"
)

func TestAddPointAssignsID(t *testing.T) {
	s := NewScene()
	id, err := s.AddPoint(model.Point{Coord: model.GeoCoordinate{Lat: 1}})
	if err != nil {
		t.Fatalf("AddPoint: %v", err)
	}
	if id == "" {
		t.Fatal("empty ID assigned")
	}

	id2, err := s.AddPoint(model.Point{Coord: model.GeoCoordinate{Lat: 2}})
	if err != nil {
		t.Fatalf("AddPoint: %v", err)
	}
	if id2 == id {
		t.Fatalf("duplicate auto ID %q", id)
	}
}

func TestAddDuplicateIDFails(t *testing.T) {
	s := NewScene()
	if _, err := s.AddPoint(model.Point{ID: "p"}); err != nil {
		t.Fatalf("AddPoint: %v", err)
	}
	if _, err := s.AddPoint(model.Point{ID: "p"}); !errors.Is(err, ErrPointExists) {
		t.Fatalf("duplicate point error = %v, want ErrPointExists", err)
	}

	if _, err := s.AddRod(model.Rod{ID: "r"}); err != nil {
		t.Fatalf("AddRod: %v", err)
	}
	if _, err := s.AddRod(model.Rod{ID: "r"}); !errors.Is(err, ErrRodExists) {
		t.Fatalf("duplicate rod error = %v, want ErrRodExists", err)
	}

	if _, err := s.AddRegion(model.Region{ID: "g"}); err != nil {
		t.Fatalf("AddRegion: %v", err)
	}
	if _, err := s.AddRegion(model.Region{ID: "g"}); !errors.Is(err, ErrRegionExists) {
		t.Fatalf("duplicate region error = %v, want ErrRegionExists", err)
	}

	if _, err := s.AddConnection(model.Connection{ID: "c"}); err != nil {
		t.Fatalf("AddConnection: %v", err)
	}
	if _, err := s.AddConnection(model.Connection{ID: "c"}); !errors.Is(err, ErrConnectionExists) {
		t.Fatalf("duplicate connection error = %v, want ErrConnectionExists", err)
	}
}

func TestUpdateMissingEntities(t *testing.T) {
	s := NewScene()
	if err := s.UpdatePoint(model.Point{ID: "ghost"}); !errors.Is(err, ErrPointNotFound) {
		t.Errorf("UpdatePoint error = %v, want ErrPointNotFound", err)
	}
	if err := s.MovePoint("ghost", model.GeoCoordinate{}); !errors.Is(err, ErrPointNotFound) {
		t.Errorf("MovePoint error = %v, want ErrPointNotFound", err)
	}
	if err := s.SetConnectionProgress("ghost", 0.5); !errors.Is(err, ErrConnectionNotFound) {
		t.Errorf("SetConnectionProgress error = %v, want ErrConnectionNotFound", err)
	}
}

func TestMovePoint(t *testing.T) {
	s := NewScene()
	id, _ := s.AddPoint(model.Point{ID: "sat", Coord: model.GeoCoordinate{Lat: 10, Lon: 20}})

	if err := s.MovePoint(id, model.GeoCoordinate{Lat: -5, Lon: 140}); err != nil {
		t.Fatalf("MovePoint: %v", err)
	}
	got := s.Snapshot().Points[0].Coord
	if got != (model.GeoCoordinate{Lat: -5, Lon: 140}) {
		t.Fatalf("moved point at %+v", got)
	}
}

func TestSnapshotOrderAndIsolation(t *testing.T) {
	s := NewScene()
	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.AddPoint(model.Point{ID: id}); err != nil {
			t.Fatalf("AddPoint %q: %v", id, err)
		}
	}

	snap := s.Snapshot()
	for i, want := range []string{"a", "b", "c"} {
		if snap.Points[i].ID != want {
			t.Fatalf("snapshot order %v", snap.Points)
		}
	}

	// Edits to the snapshot never reach the store.
	snap.Points[0].Coord = model.GeoCoordinate{Lat: 88}
	if got := s.Snapshot().Points[0].Coord; got != (model.GeoCoordinate{}) {
		t.Fatalf("snapshot mutation leaked into store: %+v", got)
	}

	// Remove and re-add appends at the back.
	s.Remove("a")
	if _, err := s.AddPoint(model.Point{ID: "a"}); err != nil {
		t.Fatalf("re-add: %v", err)
	}
	snap = s.Snapshot()
	if snap.Points[len(snap.Points)-1].ID != "a" {
		t.Fatalf("re-added point not last: %v", snap.Points)
	}
}

func TestRemoveIdempotent(t *testing.T) {
	s := NewScene()
	s.AddPoint(model.Point{ID: "p"})

	var events []Event
	unsub := s.Subscribe(func(ev Event) { events = append(events, ev) })
	defer unsub()

	s.Remove("p")
	s.Remove("p")
	s.Remove("never-existed")

	if len(s.Snapshot().Points) != 0 {
		t.Fatal("point survived removal")
	}
	if len(events) != 1 {
		t.Fatalf("got %d removal events, want 1", len(events))
	}
	if events[0].Type != EventEntityRemoved || events[0].EntityID != "p" {
		t.Fatalf("removal event = %+v", events[0])
	}
}

func TestSubscribeUnsubscribe(t *testing.T) {
	s := NewScene()
	var events []Event
	unsub := s.Subscribe(func(ev Event) { events = append(events, ev) })

	s.AddPoint(model.Point{ID: "p"})
	s.AddConnection(model.Connection{ID: "c"})
	s.SetConnectionProgress("c", 0.3)

	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	if events[0].Type != EventPointUpdated || events[2].Type != EventConnectionUpdated {
		t.Fatalf("events = %+v", events)
	}

	unsub()
	s.AddRod(model.Rod{ID: "r"})
	if len(events) != 3 {
		t.Fatalf("unsubscribed callback still fired: %d events", len(events))
	}
}

func TestUnsubscribeOutOfOrder(t *testing.T) {
	s := NewScene()
	var gotA, gotB, gotC int
	unsubA := s.Subscribe(func(Event) { gotA++ })
	unsubB := s.Subscribe(func(Event) { gotB++ })
	unsubC := s.Subscribe(func(Event) { gotC++ })
	defer unsubC()

	// Removing an earlier subscriber must not shift a later one out.
	unsubA()
	unsubB()

	s.AddPoint(model.Point{ID: "p"})
	if gotA != 0 || gotB != 0 {
		t.Fatalf("unsubscribed callbacks fired: a=%d b=%d", gotA, gotB)
	}
	if gotC != 1 {
		t.Fatalf("remaining subscriber got %d events, want 1", gotC)
	}

	// Unsubscribing twice is a no-op.
	unsubB()
	s.AddPoint(model.Point{ID: "q"})
	if gotC != 2 {
		t.Fatalf("remaining subscriber got %d events, want 2", gotC)
	}
}

func TestSubscriberMayEditScene(t *testing.T) {
	s := NewScene()
	unsub := s.Subscribe(func(ev Event) {
		if ev.Type == EventPointUpdated && ev.EntityID == "trigger" {
			s.AddRod(model.Rod{ID: "added-by-subscriber"})
		}
	})
	defer unsub()

	if _, err := s.AddPoint(model.Point{ID: "trigger"}); err != nil {
		t.Fatalf("AddPoint: %v", err)
	}
	if len(s.Snapshot().Rods) != 1 {
		t.Fatal("subscriber edit did not land")
	}
}
