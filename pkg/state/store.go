// Package state holds the session-lived dashboard state: the room catalog,
// the event list for the visible calendar range, the battery map and the
// shared selected date. Each field has a single writing component; the store
// only guards against readers observing a half-applied update.
package state

import (
	"sync"
	"time"

	"github.com/moritzgrimm/raumboard/pkg/models"
)

// Store is the shared dashboard state.
type Store struct {
	mu sync.RWMutex

	rooms     []models.Room
	events    []models.Event
	batteries map[string]models.BatteryStatus

	selectedDate time.Time
	selectedRoom int // index into rooms
}

// New creates a store with the given catalog. The selected date defaults to
// now so it is always defined after first render.
func New(rooms []models.Room) *Store {
	return &Store{
		rooms:        rooms,
		batteries:    make(map[string]models.BatteryStatus),
		selectedDate: time.Now(),
	}
}

// Rooms returns a copy of the room catalog.
func (s *Store) Rooms() []models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Room, len(s.rooms))
	copy(out, s.rooms)
	return out
}

// SetRooms replaces the catalog wholesale and clamps the room selection.
func (s *Store) SetRooms(rooms []models.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms = rooms
	if s.selectedRoom >= len(rooms) {
		s.selectedRoom = 0
	}
}

// Events returns a copy of the visible event list.
func (s *Store) Events() []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Event, len(s.events))
	copy(out, s.events)
	return out
}

// ReplaceEvents swaps in a freshly fetched event list. The list is always
// replaced wholesale, never merged.
func (s *Store) ReplaceEvents(events []models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = events
}

// AppendEvent adds a locally created event, used for the optimistic append
// after a successful booking. The next full refetch makes the server
// authoritative again.
func (s *Store) AppendEvent(event models.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// SetBatteries replaces the battery map wholesale from one telemetry poll.
func (s *Store) SetBatteries(statuses []models.BatteryStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batteries = make(map[string]models.BatteryStatus, len(statuses))
	for _, st := range statuses {
		s.batteries[st.RoomID] = st
	}
}

// Batteries returns a copy of the battery map from the last telemetry poll.
func (s *Store) Batteries() map[string]models.BatteryStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.BatteryStatus, len(s.batteries))
	for roomID, st := range s.batteries {
		out[roomID] = st
	}
	return out
}

// Battery returns the status for a room. ok is false when the room is
// unknown to the telemetry source.
func (s *Store) Battery(roomID string) (models.BatteryStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.batteries[roomID]
	return st, ok
}

// SelectedDate returns the shared selected date.
func (s *Store) SelectedDate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedDate
}

// SetSelectedDate updates the shared selected date. Zero values are ignored
// so the date stays defined.
func (s *Store) SetSelectedDate(t time.Time) {
	if t.IsZero() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedDate = t
}

// SelectedRoom returns the currently selected catalog entry.
func (s *Store) SelectedRoom() (models.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.rooms) == 0 {
		return models.Room{}, false
	}
	return s.rooms[s.selectedRoom], true
}

// SelectedRoomIndex returns the index of the selected room.
func (s *Store) SelectedRoomIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedRoom
}

// SetSelectedRoomIndex selects a catalog entry; out-of-range values are
// ignored.
func (s *Store) SetSelectedRoomIndex(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.rooms) {
		return
	}
	s.selectedRoom = i
}
