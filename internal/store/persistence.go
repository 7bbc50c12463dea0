package store

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"github.com/i474232898/weather-reminders/internal/calendar"
)

// Slot names under which the calendar state is persisted.
const (
	KeyReminders = "calendar_reminders"
	KeyNextID    = "calendar_next_id"
)

// Backend is raw key/value storage scoped to the application.
type Backend interface {
	// Get returns the stored value and whether the key was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Persistence implements calendar.Persistence on top of a Backend.
// Loads fall back to typed defaults and saves swallow errors; both log.
type Persistence struct {
	backend Backend
}

var _ calendar.Persistence = (*Persistence)(nil)

// NewPersistence creates a new Persistence.
func NewPersistence(backend Backend) *Persistence {
	return &Persistence{backend: backend}
}

// LoadReminders returns the saved reminder list, or an empty list when the
// slot is missing, empty or unreadable.
func (p *Persistence) LoadReminders() []calendar.Reminder {
	raw, ok := p.load(KeyReminders)
	if !ok {
		return []calendar.Reminder{}
	}

	var reminders []calendar.Reminder
	if err := json.Unmarshal([]byte(raw), &reminders); err != nil {
		log.Printf("ERROR: failed to load reminders from storage: %v", err)
		return []calendar.Reminder{}
	}
	if reminders == nil {
		reminders = []calendar.Reminder{}
	}
	return reminders
}

// LoadNextID returns the saved id counter, or 1 when the slot is missing,
// empty, unreadable or not a positive integer.
func (p *Persistence) LoadNextID() int {
	raw, ok := p.load(KeyNextID)
	if !ok {
		return 1
	}

	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("ERROR: failed to load next ID from storage: %v", err)
		return 1
	}
	if n < 1 {
		log.Printf("ERROR: failed to load next ID from storage: non-positive value %d", n)
		return 1
	}
	return n
}

// SaveReminders writes the reminder list. Failures are logged and dropped;
// the previous stored value is left in place.
func (p *Persistence) SaveReminders(reminders []calendar.Reminder) {
	if reminders == nil {
		reminders = []calendar.Reminder{}
	}
	data, err := json.Marshal(reminders)
	if err != nil {
		log.Printf("ERROR: failed to save reminders to storage: %v", err)
		return
	}
	if err := p.backend.Set(KeyReminders, string(data)); err != nil {
		log.Printf("ERROR: failed to save reminders to storage: %v", err)
	}
}

// SaveNextID writes the id counter as decimal text.
func (p *Persistence) SaveNextID(nextID int) {
	if err := p.backend.Set(KeyNextID, strconv.Itoa(nextID)); err != nil {
		log.Printf("ERROR: failed to save next ID to storage: %v", err)
	}
}

func (p *Persistence) load(key string) (string, bool) {
	raw, ok, err := p.backend.Get(key)
	if err != nil {
		log.Printf("ERROR: failed to read %s from storage: %v", key, err)
		return "", false
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return "", false
	}
	return raw, true
}
