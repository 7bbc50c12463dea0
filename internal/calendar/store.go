package calendar

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/i474232898/weather-reminders/internal/common"
	"github.com/i474232898/weather-reminders/internal/weather"
)

// WeatherLookup resolves a forecast for a city on a calendar date.
// The bool is false when no forecast is available; it never fails otherwise.
type WeatherLookup interface {
	Lookup(ctx context.Context, city, date string) (weather.Forecast, bool)
}

// Persistence is the contract the durable store adapter must satisfy.
// Loads fall back to defaults and saves are best effort; neither reports errors.
type Persistence interface {
	LoadReminders() []Reminder
	SaveReminders(reminders []Reminder)
	LoadNextID() int
	SaveNextID(nextID int)
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for the calendar cursor.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store owns the reminder list, the id counter and the calendar cursor.
// Every mutation of the list or the counter is written through to Persistence.
type Store struct {
	mu sync.Mutex

	reminders []Reminder
	nextID    int

	month int // 0-11
	year  int

	persist Persistence
	weather WeatherLookup
	now     func() time.Time
}

// NewStore loads reminders and the id counter from persist. A nil lookup
// disables weather enrichment.
func NewStore(persist Persistence, lookup WeatherLookup, opts ...Option) *Store {
	s := &Store{
		persist: persist,
		weather: lookup,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.reminders = persist.LoadReminders()
	if s.reminders == nil {
		s.reminders = []Reminder{}
	}
	s.nextID = persist.LoadNextID()
	if s.nextID < 1 {
		s.nextID = 1
	}
	// A lost or stale counter must not hand out ids already in the list.
	for _, r := range s.reminders {
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
	}

	today := s.now()
	s.month = int(today.Month()) - 1
	s.year = today.Year()
	return s
}

// AddReminder creates a reminder, resolves its weather and appends it.
// The id is reserved before the weather lookup so concurrent adds never collide.
func (s *Store) AddReminder(ctx context.Context, in ReminderInput) Reminder {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.persist.SaveNextID(s.nextID)
	s.mu.Unlock()

	r := Reminder{
		ID:    id,
		Text:  common.Truncate(in.Text, MaxTextLength),
		Date:  in.Date,
		Time:  in.Time,
		City:  in.City,
		Color: in.Color,
	}
	r.Weather = s.lookup(ctx, r.City, r.Date)

	s.mu.Lock()
	s.reminders = append(s.reminders, r)
	s.saveLocked()
	s.mu.Unlock()

	return r.clone()
}

// UpdateReminder overwrites the supplied fields of reminder id. When the city or
// the date is supplied the weather is resolved again for the effective values.
// It returns false, and changes nothing, when id is unknown.
func (s *Store) UpdateReminder(ctx context.Context, id int, patch ReminderPatch) (Reminder, bool) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return Reminder{}, false
	}

	r := &s.reminders[idx]
	if patch.Text != nil {
		r.Text = common.Truncate(*patch.Text, MaxTextLength)
	}
	if patch.Date != nil {
		r.Date = *patch.Date
	}
	if patch.Time != nil {
		r.Time = *patch.Time
	}
	if patch.City != nil {
		r.City = *patch.City
	}
	if patch.Color != nil {
		r.Color = *patch.Color
	}
	city, date := r.City, r.Date
	updated := r.clone()
	s.saveLocked()
	s.mu.Unlock()

	if patch.City == nil && patch.Date == nil {
		return updated, true
	}

	forecast := s.lookup(ctx, city, date)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx = s.indexLocked(id)
	if idx < 0 {
		// Deleted while the lookup was in flight.
		updated.Weather = forecast
		return updated, true
	}
	s.reminders[idx].Weather = forecast
	s.saveLocked()
	return s.reminders[idx].clone(), true
}

// DeleteReminder removes reminder id and reports whether it existed.
func (s *Store) DeleteReminder(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return false
	}
	s.reminders = append(s.reminders[:idx], s.reminders[idx+1:]...)
	s.saveLocked()
	return true
}

// DeleteAllRemindersForDate removes every reminder on date.
func (s *Store) DeleteAllRemindersForDate(date string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]Reminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		if r.Date != date {
			kept = append(kept, r)
		}
	}
	s.reminders = kept
	s.saveLocked()
}

// Get returns a copy of reminder id.
func (s *Store) Get(id int) (Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return Reminder{}, false
	}
	return s.reminders[idx].clone(), true
}

// Reminders returns all reminders in insertion order.
func (s *Store) Reminders() []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.reminders)
}

// RemindersByDate groups reminders by date, each group ordered by time.
// Reminders sharing a time keep their insertion order.
func (s *Store) RemindersByDate() map[string][]Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	grouped := make(map[string][]Reminder)
	for _, r := range s.reminders {
		grouped[r.Date] = append(grouped[r.Date], r.clone())
	}
	for _, group := range grouped {
		sortByTime(group)
	}
	return grouped
}

// GetRemindersForDate returns the reminders on date ordered by time.
// The result is empty, never nil, when there are none.
func (s *Store) GetRemindersForDate(date string) []Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Reminder{}
	for _, r := range s.reminders {
		if r.Date == date {
			out = append(out, r.clone())
		}
	}
	sortByTime(out)
	return out
}

// RefreshMissingWeather retries the lookup for reminders that have no
// forecast yet, typically because their date was beyond the provider's
// horizon when they were created. Existing forecasts are never replaced.
// It returns how many reminders gained a forecast.
func (s *Store) RefreshMissingWeather(ctx context.Context) int {
	type pending struct {
		id         int
		city, date string
	}

	s.mu.Lock()
	var todo []pending
	for _, r := range s.reminders {
		if r.Weather == nil {
			todo = append(todo, pending{id: r.ID, city: r.City, date: r.Date})
		}
	}
	s.mu.Unlock()

	filled := 0
	for _, p := range todo {
		if ctx.Err() != nil {
			break
		}
		forecast := s.lookup(ctx, p.city, p.date)
		if forecast == nil {
			continue
		}

		s.mu.Lock()
		idx := s.indexLocked(p.id)
		if idx >= 0 {
			r := &s.reminders[idx]
			// Skip if an update raced us and already moved the reminder on.
			if r.Weather == nil && r.City == p.city && r.Date == p.date {
				r.Weather = forecast
				filled++
				s.saveLocked()
			}
		}
		s.mu.Unlock()
	}
	return filled
}

func (s *Store) lookup(ctx context.Context, city, date string) *weather.Forecast {
	if s.weather == nil {
		return nil
	}
	f, ok := s.weather.Lookup(ctx, city, date)
	if !ok {
		return nil
	}
	return &f
}

func (s *Store) indexLocked(id int) int {
	for i := range s.reminders {
		if s.reminders[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) saveLocked() {
	s.persist.SaveReminders(cloneAll(s.reminders))
}

func sortByTime(rs []Reminder) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].Time < rs[j].Time
	})
}
