package calendar

// Cursor is the month/year currently displayed by the calendar.
type Cursor struct {
	Month int `json:"month"` // 0-11
	Year  int `json:"year"`
}

// Cursor returns the current month and year.
func (s *Store) Cursor() Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Cursor{Month: s.month, Year: s.year}
}

// CurrentMonth returns the cursor month, 0-11.
func (s *Store) CurrentMonth() int {
	return s.Cursor().Month
}

// CurrentYear returns the cursor year.
func (s *Store) CurrentYear() int {
	return s.Cursor().Year
}

// SetMonth sets the cursor month. Range checking is the caller's job.
func (s *Store) SetMonth(month int) {
	s.mu.Lock()
	s.month = month
	s.mu.Unlock()
}

// SetYear sets the cursor year.
func (s *Store) SetYear(year int) {
	s.mu.Lock()
	s.year = year
	s.mu.Unlock()
}

// NextMonth advances the cursor, rolling December over into January.
func (s *Store) NextMonth() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.month == 11 {
		s.month = 0
		s.year++
		return
	}
	s.month++
}

// PreviousMonth moves the cursor back, rolling January over into December.
func (s *Store) PreviousMonth() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.month == 0 {
		s.month = 11
		s.year--
		return
	}
	s.month--
}

// GoToToday resets the cursor to the clock's current month.
func (s *Store) GoToToday() {
	today := s.now()

	s.mu.Lock()
	s.month = int(today.Month()) - 1
	s.year = today.Year()
	s.mu.Unlock()
}
