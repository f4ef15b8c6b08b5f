package calendar

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dayboard/dayboard/internal/event_bus"
	"github.com/dayboard/dayboard/internal/utils"
	"github.com/dayboard/dayboard/pkg/schedule"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// State of the store's event list with respect to the current window.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateErrored
)

// holidayPaddingDays widens the holiday window so month-grid cells from
// adjacent months still show their holidays.
const holidayPaddingDays = 7

// Filters narrow which occurrences the derived queries return. Categories
// are ANDed; values within a category are ORed.
type Filters struct {
	Tags          []string
	Priorities    []Priority
	ShowRecurring bool
}

// DefaultFilters matches everything.
func DefaultFilters() Filters {
	return Filters{ShowRecurring: true}
}

func (f Filters) matches(occ EventOccurrence) bool {
	if len(f.Tags) > 0 {
		found := false
		for _, tag := range occ.Tags {
			if slices.Contains(f.Tags, tag) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.Priorities) > 0 && !slices.Contains(f.Priorities, occ.Priority) {
		return false
	}
	if !f.ShowRecurring && occ.IsRecurring() {
		return false
	}
	return true
}

// Store owns the authoritative in-memory occurrence and due-reminder lists
// for the active view window and orchestrates all calls to the schedule
// API. It is the sole writer of both lists; editing sessions read them and
// submit mutations back through the store's operations.
type Store struct {
	client schedule.Client
	clock  utils.Clock
	bus    *event_bus.EventBus

	mu     sync.RWMutex
	anchor time.Time
	view   ViewMode
	window ViewWindow

	state       State
	occurrences []EventOccurrence
	fetchErr    error
	// generation orders fetches: a result is applied only while its
	// generation is still the latest, so a slow response for an old window
	// can never overwrite a newer window's data.
	generation uint64

	reminders    []schedule.DueReminder
	remindersErr error

	filters      Filters
	showHolidays bool

	// memoized derived views, rebuilt lazily after invalidation
	byDate         map[string][]EventOccurrence
	holidayWindow  ViewWindow
	cachedHolidays []Holiday
	holidaysValid  bool

	poller *cron.Cron
}

func NewStore(client schedule.Client, bus *event_bus.EventBus) *Store {
	clock := utils.SystemClock{}
	now := clock.Now()
	return &Store{
		client:       client,
		clock:        clock,
		bus:          bus,
		anchor:       now,
		view:         ViewMonth,
		window:       ResolveRange(now, ViewMonth),
		state:        StateIdle,
		filters:      DefaultFilters(),
		showHolidays: true,
	}
}

// SetView moves the store to a new anchor date and view mode and fetches
// the occurrences of the resolved window. The returned error reflects this
// fetch; a superseded fetch returns nil.
func (s *Store) SetView(ctx context.Context, anchor time.Time, view ViewMode) error {
	s.mu.Lock()
	s.anchor = anchor
	s.view = view
	s.window = ResolveRange(anchor, view)
	s.state = StateLoading
	s.generation++
	gen := s.generation
	window := s.window
	s.invalidateLocked()
	s.holidaysValid = false
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(event_bus.NewEvent(ctx, event_bus.CalendarWindowChanged, event_bus.WindowChanged{
			Start: window.Start,
			End:   window.End,
		}))
	}

	return s.fetch(ctx, gen, window)
}

// Refresh re-fetches the current window. Like SetView it participates in
// the latest-fetch-wins ordering.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.state = StateLoading
	s.generation++
	gen := s.generation
	window := s.window
	s.mu.Unlock()

	return s.fetch(ctx, gen, window)
}

func (s *Store) fetch(ctx context.Context, gen uint64, window ViewWindow) error {
	wireOccurrences, err := s.client.ListOccurrences(ctx, window.Start, window.End)

	s.mu.Lock()
	if gen != s.generation {
		// a newer window superseded this fetch; discard the result
		s.mu.Unlock()
		log.Debugf("discarding stale fetch result for window %s - %s", window.Start, window.End)
		return nil
	}

	if err != nil {
		// fail closed: an obviously empty list over one silently mixed with
		// another window's data
		s.occurrences = nil
		s.fetchErr = err
		s.state = StateErrored
		s.invalidateLocked()
		s.mu.Unlock()
		log.Errorf("failed to fetch events: %v", err)
		s.publishEventsRefreshed(ctx, 0, true)
		return fmt.Errorf("failed to fetch events: %w", err)
	}

	occurrences := make([]EventOccurrence, 0, len(wireOccurrences))
	for _, w := range wireOccurrences {
		occurrences = append(occurrences, occurrenceFromWire(w))
	}
	s.occurrences = occurrences
	s.fetchErr = nil
	s.state = StateReady
	s.invalidateLocked()
	count := len(occurrences)
	s.mu.Unlock()

	s.publishEventsRefreshed(ctx, count, false)
	return nil
}

func (s *Store) publishEventsRefreshed(ctx context.Context, count int, failed bool) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event_bus.NewEvent(ctx, event_bus.CalendarEventsRefreshed, event_bus.EventsRefreshed{
		Count:  count,
		Failed: failed,
	}))
}

// CreateEvent forwards the payload to the schedule API and re-fetches the
// window so server-side recurrence expansion is reflected.
func (s *Store) CreateEvent(ctx context.Context, payload schedule.EventPayload) (*EventOccurrence, error) {
	created, err := s.client.CreateEvent(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	occ := occurrenceFromWire(*created)
	return &occ, nil
}

// UpdateEvent forwards the payload to the schedule API and re-fetches.
func (s *Store) UpdateEvent(ctx context.Context, eventID string, payload schedule.EventPayload) (*EventOccurrence, error) {
	updated, err := s.client.UpdateEvent(ctx, eventID, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to update event %s: %w", eventID, err)
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	occ := occurrenceFromWire(*updated)
	return &occ, nil
}

// DeleteEvent removes the occurrence from the local list first, then issues
// the delete. On failure the window is re-fetched so the optimistically
// removed occurrence reappears instead of silently diverging from the
// server.
func (s *Store) DeleteEvent(ctx context.Context, occurrenceID string, deleteAll bool) error {
	s.mu.Lock()
	remaining := make([]EventOccurrence, 0, len(s.occurrences))
	for _, occ := range s.occurrences {
		if occ.ID != occurrenceID {
			remaining = append(remaining, occ)
		}
	}
	s.occurrences = remaining
	s.invalidateLocked()
	s.mu.Unlock()

	if err := s.client.DeleteOccurrence(ctx, occurrenceID, deleteAll); err != nil {
		log.Errorf("failed to delete occurrence %s, re-fetching window: %v", occurrenceID, err)
		if refreshErr := s.Refresh(ctx); refreshErr != nil {
			log.Errorf("failed to re-fetch after delete failure: %v", refreshErr)
		}
		return fmt.Errorf("failed to delete occurrence %s: %w", occurrenceID, err)
	}
	return nil
}

// RefreshReminders polls the due-reminder endpoint and replaces the
// reminder list wholesale. Its error state is isolated from the event list.
func (s *Store) RefreshReminders(ctx context.Context) error {
	reminders, err := s.client.DueReminders(ctx)

	s.mu.Lock()
	if err != nil {
		s.reminders = nil
		s.remindersErr = err
	} else {
		s.reminders = reminders
		s.remindersErr = nil
	}
	due := len(s.reminders)
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(event_bus.NewEvent(ctx, event_bus.CalendarRemindersRefreshed, event_bus.RemindersRefreshed{
			Due:    due,
			Failed: err != nil,
		}))
	}
	if err != nil {
		return fmt.Errorf("failed to fetch due reminders: %w", err)
	}
	return nil
}

// DismissReminder acknowledges the reminder server-side and removes it from
// the local list only after the acknowledgment succeeds.
func (s *Store) DismissReminder(ctx context.Context, reminderID string) error {
	if err := s.client.DismissReminder(ctx, reminderID); err != nil {
		return fmt.Errorf("failed to dismiss reminder %s: %w", reminderID, err)
	}

	s.mu.Lock()
	remaining := make([]schedule.DueReminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		if r.ID != reminderID {
			remaining = append(remaining, r)
		}
	}
	s.reminders = remaining
	s.mu.Unlock()
	return nil
}

// StartReminderPolling starts the lifecycle-scoped due-reminder poll. The
// spec is a cron expression or descriptor ("@every 30s"). The poller is
// owned by the store and stopped by Close.
func (s *Store) StartReminderPolling(spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.poller != nil {
		return fmt.Errorf("reminder polling already started")
	}

	poller := cron.New()
	_, err := poller.AddFunc(spec, func() {
		if err := s.RefreshReminders(context.Background()); err != nil {
			log.Warnf("due-reminder poll failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid reminder poll spec %q: %w", spec, err)
	}
	poller.Start()
	s.poller = poller
	log.Infof("due-reminder polling started (%s)", spec)
	return nil
}

// Close stops the reminder poller. Safe to call when polling never started.
func (s *Store) Close() {
	s.mu.Lock()
	poller := s.poller
	s.poller = nil
	s.mu.Unlock()
	if poller != nil {
		<-poller.Stop().Done()
	}
}

// SetFilters replaces the active filter set.
func (s *Store) SetFilters(filters Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = filters
	s.invalidateLocked()
}

// SetShowHolidays toggles holiday visibility for the derived queries.
func (s *Store) SetShowHolidays(show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showHolidays = show
	s.holidaysValid = false
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) Window() ViewWindow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.window
}

func (s *Store) Anchor() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.anchor
}

func (s *Store) View() ViewMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchErr
}

func (s *Store) RemindersErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.remindersErr
}

// Occurrences returns the unfiltered occurrence list of the current window.
func (s *Store) Occurrences() []EventOccurrence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.occurrences)
}

// Events returns the occurrence list with the active filters applied.
func (s *Store) Events() []EventOccurrence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filteredLocked()
}

// Reminders returns the current due-reminder list.
func (s *Store) Reminders() []schedule.DueReminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.reminders)
}

// EventsForDate returns the filtered occurrences starting on the given
// calendar day. Results are memoized until the occurrence list or the
// filters change.
func (s *Store) EventsForDate(date time.Time) []EventOccurrence {
	key := date.Format(dateLayout)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byDate == nil {
		s.byDate = make(map[string][]EventOccurrence)
		for _, occ := range s.filteredLocked() {
			k := occ.StartAt.In(date.Location()).Format(dateLayout)
			s.byDate[k] = append(s.byDate[k], occ)
		}
	}
	return slices.Clone(s.byDate[key])
}

// EventCountForDate feeds the mini-calendar heat map.
func (s *Store) EventCountForDate(date time.Time) int {
	return len(s.EventsForDate(date))
}

// Holidays returns the holidays of the current window padded by seven days
// on each side, or nothing while holidays are hidden. Memoized per window.
func (s *Store) Holidays() []Holiday {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holidaysLocked()
}

func (s *Store) holidaysLocked() []Holiday {
	if !s.showHolidays {
		return nil
	}
	if !s.holidaysValid || s.holidayWindow != s.window {
		padded := s.window.Padded(holidayPaddingDays)
		s.cachedHolidays = HolidaysInRange(padded.Start, padded.End)
		s.holidayWindow = s.window
		s.holidaysValid = true
	}
	return slices.Clone(s.cachedHolidays)
}

// HolidaysForDate returns the holidays falling on the given calendar day.
func (s *Store) HolidaysForDate(date time.Time) []Holiday {
	s.mu.Lock()
	defer s.mu.Unlock()

	var holidays []Holiday
	for _, h := range s.holidaysLocked() {
		if sameDay(h.Date, date) {
			holidays = append(holidays, h)
		}
	}
	return holidays
}

// CheckConflicts tests a candidate range against the unfiltered occurrence
// list. Conflicts are advisory; they never block submission.
func (s *Store) CheckConflicts(start, end time.Time, excludeID string) []EventOccurrence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FindConflicts(start, end, s.occurrences, excludeID)
}

func (s *Store) filteredLocked() []EventOccurrence {
	filtered := make([]EventOccurrence, 0, len(s.occurrences))
	for _, occ := range s.occurrences {
		if s.filters.matches(occ) {
			filtered = append(filtered, occ)
		}
	}
	return filtered
}

// invalidateLocked drops the memoized derived views. Callers hold s.mu.
func (s *Store) invalidateLocked() {
	s.byDate = nil
}
