package schedule

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ClientStub is an in-memory Client for tests. Each List call can be gated
// on a channel so tests can control the order in which concurrent fetches
// resolve.
type ClientStub struct {
	mu          sync.Mutex
	occurrences []Occurrence
	reminders   []DueReminder

	listErr      error
	createErr    error
	updateErr    error
	deleteErr    error
	remindersErr error
	dismissErr   error

	// gates are consumed in FIFO order, one per ListOccurrences call.
	gates []chan struct{}

	ListCalls      []ListCall
	CreatePayloads []EventPayload
	UpdatePayloads []EventPayload
	DeleteCalls    []DeleteCall
	DismissedIDs   []string
}

type ListCall struct {
	Start time.Time
	End   time.Time
}

type DeleteCall struct {
	OccurrenceID string
	DeleteAll    bool
}

func NewClientStub() *ClientStub {
	return &ClientStub{}
}

func (s *ClientStub) SetOccurrences(occurrences []Occurrence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.occurrences = occurrences
}

func (s *ClientStub) SetReminders(reminders []DueReminder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders = reminders
}

func (s *ClientStub) FailList(err error)    { s.mu.Lock(); s.listErr = err; s.mu.Unlock() }
func (s *ClientStub) FailCreate(err error)  { s.mu.Lock(); s.createErr = err; s.mu.Unlock() }
func (s *ClientStub) FailUpdate(err error)  { s.mu.Lock(); s.updateErr = err; s.mu.Unlock() }
func (s *ClientStub) FailDelete(err error)  { s.mu.Lock(); s.deleteErr = err; s.mu.Unlock() }
func (s *ClientStub) FailDismiss(err error) { s.mu.Lock(); s.dismissErr = err; s.mu.Unlock() }

func (s *ClientStub) FailReminders(err error) { s.mu.Lock(); s.remindersErr = err; s.mu.Unlock() }

// GateNextList makes the next ListOccurrences call block until the returned
// release function is invoked.
func (s *ClientStub) GateNextList() (release func()) {
	gate := make(chan struct{})
	s.mu.Lock()
	s.gates = append(s.gates, gate)
	s.mu.Unlock()
	return func() { close(gate) }
}

// ListCallCount reports how many ListOccurrences calls have started,
// including gated calls still waiting on their release.
func (s *ClientStub) ListCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ListCalls)
}

func (s *ClientStub) ListOccurrences(_ context.Context, start time.Time, end time.Time) ([]Occurrence, error) {
	s.mu.Lock()
	s.ListCalls = append(s.ListCalls, ListCall{Start: start, End: end})
	var gate chan struct{}
	if len(s.gates) > 0 {
		gate = s.gates[0]
		s.gates = s.gates[1:]
	}
	s.mu.Unlock()

	if gate != nil {
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var inRange []Occurrence
	for _, occ := range s.occurrences {
		if !occ.StartAt.Before(start) && !occ.StartAt.After(end) {
			inRange = append(inRange, occ)
		}
	}
	return inRange, nil
}

func (s *ClientStub) CreateEvent(_ context.Context, payload EventPayload) (*Occurrence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.CreatePayloads = append(s.CreatePayloads, payload)
	if s.createErr != nil {
		return nil, s.createErr
	}
	occ := Occurrence{
		ID:          uuid.NewString(),
		EventID:     uuid.NewString(),
		Title:       payload.Title,
		Description: payload.Description,
		StartAt:     payload.StartAt,
		EndAt:       payload.EndAt,
		AllDay:      payload.AllDay,
		Priority:    payload.Priority,
		Color:       payload.Color,
		Tags:        payload.Tags,
	}
	s.occurrences = append(s.occurrences, occ)
	return &occ, nil
}

func (s *ClientStub) UpdateEvent(_ context.Context, eventID string, payload EventPayload) (*Occurrence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdatePayloads = append(s.UpdatePayloads, payload)
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	for i, occ := range s.occurrences {
		if occ.ID == eventID || occ.EventID == eventID {
			s.occurrences[i].Title = payload.Title
			s.occurrences[i].Description = payload.Description
			s.occurrences[i].StartAt = payload.StartAt
			s.occurrences[i].EndAt = payload.EndAt
			s.occurrences[i].AllDay = payload.AllDay
			updated := s.occurrences[i]
			return &updated, nil
		}
	}
	updated := Occurrence{ID: eventID, Title: payload.Title, StartAt: payload.StartAt, EndAt: payload.EndAt, AllDay: payload.AllDay}
	return &updated, nil
}

func (s *ClientStub) DeleteOccurrence(_ context.Context, occurrenceID string, deleteAll bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DeleteCalls = append(s.DeleteCalls, DeleteCall{OccurrenceID: occurrenceID, DeleteAll: deleteAll})
	if s.deleteErr != nil {
		return s.deleteErr
	}
	remaining := s.occurrences[:0]
	for _, occ := range s.occurrences {
		if occ.ID != occurrenceID {
			remaining = append(remaining, occ)
		}
	}
	s.occurrences = remaining
	return nil
}

func (s *ClientStub) DueReminders(_ context.Context) ([]DueReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.remindersErr != nil {
		return nil, s.remindersErr
	}
	return append([]DueReminder(nil), s.reminders...), nil
}

func (s *ClientStub) DismissReminder(_ context.Context, reminderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dismissErr != nil {
		return s.dismissErr
	}
	s.DismissedIDs = append(s.DismissedIDs, reminderID)
	remaining := s.reminders[:0]
	for _, r := range s.reminders {
		if r.ID != reminderID {
			remaining = append(remaining, r)
		}
	}
	s.reminders = remaining
	return nil
}
