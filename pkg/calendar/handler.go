package calendar

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dayboard/dayboard/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Handler exposes the calendar store and editing sessions to the dashboard
// frontend.
type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

type OccurrenceDTO struct {
	ID                    string    `json:"id"`
	EventID               string    `json:"event_id,omitempty"`
	Title                 string    `json:"title"`
	Description           string    `json:"description,omitempty"`
	StartAt               time.Time `json:"start_at"`
	EndAt                 time.Time `json:"end_at"`
	AllDay                bool      `json:"all_day"`
	Priority              string    `json:"priority,omitempty"`
	Color                 string    `json:"color,omitempty"`
	Tags                  []string  `json:"tags,omitempty"`
	IsRecurring           bool      `json:"is_recurring"`
	ReminderMinutesBefore *int      `json:"reminder_minutes_before,omitempty"`
}

type HolidayDTO struct {
	ID    string `json:"id"`
	Date  string `json:"date"`
	Title string `json:"title"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

type WindowDTO struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// EventFormDTO is the request body for create and update calls. Dates and
// times use the editor's field formats ("2006-01-02", "15:04").
type EventFormDTO struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	StartDate          string   `json:"start_date"`
	StartTime          string   `json:"start_time"`
	EndDate            string   `json:"end_date"`
	EndTime            string   `json:"end_time"`
	AllDay             bool     `json:"all_day"`
	Priority           string   `json:"priority"`
	Color              string   `json:"color"`
	Tags               []string `json:"tags"`
	RecurrenceFreq     string   `json:"recurrence_freq"`
	RecurrenceInterval int      `json:"recurrence_interval"`
	RecurrenceUntil    string   `json:"recurrence_until"`
	RecurrenceWeekdays []int    `json:"recurrence_weekdays"`
	Reminders          []int    `json:"reminders"`
}

type FiltersDTO struct {
	Tags          []string `json:"tags"`
	Priorities    []string `json:"priorities"`
	ShowRecurring bool     `json:"show_recurring"`
	ShowHolidays  bool     `json:"show_holidays"`
}

// GetEvents moves the store to the requested window and returns its
// filtered occurrences.
// GET /api/calendar/events?date=2025-02-15&view=month
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	anchor, ok := parseAnchorDate(w, r)
	if !ok {
		return
	}
	view := ParseViewMode(r.URL.Query().Get("view"))

	if err := h.store.SetView(r.Context(), anchor, view); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	response := struct {
		Window WindowDTO       `json:"window"`
		Events []OccurrenceDTO `json:"events"`
	}{
		Window: WindowDTO{Start: h.store.Window().Start, End: h.store.Window().End},
		Events: occurrencesToDTOs(h.store.Events()),
	}
	writeJSON(w, http.StatusOK, response)
}

// CreateEvent stages the submitted form in a fresh editing session and
// submits it. Field validation failures return the error map with a 400.
// POST /api/calendar/events
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var dto EventFormDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	openDate, err := time.ParseInLocation(dateLayout, dto.StartDate, time.Local)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:   "Invalid start_date format",
			Details: "'start_date' must be in YYYY-MM-DD format",
		})
		return
	}

	session := NewSession(h.store)
	if err := session.Open(openDate); err != nil {
		if errors.Is(err, ErrPastDate) {
			writeJSON(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Cannot create events on past dates"})
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	applyFormDTO(session, dto)

	h.submitSession(w, r, session, http.StatusCreated)
}

// UpdateEvent hydrates an editing session from an occurrence in the
// current window, applies the submitted form, and submits it.
// PUT /api/calendar/events/{occurrenceId}
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	occurrenceID := vars["occurrenceId"]

	var target *EventOccurrence
	for _, occ := range h.store.Occurrences() {
		if occ.ID == occurrenceID {
			target = &occ
			break
		}
	}
	if target == nil {
		writeJSON(w, http.StatusNotFound, rest.ErrorResponse{Error: "Occurrence not found in the current window"})
		return
	}

	var dto EventFormDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	session := NewSession(h.store)
	session.OpenForEdit(*target)
	session.ClearReminders()
	applyFormDTO(session, dto)

	h.submitSession(w, r, session, http.StatusOK)
}

func (h *Handler) submitSession(w http.ResponseWriter, r *http.Request, session *Session, successStatus int) {
	// conflicts are advisory and cleared on success, so capture them first
	conflicts := session.Conflicts()

	if err := session.Submit(r.Context()); err != nil {
		if errors.Is(err, ErrValidationFailed) {
			writeJSON(w, http.StatusBadRequest, rest.FieldErrorsResponse{
				Error:  "Event validation failed",
				Fields: session.Errors(),
			})
			return
		}
		log.Errorf("failed to save event: %v", err)
		http.Error(w, "Failed to save event", http.StatusBadGateway)
		return
	}

	response := struct {
		Events    []OccurrenceDTO `json:"events"`
		Conflicts []OccurrenceDTO `json:"conflicts,omitempty"`
	}{
		Events:    occurrencesToDTOs(h.store.Events()),
		Conflicts: occurrencesToDTOs(conflicts),
	}
	writeJSON(w, successStatus, response)
}

// DeleteEvent deletes one occurrence, or the whole series with
// deleteAll=true.
// DELETE /api/calendar/events/{occurrenceId}?deleteAll=true
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	occurrenceID := vars["occurrenceId"]
	deleteAll := r.URL.Query().Get("deleteAll") == "true"

	if err := h.store.DeleteEvent(r.Context(), occurrenceID, deleteAll); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetConflicts probes a candidate time range against the current window's
// occurrences. The editor calls this on every time-field change.
// GET /api/calendar/conflicts?start=<RFC3339>&end=<RFC3339>&excludeId=
func (h *Handler) GetConflicts(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:   "Invalid start (date) format",
			Details: "'start' must be in RFC3339 format",
		})
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:   "Invalid end (date) format",
			Details: "'end' must be in RFC3339 format",
		})
		return
	}

	conflicts := h.store.CheckConflicts(start, end, r.URL.Query().Get("excludeId"))
	writeJSON(w, http.StatusOK, occurrencesToDTOs(conflicts))
}

// GetHolidays returns the holidays of the requested view window, padded by
// seven days on each side. Pure; does not move the store's window.
// GET /api/calendar/holidays?date=2025-02-15&view=month
func (h *Handler) GetHolidays(w http.ResponseWriter, r *http.Request) {
	anchor, ok := parseAnchorDate(w, r)
	if !ok {
		return
	}
	view := ParseViewMode(r.URL.Query().Get("view"))

	padded := ResolveRange(anchor, view).Padded(holidayPaddingDays)
	holidays := HolidaysInRange(padded.Start, padded.End)

	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, holiday := range holidays {
		dtos = append(dtos, HolidayDTO{
			ID:    holiday.ID,
			Date:  holiday.Date.Format(dateLayout),
			Title: holiday.Title,
			Type:  string(holiday.Type),
			Color: holiday.Color,
			Icon:  holiday.Icon,
		})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetDueReminders polls the due-reminder endpoint and returns the refreshed
// list.
// GET /api/calendar/reminders/due
func (h *Handler) GetDueReminders(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RefreshReminders(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, h.store.Reminders())
}

// DismissReminder acknowledges a due reminder.
// POST /api/calendar/reminders/{reminderId}/dismiss
func (h *Handler) DismissReminder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.store.DismissReminder(r.Context(), vars["reminderId"]); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdateFilters replaces the store's active filter set.
// PUT /api/calendar/filters
func (h *Handler) UpdateFilters(w http.ResponseWriter, r *http.Request) {
	var dto FiltersDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	priorities := make([]Priority, 0, len(dto.Priorities))
	for _, p := range dto.Priorities {
		priority := Priority(p)
		if !priority.Valid() || priority == PriorityNone {
			writeJSON(w, http.StatusBadRequest, rest.ErrorResponse{
				Error:   "Unknown priority: " + p,
				Details: "priorities must be one of low, medium, high, urgent",
			})
			return
		}
		priorities = append(priorities, priority)
	}

	h.store.SetFilters(Filters{
		Tags:          dto.Tags,
		Priorities:    priorities,
		ShowRecurring: dto.ShowRecurring,
	})
	h.store.SetShowHolidays(dto.ShowHolidays)
	w.WriteHeader(http.StatusNoContent)
}

func parseAnchorDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	anchor, err := time.ParseInLocation(dateLayout, r.URL.Query().Get("date"), time.Local)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:   "Invalid date format",
			Details: "'date' must be in YYYY-MM-DD format",
		})
		return time.Time{}, false
	}
	return anchor, true
}

func applyFormDTO(session *Session, dto EventFormDTO) {
	session.SetTitle(dto.Title)
	session.SetDescription(dto.Description)
	session.SetStartDate(dto.StartDate)
	if dto.StartTime != "" {
		session.SetStartTime(dto.StartTime)
	}
	session.SetEndDate(dto.EndDate)
	if dto.EndTime != "" {
		session.SetEndTime(dto.EndTime)
	}
	session.SetAllDay(dto.AllDay)
	session.SetPriority(Priority(dto.Priority))
	if dto.Color != "" {
		session.SetColor(dto.Color)
	}
	session.SetTags(dto.Tags)

	weekdays := make([]time.Weekday, 0, len(dto.RecurrenceWeekdays))
	for _, wd := range dto.RecurrenceWeekdays {
		weekdays = append(weekdays, time.Weekday(wd%7))
	}
	session.SetRecurrence(Frequency(dto.RecurrenceFreq), dto.RecurrenceInterval, dto.RecurrenceUntil, weekdays)

	for _, reminder := range dto.Reminders {
		session.AddReminder(reminder)
	}
}

func occurrencesToDTOs(occurrences []EventOccurrence) []OccurrenceDTO {
	dtos := make([]OccurrenceDTO, 0, len(occurrences))
	for _, occ := range occurrences {
		dtos = append(dtos, OccurrenceDTO{
			ID:                    occ.ID,
			EventID:               occ.EventID,
			Title:                 occ.Title,
			Description:           occ.Description,
			StartAt:               occ.StartAt,
			EndAt:                 occ.EndAt,
			AllDay:                occ.AllDay,
			Priority:              string(occ.Priority),
			Color:                 occ.Color,
			Tags:                  occ.Tags,
			IsRecurring:           occ.IsRecurring(),
			ReminderMinutesBefore: occ.ReminderMinutesBefore,
		})
	}
	return dtos
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Errorf("failed to encode response: %v", err)
	}
}
