package schedule

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOccurrences(t *testing.T) {
	start := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.June, 30, 23, 59, 59, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/schedule/", r.URL.Path)
		assert.Equal(t, start.Format(time.RFC3339), r.URL.Query().Get("start"))
		assert.Equal(t, end.Format(time.RFC3339), r.URL.Query().Get("end"))

		w.Header().Set("Content-Type", "application/json")
		err := json.NewEncoder(w).Encode([]Occurrence{
			{ID: "occ-1", Title: "Standup", StartAt: start.Add(9 * time.Hour), EndAt: start.Add(10 * time.Hour)},
		})
		assert.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	occurrences, err := client.ListOccurrences(context.Background(), start, end)

	require.NoError(t, err)
	require.Len(t, occurrences, 1)
	assert.Equal(t, "occ-1", occurrences[0].ID)
	assert.Equal(t, "Standup", occurrences[0].Title)
}

func TestListOccurrences_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	occurrences, err := client.ListOccurrences(context.Background(), time.Now(), time.Now().Add(time.Hour))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	assert.Nil(t, occurrences)
}

func TestCreateEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/schedule/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload EventPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Standup", payload.Title)
		assert.Equal(t, "DAILY", payload.RecurrenceFreq)

		w.WriteHeader(http.StatusCreated)
		err := json.NewEncoder(w).Encode(Occurrence{ID: "occ-1", Title: payload.Title})
		assert.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	created, err := client.CreateEvent(context.Background(), EventPayload{
		Title:          "Standup",
		RecurrenceFreq: "DAILY",
	})

	require.NoError(t, err)
	assert.Equal(t, "occ-1", created.ID)
}

func TestUpdateEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/schedule/event-1/", r.URL.Path)

		var payload EventPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		err := json.NewEncoder(w).Encode(Occurrence{ID: "occ-1", EventID: "event-1", Title: payload.Title})
		assert.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	updated, err := client.UpdateEvent(context.Background(), "event-1", EventPayload{Title: "Renamed"})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "event-1", updated.EventID)
}

func TestDeleteOccurrence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/schedule/", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"occurrence_id":"occ-1","delete_all":true}`, string(body))

		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	err := client.DeleteOccurrence(context.Background(), "occ-1", true)

	assert.NoError(t, err)
}

func TestDueReminders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/reminders/due/", r.URL.Path)

		err := json.NewEncoder(w).Encode([]DueReminder{
			{ID: "r1", Title: "Standup", MinutesBefore: 10},
		})
		assert.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	reminders, err := client.DueReminders(context.Background())

	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "r1", reminders[0].ID)
	assert.Equal(t, 10, reminders[0].MinutesBefore)
}

func TestDismissReminder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/reminders/r1/dismiss/", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)
	err := client.DismissReminder(context.Background(), "r1")

	assert.NoError(t, err)
}

func TestClient_TrimsTrailingBaseURLSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reminders/due/", r.URL.Path)
		_, err := w.Write([]byte("[]"))
		assert.NoError(t, err)
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", 5*time.Second)
	_, err := client.DueReminders(context.Background())

	assert.NoError(t, err)
}
