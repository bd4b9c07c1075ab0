package event

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/backofhouse/backofhouse/internal/utils"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, now time.Time) *mux.Router {
	t.Helper()
	svc, _, _ := newTestService(t, now)
	handler := NewHandler(svc, NewICalFeedRenderer(&utils.MockClock{FixedNow: now}))

	r := mux.NewRouter()
	r.HandleFunc("/api/calendar", handler.GetCalendar).Queries("from", "{from}", "to", "{to}").Methods("GET")
	r.HandleFunc("/api/calendar/upcoming", handler.GetUpcoming).Methods("GET")
	r.HandleFunc("/api/calendar/feed.ics", handler.GetFeed).Methods("GET")
	r.HandleFunc("/api/event", handler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/event", handler.GetEvents).Methods("GET")
	r.HandleFunc("/api/event/{eventUid}", handler.GetEvent).Methods("GET")
	r.HandleFunc("/api/event/{eventUid}", handler.UpdateEvent).Methods("PUT")
	r.HandleFunc("/api/event/{eventUid}", handler.DeleteEvent).Methods("DELETE")
	r.HandleFunc("/api/event/{eventUid}/exception/{date}", handler.AddException).Methods("PUT")
	r.HandleFunc("/api/event/{eventUid}/exception/{date}", handler.RemoveException).Methods("DELETE")
	return r
}

func doJSON(t *testing.T, r *mux.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CreateAndExpandEvent(t *testing.T) {
	router := newTestRouter(t, time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC))

	rec := doJSON(t, router, http.MethodPost, "/api/event", EventDTO{
		Title:     "Staff meeting",
		StartTime: "2024-01-01T15:00",
		EndTime:   "2024-01-01T16:00",
		Recurrence: RecurrenceDTO{
			Frequency: "weekly",
			Days:      []string{"MO"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created EventDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.NotEmpty(t, created.UID)
	// Rendered back in the company timezone, the wall clock must match the input.
	assert.Equal(t, "2024-01-01T15:00", created.StartTime)

	rec = doJSON(t, router, http.MethodGet, "/api/calendar?from=2024-01-01&to=2024-01-15", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var occurrences []OccurrenceDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&occurrences))
	require.Len(t, occurrences, 3)
	assert.Equal(t, "2024-01-01", occurrences[0].Date)
	assert.Equal(t, "2024-01-08T15:00", occurrences[1].Start)
}

func TestHandler_CreateEvent_RejectsMalformedStart(t *testing.T) {
	router := newTestRouter(t, time.Now())

	rec := doJSON(t, router, http.MethodPost, "/api/event", EventDTO{
		Title:     "Broken",
		StartTime: "not-a-date",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_GetCalendar_RejectsMalformedWindow(t *testing.T) {
	router := newTestRouter(t, time.Now())

	rec := doJSON(t, router, http.MethodGet, "/api/calendar?from=2024-1-1&to=2024-01-15", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ExceptionLifecycle(t *testing.T) {
	router := newTestRouter(t, time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC))

	rec := doJSON(t, router, http.MethodPost, "/api/event", EventDTO{
		Title:     "Delivery",
		StartTime: "2024-01-01T08:00",
		Recurrence: RecurrenceDTO{
			Frequency: "weekly",
			Days:      []string{"MO"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created EventDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	rec = doJSON(t, router, http.MethodPut, "/api/event/"+created.UID+"/exception/2024-01-08", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/calendar?from=2024-01-01&to=2024-01-15", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var occurrences []OccurrenceDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&occurrences))
	require.Len(t, occurrences, 2)
	assert.Equal(t, "2024-01-01", occurrences[0].Date)
	assert.Equal(t, "2024-01-15", occurrences[1].Date)

	rec = doJSON(t, router, http.MethodDelete, "/api/event/"+created.UID+"/exception/2024-01-08", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/calendar?from=2024-01-01&to=2024-01-15", nil)
	var restored []OccurrenceDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&restored))
	assert.Len(t, restored, 3)
}

func TestHandler_GetEvent_UnknownUidIs404(t *testing.T) {
	router := newTestRouter(t, time.Now())

	rec := doJSON(t, router, http.MethodGet, "/api/event/6f1e97bc-3c1f-4a40-9be9-a2a353bd97a3", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/event/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_AllDayEventRoundTrip(t *testing.T) {
	router := newTestRouter(t, time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC))

	rec := doJSON(t, router, http.MethodPost, "/api/event", EventDTO{
		Title:     "Deep clean",
		StartTime: "2024-06-01",
		AllDay:    true,
		Recurrence: RecurrenceDTO{
			Frequency: "monthly",
			MonthDay:  1,
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created EventDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "2024-06-01", created.StartTime)
	assert.True(t, created.AllDay)
}

func TestHandler_GetFeed_RendersICalendar(t *testing.T) {
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	router := newTestRouter(t, now)

	rec := doJSON(t, router, http.MethodPost, "/api/event", EventDTO{
		Title:     "Wine tasting",
		StartTime: "2024-01-05T18:00",
		EndTime:   "2024-01-05T20:00",
		Recurrence: RecurrenceDTO{
			Frequency: "none",
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/calendar/feed.ics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")

	feed := rec.Body.String()
	assert.True(t, strings.HasPrefix(feed, "BEGIN:VCALENDAR"))
	assert.Contains(t, feed, "SUMMARY:Wine tasting")
	assert.Contains(t, feed, "BEGIN:VEVENT")
}
