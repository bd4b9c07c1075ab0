package event

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/backofhouse/backofhouse/internal/rest"
	"github.com/backofhouse/backofhouse/pkg/civiltime"
	"github.com/backofhouse/backofhouse/pkg/recurrence"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

type RecurrenceDTO struct {
	Frequency string   `json:"frequency"`
	Days      []string `json:"days,omitempty"`
	MonthDay  int      `json:"monthDay,omitempty"`
}

type EventDTO struct {
	UID        string        `json:"uid,omitempty"`
	Title      string        `json:"title"`
	StartTime  string        `json:"startTime"`
	EndTime    string        `json:"endTime,omitempty"`
	AllDay     bool          `json:"allDay"`
	Recurrence RecurrenceDTO `json:"recurrence"`
	Exceptions []string      `json:"exceptions,omitempty"`
}

type OccurrenceDTO struct {
	EventUID string `json:"eventUid"`
	Title    string `json:"title"`
	Date     string `json:"date"`
	Start    string `json:"start"`
	End      string `json:"end,omitempty"`
	AllDay   bool   `json:"allDay"`
}

type Handler struct {
	service  Service
	renderer FeedRenderer
}

func NewHandler(service Service, renderer FeedRenderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

// CreateEvent godoc
// @Summary Create a calendar event
// @Description Store a new event template; wall-clock times are interpreted in the company timezone
// @Tags Events
// @Accept json
// @Produce json
// @Success 201 {object} EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid event"
// @Router /api/event [post]
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		badRequest(w, "Invalid request body format", "")
		return
	}

	loc, err := h.service.CompanyZone(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	event, err := dtoToEvent(dto, loc)
	if err != nil {
		badRequest(w, "Invalid event", err.Error())
		return
	}

	created, err := h.service.AddEvent(r.Context(), *event)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(eventToDTO(*created, loc)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetEvents godoc
// @Summary List event templates
// @Tags Events
// @Produce json
// @Success 200 {array} EventDTO
// @Router /api/event [get]
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	loc, err := h.service.CompanyZone(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	events, err := h.service.GetEvents(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	dtos := make([]EventDTO, 0, len(events))
	for _, event := range events {
		dtos = append(dtos, eventToDTO(event, loc))
	}
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetEvent godoc
// @Summary Get a single event template
// @Tags Events
// @Produce json
// @Success 200 {object} EventDTO
// @Failure 404 {object} rest.ErrorResponse "Event not found"
// @Router /api/event/{eventUid} [get]
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	eventUid, ok := pathUUID(w, r, "eventUid")
	if !ok {
		return
	}
	loc, err := h.service.CompanyZone(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	event, err := h.service.GetEvent(r.Context(), eventUid)
	if errors.Is(err, ErrEventNotFound) {
		notFound(w)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(eventToDTO(*event, loc)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// UpdateEvent godoc
// @Summary Update an event template
// @Tags Events
// @Accept json
// @Produce json
// @Success 200 {object} EventDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid event"
// @Failure 404 {object} rest.ErrorResponse "Event not found"
// @Router /api/event/{eventUid} [put]
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	eventUid, ok := pathUUID(w, r, "eventUid")
	if !ok {
		return
	}
	var dto EventDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		badRequest(w, "Invalid request body format", "")
		return
	}

	loc, err := h.service.CompanyZone(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	event, err := dtoToEvent(dto, loc)
	if err != nil {
		badRequest(w, "Invalid event", err.Error())
		return
	}
	event.UID = uuid.NullUUID{UUID: eventUid, Valid: true}

	updated, err := h.service.ModifyEvent(r.Context(), *event)
	if errors.Is(err, ErrEventNotFound) {
		notFound(w)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(eventToDTO(*updated, loc)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// DeleteEvent godoc
// @Summary Delete an event template and its exceptions
// @Tags Events
// @Success 204
// @Failure 404 {object} rest.ErrorResponse "Event not found"
// @Router /api/event/{eventUid} [delete]
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventUid, ok := pathUUID(w, r, "eventUid")
	if !ok {
		return
	}
	err := h.service.DeleteEvent(r.Context(), eventUid)
	if errors.Is(err, ErrEventNotFound) {
		notFound(w)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddException godoc
// @Summary Skip a single occurrence date
// @Tags Events
// @Success 204
// @Failure 400 {object} rest.ErrorResponse "Invalid date"
// @Failure 404 {object} rest.ErrorResponse "Event not found"
// @Router /api/event/{eventUid}/exception/{date} [put]
func (h *Handler) AddException(w http.ResponseWriter, r *http.Request) {
	eventUid, ok := pathUUID(w, r, "eventUid")
	if !ok {
		return
	}
	date, ok := pathDate(w, r)
	if !ok {
		return
	}
	err := h.service.AddException(r.Context(), eventUid, date)
	if errors.Is(err, ErrEventNotFound) {
		notFound(w)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveException godoc
// @Summary Restore a previously skipped occurrence date
// @Tags Events
// @Success 204
// @Failure 400 {object} rest.ErrorResponse "Invalid date"
// @Router /api/event/{eventUid}/exception/{date} [delete]
func (h *Handler) RemoveException(w http.ResponseWriter, r *http.Request) {
	eventUid, ok := pathUUID(w, r, "eventUid")
	if !ok {
		return
	}
	date, ok := pathDate(w, r)
	if !ok {
		return
	}
	if err := h.service.RemoveException(r.Context(), eventUid, date); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCalendar godoc
// @Summary List concrete occurrences within a date window
// @Description Expands every event's recurrence within the inclusive from/to window, in the company timezone
// @Tags Calendar
// @Produce json
// @Success 200 {array} OccurrenceDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid window"
// @Router /api/calendar [get]
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	from, ok := civiltime.ParseDate(r.URL.Query().Get("from"))
	if !ok {
		badRequest(w, "Invalid from date", "from must be in YYYY-MM-DD format")
		return
	}
	to, ok := civiltime.ParseDate(r.URL.Query().Get("to"))
	if !ok {
		badRequest(w, "Invalid to date", "to must be in YYYY-MM-DD format")
		return
	}

	occurrences, err := h.service.GetOccurrences(r.Context(), from, to)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(occurrencesToDTO(occurrences)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetUpcoming godoc
// @Summary List the next occurrences from today onward
// @Tags Calendar
// @Produce json
// @Success 200 {array} OccurrenceDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid limit"
// @Router /api/calendar/upcoming [get]
func (h *Handler) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			badRequest(w, "Invalid limit", "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	occurrences, err := h.service.GetUpcomingOccurrences(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(occurrencesToDTO(occurrences)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// GetFeed godoc
// @Summary Calendar feed for signage displays
// @Description Renders upcoming occurrences as an iCalendar document
// @Tags Calendar
// @Produce text/calendar
// @Success 200 {string} string
// @Router /api/calendar/feed.ics [get]
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	loc, err := h.service.CompanyZone(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	occurrences, err := h.service.GetUpcomingOccurrences(r.Context(), feedOccurrenceLimit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	feed, err := h.renderer.RenderFeed(occurrences, loc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	if _, err := w.Write([]byte(feed)); err != nil {
		log.Errorf("could not write calendar feed: %v", err)
	}
}

func dtoToEvent(dto EventDTO, loc *time.Location) (*Event, error) {
	if dto.Title == "" {
		return nil, errors.New("title must not be empty")
	}

	event := &Event{
		Title:  dto.Title,
		AllDay: dto.AllDay,
	}
	if dto.UID != "" {
		uid, err := uuid.Parse(dto.UID)
		if err != nil {
			return nil, errors.New("uid must be a valid UUID")
		}
		event.UID = uuid.NullUUID{UUID: uid, Valid: true}
	}

	// The instants are produced here, once, from the wall-clock values the
	// user typed; everything downstream works with the stored instants.
	if dto.AllDay {
		startDate, ok := civiltime.DecodeDate(dto.StartTime, loc)
		if !ok {
			return nil, errors.New("startTime must contain a YYYY-MM-DD date")
		}
		event.StartTime = civiltime.MidnightInstant(startDate, loc)
		if dto.EndTime != "" {
			endDate, ok := civiltime.DecodeDate(dto.EndTime, loc)
			if !ok {
				return nil, errors.New("endTime must contain a YYYY-MM-DD date")
			}
			event.EndTime = civiltime.MidnightInstant(endDate, loc)
		}
	} else {
		start, ok := civiltime.DecodeDateTime(dto.StartTime, loc)
		if !ok {
			return nil, errors.New("startTime must be in YYYY-MM-DDTHH:mm format")
		}
		event.StartTime = civiltime.WallClockInstant(start, loc)
		if dto.EndTime != "" {
			end, ok := civiltime.DecodeDateTime(dto.EndTime, loc)
			if !ok {
				return nil, errors.New("endTime must be in YYYY-MM-DDTHH:mm format")
			}
			event.EndTime = civiltime.WallClockInstant(end, loc)
		}
	}
	if event.HasEnd() && event.EndTime.Before(event.StartTime) {
		return nil, errors.New("endTime must not be before startTime")
	}

	rule, err := dtoToRule(dto.Recurrence)
	if err != nil {
		return nil, err
	}
	event.Recurrence = rule

	for _, raw := range dto.Exceptions {
		date, ok := civiltime.ParseDate(raw)
		if !ok {
			return nil, errors.New("exceptions must be in YYYY-MM-DD format")
		}
		event.Exceptions = append(event.Exceptions, date)
	}
	return event, nil
}

func dtoToRule(dto RecurrenceDTO) (recurrence.Rule, error) {
	switch recurrence.Frequency(dto.Frequency) {
	case "", recurrence.None:
		return recurrence.Rule{Freq: recurrence.None}, nil
	case recurrence.Weekly:
		rule := recurrence.Rule{Freq: recurrence.Weekly}
		for _, code := range dto.Days {
			day, ok := recurrence.ParseDayCode(code)
			if !ok {
				return recurrence.Rule{}, errors.New("recurrence days must be two-letter day codes (MO..SU)")
			}
			rule.Days = append(rule.Days, day)
		}
		return rule, nil
	case recurrence.Monthly:
		if dto.MonthDay < 1 || dto.MonthDay > 31 {
			return recurrence.Rule{}, errors.New("recurrence monthDay must be between 1 and 31")
		}
		return recurrence.Rule{Freq: recurrence.Monthly, MonthDay: dto.MonthDay}, nil
	default:
		return recurrence.Rule{}, errors.New("recurrence frequency must be none, weekly, or monthly")
	}
}

func eventToDTO(e Event, loc *time.Location) EventDTO {
	dto := EventDTO{
		Title:      e.Title,
		AllDay:     e.AllDay,
		Recurrence: ruleToDTO(e.Recurrence),
	}
	if e.UID.Valid {
		dto.UID = e.UID.UUID.String()
	}
	if e.AllDay {
		dto.StartTime = civiltime.ToCivilDate(e.StartTime, loc).String()
		if e.HasEnd() {
			dto.EndTime = civiltime.ToCivilDate(e.EndTime, loc).String()
		}
	} else {
		dto.StartTime = civiltime.ToCivilDateTime(e.StartTime, loc).String()
		if e.HasEnd() {
			dto.EndTime = civiltime.ToCivilDateTime(e.EndTime, loc).String()
		}
	}
	for _, date := range e.Exceptions {
		dto.Exceptions = append(dto.Exceptions, date.String())
	}
	return dto
}

func ruleToDTO(rule recurrence.Rule) RecurrenceDTO {
	dto := RecurrenceDTO{Frequency: string(rule.Freq)}
	if dto.Frequency == "" {
		dto.Frequency = string(recurrence.None)
	}
	for _, day := range rule.Days {
		if code, ok := recurrence.DayCode(day); ok {
			dto.Days = append(dto.Days, code)
		}
	}
	dto.MonthDay = rule.MonthDay
	return dto
}

func occurrencesToDTO(occurrences []Occurrence) []OccurrenceDTO {
	dtos := make([]OccurrenceDTO, 0, len(occurrences))
	for _, occ := range occurrences {
		dto := OccurrenceDTO{
			EventUID: occ.EventUID.String(),
			Title:    occ.Title,
			Date:     occ.Date.String(),
			AllDay:   occ.AllDay,
		}
		if occ.AllDay {
			dto.Start = occ.Start.Date.String()
			if !occ.End.Date.IsZero() {
				dto.End = occ.End.Date.String()
			}
		} else {
			dto.Start = occ.Start.String()
			if !occ.End.Date.IsZero() {
				dto.End = occ.End.String()
			}
		}
		dtos = append(dtos, dto)
	}
	return dtos
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	raw := mux.Vars(r)[name]
	uid, err := uuid.Parse(raw)
	if err != nil {
		badRequest(w, "Invalid event uid", "event uid must be a valid UUID")
		return uuid.Nil, false
	}
	return uid, true
}

func pathDate(w http.ResponseWriter, r *http.Request) (civiltime.CivilDate, bool) {
	raw := mux.Vars(r)["date"]
	date, ok := civiltime.ParseDate(raw)
	if !ok {
		badRequest(w, "Invalid date", "date must be in YYYY-MM-DD format")
		return civiltime.CivilDate{}, false
	}
	return date, true
}

func badRequest(w http.ResponseWriter, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   message,
		Details: details,
	})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}

func notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error: "Event not found",
	})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}
