package event

import (
	"context"
	"fmt"
	"time"

	"github.com/backofhouse/backofhouse/internal/event_bus"
	"github.com/backofhouse/backofhouse/internal/utils"
	"github.com/backofhouse/backofhouse/pkg/civiltime"
	"github.com/backofhouse/backofhouse/pkg/settings"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// upcomingHorizonDays bounds how far ahead the "upcoming" view expands
// unbounded recurrences.
const upcomingHorizonDays = 90

type Service interface {
	AddEvent(ctx context.Context, event Event) (*Event, error)
	GetEvent(ctx context.Context, eventUid uuid.UUID) (*Event, error)
	GetEvents(ctx context.Context) ([]Event, error)
	ModifyEvent(ctx context.Context, event Event) (*Event, error)
	DeleteEvent(ctx context.Context, eventUid uuid.UUID) error
	AddException(ctx context.Context, eventUid uuid.UUID, date civiltime.CivilDate) error
	RemoveException(ctx context.Context, eventUid uuid.UUID, date civiltime.CivilDate) error
	GetOccurrences(ctx context.Context, from, to civiltime.CivilDate) ([]Occurrence, error)
	GetUpcomingOccurrences(ctx context.Context, limit int) ([]Occurrence, error)
	CompanyZone(ctx context.Context) (*time.Location, error)
}

type ServiceImpl struct {
	repo     Repository
	settings settings.Service
	clock    utils.Clock
	bus      *event_bus.EventBus
}

func NewService(repo Repository, settingsService settings.Service, clock utils.Clock, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{
		repo:     repo,
		settings: settingsService,
		clock:    clock,
		bus:      bus,
	}
}

func (s *ServiceImpl) AddEvent(ctx context.Context, event Event) (*Event, error) {
	uid, err := s.repo.StoreEvent(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to store event: %w", err)
	}
	event.UID = uuid.NullUUID{UUID: uid, Valid: true}
	s.publishStored(ctx, event)
	return &event, nil
}

func (s *ServiceImpl) GetEvent(ctx context.Context, eventUid uuid.UUID) (*Event, error) {
	return s.repo.GetEvent(ctx, eventUid)
}

func (s *ServiceImpl) GetEvents(ctx context.Context) ([]Event, error) {
	return s.repo.GetEvents(ctx)
}

func (s *ServiceImpl) ModifyEvent(ctx context.Context, event Event) (*Event, error) {
	err := s.repo.WithTransaction(ctx, func(repo Repository) error {
		return repo.UpdateEvent(ctx, event)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	s.publishStored(ctx, event)
	return &event, nil
}

func (s *ServiceImpl) DeleteEvent(ctx context.Context, eventUid uuid.UUID) error {
	if err := s.repo.DeleteEvent(ctx, eventUid); err != nil {
		return err
	}
	s.publish(event_bus.NewEvent(ctx, event_bus.CalendarEventDeletedType, event_bus.CalendarEventDeleted{
		UID: eventUid.String(),
	}))
	return nil
}

func (s *ServiceImpl) AddException(ctx context.Context, eventUid uuid.UUID, date civiltime.CivilDate) error {
	if err := s.repo.AddException(ctx, eventUid, date); err != nil {
		return err
	}
	s.publish(event_bus.NewEvent(ctx, event_bus.ExceptionChangedType, event_bus.ExceptionChanged{
		EventUID: eventUid.String(),
		Date:     date.String(),
	}))
	return nil
}

func (s *ServiceImpl) RemoveException(ctx context.Context, eventUid uuid.UUID, date civiltime.CivilDate) error {
	if err := s.repo.RemoveException(ctx, eventUid, date); err != nil {
		return err
	}
	s.publish(event_bus.NewEvent(ctx, event_bus.ExceptionChangedType, event_bus.ExceptionChanged{
		EventUID: eventUid.String(),
		Date:     date.String(),
		Removed:  true,
	}))
	return nil
}

// GetOccurrences expands every stored event into its concrete occurrences
// within the inclusive [from, to] window, interpreted in the company timezone.
// The result is recomputed from the stored rules on every call and sorted
// ascending, so repeated reads with the same inputs are identical.
func (s *ServiceImpl) GetOccurrences(ctx context.Context, from, to civiltime.CivilDate) ([]Occurrence, error) {
	loc, err := s.CompanyZone(ctx)
	if err != nil {
		return nil, err
	}

	events, err := s.repo.GetEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	occurrences := make([]Occurrence, 0, len(events))
	for _, event := range events {
		occurrences = append(occurrences, Occurrences(event, from, to, loc)...)
	}
	SortOccurrences(occurrences)
	return occurrences, nil
}

// GetUpcomingOccurrences returns the next occurrences from today onward, at
// most limit of them, looking at most upcomingHorizonDays ahead.
func (s *ServiceImpl) GetUpcomingOccurrences(ctx context.Context, limit int) ([]Occurrence, error) {
	if limit <= 0 {
		return []Occurrence{}, nil
	}
	loc, err := s.CompanyZone(ctx)
	if err != nil {
		return nil, err
	}

	today := civiltime.ToCivilDate(s.clock.Now(), loc)
	occurrences, err := s.GetOccurrences(ctx, today, today.AddDays(upcomingHorizonDays))
	if err != nil {
		return nil, err
	}
	if len(occurrences) > limit {
		occurrences = occurrences[:limit]
	}
	return occurrences, nil
}

func (s *ServiceImpl) publishStored(ctx context.Context, e Event) {
	s.publish(event_bus.NewEvent(ctx, event_bus.CalendarEventStoredType, event_bus.CalendarEventStored{
		UID:       e.UID.UUID.String(),
		Title:     e.Title,
		StartTime: e.StartTime,
		AllDay:    e.AllDay,
	}))
}

// publish notifies subscribers about a calendar change. Subscriber failures
// never fail the mutation that triggered them.
func (s *ServiceImpl) publish(e event_bus.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(e); err != nil {
		log.Warnf("calendar change notification failed: %v", err)
	}
}

// CompanyZone returns the timezone resolved for this request. The middleware
// resolves it once per request; outside a request (tests, jobs) it falls back
// to the settings service.
func (s *ServiceImpl) CompanyZone(ctx context.Context) (*time.Location, error) {
	if loc, ok := settings.TimezoneFrom(ctx); ok {
		return loc, nil
	}
	return s.settings.Timezone(ctx)
}
