package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/backofhouse/backofhouse/pkg/civiltime"
)

type Service interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, settings Settings) (Settings, error)
	// Timezone resolves the company timezone: the stored override when
	// present, otherwise the configured default. An unresolvable zone is a
	// configuration error, never silently replaced.
	Timezone(ctx context.Context) (*time.Location, error)
}

type ServiceImpl struct {
	repo            Repository
	defaultTimezone string
}

func NewService(repo Repository, defaultTimezone string) *ServiceImpl {
	if defaultTimezone == "" {
		defaultTimezone = DefaultTimezone
	}
	return &ServiceImpl{repo: repo, defaultTimezone: defaultTimezone}
}

func (s *ServiceImpl) Get(ctx context.Context) (Settings, error) {
	stored, err := s.repo.Get(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read company settings: %w", err)
	}
	if stored == nil {
		return Settings{Timezone: s.defaultTimezone, WeekFirstDay: time.Monday}, nil
	}
	if stored.Timezone == "" {
		stored.Timezone = s.defaultTimezone
	}
	return *stored, nil
}

func (s *ServiceImpl) Update(ctx context.Context, settings Settings) (Settings, error) {
	if _, err := civiltime.LoadZone(settings.Timezone); err != nil {
		return Settings{}, fmt.Errorf("invalid company timezone: %w", err)
	}
	if err := s.repo.Store(ctx, settings); err != nil {
		return Settings{}, fmt.Errorf("failed to store company settings: %w", err)
	}
	return settings, nil
}

func (s *ServiceImpl) Timezone(ctx context.Context) (*time.Location, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	loc, err := civiltime.LoadZone(current.Timezone)
	if err != nil {
		return nil, fmt.Errorf("company timezone misconfigured: %w", err)
	}
	return loc, nil
}
