package event

import (
	"context"
	"sort"
	"sync"

	"github.com/backofhouse/backofhouse/pkg/civiltime"
	"github.com/google/uuid"
)

type RepositoryStub struct {
	mu    sync.RWMutex
	items map[uuid.UUID]Event
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{items: make(map[uuid.UUID]Event)}
}

func (r *RepositoryStub) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	r.mu.Lock()
	original := make(map[uuid.UUID]Event, len(r.items))
	for k, v := range r.items {
		original[k] = v
	}
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.items = original
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *RepositoryStub) StoreEvent(ctx context.Context, event Event) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	uid := uuid.New()
	if event.UID.Valid {
		uid = event.UID.UUID
	}
	event.UID = uuid.NullUUID{UUID: uid, Valid: true}
	r.items[uid] = event
	return uid, nil
}

func (r *RepositoryStub) GetEvent(ctx context.Context, eventUid uuid.UUID) (*Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, exists := r.items[eventUid]
	if !exists {
		return nil, ErrEventNotFound
	}
	return &event, nil
}

func (r *RepositoryStub) GetEvents(ctx context.Context) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Event, 0, len(r.items))
	for _, event := range r.items {
		result = append(result, event)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].StartTime.Before(result[j].StartTime)
	})
	return result, nil
}

func (r *RepositoryStub) UpdateEvent(ctx context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !event.UID.Valid {
		return ErrEventNotFound
	}
	if _, exists := r.items[event.UID.UUID]; !exists {
		return ErrEventNotFound
	}
	r.items[event.UID.UUID] = event
	return nil
}

func (r *RepositoryStub) DeleteEvent(ctx context.Context, eventUid uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[eventUid]; !exists {
		return ErrEventNotFound
	}
	delete(r.items, eventUid)
	return nil
}

func (r *RepositoryStub) AddException(ctx context.Context, eventUid uuid.UUID, date civiltime.CivilDate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, exists := r.items[eventUid]
	if !exists {
		return ErrEventNotFound
	}
	for _, existing := range event.Exceptions {
		if existing == date {
			return nil
		}
	}
	event.Exceptions = append(event.Exceptions, date)
	r.items[eventUid] = event
	return nil
}

func (r *RepositoryStub) RemoveException(ctx context.Context, eventUid uuid.UUID, date civiltime.CivilDate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, exists := r.items[eventUid]
	if !exists {
		return ErrEventNotFound
	}
	kept := event.Exceptions[:0]
	for _, existing := range event.Exceptions {
		if existing != date {
			kept = append(kept, existing)
		}
	}
	event.Exceptions = kept
	r.items[eventUid] = event
	return nil
}
