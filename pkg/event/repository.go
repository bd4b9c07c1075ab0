package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/backofhouse/backofhouse/pkg/civiltime"
	"github.com/backofhouse/backofhouse/pkg/recurrence"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrEventNotFound = errors.New("event not found")

type Repository interface {
	WithTransaction(ctx context.Context, fn func(repo Repository) error) error
	StoreEvent(ctx context.Context, event Event) (uuid.UUID, error)
	GetEvent(ctx context.Context, eventUid uuid.UUID) (*Event, error)
	GetEvents(ctx context.Context) ([]Event, error)
	UpdateEvent(ctx context.Context, event Event) error
	DeleteEvent(ctx context.Context, eventUid uuid.UUID) error
	AddException(ctx context.Context, eventUid uuid.UUID, date civiltime.CivilDate) error
	RemoveException(ctx context.Context, eventUid uuid.UUID, date civiltime.CivilDate) error
}

type RepositoryImpl struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db, tx: nil}
}

// getQueryer returns the appropriate database interface for queries (either tx or db)
func (r *RepositoryImpl) getQueryer() interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *RepositoryImpl) WithTransaction(ctx context.Context, fn func(repo Repository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// The Rollback will be a no-op if the transaction was already committed
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Errorf("rollback error: %v", rbErr)
		}
	}()

	txRepo := &RepositoryImpl{db: r.db, tx: tx}
	if err := fn(txRepo); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) StoreEvent(ctx context.Context, event Event) (uuid.UUID, error) {
	query := `INSERT INTO calendar_event (
                        uid,
                        title,
                        start_time,
                        end_time,
                        all_day,
                        recurrence_rule
                    ) VALUES (?, ?, ?, ?, ?, ?)`

	uid := uuid.New()
	if event.UID.Valid {
		uid = event.UID.UUID
	}

	var endMillis sql.NullInt64
	if event.HasEnd() {
		endMillis = sql.NullInt64{Int64: event.EndTime.UnixMilli(), Valid: true}
	}

	_, err := r.getQueryer().ExecContext(ctx, query,
		uid.String(), event.Title, event.StartTime.UnixMilli(), endMillis, event.AllDay, event.Recurrence.Encode())
	if err != nil {
		err := fmt.Errorf("could not store calendar event: %w", err)
		log.Error(err)
		return uuid.Nil, err
	}

	for _, date := range event.Exceptions {
		if err := r.AddException(ctx, uid, date); err != nil {
			return uuid.Nil, err
		}
	}

	return uid, nil
}

func (r *RepositoryImpl) GetEvent(ctx context.Context, eventUid uuid.UUID) (*Event, error) {
	query := `SELECT uid, title, start_time, end_time, all_day, recurrence_rule
              FROM calendar_event
              WHERE uid = ?`

	row := r.getQueryer().QueryRowContext(ctx, query, eventUid.String())
	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query calendar event: %w", err)
		log.Error(err)
		return nil, err
	}

	exceptions, err := r.getExceptions(ctx, eventUid)
	if err != nil {
		return nil, err
	}
	event.Exceptions = exceptions
	return &event, nil
}

func (r *RepositoryImpl) GetEvents(ctx context.Context) ([]Event, error) {
	query := `SELECT uid, title, start_time, end_time, all_day, recurrence_rule
              FROM calendar_event
              ORDER BY start_time`

	rows, err := r.getQueryer().QueryContext(ctx, query)
	if err != nil {
		err := fmt.Errorf("could not query calendar events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0, 10)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range events {
		exceptions, err := r.getExceptions(ctx, events[i].UID.UUID)
		if err != nil {
			return nil, err
		}
		events[i].Exceptions = exceptions
	}
	return events, nil
}

func (r *RepositoryImpl) UpdateEvent(ctx context.Context, event Event) error {
	if !event.UID.Valid {
		return fmt.Errorf("cannot update event without uid")
	}

	query := `UPDATE calendar_event
              SET title = ?, start_time = ?, end_time = ?, all_day = ?, recurrence_rule = ?
              WHERE uid = ?`

	var endMillis sql.NullInt64
	if event.HasEnd() {
		endMillis = sql.NullInt64{Int64: event.EndTime.UnixMilli(), Valid: true}
	}

	result, err := r.getQueryer().ExecContext(ctx, query,
		event.Title, event.StartTime.UnixMilli(), endMillis, event.AllDay, event.Recurrence.Encode(),
		event.UID.UUID.String())
	if err != nil {
		err := fmt.Errorf("could not update calendar event: %w", err)
		log.Error(err)
		return err
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrEventNotFound
	}

	// Exceptions are replaced wholesale; the set on the event is the truth.
	if _, err := r.getQueryer().ExecContext(ctx, `DELETE FROM event_exception WHERE event_uid = ?`, event.UID.UUID.String()); err != nil {
		err := fmt.Errorf("could not clear event exceptions: %w", err)
		log.Error(err)
		return err
	}
	for _, date := range event.Exceptions {
		if err := r.AddException(ctx, event.UID.UUID, date); err != nil {
			return err
		}
	}
	return nil
}

func (r *RepositoryImpl) DeleteEvent(ctx context.Context, eventUid uuid.UUID) error {
	if _, err := r.getQueryer().ExecContext(ctx, `DELETE FROM event_exception WHERE event_uid = ?`, eventUid.String()); err != nil {
		err := fmt.Errorf("could not delete event exceptions: %w", err)
		log.Error(err)
		return err
	}
	result, err := r.getQueryer().ExecContext(ctx, `DELETE FROM calendar_event WHERE uid = ?`, eventUid.String())
	if err != nil {
		err := fmt.Errorf("could not delete calendar event: %w", err)
		log.Error(err)
		return err
	}
	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *RepositoryImpl) AddException(ctx context.Context, eventUid uuid.UUID, date civiltime.CivilDate) error {
	query := `INSERT INTO event_exception (event_uid, exception_date)
              VALUES (?, ?)
              ON CONFLICT (event_uid, exception_date) DO NOTHING`

	_, err := r.getQueryer().ExecContext(ctx, query, eventUid.String(), date.String())
	if err != nil {
		err := fmt.Errorf("could not store event exception: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) RemoveException(ctx context.Context, eventUid uuid.UUID, date civiltime.CivilDate) error {
	query := `DELETE FROM event_exception WHERE event_uid = ? AND exception_date = ?`

	_, err := r.getQueryer().ExecContext(ctx, query, eventUid.String(), date.String())
	if err != nil {
		err := fmt.Errorf("could not delete event exception: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) getExceptions(ctx context.Context, eventUid uuid.UUID) ([]civiltime.CivilDate, error) {
	query := `SELECT exception_date FROM event_exception WHERE event_uid = ? ORDER BY exception_date`

	rows, err := r.getQueryer().QueryContext(ctx, query, eventUid.String())
	if err != nil {
		err := fmt.Errorf("could not query event exceptions: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	var dates []civiltime.CivilDate
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			err := fmt.Errorf("could not scan row: %w", err)
			log.Error(err)
			return nil, err
		}
		date, ok := civiltime.ParseDate(raw)
		if !ok {
			// A stored exception that no longer parses cannot match any
			// occurrence; skip it instead of failing the read.
			log.Warnf("dropping unparseable exception date %q for event %s", raw, eventUid)
			continue
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (Event, error) {
	var uidString string
	var title string
	var startMillis int64
	var endMillis sql.NullInt64
	var allDay bool
	var rule string

	if err := row.Scan(&uidString, &title, &startMillis, &endMillis, &allDay, &rule); err != nil {
		return Event{}, err
	}

	uid, err := uuid.Parse(uidString)
	if err != nil {
		return Event{}, fmt.Errorf("could not parse event uid %q: %w", uidString, err)
	}

	event := Event{
		UID:        uuid.NullUUID{UUID: uid, Valid: true},
		Title:      title,
		StartTime:  time.UnixMilli(startMillis),
		AllDay:     allDay,
		Recurrence: recurrence.Decode(rule),
	}
	if endMillis.Valid {
		event.EndTime = time.UnixMilli(endMillis.Int64)
	}
	return event, nil
}
