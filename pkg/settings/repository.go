package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Get(ctx context.Context) (*Settings, error)
	Store(ctx context.Context, settings Settings) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

// Get returns the stored company settings, or nil when nothing has been
// stored yet.
func (r *RepositoryImpl) Get(ctx context.Context) (*Settings, error) {
	query := `SELECT timezone, week_first_day FROM company_settings WHERE id = 1`

	var timezone string
	var weekFirstDay int
	err := r.db.QueryRowContext(ctx, query).Scan(&timezone, &weekFirstDay)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		err := fmt.Errorf("could not query company settings: %w", err)
		log.Error(err)
		return nil, err
	}

	return &Settings{
		Timezone:     timezone,
		WeekFirstDay: time.Weekday(weekFirstDay),
	}, nil
}

func (r *RepositoryImpl) Store(ctx context.Context, settings Settings) error {
	query := `INSERT INTO company_settings (id, timezone, week_first_day)
	          VALUES (1, ?, ?)
	          ON CONFLICT (id) DO UPDATE SET timezone = excluded.timezone, week_first_day = excluded.week_first_day`

	_, err := r.db.ExecContext(ctx, query, settings.Timezone, int(settings.WeekFirstDay))
	if err != nil {
		err := fmt.Errorf("could not store company settings: %w", err)
		log.Error(err)
		return err
	}
	return nil
}
