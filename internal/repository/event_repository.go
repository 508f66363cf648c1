package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"campus-volunteer/internal/domain"
)

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error)
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error)
}

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

type queryRower interface {
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
}

func insertEvent(ctx context.Context, q queryRower, e *domain.Event) error {
	query := `
		INSERT INTO events (event_id, title, description, type, location, start_at, end_at,
			registration_deadline, max_participants, status, problem_id, is_problem_derived, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`

	err := q.QueryRowxContext(ctx, query,
		e.ID, e.Title, e.Description, e.Type, e.Location, e.StartAt, e.EndAt,
		e.RegistrationDeadline, e.MaxParticipants, e.Status, e.ProblemID, e.IsProblemDerived, e.CreatedBy,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	return insertEvent(ctx, r.db, e)
}

func (r *eventRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Event, error) {
	var e domain.Event
	query := `SELECT * FROM events WHERE event_id = $1`

	err := r.db.GetContext(ctx, &e, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	var events []domain.Event
	query := `
		SELECT * FROM events
		WHERE status = 'upcoming' AND start_at >= $1 AND start_at < $2
		ORDER BY start_at ASC`
	err := r.db.SelectContext(ctx, &events, query, from, to)
	return events, err
}
