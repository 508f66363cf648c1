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

type ParticipationRepository interface {
	// CreateWithinCapacity inserts the registration only while the event has
	// fewer than capacity active registrations. A capacity of 0 means
	// unlimited.
	CreateWithinCapacity(ctx context.Context, p *domain.Participation, capacity int) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Participation, error)
	GetByEventAndStudent(ctx context.Context, eventID, studentID uuid.UUID) (*domain.Participation, error)
	CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID, status domain.ParticipationStatus) ([]domain.Participation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ParticipationStatus, reviewedBy uuid.UUID, reviewedAt time.Time, reason *string) error
	// SetAttendance applies the attendance toggle and the student's hour delta
	// in one transaction and returns the student's new total.
	SetAttendance(ctx context.Context, change domain.AttendanceChange) (int, error)
}

type participationRepository struct {
	db *sqlx.DB
}

func NewParticipationRepository(db *sqlx.DB) ParticipationRepository {
	return &participationRepository{db: db}
}

const activeParticipationStatuses = `('pending', 'approved', 'attended', 'completed')`

// CreateWithinCapacity locks the event row so concurrent registrations for
// the same event are counted one at a time.
func (r *participationRepository) CreateWithinCapacity(ctx context.Context, p *domain.Participation, capacity int) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var locked uuid.UUID
		if err := tx.GetContext(ctx, &locked, `SELECT event_id FROM events WHERE event_id = $1 FOR UPDATE`, p.EventID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.NewNotFoundError("event", p.EventID)
			}
			return fmt.Errorf("lock event: %w", err)
		}

		if capacity > 0 {
			var active int
			countQuery := `SELECT COUNT(*) FROM participations WHERE event_id = $1 AND status IN ` + activeParticipationStatuses
			if err := tx.GetContext(ctx, &active, countQuery, p.EventID); err != nil {
				return fmt.Errorf("count participations: %w", err)
			}
			if active >= capacity {
				return ErrCapacityReached
			}
		}

		query := `
			INSERT INTO participations (participation_id, event_id, student_id, status, attended, volunteer_hours)
			VALUES ($1, $2, $3, $4, false, 0)
			RETURNING created_at, updated_at`

		err := tx.QueryRowxContext(ctx, query, p.ID, p.EventID, p.StudentID, p.Status).
			Scan(&p.CreatedAt, &p.UpdatedAt)
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		if err != nil {
			return fmt.Errorf("insert participation: %w", err)
		}
		return nil
	})
}

func (r *participationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Participation, error) {
	var p domain.Participation
	query := `SELECT * FROM participations WHERE participation_id = $1`

	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *participationRepository) GetByEventAndStudent(ctx context.Context, eventID, studentID uuid.UUID) (*domain.Participation, error) {
	var p domain.Participation
	query := `SELECT * FROM participations WHERE event_id = $1 AND student_id = $2`

	err := r.db.GetContext(ctx, &p, query, eventID, studentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *participationRepository) CountActiveByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM participations WHERE event_id = $1 AND status IN ` + activeParticipationStatuses
	err := r.db.GetContext(ctx, &count, query, eventID)
	return count, err
}

func (r *participationRepository) ListByEvent(ctx context.Context, eventID uuid.UUID, status domain.ParticipationStatus) ([]domain.Participation, error) {
	var list []domain.Participation
	query := `SELECT * FROM participations WHERE event_id = $1 AND ($2::text = '' OR status = $2::text) ORDER BY created_at ASC`
	err := r.db.SelectContext(ctx, &list, query, eventID, status)
	return list, err
}

func (r *participationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.ParticipationStatus, reviewedBy uuid.UUID, reviewedAt time.Time, reason *string) error {
	query := `
		UPDATE participations
		SET status = $3, reviewed_by = $4, reviewed_at = $5, reject_reason = $6, updated_at = NOW()
		WHERE participation_id = $1 AND status = $2`

	res, err := r.db.ExecContext(ctx, query, id, from, to, reviewedBy, reviewedAt, reason)
	if err != nil {
		return fmt.Errorf("update participation status: %w", err)
	}
	return expectOneRow(res, ErrStatusConflict)
}

func (r *participationRepository) SetAttendance(ctx context.Context, c domain.AttendanceChange) (int, error) {
	var total int
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE participations
			SET status = $3, attended = $4, volunteer_hours = $5, updated_at = NOW()
			WHERE participation_id = $1 AND status = $2 AND attended = $6`

		res, err := tx.ExecContext(ctx, query, c.ParticipationID, c.FromStatus, c.ToStatus, c.Attended, c.Hours, !c.Attended)
		if err != nil {
			return fmt.Errorf("set attendance: %w", err)
		}
		if err := expectOneRow(res, ErrStatusConflict); err != nil {
			return err
		}

		hoursQuery := `
			UPDATE users
			SET total_volunteer_hours = GREATEST(total_volunteer_hours + $2, 0), updated_at = NOW()
			WHERE user_id = $1
			RETURNING total_volunteer_hours`
		if err := tx.QueryRowxContext(ctx, hoursQuery, c.StudentID, c.HoursDelta).Scan(&total); err != nil {
			return fmt.Errorf("update volunteer hours: %w", err)
		}
		return nil
	})
	return total, err
}
