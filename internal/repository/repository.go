package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"campus-volunteer/internal/domain"
)

var (
	// ErrStatusConflict is returned by conditional transitions when the row
	// is no longer in the expected status.
	ErrStatusConflict = errors.New("status changed concurrently")
	// ErrDuplicate is returned when a unique constraint rejects an insert.
	ErrDuplicate = errors.New("duplicate record")
	// ErrCapacityReached is returned when a capacity-guarded insert finds the
	// limit already met.
	ErrCapacityReached = errors.New("capacity reached")
)

type Repositories struct {
	User          UserRepository
	Problem       ProblemRepository
	Event         EventRepository
	Participation ParticipationRepository
	Notification  NotificationRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		Problem:       NewProblemRepository(db),
		Event:         NewEventRepository(db),
		Participation: NewParticipationRepository(db),
		Notification:  NewNotificationRepository(db),
	}
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// applyReward locks the user row, evaluates rule against the locked counters
// and adds the resulting delta. Badges the user already holds are skipped.
func applyReward(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, rule domain.RewardRule) (*domain.RewardOutcome, error) {
	if rule == nil {
		return nil, nil
	}

	var user domain.User
	err := tx.GetContext(ctx, &user, `SELECT * FROM users WHERE user_id = $1 FOR UPDATE`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFoundError("user", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("lock user: %w", err)
	}

	delta := rule(&user)
	if delta.IsZero() {
		return &domain.RewardOutcome{Delta: delta, User: &user}, nil
	}

	query := `
		UPDATE users
		SET problems_reported = problems_reported + $2,
			problems_approved = problems_approved + $3,
			reward_points = reward_points + $4,
			reporting_score = reporting_score + $5,
			badges = badges || ARRAY(SELECT b FROM unnest($6::text[]) AS b WHERE NOT (b = ANY(badges))),
			updated_at = NOW()
		WHERE user_id = $1`

	res, err := tx.ExecContext(ctx, query, userID,
		delta.ProblemsReported, delta.ProblemsApproved, delta.RewardPoints, delta.ReportingScore,
		pq.Array(delta.Badges),
	)
	if err != nil {
		return nil, fmt.Errorf("apply reward delta: %w", err)
	}
	if err := expectOneRow(res, domain.NewNotFoundError("user", userID)); err != nil {
		return nil, err
	}

	user.Apply(delta)
	return &domain.RewardOutcome{Delta: delta, User: &user}, nil
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func expectOneRow(res rowsAffected, missing error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
