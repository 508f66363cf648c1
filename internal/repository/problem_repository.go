package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"campus-volunteer/internal/domain"
)

type ProblemRepository interface {
	// Create inserts the problem and credits the reporter atomically. The
	// returned outcome is nil when reward is nil.
	Create(ctx context.Context, problem *domain.Problem, reward domain.RewardRule) (*domain.RewardOutcome, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Problem, error)
	List(ctx context.Context, filter domain.ProblemFilter, params domain.PaginationParams) ([]domain.Problem, int64, error)
	CountByReporterSince(ctx context.Context, reporterID uuid.UUID, since time.Time) (int64, error)
	// Approve creates the derived event, moves the problem from pending to
	// approved and credits the reporter in one transaction.
	Approve(ctx context.Context, review domain.ProblemReview, event *domain.Event, reporterID uuid.UUID, reward domain.RewardRule) (*domain.RewardOutcome, error)
	Reject(ctx context.Context, review domain.ProblemReview) error
	Resolve(ctx context.Context, id uuid.UUID, resolvedAt time.Time, reporterID uuid.UUID, reward domain.RewardRule) (*domain.RewardOutcome, error)
}

type problemRepository struct {
	db *sqlx.DB
}

func NewProblemRepository(db *sqlx.DB) ProblemRepository {
	return &problemRepository{db: db}
}

func (r *problemRepository) Create(ctx context.Context, p *domain.Problem, reward domain.RewardRule) (*domain.RewardOutcome, error) {
	var outcome *domain.RewardOutcome
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		// created_at comes from the caller's clock so the monthly report
		// window is measured the same way by every store.
		query := `
			INSERT INTO problems (problem_id, title, description, category, location_address, latitude, longitude,
				images, severity, status, visibility, reported_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, COALESCE($13, NOW()), COALESCE($13, NOW()))
			RETURNING created_at, updated_at`

		var createdAt *time.Time
		if !p.CreatedAt.IsZero() {
			createdAt = &p.CreatedAt
		}
		err := tx.QueryRowxContext(ctx, query,
			p.ID, p.Title, p.Description, p.Category, p.LocationAddress, p.Latitude, p.Longitude,
			p.Images, p.Severity, p.Status, p.Visibility, p.ReportedBy, createdAt,
		).Scan(&p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert problem: %w", err)
		}

		outcome, err = applyReward(ctx, tx, p.ReportedBy, reward)
		return err
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (r *problemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Problem, error) {
	var p domain.Problem
	query := `SELECT * FROM problems WHERE problem_id = $1`

	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *problemRepository) List(ctx context.Context, filter domain.ProblemFilter, params domain.PaginationParams) ([]domain.Problem, int64, error) {
	params.Validate()

	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != nil {
		conds = append(conds, "status = "+arg(*filter.Status))
	}
	if filter.Category != "" {
		conds = append(conds, "category = "+arg(filter.Category))
	}
	switch {
	case filter.PublicOnly && filter.ReportedBy != nil:
		conds = append(conds, "((visibility = 'public' AND status = 'approved') OR reported_by = "+arg(*filter.ReportedBy)+")")
	case filter.PublicOnly:
		conds = append(conds, "visibility = 'public' AND status = 'approved'")
	case filter.ReportedBy != nil:
		conds = append(conds, "reported_by = "+arg(*filter.ReportedBy))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM problems"+where, args...); err != nil {
		return nil, 0, err
	}

	var problems []domain.Problem
	query := "SELECT * FROM problems" + where +
		" ORDER BY created_at DESC LIMIT " + arg(params.PageSize) + " OFFSET " + arg(params.Offset())
	err := r.db.SelectContext(ctx, &problems, query, args...)
	return problems, total, err
}

func (r *problemRepository) CountByReporterSince(ctx context.Context, reporterID uuid.UUID, since time.Time) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM problems WHERE reported_by = $1 AND created_at >= $2`
	err := r.db.GetContext(ctx, &count, query, reporterID, since)
	return count, err
}

func (r *problemRepository) Approve(ctx context.Context, review domain.ProblemReview, event *domain.Event, reporterID uuid.UUID, reward domain.RewardRule) (*domain.RewardOutcome, error) {
	var outcome *domain.RewardOutcome
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertEvent(ctx, tx, event); err != nil {
			return err
		}

		query := `
			UPDATE problems
			SET status = $2, visibility = $3, reviewed_by = $4, reviewed_at = $5, event_id = $6,
				points_awarded = COALESCE(points_awarded, $7), updated_at = NOW()
			WHERE problem_id = $1 AND status = 'pending'`

		res, err := tx.ExecContext(ctx, query, review.ProblemID, review.Status, review.Visibility,
			review.ReviewedBy, review.ReviewedAt, review.EventID, review.PointsAwarded)
		if err != nil {
			return fmt.Errorf("approve problem: %w", err)
		}
		if err := expectOneRow(res, ErrStatusConflict); err != nil {
			return err
		}

		outcome, err = applyReward(ctx, tx, reporterID, reward)
		return err
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (r *problemRepository) Reject(ctx context.Context, review domain.ProblemReview) error {
	query := `
		UPDATE problems
		SET status = $2, visibility = $3, reviewed_by = $4, reviewed_at = $5, review_feedback = $6, updated_at = NOW()
		WHERE problem_id = $1 AND status = 'pending'`

	res, err := r.db.ExecContext(ctx, query, review.ProblemID, review.Status, review.Visibility,
		review.ReviewedBy, review.ReviewedAt, review.Feedback)
	if err != nil {
		return fmt.Errorf("reject problem: %w", err)
	}
	return expectOneRow(res, ErrStatusConflict)
}

func (r *problemRepository) Resolve(ctx context.Context, id uuid.UUID, resolvedAt time.Time, reporterID uuid.UUID, reward domain.RewardRule) (*domain.RewardOutcome, error) {
	var outcome *domain.RewardOutcome
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE problems
			SET status = 'resolved', visibility = 'private', resolved_at = $2, updated_at = NOW()
			WHERE problem_id = $1 AND status = 'approved'`

		res, err := tx.ExecContext(ctx, query, id, resolvedAt)
		if err != nil {
			return fmt.Errorf("resolve problem: %w", err)
		}
		if err := expectOneRow(res, ErrStatusConflict); err != nil {
			return err
		}

		outcome, err = applyReward(ctx, tx, reporterID, reward)
		return err
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}
