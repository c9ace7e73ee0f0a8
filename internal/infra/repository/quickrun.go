package repository

import (
	"context"
	"time"

	"lunchrun/internal/domain/quickrun"
	"lunchrun/internal/infra"
	"lunchrun/internal/pkg/money"
	"lunchrun/internal/pkg/pgconv"
	"lunchrun/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type QuickRunRepository struct {
	db DBTX
}

func NewQuickRunRepository(db DBTX) *QuickRunRepository {
	return &QuickRunRepository{db: db}
}

const quickRunColumns = `id, org_id, runner_user_id, destination, delay_minutes,
	deadline_at, note, status, created_at, updated_at`

func (r *QuickRunRepository) Create(ctx context.Context, q *quickrun.QuickRun) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO quick_runs (id, org_id, runner_user_id, destination, delay_minutes,
			deadline_at, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		q.ID(), q.OrgID(), q.RunnerUserID(), q.Destination(), q.DelayMinutes(),
		pgconv.TimeToPgtype(q.DeadlineAt()), pgconv.StringPtrToPgtype(q.Note()), q.Status().String(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create quick run", err)
	}
	return nil
}

func (r *QuickRunRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*quickrun.QuickRun, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+quickRunColumns+`
		FROM quick_runs
		WHERE org_id = $1 AND id = $2`,
		orgID, id,
	)
	return scanQuickRun(row)
}

func (r *QuickRunRepository) Update(ctx context.Context, q *quickrun.QuickRun) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE quick_runs
		SET runner_user_id = $1, status = $2, updated_at = now()
		WHERE id = $3`,
		q.RunnerUserID(), q.Status().String(), q.ID(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update quick run", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("quick run not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *QuickRunRepository) SweepExpired(ctx context.Context, now time.Time) ([]shared.SweptEntity, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE quick_runs
		SET status = $1, updated_at = now()
		WHERE status = $2 AND deadline_at <= $3
		RETURNING id, org_id`,
		quickrun.StatusLocked.String(), quickrun.StatusOpen.String(), pgconv.TimeToPgtype(now),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to sweep quick runs", err)
	}
	defer rows.Close()

	var swept []shared.SweptEntity
	for rows.Next() {
		var e shared.SweptEntity
		if err := rows.Scan(&e.ID, &e.OrgID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan swept quick run", err)
		}
		swept = append(swept, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read swept quick runs", err)
	}
	return swept, nil
}

const requestColumns = `id, quick_run_id, participant_user_id, description,
	price_estimated_cents, price_final_cents, created_at, updated_at`

func (r *QuickRunRepository) FindRequest(ctx context.Context, quickRunID, participantUserID uuid.UUID) (*quickrun.Request, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+requestColumns+`
		FROM quick_run_requests
		WHERE quick_run_id = $1 AND participant_user_id = $2`,
		quickRunID, participantUserID,
	)
	return scanRequest(row)
}

func (r *QuickRunRepository) CreateRequest(ctx context.Context, req *quickrun.Request) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO quick_run_requests (id, quick_run_id, participant_user_id, description,
			price_estimated_cents, price_final_cents)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		req.ID(), req.QuickRunID(), req.ParticipantUserID(), req.Description(),
		centsPtrToPgtype(req.PriceEstimated()), centsPtrToPgtype(req.PriceFinal()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("request already exists for participant", err, infra.KindDuplicateKey)
		}
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("quick run not found", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create quick run request", err)
	}
	return nil
}

func (r *QuickRunRepository) UpdateRequest(ctx context.Context, req *quickrun.Request) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE quick_run_requests
		SET description = $1, price_estimated_cents = $2, price_final_cents = $3, updated_at = now()
		WHERE id = $4`,
		req.Description(), centsPtrToPgtype(req.PriceEstimated()), centsPtrToPgtype(req.PriceFinal()), req.ID(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update quick run request", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("request not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *QuickRunRepository) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM quick_run_requests WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete quick run request", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("request not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanQuickRun(row rowScanner) (*quickrun.QuickRun, error) {
	var (
		id, orgID, runnerID  uuid.UUID
		destination          string
		delayMinutes         int
		deadlineAt           time.Time
		note                 pgtype.Text
		status               string
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &orgID, &runnerID, &destination, &delayMinutes,
		&deadlineAt, &note, &status, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("quick run not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan quick run", err)
	}

	return quickrun.ReconstructQuickRun(
		id, orgID, runnerID,
		destination,
		delayMinutes,
		deadlineAt,
		pgconv.StringPtrFromPgtype(note),
		quickrun.Status(status),
		createdAt, updatedAt,
	), nil
}

func scanRequest(row rowScanner) (*quickrun.Request, error) {
	var (
		id, quickRunID, participantID uuid.UUID
		description                   string
		priceEstimated, priceFinal    pgtype.Int8
		createdAt, updatedAt          time.Time
	)
	err := row.Scan(&id, &quickRunID, &participantID, &description,
		&priceEstimated, &priceFinal, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("request not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan quick run request", err)
	}

	return quickrun.ReconstructRequest(
		id, quickRunID, participantID,
		description,
		centsPtrFromPgtype(priceEstimated), centsPtrFromPgtype(priceFinal),
		createdAt, updatedAt,
	), nil
}

func centsPtrFromPgtype(v pgtype.Int8) *money.Cents {
	if !v.Valid {
		return nil
	}
	c := money.Cents(v.Int64)
	return &c
}
