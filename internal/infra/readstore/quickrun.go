package readstore

import (
	"context"

	"lunchrun/internal/domain/quickrun"
	"lunchrun/internal/infra"
	"lunchrun/internal/pkg/pgconv"
	"lunchrun/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type QuickRunReadStore struct {
	pool *pgxpool.Pool
}

func NewQuickRunReadStore(pool *pgxpool.Pool) queries.QuickRunViewRepo {
	return &QuickRunReadStore{pool: pool}
}

func (r *QuickRunReadStore) FindByID(ctx context.Context, orgID, id uuid.UUID) (*queries.QuickRunView, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, runner_user_id, destination, delay_minutes, deadline_at, note, status, created_at
		FROM quick_runs
		WHERE org_id = $1 AND id = $2`,
		orgID, id,
	)

	view, err := scanQuickRunView(row)
	if err != nil {
		return nil, err
	}
	views := []*queries.QuickRunView{view}
	if err := r.attachRequests(ctx, views); err != nil {
		return nil, err
	}
	return view, nil
}

func (r *QuickRunReadStore) ListActive(ctx context.Context, orgID uuid.UUID) ([]*queries.QuickRunView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, runner_user_id, destination, delay_minutes, deadline_at, note, status, created_at
		FROM quick_runs
		WHERE org_id = $1 AND status IN ($2, $3)
		ORDER BY created_at DESC`,
		orgID, quickrun.StatusOpen.String(), quickrun.StatusLocked.String(),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list quick runs", err)
	}
	defer rows.Close()

	views := []*queries.QuickRunView{}
	for rows.Next() {
		view, err := scanQuickRunView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read quick run views", err)
	}
	if len(views) == 0 {
		return views, nil
	}

	if err := r.attachRequests(ctx, views); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *QuickRunReadStore) attachRequests(ctx context.Context, views []*queries.QuickRunView) error {
	ids := make([]uuid.UUID, len(views))
	index := map[uuid.UUID]int{}
	for i, v := range views {
		ids[i] = v.ID
		index[v.ID] = i
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, quick_run_id, participant_user_id, description,
			price_estimated_cents, price_final_cents
		FROM quick_run_requests
		WHERE quick_run_id = ANY($1)
		ORDER BY created_at`,
		ids,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to list quick run requests", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rv                         queries.RequestView
			priceEstimated, priceFinal pgtype.Int8
		)
		err := rows.Scan(&rv.ID, &rv.QuickRunID, &rv.ParticipantUserID, &rv.Description,
			&priceEstimated, &priceFinal)
		if err != nil {
			return infra.WrapRepoErr("failed to scan request view", err)
		}
		rv.PriceEstimated = pgconv.Int64PtrFromPgtype(priceEstimated)
		rv.PriceFinal = pgconv.Int64PtrFromPgtype(priceFinal)
		if i, ok := index[rv.QuickRunID]; ok {
			views[i].Requests = append(views[i].Requests, rv)
		}
	}
	if err := rows.Err(); err != nil {
		return infra.WrapRepoErr("failed to read request views", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuickRunView(row rowScanner) (*queries.QuickRunView, error) {
	var (
		view queries.QuickRunView
		note pgtype.Text
	)
	err := row.Scan(&view.ID, &view.RunnerUserID, &view.Destination, &view.DelayMinutes,
		&view.DeadlineAt, &note, &view.Status, &view.CreatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("quick run not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan quick run view", err)
	}
	view.Note = pgconv.StringPtrFromPgtype(note)
	view.Requests = []queries.RequestView{}
	return &view, nil
}
