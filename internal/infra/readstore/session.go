package readstore

import (
	"context"
	"encoding/json"
	"time"

	"lunchrun/internal/domain/order"
	"lunchrun/internal/domain/proposal"
	"lunchrun/internal/domain/session"
	"lunchrun/internal/infra"
	"lunchrun/internal/pkg/pgconv"
	"lunchrun/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionReadStore struct {
	pool *pgxpool.Pool
}

func NewSessionReadStore(pool *pgxpool.Pool) queries.SessionViewRepo {
	return &SessionReadStore{pool: pool}
}

func (r *SessionReadStore) FindByDay(ctx context.Context, orgID uuid.UUID, day session.Day) (*queries.SessionView, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, org_id, day, deadline_at, status, channel_ref
		FROM sessions
		WHERE org_id = $1 AND day = $2`,
		orgID, string(day),
	)

	var (
		view       queries.SessionView
		dayVal     time.Time
		deadlineAt time.Time
	)
	err := row.Scan(&view.ID, &view.OrgID, &dayVal, &deadlineAt, &view.Status, &view.ChannelRef)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find session view", err)
	}
	view.Day = dayVal.Format("2006-01-02")
	view.DeadlineAt = deadlineAt

	view.Proposals, err = r.loadProposals(ctx, view.ID)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *SessionReadStore) loadProposals(ctx context.Context, sessionID uuid.UUID) ([]queries.ProposalView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, session_id, vendor, fulfillment, status,
			runner_user_id, orderer_user_id, help_requested,
			deadline_time, note, created_at
		FROM proposals
		WHERE session_id = $1
		ORDER BY created_at`,
		sessionID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list proposals", err)
	}
	defer rows.Close()

	views := []queries.ProposalView{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var (
			pv                  queries.ProposalView
			runnerID, ordererID pgtype.UUID
			deadlineTime, note  pgtype.Text
		)
		err := rows.Scan(&pv.ID, &pv.SessionID, &pv.Vendor, &pv.Fulfillment, &pv.Status,
			&runnerID, &ordererID, &pv.HelpRequested, &deadlineTime, &note, &pv.CreatedAt)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan proposal view", err)
		}
		pv.Holders = holderMap(runnerID, ordererID)
		pv.DeadlineTime = pgconv.StringPtrFromPgtype(deadlineTime)
		pv.Note = pgconv.StringPtrFromPgtype(note)
		pv.Orders = []queries.OrderView{}
		index[pv.ID] = len(views)
		views = append(views, pv)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read proposal views", err)
	}
	if len(views) == 0 {
		return views, nil
	}

	if err := r.attachOrders(ctx, sessionID, views, index); err != nil {
		return nil, err
	}
	return views, nil
}

func (r *SessionReadStore) attachOrders(ctx context.Context, sessionID uuid.UUID, views []queries.ProposalView, index map[uuid.UUID]int) error {
	rows, err := r.pool.Query(ctx, `
		SELECT o.id, o.proposal_id, o.participant_user_id, o.description,
			o.price_estimated_cents, o.price_final_cents, o.notes, o.audit_log,
			o.created_at, o.updated_at
		FROM orders o
		JOIN proposals p ON p.id = o.proposal_id
		WHERE p.session_id = $1
		ORDER BY o.created_at`,
		sessionID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to list orders", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ov         queries.OrderView
			priceFinal pgtype.Int8
			notes      pgtype.Text
			auditJSON  []byte
		)
		err := rows.Scan(&ov.ID, &ov.ProposalID, &ov.ParticipantUserID, &ov.Description,
			&ov.PriceEstimated, &priceFinal, &notes, &auditJSON, &ov.CreatedAt, &ov.UpdatedAt)
		if err != nil {
			return infra.WrapRepoErr("failed to scan order view", err)
		}
		ov.PriceFinal = pgconv.Int64PtrFromPgtype(priceFinal)
		ov.Notes = pgconv.StringPtrFromPgtype(notes)
		if err := json.Unmarshal(auditJSON, &ov.AuditLog); err != nil {
			return infra.WrapRepoErr("failed to decode audit log", err)
		}
		if ov.AuditLog == nil {
			ov.AuditLog = []order.AuditEntry{}
		}
		if i, ok := index[ov.ProposalID]; ok {
			views[i].Orders = append(views[i].Orders, ov)
		}
	}
	if err := rows.Err(); err != nil {
		return infra.WrapRepoErr("failed to read order views", err)
	}
	return nil
}

func holderMap(runnerID, ordererID pgtype.UUID) map[string]uuid.UUID {
	holders := map[string]uuid.UUID{}
	if id := pgconv.UUIDPtrFromPgtype(runnerID); id != nil {
		holders[proposal.RoleRunner.String()] = *id
	}
	if id := pgconv.UUIDPtrFromPgtype(ordererID); id != nil {
		holders[proposal.RoleOrderer.String()] = *id
	}
	return holders
}
