package repository

import (
	"context"
	"time"

	"lunchrun/internal/domain/proposal"
	"lunchrun/internal/infra"
	"lunchrun/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type ProposalRepository struct {
	db DBTX
}

func NewProposalRepository(db DBTX) *ProposalRepository {
	return &ProposalRepository{db: db}
}

const proposalColumns = `id, org_id, session_id, vendor, fulfillment, status,
	runner_user_id, orderer_user_id, help_requested, deadline_time, note,
	created_at, updated_at`

func (r *ProposalRepository) Create(ctx context.Context, p *proposal.Proposal) error {
	runner, orderer := holderColumns(p)
	_, err := r.db.Exec(ctx, `
		INSERT INTO proposals (id, org_id, session_id, vendor, fulfillment, status,
			runner_user_id, orderer_user_id, help_requested, deadline_time, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		p.ID(), p.OrgID(), p.SessionID(), p.Vendor(), p.Fulfillment().String(), p.Status().String(),
		pgconv.UUIDPtrToPgtype(runner), pgconv.UUIDPtrToPgtype(orderer),
		p.HelpRequested(), pgconv.StringPtrToPgtype(p.DeadlineTime()), pgconv.StringPtrToPgtype(p.Note()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create proposal", err)
	}
	return nil
}

func (r *ProposalRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*proposal.Proposal, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+proposalColumns+`
		FROM proposals
		WHERE org_id = $1 AND id = $2`,
		orgID, id,
	)
	return scanProposal(row)
}

// FindByIDForUpdate takes the single-row exclusive lock the claim protocol
// re-checks under. The lock never extends past this one row.
func (r *ProposalRepository) FindByIDForUpdate(ctx context.Context, orgID, id uuid.UUID) (*proposal.Proposal, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+proposalColumns+`
		FROM proposals
		WHERE org_id = $1 AND id = $2
		FOR UPDATE`,
		orgID, id,
	)
	return scanProposal(row)
}

func (r *ProposalRepository) Update(ctx context.Context, p *proposal.Proposal) error {
	runner, orderer := holderColumns(p)
	tag, err := r.db.Exec(ctx, `
		UPDATE proposals
		SET status = $1, runner_user_id = $2, orderer_user_id = $3,
			help_requested = $4, updated_at = now()
		WHERE id = $5`,
		p.Status().String(), pgconv.UUIDPtrToPgtype(runner), pgconv.UUIDPtrToPgtype(orderer),
		p.HelpRequested(), p.ID(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update proposal", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("proposal not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *ProposalRepository) CloseAllForSession(ctx context.Context, sessionID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `
		UPDATE proposals
		SET status = $1, updated_at = now()
		WHERE session_id = $2 AND status <> $1
		RETURNING id`,
		proposal.StatusClosed.String(), sessionID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to close session proposals", err)
	}
	defer rows.Close()

	var closed []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan closed proposal", err)
		}
		closed = append(closed, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read closed proposals", err)
	}
	return closed, nil
}

// holderColumns flattens the role map back onto the two storage columns.
func holderColumns(p *proposal.Proposal) (runner, orderer *uuid.UUID) {
	if id, ok := p.Holder(proposal.RoleRunner); ok {
		runner = &id
	}
	if id, ok := p.Holder(proposal.RoleOrderer); ok {
		orderer = &id
	}
	return runner, orderer
}

func scanProposal(row rowScanner) (*proposal.Proposal, error) {
	var (
		id, orgID, sessionID uuid.UUID
		vendor, fulfillment  string
		status               string
		runnerID, ordererID  pgtype.UUID
		helpRequested        bool
		deadlineTime, note   pgtype.Text
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &orgID, &sessionID, &vendor, &fulfillment, &status,
		&runnerID, &ordererID, &helpRequested, &deadlineTime, &note,
		&createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("proposal not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan proposal", err)
	}

	holders := map[proposal.Role]uuid.UUID{}
	if runner := pgconv.UUIDPtrFromPgtype(runnerID); runner != nil {
		holders[proposal.RoleRunner] = *runner
	}
	if orderer := pgconv.UUIDPtrFromPgtype(ordererID); orderer != nil {
		holders[proposal.RoleOrderer] = *orderer
	}

	return proposal.ReconstructProposal(
		id, orgID, sessionID,
		vendor,
		proposal.Fulfillment(fulfillment),
		proposal.Status(status),
		holders,
		helpRequested,
		pgconv.StringPtrFromPgtype(deadlineTime), pgconv.StringPtrFromPgtype(note),
		createdAt, updatedAt,
	), nil
}
