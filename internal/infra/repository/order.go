package repository

import (
	"context"
	"encoding/json"
	"time"

	"lunchrun/internal/domain/order"
	"lunchrun/internal/infra"
	"lunchrun/internal/pkg/money"
	"lunchrun/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, proposal_id, participant_user_id, description,
	price_estimated_cents, price_final_cents, notes, audit_log, created_at, updated_at`

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1`,
		id,
	)
	return scanOrder(row)
}

func (r *OrderRepository) FindByParticipant(ctx context.Context, proposalID, participantUserID uuid.UUID) (*order.Order, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE proposal_id = $1 AND participant_user_id = $2`,
		proposalID, participantUserID,
	)
	return scanOrder(row)
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	auditJSON, err := json.Marshal(o.AuditLog())
	if err != nil {
		return infra.WrapRepoErr("failed to marshal audit log", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO orders (id, proposal_id, participant_user_id, description,
			price_estimated_cents, price_final_cents, notes, audit_log)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		o.ID(), o.ProposalID(), o.ParticipantUserID(), o.Description(),
		o.PriceEstimated().Int64(), centsPtrToPgtype(o.PriceFinal()),
		pgconv.StringPtrToPgtype(o.Notes()), auditJSON,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("order already exists for participant", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create order", err)
	}
	return nil
}

func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	auditJSON, err := json.Marshal(o.AuditLog())
	if err != nil {
		return infra.WrapRepoErr("failed to marshal audit log", err)
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE orders
		SET description = $1, price_estimated_cents = $2, price_final_cents = $3,
			notes = $4, audit_log = $5, updated_at = now()
		WHERE id = $6`,
		o.Description(), o.PriceEstimated().Int64(), centsPtrToPgtype(o.PriceFinal()),
		pgconv.StringPtrToPgtype(o.Notes()), auditJSON, o.ID(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update order", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete order", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanOrder(row rowScanner) (*order.Order, error) {
	var (
		id, proposalID, participantID uuid.UUID
		description                   string
		priceEstimated                int64
		priceFinal                    pgtype.Int8
		notes                         pgtype.Text
		auditJSON                     []byte
		createdAt, updatedAt          time.Time
	)
	err := row.Scan(&id, &proposalID, &participantID, &description,
		&priceEstimated, &priceFinal, &notes, &auditJSON, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan order", err)
	}

	var audit []order.AuditEntry
	if len(auditJSON) > 0 {
		if err := json.Unmarshal(auditJSON, &audit); err != nil {
			return nil, infra.WrapRepoErr("failed to unmarshal audit log", err)
		}
	}

	var final *money.Cents
	if v := pgconv.Int64PtrFromPgtype(priceFinal); v != nil {
		c := money.Cents(*v)
		final = &c
	}

	return order.ReconstructOrder(
		id, proposalID, participantID,
		description,
		money.Cents(priceEstimated),
		final,
		pgconv.StringPtrFromPgtype(notes),
		audit,
		createdAt, updatedAt,
	), nil
}

func centsPtrToPgtype(c *money.Cents) pgtype.Int8 {
	if c == nil {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: c.Int64(), Valid: true}
}
