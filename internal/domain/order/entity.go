package order

import (
	"time"

	"lunchrun/internal/pkg/errs"
	"lunchrun/internal/pkg/money"

	"github.com/google/uuid"
)

// FieldChange records a single field's before/after values inside one audit
// entry. Values are primitives (string, int64, bool, nil) so the log
// marshals cleanly to JSON.
type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// AuditEntry is one append-only record of who changed what and when. Past
// entries are never mutated.
type AuditEntry struct {
	At      time.Time              `json:"at"`
	By      uuid.UUID              `json:"by"`
	Changes map[string]FieldChange `json:"changes"`
}

// Patch carries the fields a participant may submit. Nil pointers mean
// "leave unchanged"; equality against current values is detected so a
// no-op submit appends nothing to the audit log.
type Patch struct {
	Description    *string
	PriceEstimated *money.Cents
	Notes          *string
}

// Order is one participant's line item against a proposal, unique per
// (proposal, participant).
type Order struct {
	id                uuid.UUID
	proposalID        uuid.UUID
	participantUserID uuid.UUID
	description       string
	priceEstimated    money.Cents
	priceFinal        *money.Cents
	notes             *string
	audit             []AuditEntry
	createdAt         time.Time
	updatedAt         time.Time
}

func NewOrder(proposalID, participantUserID uuid.UUID, description string, priceEstimated money.Cents, notes *string, now time.Time) (*Order, error) {
	if description == "" {
		return nil, errs.FieldErrors{"description": "description is required"}
	}

	o := &Order{
		id:                uuid.New(),
		proposalID:        proposalID,
		participantUserID: participantUserID,
		description:       description,
		priceEstimated:    priceEstimated,
		notes:             notes,
		createdAt:         now,
		updatedAt:         now,
	}
	o.appendAudit(now, participantUserID, map[string]FieldChange{
		"created": {From: nil, To: true},
	})
	return o, nil
}

func ReconstructOrder(
	id, proposalID, participantUserID uuid.UUID,
	description string,
	priceEstimated money.Cents,
	priceFinal *money.Cents,
	notes *string,
	audit []AuditEntry,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:                id,
		proposalID:        proposalID,
		participantUserID: participantUserID,
		description:       description,
		priceEstimated:    priceEstimated,
		priceFinal:        priceFinal,
		notes:             notes,
		audit:             audit,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// Apply updates the patched fields and appends exactly one audit entry
// containing only the fields whose value actually changed. Returns false
// when nothing changed (idempotent no-op).
func (o *Order) Apply(p Patch, actor uuid.UUID, now time.Time) (bool, error) {
	changes := map[string]FieldChange{}

	if p.Description != nil && *p.Description != o.description {
		if *p.Description == "" {
			return false, errs.FieldErrors{"description": "description is required"}
		}
		changes["description"] = FieldChange{From: o.description, To: *p.Description}
		o.description = *p.Description
	}
	if p.PriceEstimated != nil && *p.PriceEstimated != o.priceEstimated {
		changes["price_estimated"] = FieldChange{From: o.priceEstimated.Int64(), To: p.PriceEstimated.Int64()}
		o.priceEstimated = *p.PriceEstimated
	}
	if p.Notes != nil && !equalStrPtr(p.Notes, o.notes) {
		changes["notes"] = FieldChange{From: strPtrValue(o.notes), To: *p.Notes}
		o.notes = p.Notes
	}

	if len(changes) == 0 {
		return false, nil
	}

	o.appendAudit(now, actor, changes)
	o.updatedAt = now
	return true, nil
}

// SetFinalPrice records the settled price. Permission (role holder or admin)
// is enforced by the caller; the ledger only records who did it.
func (o *Order) SetFinalPrice(v money.Cents, actor uuid.UUID, now time.Time) bool {
	if o.priceFinal != nil && *o.priceFinal == v {
		return false
	}

	var from any
	if o.priceFinal != nil {
		from = o.priceFinal.Int64()
	}
	o.appendAudit(now, actor, map[string]FieldChange{
		"price_final": {From: from, To: v.Int64()},
	})
	o.priceFinal = &v
	o.updatedAt = now
	return true
}

// OwnedBy reports whether actor is the participant who placed this order.
// Deletion is owner-only.
func (o *Order) OwnedBy(actor uuid.UUID) bool {
	return o.participantUserID == actor
}

func (o *Order) appendAudit(at time.Time, by uuid.UUID, changes map[string]FieldChange) {
	o.audit = append(o.audit, AuditEntry{At: at, By: by, Changes: changes})
}

func (o *Order) ID() uuid.UUID                { return o.id }
func (o *Order) ProposalID() uuid.UUID        { return o.proposalID }
func (o *Order) ParticipantUserID() uuid.UUID { return o.participantUserID }
func (o *Order) Description() string          { return o.description }
func (o *Order) PriceEstimated() money.Cents  { return o.priceEstimated }
func (o *Order) PriceFinal() *money.Cents     { return o.priceFinal }
func (o *Order) Notes() *string               { return o.notes }
func (o *Order) CreatedAt() time.Time         { return o.createdAt }
func (o *Order) UpdatedAt() time.Time         { return o.updatedAt }

// AuditLog returns a copy of the append-only log in insertion order.
func (o *Order) AuditLog() []AuditEntry {
	out := make([]AuditEntry, len(o.audit))
	copy(out, o.audit)
	return out
}

func equalStrPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func strPtrValue(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
