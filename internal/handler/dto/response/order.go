package response

import (
	"time"

	"lunchrun/internal/domain/order"
	"lunchrun/internal/usecase/queries"

	"github.com/google/uuid"
)

type OrderResponse struct {
	ID                uuid.UUID          `json:"id"`
	ProposalID        uuid.UUID          `json:"proposalId"`
	ParticipantUserID uuid.UUID          `json:"participantUserId"`
	Description       string             `json:"description"`
	PriceEstimated    int64              `json:"priceEstimatedCents"`
	PriceFinal        *int64             `json:"priceFinalCents,omitempty"`
	Notes             *string            `json:"notes,omitempty"`
	AuditLog          []order.AuditEntry `json:"auditLog"`
	CreatedAt         time.Time          `json:"createdAt"`
	UpdatedAt         time.Time          `json:"updatedAt"`
}

func FromOrder(o *order.Order) *OrderResponse {
	var priceFinal *int64
	if pf := o.PriceFinal(); pf != nil {
		v := pf.Int64()
		priceFinal = &v
	}
	return &OrderResponse{
		ID:                o.ID(),
		ProposalID:        o.ProposalID(),
		ParticipantUserID: o.ParticipantUserID(),
		Description:       o.Description(),
		PriceEstimated:    o.PriceEstimated().Int64(),
		PriceFinal:        priceFinal,
		Notes:             o.Notes(),
		AuditLog:          o.AuditLog(),
		CreatedAt:         o.CreatedAt(),
		UpdatedAt:         o.UpdatedAt(),
	}
}

func FromOrderView(v *queries.OrderView) *OrderResponse {
	return &OrderResponse{
		ID:                v.ID,
		ProposalID:        v.ProposalID,
		ParticipantUserID: v.ParticipantUserID,
		Description:       v.Description,
		PriceEstimated:    v.PriceEstimated,
		PriceFinal:        v.PriceFinal,
		Notes:             v.Notes,
		AuditLog:          v.AuditLog,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
}
