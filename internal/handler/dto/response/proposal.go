package response

import (
	"time"

	"lunchrun/internal/domain/proposal"
	"lunchrun/internal/usecase/queries"

	"github.com/google/uuid"
)

type ProposalResponse struct {
	ID            uuid.UUID            `json:"id"`
	SessionID     uuid.UUID            `json:"sessionId"`
	Vendor        string               `json:"vendor"`
	Fulfillment   string               `json:"fulfillment"`
	Status        string               `json:"status"`
	Holders       map[string]uuid.UUID `json:"holders"`
	HelpRequested bool                 `json:"helpRequested"`
	DeadlineTime  *string              `json:"deadlineTime,omitempty"`
	Note          *string              `json:"note,omitempty"`
	Orders        []OrderResponse      `json:"orders,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

func FromProposal(p *proposal.Proposal) *ProposalResponse {
	holders := make(map[string]uuid.UUID)
	for role, userID := range p.Holders() {
		holders[role.String()] = userID
	}
	return &ProposalResponse{
		ID:            p.ID(),
		SessionID:     p.SessionID(),
		Vendor:        p.Vendor(),
		Fulfillment:   p.Fulfillment().String(),
		Status:        p.Status().String(),
		Holders:       holders,
		HelpRequested: p.HelpRequested(),
		DeadlineTime:  p.DeadlineTime(),
		Note:          p.Note(),
		CreatedAt:     p.CreatedAt(),
	}
}

func FromProposalView(v *queries.ProposalView) *ProposalResponse {
	orders := make([]OrderResponse, len(v.Orders))
	for i, ov := range v.Orders {
		orders[i] = *FromOrderView(&ov)
	}
	return &ProposalResponse{
		ID:            v.ID,
		SessionID:     v.SessionID,
		Vendor:        v.Vendor,
		Fulfillment:   v.Fulfillment,
		Status:        v.Status,
		Holders:       v.Holders,
		HelpRequested: v.HelpRequested,
		DeadlineTime:  v.DeadlineTime,
		Note:          v.Note,
		Orders:        orders,
		CreatedAt:     v.CreatedAt,
	}
}
