package response

import (
	"lunchrun/internal/usecase/queries"

	"github.com/google/uuid"
)

type DashboardResponse struct {
	State               string               `json:"state"`
	Session             *SessionViewResponse `json:"session,omitempty"`
	OpenProposalIDs     []uuid.UUID          `json:"openProposalIds,omitempty"`
	InChargeProposalIDs []uuid.UUID          `json:"inChargeProposalIds,omitempty"`
	MyOrderID           *uuid.UUID           `json:"myOrderId,omitempty"`
	MyOrderProposalID   *uuid.UUID           `json:"myOrderProposalId,omitempty"`
	ActionsDisabled     bool                 `json:"actionsDisabled"`
}

func FromDashboardView(v *queries.DashboardView) *DashboardResponse {
	resp := &DashboardResponse{
		State:               string(v.State),
		OpenProposalIDs:     v.OpenProposalIDs,
		InChargeProposalIDs: v.InChargeProposalIDs,
		MyOrderID:           v.MyOrderID,
		MyOrderProposalID:   v.MyOrderProposalID,
		ActionsDisabled:     v.ActionsDisabled,
	}
	if v.Session != nil {
		resp.Session = FromSessionView(v.Session)
	}
	return resp
}
