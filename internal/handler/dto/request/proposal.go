package request

import (
	"strings"
)

type CreateProposalRequest struct {
	Vendor       string  `json:"vendor" binding:"required"`
	Fulfillment  string  `json:"fulfillment" binding:"required"`
	DeadlineTime *string `json:"deadline_time,omitempty"`
	Note         *string `json:"note,omitempty"`
}

func (r CreateProposalRequest) GetNote() *string {
	return trimmedPtr(r.Note)
}

type ClaimRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type DelegateRequest struct {
	Role     string `json:"role" binding:"required"`
	ToUserID string `json:"to_user_id" binding:"required,uuid"`
}

type AdvanceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func trimmedPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
