package queries

import (
	"time"

	"lunchrun/internal/domain/dashboard"
	"lunchrun/internal/domain/order"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type SessionView struct {
	ID         uuid.UUID      `json:"id"`
	OrgID      uuid.UUID      `json:"org_id"`
	Day        string         `json:"day"`
	DeadlineAt time.Time      `json:"deadline_at"`
	Status     string         `json:"status"`
	ChannelRef string         `json:"channel_ref"`
	Proposals  []ProposalView `json:"proposals"`
}

type ProposalView struct {
	ID            uuid.UUID            `json:"id"`
	SessionID     uuid.UUID            `json:"session_id"`
	Vendor        string               `json:"vendor"`
	Fulfillment   string               `json:"fulfillment"`
	Status        string               `json:"status"`
	Holders       map[string]uuid.UUID `json:"holders"`
	HelpRequested bool                 `json:"help_requested"`
	DeadlineTime  *string              `json:"deadline_time,omitempty"`
	Note          *string              `json:"note,omitempty"`
	Orders        []OrderView          `json:"orders"`
	CreatedAt     time.Time            `json:"created_at"`
}

type OrderView struct {
	ID                uuid.UUID          `json:"id"`
	ProposalID        uuid.UUID          `json:"proposal_id"`
	ParticipantUserID uuid.UUID          `json:"participant_user_id"`
	Description       string             `json:"description"`
	PriceEstimated    int64              `json:"price_estimated_cents"`
	PriceFinal        *int64             `json:"price_final_cents,omitempty"`
	Notes             *string            `json:"notes,omitempty"`
	AuditLog          []order.AuditEntry `json:"audit_log"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

type QuickRunView struct {
	ID           uuid.UUID     `json:"id"`
	RunnerUserID uuid.UUID     `json:"runner_user_id"`
	Destination  string        `json:"destination"`
	DelayMinutes int           `json:"delay_minutes"`
	DeadlineAt   time.Time     `json:"deadline_at"`
	Note         *string       `json:"note,omitempty"`
	Status       string        `json:"status"`
	Requests     []RequestView `json:"requests"`
	CreatedAt    time.Time     `json:"created_at"`
}

type RequestView struct {
	ID                uuid.UUID `json:"id"`
	QuickRunID        uuid.UUID `json:"quick_run_id"`
	ParticipantUserID uuid.UUID `json:"participant_user_id"`
	Description       string    `json:"description"`
	PriceEstimated    *int64    `json:"price_estimated_cents,omitempty"`
	PriceFinal        *int64    `json:"price_final_cents,omitempty"`
}

// DashboardView is the resolved projection for one viewer.
type DashboardView struct {
	State               dashboard.State `json:"state"`
	Session             *SessionView    `json:"session,omitempty"`
	OpenProposalIDs     []uuid.UUID     `json:"open_proposal_ids,omitempty"`
	InChargeProposalIDs []uuid.UUID     `json:"in_charge_proposal_ids,omitempty"`
	MyOrderID           *uuid.UUID      `json:"my_order_id,omitempty"`
	MyOrderProposalID   *uuid.UUID      `json:"my_order_proposal_id,omitempty"`
	ActionsDisabled     bool            `json:"actions_disabled"`
}
