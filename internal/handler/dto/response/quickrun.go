package response

import (
	"time"

	"lunchrun/internal/domain/quickrun"
	"lunchrun/internal/usecase/queries"

	"github.com/google/uuid"
)

type QuickRunResponse struct {
	ID           uuid.UUID         `json:"id"`
	RunnerUserID uuid.UUID         `json:"runnerUserId"`
	Destination  string            `json:"destination"`
	DelayMinutes int               `json:"delayMinutes"`
	DeadlineAt   time.Time         `json:"deadlineAt"`
	Note         *string           `json:"note,omitempty"`
	Status       string            `json:"status"`
	Requests     []RequestResponse `json:"requests,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

type RequestResponse struct {
	ID                uuid.UUID `json:"id"`
	QuickRunID        uuid.UUID `json:"quickRunId"`
	ParticipantUserID uuid.UUID `json:"participantUserId"`
	Description       string    `json:"description"`
	PriceEstimated    *int64    `json:"priceEstimatedCents,omitempty"`
	PriceFinal        *int64    `json:"priceFinalCents,omitempty"`
}

func FromQuickRun(q *quickrun.QuickRun) *QuickRunResponse {
	return &QuickRunResponse{
		ID:           q.ID(),
		RunnerUserID: q.RunnerUserID(),
		Destination:  q.Destination(),
		DelayMinutes: q.DelayMinutes(),
		DeadlineAt:   q.DeadlineAt(),
		Note:         q.Note(),
		Status:       q.Status().String(),
		CreatedAt:    q.CreatedAt(),
	}
}

func FromRequest(r *quickrun.Request) *RequestResponse {
	resp := &RequestResponse{
		ID:                r.ID(),
		QuickRunID:        r.QuickRunID(),
		ParticipantUserID: r.ParticipantUserID(),
		Description:       r.Description(),
	}
	if pe := r.PriceEstimated(); pe != nil {
		v := pe.Int64()
		resp.PriceEstimated = &v
	}
	if pf := r.PriceFinal(); pf != nil {
		v := pf.Int64()
		resp.PriceFinal = &v
	}
	return resp
}

func FromQuickRunView(v *queries.QuickRunView) *QuickRunResponse {
	requests := make([]RequestResponse, len(v.Requests))
	for i, rv := range v.Requests {
		requests[i] = RequestResponse{
			ID:                rv.ID,
			QuickRunID:        rv.QuickRunID,
			ParticipantUserID: rv.ParticipantUserID,
			Description:       rv.Description,
			PriceEstimated:    rv.PriceEstimated,
			PriceFinal:        rv.PriceFinal,
		}
	}
	return &QuickRunResponse{
		ID:           v.ID,
		RunnerUserID: v.RunnerUserID,
		Destination:  v.Destination,
		DelayMinutes: v.DelayMinutes,
		DeadlineAt:   v.DeadlineAt,
		Note:         v.Note,
		Status:       v.Status,
		Requests:     requests,
		CreatedAt:    v.CreatedAt,
	}
}
