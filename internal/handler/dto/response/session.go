package response

import (
	"time"

	"lunchrun/internal/domain/session"
	"lunchrun/internal/usecase/queries"

	"github.com/google/uuid"
)

type SessionResponse struct {
	ID         uuid.UUID `json:"id"`
	Day        string    `json:"day"`
	DeadlineAt time.Time `json:"deadlineAt"`
	Status     string    `json:"status"`
	ChannelRef string    `json:"channelRef"`
}

func FromSession(s *session.Session) *SessionResponse {
	return &SessionResponse{
		ID:         s.ID(),
		Day:        s.Day().String(),
		DeadlineAt: s.DeadlineAt(),
		Status:     s.Status().String(),
		ChannelRef: s.ChannelRef(),
	}
}

type SessionViewResponse struct {
	ID         uuid.UUID          `json:"id"`
	Day        string             `json:"day"`
	DeadlineAt time.Time          `json:"deadlineAt"`
	Status     string             `json:"status"`
	ChannelRef string             `json:"channelRef"`
	Proposals  []ProposalResponse `json:"proposals"`
}

func FromSessionView(v *queries.SessionView) *SessionViewResponse {
	proposals := make([]ProposalResponse, len(v.Proposals))
	for i, pv := range v.Proposals {
		proposals[i] = *FromProposalView(&pv)
	}
	return &SessionViewResponse{
		ID:         v.ID,
		Day:        v.Day,
		DeadlineAt: v.DeadlineAt,
		Status:     v.Status,
		ChannelRef: v.ChannelRef,
		Proposals:  proposals,
	}
}
