package queries

import (
	"context"

	"lunchrun/internal/domain/dashboard"
	"lunchrun/internal/domain/proposal"
	"lunchrun/internal/domain/session"
	"lunchrun/internal/infra"
	"lunchrun/internal/pkg/clock"
	"lunchrun/internal/pkg/config"

	"github.com/google/uuid"
)

type SessionViewRepo interface {
	// FindByDay loads the session with its proposals and their orders; nil
	// SessionView (with NotFound kind) when no session exists for the day.
	FindByDay(ctx context.Context, orgID uuid.UUID, day session.Day) (*SessionView, error)
}

type DashboardQueries interface {
	// Resolve classifies what the viewer sees for the given day and bundles
	// the session read model alongside.
	Resolve(ctx context.Context, orgID uuid.UUID, day session.Day, viewerID uuid.UUID) (*DashboardView, error)
}

type dashboardQueriesImpl struct {
	repo  SessionViewRepo
	clock clock.Clock
	app   config.AppConfig
}

func NewDashboardQueries(repo SessionViewRepo, clk clock.Clock, app config.AppConfig) DashboardQueries {
	return &dashboardQueriesImpl{repo: repo, clock: clk, app: app}
}

func (q *dashboardQueriesImpl) Resolve(ctx context.Context, orgID uuid.UUID, day session.Day, viewerID uuid.UUID) (*DashboardView, error) {
	today := session.DayOf(q.clock.Now(), q.app.Location())

	view, err := q.repo.FindByDay(ctx, orgID, day)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			// No session row yet behaves like a session with no proposals.
			view = nil
		} else {
			return nil, err
		}
	}

	input := dashboard.Input{
		IsToday:  day == today,
		ViewerID: viewerID,
	}
	if view != nil {
		input.Proposals = toResolverProposals(view.Proposals)
	}

	result := dashboard.Resolve(input)
	return &DashboardView{
		State:               result.State,
		Session:             view,
		OpenProposalIDs:     result.OpenProposalIDs,
		InChargeProposalIDs: result.InChargeProposalIDs,
		MyOrderID:           result.MyOrderID,
		MyOrderProposalID:   result.MyOrderProposalID,
		ActionsDisabled:     result.ActionsDisabled,
	}, nil
}

func toResolverProposals(views []ProposalView) []dashboard.ProposalInfo {
	out := make([]dashboard.ProposalInfo, len(views))
	for i, pv := range views {
		holders := make(map[proposal.Role]uuid.UUID, len(pv.Holders))
		for r, id := range pv.Holders {
			holders[proposal.Role(r)] = id
		}
		orders := make([]dashboard.OrderInfo, len(pv.Orders))
		for j, ov := range pv.Orders {
			orders[j] = dashboard.OrderInfo{ID: ov.ID, ParticipantUserID: ov.ParticipantUserID}
		}
		out[i] = dashboard.ProposalInfo{
			ID:      pv.ID,
			Status:  proposal.Status(pv.Status),
			Holders: holders,
			Orders:  orders,
		}
	}
	return out
}
