package queries

import (
	"context"

	"github.com/google/uuid"
)

type QuickRunViewRepo interface {
	FindByID(ctx context.Context, orgID, id uuid.UUID) (*QuickRunView, error)
	ListActive(ctx context.Context, orgID uuid.UUID) ([]*QuickRunView, error)
}

type QuickRunQueries interface {
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*QuickRunView, error)
	// ListActive returns open and locked runs for the org, newest first.
	ListActive(ctx context.Context, orgID uuid.UUID) ([]*QuickRunView, error)
}

type quickRunQueriesImpl struct {
	repo QuickRunViewRepo
}

func NewQuickRunQueries(repo QuickRunViewRepo) QuickRunQueries {
	return &quickRunQueriesImpl{repo: repo}
}

func (q *quickRunQueriesImpl) GetByID(ctx context.Context, orgID, id uuid.UUID) (*QuickRunView, error) {
	return q.repo.FindByID(ctx, orgID, id)
}

func (q *quickRunQueriesImpl) ListActive(ctx context.Context, orgID uuid.UUID) ([]*QuickRunView, error) {
	return q.repo.ListActive(ctx, orgID)
}
