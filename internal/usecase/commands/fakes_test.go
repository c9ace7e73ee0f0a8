//go:build unit

package commands_test

import (
	"context"
	"sync"
	"time"

	"lunchrun/internal/domain/order"
	"lunchrun/internal/domain/proposal"
	"lunchrun/internal/domain/quickrun"
	"lunchrun/internal/domain/session"
	"lunchrun/internal/infra"
	"lunchrun/internal/notify"
	"lunchrun/internal/usecase/shared"

	"github.com/google/uuid"
)

// memUoW serializes transactions with a mutex, which stands in for the
// row-level locking the postgres implementation relies on: inside Within no
// other goroutine observes intermediate state.
type memUoW struct {
	mu    sync.Mutex
	store *memStore
}

func newMemUoW() *memUoW {
	return &memUoW{store: &memStore{
		sessions:  map[uuid.UUID]*session.Session{},
		proposals: map[uuid.UUID]*proposal.Proposal{},
		orders:    map[uuid.UUID]*order.Order{},
		quickRuns: map[uuid.UUID]*quickrun.QuickRun{},
		requests:  map[uuid.UUID]*quickrun.Request{},
	}}
}

func (u *memUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	return fn(ctx, &memTx{store: u.store})
}

type memStore struct {
	sessions  map[uuid.UUID]*session.Session
	proposals map[uuid.UUID]*proposal.Proposal
	orders    map[uuid.UUID]*order.Order
	quickRuns map[uuid.UUID]*quickrun.QuickRun
	requests  map[uuid.UUID]*quickrun.Request
}

type memTx struct {
	store *memStore
}

func (t *memTx) Sessions() shared.SessionRepository   { return &memSessionRepo{store: t.store} }
func (t *memTx) Proposals() shared.ProposalRepository { return &memProposalRepo{store: t.store} }
func (t *memTx) Orders() shared.OrderRepository       { return &memOrderRepo{store: t.store} }
func (t *memTx) QuickRuns() shared.QuickRunRepository { return &memQuickRunRepo{store: t.store} }

func errNotFound(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

// Clones keep the fakes honest: a mutation is only visible after an explicit
// Update, same as a real row write.

func cloneSession(s *session.Session) *session.Session {
	return session.ReconstructSession(
		s.ID(), s.OrgID(), s.Day(), s.DeadlineAt(), s.Status(),
		s.ChannelRef(), s.MessageRef(), s.CreatedAt(), s.UpdatedAt(),
	)
}

func cloneProposal(p *proposal.Proposal) *proposal.Proposal {
	return proposal.ReconstructProposal(
		p.ID(), p.OrgID(), p.SessionID(), p.Vendor(), p.Fulfillment(),
		p.Status(), p.Holders(), p.HelpRequested(), p.DeadlineTime(), p.Note(),
		p.CreatedAt(), p.UpdatedAt(),
	)
}

func cloneOrder(o *order.Order) *order.Order {
	return order.ReconstructOrder(
		o.ID(), o.ProposalID(), o.ParticipantUserID(), o.Description(),
		o.PriceEstimated(), o.PriceFinal(), o.Notes(), o.AuditLog(),
		o.CreatedAt(), o.UpdatedAt(),
	)
}

func cloneQuickRun(q *quickrun.QuickRun) *quickrun.QuickRun {
	return quickrun.ReconstructQuickRun(
		q.ID(), q.OrgID(), q.RunnerUserID(), q.Destination(), q.DelayMinutes(),
		q.DeadlineAt(), q.Note(), q.Status(), q.CreatedAt(), q.UpdatedAt(),
	)
}

func cloneRequest(r *quickrun.Request) *quickrun.Request {
	return quickrun.ReconstructRequest(
		r.ID(), r.QuickRunID(), r.ParticipantUserID(), r.Description(),
		r.PriceEstimated(), r.PriceFinal(), r.CreatedAt(), r.UpdatedAt(),
	)
}

type memSessionRepo struct {
	store *memStore
}

func (r *memSessionRepo) EnsureOpen(_ context.Context, orgID uuid.UUID, day session.Day, deadlineAt time.Time, channelRef string) (*session.Session, error) {
	for _, s := range r.store.sessions {
		if s.OrgID() == orgID && s.Day() == day {
			return cloneSession(s), nil
		}
	}
	s := session.NewSession(orgID, day, deadlineAt, channelRef)
	r.store.sessions[s.ID()] = cloneSession(s)
	return s, nil
}

func (r *memSessionRepo) FindByID(_ context.Context, orgID, id uuid.UUID) (*session.Session, error) {
	s, ok := r.store.sessions[id]
	if !ok || s.OrgID() != orgID {
		return nil, errNotFound("session not found")
	}
	return cloneSession(s), nil
}

func (r *memSessionRepo) FindByDay(_ context.Context, orgID uuid.UUID, day session.Day) (*session.Session, error) {
	for _, s := range r.store.sessions {
		if s.OrgID() == orgID && s.Day() == day {
			return cloneSession(s), nil
		}
	}
	return nil, errNotFound("session not found")
}

func (r *memSessionRepo) Update(_ context.Context, s *session.Session) error {
	if _, ok := r.store.sessions[s.ID()]; !ok {
		return errNotFound("session not found")
	}
	r.store.sessions[s.ID()] = cloneSession(s)
	return nil
}

func (r *memSessionRepo) SweepExpired(_ context.Context, now time.Time) ([]shared.SweptEntity, error) {
	var swept []shared.SweptEntity
	for _, s := range r.store.sessions {
		if s.IsOpen() && s.Expired(now) {
			if err := s.Lock(); err != nil {
				return nil, err
			}
			swept = append(swept, shared.SweptEntity{ID: s.ID(), OrgID: s.OrgID()})
		}
	}
	return swept, nil
}

type memProposalRepo struct {
	store *memStore
}

func (r *memProposalRepo) Create(_ context.Context, p *proposal.Proposal) error {
	r.store.proposals[p.ID()] = cloneProposal(p)
	return nil
}

func (r *memProposalRepo) FindByID(_ context.Context, orgID, id uuid.UUID) (*proposal.Proposal, error) {
	p, ok := r.store.proposals[id]
	if !ok || p.OrgID() != orgID {
		return nil, errNotFound("proposal not found")
	}
	return cloneProposal(p), nil
}

func (r *memProposalRepo) FindByIDForUpdate(ctx context.Context, orgID, id uuid.UUID) (*proposal.Proposal, error) {
	// The UoW mutex already serializes; the lock variant is the same read.
	return r.FindByID(ctx, orgID, id)
}

func (r *memProposalRepo) Update(_ context.Context, p *proposal.Proposal) error {
	if _, ok := r.store.proposals[p.ID()]; !ok {
		return errNotFound("proposal not found")
	}
	r.store.proposals[p.ID()] = cloneProposal(p)
	return nil
}

func (r *memProposalRepo) CloseAllForSession(_ context.Context, sessionID uuid.UUID) ([]uuid.UUID, error) {
	var closed []uuid.UUID
	for _, p := range r.store.proposals {
		if p.SessionID() == sessionID && !p.IsClosed() {
			if err := p.Close(); err != nil {
				return nil, err
			}
			closed = append(closed, p.ID())
		}
	}
	return closed, nil
}

type memOrderRepo struct {
	store *memStore
}

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	o, ok := r.store.orders[id]
	if !ok {
		return nil, errNotFound("order not found")
	}
	return cloneOrder(o), nil
}

func (r *memOrderRepo) FindByParticipant(_ context.Context, proposalID, participantUserID uuid.UUID) (*order.Order, error) {
	for _, o := range r.store.orders {
		if o.ProposalID() == proposalID && o.ParticipantUserID() == participantUserID {
			return cloneOrder(o), nil
		}
	}
	return nil, errNotFound("order not found")
}

func (r *memOrderRepo) Create(_ context.Context, o *order.Order) error {
	for _, existing := range r.store.orders {
		if existing.ProposalID() == o.ProposalID() && existing.ParticipantUserID() == o.ParticipantUserID() {
			return infra.WrapRepoErr("order already exists", nil, infra.KindDuplicateKey)
		}
	}
	r.store.orders[o.ID()] = cloneOrder(o)
	return nil
}

func (r *memOrderRepo) Update(_ context.Context, o *order.Order) error {
	if _, ok := r.store.orders[o.ID()]; !ok {
		return errNotFound("order not found")
	}
	r.store.orders[o.ID()] = cloneOrder(o)
	return nil
}

func (r *memOrderRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.orders[id]; !ok {
		return errNotFound("order not found")
	}
	delete(r.store.orders, id)
	return nil
}

type memQuickRunRepo struct {
	store *memStore
}

func (r *memQuickRunRepo) Create(_ context.Context, q *quickrun.QuickRun) error {
	r.store.quickRuns[q.ID()] = cloneQuickRun(q)
	return nil
}

func (r *memQuickRunRepo) FindByID(_ context.Context, orgID, id uuid.UUID) (*quickrun.QuickRun, error) {
	q, ok := r.store.quickRuns[id]
	if !ok || q.OrgID() != orgID {
		return nil, errNotFound("quick run not found")
	}
	return cloneQuickRun(q), nil
}

func (r *memQuickRunRepo) Update(_ context.Context, q *quickrun.QuickRun) error {
	if _, ok := r.store.quickRuns[q.ID()]; !ok {
		return errNotFound("quick run not found")
	}
	r.store.quickRuns[q.ID()] = cloneQuickRun(q)
	return nil
}

func (r *memQuickRunRepo) SweepExpired(_ context.Context, now time.Time) ([]shared.SweptEntity, error) {
	var swept []shared.SweptEntity
	for _, q := range r.store.quickRuns {
		if q.IsOpen() && q.Expired(now) {
			if err := q.Lock(); err != nil {
				return nil, err
			}
			swept = append(swept, shared.SweptEntity{ID: q.ID(), OrgID: q.OrgID()})
		}
	}
	return swept, nil
}

func (r *memQuickRunRepo) FindRequest(_ context.Context, quickRunID, participantUserID uuid.UUID) (*quickrun.Request, error) {
	for _, req := range r.store.requests {
		if req.QuickRunID() == quickRunID && req.ParticipantUserID() == participantUserID {
			return cloneRequest(req), nil
		}
	}
	return nil, errNotFound("request not found")
}

func (r *memQuickRunRepo) CreateRequest(_ context.Context, req *quickrun.Request) error {
	r.store.requests[req.ID()] = cloneRequest(req)
	return nil
}

func (r *memQuickRunRepo) UpdateRequest(_ context.Context, req *quickrun.Request) error {
	if _, ok := r.store.requests[req.ID()]; !ok {
		return errNotFound("request not found")
	}
	r.store.requests[req.ID()] = cloneRequest(req)
	return nil
}

func (r *memQuickRunRepo) DeleteRequest(_ context.Context, id uuid.UUID) error {
	if _, ok := r.store.requests[id]; !ok {
		return errNotFound("request not found")
	}
	delete(r.store.requests, id)
	return nil
}

// capturePublisher records events in order; safe for concurrent use.
type capturePublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *capturePublisher) Publish(_ context.Context, ev notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *capturePublisher) Events() []notify.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notify.Event, len(p.events))
	copy(out, p.events)
	return out
}

func (p *capturePublisher) Kinds() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]string, len(p.events))
	for i, ev := range p.events {
		kinds[i] = ev.Kind
	}
	return kinds
}
