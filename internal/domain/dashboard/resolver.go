package dashboard

import (
	"lunchrun/internal/domain/proposal"

	"github.com/google/uuid"
)

// State is the six-way classification of what a viewer sees for a session.
type State string

const (
	StateHistory              State = "history"
	StateNoProposal           State = "no_proposal"
	StateInCharge             State = "in_charge"
	StateHasOrder             State = "has_order"
	StateOpenProposalsNoOrder State = "open_proposals_no_order"
	StateAllClosed            State = "all_closed"
)

// ProposalInfo is the slice of proposal data the resolver needs; the query
// layer builds it from read models so the resolver stays pure.
type ProposalInfo struct {
	ID      uuid.UUID
	Status  proposal.Status
	Holders map[proposal.Role]uuid.UUID
	Orders  []OrderInfo
}

type OrderInfo struct {
	ID                uuid.UUID
	ParticipantUserID uuid.UUID
}

type Input struct {
	IsToday   bool
	ViewerID  uuid.UUID
	Proposals []ProposalInfo
}

// Result carries the resolved state plus the derived sub-collections the
// presentation layer renders. ActionsDisabled is true exactly for History:
// past days are a read-only projection no matter what the collections hold.
type Result struct {
	State               State
	OpenProposalIDs     []uuid.UUID
	InChargeProposalIDs []uuid.UUID
	MyOrderID           *uuid.UUID
	MyOrderProposalID   *uuid.UUID
	ActionsDisabled     bool
}

// facts are the derived inputs each rule predicate consumes.
type facts struct {
	isToday      bool
	hasProposals bool
	hasOpen      bool
	inCharge     bool
	hasOrder     bool
}

// rules is the priority-ordered decision table; the first matching predicate
// wins. Order is a contract (History beats everything, InCharge beats
// HasOrder) and is tested in isolation.
var rules = []struct {
	state State
	match func(f facts) bool
}{
	{StateHistory, func(f facts) bool { return !f.isToday }},
	{StateNoProposal, func(f facts) bool { return !f.hasProposals }},
	{StateInCharge, func(f facts) bool { return f.inCharge }},
	{StateHasOrder, func(f facts) bool { return f.hasOrder }},
	{StateOpenProposalsNoOrder, func(f facts) bool { return f.hasOpen }},
	{StateAllClosed, func(f facts) bool { return true }},
}

// Resolve maps (session, viewer) to exactly one dashboard state.
func Resolve(in Input) Result {
	res := Result{}

	for _, p := range in.Proposals {
		if p.Status.Joinable() {
			res.OpenProposalIDs = append(res.OpenProposalIDs, p.ID)
		}
		// A closed proposal no longer counts as "in charge" even when the
		// viewer's id is still stamped in a role field.
		if p.Status != proposal.StatusClosed {
			for _, holder := range p.Holders {
				if holder == in.ViewerID {
					res.InChargeProposalIDs = append(res.InChargeProposalIDs, p.ID)
					break
				}
			}
		}
		for _, o := range p.Orders {
			if o.ParticipantUserID == in.ViewerID {
				id := o.ID
				pid := p.ID
				res.MyOrderID = &id
				res.MyOrderProposalID = &pid
			}
		}
	}

	f := facts{
		isToday:      in.IsToday,
		hasProposals: len(in.Proposals) > 0,
		hasOpen:      len(res.OpenProposalIDs) > 0,
		inCharge:     len(res.InChargeProposalIDs) > 0,
		hasOrder:     res.MyOrderID != nil,
	}

	for _, r := range rules {
		if r.match(f) {
			res.State = r.state
			break
		}
	}

	res.ActionsDisabled = res.State == StateHistory
	return res
}
