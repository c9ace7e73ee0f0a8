package proposal

import (
	"time"

	"lunchrun/internal/pkg/errs"

	"github.com/google/uuid"
)

// Proposal is a single vendor + fulfillment offer within a session.
//
// Role holders live in a single map keyed by Role. A role, once set, changes
// only through Delegate; Claim refuses to overwrite. The map is the union of
// "in charge" members regardless of which role the fulfillment type treats
// as responsible.
type Proposal struct {
	id            uuid.UUID
	orgID         uuid.UUID
	sessionID     uuid.UUID
	vendor        string
	fulfillment   Fulfillment
	status        Status
	holders       map[Role]uuid.UUID
	helpRequested bool
	deadlineTime  *string
	note          *string
	createdAt     time.Time
	updatedAt     time.Time
}

func NewProposal(orgID, sessionID uuid.UUID, vendor string, fulfillment Fulfillment, deadlineTime, note *string) (*Proposal, error) {
	fields := errs.FieldErrors{}
	if vendor == "" {
		fields["vendor"] = "vendor is required"
	}
	if !fulfillment.IsValid() {
		fields["fulfillment"] = "unknown fulfillment type"
	}
	if deadlineTime != nil {
		if _, err := time.Parse("15:04", *deadlineTime); err != nil {
			fields["deadline_time"] = "must be HH:MM"
		}
	}
	if len(fields) > 0 {
		return nil, fields
	}

	return &Proposal{
		id:           uuid.New(),
		orgID:        orgID,
		sessionID:    sessionID,
		vendor:       vendor,
		fulfillment:  fulfillment,
		status:       StatusOpen,
		holders:      map[Role]uuid.UUID{},
		deadlineTime: deadlineTime,
		note:         note,
	}, nil
}

func ReconstructProposal(
	id, orgID, sessionID uuid.UUID,
	vendor string,
	fulfillment Fulfillment,
	status Status,
	holders map[Role]uuid.UUID,
	helpRequested bool,
	deadlineTime, note *string,
	createdAt, updatedAt time.Time,
) *Proposal {
	if holders == nil {
		holders = map[Role]uuid.UUID{}
	}
	return &Proposal{
		id:            id,
		orgID:         orgID,
		sessionID:     sessionID,
		vendor:        vendor,
		fulfillment:   fulfillment,
		status:        status,
		holders:       holders,
		helpRequested: helpRequested,
		deadlineTime:  deadlineTime,
		note:          note,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

func (p *Proposal) IsOpen() bool   { return p.status == StatusOpen }
func (p *Proposal) IsClosed() bool { return p.status == StatusClosed }

// Claim sets userID as holder of role. The caller must have the row locked;
// this re-check under the lock is what makes the claim at-most-one-winner.
func (p *Proposal) Claim(role Role, userID uuid.UUID) error {
	if !role.IsValid() {
		return errs.FieldErrors{"role": "unknown role"}
	}
	if p.status == StatusClosed {
		return errs.Mark(errs.New("proposal is closed"), errs.ErrLifecycleViolation)
	}
	if _, taken := p.holders[role]; taken {
		return errs.ErrRoleClaimLost
	}

	p.holders[role] = userID
	if p.status == StatusOpen {
		p.status = StatusOrdering
	}
	return nil
}

// Delegate transfers role from its current holder to another participant.
// Only the recorded current holder may initiate the transfer.
func (p *Proposal) Delegate(role Role, fromUserID, toUserID uuid.UUID) error {
	if !role.IsValid() {
		return errs.FieldErrors{"role": "unknown role"}
	}
	if p.status == StatusClosed {
		return errs.Mark(errs.New("proposal is closed"), errs.ErrLifecycleViolation)
	}
	holder, ok := p.holders[role]
	if !ok || holder != fromUserID {
		return errs.Mark(errs.New("caller does not hold the role"), errs.ErrPermissionDenied)
	}

	p.holders[role] = toUserID
	return nil
}

// Holds reports whether userID holds any role on this proposal.
func (p *Proposal) Holds(userID uuid.UUID) bool {
	for _, holder := range p.holders {
		if holder == userID {
			return true
		}
	}
	return false
}

func (p *Proposal) Holder(role Role) (uuid.UUID, bool) {
	id, ok := p.holders[role]
	return id, ok
}

// HasAnyHolder reports whether any role has been claimed yet.
func (p *Proposal) HasAnyHolder() bool {
	return len(p.holders) > 0
}

var statusOrder = map[Status]int{
	StatusOpen:     0,
	StatusOrdering: 1,
	StatusPlaced:   2,
	StatusReceived: 3,
}

// Advance moves the run forward (Ordering -> Placed -> Received). Backward
// moves and jumps over Ordering are rejected.
func (p *Proposal) Advance(next Status) error {
	if next != StatusPlaced && next != StatusReceived {
		return errs.FieldErrors{"status": "must be placed or received"}
	}
	if p.status == StatusClosed {
		return errs.Mark(errs.New("proposal is closed"), errs.ErrLifecycleViolation)
	}
	if statusOrder[next] != statusOrder[p.status]+1 {
		return errs.Mark(errs.New("status can only advance forward"), errs.ErrLifecycleViolation)
	}
	p.status = next
	return nil
}

// Close is legal from every non-Closed status, including a never-claimed
// Open proposal.
func (p *Proposal) Close() error {
	if p.status == StatusClosed {
		return errs.Mark(errs.New("proposal already closed"), errs.ErrLifecycleViolation)
	}
	p.status = StatusClosed
	return nil
}

func (p *Proposal) SetHelpRequested(v bool) {
	p.helpRequested = v
}

func (p *Proposal) ID() uuid.UUID            { return p.id }
func (p *Proposal) OrgID() uuid.UUID         { return p.orgID }
func (p *Proposal) SessionID() uuid.UUID     { return p.sessionID }
func (p *Proposal) Vendor() string           { return p.vendor }
func (p *Proposal) Fulfillment() Fulfillment { return p.fulfillment }
func (p *Proposal) Status() Status           { return p.status }
func (p *Proposal) HelpRequested() bool      { return p.helpRequested }
func (p *Proposal) DeadlineTime() *string    { return p.deadlineTime }
func (p *Proposal) Note() *string            { return p.note }
func (p *Proposal) CreatedAt() time.Time     { return p.createdAt }
func (p *Proposal) UpdatedAt() time.Time     { return p.updatedAt }

// Holders returns a copy; callers must not mutate role assignments directly.
func (p *Proposal) Holders() map[Role]uuid.UUID {
	out := make(map[Role]uuid.UUID, len(p.holders))
	for r, id := range p.holders {
		out[r] = id
	}
	return out
}
