package quickrun

import (
	"time"

	"lunchrun/internal/pkg/errs"
	"lunchrun/internal/pkg/money"

	"github.com/google/uuid"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusLocked Status = "locked"
	StatusClosed Status = "closed"
)

func (s Status) String() string {
	return string(s)
}

// QuickRun is the lighter, ad-hoc analog of a session+proposal: one
// destination, one deadline, the creator is the runner from the start (no
// claim race exists here).
type QuickRun struct {
	id           uuid.UUID
	orgID        uuid.UUID
	runnerUserID uuid.UUID
	destination  string
	delayMinutes int
	deadlineAt   time.Time
	note         *string
	status       Status
	createdAt    time.Time
	updatedAt    time.Time
}

func NewQuickRun(orgID, creatorUserID uuid.UUID, destination string, delayMinutes int, note *string, now time.Time) (*QuickRun, error) {
	fields := errs.FieldErrors{}
	if destination == "" {
		fields["destination"] = "destination is required"
	}
	if delayMinutes <= 0 {
		fields["delay_minutes"] = "must be a positive number of minutes"
	}
	if len(fields) > 0 {
		return nil, fields
	}

	return &QuickRun{
		id:           uuid.New(),
		orgID:        orgID,
		runnerUserID: creatorUserID,
		destination:  destination,
		delayMinutes: delayMinutes,
		deadlineAt:   now.Add(time.Duration(delayMinutes) * time.Minute),
		note:         note,
		status:       StatusOpen,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructQuickRun(
	id, orgID, runnerUserID uuid.UUID,
	destination string,
	delayMinutes int,
	deadlineAt time.Time,
	note *string,
	status Status,
	createdAt, updatedAt time.Time,
) *QuickRun {
	return &QuickRun{
		id:           id,
		orgID:        orgID,
		runnerUserID: runnerUserID,
		destination:  destination,
		delayMinutes: delayMinutes,
		deadlineAt:   deadlineAt,
		note:         note,
		status:       status,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (q *QuickRun) IsOpen() bool   { return q.status == StatusOpen }
func (q *QuickRun) IsLocked() bool { return q.status == StatusLocked }
func (q *QuickRun) IsClosed() bool { return q.status == StatusClosed }

func (q *QuickRun) Expired(now time.Time) bool {
	return !now.Before(q.deadlineAt)
}

func (q *QuickRun) Lock() error {
	if q.status != StatusOpen {
		return errs.Mark(errs.New("quick run is not open"), errs.ErrLifecycleViolation)
	}
	q.status = StatusLocked
	return nil
}

func (q *QuickRun) Close() error {
	if q.status == StatusClosed {
		return errs.Mark(errs.New("quick run already closed"), errs.ErrLifecycleViolation)
	}
	q.status = StatusClosed
	return nil
}

// Delegate hands the run to another participant; only the current runner may
// initiate it.
func (q *QuickRun) Delegate(fromUserID, toUserID uuid.UUID) error {
	if q.status == StatusClosed {
		return errs.Mark(errs.New("quick run is closed"), errs.ErrLifecycleViolation)
	}
	if q.runnerUserID != fromUserID {
		return errs.Mark(errs.New("caller is not the runner"), errs.ErrPermissionDenied)
	}
	q.runnerUserID = toUserID
	return nil
}

func (q *QuickRun) ID() uuid.UUID           { return q.id }
func (q *QuickRun) OrgID() uuid.UUID        { return q.orgID }
func (q *QuickRun) RunnerUserID() uuid.UUID { return q.runnerUserID }
func (q *QuickRun) Destination() string     { return q.destination }
func (q *QuickRun) DelayMinutes() int       { return q.delayMinutes }
func (q *QuickRun) DeadlineAt() time.Time   { return q.deadlineAt }
func (q *QuickRun) Note() *string           { return q.note }
func (q *QuickRun) Status() Status          { return q.status }
func (q *QuickRun) CreatedAt() time.Time    { return q.createdAt }
func (q *QuickRun) UpdatedAt() time.Time    { return q.updatedAt }

// Request is one participant's line against a quick run, unique per
// (quick run, participant). The runner may never request against their own
// run.
type Request struct {
	id                uuid.UUID
	quickRunID        uuid.UUID
	participantUserID uuid.UUID
	description       string
	priceEstimated    *money.Cents
	priceFinal        *money.Cents
	createdAt         time.Time
	updatedAt         time.Time
}

func NewRequest(run *QuickRun, participantUserID uuid.UUID, description string, priceEstimated *money.Cents, now time.Time) (*Request, error) {
	if participantUserID == run.RunnerUserID() {
		return nil, errs.Mark(errs.New("runner cannot request against own run"), errs.ErrPermissionDenied)
	}
	if description == "" {
		return nil, errs.FieldErrors{"description": "description is required"}
	}

	return &Request{
		id:                uuid.New(),
		quickRunID:        run.ID(),
		participantUserID: participantUserID,
		description:       description,
		priceEstimated:    priceEstimated,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

func ReconstructRequest(
	id, quickRunID, participantUserID uuid.UUID,
	description string,
	priceEstimated, priceFinal *money.Cents,
	createdAt, updatedAt time.Time,
) *Request {
	return &Request{
		id:                id,
		quickRunID:        quickRunID,
		participantUserID: participantUserID,
		description:       description,
		priceEstimated:    priceEstimated,
		priceFinal:        priceFinal,
		createdAt:         createdAt,
		updatedAt:         updatedAt,
	}
}

// Update mutates the participant-editable fields; returns false when the
// submitted values match the current ones.
func (r *Request) Update(description string, priceEstimated *money.Cents, now time.Time) (bool, error) {
	if description == "" {
		return false, errs.FieldErrors{"description": "description is required"}
	}
	if description == r.description && equalCentsPtr(priceEstimated, r.priceEstimated) {
		return false, nil
	}
	r.description = description
	r.priceEstimated = priceEstimated
	r.updatedAt = now
	return true, nil
}

func (r *Request) SetFinalPrice(v money.Cents, now time.Time) bool {
	if r.priceFinal != nil && *r.priceFinal == v {
		return false
	}
	r.priceFinal = &v
	r.updatedAt = now
	return true
}

func (r *Request) OwnedBy(actor uuid.UUID) bool {
	return r.participantUserID == actor
}

func (r *Request) ID() uuid.UUID                { return r.id }
func (r *Request) QuickRunID() uuid.UUID        { return r.quickRunID }
func (r *Request) ParticipantUserID() uuid.UUID { return r.participantUserID }
func (r *Request) Description() string          { return r.description }
func (r *Request) PriceEstimated() *money.Cents { return r.priceEstimated }
func (r *Request) PriceFinal() *money.Cents     { return r.priceFinal }
func (r *Request) CreatedAt() time.Time         { return r.createdAt }
func (r *Request) UpdatedAt() time.Time         { return r.updatedAt }

func equalCentsPtr(a, b *money.Cents) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
