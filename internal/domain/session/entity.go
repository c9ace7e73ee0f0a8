package session

import (
	"time"

	"lunchrun/internal/pkg/errs"

	"github.com/google/uuid"
)

// Session is the time-boxed container holding one day's proposals for an
// organization.
//
// Lifecycle: Open --[deadline elapsed]--> Locked --[explicit close]--> Closed.
// Open may also close directly. Closed is terminal.
type Session struct {
	id         uuid.UUID
	orgID      uuid.UUID
	day        Day
	deadlineAt time.Time
	status     Status
	channelRef string
	messageRef string
	createdAt  time.Time
	updatedAt  time.Time
}

func NewSession(orgID uuid.UUID, day Day, deadlineAt time.Time, channelRef string) *Session {
	return &Session{
		id:         uuid.New(),
		orgID:      orgID,
		day:        day,
		deadlineAt: deadlineAt,
		status:     StatusOpen,
		channelRef: channelRef,
	}
}

func ReconstructSession(
	id, orgID uuid.UUID,
	day Day,
	deadlineAt time.Time,
	status Status,
	channelRef, messageRef string,
	createdAt, updatedAt time.Time,
) *Session {
	return &Session{
		id:         id,
		orgID:      orgID,
		day:        day,
		deadlineAt: deadlineAt,
		status:     status,
		channelRef: channelRef,
		messageRef: messageRef,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

func (s *Session) IsOpen() bool   { return s.status == StatusOpen }
func (s *Session) IsLocked() bool { return s.status == StatusLocked }
func (s *Session) IsClosed() bool { return s.status == StatusClosed }

// Expired reports whether the deadline has passed. The comparison is
// inclusive: deadlineAt == now counts as expired.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.deadlineAt)
}

// Lock transitions Open -> Locked. Already locked or closed sessions are
// left untouched by the sweep, so those are violations here.
func (s *Session) Lock() error {
	if s.status != StatusOpen {
		return errs.Mark(errs.New("session is not open"), errs.ErrLifecycleViolation)
	}
	s.status = StatusLocked
	return nil
}

// Close is legal from Open and Locked; no transition leaves Closed.
func (s *Session) Close() error {
	if s.status == StatusClosed {
		return errs.Mark(errs.New("session already closed"), errs.ErrLifecycleViolation)
	}
	s.status = StatusClosed
	return nil
}

func (s *Session) SetMessageRef(ref string) {
	s.messageRef = ref
}

func (s *Session) ID() uuid.UUID         { return s.id }
func (s *Session) OrgID() uuid.UUID      { return s.orgID }
func (s *Session) Day() Day              { return s.day }
func (s *Session) DeadlineAt() time.Time { return s.deadlineAt }
func (s *Session) Status() Status        { return s.status }
func (s *Session) ChannelRef() string    { return s.channelRef }
func (s *Session) MessageRef() string    { return s.messageRef }
func (s *Session) CreatedAt() time.Time  { return s.createdAt }
func (s *Session) UpdatedAt() time.Time  { return s.updatedAt }
