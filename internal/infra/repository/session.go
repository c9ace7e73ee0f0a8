package repository

import (
	"context"
	"time"

	"lunchrun/internal/domain/session"
	"lunchrun/internal/infra"
	"lunchrun/internal/pkg/pgconv"
	"lunchrun/internal/usecase/shared"

	"github.com/google/uuid"
)

type SessionRepository struct {
	db DBTX
}

func NewSessionRepository(db DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

const sessionColumns = `id, org_id, day, deadline_at, status, channel_ref, message_ref, created_at, updated_at`

func (r *SessionRepository) EnsureOpen(ctx context.Context, orgID uuid.UUID, day session.Day, deadlineAt time.Time, channelRef string) (*session.Session, error) {
	// ON CONFLICT DO NOTHING keeps concurrent first interactions safe; the
	// read-back returns whichever row won.
	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (id, org_id, day, deadline_at, status, channel_ref, message_ref)
		VALUES ($1, $2, $3, $4, $5, $6, '')
		ON CONFLICT (org_id, day) DO NOTHING`,
		uuid.New(), orgID, string(day), pgconv.TimeToPgtype(deadlineAt), session.StatusOpen.String(), channelRef,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to ensure session", err)
	}

	return r.FindByDay(ctx, orgID, day)
}

func (r *SessionRepository) FindByID(ctx context.Context, orgID, id uuid.UUID) (*session.Session, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE org_id = $1 AND id = $2`,
		orgID, id,
	)
	return scanSession(row)
}

func (r *SessionRepository) FindByDay(ctx context.Context, orgID uuid.UUID, day session.Day) (*session.Session, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+sessionColumns+`
		FROM sessions
		WHERE org_id = $1 AND day = $2`,
		orgID, string(day),
	)
	return scanSession(row)
}

func (r *SessionRepository) Update(ctx context.Context, s *session.Session) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE sessions
		SET status = $1, message_ref = $2, updated_at = now()
		WHERE id = $3`,
		s.Status().String(), s.MessageRef(), s.ID(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update session", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("session not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *SessionRepository) SweepExpired(ctx context.Context, now time.Time) ([]shared.SweptEntity, error) {
	// Conditional update: only rows still open-and-expired at write time
	// transition, so overlapping sweeps never double-lock or overwrite a
	// status that changed since selection.
	rows, err := r.db.Query(ctx, `
		UPDATE sessions
		SET status = $1, updated_at = now()
		WHERE status = $2 AND deadline_at <= $3
		RETURNING id, org_id`,
		session.StatusLocked.String(), session.StatusOpen.String(), pgconv.TimeToPgtype(now),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to sweep sessions", err)
	}
	defer rows.Close()

	var swept []shared.SweptEntity
	for rows.Next() {
		var e shared.SweptEntity
		if err := rows.Scan(&e.ID, &e.OrgID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan swept session", err)
		}
		swept = append(swept, e)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read swept sessions", err)
	}
	return swept, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*session.Session, error) {
	var (
		id, orgID              uuid.UUID
		day                    time.Time
		deadlineAt             time.Time
		status                 string
		channelRef, messageRef string
		createdAt, updatedAt   time.Time
	)
	err := row.Scan(&id, &orgID, &day, &deadlineAt, &status, &channelRef, &messageRef, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("session not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan session", err)
	}

	return session.ReconstructSession(
		id, orgID,
		session.Day(day.Format("2006-01-02")),
		deadlineAt,
		session.Status(status),
		channelRef, messageRef,
		createdAt, updatedAt,
	), nil
}
