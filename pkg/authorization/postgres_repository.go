package authorization

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAuthorizationRepository implements AuthorizationRepository using
// PostgreSQL. At-most-one valid permanent authorization per (subject, client,
// scope-set) key is enforced by a partial unique index over
// (subject, client_id, scopes_key); racing creates lose the insert via
// ON CONFLICT DO NOTHING and re-query the winner.
type PostgresAuthorizationRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAuthorizationRepository creates a new PostgreSQL authorization repository
func NewPostgresAuthorizationRepository(pool *pgxpool.Pool) (*PostgresAuthorizationRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("database connection cannot be nil")
	}
	return &PostgresAuthorizationRepository{pool: pool}, nil
}

// FindLatestValid returns the most recently created valid permanent
// authorization with the exact scope set, newest wins
func (r *PostgresAuthorizationRepository) FindLatestValid(ctx context.Context, subject, clientID string, scopes []string) (*Authorization, error) {
	const q = `
		SELECT id, subject, client_id, scopes, status, authorization_type, created_at
		FROM authorizations
		WHERE subject = $1 AND client_id = $2 AND scopes_key = $3
		  AND status = $4 AND authorization_type = $5
		ORDER BY created_at DESC
		LIMIT 1`

	row := r.pool.QueryRow(ctx, q, subject, clientID, ScopesKey(scopes), StatusValid, TypePermanent)

	auth, err := scanAuthorization(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find authorization: %w", err)
	}
	return auth, nil
}

// Create persists a new valid permanent authorization. When a racing create
// already inserted a record for the same key, the existing record is returned.
func (r *PostgresAuthorizationRepository) Create(ctx context.Context, subject, clientID string, scopes []string) (*Authorization, error) {
	const q = `
		INSERT INTO authorizations (id, subject, client_id, scopes, scopes_key, status, authorization_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (subject, client_id, scopes_key) WHERE status = 'valid' AND authorization_type = 'permanent'
		DO NOTHING`

	id := uuid.New()
	now := time.Now().UTC()
	tag, err := r.pool.Exec(ctx, q, id, subject, clientID, scopes, ScopesKey(scopes), StatusValid, TypePermanent, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorization: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Lost the race; accept the winner
		existing, err := r.FindLatestValid(ctx, subject, clientID, scopes)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("authorization insert conflicted but no record found")
		}
		return existing, nil
	}

	scopesCopy := make([]string, len(scopes))
	copy(scopesCopy, scopes)
	return &Authorization{
		ID:        id,
		Subject:   subject,
		ClientID:  clientID,
		Scopes:    scopesCopy,
		Status:    StatusValid,
		Type:      TypePermanent,
		CreatedAt: now,
	}, nil
}

func scanAuthorization(row pgx.Row) (*Authorization, error) {
	var auth Authorization
	err := row.Scan(&auth.ID, &auth.Subject, &auth.ClientID, &auth.Scopes, &auth.Status, &auth.Type, &auth.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &auth, nil
}
