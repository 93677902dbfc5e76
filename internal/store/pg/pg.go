// Package pg is the Postgres UserStore adapter, backed by pgx.
//
// The schema carries a unique index on (email, provider); its violation is
// surfaced as store.ErrDuplicate so the resolver can close the
// lookup-then-create race window.
package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yoocash/idbroker/internal/store"
)

const uniqueViolation = "23505"

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens a pool against dsn and pings it.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return New(pool), nil
}

func (s *Store) Close() { s.pool.Close() }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) FindUsersByEmail(ctx context.Context, email string) ([]store.User, error) {
	const query = `
		SELECT id, username, email, display_name, avatar_url, provider,
		       provider_user_id, role_id, confirmed, created_at
		FROM broker_user
		WHERE lower(email) = lower($1)
		ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, query, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.User
	for rows.Next() {
		var u store.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.DisplayName, &u.AvatarURL,
			&u.Provider, &u.ProviderUserID, &u.RoleID, &u.Confirmed, &u.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) CreateUser(ctx context.Context, nu store.NewUser) (*store.User, error) {
	const query = `
		INSERT INTO broker_user
			(username, email, display_name, avatar_url, provider,
			 provider_user_id, role_id, confirmed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	u := store.User{
		Username:       nu.Username,
		Email:          nu.Email,
		DisplayName:    nu.DisplayName,
		AvatarURL:      nu.AvatarURL,
		Provider:       nu.Provider,
		ProviderUserID: nu.ProviderUserID,
		RoleID:         nu.RoleID,
		Confirmed:      nu.Confirmed,
	}
	err := s.pool.QueryRow(ctx, query,
		nu.Username, nu.Email, nu.DisplayName, nu.AvatarURL, nu.Provider,
		nu.ProviderUserID, nu.RoleID, nu.Confirmed,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, store.ErrDuplicate
		}
		return nil, err
	}
	return &u, nil
}

func (s *Store) FindDefaultRole(ctx context.Context, roleType string) (*store.Role, error) {
	const query = `SELECT id, name, type FROM broker_role WHERE type = $1 LIMIT 1`
	var r store.Role
	err := s.pool.QueryRow(ctx, query, roleType).Scan(&r.ID, &r.Name, &r.Type)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
