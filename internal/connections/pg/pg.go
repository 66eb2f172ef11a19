// Package pg implementa connections.Store sobre PostgreSQL (pgxpool).
// Los tokens se sellan con secretbox antes de escribirse.
package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JackVitick/Socialync/internal/connections"
	"github.com/JackVitick/Socialync/internal/providers"
	"github.com/JackVitick/Socialync/internal/security/secretbox"
)

// Store es el repositorio de social_connection.
type Store struct {
	pool    *pgxpool.Pool
	access  secretbox.Sealer
	refresh secretbox.Sealer
}

// Sealers agrupa los sealers por columna. nil usa secretbox.Plain.
type Sealers struct {
	Access  secretbox.Sealer
	Refresh secretbox.Sealer
}

func New(pool *pgxpool.Pool, s Sealers) *Store {
	if s.Access == nil {
		s.Access = secretbox.Plain{}
	}
	if s.Refresh == nil {
		s.Refresh = secretbox.Plain{}
	}
	return &Store{pool: pool, access: s.Access, refresh: s.Refresh}
}

// Connect abre un pool y verifica la conexión.
func Connect(ctx context.Context, dsn string, maxConns int) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg: connect: %w", err)
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	return pool, nil
}

func (s *Store) Save(ctx context.Context, userID string, platform providers.Platform, in connections.Input) error {
	if userID == "" || !platform.Valid() || in.AccessToken == "" || in.ProfileID == "" {
		return fmt.Errorf("pg: invalid connection input for %s", platform)
	}
	at, err := s.access.Seal(in.AccessToken)
	if err != nil {
		return fmt.Errorf("pg: seal access token: %w", err)
	}
	var rt *string
	if in.RefreshToken != "" {
		v, err := s.refresh.Seal(in.RefreshToken)
		if err != nil {
			return fmt.Errorf("pg: seal refresh token: %w", err)
		}
		rt = &v
	}

	// Overwrite completo; created_at se conserva.
	const q = `
		INSERT INTO social_connection
			(user_id, platform, access_token, refresh_token, expires_at, profile_id, profile_name, connected, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, now())
		ON CONFLICT (user_id, platform) DO UPDATE SET
			access_token  = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at    = EXCLUDED.expires_at,
			profile_id    = EXCLUDED.profile_id,
			profile_name  = EXCLUDED.profile_name,
			connected     = TRUE,
			updated_at    = now()
	`
	_, err = s.pool.Exec(ctx, q, userID, string(platform), at, rt, in.ExpiresAt, in.ProfileID, in.ProfileName)
	return err
}

const selectCols = `user_id, platform, access_token, refresh_token, expires_at, profile_id, profile_name, connected, created_at, updated_at`

func (s *Store) Get(ctx context.Context, userID string, platform providers.Platform) (*connections.Connection, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+selectCols+` FROM social_connection WHERE user_id = $1 AND platform = $2`,
		userID, string(platform))
	c, err := s.scan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, connections.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) List(ctx context.Context, userID string) ([]connections.Connection, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+selectCols+` FROM social_connection WHERE user_id = $1 ORDER BY platform`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []connections.Connection
	for rows.Next() {
		c, err := s.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, userID string, platform providers.Platform) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM social_connection WHERE user_id = $1 AND platform = $2`, userID, string(platform))
	return err
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) scan(row pgx.Row) (*connections.Connection, error) {
	var (
		c        connections.Connection
		platform string
		at       string
		rt       *string
	)
	if err := row.Scan(&c.UserID, &platform, &at, &rt, &c.ExpiresAt, &c.ProfileID, &c.ProfileName,
		&c.Connected, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Platform = providers.Platform(platform)

	var err error
	if c.AccessToken, err = s.access.Open(at); err != nil {
		return nil, fmt.Errorf("pg: open access token: %w", err)
	}
	if rt != nil {
		if c.RefreshToken, err = s.refresh.Open(*rt); err != nil {
			return nil, fmt.Errorf("pg: open refresh token: %w", err)
		}
	}
	return &c, nil
}

var _ connections.Store = (*Store)(nil)
