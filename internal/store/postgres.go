package store

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres persists the KV contract in four tables keyed by namespace.
// One pool is shared; each Namespace view is a cheap handle over it.
type Postgres struct {
	db *pgxpool.Pool
	ns Namespace
}

// NewPostgres connects, applies pool settings and ensures the schema.
func NewPostgres(dbURL string) (*Postgres, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse db url: %w", err)
	}

	if maxConnStr := os.Getenv("DB_MAX_OPEN_CONNS"); maxConnStr != "" {
		if maxConn, err := strconv.Atoi(maxConnStr); err == nil {
			config.MaxConns = int32(maxConn)
		}
	}

	// Prevent stale connections from surviving across deployments.
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	s := &Postgres{db: pool, ns: Aggregates}
	if err := s.ensureSchema(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure kv schema: %w", err)
	}
	return s, nil
}

// WithNamespace returns a view of the store scoped to ns.
func (s *Postgres) WithNamespace(ns Namespace) *Postgres {
	return &Postgres{db: s.db, ns: ns}
}

func (s *Postgres) Close() {
	s.db.Close()
}

func (s *Postgres) ensureSchema(ctx context.Context) error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS kv_values (
			ns         TEXT NOT NULL,
			key        TEXT NOT NULL,
			value      TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (ns, key)
		);

		CREATE TABLE IF NOT EXISTS kv_set_members (
			ns     TEXT NOT NULL,
			key    TEXT NOT NULL,
			member TEXT NOT NULL,
			PRIMARY KEY (ns, key, member)
		);

		CREATE TABLE IF NOT EXISTS kv_list_items (
			id    BIGSERIAL PRIMARY KEY,
			ns    TEXT NOT NULL,
			key   TEXT NOT NULL,
			value TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_kv_list_items_key
			ON kv_list_items (ns, key, id);

		CREATE TABLE IF NOT EXISTS kv_locks (
			name       TEXT PRIMARY KEY,
			holder     TEXT NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL
		);
	`
	_, err := s.db.Exec(ctx, ddl)
	return err
}

func (s *Postgres) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRow(ctx,
		`SELECT value FROM kv_values WHERE ns = $1 AND key = $2`,
		string(s.ns), key,
	).Scan(&v)
	if err == pgx.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *Postgres) Set(ctx context.Context, key, value string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO kv_values (ns, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (ns, key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = NOW()`,
		string(s.ns), key, value,
	)
	return err
}

func (s *Postgres) SetNX(ctx context.Context, key, value string) (bool, error) {
	cmd, err := s.db.Exec(ctx, `
		INSERT INTO kv_values (ns, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (ns, key) DO NOTHING`,
		string(s.ns), key, value,
	)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (s *Postgres) Delete(ctx context.Context, key string) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM kv_values WHERE ns = $1 AND key = $2`,
		string(s.ns), key,
	)
	return err
}

func (s *Postgres) Keys(ctx context.Context, pattern string) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT key FROM kv_values WHERE ns = $1 AND key LIKE $2 ORDER BY key`,
		string(s.ns), globToLike(pattern),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// globToLike rewrites a glob pattern into a LIKE pattern: '*' becomes '%',
// '?' becomes '_', and LIKE metacharacters in the literal parts are escaped.
func globToLike(pattern string) string {
	var b strings.Builder
	for _, r := range pattern {
		switch r {
		case '*':
			b.WriteByte('%')
		case '?':
			b.WriteByte('_')
		case '%', '_', '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (s *Postgres) SAdd(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, member := range members {
		batch.Queue(`
			INSERT INTO kv_set_members (ns, key, member)
			VALUES ($1, $2, $3)
			ON CONFLICT (ns, key, member) DO NOTHING`,
			string(s.ns), key, member,
		)
	}
	br := s.db.SendBatch(ctx, batch)
	defer br.Close()
	for range members {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("sadd %s: %w", key, err)
		}
	}
	return nil
}

func (s *Postgres) SRem(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	_, err := s.db.Exec(ctx,
		`DELETE FROM kv_set_members WHERE ns = $1 AND key = $2 AND member = ANY($3)`,
		string(s.ns), key, members,
	)
	return err
}

func (s *Postgres) SMembers(ctx context.Context, key string) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT member FROM kv_set_members WHERE ns = $1 AND key = $2 ORDER BY member`,
		string(s.ns), key,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var m string
		if err := rows.Scan(&m); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *Postgres) RPush(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, v := range values {
		batch.Queue(
			`INSERT INTO kv_list_items (ns, key, value) VALUES ($1, $2, $3)`,
			string(s.ns), key, v,
		)
	}
	br := s.db.SendBatch(ctx, batch)
	defer br.Close()
	for range values {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("rpush %s: %w", key, err)
		}
	}
	return nil
}

func (s *Postgres) LRange(ctx context.Context, key string) ([]string, error) {
	rows, err := s.db.Query(ctx,
		`SELECT value FROM kv_list_items WHERE ns = $1 AND key = $2 ORDER BY id`,
		string(s.ns), key,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// AcquireLock claims a named lock as an upsert that only succeeds when the
// row is absent, expired, or already ours.
func (s *Postgres) AcquireLock(ctx context.Context, name, holder string, ttl time.Duration) (bool, error) {
	cmd, err := s.db.Exec(ctx, `
		INSERT INTO kv_locks (name, holder, expires_at)
		VALUES ($1, $2, NOW() + $3)
		ON CONFLICT (name) DO UPDATE SET
			holder = EXCLUDED.holder,
			expires_at = EXCLUDED.expires_at
		WHERE kv_locks.expires_at < NOW() OR kv_locks.holder = EXCLUDED.holder`,
		name, holder, ttl,
	)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (s *Postgres) ReleaseLock(ctx context.Context, name, holder string) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM kv_locks WHERE name = $1 AND holder = $2`,
		name, holder,
	)
	return err
}
