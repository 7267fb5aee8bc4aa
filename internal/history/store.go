package history

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/sreedevigattu/recipegenerator/internal/recipe"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

const schema = `
CREATE TABLE IF NOT EXISTS recipes (
	id          TEXT PRIMARY KEY,
	ingredient  TEXT NOT NULL,
	query       TEXT NOT NULL,
	prompt      TEXT NOT NULL,
	content     TEXT NOT NULL,
	stop_reason TEXT NOT NULL DEFAULT '',
	provider    TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS recipes_created_at_idx ON recipes (created_at DESC);`

// Store keeps generated recipes in Postgres.
type Store struct {
	Pool   *pgxpool.Pool
	logger *zerolog.Logger
}

func New(ctx context.Context, databaseURL string, logger *zerolog.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{Pool: pool, logger: logger}, nil
}

func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate recipes table: %w", err)
	}
	return nil
}

func (s *Store) Save(ctx context.Context, r *recipe.Recipe) error {
	query := `
	INSERT INTO recipes (id, ingredient, query, prompt, content, stop_reason, provider, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (id) DO NOTHING`

	tag, err := s.Pool.Exec(ctx, query,
		r.ID, r.Ingredient, r.Query, r.Prompt, r.Content, r.StopReason, r.Provider, r.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save recipe %s: %w", r.ID, err)
	}

	if tag.RowsAffected() == 0 {
		s.logger.Warn().Str("recipe_id", r.ID).Msg("Recipe already stored")
	}
	return nil
}

// List returns the most recent recipes first.
func (s *Store) List(ctx context.Context, limit int) ([]recipe.Recipe, error) {
	query := `
	SELECT id, ingredient, query, prompt, content, stop_reason, provider, created_at
	FROM recipes
	ORDER BY created_at DESC
	LIMIT $1`

	rows, err := s.Pool.Query(ctx, query, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}

	recipes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (recipe.Recipe, error) {
		var r recipe.Recipe
		err := row.Scan(&r.ID, &r.Ingredient, &r.Query, &r.Prompt, &r.Content, &r.StopReason, &r.Provider, &r.CreatedAt)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan recipes: %w", err)
	}

	return recipes, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

// ClampLimit maps a requested page size into [1, MaxListLimit], defaulting non-positive values.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}
