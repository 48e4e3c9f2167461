package pages

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/pagebuilder/internal/common"
	"github.com/dmitrijs2005/pagebuilder/internal/dbx"
	"github.com/dmitrijs2005/pagebuilder/internal/models"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const pageColumns = `id, title, components, global_styles, description, slug, status, published_at, created_at, updated_at`

// PostgresStore keeps pages in the pages table; components and global
// styles are JSONB columns.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// OpenPostgres opens a pgx-backed *sql.DB for dsn.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	return db, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.IndexEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, slug, status, updated_at, created_at, published_at FROM pages ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	defer rows.Close()

	result := []models.IndexEntry{}
	for rows.Next() {
		var (
			e         models.IndexEntry
			published sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.Title, &e.Slug, &e.Status, &e.UpdatedAt, &e.CreatedAt, &published); err != nil {
			return nil, fmt.Errorf("failed to scan page row: %w", err)
		}
		e.PublishedAt = timePtr(published)
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate page rows: %w", err)
	}
	return result, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (models.SavedPage, error) {
	return getPage(ctx, s.db, `SELECT `+pageColumns+` FROM pages WHERE id = $1`, id)
}

func (s *PostgresStore) GetBySlug(ctx context.Context, slug string) (models.SavedPage, error) {
	return getPage(ctx, s.db, `SELECT `+pageColumns+` FROM pages WHERE slug = $1 ORDER BY seq LIMIT 1`, slug)
}

// Create inserts p, overwriting a row with the same id.
func (s *PostgresStore) Create(ctx context.Context, p models.SavedPage) error {
	components, styles, err := encodeDocument(p)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pages (`+pageColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			components = EXCLUDED.components,
			global_styles = EXCLUDED.global_styles,
			description = EXCLUDED.description,
			slug = EXCLUDED.slug,
			status = EXCLUDED.status,
			published_at = EXCLUDED.published_at,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at`,
		p.ID, p.Title, components, styles, p.Description, p.Slug, string(p.Status),
		nullTime(p.PublishedAt), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert page %s: %w", p.ID, err)
	}
	return nil
}

// Update locks the row, applies fn and writes the result back in one
// transaction.
func (s *PostgresStore) Update(ctx context.Context, id string, fn func(p *models.SavedPage) error) (models.SavedPage, error) {
	var out models.SavedPage
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		p, err := getPage(ctx, tx, `SELECT `+pageColumns+` FROM pages WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return err
		}
		if err := fn(&p); err != nil {
			return err
		}
		p.ID = id

		components, styles, err := encodeDocument(p)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE pages SET title = $2, components = $3, global_styles = $4, description = $5,
				slug = $6, status = $7, published_at = $8, updated_at = $9
			WHERE id = $1`,
			id, p.Title, components, styles, p.Description, p.Slug, string(p.Status),
			nullTime(p.PublishedAt), p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to update page %s: %w", id, err)
		}
		out = p
		return nil
	})
	if err != nil {
		return models.SavedPage{}, err
	}
	return out, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete page %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func getPage(ctx context.Context, db dbx.DBTX, query string, arg string) (models.SavedPage, error) {
	var (
		p                  models.SavedPage
		components, styles []byte
		status             string
		published          sql.NullTime
	)
	err := db.QueryRowContext(ctx, query, arg).Scan(
		&p.ID, &p.Title, &components, &styles, &p.Description, &p.Slug, &status,
		&published, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SavedPage{}, common.ErrNotFound
	}
	if err != nil {
		return models.SavedPage{}, fmt.Errorf("failed to get page: %w", err)
	}

	if err := json.Unmarshal(components, &p.Components); err != nil {
		return models.SavedPage{}, fmt.Errorf("decode components of %s: %w", p.ID, err)
	}
	if p.Components == nil {
		p.Components = []models.Block{}
	}
	if err := json.Unmarshal(styles, &p.GlobalStyles); err != nil {
		return models.SavedPage{}, fmt.Errorf("decode global styles of %s: %w", p.ID, err)
	}
	p.Status = models.Status(status)
	p.PublishedAt = timePtr(published)
	return p, nil
}

func encodeDocument(p models.SavedPage) (components, styles []byte, err error) {
	blocks := p.Components
	if blocks == nil {
		blocks = []models.Block{}
	}
	if components, err = json.Marshal(blocks); err != nil {
		return nil, nil, fmt.Errorf("encode components: %w", err)
	}
	if styles, err = json.Marshal(p.GlobalStyles); err != nil {
		return nil, nil, fmt.Errorf("encode global styles: %w", err)
	}
	return components, styles, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
