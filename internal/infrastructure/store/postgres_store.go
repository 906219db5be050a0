package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/example/taxconsult-api/internal/catalog"
	"github.com/example/taxconsult-api/internal/lead"
)

// PostgresStore persists the catalog and leads in PostgreSQL. List fields
// (sub-service ids, features, benefits, requirements) and the price range
// live in JSONB columns; listings order by created_at DESC then slug so
// resolution stays deterministic.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ConnectPostgres establishes a connection to PostgreSQL.
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// InitSchema creates the tables when they do not exist yet.
func (s *PostgresStore) InitSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS service_categories (
			id TEXT PRIMARY KEY,
			external_id TEXT NOT NULL DEFAULT '',
			slug TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			icon_name TEXT NOT NULL DEFAULT '',
			hero_title TEXT NOT NULL DEFAULT '',
			hero_description TEXT NOT NULL DEFAULT '',
			category_type TEXT NOT NULL DEFAULT '',
			sub_service_ids JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_categories_external_id
			ON service_categories (external_id) WHERE external_id <> '';

		CREATE TABLE IF NOT EXISTS services (
			id TEXT PRIMARY KEY,
			slug TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			short_description TEXT NOT NULL DEFAULT '',
			long_description TEXT NOT NULL DEFAULT '',
			icon_name TEXT NOT NULL DEFAULT '',
			category_ref TEXT NOT NULL DEFAULT '',
			subcategory_ref TEXT NOT NULL DEFAULT '',
			category_name TEXT NOT NULL DEFAULT '',
			price JSONB NOT NULL DEFAULT '{}',
			duration TEXT NOT NULL DEFAULT '',
			features JSONB NOT NULL DEFAULT '[]',
			benefits JSONB NOT NULL DEFAULT '[]',
			requirements JSONB NOT NULL DEFAULT '[]',
			status TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);

		CREATE TABLE IF NOT EXISTS leads (
			id TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			phone TEXT NOT NULL,
			email TEXT NOT NULL DEFAULT '',
			subject TEXT NOT NULL DEFAULT '',
			message TEXT NOT NULL DEFAULT '',
			service_slug TEXT NOT NULL DEFAULT '',
			preferred_time TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'new',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);
	`)
	return err
}

// ============================================
// Categories
// ============================================

const categoryColumns = `id, external_id, slug, title, description, icon_name,
	hero_title, hero_description, category_type, sub_service_ids, created_at, updated_at`

func (s *PostgresStore) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`
		FROM service_categories ORDER BY created_at DESC, slug
	`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var categories []catalog.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *PostgresStore) GetCategory(ctx context.Context, internalID string) (*catalog.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+categoryColumns+`
		FROM service_categories WHERE id = $1
	`, internalID)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return c, err
}

func (s *PostgresStore) SaveCategory(ctx context.Context, c *catalog.Category) error {
	subIDs, err := json.Marshal(c.SubServiceIDs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO service_categories (id, external_id, slug, title, description, icon_name,
			hero_title, hero_description, category_type, sub_service_ids, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			external_id = EXCLUDED.external_id,
			slug = EXCLUDED.slug,
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			icon_name = EXCLUDED.icon_name,
			hero_title = EXCLUDED.hero_title,
			hero_description = EXCLUDED.hero_description,
			category_type = EXCLUDED.category_type,
			sub_service_ids = EXCLUDED.sub_service_ids,
			updated_at = EXCLUDED.updated_at
	`, c.InternalID, c.ExternalID, c.Slug, c.Title, c.Description, c.IconName,
		c.HeroTitle, c.HeroDescription, c.Type, subIDs, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving category %s: %w", c.Slug, err)
	}
	return nil
}

func (s *PostgresStore) DeleteCategory(ctx context.Context, internalID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM service_categories WHERE id = $1`, internalID)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (*catalog.Category, error) {
	var c catalog.Category
	var subIDs []byte
	err := row.Scan(&c.InternalID, &c.ExternalID, &c.Slug, &c.Title, &c.Description,
		&c.IconName, &c.HeroTitle, &c.HeroDescription, &c.Type, &subIDs, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(subIDs, &c.SubServiceIDs); err != nil {
		return nil, fmt.Errorf("decoding sub_service_ids for %s: %w", c.Slug, err)
	}
	return &c, nil
}

// ============================================
// Services
// ============================================

const serviceColumns = `id, slug, title, short_description, long_description, icon_name,
	category_ref, subcategory_ref, category_name, price, duration,
	features, benefits, requirements, status, created_at, updated_at`

// publishedFilter keeps services visible without includeDrafts; rows with an
// empty status predate the draft feature and count as published.
const publishedFilter = `(status = 'published' OR status = '')`

func (s *PostgresStore) ListServices(ctx context.Context, includeDrafts bool) ([]catalog.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services`
	if !includeDrafts {
		query += ` WHERE ` + publishedFilter
	}
	query += ` ORDER BY created_at DESC, slug`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying services: %w", err)
	}
	defer rows.Close()

	var services []catalog.Service
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		services = append(services, *svc)
	}
	return services, rows.Err()
}

func (s *PostgresStore) FindServiceBySlug(ctx context.Context, slug string, includeDrafts bool) (*catalog.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE LOWER(slug) = LOWER($1)`
	if !includeDrafts {
		query += ` AND ` + publishedFilter
	}
	row := s.db.QueryRowContext(ctx, query, slug)
	svc, err := scanService(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return svc, err
}

func (s *PostgresStore) GetService(ctx context.Context, id string) (*catalog.Service, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+serviceColumns+` FROM services WHERE id = $1`, id)
	svc, err := scanService(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return svc, err
}

func (s *PostgresStore) SaveService(ctx context.Context, svc *catalog.Service) error {
	price, err := json.Marshal(svc.Price)
	if err != nil {
		return err
	}
	features, _ := json.Marshal(svc.Features)
	benefits, _ := json.Marshal(svc.Benefits)
	requirements, _ := json.Marshal(svc.Requirements)

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO services (id, slug, title, short_description, long_description, icon_name,
			category_ref, subcategory_ref, category_name, price, duration,
			features, benefits, requirements, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			slug = EXCLUDED.slug,
			title = EXCLUDED.title,
			short_description = EXCLUDED.short_description,
			long_description = EXCLUDED.long_description,
			icon_name = EXCLUDED.icon_name,
			category_ref = EXCLUDED.category_ref,
			subcategory_ref = EXCLUDED.subcategory_ref,
			category_name = EXCLUDED.category_name,
			price = EXCLUDED.price,
			duration = EXCLUDED.duration,
			features = EXCLUDED.features,
			benefits = EXCLUDED.benefits,
			requirements = EXCLUDED.requirements,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`, svc.ID, svc.Slug, svc.Title, svc.ShortDescription, svc.LongDescription, svc.IconName,
		svc.CategoryRef, svc.SubcategoryRef, svc.CategoryName, price, svc.Duration,
		features, benefits, requirements, svc.Status, svc.CreatedAt, svc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving service %s: %w", svc.Slug, err)
	}
	return nil
}

func (s *PostgresStore) DeleteService(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	return err
}

func scanService(row rowScanner) (*catalog.Service, error) {
	var svc catalog.Service
	var price, features, benefits, requirements []byte
	err := row.Scan(&svc.ID, &svc.Slug, &svc.Title, &svc.ShortDescription, &svc.LongDescription,
		&svc.IconName, &svc.CategoryRef, &svc.SubcategoryRef, &svc.CategoryName, &price,
		&svc.Duration, &features, &benefits, &requirements, &svc.Status, &svc.CreatedAt, &svc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(price, &svc.Price); err != nil {
		return nil, fmt.Errorf("decoding price for %s: %w", svc.Slug, err)
	}
	json.Unmarshal(features, &svc.Features)
	json.Unmarshal(benefits, &svc.Benefits)
	json.Unmarshal(requirements, &svc.Requirements)
	return &svc, nil
}

// ============================================
// Leads
// ============================================

func (s *PostgresStore) SaveLead(ctx context.Context, l *lead.Lead) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leads (id, kind, name, phone, email, subject, message,
			service_slug, preferred_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`, l.ID, l.Kind, l.Name, l.Phone, l.Email, l.Subject, l.Message,
		l.ServiceSlug, l.PreferredTime, l.Status, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving lead %s: %w", l.ID, err)
	}
	return nil
}

func (s *PostgresStore) GetLead(ctx context.Context, id string) (*lead.Lead, error) {
	var l lead.Lead
	err := s.db.QueryRowContext(ctx, `
		SELECT id, kind, name, phone, email, subject, message,
			service_slug, preferred_time, status, created_at, updated_at
		FROM leads WHERE id = $1
	`, id).Scan(&l.ID, &l.Kind, &l.Name, &l.Phone, &l.Email, &l.Subject, &l.Message,
		&l.ServiceSlug, &l.PreferredTime, &l.Status, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *PostgresStore) ListLeads(ctx context.Context) ([]lead.Lead, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, name, phone, email, subject, message,
			service_slug, preferred_time, status, created_at, updated_at
		FROM leads ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying leads: %w", err)
	}
	defer rows.Close()

	var leads []lead.Lead
	for rows.Next() {
		var l lead.Lead
		if err := rows.Scan(&l.ID, &l.Kind, &l.Name, &l.Phone, &l.Email, &l.Subject, &l.Message,
			&l.ServiceSlug, &l.PreferredTime, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (s *PostgresStore) SetLeadStatus(ctx context.Context, id, status string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE leads SET status = $2, updated_at = NOW() WHERE id = $1
	`, id, status)
	return err
}
