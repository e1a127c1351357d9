package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/eaglebank/onboarding/shared/models"
	sharedredis "github.com/eaglebank/onboarding/shared/redis"
)

const applicationViewKeyPrefix = "application:view:"

// ApplicationReadRepository handles all read operations for applications.
// Single-record reads try the Redis view cache first and fall back to
// PostgreSQL, warming the cache on every cold read. Listings and aggregates
// always go to PostgreSQL.
type ApplicationReadRepository struct {
	db    *sql.DB
	cache *sharedredis.ViewCache[models.Application]
}

// NewApplicationReadRepository builds the read side; redisClient may be nil,
// in which case every read goes to PostgreSQL.
func NewApplicationReadRepository(db *sql.DB, redisClient goredis.UniversalClient) *ApplicationReadRepository {
	r := &ApplicationReadRepository{db: db}
	if redisClient != nil {
		r.cache = sharedredis.NewViewCache[models.Application](redisClient, 0)
	}
	return r
}

func viewKey(id int64) string {
	return applicationViewKeyPrefix + strconv.FormatInt(id, 10)
}

// GetByID returns one application, trying Redis first then PostgreSQL.
func (r *ApplicationReadRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	if app, ok := r.cache.Get(ctx, viewKey(id)); ok {
		return app, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, selectList, applicationsTable)
	app, err := scanApplication(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}

	r.CacheView(ctx, app)
	return app, nil
}

// FindByField returns the first application (lowest id) whose identifier
// field equals value.
func (r *ApplicationReadRepository) FindByField(ctx context.Context, field, value string) (*models.Application, error) {
	if !models.IsLookupField(field) {
		return nil, fmt.Errorf("field %q cannot be used for lookups", field)
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY id LIMIT 1`, selectList, applicationsTable, field)
	app, err := scanApplication(r.db.QueryRowContext(ctx, query, value))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find application by %s: %w", field, err)
	}
	return app, nil
}

// FindByCategory lists every application whose categorical field equals value.
func (r *ApplicationReadRepository) FindByCategory(ctx context.Context, field, value string) ([]models.Application, error) {
	if !dataColumnNames[field] {
		return nil, fmt.Errorf("unknown field %q", field)
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY id`, selectList, applicationsTable, field)
	rows, err := r.db.QueryContext(ctx, query, value)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications by %s: %w", field, err)
	}
	apps, err := scanApplications(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan applications: %w", err)
	}
	return apps, nil
}

func (r *ApplicationReadRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, applicationsTable)
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return count, nil
}

// Paginate returns at most limit applications after skipping skip, by id.
func (r *ApplicationReadRepository) Paginate(ctx context.Context, skip, limit int) ([]models.Application, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id OFFSET $1 LIMIT $2`, selectList, applicationsTable)
	rows, err := r.db.QueryContext(ctx, query, skip, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	apps, err := scanApplications(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan applications: %w", err)
	}
	return apps, nil
}

// All returns every stored application ordered by id.
func (r *ApplicationReadRepository) All(ctx context.Context) ([]models.Application, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY id`, selectList, applicationsTable)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load applications: %w", err)
	}
	apps, err := scanApplications(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan applications: %w", err)
	}
	return apps, nil
}

// CacheView stores or refreshes the Redis read model for an application.
// Called by the command service after every mutation.
func (r *ApplicationReadRepository) CacheView(ctx context.Context, app *models.Application) {
	r.cache.Set(ctx, viewKey(app.ID), app)
}

// InvalidateView removes the Redis read model entry for a deleted application.
func (r *ApplicationReadRepository) InvalidateView(ctx context.Context, id int64) {
	r.cache.Delete(ctx, viewKey(id))
}
