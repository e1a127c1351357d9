package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/eaglebank/onboarding/shared/models"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = pq.ErrorCode("23505")

// ApplicationWriteRepository handles all state-mutating operations for
// applications. It operates exclusively against the PostgreSQL write store.
type ApplicationWriteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewApplicationWriteRepository(db *sql.DB) *ApplicationWriteRepository {
	return &ApplicationWriteRepository{db: db, now: time.Now}
}

// Insert stores a new application and returns it with id and timestamps set.
// A clash on account number or IBAN yields models.ErrIdentifierCollision.
func (r *ApplicationWriteRepository) Insert(ctx context.Context, app *models.Application) (*models.Application, error) {
	names := make([]string, 0, len(dataColumns)+2)
	placeholders := make([]string, 0, cap(names))
	args := make([]any, 0, cap(names))
	for _, c := range dataColumns {
		names = append(names, c.name)
		args = append(args, c.value(app))
		placeholders = append(placeholders, "$"+strconv.Itoa(len(args)))
	}
	now := r.now().UTC()
	names = append(names, "created_at", "updated_at")
	args = append(args, now, now)
	placeholders = append(placeholders, "$"+strconv.Itoa(len(args)-1), "$"+strconv.Itoa(len(args)))

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		applicationsTable, strings.Join(names, ", "), strings.Join(placeholders, ", "), selectList)

	created, err := scanApplication(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("failed to create application: %w", models.ErrIdentifierCollision)
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return created, nil
}

// UpdateByID applies the set fields of patch and returns the updated record.
func (r *ApplicationWriteRepository) UpdateByID(ctx context.Context, id int64, patch models.ApplicationPatch) (*models.Application, error) {
	assignments := patch.Assignments()
	sets := make([]string, 0, len(assignments)+1)
	args := make([]any, 0, len(assignments)+2)
	args = append(args, id)
	for _, as := range assignments {
		if !dataColumnNames[as.Field] {
			return nil, fmt.Errorf("failed to update application: unknown column %q", as.Field)
		}
		args = append(args, as.Value)
		sets = append(sets, fmt.Sprintf("%s = $%d", as.Field, len(args)))
	}
	args = append(args, r.now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $1 RETURNING %s`,
		applicationsTable, strings.Join(sets, ", "), selectList)

	updated, err := scanApplication(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return updated, nil
}

// DeleteByID removes an application and reports whether a row existed.
func (r *ApplicationWriteRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, applicationsTable)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete application: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return rows > 0, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
