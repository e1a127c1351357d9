package query

import (
	"context"
	"strings"

	"github.com/eaglebank/onboarding/shared/cqrs"
	"github.com/eaglebank/onboarding/shared/models"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// ApplicationReader is the read side of the application store.
type ApplicationReader interface {
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	FindByField(ctx context.Context, field, value string) (*models.Application, error)
	FindByCategory(ctx context.Context, field, value string) ([]models.Application, error)
	CountAll(ctx context.Context) (int, error)
	Paginate(ctx context.Context, skip, limit int) ([]models.Application, error)
}

type ApplicationQueryService struct {
	reader ApplicationReader
}

func NewApplicationQueryService(reader ApplicationReader) *ApplicationQueryService {
	return &ApplicationQueryService{reader: reader}
}

func (s *ApplicationQueryService) GetApplication(ctx context.Context, q cqrs.GetApplicationQuery) (*models.Application, error) {
	return s.reader.GetByID(ctx, q.ID)
}

// ListApplications returns one page ordered by id. A non-positive limit means
// the default; larger limits are capped.
func (s *ApplicationQueryService) ListApplications(ctx context.Context, q cqrs.ListApplicationsQuery) ([]models.Application, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	limit = min(limit, MaxPageLimit)
	skip := max(q.Skip, 0)

	apps, err := s.reader.Paginate(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	return nonNil(apps), nil
}

func (s *ApplicationQueryService) CountApplications(ctx context.Context) (int, error) {
	return s.reader.CountAll(ctx)
}

// FindApplication looks an application up by CNIC, account number or IBAN.
func (s *ApplicationQueryService) FindApplication(ctx context.Context, q cqrs.FindApplicationQuery) (*models.Application, error) {
	return s.reader.FindByField(ctx, q.Field, q.Value)
}

// ListByAccountType matches the account type case-insensitively.
func (s *ApplicationQueryService) ListByAccountType(ctx context.Context, raw string) ([]models.Application, error) {
	accountType, err := models.ParseAccountType(strings.ToUpper(raw))
	if err != nil {
		return nil, err
	}
	return s.filter(ctx, cqrs.FilterApplicationsQuery{Field: models.FieldAccountType, Value: string(accountType)})
}

// ListByCity upper-cases the city before matching, since cities are stored
// in block letters.
func (s *ApplicationQueryService) ListByCity(ctx context.Context, city string) ([]models.Application, error) {
	return s.filter(ctx, cqrs.FilterApplicationsQuery{Field: models.FieldCity, Value: strings.ToUpper(city)})
}

func (s *ApplicationQueryService) filter(ctx context.Context, q cqrs.FilterApplicationsQuery) ([]models.Application, error) {
	apps, err := s.reader.FindByCategory(ctx, q.Field, q.Value)
	if err != nil {
		return nil, err
	}
	return nonNil(apps), nil
}

func nonNil(apps []models.Application) []models.Application {
	if apps == nil {
		return []models.Application{}
	}
	return apps
}
