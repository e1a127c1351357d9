package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eaglebank/onboarding/internal/metrics"
	"github.com/eaglebank/onboarding/internal/validation"
	"github.com/eaglebank/onboarding/shared/cqrs"
	"github.com/eaglebank/onboarding/shared/events"
	"github.com/eaglebank/onboarding/shared/models"
)

// maxIdentifierAttempts bounds how often fresh identifiers are drawn when the
// store reports a collision.
const maxIdentifierAttempts = 3

// ApplicationWriter is the write store.
type ApplicationWriter interface {
	Insert(ctx context.Context, app *models.Application) (*models.Application, error)
	UpdateByID(ctx context.Context, id int64, patch models.ApplicationPatch) (*models.Application, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

// ViewCacher keeps the read model in sync after writes.
type ViewCacher interface {
	CacheView(ctx context.Context, app *models.Application)
	InvalidateView(ctx context.Context, id int64)
}

type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// IdentifierGenerator issues account numbers and IBANs.
type IdentifierGenerator interface {
	AccountNumber() (string, error)
	IBAN() (string, error)
}

// ApplicationCommandService validates and writes applications and keeps the
// read model current. views and publisher may be nil.
type ApplicationCommandService struct {
	writer    ApplicationWriter
	views     ViewCacher
	publisher EventPublisher
	ids       IdentifierGenerator
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

type Option func(*ApplicationCommandService)

func WithViewCache(v ViewCacher) Option {
	return func(s *ApplicationCommandService) { s.views = v }
}

func WithPublisher(p EventPublisher) Option {
	return func(s *ApplicationCommandService) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *ApplicationCommandService) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *ApplicationCommandService) { s.logger = l }
}

func NewApplicationCommandService(writer ApplicationWriter, ids IdentifierGenerator, opts ...Option) *ApplicationCommandService {
	s := &ApplicationCommandService{writer: writer, ids: ids, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateApplication validates the submitted record, assigns fresh identifiers
// and stores it.
func (s *ApplicationCommandService) CreateApplication(ctx context.Context, cmd cqrs.CreateApplicationCommand) (*models.Application, error) {
	app, err := validation.ValidateRecord(&cmd.Application)
	if err != nil {
		s.rejected(ctx, err)
		return nil, err
	}

	var created *models.Application
	for attempt := 1; ; attempt++ {
		if err := s.assignIdentifiers(app); err != nil {
			return nil, err
		}
		created, err = s.writer.Insert(ctx, app)
		if err == nil {
			break
		}
		if !errors.Is(err, models.ErrIdentifierCollision) || attempt == maxIdentifierAttempts {
			return nil, err
		}
		s.metrics.IncrementCollision()
		s.logger.WarnContext(ctx, "identifier collision, regenerating", "attempt", attempt)
	}

	s.metrics.IncrementCreated()
	if s.views != nil {
		s.views.CacheView(ctx, created)
	}
	s.publish(ctx, events.ApplicationCreated, events.ApplicationCreatedEvent{
		ApplicationID: created.ID,
		AccountNo:     created.AccountNo,
		IBAN:          created.IBAN,
		AccountType:   string(created.AccountType),
		SubmittedBy:   cmd.SubmittedBy,
	})
	s.logger.InfoContext(ctx, "application created", "application_id", created.ID, "account_type", created.AccountType)
	return created, nil
}

func (s *ApplicationCommandService) assignIdentifiers(app *models.Application) error {
	accountNo, err := s.ids.AccountNumber()
	if err != nil {
		return fmt.Errorf("failed to generate account number: %w", err)
	}
	iban, err := s.ids.IBAN()
	if err != nil {
		return fmt.Errorf("failed to generate iban: %w", err)
	}
	if err := validation.ValidateIdentifiers(accountNo, iban); err != nil {
		return fmt.Errorf("generated identifiers are malformed: %w", err)
	}
	app.AccountNo, app.IBAN = accountNo, iban
	return nil
}

// UpdateApplication applies a partial update. Each set field is validated on
// its own; identifiers cannot be changed.
func (s *ApplicationCommandService) UpdateApplication(ctx context.Context, cmd cqrs.UpdateApplicationCommand) (*models.Application, error) {
	if err := validation.ValidatePatch(cmd.Patch); err != nil {
		s.rejected(ctx, err)
		return nil, err
	}
	assignments := cmd.Patch.Assignments()
	if len(assignments) == 0 {
		return nil, &validation.FieldFormatError{FieldName: "patch", Tag: validation.TagRequired}
	}

	updated, err := s.writer.UpdateByID(ctx, cmd.ID, cmd.Patch)
	if err != nil {
		return nil, err
	}

	if s.views != nil {
		s.views.CacheView(ctx, updated)
	}
	fields := make([]string, len(assignments))
	for i, a := range assignments {
		fields[i] = a.Field
	}
	s.publish(ctx, events.ApplicationUpdated, events.ApplicationUpdatedEvent{
		ApplicationID: updated.ID,
		Fields:        fields,
		RequestedBy:   cmd.RequestedBy,
	})
	return updated, nil
}

func (s *ApplicationCommandService) DeleteApplication(ctx context.Context, cmd cqrs.DeleteApplicationCommand) error {
	deleted, err := s.writer.DeleteByID(ctx, cmd.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return models.ErrApplicationNotFound
	}

	if s.views != nil {
		s.views.InvalidateView(ctx, cmd.ID)
	}
	s.publish(ctx, events.ApplicationDeleted, events.ApplicationDeletedEvent{
		ApplicationID: cmd.ID,
		RequestedBy:   cmd.RequestedBy,
	})
	s.logger.InfoContext(ctx, "application deleted", "application_id", cmd.ID)
	return nil
}

// publish is best effort; a lost event only delays cache invalidation.
func (s *ApplicationCommandService) publish(ctx context.Context, eventType string, data any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.ApplicationEventsStream, eventType, data); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish event", "type", eventType, "error", err)
	}
}

func (s *ApplicationCommandService) rejected(ctx context.Context, err error) {
	var verr validation.Error
	if errors.As(err, &verr) {
		s.metrics.IncrementRejected(verr.Field(), verr.Rule())
		s.logger.InfoContext(ctx, "application rejected", "field", verr.Field(), "rule", verr.Rule())
	}
}
