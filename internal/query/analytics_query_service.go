package query

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/eaglebank/onboarding/internal/analytics"
	"github.com/eaglebank/onboarding/internal/metrics"
	"github.com/eaglebank/onboarding/shared/cqrs"
	"github.com/eaglebank/onboarding/shared/events"
	"github.com/eaglebank/onboarding/shared/models"
	sharedredis "github.com/eaglebank/onboarding/shared/redis"
)

const reportKeyPrefix = "report:"

// Report names, used for cache keys and metric labels.
const (
	ReportBreakdown        = "breakdown"
	ReportServices         = "services"
	ReportKin              = "kin"
	ReportDashboard        = "dashboard"
	ReportFinancial        = "financial"
	ReportGenderAccount    = "gender_account"
	ReportOccupationCard   = "occupation_card"
	ReportCityPerformance  = "city_performance"
	ReportOccupationIncome = "occupation_income"
	ReportPremium          = "premium"
	ReportDigital          = "digital"
	ReportHighValue        = "high_value"
	ReportCompleteness     = "completeness"
	ReportSegments         = "segments"
	ReportExecutive        = "executive_summary"
)

// AnalyticsStore supplies records and aggregates to the reports. Aggregates
// are pushed down to the store where it can compute them.
type AnalyticsStore interface {
	All(ctx context.Context) ([]models.Application, error)
	CountAll(ctx context.Context) (int, error)
	GroupCount(ctx context.Context, d analytics.Dimension) (analytics.Counts, error)
	CrossTabulate(ctx context.Context, first, second analytics.Dimension) (analytics.CrossTab, error)
	NumericSummary(ctx context.Context, f analytics.NumericField) (analytics.Summary, error)
	FlagCounts(ctx context.Context) (analytics.Counts, error)
	KinCounts(ctx context.Context) (analytics.Counts, error)
}

// AnalyticsQueryService computes dashboard reports, caching them in Redis when
// a client is configured.
type AnalyticsQueryService struct {
	store     AnalyticsStore
	redis     goredis.UniversalClient
	ttl       time.Duration
	threshold float64
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

type AnalyticsOption func(*AnalyticsQueryService)

// WithReportCache caches reports in Redis for ttl.
func WithReportCache(client goredis.UniversalClient, ttl time.Duration) AnalyticsOption {
	return func(s *AnalyticsQueryService) {
		s.redis = client
		s.ttl = ttl
	}
}

// WithHighValueThreshold sets the default monthly credit threshold of the
// high-value report.
func WithHighValueThreshold(v float64) AnalyticsOption {
	return func(s *AnalyticsQueryService) { s.threshold = v }
}

func WithAnalyticsMetrics(m *metrics.Metrics) AnalyticsOption {
	return func(s *AnalyticsQueryService) { s.metrics = m }
}

func WithAnalyticsLogger(l *slog.Logger) AnalyticsOption {
	return func(s *AnalyticsQueryService) { s.logger = l }
}

func NewAnalyticsQueryService(store AnalyticsStore, opts ...AnalyticsOption) *AnalyticsQueryService {
	s := &AnalyticsQueryService{
		store:     store,
		threshold: analytics.DefaultHighValueThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// cachedReport serves report from the cache or computes and stores it.
func cachedReport[T any](ctx context.Context, s *AnalyticsQueryService, report, key string, compute func(context.Context) (T, error)) (*T, error) {
	var cache *sharedredis.ViewCache[T]
	if s.redis != nil {
		cache = sharedredis.NewViewCache[T](s.redis, s.ttl)
		if v, ok := cache.Get(ctx, reportKeyPrefix+key); ok {
			s.metrics.ObserveCache(report, true)
			return v, nil
		}
		s.metrics.ObserveCache(report, false)
	}

	start := time.Now()
	v, err := compute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute %s report: %w", report, err)
	}
	s.metrics.ObserveReport(report, time.Since(start))

	cache.Set(ctx, reportKeyPrefix+key, &v)
	return &v, nil
}

// Breakdown reports the distribution of one categorical dimension.
func (s *AnalyticsQueryService) Breakdown(ctx context.Context, q cqrs.BreakdownQuery) (*analytics.Breakdown, error) {
	d, err := analytics.ParseDimension(q.Dimension)
	if err != nil {
		return nil, &models.InvalidCategoryError{FieldName: "dimension", Value: q.Dimension}
	}
	return cachedReport(ctx, s, ReportBreakdown, ReportBreakdown+":"+string(d), func(ctx context.Context) (analytics.Breakdown, error) {
		counts, err := s.store.GroupCount(ctx, d)
		if err != nil {
			return analytics.Breakdown{}, err
		}
		return analytics.PercentageBreakdown(counts), nil
	})
}

func (s *AnalyticsQueryService) Services(ctx context.Context) (*analytics.ServicesReport, error) {
	return cachedReport(ctx, s, ReportServices, ReportServices, func(ctx context.Context) (analytics.ServicesReport, error) {
		var flags analytics.Counts
		var total int
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { flags, err = s.store.FlagCounts(gctx); return })
		g.Go(func() (err error) { total, err = s.store.CountAll(gctx); return })
		if err := g.Wait(); err != nil {
			return analytics.ServicesReport{}, err
		}
		return analytics.ServicesBreakdown(flags, total), nil
	})
}

func (s *AnalyticsQueryService) Kin(ctx context.Context) (*analytics.Breakdown, error) {
	return cachedReport(ctx, s, ReportKin, ReportKin, func(ctx context.Context) (analytics.Breakdown, error) {
		kin, err := s.store.KinCounts(ctx)
		if err != nil {
			return analytics.Breakdown{}, err
		}
		return analytics.PercentageBreakdown(kin), nil
	})
}

// Dashboard gathers its aggregates concurrently.
func (s *AnalyticsQueryService) Dashboard(ctx context.Context) (*analytics.DashboardSummary, error) {
	return cachedReport(ctx, s, ReportDashboard, ReportDashboard, func(ctx context.Context) (analytics.DashboardSummary, error) {
		in, err := s.dashboardInput(ctx)
		if err != nil {
			return analytics.DashboardSummary{}, err
		}
		return analytics.Dashboard(in), nil
	})
}

func (s *AnalyticsQueryService) dashboardInput(ctx context.Context) (analytics.DashboardInput, error) {
	counts := make([]analytics.Counts, len(analytics.DashboardDimensions))
	var in analytics.DashboardInput

	g, gctx := errgroup.WithContext(ctx)
	for i, d := range analytics.DashboardDimensions {
		i, d := i, d
		g.Go(func() (err error) {
			counts[i], err = s.store.GroupCount(gctx, d)
			return
		})
	}
	g.Go(func() (err error) { in.Total, err = s.store.CountAll(gctx); return })
	g.Go(func() (err error) { in.Services, err = s.store.FlagCounts(gctx); return })
	g.Go(func() (err error) { in.Kin, err = s.store.KinCounts(gctx); return })
	if err := g.Wait(); err != nil {
		return analytics.DashboardInput{}, err
	}

	in.Counts = make(map[analytics.Dimension]analytics.Counts, len(counts))
	for i, d := range analytics.DashboardDimensions {
		in.Counts[d] = counts[i]
	}
	return in, nil
}

func (s *AnalyticsQueryService) Financial(ctx context.Context) (*analytics.FinancialReport, error) {
	return cachedReport(ctx, s, ReportFinancial, ReportFinancial, func(ctx context.Context) (analytics.FinancialReport, error) {
		var debit, credit analytics.Summary
		var total int
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { debit, err = s.store.NumericSummary(gctx, analytics.DebitTurnover); return })
		g.Go(func() (err error) { credit, err = s.store.NumericSummary(gctx, analytics.CreditTurnover); return })
		g.Go(func() (err error) { total, err = s.store.CountAll(gctx); return })
		if err := g.Wait(); err != nil {
			return analytics.FinancialReport{}, err
		}
		return analytics.FinancialInsights(debit, credit, total), nil
	})
}

func (s *AnalyticsQueryService) GenderAccount(ctx context.Context) (*analytics.GenderAccountReport, error) {
	return cachedReport(ctx, s, ReportGenderAccount, ReportGenderAccount, func(ctx context.Context) (analytics.GenderAccountReport, error) {
		ct, err := s.store.CrossTabulate(ctx, analytics.DimGender, analytics.DimAccountType)
		if err != nil {
			return analytics.GenderAccountReport{}, err
		}
		return analytics.GenderAccountAnalysis(ct), nil
	})
}

func (s *AnalyticsQueryService) OccupationCard(ctx context.Context) (*analytics.OccupationCardReport, error) {
	return cachedReport(ctx, s, ReportOccupationCard, ReportOccupationCard, func(ctx context.Context) (analytics.OccupationCardReport, error) {
		ct, err := s.store.CrossTabulate(ctx, analytics.DimOccupation, analytics.DimCardType)
		if err != nil {
			return analytics.OccupationCardReport{}, err
		}
		return analytics.OccupationCardAnalysis(ct), nil
	})
}

// fromRecords adapts a report computed over every stored record.
func fromRecords[T any](s *AnalyticsQueryService, build func([]models.Application) T) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		apps, err := s.store.All(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		return build(apps), nil
	}
}

func (s *AnalyticsQueryService) CityPerformance(ctx context.Context) (*analytics.CityPerformanceReport, error) {
	return cachedReport(ctx, s, ReportCityPerformance, ReportCityPerformance, fromRecords(s, analytics.CityPerformance))
}

func (s *AnalyticsQueryService) OccupationIncome(ctx context.Context) (*analytics.OccupationIncomeReport, error) {
	return cachedReport(ctx, s, ReportOccupationIncome, ReportOccupationIncome, fromRecords(s, analytics.OccupationIncomeAnalysis))
}

func (s *AnalyticsQueryService) Premium(ctx context.Context) (*analytics.PremiumReport, error) {
	return cachedReport(ctx, s, ReportPremium, ReportPremium, fromRecords(s, analytics.PremiumCustomerAnalysis))
}

func (s *AnalyticsQueryService) Digital(ctx context.Context) (*analytics.DigitalReport, error) {
	return cachedReport(ctx, s, ReportDigital, ReportDigital, fromRecords(s, func(apps []models.Application) analytics.DigitalReport {
		return analytics.DigitalInsights(analytics.DigitalAdoptionOf(apps))
	}))
}

// HighValue uses the configured threshold when q.Threshold is zero.
func (s *AnalyticsQueryService) HighValue(ctx context.Context, q cqrs.HighValueQuery) (*analytics.HighValueReport, error) {
	threshold := q.Threshold
	if threshold == 0 {
		threshold = s.threshold
	}
	key := ReportHighValue + ":" + strconv.FormatFloat(threshold, 'f', -1, 64)
	return cachedReport(ctx, s, ReportHighValue, key, fromRecords(s, func(apps []models.Application) analytics.HighValueReport {
		return analytics.HighValueCustomers(apps, threshold)
	}))
}

func (s *AnalyticsQueryService) Completeness(ctx context.Context) (*analytics.CompletenessReport, error) {
	return cachedReport(ctx, s, ReportCompleteness, ReportCompleteness, fromRecords(s, analytics.ProfileCompleteness))
}

func (s *AnalyticsQueryService) Segments(ctx context.Context) (*analytics.SegmentationReport, error) {
	return cachedReport(ctx, s, ReportSegments, ReportSegments, fromRecords(s, analytics.Segmentation))
}

// ExecutiveSummary loads the records while the credit summary and service
// counts are aggregated by the store.
func (s *AnalyticsQueryService) ExecutiveSummary(ctx context.Context) (*analytics.ExecutiveSummaryReport, error) {
	return cachedReport(ctx, s, ReportExecutive, ReportExecutive, func(ctx context.Context) (analytics.ExecutiveSummaryReport, error) {
		var apps []models.Application
		var credit analytics.Summary
		var services analytics.Counts
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) { apps, err = s.store.All(gctx); return })
		g.Go(func() (err error) { credit, err = s.store.NumericSummary(gctx, analytics.CreditTurnover); return })
		g.Go(func() (err error) { services, err = s.store.FlagCounts(gctx); return })
		if err := g.Wait(); err != nil {
			return analytics.ExecutiveSummaryReport{}, err
		}
		return analytics.ExecutiveSummary(analytics.ExecutiveInput{
			Total:        len(apps),
			Credit:       credit,
			Digital:      analytics.DigitalAdoptionOf(apps),
			Services:     services,
			Segmentation: analytics.Segmentation(apps),
			Completeness: analytics.ProfileCompleteness(apps),
		}), nil
	})
}

// InvalidateReports drops every cached report.
func (s *AnalyticsQueryService) InvalidateReports(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	n, err := sharedredis.NewViewCache[struct{}](s.redis, 0).InvalidatePrefix(ctx, reportKeyPrefix)
	if err != nil {
		return fmt.Errorf("failed to invalidate reports: %w", err)
	}
	s.logger.DebugContext(ctx, "reports invalidated", "keys", n)
	return nil
}

// HandleApplicationEvent drops cached reports whenever the stored
// applications change.
func (s *AnalyticsQueryService) HandleApplicationEvent(ctx context.Context, event events.Event) error {
	switch event.Type {
	case events.ApplicationCreated, events.ApplicationUpdated, events.ApplicationDeleted:
		id, _ := event.ApplicationID()
		s.logger.InfoContext(ctx, "application changed, invalidating reports", "type", event.Type, "application_id", id)
		return s.InvalidateReports(ctx)
	}
	return nil
}

// WarmReports recomputes the most expensive reports into the cache.
func (s *AnalyticsQueryService) WarmReports(ctx context.Context) error {
	if err := s.InvalidateReports(ctx); err != nil {
		return err
	}
	if _, err := s.Dashboard(ctx); err != nil {
		return err
	}
	if _, err := s.ExecutiveSummary(ctx); err != nil {
		return err
	}
	_, err := s.Segments(ctx)
	return err
}
