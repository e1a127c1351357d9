package analytics

import (
	"strconv"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ExecutiveInput holds the reports the executive summary is composed from.
type ExecutiveInput struct {
	Total        int
	Credit       Summary
	Digital      DigitalAdoption
	Services     Counts
	Segmentation SegmentationReport
	Completeness CompletenessReport
}

type KeyMetrics struct {
	TotalCustomers               int     `json:"total_customers"`
	TotalExpectedMonthlyDeposits float64 `json:"total_expected_monthly_deposits"`
	AverageCustomerValue         float64 `json:"average_customer_value"`
	DigitalAdoptionRate          float64 `json:"digital_adoption_rate"`
	ServiceEngagementScore       float64 `json:"service_engagement_score"`
	ProfileCompleteness          float64 `json:"profile_completeness"`
}

type HealthIndicators struct {
	DigitalMaturity    string `json:"digital_maturity"`
	DataQuality        string `json:"data_quality"`
	CustomerEngagement string `json:"customer_engagement"`
}

type ExecutiveSummaryReport struct {
	KeyMetrics       KeyMetrics       `json:"key_metrics"`
	HealthIndicators HealthIndicators `json:"health_indicators"`
	TopSegment       Segment          `json:"top_segment,omitempty"`
	TopInsights      []string         `json:"top_insights"`
	Recommendations  []string         `json:"recommendations"`
}

var executiveRecommendations = []string{
	"Focus on converting non-digital users to mobile banking",
	"Target high-value customers for premium card upgrades",
	"Improve profile completeness through incentivized data collection",
}

var printer = message.NewPrinter(language.English)

// ServiceEngagement is the share of all possible service opt-ins taken.
func ServiceEngagement(services Counts, total int) float64 {
	opted := 0
	for _, f := range ServiceFlags {
		opted += services[string(f)]
	}
	return Percent(opted, total*len(ServiceFlags))
}

func ExecutiveSummary(in ExecutiveInput) ExecutiveSummaryReport {
	digitalRate := Percent(in.Digital.FullDigitalCustomers, in.Total)
	engagement := ServiceEngagement(in.Services, in.Total)
	completeness := in.Completeness.CompletenessData.AverageCompletenessPercentage
	top := in.Segmentation.Insights.LargestSegment

	topName := string(top)
	if topName == "" {
		topName = "none"
	}
	avgCredit := decimal.NewFromFloat(in.Credit.Average).Round(0).IntPart()

	return ExecutiveSummaryReport{
		KeyMetrics: KeyMetrics{
			TotalCustomers:               in.Total,
			TotalExpectedMonthlyDeposits: in.Credit.Total,
			AverageCustomerValue:         in.Credit.Average,
			DigitalAdoptionRate:          digitalRate,
			ServiceEngagementScore:       engagement,
			ProfileCompleteness:          completeness,
		},
		HealthIndicators: HealthIndicators{
			DigitalMaturity:    healthLevel(digitalRate, 60, 30),
			DataQuality:        healthLevel(completeness, 70, 50),
			CustomerEngagement: healthLevel(engagement, 60, 40),
		},
		TopSegment: top,
		TopInsights: []string{
			"Digital banking adoption is at " + formatPercent(digitalRate) + "%",
			printer.Sprintf("Average customer expects Rs. %d monthly credit", avgCredit),
			"Top customer segment: " + topName,
			"Profile completeness average: " + formatPercent(completeness) + "%",
		},
		Recommendations: append([]string(nil), executiveRecommendations...),
	}
}

func healthLevel(v, high, medium float64) string {
	switch {
	case v >= high:
		return "HIGH"
	case v >= medium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
