package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/eaglebank/onboarding/shared/models"
)

type completenessCheck struct {
	name   string
	filled func(a *models.Application) bool
}

// completenessChecks is the profile checklist; a record scores one point per
// satisfied check.
var completenessChecks = []completenessCheck{
	{"fathers_husbands_name", func(a *models.Application) bool { return models.Present(a.FathersHusbandsName) }},
	{"mothers_name", func(a *models.Application) bool { return models.Present(a.MothersName) }},
	{"date_of_birth", func(a *models.Application) bool { return models.Present(a.DateOfBirth) }},
	{"nationality", func(a *models.Application) bool { return models.Present(a.Nationality) }},
	{"place_of_birth", func(a *models.Application) bool { return models.Present(a.PlaceOfBirth) }},
	{"complete_address", func(a *models.Application) bool {
		return models.Present(a.HouseNoBlockStreet) && models.Present(a.AreaLocation) && models.Present(a.City)
	}},
	{"occupation", func(a *models.Application) bool { return a.Occupation != "" }},
	{"financial_info", func(a *models.Application) bool {
		return models.Present(a.SourceOfIncome) || a.ExpectedMonthlyTurnoverDr != nil || a.ExpectedMonthlyTurnoverCr != nil
	}},
	{"residential_status", func(a *models.Application) bool { return a.ResidentialStatus != "" }},
	{"next_of_kin", func(a *models.Application) bool { return a.HasCompleteKin() }},
	{"card_selection", func(a *models.Application) bool { return a.CardType != "" }},
}

// CompletenessPoints counts the satisfied checklist entries of a.
func CompletenessPoints(a *models.Application) int {
	points := 0
	for _, c := range completenessChecks {
		if c.filled(a) {
			points++
		}
	}
	return points
}

// CompletenessScore is the share of the checklist a satisfies, in percent.
func CompletenessScore(a *models.Application) float64 {
	return Percent(CompletenessPoints(a), len(completenessChecks))
}

type CompletenessData struct {
	TotalApplications             int                `json:"total_applications"`
	AverageCompletenessPercentage float64            `json:"average_completeness_percentage"`
	FullyCompleteProfiles         int                `json:"fully_complete_profiles"`
	Above80Percent                int                `json:"above_80_percent"`
	Below50Percent                int                `json:"below_50_percent"`
	FieldCompletionRates          map[string]float64 `json:"field_completion_rates"`
}

type CompletenessInsights struct {
	OverallHealth       string   `json:"overall_health"`
	WeakestFields       []string `json:"weakest_fields"`
	StrongestFields     []string `json:"strongest_fields"`
	ImprovementPriority string   `json:"improvement_priority,omitempty"`
	FullyCompleteRate   float64  `json:"fully_complete_rate"`
}

type CompletenessReport struct {
	CompletenessData CompletenessData     `json:"completeness_data"`
	Insights         CompletenessInsights `json:"insights"`
}

func ProfileCompleteness(apps []models.Application) CompletenessReport {
	checks := len(completenessChecks)
	filled := make([]int, checks)
	data := CompletenessData{TotalApplications: len(apps)}
	totalPoints := 0

	for i := range apps {
		points := 0
		for j, c := range completenessChecks {
			if c.filled(&apps[i]) {
				filled[j]++
				points++
			}
		}
		totalPoints += points
		if points == checks {
			data.FullyCompleteProfiles++
		}
		// thresholds compared as points*100 against pct*checks to stay exact
		if points*100 >= 80*checks {
			data.Above80Percent++
		}
		if points*100 < 50*checks {
			data.Below50Percent++
		}
	}

	if len(apps) > 0 {
		avg := decimal.NewFromInt(int64(totalPoints)).Mul(hundred).
			Div(decimal.NewFromInt(int64(checks * len(apps))))
		data.AverageCompletenessPercentage = round2(avg)
	}

	type rate struct {
		field string
		value float64
	}
	rates := make([]rate, checks)
	data.FieldCompletionRates = make(map[string]float64, checks)
	for j, c := range completenessChecks {
		v := Percent(filled[j], len(apps))
		data.FieldCompletionRates[c.name] = v
		rates[j] = rate{c.name, v}
	}
	sort.SliceStable(rates, func(i, j int) bool { return rates[i].value < rates[j].value })

	insights := CompletenessInsights{
		OverallHealth:     completenessHealth(data.AverageCompletenessPercentage),
		WeakestFields:     []string{},
		StrongestFields:   []string{},
		FullyCompleteRate: Percent(data.FullyCompleteProfiles, len(apps)),
	}
	if len(apps) > 0 {
		for i := 0; i < 3; i++ {
			insights.WeakestFields = append(insights.WeakestFields, rates[i].field)
			insights.StrongestFields = append(insights.StrongestFields, rates[len(rates)-1-i].field)
		}
		insights.ImprovementPriority = rates[0].field
	}
	return CompletenessReport{CompletenessData: data, Insights: insights}
}

func completenessHealth(avg float64) string {
	switch {
	case avg >= 70:
		return "GOOD"
	case avg >= 50:
		return "MODERATE"
	default:
		return "NEEDS_IMPROVEMENT"
	}
}
