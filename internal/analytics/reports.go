package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/eaglebank/onboarding/shared/models"
)

type Breakdown struct {
	Total       int                `json:"total"`
	Breakdown   Counts             `json:"breakdown"`
	Percentages map[string]float64 `json:"percentages"`
}

// PercentageBreakdown reports each category's share of the counted total.
func PercentageBreakdown(c Counts) Breakdown {
	total := c.Sum()
	return Breakdown{Total: total, Breakdown: c, Percentages: PercentagesOf(c, total)}
}

// PercentagesOf reports each count as a share of total.
func PercentagesOf(c Counts, total int) map[string]float64 {
	out := make(map[string]float64, len(c))
	for k, n := range c {
		out[k] = Percent(n, total)
	}
	return out
}

type ServicesReport struct {
	TotalApplications int                `json:"total_applications"`
	Services          Counts             `json:"services"`
	Percentages       map[string]float64 `json:"percentages"`
}

// ServicesBreakdown reports service adoption relative to all applications.
func ServicesBreakdown(flags Counts, total int) ServicesReport {
	return ServicesReport{TotalApplications: total, Services: flags, Percentages: PercentagesOf(flags, total)}
}

// DashboardInput holds the aggregates the dashboard is assembled from.
type DashboardInput struct {
	Total    int
	Counts   map[Dimension]Counts
	Services Counts
	Kin      Counts
}

// NewDashboardInput aggregates the dashboard inputs in memory.
func NewDashboardInput(apps []models.Application) DashboardInput {
	in := DashboardInput{
		Total:    len(apps),
		Counts:   make(map[Dimension]Counts, len(DashboardDimensions)),
		Services: FlagCounts(apps),
		Kin:      KinCounts(apps),
	}
	for _, d := range DashboardDimensions {
		in.Counts[d] = GroupCount(apps, d)
	}
	return in
}

// DashboardDimensions are the group-counts shown on the dashboard.
var DashboardDimensions = []Dimension{
	DimAccountType, DimGender, DimCardType, DimCardNetwork, DimOccupation, DimCity,
}

type DashboardSummary struct {
	TotalApplications  int             `json:"total_applications"`
	AccountTypes       Counts          `json:"account_types"`
	GenderDistribution Counts          `json:"gender_distribution"`
	CardTypes          Counts          `json:"card_types"`
	CardNetworks       Counts          `json:"card_networks"`
	Occupations        Counts          `json:"occupations"`
	TopCities          []CategoryCount `json:"top_cities"`
	ServicesAdoption   Counts          `json:"services_adoption"`
	KinStats           Counts          `json:"kin_stats"`
}

func Dashboard(in DashboardInput) DashboardSummary {
	get := func(d Dimension) Counts {
		if c, ok := in.Counts[d]; ok && c != nil {
			return c
		}
		return Counts{}
	}
	return DashboardSummary{
		TotalApplications:  in.Total,
		AccountTypes:       get(DimAccountType),
		GenderDistribution: get(DimGender),
		CardTypes:          get(DimCardType),
		CardNetworks:       get(DimCardNetwork),
		Occupations:        get(DimOccupation),
		TopCities:          DimCity.Rank(get(DimCity), 10),
		ServicesAdoption:   orEmpty(in.Services),
		KinStats:           orEmpty(in.Kin),
	}
}

func orEmpty(c Counts) Counts {
	if c == nil {
		return Counts{}
	}
	return c
}

type TurnoverSummary struct {
	DebitTurnover  Summary `json:"debit_turnover"`
	CreditTurnover Summary `json:"credit_turnover"`
}

type FinancialInsightsDetail struct {
	AverageNetMonthlyFlow           float64 `json:"average_net_monthly_flow"`
	FlowDirection                   string  `json:"flow_direction"`
	TotalExpectedMonthlyDeposits    float64 `json:"total_expected_monthly_deposits"`
	TotalExpectedMonthlyWithdrawals float64 `json:"total_expected_monthly_withdrawals"`
	HighestSingleDepositExpectation float64 `json:"highest_single_deposit_expectation"`
	TotalApplicationsAnalyzed       int     `json:"total_applications_analyzed"`
}

type FinancialReport struct {
	Summary  TurnoverSummary         `json:"summary"`
	Insights FinancialInsightsDetail `json:"insights"`
}

// FinancialInsights derives net flow and totals from both turnover summaries.
func FinancialInsights(debit, credit Summary, total int) FinancialReport {
	net := decimal.NewFromFloat(credit.Average).Sub(decimal.NewFromFloat(debit.Average))
	direction := "NEGATIVE"
	if net.IsPositive() {
		direction = "POSITIVE"
	}
	return FinancialReport{
		Summary: TurnoverSummary{DebitTurnover: debit, CreditTurnover: credit},
		Insights: FinancialInsightsDetail{
			AverageNetMonthlyFlow:           round2(net),
			FlowDirection:                   direction,
			TotalExpectedMonthlyDeposits:    credit.Total,
			TotalExpectedMonthlyWithdrawals: debit.Total,
			HighestSingleDepositExpectation: credit.Maximum,
			TotalApplicationsAnalyzed:       total,
		},
	}
}

type GenderInsight struct {
	Total                int    `json:"total"`
	PreferredAccountType string `json:"preferred_account_type,omitempty"`
	AccountDistribution  Counts `json:"account_distribution"`
}

type GenderAccountReport struct {
	CrossTabulation CrossTab                 `json:"cross_tabulation"`
	GenderInsights  map[string]GenderInsight `json:"gender_insights"`
}

// GenderAccountAnalysis expects a gender by account type cross-tabulation.
func GenderAccountAnalysis(ct CrossTab) GenderAccountReport {
	insights := make(map[string]GenderInsight, len(ct))
	for gender, accounts := range ct {
		insights[gender] = GenderInsight{
			Total:                accounts.Sum(),
			PreferredAccountType: DimAccountType.Dominant(accounts),
			AccountDistribution:  accounts,
		}
	}
	return GenderAccountReport{CrossTabulation: orEmptyTab(ct), GenderInsights: insights}
}

func orEmptyTab(ct CrossTab) CrossTab {
	if ct == nil {
		return CrossTab{}
	}
	return ct
}

type PremiumAdoption struct {
	Occupation          string  `json:"occupation"`
	TotalCustomers      int     `json:"total_customers"`
	PremiumCardHolders  int     `json:"premium_card_holders"`
	PremiumAdoptionRate float64 `json:"premium_adoption_rate"`
}

type OccupationCardReport struct {
	CrossTabulation                 CrossTab          `json:"cross_tabulation"`
	PremiumCardAdoptionByOccupation []PremiumAdoption `json:"premium_card_adoption_by_occupation"`
	TopPremiumAdopters              []string          `json:"top_premium_adopters"`
}

// PremiumAdoptionOf computes premium uptake from one occupation's card counts.
// The total includes holders without a card.
func PremiumAdoptionOf(occupation string, cards Counts) PremiumAdoption {
	premium := 0
	for card, n := range cards {
		if models.CardType(card).IsPremium() {
			premium += n
		}
	}
	total := cards.Sum()
	return PremiumAdoption{
		Occupation:          occupation,
		TotalCustomers:      total,
		PremiumCardHolders:  premium,
		PremiumAdoptionRate: Percent(premium, total),
	}
}

// OccupationCardAnalysis expects an occupation by card type cross-tabulation.
func OccupationCardAnalysis(ct CrossTab) OccupationCardReport {
	adoption := make([]PremiumAdoption, 0, len(ct))
	for occupation, cards := range ct {
		adoption = append(adoption, PremiumAdoptionOf(occupation, cards))
	}
	sort.Slice(adoption, func(i, j int) bool {
		if adoption[i].PremiumAdoptionRate != adoption[j].PremiumAdoptionRate {
			return adoption[i].PremiumAdoptionRate > adoption[j].PremiumAdoptionRate
		}
		return DimOccupation.Before(adoption[i].Occupation, adoption[j].Occupation)
	})

	top := make([]string, 0, 5)
	for i := 0; i < len(adoption) && i < 5; i++ {
		top = append(top, adoption[i].Occupation)
	}
	return OccupationCardReport{
		CrossTabulation:                 orEmptyTab(ct),
		PremiumCardAdoptionByOccupation: adoption,
		TopPremiumAdopters:              top,
	}
}
