package analytics

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/eaglebank/onboarding/shared/models"
)

// Income tier thresholds on average monthly credit.
const (
	HighIncomeThreshold   = 300000
	MediumIncomeThreshold = 100000

	DefaultHighValueThreshold = 500000
)

type CityStats struct {
	City               string  `json:"city"`
	TotalApplications  int     `json:"total_applications"`
	AvgMonthlyCredit   float64 `json:"avg_monthly_credit"`
	TotalMonthlyCredit float64 `json:"total_monthly_credit"`
}

type CityRankings struct {
	ByApplicationVolume    []string `json:"by_application_volume"`
	ByTotalCreditValue     []string `json:"by_total_credit_value"`
	ByAverageCustomerValue []string `json:"by_average_customer_value"`
}

type CityInsights struct {
	HighestVolumeCity           string `json:"highest_volume_city,omitempty"`
	HighestValueCity            string `json:"highest_value_city,omitempty"`
	HighestAvgCustomerValueCity string `json:"highest_avg_customer_value_city,omitempty"`
	TotalCities                 int    `json:"total_cities"`
}

type CityPerformanceReport struct {
	CityPerformance []CityStats  `json:"city_performance"`
	Rankings        CityRankings `json:"rankings"`
	Insights        CityInsights `json:"insights"`
}

// CityPerformance ranks cities by volume, total credit and average credit.
func CityPerformance(apps []models.Application) CityPerformanceReport {
	counts := GroupCount(apps, DimCity)
	credits := amountsBy(apps, DimCity, CreditTurnover)

	stats := make([]CityStats, 0, len(counts))
	for city, n := range counts {
		s := summarizeValues(credits[city])
		stats = append(stats, CityStats{
			City:               city,
			TotalApplications:  n,
			AvgMonthlyCredit:   s.Average,
			TotalMonthlyCredit: s.Total,
		})
	}

	rank := func(value func(CityStats) float64) []CityStats {
		out := append([]CityStats(nil), stats...)
		sort.Slice(out, func(i, j int) bool {
			vi, vj := value(out[i]), value(out[j])
			if vi != vj {
				return vi > vj
			}
			return DimCity.Before(out[i].City, out[j].City)
		})
		return out
	}
	byVolume := rank(func(s CityStats) float64 { return float64(s.TotalApplications) })
	byValue := rank(func(s CityStats) float64 { return s.TotalMonthlyCredit })
	byAverage := rank(func(s CityStats) float64 { return s.AvgMonthlyCredit })

	report := CityPerformanceReport{
		CityPerformance: byVolume,
		Rankings: CityRankings{
			ByApplicationVolume:    cityNames(byVolume, 10),
			ByTotalCreditValue:     cityNames(byValue, 10),
			ByAverageCustomerValue: cityNames(byAverage, 10),
		},
		Insights: CityInsights{TotalCities: len(stats)},
	}
	if len(stats) > 0 {
		report.Insights.HighestVolumeCity = byVolume[0].City
		report.Insights.HighestValueCity = byValue[0].City
		report.Insights.HighestAvgCustomerValueCity = byAverage[0].City
	}
	return report
}

func cityNames(stats []CityStats, k int) []string {
	out := make([]string, 0, k)
	for i := 0; i < len(stats) && i < k; i++ {
		out = append(out, stats[i].City)
	}
	return out
}

// amountsBy collects the non-null values of f per category of d.
func amountsBy(apps []models.Application, d Dimension, f NumericField) map[string][]float64 {
	out := map[string][]float64{}
	for i := range apps {
		if v := apps[i].Amount(string(f)); v != nil {
			cat := d.Of(&apps[i])
			out[cat] = append(out[cat], *v)
		}
	}
	return out
}

// IncomeTier classifies an average monthly credit.
func IncomeTier(avgCredit float64) string {
	switch {
	case avgCredit >= HighIncomeThreshold:
		return "HIGH"
	case avgCredit >= MediumIncomeThreshold:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

type OccupationIncome struct {
	Occupation string  `json:"occupation"`
	Count      int     `json:"count"`
	AvgDebit   float64 `json:"avg_debit"`
	AvgCredit  float64 `json:"avg_credit"`
	Tier       string  `json:"tier"`
}

type IncomeTiers struct {
	High   []string `json:"high"`
	Medium []string `json:"medium"`
	Low    []string `json:"low"`
}

type OccupationIncomeInsights struct {
	HighestEarningOccupation string  `json:"highest_earning_occupation,omitempty"`
	HighestAvgIncome         float64 `json:"highest_avg_income"`
	LowestEarningOccupation  string  `json:"lowest_earning_occupation,omitempty"`
	LowestAvgIncome          float64 `json:"lowest_avg_income"`
}

type OccupationIncomeReport struct {
	OccupationIncomeData []OccupationIncome      `json:"occupation_income_data"`
	IncomeTiers          IncomeTiers              `json:"income_tiers"`
	Insights             OccupationIncomeInsights `json:"insights"`
}

// OccupationIncomeAnalysis sorts occupations by average credit and tiers them.
func OccupationIncomeAnalysis(apps []models.Application) OccupationIncomeReport {
	counts := GroupCount(apps, DimOccupation)
	debits := amountsBy(apps, DimOccupation, DebitTurnover)
	credits := amountsBy(apps, DimOccupation, CreditTurnover)

	data := make([]OccupationIncome, 0, len(counts))
	for occ, n := range counts {
		avgCredit := summarizeValues(credits[occ]).Average
		data = append(data, OccupationIncome{
			Occupation: occ,
			Count:      n,
			AvgDebit:   summarizeValues(debits[occ]).Average,
			AvgCredit:  avgCredit,
			Tier:       IncomeTier(avgCredit),
		})
	}
	sort.Slice(data, func(i, j int) bool {
		if data[i].AvgCredit != data[j].AvgCredit {
			return data[i].AvgCredit > data[j].AvgCredit
		}
		return DimOccupation.Before(data[i].Occupation, data[j].Occupation)
	})

	tiers := IncomeTiers{High: []string{}, Medium: []string{}, Low: []string{}}
	for _, d := range data {
		switch d.Tier {
		case "HIGH":
			tiers.High = append(tiers.High, d.Occupation)
		case "MEDIUM":
			tiers.Medium = append(tiers.Medium, d.Occupation)
		default:
			tiers.Low = append(tiers.Low, d.Occupation)
		}
	}

	report := OccupationIncomeReport{OccupationIncomeData: data, IncomeTiers: tiers}
	if len(data) > 0 {
		highest, lowest := data[0], data[len(data)-1]
		report.Insights = OccupationIncomeInsights{
			HighestEarningOccupation: highest.Occupation,
			HighestAvgIncome:         highest.AvgCredit,
			LowestEarningOccupation:  lowest.Occupation,
			LowestAvgIncome:          lowest.AvgCredit,
		}
	}
	return report
}

type PremiumDemographics struct {
	TotalPremiumCustomers      int             `json:"total_premium_customers"`
	GenderDistribution         Counts          `json:"gender_distribution"`
	OccupationDistribution     Counts          `json:"occupation_distribution"`
	TopCities                  []CategoryCount `json:"top_cities"`
	AvgMonthlyCreditPremium    float64         `json:"avg_monthly_credit_premium"`
	AvgMonthlyCreditNonPremium float64         `json:"avg_monthly_credit_non_premium"`
}

type PremiumProfile struct {
	TopOccupation  string `json:"top_occupation,omitempty"`
	TopCity        string `json:"top_city,omitempty"`
	DominantGender string `json:"dominant_gender,omitempty"`
}

type PremiumInsights struct {
	IncomeDifference       float64        `json:"income_difference"`
	IncomeMultiplier       float64        `json:"income_multiplier"`
	PremiumCustomerProfile PremiumProfile `json:"premium_customer_profile"`
}

type PremiumReport struct {
	PremiumDemographics PremiumDemographics `json:"premium_demographics"`
	Insights            PremiumInsights     `json:"insights"`
}

// PremiumCustomerAnalysis compares premium card holders with everyone else.
func PremiumCustomerAnalysis(apps []models.Application) PremiumReport {
	var premium, others []models.Application
	for _, a := range apps {
		if a.CardType.IsPremium() {
			premium = append(premium, a)
		} else {
			others = append(others, a)
		}
	}

	genders := GroupCount(premium, DimGender)
	occupations := GroupCount(premium, DimOccupation)
	cities := GroupCount(premium, DimCity)
	avgPremium := Summarize(premium, CreditTurnover).Average
	avgOthers := Summarize(others, CreditTurnover).Average

	multiplier := 0.0
	if avgOthers > 0 {
		multiplier = round2(decimal.NewFromFloat(avgPremium).Div(decimal.NewFromFloat(avgOthers)))
	}

	return PremiumReport{
		PremiumDemographics: PremiumDemographics{
			TotalPremiumCustomers:      len(premium),
			GenderDistribution:         genders,
			OccupationDistribution:     occupations,
			TopCities:                  DimCity.Rank(cities, 10),
			AvgMonthlyCreditPremium:    avgPremium,
			AvgMonthlyCreditNonPremium: avgOthers,
		},
		Insights: PremiumInsights{
			IncomeDifference: round2(decimal.NewFromFloat(avgPremium).Sub(decimal.NewFromFloat(avgOthers))),
			IncomeMultiplier: multiplier,
			PremiumCustomerProfile: PremiumProfile{
				TopOccupation:  DimOccupation.Dominant(occupations),
				TopCity:        DimCity.Dominant(cities),
				DominantGender: DimGender.Dominant(genders),
			},
		},
	}
}

// DigitalAdoption splits customers by their internet and mobile banking flags.
type DigitalAdoption struct {
	TotalCustomers       int `json:"total_customers"`
	FullDigitalCustomers int `json:"full_digital_customers"`
	InternetOnly         int `json:"internet_only"`
	MobileOnly           int `json:"mobile_only"`
	NoDigital            int `json:"no_digital"`
}

func DigitalAdoptionOf(apps []models.Application) DigitalAdoption {
	d := DigitalAdoption{TotalCustomers: len(apps)}
	for _, a := range apps {
		switch {
		case a.InternetBanking && a.MobileBanking:
			d.FullDigitalCustomers++
		case a.InternetBanking:
			d.InternetOnly++
		case a.MobileBanking:
			d.MobileOnly++
		default:
			d.NoDigital++
		}
	}
	return d
}

// DigitalMaturityLevel classifies a digital adoption score.
func DigitalMaturityLevel(score float64) string {
	switch {
	case score >= 70:
		return "ADVANCED"
	case score >= 40:
		return "GROWING"
	default:
		return "DEVELOPING"
	}
}

type DigitalInsightsDetail struct {
	DigitalMaturityScore  float64 `json:"digital_maturity_score"`
	DigitalMaturityLevel  string  `json:"digital_maturity_level"`
	NonDigitalOpportunity int     `json:"non_digital_opportunity"`
	Recommendation        string  `json:"recommendation"`
}

type DigitalReport struct {
	AdoptionData DigitalAdoption       `json:"adoption_data"`
	Insights     DigitalInsightsDetail `json:"insights"`
}

func DigitalInsights(d DigitalAdoption) DigitalReport {
	score := percentOf(d.FullDigitalCustomers, d.TotalCustomers)
	recommendation := "Promote internet banking to mobile-only users"
	if d.InternetOnly > d.MobileOnly {
		recommendation = "Focus on converting internet-only users to full digital"
	}
	return DigitalReport{
		AdoptionData: d,
		Insights: DigitalInsightsDetail{
			DigitalMaturityScore:  round2(score),
			DigitalMaturityLevel:  DigitalMaturityLevel(score.InexactFloat64()),
			NonDigitalOpportunity: d.NoDigital,
			Recommendation:        recommendation,
		},
	}
}

type HighValueAnalysis struct {
	Threshold               float64         `json:"threshold"`
	TotalHighValueCustomers int             `json:"total_high_value_customers"`
	PercentageOfTotal       float64         `json:"percentage_of_total"`
	TopOccupations          []CategoryCount `json:"top_occupations"`
	TopCities               []CategoryCount `json:"top_cities"`
	PreferredCardTypes      Counts          `json:"preferred_card_types"`
	AccountTypePreference   Counts          `json:"account_type_preference"`
}

type PreferredProducts struct {
	CardType    string `json:"card_type,omitempty"`
	AccountType string `json:"account_type,omitempty"`
}

type HighValueInsights struct {
	TotalHighValue              int               `json:"total_high_value"`
	MarketConcentration         string            `json:"market_concentration"`
	RecommendedFocusCity        string            `json:"recommended_focus_city,omitempty"`
	RecommendedTargetOccupation string            `json:"recommended_target_occupation,omitempty"`
	PreferredProducts           PreferredProducts `json:"preferred_products"`
}

type HighValueReport struct {
	HighValueAnalysis HighValueAnalysis `json:"high_value_analysis"`
	Insights          HighValueInsights `json:"insights"`
}

// HighValueCustomers analyses customers whose monthly credit reaches threshold.
func HighValueCustomers(apps []models.Application, threshold float64) HighValueReport {
	var selected []models.Application
	for _, a := range apps {
		if a.ExpectedMonthlyTurnoverCr != nil && *a.ExpectedMonthlyTurnoverCr >= threshold {
			selected = append(selected, a)
		}
	}

	occupations := DimOccupation.Rank(GroupCount(selected, DimOccupation), 5)
	cities := DimCity.Rank(GroupCount(selected, DimCity), 5)
	cards := GroupCount(selected, DimCardType)
	accounts := GroupCount(selected, DimAccountType)
	share := Percent(len(selected), len(apps))

	insights := HighValueInsights{
		TotalHighValue:      len(selected),
		MarketConcentration: strconv.FormatFloat(share, 'f', -1, 64) + "% of customers are high-value",
		PreferredProducts: PreferredProducts{
			CardType:    DimCardType.Dominant(cards),
			AccountType: DimAccountType.Dominant(accounts),
		},
	}
	if len(cities) > 0 {
		insights.RecommendedFocusCity = cities[0].Category
	}
	if len(occupations) > 0 {
		insights.RecommendedTargetOccupation = occupations[0].Category
	}

	return HighValueReport{
		HighValueAnalysis: HighValueAnalysis{
			Threshold:               threshold,
			TotalHighValueCustomers: len(selected),
			PercentageOfTotal:       share,
			TopOccupations:          occupations,
			TopCities:               cities,
			PreferredCardTypes:      cards,
			AccountTypePreference:   accounts,
		},
		Insights: insights,
	}
}
