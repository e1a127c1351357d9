package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eaglebank/onboarding/shared/models"
)

func strPtr(s string) *string { return &s }

func amount(v float64) *float64 { return &v }

type appOpt func(*models.Application)

func newApp(opts ...appOpt) models.Application {
	a := models.Application{TitleOfAccount: "JOHN DOE", Name: "JOHN DOE", CNICNo: "12345-1234567-1"}
	for _, o := range opts {
		o(&a)
	}
	return a
}

func withOccupation(o models.Occupation) appOpt {
	return func(a *models.Application) { a.Occupation = o }
}
func withCity(c string) appOpt { return func(a *models.Application) { a.City = strPtr(c) } }
func withCard(c models.CardType) appOpt {
	return func(a *models.Application) { a.CardType = c }
}
func withCredit(v float64) appOpt {
	return func(a *models.Application) { a.ExpectedMonthlyTurnoverCr = amount(v) }
}
func withDebit(v float64) appOpt {
	return func(a *models.Application) { a.ExpectedMonthlyTurnoverDr = amount(v) }
}
func withDigital(internet, mobile bool) appOpt {
	return func(a *models.Application) { a.InternetBanking, a.MobileBanking = internet, mobile }
}
func withGender(g models.Gender) appOpt { return func(a *models.Application) { a.Gender = g } }

func TestGroupCountSubstitutesSentinels(t *testing.T) {
	apps := []models.Application{newApp(), newApp(), newApp(withOccupation(models.OccupationDoctor))}

	assert.Equal(t, Counts{"UNKNOWN": 2, "DOCTOR": 1}, GroupCount(apps, DimOccupation))
	assert.Equal(t, Counts{"NO_CARD": 3}, GroupCount(apps, DimCardType))
	assert.Equal(t, Counts{"NO_CARD": 3}, GroupCount(apps, DimCardNetwork))
	assert.Equal(t, Counts{"UNKNOWN": 3}, GroupCount(apps, DimCity))
}

func TestFlagAndKinCounts(t *testing.T) {
	a := newApp(withDigital(true, false))
	a.ZakatDeduction = true
	b := newApp(withDigital(true, true))
	b.HasNextOfKin = true
	apps := []models.Application{a, b, newApp()}

	flags := FlagCounts(apps)
	assert.Equal(t, 2, flags[string(FlagInternetBanking)])
	assert.Equal(t, 1, flags[string(FlagMobileBanking)])
	assert.Equal(t, 0, flags[string(FlagCheckBook)])
	assert.Equal(t, 1, flags[string(FlagZakatDeduction)])
	assert.Len(t, flags, 5)

	assert.Equal(t, Counts{WithNextOfKin: 1, WithoutNextOfKin: 2}, KinCounts(apps))
}

func TestSummarizeIgnoresNulls(t *testing.T) {
	apps := []models.Application{newApp(withCredit(100)), newApp(), newApp(withCredit(250.555)), newApp(withCredit(50))}

	s := Summarize(apps, CreditTurnover)
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 50.0, s.Minimum)
	assert.Equal(t, 250.56, s.Maximum)
	assert.Equal(t, 400.56, s.Total)
	assert.Equal(t, 133.52, s.Average)

	assert.Equal(t, Summary{}, Summarize(nil, DebitTurnover))
}

func TestCrossTabulate(t *testing.T) {
	apps := []models.Application{
		newApp(withGender(models.GenderMale), func(a *models.Application) { a.AccountType = models.AccountTypeSavings }),
		newApp(withGender(models.GenderMale), func(a *models.Application) { a.AccountType = models.AccountTypeSavings }),
		newApp(withGender(models.GenderFemale)),
	}
	ct := CrossTabulate(apps, DimGender, DimAccountType)
	assert.Equal(t, CrossTab{
		"MALE":   {"SAVINGS": 2},
		"FEMALE": {"UNKNOWN": 1},
	}, ct)
}

func TestRankTieBreaksCanonically(t *testing.T) {
	c := Counts{"OTHER": 2, "DOCTOR": 2, "UNKNOWN": 2, "STUDENT": 5}
	ranked := DimOccupation.Rank(c, 0)
	require.Len(t, ranked, 4)
	assert.Equal(t, []string{"STUDENT", "DOCTOR", "OTHER", "UNKNOWN"}, categories(ranked))

	assert.Len(t, DimOccupation.Rank(c, 2), 2)
	assert.Equal(t, "", DimGender.Dominant(Counts{}))

	cities := Counts{"LAHORE": 1, "KARACHI": 1, "UNKNOWN": 1}
	assert.Equal(t, []string{"KARACHI", "LAHORE", "UNKNOWN"}, categories(DimCity.Rank(cities, 0)))
}

func categories(in []CategoryCount) []string {
	out := make([]string, len(in))
	for i, c := range in {
		out[i] = c.Category
	}
	return out
}

func TestPercentageBreakdown(t *testing.T) {
	t.Run("empty collection", func(t *testing.T) {
		b := PercentageBreakdown(GroupCount(nil, DimGender))
		assert.Equal(t, 0, b.Total)
		assert.Empty(t, b.Percentages)
	})

	t.Run("zero counts", func(t *testing.T) {
		b := PercentageBreakdown(Counts{"MALE": 0, "FEMALE": 0})
		assert.Equal(t, map[string]float64{"MALE": 0, "FEMALE": 0}, b.Percentages)
	})

	t.Run("rounded to two decimals", func(t *testing.T) {
		b := PercentageBreakdown(Counts{"A": 1, "B": 2})
		assert.Equal(t, 33.33, b.Percentages["A"])
		assert.Equal(t, 66.67, b.Percentages["B"])
	})

	t.Run("services relative to all applications", func(t *testing.T) {
		r := ServicesBreakdown(Counts{"sms_alerts": 1}, 4)
		assert.Equal(t, 25.0, r.Percentages["sms_alerts"])
		assert.Equal(t, 0.0, ServicesBreakdown(Counts{"sms_alerts": 0}, 0).Percentages["sms_alerts"])
	})
}

func TestDashboard(t *testing.T) {
	var apps []models.Application
	for i := 0; i < 12; i++ {
		apps = append(apps, newApp(withCity(string(rune('A'+i)))))
	}
	apps = append(apps, newApp(withCity("A")))

	d := Dashboard(NewDashboardInput(apps))
	assert.Equal(t, 13, d.TotalApplications)
	require.Len(t, d.TopCities, 10)
	assert.Equal(t, CategoryCount{Category: "A", Count: 2}, d.TopCities[0])
	assert.Equal(t, Counts{"UNKNOWN": 13}, d.AccountTypes)
	assert.Equal(t, 13, d.KinStats[WithoutNextOfKin])

	empty := Dashboard(NewDashboardInput(nil))
	assert.Equal(t, 0, empty.TotalApplications)
	assert.Empty(t, empty.TopCities)
}

func TestFinancialInsights(t *testing.T) {
	apps := []models.Application{
		newApp(withCredit(300), withDebit(100)),
		newApp(withCredit(100)),
	}
	r := FinancialInsights(Summarize(apps, DebitTurnover), Summarize(apps, CreditTurnover), len(apps))
	assert.Equal(t, 100.0, r.Insights.AverageNetMonthlyFlow)
	assert.Equal(t, "POSITIVE", r.Insights.FlowDirection)
	assert.Equal(t, 400.0, r.Insights.TotalExpectedMonthlyDeposits)
	assert.Equal(t, 100.0, r.Insights.TotalExpectedMonthlyWithdrawals)
	assert.Equal(t, 300.0, r.Insights.HighestSingleDepositExpectation)
	assert.Equal(t, 2, r.Insights.TotalApplicationsAnalyzed)

	empty := FinancialInsights(Summary{}, Summary{}, 0)
	assert.Equal(t, "NEGATIVE", empty.Insights.FlowDirection)
	assert.Equal(t, 0.0, empty.Insights.AverageNetMonthlyFlow)
}

func TestGenderAccountAnalysis(t *testing.T) {
	r := GenderAccountAnalysis(CrossTab{
		"MALE": {"SAVINGS": 2, "CURRENT": 2, "AHU_LAT": 1},
	})
	assert.Equal(t, 5, r.GenderInsights["MALE"].Total)
	assert.Equal(t, "CURRENT", r.GenderInsights["MALE"].PreferredAccountType)
}

func TestOccupationCardAnalysis(t *testing.T) {
	r := OccupationCardAnalysis(CrossTab{
		"DOCTOR":   {"PLATINUM": 1, "INFINITE": 1, "CLASSIC": 2},
		"STUDENT":  {"NO_CARD": 3, "SIGNATURE": 1},
		"BANKER":   {"GOLD": 1},
		"LAWYER":   {"INFINITE": 1},
		"ENGINEER": {"TITANIUM": 1},
		"FARMER":   {},
	})

	require.Len(t, r.PremiumCardAdoptionByOccupation, 6)
	first := r.PremiumCardAdoptionByOccupation[0]
	assert.Equal(t, "LAWYER", first.Occupation)
	assert.Equal(t, 100.0, first.PremiumAdoptionRate)

	doctor := PremiumAdoptionOf("DOCTOR", Counts{"PLATINUM": 1, "INFINITE": 1, "CLASSIC": 2})
	assert.Equal(t, 2, doctor.PremiumCardHolders)
	assert.Equal(t, 50.0, doctor.PremiumAdoptionRate)

	student := PremiumAdoptionOf("STUDENT", Counts{"NO_CARD": 3, "SIGNATURE": 1})
	assert.Equal(t, 4, student.TotalCustomers)
	assert.Equal(t, 25.0, student.PremiumAdoptionRate)

	farmer := PremiumAdoptionOf("FARMER", Counts{})
	assert.Equal(t, 0.0, farmer.PremiumAdoptionRate)

	assert.Equal(t, []string{"LAWYER", "DOCTOR", "STUDENT", "FARMER", "ENGINEER"}, r.TopPremiumAdopters)
}

func TestCityPerformance(t *testing.T) {
	apps := []models.Application{
		newApp(withCity("LAHORE"), withCredit(100)),
		newApp(withCity("LAHORE"), withCredit(300)),
		newApp(withCity("LAHORE")),
		newApp(withCity("KARACHI"), withCredit(1000)),
	}
	r := CityPerformance(apps)

	assert.Equal(t, 2, r.Insights.TotalCities)
	assert.Equal(t, "LAHORE", r.Insights.HighestVolumeCity)
	assert.Equal(t, "KARACHI", r.Insights.HighestValueCity)
	assert.Equal(t, "KARACHI", r.Insights.HighestAvgCustomerValueCity)
	assert.Equal(t, CityStats{City: "LAHORE", TotalApplications: 3, AvgMonthlyCredit: 200, TotalMonthlyCredit: 400}, r.CityPerformance[0])

	empty := CityPerformance(nil)
	assert.Empty(t, empty.CityPerformance)
	assert.Empty(t, empty.Rankings.ByApplicationVolume)
	assert.Equal(t, "", empty.Insights.HighestVolumeCity)
}

func TestOccupationIncomeAnalysis(t *testing.T) {
	apps := []models.Application{
		newApp(withOccupation(models.OccupationDoctor), withCredit(400000)),
		newApp(withOccupation(models.OccupationTeacher), withCredit(100000)),
		newApp(withOccupation(models.OccupationStudent), withCredit(99999.99)),
	}
	r := OccupationIncomeAnalysis(apps)

	assert.Equal(t, []string{"DOCTOR"}, r.IncomeTiers.High)
	assert.Equal(t, []string{"TEACHER"}, r.IncomeTiers.Medium)
	assert.Equal(t, []string{"STUDENT"}, r.IncomeTiers.Low)
	assert.Equal(t, "DOCTOR", r.Insights.HighestEarningOccupation)
	assert.Equal(t, "STUDENT", r.Insights.LowestEarningOccupation)

	assert.Equal(t, "HIGH", IncomeTier(300000))
	assert.Equal(t, "MEDIUM", IncomeTier(299999.99))
	assert.Equal(t, "LOW", IncomeTier(0))

	empty := OccupationIncomeAnalysis(nil)
	assert.Empty(t, empty.OccupationIncomeData)
	assert.Equal(t, "", empty.Insights.HighestEarningOccupation)
}

func TestPremiumCustomerAnalysis(t *testing.T) {
	apps := []models.Application{
		newApp(withCard(models.CardTypePlatinum), withCredit(600), withGender(models.GenderFemale), withCity("LAHORE")),
		newApp(withCard(models.CardTypeInfinite), withCredit(400), withGender(models.GenderMale), withCity("LAHORE")),
		newApp(withCard(models.CardTypeClassic), withCredit(250)),
		newApp(withCredit(250)),
	}
	r := PremiumCustomerAnalysis(apps)

	assert.Equal(t, 2, r.PremiumDemographics.TotalPremiumCustomers)
	assert.Equal(t, 500.0, r.PremiumDemographics.AvgMonthlyCreditPremium)
	assert.Equal(t, 250.0, r.PremiumDemographics.AvgMonthlyCreditNonPremium)
	assert.Equal(t, 250.0, r.Insights.IncomeDifference)
	assert.Equal(t, 2.0, r.Insights.IncomeMultiplier)
	assert.Equal(t, "LAHORE", r.Insights.PremiumCustomerProfile.TopCity)
	assert.Equal(t, "MALE", r.Insights.PremiumCustomerProfile.DominantGender)

	onlyPremium := PremiumCustomerAnalysis([]models.Application{newApp(withCard(models.CardTypeSignature), withCredit(10))})
	assert.Equal(t, 0.0, onlyPremium.Insights.IncomeMultiplier)

	empty := PremiumCustomerAnalysis(nil)
	assert.Equal(t, PremiumProfile{}, empty.Insights.PremiumCustomerProfile)
}

func TestDigitalMaturityLevelBoundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{70, "ADVANCED"},
		{69.99, "GROWING"},
		{40, "GROWING"},
		{39.99, "DEVELOPING"},
		{0, "DEVELOPING"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DigitalMaturityLevel(tt.score), "score %v", tt.score)
	}
}

func TestDigitalInsights(t *testing.T) {
	apps := []models.Application{
		newApp(withDigital(true, true)),
		newApp(withDigital(true, false)),
		newApp(withDigital(true, false)),
		newApp(withDigital(false, true)),
		newApp(),
	}
	d := DigitalAdoptionOf(apps)
	assert.Equal(t, DigitalAdoption{TotalCustomers: 5, FullDigitalCustomers: 1, InternetOnly: 2, MobileOnly: 1, NoDigital: 1}, d)

	r := DigitalInsights(d)
	assert.Equal(t, 20.0, r.Insights.DigitalMaturityScore)
	assert.Equal(t, "DEVELOPING", r.Insights.DigitalMaturityLevel)
	assert.Equal(t, "Focus on converting internet-only users to full digital", r.Insights.Recommendation)

	empty := DigitalInsights(DigitalAdoptionOf(nil))
	assert.Equal(t, 0.0, empty.Insights.DigitalMaturityScore)
	assert.Equal(t, "Promote internet banking to mobile-only users", empty.Insights.Recommendation)
}

func TestHighValueCustomers(t *testing.T) {
	apps := []models.Application{
		newApp(withCredit(500000), withCity("ISLAMABAD"), withOccupation(models.OccupationBusiness), withCard(models.CardTypeInfinite)),
		newApp(withCredit(499999.99), withCity("LAHORE")),
		newApp(withCity("LAHORE")),
		newApp(withCredit(900000), withCity("ISLAMABAD"), withOccupation(models.OccupationBusiness)),
	}
	r := HighValueCustomers(apps, DefaultHighValueThreshold)

	assert.Equal(t, 2, r.HighValueAnalysis.TotalHighValueCustomers)
	assert.Equal(t, 50.0, r.HighValueAnalysis.PercentageOfTotal)
	assert.Equal(t, "50% of customers are high-value", r.Insights.MarketConcentration)
	assert.Equal(t, "ISLAMABAD", r.Insights.RecommendedFocusCity)
	assert.Equal(t, "BUSINESS", r.Insights.RecommendedTargetOccupation)
	assert.Equal(t, Counts{"INFINITE": 1, "NO_CARD": 1}, r.HighValueAnalysis.PreferredCardTypes)
	assert.Equal(t, "INFINITE", r.Insights.PreferredProducts.CardType)

	empty := HighValueCustomers(nil, DefaultHighValueThreshold)
	assert.Equal(t, 0.0, empty.HighValueAnalysis.PercentageOfTotal)
	assert.Equal(t, "", empty.Insights.RecommendedFocusCity)
}

func TestProfileCompleteness(t *testing.T) {
	full := newApp(
		withOccupation(models.OccupationDoctor), withCity("LAHORE"), withCard(models.CardTypeGold),
		func(a *models.Application) {
			a.FathersHusbandsName = strPtr("RICHARD DOE")
			a.MothersName = strPtr("MARY DOE")
			a.DateOfBirth = strPtr("01 01 90")
			a.Nationality = strPtr("PAKISTANI")
			a.PlaceOfBirth = strPtr("LAHORE")
			a.HouseNoBlockStreet = strPtr("HOUSE 1")
			a.AreaLocation = strPtr("GULBERG")
			a.SourceOfIncome = strPtr("SALARY")
			a.ResidentialStatus = models.ResidentialStatusRental
			a.NextOfKinName = strPtr("JANE DOE")
			a.NextOfKinRelation = strPtr("W/O")
			a.NextOfKinCNIC = strPtr("54321-7654321-0")
		},
	)
	bare := newApp()
	assert.Equal(t, 11, CompletenessPoints(&full))
	assert.Equal(t, 100.0, CompletenessScore(&full))
	assert.Equal(t, 0.0, CompletenessScore(&bare))

	r := ProfileCompleteness([]models.Application{full, bare})
	assert.Equal(t, 50.0, r.CompletenessData.AverageCompletenessPercentage)
	assert.Equal(t, 1, r.CompletenessData.FullyCompleteProfiles)
	assert.Equal(t, 1, r.CompletenessData.Above80Percent)
	assert.Equal(t, 1, r.CompletenessData.Below50Percent)
	assert.Equal(t, 50.0, r.CompletenessData.FieldCompletionRates["card_selection"])
	assert.Equal(t, "MODERATE", r.Insights.OverallHealth)
	assert.Len(t, r.Insights.WeakestFields, 3)
	assert.Equal(t, 50.0, r.Insights.FullyCompleteRate)

	empty := ProfileCompleteness(nil)
	assert.Equal(t, 0.0, empty.CompletenessData.AverageCompletenessPercentage)
	assert.Empty(t, empty.Insights.WeakestFields)
	assert.Equal(t, "NEEDS_IMPROVEMENT", empty.Insights.OverallHealth)
}

func TestSegmentationIsNonExclusive(t *testing.T) {
	both := newApp(withOccupation(models.OccupationBusiness), withDigital(true, true), withCard(models.CardTypeGold),
		func(a *models.Application) { a.SMSAlerts = true })
	assert.Equal(t, []Segment{SegmentBusinessOwners, SegmentFullyEngaged}, SegmentsOf(&both))

	none := newApp(withCard(models.CardTypeGold), withDigital(false, true))
	assert.Empty(t, SegmentsOf(&none))

	seeker := newApp()
	assert.Equal(t, []Segment{SegmentValueSeekers}, SegmentsOf(&seeker))

	traditional := newApp(withCredit(300000), withCard(models.CardTypeClassic))
	assert.Equal(t, []Segment{SegmentHighValueTraditional, SegmentValueSeekers}, SegmentsOf(&traditional))

	young := newApp(withOccupation(models.OccupationITProfessional), withDigital(false, true))
	assert.Contains(t, SegmentsOf(&young), SegmentYoungProfessionals)

	native := newApp(withCard(models.CardTypeSignature), withDigital(true, true))
	assert.Contains(t, SegmentsOf(&native), SegmentPremiumDigitalNatives)

	r := Segmentation([]models.Application{both, none, seeker})
	assert.Equal(t, 1, r.Count(SegmentBusinessOwners))
	assert.Equal(t, 1, r.Count(SegmentFullyEngaged))
	assert.Equal(t, 33.33, r.SegmentationData.Segments[3].Percentage)
	assert.Equal(t, SegmentBusinessOwners, r.Insights.LargestSegment)
	assert.Equal(t, SegmentPremiumDigitalNatives, r.Insights.SmallestSegment)
	assert.Len(t, r.SegmentRecommendations, 6)

	empty := Segmentation(nil)
	assert.Len(t, empty.SegmentationData.Segments, 6)
	assert.Equal(t, Segment(""), empty.Insights.LargestSegment)
}

func TestExecutiveSummary(t *testing.T) {
	apps := []models.Application{
		newApp(withDigital(true, true), withCredit(1234567), func(a *models.Application) {
			a.SMSAlerts, a.CheckBook, a.ZakatDeduction = true, true, true
		}),
		newApp(withCredit(765433)),
	}
	seg := Segmentation(apps)
	r := ExecutiveSummary(ExecutiveInput{
		Total:        len(apps),
		Credit:       Summarize(apps, CreditTurnover),
		Digital:      DigitalAdoptionOf(apps),
		Services:     FlagCounts(apps),
		Segmentation: seg,
		Completeness: ProfileCompleteness(apps),
	})

	assert.Equal(t, 2, r.KeyMetrics.TotalCustomers)
	assert.Equal(t, 50.0, r.KeyMetrics.DigitalAdoptionRate)
	assert.Equal(t, 50.0, r.KeyMetrics.ServiceEngagementScore)
	assert.Equal(t, "MEDIUM", r.HealthIndicators.DigitalMaturity)
	assert.Equal(t, "MEDIUM", r.HealthIndicators.CustomerEngagement)
	assert.Equal(t, "LOW", r.HealthIndicators.DataQuality)
	assert.Equal(t, seg.Insights.LargestSegment, r.TopSegment)
	require.Len(t, r.TopInsights, 4)
	assert.Equal(t, "Digital banking adoption is at 50%", r.TopInsights[0])
	assert.Equal(t, "Average customer expects Rs. 1,000,000 monthly credit", r.TopInsights[1])
	assert.Len(t, r.Recommendations, 3)

	empty := ExecutiveSummary(ExecutiveInput{})
	assert.Equal(t, 0.0, empty.KeyMetrics.ServiceEngagementScore)
	assert.Equal(t, "Top customer segment: none", empty.TopInsights[2])
	assert.Equal(t, "LOW", empty.HealthIndicators.DigitalMaturity)
}
