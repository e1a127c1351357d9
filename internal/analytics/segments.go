package analytics

import "github.com/eaglebank/onboarding/shared/models"

// Segment is a named, non-exclusive customer category.
type Segment string

const (
	SegmentPremiumDigitalNatives Segment = "premium_digital_natives"
	SegmentHighValueTraditional  Segment = "high_value_traditional"
	SegmentYoungProfessionals    Segment = "young_professionals"
	SegmentBusinessOwners        Segment = "business_owners"
	SegmentValueSeekers          Segment = "value_seekers"
	SegmentFullyEngaged          Segment = "fully_engaged"
)

// Segments lists every segment in declaration order.
var Segments = []Segment{
	SegmentPremiumDigitalNatives,
	SegmentHighValueTraditional,
	SegmentYoungProfessionals,
	SegmentBusinessOwners,
	SegmentValueSeekers,
	SegmentFullyEngaged,
}

var segmentRules = map[Segment]func(a *models.Application) bool{
	SegmentPremiumDigitalNatives: func(a *models.Application) bool {
		return a.CardType.IsPremium() && a.InternetBanking && a.MobileBanking
	},
	SegmentHighValueTraditional: func(a *models.Application) bool {
		return a.ExpectedMonthlyTurnoverCr != nil && *a.ExpectedMonthlyTurnoverCr >= HighIncomeThreshold &&
			!a.InternetBanking && !a.MobileBanking
	},
	SegmentYoungProfessionals: func(a *models.Application) bool {
		switch a.Occupation {
		case models.OccupationStudent, models.OccupationServicePrivate, models.OccupationITProfessional:
			return a.InternetBanking || a.MobileBanking
		}
		return false
	},
	SegmentBusinessOwners: func(a *models.Application) bool {
		return a.Occupation == models.OccupationBusiness || a.Occupation == models.OccupationSelfEmployed
	},
	SegmentValueSeekers: func(a *models.Application) bool {
		return (a.CardType == "" || a.CardType == models.CardTypeClassic) && !a.InternetBanking
	},
	SegmentFullyEngaged: func(a *models.Application) bool {
		return a.InternetBanking && a.MobileBanking && a.SMSAlerts && a.CardType != ""
	},
}

var segmentRecommendations = map[Segment]string{
	SegmentPremiumDigitalNatives: "Offer exclusive digital-first experiences and premium rewards",
	SegmentHighValueTraditional:  "Focus on relationship banking and personalized in-branch services",
	SegmentYoungProfessionals:    "Promote career-linked products and financial planning tools",
	SegmentBusinessOwners:        "Cross-sell business banking products and merchant services",
	SegmentValueSeekers:          "Educate on digital benefits and offer upgrade incentives",
	SegmentFullyEngaged:          "Maintain loyalty with rewards and referral programs",
}

// SegmentsOf returns every segment a belongs to, in declaration order.
func SegmentsOf(a *models.Application) []Segment {
	var out []Segment
	for _, s := range Segments {
		if segmentRules[s](a) {
			out = append(out, s)
		}
	}
	return out
}

type SegmentStat struct {
	Segment    Segment `json:"segment"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type SegmentationData struct {
	TotalCustomers int           `json:"total_customers"`
	Segments       []SegmentStat `json:"segments"`
}

type SegmentationInsights struct {
	LargestSegment    Segment `json:"largest_segment,omitempty"`
	SmallestSegment   Segment `json:"smallest_segment,omitempty"`
	GrowthOpportunity Segment `json:"growth_opportunity,omitempty"`
}

type SegmentationReport struct {
	SegmentationData       SegmentationData     `json:"segmentation_data"`
	Insights               SegmentationInsights `json:"insights"`
	SegmentRecommendations map[Segment]string   `json:"segment_recommendations"`
}

// Segmentation counts membership of every segment. A record may fall into
// several segments or none.
func Segmentation(apps []models.Application) SegmentationReport {
	counts := make(map[Segment]int, len(Segments))
	for i := range apps {
		for _, s := range SegmentsOf(&apps[i]) {
			counts[s]++
		}
	}

	stats := make([]SegmentStat, 0, len(Segments))
	for _, s := range Segments {
		stats = append(stats, SegmentStat{Segment: s, Count: counts[s], Percentage: Percent(counts[s], len(apps))})
	}

	report := SegmentationReport{
		SegmentationData:       SegmentationData{TotalCustomers: len(apps), Segments: stats},
		SegmentRecommendations: segmentRecommendations,
	}
	if len(apps) > 0 {
		largest, smallest := stats[0], stats[0]
		for _, st := range stats[1:] {
			if st.Count > largest.Count {
				largest = st
			}
			if st.Count < smallest.Count {
				smallest = st
			}
		}
		report.Insights = SegmentationInsights{
			LargestSegment:    largest.Segment,
			SmallestSegment:   smallest.Segment,
			GrowthOpportunity: smallest.Segment,
		}
	}
	return report
}

// Count returns the number of members of s.
func (r SegmentationReport) Count(s Segment) int {
	for _, st := range r.SegmentationData.Segments {
		if st.Segment == s {
			return st.Count
		}
	}
	return 0
}
