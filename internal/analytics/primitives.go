// Package analytics turns a set of applications, or aggregates already
// computed by the store, into dashboard reports. Functions are pure; callers
// own their inputs.
package analytics

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/eaglebank/onboarding/shared/models"
)

// Sentinel categories for unset classification values.
const (
	Unknown = "UNKNOWN"
	NoCard  = "NO_CARD"
)

// Dimension is a categorical field that reports group by.
type Dimension string

const (
	DimAccountType       Dimension = models.FieldAccountType
	DimCity              Dimension = models.FieldCity
	DimGender            Dimension = models.FieldGender
	DimOccupation        Dimension = models.FieldOccupation
	DimCardType          Dimension = models.FieldCardType
	DimCardNetwork       Dimension = models.FieldCardNetwork
	DimMaritalStatus     Dimension = models.FieldMaritalStatus
	DimResidentialStatus Dimension = models.FieldResidentialStatus
)

var Dimensions = []Dimension{
	DimAccountType, DimCity, DimGender, DimOccupation,
	DimCardType, DimCardNetwork, DimMaritalStatus, DimResidentialStatus,
}

func ParseDimension(s string) (Dimension, error) {
	for _, d := range Dimensions {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown dimension %q", s)
}

// Sentinel is the category that stands in for a missing value.
func (d Dimension) Sentinel() string {
	if d == DimCardType || d == DimCardNetwork {
		return NoCard
	}
	return Unknown
}

// Of returns the category of a, substituting the sentinel for a missing value.
func (d Dimension) Of(a *models.Application) string {
	if v := a.Category(string(d)); v != "" {
		return v
	}
	return d.Sentinel()
}

// Before orders categories canonically: declaration order for enumerations,
// lexical order for free text, sentinels last.
func (d Dimension) Before(a, b string) bool {
	if a == b {
		return false
	}
	sentinel := d.Sentinel()
	if a == sentinel {
		return false
	}
	if b == sentinel {
		return true
	}
	order := models.CategoryOrder(string(d))
	ia, ib := indexOf(order, a), indexOf(order, b)
	switch {
	case ia >= 0 && ib >= 0:
		return ia < ib
	case ia >= 0:
		return true
	case ib >= 0:
		return false
	}
	return a < b
}

func indexOf(values []string, v string) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}

// NumericField is a nullable monetary field.
type NumericField string

const (
	DebitTurnover  NumericField = models.FieldExpectedMonthlyTurnoverDr
	CreditTurnover NumericField = models.FieldExpectedMonthlyTurnoverCr
)

// Flag is a boolean field counted by reports.
type Flag string

const (
	FlagInternetBanking Flag = models.FieldInternetBanking
	FlagMobileBanking   Flag = models.FieldMobileBanking
	FlagCheckBook       Flag = models.FieldCheckBook
	FlagSMSAlerts       Flag = models.FieldSMSAlerts
	FlagZakatDeduction  Flag = models.FieldZakatDeduction
	FlagHasNextOfKin    Flag = models.FieldHasNextOfKin
)

// ServiceFlags are the five independent service and zakat flags.
var ServiceFlags = []Flag{
	FlagInternetBanking, FlagMobileBanking, FlagCheckBook, FlagSMSAlerts, FlagZakatDeduction,
}

// Kin count keys.
const (
	WithNextOfKin    = "with_next_of_kin"
	WithoutNextOfKin = "without_next_of_kin"
)

// Counts maps a category to the number of records in it.
type Counts map[string]int

// Sum adds every count.
func (c Counts) Sum() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// CrossTab maps a first-dimension category to the counts of the second.
type CrossTab map[string]Counts

// Summary describes a numeric field over the records where it is set.
type Summary struct {
	Average float64 `json:"average"`
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
}

// CategoryCount is one entry of a ranked list.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

func GroupCount(apps []models.Application, d Dimension) Counts {
	out := Counts{}
	for i := range apps {
		out[d.Of(&apps[i])]++
	}
	return out
}

func CountTrue(apps []models.Application, f Flag) int {
	n := 0
	for i := range apps {
		if apps[i].Flag(string(f)) {
			n++
		}
	}
	return n
}

// FlagCounts counts the records with each service flag set.
func FlagCounts(apps []models.Application) Counts {
	out := Counts{}
	for _, f := range ServiceFlags {
		out[string(f)] = CountTrue(apps, f)
	}
	return out
}

func KinCounts(apps []models.Application) Counts {
	with := CountTrue(apps, FlagHasNextOfKin)
	return Counts{WithNextOfKin: with, WithoutNextOfKin: len(apps) - with}
}

// Summarize computes the summary of f over records where it is non-null.
func Summarize(apps []models.Application, f NumericField) Summary {
	var values []float64
	for i := range apps {
		if v := apps[i].Amount(string(f)); v != nil {
			values = append(values, *v)
		}
	}
	return summarizeValues(values)
}

func summarizeValues(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	total := decimal.Zero
	minimum, maximum := values[0], values[0]
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
		minimum = min(minimum, v)
		maximum = max(maximum, v)
	}
	return Summary{
		Average: round2(total.Div(decimal.NewFromInt(int64(len(values))))),
		Minimum: RoundMoney(minimum),
		Maximum: RoundMoney(maximum),
		Total:   round2(total),
		Count:   len(values),
	}
}

// SummaryOf builds a Summary from totals aggregated elsewhere, such as a
// database query.
func SummaryOf(count int, total, minimum, maximum float64) Summary {
	if count == 0 {
		return Summary{}
	}
	t := decimal.NewFromFloat(total)
	return Summary{
		Average: round2(t.Div(decimal.NewFromInt(int64(count)))),
		Minimum: RoundMoney(minimum),
		Maximum: RoundMoney(maximum),
		Total:   round2(t),
		Count:   count,
	}
}

func CrossTabulate(apps []models.Application, first, second Dimension) CrossTab {
	out := CrossTab{}
	for i := range apps {
		a := first.Of(&apps[i])
		if out[a] == nil {
			out[a] = Counts{}
		}
		out[a][second.Of(&apps[i])]++
	}
	return out
}

// Rank sorts counts descending and keeps the first k entries; k <= 0 keeps all.
// Ties follow the canonical order of d.
func (d Dimension) Rank(c Counts, k int) []CategoryCount {
	out := make([]CategoryCount, 0, len(c))
	for cat, n := range c {
		out = append(out, CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return d.Before(out[i].Category, out[j].Category)
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// Dominant returns the most frequent category, or "" when c is empty.
func (d Dimension) Dominant(c Counts) string {
	ranked := d.Rank(c, 1)
	if len(ranked) == 0 {
		return ""
	}
	return ranked[0].Category
}

// Percent returns part/total*100 rounded to two decimals, or 0 when total is 0.
func Percent(part, total int) float64 {
	return round2(percentOf(part, total))
}

func percentOf(part, total int) decimal.Decimal {
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(total)))
}

var hundred = decimal.NewFromInt(100)

// RoundMoney rounds an amount to two decimals.
func RoundMoney(v float64) float64 {
	return round2(decimal.NewFromFloat(v))
}

func round2(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
