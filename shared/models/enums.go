package models

import "fmt"

type AccountType string

const (
	AccountTypeCurrent AccountType = "CURRENT"
	AccountTypeSavings AccountType = "SAVINGS"
	AccountTypeAhuLat  AccountType = "AHU_LAT"
)

type MaritalStatus string

const (
	MaritalStatusSingle   MaritalStatus = "SINGLE"
	MaritalStatusMarried  MaritalStatus = "MARRIED"
	MaritalStatusDivorced MaritalStatus = "DIVORCED"
	MaritalStatusWidowed  MaritalStatus = "WIDOWED"
)

type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

type Occupation string

const (
	OccupationServiceGovt    Occupation = "SERVICE_GOVT"
	OccupationServicePrivate Occupation = "SERVICE_PRIVATE"
	OccupationBusiness       Occupation = "BUSINESS"
	OccupationSelfEmployed   Occupation = "SELF_EMPLOYED"
	OccupationFarmer         Occupation = "FARMER"
	OccupationHouseWife      Occupation = "HOUSE_WIFE"
	OccupationStudent        Occupation = "STUDENT"
	OccupationRetired        Occupation = "RETIRED"
	OccupationDoctor         Occupation = "DOCTOR"
	OccupationEngineer       Occupation = "ENGINEER"
	OccupationTeacher        Occupation = "TEACHER"
	OccupationLawyer         Occupation = "LAWYER"
	OccupationAccountant     Occupation = "ACCOUNTANT"
	OccupationITProfessional Occupation = "IT_PROFESSIONAL"
	OccupationBanker         Occupation = "BANKER"
	OccupationUnemployed     Occupation = "UNEMPLOYED"
	OccupationOther          Occupation = "OTHER"
)

type ResidentialStatus string

const (
	ResidentialStatusHouseOwned ResidentialStatus = "HOUSE_OWNED"
	ResidentialStatusRental     ResidentialStatus = "RENTAL"
	ResidentialStatusFamily     ResidentialStatus = "FAMILY"
	ResidentialStatusOther      ResidentialStatus = "OTHER"
)

type CardType string

const (
	CardTypeClassic   CardType = "CLASSIC"
	CardTypeGold      CardType = "GOLD"
	CardTypeTitanium  CardType = "TITANIUM"
	CardTypePlatinum  CardType = "PLATINUM"
	CardTypeSignature CardType = "SIGNATURE"
	CardTypeInfinite  CardType = "INFINITE"
)

// IsPremium reports whether the card belongs to the premium tier.
func (c CardType) IsPremium() bool {
	return c == CardTypePlatinum || c == CardTypeSignature || c == CardTypeInfinite
}

type CardNetwork string

const (
	CardNetworkVisa       CardNetwork = "VISA"
	CardNetworkMastercard CardNetwork = "MASTERCARD"
)

// Declaration order of every enumeration. Reports use it to break ties.
var (
	AccountTypes = []AccountType{AccountTypeCurrent, AccountTypeSavings, AccountTypeAhuLat}

	MaritalStatuses = []MaritalStatus{
		MaritalStatusSingle, MaritalStatusMarried, MaritalStatusDivorced, MaritalStatusWidowed,
	}

	Genders = []Gender{GenderMale, GenderFemale, GenderOther}

	Occupations = []Occupation{
		OccupationServiceGovt, OccupationServicePrivate, OccupationBusiness, OccupationSelfEmployed,
		OccupationFarmer, OccupationHouseWife, OccupationStudent, OccupationRetired,
		OccupationDoctor, OccupationEngineer, OccupationTeacher, OccupationLawyer,
		OccupationAccountant, OccupationITProfessional, OccupationBanker, OccupationUnemployed,
		OccupationOther,
	}

	ResidentialStatuses = []ResidentialStatus{
		ResidentialStatusHouseOwned, ResidentialStatusRental, ResidentialStatusFamily, ResidentialStatusOther,
	}

	CardTypes = []CardType{
		CardTypeClassic, CardTypeGold, CardTypeTitanium, CardTypePlatinum, CardTypeSignature, CardTypeInfinite,
	}

	CardNetworks = []CardNetwork{CardNetworkVisa, CardNetworkMastercard}
)

// InvalidCategoryError reports a classification value outside its enumeration.
type InvalidCategoryError struct {
	FieldName string
	Value     string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("%s: invalid value %q", e.FieldName, e.Value)
}

func (e *InvalidCategoryError) Field() string { return e.FieldName }
func (e *InvalidCategoryError) Rule() string  { return "category" }

func parseEnum[T ~string](field string, values []T, raw string) (T, error) {
	for _, v := range values {
		if string(v) == raw {
			return v, nil
		}
	}
	var zero T
	return zero, &InvalidCategoryError{FieldName: field, Value: raw}
}

func ParseAccountType(s string) (AccountType, error) {
	return parseEnum(FieldAccountType, AccountTypes, s)
}

func ParseMaritalStatus(s string) (MaritalStatus, error) {
	return parseEnum(FieldMaritalStatus, MaritalStatuses, s)
}

func ParseGender(s string) (Gender, error) {
	return parseEnum(FieldGender, Genders, s)
}

func ParseOccupation(s string) (Occupation, error) {
	return parseEnum(FieldOccupation, Occupations, s)
}

func ParseResidentialStatus(s string) (ResidentialStatus, error) {
	return parseEnum(FieldResidentialStatus, ResidentialStatuses, s)
}

func ParseCardType(s string) (CardType, error) {
	return parseEnum(FieldCardType, CardTypes, s)
}

func ParseCardNetwork(s string) (CardNetwork, error) {
	return parseEnum(FieldCardNetwork, CardNetworks, s)
}

// ParseCategory checks raw against the enumeration bound to field and
// returns its canonical string form.
func ParseCategory(field, raw string) (string, error) {
	var (
		v   any
		err error
	)
	switch field {
	case FieldAccountType:
		v, err = ParseAccountType(raw)
	case FieldMaritalStatus:
		v, err = ParseMaritalStatus(raw)
	case FieldGender:
		v, err = ParseGender(raw)
	case FieldOccupation:
		v, err = ParseOccupation(raw)
	case FieldResidentialStatus:
		v, err = ParseResidentialStatus(raw)
	case FieldCardType:
		v, err = ParseCardType(raw)
	case FieldCardNetwork:
		v, err = ParseCardNetwork(raw)
	default:
		return "", fmt.Errorf("%s is not a categorical field", field)
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

// CategoryOrder returns the declaration order of the enumeration bound to
// field, or nil for free-text fields.
func CategoryOrder(field string) []string {
	switch field {
	case FieldAccountType:
		return toStrings(AccountTypes)
	case FieldMaritalStatus:
		return toStrings(MaritalStatuses)
	case FieldGender:
		return toStrings(Genders)
	case FieldOccupation:
		return toStrings(Occupations)
	case FieldResidentialStatus:
		return toStrings(ResidentialStatuses)
	case FieldCardType:
		return toStrings(CardTypes)
	case FieldCardNetwork:
		return toStrings(CardNetworks)
	}
	return nil
}

func toStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
