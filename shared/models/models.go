package models

import (
	"errors"
	"time"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrIdentifierCollision = errors.New("account number or iban already exists")
)

// Column and JSON names of the application fields.
const (
	FieldID                        = "id"
	FieldAccountNo                 = "account_no"
	FieldDate                      = "date"
	FieldIBAN                      = "iban"
	FieldBranchCity                = "branch_city"
	FieldBranchCode                = "branch_code"
	FieldSBPCode                   = "sbp_code"
	FieldAccountType               = "account_type"
	FieldTitleOfAccount            = "title_of_account"
	FieldNameOnCard                = "name_on_card"
	FieldName                      = "name"
	FieldFathersHusbandsName       = "fathers_husbands_name"
	FieldMothersName               = "mothers_name"
	FieldMaritalStatus             = "marital_status"
	FieldGender                    = "gender"
	FieldNationality               = "nationality"
	FieldPlaceOfBirth              = "place_of_birth"
	FieldDateOfBirth               = "date_of_birth"
	FieldCNICNo                    = "cnic_no"
	FieldCNICExpiryDate            = "cnic_expiry_date"
	FieldHouseNoBlockStreet        = "house_no_block_street"
	FieldAreaLocation              = "area_location"
	FieldCity                      = "city"
	FieldPostalCode                = "postal_code"
	FieldOccupation                = "occupation"
	FieldOccupationOther           = "occupation_other"
	FieldPurposeOfAccount          = "purpose_of_account"
	FieldSourceOfIncome            = "source_of_income"
	FieldExpectedMonthlyTurnoverDr = "expected_monthly_turnover_dr"
	FieldExpectedMonthlyTurnoverCr = "expected_monthly_turnover_cr"
	FieldResidentialStatus         = "residential_status"
	FieldResidentialStatusOther    = "residential_status_other"
	FieldResidingSince             = "residing_since"
	FieldHasNextOfKin              = "has_next_of_kin"
	FieldNextOfKinName             = "next_of_kin_name"
	FieldNextOfKinRelation         = "next_of_kin_relation"
	FieldNextOfKinCNIC             = "next_of_kin_cnic"
	FieldNextOfKinRelationship     = "next_of_kin_relationship"
	FieldNextOfKinContactNo        = "next_of_kin_contact_no"
	FieldNextOfKinAddress          = "next_of_kin_address"
	FieldNextOfKinEmail            = "next_of_kin_email"
	FieldInternetBanking           = "internet_banking"
	FieldMobileBanking             = "mobile_banking"
	FieldCheckBook                 = "check_book"
	FieldSMSAlerts                 = "sms_alerts"
	FieldCardType                  = "card_type"
	FieldCardNetwork               = "card_network"
	FieldZakatDeduction            = "zakat_deduction"
)

// Application is one account-opening request. Optional free text is nil when
// absent; an empty enumeration value means the classification was not given.
type Application struct {
	ID             int64       `json:"id"`
	AccountNo      string      `json:"account_no"`
	Date           *string     `json:"date,omitempty"`
	IBAN           string      `json:"iban"`
	BranchCity     *string     `json:"branch_city,omitempty"`
	BranchCode     *string     `json:"branch_code,omitempty"`
	SBPCode        *string     `json:"sbp_code,omitempty"`
	AccountType    AccountType `json:"account_type,omitempty"`
	TitleOfAccount string      `json:"title_of_account"`
	NameOnCard     *string     `json:"name_on_card,omitempty"`

	Name                string        `json:"name"`
	FathersHusbandsName *string       `json:"fathers_husbands_name,omitempty"`
	MothersName         *string       `json:"mothers_name,omitempty"`
	MaritalStatus       MaritalStatus `json:"marital_status,omitempty"`
	Gender              Gender        `json:"gender,omitempty"`
	Nationality         *string       `json:"nationality,omitempty"`
	PlaceOfBirth        *string       `json:"place_of_birth,omitempty"`
	DateOfBirth         *string       `json:"date_of_birth,omitempty"`
	CNICNo              string        `json:"cnic_no"`
	CNICExpiryDate      *string       `json:"cnic_expiry_date,omitempty"`

	HouseNoBlockStreet *string `json:"house_no_block_street,omitempty"`
	AreaLocation       *string `json:"area_location,omitempty"`
	City               *string `json:"city,omitempty"`
	PostalCode         *string `json:"postal_code,omitempty"`

	Occupation      Occupation `json:"occupation,omitempty"`
	OccupationOther *string    `json:"occupation_other,omitempty"`

	PurposeOfAccount          *string  `json:"purpose_of_account,omitempty"`
	SourceOfIncome            *string  `json:"source_of_income,omitempty"`
	ExpectedMonthlyTurnoverDr *float64 `json:"expected_monthly_turnover_dr,omitempty"`
	ExpectedMonthlyTurnoverCr *float64 `json:"expected_monthly_turnover_cr,omitempty"`

	ResidentialStatus      ResidentialStatus `json:"residential_status,omitempty"`
	ResidentialStatusOther *string           `json:"residential_status_other,omitempty"`
	ResidingSince          *string           `json:"residing_since,omitempty"`

	HasNextOfKin          bool    `json:"has_next_of_kin"`
	NextOfKinName         *string `json:"next_of_kin_name,omitempty"`
	NextOfKinRelation     *string `json:"next_of_kin_relation,omitempty"`
	NextOfKinCNIC         *string `json:"next_of_kin_cnic,omitempty"`
	NextOfKinRelationship *string `json:"next_of_kin_relationship,omitempty"`
	NextOfKinContactNo    *string `json:"next_of_kin_contact_no,omitempty"`
	NextOfKinAddress      *string `json:"next_of_kin_address,omitempty"`
	NextOfKinEmail        *string `json:"next_of_kin_email,omitempty"`

	InternetBanking bool `json:"internet_banking"`
	MobileBanking   bool `json:"mobile_banking"`
	CheckBook       bool `json:"check_book"`
	SMSAlerts       bool `json:"sms_alerts"`

	CardType    CardType    `json:"card_type,omitempty"`
	CardNetwork CardNetwork `json:"card_network,omitempty"`

	ZakatDeduction bool `json:"zakat_deduction"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Present reports whether an optional text field carries a non-empty value.
func Present(s *string) bool {
	return s != nil && *s != ""
}

// HasAnyKinInfo reports whether the kin flag or any next-of-kin field is set.
func (a *Application) HasAnyKinInfo() bool {
	if a.HasNextOfKin {
		return true
	}
	for _, f := range a.kinFields() {
		if Present(f) {
			return true
		}
	}
	return false
}

// HasCompleteKin reports whether name, relation and CNIC of the next of kin are all given.
func (a *Application) HasCompleteKin() bool {
	return Present(a.NextOfKinName) && Present(a.NextOfKinRelation) && Present(a.NextOfKinCNIC)
}

func (a *Application) kinFields() []*string {
	return []*string{
		a.NextOfKinName, a.NextOfKinRelation, a.NextOfKinCNIC, a.NextOfKinRelationship,
		a.NextOfKinContactNo, a.NextOfKinAddress, a.NextOfKinEmail,
	}
}

// Category returns the raw value of a categorical field, empty when unset.
func (a *Application) Category(field string) string {
	switch field {
	case FieldAccountType:
		return string(a.AccountType)
	case FieldMaritalStatus:
		return string(a.MaritalStatus)
	case FieldGender:
		return string(a.Gender)
	case FieldOccupation:
		return string(a.Occupation)
	case FieldResidentialStatus:
		return string(a.ResidentialStatus)
	case FieldCardType:
		return string(a.CardType)
	case FieldCardNetwork:
		return string(a.CardNetwork)
	case FieldCity:
		if a.City != nil {
			return *a.City
		}
	}
	return ""
}

// Flag returns the value of a boolean field.
func (a *Application) Flag(field string) bool {
	switch field {
	case FieldInternetBanking:
		return a.InternetBanking
	case FieldMobileBanking:
		return a.MobileBanking
	case FieldCheckBook:
		return a.CheckBook
	case FieldSMSAlerts:
		return a.SMSAlerts
	case FieldZakatDeduction:
		return a.ZakatDeduction
	case FieldHasNextOfKin:
		return a.HasNextOfKin
	}
	return false
}

// Amount returns a turnover field, nil when not declared.
func (a *Application) Amount(field string) *float64 {
	switch field {
	case FieldExpectedMonthlyTurnoverDr:
		return a.ExpectedMonthlyTurnoverDr
	case FieldExpectedMonthlyTurnoverCr:
		return a.ExpectedMonthlyTurnoverCr
	}
	return nil
}

// Lookup returns the value of a unique lookup field.
func (a *Application) Lookup(field string) string {
	switch field {
	case FieldCNICNo:
		return a.CNICNo
	case FieldAccountNo:
		return a.AccountNo
	case FieldIBAN:
		return a.IBAN
	}
	return ""
}

// IsLookupField reports whether field identifies a single application.
func IsLookupField(field string) bool {
	return field == FieldCNICNo || field == FieldAccountNo || field == FieldIBAN
}
