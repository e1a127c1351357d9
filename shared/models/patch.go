package models

// ApplicationPatch carries a partial update. Nil fields are left untouched;
// the identifiers and timestamps are not patchable.
type ApplicationPatch struct {
	Date           *string      `json:"date"`
	BranchCity     *string      `json:"branch_city"`
	BranchCode     *string      `json:"branch_code"`
	SBPCode        *string      `json:"sbp_code"`
	AccountType    *AccountType `json:"account_type"`
	TitleOfAccount *string      `json:"title_of_account"`
	NameOnCard     *string      `json:"name_on_card"`

	Name                *string        `json:"name"`
	FathersHusbandsName *string        `json:"fathers_husbands_name"`
	MothersName         *string        `json:"mothers_name"`
	MaritalStatus       *MaritalStatus `json:"marital_status"`
	Gender              *Gender        `json:"gender"`
	Nationality         *string        `json:"nationality"`
	PlaceOfBirth        *string        `json:"place_of_birth"`
	DateOfBirth         *string        `json:"date_of_birth"`
	CNICNo              *string        `json:"cnic_no"`
	CNICExpiryDate      *string        `json:"cnic_expiry_date"`

	HouseNoBlockStreet *string `json:"house_no_block_street"`
	AreaLocation       *string `json:"area_location"`
	City               *string `json:"city"`
	PostalCode         *string `json:"postal_code"`

	Occupation      *Occupation `json:"occupation"`
	OccupationOther *string     `json:"occupation_other"`

	PurposeOfAccount          *string  `json:"purpose_of_account"`
	SourceOfIncome            *string  `json:"source_of_income"`
	ExpectedMonthlyTurnoverDr *float64 `json:"expected_monthly_turnover_dr"`
	ExpectedMonthlyTurnoverCr *float64 `json:"expected_monthly_turnover_cr"`

	ResidentialStatus      *ResidentialStatus `json:"residential_status"`
	ResidentialStatusOther *string            `json:"residential_status_other"`
	ResidingSince          *string            `json:"residing_since"`

	HasNextOfKin          *bool   `json:"has_next_of_kin"`
	NextOfKinName         *string `json:"next_of_kin_name"`
	NextOfKinRelation     *string `json:"next_of_kin_relation"`
	NextOfKinCNIC         *string `json:"next_of_kin_cnic"`
	NextOfKinRelationship *string `json:"next_of_kin_relationship"`
	NextOfKinContactNo    *string `json:"next_of_kin_contact_no"`
	NextOfKinAddress      *string `json:"next_of_kin_address"`
	NextOfKinEmail        *string `json:"next_of_kin_email"`

	InternetBanking *bool `json:"internet_banking"`
	MobileBanking   *bool `json:"mobile_banking"`
	CheckBook       *bool `json:"check_book"`
	SMSAlerts       *bool `json:"sms_alerts"`

	CardType    *CardType    `json:"card_type"`
	CardNetwork *CardNetwork `json:"card_network"`

	ZakatDeduction *bool `json:"zakat_deduction"`
}

// Assignment is a single field set by a patch. Value holds a string, float64
// or bool.
type Assignment struct {
	Field string
	Value any
}

// Assignments lists the fields set by the patch in declaration order.
func (p ApplicationPatch) Assignments() []Assignment {
	var out []Assignment
	str := func(field string, v *string) {
		if v != nil {
			out = append(out, Assignment{Field: field, Value: *v})
		}
	}
	num := func(field string, v *float64) {
		if v != nil {
			out = append(out, Assignment{Field: field, Value: *v})
		}
	}
	flag := func(field string, v *bool) {
		if v != nil {
			out = append(out, Assignment{Field: field, Value: *v})
		}
	}

	str(FieldDate, p.Date)
	str(FieldBranchCity, p.BranchCity)
	str(FieldBranchCode, p.BranchCode)
	str(FieldSBPCode, p.SBPCode)
	if p.AccountType != nil {
		out = append(out, Assignment{Field: FieldAccountType, Value: string(*p.AccountType)})
	}
	str(FieldTitleOfAccount, p.TitleOfAccount)
	str(FieldNameOnCard, p.NameOnCard)
	str(FieldName, p.Name)
	str(FieldFathersHusbandsName, p.FathersHusbandsName)
	str(FieldMothersName, p.MothersName)
	if p.MaritalStatus != nil {
		out = append(out, Assignment{Field: FieldMaritalStatus, Value: string(*p.MaritalStatus)})
	}
	if p.Gender != nil {
		out = append(out, Assignment{Field: FieldGender, Value: string(*p.Gender)})
	}
	str(FieldNationality, p.Nationality)
	str(FieldPlaceOfBirth, p.PlaceOfBirth)
	str(FieldDateOfBirth, p.DateOfBirth)
	str(FieldCNICNo, p.CNICNo)
	str(FieldCNICExpiryDate, p.CNICExpiryDate)
	str(FieldHouseNoBlockStreet, p.HouseNoBlockStreet)
	str(FieldAreaLocation, p.AreaLocation)
	str(FieldCity, p.City)
	str(FieldPostalCode, p.PostalCode)
	if p.Occupation != nil {
		out = append(out, Assignment{Field: FieldOccupation, Value: string(*p.Occupation)})
	}
	str(FieldOccupationOther, p.OccupationOther)
	str(FieldPurposeOfAccount, p.PurposeOfAccount)
	str(FieldSourceOfIncome, p.SourceOfIncome)
	num(FieldExpectedMonthlyTurnoverDr, p.ExpectedMonthlyTurnoverDr)
	num(FieldExpectedMonthlyTurnoverCr, p.ExpectedMonthlyTurnoverCr)
	if p.ResidentialStatus != nil {
		out = append(out, Assignment{Field: FieldResidentialStatus, Value: string(*p.ResidentialStatus)})
	}
	str(FieldResidentialStatusOther, p.ResidentialStatusOther)
	str(FieldResidingSince, p.ResidingSince)
	flag(FieldHasNextOfKin, p.HasNextOfKin)
	str(FieldNextOfKinName, p.NextOfKinName)
	str(FieldNextOfKinRelation, p.NextOfKinRelation)
	str(FieldNextOfKinCNIC, p.NextOfKinCNIC)
	str(FieldNextOfKinRelationship, p.NextOfKinRelationship)
	str(FieldNextOfKinContactNo, p.NextOfKinContactNo)
	str(FieldNextOfKinAddress, p.NextOfKinAddress)
	str(FieldNextOfKinEmail, p.NextOfKinEmail)
	flag(FieldInternetBanking, p.InternetBanking)
	flag(FieldMobileBanking, p.MobileBanking)
	flag(FieldCheckBook, p.CheckBook)
	flag(FieldSMSAlerts, p.SMSAlerts)
	if p.CardType != nil {
		out = append(out, Assignment{Field: FieldCardType, Value: string(*p.CardType)})
	}
	if p.CardNetwork != nil {
		out = append(out, Assignment{Field: FieldCardNetwork, Value: string(*p.CardNetwork)})
	}
	flag(FieldZakatDeduction, p.ZakatDeduction)
	return out
}

// Empty reports whether the patch sets no field.
func (p ApplicationPatch) Empty() bool {
	return len(p.Assignments()) == 0
}

// ApplyTo copies every set field of the patch onto a.
func (p ApplicationPatch) ApplyTo(a *Application) {
	setStr := func(dst **string, v *string) {
		if v != nil {
			s := *v
			*dst = &s
		}
	}
	setNum := func(dst **float64, v *float64) {
		if v != nil {
			f := *v
			*dst = &f
		}
	}
	setFlag := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}

	setStr(&a.Date, p.Date)
	setStr(&a.BranchCity, p.BranchCity)
	setStr(&a.BranchCode, p.BranchCode)
	setStr(&a.SBPCode, p.SBPCode)
	if p.AccountType != nil {
		a.AccountType = *p.AccountType
	}
	if p.TitleOfAccount != nil {
		a.TitleOfAccount = *p.TitleOfAccount
	}
	setStr(&a.NameOnCard, p.NameOnCard)
	if p.Name != nil {
		a.Name = *p.Name
	}
	setStr(&a.FathersHusbandsName, p.FathersHusbandsName)
	setStr(&a.MothersName, p.MothersName)
	if p.MaritalStatus != nil {
		a.MaritalStatus = *p.MaritalStatus
	}
	if p.Gender != nil {
		a.Gender = *p.Gender
	}
	setStr(&a.Nationality, p.Nationality)
	setStr(&a.PlaceOfBirth, p.PlaceOfBirth)
	setStr(&a.DateOfBirth, p.DateOfBirth)
	if p.CNICNo != nil {
		a.CNICNo = *p.CNICNo
	}
	setStr(&a.CNICExpiryDate, p.CNICExpiryDate)
	setStr(&a.HouseNoBlockStreet, p.HouseNoBlockStreet)
	setStr(&a.AreaLocation, p.AreaLocation)
	setStr(&a.City, p.City)
	setStr(&a.PostalCode, p.PostalCode)
	if p.Occupation != nil {
		a.Occupation = *p.Occupation
	}
	setStr(&a.OccupationOther, p.OccupationOther)
	setStr(&a.PurposeOfAccount, p.PurposeOfAccount)
	setStr(&a.SourceOfIncome, p.SourceOfIncome)
	setNum(&a.ExpectedMonthlyTurnoverDr, p.ExpectedMonthlyTurnoverDr)
	setNum(&a.ExpectedMonthlyTurnoverCr, p.ExpectedMonthlyTurnoverCr)
	if p.ResidentialStatus != nil {
		a.ResidentialStatus = *p.ResidentialStatus
	}
	setStr(&a.ResidentialStatusOther, p.ResidentialStatusOther)
	setStr(&a.ResidingSince, p.ResidingSince)
	setFlag(&a.HasNextOfKin, p.HasNextOfKin)
	setStr(&a.NextOfKinName, p.NextOfKinName)
	setStr(&a.NextOfKinRelation, p.NextOfKinRelation)
	setStr(&a.NextOfKinCNIC, p.NextOfKinCNIC)
	setStr(&a.NextOfKinRelationship, p.NextOfKinRelationship)
	setStr(&a.NextOfKinContactNo, p.NextOfKinContactNo)
	setStr(&a.NextOfKinAddress, p.NextOfKinAddress)
	setStr(&a.NextOfKinEmail, p.NextOfKinEmail)
	setFlag(&a.InternetBanking, p.InternetBanking)
	setFlag(&a.MobileBanking, p.MobileBanking)
	setFlag(&a.CheckBook, p.CheckBook)
	setFlag(&a.SMSAlerts, p.SMSAlerts)
	if p.CardType != nil {
		a.CardType = *p.CardType
	}
	if p.CardNetwork != nil {
		a.CardNetwork = *p.CardNetwork
	}
	setFlag(&a.ZakatDeduction, p.ZakatDeduction)
}
