// Package validation decides whether an account-opening application is well
// formed. Every function is pure and safe for concurrent use.
package validation

import (
	"errors"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/eaglebank/onboarding/shared/models"
)

// ValidateField checks a single raw value against the rule bound to field and
// returns the accepted value. Fields without a rule are accepted unchanged;
// an empty categorical value means "not given".
func ValidateField(field, raw string) (string, error) {
	if categoricalFields[field] {
		if raw == "" {
			return "", nil
		}
		return models.ParseCategory(field, raw)
	}

	tag, ok := fieldTags[field]
	if !ok {
		return raw, nil
	}
	if err := validate.Var(raw, tag); err != nil {
		return "", toFieldError(field, err)
	}
	return raw, nil
}

// ValidateAmount checks a declared turnover figure.
func ValidateAmount(field string, v float64) error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return &FieldFormatError{FieldName: field, Tag: TagNonNegative}
	}
	return nil
}

// ValidateIdentifiers checks system-generated identifiers before they are stored.
func ValidateIdentifiers(accountNo, iban string) error {
	if _, err := ValidateField(models.FieldAccountNo, accountNo); err != nil {
		return err
	}
	_, err := ValidateField(models.FieldIBAN, iban)
	return err
}

// ValidateRecord runs every field rule, then the cross-field rules in order:
// title equals name, card name equals name, next-of-kin completeness. The
// first failure is returned. On success the normalized copy is returned.
func ValidateRecord(candidate *models.Application) (*models.Application, error) {
	app := *candidate

	for _, f := range textFields(&app) {
		if f.value == nil {
			continue
		}
		if _, err := ValidateField(f.name, *f.value); err != nil {
			return nil, err
		}
	}
	for _, field := range categoricalOrder {
		if _, err := ValidateField(field, app.Category(field)); err != nil {
			return nil, err
		}
	}
	for _, field := range []string{models.FieldExpectedMonthlyTurnoverDr, models.FieldExpectedMonthlyTurnoverCr} {
		if v := app.Amount(field); v != nil {
			if err := ValidateAmount(field, *v); err != nil {
				return nil, err
			}
		}
	}

	if err := checkConsistency(&app); err != nil {
		return nil, err
	}

	app.HasNextOfKin = app.HasCompleteKin()
	return &app, nil
}

// ValidatePatch checks each field set by a partial update on its own. The
// cross-field rules are not re-evaluated.
func ValidatePatch(p models.ApplicationPatch) error {
	for _, a := range p.Assignments() {
		switch v := a.Value.(type) {
		case string:
			if _, err := ValidateField(a.Field, v); err != nil {
				return err
			}
		case float64:
			if err := ValidateAmount(a.Field, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkConsistency(app *models.Application) error {
	if app.TitleOfAccount != app.Name {
		return &CrossFieldConsistencyError{
			FieldName: models.FieldTitleOfAccount,
			Check:     RuleTitleMatchesName,
			Message:   "Account title and name must be identical",
		}
	}
	if app.NameOnCard != nil && *app.NameOnCard != app.Name {
		return &CrossFieldConsistencyError{
			FieldName: models.FieldNameOnCard,
			Check:     RuleCardNameMatchesName,
			Message:   "Card name must be identical to account name and title",
		}
	}
	if app.HasAnyKinInfo() {
		required := []struct {
			field string
			value *string
			label string
		}{
			{models.FieldNextOfKinName, app.NextOfKinName, "name"},
			{models.FieldNextOfKinRelation, app.NextOfKinRelation, "relation"},
			{models.FieldNextOfKinCNIC, app.NextOfKinCNIC, "CNIC"},
		}
		for _, r := range required {
			if !models.Present(r.value) {
				return &CrossFieldConsistencyError{
					FieldName: r.field,
					Check:     RuleNextOfKinComplete,
					Message:   "Next of kin " + r.label + " is required when providing next of kin information",
				}
			}
		}
	}
	return nil
}

var categoricalOrder = []string{
	models.FieldAccountType,
	models.FieldMaritalStatus,
	models.FieldGender,
	models.FieldOccupation,
	models.FieldResidentialStatus,
	models.FieldCardType,
	models.FieldCardNetwork,
}

type textField struct {
	name  string
	value *string
}

func textFields(a *models.Application) []textField {
	fields := []textField{
		{models.FieldDate, a.Date},
		{models.FieldTitleOfAccount, &a.TitleOfAccount},
		{models.FieldNameOnCard, a.NameOnCard},
		{models.FieldName, &a.Name},
		{models.FieldFathersHusbandsName, a.FathersHusbandsName},
		{models.FieldMothersName, a.MothersName},
		{models.FieldNationality, a.Nationality},
		{models.FieldPlaceOfBirth, a.PlaceOfBirth},
		{models.FieldDateOfBirth, a.DateOfBirth},
		{models.FieldCNICNo, &a.CNICNo},
		{models.FieldCNICExpiryDate, a.CNICExpiryDate},
		{models.FieldHouseNoBlockStreet, a.HouseNoBlockStreet},
		{models.FieldAreaLocation, a.AreaLocation},
		{models.FieldCity, a.City},
		{models.FieldPostalCode, a.PostalCode},
		{models.FieldOccupationOther, a.OccupationOther},
		{models.FieldPurposeOfAccount, a.PurposeOfAccount},
		{models.FieldSourceOfIncome, a.SourceOfIncome},
		{models.FieldResidentialStatusOther, a.ResidentialStatusOther},
		{models.FieldNextOfKinName, a.NextOfKinName},
		{models.FieldNextOfKinCNIC, a.NextOfKinCNIC},
		{models.FieldNextOfKinContactNo, a.NextOfKinContactNo},
		{models.FieldNextOfKinAddress, a.NextOfKinAddress},
		{models.FieldNextOfKinEmail, a.NextOfKinEmail},
	}
	// identifiers are only present on stored records
	if a.AccountNo != "" {
		fields = append(fields, textField{models.FieldAccountNo, &a.AccountNo})
	}
	if a.IBAN != "" {
		fields = append(fields, textField{models.FieldIBAN, &a.IBAN})
	}
	return fields
}

func toFieldError(field string, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &FieldFormatError{FieldName: field, Tag: "invalid"}
	}
	tag := verrs[0].Tag()
	if tag == TagUppercase {
		return &FieldCaseError{FieldName: field}
	}
	return &FieldFormatError{FieldName: field, Tag: tag, Pattern: Pattern(tag)}
}

// IsUppercase reports whether s equals its own uppercase transform.
func IsUppercase(s string) bool {
	return s == strings.ToUpper(s)
}
