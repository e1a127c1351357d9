package validation

import (
	"fmt"

	"github.com/eaglebank/onboarding/shared/models"
)

// Error is implemented by every rejection the validator returns.
type Error interface {
	error
	Field() string
	Rule() string
}

// FieldFormatError reports a field that fails its format rule.
type FieldFormatError struct {
	FieldName string
	Tag       string
	Pattern   string
}

func (e *FieldFormatError) Error() string {
	if e.Pattern == "" {
		return fmt.Sprintf("%s: failed %s rule", e.FieldName, e.Tag)
	}
	return fmt.Sprintf("%s: must match %s", e.FieldName, e.Pattern)
}

func (e *FieldFormatError) Field() string { return e.FieldName }
func (e *FieldFormatError) Rule() string  { return e.Tag }

// FieldCaseError reports a free-text field containing lowercase characters.
type FieldCaseError struct {
	FieldName string
}

func (e *FieldCaseError) Error() string {
	return fmt.Sprintf("%s: must be in BLOCK LETTERS (uppercase only)", e.FieldName)
}

func (e *FieldCaseError) Field() string { return e.FieldName }
func (e *FieldCaseError) Rule() string  { return TagUppercase }

// CrossFieldConsistencyError reports a violated relationship between fields.
type CrossFieldConsistencyError struct {
	FieldName string
	Check     string
	Message   string
}

func (e *CrossFieldConsistencyError) Error() string { return e.Message }
func (e *CrossFieldConsistencyError) Field() string { return e.FieldName }
func (e *CrossFieldConsistencyError) Rule() string  { return e.Check }

// InvalidCategoryError reports a classification value outside its enumeration.
type InvalidCategoryError = models.InvalidCategoryError

// Cross-field rule names.
const (
	RuleTitleMatchesName    = "title_matches_name"
	RuleCardNameMatchesName = "card_name_matches_name"
	RuleNextOfKinComplete   = "next_of_kin_complete"
)

var (
	_ Error = (*FieldFormatError)(nil)
	_ Error = (*FieldCaseError)(nil)
	_ Error = (*CrossFieldConsistencyError)(nil)
	_ Error = (*InvalidCategoryError)(nil)
)
