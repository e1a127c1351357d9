package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/eaglebank/onboarding/shared/models"
)

// Custom validator tags.
const (
	TagRequired    = "required"
	TagUppercase   = "uppercase"
	TagCNIC        = "cnic"
	TagDate        = "ddmmyy"
	TagDigits      = "digits"
	TagEmail       = "basic_email"
	TagAccountNo   = "account_no"
	TagIBAN        = "iban"
	TagNonNegative = "non_negative"
)

var patterns = map[string]*regexp.Regexp{
	TagCNIC:      regexp.MustCompile(`^\d{5}-\d{7}-\d{1}$`),
	TagDate:      regexp.MustCompile(`^\d{2} \d{2} \d{2}$`),
	TagDigits:    regexp.MustCompile(`^\d+$`),
	TagEmail:     regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`),
	TagAccountNo: regexp.MustCompile(`^\d{12}$`),
	TagIBAN:      regexp.MustCompile(`^[A-Z]{2}\d{18}$`),
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation(TagUppercase, func(fl validator.FieldLevel) bool {
		return IsUppercase(fl.Field().String())
	})
	for tag, re := range patterns {
		re := re
		_ = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		})
	}
	return v
}

// fieldTags binds each string field to its validator tag. Fields absent from
// the map carry no format rule.
var fieldTags = map[string]string{
	models.FieldTitleOfAccount:         TagRequired + "," + TagUppercase,
	models.FieldName:                   TagRequired + "," + TagUppercase,
	models.FieldNameOnCard:             TagUppercase,
	models.FieldFathersHusbandsName:    TagUppercase,
	models.FieldMothersName:            TagUppercase,
	models.FieldNationality:            TagUppercase,
	models.FieldPlaceOfBirth:           TagUppercase,
	models.FieldHouseNoBlockStreet:     TagUppercase,
	models.FieldAreaLocation:           TagUppercase,
	models.FieldCity:                   TagUppercase,
	models.FieldPurposeOfAccount:       TagUppercase,
	models.FieldSourceOfIncome:         TagUppercase,
	models.FieldNextOfKinName:          TagUppercase,
	models.FieldNextOfKinAddress:       TagUppercase,
	models.FieldOccupationOther:        TagUppercase,
	models.FieldResidentialStatusOther: TagUppercase,

	models.FieldCNICNo:        TagRequired + "," + TagCNIC,
	models.FieldNextOfKinCNIC: TagCNIC,

	models.FieldDate:           TagDate,
	models.FieldDateOfBirth:    TagDate,
	models.FieldCNICExpiryDate: TagDate,

	models.FieldPostalCode:         TagDigits,
	models.FieldNextOfKinContactNo: TagDigits,

	models.FieldNextOfKinEmail: TagEmail,

	models.FieldAccountNo: TagAccountNo,
	models.FieldIBAN:      TagIBAN,
}

var categoricalFields = map[string]bool{
	models.FieldAccountType:       true,
	models.FieldMaritalStatus:     true,
	models.FieldGender:            true,
	models.FieldOccupation:        true,
	models.FieldResidentialStatus: true,
	models.FieldCardType:          true,
	models.FieldCardNetwork:       true,
}

// Pattern returns the regular expression behind a format tag.
func Pattern(tag string) string {
	if re, ok := patterns[tag]; ok {
		return re.String()
	}
	return ""
}
