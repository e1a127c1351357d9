package repository

import (
	"database/sql"
	"strings"

	"github.com/eaglebank/onboarding/shared/models"
)

// column binds a table column to its Application field for both directions.
type column struct {
	name  string
	value func(a *models.Application) any
	dest  func(a *models.Application) any
}

func requiredText(name string, field func(a *models.Application) *string) column {
	return column{
		name:  name,
		value: func(a *models.Application) any { return *field(a) },
		dest:  func(a *models.Application) any { return field(a) },
	}
}

func optionalText(name string, field func(a *models.Application) **string) column {
	return column{
		name: name,
		value: func(a *models.Application) any {
			if v := *field(a); v != nil {
				return *v
			}
			return nil
		},
		dest: func(a *models.Application) any { return &textScanner{dst: field(a)} },
	}
}

func enumText[T ~string](name string, field func(a *models.Application) *T) column {
	return column{
		name: name,
		value: func(a *models.Application) any {
			if v := *field(a); v != "" {
				return string(v)
			}
			return nil
		},
		dest: func(a *models.Application) any { return &enumScanner[T]{dst: field(a)} },
	}
}

func amount(name string, field func(a *models.Application) **float64) column {
	return column{
		name: name,
		value: func(a *models.Application) any {
			if v := *field(a); v != nil {
				return *v
			}
			return nil
		},
		dest: func(a *models.Application) any { return &amountScanner{dst: field(a)} },
	}
}

func flag(name string, field func(a *models.Application) *bool) column {
	return column{
		name:  name,
		value: func(a *models.Application) any { return *field(a) },
		dest:  func(a *models.Application) any { return field(a) },
	}
}

// dataColumns are every writable column, in table order.
var dataColumns = []column{
	requiredText(models.FieldAccountNo, func(a *models.Application) *string { return &a.AccountNo }),
	optionalText(models.FieldDate, func(a *models.Application) **string { return &a.Date }),
	requiredText(models.FieldIBAN, func(a *models.Application) *string { return &a.IBAN }),
	optionalText(models.FieldBranchCity, func(a *models.Application) **string { return &a.BranchCity }),
	optionalText(models.FieldBranchCode, func(a *models.Application) **string { return &a.BranchCode }),
	optionalText(models.FieldSBPCode, func(a *models.Application) **string { return &a.SBPCode }),
	enumText(models.FieldAccountType, func(a *models.Application) *models.AccountType { return &a.AccountType }),
	requiredText(models.FieldTitleOfAccount, func(a *models.Application) *string { return &a.TitleOfAccount }),
	optionalText(models.FieldNameOnCard, func(a *models.Application) **string { return &a.NameOnCard }),

	requiredText(models.FieldName, func(a *models.Application) *string { return &a.Name }),
	optionalText(models.FieldFathersHusbandsName, func(a *models.Application) **string { return &a.FathersHusbandsName }),
	optionalText(models.FieldMothersName, func(a *models.Application) **string { return &a.MothersName }),
	enumText(models.FieldMaritalStatus, func(a *models.Application) *models.MaritalStatus { return &a.MaritalStatus }),
	enumText(models.FieldGender, func(a *models.Application) *models.Gender { return &a.Gender }),
	optionalText(models.FieldNationality, func(a *models.Application) **string { return &a.Nationality }),
	optionalText(models.FieldPlaceOfBirth, func(a *models.Application) **string { return &a.PlaceOfBirth }),
	optionalText(models.FieldDateOfBirth, func(a *models.Application) **string { return &a.DateOfBirth }),
	requiredText(models.FieldCNICNo, func(a *models.Application) *string { return &a.CNICNo }),
	optionalText(models.FieldCNICExpiryDate, func(a *models.Application) **string { return &a.CNICExpiryDate }),

	optionalText(models.FieldHouseNoBlockStreet, func(a *models.Application) **string { return &a.HouseNoBlockStreet }),
	optionalText(models.FieldAreaLocation, func(a *models.Application) **string { return &a.AreaLocation }),
	optionalText(models.FieldCity, func(a *models.Application) **string { return &a.City }),
	optionalText(models.FieldPostalCode, func(a *models.Application) **string { return &a.PostalCode }),

	enumText(models.FieldOccupation, func(a *models.Application) *models.Occupation { return &a.Occupation }),
	optionalText(models.FieldOccupationOther, func(a *models.Application) **string { return &a.OccupationOther }),

	optionalText(models.FieldPurposeOfAccount, func(a *models.Application) **string { return &a.PurposeOfAccount }),
	optionalText(models.FieldSourceOfIncome, func(a *models.Application) **string { return &a.SourceOfIncome }),
	amount(models.FieldExpectedMonthlyTurnoverDr, func(a *models.Application) **float64 { return &a.ExpectedMonthlyTurnoverDr }),
	amount(models.FieldExpectedMonthlyTurnoverCr, func(a *models.Application) **float64 { return &a.ExpectedMonthlyTurnoverCr }),

	enumText(models.FieldResidentialStatus, func(a *models.Application) *models.ResidentialStatus { return &a.ResidentialStatus }),
	optionalText(models.FieldResidentialStatusOther, func(a *models.Application) **string { return &a.ResidentialStatusOther }),
	optionalText(models.FieldResidingSince, func(a *models.Application) **string { return &a.ResidingSince }),

	flag(models.FieldHasNextOfKin, func(a *models.Application) *bool { return &a.HasNextOfKin }),
	optionalText(models.FieldNextOfKinName, func(a *models.Application) **string { return &a.NextOfKinName }),
	optionalText(models.FieldNextOfKinRelation, func(a *models.Application) **string { return &a.NextOfKinRelation }),
	optionalText(models.FieldNextOfKinCNIC, func(a *models.Application) **string { return &a.NextOfKinCNIC }),
	optionalText(models.FieldNextOfKinRelationship, func(a *models.Application) **string { return &a.NextOfKinRelationship }),
	optionalText(models.FieldNextOfKinContactNo, func(a *models.Application) **string { return &a.NextOfKinContactNo }),
	optionalText(models.FieldNextOfKinAddress, func(a *models.Application) **string { return &a.NextOfKinAddress }),
	optionalText(models.FieldNextOfKinEmail, func(a *models.Application) **string { return &a.NextOfKinEmail }),

	flag(models.FieldInternetBanking, func(a *models.Application) *bool { return &a.InternetBanking }),
	flag(models.FieldMobileBanking, func(a *models.Application) *bool { return &a.MobileBanking }),
	flag(models.FieldCheckBook, func(a *models.Application) *bool { return &a.CheckBook }),
	flag(models.FieldSMSAlerts, func(a *models.Application) *bool { return &a.SMSAlerts }),

	enumText(models.FieldCardType, func(a *models.Application) *models.CardType { return &a.CardType }),
	enumText(models.FieldCardNetwork, func(a *models.Application) *models.CardNetwork { return &a.CardNetwork }),

	flag(models.FieldZakatDeduction, func(a *models.Application) *bool { return &a.ZakatDeduction }),
}

var dataColumnNames = func() map[string]bool {
	out := make(map[string]bool, len(dataColumns))
	for _, c := range dataColumns {
		out[c.name] = true
	}
	return out
}()

// selectList is the column list every read selects, id first and timestamps last.
var selectList = func() string {
	names := make([]string, 0, len(dataColumns)+3)
	names = append(names, models.FieldID)
	for _, c := range dataColumns {
		names = append(names, c.name)
	}
	names = append(names, "created_at", "updated_at")
	return strings.Join(names, ", ")
}()

func scanDest(a *models.Application) []any {
	dest := make([]any, 0, len(dataColumns)+3)
	dest = append(dest, &a.ID)
	for _, c := range dataColumns {
		dest = append(dest, c.dest(a))
	}
	return append(dest, &a.CreatedAt, &a.UpdatedAt)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var a models.Application
	if err := row.Scan(scanDest(&a)...); err != nil {
		return nil, err
	}
	return &a, nil
}

func scanApplications(rows *sql.Rows) ([]models.Application, error) {
	defer rows.Close()
	var out []models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

type textScanner struct{ dst **string }

func (s *textScanner) Scan(src any) error {
	var ns sql.NullString
	if err := ns.Scan(src); err != nil {
		return err
	}
	if !ns.Valid {
		*s.dst = nil
		return nil
	}
	v := ns.String
	*s.dst = &v
	return nil
}

type enumScanner[T ~string] struct{ dst *T }

func (s *enumScanner[T]) Scan(src any) error {
	var ns sql.NullString
	if err := ns.Scan(src); err != nil {
		return err
	}
	*s.dst = T(ns.String)
	return nil
}

type amountScanner struct{ dst **float64 }

func (s *amountScanner) Scan(src any) error {
	var nf sql.NullFloat64
	if err := nf.Scan(src); err != nil {
		return err
	}
	if !nf.Valid {
		*s.dst = nil
		return nil
	}
	v := nf.Float64
	*s.dst = &v
	return nil
}
