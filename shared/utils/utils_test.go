package utils

import (
	"regexp"
	"testing"
)

var (
	accountNumberPattern = regexp.MustCompile(`^\d{12}$`)
	ibanPattern          = regexp.MustCompile(`^PK\d{18}$`)
)

func TestGenerateAccountNumber(t *testing.T) {
	for i := 0; i < 200; i++ {
		n, err := GenerateAccountNumber()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !accountNumberPattern.MatchString(n) {
			t.Fatalf("account number %q does not match %s", n, accountNumberPattern)
		}
		if !ValidateAccountNumber(n) {
			t.Fatalf("ValidateAccountNumber(%q) = false", n)
		}
	}
}

func TestGenerateIBAN(t *testing.T) {
	for i := 0; i < 200; i++ {
		iban, err := GenerateIBAN()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ibanPattern.MatchString(iban) {
			t.Fatalf("IBAN %q does not match %s", iban, ibanPattern)
		}
		if !ValidateIBAN(iban) {
			t.Fatalf("ValidateIBAN(%q) = false", iban)
		}
	}
}

func TestIdentifierGenerator(t *testing.T) {
	var g IdentifierGenerator
	n, err := g.AccountNumber()
	if err != nil || !ValidateAccountNumber(n) {
		t.Errorf("AccountNumber() = %q, %v", n, err)
	}
	iban, err := g.IBAN()
	if err != nil || !ValidateIBAN(iban) {
		t.Errorf("IBAN() = %q, %v", iban, err)
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name  string
		check func(string) bool
		input string
		want  bool
	}{
		{"account number ok", ValidateAccountNumber, "012345678901", true},
		{"account number short", ValidateAccountNumber, "01234567890", false},
		{"account number letters", ValidateAccountNumber, "01234567890a", false},
		{"iban ok", ValidateIBAN, "PK123456789012345678", true},
		{"iban wrong country", ValidateIBAN, "GB123456789012345678", false},
		{"iban too long", ValidateIBAN, "PK1234567890123456789", false},
		{"iban empty", ValidateIBAN, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.check(tt.input); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
