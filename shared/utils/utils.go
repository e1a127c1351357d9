package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	AccountNumberLength = 12
	IBANCountryCode     = "PK"
	IBANDigits          = 18
)

// randomDigits returns n decimal digits read from crypto/rand.
func randomDigits(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to read random digit: %w", err)
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}

// GenerateAccountNumber generates a 12-digit account number
func GenerateAccountNumber() (string, error) {
	return randomDigits(AccountNumberLength)
}

// GenerateIBAN generates a PK-prefixed IBAN with 18 digits
func GenerateIBAN() (string, error) {
	digits, err := randomDigits(IBANDigits)
	if err != nil {
		return "", err
	}
	return IBANCountryCode + digits, nil
}

// IdentifierGenerator issues random account numbers and IBANs. Uniqueness is
// left to the store.
type IdentifierGenerator struct{}

func (IdentifierGenerator) AccountNumber() (string, error) { return GenerateAccountNumber() }

func (IdentifierGenerator) IBAN() (string, error) { return GenerateIBAN() }

// ValidateAccountNumber validates the account number format
func ValidateAccountNumber(accountNumber string) bool {
	return len(accountNumber) == AccountNumberLength && allDigits(accountNumber)
}

// ValidateIBAN validates the generated IBAN format
func ValidateIBAN(iban string) bool {
	return len(iban) == len(IBANCountryCode)+IBANDigits &&
		strings.HasPrefix(iban, IBANCountryCode) &&
		allDigits(iban[len(IBANCountryCode):])
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
