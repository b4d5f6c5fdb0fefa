package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOTP(t *testing.T) {
	otp := GenerateOTP()
	assert.Len(t, otp, 6)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), otp)
}

func TestGenerateAccountNumber(t *testing.T) {
	number := GenerateAccountNumber()
	assert.Regexp(t, regexp.MustCompile(`^\d{12}$`), number)
}

func TestGenerateReferenceNumber(t *testing.T) {
	ref := GenerateReferenceNumber("TXN")
	assert.True(t, strings.HasPrefix(ref, "TXN"))
	assert.Len(t, ref, 15)

	// References must not collide across calls
	assert.NotEqual(t, ref, GenerateReferenceNumber("TXN"))
}

func TestCalculateEMI(t *testing.T) {
	// 1 lakh at 8.5% over 60 months
	emi := CalculateEMI(100000, 8.5, 60)
	assert.InDelta(t, 2051.65, emi, 0.5)

	// Zero interest splits the principal evenly
	assert.InDelta(t, 10000, CalculateEMI(120000, 0, 12), 0.001)

	// Degenerate inputs
	assert.Equal(t, 0.0, CalculateEMI(0, 8.5, 60))
	assert.Equal(t, 0.0, CalculateEMI(100000, 8.5, 0))
}
