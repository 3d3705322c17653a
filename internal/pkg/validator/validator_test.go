package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("a"))
	assert.False(t, IsEmpty(" a "))
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"UPPER@EXAMPLE.COM", true},
		{"missing-at.example.com", false},
		{"user@", false},
		{"@example.com", false},
		{"user@example", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsValidEmail(tt.email), tt.email)
	}
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("0190cafe-1234-7abc-89de-0123456789ab"))
	assert.True(t, IsValidUUID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
	assert.True(t, IsValidUUID("F47AC10B-58CC-4372-A567-0E02B2C3D479"))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID("0190cafe12347abc89de0123456789ab"))
	assert.False(t, IsValidUUID(""))
}

func TestIsValidDate(t *testing.T) {
	_, ok := IsValidDate("2025-06-02")
	assert.True(t, ok)
	_, ok = IsValidDate("2025-02-30")
	assert.False(t, ok)
	_, ok = IsValidDate("02-06-2025")
	assert.False(t, ok)
	_, ok = IsValidDate("")
	assert.False(t, ok)
}

func TestIsValidEmployeeCode(t *testing.T) {
	assert.True(t, IsValidEmployeeCode("EMP-0042"))
	assert.True(t, IsValidEmployeeCode("A1"))
	assert.False(t, IsValidEmployeeCode("e"))
	assert.False(t, IsValidEmployeeCode("emp-0042"))
	assert.False(t, IsValidEmployeeCode("EMP 0042"))
}
