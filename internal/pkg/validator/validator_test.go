package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"a", false},
		{"  a  ", false},
	}

	for _, tt := range tests {
		if got := IsEmpty(tt.input); got != tt.expected {
			t.Errorf("IsEmpty(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email    string
		expected bool
	}{
		{"user@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"user@example", false},
		{"@example.com", false},
		{"user@.com", false},
		{"", false},
		{"plainaddress", false},
	}

	for _, tt := range tests {
		if got := IsValidEmail(tt.email); got != tt.expected {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.expected)
		}
	}
}

func TestIsNumeric(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"12345", true},
		{"0", true},
		{"", false},
		{"12a45", false},
		{"-123", false},
		{"1.5", false},
	}

	for _, tt := range tests {
		if got := IsNumeric(tt.input); got != tt.expected {
			t.Errorf("IsNumeric(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"2026-03-09", true},
		{"2026-02-29", false},
		{"2026-13-01", false},
		{"09-03-2026", false},
		{"2026-3-9", false},
		{"", false},
	}

	for _, tt := range tests {
		if _, ok := IsValidDate(tt.input); ok != tt.expected {
			t.Errorf("IsValidDate(%q) ok = %v, want %v", tt.input, ok, tt.expected)
		}
	}

	parsed, ok := IsValidDate("2026-03-09")
	if !ok {
		t.Fatal("expected 2026-03-09 to parse")
	}
	if want := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC); !parsed.Equal(want) {
		t.Errorf("IsValidDate parsed %v, want %v", parsed, want)
	}
}

func TestIsValidEmployeeCode(t *testing.T) {
	tests := []struct {
		code     string
		expected bool
	}{
		{"EMP-0042", true},
		{"HR-0001", true},
		{"MGMT-1234", true},
		{"emp-0042", false},
		{"E-0042", false},
		{"EMPLO-0042", false},
		{"EMP-42", false},
		{"EMP0042", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsValidEmployeeCode(tt.code); got != tt.expected {
			t.Errorf("IsValidEmployeeCode(%q) = %v, want %v", tt.code, got, tt.expected)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"employee", "manager", "ceo"}

	tests := []struct {
		value    string
		expected bool
	}{
		{"employee", true},
		{"ceo", true},
		{"admin", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsInSlice(tt.value, slice); got != tt.expected {
			t.Errorf("IsInSlice(%q) = %v, want %v", tt.value, got, tt.expected)
		}
	}
}
