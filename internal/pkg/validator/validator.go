package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Numeric validation
var numericRegex = regexp.MustCompile(`^[0-9]+$`)

func IsNumeric(s string) bool {
	return numericRegex.MatchString(s)
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse("2006-01-02", dateStr)
	return date, err == nil
}

var monthRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// IsValidMonth checks a "YYYY-MM" payroll month.
func IsValidMonth(month string) bool {
	return monthRegex.MatchString(month)
}

// IsValidIndianPhone accepts a 10 digit mobile number starting with 6-9,
// optionally prefixed with +91, 91 or 0.
func IsValidIndianPhone(phone string) bool {
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")

	switch {
	case strings.HasPrefix(phone, "+91"):
		phone = phone[3:]
	case len(phone) == 12 && strings.HasPrefix(phone, "91"):
		phone = phone[2:]
	case len(phone) == 11 && strings.HasPrefix(phone, "0"):
		phone = phone[1:]
	}

	if len(phone) != 10 || !IsNumeric(phone) {
		return false
	}
	return phone[0] >= '6' && phone[0] <= '9'
}

// IFSC: 4 letter bank code, a literal 0, 6 character branch code.
var ifscRegex = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

func IsValidIFSC(ifsc string) bool {
	return ifscRegex.MatchString(ifsc)
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
