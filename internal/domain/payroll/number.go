package payroll

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Number is a decimal that decodes leniently from JSON. Numbers and numeric
// strings keep their value; null, booleans, non-numeric strings, arrays and
// objects decode as zero. Decoding never fails.
//
// A Number remembers whether it was present in the decoded document, which is
// how partial updates tell "not sent" apart from "sent as 0".
type Number struct {
	value decimal.Decimal
	set   bool
}

// N returns a present Number holding d.
func N(d decimal.Decimal) Number {
	return Number{value: d, set: true}
}

// NInt returns a present Number holding v.
func NInt(v int64) Number {
	return N(decimal.NewFromInt(v))
}

// NStr parses s as a decimal, coercing bad input to zero.
func NStr(s string) Number {
	return N(parseLenient(s))
}

func (n Number) Decimal() decimal.Decimal { return n.value }

func (n Number) IsSet() bool { return n.set }

// Or returns the held value when present, otherwise fallback.
func (n Number) Or(fallback decimal.Decimal) decimal.Decimal {
	if n.set {
		return n.value
	}
	return fallback
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.value.String()), nil
}

func (n *Number) UnmarshalJSON(data []byte) error {
	n.set = true
	n.value = decimal.Zero

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		n.value = parseLenient(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		n.value = parseLenient(string(data))
	}
	return nil
}

func parseLenient(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
