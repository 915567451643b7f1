package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexNumber is a numeric request value that may arrive as a JSON number or a string.
// The raw JSON is kept so the value can be echoed back unchanged; conversion happens
// only when the value is written to the store.
type FlexNumber struct {
	raw json.RawMessage
}

func NewFlexNumber(raw string) *FlexNumber {
	return &FlexNumber{raw: json.RawMessage(raw)}
}

func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	n.raw = append(n.raw[:0], data...)
	return nil
}

func (n FlexNumber) MarshalJSON() ([]byte, error) {
	if len(n.raw) == 0 {
		return []byte("null"), nil
	}
	return n.raw, nil
}

// Float64 converts the value the way a float() cast would: numbers and numeric strings.
func (n *FlexNumber) Float64() (float64, error) {
	d, err := n.decimal()
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

var (
	minColumnInt = decimal.NewFromInt(math.MinInt32)
	maxColumnInt = decimal.NewFromInt(math.MaxInt32)
)

// Int converts JSON numbers by truncation and strings only when they hold an integer literal.
// The result must fit a 32-bit integer column.
func (n *FlexNumber) Int() (int, error) {
	var d decimal.Decimal
	if s, ok := n.stringValue(); ok {
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid literal for int: %q", s)
		}
		d = decimal.NewFromInt(v)
	} else {
		var err error
		if d, err = n.decimal(); err != nil {
			return 0, err
		}
		d = d.Truncate(0)
	}
	if d.LessThan(minColumnInt) || d.GreaterThan(maxColumnInt) {
		return 0, fmt.Errorf("integer out of range: %s", n.String())
	}
	return int(d.IntPart()), nil
}

func (n *FlexNumber) String() string {
	if s, ok := n.stringValue(); ok {
		return s
	}
	return string(n.raw)
}

func (n *FlexNumber) decimal() (decimal.Decimal, error) {
	if s, ok := n.stringValue(); ok {
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return decimal.Zero, fmt.Errorf("could not convert string to float: %q", s)
		}
		return d, nil
	}

	trimmed := bytes.TrimSpace(n.raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return decimal.Zero, fmt.Errorf("numeric value required, got null")
	}

	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err != nil {
		return decimal.Zero, fmt.Errorf("numeric value required, got %s", trimmed)
	}
	return decimal.NewFromString(num.String())
}

func (n *FlexNumber) stringValue() (string, bool) {
	trimmed := bytes.TrimSpace(n.raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}
