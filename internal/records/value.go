package records

import "strconv"

// Value is one table cell. The loader normalizes digit-only cells to
// integers; everything else stays a string. Blank cells are empty-string
// values, never absent keys, so callers can always compare and render
// without nil checks.
type Value struct {
	str     string
	num     int64
	numeric bool
}

// ParseValue builds a Value from a raw CSV cell, normalizing digit-only
// strings to integers. A cell like "007" is numeric 7; "1Z999" stays a
// string; "" stays a blank string value.
func ParseValue(raw string) Value {
	if raw != "" && allDigits(raw) {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
			return Value{num: n, numeric: true}
		}
		// Overflows int64: keep the digits as a string.
	}
	return Value{str: raw}
}

// IntValue builds a numeric Value. Used for configured key constants such
// as the large-partner sentinel code.
func IntValue(n int64) Value {
	return Value{num: n, numeric: true}
}

// StringValue builds a string Value.
func StringValue(s string) Value {
	return Value{str: s}
}

// String renders the cell for display or template insertion. Numeric
// cells render in base 10.
func (v Value) String() string {
	if v.numeric {
		return strconv.FormatInt(v.num, 10)
	}
	return v.str
}

// Int returns the numeric value and true when the cell was normalized to
// an integer at load time.
func (v Value) Int() (int64, bool) {
	return v.num, v.numeric
}

// IsBlank reports whether the cell was empty in the source file.
func (v Value) IsBlank() bool {
	return !v.numeric && v.str == ""
}

// Equal reports key equality. A numeric cell never equals a string cell:
// normalization happens once at load, so both sides of any legitimate
// join have already agreed on a representation.
func (v Value) Equal(o Value) bool {
	if v.numeric != o.numeric {
		return false
	}
	if v.numeric {
		return v.num == o.num
	}
	return v.str == o.str
}

// Less orders values for the batch's ascending slip-ID walk: numeric
// cells ascend first, string cells follow lexicographically.
func (v Value) Less(o Value) bool {
	if v.numeric != o.numeric {
		return v.numeric
	}
	if v.numeric {
		return v.num < o.num
	}
	return v.str < o.str
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
