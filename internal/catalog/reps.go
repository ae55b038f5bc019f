package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidReps is returned when a repetition prescription cannot be parsed.
var ErrInvalidReps = errors.New("invalid reps")

// Reps is a repetition prescription: a fixed count ("12"), an inclusive range ("8-12")
// or a timed hold ("45 sec", "5 min"). Timed values carry a Unit.
type Reps struct {
	Min  int
	Max  int
	Unit string
}

// Count returns a fixed repetition count.
func Count(n int) Reps {
	return Reps{Min: n, Max: n, Unit: ""}
}

// Range returns an inclusive repetition range.
func Range(lo, hi int) Reps {
	return Reps{Min: lo, Max: hi, Unit: ""}
}

// Timed returns a hold or interval of n units, e.g. Timed(5, "min").
func Timed(n int, unit string) Reps {
	return Reps{Min: n, Max: n, Unit: unit}
}

// ParseReps parses the textual form produced by String.
func ParseReps(s string) (Reps, error) {
	s = strings.TrimSpace(s)
	var r Reps
	if num, unit, ok := strings.Cut(s, " "); ok {
		r.Unit = strings.TrimSpace(unit)
		s = num
	}
	lo, hi, isRange := strings.Cut(s, "-")
	var err error
	if r.Min, err = strconv.Atoi(lo); err != nil {
		return Reps{}, fmt.Errorf("%w: %q", ErrInvalidReps, s)
	}
	r.Max = r.Min
	if isRange {
		if r.Max, err = strconv.Atoi(hi); err != nil {
			return Reps{}, fmt.Errorf("%w: %q", ErrInvalidReps, s)
		}
	}
	if !r.Valid() {
		return Reps{}, fmt.Errorf("%w: %q", ErrInvalidReps, s)
	}
	return r, nil
}

// MustParseReps is like ParseReps but panics on invalid input. Use it for static data only.
func MustParseReps(s string) Reps {
	r, err := ParseReps(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Valid reports whether the prescription is a positive count or a non-empty range.
func (r Reps) Valid() bool {
	return r.Min >= 1 && r.Max >= r.Min
}

// IsRange reports whether the prescription is an untimed range.
func (r Reps) IsRange() bool {
	return r.Unit == "" && r.Max > r.Min
}

// IsTimed reports whether the prescription is a duration rather than a count.
func (r Reps) IsTimed() bool {
	return r.Unit != ""
}

func (r Reps) String() string {
	s := strconv.Itoa(r.Min)
	if r.Max != r.Min {
		s += "-" + strconv.Itoa(r.Max)
	}
	if r.Unit != "" {
		s += " " + r.Unit
	}
	return s
}

func (r Reps) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidReps, r)
	}
	return []byte(r.String()), nil
}

func (r *Reps) UnmarshalText(text []byte) error {
	parsed, err := ParseReps(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
