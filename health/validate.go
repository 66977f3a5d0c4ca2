package health

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is wrapped by every ValidationError.
var ErrInvalidInput = errors.New("invalid health test input")

// Accepted ranges, matching the client form.
const (
	MinHeightCm = 100.0
	MaxHeightCm = 250.0
	MinWeightKg = 30.0
	MaxWeightKg = 300.0
	MinAgeYears = 10
	MaxAgeYears = 120
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// Validate checks an input before it reaches the engine. The compute
// functions themselves never reject anything.
func Validate(in Input) error {
	if IsNil(in) {
		return invalid("test_data", "missing")
	}
	switch v := in.(type) {
	case BMIInput:
		return firstErr(checkHeight(v.Height), checkWeight(v.Weight))
	case BMRInput:
		return firstErr(checkHeight(v.Height), checkWeight(v.Weight), checkAge(v.Age), checkSex(v.Gender))
	case TDEEInput:
		return firstErr(checkHeight(v.Height), checkWeight(v.Weight), checkAge(v.Age), checkSex(v.Gender),
			checkActivity(v.ActivityLevel))
	case IdealWeightInput:
		return firstErr(checkHeight(v.Height), checkSex(v.Gender))
	case *BMIInput:
		return Validate(*v)
	case *BMRInput:
		return Validate(*v)
	case *TDEEInput:
		return Validate(*v)
	case *IdealWeightInput:
		return Validate(*v)
	}
	return invalid("test_data", "unsupported input %T", in)
}

// CheckResult rejects results the engine produced from degenerate input.
func CheckResult(r Result) error {
	if math.IsNaN(r.ResultValue) || math.IsInf(r.ResultValue, 0) {
		return invalid("result_value", "not a finite number")
	}
	return nil
}

// IsNil reports a nil input, including a typed nil pointer.
func IsNil(in Input) bool {
	switch v := in.(type) {
	case nil:
		return true
	case *BMIInput:
		return v == nil
	case *BMRInput:
		return v == nil
	case *TDEEInput:
		return v == nil
	case *IdealWeightInput:
		return v == nil
	}
	return false
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func checkHeight(h float64) error {
	if math.IsNaN(h) || math.IsInf(h, 0) || h <= 0 {
		return invalid("height", "must be a positive number")
	}
	if h < MinHeightCm || h > MaxHeightCm {
		return invalid("height", "must be between %.0f and %.0f cm", MinHeightCm, MaxHeightCm)
	}
	return nil
}

func checkWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return invalid("weight", "must be a positive number")
	}
	if w < MinWeightKg || w > MaxWeightKg {
		return invalid("weight", "must be between %.0f and %.0f kg", MinWeightKg, MaxWeightKg)
	}
	return nil
}

func checkAge(a int) error {
	if a <= 0 {
		return invalid("age", "must be positive")
	}
	if a < MinAgeYears || a > MaxAgeYears {
		return invalid("age", "must be between %d and %d", MinAgeYears, MaxAgeYears)
	}
	return nil
}

func checkSex(s Sex) error {
	if s != Male && s != Female {
		return invalid("gender", "must be %q or %q", Male, Female)
	}
	return nil
}

func checkActivity(a ActivityLevel) error {
	if _, ok := a.Multiplier(); !ok {
		return invalid("activity_level", "unknown level %q", a)
	}
	return nil
}
