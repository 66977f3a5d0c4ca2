// Package health computes body metrics (BMI, BMR, TDEE, ideal weight) from
// anthropometric input. Every function is pure and safe for concurrent use.
package health

import (
	"encoding/json"
	"fmt"
)

type TestType string

const (
	TestBMI         TestType = "bmi"
	TestBMR         TestType = "bmr"
	TestTDEE        TestType = "tdee"
	TestIdealWeight TestType = "ideal_weight"
)

// TestTypes lists the supported tests in display order.
var TestTypes = []TestType{TestBMI, TestBMR, TestTDEE, TestIdealWeight}

func ParseTestType(s string) (TestType, error) {
	for _, t := range TestTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown test type %q", s)
}

type Sex string

const (
	Male   Sex = "male"
	Female Sex = "female"
)

type ActivityLevel string

const (
	Sedentary  ActivityLevel = "sedentary"
	Light      ActivityLevel = "light"
	Moderate   ActivityLevel = "moderate"
	Active     ActivityLevel = "active"
	VeryActive ActivityLevel = "very_active"
)

// activityMultipliers are the TDEE scale factors per activity level.
var activityMultipliers = map[ActivityLevel]float64{
	Sedentary:  1.2,
	Light:      1.375,
	Moderate:   1.55,
	Active:     1.725,
	VeryActive: 1.9,
}

// Multiplier returns the TDEE multiplier for the level.
func (a ActivityLevel) Multiplier() (float64, bool) {
	m, ok := activityMultipliers[a]
	return m, ok
}

// Input is one of BMIInput, BMRInput, TDEEInput or IdealWeightInput. The
// record doubles as the echo stored next to a result.
type Input interface {
	TestType() TestType
	isInput()
}

type BMIInput struct {
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

type BMRInput struct {
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
	Age    int     `json:"age"`
	Gender Sex     `json:"gender"`
}

type TDEEInput struct {
	Height        float64       `json:"height"`
	Weight        float64       `json:"weight"`
	Age           int           `json:"age"`
	Gender        Sex           `json:"gender"`
	ActivityLevel ActivityLevel `json:"activity_level"`
}

type IdealWeightInput struct {
	Height float64 `json:"height"`
	Gender Sex     `json:"gender"`
}

func (BMIInput) TestType() TestType         { return TestBMI }
func (BMRInput) TestType() TestType         { return TestBMR }
func (TDEEInput) TestType() TestType        { return TestTDEE }
func (IdealWeightInput) TestType() TestType { return TestIdealWeight }

func (BMIInput) isInput()         {}
func (BMRInput) isInput()         {}
func (TDEEInput) isInput()        {}
func (IdealWeightInput) isInput() {}

// Result is the outcome of a single test. Field names match the stored
// health_tests record.
type Result struct {
	TestType       TestType `json:"test_type"`
	TestData       Input    `json:"test_data"`
	ResultValue    float64  `json:"result_value"`
	ResultCategory string   `json:"result_category"`
}

// UnmarshalJSON decodes test_data into the concrete input for test_type.
func (r *Result) UnmarshalJSON(b []byte) error {
	var raw struct {
		TestType       TestType        `json:"test_type"`
		TestData       json.RawMessage `json:"test_data"`
		ResultValue    float64         `json:"result_value"`
		ResultCategory string          `json:"result_category"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	in, err := DecodeInput(raw.TestType, raw.TestData)
	if err != nil {
		return err
	}
	*r = Result{
		TestType:       raw.TestType,
		TestData:       in,
		ResultValue:    raw.ResultValue,
		ResultCategory: raw.ResultCategory,
	}
	return nil
}

// DecodeInput parses a test_data document for the given test type.
func DecodeInput(t TestType, data []byte) (Input, error) {
	var (
		in  Input
		err error
	)
	switch t {
	case TestBMI:
		var v BMIInput
		err = json.Unmarshal(data, &v)
		in = v
	case TestBMR:
		var v BMRInput
		err = json.Unmarshal(data, &v)
		in = v
	case TestTDEE:
		var v TDEEInput
		err = json.Unmarshal(data, &v)
		in = v
	case TestIdealWeight:
		var v IdealWeightInput
		err = json.Unmarshal(data, &v)
		in = v
	default:
		return nil, fmt.Errorf("unknown test type %q", t)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s test data: %w", t, err)
	}
	return in, nil
}
