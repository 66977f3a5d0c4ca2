package main

import (
	"bytes"
	"testing"

	"foodlens/health"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCalc(t *testing.T) {
	var buf bytes.Buffer
	err := runCalc(&buf, "tdee", calcFlags{height: 170, weight: 70, age: 30, sex: "male", activity: "moderate"})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"test_type": "tdee",
		"test_data": {"height": 170, "weight": 70, "age": 30, "gender": "male", "activity_level": "moderate"},
		"result_value": 2507,
		"result_category": "moderate"
	}`, buf.String())
}

func TestRunCalcStrict(t *testing.T) {
	var buf bytes.Buffer
	f := calcFlags{height: 90, weight: 70}

	require.NoError(t, runCalc(&buf, "bmi", f))

	f.strict = true
	err := runCalc(&buf, "bmi", f)
	assert.ErrorIs(t, err, health.ErrInvalidInput)
}

func TestRunCalcRejectsNonFinite(t *testing.T) {
	var buf bytes.Buffer
	err := runCalc(&buf, "bmi", calcFlags{height: 0, weight: 70})
	assert.ErrorIs(t, err, health.ErrInvalidInput)
	assert.Empty(t, buf.String())

	assert.Error(t, runCalc(&buf, "body_fat", calcFlags{}))
}

func TestCalcCommand(t *testing.T) {
	cmd := calcCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"ideal_weight", "--height", "180", "--sex", "male"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), `"result_value": 72.6`)
}
