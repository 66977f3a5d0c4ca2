package main

import (
	"encoding/json"
	"fmt"
	"io"

	"foodlens/health"

	"github.com/spf13/cobra"
)

type calcFlags struct {
	height   float64
	weight   float64
	age      int
	sex      string
	activity string
	strict   bool
}

func calcCmd() *cobra.Command {
	var f calcFlags

	cmd := &cobra.Command{
		Use:       "calc <bmi|bmr|tdee|ideal_weight>",
		Short:     "Compute a health test and print the result as JSON",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bmi", "bmr", "tdee", "ideal_weight"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd.OutOrStdout(), args[0], f)
		},
	}

	cmd.Flags().Float64Var(&f.height, "height", 0, "height in cm")
	cmd.Flags().Float64Var(&f.weight, "weight", 0, "weight in kg")
	cmd.Flags().IntVar(&f.age, "age", 0, "age in years")
	cmd.Flags().StringVar(&f.sex, "sex", string(health.Female), "male or female")
	cmd.Flags().StringVar(&f.activity, "activity", string(health.Sedentary), "activity level for tdee")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "reject values outside the accepted input ranges")
	return cmd
}

func (f calcFlags) input(t health.TestType) health.Input {
	sex := health.Sex(f.sex)
	switch t {
	case health.TestBMI:
		return health.BMIInput{Height: f.height, Weight: f.weight}
	case health.TestBMR:
		return health.BMRInput{Height: f.height, Weight: f.weight, Age: f.age, Gender: sex}
	case health.TestTDEE:
		return health.TDEEInput{Height: f.height, Weight: f.weight, Age: f.age, Gender: sex,
			ActivityLevel: health.ActivityLevel(f.activity)}
	default:
		return health.IdealWeightInput{Height: f.height, Gender: sex}
	}
}

func runCalc(w io.Writer, testType string, f calcFlags) error {
	t, err := health.ParseTestType(testType)
	if err != nil {
		return err
	}

	in := f.input(t)
	if f.strict {
		if err := health.Validate(in); err != nil {
			return err
		}
	}

	result := health.Compute(in)
	if err := health.CheckResult(result); err != nil {
		return fmt.Errorf("%s: %w", t, err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
