package health

import "math"

const (
	categoryCalculated = "Calculated"
	categoryIdeal      = "Ideal"
)

// ComputeBMI expects height in centimeters and weight in kilograms.
func ComputeBMI(heightCm, weightKg float64) Result {
	h := heightCm / 100.0 // to meters
	bmi := weightKg / (h * h)

	return Result{
		TestType:       TestBMI,
		TestData:       BMIInput{Height: heightCm, Weight: weightKg},
		ResultValue:    Round(bmi, 2),
		ResultCategory: BMICategory(bmi),
	}
}

// BMICategory classifies an unrounded BMI. Bracket lower bounds are inclusive.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25.0:
		return "Normal"
	case bmi < 30.0:
		return "Overweight"
	default:
		return "Obese"
	}
}

// mifflinStJeor is the unrounded basal metabolic rate shared by BMR and TDEE.
func mifflinStJeor(heightCm, weightKg float64, ageYears int, sex Sex) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if sex == Male {
		return bmr + 5
	}
	return bmr - 161
}

func ComputeBMR(heightCm, weightKg float64, ageYears int, sex Sex) Result {
	bmr := mifflinStJeor(heightCm, weightKg, ageYears, sex)

	return Result{
		TestType:       TestBMR,
		TestData:       BMRInput{Height: heightCm, Weight: weightKg, Age: ageYears, Gender: sex},
		ResultValue:    Round(bmr, 0),
		ResultCategory: categoryCalculated,
	}
}

// ComputeTDEE scales the BMR by the activity multiplier. An unknown level
// has no multiplier and yields NaN.
func ComputeTDEE(heightCm, weightKg float64, ageYears int, sex Sex, level ActivityLevel) Result {
	bmr := mifflinStJeor(heightCm, weightKg, ageYears, sex)

	mult, ok := level.Multiplier()
	if !ok {
		mult = math.NaN()
	}

	return Result{
		TestType: TestTDEE,
		TestData: TDEEInput{
			Height:        heightCm,
			Weight:        weightKg,
			Age:           ageYears,
			Gender:        sex,
			ActivityLevel: level,
		},
		ResultValue:    Round(bmr*mult, 0),
		ResultCategory: string(level),
	}
}

// ComputeIdealWeight uses the Robinson formula on height in inches.
func ComputeIdealWeight(heightCm float64, sex Sex) Result {
	heightIn := heightCm / 2.54

	var ideal float64
	if sex == Male {
		ideal = 52 + 1.9*(heightIn-60)
	} else {
		ideal = 49 + 1.7*(heightIn-60)
	}

	return Result{
		TestType:       TestIdealWeight,
		TestData:       IdealWeightInput{Height: heightCm, Gender: sex},
		ResultValue:    Round(ideal, 1),
		ResultCategory: categoryIdeal,
	}
}

// Compute runs the test matching the concrete input type.
func Compute(in Input) Result {
	switch v := in.(type) {
	case BMIInput:
		return ComputeBMI(v.Height, v.Weight)
	case BMRInput:
		return ComputeBMR(v.Height, v.Weight, v.Age, v.Gender)
	case TDEEInput:
		return ComputeTDEE(v.Height, v.Weight, v.Age, v.Gender, v.ActivityLevel)
	case IdealWeightInput:
		return ComputeIdealWeight(v.Height, v.Gender)
	case *BMIInput:
		if v != nil {
			return Compute(*v)
		}
	case *BMRInput:
		if v != nil {
			return Compute(*v)
		}
	case *TDEEInput:
		if v != nil {
			return Compute(*v)
		}
	case *IdealWeightInput:
		if v != nil {
			return Compute(*v)
		}
	}
	panic("health: unsupported or nil input")
}

// Round rounds half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
