package models

// AnalysisResult is the structured answer of the vision model. JSON names
// follow the browser client's types.
type AnalysisResult struct {
	IsFood      bool       `json:"isFood"`
	Reason      *string    `json:"reason,omitempty"`
	DishName    *string    `json:"dishName,omitempty"`
	Ingredients []string   `json:"ingredients,omitempty"`
	Nutrition   *Nutrition `json:"nutrition,omitempty"`
	Recipe      *Recipe    `json:"recipe,omitempty"`
	Uncertainty *string    `json:"uncertainty,omitempty"`
}

type Nutrition struct {
	Calories      string `json:"calories"`
	Protein       string `json:"protein"`
	Carbohydrates string `json:"carbohydrates"`
	Fat           string `json:"fat"`
}

type Recipe struct {
	Difficulty string   `json:"difficulty"`
	CookTime   string   `json:"cookTime"`
	Steps      []string `json:"steps"`
}
