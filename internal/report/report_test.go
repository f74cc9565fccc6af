package report

import (
	"encoding/json"
	"strings"
	"testing"

	"meal-agent/internal/planner"
)

const samplePlan = `{
	"daily_meals": {
		"Monday": {
			"name": "Lentil Curry",
			"ingredients_owned": ["lentils", "rice"],
			"ingredients_needed": ["coconut milk"],
			"prep_time_minutes": 30,
			"instructions": "Simmer lentils with spices.",
			"estimated_cost": 4.50
		},
		"Friday": {
			"name": "Pizza Night",
			"ingredients_owned": [],
			"ingredients_needed": [],
			"prep_time_minutes": 0,
			"instructions": "Eating out.",
			"estimated_cost": 0
		}
	},
	"shopping_list": {
		"Produce": ["spinach", "onions"],
		"Dairy": ["coconut milk"]
	},
	"inventory_usage_percent": 72.5,
	"variety_score": 80,
	"total_estimated_cost": 45.30,
	"reasoning": "Prioritized pantry staples."
}`

func TestFormatPlan(t *testing.T) {
	out, err := FormatPlan(json.RawMessage(samplePlan))
	if err != nil {
		t.Fatalf("FormatPlan failed: %v", err)
	}

	for _, want := range []string{
		"Monday: Lentil Curry",
		"Friday: Pizza Night",
		"From inventory: lentils, rice",
		"Need to buy: coconut milk",
		"Produce:",
		"- spinach",
		"Inventory Usage: 72.5%",
		"Total Estimated Cost: $45.30",
		"Prioritized pantry staples.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output is missing %q\n%s", want, out)
		}
	}

	// Monday comes before Friday regardless of map iteration order
	if strings.Index(out, "Monday") > strings.Index(out, "Friday") {
		t.Error("days should be in weekday order")
	}
	// Categories sort alphabetically
	if strings.Index(out, "Dairy") > strings.Index(out, "Produce") {
		t.Error("shopping categories should be sorted")
	}
}

func TestFormatPlanInvalidPayload(t *testing.T) {
	if _, err := FormatPlan(json.RawMessage(`"just a string"`)); err == nil {
		t.Fatal("expected error for a payload with the wrong shape")
	}
}

func TestFormatIterationSummary(t *testing.T) {
	evals := []planner.Evaluation{
		{
			InventoryOptimization: planner.CriterionScore{Score: 60},
			NutritionalVariety:    planner.CriterionScore{Score: 60},
			Practicality:          planner.CriterionScore{Score: 60},
			CostEfficiency:        planner.CriterionScore{Score: 60},
			PreferenceAlignment:   planner.CriterionScore{Score: 60},
			OverallScore:          60,
		},
		{
			InventoryOptimization: planner.CriterionScore{Score: 90},
			NutritionalVariety:    planner.CriterionScore{Score: 90},
			Practicality:          planner.CriterionScore{Score: 90},
			CostEfficiency:        planner.CriterionScore{Score: 90},
			PreferenceAlignment:   planner.CriterionScore{Score: 90},
			OverallScore:          90,
		},
	}

	out := FormatIterationSummary(evals)

	if !strings.Contains(out, "Total Improvement: +30.0 points") {
		t.Errorf("expected improvement line, got:\n%s", out)
	}
	if !strings.Contains(out, "OVERALL") {
		t.Error("expected header row")
	}
}

func TestFormatPlanMarkdownParts(t *testing.T) {
	planText, shoppingText, err := FormatPlanMarkdownParts(json.RawMessage(samplePlan))
	if err != nil {
		t.Fatalf("FormatPlanMarkdownParts failed: %v", err)
	}

	if !strings.Contains(planText, "*Monday*: Lentil Curry") {
		t.Errorf("plan text missing Monday entry:\n%s", planText)
	}
	if !strings.Contains(shoppingText, "• coconut milk") {
		t.Errorf("shopping text missing item:\n%s", shoppingText)
	}
}
