// Package report renders plan payloads and evaluation histories for humans.
// This is the only place the plan payload's internal structure is parsed;
// the planning loop treats it as an opaque document.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"meal-agent/internal/planner"
)

// Meal is a single day's dinner as produced by the generation step.
type Meal struct {
	Name              string   `json:"name"`
	IngredientsOwned  []string `json:"ingredients_owned"`
	IngredientsNeeded []string `json:"ingredients_needed"`
	PrepTimeMinutes   int      `json:"prep_time_minutes"`
	Instructions      string   `json:"instructions"`
	EstimatedCost     float64  `json:"estimated_cost"`
}

// MealPlan is the external shape of the plan payload.
type MealPlan struct {
	DailyMeals            map[string]Meal     `json:"daily_meals"`
	ShoppingList          map[string][]string `json:"shopping_list"`
	InventoryUsagePercent float64             `json:"inventory_usage_percent"`
	VarietyScore          float64             `json:"variety_score"`
	TotalEstimatedCost    float64             `json:"total_estimated_cost"`
	Reasoning             string              `json:"reasoning"`
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// ParsePlan decodes a plan payload into its external shape.
func ParsePlan(payload json.RawMessage) (*MealPlan, error) {
	var plan MealPlan
	if err := json.Unmarshal(payload, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan payload: %w", err)
	}
	return &plan, nil
}

// FormatPlan renders the plan payload as a plain-text weekly overview.
func FormatPlan(payload json.RawMessage) (string, error) {
	plan, err := ParsePlan(payload)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("=== WEEKLY MEAL PLAN ===\n")

	for _, day := range weekdays {
		meal, ok := plan.DailyMeals[day]
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, "\n%s: %s\n", day, meal.Name)
		fmt.Fprintf(&sb, "  Prep time: %d minutes | Cost: $%.2f\n", meal.PrepTimeMinutes, meal.EstimatedCost)
		if len(meal.IngredientsOwned) > 0 {
			fmt.Fprintf(&sb, "  From inventory: %s\n", strings.Join(meal.IngredientsOwned, ", "))
		}
		if len(meal.IngredientsNeeded) > 0 {
			fmt.Fprintf(&sb, "  Need to buy: %s\n", strings.Join(meal.IngredientsNeeded, ", "))
		}
	}

	sb.WriteString("\n=== SHOPPING LIST ===\n")
	var categories []string
	for category := range plan.ShoppingList {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		items := plan.ShoppingList[category]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n%s:\n", category)
		for _, item := range items {
			fmt.Fprintf(&sb, "  - %s\n", item)
		}
	}

	sb.WriteString("\n=== PLAN METRICS ===\n")
	fmt.Fprintf(&sb, "Inventory Usage: %.1f%%\n", plan.InventoryUsagePercent)
	fmt.Fprintf(&sb, "Variety Score: %.1f/100\n", plan.VarietyScore)
	fmt.Fprintf(&sb, "Total Estimated Cost: $%.2f\n", plan.TotalEstimatedCost)

	if plan.Reasoning != "" {
		sb.WriteString("\n=== PLANNING NOTES ===\n")
		sb.WriteString(plan.Reasoning)
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

// FormatIterationSummary renders how scores evolved across iterations.
func FormatIterationSummary(evaluations []planner.Evaluation) string {
	var sb strings.Builder
	sb.WriteString("=== ITERATION SUMMARY ===\n")
	fmt.Fprintf(&sb, "%-10s %-10s %-10s %-10s %-10s %-11s %s\n",
		"Iteration", "Inventory", "Nutrition", "Practical", "Cost", "Preference", "OVERALL")

	for i, eval := range evaluations {
		fmt.Fprintf(&sb, "%-10d %-10.1f %-10.1f %-10.1f %-10.1f %-11.1f %.1f\n",
			i+1,
			eval.InventoryOptimization.Score,
			eval.NutritionalVariety.Score,
			eval.Practicality.Score,
			eval.CostEfficiency.Score,
			eval.PreferenceAlignment.Score,
			eval.OverallScore,
		)
	}

	if len(evaluations) > 1 {
		improvement := evaluations[len(evaluations)-1].OverallScore - evaluations[0].OverallScore
		fmt.Fprintf(&sb, "\nTotal Improvement: %+.1f points\n", improvement)
	}

	return sb.String()
}

// FormatPlanMarkdownParts renders the plan and shopping list as two Telegram
// Markdown messages.
func FormatPlanMarkdownParts(payload json.RawMessage) (string, string, error) {
	plan, err := ParsePlan(payload)
	if err != nil {
		return "", "", err
	}

	var pb strings.Builder
	pb.WriteString("📅 *Weekly Meal Plan*\n\n")
	for _, day := range weekdays {
		meal, ok := plan.DailyMeals[day]
		if !ok {
			continue
		}
		fmt.Fprintf(&pb, "*%s*: %s (%d min, $%.2f)\n", day, meal.Name, meal.PrepTimeMinutes, meal.EstimatedCost)
	}
	fmt.Fprintf(&pb, "\n_Inventory usage: %.1f%% | Total cost: $%.2f_\n", plan.InventoryUsagePercent, plan.TotalEstimatedCost)

	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n")
	var categories []string
	for category := range plan.ShoppingList {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		items := plan.ShoppingList[category]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n*%s*\n", category)
		for _, item := range items {
			fmt.Fprintf(&sb, "• %s\n", item)
		}
	}

	return pb.String(), sb.String(), nil
}
