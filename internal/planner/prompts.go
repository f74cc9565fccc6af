package planner

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

//go:embed generator_prompt.md
var generatorPrompt string

//go:embed reviser_prompt.md
var reviserPrompt string

//go:embed evaluator_prompt.md
var evaluatorPrompt string

type generatorPromptData struct {
	Preferences      string
	Restrictions     string
	Inventory        string
	Skill            string
	Budget           string
	ScheduledDinners string
}

type reviserCriterion struct {
	Name        string
	Weight      string
	Score       string
	Feedback    string
	Suggestions string
}

type reviserPromptData struct {
	ConstraintsJSON  string
	PreviousPlan     string
	Criteria         []reviserCriterion
	OverallScore     string
	Threshold        string
	ImprovementNotes string
}

type evaluatorPromptData struct {
	ConstraintsJSON string
	Plan            string
	Skill           string
	Budget          string
	Preferences     string
	Restrictions    string
}

// buildGeneratorPrompt shapes the initial-generation request: constraints
// only, no prior plan or evaluation.
func buildGeneratorPrompt(c UserConstraints) (string, error) {
	return renderPrompt("generator", generatorPrompt, generatorPromptData{
		Preferences:      joinList(c.Preferences, "None specified"),
		Restrictions:     joinList(c.Restrictions, "None"),
		Inventory:        joinList(c.Inventory, "None"),
		Skill:            skillOrDefault(c.Skill),
		Budget:           formatBudget(c.Budget),
		ScheduledDinners: formatSchedule(c.ScheduledDinners),
	})
}

// buildReviserPrompt shapes a revision request. It must carry the previous
// plan payload plus the complete previous evaluation: all five criterion
// scores with their feedback and suggestions, and the improvement notes.
func buildReviserPrompt(c UserConstraints, prevPlan json.RawMessage, prevEval Evaluation, threshold float64) (string, error) {
	constraintsJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal constraints: %w", err)
	}

	criteria := []struct {
		name   string
		weight float64
		score  CriterionScore
	}{
		{"Inventory Optimization", WeightInventoryOptimization, prevEval.InventoryOptimization},
		{"Nutritional Variety", WeightNutritionalVariety, prevEval.NutritionalVariety},
		{"Practicality", WeightPracticality, prevEval.Practicality},
		{"Cost Efficiency", WeightCostEfficiency, prevEval.CostEfficiency},
		{"Preference Alignment", WeightPreferenceAlignment, prevEval.PreferenceAlignment},
	}

	data := reviserPromptData{
		ConstraintsJSON:  string(constraintsJSON),
		PreviousPlan:     string(prevPlan),
		OverallScore:     fmt.Sprintf("%.1f", prevEval.OverallScore),
		Threshold:        fmt.Sprintf("%.1f", threshold),
		ImprovementNotes: prevEval.ImprovementNotes,
	}
	for _, crit := range criteria {
		data.Criteria = append(data.Criteria, reviserCriterion{
			Name:        crit.name,
			Weight:      fmt.Sprintf("%.0f", crit.weight*100),
			Score:       fmt.Sprintf("%.1f", crit.score.Score),
			Feedback:    crit.score.Feedback,
			Suggestions: joinList(crit.score.Suggestions, "none"),
		})
	}

	return renderPrompt("reviser", reviserPrompt, data)
}

// buildEvaluatorPrompt shapes an evaluation request: constraints plus the
// plan payload under evaluation.
func buildEvaluatorPrompt(c UserConstraints, plan json.RawMessage) (string, error) {
	constraintsJSON, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal constraints: %w", err)
	}

	return renderPrompt("evaluator", evaluatorPrompt, evaluatorPromptData{
		ConstraintsJSON: string(constraintsJSON),
		Plan:            string(plan),
		Skill:           skillOrDefault(c.Skill),
		Budget:          formatBudget(c.Budget),
		Preferences:     joinList(c.Preferences, "None specified"),
		Restrictions:    joinList(c.Restrictions, "None"),
	})
}

func renderPrompt(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Parse(text)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func joinList(items []string, empty string) string {
	if len(items) == 0 {
		return empty
	}
	return strings.Join(items, ", ")
}

func formatBudget(budget *float64) string {
	if budget == nil {
		return "not specified"
	}
	return fmt.Sprintf("$%.2f", *budget)
}

func skillOrDefault(skill SkillLevel) string {
	if skill == "" {
		return string(SkillIntermediate)
	}
	return string(skill)
}

var weekdayOrder = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func formatSchedule(dinners map[string]string) string {
	if len(dinners) == 0 {
		return "None"
	}

	var parts []string
	seen := make(map[string]bool, len(dinners))
	for _, day := range weekdayOrder {
		if desc, ok := dinners[day]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", day, desc))
			seen[day] = true
		}
	}

	var extras []string
	for day := range dinners {
		if !seen[day] {
			extras = append(extras, day)
		}
	}
	sort.Strings(extras)
	for _, day := range extras {
		parts = append(parts, fmt.Sprintf("%s: %s", day, dinners[day]))
	}

	return strings.Join(parts, "; ")
}
