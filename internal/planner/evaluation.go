package planner

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
)

// Fixed criterion weights. They sum to 1.0; the overall score is always the
// weighted sum of the five criterion scores, never taken from the service.
const (
	WeightInventoryOptimization = 0.35
	WeightNutritionalVariety    = 0.20
	WeightPracticality          = 0.20
	WeightCostEfficiency        = 0.15
	WeightPreferenceAlignment   = 0.10
)

// CriterionScore holds the evaluation of a single axis.
type CriterionScore struct {
	Score       float64  `json:"score"`
	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
}

// Evaluation is the multi-criteria evaluation of one generated plan.
// OverallScore is derived from the five criterion scores and the fixed
// weight table; it is computed locally and rounded to 2 decimal places.
type Evaluation struct {
	InventoryOptimization CriterionScore `json:"inventory_optimization"`
	NutritionalVariety    CriterionScore `json:"nutritional_variety"`
	Practicality          CriterionScore `json:"practicality"`
	CostEfficiency        CriterionScore `json:"cost_efficiency"`
	PreferenceAlignment   CriterionScore `json:"preference_alignment"`
	OverallScore          float64        `json:"overall_score"`
	ImprovementNotes      string         `json:"improvement_notes"`
}

// ParseError reports an evaluation or plan response that could not be parsed
// into the expected shape. RawResponse carries the offending text so a
// malformed upstream response can be diagnosed.
type ParseError struct {
	Reason      string
	RawResponse string
	Err         error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v. Response: %s", e.Reason, e.Err, e.RawResponse)
	}
	return fmt.Sprintf("%s. Response: %s", e.Reason, e.RawResponse)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// criterionKeys lists the required evaluation keys in weight order.
var criterionKeys = []string{
	"inventory_optimization",
	"nutritional_variety",
	"practicality",
	"cost_efficiency",
	"preference_alignment",
}

// ParseEvaluation parses an evaluation JSON document into an Evaluation.
// All five criterion keys are required, as are score and feedback within
// each; suggestions default to an empty list. Any overall score the service
// reports is discarded in favor of the locally computed weighted sum.
func ParseEvaluation(jsonText string) (Evaluation, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonText), &doc); err != nil {
		return Evaluation{}, &ParseError{
			Reason:      "failed to parse evaluation JSON",
			RawResponse: jsonText,
			Err:         err,
		}
	}

	scores := make(map[string]CriterionScore, len(criterionKeys))
	for _, key := range criterionKeys {
		raw, ok := doc[key]
		if !ok {
			return Evaluation{}, &ParseError{
				Reason:      fmt.Sprintf("evaluation is missing required criterion %q", key),
				RawResponse: jsonText,
			}
		}

		criterion, err := parseCriterion(key, raw, jsonText)
		if err != nil {
			return Evaluation{}, err
		}
		scores[key] = criterion
	}

	// Some models volunteer their own total. It is not authoritative.
	if raw, ok := doc["overall_score"]; ok {
		log.Printf("Ignoring service-reported overall score %s; using local weighted sum", raw)
	}

	eval := Evaluation{
		InventoryOptimization: scores["inventory_optimization"],
		NutritionalVariety:    scores["nutritional_variety"],
		Practicality:          scores["practicality"],
		CostEfficiency:        scores["cost_efficiency"],
		PreferenceAlignment:   scores["preference_alignment"],
	}
	eval.OverallScore = weightedOverall(eval)

	var notes struct {
		ImprovementNotes string `json:"improvement_notes"`
	}
	// Already validated as JSON above; notes default to empty when absent.
	_ = json.Unmarshal([]byte(jsonText), &notes)
	eval.ImprovementNotes = notes.ImprovementNotes

	return eval, nil
}

func parseCriterion(key string, raw json.RawMessage, fullResponse string) (CriterionScore, error) {
	var frag struct {
		Score       *float64 `json:"score"`
		Feedback    *string  `json:"feedback"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(raw, &frag); err != nil {
		return CriterionScore{}, &ParseError{
			Reason:      fmt.Sprintf("criterion %q is not an object", key),
			RawResponse: fullResponse,
			Err:         err,
		}
	}

	if frag.Score == nil {
		return CriterionScore{}, &ParseError{
			Reason:      fmt.Sprintf("criterion %q is missing required field 'score'", key),
			RawResponse: fullResponse,
		}
	}
	if frag.Feedback == nil || *frag.Feedback == "" {
		return CriterionScore{}, &ParseError{
			Reason:      fmt.Sprintf("criterion %q is missing required field 'feedback'", key),
			RawResponse: fullResponse,
		}
	}

	score := *frag.Score
	if score < 0 || score > 100 {
		log.Printf("Criterion %q score %.1f is outside [0,100]; clamping", key, score)
		score = math.Min(100, math.Max(0, score))
	}

	suggestions := frag.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	return CriterionScore{
		Score:       score,
		Feedback:    *frag.Feedback,
		Suggestions: suggestions,
	}, nil
}

// weightedOverall computes the overall score from the five criterion scores
// and the fixed weight table, rounded to 2 decimal places.
func weightedOverall(e Evaluation) float64 {
	total := e.InventoryOptimization.Score*WeightInventoryOptimization +
		e.NutritionalVariety.Score*WeightNutritionalVariety +
		e.Practicality.Score*WeightPracticality +
		e.CostEfficiency.Score*WeightCostEfficiency +
		e.PreferenceAlignment.Score*WeightPreferenceAlignment
	return math.Round(total*100) / 100
}
