package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meal-agent/internal/extract"
	"meal-agent/internal/llm"
	"meal-agent/internal/shared"
)

// GenerationMode distinguishes the first draft from revision rounds.
type GenerationMode string

const (
	ModeInitial  GenerationMode = "initial"
	ModeRevision GenerationMode = "revision"
)

// Observer receives progress events from a planning session. All methods are
// called sequentially from the loop's goroutine. A nil observer is valid.
type Observer interface {
	IterationStarted(iteration, maxIterations int)
	PlanGenerated(iteration int, mode GenerationMode)
	PlanEvaluated(iteration int, eval Evaluation)
}

// Options control when a planning session stops.
type Options struct {
	MaxIterations    int
	QualityThreshold float64
}

// DefaultOptions returns the standard session settings: up to 3 iterations,
// stopping early once the overall score reaches 85.0.
func DefaultOptions() Options {
	return Options{
		MaxIterations:    3,
		QualityThreshold: 85.0,
	}
}

// SessionResult is the outcome of one planning session: the final plan
// payload and the full evaluation history, one entry per iteration run.
// Metas carry per-call token usage for metrics recording.
type SessionResult struct {
	Plan        json.RawMessage
	Evaluations []Evaluation
	Metas       []shared.AgentMeta
}

// Planner drives the generate → evaluate → revise loop. It holds no session
// state itself, so a single Planner may serve concurrent sessions.
type Planner struct {
	textGen  llm.TextGenerator
	opts     Options
	observer Observer
}

// NewPlanner creates a new Planner instance. observer may be nil.
func NewPlanner(textGen llm.TextGenerator, opts Options, observer Observer) *Planner {
	return &Planner{
		textGen:  textGen,
		opts:     opts,
		observer: observer,
	}
}

// PlanMeals generates a weekly meal plan for the given constraints,
// iterating until the quality threshold is met or the iteration cap is hit.
// Each iteration issues exactly one generation call and one evaluation call.
// Any service or parse failure aborts the session; there is no retry and no
// fallback to an earlier iteration.
func (p *Planner) PlanMeals(ctx context.Context, constraints UserConstraints) (SessionResult, error) {
	if p.opts.MaxIterations < 1 {
		return SessionResult{}, fmt.Errorf("max iterations must be at least 1, got %d", p.opts.MaxIterations)
	}

	var (
		history     []Evaluation
		metas       []shared.AgentMeta
		currentPlan json.RawMessage
		prevEval    *Evaluation
	)

	for i := 0; i < p.opts.MaxIterations; i++ {
		p.notifyIterationStarted(i+1, p.opts.MaxIterations)

		mode := ModeInitial
		if i > 0 {
			mode = ModeRevision
		}

		plan, meta, err := p.generate(ctx, constraints, currentPlan, prevEval)
		metas = append(metas, meta)
		if err != nil {
			return SessionResult{Metas: metas}, err
		}
		currentPlan = plan
		p.notifyPlanGenerated(i+1, mode)

		eval, meta, err := p.evaluate(ctx, constraints, currentPlan)
		metas = append(metas, meta)
		if err != nil {
			return SessionResult{Metas: metas}, err
		}
		history = append(history, eval)
		p.notifyPlanEvaluated(i+1, eval)

		if eval.OverallScore >= p.opts.QualityThreshold {
			break
		}

		e := eval
		prevEval = &e
	}

	return SessionResult{
		Plan:        currentPlan,
		Evaluations: history,
		Metas:       metas,
	}, nil
}

// generate produces a plan payload. The first round conditions on the
// constraints alone; revision rounds also carry the previous plan and its
// full evaluation so the model can target the weakest criteria.
func (p *Planner) generate(
	ctx context.Context,
	constraints UserConstraints,
	prevPlan json.RawMessage,
	prevEval *Evaluation,
) (json.RawMessage, shared.AgentMeta, error) {
	start := time.Now()

	var (
		prompt    string
		err       error
		agentName = "Generator"
	)
	if prevEval == nil {
		prompt, err = buildGeneratorPrompt(constraints)
	} else {
		agentName = "Reviser"
		prompt, err = buildReviserPrompt(constraints, prevPlan, *prevEval, p.opts.QualityThreshold)
	}
	if err != nil {
		return nil, shared.AgentMeta{AgentName: agentName}, err
	}

	resp, err := p.textGen.GenerateContent(ctx, prompt)
	meta := shared.AgentMeta{
		AgentName: agentName,
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}
	if err != nil {
		return nil, meta, fmt.Errorf("completion service failed during generation: %w", err)
	}

	payload := extract.JSON(resp.Content)
	if !json.Valid([]byte(payload)) {
		return nil, meta, &ParseError{
			Reason:      "generated plan is not valid JSON",
			RawResponse: resp.Content,
		}
	}

	return json.RawMessage(payload), meta, nil
}

// evaluate scores the given plan against the constraints.
func (p *Planner) evaluate(
	ctx context.Context,
	constraints UserConstraints,
	plan json.RawMessage,
) (Evaluation, shared.AgentMeta, error) {
	start := time.Now()

	prompt, err := buildEvaluatorPrompt(constraints, plan)
	if err != nil {
		return Evaluation{}, shared.AgentMeta{AgentName: "Evaluator"}, err
	}

	resp, err := p.textGen.GenerateContent(ctx, prompt)
	meta := shared.AgentMeta{
		AgentName: "Evaluator",
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}
	if err != nil {
		return Evaluation{}, meta, fmt.Errorf("completion service failed during evaluation: %w", err)
	}

	eval, err := ParseEvaluation(extract.JSON(resp.Content))
	if err != nil {
		return Evaluation{}, meta, err
	}

	return eval, meta, nil
}

func (p *Planner) notifyIterationStarted(iteration, maxIterations int) {
	if p.observer != nil {
		p.observer.IterationStarted(iteration, maxIterations)
	}
}

func (p *Planner) notifyPlanGenerated(iteration int, mode GenerationMode) {
	if p.observer != nil {
		p.observer.PlanGenerated(iteration, mode)
	}
}

func (p *Planner) notifyPlanEvaluated(iteration int, eval Evaluation) {
	if p.observer != nil {
		p.observer.PlanEvaluated(iteration, eval)
	}
}
