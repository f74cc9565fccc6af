package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"meal-agent/internal/config"
	"meal-agent/internal/database"
	"meal-agent/internal/llm"
	"meal-agent/internal/metrics"
	"meal-agent/internal/pantry"
	"meal-agent/internal/planner"
	"meal-agent/internal/report"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	switch os.Args[1] {
	case "plan":
		runPlan(ctx, cfg, os.Args[2:])
	case "import-pantry":
		runImportPantry(ctx, cfg, os.Args[2:])
	case "metrics-cleanup":
		runMetricsCleanup(cfg, os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: meal-agent <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan               Generate a weekly meal plan")
	fmt.Println("  import-pantry      Extract a pantry inventory from a URL")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}

func runPlan(ctx context.Context, cfg *config.Config, args []string) {
	planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
	prefs := planCmd.String("prefs", "", "Comma-separated dietary preferences")
	avoid := planCmd.String("avoid", "", "Comma-separated dietary restrictions")
	have := planCmd.String("have", "", "Comma-separated inventory items")
	budget := planCmd.Float64("budget", 0, "Weekly budget in dollars (0 = unspecified)")
	skill := planCmd.String("skill", "intermediate", "Cooking skill: beginner, intermediate, advanced")
	scenario := planCmd.String("scenario", "", "Built-in demo scenario: family, vegetarian")
	userID := planCmd.String("user", "cli", "User ID to store the plan under")
	planCmd.Parse(args)

	var constraints planner.UserConstraints
	if *scenario != "" {
		sc, err := demoScenario(*scenario)
		if err != nil {
			log.Fatalf("%v", err)
		}
		constraints = sc
	} else {
		constraints = planner.UserConstraints{
			Preferences:  splitFlag(*prefs),
			Restrictions: splitFlag(*avoid),
			Inventory:    splitFlag(*have),
			Skill:        planner.SkillLevel(*skill),
		}
		if *budget > 0 {
			constraints.Budget = budget
		}
	}

	textGen, err := llm.NewTextGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	if closer, ok := textGen.(llm.Closer); ok {
		defer closer.Close()
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	planRepo := planner.NewPlanRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	p := planner.NewPlanner(textGen, planner.Options{
		MaxIterations:    cfg.MaxIterations,
		QualityThreshold: cfg.QualityThreshold,
	}, &consoleObserver{})

	fmt.Println("🍽️  Generating your optimized meal plan...")
	result, err := p.PlanMeals(ctx, constraints)

	for _, m := range result.Metas {
		if recErr := metricsStore.RecordMeta(m); recErr != nil {
			log.Printf("Warning: failed to record metric for %s: %v", m.AgentName, recErr)
		}
	}

	if err != nil {
		log.Fatalf("Planning failed: %v", err)
	}

	output, err := report.FormatPlan(result.Plan)
	if err != nil {
		log.Fatalf("Failed to format plan: %v", err)
	}
	fmt.Println()
	fmt.Println(output)
	fmt.Println(report.FormatIterationSummary(result.Evaluations))

	id, err := planRepo.Save(ctx, *userID, result)
	if err != nil {
		log.Printf("Warning: failed to save plan: %v", err)
		return
	}
	fmt.Printf("Saved as plan #%d\n", id)
}

func runImportPantry(ctx context.Context, cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Println("Usage: meal-agent import-pantry <url>")
		os.Exit(1)
	}

	textGen, err := llm.NewTextGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	if closer, ok := textGen.(llm.Closer); ok {
		defer closer.Close()
	}

	importer := pantry.NewImporter(textGen)
	ingredients, err := importer.ImportURL(ctx, args[0])
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}

	fmt.Printf("Found %d ingredients:\n", len(ingredients))
	for _, ing := range ingredients {
		fmt.Printf("  - %s\n", ing)
	}
}

func runMetricsCleanup(cfg *config.Config, args []string) {
	cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
	days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
	cleanupCmd.Parse(args)

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	affected, err := metrics.NewStore(db.SQL).Cleanup(*days)
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}
	fmt.Printf("Successfully removed %d old metric records.\n", affected)
}

func splitFlag(raw string) []string {
	if raw == "" {
		return nil
	}
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// demoScenario returns one of the built-in constraint sets for trying the
// planner without typing out a full set of flags.
func demoScenario(name string) (planner.UserConstraints, error) {
	switch name {
	case "family":
		budget := 100.0
		return planner.UserConstraints{
			Preferences:  []string{"italian", "mexican", "comfort food"},
			Restrictions: []string{"no shellfish"},
			Inventory: []string{
				"chicken breast", "ground beef", "rice", "pasta",
				"canned tomatoes", "onions", "garlic", "bell peppers",
				"cheese", "eggs", "frozen vegetables",
			},
			ScheduledDinners: map[string]string{
				"Wednesday": "dinner at grandma's",
				"Friday":    "pizza night out",
			},
			Budget: &budget,
			Skill:  planner.SkillIntermediate,
		}, nil
	case "vegetarian":
		budget := 60.0
		return planner.UserConstraints{
			Preferences:  []string{"vegetarian", "high protein", "quick meals"},
			Restrictions: []string{"vegetarian", "no mushrooms"},
			Inventory: []string{
				"tofu", "lentils", "chickpeas", "quinoa", "spinach",
				"sweet potatoes", "black beans", "greek yogurt",
			},
			Budget: &budget,
			Skill:  planner.SkillBeginner,
		}, nil
	default:
		return planner.UserConstraints{}, fmt.Errorf("unknown scenario %q (available: family, vegetarian)", name)
	}
}

// consoleObserver prints session progress to stdout.
type consoleObserver struct{}

func (consoleObserver) IterationStarted(iteration, maxIterations int) {
	fmt.Printf("\n--- Iteration %d/%d ---\n", iteration, maxIterations)
}

func (consoleObserver) PlanGenerated(iteration int, mode planner.GenerationMode) {
	if mode == planner.ModeInitial {
		fmt.Println("📝 Initial plan generated, evaluating...")
	} else {
		fmt.Println("🔄 Revised plan generated, evaluating...")
	}
}

func (consoleObserver) PlanEvaluated(iteration int, eval planner.Evaluation) {
	fmt.Printf("📊 Scored %.1f/100\n", eval.OverallScore)
	if eval.ImprovementNotes != "" {
		fmt.Printf("   Notes: %s\n", eval.ImprovementNotes)
	}
}
