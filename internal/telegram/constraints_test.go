package telegram

import (
	"reflect"
	"testing"

	"meal-agent/internal/planner"
)

func TestParseConstraints(t *testing.T) {
	text := `prefer: italian, quick meals
avoid: pork
have: rice, lentils
budget: $100
skill: beginner
Friday: pizza night`

	c := ParseConstraints(text)

	if !reflect.DeepEqual(c.Preferences, []string{"italian", "quick meals"}) {
		t.Errorf("unexpected preferences: %v", c.Preferences)
	}
	if !reflect.DeepEqual(c.Restrictions, []string{"pork"}) {
		t.Errorf("unexpected restrictions: %v", c.Restrictions)
	}
	if !reflect.DeepEqual(c.Inventory, []string{"rice", "lentils"}) {
		t.Errorf("unexpected inventory: %v", c.Inventory)
	}
	if c.Budget == nil || *c.Budget != 100 {
		t.Errorf("unexpected budget: %v", c.Budget)
	}
	if c.Skill != planner.SkillBeginner {
		t.Errorf("unexpected skill: %v", c.Skill)
	}
	if got := c.ScheduledDinners["Friday"]; got != "pizza night" {
		t.Errorf("unexpected schedule: %v", c.ScheduledDinners)
	}
}

func TestParseConstraintsUnlabeledLinesArePreferences(t *testing.T) {
	c := ParseConstraints("vegetarian, spicy food")

	if !reflect.DeepEqual(c.Preferences, []string{"vegetarian", "spicy food"}) {
		t.Errorf("unexpected preferences: %v", c.Preferences)
	}
	if c.Budget != nil || c.Skill != "" {
		t.Error("unlabeled input should not populate other fields")
	}
}

func TestParseConstraintsIgnoresBadBudget(t *testing.T) {
	c := ParseConstraints("budget: cheap")

	if c.Budget != nil {
		t.Errorf("non-numeric budget should be ignored, got %v", *c.Budget)
	}
}
