package telegram

import (
	"strconv"
	"strings"

	"meal-agent/internal/planner"
)

var weekdayNames = map[string]string{
	"monday": "Monday", "tuesday": "Tuesday", "wednesday": "Wednesday",
	"thursday": "Thursday", "friday": "Friday", "saturday": "Saturday", "sunday": "Sunday",
}

// ParseConstraints turns a free-form chat message into planner constraints.
// Each line may carry a labeled field; unlabeled lines become preferences.
//
//	prefer: italian, quick meals
//	avoid: pork, shellfish
//	have: rice, lentils, canned tomatoes
//	budget: 100
//	skill: beginner
//	Friday: pizza night
func ParseConstraints(text string) planner.UserConstraints {
	var c planner.UserConstraints

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		label, rest, found := strings.Cut(line, ":")
		if !found {
			c.Preferences = append(c.Preferences, splitList(line)...)
			continue
		}

		rest = strings.TrimSpace(rest)
		switch key := strings.ToLower(strings.TrimSpace(label)); key {
		case "prefer", "prefs", "preferences", "like":
			c.Preferences = append(c.Preferences, splitList(rest)...)
		case "avoid", "restrictions", "allergies", "no":
			c.Restrictions = append(c.Restrictions, splitList(rest)...)
		case "have", "inventory", "pantry", "fridge":
			c.Inventory = append(c.Inventory, splitList(rest)...)
		case "budget":
			raw := strings.TrimPrefix(rest, "$")
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				budget := v
				c.Budget = &budget
			}
		case "skill":
			switch strings.ToLower(rest) {
			case "beginner":
				c.Skill = planner.SkillBeginner
			case "intermediate":
				c.Skill = planner.SkillIntermediate
			case "advanced":
				c.Skill = planner.SkillAdvanced
			}
		default:
			if day, ok := weekdayNames[key]; ok {
				if c.ScheduledDinners == nil {
					c.ScheduledDinners = make(map[string]string)
				}
				c.ScheduledDinners[day] = rest
			} else {
				c.Preferences = append(c.Preferences, splitList(line)...)
			}
		}
	}

	return c
}

func splitList(raw string) []string {
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
