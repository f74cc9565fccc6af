package planner

// SkillLevel describes the user's cooking ability.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

// UserConstraints captures everything the user tells us before planning
// starts. Constructed once per session and never mutated; restrictions are
// strict and must not be violated by an accepted plan.
type UserConstraints struct {
	Preferences      []string          `json:"dietary_preferences"`
	Restrictions     []string          `json:"dietary_restrictions"`
	Inventory        []string          `json:"current_inventory"`
	ScheduledDinners map[string]string `json:"scheduled_dinners"`
	Budget           *float64          `json:"budget"`
	Skill            SkillLevel        `json:"cooking_skill"`
}
