package scenario

// Difficulty grades how hard a scenario is to fully clear.
type Difficulty string

// Difficulty levels used by the builtin catalog.
const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Type groups scenarios by the kind of defect they teach.
type Type string

// Scenario types used by the builtin catalog.
const (
	TypeValidation Type = "validation"
	TypeSecurity   Type = "security"
	TypeLogic      Type = "logic"
)

// Definition describes a scenario declaratively. The rule list is
// ordered and exhaustive; it never changes at runtime.
type Definition struct {
	ID          ID         `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Difficulty  Difficulty `json:"difficulty" yaml:"difficulty"`
	Type        Type       `json:"type" yaml:"type"`
	Rules       []Rule     `json:"rules" yaml:"rules"`
}

// Rule is a single edge case a learner can discover.
type Rule struct {
	// ID is the stable edge-case identifier referenced by
	// detection events.
	ID string `json:"id" yaml:"id"`

	// Title is shown in the checklist once the rule is solved.
	Title string `json:"title" yaml:"title"`

	// Explanation tells the learner why the edge case matters.
	Explanation string `json:"explanation" yaml:"explanation"`
}

// RuleIDs returns the rule identifiers in checklist order.
func (d *Definition) RuleIDs() []string {
	ids := make([]string, len(d.Rules))
	for i, r := range d.Rules {
		ids[i] = r.ID
	}
	return ids
}

// HasRule reports whether id names one of the scenario's rules.
func (d *Definition) HasRule(id string) bool {
	_, ok := d.Rule(id)
	return ok
}

// Rule looks up a rule by id.
func (d *Definition) Rule(id string) (Rule, bool) {
	for _, r := range d.Rules {
		if r.ID == id {
			return r, true
		}
	}
	return Rule{}, false
}

// Clone returns a deep copy so callers can override copy text
// without touching the shared definition.
func (d *Definition) Clone() *Definition {
	c := *d
	c.Rules = make([]Rule, len(d.Rules))
	copy(c.Rules, d.Rules)
	return &c
}
