package market

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownRule = errors.New("unknown playbook rule")

// Rule is one entry condition of the trading playbook. A trade is only
// playbook valid when every critical rule was checked.
type Rule struct {
	ID       string
	Label    string
	Critical bool
}

// Playbook is the ordered list of rules trades are checked against.
type Playbook []Rule

// DefaultPlaybook is used when no playbook is configured.
var DefaultPlaybook = Playbook{
	{ID: "trend", Label: "HTF Trend Alignment", Critical: true},
	{ID: "fvg", Label: "FVG / PD Array Tap", Critical: true},
	{ID: "liq", Label: "Liquidity Swept", Critical: true},
	{ID: "news", Label: "No High Impact News", Critical: false},
}

// Validate checks that rule ids are present, unique, and free of
// commas and whitespace, since ids are stored as a comma separated list.
func (p Playbook) Validate() error {
	seen := make(map[string]bool, len(p))
	for i, r := range p {
		id := normalizeRuleID(r.ID)
		if id == "" {
			return fmt.Errorf("rule %d: id is required", i)
		}
		if strings.ContainsAny(id, ", \t") {
			return fmt.Errorf("rule %q: id must not contain commas or spaces", r.ID)
		}
		if seen[id] {
			return fmt.Errorf("rule %q: duplicate id", r.ID)
		}
		seen[id] = true
	}
	return nil
}

// Check reports whether every critical rule is among checked. Rule ids
// match case-insensitively; an id not in the playbook is an error.
func (p Playbook) Check(checked []string) (bool, error) {
	have := make(map[string]bool, len(checked))
	for _, c := range checked {
		id := normalizeRuleID(c)
		if id == "" {
			continue
		}
		if !p.has(id) {
			return false, fmt.Errorf("%w: %q", ErrUnknownRule, c)
		}
		have[id] = true
	}

	for _, r := range p {
		if r.Critical && !have[normalizeRuleID(r.ID)] {
			return false, nil
		}
	}
	return true, nil
}

// Apply returns a copy of t carrying the checked rules and the
// resulting playbook verdict.
func (p Playbook) Apply(t Trade, checked []string) (Trade, error) {
	valid, err := p.Check(checked)
	if err != nil {
		return t, err
	}

	rules := make([]string, 0, len(checked))
	for _, c := range checked {
		if id := normalizeRuleID(c); id != "" {
			rules = append(rules, id)
		}
	}
	t.RulesChecked = rules
	t.PlaybookValid = &valid
	return t, nil
}

func (p Playbook) has(id string) bool {
	for _, r := range p {
		if normalizeRuleID(r.ID) == id {
			return true
		}
	}
	return false
}

func normalizeRuleID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
