package combat

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DisplayName returns the combatant's name title-cased for battle text
func (c *Combatant) DisplayName() string {
	if c == nil || c.Name == "" {
		return "Someone"
	}
	return cases.Title(language.English).String(c.Name)
}
