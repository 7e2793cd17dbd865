// War narration — resolved wars become chronicle prose. With no API key the
// narrator falls back to a canned template pool so the chronicle never
// depends on the network.
package llm

import (
	"fmt"

	"github.com/talgya/florin/internal/entropy"
)

// WarNarrator produces prose for resolved wars. Client may be nil.
type WarNarrator struct {
	Client *Client
	RNG    entropy.Source
}

var outcomeLines = []string{
	"%[1]s routed the armies of %[2]s after a bloody struggle.",
	"Silence fell over the battlefield. %[1]s planted the banner of victory.",
	"%[1]s turned the war with a single stroke of strategy and prevailed.",
	"The history books will record this decisive victory of %[1]s.",
	"The cavalry of %[1]s broke the enemy lines and won the day.",
	"The siege is over; the standard of %[1]s flies from the walls.",
}

var bankerLines = []string{
	" The weapons you shipped decided the war's fate.",
	" Without the bankers' backing the outcome might have differed.",
	" Mercenaries and fresh steel carried the victory.",
	" The financial hand behind the curtain showed itself.",
	" The merchants' steel proved worth more than blood.",
}

// NarrateWar returns 2-3 sentences of prose about a resolved war.
// supportKind is empty when the player stayed out of it.
func (n *WarNarrator) NarrateWar(attacker, defender, winner string, investment int, supportKind string) (string, error) {
	if n.Client.Enabled() {
		system := "You are the chronicler of a medieval world of kingdoms and banking houses. " +
			"Narrate the outcome of this war in 2-3 sentences of period-appropriate prose. " +
			"Be vivid but concise. Do not break character or reference the simulation."

		loser := defender
		if winner == defender {
			loser = attacker
		}
		prompt := fmt.Sprintf("%s attacked %s. %s won; %s lost.", attacker, defender, winner, loser)
		if investment > 0 {
			prompt += fmt.Sprintf(" A powerful banker quietly invested %d florins (%s) in the war.", investment, supportKind)
		}
		return n.Client.Complete(system, prompt, 200)
	}

	// Canned fallback.
	loserName := defender
	if winner == defender {
		loserName = attacker
	}
	line := fmt.Sprintf(outcomeLines[entropy.Intn(n.RNG, len(outcomeLines))], winner, loserName)
	if investment > 0 {
		line += bankerLines[entropy.Intn(n.RNG, len(bankerLines))]
	}
	return line, nil
}
