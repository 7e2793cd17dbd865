// Hired muscle for debt collection: thugs, mercenaries, and assassins.
package engine

import (
	"github.com/google/uuid"

	"github.com/talgya/florin/internal/entropy"
)

// AgentType names a class of hired muscle.
type AgentType string

const (
	Thug      AgentType = "Thug"
	Mercenary AgentType = "Mercenary"
	Assassin  AgentType = "Assassin"
)

// Agent is one hired enforcer. Busy resets at the start of every turn and is
// set for the remainder of the turn once used for a collection attempt.
type Agent struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Type         AgentType `json:"type"`
	Intimidation int       `json:"intimidation"`
	Upkeep       int       `json:"upkeep"`
	Busy         bool      `json:"busy"`
}

const hireFee = 500

// HireAgent recruits a random enforcer for a flat 500-florin fee. Declined
// when gold is short.
func (g *Game) HireAgent() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.st.GameOver || g.st.Gold < hireFee {
		return false
	}

	var (
		t            AgentType
		intimidation int
		upkeep       int
	)
	switch entropy.Intn(g.rng, 3) {
	case 0:
		t, intimidation, upkeep = Thug, entropy.Between(g.rng, 40, 60), 50
	case 1:
		t, intimidation, upkeep = Mercenary, entropy.Between(g.rng, 60, 80), 150
	default:
		t, intimidation, upkeep = Assassin, entropy.Between(g.rng, 85, 100), 300
	}

	name := "Nameless"
	if len(g.cfg.AgentNames) > 0 {
		name = g.cfg.AgentNames[entropy.Intn(g.rng, len(g.cfg.AgentNames))]
	}

	g.st.Gold -= hireFee
	g.st.Agents = append(g.st.Agents, &Agent{
		ID:           uuid.NewString(),
		Name:         name,
		Type:         t,
		Intimidation: intimidation,
		Upkeep:       upkeep,
	})
	g.logf(LogSuccess, "%s (%s) has joined your crew.", name, t)
	return true
}

// FireAgent dismisses an enforcer. Unknown IDs are a no-op.
func (g *Game) FireAgent(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, a := range g.st.Agents {
		if a.ID == id {
			g.st.Agents = append(g.st.Agents[:i], g.st.Agents[i+1:]...)
			g.logf(LogInfo, "%s has been dismissed from your service.", a.Name)
			return true
		}
	}
	return false
}

func (st *State) agentByID(id string) *Agent {
	for _, a := range st.Agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}
