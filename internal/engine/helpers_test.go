package engine

import (
	"testing"

	"github.com/talgya/florin/internal/config"
	"github.com/talgya/florin/internal/entropy"
	"github.com/talgya/florin/internal/realm"
)

var testKingdoms = []config.Kingdom{
	{Name: "Northern Kingdom", Strength: 80, Color: "#1f3a5f"},
	{Name: "Coastal Realm", Strength: 70, Color: "#2e6f95"},
	{Name: "Trade League", Strength: 50, Color: "#b08d36"},
	{Name: "Mountain Clans", Strength: 60, Color: "#5d5d5d"},
}

// newTestGame builds a game from a fixed roster and then strips the random
// opening entities so each test controls exactly what exists. The passed
// source drives every draw the test exercises.
func newTestGame(t *testing.T, rng entropy.Source) *Game {
	t.Helper()

	reg, err := realm.NewRegistry(testKingdoms)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	cfg := config.Realm{
		Kingdoms:    testKingdoms,
		RivalHouses: []string{"Iron Bank", "House of Medici"},
		AgentNames:  []string{"Giovanni", "Lorenzo"},
		Player:      config.Player{Gold: 5000, Weapons: 200, Reputation: 50},
	}

	g := New(cfg, reg, entropy.NewRand(1), nil, nil)
	g.rng = rng
	g.st.Wars = nil
	g.st.Rebellions = nil
	g.st.Rivals = nil
	reg.ResetCooldowns()
	return g
}

// addWar injects a fully specified war so tests are independent of spawn
// randomness. Reserves default to zero so no side procures unless a test
// funds it.
func addWar(t *testing.T, g *Game, attacker, defender string, attStr, defStr float64, round int) *War {
	t.Helper()

	ak, ok := g.registry.ByName(attacker)
	if !ok {
		t.Fatalf("unknown attacker %q", attacker)
	}
	dk, ok := g.registry.ByName(defender)
	if !ok {
		t.Fatalf("unknown defender %q", defender)
	}
	w := &War{
		ID:       "war-" + attacker + "-" + defender,
		Attacker: SideState{Kingdom: ak, Strength: attStr},
		Defender: SideState{Kingdom: dk, Strength: defStr},
		Round:    round,
	}
	g.st.Wars = append(g.st.Wars, w)
	return w
}
