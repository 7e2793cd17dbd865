// The turn orchestrator: one atomic state transition per End Turn, in strict
// order — siege status gates production, production feeds the market, the
// market arms the wars, and war outcomes reshuffle ownership.
package engine

import (
	"log/slog"

	"github.com/talgya/florin/internal/economy"
)

// EndTurn advances the whole simulation by one turn. No-op after game over.
func (g *Game) EndTurn() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.st.GameOver {
		return
	}
	g.st.Thinking = true
	defer func() { g.st.Thinking = false }()

	g.st.Turn++
	for _, a := range g.st.Agents {
		a.Busy = false
	}

	sieged := g.st.siegedKingdoms()

	// Player income, upkeep, and production. Sieged workshops are shut.
	income, blocked := 0, 0
	maintenance := 0
	for _, w := range g.st.Workshops {
		maintenance += w.Maintenance
		if sieged[w.Kingdom] {
			blocked++
			continue
		}
		income += w.GoldIncome
		if w.Production > 0 {
			g.st.Holdings[w.Produces] += w.Production
		}
	}
	for _, a := range g.st.Agents {
		maintenance += a.Upkeep
	}
	g.st.Gold += income - maintenance
	if blocked > 0 {
		g.logf(LogWarning, "%d of your workshops are shut by siege or war.", blocked)
	}

	// Bankruptcy is the only terminal condition.
	if g.st.Gold < 0 {
		g.st.GameOver = true
		g.logf(LogDanger, "BANKRUPT! Your coffers have run dry.")
		slog.Info("game over", "turn", g.st.Turn, "gold", g.st.Gold)
		return
	}

	// Expired embargoes fall away.
	kept := g.st.Embargoes[:0]
	for _, e := range g.st.Embargoes {
		if e.UntilTurn > g.st.Turn {
			kept = append(kept, e)
		}
	}
	g.st.Embargoes = kept

	g.maybeSpawnRebellion()
	g.advanceRebellions()

	g.runRivals()

	// Realm-wide production feeds the market before the wars procure from it.
	events := g.st.Market.Advance(g.realmProduction(sieged), g.st.unresolvedWars(), g.rng)
	for _, ev := range events {
		g.logf(LogLevel(ev.Level), "%s", ev.Message)
	}

	g.advanceWars()
	g.maybeSpawnWar()

	g.generateLoanRequests()
	g.expireLoanRequests()
	g.matureLoans()

	slog.Info("turn resolved",
		"turn", g.st.Turn,
		"gold", g.st.Gold,
		"workshops", len(g.st.Workshops),
		"active_wars", g.st.unresolvedWars(),
		"loans", len(g.st.Loans),
	)
}

// realmProduction totals per-resource output across the player and every
// rival, excluding sieged workshops. A fraction of this reaches the market.
func (g *Game) realmProduction(sieged map[string]bool) map[economy.Resource]int {
	total := make(map[economy.Resource]int)
	add := func(ws []*Workshop) {
		for _, w := range ws {
			if w.Production > 0 && !sieged[w.Kingdom] {
				total[w.Produces] += w.Production
			}
		}
	}
	add(g.st.Workshops)
	for _, rv := range g.st.Rivals {
		add(rv.Workshops)
	}
	return total
}
