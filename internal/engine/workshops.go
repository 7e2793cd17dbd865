// Productive assets: build, sell, and the type table that fixes production,
// income, and maintenance at creation time.
package engine

import (
	"github.com/google/uuid"

	"github.com/talgya/florin/internal/economy"
	"github.com/talgya/florin/internal/entropy"
)

// AssetType names a workshop variety.
type AssetType string

const (
	Farm        AssetType = "Farm"
	Weaponsmith AssetType = "Weaponsmith"
	Apothecary  AssetType = "Apothecary"
	Mine        AssetType = "Mine"
	Bank        AssetType = "Bank"
)

// assetTypes in roll order for random rewards.
var assetTypes = []AssetType{Farm, Weaponsmith, Apothecary, Mine, Bank}

// AssetStats is the fixed cost table per asset type.
type AssetStats struct {
	Cost        int
	Production  int              // units per turn, 0 for non-producers
	Produces    economy.Resource // valid only when Production > 0
	GoldIncome  int
	Maintenance int
}

var assetTable = map[AssetType]AssetStats{
	Farm:        {Cost: 2000, Production: 150, Produces: economy.Grain, GoldIncome: 350, Maintenance: 50},
	Weaponsmith: {Cost: 4000, Production: 50, Produces: economy.Weapons, GoldIncome: 0, Maintenance: 150},
	Apothecary:  {Cost: 5000, Production: 25, Produces: economy.Medicine, GoldIncome: 100, Maintenance: 100},
	Mine:        {Cost: 7500, Production: 0, GoldIncome: 900, Maintenance: 200},
	Bank:        {Cost: 15000, Production: 0, GoldIncome: 0, Maintenance: 500},
}

// AssetCost returns the build price for a type, or 0 for unknown types.
func AssetCost(t AssetType) int {
	return assetTable[t].Cost
}

// saleFraction of the build cost is returned when selling an asset.
const saleFraction = 0.6

// Workshop is one productive asset. Stats are copied from the table at
// creation and never change.
type Workshop struct {
	ID          string           `json:"id"`
	Type        AssetType        `json:"type"`
	Kingdom     string           `json:"kingdom"`
	Production  int              `json:"production"`
	Produces    economy.Resource `json:"produces"`
	GoldIncome  int              `json:"gold_income"`
	Maintenance int              `json:"maintenance"`
}

func newWorkshop(t AssetType, kingdom string) *Workshop {
	s := assetTable[t]
	return &Workshop{
		ID:          uuid.NewString(),
		Type:        t,
		Kingdom:     kingdom,
		Production:  s.Production,
		Produces:    s.Produces,
		GoldIncome:  s.GoldIncome,
		Maintenance: s.Maintenance,
	}
}

// Build erects a workshop of the given type in a kingdom. Declines (no-op)
// when the type or kingdom is unknown, the kingdom is embargoed, or gold is
// short.
func (g *Game) Build(kingdom string, t AssetType) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	stats, ok := assetTable[t]
	if !ok || g.st.GameOver {
		return false
	}
	if _, ok := g.registry.ByName(kingdom); !ok {
		return false
	}
	if g.st.embargoed(kingdom) {
		g.logf(LogWarning, "%s refuses your gold: the embargo still stands.", kingdom)
		return false
	}
	if g.st.Gold < stats.Cost {
		return false
	}

	g.st.Gold -= stats.Cost
	g.st.Workshops = append(g.st.Workshops, newWorkshop(t, kingdom))
	g.logf(LogSuccess, "A new %s has been raised in %s (-%d florins).", t, kingdom, stats.Cost)
	return true
}

// SellWorkshop liquidates one of the player's assets at 60% of build cost.
func (g *Game) SellWorkshop(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, w := range g.st.Workshops {
		if w.ID != id {
			continue
		}
		price := int(float64(assetTable[w.Type].Cost) * saleFraction)
		g.st.Gold += price
		g.st.Workshops = append(g.st.Workshops[:i], g.st.Workshops[i+1:]...)
		g.logf(LogWarning, "The %s in %s has been sold (+%d florins).", w.Type, w.Kingdom, price)
		return true
	}
	return false
}

// randomRewardWorkshop mints a workshop of a random type in the given
// kingdom, used for war and rebellion rewards.
func randomRewardWorkshop(kingdom string, rng entropy.Source) *Workshop {
	t := assetTypes[entropy.Intn(rng, len(assetTypes))]
	return newWorkshop(t, kingdom)
}

// removeWorkshopsIn destroys every player workshop in a kingdom, returning
// how many were lost.
func (st *State) removeWorkshopsIn(kingdom string) int {
	kept := st.Workshops[:0]
	lost := 0
	for _, w := range st.Workshops {
		if w.Kingdom == kingdom {
			lost++
			continue
		}
		kept = append(kept, w)
	}
	st.Workshops = kept
	return lost
}
