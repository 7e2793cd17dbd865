// Rival banking houses: income accrual, mean-reversion trading, opportunist
// asset purchases, and war profiteering.
package engine

import (
	"github.com/google/uuid"

	"github.com/talgya/florin/internal/economy"
	"github.com/talgya/florin/internal/entropy"
	"github.com/talgya/florin/internal/realm"
)

// Personality fixes how a rival behaves for the whole game.
type Personality string

const (
	Aggressive   Personality = "aggressive"
	Conservative Personality = "conservative"
	Balanced     Personality = "balanced"
)

// Rival is one AI competitor banker.
type Rival struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Gold        int                      `json:"gold"`
	Holdings    map[economy.Resource]int `json:"holdings"`
	Workshops   []*Workshop              `json:"workshops"`
	Personality Personality              `json:"personality"`

	// Mean-reversion reference prices, rolled once at creation.
	idealPrice map[economy.Resource]int
}

const (
	rivalBaseIncome       = 500
	rivalBuyWealthFloor   = 6000
	rivalBuyChance        = 0.40
	rivalWarWealthFloor   = 3000
	rivalWarWeaponLot     = 50
	rivalWarStrengthBoost = 2
)

// tradeLots is the fixed quantity a rival trades per resource per turn.
var tradeLots = map[economy.Resource]int{
	economy.Weapons:  20,
	economy.Grain:    100,
	economy.Medicine: 10,
}

// generateRivals creates the fifteen competitor houses.
func generateRivals(houses []string, rng entropy.Source) []*Rival {
	rivals := make([]*Rival, 0, len(houses))
	for _, name := range houses {
		p := Balanced
		if rng.Float64() > 0.6 {
			p = Aggressive
		} else if rng.Float64() > 0.3 {
			p = Conservative
		}

		ideal := make(map[economy.Resource]int, len(economy.Resources))
		fresh := economy.NewMarket()
		for _, r := range economy.Resources {
			base := fresh.Price(r)
			ideal[r] = int(float64(base) * (0.8 + rng.Float64()*0.4))
		}

		rivals = append(rivals, &Rival{
			ID:   uuid.NewString(),
			Name: name,
			Gold: entropy.Between(rng, 5000, 35000),
			Holdings: map[economy.Resource]int{
				economy.Weapons:  entropy.Between(rng, 50, 200),
				economy.Grain:    entropy.Between(rng, 100, 400),
				economy.Medicine: entropy.Between(rng, 10, 50),
			},
			Personality: p,
			idealPrice:  ideal,
		})
	}
	return rivals
}

// warChance returns the per-war intervention probability for a personality.
func (r *Rival) warChance() float64 {
	switch r.Personality {
	case Aggressive:
		return 0.6
	case Conservative:
		return 0.2
	default:
		return 0.3
	}
}

func (r *Rival) removeWorkshopsIn(kingdom string) int {
	kept := r.Workshops[:0]
	lost := 0
	for _, w := range r.Workshops {
		if w.Kingdom == kingdom {
			lost++
			continue
		}
		kept = append(kept, w)
	}
	r.Workshops = kept
	return lost
}

// runRivals advances every rival one turn: income, trading, purchases, and
// war interventions. Sieged rival workshops produce and pay nothing, same as
// the player's.
func (g *Game) runRivals() {
	sieged := g.st.siegedKingdoms()
	kingdoms := g.registry.All()

	for _, rv := range g.st.Rivals {
		// Income and production from the rival's own workshops.
		net := 0
		for _, w := range rv.Workshops {
			if sieged[w.Kingdom] {
				net -= w.Maintenance
				continue
			}
			net += w.GoldIncome - w.Maintenance
			if w.Production > 0 {
				rv.Holdings[w.Produces] += w.Production
			}
		}
		if net < 0 {
			net = 0
		}
		rv.Gold += net + rivalBaseIncome

		g.rivalTrade(rv)

		// Opportunistic asset purchase.
		if rv.Gold > rivalBuyWealthFloor && entropy.Chance(g.rng, rivalBuyChance) {
			g.rivalBuyWorkshop(rv, kingdoms)
		}

		// War profiteering.
		for _, w := range g.st.Wars {
			if w.Resolved {
				continue
			}
			if rv.Gold <= rivalWarWealthFloor || !entropy.Chance(g.rng, rv.warChance()) {
				continue
			}
			g.rivalIntervene(rv, w)
		}
	}
}

// rivalTrade runs the simplified mean-reversion trader: buy a lot below the
// ideal price, sell a lot above 1.5x ideal, nudging price by one either way.
func (g *Game) rivalTrade(rv *Rival) {
	for _, res := range economy.Resources {
		lot := tradeLots[res]
		price := g.st.Market.Price(res)

		switch {
		case price < rv.idealPrice[res]:
			cost := price * lot
			if rv.Gold < cost || g.st.Market.Stock(res) < lot {
				continue
			}
			g.st.Market.Drain(res, lot)
			g.st.Market.NudgePrice(res, 1)
			rv.Gold -= cost
			rv.Holdings[res] += lot
		case price > rv.idealPrice[res]*3/2 && rv.Holdings[res] >= lot:
			rv.Holdings[res] -= lot
			rv.Gold += price * lot
			g.st.Market.AddStock(res, lot)
			g.st.Market.NudgePrice(res, -1)
		}
	}
}

// rivalBuyWorkshop purchases one affordable asset type in a random kingdom.
func (g *Game) rivalBuyWorkshop(rv *Rival, kingdoms []realm.Kingdom) {
	var affordable []AssetType
	for _, t := range assetTypes {
		if assetTable[t].Cost <= rv.Gold {
			affordable = append(affordable, t)
		}
	}
	if len(affordable) == 0 {
		return
	}
	t := affordable[entropy.Intn(g.rng, len(affordable))]
	kingdom := kingdoms[entropy.Intn(g.rng, len(kingdoms))].Name

	rv.Gold -= assetTable[t].Cost
	rv.Workshops = append(rv.Workshops, newWorkshop(t, kingdom))
	g.logf(LogRival, "%s has purchased a new %s in %s.", rv.Name, t, kingdom)
}

// rivalIntervene has the rival pick a side by personality and sell weapons
// into the war at a premium.
func (g *Game) rivalIntervene(rv *Rival, w *War) {
	var side WarSide
	switch rv.Personality {
	case Aggressive:
		// Back the underdog: a longer war sells more steel.
		side = SideAttacker
		if w.Attacker.Strength >= w.Defender.Strength {
			side = SideDefender
		}
	case Conservative:
		side = SideDefender
		if w.Attacker.Strength > w.Defender.Strength {
			side = SideAttacker
		}
	default:
		side = SideAttacker
		if entropy.Chance(g.rng, 0.5) {
			side = SideDefender
		}
	}

	if rv.Holdings[economy.Weapons] < rivalWarWeaponLot {
		return
	}
	unitPrice := int(float64(g.st.Market.Price(economy.Weapons)) * 1.2)
	revenue := rivalWarWeaponLot * unitPrice

	rv.Holdings[economy.Weapons] -= rivalWarWeaponLot
	rv.Gold += revenue

	s := w.side(side)
	s.Weapons += rivalWarWeaponLot
	s.Strength = clampStrength(s.Strength + rivalWarStrengthBoost)
	w.Interventions = append(w.Interventions, Intervention{House: rv.Name, Side: side, Amount: revenue})
	g.logf(LogRival, "%s sold arms to the %s host.", rv.Name, s.Kingdom.Name)
}
