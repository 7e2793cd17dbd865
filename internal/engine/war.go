// The war subsystem: spawning with cooldown eligibility, weapon procurement
// from the market, combat resolution, and conquest consequences.
package engine

import (
	"github.com/google/uuid"

	"github.com/talgya/florin/internal/economy"
	"github.com/talgya/florin/internal/entropy"
	"github.com/talgya/florin/internal/realm"
)

// WarSide identifies a belligerent.
type WarSide string

const (
	SideAttacker WarSide = "attacker"
	SideDefender WarSide = "defender"
)

// ParseWarSide maps a wire name to a WarSide.
func ParseWarSide(s string) (WarSide, bool) {
	switch WarSide(s) {
	case SideAttacker, SideDefender:
		return WarSide(s), true
	default:
		return "", false
	}
}

// SideState is one belligerent's war footing: strength in [0,100] plus the
// weapon stockpile and gold reserve it procures with.
type SideState struct {
	Kingdom     realm.Kingdom `json:"kingdom"`
	Strength    float64       `json:"strength"`
	Weapons     int           `json:"weapons"`
	GoldReserve int           `json:"gold_reserve"`
}

// Intervention records a rival banker backing a side.
type Intervention struct {
	House  string  `json:"house"`
	Side   WarSide `json:"side"`
	Amount int     `json:"amount"`
}

// War is one conflict. Once Resolved is true the war is never mutated again;
// WinnerID is only set at resolution.
type War struct {
	ID       string    `json:"id"`
	Attacker SideState `json:"attacker"`
	Defender SideState `json:"defender"`
	Round    int       `json:"round"`

	SupportSide    WarSide        `json:"support_side,omitempty"`
	Investment     int            `json:"investment"`
	GoldSaturation int            `json:"gold_saturation"`
	Interventions  []Intervention `json:"interventions,omitempty"`

	Resolved bool   `json:"resolved"`
	WinnerID string `json:"winner_id,omitempty"`
}

const (
	maxConcurrentWars = 2
	maxWarRounds      = 4
	victoryStrength   = 90
	procurementCap    = 200 // units one side may buy per round
	weaponDecay       = 0.9 // per-round stockpile survival
	saturationScale   = 5000
)

// side returns the requested side's state for mutation.
func (w *War) side(s WarSide) *SideState {
	if s == SideAttacker {
		return &w.Attacker
	}
	return &w.Defender
}

// spawnWar picks two distinct eligible kingdoms and opens a war between
// them, recording both war entries. Returns nil when fewer than two
// kingdoms are eligible.
func spawnWar(reg *realm.Registry, turn int, rng entropy.Source) *War {
	pool := reg.EligibleForWar(turn, rng)
	if len(pool) < 2 {
		return nil
	}

	ai := entropy.Intn(rng, len(pool))
	di := entropy.Intn(rng, len(pool))
	for di == ai {
		di = entropy.Intn(rng, len(pool))
	}
	attacker, defender := pool[ai], pool[di]

	reg.RecordWarEntry(attacker.ID, turn)
	reg.RecordWarEntry(defender.ID, turn)

	return &War{
		ID:       uuid.NewString(),
		Attacker: newSideState(attacker, rng),
		Defender: newSideState(defender, rng),
		Round:    1,
	}
}

func newSideState(k realm.Kingdom, rng entropy.Source) SideState {
	return SideState{
		Kingdom:     k,
		Strength:    float64(entropy.Between(rng, 40, 60)),
		Weapons:     entropy.Between(rng, 50, 150),
		GoldReserve: entropy.Between(rng, 2000, 6000),
	}
}

// advanceWars runs one round of every unresolved war: procurement, combat,
// attrition, then resolution with conquest consequences.
func (g *Game) advanceWars() {
	for _, w := range g.st.Wars {
		if w.Resolved {
			continue
		}

		g.procure(&w.Attacker)
		g.procure(&w.Defender)

		// Asymmetric advantage: only the better-armed side gains ground.
		if w.Attacker.Weapons > w.Defender.Weapons {
			w.Attacker.Strength += 5 + g.rng.Float64()*5
		} else if w.Defender.Weapons > w.Attacker.Weapons {
			w.Defender.Strength += 5 + g.rng.Float64()*5
		}

		// Attrition hits both sides every round.
		w.Attacker.Strength -= g.rng.Float64() * 3
		w.Defender.Strength -= g.rng.Float64() * 3
		w.Attacker.Strength = clampStrength(w.Attacker.Strength)
		w.Defender.Strength = clampStrength(w.Defender.Strength)

		// Battlefield consumption.
		w.Attacker.Weapons = int(float64(w.Attacker.Weapons) * weaponDecay)
		w.Defender.Weapons = int(float64(w.Defender.Weapons) * weaponDecay)

		w.Round++
		if w.Attacker.Strength >= victoryStrength || w.Defender.Strength >= victoryStrength || w.Round > maxWarRounds {
			g.resolveWar(w)
		}
	}
}

// procure buys weapons for one war side from the open market, competing with
// the player for supply.
func (g *Game) procure(s *SideState) {
	price := g.st.Market.Price(economy.Weapons)
	affordable := s.GoldReserve / price
	if affordable < 1 {
		return
	}
	qty := affordable
	if qty > procurementCap {
		qty = procurementCap
	}
	qty = g.st.Market.Drain(economy.Weapons, qty)
	if qty == 0 {
		return
	}
	s.GoldReserve -= qty * price
	s.Weapons += qty
}

// resolveWar settles a finished war: winner by strength (ties favor the
// defender), conquest seizures, player reward, and async narrative.
func (g *Game) resolveWar(w *War) {
	attackerWon := w.Attacker.Strength > w.Defender.Strength
	winner, loser := w.Defender, w.Attacker
	if attackerWon {
		winner, loser = w.Attacker, w.Defender
	}
	w.Resolved = true
	w.WinnerID = winner.Kingdom.ID

	if attackerWon {
		// The fallen defender's holdings are seized — unless the player has
		// a foot in both camps (diplomatic immunity, player only).
		immune := g.st.hasWorkshopIn(w.Attacker.Kingdom.Name) && g.st.hasWorkshopIn(w.Defender.Kingdom.Name)
		if immune {
			g.logf(LogSuccess, "Diplomatic immunity: %s has fallen, but your investments on both sides shield you.", loser.Kingdom.Name)
		} else {
			if lost := g.st.removeWorkshopsIn(loser.Kingdom.Name); lost > 0 {
				g.logf(LogDanger, "%s has fallen! %d of your holdings were plundered.", loser.Kingdom.Name, lost)
			}
		}
		for _, rv := range g.st.Rivals {
			if lost := rv.removeWorkshopsIn(loser.Kingdom.Name); lost > 0 {
				g.logf(LogRival, "%s lost its holdings in the fall of %s.", rv.Name, loser.Kingdom.Name)
			}
		}

		if w.SupportSide == SideAttacker {
			reward := randomRewardWorkshop(loser.Kingdom.Name, g.rng)
			g.st.Workshops = append(g.st.Workshops, reward)
			g.logf(LogSuccess, "Victory with %s! You seized a %s in the occupied lands.", winner.Kingdom.Name, reward.Type)
		}
	}

	g.logf(LogInfo, "%s has won a decisive victory over %s.", winner.Kingdom.Name, loser.Kingdom.Name)
	if g.rec != nil {
		if err := g.rec.RecordWarResolution(w.ID, winner.Kingdom.Name, loser.Kingdom.Name, w.Round); err != nil {
			// Chronicle is advisory; never let it touch game state.
			_ = err
		}
	}

	// Narrative is fire-and-forget: it never gates the turn, and failure
	// simply produces no entry.
	if g.narrator != nil {
		attacker, defender := w.Attacker.Kingdom.Name, w.Defender.Kingdom.Name
		investment := w.Investment
		supportKind := ""
		if w.SupportSide != "" {
			supportKind = "gold"
		}
		winnerName := winner.Kingdom.Name
		go func() {
			text, err := g.narrator.NarrateWar(attacker, defender, winnerName, investment, supportKind)
			if err != nil {
				return
			}
			g.AppendNarrative(text)
		}()
	}
}

// maybeSpawnWar rolls for a new war when fewer than two are active: 15% with
// no active wars, 5% with one.
func (g *Game) maybeSpawnWar() {
	active := g.st.unresolvedWars()
	if active >= maxConcurrentWars {
		return
	}
	chance := 0.15
	if active == 1 {
		chance = 0.05
	}
	if !entropy.Chance(g.rng, chance) {
		return
	}
	w := spawnWar(g.registry, g.st.Turn, g.rng)
	if w == nil {
		return
	}
	g.st.Wars = append(g.st.Wars, w)
	g.logf(LogDanger, "WAR! %s marches on %s.", w.Attacker.Kingdom.Name, w.Defender.Kingdom.Name)
}

// SupportWarGold grants gold to one side's war chest. The grant feeds the
// side's procurement reserve and gives an immediate strength nudge with
// diminishing returns as saturation grows.
func (g *Game) SupportWarGold(warID string, side WarSide, amount int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	w := g.st.warByID(warID)
	if w == nil || w.Resolved || amount <= 0 || g.st.Gold < amount || g.st.GameOver {
		return false
	}
	if _, ok := ParseWarSide(string(side)); !ok {
		return false
	}

	g.st.Gold -= amount
	s := w.side(side)
	s.GoldReserve += amount

	efficiency := float64(saturationScale) / float64(saturationScale+w.GoldSaturation)
	s.Strength = clampStrength(s.Strength + float64(amount)/500*efficiency)

	w.GoldSaturation += amount
	w.Investment += amount
	w.SupportSide = side
	g.logf(LogWarning, "%d florins granted to the %s cause.", amount, s.Kingdom.Name)
	return true
}

// SupportWarWeapons sells player weapons directly to one side at a 1.2x
// premium over the market price, arming that side immediately.
func (g *Game) SupportWarWeapons(warID string, side WarSide, qty int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	w := g.st.warByID(warID)
	if w == nil || w.Resolved || qty <= 0 || g.st.Holdings[economy.Weapons] < qty || g.st.GameOver {
		return false
	}
	if _, ok := ParseWarSide(string(side)); !ok {
		return false
	}

	unitPrice := int(float64(g.st.Market.Price(economy.Weapons)) * 1.2)
	revenue := qty * unitPrice

	g.st.Holdings[economy.Weapons] -= qty
	g.st.Gold += revenue
	s := w.side(side)
	s.Weapons += qty
	s.Strength = clampStrength(s.Strength + float64(qty)/50)

	w.Investment += qty * 10
	w.SupportSide = side
	g.logf(LogSuccess, "%d weapons sold to %s at %d florins apiece (+%d florins).", qty, s.Kingdom.Name, unitPrice, revenue)
	return true
}

func (st *State) warByID(id string) *War {
	for _, w := range st.Wars {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func clampStrength(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
