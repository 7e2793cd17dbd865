// The rebellion subsystem: probabilistic uprisings advancing by random walk,
// resolving by threshold or timeout, with rewards, seizures, and embargoes.
package engine

import (
	"github.com/google/uuid"

	"github.com/talgya/florin/internal/entropy"
)

// RebelSide identifies who the player backs in an uprising.
type RebelSide string

const (
	SideRebels RebelSide = "rebels"
	SideCrown  RebelSide = "crown"
)

// ParseRebelSide maps a wire name to a RebelSide.
func ParseRebelSide(s string) (RebelSide, bool) {
	switch RebelSide(s) {
	case SideRebels, SideCrown:
		return RebelSide(s), true
	default:
		return "", false
	}
}

// Rebellion is one uprising. Resolved exactly once, at or before duration 6.
type Rebellion struct {
	ID          string    `json:"id"`
	Kingdom     string    `json:"kingdom"`
	Strength    float64   `json:"strength"`
	Duration    int       `json:"duration"`
	SupportSide RebelSide `json:"support_side,omitempty"`
	Investment  int       `json:"investment"`
	Resolved    bool      `json:"resolved"`
	Success     bool      `json:"success"`
}

const (
	rebellionSpawnChance = 0.15
	maxRebellionDuration = 5
	rebelWinThreshold    = 85
	suppressionThreshold = 15
	embargoDuration      = 3
	supportNudge         = 5
)

// maybeSpawnRebellion rolls for a new uprising in a kingdom that is neither
// under siege nor already rebelling.
func (g *Game) maybeSpawnRebellion() {
	if !entropy.Chance(g.rng, rebellionSpawnChance) {
		return
	}

	sieged := g.st.siegedKingdoms()
	rebelling := make(map[string]bool)
	for _, r := range g.st.Rebellions {
		if !r.Resolved {
			rebelling[r.Kingdom] = true
		}
	}

	var pool []string
	for _, k := range g.registry.All() {
		if !sieged[k.Name] && !rebelling[k.Name] {
			pool = append(pool, k.Name)
		}
	}
	if len(pool) == 0 {
		return
	}

	target := pool[entropy.Intn(g.rng, len(pool))]
	g.st.Rebellions = append(g.st.Rebellions, &Rebellion{
		ID:       uuid.NewString(),
		Kingdom:  target,
		Strength: float64(entropy.Between(g.rng, 30, 60)),
		Duration: 1,
	})
	g.logf(LogDanger, "UPRISING! The people of %s have risen against their rulers.", target)
}

// advanceRebellions walks every unresolved rebellion one turn and resolves
// timeouts, rebel victories, and suppressions — in that order.
func (g *Game) advanceRebellions() {
	for _, r := range g.st.Rebellions {
		if r.Resolved {
			continue
		}

		r.Duration++
		r.Strength = clampStrength(r.Strength + entropy.Spread(g.rng, 10))

		switch {
		case r.Duration > maxRebellionDuration:
			g.resolveRebellionTimeout(r)
		case r.Strength > rebelWinThreshold:
			g.resolveRebellionSuccess(r)
		case r.Strength < suppressionThreshold:
			g.resolveRebellionSuppressed(r)
		}
	}
}

// resolveRebellionTimeout fizzles an uprising that ran out of steam: the
// crown prevails by default.
func (g *Game) resolveRebellionTimeout(r *Rebellion) {
	r.Resolved = true
	r.Success = false
	r.Strength = 0

	switch r.SupportSide {
	case SideCrown:
		reward := randomRewardWorkshop(r.Kingdom, g.rng)
		g.st.Workshops = append(g.st.Workshops, reward)
		g.logf(LogSuccess, "The %s uprising faded with time. The crown granted you a %s for your loyalty.", r.Kingdom, reward.Type)
	case SideRebels:
		g.imposeEmbargo(r.Kingdom)
		g.logf(LogDanger, "The %s uprising failed. Your support was wasted and an embargo follows.", r.Kingdom)
	default:
		g.logf(LogInfo, "The %s uprising dissolved with time.", r.Kingdom)
	}
}

// resolveRebellionSuccess topples the government. Player holdings there are
// looted; a backer with no holdings is showered in spoils instead.
func (g *Game) resolveRebellionSuccess(r *Rebellion) {
	r.Resolved = true
	r.Success = true
	r.Strength = 100

	if g.st.hasWorkshopIn(r.Kingdom) {
		g.st.removeWorkshopsIn(r.Kingdom)
		g.logf(LogDanger, "The %s uprising succeeded! The government fell and your holdings were looted.", r.Kingdom)
		return
	}
	if r.SupportSide == SideRebels {
		count := entropy.Between(g.rng, 3, 6)
		for i := 0; i < count; i++ {
			g.st.Workshops = append(g.st.Workshops, randomRewardWorkshop(r.Kingdom, g.rng))
		}
		g.logf(LogSuccess, "With your backing, the rebels of %s have won. They granted you %d properties as spoils.", r.Kingdom, count)
		return
	}
	g.logf(LogInfo, "The %s uprising succeeded. A new government rules.", r.Kingdom)
}

// resolveRebellionSuppressed mirrors the timeout outcomes when the crown
// crushes the uprising outright.
func (g *Game) resolveRebellionSuppressed(r *Rebellion) {
	r.Resolved = true
	r.Success = false
	r.Strength = 0

	switch r.SupportSide {
	case SideCrown:
		reward := randomRewardWorkshop(r.Kingdom, g.rng)
		g.st.Workshops = append(g.st.Workshops, reward)
		g.logf(LogSuccess, "The crown crushed the %s uprising and granted you a %s for your aid.", r.Kingdom, reward.Type)
	case SideRebels:
		g.imposeEmbargo(r.Kingdom)
		g.logf(LogDanger, "The king of %s crushed the uprising and has not forgotten your treachery. Three years of embargo!", r.Kingdom)
	default:
		g.logf(LogInfo, "The %s uprising was suppressed. Order is restored.", r.Kingdom)
	}
}

func (g *Game) imposeEmbargo(kingdom string) {
	g.st.Embargoes = append(g.st.Embargoes, Embargo{
		Kingdom:   kingdom,
		UntilTurn: g.st.Turn + embargoDuration,
	})
}

// SupportRebellion funds one side of an uprising: gold is deducted
// immediately, the support marker is overwritten, and strength takes an
// immediate nudge.
func (g *Game) SupportRebellion(rebellionID string, amount int, side RebelSide) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := ParseRebelSide(string(side)); !ok {
		return false
	}
	var reb *Rebellion
	for _, r := range g.st.Rebellions {
		if r.ID == rebellionID {
			reb = r
			break
		}
	}
	if reb == nil || reb.Resolved || amount <= 0 || g.st.Gold < amount || g.st.GameOver {
		return false
	}

	g.st.Gold -= amount
	reb.SupportSide = side
	reb.Investment += amount
	if side == SideRebels {
		reb.Strength = clampStrength(reb.Strength + supportNudge)
		g.logf(LogWarning, "%d florins sent to the rebels of %s.", amount, reb.Kingdom)
	} else {
		reb.Strength = clampStrength(reb.Strength - supportNudge)
		g.logf(LogWarning, "%d florins sent to the royal guard of %s.", amount, reb.Kingdom)
	}
	return true
}
