package engine

import (
	"math"
	"testing"

	"github.com/talgya/florin/internal/economy"
	"github.com/talgya/florin/internal/entropy"
)

func TestSpawnWarDistinctSides(t *testing.T) {
	// chance, attacker pick, defender pick; side stats cycle the tail.
	g := newTestGame(t, entropy.NewScript(0.0, 0.1, 0.9))

	g.maybeSpawnWar()
	if len(g.st.Wars) != 1 {
		t.Fatalf("wars: got %d, want 1", len(g.st.Wars))
	}
	w := g.st.Wars[0]
	if w.Attacker.Kingdom.ID == w.Defender.Kingdom.ID {
		t.Fatal("a kingdom cannot war itself")
	}
	if w.Round != 1 || w.Resolved {
		t.Errorf("fresh war state wrong: round=%d resolved=%v", w.Round, w.Resolved)
	}
	for _, s := range []SideState{w.Attacker, w.Defender} {
		if s.Strength < 40 || s.Strength >= 60 {
			t.Errorf("%s strength out of range: %v", s.Kingdom.Name, s.Strength)
		}
		if s.Weapons < 50 || s.Weapons >= 150 {
			t.Errorf("%s weapons out of range: %d", s.Kingdom.Name, s.Weapons)
		}
		if s.GoldReserve < 2000 || s.GoldReserve >= 6000 {
			t.Errorf("%s reserve out of range: %d", s.Kingdom.Name, s.GoldReserve)
		}
	}
}

func TestSpawnWarHonorsCooldown(t *testing.T) {
	g := newTestGame(t, entropy.NewScript(0.0, 0.1, 0.9))
	g.maybeSpawnWar()
	first := g.st.Wars[0]

	// Cooldown rolls fail, then attacker and defender picks from the rest.
	g.rng = entropy.NewScript(0.99, 0.99, 0.0, 0.9)
	w := spawnWar(g.registry, 2, g.rng)
	if w == nil {
		t.Fatal("two kingdoms remained eligible")
	}
	for _, k := range []string{w.Attacker.Kingdom.ID, w.Defender.Kingdom.ID} {
		if k == first.Attacker.Kingdom.ID || k == first.Defender.Kingdom.ID {
			t.Errorf("cooling kingdom %s re-entered a war", k)
		}
	}
}

func TestMaybeSpawnWarRespectsCap(t *testing.T) {
	g := newTestGame(t, entropy.NewScript(0.0, 0.1, 0.9))
	addWar(t, g, "Northern Kingdom", "Coastal Realm", 50, 50, 1)
	addWar(t, g, "Trade League", "Mountain Clans", 50, 50, 1)

	g.maybeSpawnWar()
	if len(g.st.Wars) != 2 {
		t.Fatalf("spawned past the two-war cap: %d", len(g.st.Wars))
	}
}

func TestAdvanceWarsRoundLimit(t *testing.T) {
	g := newTestGame(t, entropy.NewScript(0.0))
	w := addWar(t, g, "Northern Kingdom", "Coastal Realm", 70, 55, 4)

	g.advanceWars()
	if !w.Resolved {
		t.Fatal("war past the round limit must resolve")
	}
	if w.Round != 5 {
		t.Errorf("round: got %d, want 5", w.Round)
	}
	if w.WinnerID != w.Attacker.Kingdom.ID {
		t.Errorf("stronger attacker should win, winner=%s", w.WinnerID)
	}
}

func TestAdvanceWarsStrengthVictory(t *testing.T) {
	g := newTestGame(t, entropy.NewScript(0.0))
	w := addWar(t, g, "Northern Kingdom", "Coastal Realm", 40, 95, 1)

	g.advanceWars()
	if !w.Resolved {
		t.Fatal("side at the victory threshold must resolve the war")
	}
	if w.WinnerID != w.Defender.Kingdom.ID {
		t.Errorf("defender at 95 strength should win, winner=%s", w.WinnerID)
	}
}

func TestWarTieFavorsDefender(t *testing.T) {
	g := newTestGame(t, entropy.NewScript(0.0))
	w := addWar(t, g, "Northern Kingdom", "Coastal Realm", 60, 60, 4)

	g.advanceWars()
	if !w.Resolved || w.WinnerID != w.Defender.Kingdom.ID {
		t.Errorf("tied strengths favor the defender, winner=%s", w.WinnerID)
	}
}

func TestAdvanceWarsProcurement(t *testing.T) {
	g := newTestGame(t, entropy.NewScript(0.0))
	w := addWar(t, g, "Northern Kingdom", "Coastal Realm", 50, 50, 1)
	w.Attacker.GoldReserve = 100000

	g.advanceWars()
	// Price 35: the reserve affords far more than the per-round cap of 200;
	// the round's decay then claims a tenth of the stockpile.
	if w.Attacker.Weapons != 180 {
		t.Errorf("attacker weapons: got %d, want 180", w.Attacker.Weapons)
	}
	if w.Attacker.GoldReserve != 100000-200*35 {
		t.Errorf("attacker reserve: got %d, want %d", w.Attacker.GoldReserve, 100000-200*35)
	}
	if got := g.st.Market.Stock(economy.Weapons); got != 300 {
		t.Errorf("market stock after procurement: got %d, want 300", got)
	}
	// Better-armed side gains ground: 50 + 5 with zeroed rolls.
	if w.Attacker.Strength != 55 {
		t.Errorf("attacker strength: got %v, want 55", w.Attacker.Strength)
	}
	if w.Defender.Strength != 50 {
		t.Errorf("defender strength: got %v, want 50", w.Defender.Strength)
	}
}

func TestResolvedWarsAreInert(t *testing.T) {
	g := newTestGame(t, entropy.NewScript(0.5))
	g.st.Gold = 10000
	w := addWar(t, g, "Northern Kingdom", "Coastal Realm", 70, 55, 5)
	w.Resolved = true
	w.WinnerID = w.Attacker.Kingdom.ID

	if g.SupportWarGold(w.ID, SideAttacker, 1000) {
		t.Error("gold support on a resolved war should decline")
	}
	if g.SupportWarWeapons(w.ID, SideAttacker, 10) {
		t.Error("weapon support on a resolved war should decline")
	}
	g.advanceWars()
	if w.Round != 5 {
		t.Errorf("resolved war advanced: round %d", w.Round)
	}
}

func TestSupportWarGold(t *testing.T) {
	g := newTestGame(t, entropy.NewScript(0.5))
	g.st.Gold = 5000
	w := addWar(t, g, "Northern Kingdom", "Coastal Realm", 50, 50, 1)

	if !g.SupportWarGold(w.ID, SideAttacker, 1000) {
		t.Fatal("support declined")
	}
	if g.st.Gold != 4000 {
		t.Errorf("gold: got %d, want 4000", g.st.Gold)
	}
	if w.Attacker.GoldReserve != 1000 {
		t.Errorf("reserve: got %d, want 1000", w.Attacker.GoldReserve)
	}
	// First grant lands at full efficiency: 1000/500 = +2.
	if w.Attacker.Strength != 52 {
		t.Errorf("strength: got %v, want 52", w.Attacker.Strength)
	}
	if w.Investment != 1000 || w.GoldSaturation != 1000 || w.SupportSide != SideAttacker {
		t.Errorf("bookkeeping wrong: %+v", w)
	}

	// The second grant is damped by the saturation already poured in.
	if !g.SupportWarGold(w.ID, SideAttacker, 1000) {
		t.Fatal("second support declined")
	}
	want := 52 + 2*(5000.0/6000.0)
	if math.Abs(w.Attacker.Strength-want) > 1e-9 {
		t.Errorf("damped strength: got %v, want %v", w.Attacker.Strength, want)
	}
}

func TestSupportWarGoldValidation(t *testing.T) {
	g := newTestGame(t, entropy.NewScript(0.5))
	g.st.Gold = 500
	w := addWar(t, g, "Northern Kingdom", "Coastal Realm", 50, 50, 1)

	if g.SupportWarGold(w.ID, SideAttacker, 1000) {
		t.Error("grant beyond gold should decline")
	}
	if g.SupportWarGold(w.ID, SideAttacker, 0) {
		t.Error("zero grant should decline")
	}
	if g.SupportWarGold("no-such-war", SideAttacker, 100) {
		t.Error("unknown war should decline")
	}
	if g.st.Gold != 500 || w.GoldSaturation != 0 {
		t.Error("declined grants must leave state untouched")
	}
}

func TestSupportWarWeapons(t *testing.T) {
	g := newTestGame(t, entropy.NewScript(0.5))
	g.st.Gold = 5000
	g.st.Holdings[economy.Weapons] = 200
	w := addWar(t, g, "Northern Kingdom", "Coastal Realm", 50, 50, 1)

	if !g.SupportWarWeapons(w.ID, SideDefender, 50) {
		t.Fatal("weapon support declined")
	}
	// Market price 35, premium 1.2x: 42 apiece for 50 units.
	if g.st.Gold != 5000+50*42 {
		t.Errorf("gold: got %d, want %d", g.st.Gold, 5000+50*42)
	}
	if g.st.Holdings[economy.Weapons] != 150 {
		t.Errorf("holdings: got %d, want 150", g.st.Holdings[economy.Weapons])
	}
	if w.Defender.Weapons != 50 {
		t.Errorf("defender weapons: got %d, want 50", w.Defender.Weapons)
	}
	if w.Defender.Strength != 51 {
		t.Errorf("defender strength: got %v, want 51", w.Defender.Strength)
	}
	if w.Investment != 500 || w.SupportSide != SideDefender {
		t.Errorf("bookkeeping wrong: investment=%d side=%s", w.Investment, w.SupportSide)
	}

	if g.SupportWarWeapons(w.ID, SideDefender, 151) {
		t.Error("support beyond holdings should decline")
	}
}

func TestConquestSeizesLoserHoldings(t *testing.T) {
	g := newTestGame(t, entropy.NewScript(0.0))
	g.st.Workshops = []*Workshop{newWorkshop(Farm, "Coastal Realm")}
	w := addWar(t, g, "Northern Kingdom", "Coastal Realm", 70, 55, 5)

	g.resolveWar(w)
	if len(g.st.Workshops) != 0 {
		t.Errorf("fallen kingdom's player holdings survived: %+v", g.st.Workshops)
	}
}

func TestDiplomaticImmunity(t *testing.T) {
	g := newTestGame(t, entropy.NewScript(0.0))
	g.st.Workshops = []*Workshop{
		newWorkshop(Farm, "Northern Kingdom"),
		newWorkshop(Mine, "Coastal Realm"),
	}
	w := addWar(t, g, "Northern Kingdom", "Coastal Realm", 70, 55, 5)

	g.resolveWar(w)
	if len(g.st.Workshops) != 2 {
		t.Errorf("holdings on both sides should be shielded, kept %d", len(g.st.Workshops))
	}
}

func TestConquestSeizesRivalHoldings(t *testing.T) {
	g := newTestGame(t, entropy.NewScript(0.0))
	rv := &Rival{ID: "r1", Name: "Iron Bank", Holdings: map[economy.Resource]int{}}
	rv.Workshops = []*Workshop{
		newWorkshop(Farm, "Coastal Realm"),
		newWorkshop(Mine, "Trade League"),
	}
	g.st.Rivals = []*Rival{rv}
	// Rivals have no immunity even with a foot in both camps.
	g.st.Workshops = []*Workshop{
		newWorkshop(Farm, "Northern Kingdom"),
		newWorkshop(Mine, "Coastal Realm"),
	}
	w := addWar(t, g, "Northern Kingdom", "Coastal Realm", 70, 55, 5)

	g.resolveWar(w)
	if len(rv.Workshops) != 1 || rv.Workshops[0].Kingdom != "Trade League" {
		t.Errorf("rival holdings in the fallen kingdom survived: %+v", rv.Workshops)
	}
}

func TestAttackerBackerReward(t *testing.T) {
	g := newTestGame(t, entropy.NewScript(0.0))
	w := addWar(t, g, "Northern Kingdom", "Coastal Realm", 70, 55, 5)
	w.SupportSide = SideAttacker

	g.resolveWar(w)
	if len(g.st.Workshops) != 1 {
		t.Fatalf("backing the winning attacker should mint a reward, got %d", len(g.st.Workshops))
	}
	if g.st.Workshops[0].Kingdom != "Coastal Realm" {
		t.Errorf("reward lands in the occupied kingdom, got %s", g.st.Workshops[0].Kingdom)
	}
}

func TestDefenderBackerNoReward(t *testing.T) {
	g := newTestGame(t, entropy.NewScript(0.0))
	w := addWar(t, g, "Northern Kingdom", "Coastal Realm", 70, 55, 5)
	w.SupportSide = SideDefender

	g.resolveWar(w)
	if len(g.st.Workshops) != 0 {
		t.Errorf("backing the losing defender should mint nothing, got %d", len(g.st.Workshops))
	}
}

func TestClampStrength(t *testing.T) {
	if got := clampStrength(-5); got != 0 {
		t.Errorf("clamp low: got %v", got)
	}
	if got := clampStrength(105); got != 100 {
		t.Errorf("clamp high: got %v", got)
	}
	if got := clampStrength(50); got != 50 {
		t.Errorf("clamp identity: got %v", got)
	}
}
