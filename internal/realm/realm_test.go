package realm

import (
	"testing"

	"github.com/talgya/florin/internal/config"
	"github.com/talgya/florin/internal/entropy"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry([]config.Kingdom{
		{Name: "Northern Kingdom", Strength: 80},
		{Name: "Coastal Realm", Strength: 70},
		{Name: "Trade League", Strength: 50},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return r
}

func TestNewRegistryRejectsTinyRoster(t *testing.T) {
	if _, err := NewRegistry([]config.Kingdom{{Name: "Alone"}}); err == nil {
		t.Fatal("a single kingdom cannot form a registry")
	}
}

func TestRegistryLookups(t *testing.T) {
	r := testRegistry(t)

	k, ok := r.ByID("k2")
	if !ok || k.Name != "Coastal Realm" {
		t.Errorf("ByID: got %+v ok=%v", k, ok)
	}
	k, ok = r.ByName("Trade League")
	if !ok || k.ID != "k3" {
		t.Errorf("ByName: got %+v ok=%v", k, ok)
	}
	if _, ok := r.ByName("Atlantis"); ok {
		t.Error("unknown name should not resolve")
	}
	if got := len(r.All()); got != 3 {
		t.Errorf("All: got %d kingdoms", got)
	}
}

func TestEligibleForWarAtStart(t *testing.T) {
	r := testRegistry(t)
	pool := r.EligibleForWar(1, entropy.NewScript(0.99))
	if len(pool) != 3 {
		t.Fatalf("all kingdoms start eligible, got %d", len(pool))
	}
}

func TestCooldownExcludesRecentBelligerents(t *testing.T) {
	r := testRegistry(t)
	r.RecordWarEntry("k1", 3)

	// 0.99 fails the override roll.
	pool := r.EligibleForWar(5, entropy.NewScript(0.99))
	for _, k := range pool {
		if k.ID == "k1" {
			t.Fatal("kingdom inside the cooldown window stayed eligible")
		}
	}
	if len(pool) != 2 {
		t.Errorf("pool: got %d, want 2", len(pool))
	}

	// Five turns later the cooldown has lapsed.
	pool = r.EligibleForWar(9, entropy.NewScript(0.99))
	if len(pool) != 3 {
		t.Errorf("pool after cooldown: got %d, want 3", len(pool))
	}
}

func TestCooldownOverrideRoll(t *testing.T) {
	r := testRegistry(t)
	r.RecordWarEntry("k1", 3)

	// 0.05 beats the 10% override, pulling the cooling kingdom back in.
	pool := r.EligibleForWar(5, entropy.NewScript(0.05))
	found := false
	for _, k := range pool {
		if k.ID == "k1" {
			found = true
		}
	}
	if !found {
		t.Fatal("override roll should restore eligibility")
	}
}

func TestResetCooldowns(t *testing.T) {
	r := testRegistry(t)
	r.RecordWarEntry("k1", 3)
	r.RecordWarEntry("k2", 4)

	r.ResetCooldowns()
	pool := r.EligibleForWar(5, entropy.NewScript(0.99))
	if len(pool) != 3 {
		t.Errorf("pool after reset: got %d, want 3", len(pool))
	}
}

func TestBuildAtlasDeterministic(t *testing.T) {
	r := testRegistry(t)

	a := BuildAtlas(r, 42)
	b := BuildAtlas(r, 42)
	if len(a.Tiles) != 3 {
		t.Fatalf("tiles: got %d, want 3", len(a.Tiles))
	}
	for i := range a.Tiles {
		if a.Tiles[i] != b.Tiles[i] {
			t.Fatalf("tile %d differs across runs of the same seed", i)
		}
	}

	c := BuildAtlas(r, 43)
	same := true
	for i := range a.Tiles {
		if a.Tiles[i] != c.Tiles[i] {
			same = false
		}
	}
	if same {
		t.Error("different seeds produced identical atlases")
	}
}

func TestAtlasTerrainNames(t *testing.T) {
	valid := map[string]bool{"coast": true, "plains": true, "hills": true, "mountains": true}
	a := BuildAtlas(testRegistry(t), 7)
	for _, tile := range a.Tiles {
		if !valid[tile.Terrain] {
			t.Errorf("unknown terrain %q", tile.Terrain)
		}
	}
}
