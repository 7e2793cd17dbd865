package economy

import (
	"strings"
	"testing"

	"github.com/talgya/florin/internal/entropy"
)

func TestNewMarketDefaults(t *testing.T) {
	m := NewMarket()
	for _, r := range Resources {
		want := tunings[r]
		it := m.Item(r)
		if it.Price != want.basePrice {
			t.Errorf("%s price: got %d, want %d", r, it.Price, want.basePrice)
		}
		if it.Stock != want.startStock {
			t.Errorf("%s stock: got %d, want %d", r, it.Stock, want.startStock)
		}
		if it.Trend != TrendStable {
			t.Errorf("%s trend: got %s, want stable", r, it.Trend)
		}
	}
}

func TestAdvanceInvariants(t *testing.T) {
	m := NewMarket()
	rng := entropy.NewRand(99)
	production := map[Resource]int{Weapons: 100, Grain: 300, Medicine: 25}

	for turn := 0; turn < 200; turn++ {
		m.Advance(production, turn%3, rng)
		for _, r := range Resources {
			it := m.Item(r)
			if it.Stock < 0 {
				t.Fatalf("turn %d: %s stock went negative: %d", turn, r, it.Stock)
			}
			if it.Price < 1 || it.Price > tunings[r].priceCap {
				t.Fatalf("turn %d: %s price out of bounds: %d", turn, r, it.Price)
			}
		}
	}
}

func TestAdvanceScarcityEvent(t *testing.T) {
	m := NewMarket()
	m.Item(Weapons).Stock = 40

	// Midpoint draws make the price jitter zero.
	events := m.Advance(nil, 1, entropy.NewScript(0.5))

	found := false
	for _, ev := range events {
		if ev.Level == "danger" && strings.Contains(ev.Message, "weapons scarcity") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected weapons scarcity event, got %v", events)
	}

	it := m.Item(Weapons)
	if it.Stock != 0 {
		t.Errorf("stock: got %d, want 0 after war draw", it.Stock)
	}
	// Scarce bump 12 plus war pressure 6 on a base price of 35.
	if it.Price != 53 {
		t.Errorf("price: got %d, want 53", it.Price)
	}
	if it.Trend != TrendUp {
		t.Errorf("trend: got %s, want up", it.Trend)
	}
}

func TestAdvanceNoEventWhenStocked(t *testing.T) {
	m := NewMarket()

	// Base stocks sit well above every scarcity threshold with no wars.
	events := m.Advance(nil, 0, entropy.NewScript(0.5))
	if len(events) != 0 {
		t.Fatalf("no scarcity expected on a stocked market, got %v", events)
	}
}

func TestExecuteBuyShortStock(t *testing.T) {
	m := NewMarket()
	it := m.Item(Medicine)
	it.Stock = 5

	cost, ok := m.ExecuteBuy(Medicine, 10)
	if ok || cost != 0 {
		t.Fatalf("buy beyond stock should decline, got cost=%d ok=%v", cost, ok)
	}
	if it.Stock != 5 || it.Price != 60 {
		t.Fatalf("declined buy must not touch the market: stock=%d price=%d", it.Stock, it.Price)
	}
}

func TestExecuteBuyMovesPrice(t *testing.T) {
	m := NewMarket()

	// Medicine reacts to small lots (divisor 10); weapons do not (divisor 50).
	cost, ok := m.ExecuteBuy(Medicine, 20)
	if !ok || cost != 60*20 {
		t.Fatalf("medicine buy: cost=%d ok=%v", cost, ok)
	}
	if got := m.Price(Medicine); got != 62 {
		t.Errorf("medicine price after lot of 20: got %d, want 62", got)
	}

	if _, ok := m.ExecuteBuy(Weapons, 20); !ok {
		t.Fatal("weapons buy declined")
	}
	if got := m.Price(Weapons); got != 35 {
		t.Errorf("weapons price after lot of 20: got %d, want 35", got)
	}
}

func TestExecuteSellSpread(t *testing.T) {
	m := NewMarket()

	revenue := m.ExecuteSell(Weapons, 10)
	if revenue != 280 { // floor(35*0.8) = 28 per unit
		t.Errorf("sell revenue: got %d, want 280", revenue)
	}
	if got := m.Stock(Weapons); got != 510 {
		t.Errorf("stock after sell: got %d, want 510", got)
	}
}

func TestDrainCapsAtStock(t *testing.T) {
	m := NewMarket()
	it := m.Item(Medicine)
	it.Stock = 30
	price := it.Price

	if got := m.Drain(Medicine, 100); got != 30 {
		t.Fatalf("drain: got %d, want 30", got)
	}
	if it.Stock != 0 {
		t.Errorf("stock after drain: got %d, want 0", it.Stock)
	}
	if it.Price != price {
		t.Errorf("drain must not move price: got %d, want %d", it.Price, price)
	}
}

func TestNudgePriceClamps(t *testing.T) {
	m := NewMarket()
	m.NudgePrice(Grain, -1000)
	if got := m.Price(Grain); got != 1 {
		t.Errorf("price floor: got %d, want 1", got)
	}
	m.NudgePrice(Grain, 1000)
	if got := m.Price(Grain); got != 80 {
		t.Errorf("price cap: got %d, want 80", got)
	}
}

func TestParseResource(t *testing.T) {
	for _, r := range Resources {
		got, ok := ParseResource(r.String())
		if !ok || got != r {
			t.Errorf("round trip for %s failed", r)
		}
	}
	if _, ok := ParseResource("spice"); ok {
		t.Error("unknown resource should not parse")
	}
}
