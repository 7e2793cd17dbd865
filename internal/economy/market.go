// Package economy provides the three-resource commodity market: price,
// stock, and trend per resource, moved each turn by realm production, war
// consumption, and trade orders.
package economy

import (
	"fmt"

	"github.com/talgya/florin/internal/entropy"
)

// Resource is a tradable commodity kind.
type Resource int

const (
	Weapons Resource = iota
	Grain
	Medicine
)

// Resources lists every commodity in a stable order.
var Resources = []Resource{Weapons, Grain, Medicine}

func (r Resource) String() string {
	switch r {
	case Weapons:
		return "weapons"
	case Grain:
		return "grain"
	case Medicine:
		return "medicine"
	default:
		return "unknown"
	}
}

// ParseResource maps a wire name to a Resource.
func ParseResource(name string) (Resource, bool) {
	switch name {
	case "weapons":
		return Weapons, true
	case "grain":
		return Grain, true
	case "medicine":
		return Medicine, true
	default:
		return 0, false
	}
}

// Trend describes the price direction since the previous turn.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// tuning holds the per-resource market constants.
type tuning struct {
	basePrice   int
	startStock  int
	inflowShare float64 // fraction of realm production reaching the market
	warDraw     int     // units consumed per active war per turn
	scarceAt    int     // below this: scarcity event + big price bump
	lowAt       int     // below this: small price bump
	surplusAt   int     // above this: price decrement
	scarceBump  int
	lowBump     int
	surplusCut  int
	warPressure int // price bump per active war
	priceCap    int
	tradeDiv    int // trade perturbation divisor (lower = more sensitive)
}

var tunings = map[Resource]tuning{
	Weapons: {
		basePrice: 35, startStock: 500, inflowShare: 0.20, warDraw: 150,
		scarceAt: 50, lowAt: 200, surplusAt: 2000,
		scarceBump: 12, lowBump: 5, surplusCut: 4,
		warPressure: 6, priceCap: 250, tradeDiv: 50,
	},
	Grain: {
		basePrice: 12, startStock: 2000, inflowShare: 0.30, warDraw: 800,
		scarceAt: 300, lowAt: 1000, surplusAt: 5000,
		scarceBump: 6, lowBump: 3, surplusCut: 2,
		warPressure: 2, priceCap: 80, tradeDiv: 50,
	},
	Medicine: {
		basePrice: 60, startStock: 150, inflowShare: 0.20, warDraw: 40,
		scarceAt: 30, lowAt: 80, surplusAt: 400,
		scarceBump: 15, lowBump: 8, surplusCut: 5,
		warPressure: 3, priceCap: 400, tradeDiv: 10,
	},
}

const (
	minPrice    = 1
	sellSpread  = 0.8 // selling pays this fraction of the buy price
	priceJitter = 2   // advance jitter in [-2, +2]
)

// Item is the live market state for one resource.
type Item struct {
	Price int   `json:"price"`
	Stock int   `json:"stock"`
	Trend Trend `json:"trend"`
}

// Event is a notable market occurrence surfaced to the game log.
type Event struct {
	Level   string // "info", "warning", "danger"
	Message string
}

// Market holds one Item per resource.
type Market struct {
	items map[Resource]*Item
}

// NewMarket creates a market at base prices and starting stock.
func NewMarket() *Market {
	m := &Market{items: make(map[Resource]*Item, len(Resources))}
	for _, r := range Resources {
		t := tunings[r]
		m.items[r] = &Item{Price: t.basePrice, Stock: t.startStock, Trend: TrendStable}
	}
	return m
}

// Item returns the live state for a resource.
func (m *Market) Item(r Resource) *Item {
	return m.items[r]
}

// Price returns the current unit price for a resource.
func (m *Market) Price(r Resource) int {
	return m.items[r].Price
}

// Stock returns the current stock for a resource.
func (m *Market) Stock(r Resource) int {
	return m.items[r].Stock
}

// Snapshot returns a copy of all items keyed by resource name.
func (m *Market) Snapshot() map[string]Item {
	out := make(map[string]Item, len(m.items))
	for r, it := range m.items {
		out[r.String()] = *it
	}
	return out
}

// Advance applies one turn of market movement: production inflow, war
// consumption, and price drift. production is total realm-wide output per
// resource (player plus rivals); activeWars is the unresolved war count.
func (m *Market) Advance(production map[Resource]int, activeWars int, rng entropy.Source) []Event {
	var events []Event

	for _, r := range Resources {
		t := tunings[r]
		it := m.items[r]
		prevPrice := it.Price

		inflow := int(float64(production[r]) * t.inflowShare)
		it.Stock += inflow
		it.Stock -= t.warDraw * activeWars
		if it.Stock < 0 {
			it.Stock = 0
		}
		if it.Stock < t.scarceAt {
			events = append(events, Event{
				Level:   "danger",
				Message: fmt.Sprintf("%s scarcity: the warring realms have drained the black market.", r),
			})
		}

		delta := 0
		switch {
		case it.Stock < t.scarceAt:
			delta += t.scarceBump
		case it.Stock < t.lowAt:
			delta += t.lowBump
		}
		if it.Stock > t.surplusAt {
			delta -= t.surplusCut
		}
		delta += t.warPressure * activeWars
		delta += entropy.Between(rng, -priceJitter, priceJitter+1)

		it.Price = clampPrice(it.Price+delta, t.priceCap)
		it.Trend = trendFrom(prevPrice, it.Price)
	}
	return events
}

// BuyCost quotes the total cost of buying qty units.
func (m *Market) BuyCost(r Resource, qty int) int {
	return m.items[r].Price * qty
}

// SellRevenue quotes the total payout of selling qty units.
func (m *Market) SellRevenue(r Resource, qty int) int {
	return int(float64(m.items[r].Price)*sellSpread) * qty
}

// ExecuteBuy removes qty from stock and nudges the price up. The caller has
// already validated funds and stock; ok is false (and nothing changes) when
// stock is short.
func (m *Market) ExecuteBuy(r Resource, qty int) (cost int, ok bool) {
	it := m.items[r]
	if qty <= 0 || it.Stock < qty {
		return 0, false
	}
	cost = it.Price * qty
	it.Stock -= qty
	it.Price = clampPrice(it.Price+qty/tunings[r].tradeDiv, tunings[r].priceCap)
	return cost, true
}

// ExecuteSell adds qty to stock, nudges the price down, and returns the
// payout at the sell spread.
func (m *Market) ExecuteSell(r Resource, qty int) (revenue int) {
	if qty <= 0 {
		return 0
	}
	it := m.items[r]
	revenue = int(float64(it.Price)*sellSpread) * qty
	it.Stock += qty
	it.Price = clampPrice(it.Price-qty/tunings[r].tradeDiv, tunings[r].priceCap)
	return revenue
}

// Drain removes up to qty units from stock without touching price, returning
// what was actually taken. War procurement uses this after computing
// affordability at the quoted price.
func (m *Market) Drain(r Resource, qty int) int {
	it := m.items[r]
	if qty <= 0 {
		return 0
	}
	if qty > it.Stock {
		qty = it.Stock
	}
	it.Stock -= qty
	return qty
}

// NudgePrice shifts the price by delta, clamped to [1, cap]. Rival traders
// use unit nudges.
func (m *Market) NudgePrice(r Resource, delta int) {
	it := m.items[r]
	it.Price = clampPrice(it.Price+delta, tunings[r].priceCap)
}

// AddStock returns qty units to the market (rival sells).
func (m *Market) AddStock(r Resource, qty int) {
	if qty > 0 {
		m.items[r].Stock += qty
	}
}

func clampPrice(p, cap int) int {
	if p < minPrice {
		return minPrice
	}
	if p > cap {
		return cap
	}
	return p
}

func trendFrom(prev, cur int) Trend {
	switch {
	case cur > prev:
		return TrendUp
	case cur < prev:
		return TrendDown
	default:
		return TrendStable
	}
}
