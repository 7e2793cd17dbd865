// Player market trading.
package engine

import (
	"github.com/talgya/florin/internal/economy"
)

// TradeAction is the order direction.
type TradeAction string

const (
	TradeBuy  TradeAction = "buy"
	TradeSell TradeAction = "sell"
)

// Trade executes a player market order. Buying requires gold and market
// stock; selling requires holdings. Anything short is a complete no-op.
func (g *Game) Trade(res economy.Resource, action TradeAction, qty int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if qty <= 0 || g.st.GameOver {
		return false
	}

	switch action {
	case TradeBuy:
		cost := g.st.Market.BuyCost(res, qty)
		if g.st.Gold < cost || g.st.Market.Stock(res) < qty {
			return false
		}
		if _, ok := g.st.Market.ExecuteBuy(res, qty); !ok {
			return false
		}
		g.st.Gold -= cost
		g.st.Holdings[res] += qty
		g.logf(LogWarning, "Bought %d %s from the black market (-%d florins).", qty, res, cost)
		return true

	case TradeSell:
		if g.st.Holdings[res] < qty {
			return false
		}
		revenue := g.st.Market.ExecuteSell(res, qty)
		g.st.Holdings[res] -= qty
		g.st.Gold += revenue
		g.logf(LogSuccess, "Sold %d %s to the black market (+%d florins).", qty, res, revenue)
		return true

	default:
		return false
	}
}
