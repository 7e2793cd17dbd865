// Read-only state views for the presentation layer.
package engine

import (
	"github.com/talgya/florin/internal/economy"
)

// Snapshot is a JSON-friendly copy of the full game state.
type Snapshot struct {
	Turn       int            `json:"turn"`
	Gold       int            `json:"gold"`
	Holdings   map[string]int `json:"holdings"`
	Reputation int            `json:"reputation"`

	Workshops    []Workshop              `json:"workshops"`
	Wars         []War                   `json:"wars"`
	Rebellions   []Rebellion             `json:"rebellions"`
	Embargoes    []Embargo               `json:"embargoes"`
	Loans        []Loan                  `json:"loans"`
	LoanRequests []LoanRequest           `json:"loan_requests"`
	Agents       []Agent                 `json:"agents"`
	Rivals       []RivalView             `json:"rivals"`
	Market       map[string]economy.Item `json:"market"`
	Log          []LogEntry              `json:"log"`

	Thinking bool `json:"thinking"`
	GameOver bool `json:"game_over"`
}

// RivalView is the public face of a rival house (ideal prices stay private).
type RivalView struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Gold        int            `json:"gold"`
	Holdings    map[string]int `json:"holdings"`
	Workshops   []Workshop     `json:"workshops"`
	Personality Personality    `json:"personality"`
}

// logTail limits how much chronicle the snapshot carries.
const logTail = 100

// Snapshot copies the current state for read-only consumers.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		Turn:       g.st.Turn,
		Gold:       g.st.Gold,
		Holdings:   resourceMap(g.st.Holdings),
		Reputation: g.st.Reputation,
		Market:     g.st.Market.Snapshot(),
		Thinking:   g.st.Thinking,
		GameOver:   g.st.GameOver,
	}

	for _, w := range g.st.Workshops {
		s.Workshops = append(s.Workshops, *w)
	}
	for _, w := range g.st.Wars {
		s.Wars = append(s.Wars, *w)
	}
	for _, r := range g.st.Rebellions {
		s.Rebellions = append(s.Rebellions, *r)
	}
	s.Embargoes = append(s.Embargoes, g.st.Embargoes...)
	for _, l := range g.st.Loans {
		s.Loans = append(s.Loans, *l)
	}
	for _, r := range g.st.LoanRequests {
		s.LoanRequests = append(s.LoanRequests, *r)
	}
	for _, a := range g.st.Agents {
		s.Agents = append(s.Agents, *a)
	}
	for _, rv := range g.st.Rivals {
		view := RivalView{
			ID:          rv.ID,
			Name:        rv.Name,
			Gold:        rv.Gold,
			Holdings:    resourceMap(rv.Holdings),
			Personality: rv.Personality,
		}
		for _, w := range rv.Workshops {
			view.Workshops = append(view.Workshops, *w)
		}
		s.Rivals = append(s.Rivals, view)
	}

	start := 0
	if len(g.st.Log) > logTail {
		start = len(g.st.Log) - logTail
	}
	s.Log = append(s.Log, g.st.Log[start:]...)
	return s
}

func resourceMap(h map[economy.Resource]int) map[string]int {
	out := make(map[string]int, len(h))
	for r, v := range h {
		out[r.String()] = v
	}
	return out
}
