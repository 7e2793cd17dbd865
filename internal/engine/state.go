// Package engine is the turn-resolution core: the banker's complete game
// state and every command that mutates it. All mutations run under one mutex
// and either apply completely or not at all.
package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/talgya/florin/internal/config"
	"github.com/talgya/florin/internal/economy"
	"github.com/talgya/florin/internal/entropy"
	"github.com/talgya/florin/internal/realm"
)

// LogLevel tags a log entry for the presentation layer.
type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogSuccess LogLevel = "success"
	LogDanger  LogLevel = "danger"
	LogWarning LogLevel = "warning"
	LogRival   LogLevel = "rival"
)

// LogEntry is one line of the game chronicle.
type LogEntry struct {
	ID        string   `json:"id"`
	Turn      int      `json:"turn"`
	Message   string   `json:"message"`
	Level     LogLevel `json:"level"`
	Narrative bool     `json:"narrative,omitempty"`
}

// Embargo blocks the player from building in a kingdom until the given turn.
type Embargo struct {
	Kingdom   string `json:"kingdom"`
	UntilTurn int    `json:"until_turn"`
}

// State is the aggregate game state. Exactly one lives per Game; it is
// replaced wholesale on reset.
type State struct {
	Gold       int
	Holdings   map[economy.Resource]int
	Reputation int
	Turn       int

	Workshops    []*Workshop
	Wars         []*War
	Rebellions   []*Rebellion
	Embargoes    []Embargo
	Loans        []*Loan
	LoanRequests []*LoanRequest
	Agents       []*Agent
	Rivals       []*Rival

	Market *economy.Market
	Log    []LogEntry

	Thinking bool
	GameOver bool
}

// Recorder receives the append-only chronicle. Implementations must tolerate
// being nil-checked by the engine; failures are logged and swallowed.
type Recorder interface {
	AppendLog(turn int, level, message string) error
	RecordWarResolution(warID, winner, loser string, round int) error
}

// Narrator produces prose for resolved wars. Called off the game goroutine;
// errors are swallowed.
type Narrator interface {
	NarrateWar(attacker, defender, winner string, investment int, supportKind string) (string, error)
}

// Game owns the state and serializes every command.
type Game struct {
	mu       sync.Mutex
	rng      entropy.Source
	registry *realm.Registry
	cfg      config.Realm
	st       *State

	rec      Recorder // optional chronicle sink
	narrator Narrator // optional prose generator

	subMu sync.Mutex
	subs  []chan LogEntry
}

// New creates a game from configuration. rec and narrator may be nil.
func New(cfg config.Realm, reg *realm.Registry, rng entropy.Source, rec Recorder, narrator Narrator) *Game {
	g := &Game{
		rng:      rng,
		registry: reg,
		cfg:      cfg,
		rec:      rec,
		narrator: narrator,
	}
	g.st = g.freshState()
	return g
}

func (g *Game) freshState() *State {
	st := &State{
		Gold: g.cfg.Player.Gold,
		Holdings: map[economy.Resource]int{
			economy.Weapons:  g.cfg.Player.Weapons,
			economy.Grain:    g.cfg.Player.Grain,
			economy.Medicine: g.cfg.Player.Medicine,
		},
		Reputation: g.cfg.Player.Reputation,
		Turn:       1,
		Market:     economy.NewMarket(),
	}
	st.Rivals = generateRivals(g.cfg.RivalHouses, g.rng)
	st.Log = append(st.Log, LogEntry{
		ID:      uuid.NewString(),
		Turn:    0,
		Message: "You have opened your banking house. From here on, only gold and steel speak.",
		Level:   LogInfo,
	})

	// An opening war makes the first turn interesting; spawn failure is fine.
	if w := spawnWar(g.registry, 1, g.rng); w != nil {
		st.Wars = append(st.Wars, w)
		st.Log = append(st.Log, LogEntry{
			ID:      uuid.NewString(),
			Turn:    0,
			Message: fmt.Sprintf("WAR! %s marches on %s.", w.Attacker.Kingdom.Name, w.Defender.Kingdom.Name),
			Level:   LogDanger,
		})
	}
	return st
}

// Reset reinitializes all entities from configuration.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.registry.ResetCooldowns()
	g.st = g.freshState()
	g.logf(LogInfo, "The game begins anew. A new age dawns.")
	slog.Info("game reset")
}

// logf appends a log entry, forwards it to the chronicle, and notifies
// stream subscribers. Must be called with the game mutex held.
func (g *Game) logf(level LogLevel, format string, args ...any) {
	g.appendLog(LogEntry{
		ID:      uuid.NewString(),
		Turn:    g.st.Turn,
		Message: fmt.Sprintf(format, args...),
		Level:   level,
	})
}

func (g *Game) appendLog(e LogEntry) {
	g.st.Log = append(g.st.Log, e)
	if g.rec != nil {
		if err := g.rec.AppendLog(e.Turn, string(e.Level), e.Message); err != nil {
			slog.Debug("chronicle append failed", "error", err)
		}
	}
	g.notify(e)
}

// AppendNarrative adds generated prose as a log entry. Safe to call from the
// narrative goroutine; has no effect on numeric state.
func (g *Game) AppendNarrative(text string) {
	if text == "" {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.appendLog(LogEntry{
		ID:        uuid.NewString(),
		Turn:      g.st.Turn,
		Message:   text,
		Level:     LogInfo,
		Narrative: true,
	})
}

// Subscribe returns a channel receiving every new log entry. The channel is
// buffered; slow consumers drop entries rather than block the game.
func (g *Game) Subscribe() chan LogEntry {
	ch := make(chan LogEntry, 64)
	g.subMu.Lock()
	g.subs = append(g.subs, ch)
	g.subMu.Unlock()
	return ch
}

// Unsubscribe removes a stream channel.
func (g *Game) Unsubscribe(ch chan LogEntry) {
	g.subMu.Lock()
	defer g.subMu.Unlock()
	for i, c := range g.subs {
		if c == ch {
			g.subs = append(g.subs[:i], g.subs[i+1:]...)
			close(c)
			return
		}
	}
}

func (g *Game) notify(e LogEntry) {
	g.subMu.Lock()
	defer g.subMu.Unlock()
	for _, ch := range g.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// hasWorkshopIn reports whether the player owns any workshop in a kingdom.
func (st *State) hasWorkshopIn(kingdom string) bool {
	for _, w := range st.Workshops {
		if w.Kingdom == kingdom {
			return true
		}
	}
	return false
}

// embargoed reports whether a kingdom is currently embargoed for the player.
func (st *State) embargoed(kingdom string) bool {
	for _, e := range st.Embargoes {
		if e.Kingdom == kingdom && e.UntilTurn > st.Turn {
			return true
		}
	}
	return false
}

// siegedKingdoms returns the set of kingdoms currently defending an
// unresolved war. Workshops there neither produce nor pay out.
func (st *State) siegedKingdoms() map[string]bool {
	sieged := make(map[string]bool)
	for _, w := range st.Wars {
		if !w.Resolved {
			sieged[w.Defender.Kingdom.Name] = true
		}
	}
	return sieged
}

// unresolvedWars counts wars still in progress.
func (st *State) unresolvedWars() int {
	n := 0
	for _, w := range st.Wars {
		if !w.Resolved {
			n++
		}
	}
	return n
}
