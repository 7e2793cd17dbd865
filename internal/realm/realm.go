// Package realm holds the static kingdom roster and the registry that tracks
// war-entry cooldowns. Kingdom records themselves are immutable; all mutable
// bookkeeping lives on the Registry.
package realm

import (
	"fmt"

	"github.com/talgya/florin/internal/config"
	"github.com/talgya/florin/internal/entropy"
)

// Kingdom is one of the twenty realms. Strength is a presentation-layer base
// rating; the war subsystem rolls its own per-war strengths.
type Kingdom struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Strength int    `json:"strength"`
	Color    string `json:"color"`
}

// Cooldown: kingdoms that entered a war within this many turns are excluded
// from the eligibility pool (barring the override roll).
const (
	warCooldownTurns  = 5
	cooldownOverrideP = 0.10
)

// Registry owns the kingdom roster and per-kingdom lastWarTurn bookkeeping.
type Registry struct {
	kingdoms    []Kingdom
	byID        map[string]int
	byName      map[string]int
	lastWarTurn map[string]int
}

// NewRegistry builds a registry from configuration. Cooldowns start deep in
// the past so every kingdom is war-eligible on turn one.
func NewRegistry(cfg []config.Kingdom) (*Registry, error) {
	if len(cfg) < 2 {
		return nil, fmt.Errorf("registry needs at least 2 kingdoms, got %d", len(cfg))
	}
	r := &Registry{
		kingdoms:    make([]Kingdom, len(cfg)),
		byID:        make(map[string]int, len(cfg)),
		byName:      make(map[string]int, len(cfg)),
		lastWarTurn: make(map[string]int, len(cfg)),
	}
	for i, k := range cfg {
		id := fmt.Sprintf("k%d", i+1)
		r.kingdoms[i] = Kingdom{ID: id, Name: k.Name, Strength: k.Strength, Color: k.Color}
		r.byID[id] = i
		r.byName[k.Name] = i
		r.lastWarTurn[id] = -2 * warCooldownTurns
	}
	return r, nil
}

// All returns the kingdom roster.
func (r *Registry) All() []Kingdom {
	out := make([]Kingdom, len(r.kingdoms))
	copy(out, r.kingdoms)
	return out
}

// ByID looks up a kingdom.
func (r *Registry) ByID(id string) (Kingdom, bool) {
	i, ok := r.byID[id]
	if !ok {
		return Kingdom{}, false
	}
	return r.kingdoms[i], true
}

// ByName looks up a kingdom by display name.
func (r *Registry) ByName(name string) (Kingdom, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Kingdom{}, false
	}
	return r.kingdoms[i], true
}

// RecordWarEntry marks a kingdom as having entered a war on the given turn.
func (r *Registry) RecordWarEntry(id string, turn int) {
	if _, ok := r.byID[id]; ok {
		r.lastWarTurn[id] = turn
	}
}

// LastWarTurn reports when a kingdom last entered a war.
func (r *Registry) LastWarTurn(id string) int {
	return r.lastWarTurn[id]
}

// EligibleForWar returns the kingdoms eligible to enter a new war on the
// given turn. A kingdom still cooling down slips into the pool only on a 10%
// override roll.
func (r *Registry) EligibleForWar(turn int, rng entropy.Source) []Kingdom {
	var pool []Kingdom
	for _, k := range r.kingdoms {
		if turn-r.lastWarTurn[k.ID] <= warCooldownTurns {
			if !entropy.Chance(rng, cooldownOverrideP) {
				continue
			}
		}
		pool = append(pool, k)
	}
	return pool
}

// ResetCooldowns clears all war-entry bookkeeping (game reset).
func (r *Registry) ResetCooldowns() {
	for id := range r.lastWarTurn {
		r.lastWarTurn[id] = -2 * warCooldownTurns
	}
}
