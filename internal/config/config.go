// Package config loads realm configuration (kingdoms, rival house names,
// starting holdings) from YAML and process settings from the environment.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Kingdom is one static kingdom record. Only the realm registry's cooldown
// bookkeeping is mutable at runtime; these records never change.
type Kingdom struct {
	Name     string `yaml:"name"`
	Strength int    `yaml:"strength"`
	Color    string `yaml:"color"`
}

// Player holds the starting player balances.
type Player struct {
	Gold       int `yaml:"gold"`
	Weapons    int `yaml:"weapons"`
	Grain      int `yaml:"grain"`
	Medicine   int `yaml:"medicine"`
	Reputation int `yaml:"reputation"`
}

// Realm is the full static game configuration.
type Realm struct {
	Kingdoms    []Kingdom `yaml:"kingdoms"`
	RivalHouses []string  `yaml:"rival_houses"`
	AgentNames  []string  `yaml:"agent_names"`
	Player      Player    `yaml:"player"`
}

// LoadRealm reads realm configuration from path, or the embedded defaults
// when path is empty.
func LoadRealm(path string) (Realm, error) {
	raw := defaultsYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Realm{}, fmt.Errorf("read realm config: %w", err)
		}
		raw = b
	}

	var r Realm
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return Realm{}, fmt.Errorf("parse realm config: %w", err)
	}
	if len(r.Kingdoms) < 2 {
		return Realm{}, fmt.Errorf("realm config needs at least 2 kingdoms, got %d", len(r.Kingdoms))
	}
	if len(r.RivalHouses) == 0 {
		return Realm{}, fmt.Errorf("realm config has no rival houses")
	}
	return r, nil
}

// Env is the process environment configuration.
type Env struct {
	Port         int    `env:"BANKER_PORT" envDefault:"8080"`
	RealmPath    string `env:"BANKER_REALM_CONFIG"`
	DBPath       string `env:"BANKER_DB" envDefault:"data/chronicle.db"`
	Seed         int64  `env:"BANKER_SEED" envDefault:"0"`
	AnthropicKey string `env:"ANTHROPIC_API_KEY"`
	RandomOrgKey string `env:"RANDOM_ORG_KEY"`
}

// LoadEnv parses process settings from the environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}
