// Package config loads the proxy's TOML configuration and holds the
// subset of it that is mutable at runtime (the autonexus threshold, dev
// mode, cheat-module toggles) behind a small mutex, exactly as
// rotmguard's own Settings does with Mutex<T> fields. Structurally
// grounded on la2go's internal/config (a typed struct, a Default
// constructor, a Load that tolerates a missing file) but parses TOML via
// github.com/pelletier/go-toml/v2 to match the spec's configuration
// surface rather than la2go's own YAML.
package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Debuffs lists the client-side debuffs the proxy can mask.
type Debuffs struct {
	Blind         bool `toml:"blind"`
	Hallucinating bool `toml:"hallucinating"`
	Drunk         bool `toml:"drunk"`
	Confused      bool `toml:"confused"`
	Hexed         bool `toml:"hexed"`
	Unstable      bool `toml:"unstable"`
	Darkness      bool `toml:"darkness"`
}

// EditAssets mirrors the rotmguard asset-editing knobs. The editing
// itself (rewriting the Unity asset container) is out of this repo's
// scope; the config surface is still recognised so the values can be
// handed to the AssetCatalog collaborator at start-up.
type EditAssets struct {
	Enabled      bool `toml:"enabled"`
	ForceDebuffs bool `toml:"force_debuffs"`
	CultStaff    bool `toml:"cult_staff"`
}

// DamageMonitor mirrors the HTML-report server's config knobs; serving
// the report is out of scope, the in-memory registry it reads from is
// not (see internal/report).
type DamageMonitor struct {
	Enabled    bool `toml:"enabled"`
	OpenBrowser bool `toml:"open_browser"`
}

// File is the on-disk TOML document shape.
type File struct {
	AssetsRes string `toml:"assets_res"`
	Settings  struct {
		AutonexusHP   int64         `toml:"autonexus_hp"`
		DevMode       bool          `toml:"dev_mode"`
		Antilag       bool          `toml:"antilag"`
		FakeName      string        `toml:"fakename"`
		Debuffs       Debuffs       `toml:"debuffs"`
		EditAssets    EditAssets    `toml:"edit_assets"`
		DamageMonitor DamageMonitor `toml:"damage_monitor"`
	} `toml:"settings"`
}

// Settings holds the runtime-mutable fields behind one shared mutex,
// accessed only through the getter/setter/toggle methods below. Debuffs,
// EditAssets, DamageMonitor and AssetsRes are plain exported fields read
// as loaded and are not guarded by the mutex.
type Settings struct {
	mu            sync.Mutex
	autonexusHP   int64
	devMode       bool
	antilag       bool
	fakeName      string
	antipush      bool
	fakeSlow      bool
	Debuffs       Debuffs
	EditAssets    EditAssets
	DamageMonitor DamageMonitor
	AssetsRes     string
}

func Default() *Settings {
	return &Settings{autonexusHP: 20, Debuffs: Debuffs{}}
}

// Load reads path as TOML, falling back to Default() if the file does not
// exist — mirrors la2go's LoadLoginServer's os.IsNotExist fallback.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &Settings{
		autonexusHP:   f.Settings.AutonexusHP,
		devMode:       f.Settings.DevMode,
		antilag:       f.Settings.Antilag,
		fakeName:      f.Settings.FakeName,
		Debuffs:       f.Settings.Debuffs,
		EditAssets:    f.Settings.EditAssets,
		DamageMonitor: f.Settings.DamageMonitor,
		AssetsRes:     f.AssetsRes,
	}, nil
}

func (s *Settings) AutonexusHP() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autonexusHP
}

func (s *Settings) SetAutonexusHP(v int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autonexusHP = v
}

func (s *Settings) DevMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.devMode
}

func (s *Settings) SetDevMode(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.devMode = v
}

func (s *Settings) Antilag() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.antilag
}

func (s *Settings) SetAntilag(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.antilag = v
}

func (s *Settings) FakeName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fakeName
}

func (s *Settings) Antipush() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.antipush
}

func (s *Settings) ToggleAntipush() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.antipush = !s.antipush
	return s.antipush
}

func (s *Settings) FakeSlow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fakeSlow
}

func (s *Settings) ToggleFakeSlow() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fakeSlow = !s.fakeSlow
	return s.fakeSlow
}
