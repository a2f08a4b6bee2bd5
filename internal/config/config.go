// Package config provides configuration for the engine and its host
// CLI. Modelled on dtail/internal/config, trimmed of the SSH/client/
// server machinery that doesn't apply to an in-process engine: this is
// a single EngineConfig plus the CLI Args struct cmd/plog parses.
package config

import (
	"runtime"

	"github.com/alexhude/PeculiarLog/internal/constants"
)

// EngineConfig carries the tunables an EngineFacade needs beyond what a
// single Init/SetPattern/SetScope call conveys directly.
type EngineConfig struct {
	// ConcurrencyHint is the number of blocks formatBlocks should target
	// when the file exceeds constants.OneBlockThreshold. Defaults to
	// runtime.NumCPU().
	ConcurrencyHint int

	// MaxScopeBefore/MaxScopeAfter clamp SetScope's arguments.
	MaxScopeBefore int
	MaxScopeAfter  int
}

// NewDefaultEngineConfig returns the configuration dtail-style code would
// build via a "newDefaultXConfig" constructor.
func NewDefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		ConcurrencyHint: runtime.NumCPU(),
		MaxScopeBefore:  constants.MaxScopeBefore,
		MaxScopeAfter:   constants.MaxScopeAfter,
	}
}

// Engine holds the process-wide engine configuration, set up once via
// Setup and read thereafter. Mirrors dtail's package-level Client/Server
// globals populated by config.Setup.
var Engine *EngineConfig

// Setup initializes the package-level Engine configuration.
func Setup(cfg *EngineConfig) {
	if cfg == nil {
		cfg = NewDefaultEngineConfig()
	}
	Engine = cfg
}
