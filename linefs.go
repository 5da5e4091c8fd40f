// Package linefs exposes a volume-scoped virtual filesystem engine whose
// files are ordered sequences of text lines over a flat key space. Resolve a
// volume by its opaque key, then perform path-addressed reads, line-level
// edits, directory lifecycle operations, and glob search against it.
package linefs

import (
	"github.com/linefs/linefs/config"
	"github.com/linefs/linefs/internal/core"
	"github.com/linefs/linefs/internal/util"
)

// New creates a linefs engine instance given your config.
// A nil config uses defaults.
func New(cfg *config.Config) *core.Registry {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	util.InitializeLogger(cfg.LogLvl)
	return core.NewRegistry(cfg)
}
