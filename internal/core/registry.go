package core

import (
	"slices"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/rs/zerolog"

	"github.com/linefs/linefs/api"
	"github.com/linefs/linefs/config"
	"github.com/linefs/linefs/internal/util"
)

// Registry maps opaque volume keys to isolated namespace instances. It is
// the entry point for every engine operation: resolve a volume, then operate
// on it. Safe for concurrent use.
type Registry struct {
	cfg     *config.Config
	volumes *xsync.Map[string, *Volume]
	log     zerolog.Logger
}

// NewRegistry creates an empty registry. A nil cfg uses defaults.
func NewRegistry(cfg *config.Config) *Registry {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	return &Registry{
		cfg:     cfg,
		volumes: xsync.NewMap[string, *Volume](),
		log:     util.GetLogger("registry"),
	}
}

// Resolve returns the volume for key, idempotently provisioning an empty
// namespace (root directory only) on first use.
func (r *Registry) Resolve(key string) *Volume {
	vol, loaded := r.volumes.LoadOrCompute(key, func() (*Volume, bool) {
		return newVolume(key, r.cfg), false
	})
	if !loaded {
		r.log.Info().Str("volume", key).Str("instance", vol.instanceID).Msg("Provisioned volume")
	}
	return vol
}

// Info aggregates statistics for the volume at key, provisioning it first if
// needed.
func (r *Registry) Info(key string) api.Stats {
	return r.Resolve(key).Stats()
}

// Keys returns the provisioned volume keys in sorted order.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, r.volumes.Size())
	r.volumes.Range(func(key string, _ *Volume) bool {
		keys = append(keys, key)
		return true
	})
	slices.Sort(keys)
	return keys
}
