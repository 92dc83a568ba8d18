/*
Package config loads the buffer pool's tunables from a YAML file via
viper, the same mapstructure-tagged-struct-over-viper shape used
elsewhere in this codebase's lineage for storage configuration, so the
pool size, replacer k, page size and data directory are one file away
from being tuned without a recompile.
*/
package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// BufferPoolConfig holds the construction parameters for a buffer pool
// manager and the disk manager it is backed by.
type BufferPoolConfig struct {
	// PoolSize is the number of frames the buffer pool holds.
	PoolSize int `mapstructure:"pool_size"`
	// ReplacerK is k in the LRU-K replacer.
	ReplacerK int `mapstructure:"replacer_k"`
	// PageSize is the byte size of one page. It must match
	// storage/page.Size; it is surfaced here only so a config file is
	// self-describing, not because the buffer pool can be resized to a
	// different page size at runtime.
	PageSize int `mapstructure:"page_size"`
	// DataDir is the directory the disk manager's page file lives under.
	DataDir string `mapstructure:"data_dir"`
}

// Load reads path as YAML and unmarshals it into a BufferPoolConfig.
func Load(path string) (*BufferPoolConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrap(err, "config: read config failed")
	}

	var cfg BufferPoolConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: unmarshal config failed")
	}
	return &cfg, nil
}
