package engine

import "vern_kv0.8/memtable"

// Config holds the configuration for a DB.
type Config struct {
	// MemtableSizeLimit is the size threshold (approximate bytes) that
	// rotates the active memtable into the immutable list and opens a
	// fresh one in its place.
	MemtableSizeLimit int

	// MemtableShardCount is the number of shard locks each memtable trie
	// uses to serialize concurrent version-list mutation. <= 0 falls back
	// to memtable.New's GOMAXPROCS-derived default.
	MemtableShardCount int

	// MemtableBaseBlockSize is the structural capacity of the first trie
	// in a memtable's trie vector; later generations double it.
	MemtableBaseBlockSize int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MemtableSizeLimit: 4 * 1024 * 1024, // 4MB

		MemtableShardCount:    0, // GOMAXPROCS-derived
		MemtableBaseBlockSize: 4096,
	}
}

// newMemtable builds a memtable.Memtable honoring cfg's shard/capacity
// settings.
func (cfg *Config) newMemtable() *memtable.Memtable {
	return memtable.NewWithConfig(cfg.MemtableShardCount, cfg.MemtableBaseBlockSize)
}
