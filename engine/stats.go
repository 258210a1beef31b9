package engine

import "vern_kv0.8/memtable"

// MemtableStats reports one entry per live memtable (the active one
// first, then frozen immutables oldest first), each carrying that
// memtable's per-trie diagnostics.
type MemtableStats struct {
	Active     bool
	EntryCount int
	ApproxSize int
	Tries      []memtable.TrieStat
}

// Stats snapshots the database's memtable population for the CLI's
// STATS command. Held under db.mu.RLock() so it reflects one consistent
// point in time relative to concurrent Put/Write/maybeRotateLocked.
func (db *DB) Stats() []MemtableStats {
	db.mu.RLock()
	defer db.mu.RUnlock()

	out := make([]MemtableStats, 0, 1+len(db.immutables))
	out = append(out, memtableStat(db.memtable, true))
	for _, im := range db.immutables {
		out = append(out, memtableStat(im, false))
	}
	return out
}

func memtableStat(mt *memtable.Memtable, active bool) MemtableStats {
	return MemtableStats{
		Active:     active,
		EntryCount: mt.Size(),
		ApproxSize: mt.ApproximateSize(),
		Tries:      mt.TrieStats(),
	}
}
