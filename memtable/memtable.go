package memtable

import "runtime"

// Memtable is an in-memory, ordered, multi-version key/value store: a
// Patricia trie vector mapping user keys to threaded red-black trees of
// (tag, value) versions, with the same exported surface (New, Insert,
// Size, ApproximateSize, Iterator) engine/db.go, engine/stats.go, and
// iterators/memtable_iterator.go already call.
type Memtable struct {
	idx *index
}

// New returns a Memtable sized for the current machine: shard count
// derived from GOMAXPROCS (see shard.go), base trie capacity
// defaultBaseBlockSize.
func New() *Memtable {
	return NewWithConfig(0, defaultBaseBlockSize)
}

// NewWithConfig returns a Memtable with an explicit shard count and base
// trie structural capacity. shardCount <= 0 falls back to New's default.
func NewWithConfig(shardCount, baseCapacity int) *Memtable {
	if shardCount <= 0 {
		shardCount = 2*runtime.GOMAXPROCS(0) + 3
	}
	return &Memtable{idx: newIndex(shardCount, baseCapacity)}
}

// Insert installs one version record. key is a full internal key (user
// key + 8-byte trailer, per internal.EncodeInternalKey); value may be nil
// for a tombstone. Thread-safe; panics if this exact (user key, trailer)
// pair was already inserted, or if the memtable has been sealed.
func (m *Memtable) Insert(key []byte, value []byte) {
	m.idx.Insert(key, value)
}

// Contains reports whether the exact internal key (user key + trailer) is
// present.
func (m *Memtable) Contains(key []byte) bool {
	return m.idx.Contains(key)
}

// Get walks every version of the internal key's user key with a tag <=
// the internal key's own tag, newest first, invoking visit until it
// returns false or versions are exhausted. visit must not retain value
// or call back into the Memtable.
func (m *Memtable) Get(key []byte, visit func(tag uint64, value []byte) bool) {
	m.idx.Get(key, visit)
}

// Size returns the number of version records stored (not the number of
// distinct user keys).
func (m *Memtable) Size() int {
	return int(m.idx.EntryCount())
}

// ApproximateSize returns the approximate memory usage in bytes.
func (m *Memtable) ApproximateSize() int {
	return int(m.idx.ApproximateMemoryUsage())
}

// Seal transitions the memtable to read-only, matching the point at which
// engine/db.go moves it from active to immutable. Idempotent.
func (m *Memtable) Seal() {
	m.idx.Seal()
}

func (m *Memtable) Sealed() bool {
	return m.idx.Sealed()
}

// Iterator returns a new, unpositioned Iterator, matching the shape
// iterators.MemtableIterator expects (SeekToFirst/Seek/Next/Valid/Key/Value).
func (m *Memtable) Iterator() *Iterator {
	return newIterator(m.idx)
}

// TrieStat describes one generation in the trie vector, for diagnostics
// (the CLI's STATS command).
type TrieStat struct {
	Words    int64 // distinct user keys
	Capacity int64 // structural capacity
	Used     int64 // structural bytes spent
	Shards   int   // shard lock count
}

// TrieStats reports one TrieStat per trie in the vector, oldest first.
func (m *Memtable) TrieStats() []TrieStat {
	tries := m.idx.snapshotTries()
	out := make([]TrieStat, len(tries))
	for i, te := range tries {
		out[i] = TrieStat{
			Words:    te.trie.numWordsSnapshot(),
			Capacity: te.trie.capacity,
			Used:     te.trie.structuralUsage(),
			Shards:   m.idx.shardSize,
		}
	}
	return out
}
