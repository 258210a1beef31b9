package engine

import (
	"errors"
	"sync"

	"vern_kv0.8/internal"
	"vern_kv0.8/iterators"
	"vern_kv0.8/memtable"
)

var ErrNotFound = errors.New("key not found")

// DB is an in-memory, multi-version key/value store: one active memtable
// plus a list of sealed, frozen immutable memtables rotated in once the
// active one crosses its configured size budget. There is no on-disk
// persistence here; durability is assumed to be handled at a layer above
// (a replicated log, a WAL owned by the caller), out of scope for this
// engine.
type DB struct {
	mu         sync.RWMutex
	memtable   *memtable.Memtable   // active (mutable)
	immutables []*memtable.Memtable // frozen (read-only), oldest first
	nextSeq    uint64
	opts       *Config
}

// Open returns a new, empty DB. An optional *Config overrides
// DefaultConfig(); at most one may be given.
func Open(opts ...*Config) *DB {
	cfg := DefaultConfig()
	if len(opts) > 0 && opts[0] != nil {
		cfg = opts[0]
	}
	return &DB{
		memtable: cfg.newMemtable(),
		nextSeq:  1,
		opts:     cfg,
	}
}

// Close releases db's resources. db must not be used afterward.
func (db *DB) Close() error {
	return nil
}

//
// Write path
//

// Put inserts or updates a key.
func (db *DB) Put(key, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	seq := db.nextSeq
	ikey := internal.EncodeInternalKey(key, seq, internal.RecordTypeValue)
	db.memtable.Insert(ikey, value)
	db.nextSeq++
	db.maybeRotateLocked()
	return nil
}

// Delete removes a key by inserting a tombstone.
func (db *DB) Delete(key []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	seq := db.nextSeq
	ikey := internal.EncodeInternalKey(key, seq, internal.RecordTypeTombstone)
	db.memtable.Insert(ikey, nil)
	db.nextSeq++
	db.maybeRotateLocked()
	return nil
}

// BatchOp is one write in a Write batch.
type BatchOp struct {
	Key    []byte
	Value  []byte
	Delete bool
}

// Write applies a batch of operations, assigning every record in ops a
// sequence number from the same contiguous run so the batch is visible to
// readers as a single unit relative to any interleaved Put/Delete.
func (db *DB) Write(ops []BatchOp) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	seq := db.nextSeq
	for _, op := range ops {
		typ := internal.RecordTypeValue
		value := op.Value
		if op.Delete {
			typ = internal.RecordTypeTombstone
			value = nil
		}
		ikey := internal.EncodeInternalKey(op.Key, seq, typ)
		db.memtable.Insert(ikey, value)
		seq++
	}
	db.nextSeq = seq
	db.maybeRotateLocked()
	return nil
}

// maybeRotateLocked seals the active memtable and moves it to the
// immutable list, opening a fresh active memtable, once the active one's
// approximate size crosses opts.MemtableSizeLimit. Caller must hold db.mu.
func (db *DB) maybeRotateLocked() {
	if db.memtable.ApproximateSize() < db.opts.MemtableSizeLimit {
		return
	}
	db.memtable.Seal()
	db.immutables = append(db.immutables, db.memtable)
	db.memtable = db.opts.newMemtable()
}

// freezeMemtable rotates the active memtable into the immutable list
// regardless of its size, for callers (currently the package's tests)
// that want to exercise the multi-memtable read path on demand.
func (db *DB) freezeMemtable() {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.memtable.Seal()
	db.immutables = append(db.immutables, db.memtable)
	db.memtable = db.opts.newMemtable()
}

//
// Read path — point lookups
//

// GetWithOptions returns the value for key, optionally restricted to a
// snapshot's read view.
func (db *DB) GetWithOptions(key []byte, opts *ReadOptions) ([]byte, error) {
	db.mu.RLock()
	merge := db.mergedIteratorLocked(opts)
	db.mu.RUnlock()

	merge.SeekToFirst()
	for merge.Valid() {
		userKey := internal.ExtractUserKey(merge.Key())
		if string(userKey) == string(key) {
			_, typ, _ := internal.ExtractTrailer(merge.Key())
			if typ == internal.RecordTypeTombstone {
				return nil, ErrNotFound
			}
			return merge.Value(), nil
		}
		merge.Next()
	}
	return nil, ErrNotFound
}

// Get returns the value for key as of the latest state.
func (db *DB) Get(key []byte) ([]byte, error) {
	return db.GetWithOptions(key, nil)
}

//
// Snapshots
//

// GetSnapshot returns a stable read view over the DB's current state.
func (db *DB) GetSnapshot() *Snapshot {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return &Snapshot{ReadSeq: db.nextSeq - 1}
}

//
// Iteration (snapshot-consistent)
//

// mergedIteratorLocked builds the merged, deduplicated view over every
// live memtable (active first, then immutables oldest-first), applying a
// snapshot filter if opts names one. Caller must hold at least
// db.mu.RLock for the duration of this call.
func (db *DB) mergedIteratorLocked(opts *ReadOptions) *iterators.MergeIterator {
	sources := make([]iterators.InternalIterator, 0, 1+len(db.immutables))
	sources = append(sources, db.memtableSource(db.memtable, opts))
	for _, im := range db.immutables {
		sources = append(sources, db.memtableSource(im, opts))
	}
	return iterators.NewMergeIterator(sources, true)
}

func (db *DB) memtableSource(mt *memtable.Memtable, opts *ReadOptions) iterators.InternalIterator {
	var it iterators.InternalIterator = iterators.NewMemtableIterator(mt)
	if opts != nil && opts.Snapshot != nil {
		it = iterators.NewVersionFilterIterator(it, opts.Snapshot.ReadSeq)
	}
	return it
}

// NewIterator returns a snapshot-consistent iterator over every live key,
// tombstones already filtered out.
func (db *DB) NewIterator(opts *ReadOptions) Iterator {
	db.mu.RLock()
	merge := db.mergedIteratorLocked(opts)
	db.mu.RUnlock()
	return &dbIterator{inner: merge}
}

//
// Range / prefix scans
//

// NewRangeIterator returns an iterator over keys in [start, end).
func (db *DB) NewRangeIterator(start, end []byte, opts *ReadOptions) Iterator {
	return &scanIterator{
		inner: db.NewIterator(opts),
		start: start,
		end:   end,
	}
}

// NewPrefixIterator returns an iterator over keys with the given prefix.
func (db *DB) NewPrefixIterator(prefix []byte, opts *ReadOptions) Iterator {
	return &scanIterator{
		inner:  db.NewIterator(opts),
		prefix: prefix,
	}
}
