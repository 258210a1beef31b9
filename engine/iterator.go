package engine

import (
	"vern_kv0.8/internal"
	"vern_kv0.8/iterators"
)

// Iterator is a user-facing iterator.
type Iterator interface {
	SeekToFirst()
	Next()
	Valid() bool
	Key() []byte
	Value() []byte
}

// dbIterator wraps a merged InternalIterator and hides tombstones from the
// user-facing view: a deleted key should never surface, only disappear.
type dbIterator struct {
	inner iterators.InternalIterator
}

func (it *dbIterator) SeekToFirst() {
	it.inner.SeekToFirst()
	it.skipTombstones()
}

func (it *dbIterator) Next() {
	it.inner.Next()
	it.skipTombstones()
}

// skipTombstones advances past any run of leading tombstone entries so
// Valid()/Key()/Value() only ever land on a live value.
func (it *dbIterator) skipTombstones() {
	for it.inner.Valid() {
		if _, typ, _ := internal.ExtractTrailer(it.inner.Key()); typ != internal.RecordTypeTombstone {
			return
		}
		it.inner.Next()
	}
}

func (it *dbIterator) Valid() bool {
	return it.inner.Valid()
}

// Key returns user key.
func (it *dbIterator) Key() []byte {
	return internal.ExtractUserKey(it.inner.Key())
}

// Value returns the associated value.
func (it *dbIterator) Value() []byte {
	return it.inner.Value()
}
