package iterators

import "vern_kv0.8/memtable"

// MemtableIterator adapts a memtable.Iterator to the InternalIterator
// interface so it can be merged alongside any other InternalIterator
// source.
type MemtableIterator struct {
	iter *memtable.Iterator
}

// NewMemtableIterator wraps mt's own Iterator.
func NewMemtableIterator(mt *memtable.Memtable) *MemtableIterator {
	return &MemtableIterator{iter: mt.Iterator()}
}

func (it *MemtableIterator) SeekToFirst() {
	it.iter.SeekToFirst()
}

func (it *MemtableIterator) Seek(key []byte) {
	it.iter.Seek(key)
}

func (it *MemtableIterator) Next() {
	it.iter.Next()
}

func (it *MemtableIterator) Valid() bool {
	return it.iter.Valid()
}

func (it *MemtableIterator) Key() []byte {
	return it.iter.Key()
}

func (it *MemtableIterator) Value() []byte {
	return it.iter.Value()
}
