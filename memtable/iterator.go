package memtable

import (
	"bytes"
	"container/heap"
	"sync"
)

// versionCursor walks one user key's version list in descending-tag
// order (newest first), which is also ascending internal-key order for a
// fixed user key under internal.Comparator as long as no two of its
// versions share a sequence number (see internalKeyLess).
type versionCursor struct {
	node *rbNode
}

func (v *versionCursor) valid() bool { return v.node != nil }

func (v *versionCursor) tag() uint64 { return v.node.tag }

func (v *versionCursor) value() []byte { return decodeValue(v.node.value) }

func (v *versionCursor) next() { v.node = moveNext(v.node) }

func (v *versionCursor) prev() { v.node = movePrev(v.node) }

// mergeSource is one trie's contribution to the N-way merge: its
// lexicographic key cursor, joined with a version cursor once positioned
// on a key.
type mergeSource struct {
	trieIdx int
	shards  *shardTable
	keys    *trieCursor
	slot    *rbRoot
	ver     versionCursor
}

func (s *mergeSource) internalKey() []byte {
	buf := make([]byte, len(s.keys.key())+8)
	copy(buf, s.keys.key())
	putTagTrailer(buf[len(s.keys.key()):], s.ver.tag())
	return buf
}

func putTagTrailer(dst []byte, tag uint64) {
	for i := 0; i < 8; i++ {
		dst[i] = byte(tag >> (8 * uint(i)))
	}
}

// enterKey positions ver at the first (forward) or last (backward)
// version of the key keys currently points at, locking the key's shard
// while the index is mutable so a concurrent Insert cannot mutate the
// version list mid-scan. If seekTag is present and this source's current
// key equals seekUserKey, ver instead starts at the lower/reverse-lower
// bound of seekTag — the seek target landed inside this key's version
// list rather than at its boundary.
func (s *mergeSource) enterKey(idx *index, backward bool, seekUserKey []byte, seekTag uint64, hasSeekTag bool) {
	s.slot = s.keys.slot()

	var l *sync.Mutex
	if !idx.immutable {
		l = s.shards.lockFor(s.slot)
		l.Lock()
	}
	switch {
	case hasSeekTag && bytes.Equal(s.keys.key(), seekUserKey):
		if backward {
			s.ver = versionCursor{node: reverseLowerBound(s.slot, seekTag)}
		} else {
			s.ver = versionCursor{node: lowerBound(s.slot, seekTag)}
		}
	case backward:
		// In-order-rightmost is the oldest version (smallest tag), the
		// correct start walking backward from a key boundary.
		s.ver = versionCursor{node: rightmost(s.slot.node)}
	default:
		// In-order-leftmost is the highest tag (insertMulti sends greater
		// tags left), i.e. the newest version — the correct start of a
		// forward walk from a key boundary.
		s.ver = versionCursor{node: leftmost(s.slot.node)}
	}
	if l != nil {
		l.Unlock()
	}
}

// heapItem is one candidate entry in the merge heap: source's current
// (key cursor position, version cursor position).
type heapItem struct {
	source *mergeSource
}

type sourceHeap struct {
	items    []*heapItem
	backward bool
}

func (h *sourceHeap) Len() int { return len(h.items) }

func (h *sourceHeap) Less(i, j int) bool {
	a, b := h.items[i].source.internalKey(), h.items[j].source.internalKey()
	if h.backward {
		return internalKeyLess(b, a)
	}
	return internalKeyLess(a, b)
}

// internalKeyLess orders by user key ascending, tag descending. This
// matches internal.Comparator except for two versions with the same
// sequence number: here the larger record type (tombstone) sorts first,
// under internal.Comparator it sorts last. The trailer is little-endian, so a plain bytewise
// compare of the two internal keys would not give the right order for
// equal user keys; user key and tag are compared separately instead.
func internalKeyLess(a, b []byte) bool {
	ua, ub := a[:len(a)-8], b[:len(b)-8]
	if c := bytes.Compare(ua, ub); c != 0 {
		return c < 0
	}
	return tagOf(a) > tagOf(b)
}

func tagOf(internalKey []byte) uint64 {
	trailer := internalKey[len(internalKey)-8:]
	var v uint64
	for i := 7; i >= 0; i-- {
		v = (v << 8) | uint64(trailer[i])
	}
	return v
}

func (h *sourceHeap) Swap(i, j int) { h.items[i], h.items[j] = h.items[j], h.items[i] }

func (h *sourceHeap) Push(x any) { h.items = append(h.items, x.(*heapItem)) }

func (h *sourceHeap) Pop() any {
	old := h.items
	n := len(old)
	item := old[n-1]
	h.items = old[:n-1]
	return item
}

// growthThreshold is how many new keys a trie may accumulate before a
// live Iterator refreshes its lexicographic snapshot of that trie, so a
// long-lived scan over a still-mutable index eventually observes new
// keys without re-snapshotting on every single insert.
const growthThreshold = 1024

// Iterator is an ordered, multi-version-aware, direction-switchable
// iterator over an index's entries, merging every trie in the vector via
// an N-way heap merge keyed on internal-key order. It exposes
// SeekToFirst/Seek/Next/Valid/Key/Value for iterators.MemtableIterator,
// plus backward traversal and SeekForPrev for the richer scan API.
type Iterator struct {
	idx      *index
	sources  []*mergeSource
	h        *sourceHeap
	backward bool
	cur      *mergeSource
	lastSeen []int64 // numWords snapshot per trie, for growth detection

	// seekUserKey/seekTag/hasSeekTag describe the most recent Seek/
	// SeekForPrev target, consulted once by rebuildHeap so the key that
	// matches it enters its version list at the right tag instead of at
	// the boundary. Cleared implicitly: reinsertAndAdvance never re-reads
	// them once the scan has moved past the seeked-to key.
	seekUserKey []byte
	seekTag     uint64
	hasSeekTag  bool
}

func newIterator(idx *index) *Iterator {
	it := &Iterator{idx: idx}
	it.rebuildSources()
	return it
}

func (it *Iterator) rebuildSources() {
	tries := it.idx.snapshotTries()
	it.sources = make([]*mergeSource, len(tries))
	it.lastSeen = make([]int64, len(tries))
	for i, te := range tries {
		it.sources[i] = &mergeSource{
			trieIdx: i,
			shards:  te.shards,
			keys:    newTrieCursor(te.trie),
		}
		it.lastSeen[i] = te.trie.numWordsSnapshot()
	}
}

// refreshIfGrown re-snapshots any trie whose word count has grown past
// growthThreshold since this Iterator last looked, and appends sources
// for any trie opened after this Iterator was created.
func (it *Iterator) refreshIfGrown() {
	tries := it.idx.snapshotTries()
	for len(it.sources) < len(tries) {
		te := tries[len(it.sources)]
		it.sources = append(it.sources, &mergeSource{
			trieIdx: len(it.sources),
			shards:  te.shards,
			keys:    newTrieCursor(te.trie),
		})
		it.lastSeen = append(it.lastSeen, te.trie.numWordsSnapshot())
	}
	for i, te := range tries {
		now := te.trie.numWordsSnapshot()
		if now-it.lastSeen[i] < growthThreshold {
			continue
		}
		refreshed := newTrieCursor(te.trie)
		if it.sources[i].keys.valid() {
			pos := it.sources[i].keys.key()
			if it.backward {
				refreshed.seekForPrev(pos)
			} else {
				refreshed.seek(pos)
			}
		}
		it.sources[i].keys = refreshed
		it.lastSeen[i] = now
	}
}

// refreshIfGrown is applied at the start of every Seek*/SeekToFirst/
// SeekToLast call; a scan driven purely by repeated Next()/Prev() without
// re-seeking will not observe trie generations created (or grown past
// the threshold) mid-scan until the caller seeks again.

func (it *Iterator) rebuildHeap() {
	h := &sourceHeap{backward: it.backward}
	for _, s := range it.sources {
		for s.keys.valid() {
			s.enterKey(it.idx, it.backward, it.seekUserKey, it.seekTag, it.hasSeekTag)
			if s.ver.valid() {
				h.items = append(h.items, &heapItem{source: s})
				break
			}
			// The seek tag lies beyond every version of this key: continue
			// at the adjacent key in the current direction.
			if it.backward {
				s.keys.prev()
			} else {
				s.keys.next()
			}
		}
	}
	heap.Init(h)
	it.h = h
	it.advance()
}

// advance pops the winning source off the heap into it.cur, positioning
// it.cur at the current merged entry.
func (it *Iterator) advance() {
	if it.h.Len() == 0 {
		it.cur = nil
		return
	}
	top := heap.Pop(it.h).(*heapItem)
	it.cur = top.source
}

// reinsertAndAdvance steps the just-consumed source forward (or
// backward) within its current key's version list, or to its next key if
// versions are exhausted, and pushes it back into the heap if it still
// has data, then re-derives it.cur.
func (it *Iterator) reinsertAndAdvance() {
	s := it.cur
	var l *sync.Mutex
	if !it.idx.immutable {
		l = s.shards.lockFor(s.slot)
		l.Lock()
	}
	if it.backward {
		s.ver.prev()
	} else {
		s.ver.next()
	}
	if l != nil {
		l.Unlock()
	}
	if !s.ver.valid() {
		if it.backward {
			s.keys.prev()
		} else {
			s.keys.next()
		}
		if s.keys.valid() {
			s.enterKey(it.idx, it.backward, nil, 0, false)
		}
	}
	if s.keys.valid() {
		heap.Push(it.h, &heapItem{source: s})
	}
	it.advance()
}

func (it *Iterator) SeekToFirst() {
	it.refreshIfGrown()
	it.backward = false
	it.hasSeekTag = false
	for _, s := range it.sources {
		s.keys.seekToFirst()
	}
	it.rebuildHeap()
}

func (it *Iterator) SeekToLast() {
	it.refreshIfGrown()
	it.backward = true
	it.hasSeekTag = false
	for _, s := range it.sources {
		s.keys.seekToLast()
	}
	it.rebuildHeap()
}

// Seek positions at the first record whose internal key is >= target,
// i.e. the first user key >= target's user key, and — for that key
// specifically — the first version with a tag <= target's tag.
func (it *Iterator) Seek(target []byte) {
	it.refreshIfGrown()
	userKey, tag := parseInternalKey(target)
	it.backward = false
	it.seekUserKey, it.seekTag, it.hasSeekTag = userKey, tag, true
	for _, s := range it.sources {
		s.keys.seek(userKey)
	}
	it.rebuildHeap()
}

// SeekForPrev positions at the last record whose internal key is <=
// target, mirroring Seek for backward traversal.
func (it *Iterator) SeekForPrev(target []byte) {
	it.refreshIfGrown()
	userKey, tag := parseInternalKey(target)
	it.backward = true
	it.seekUserKey, it.seekTag, it.hasSeekTag = userKey, tag, true
	for _, s := range it.sources {
		s.keys.seekForPrev(userKey)
	}
	it.rebuildHeap()
}

// Next advances to the next record in ascending internal-key order. If
// the iterator is currently positioned backward (the last call was
// SeekToLast/SeekForPrev/Prev), it first re-seeks every source to the
// current entry — landing back on the same record but with a
// forward-ordered heap — then steps once, so a Next immediately after a
// Prev always returns to the record Prev was called from.
func (it *Iterator) Next() {
	if it.cur == nil {
		return
	}
	if it.backward {
		it.Seek(append([]byte(nil), it.cur.internalKey()...))
		if it.cur == nil {
			return
		}
	}
	it.reinsertAndAdvance()
}

// Prev is Next's mirror, switching to (or continuing) backward order.
func (it *Iterator) Prev() {
	if it.cur == nil {
		return
	}
	if !it.backward {
		it.SeekForPrev(append([]byte(nil), it.cur.internalKey()...))
		if it.cur == nil {
			return
		}
	}
	it.reinsertAndAdvance()
}

func (it *Iterator) Valid() bool { return it.cur != nil }

func (it *Iterator) Key() []byte { return it.cur.internalKey() }

func (it *Iterator) Value() []byte { return it.cur.ver.value() }
