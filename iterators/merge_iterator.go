package iterators

import (
	"bytes"
	"container/heap"

	"vern_kv0.8/internal"
)

// MergeIterator merges several InternalIterators into one ordered view via
// a container/heap min-heap keyed on internal.Comparator, mirroring the
// N-way heap merge memtable.Iterator runs across a trie vector's
// generations — here run one level up, across an active memtable and its
// frozen predecessors.
type MergeIterator struct {
	sources     []InternalIterator
	heap        *iterHeap
	deduplicate bool
	key         []byte
	value       []byte
}

// NewMergeIterator builds a MergeIterator over children. With deduplicate
// set, only the newest source's entry survives for a given user key —
// every other source sharing that user key is advanced past it rather
// than returned, so a caller sees one entry per key instead of one per
// memtable generation that still holds a version of it.
func NewMergeIterator(children []InternalIterator, deduplicate bool) *MergeIterator {
	return &MergeIterator{
		sources:     children,
		deduplicate: deduplicate,
	}
}

func (m *MergeIterator) SeekToFirst() {
	h := make(iterHeap, 0, len(m.sources))
	for _, s := range m.sources {
		s.SeekToFirst()
		if s.Valid() {
			h = append(h, s)
		}
	}
	heap.Init(&h)
	m.heap = &h
	m.advance()
}

func (m *MergeIterator) Next() {
	if m.heap == nil {
		return
	}
	m.advance()
}

func (m *MergeIterator) Valid() bool { return m.key != nil }

func (m *MergeIterator) Key() []byte { return m.key }

func (m *MergeIterator) Value() []byte { return m.value }

// advance pops the smallest-keyed source into the current entry, steps it
// forward, and drains every other queued source whose entry would
// otherwise be a duplicate of the one just returned.
func (m *MergeIterator) advance() {
	if m.heap.Len() == 0 {
		m.key, m.value = nil, nil
		return
	}
	top := heap.Pop(m.heap).(InternalIterator)
	m.key = top.Key()
	m.value = top.Value()

	top.Next()
	if top.Valid() {
		heap.Push(m.heap, top)
	}

	m.drainMatching(internal.ExtractUserKey(m.key))
}

// drainMatching advances any queued source positioned on exactly the
// just-returned internal key, and — when deduplicating — every source
// positioned on the same user key at all, regardless of tag.
func (m *MergeIterator) drainMatching(winnerUserKey []byte) {
	cmp := internal.Comparator{}
	for m.heap.Len() > 0 {
		next := (*m.heap)[0]
		sameEntry := cmp.Compare(next.Key(), m.key) == 0
		sameUser := m.deduplicate && bytes.Equal(internal.ExtractUserKey(next.Key()), winnerUserKey)
		if !sameEntry && !sameUser {
			return
		}
		heap.Pop(m.heap)
		next.Next()
		if next.Valid() {
			heap.Push(m.heap, next)
		}
	}
}

type iterHeap []InternalIterator

func (h iterHeap) Len() int { return len(h) }

func (h iterHeap) Less(i, j int) bool {
	return internal.Comparator{}.Compare(h[i].Key(), h[j].Key()) < 0
}

func (h iterHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *iterHeap) Push(x any) { *h = append(*h, x.(InternalIterator)) }

func (h *iterHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}
