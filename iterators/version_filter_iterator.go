package iterators

import "vern_kv0.8/internal"

// VersionFilterIterator wraps another InternalIterator and hides any entry
// whose sequence number is newer than a fixed read point, giving a stable
// snapshot view over a source that may keep changing underneath it.
type VersionFilterIterator struct {
	src     InternalIterator
	readSeq uint64
	ok      bool
}

// NewVersionFilterIterator returns a VersionFilterIterator surfacing only
// src's entries with sequence number <= readSeq.
func NewVersionFilterIterator(src InternalIterator, readSeq uint64) *VersionFilterIterator {
	return &VersionFilterIterator{src: src, readSeq: readSeq}
}

func (f *VersionFilterIterator) SeekToFirst() {
	f.src.SeekToFirst()
	f.skipInvisible()
}

func (f *VersionFilterIterator) Next() {
	f.src.Next()
	f.skipInvisible()
}

func (f *VersionFilterIterator) Valid() bool { return f.ok }

func (f *VersionFilterIterator) Key() []byte { return f.src.Key() }

func (f *VersionFilterIterator) Value() []byte { return f.src.Value() }

// skipInvisible advances src past entries newer than readSeq (or a
// corrupt trailer), leaving it positioned on the next visible entry, or
// exhausted.
func (f *VersionFilterIterator) skipInvisible() {
	for f.src.Valid() {
		seq, _, err := internal.ExtractTrailer(f.src.Key())
		if err != nil {
			f.ok = false
			return
		}
		if seq <= f.readSeq {
			f.ok = true
			return
		}
		f.src.Next()
	}
	f.ok = false
}
