package memtable

import (
	"testing"

	"vern_kv0.8/internal"
)

func TestMemtableInsertAndSize(t *testing.T) {
	mt := New()

	if mt.Size() != 0 {
		t.Fatalf("expected empty memtable")
	}

	k1 := internal.EncodeInternalKey([]byte("a"), 1, internal.RecordTypeValue)
	mt.Insert(k1, []byte("1"))

	if mt.Size() != 1 {
		t.Fatalf("expected size 1")
	}
}

func TestMemtableOrderingByUserKey(t *testing.T) {
	mt := New()

	kb := internal.EncodeInternalKey([]byte("b"), 1, internal.RecordTypeValue)
	ka := internal.EncodeInternalKey([]byte("a"), 1, internal.RecordTypeValue)

	mt.Insert(kb, []byte("b"))
	mt.Insert(ka, []byte("a"))

	it := mt.Iterator()
	it.SeekToFirst()
	if string(it.Key()[:1]) != "a" {
		t.Fatalf("expected key 'a' first")
	}
}

func TestMemtableOrderingBySequenceDesc(t *testing.T) {
	mt := New()

	k1 := internal.EncodeInternalKey([]byte("a"), 1, internal.RecordTypeValue)
	k2 := internal.EncodeInternalKey([]byte("a"), 2, internal.RecordTypeValue)

	mt.Insert(k1, []byte("old"))
	mt.Insert(k2, []byte("new"))

	it := mt.Iterator()
	it.SeekToFirst()
	seq, _, _ := internal.ExtractTrailer(it.Key())
	if seq != 2 {
		t.Fatalf("expected newer sequence first")
	}
}

func TestMemtableStoresTombstone(t *testing.T) {
	mt := New()

	put := internal.EncodeInternalKey([]byte("x"), 1, internal.RecordTypeValue)
	del := internal.EncodeInternalKey([]byte("x"), 2, internal.RecordTypeTombstone)

	mt.Insert(put, []byte("v"))
	mt.Insert(del, nil)

	if mt.Size() != 2 {
		t.Fatalf("expected both value and tombstone stored")
	}
}

func TestMemtableContains(t *testing.T) {
	mt := New()

	k := internal.EncodeInternalKey([]byte("a"), 1, internal.RecordTypeValue)
	if mt.Contains(k) {
		t.Fatalf("empty memtable should not contain anything")
	}
	mt.Insert(k, []byte("1"))
	if !mt.Contains(k) {
		t.Fatalf("expected inserted key to be present")
	}

	other := internal.EncodeInternalKey([]byte("a"), 2, internal.RecordTypeValue)
	if mt.Contains(other) {
		t.Fatalf("a different tag on the same user key should not be present")
	}
}

func TestMemtableGetWalksVersionsDescending(t *testing.T) {
	mt := New()

	mt.Insert(internal.EncodeInternalKey([]byte("a"), 1, internal.RecordTypeValue), []byte("v1"))
	mt.Insert(internal.EncodeInternalKey([]byte("a"), 3, internal.RecordTypeValue), []byte("v3"))
	mt.Insert(internal.EncodeInternalKey([]byte("a"), 2, internal.RecordTypeValue), []byte("v2"))

	query := internal.EncodeInternalKey([]byte("a"), 3, internal.RecordTypeValue)
	var seen []string
	mt.Get(query, func(tag uint64, value []byte) bool {
		seen = append(seen, string(value))
		return true
	})

	if len(seen) != 3 || seen[0] != "v3" || seen[1] != "v2" || seen[2] != "v1" {
		t.Fatalf("expected versions newest-first, got %v", seen)
	}
}

func TestMemtableApproximateSizeGrows(t *testing.T) {
	mt := New()
	before := mt.ApproximateSize()

	mt.Insert(internal.EncodeInternalKey([]byte("a"), 1, internal.RecordTypeValue), []byte("value"))

	if mt.ApproximateSize() <= before {
		t.Fatalf("expected ApproximateSize to grow after an insert")
	}
}

func TestMemtableSealRejectsFurtherInserts(t *testing.T) {
	mt := New()
	mt.Insert(internal.EncodeInternalKey([]byte("a"), 1, internal.RecordTypeValue), []byte("1"))
	mt.Seal()

	if !mt.Sealed() {
		t.Fatalf("expected memtable to report sealed")
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected insert-after-seal to panic")
		}
	}()
	mt.Insert(internal.EncodeInternalKey([]byte("b"), 1, internal.RecordTypeValue), []byte("2"))
}
