package engine

import "testing"

func TestDBPutGetDelete(t *testing.T) {
	db := Open()

	if err := db.Put([]byte("a"), []byte("1")); err != nil {
		t.Fatal(err)
	}

	val, err := db.Get([]byte("a"))
	if err != nil {
		t.Fatal(err)
	}
	if string(val) != "1" {
		t.Fatalf("unexpected value")
	}

	if err := db.Delete([]byte("a")); err != nil {
		t.Fatal(err)
	}

	_, err = db.Get([]byte("a"))
	if err != ErrNotFound {
		t.Fatalf("expected not found")
	}
}

func TestDBWriteBatch(t *testing.T) {
	db := Open()

	err := db.Write([]BatchOp{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("2")},
		{Key: []byte("a"), Delete: true},
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := db.Get([]byte("a")); err != ErrNotFound {
		t.Fatalf("expected a to be deleted, got err=%v", err)
	}
	val, err := db.Get([]byte("b"))
	if err != nil || string(val) != "2" {
		t.Fatalf("unexpected result for b: val=%q err=%v", val, err)
	}
}

func TestDBRotatesOnSizeLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MemtableSizeLimit = 1
	db := Open(cfg)

	if err := db.Put([]byte("a"), []byte("1")); err != nil {
		t.Fatal(err)
	}
	if len(db.immutables) == 0 {
		t.Fatalf("expected the active memtable to rotate into immutables")
	}
	if !db.immutables[0].Sealed() {
		t.Fatalf("rotated memtable should be sealed")
	}

	val, err := db.Get([]byte("a"))
	if err != nil || string(val) != "1" {
		t.Fatalf("expected a to still be readable across the rotated memtable: val=%q err=%v", val, err)
	}
}
