package pager

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"
)

func newTestTree(t *testing.T) *BTree {
	t.Helper()
	p := newTestPager(t)
	root, err := NewEmptyLeaf(p)
	if err != nil {
		t.Fatalf("NewEmptyLeaf: %v", err)
	}
	return NewBTree(p, root)
}

func TestBTreeInsertAndGet(t *testing.T) {
	tr := newTestTree(t)
	for i, k := range []string{"m", "a", "z", "c", "q"} {
		if err := tr.Insert([]byte(k), PageNo(i+1)); err != nil {
			t.Fatalf("Insert(%q): %v", k, err)
		}
	}
	for i, k := range []string{"m", "a", "z", "c", "q"} {
		no, ok, err := tr.Get([]byte(k))
		if err != nil {
			t.Fatalf("Get(%q): %v", k, err)
		}
		if !ok || no != PageNo(i+1) {
			t.Fatalf("Get(%q) = (%d, %v), want (%d, true)", k, no, ok, i+1)
		}
	}
	if _, ok, err := tr.Get([]byte("missing")); err != nil || ok {
		t.Fatalf("Get(missing) = (_, %v, %v), want (_, false, nil)", ok, err)
	}
}

func TestBTreeDuplicateInsertIsNoOp(t *testing.T) {
	tr := newTestTree(t)
	if err := tr.Insert([]byte("k"), 1); err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	if err := tr.Insert([]byte("k"), 2); err != nil {
		t.Fatalf("duplicate Insert: %v", err)
	}
	no, ok, err := tr.Get([]byte("k"))
	if err != nil || !ok || no != 1 {
		t.Fatalf("Get after duplicate insert = (%d, %v, %v), want (1, true, nil)", no, ok, err)
	}
}

func TestBTreeOversizeKeyRejected(t *testing.T) {
	tr := newTestTree(t)
	oversize := bytes.Repeat([]byte{'k'}, tr.MaxKeySize()+1)
	if err := tr.Insert(oversize, 1); err != Status(InvalidArg) {
		t.Fatalf("Insert(oversize key) = %v, want InvalidArg", err)
	}
	exact := bytes.Repeat([]byte{'k'}, tr.MaxKeySize())
	if err := tr.Insert(exact, 1); err != nil {
		t.Fatalf("Insert(exact max-size key) = %v, want nil", err)
	}
}

func TestBTreeManyKeysForceSplits(t *testing.T) {
	tr := newTestTree(t)
	const n = 80
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("indx_index_index_index_index_index_index.t%02d", i)
		if err := tr.Insert([]byte(key), PageNo(i+1)); err != nil {
			t.Fatalf("Insert(%q): %v", key, err)
		}
	}
	for i := 0; i < n; i++ {
		key := fmt.Sprintf("indx_index_index_index_index_index_index.t%02d", i)
		no, ok, err := tr.Get([]byte(key))
		if err != nil || !ok || no != PageNo(i+1) {
			t.Fatalf("Get(%q) = (%d, %v, %v), want (%d, true, nil)", key, no, ok, err, i+1)
		}
	}

	cur := NewCursor(tr)
	if err := cur.First(); err != nil {
		t.Fatalf("First: %v", err)
	}
	count := 0
	var prev []byte
	for {
		key, err := cur.Key()
		if err != nil {
			t.Fatalf("Key: %v", err)
		}
		if prev != nil && compareKeys(prev, key) >= 0 {
			t.Fatalf("cursor order not ascending: %q then %q", prev, key)
		}
		prev = key
		count++
		if err := cur.Next(); err != nil {
			break
		}
	}
	if count != n {
		t.Fatalf("cursor visited %d keys, want %d", count, n)
	}
}

func TestBTreeCursorFirstLastNextPrev(t *testing.T) {
	tr := newTestTree(t)
	keys := []string{"c", "a", "e", "b", "d"}
	for i, k := range keys {
		if err := tr.Insert([]byte(k), PageNo(i+1)); err != nil {
			t.Fatalf("Insert(%q): %v", k, err)
		}
	}

	cur := NewCursor(tr)
	if err := cur.First(); err != nil {
		t.Fatalf("First: %v", err)
	}
	if k, _ := cur.Key(); string(k) != "a" {
		t.Fatalf("First key = %q, want a", k)
	}
	if err := cur.Last(); err != nil {
		t.Fatalf("Last: %v", err)
	}
	if k, _ := cur.Key(); string(k) != "e" {
		t.Fatalf("Last key = %q, want e", k)
	}
	if err := cur.Prev(); err != nil {
		t.Fatalf("Prev: %v", err)
	}
	if k, _ := cur.Key(); string(k) != "d" {
		t.Fatalf("Prev key = %q, want d", k)
	}
}

func TestBTreePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "btree.db")
	p, err := OpenPager(Config{Path: path})
	if err != nil {
		t.Fatalf("OpenPager: %v", err)
	}
	root, err := NewEmptyLeaf(p)
	if err != nil {
		t.Fatalf("NewEmptyLeaf: %v", err)
	}
	tr := NewBTree(p, root)
	for i := 0; i < 40; i++ {
		key := fmt.Sprintf("key-%03d", i)
		if err := tr.Insert([]byte(key), PageNo(i+1)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	if err := p.Sync(); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	p2, err := OpenPager(Config{Path: path})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer p2.Close()
	tr2 := NewBTree(p2, root)
	for i := 0; i < 40; i++ {
		key := fmt.Sprintf("key-%03d", i)
		no, ok, err := tr2.Get([]byte(key))
		if err != nil || !ok || no != PageNo(i+1) {
			t.Fatalf("Get(%q) after reopen = (%d, %v, %v)", key, no, ok, err)
		}
	}
}
