package sakhadb

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func newID(b byte) ObjectID {
	var id ObjectID
	for i := range id {
		id[i] = b
	}
	return id
}

func TestCreateAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "create.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	header, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.HasPrefix(header, []byte("SakhaDB ver 1")) {
		t.Fatalf("file header missing expected magic: %q", header[:16])
	}
	if header[16] != 0 || header[17] != 4 { // 1024 little-endian
		t.Fatalf("page size header bytes = %v, want 1024 LE", header[16:18])
	}

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()
	if err := db2.Verify(); err != nil {
		t.Fatalf("Verify after reopen: %v", err)
	}
}

func TestCollectionInsertAndFind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "col.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	col, err := db.Collection("widgets")
	if err != nil {
		t.Fatalf("Collection: %v", err)
	}

	id := newID(7)
	doc := EncodeIDField(id, []byte("a small widget"))
	gotID, err := col.Insert(doc)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if gotID != id {
		t.Fatalf("Insert returned %x, want %x", gotID, id)
	}

	found, err := col.Find(&id)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !bytes.Equal(found, doc) {
		t.Fatalf("Find returned %q, want %q", found, doc)
	}

	if err := db.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
}

func TestCollectionDuplicateIDIsNoOp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dup.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	col, err := db.Collection("widgets")
	if err != nil {
		t.Fatalf("Collection: %v", err)
	}

	id := newID(9)
	first := EncodeIDField(id, []byte("first"))
	second := EncodeIDField(id, []byte("second, should be ignored"))

	if _, err := col.Insert(first); err != nil {
		t.Fatalf("first Insert: %v", err)
	}
	if _, err := col.Insert(second); err != nil {
		t.Fatalf("second Insert: %v", err)
	}

	found, err := col.Find(&id)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !bytes.Equal(found, first) {
		t.Fatalf("duplicate insert overwrote document: got %q, want %q", found, first)
	}
}

func TestCollectionMultiPageDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bigdoc.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	col, err := db.Collection("attachments")
	if err != nil {
		t.Fatalf("Collection: %v", err)
	}

	id := newID(3)
	body := bytes.Repeat([]byte{'Q'}, 3000)
	doc := EncodeIDField(id, body)
	if _, err := col.Insert(doc); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	found, err := col.Find(&id)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !bytes.Equal(found[:len(doc)], doc) {
		t.Fatalf("multi-page document round trip mismatch")
	}
}

func TestOpenRejectsCorruptMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := db.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.WriteAt([]byte("NOTASAKHADBFILE!"), 0); err != nil {
		t.Fatalf("corrupt write: %v", err)
	}
	f.Close()

	if _, err := Open(path); err != NotADb {
		t.Fatalf("Open on corrupt file = %v, want NotADb", err)
	}
}

func TestCursorIteratesInAscendingOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cursor.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	col, err := db.Collection("items")
	if err != nil {
		t.Fatalf("Collection: %v", err)
	}
	for i := byte(0); i < 20; i++ {
		id := newID(i)
		if _, err := col.Insert(EncodeIDField(id, []byte("payload"))); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	cur := col.Cursor()
	if err := cur.First(); err != nil {
		t.Fatalf("First: %v", err)
	}
	var prev *ObjectID
	count := 0
	for {
		id, err := cur.ID()
		if err != nil {
			t.Fatalf("ID: %v", err)
		}
		if prev != nil && bytes.Compare(prev[:], id[:]) >= 0 {
			t.Fatalf("cursor not ascending: %x then %x", *prev, id)
		}
		idCopy := id
		prev = &idCopy
		count++
		if err := cur.Next(); err != nil {
			break
		}
	}
	if count != 20 {
		t.Fatalf("cursor visited %d entries, want 20", count)
	}
}
