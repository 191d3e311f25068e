package sakhadb

import "github.com/Interfere/SakhaDB/internal/pager"

// Collection binds a name to a B+-tree of (ObjectID -> document head
// page) entries. Collections are created lazily on first use and
// recorded in the database's meta tree.
type Collection struct {
	db   *Database
	name string
	tree *pager.BTree
}

// Collection loads the named collection, creating it if this is its
// first use.
func (db *Database) Collection(name string) (*Collection, error) {
	key := []byte(name)
	root, ok, err := db.meta.Get(key)
	if err != nil {
		return nil, err
	}
	if !ok {
		newRoot, err := pager.NewEmptyLeaf(db.pgr)
		if err != nil {
			return nil, err
		}
		if err := db.meta.Insert(key, newRoot); err != nil {
			return nil, err
		}
		root = newRoot
	}
	return &Collection{db: db, name: name, tree: pager.NewBTree(db.pgr, root)}, nil
}

// Name returns the collection's name.
func (c *Collection) Name() string { return c.name }

// Insert stores doc, which must begin with a well-formed `_id` field,
// under its object ID. Re-inserting an ID already present is a silent
// no-op; the existing document is left untouched.
func (c *Collection) Insert(doc []byte) (ObjectID, error) {
	id, err := ExtractID(doc)
	if err != nil {
		return id, err
	}
	head, err := c.db.ds.Write(doc)
	if err != nil {
		return id, err
	}
	if err := c.tree.Insert(id[:], head); err != nil {
		return id, err
	}
	return id, nil
}

// Find returns the document stored under id. If id is nil, the first
// document in key order is returned instead.
func (c *Collection) Find(id *ObjectID) ([]byte, error) {
	cur := pager.NewCursor(c.tree)
	if id == nil {
		if err := cur.First(); err != nil {
			return nil, err
		}
	} else {
		ok, err := cur.Find(id[:])
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, pager.NotFound
		}
	}
	head, err := cur.Pgno()
	if err != nil {
		return nil, err
	}
	return c.db.ds.Read(head)
}

// Cursor returns a new, unpositioned cursor over the collection.
func (c *Collection) Cursor() *Cursor {
	return &Cursor{inner: pager.NewCursor(c.tree), ds: c.db.ds}
}
