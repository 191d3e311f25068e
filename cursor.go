package sakhadb

import "github.com/Interfere/SakhaDB/internal/pager"

// Cursor iterates a Collection's documents in ascending object-ID order.
type Cursor struct {
	inner *pager.Cursor
	ds    *pager.DataStore
}

// First positions the cursor at the smallest object ID.
func (c *Cursor) First() error { return c.inner.First() }

// Last positions the cursor at the largest object ID.
func (c *Cursor) Last() error { return c.inner.Last() }

// Next advances to the next object ID in ascending order.
func (c *Cursor) Next() error { return c.inner.Next() }

// Prev moves to the previous object ID. Crossing a leaf boundary costs
// an O(n) scan from the collection's first entry.
func (c *Cursor) Prev() error { return c.inner.Prev() }

// Find positions the cursor at id, reporting success via the bool.
func (c *Cursor) Find(id ObjectID) (bool, error) { return c.inner.Find(id[:]) }

// ID returns the object ID at the cursor's current position.
func (c *Cursor) ID() (ObjectID, error) {
	var id ObjectID
	key, err := c.inner.Key()
	if err != nil {
		return id, err
	}
	copy(id[:], key)
	return id, nil
}

// Data reads the full document at the cursor's current position.
func (c *Cursor) Data() ([]byte, error) {
	head, err := c.inner.Pgno()
	if err != nil {
		return nil, err
	}
	return c.ds.Read(head)
}
