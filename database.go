package sakhadb

import "github.com/Interfere/SakhaDB/internal/pager"

// Database is a single open, single-threaded connection to one SakhaDB
// file. There is no implicit locking or background flushing: callers
// drive Commit/Rollback explicitly.
type Database struct {
	pgr  *pager.Pager
	ds   *pager.DataStore
	meta *pager.BTree
}

// Open opens the database file at path, creating it if it does not
// already exist.
func Open(path string) (*Database, error) {
	pgr, err := pager.OpenPager(pager.Config{Path: path})
	if err != nil {
		return nil, err
	}
	return &Database{
		pgr:  pgr,
		ds:   pager.NewDataStore(pgr),
		meta: pager.NewBTree(pgr, pager.FirstPageNo),
	}, nil
}

// Close releases the underlying file handle without flushing pending
// changes — call Commit first if they should be kept.
func (db *Database) Close() error {
	return db.pgr.Close()
}

// Commit flushes every pending change to disk.
func (db *Database) Commit() error {
	return db.pgr.Sync()
}

// Rollback discards every change made since the database was opened or
// last committed, by re-reading affected pages from disk.
func (db *Database) Rollback() error {
	return db.pgr.Rollback()
}

// Verify checks the whole database's structural invariants.
func (db *Database) Verify() error {
	return pager.Verify(db.pgr)
}

// Dump writes a depth-first summary of the meta tree (and, transitively,
// every collection's own tree is reachable by inspecting its root
// separately via Collection) through print, one line per node.
func (db *Database) Dump(print func(string)) error {
	return pager.Dump(db.pgr, pager.FirstPageNo, print)
}
