// Package sakhadb is a single-file, single-threaded embedded document
// store: named collections of opaque byte-string documents, each keyed
// by a 12-byte object ID, backed by a B+-tree per collection over a
// slotted-page file format.
//
// Document encoding itself is out of scope — callers hand Insert an
// already-encoded document whose first field must be a literal `_id`
// field carrying the 12-byte key, and Find/Collection.Cursor hand back
// the same opaque bytes unmodified.
package sakhadb

import "github.com/Interfere/SakhaDB/internal/pager"

// ObjectID is the fixed-size key every document is stored and looked up
// under.
type ObjectID [12]byte

const idFieldName = "_id"

// ExtractID reads the leading `_id` field a document must begin with
// and returns its value. The wire shape is deliberately minimal — a
// length-prefixed field name followed by a length-prefixed value —
// since the document codec itself is an external concern; this is only
// ever asked to peel off the one field the store needs to see.
func ExtractID(doc []byte) (ObjectID, error) {
	var id ObjectID
	if len(doc) < 5 {
		return id, pager.InvalidArg
	}
	nameLen := int(doc[0])
	if nameLen != len(idFieldName) || len(doc) < 1+nameLen+1 {
		return id, pager.InvalidArg
	}
	if string(doc[1:1+nameLen]) != idFieldName {
		return id, pager.InvalidArg
	}
	off := 1 + nameLen
	valueLen := int(doc[off])
	off++
	if valueLen != len(id) || len(doc) < off+valueLen {
		return id, pager.InvalidArg
	}
	copy(id[:], doc[off:off+valueLen])
	return id, nil
}

// EncodeIDField prepends a well-formed `_id` field to rest, for tests
// and for the demo driver to build sample documents with.
func EncodeIDField(id ObjectID, rest []byte) []byte {
	out := make([]byte, 0, 1+len(idFieldName)+1+len(id)+len(rest))
	out = append(out, byte(len(idFieldName)))
	out = append(out, idFieldName...)
	out = append(out, byte(len(id)))
	out = append(out, id[:]...)
	out = append(out, rest...)
	return out
}
