package pager

import (
	"encoding/binary"
)

// ───────────────────────────────────────────────────────────────────────────
// Constants — page and header layout
// ───────────────────────────────────────────────────────────────────────────

const (
	DefaultPageSize = 1024

	// FirstPageNo is the 1-based page number of the header page, which
	// also carries the meta-tree root node overlaid past its header.
	FirstPageNo PageNo = 1

	// Page1HeaderSize is the byte size of the fixed file header occupying
	// the front of page 1 (magic, page size, version, free-list head,
	// reserved).
	Page1HeaderSize = 56

	magicOffset    = 0
	magicSize      = 16
	pageSizeOffset = 16
	versionOffset  = 20
	freelistOffset = 24

	dbVersion = 2

	// NodeHeaderSize is the byte size of a node page's header:
	// flags(1) + reserved(1) + free_sz(2) + free_off(2) + slots_off(2) +
	// nslots(2) + right(4).
	NodeHeaderSize = 14

	// SlotSize is the fixed byte size of one slot record {off, sz, no}.
	SlotSize = 8

	flagLeaf = 0x01
)

var fileMagic = [magicSize]byte{'S', 'a', 'k', 'h', 'a', 'D', 'B', ' ', 'v', 'e', 'r', ' ', '1'}

// PageNo identifies a page; 0 means "none". Pages are 1-based.
type PageNo uint32

// InvalidPageNo is the null page reference.
const InvalidPageNo PageNo = 0

// nodeRegion returns the sub-slice of a raw page buffer that a B+-tree
// node overlays. Every page except page 1 uses the whole buffer; page 1
// reserves its first Page1HeaderSize bytes for the file header and
// overlays the meta-tree root in the remainder.
func nodeRegion(buf []byte, no PageNo) []byte {
	if no == FirstPageNo {
		return buf[Page1HeaderSize:]
	}
	return buf
}

// usableSize returns the node-region byte count for a page of the given
// number.
func usableSize(pageSize int, no PageNo) int {
	if no == FirstPageNo {
		return pageSize - Page1HeaderSize
	}
	return pageSize
}

// initHeader writes a fresh file header (page 1) into buf, which must be
// at least pageSize bytes. Used when creating a brand-new database file.
func initHeader(buf []byte, pageSize int) {
	copy(buf[magicOffset:magicOffset+magicSize], fileMagic[:])
	binary.LittleEndian.PutUint16(buf[pageSizeOffset:pageSizeOffset+2], uint16(pageSize))
	binary.LittleEndian.PutUint32(buf[versionOffset:versionOffset+4], dbVersion)
	binary.LittleEndian.PutUint32(buf[freelistOffset:freelistOffset+4], uint32(InvalidPageNo))
}

// validateHeader checks the magic and version fields of an existing
// page-1 buffer, returning the page size recorded in the header.
func validateHeader(buf []byte) (pageSize int, err error) {
	if !bytesEqual(buf[magicOffset:magicOffset+len(fileMagic)], fileMagic[:]) {
		return 0, NotADb
	}
	version := binary.LittleEndian.Uint32(buf[versionOffset : versionOffset+4])
	if version > dbVersion {
		return 0, CantOpen
	}
	ps := int(binary.LittleEndian.Uint16(buf[pageSizeOffset : pageSizeOffset+2]))
	if ps <= 0 {
		return 0, NotADb
	}
	return ps, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func headerFreelistHead(buf []byte) PageNo {
	return PageNo(binary.LittleEndian.Uint32(buf[freelistOffset : freelistOffset+4]))
}

func setHeaderFreelistHead(buf []byte, no PageNo) {
	binary.LittleEndian.PutUint32(buf[freelistOffset:freelistOffset+4], uint32(no))
}
