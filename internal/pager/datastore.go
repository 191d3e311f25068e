package pager

import "encoding/binary"

// ───────────────────────────────────────────────────────────────────────────
// DataStore — chained overflow pages for document bodies
// ───────────────────────────────────────────────────────────────────────────
//
// Each page's header carries both the "next" link and a data length, so
// Read can return exactly the bytes Write was given — no trailing zero
// padding, on the last page or any other.

const (
	chainHeaderSize = 6
	chainLenOffset  = 4
)

// DataStore writes and reads documents as chains of pages linked by a
// leading PageNo "next" field. Pages come from Pager.RequestFreePage;
// DataStore never releases them.
type DataStore struct {
	pager *Pager
}

// NewDataStore binds a DataStore to the pages of an open Pager.
func NewDataStore(p *Pager) *DataStore {
	return &DataStore{pager: p}
}

func (ds *DataStore) capacity() int {
	return ds.pager.PageSize() - chainHeaderSize
}

// Write threads data across as many chain pages as needed and returns the
// head page number.
func (ds *DataStore) Write(data []byte) (PageNo, error) {
	cap := ds.capacity()
	var head PageNo
	var prev []byte
	offset := 0
	for {
		no, _, err := ds.pager.RequestFreePage()
		if err != nil {
			return 0, err
		}
		region, err := ds.pager.RequestPage(no)
		if err != nil {
			return 0, err
		}
		if head == InvalidPageNo {
			head = no
		}
		if prev != nil {
			putLE32(prev[:4], uint32(no))
		}
		n := len(data) - offset
		if n > cap {
			n = cap
		}
		putLE32(region[:4], uint32(InvalidPageNo))
		binary.LittleEndian.PutUint16(region[chainLenOffset:chainLenOffset+2], uint16(n))
		copy(region[chainHeaderSize:chainHeaderSize+n], data[offset:offset+n])
		ds.pager.SavePage(no)
		offset += n
		prev = region
		if offset >= len(data) {
			break
		}
	}
	return head, nil
}

// Read follows the chain from head until a zero "next" field, returning
// the concatenated payload of every page in the chain.
func (ds *DataStore) Read(head PageNo) ([]byte, error) {
	var out []byte
	no := head
	for no != InvalidPageNo {
		region, err := ds.pager.RequestPage(no)
		if err != nil {
			return nil, err
		}
		next := PageNo(le32(region[:4]))
		n := int(binary.LittleEndian.Uint16(region[chainLenOffset : chainLenOffset+2]))
		out = append(out, region[chainHeaderSize:chainHeaderSize+n]...)
		no = next
	}
	return out, nil
}

// Preload returns the payload of just the chain's first page, without
// copying, for callers that only need to inspect a document's leading
// bytes (e.g. to peel off its object ID).
func (ds *DataStore) Preload(head PageNo) ([]byte, error) {
	region, err := ds.pager.RequestPage(head)
	if err != nil {
		return nil, err
	}
	n := int(binary.LittleEndian.Uint16(region[chainLenOffset : chainLenOffset+2]))
	return region[chainHeaderSize : chainHeaderSize+n], nil
}
