package pager

// ───────────────────────────────────────────────────────────────────────────
// Pager — page cache, header page, free list, dirty list
// ───────────────────────────────────────────────────────────────────────────
//
// There is no crash-recovery journaling or write-ahead log here, and no
// sync.Mutex/RWMutex either — callers never touch a Pager from more than
// one goroutine at a time.

type cachedPage struct {
	no    PageNo
	buf   []byte
	dirty bool
}

// Pager owns every page buffer for one open database file.
type Pager struct {
	fio          *FileIO
	pageSize     int
	dbSize       uint32 // highest page number handed out so far
	fileSizeOnOpen int64

	cache []*cachedPage // small linear cache, unbounded for the life of a session
	index map[PageNo]int
	dirty []PageNo
}

// Config configures OpenPager.
type Config struct {
	Path     string
	PageSize int // 0 = DefaultPageSize, only meaningful for brand-new files
}

// OpenPager creates or opens the database file at cfg.Path, validating the
// header page of an existing file or initialising a fresh one.
func OpenPager(cfg Config) (*Pager, error) {
	fio, err := Open(cfg.Path, FlagRead|FlagWrite|FlagCreate)
	if err != nil {
		return nil, err
	}
	size, err := fio.Size()
	if err != nil {
		fio.Close()
		return nil, err
	}

	p := &Pager{
		fio:   fio,
		index: make(map[PageNo]int),
	}

	if size == 0 {
		ps := cfg.PageSize
		if ps == 0 {
			ps = DefaultPageSize
		}
		p.pageSize = ps
		buf := make([]byte, ps)
		initHeader(buf, ps)
		initNode(nodeRegion(buf, FirstPageNo), true)
		p.cache = append(p.cache, &cachedPage{no: FirstPageNo, buf: buf, dirty: true})
		p.index[FirstPageNo] = 0
		p.dirty = append(p.dirty, FirstPageNo)
		p.dbSize = 1
		p.fileSizeOnOpen = 0
		return p, nil
	}

	// Read page 1 at the default size first to learn the real page size.
	probe := make([]byte, DefaultPageSize)
	if err := fio.ReadAt(probe, 0); err != nil && err != Status(IoShortRead) {
		fio.Close()
		return nil, err
	}
	ps, verr := validateHeader(probe)
	if verr != nil {
		fio.Close()
		return nil, verr
	}
	buf := probe
	if ps != DefaultPageSize {
		buf = make([]byte, ps)
		if err := fio.ReadAt(buf, 0); err != nil && err != Status(IoShortRead) {
			fio.Close()
			return nil, err
		}
		if _, err := validateHeader(buf); err != nil {
			fio.Close()
			return nil, err
		}
	}
	p.pageSize = ps
	p.cache = append(p.cache, &cachedPage{no: FirstPageNo, buf: buf})
	p.index[FirstPageNo] = 0
	p.fileSizeOnOpen = size
	dbSize := uint32(size / int64(ps))
	if int64(dbSize)*int64(ps) < size {
		dbSize++
	}
	if dbSize < 1 {
		dbSize = 1
	}
	p.dbSize = dbSize
	return p, nil
}

// PageSize returns the configured page size.
func (p *Pager) PageSize() int { return p.pageSize }

func (p *Pager) lookup(no PageNo) *cachedPage {
	if i, ok := p.index[no]; ok {
		return p.cache[i]
	}
	return nil
}

func (p *Pager) insert(no PageNo, buf []byte) *cachedPage {
	cp := &cachedPage{no: no, buf: buf}
	p.index[no] = len(p.cache)
	p.cache = append(p.cache, cp)
	return cp
}

// RequestPage returns a stable reference to page no's node region,
// reading it from disk on first access if it already exists there, or
// handing back a freshly zeroed buffer otherwise.
func (p *Pager) RequestPage(no PageNo) ([]byte, error) {
	if cp := p.lookup(no); cp != nil {
		return nodeRegion(cp.buf, no), nil
	}
	buf := make([]byte, p.pageSize)
	offset := int64(no-1) * int64(p.pageSize)
	if offset+int64(p.pageSize) <= p.fileSizeOnOpen || offset < p.fileSizeOnOpen {
		if err := p.fio.ReadAt(buf, offset); err != nil && err != Status(IoShortRead) {
			return nil, err
		}
	}
	if uint32(no) > p.dbSize {
		p.dbSize = uint32(no)
	}
	cp := p.insert(no, buf)
	return nodeRegion(cp.buf, no), nil
}

// page1 returns the full buffer of page 1 (the fixed header, not just
// its node-region overlay).
func (p *Pager) page1() []byte {
	cp := p.lookup(FirstPageNo)
	if cp == nil {
		buf, _ := p.RequestPage(FirstPageNo)
		_ = buf
		cp = p.lookup(FirstPageNo)
	}
	return cp.buf
}

// RequestFreePage returns a page taken from the free list if one exists,
// or extends the database by one page otherwise.
func (p *Pager) RequestFreePage() (PageNo, []byte, error) {
	head := headerFreelistHead(p.page1())
	if head != InvalidPageNo {
		if _, err := p.RequestPage(head); err != nil {
			return 0, nil, err
		}
		// The free page's successor is stored raw in its first 4 bytes,
		// ahead of any node-region overlay — read via the full buffer.
		cp := p.lookup(head)
		next := PageNo(le32(cp.buf[:4]))
		setHeaderFreelistHead(p.page1(), next)
		p.SavePage(FirstPageNo)
		for i := range cp.buf {
			cp.buf[i] = 0
		}
		p.SavePage(head)
		return head, nodeRegion(cp.buf, head), nil
	}
	newNo := PageNo(p.dbSize + 1)
	region, err := p.RequestPage(newNo)
	if err != nil {
		return 0, nil, err
	}
	return newNo, region, nil
}

// SavePage marks a page dirty and queues it for the next Sync.
func (p *Pager) SavePage(no PageNo) {
	cp := p.lookup(no)
	if cp == nil || cp.dirty {
		return
	}
	cp.dirty = true
	p.dirty = append(p.dirty, no)
}

// FreePage links no onto the head of the free list.
func (p *Pager) FreePage(no PageNo) {
	cp := p.lookup(no)
	if cp == nil {
		return
	}
	head := headerFreelistHead(p.page1())
	putLE32(cp.buf[:4], uint32(head))
	setHeaderFreelistHead(p.page1(), no)
	p.SavePage(FirstPageNo)
	p.SavePage(no)
}

// Sync flushes every dirty page to disk in insertion order. A write
// failure aborts, leaving the unwritten suffix of the dirty list still
// dirty.
func (p *Pager) Sync() error {
	i := 0
	for ; i < len(p.dirty); i++ {
		no := p.dirty[i]
		cp := p.lookup(no)
		if cp == nil || !cp.dirty {
			continue
		}
		offset := int64(no-1) * int64(p.pageSize)
		if err := p.fio.WriteAt(cp.buf, offset); err != nil {
			p.dirty = p.dirty[i:]
			return err
		}
		cp.dirty = false
	}
	p.dirty = p.dirty[:0]
	if err := p.fio.Sync(); err != nil {
		return err
	}
	if size, err := p.fio.Size(); err == nil {
		p.fileSizeOnOpen = size
	}
	return nil
}

// Rollback discards every in-memory mutation by re-reading cached pages
// from disk, zeroing the buffers of pages that didn't exist on disk yet.
func (p *Pager) Rollback() error {
	for _, cp := range p.cache {
		offset := int64(cp.no-1) * int64(p.pageSize)
		if offset < p.fileSizeOnOpen {
			if err := p.fio.ReadAt(cp.buf, offset); err != nil && err != Status(IoShortRead) {
				return err
			}
		} else {
			for i := range cp.buf {
				cp.buf[i] = 0
			}
		}
		cp.dirty = false
	}
	p.dirty = p.dirty[:0]
	return nil
}

// Close releases the underlying file handle without syncing — commit is
// always explicit.
func (p *Pager) Close() error {
	return p.fio.Close()
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func putLE32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
