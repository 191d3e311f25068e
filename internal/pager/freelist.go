package pager

// ───────────────────────────────────────────────────────────────────────────
// Free list — singly-linked chain of reusable pages
// ───────────────────────────────────────────────────────────────────────────
//
// The push/pop operations themselves live on Pager (RequestFreePage,
// FreePage) since both need access to the page-1 header and the cache.
// This file holds the read-only traversal used by the integrity checker.

// walkFreeList calls visit for every page number currently on the free
// list, in head-to-tail order. It stops and returns an error if the
// chain revisits a page, which would indicate corruption.
func (p *Pager) walkFreeList(visit func(PageNo) error) error {
	seen := make(map[PageNo]bool)
	no := headerFreelistHead(p.page1())
	for no != InvalidPageNo {
		if seen[no] {
			return wrap(InvalidArg, "free list cycle at page %d", no)
		}
		seen[no] = true
		if err := visit(no); err != nil {
			return err
		}
		region, err := p.RequestPage(no)
		if err != nil {
			return err
		}
		_ = region
		cp := p.lookup(no)
		no = PageNo(le32(cp.buf[:4]))
	}
	return nil
}

// FreeListPages returns every page number currently on the free list, for
// diagnostics and tests.
func (p *Pager) FreeListPages() ([]PageNo, error) {
	var out []PageNo
	err := p.walkFreeList(func(no PageNo) error {
		out = append(out, no)
		return nil
	})
	return out, err
}
