package pager

// ───────────────────────────────────────────────────────────────────────────
// Integrity checker — universal structural invariants
// ───────────────────────────────────────────────────────────────────────────
//
// Walks every page reachable from the meta tree (nodes, their data
// chains) plus the free list, and confirms every page in the file is
// accounted for by exactly one of those roles.

// Verify checks a whole database's structural invariants: every node's
// local header/slot bookkeeping is consistent, every tree's leaves form
// an unbroken ascending chain, and every page belongs to exactly one of
// {free list, tree node, data chain}. Page 1 carries both the file
// header and the meta-tree root, and is counted once, as that root node.
func Verify(p *Pager) error {
	seen := make(map[PageNo]string)
	mark := func(no PageNo, kind string) error {
		if prev, ok := seen[no]; ok {
			return wrap(InvalidArg, "page %d reachable as both %s and %s", no, prev, kind)
		}
		seen[no] = kind
		return nil
	}

	if err := p.walkFreeList(func(no PageNo) error { return mark(no, "free") }); err != nil {
		return err
	}

	metaRoot := PageNo(FirstPageNo)
	if err := verifyTree(p, metaRoot, true, mark); err != nil {
		return err
	}

	for no := PageNo(1); no <= PageNo(p.dbSize); no++ {
		if _, ok := seen[no]; !ok {
			return wrap(InvalidArg, "page %d unreachable", no)
		}
	}
	return nil
}

// verifyTree checks one tree's node invariants and leaf chain, and marks
// every node it visits. A leaf slot's value means one of two things
// depending on which tree it belongs to: in the meta tree each value is
// another tree's root page, to be verified recursively; in every other
// tree (one per collection) each value is a data-chain head, walked with
// walkChain. leafValuesAreRoots selects which.
func verifyTree(p *Pager, root PageNo, leafValuesAreRoots bool, mark func(PageNo, string) error) error {
	if err := walkNodes(p, root, func(no PageNo, region []byte) error {
		if err := mark(no, "node"); err != nil {
			return err
		}
		if err := checkNodeInvariants(region); err != nil {
			return err
		}
		if isLeaf(region) {
			for i := 0; i < nSlots(region); i++ {
				val := slotNo(region, i)
				if val == InvalidPageNo {
					continue
				}
				if leafValuesAreRoots {
					if err := verifyTree(p, val, false, mark); err != nil {
						return err
					}
				} else if err := walkChain(p, val, func(cno PageNo) error { return mark(cno, "data") }); err != nil {
					return err
				}
			}
		}
		return nil
	}); err != nil {
		return err
	}
	return verifyLeafChain(p, root)
}

// walkNodes visits every node page of a tree via pre-order traversal.
func walkNodes(p *Pager, no PageNo, visit func(PageNo, []byte) error) error {
	region, err := p.RequestPage(no)
	if err != nil {
		return err
	}
	if err := visit(no, region); err != nil {
		return err
	}
	if isLeaf(region) {
		return nil
	}
	ns := nSlots(region)
	children := make([]PageNo, ns+1)
	for i := 0; i < ns; i++ {
		children[i] = slotNo(region, i)
	}
	children[ns] = rightChild(region)
	for _, child := range children {
		if err := walkNodes(p, child, visit); err != nil {
			return err
		}
	}
	return nil
}

// walkChain visits every page of a data chain starting at head.
func walkChain(p *Pager, head PageNo, visit func(PageNo) error) error {
	no := head
	for no != InvalidPageNo {
		if err := visit(no); err != nil {
			return err
		}
		region, err := p.RequestPage(no)
		if err != nil {
			return err
		}
		no = PageNo(le32(region[:4]))
	}
	return nil
}

func collectLeaves(p *Pager, no PageNo) ([]PageNo, error) {
	region, err := p.RequestPage(no)
	if err != nil {
		return nil, err
	}
	if isLeaf(region) {
		return []PageNo{no}, nil
	}
	ns := nSlots(region)
	var out []PageNo
	for i := 0; i < ns; i++ {
		sub, err := collectLeaves(p, slotNo(region, i))
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	sub, err := collectLeaves(p, rightChild(region))
	if err != nil {
		return nil, err
	}
	return append(out, sub...), nil
}

// verifyLeafChain confirms that walking the tree structurally (left to
// right) and walking the leaf linked list produce the identical sequence
// of pages, terminating exactly once.
func verifyLeafChain(p *Pager, root PageNo) error {
	leaves, err := collectLeaves(p, root)
	if err != nil {
		return err
	}
	if len(leaves) == 0 {
		return nil
	}
	no := leaves[0]
	for i, want := range leaves {
		if no != want {
			return wrap(InvalidArg, "leaf chain diverges from tree order at position %d", i)
		}
		region, err := p.RequestPage(no)
		if err != nil {
			return err
		}
		no = leafNext(region)
	}
	if no != InvalidPageNo {
		return wrap(InvalidArg, "leaf chain does not terminate after its last leaf")
	}
	return nil
}
