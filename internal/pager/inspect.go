package pager

import "fmt"

// ───────────────────────────────────────────────────────────────────────────
// Diagnostics — human-readable page and tree dumps
// ───────────────────────────────────────────────────────────────────────────

// PageInfo summarizes one page for diagnostic output.
type PageInfo struct {
	No       PageNo
	Kind     string // "leaf", "internal", or "header+leaf"/"header+internal" for page 1
	NSlots   int
	FreeSz   int
	Right    PageNo
}

// Inspect returns a summary of page no's current in-memory contents.
func Inspect(p *Pager, no PageNo) (PageInfo, error) {
	region, err := p.RequestPage(no)
	if err != nil {
		return PageInfo{}, err
	}
	info := PageInfo{No: no, NSlots: nSlots(region), FreeSz: freeSz(region), Right: rightChild(region)}
	if isLeaf(region) {
		info.Kind = "leaf"
	} else {
		info.Kind = "internal"
	}
	if no == FirstPageNo {
		info.Kind = "header+" + info.Kind
	}
	return info, nil
}

// String renders a PageInfo the way a developer would want to see it on
// a terminal while debugging a tree dump.
func (pi PageInfo) String() string {
	return fmt.Sprintf("page %d: %s nslots=%d free=%d right=%d", pi.No, pi.Kind, pi.NSlots, pi.FreeSz, pi.Right)
}

// Dump writes a depth-first summary of a tree through print, one line
// per node, indented by depth.
func Dump(p *Pager, root PageNo, print func(string)) error {
	return dump(p, root, 0, print)
}

func dump(p *Pager, no PageNo, depth int, print func(string)) error {
	region, err := p.RequestPage(no)
	if err != nil {
		return err
	}
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	info, err := Inspect(p, no)
	if err != nil {
		return err
	}
	print(indent + info.String())
	if isLeaf(region) {
		return nil
	}
	ns := nSlots(region)
	for i := 0; i < ns; i++ {
		if err := dump(p, slotNo(region, i), depth+1, print); err != nil {
			return err
		}
	}
	return dump(p, rightChild(region), depth+1, print)
}
