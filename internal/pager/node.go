package pager

import (
	"bytes"
	"encoding/binary"
)

// ───────────────────────────────────────────────────────────────────────────
// Node page — slotted B+-tree node layout
// ───────────────────────────────────────────────────────────────────────────
//
// Header (low end of the region):
//   [0]    flags    (bit 0 = leaf)
//   [1]    reserved
//   [2:4]  free_sz  (u16)
//   [4:6]  free_off (u16)
//   [6:8]  slots_off(u16)
//   [8:10] nslots   (u16)
//   [10:14] right   (PageNo, u32) — right_child() for internal nodes,
//                                   leaf_next() for leaves.
//
// Slots are fixed 8-byte records {off u16, sz u16, no PageNo u32}. Slot 0
// (smallest key) occupies the region's logical index 0; this
// implementation keeps logical slot order equal to ascending key order
// and stores slot records contiguously from the region's high end
// downward, using plain index-shift semantics for inserts rather than
// literal byte-shift arithmetic — any orientation works as long as the
// stored order and comparator stay consistent.

func isLeaf(region []byte) bool     { return region[0]&flagLeaf != 0 }
func setLeaf(region []byte, v bool) {
	if v {
		region[0] |= flagLeaf
	} else {
		region[0] &^= flagLeaf
	}
}

func freeSz(region []byte) int      { return int(binary.LittleEndian.Uint16(region[2:4])) }
func setFreeSz(region []byte, v int) { binary.LittleEndian.PutUint16(region[2:4], uint16(v)) }

func freeOff(region []byte) int       { return int(binary.LittleEndian.Uint16(region[4:6])) }
func setFreeOff(region []byte, v int) { binary.LittleEndian.PutUint16(region[4:6], uint16(v)) }

func slotsOff(region []byte) int       { return int(binary.LittleEndian.Uint16(region[6:8])) }
func setSlotsOff(region []byte, v int) { binary.LittleEndian.PutUint16(region[6:8], uint16(v)) }

func nSlots(region []byte) int       { return int(binary.LittleEndian.Uint16(region[8:10])) }
func setNSlots(region []byte, v int) { binary.LittleEndian.PutUint16(region[8:10], uint16(v)) }

// rightChild returns the right-most child pointer of an internal node.
func rightChild(region []byte) PageNo { return PageNo(binary.LittleEndian.Uint32(region[10:14])) }
func setRightChild(region []byte, no PageNo) {
	binary.LittleEndian.PutUint32(region[10:14], uint32(no))
}

// leafNext returns the successor leaf in key order; an alias of the same
// physical field as rightChild, under the name that matters for leaves.
func leafNext(region []byte) PageNo           { return rightChild(region) }
func setLeafNext(region []byte, no PageNo)    { setRightChild(region, no) }

func initNode(region []byte, leaf bool) {
	region[0] = 0
	if leaf {
		region[0] = flagLeaf
	}
	region[1] = 0
	setFreeOff(region, NodeHeaderSize)
	setSlotsOff(region, len(region))
	setNSlots(region, 0)
	setFreeSz(region, len(region)-NodeHeaderSize)
	setRightChild(region, InvalidPageNo)
}

// slotByteOffset returns the byte offset within region of the i'th
// logical slot record (0 = smallest key).
func slotByteOffset(region []byte, i int) int {
	return len(region) - (i+1)*SlotSize
}

type slot struct {
	off int
	sz  int
	no  PageNo
}

func getSlot(region []byte, i int) slot {
	o := slotByteOffset(region, i)
	return slot{
		off: int(binary.LittleEndian.Uint16(region[o : o+2])),
		sz:  int(binary.LittleEndian.Uint16(region[o+2 : o+4])),
		no:  PageNo(binary.LittleEndian.Uint32(region[o+4 : o+8])),
	}
}

func setSlot(region []byte, i int, s slot) {
	o := slotByteOffset(region, i)
	binary.LittleEndian.PutUint16(region[o:o+2], uint16(s.off))
	binary.LittleEndian.PutUint16(region[o+2:o+4], uint16(s.sz))
	binary.LittleEndian.PutUint32(region[o+4:o+8], uint32(s.no))
}

func keyAt(region []byte, i int) []byte {
	s := getSlot(region, i)
	return region[s.off : s.off+s.sz]
}

func slotNo(region []byte, i int) PageNo { return getSlot(region, i).no }

func setSlotNo(region []byte, i int, no PageNo) {
	s := getSlot(region, i)
	s.no = no
	setSlot(region, i, s)
}

// compareKeys orders keys by unsigned lexicographic comparison over the
// common prefix, with shorter-is-smaller as the tie-break.
func compareKeys(k, s []byte) int {
	m := len(k)
	if len(s) < m {
		m = len(s)
	}
	if c := bytes.Compare(k[:m], s[:m]); c != 0 {
		return c
	}
	return len(k) - len(s)
}

// search returns (cmp, idx) where idx is the smallest slot index whose
// key is >= k, or -1 if k is larger than every key in the node (in which
// case descent follows the node's right/overflow pointer). cmp is 0
// exactly when idx is an exact match.
//
// Each slot's child pointer covers the half-open range bounded above by
// its own key (and below by the previous slot's key); the node's right
// field covers everything past the last slot. This orientation is what
// makes the descend rule ("idx=-1 -> follow right, else follow
// slot(idx).no") self-consistent.
func search(region []byte, k []byte) (cmp int, idx int) {
	ns := nSlots(region)
	idx = -1
	cmp = -1
	lo, hi := 0, ns-1
	for lo <= hi {
		mid := (lo + hi) / 2
		c := compareKeys(k, keyAt(region, mid))
		switch {
		case c == 0:
			return 0, mid
		case c < 0:
			idx = mid
			cmp = -1
			hi = mid - 1
		default:
			lo = mid + 1
		}
	}
	return cmp, idx
}

// shiftInsert makes room for one more slot at logical position pos
// (0..nslots), shifting existing slots at index >= pos up by one logical
// index, appends the key bytes at free_off, and updates the header
// bookkeeping. Caller must have already verified free_sz >= SlotSize+len(key).
func shiftInsert(region []byte, pos int, key []byte, no PageNo) {
	ns := nSlots(region)
	for i := ns - 1; i >= pos; i-- {
		setSlot(region, i+1, getSlot(region, i))
	}
	off := freeOff(region)
	copy(region[off:off+len(key)], key)
	setSlot(region, pos, slot{off: off, sz: len(key), no: no})

	setFreeOff(region, off+len(key))
	setNSlots(region, ns+1)
	setSlotsOff(region, slotsOff(region)-SlotSize)
	setFreeSz(region, freeSz(region)-SlotSize-len(key))
}

// insertEntry inserts (key, no) at the position search() located,
// including the internal-node child-pointer juggling for the idx==-1 and
// idx>=0 cases. For a leaf,
// no juggling applies: the supplied no is simply the new entry's own
// data pointer. For an internal node, idx names the existing child
// pointer (a slot, or the right/overflow field when idx==-1) that used
// to cover the entire span now being split in two by this insertion: the
// existing pointer is replaced by the supplied no, and the value it used
// to hold becomes the newly inserted slot's pointer — i.e. the new slot
// always describes the *lower* sub-range, and the updated existing
// pointer describes the *upper* sub-range that was already bounded
// correctly by its own key (or by nothing, in the right/overflow case).
func insertEntry(region []byte, idx int, key []byte, no PageNo) {
	var slotPayload PageNo
	pos := idx
	if isLeaf(region) {
		slotPayload = no
	} else if idx == -1 {
		slotPayload = rightChild(region)
		setRightChild(region, no)
	} else {
		slotPayload = slotNo(region, idx)
		setSlotNo(region, idx, no)
	}
	if pos == -1 {
		pos = nSlots(region)
	}
	shiftInsert(region, pos, key, slotPayload)
}

// rawAppend appends (key, no) as the new largest logical slot, with no
// child-pointer juggling. Used to rebuild a node from a known-sorted
// entry list during a split.
func rawAppend(region []byte, key []byte, no PageNo) {
	shiftInsert(region, nSlots(region), key, no)
}

type kv struct {
	key []byte
	no  PageNo
}

// collectEntries returns every (key, no) pair in ascending order, copying
// key bytes so the result stays valid across subsequent mutation of
// region.
func collectEntries(region []byte) []kv {
	ns := nSlots(region)
	out := make([]kv, ns)
	for i := 0; i < ns; i++ {
		s := getSlot(region, i)
		key := make([]byte, s.sz)
		copy(key, region[s.off:s.off+s.sz])
		out[i] = kv{key: key, no: s.no}
	}
	return out
}

// checkNodeInvariants asserts a single node region's header bookkeeping
// (free space, slot directory) is internally consistent.
func checkNodeInvariants(region []byte) error {
	fo, fs, so, ns := freeOff(region), freeSz(region), slotsOff(region), nSlots(region)
	if fo < NodeHeaderSize || fo > so || so > len(region) {
		return wrap(InvalidArg, "node header out of range: free_off=%d slots_off=%d region=%d", fo, so, len(region))
	}
	if fo+fs+ns*SlotSize != len(region) {
		return wrap(InvalidArg, "node header inconsistent: free_off=%d free_sz=%d nslots=%d region=%d", fo, fs, ns, len(region))
	}
	for i := 1; i < ns; i++ {
		if compareKeys(keyAt(region, i-1), keyAt(region, i)) >= 0 {
			return wrap(InvalidArg, "node keys not strictly ascending at slot %d", i)
		}
	}
	return nil
}
