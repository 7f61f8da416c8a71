package storage

import "encoding/binary"

// Every page is exactly one tree node: either a leaf holding rows, or an
// internal node routing to children. These are pure byte-offset
// readers/writers over a page buffer — the on-disk format IS the
// in-memory format, so there is no per-node object wrapping the bytes.
type nodeType = uint8

const (
	nodeTypeInternal nodeType = 0
	nodeTypeLeaf     nodeType = 1
)

const (
	// Common node header layout.
	nodeTypeOffset        = 0
	nodeTypeFieldSize     = 1
	isRootOffset          = nodeTypeOffset + nodeTypeFieldSize
	isRootFieldSize       = 1
	parentPointerOffset   = isRootOffset + isRootFieldSize
	parentPointerSize     = 4
	commonNodeHeaderSize  = parentPointerOffset + parentPointerSize // 6

	// Leaf node header layout.
	leafNodeNumCellsOffset     = commonNodeHeaderSize
	leafNodeNumCellsSize       = 4
	leafNodeNextLeafOffset     = leafNodeNumCellsOffset + leafNodeNumCellsSize
	leafNodeNextLeafSize       = 4
	LeafNodeHeaderSize         = leafNodeNextLeafOffset + leafNodeNextLeafSize // 14

	// Leaf node cell layout: key(4) + row(RowSize).
	LeafNodeKeySize           = 4
	LeafNodeKeyOffset         = 0
	LeafNodeValueOffset       = LeafNodeKeyOffset + LeafNodeKeySize
	LeafNodeCellSize          = LeafNodeKeySize + RowSize
	LeafNodeSpaceForCells     = PageSize - LeafNodeHeaderSize
	// LeafNodeMaxCells is the spec's hardcoded fan-out (13), which also
	// matches floor(LeafNodeSpaceForCells / LeafNodeCellSize).
	LeafNodeMaxCells = 13

	LeafNodeRightSplitCount = (LeafNodeMaxCells + 1) / 2
	LeafNodeLeftSplitCount  = (LeafNodeMaxCells + 1) - LeafNodeRightSplitCount

	// Internal node header layout.
	internalNodeNumKeysOffset    = commonNodeHeaderSize
	internalNodeNumKeysSize      = 4
	internalNodeRightChildOffset = internalNodeNumKeysOffset + internalNodeNumKeysSize
	internalNodeRightChildSize   = 4
	InternalNodeHeaderSize       = internalNodeRightChildOffset + internalNodeRightChildSize // 14

	// Internal node cell layout: child(4) + key(4).
	InternalNodeChildSize = 4
	InternalNodeKeySize   = 4
	InternalNodeCellSize  = InternalNodeChildSize + InternalNodeKeySize
	// InternalNodeMaxCells is an artificially small fan-out, chosen (per
	// spec) to exercise leaf splitting without needing many rows.
	InternalNodeMaxCells = 3
)

func getNodeType(page *[PageSize]byte) nodeType {
	return page[nodeTypeOffset]
}

func setNodeType(page *[PageSize]byte, t nodeType) {
	page[nodeTypeOffset] = t
}

func isNodeRoot(page *[PageSize]byte) bool {
	return page[isRootOffset] != 0
}

func setNodeRoot(page *[PageSize]byte, isRoot bool) {
	if isRoot {
		page[isRootOffset] = 1
	} else {
		page[isRootOffset] = 0
	}
}

func nodeParent(page *[PageSize]byte) uint32 {
	return binary.LittleEndian.Uint32(page[parentPointerOffset : parentPointerOffset+parentPointerSize])
}

func setNodeParent(page *[PageSize]byte, parent uint32) {
	binary.LittleEndian.PutUint32(page[parentPointerOffset:parentPointerOffset+parentPointerSize], parent)
}

// ---- Leaf node accessors ----

func leafNodeNumCells(page *[PageSize]byte) uint32 {
	return binary.LittleEndian.Uint32(page[leafNodeNumCellsOffset : leafNodeNumCellsOffset+leafNodeNumCellsSize])
}

func setLeafNodeNumCells(page *[PageSize]byte, n uint32) {
	binary.LittleEndian.PutUint32(page[leafNodeNumCellsOffset:leafNodeNumCellsOffset+leafNodeNumCellsSize], n)
}

func leafNodeNextLeaf(page *[PageSize]byte) uint32 {
	return binary.LittleEndian.Uint32(page[leafNodeNextLeafOffset : leafNodeNextLeafOffset+leafNodeNextLeafSize])
}

func setLeafNodeNextLeaf(page *[PageSize]byte, next uint32) {
	binary.LittleEndian.PutUint32(page[leafNodeNextLeafOffset:leafNodeNextLeafOffset+leafNodeNextLeafSize], next)
}

func leafNodeCellOffset(cellNum uint32) uint32 {
	return LeafNodeHeaderSize + cellNum*LeafNodeCellSize
}

func leafNodeKey(page *[PageSize]byte, cellNum uint32) uint32 {
	off := leafNodeCellOffset(cellNum) + LeafNodeKeyOffset
	return binary.LittleEndian.Uint32(page[off : off+LeafNodeKeySize])
}

func setLeafNodeKey(page *[PageSize]byte, cellNum, key uint32) {
	off := leafNodeCellOffset(cellNum) + LeafNodeKeyOffset
	binary.LittleEndian.PutUint32(page[off:off+LeafNodeKeySize], key)
}

// leafNodeValue returns a mutable view of the row bytes for cellNum.
func leafNodeValue(page *[PageSize]byte, cellNum uint32) []byte {
	off := leafNodeCellOffset(cellNum) + LeafNodeValueOffset
	return page[off : off+RowSize]
}

// leafNodeCell returns a mutable view of the whole (key, value) cell.
func leafNodeCell(page *[PageSize]byte, cellNum uint32) []byte {
	off := leafNodeCellOffset(cellNum)
	return page[off : off+LeafNodeCellSize]
}

func initializeLeafNode(page *[PageSize]byte) {
	setNodeType(page, nodeTypeLeaf)
	setNodeRoot(page, false)
	setLeafNodeNumCells(page, 0)
	setLeafNodeNextLeaf(page, 0)
}

// ---- Internal node accessors ----

func internalNodeNumKeys(page *[PageSize]byte) uint32 {
	return binary.LittleEndian.Uint32(page[internalNodeNumKeysOffset : internalNodeNumKeysOffset+internalNodeNumKeysSize])
}

func setInternalNodeNumKeys(page *[PageSize]byte, n uint32) {
	binary.LittleEndian.PutUint32(page[internalNodeNumKeysOffset:internalNodeNumKeysOffset+internalNodeNumKeysSize], n)
}

func internalNodeRightChild(page *[PageSize]byte) uint32 {
	return binary.LittleEndian.Uint32(page[internalNodeRightChildOffset : internalNodeRightChildOffset+internalNodeRightChildSize])
}

func setInternalNodeRightChild(page *[PageSize]byte, child uint32) {
	binary.LittleEndian.PutUint32(page[internalNodeRightChildOffset:internalNodeRightChildOffset+internalNodeRightChildSize], child)
}

func internalNodeCellOffset(cellNum uint32) uint32 {
	return InternalNodeHeaderSize + cellNum*InternalNodeCellSize
}

func internalNodeChild(page *[PageSize]byte, cellNum uint32) uint32 {
	numKeys := internalNodeNumKeys(page)
	if cellNum > numKeys {
		panic("internalNodeChild: cell index out of bounds")
	}
	if cellNum == numKeys {
		return internalNodeRightChild(page)
	}
	off := internalNodeCellOffset(cellNum)
	return binary.LittleEndian.Uint32(page[off : off+InternalNodeChildSize])
}

func setInternalNodeChild(page *[PageSize]byte, cellNum, child uint32) {
	numKeys := internalNodeNumKeys(page)
	if cellNum == numKeys {
		setInternalNodeRightChild(page, child)
		return
	}
	off := internalNodeCellOffset(cellNum)
	binary.LittleEndian.PutUint32(page[off:off+InternalNodeChildSize], child)
}

func internalNodeKey(page *[PageSize]byte, cellNum uint32) uint32 {
	off := internalNodeCellOffset(cellNum) + InternalNodeChildSize
	return binary.LittleEndian.Uint32(page[off : off+InternalNodeKeySize])
}

func setInternalNodeKey(page *[PageSize]byte, cellNum, key uint32) {
	off := internalNodeCellOffset(cellNum) + InternalNodeChildSize
	binary.LittleEndian.PutUint32(page[off:off+InternalNodeKeySize], key)
}

func initializeInternalNode(page *[PageSize]byte) {
	setNodeType(page, nodeTypeInternal)
	setNodeRoot(page, false)
	setInternalNodeNumKeys(page, 0)
}

// getNodeMaxKey returns the largest separator key in node. For a leaf this
// is the key of its last cell; for an internal node it is the last routing
// key, not necessarily the largest key in the subtree (see spec §9 on why
// that distinction doesn't matter for the shallow trees this engine grows).
func getNodeMaxKey(page *[PageSize]byte) uint32 {
	if getNodeType(page) == nodeTypeLeaf {
		return leafNodeKey(page, leafNodeNumCells(page)-1)
	}
	return internalNodeKey(page, internalNodeNumKeys(page)-1)
}
