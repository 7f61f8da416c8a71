package storage

import "errors"

// ErrDuplicateKey is returned by ExecuteInsert when the row's id already
// exists in the tree.
var ErrDuplicateKey = errors.New("duplicate key")

// internalNodeFindChild runs a binary search over an internal node's keys
// and returns the smallest index i such that key <= keys[i], or numKeys if
// no such index exists (meaning: descend via the right child).
//
// The source this engine is modeled on compares against the loop's middle
// index instead of the search key — almost certainly a bug. This
// implementation uses the corrected comparison.
func internalNodeFindChild(page *[PageSize]byte, key uint32) uint32 {
	numKeys := internalNodeNumKeys(page)
	lo, hi := uint32(0), numKeys
	for lo < hi {
		mid := lo + (hi-lo)/2
		keyToRight := internalNodeKey(page, mid)
		if key <= keyToRight {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// leafNodeFind returns the index of key in the leaf page if present,
// else the first index whose key exceeds key (the correct insertion slot
// that preserves leaf order).
func leafNodeFind(page *[PageSize]byte, key uint32) uint32 {
	numCells := leafNodeNumCells(page)
	lo, hi := uint32(0), numCells
	for lo < hi {
		mid := lo + (hi-lo)/2
		k := leafNodeKey(page, mid)
		if key == k {
			return mid
		}
		if key < k {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// findByKey descends from the root and returns a cursor positioned at the
// cell whose key equals key if present, otherwise at the insertion slot
// that preserves leaf order.
func (t *Table) findByKey(key uint32) *Cursor {
	pageNum := t.RootPageNum
	page := t.Pager.GetPage(pageNum)
	for getNodeType(page) == nodeTypeInternal {
		childIndex := internalNodeFindChild(page, key)
		pageNum = internalNodeChild(page, childIndex)
		page = t.Pager.GetPage(pageNum)
	}
	return &Cursor{table: t, PageNum: pageNum, CellNum: leafNodeFind(page, key)}
}

// cursorTableStart returns a cursor positioned at the first row in key
// order, with EndOfTable set if the tree is empty.
func (t *Table) cursorTableStart() *Cursor {
	c := t.findByKey(0)
	page := t.Pager.GetPage(c.PageNum)
	c.EndOfTable = leafNodeNumCells(page) == 0
	return c
}

// ExecuteInsert inserts row, keyed by row.ID, rejecting duplicates.
func (t *Table) ExecuteInsert(row Row) error {
	if err := row.Validate(); err != nil {
		return err
	}
	cursor := t.findByKey(row.ID)
	page := t.Pager.GetPage(cursor.PageNum)
	numCells := leafNodeNumCells(page)
	if cursor.CellNum < numCells && leafNodeKey(page, cursor.CellNum) == row.ID {
		return ErrDuplicateKey
	}
	t.leafNodeInsert(cursor, row.ID, row)
	return nil
}

// ExecuteSelect returns every row in the table, in ascending key order.
func (t *Table) ExecuteSelect() ([]Row, error) {
	var rows []Row
	cursor := t.cursorTableStart()
	for !cursor.EndOfTable {
		row, err := DeserializeRow(cursor.Value())
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
		cursor.Advance()
	}
	return rows, nil
}

// leafNodeInsert writes (key, row) into the leaf cursor.PageNum points at,
// shifting later cells right by one, or splits the leaf if it is full.
func (t *Table) leafNodeInsert(cursor *Cursor, key uint32, row Row) {
	page := t.Pager.GetPage(cursor.PageNum)
	numCells := leafNodeNumCells(page)
	if numCells >= LeafNodeMaxCells {
		t.leafNodeSplitAndInsert(cursor, key, row)
		return
	}

	for i := numCells; i > cursor.CellNum; i-- {
		copy(leafNodeCell(page, i), leafNodeCell(page, i-1))
	}
	setLeafNodeNumCells(page, numCells+1)
	setLeafNodeKey(page, cursor.CellNum, key)
	_ = SerializeRow(row, leafNodeValue(page, cursor.CellNum))
}

// leafNodeSplitAndInsert splits a full leaf into old and new halves,
// distributing the MaxCells+1 logical cells (the existing ones plus the
// one being inserted) LeftSplitCount/RightSplitCount between them, then
// promotes the split upward: into a brand-new root if the leaf was the
// root, otherwise into the parent internal node.
func (t *Table) leafNodeSplitAndInsert(cursor *Cursor, key uint32, row Row) {
	oldPageNum := cursor.PageNum
	oldNode := t.Pager.GetPage(oldPageNum)
	oldMax := getNodeMaxKey(oldNode)

	newPageNum := t.Pager.GetUnusedPageNum()
	newNode := t.Pager.GetPage(newPageNum)
	initializeLeafNode(newNode)
	setNodeParent(newNode, nodeParent(oldNode))
	setLeafNodeNextLeaf(newNode, leafNodeNextLeaf(oldNode))
	setLeafNodeNextLeaf(oldNode, newPageNum)

	// Walk the logical cells from high to low so that in-place writes into
	// oldNode never clobber a cell before it has been read.
	var rowBuf [RowSize]byte
	_ = SerializeRow(row, rowBuf[:])

	for i := int(LeafNodeMaxCells); i >= 0; i-- {
		var dest *[PageSize]byte
		if uint32(i) >= LeafNodeLeftSplitCount {
			dest = newNode
		} else {
			dest = oldNode
		}
		indexWithinNode := uint32(i) % LeafNodeLeftSplitCount
		destCell := leafNodeCell(dest, indexWithinNode)

		switch {
		case uint32(i) == cursor.CellNum:
			setLeafNodeKey(dest, indexWithinNode, key)
			copy(leafNodeValue(dest, indexWithinNode), rowBuf[:])
		case uint32(i) > cursor.CellNum:
			copy(destCell, leafNodeCell(oldNode, uint32(i)-1))
		default:
			copy(destCell, leafNodeCell(oldNode, uint32(i)))
		}
	}

	setLeafNodeNumCells(oldNode, LeafNodeLeftSplitCount)
	setLeafNodeNumCells(newNode, LeafNodeRightSplitCount)

	if isNodeRoot(oldNode) {
		t.createNewRoot(newPageNum)
		return
	}

	parentPageNum := nodeParent(oldNode)
	newMax := getNodeMaxKey(oldNode)
	parentPage := t.Pager.GetPage(parentPageNum)
	t.updateInternalNodeKey(parentPage, oldMax, newMax)
	t.internalNodeInsert(parentPageNum, newPageNum)
}

// updateInternalNodeKey replaces a child subtree's separator key (oldKey)
// with its new value after that subtree's max key changed.
func (t *Table) updateInternalNodeKey(page *[PageSize]byte, oldKey, newKey uint32) {
	oldChildIndex := internalNodeFindChild(page, oldKey)
	setInternalNodeKey(page, oldChildIndex, newKey)
}

// createNewRoot turns page 0 into a new internal root with two children:
// a freshly allocated left page holding a byte-for-byte copy of the old
// root's contents, and rightPage (already populated by the caller). Root
// identity is preserved (table.RootPageNum is always 0) by copying
// contents into a new page rather than reassigning which page is root.
func (t *Table) createNewRoot(rightPageNum uint32) {
	root := t.Pager.GetPage(t.RootPageNum)
	rightChild := t.Pager.GetPage(rightPageNum)

	leftPageNum := t.Pager.GetUnusedPageNum()
	leftChild := t.Pager.GetPage(leftPageNum)
	*leftChild = *root
	setNodeRoot(leftChild, false)

	initializeInternalNode(root)
	setNodeRoot(root, true)
	setInternalNodeNumKeys(root, 1)
	setInternalNodeChild(root, 0, leftPageNum)
	leftMaxKey := getNodeMaxKey(leftChild)
	setInternalNodeKey(root, 0, leftMaxKey)
	setInternalNodeRightChild(root, rightPageNum)

	setNodeParent(leftChild, t.RootPageNum)
	setNodeParent(rightChild, t.RootPageNum)
}

// internalNodeInsert adds a new child (and its separator key) into the
// internal node at parentPageNum. Internal-node splitting is out of scope
// (see spec §9): if the parent is already at capacity, this is fatal.
func (t *Table) internalNodeInsert(parentPageNum, childPageNum uint32) {
	parent := t.Pager.GetPage(parentPageNum)
	child := t.Pager.GetPage(childPageNum)
	childMaxKey := getNodeMaxKey(child)
	index := internalNodeFindChild(parent, childMaxKey)

	originalNumKeys := internalNodeNumKeys(parent)
	if originalNumKeys >= InternalNodeMaxCells {
		t.Pager.fatalf("internal node overflow: splitting internal nodes is not implemented",
			"parent_page", parentPageNum, "max_cells", InternalNodeMaxCells)
	}

	setInternalNodeNumKeys(parent, originalNumKeys+1)

	rightChildPageNum := internalNodeRightChild(parent)
	rightChild := t.Pager.GetPage(rightChildPageNum)

	if childMaxKey > getNodeMaxKey(rightChild) {
		// The new child becomes the rightmost child; the old rightmost
		// child becomes a regular cell at the end.
		setInternalNodeChild(parent, originalNumKeys, rightChildPageNum)
		setInternalNodeKey(parent, originalNumKeys, getNodeMaxKey(rightChild))
		setInternalNodeRightChild(parent, childPageNum)
	} else {
		for i := originalNumKeys; i > index; i-- {
			setInternalNodeChild(parent, i, internalNodeChild(parent, i-1))
			setInternalNodeKey(parent, i, internalNodeKey(parent, i-1))
		}
		setInternalNodeChild(parent, index, childPageNum)
		setInternalNodeKey(parent, index, childMaxKey)
	}

	setNodeParent(child, parentPageNum)
}
