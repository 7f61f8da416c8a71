package storage

// Cursor is an ephemeral position (page, cell) into the tree. It does not
// outlive the operation that created it and holds no exclusive rights —
// nothing prevents a second cursor from observing a concurrent mutation,
// which is fine because the engine is single-threaded by contract.
type Cursor struct {
	table      *Table
	PageNum    uint32
	CellNum    uint32
	EndOfTable bool
}

// Value returns a mutable view into the current cell's row bytes on the
// resident page. Used for both the insert write path and the select read
// path.
func (c *Cursor) Value() []byte {
	page := c.table.Pager.GetPage(c.PageNum)
	return leafNodeValue(page, c.CellNum)
}

// Key returns the key at the cursor's current position.
func (c *Cursor) Key() uint32 {
	page := c.table.Pager.GetPage(c.PageNum)
	return leafNodeKey(page, c.CellNum)
}

// Advance moves the cursor to the next cell in key order, following the
// leaf's next_leaf sibling pointer when the current leaf is exhausted. A
// next_leaf of 0 is the sentinel for "no sibling" (only page 0, the root,
// may be keyless, and it is never a leaf's sibling).
func (c *Cursor) Advance() {
	page := c.table.Pager.GetPage(c.PageNum)
	c.CellNum++
	if c.CellNum < leafNodeNumCells(page) {
		return
	}
	nextLeaf := leafNodeNextLeaf(page)
	if nextLeaf == 0 {
		c.EndOfTable = true
		return
	}
	c.PageNum = nextLeaf
	c.CellNum = 0
}
