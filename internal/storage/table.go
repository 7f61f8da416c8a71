package storage

// Table owns a pager exclusively and tracks which page is the tree root.
// Per the engine's invariants the root is always page 0; a root split
// preserves that by copying contents into a new page, never by
// reassigning RootPageNum.
type Table struct {
	RootPageNum uint32
	Pager       *Pager
}

// OpenDB opens (creating if needed) the database file at path. A
// brand-new file gets page 0 initialized as an empty leaf marked root.
func OpenDB(path string) *Table {
	pager := OpenPager(path)
	t := &Table{RootPageNum: 0, Pager: pager}

	if pager.NumPages() == 0 {
		root := pager.GetPage(0)
		initializeLeafNode(root)
		setNodeRoot(root, true)
	}

	return t
}

// Close flushes every resident page and releases the file descriptor.
// There is no journal, so a clean Close is the only durability guarantee
// this engine makes.
func (t *Table) Close() error {
	return t.Pager.Close()
}
