package storage

import (
	"fmt"
	"io"
	"strings"
)

// Constants is the set of layout constants the `.constants` meta-command
// reports, in the order the original implementation prints them.
type Constants struct {
	RowSize                uint32
	CommonNodeHeaderSize   uint32
	LeafNodeHeaderSize     uint32
	LeafNodeCellSize       uint32
	LeafNodeSpaceForCells  uint32
	LeafNodeMaxCells       uint32
}

// DumpConstants returns the fixed layout constants this build was compiled
// with.
func DumpConstants() Constants {
	return Constants{
		RowSize:               RowSize,
		CommonNodeHeaderSize:  commonNodeHeaderSize,
		LeafNodeHeaderSize:    LeafNodeHeaderSize,
		LeafNodeCellSize:      LeafNodeCellSize,
		LeafNodeSpaceForCells: LeafNodeSpaceForCells,
		LeafNodeMaxCells:      LeafNodeMaxCells,
	}
}

// PrintConstants writes Constants to w, one "NAME: value" line each.
func PrintConstants(w io.Writer, c Constants) {
	fmt.Fprintf(w, "ROW_SIZE: %d\n", c.RowSize)
	fmt.Fprintf(w, "COMMON_NODE_HEADER_SIZE: %d\n", c.CommonNodeHeaderSize)
	fmt.Fprintf(w, "LEAF_NODE_HEADER_SIZE: %d\n", c.LeafNodeHeaderSize)
	fmt.Fprintf(w, "LEAF_NODE_CELL_SIZE: %d\n", c.LeafNodeCellSize)
	fmt.Fprintf(w, "LEAF_NODE_SPACE_FOR_CELLS: %d\n", c.LeafNodeSpaceForCells)
	fmt.Fprintf(w, "LEAF_NODE_MAX_CELLS: %d\n", c.LeafNodeMaxCells)
}

// PrintTree performs a pre-order dump of the tree rooted at pageNum,
// indenting by depth. Leaves print their cell keys; internal nodes
// recurse into each child before printing that child's separator key,
// then recurse into the right child last.
func (t *Table) PrintTree(w io.Writer, pageNum, indentLevel uint32) {
	page := t.Pager.GetPage(pageNum)
	indent := strings.Repeat("  ", int(indentLevel))

	switch getNodeType(page) {
	case nodeTypeLeaf:
		numCells := leafNodeNumCells(page)
		fmt.Fprintf(w, "%s- leaf (size %d)\n", indent, numCells)
		childIndent := strings.Repeat("  ", int(indentLevel+1))
		for i := uint32(0); i < numCells; i++ {
			fmt.Fprintf(w, "%s- %d\n", childIndent, leafNodeKey(page, i))
		}
	case nodeTypeInternal:
		numKeys := internalNodeNumKeys(page)
		fmt.Fprintf(w, "%s- internal (size %d)\n", indent, numKeys)
		childIndent := strings.Repeat("  ", int(indentLevel+1))
		for i := uint32(0); i < numKeys; i++ {
			t.PrintTree(w, internalNodeChild(page, i), indentLevel+1)
			fmt.Fprintf(w, "%s- key %d\n", childIndent, internalNodeKey(page, i))
		}
		t.PrintTree(w, internalNodeRightChild(page), indentLevel+1)
	}
}
