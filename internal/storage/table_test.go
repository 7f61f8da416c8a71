package storage

import (
	"bytes"
	"os"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenDBInitializesEmptyLeafRoot(t *testing.T) {
	table := OpenDB(tempDBPath(t))
	defer table.Close()

	root := table.Pager.GetPage(table.RootPageNum)
	require.Equal(t, nodeTypeLeaf, getNodeType(root))
	require.True(t, isNodeRoot(root))
	require.Equal(t, uint32(0), leafNodeNumCells(root))
}

func TestDumpConstants(t *testing.T) {
	c := DumpConstants()
	require.Equal(t, uint32(291), c.RowSize)
	require.Equal(t, uint32(6), c.CommonNodeHeaderSize)
	require.Equal(t, uint32(14), c.LeafNodeHeaderSize)
	require.Equal(t, uint32(295), c.LeafNodeCellSize)
	require.Equal(t, uint32(13), c.LeafNodeMaxCells)

	var buf bytes.Buffer
	PrintConstants(&buf, c)
	require.Contains(t, buf.String(), "ROW_SIZE: 291")
	require.Contains(t, buf.String(), "LEAF_NODE_MAX_CELLS: 13")
}

func TestPrintTreeAfterSplit(t *testing.T) {
	table, _ := newTestTable(t)
	defer table.Close()

	for id := uint32(1); id <= 14; id++ {
		require.NoError(t, table.ExecuteInsert(Row{ID: id, Username: "u", Email: "e@f"}))
	}

	var buf bytes.Buffer
	table.PrintTree(&buf, table.RootPageNum, 0)
	out := buf.String()
	require.Contains(t, out, "- internal (size 1)")
	require.Contains(t, out, "- leaf (size 7)")
	require.Contains(t, out, "- key 7")
}

// TestOpenDBFatalOnMisalignedFile exercises the fatal "corrupt file"
// path from spec §7. Fatal conditions terminate the process rather than
// return an error, so this is driven via a subprocess re-exec of the test
// binary itself (the standard Go idiom for asserting os.Exit behavior).
func TestOpenDBFatalOnMisalignedFile(t *testing.T) {
	if os.Getenv("VQLITE_FATAL_SUBPROCESS") == "1" {
		path := os.Getenv("VQLITE_FATAL_DB_PATH")
		OpenDB(path) // must never return
		return
	}

	f, err := os.CreateTemp("", "vqlite-misaligned-*.db")
	require.NoError(t, err)
	defer os.Remove(f.Name())
	_, err = f.Write(make([]byte, PageSize+1)) // not a multiple of PageSize
	require.NoError(t, err)
	require.NoError(t, f.Close())

	cmd := exec.Command(os.Args[0], "-test.run=TestOpenDBFatalOnMisalignedFile")
	cmd.Env = append(os.Environ(),
		"VQLITE_FATAL_SUBPROCESS=1",
		"VQLITE_FATAL_DB_PATH="+f.Name(),
	)
	err = cmd.Run()
	require.Error(t, err, "expected the subprocess to exit non-zero on a corrupt db file")
}
