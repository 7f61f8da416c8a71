package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLeafNodeAccessorsRoundTrip(t *testing.T) {
	var page [PageSize]byte
	initializeLeafNode(&page)
	require.Equal(t, nodeTypeLeaf, getNodeType(&page))
	require.False(t, isNodeRoot(&page))
	require.Equal(t, uint32(0), leafNodeNumCells(&page))
	require.Equal(t, uint32(0), leafNodeNextLeaf(&page))

	setNodeRoot(&page, true)
	setNodeParent(&page, 7)
	setLeafNodeNextLeaf(&page, 42)
	setLeafNodeNumCells(&page, 2)
	setLeafNodeKey(&page, 0, 10)
	setLeafNodeKey(&page, 1, 20)

	require.True(t, isNodeRoot(&page))
	require.Equal(t, uint32(7), nodeParent(&page))
	require.Equal(t, uint32(42), leafNodeNextLeaf(&page))
	require.Equal(t, uint32(10), leafNodeKey(&page, 0))
	require.Equal(t, uint32(20), leafNodeKey(&page, 1))
	require.Equal(t, uint32(20), getNodeMaxKey(&page))
}

func TestLeafNodeValueIsWritableView(t *testing.T) {
	var page [PageSize]byte
	initializeLeafNode(&page)
	setLeafNodeNumCells(&page, 1)
	setLeafNodeKey(&page, 0, 5)

	row := Row{ID: 5, Username: "alice", Email: "alice@example.com"}
	require.NoError(t, SerializeRow(row, leafNodeValue(&page, 0)))

	got, err := DeserializeRow(leafNodeValue(&page, 0))
	require.NoError(t, err)
	require.Equal(t, row, got)
}

func TestInternalNodeAccessorsRoundTrip(t *testing.T) {
	var page [PageSize]byte
	initializeInternalNode(&page)
	require.Equal(t, nodeTypeInternal, getNodeType(&page))

	setInternalNodeNumKeys(&page, 2)
	setInternalNodeChild(&page, 0, 1)
	setInternalNodeKey(&page, 0, 100)
	setInternalNodeChild(&page, 1, 2)
	setInternalNodeKey(&page, 1, 200)
	setInternalNodeRightChild(&page, 3)

	require.Equal(t, uint32(1), internalNodeChild(&page, 0))
	require.Equal(t, uint32(100), internalNodeKey(&page, 0))
	require.Equal(t, uint32(2), internalNodeChild(&page, 1))
	require.Equal(t, uint32(200), internalNodeKey(&page, 1))
	require.Equal(t, uint32(3), internalNodeChild(&page, 2)) // falls through to right child
	require.Equal(t, uint32(200), getNodeMaxKey(&page))
}

func TestInternalNodeFindChildBinarySearch(t *testing.T) {
	var page [PageSize]byte
	initializeInternalNode(&page)
	setInternalNodeNumKeys(&page, 3)
	setInternalNodeKey(&page, 0, 10)
	setInternalNodeKey(&page, 1, 20)
	setInternalNodeKey(&page, 2, 30)

	cases := []struct {
		key  uint32
		want uint32
	}{
		{5, 0},
		{10, 0},
		{11, 1},
		{20, 1},
		{25, 2},
		{30, 2},
		{31, 3}, // beyond all keys: route to right child
	}
	for _, c := range cases {
		require.Equalf(t, c.want, internalNodeFindChild(&page, c.key), "key=%d", c.key)
	}
}
