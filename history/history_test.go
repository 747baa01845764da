package history_test

import (
	"github.com/hetianyi/fdfs/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"path/filepath"
	"strconv"
	"testing"
)

func openHistory(t *testing.T, path string) *history.History {
	h, err := history.Open(path)
	require.NoError(t, err)
	return h
}

func TestAddAndList(t *testing.T) {
	h := openHistory(t, filepath.Join(t.TempDir(), "history.db"))
	defer h.Close()

	for i := 0; i < 3; i++ {
		require.NoError(t, h.Add(&history.Record{
			FileId:     "group1/M00/00/00/" + strconv.Itoa(i),
			Group:      "group1",
			RemotePath: "M00/00/00/" + strconv.Itoa(i),
			LocalName:  "file" + strconv.Itoa(i),
			Size:       int64(i),
		}))
	}

	all, err := h.List(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "group1/M00/00/00/2", all[0].FileId)
	assert.Equal(t, "group1/M00/00/00/0", all[2].FileId)
	assert.False(t, all[0].Time.IsZero())

	latest, err := h.List(2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "file2", latest[0].LocalName)
	assert.Equal(t, "file1", latest[1].LocalName)
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	h := openHistory(t, path)
	require.NoError(t, h.Add(&history.Record{FileId: "group1/a"}))
	require.NoError(t, h.Close())

	h = openHistory(t, path)
	defer h.Close()
	require.NoError(t, h.Add(&history.Record{FileId: "group1/b"}))
	rs, err := h.List(0)
	require.NoError(t, err)
	require.Len(t, rs, 2)
	assert.Equal(t, "group1/b", rs[0].FileId)
}

func TestListEmpty(t *testing.T) {
	h := openHistory(t, filepath.Join(t.TempDir(), "history.db"))
	defer h.Close()
	rs, err := h.List(10)
	require.NoError(t, err)
	assert.Empty(t, rs)
}
