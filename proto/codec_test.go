package proto_test

import (
	"bytes"
	"github.com/hetianyi/fdfs/common"
	"github.com/hetianyi/fdfs/proto"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"math/rand"
	"testing"
	"testing/iotest"
)

func TestLong2Buff(t *testing.T) {
	values := []uint64{0, 1, 255, 256, 23000, 1 << 32, math.MaxInt64, math.MaxInt64 + 1, math.MaxUint64}
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		values = append(values, r.Uint64())
	}
	for _, n := range values {
		bs := proto.Long2Buff(n)
		require.Len(t, bs, 8)
		assert.Equal(t, n, proto.Buff2Long(bs, 0))
	}
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0x59, 0xd8}, proto.Long2Buff(23000))
}

func TestBuff2LongOffset(t *testing.T) {
	bs := append([]byte{9, 9, 9}, proto.Long2Buff(123456789)...)
	assert.Equal(t, uint64(123456789), proto.Buff2Long(bs, 3))
}

func TestPackHeader(t *testing.T) {
	h := proto.PackHeader(common.STORAGE_PROTO_CMD_UPLOAD_FILE, 0x0102030405060708, 7)
	require.Len(t, h, 10)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, h[:8])
	assert.Equal(t, common.STORAGE_PROTO_CMD_UPLOAD_FILE, h[8])
	assert.Equal(t, byte(7), h[9])
	assert.Equal(t, uint64(0x0102030405060708), proto.Buff2Long(h, 0))
}

func TestRecvHeader(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		in := bytes.NewReader(proto.PackHeader(common.TRACKER_PROTO_CMD_RESP, 42, 0))
		h, err := proto.RecvHeader(in, common.TRACKER_PROTO_CMD_RESP, -1)
		require.NoError(t, err)
		assert.Equal(t, uint64(42), h.BodyLength)
		assert.Equal(t, byte(0), h.Status)
	})

	t.Run("short stream", func(t *testing.T) {
		in := bytes.NewReader(proto.PackHeader(common.TRACKER_PROTO_CMD_RESP, 42, 0)[:7])
		_, err := proto.RecvHeader(in, common.TRACKER_PROTO_CMD_RESP, -1)
		assert.Equal(t, common.ErrUnexpectedEOF, errors.Cause(err))
	})

	t.Run("empty stream", func(t *testing.T) {
		_, err := proto.RecvHeader(bytes.NewReader(nil), common.TRACKER_PROTO_CMD_RESP, -1)
		assert.Equal(t, common.ErrUnexpectedEOF, errors.Cause(err))
	})

	t.Run("one byte per read", func(t *testing.T) {
		in := iotest.OneByteReader(bytes.NewReader(proto.PackHeader(common.TRACKER_PROTO_CMD_RESP, 3, 0)))
		h, err := proto.RecvHeader(in, common.TRACKER_PROTO_CMD_RESP, 3)
		require.NoError(t, err)
		assert.Equal(t, uint64(3), h.BodyLength)
	})

	t.Run("wrong cmd", func(t *testing.T) {
		in := bytes.NewReader(proto.PackHeader(common.FDFS_PROTO_CMD_ACTIVE_TEST, 0, 0))
		_, err := proto.RecvHeader(in, common.TRACKER_PROTO_CMD_RESP, -1)
		assert.Equal(t, common.ErrInvalidData, errors.Cause(err))
	})

	t.Run("nonzero status skips length check", func(t *testing.T) {
		in := bytes.NewReader(proto.PackHeader(common.TRACKER_PROTO_CMD_RESP, 99, 2))
		h, err := proto.RecvHeader(in, common.TRACKER_PROTO_CMD_RESP, 0)
		require.NoError(t, err)
		assert.Equal(t, byte(2), h.Status)
		assert.Equal(t, uint64(0), h.BodyLength)
	})

	t.Run("length mismatch", func(t *testing.T) {
		in := bytes.NewReader(proto.PackHeader(common.TRACKER_PROTO_CMD_RESP, 5, 0))
		_, err := proto.RecvHeader(in, common.TRACKER_PROTO_CMD_RESP, 0)
		assert.Equal(t, common.ErrInvalidData, errors.Cause(err))
	})

	t.Run("negative length", func(t *testing.T) {
		in := bytes.NewReader(proto.PackHeader(common.TRACKER_PROTO_CMD_RESP, math.MaxUint64, 0))
		_, err := proto.RecvHeader(in, common.TRACKER_PROTO_CMD_RESP, -1)
		assert.Equal(t, common.ErrInvalidData, errors.Cause(err))
	})
}

func TestRecvPackage(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		var buff bytes.Buffer
		buff.Write(proto.PackHeader(common.STORAGE_PROTO_CMD_RESP, 5, 0))
		buff.WriteString("hello")
		buff.WriteString("trailing")
		pkg, err := proto.RecvPackage(&buff, common.STORAGE_PROTO_CMD_RESP, -1)
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), pkg.Body)
		assert.Equal(t, "trailing", buff.String())
	})

	t.Run("status error", func(t *testing.T) {
		in := bytes.NewReader(proto.PackHeader(common.STORAGE_PROTO_CMD_RESP, 0, 28))
		_, err := proto.RecvPackage(in, common.STORAGE_PROTO_CMD_RESP, -1)
		status, ok := common.IsStatusError(err)
		assert.True(t, ok)
		assert.Equal(t, byte(28), status)
	})

	t.Run("truncated body", func(t *testing.T) {
		var buff bytes.Buffer
		buff.Write(proto.PackHeader(common.STORAGE_PROTO_CMD_RESP, 10, 0))
		buff.WriteString("abc")
		_, err := proto.RecvPackage(&buff, common.STORAGE_PROTO_CMD_RESP, -1)
		assert.Equal(t, common.ErrUnexpectedEOF, errors.Cause(err))
	})
}
