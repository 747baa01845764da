// Package proto implements the framing of the tracker/storage binary protocol.
//
// Every package starts with a 10 bytes header:
//
//	+----------------------+-----+--------+
//	| body length (8, BE)  | cmd | status |
//	+----------------------+-----+--------+
//
// followed by body length bytes of body.
package proto

import (
	"github.com/hetianyi/fdfs/common"
	"github.com/hetianyi/gox/convert"
	"github.com/pkg/errors"
	"io"
)

// Header is a decoded package header.
type Header struct {
	BodyLength uint64
	Cmd        byte
	Status     byte
}

// Package is a received package whose status is 0.
type Package struct {
	Status byte
	Body   []byte
}

// PackHeader encodes a package header.
func PackHeader(cmd byte, bodyLength uint64, status byte) []byte {
	if common.FDFS_PROTO_PKG_LEN_SIZE < 8 {
		panic("package length field must be at least 8 bytes")
	}
	header := make([]byte, common.FDFS_PROTO_HEADER_LEN)
	convert.Length2Bytes(int64(bodyLength), header[:common.FDFS_PROTO_PKG_LEN_SIZE])
	header[common.PROTO_HEADER_CMD_INDEX] = cmd
	header[common.PROTO_HEADER_STATUS_INDEX] = status
	return header
}

// Long2Buff converts n to 8 bytes big-endian.
func Long2Buff(n uint64) []byte {
	return convert.Length2Bytes(int64(n), make([]byte, 8))
}

// Buff2Long reads 8 bytes big-endian starting at offset.
// The caller must make sure bs holds at least offset+8 bytes.
func Buff2Long(bs []byte, offset int) uint64 {
	return uint64(convert.Bytes2Length(bs[offset : offset+8]))
}

// RecvHeader reads and validates a package header.
//
// A negative expectBodyLength disables the body length check.
// If the status byte is not 0 the header is returned with BodyLength 0
// and no error, the caller must not read any body in that case.
func RecvHeader(in io.Reader, expectCmd byte, expectBodyLength int64) (*Header, error) {
	buff := make([]byte, common.FDFS_PROTO_HEADER_LEN)
	if err := readFull(in, buff); err != nil {
		return nil, errors.Wrap(err, "error read header")
	}
	if buff[common.PROTO_HEADER_CMD_INDEX] != expectCmd {
		return nil, errors.Wrapf(common.ErrInvalidData, "recv cmd %d is not correct, expect cmd %d",
			buff[common.PROTO_HEADER_CMD_INDEX], expectCmd)
	}
	header := &Header{
		Cmd:    buff[common.PROTO_HEADER_CMD_INDEX],
		Status: buff[common.PROTO_HEADER_STATUS_INDEX],
	}
	if header.Status != 0 {
		return header, nil
	}
	length := Buff2Long(buff, 0)
	if int64(length) < 0 {
		return nil, errors.Wrapf(common.ErrInvalidData, "recv body length %d < 0", int64(length))
	}
	if expectBodyLength >= 0 && uint64(expectBodyLength) != length {
		return nil, errors.Wrapf(common.ErrInvalidData, "recv body length %d is not correct, expect length %d",
			length, expectBodyLength)
	}
	header.BodyLength = length
	return header, nil
}

// RecvPackage reads a whole package, a nonzero status is returned
// as *common.StatusError.
func RecvPackage(in io.Reader, expectCmd byte, expectBodyLength int64) (*Package, error) {
	header, err := RecvHeader(in, expectCmd, expectBodyLength)
	if err != nil {
		return nil, err
	}
	if header.Status != 0 {
		return nil, &common.StatusError{Status: header.Status}
	}
	body := make([]byte, header.BodyLength)
	if err := readFull(in, body); err != nil {
		return nil, errors.Wrap(err, "error read body")
	}
	return &Package{Body: body}, nil
}

// readFull reads until buff is full, a short stream becomes ErrUnexpectedEOF.
func readFull(in io.Reader, buff []byte) error {
	if _, err := io.ReadFull(in, buff); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return common.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}
