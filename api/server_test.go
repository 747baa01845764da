package api_test

import (
	"bytes"
	"github.com/hetianyi/fdfs/common"
	"github.com/hetianyi/fdfs/proto"
	"github.com/stretchr/testify/require"
	"io"
	"io/ioutil"
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
)

// request is a package received by a fakeServer.
type request struct {
	cmd  byte
	body []byte
}

type handlerFunc func(cmd byte, body []byte) (status byte, resp []byte)

// fakeServer speaks the package framing of trackers and storages,
// active tests are answered with success.
type fakeServer struct {
	listener    net.Listener
	handler     handlerFunc
	lock        sync.Mutex
	requests    []request
	activeTests int32
	accepted    int32
}

func newFakeServer(t *testing.T, handler handlerFunc) *fakeServer {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &fakeServer{listener: l, handler: handler}
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			atomic.AddInt32(&s.accepted, 1)
			go s.serve(conn)
		}
	}()
	t.Cleanup(func() { l.Close() })
	return s
}

func (s *fakeServer) serve(conn net.Conn) {
	defer conn.Close()
	header := make([]byte, common.FDFS_PROTO_HEADER_LEN)
	for {
		if _, err := io.ReadFull(conn, header); err != nil {
			return
		}
		cmd := header[common.PROTO_HEADER_CMD_INDEX]
		body := make([]byte, proto.Buff2Long(header, 0))
		if _, err := io.ReadFull(conn, body); err != nil {
			return
		}
		if cmd == common.FDFS_PROTO_CMD_ACTIVE_TEST {
			atomic.AddInt32(&s.activeTests, 1)
			if _, err := conn.Write(proto.PackHeader(common.TRACKER_PROTO_CMD_RESP, 0, 0)); err != nil {
				return
			}
			continue
		}
		s.lock.Lock()
		s.requests = append(s.requests, request{cmd: cmd, body: body})
		s.lock.Unlock()
		status, resp := s.handler(cmd, body)
		if status != 0 {
			resp = nil
		}
		out := append(proto.PackHeader(common.TRACKER_PROTO_CMD_RESP, uint64(len(resp)), status), resp...)
		if _, err := conn.Write(out); err != nil {
			return
		}
	}
}

func (s *fakeServer) addr() string {
	return s.listener.Addr().String()
}

func (s *fakeServer) activeTestCount() int32 {
	return atomic.LoadInt32(&s.activeTests)
}

func (s *fakeServer) acceptedCount() int32 {
	return atomic.LoadInt32(&s.accepted)
}

func (s *fakeServer) received() []request {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]request(nil), s.requests...)
}

// newSilentServer returns the address of a server that reads
// everything and never answers.
func newSilentServer(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			go func() {
				defer conn.Close()
				io.Copy(ioutil.Discard, conn)
			}()
		}
	}()
	t.Cleanup(func() { l.Close() })
	return l.Addr().String()
}

// deadAddr returns an address nobody listens on.
func deadAddr(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	l.Close()
	return addr
}

func pad(s string, size int) []byte {
	bs := make([]byte, size)
	copy(bs, s)
	return bs
}

// storageListBody builds a "query store all" response body.
func storageListBody(t *testing.T, group string, storePath byte, addrs ...string) []byte {
	var buff bytes.Buffer
	buff.Write(pad(group, common.FDFS_GROUP_NAME_MAX_LEN))
	for _, addr := range addrs {
		host, port, err := net.SplitHostPort(addr)
		require.NoError(t, err)
		p, err := strconv.Atoi(port)
		require.NoError(t, err)
		buff.Write(pad(host, common.FDFS_IPADDR_SIZE-1))
		buff.Write(proto.Long2Buff(uint64(p)))
	}
	buff.WriteByte(storePath)
	return buff.Bytes()
}

// newTracker returns a tracker answering every query with body.
func newTracker(t *testing.T, body []byte) *fakeServer {
	return newFakeServer(t, func(cmd byte, _ []byte) (byte, []byte) {
		return 0, body
	})
}

// newStorage returns a storage answering every upload with group and path.
func newStorage(t *testing.T, group, path string) *fakeServer {
	return newFakeServer(t, func(cmd byte, _ []byte) (byte, []byte) {
		return 0, append(pad(group, common.FDFS_GROUP_NAME_MAX_LEN), path...)
	})
}

type fixedRand int

func (r fixedRand) Intn(n int) int {
	return int(r) % n
}
