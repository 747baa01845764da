package api

import (
	"bytes"
	"context"
	"github.com/hetianyi/fdfs/common"
	"github.com/hetianyi/fdfs/pool"
	"github.com/hetianyi/fdfs/proto"
	"github.com/hetianyi/gox/logger"
	"github.com/pkg/errors"
)

// trackerConnection checks out a connection of a tracker server,
// trying every tracker once starting from a random one.
func (c *clientAPIImpl) trackerConnection(ctx context.Context) (*pool.Conn, error) {
	trackers := c.config.TrackerServers
	if len(trackers) == 0 {
		return nil, common.ErrNoTrackerConfigured
	}
	start := c.randomStart(len(trackers))
	for i := range trackers {
		tracker := trackers[(start+i)%len(trackers)]
		conn, err := c.registry.Get(ctx, tracker)
		if err == nil {
			return conn, nil
		}
		logger.Debug("tracker server ", tracker, " unavailable: ", err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, common.ErrNoTrackerAvailable
}

func (c *clientAPIImpl) Discover(ctx context.Context, group string) ([]*common.StorageServer, error) {
	conn, err := c.trackerConnection(ctx)
	if err != nil {
		return nil, err
	}
	servers, err := queryStorageServers(conn, group)
	if err != nil {
		conn.Discard()
		return nil, err
	}
	conn.Release()
	return servers, nil
}

// queryStorageServers sends a "query store all" request and parses the response.
func queryStorageServers(conn *pool.Conn, group string) ([]*common.StorageServer, error) {
	var buff bytes.Buffer
	if group == "" {
		buff.Write(proto.PackHeader(common.TRACKER_PROTO_CMD_SERVICE_QUERY_STORE_WITHOUT_GROUP_ALL, 0, 0))
	} else {
		buff.Write(proto.PackHeader(common.TRACKER_PROTO_CMD_SERVICE_QUERY_STORE_WITH_GROUP_ALL,
			common.FDFS_GROUP_NAME_MAX_LEN, 0))
		buff.Write(fixedField(group, common.FDFS_GROUP_NAME_MAX_LEN))
	}
	if _, err := conn.Write(buff.Bytes()); err != nil {
		return nil, errors.Wrap(err, "error send query request")
	}
	pkg, err := proto.RecvPackage(conn, common.TRACKER_PROTO_CMD_RESP, -1)
	if err != nil {
		return nil, err
	}
	return parseStorageServers(pkg.Body)
}

// parseStorageServers parses the body of a "query store all" response:
//
//	group name (16) + n * (ip (45) + port (8)) + store path (1)
func parseStorageServers(body []byte) ([]*common.StorageServer, error) {
	if len(body) < common.TRACKER_QUERY_STORAGE_STORE_BODY_LEN {
		return nil, errors.Wrapf(common.ErrInvalidParameters, "body length %d is too short", len(body))
	}
	recordsLen := len(body) - common.FDFS_GROUP_NAME_MAX_LEN - 1
	if recordsLen%common.TRACKER_STORAGE_RECORD_LEN != 0 {
		return nil, errors.Wrapf(common.ErrInvalidParameters, "body length %d is not correct", len(body))
	}
	count := recordsLen / common.TRACKER_STORAGE_RECORD_LEN
	if count > common.FDFS_MAX_SERVERS_EACH_GROUP {
		return nil, errors.Wrapf(common.ErrNoFreeSpace, "tracker returned %d storage servers, max is %d",
			count, common.FDFS_MAX_SERVERS_EACH_GROUP)
	}
	storePath := body[len(body)-1]
	servers := make([]*common.StorageServer, count)
	offset := common.FDFS_GROUP_NAME_MAX_LEN
	for i := 0; i < count; i++ {
		ip := trimField(body[offset : offset+common.FDFS_IPADDR_SIZE-1])
		offset += common.FDFS_IPADDR_SIZE - 1
		port := uint16(proto.Buff2Long(body, offset))
		offset += common.FDFS_PROTO_PKG_LEN_SIZE
		servers[i] = &common.StorageServer{
			Server: common.Server{
				Host: ip,
				Port: port,
			},
			StorePath: storePath,
		}
	}
	return servers, nil
}

// fixedField encodes s into a zero padded field of size bytes,
// longer values are truncated.
func fixedField(s string, size int) []byte {
	field := make([]byte, size)
	copy(field, s)
	return field
}

// trimField decodes a zero padded field.
func trimField(bs []byte) string {
	return string(bytes.TrimRight(bs, "\x00"))
}
