package api

import (
	"bufio"
	"bytes"
	"context"
	"github.com/hetianyi/fdfs/common"
	"github.com/hetianyi/fdfs/pool"
	"github.com/hetianyi/fdfs/proto"
	"github.com/hetianyi/gox/file"
	"github.com/hetianyi/gox/logger"
	"github.com/pkg/errors"
	"io/ioutil"
	"path/filepath"
	"strings"
)

func (c *clientAPIImpl) Upload(ctx context.Context, data []byte, ext string) (*common.UploadResult, error) {
	return c.UploadToGroup(ctx, "", data, ext)
}

func (c *clientAPIImpl) UploadToGroup(ctx context.Context, group string, data []byte, ext string) (*common.UploadResult, error) {
	storages, err := c.Discover(ctx, group)
	if err != nil {
		return nil, err
	}
	if len(storages) == 0 {
		return nil, common.ErrNoStorageAvailable
	}
	var lastErr error
	start := c.randomStart(len(storages))
	for i := range storages {
		storage := storages[(start+i)%len(storages)]
		conn, err := c.registry.Get(ctx, storage.ConnectionString())
		if err != nil {
			logger.Debug("storage server ", storage.ConnectionString(), " unavailable: ", err)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		// the connection is established, failures from here on are not retried.
		ret, err := uploadFile(conn, storage.StorePath, data, ext)
		if err != nil {
			conn.Discard()
			return nil, err
		}
		conn.Release()
		return ret, nil
	}
	return nil, errors.Wrapf(common.ErrAllStoragesUnreachable, "last error: %v", lastErr)
}

func (c *clientAPIImpl) UploadFile(ctx context.Context, group string, path string) (*common.UploadResult, error) {
	fi, err := file.GetFile(path)
	if err != nil {
		return nil, err
	}
	defer fi.Close()
	data, err := ioutil.ReadAll(fi)
	if err != nil {
		return nil, err
	}
	return c.UploadToGroup(ctx, group, data, filepath.Ext(path))
}

// uploadFile sends an upload request on conn:
//
//	header (10) + store path (1) + file size (8) + ext (6) + file bytes
func uploadFile(conn *pool.Conn, storePath byte, data []byte, ext string) (*common.UploadResult, error) {
	w := bufio.NewWriterSize(conn, common.BUFFER_SIZE)
	var meta bytes.Buffer
	meta.Write(proto.PackHeader(common.STORAGE_PROTO_CMD_UPLOAD_FILE,
		uint64(common.STORAGE_UPLOAD_META_LEN+len(data)), 0))
	meta.WriteByte(storePath)
	meta.Write(proto.Long2Buff(uint64(len(data))))
	meta.Write(fixedField(normalizeExt(ext), common.FDFS_FILE_EXT_NAME_MAX_LEN))
	if _, err := w.Write(meta.Bytes()); err != nil {
		return nil, errors.Wrap(err, "error send upload request")
	}
	if err := w.Flush(); err != nil {
		return nil, errors.Wrap(err, "error send upload request")
	}
	if _, err := w.Write(data); err != nil {
		return nil, errors.Wrap(err, "error send file")
	}
	if err := w.Flush(); err != nil {
		return nil, errors.Wrap(err, "error send file")
	}
	pkg, err := proto.RecvPackage(conn, common.STORAGE_PROTO_CMD_RESP, -1)
	if err != nil {
		return nil, err
	}
	return parseUploadResult(pkg.Body)
}

// parseUploadResult parses the body of an upload response:
//
//	group name (16) + remote path
func parseUploadResult(body []byte) (*common.UploadResult, error) {
	if len(body) <= common.FDFS_GROUP_NAME_MAX_LEN {
		return nil, errors.Wrapf(common.ErrInvalidResponse, "body length %d is too short", len(body))
	}
	return &common.UploadResult{
		Group:      trimField(body[:common.FDFS_GROUP_NAME_MAX_LEN]),
		RemotePath: strings.TrimSpace(trimField(body[common.FDFS_GROUP_NAME_MAX_LEN:])),
	}, nil
}

// normalizeExt strips the leading dot of a file extension.
func normalizeExt(ext string) string {
	return strings.TrimPrefix(ext, ".")
}
