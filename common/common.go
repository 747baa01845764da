package common

import "time"

const (
	VERSION              = "1.0.0"
	SERVER_PATTERN       = "^([^@:]+):([1-9][0-9]{0,4})$"
	DEFAULT_CONFIG_FILE  = "~/.fdfs/client.json"
	DEFAULT_HISTORY_FILE = "~/.fdfs/history.db"
	DEFAULT_AGENT_PORT   = 8090
	BUFFER_SIZE          = 1 << 15 // 32k
)

// protocol command codes
const (
	STORAGE_PROTO_CMD_UPLOAD_FILE                           byte = 11
	TRACKER_PROTO_CMD_RESP                                  byte = 100
	TRACKER_PROTO_CMD_SERVICE_QUERY_STORE_WITHOUT_GROUP_ALL byte = 106
	TRACKER_PROTO_CMD_SERVICE_QUERY_STORE_WITH_GROUP_ALL    byte = 107
	FDFS_PROTO_CMD_ACTIVE_TEST                              byte = 111
	// storage responses share the tracker response code.
	STORAGE_PROTO_CMD_RESP = TRACKER_PROTO_CMD_RESP
)

// protocol field widths
const (
	FDFS_PROTO_PKG_LEN_SIZE              = 8
	FDFS_PROTO_HEADER_LEN                = FDFS_PROTO_PKG_LEN_SIZE + 2
	PROTO_HEADER_CMD_INDEX               = FDFS_PROTO_PKG_LEN_SIZE
	PROTO_HEADER_STATUS_INDEX            = FDFS_PROTO_PKG_LEN_SIZE + 1
	FDFS_GROUP_NAME_MAX_LEN              = 16
	FDFS_IPADDR_SIZE                     = 46
	FDFS_FILE_EXT_NAME_MAX_LEN           = 6
	FDFS_MAX_SERVERS_EACH_GROUP          = 16
	TRACKER_QUERY_STORAGE_STORE_BODY_LEN = FDFS_GROUP_NAME_MAX_LEN + FDFS_IPADDR_SIZE + FDFS_PROTO_PKG_LEN_SIZE
	// one ip/port record in a "query store all" response.
	TRACKER_STORAGE_RECORD_LEN = FDFS_IPADDR_SIZE - 1 + FDFS_PROTO_PKG_LEN_SIZE
	// store path + file size + extension, precedes the file bytes in an upload request.
	STORAGE_UPLOAD_META_LEN = 1 + FDFS_PROTO_PKG_LEN_SIZE + FDFS_FILE_EXT_NAME_MAX_LEN
)

// settings defaults
const (
	DEFAULT_CONNECT_TIMEOUT     = 2 // seconds
	DEFAULT_NETWORK_TIMEOUT     = 30
	DEFAULT_CHARSET             = "UTF-8"
	DEFAULT_TRACKER_HTTP_PORT   = 8080
	DEFAULT_MAX_COUNT_PER_ENTRY = 10
	DEFAULT_MAX_IDLE_TIME       = 3600
	DEFAULT_MAX_WAIT_TIME_IN_MS = 1000
	DEFAULT_LOG_LEVEL           = "info"
)

// RecycleTimeout bounds a single liveness probe exchange when no
// network timeout is configured.
const RecycleTimeout = time.Second * 10
