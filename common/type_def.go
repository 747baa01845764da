package common

import (
	"github.com/hetianyi/gox/convert"
	"time"
)

// ClientConfig is the settings file of the client,
// keys follow the classic fdfs client.conf naming.
type ClientConfig struct {
	ConnectTimeout int            `json:"connect_timeout"` // seconds
	NetworkTimeout int            `json:"network_timeout"` // seconds
	Charset        string         `json:"charset"`
	Http           HttpConfig     `json:"http"`
	TrackerServers []string       `json:"tracker_server"`
	ConnectionPool ConnPoolConfig `json:"connection_pool"`
	LogLevel       string         `json:"log_level"`
	HistoryFile    string         `json:"history_file"`
	ParsedTrackers []Server       `json:"-"`
}

type HttpConfig struct {
	TrackerHttpPort int `json:"tracker_http_port"`
}

type ConnPoolConfig struct {
	Enabled          *bool `json:"enabled"`
	MaxCountPerEntry int   `json:"max_count_per_entry"`
	MaxIdleTime      int   `json:"max_idle_time"` // seconds
	MaxWaitTimeInMs  int   `json:"max_wait_time_in_ms"`
}

// PoolEnabled reports whether connections should be pooled,
// an absent setting means enabled.
func (c *ConnPoolConfig) PoolEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

type Server struct {
	Host string `json:"host"`
	Port uint16 `json:"port"`
}

func (s *Server) ConnectionString() string {
	return s.Host + ":" + convert.Uint16ToStr(s.Port)
}

// StorageServer is a storage endpoint returned by a tracker.
// StorePath must be echoed back to the storage on upload.
type StorageServer struct {
	Server
	StorePath byte `json:"storePath"`
}

// UploadResult is the location of an uploaded file.
type UploadResult struct {
	Group      string `json:"group"`
	RemotePath string `json:"remotePath"`
}

// FileId returns the classic "group/remote path" file id.
func (r *UploadResult) FileId() string {
	return r.Group + "/" + r.RemotePath
}

// AgentConfig configures the http agent.
type AgentConfig struct {
	BindAddress string
	HttpPort    int
	// max size of a single uploaded body, 0 means unlimited.
	MaxBodySize int64
	ReadTimeout time.Duration
}
