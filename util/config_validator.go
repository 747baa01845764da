package util

import (
	"errors"
	"github.com/hetianyi/fdfs/common"
	"github.com/hetianyi/fdfs/pool"
	"github.com/hetianyi/gox/convert"
	"github.com/hetianyi/gox/logger"
	"regexp"
	"strings"
	"time"
)

var serverRegexp = regexp.MustCompile(common.SERVER_PATTERN)

// DefaultClientConfig returns a config holding all default values.
func DefaultClientConfig() *common.ClientConfig {
	c := &common.ClientConfig{}
	applyDefaults(c)
	return c
}

func applyDefaults(c *common.ClientConfig) {
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = common.DEFAULT_CONNECT_TIMEOUT
	}
	if c.NetworkTimeout <= 0 {
		c.NetworkTimeout = common.DEFAULT_NETWORK_TIMEOUT
	}
	if c.Charset == "" {
		c.Charset = common.DEFAULT_CHARSET
	}
	if c.Http.TrackerHttpPort <= 0 {
		c.Http.TrackerHttpPort = common.DEFAULT_TRACKER_HTTP_PORT
	}
	if c.TrackerServers == nil {
		c.TrackerServers = []string{}
	}
	if c.ConnectionPool.Enabled == nil {
		enabled := true
		c.ConnectionPool.Enabled = &enabled
	}
	if c.ConnectionPool.MaxCountPerEntry <= 0 {
		c.ConnectionPool.MaxCountPerEntry = common.DEFAULT_MAX_COUNT_PER_ENTRY
	}
	if c.ConnectionPool.MaxIdleTime <= 0 {
		c.ConnectionPool.MaxIdleTime = common.DEFAULT_MAX_IDLE_TIME
	}
	if c.ConnectionPool.MaxWaitTimeInMs <= 0 {
		c.ConnectionPool.MaxWaitTimeInMs = common.DEFAULT_MAX_WAIT_TIME_IN_MS
	}
	if c.HistoryFile == "" {
		c.HistoryFile = common.DEFAULT_HISTORY_FILE
	}
	if c.LogLevel == "" {
		c.LogLevel = common.DEFAULT_LOG_LEVEL
	}
}

// ValidateClientConfig fills default values, validates tracker servers
// and initializes the logger.
func ValidateClientConfig(c *common.ClientConfig) error {
	if c == nil {
		return errors.New("no config provided")
	}
	applyDefaults(c)
	c.LogLevel = strings.ToLower(c.LogLevel)
	if c.LogLevel != "trace" && c.LogLevel != "debug" && c.LogLevel != "info" &&
		c.LogLevel != "warn" && c.LogLevel != "error" && c.LogLevel != "fatal" {
		c.LogLevel = common.DEFAULT_LOG_LEVEL
	}
	if !strings.EqualFold(c.Charset, common.DEFAULT_CHARSET) {
		return errors.New("unsupported charset \"" + c.Charset + "\", only UTF-8 is supported")
	}
	// initialize logger
	logger.Init(&logger.Config{
		Level:              ConvertLogLevel(c.LogLevel),
		Write2File:         false,
		AlwaysWriteConsole: true,
		Formatter:          &logger.NoneTextFormatter{},
	})

	// parse tracker servers
	c.ParsedTrackers = make([]common.Server, 0, len(c.TrackerServers))
	for i, t := range c.TrackerServers {
		server, err := ParseServer(t)
		if err != nil {
			return err
		}
		c.TrackerServers[i] = server.ConnectionString()
		c.ParsedTrackers = append(c.ParsedTrackers, *server)
	}
	// done!
	return nil
}

// ParseServer parses a "host:port" string.
func ParseServer(s string) (*common.Server, error) {
	s = strings.TrimSpace(s)
	if !serverRegexp.MatchString(s) {
		return nil, errors.New("invalid server \"" + s + "\", server must match pattern " + common.SERVER_PATTERN)
	}
	port, err := convert.StrToInt(serverRegexp.ReplaceAllString(s, "$2"))
	if err != nil || port > 65535 {
		return nil, errors.New("invalid port number of server \"" + s + "\"")
	}
	return &common.Server{
		Host: serverRegexp.ReplaceAllString(s, "$1"),
		Port: uint16(port),
	}, nil
}

// NewPoolConfig maps the client settings to the connection pool config.
func NewPoolConfig(c *common.ClientConfig) *pool.Config {
	return &pool.Config{
		ConnectTimeout: time.Duration(c.ConnectTimeout) * time.Second,
		NetworkTimeout: time.Duration(c.NetworkTimeout) * time.Second,
		MaxPerTarget:   c.ConnectionPool.MaxCountPerEntry,
		MaxIdleTime:    time.Duration(c.ConnectionPool.MaxIdleTime) * time.Second,
		MaxWaitTime:    time.Duration(c.ConnectionPool.MaxWaitTimeInMs) * time.Millisecond,
		Disabled:       !c.ConnectionPool.PoolEnabled(),
	}
}

func ConvertLogLevel(levelString string) logger.Level {
	levelString = strings.ToLower(levelString)
	switch levelString {
	case "trace":
		return logger.TraceLevel
	case "debug":
		return logger.DebugLevel
	case "info":
		return logger.InfoLevel
	case "warn":
		return logger.WarnLevel
	case "error":
		return logger.ErrorLevel
	case "fatal":
		return logger.FatalLevel
	default:
		return logger.InfoLevel
	}
}
