package command

import (
	"container/list"
)

type Command uint32

const (
	CMD_SHOW_HELP Command = iota
	CMD_UPLOAD_FILE
	CMD_LIST_STORAGES
	CMD_SHOW_HISTORY
	CMD_BOOT_AGENT
	CMD_INIT_CONFIG
	CMD_SHOW_CONFIG
	CMD_TEST_UPLOAD
)

// var sets
var (
	showVersion  bool      // show app version
	configFile   string    // specified config file to be use
	trackers     string    // tracker servers, overrides the config file
	logLevel     string    // log level(trace, debug, info, warn, error, fatal)
	uploadGroup  string    // upload group
	noHistory    bool      // do not record uploads to history
	uploadFiles  list.List // files to be uploaded
	queryGroup   string    // group of the storage query
	historyLimit int       // max history records to show
	bindAddress  string    // agent bind address
	port         int       // agent http port
	maxBodySize  int64     // agent max upload size
	forceInit    bool      // overwrite an existing config file
	testScale    int       // test scale
	testThread   int       // test thread
)

var finalCommand = CMD_SHOW_HELP
