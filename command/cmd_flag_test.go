package command

import (
	"container/list"
	"github.com/hetianyi/fdfs/common"
	"github.com/hetianyi/fdfs/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

func resetVars() {
	showVersion = false
	configFile = ""
	trackers = ""
	logLevel = ""
	uploadGroup = ""
	noHistory = false
	uploadFiles = list.List{}
	queryGroup = ""
	historyLimit = 0
	bindAddress = ""
	port = 0
	maxBodySize = 0
	forceInit = false
	finalCommand = CMD_SHOW_HELP
	clientConfig = nil
}

func TestParseUpload(t *testing.T) {
	resetVars()
	err := newApp().Run([]string{"fdfs", "--trackers", "10.0.0.1:22122", "upload", "-g", "group1", "--no-history", "a.jpg", "b.jpg", "a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, CMD_UPLOAD_FILE, finalCommand)
	assert.Equal(t, "10.0.0.1:22122", trackers)
	assert.Equal(t, "group1", uploadGroup)
	assert.True(t, noHistory)
	assert.Equal(t, 2, uploadFiles.Len())
	assert.True(t, listContains(&uploadFiles, "b.jpg"))
}

func TestParseUploadWithoutFiles(t *testing.T) {
	resetVars()
	assert.Error(t, newApp().Run([]string{"fdfs", "upload"}))
}

func TestParseAgentAndHistory(t *testing.T) {
	resetVars()
	require.NoError(t, newApp().Run([]string{"fdfs", "agent", "--bind-address", "127.0.0.1"}))
	assert.Equal(t, CMD_BOOT_AGENT, finalCommand)
	assert.Equal(t, "127.0.0.1", bindAddress)
	assert.Equal(t, common.DEFAULT_AGENT_PORT, port)

	resetVars()
	require.NoError(t, newApp().Run([]string{"fdfs", "history", "-n", "5"}))
	assert.Equal(t, CMD_SHOW_HISTORY, finalCommand)
	assert.Equal(t, 5, historyLimit)

	resetVars()
	require.NoError(t, newApp().Run([]string{"fdfs", "storages", "--group", "group2"}))
	assert.Equal(t, CMD_LIST_STORAGES, finalCommand)
	assert.Equal(t, "group2", queryGroup)

	resetVars()
	require.NoError(t, newApp().Run([]string{"fdfs", "config", "init", "--force"}))
	assert.Equal(t, CMD_INIT_CONFIG, finalCommand)
	assert.True(t, forceInit)
}

func TestConfigAssembly(t *testing.T) {
	resetVars()
	path := filepath.Join(t.TempDir(), "client.json")
	c := util.DefaultClientConfig()
	c.TrackerServers = []string{"10.0.0.1:22122"}
	c.NetworkTimeout = 5
	require.NoError(t, util.WriteConfig(path, c))

	configFile = path
	require.NoError(t, configAssembly())
	assert.Equal(t, []string{"10.0.0.1:22122"}, clientConfig.TrackerServers)
	assert.Equal(t, 5, clientConfig.NetworkTimeout)

	// command line wins over environment and config file.
	os.Setenv("FDFS_TRACKER_SERVER", "10.0.0.2:22122")
	defer os.Unsetenv("FDFS_TRACKER_SERVER")
	require.NoError(t, configAssembly())
	assert.Equal(t, []string{"10.0.0.2:22122"}, clientConfig.TrackerServers)
	trackers = "10.0.0.3:22122,10.0.0.4:22122"
	require.NoError(t, configAssembly())
	assert.Equal(t, []string{"10.0.0.3:22122", "10.0.0.4:22122"}, clientConfig.TrackerServers)
}

func TestConfigAssemblyMissingFile(t *testing.T) {
	resetVars()
	configFile = filepath.Join(t.TempDir(), "none.json")
	assert.Error(t, configAssembly())
}

func TestHandleInitConfig(t *testing.T) {
	resetVars()
	configFile = filepath.Join(t.TempDir(), "client.json")
	trackers = "10.0.0.1:22122"
	require.NoError(t, handleInitConfig())
	assert.Error(t, handleInitConfig())
	forceInit = true
	require.NoError(t, handleInitConfig())

	loaded := &common.ClientConfig{}
	require.NoError(t, util.LoadConfig(configFile, loaded))
	assert.Equal(t, []string{"10.0.0.1:22122"}, loaded.TrackerServers)
	assert.Equal(t, common.DEFAULT_NETWORK_TIMEOUT, loaded.NetworkTimeout)
}
