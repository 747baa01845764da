package command

import (
	"github.com/hetianyi/fdfs/common"
	"github.com/hetianyi/fdfs/util"
	"github.com/hetianyi/gox/file"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"strings"
)

// clientConfig is the assembled settings of this run.
var clientConfig *common.ClientConfig

// resolveConfigFile returns the config file to use and whether
// it was given explicitly.
func resolveConfigFile() (string, bool) {
	if configFile != "" {
		return configFile, true
	}
	return common.DEFAULT_CONFIG_FILE, false
}

// configAssembly merges the config file, environment variables and
// command line flags, latter ones win.
func configAssembly() error {
	c := &common.ClientConfig{}
	path, explicit := resolveConfigFile()
	expanded, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	if explicit || file.Exists(expanded) {
		if err := util.LoadConfig(expanded, c); err != nil {
			return errors.Wrap(err, "error load config file "+expanded)
		}
	}
	util.ApplyEnvOverrides(c)
	if trackers != "" {
		c.TrackerServers = strings.Split(trackers, ",")
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if err := util.ValidateClientConfig(c); err != nil {
		return err
	}
	clientConfig = c
	return nil
}
