package util

import (
	"github.com/hetianyi/fdfs/common"
	"github.com/hetianyi/gox/logger"
	"os"
	"strings"
)

// if these param exist in system env , then replace it with system env
func ExchangeEnvValue(key string, then func(envValue string)) {
	envVal := strings.TrimSpace(os.Getenv(key))
	if envVal != "" {
		logger.Debug("config property \"", key, "\" load from environment")
		then(envVal)
	}
}

// ApplyEnvOverrides replaces settings of c with those given by
// FDFS_TRACKER_SERVER and FDFS_LOG_LEVEL.
func ApplyEnvOverrides(c *common.ClientConfig) {
	ExchangeEnvValue("FDFS_TRACKER_SERVER", func(envValue string) {
		c.TrackerServers = strings.Split(envValue, ",")
	})
	ExchangeEnvValue("FDFS_LOG_LEVEL", func(envValue string) {
		c.LogLevel = envValue
	})
}
