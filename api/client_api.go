package api

import (
	"context"
	"github.com/hetianyi/fdfs/common"
	"github.com/hetianyi/fdfs/pool"
	"math/rand"
	"sync"
	"time"
)

// Rand is the random source of the client, *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

type Config struct {
	TrackerServers []string // tracker servers in "host:port" form
	Registry       *pool.Registry
	// Rand decides the first tracker and storage server to try,
	// nil means a time seeded source.
	Rand Rand
}

type ClientAPI interface {
	// Discover queries a tracker server for the storage servers of group,
	// an empty group lets the tracker choose.
	Discover(ctx context.Context, group string) ([]*common.StorageServer, error)
	// Upload uploads data to one of the storage servers discovered without group.
	Upload(ctx context.Context, data []byte, ext string) (*common.UploadResult, error)
	// UploadToGroup is Upload with the storage servers of group.
	UploadToGroup(ctx context.Context, group string, data []byte, ext string) (*common.UploadResult, error)
	// UploadFile uploads a local file using its file extension.
	UploadFile(ctx context.Context, group string, path string) (*common.UploadResult, error)
}

type clientAPIImpl struct {
	config   *Config
	registry *pool.Registry
	randLock *sync.Mutex
	rand     Rand
}

// NewClient creates a ClientAPI, a nil Registry in config gets a default one.
func NewClient(config *Config) ClientAPI {
	if config == nil {
		config = &Config{}
	}
	c := &clientAPIImpl{
		config:   config,
		registry: config.Registry,
		randLock: new(sync.Mutex),
		rand:     config.Rand,
	}
	if c.registry == nil {
		c.registry = pool.NewRegistry(&pool.Config{
			ConnectTimeout: time.Second * common.DEFAULT_CONNECT_TIMEOUT,
			NetworkTimeout: time.Second * common.DEFAULT_NETWORK_TIMEOUT,
			MaxPerTarget:   common.DEFAULT_MAX_COUNT_PER_ENTRY,
			MaxIdleTime:    time.Second * common.DEFAULT_MAX_IDLE_TIME,
			MaxWaitTime:    time.Millisecond * common.DEFAULT_MAX_WAIT_TIME_IN_MS,
		})
	}
	if c.rand == nil {
		c.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}

// randomStart returns the first index of a round robin over n items.
func (c *clientAPIImpl) randomStart(n int) int {
	c.randLock.Lock()
	defer c.randLock.Unlock()
	return c.rand.Intn(n)
}
