package svc

import (
	"github.com/hetianyi/fdfs/api"
	"github.com/hetianyi/fdfs/common"
	"github.com/hetianyi/fdfs/history"
	"github.com/hetianyi/fdfs/pool"
	"github.com/hetianyi/fdfs/util"
	"github.com/hetianyi/gox/logger"
	json "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus"
)

// Agent exposes the client over http.
type Agent struct {
	client   api.ClientAPI
	registry *pool.Registry
	history  *history.History // nil disables recording
	config   *common.AgentConfig
	metrics  *prometheus.Registry
	requests *prometheus.CounterVec
}

// NewAgent creates an Agent, the pool collectors of registry are
// exported together with the agent's own request counter.
func NewAgent(client api.ClientAPI, registry *pool.Registry, hist *history.History, config *common.AgentConfig) (*Agent, error) {
	if config == nil {
		config = &common.AgentConfig{}
	}
	a := &Agent{
		client:   client,
		registry: registry,
		history:  hist,
		config:   config,
		metrics:  prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fdfs_agent_requests_total",
				Help: "Http requests served by the agent",
			},
			[]string{"route", "code"},
		),
	}
	if err := a.metrics.Register(a.requests); err != nil {
		return nil, err
	}
	if err := pool.RegisterMetrics(a.metrics); err != nil {
		return nil, err
	}
	return a, nil
}

// BootAgentServer starts the agent with the client settings c and
// blocks until the http server stops.
func BootAgentServer(c *common.ClientConfig, ac *common.AgentConfig, hist *history.History) error {
	registry := pool.NewRegistry(util.NewPoolConfig(c))
	defer registry.Close()

	client := api.NewClient(&api.Config{
		TrackerServers: c.TrackerServers,
		Registry:       registry,
	})

	if cbs, err := json.MarshalIndent(c, "", "  "); err == nil {
		logger.Debug("\n", string(cbs))
	}

	// print logo.
	util.PrintLogo()

	agent, err := NewAgent(client, registry, hist, ac)
	if err != nil {
		return err
	}
	return StartAgentHttpServer(ac, agent.Handler())
}
