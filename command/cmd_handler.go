package command

import (
	"container/list"
	"context"
	"fmt"
	"github.com/hetianyi/fdfs/api"
	"github.com/hetianyi/fdfs/common"
	"github.com/hetianyi/fdfs/history"
	"github.com/hetianyi/fdfs/pool"
	"github.com/hetianyi/fdfs/svc"
	"github.com/hetianyi/fdfs/util"
	"github.com/hetianyi/gox"
	"github.com/hetianyi/gox/file"
	"github.com/hetianyi/gox/logger"
	"github.com/hetianyi/gox/pg"
	json "github.com/json-iterator/go"
	"github.com/logrusorgru/aurora"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"io/ioutil"
	"path/filepath"
	"strings"
)

// newClient creates a client with the assembled settings,
// the returned registry must be closed by the caller.
func newClient() (api.ClientAPI, *pool.Registry) {
	registry := pool.NewRegistry(util.NewPoolConfig(clientConfig))
	return api.NewClient(&api.Config{
		TrackerServers: clientConfig.TrackerServers,
		Registry:       registry,
	}), registry
}

// openHistory opens the history database, failures only disable recording.
func openHistory() *history.History {
	if noHistory {
		return nil
	}
	h, err := history.Open(clientConfig.HistoryFile)
	if err != nil {
		logger.Warn("upload history disabled: ", err)
		return nil
	}
	return h
}

func listContains(l *list.List, ele string) bool {
	exists := false
	gox.WalkList(l, func(item interface{}) bool {
		if item.(string) == ele {
			exists = true
			return true
		}
		return false
	})
	return exists
}

// handleInitConfig writes a config file holding default settings.
func handleInitConfig() error {
	path, _ := resolveConfigFile()
	expanded, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	if file.Exists(expanded) && !forceInit {
		return errors.New("config file " + expanded + " already exists, use --force to overwrite")
	}
	c := util.DefaultClientConfig()
	if trackers != "" {
		c.TrackerServers = strings.Split(trackers, ",")
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
	if err := util.WriteConfig(expanded, c); err != nil {
		return err
	}
	fmt.Println(aurora.BrightGreen("config file written to " + expanded))
	return nil
}

// handleShowConfig prints the effective settings.
func handleShowConfig() error {
	bs, err := json.MarshalIndent(clientConfig, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(bs))
	return nil
}

// handleUploadFile handles upload files by client cli.
func handleUploadFile() error {
	client, registry := newClient()
	defer registry.Close()
	hist := openHistory()
	if hist != nil {
		defer hist.Close()
	}

	total := 0   // total files
	success := 0 // success files
	gox.WalkList(&uploadFiles, func(item interface{}) bool {
		total++
		path := item.(string)
		ret, size, err := uploadOne(client, path)
		if err != nil {
			logger.Error("error upload file ", path, ": ", err)
			return false
		}
		success++
		fmt.Println(aurora.BrightGreen("upload success: "+path), "->", ret.FileId())
		if hist != nil {
			if err := hist.Add(&history.Record{
				FileId:     ret.FileId(),
				Group:      ret.Group,
				RemotePath: ret.RemotePath,
				LocalName:  path,
				Size:       size,
			}); err != nil {
				logger.Warn("error record upload history: ", err)
			}
		}
		return false
	})
	logger.Info("upload finish, success ", success, " of total ", total)
	if success < total {
		return errors.Errorf("%d of %d files failed", total-success, total)
	}
	return nil
}

func uploadOne(client api.ClientAPI, path string) (*common.UploadResult, int64, error) {
	fi, err := file.GetFile(path)
	if err != nil {
		return nil, 0, err
	}
	defer fi.Close()
	inf, err := fi.Stat()
	if err != nil {
		return nil, 0, err
	}
	if inf.IsDir() {
		return nil, 0, errors.New("not a regular file")
	}
	r := &pg.WrappedReader{Reader: fi}
	// show loading progressbar.
	pro := pg.NewWrappedReaderProgress(inf.Size(), 50, "loading "+inf.Name(), pg.Top, r)
	data, err := ioutil.ReadAll(r)
	if err != nil {
		pro.Destroy()
		return nil, 0, err
	}
	ret, err := client.UploadToGroup(context.Background(), uploadGroup, data, filepath.Ext(path))
	if err != nil {
		return nil, 0, err
	}
	return ret, inf.Size(), nil
}

// handleListStorages prints the storage servers a tracker offers.
func handleListStorages() error {
	client, registry := newClient()
	defer registry.Close()

	servers, err := client.Discover(context.Background(), queryGroup)
	if err != nil {
		return err
	}
	if len(servers) == 0 {
		fmt.Println(aurora.Yellow("no storage server available"))
		return nil
	}
	for i, s := range servers {
		fmt.Printf("%2d  %-24s store path %d\n", i+1, s.ConnectionString(), s.StorePath)
	}
	return nil
}

// handleShowHistory prints the latest uploaded files.
func handleShowHistory() error {
	hist, err := history.Open(clientConfig.HistoryFile)
	if err != nil {
		return err
	}
	defer hist.Close()
	records, err := hist.List(historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println(aurora.Yellow("no upload history"))
		return nil
	}
	for _, r := range records {
		fmt.Println(gox.GetLongLongDateString(r.Time), aurora.BrightGreen(r.FileId), r.LocalName, r.Size)
	}
	return nil
}

// handleBootAgent starts the http agent.
func handleBootAgent() error {
	hist := openHistory()
	if hist != nil {
		defer hist.Close()
	}
	return svc.BootAgentServer(clientConfig, &common.AgentConfig{
		BindAddress: bindAddress,
		HttpPort:    port,
		MaxBodySize: maxBodySize,
	}, hist)
}
