package svc

import (
	"github.com/gorilla/mux"
	"github.com/hetianyi/fdfs/common"
	"github.com/hetianyi/fdfs/history"
	"github.com/hetianyi/fdfs/util"
	"github.com/hetianyi/gox/convert"
	"github.com/hetianyi/gox/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"io/ioutil"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

type uploadResponse struct {
	Group      string `json:"group"`
	RemotePath string `json:"remotePath"`
	FileId     string `json:"fileId"`
	Size       int    `json:"size"`
}

// StartAgentHttpServer serves handler on the configured address.
func StartAgentHttpServer(c *common.AgentConfig, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		Addr:              c.BindAddress + ":" + convert.IntToStr(c.HttpPort),
		ReadHeaderTimeout: time.Second * 15,
		WriteTimeout:      0,
		ReadTimeout:       c.ReadTimeout,
		MaxHeaderBytes:    1 << 20, // 1MB
	}
	logger.Info("http server listening on ", c.BindAddress, ":", c.HttpPort)
	return srv.ListenAndServe()
}

// Handler returns the http routes of the agent.
func (a *Agent) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(a.countRequests)
	r.HandleFunc("/upload", a.upload).Methods("POST")
	r.HandleFunc("/storages", a.storages).Methods("GET")
	r.HandleFunc("/pools", a.pools).Methods("GET")
	r.Handle("/metrics", promhttp.HandlerFor(a.metrics, promhttp.HandlerOpts{})).Methods("GET")
	return r
}

// upload handles a raw or multipart file upload.
func (a *Agent) upload(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	logger.Debug("accept new upload request")

	qs := r.URL.Query()
	group := strings.TrimSpace(qs.Get("group"))
	ext := strings.TrimSpace(qs.Get("ext"))

	if a.config.MaxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)
	}
	data, name, err := readUploadBody(r)
	if err != nil {
		logger.Debug("error read upload body: ", err)
		util.HttpBadRequestError(w, err.Error())
		return
	}
	if len(data) == 0 {
		util.HttpBadRequestError(w, "empty file")
		return
	}
	if ext == "" && name != "" {
		ext = filepath.Ext(name)
	}

	ret, err := a.client.UploadToGroup(r.Context(), group, data, ext)
	if err != nil {
		logger.Error("upload failed: ", err)
		util.HttpBadGatewayError(w, err.Error())
		return
	}
	logger.Debug("upload success: ", ret.FileId())

	if a.history != nil {
		if err := a.history.Add(&history.Record{
			FileId:     ret.FileId(),
			Group:      ret.Group,
			RemotePath: ret.RemotePath,
			LocalName:  name,
			Size:       int64(len(data)),
		}); err != nil {
			logger.Warn("error record upload history: ", err)
		}
	}

	util.HttpWriteJson(w, http.StatusOK, &uploadResponse{
		Group:      ret.Group,
		RemotePath: ret.RemotePath,
		FileId:     ret.FileId(),
		Size:       len(data),
	})
}

// readUploadBody returns the file bytes and the client side file name,
// a multipart request must carry the file in field "file".
func readUploadBody(r *http.Request) ([]byte, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		data, err := ioutil.ReadAll(r.Body)
		return data, "", err
	}
	f, fh, err := r.FormFile("file")
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	data, err := ioutil.ReadAll(f)
	return data, fh.Filename, err
}

// storages lists the storage servers of a group.
func (a *Agent) storages(w http.ResponseWriter, r *http.Request) {
	group := strings.TrimSpace(r.URL.Query().Get("group"))
	servers, err := a.client.Discover(r.Context(), group)
	if err != nil {
		logger.Error("error discover storage servers: ", err)
		util.HttpBadGatewayError(w, err.Error())
		return
	}
	if servers == nil {
		servers = []*common.StorageServer{}
	}
	util.HttpWriteJson(w, http.StatusOK, servers)
}

func (a *Agent) pools(w http.ResponseWriter, r *http.Request) {
	util.HttpWriteJson(w, http.StatusOK, a.registry.Stats())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (a *Agent) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := r.URL.Path
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		a.requests.WithLabelValues(route, convert.IntToStr(rec.status)).Inc()
	})
}
