package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minseok-c/launchpad/internal/commands"
	"github.com/minseok-c/launchpad/internal/launcher"
	"github.com/minseok-c/launchpad/internal/monitor"
	"github.com/minseok-c/launchpad/internal/process"
)

// Router provides embeddable HTTP handlers over the launcher.
// Endpoints:
//
//	GET  {basePath}/status         all declared services
//	GET  {basePath}/status?name=x  one service
//	POST {basePath}/launch?name=x  detect-then-start one service
//	GET  {basePath}/commands       list trigger commands
//	POST {basePath}/run?trigger=x  fire a trigger command
//
// basePath may be empty or start with '/'; no trailing slash.
type Router struct {
	launcher *launcher.Launcher
	mon      *monitor.Monitor
	specs    map[string]*process.Spec
	table    *commands.Table
	basePath string
}

// NewRouter constructs a Router with a configurable basePath.
// Example basePath: "/api" results in /api/status, /api/launch, /api/run.
func NewRouter(l *launcher.Launcher, specs []process.Spec, table *commands.Table, basePath string) *Router {
	byName := make(map[string]*process.Spec, len(specs))
	for i := range specs {
		byName[specs[i].Name] = &specs[i]
	}
	return &Router{
		launcher: l,
		mon:      monitor.New(specs, 0, nil),
		specs:    byName,
		table:    table,
		basePath: sanitizeBase(basePath),
	}
}

// Handler returns an http.Handler powered by gin that can be mounted in any server/mux.
func (r *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	group := g.Group(r.basePath)
	group.GET("/status", r.handleStatus)
	group.POST("/launch", r.handleLaunch)
	group.GET("/commands", r.handleCommands)
	group.POST("/run", r.handleRun)
	return g
}

// NewServer starts a standalone HTTP server on addr using this router.
func NewServer(addr, basePath string, l *launcher.Launcher, specs []process.Spec, table *commands.Table) (*http.Server, error) {
	r := NewRouter(l, specs, table, basePath)
	server := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() { _ = server.ListenAndServe() }()
	return server, nil
}

type errorResp struct {
	Error string `json:"error"`
}

type runResp struct {
	OK  bool `json:"ok"`
	PID int  `json:"pid,omitempty"`
}

// launchResp flattens launcher.Outcome for the wire: the error becomes a string.
type launchResp struct {
	Name       string `json:"name"`
	State      string `json:"state"`
	DetectedBy string `json:"detected_by,omitempty"`
	PID        int    `json:"pid,omitempty"`
	Ready      bool   `json:"ready"`
	Error      string `json:"error,omitempty"`
}

func toLaunchResp(o launcher.Outcome) launchResp {
	r := launchResp{
		Name:       o.Name,
		State:      string(o.State),
		DetectedBy: o.DetectedBy,
		PID:        o.PID,
		Ready:      o.Ready,
	}
	if o.Err != nil {
		r.Error = o.Err.Error()
	}
	return r
}

func (r *Router) handleStatus(c *gin.Context) {
	name := c.Query("name")
	snap := r.mon.Snapshot()
	if name == "" {
		writeJSON(c, http.StatusOK, snap)
		return
	}
	if !isSafeName(name) {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: "invalid name: allowed [A-Za-z0-9._-] and no '..' or path separators"})
		return
	}
	for _, e := range snap.Entries {
		if e.Name == name {
			writeJSON(c, http.StatusOK, e)
			return
		}
	}
	writeJSON(c, http.StatusNotFound, errorResp{Error: "unknown service: " + name})
}

func (r *Router) handleLaunch(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: "name query param required"})
		return
	}
	if !isSafeName(name) {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: "invalid name: allowed [A-Za-z0-9._-] and no '..' or path separators"})
		return
	}
	spec, ok := r.specs[name]
	if !ok {
		writeJSON(c, http.StatusNotFound, errorResp{Error: "unknown service: " + name})
		return
	}
	out := r.launcher.EnsureRunning(c.Request.Context(), spec)
	if out.State == launcher.StateStartFailed {
		writeJSON(c, http.StatusBadGateway, toLaunchResp(out))
		return
	}
	writeJSON(c, http.StatusOK, toLaunchResp(out))
}

func (r *Router) handleCommands(c *gin.Context) {
	writeJSON(c, http.StatusOK, r.table.List())
}

func (r *Router) handleRun(c *gin.Context) {
	trigger := c.Query("trigger")
	if trigger == "" {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: "trigger query param required"})
		return
	}
	pid, err := r.table.Run(c.Request.Context(), trigger)
	if err != nil {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: err.Error()})
		return
	}
	writeJSON(c, http.StatusOK, runResp{OK: true, PID: pid})
}
