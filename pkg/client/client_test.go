package client

import (
	"context"
	"net/http/httptest"
	"runtime"
	"testing"

	"github.com/minseok-c/launchpad/internal/commands"
	"github.com/minseok-c/launchpad/internal/detector"
	"github.com/minseok-c/launchpad/internal/launcher"
	"github.com/minseok-c/launchpad/internal/process"
	"github.com/minseok-c/launchpad/internal/server"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires Unix-like environment")
	}
}

func testServer(t *testing.T) *Client {
	t.Helper()
	specs := []process.Spec{
		{Name: "up", Command: "true", Detectors: []detector.Detector{detector.CommandDetector{Command: "true"}}},
	}
	table, err := commands.NewTable([]commands.Entry{
		{Trigger: "noop", Argv: []string{"true"}, Group: "system"},
	})
	if err != nil {
		t.Fatal(err)
	}
	r := server.NewRouter(launcher.New(nil, nil), specs, table, "/api")
	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/api"})
}

func TestClientAgainstRouter(t *testing.T) {
	requireUnix(t)
	c := testServer(t)
	ctx := context.Background()

	if !c.IsReachable(ctx) {
		t.Fatal("server should be reachable")
	}

	snap, err := c.Status(ctx)
	if err != nil || len(snap.Entries) != 1 || snap.Entries[0].State != "running" {
		t.Fatalf("status: %+v err=%v", snap, err)
	}

	st, err := c.ServiceStatus(ctx, "up")
	if err != nil || st.Name != "up" {
		t.Fatalf("service status: %+v err=%v", st, err)
	}
	if _, err := c.ServiceStatus(ctx, "ghost"); err == nil {
		t.Fatal("unknown service should error")
	}

	res, err := c.Launch(ctx, "up")
	if err != nil || res.State != "already-running" {
		t.Fatalf("launch: %+v err=%v", res, err)
	}

	list, err := c.Commands(ctx)
	if err != nil || len(list) != 1 || list[0].Trigger != "noop" {
		t.Fatalf("commands: %+v err=%v", list, err)
	}

	pid, err := c.Run(ctx, "noop")
	if err != nil || pid <= 0 {
		t.Fatalf("run: pid=%d err=%v", pid, err)
	}
	if _, err := c.Run(ctx, "ghost"); err == nil {
		t.Fatal("unknown trigger should error")
	}
}

func TestClientUnreachable(t *testing.T) {
	c := New(Config{BaseURL: "http://127.0.0.1:1/api"})
	if c.IsReachable(context.Background()) {
		t.Fatal("nothing listens there")
	}
}
