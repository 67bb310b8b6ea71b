package main

import (
	"strings"
	"testing"

	"github.com/amishk599/jobscout/internal/config"
)

func TestResolveConfigPath(t *testing.T) {
	t.Setenv("JOBSCOUT_CONFIG", "")
	if got := resolveConfigPath(""); got != "config.yaml" {
		t.Errorf("default = %q, want config.yaml", got)
	}

	t.Setenv("JOBSCOUT_CONFIG", "/etc/jobscout.yaml")
	if got := resolveConfigPath(""); got != "/etc/jobscout.yaml" {
		t.Errorf("env = %q, want /etc/jobscout.yaml", got)
	}
	if got := resolveConfigPath("local.yaml"); got != "local.yaml" {
		t.Errorf("flag = %q, want local.yaml", got)
	}
}

func TestBuildQueries_SkipsDisabled(t *testing.T) {
	cfg := &config.Config{Queries: []config.QueryConfig{
		{Name: "go", String: `"golang" AND remote`, Enabled: true},
		{Name: "off", String: "x", Enabled: false},
		{Name: "sre", String: `"site reliability"`, Enabled: true},
	}}

	queries := buildQueries(cfg)
	if len(queries) != 2 {
		t.Fatalf("queries = %d, want 2", len(queries))
	}
	if queries[0].Name != "go" || queries[1].String != `"site reliability"` {
		t.Errorf("queries = %+v", queries)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"run": false, "search": false, "history": false, "review": false, "notify": false, "version": false}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestNotifyTest_RejectsUnknownKind(t *testing.T) {
	t.Cleanup(func() { notifyKind = "detailed" })
	notifyKind = "urgent"

	err := runNotifyTest(notifyTestCmd, nil)
	if err == nil || !strings.Contains(err.Error(), "unknown alert kind") {
		t.Errorf("err = %v, want unknown alert kind", err)
	}
}
