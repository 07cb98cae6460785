package main

import (
	"context"
	"testing"
)

func TestRun_help(t *testing.T) {
	if code := run(context.Background(), []string{"--help"}); code != 0 {
		t.Errorf("run --help: got exit code %d", code)
	}
}

func TestRun_version(t *testing.T) {
	if code := run(context.Background(), []string{"--version"}); code != 0 {
		t.Errorf("run --version: got exit code %d", code)
	}
}

func TestRun_unknownFlag(t *testing.T) {
	if code := run(context.Background(), []string{"--unknown-flag"}); code != 1 {
		t.Errorf("run --unknown-flag: got exit code %d, want 1", code)
	}
}

func TestRun_today(t *testing.T) {
	home := t.TempDir()
	if code := run(context.Background(), []string{"--home", home, "today", "--date", "2026-10-16"}); code != 0 {
		t.Errorf("run today: got exit code %d", code)
	}
}
