package sentinel

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestReportsRemoval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".fence")
	if err := os.WriteFile(path, []byte("blob"), 0600); err != nil {
		t.Fatal(err)
	}

	var lost atomic.Int32
	s := New(path, func() { lost.Add(1) })
	s.settle = 30 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	// Let the watcher attach before removing.
	time.Sleep(100 * time.Millisecond)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for lost.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("removal never reported")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestIgnoresAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".fence")
	if err := os.WriteFile(path, []byte("old"), 0600); err != nil {
		t.Fatal(err)
	}

	var lost atomic.Int32
	s := New(path, func() { lost.Add(1) })
	s.settle = 30 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)

	// Write-temp-then-rename, the keeper's own save pattern.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte("new"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)
	if n := lost.Load(); n != 0 {
		t.Errorf("atomic replace reported as loss %d times", n)
	}
}

func TestIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".fence")
	other := filepath.Join(dir, "other")
	if err := os.WriteFile(path, []byte("blob"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(other, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	var lost atomic.Int32
	s := New(path, func() { lost.Add(1) })
	s.settle = 30 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	if err := os.Remove(other); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)
	if n := lost.Load(); n != 0 {
		t.Errorf("unrelated removal reported %d times", n)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".fence")

	s := New(path, func() {})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
