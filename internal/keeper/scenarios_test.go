package keeper

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/timefence/timefence/internal/store"
)

// End-to-end runs against the real system clock and filesystem.

func TestScenarioCleanFreshBlock(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), ".fence"))

	k, err := New(Config{Cipher: testCipher, Store: st})
	if err != nil {
		t.Fatal(err)
	}
	if err := k.Initialize(3_600_000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(k.Dispose)

	if got := k.Remaining(); got != 3_600_000 {
		t.Fatalf("Remaining = %d immediately after initialize", got)
	}

	time.Sleep(200 * time.Millisecond)
	k.Debit()

	got := k.Remaining()
	if got < 3_599_000 || got > 3_600_000-190 {
		t.Errorf("Remaining = %d after 200ms, want roughly 3599800", got)
	}
	if k.IsTampered() {
		t.Error("tampered on a clean fresh block")
	}
}

func TestScenarioPersistenceAcrossRestart(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), ".fence"))

	a, err := New(Config{Cipher: testCipher, Store: st})
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Initialize(1_800_000); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	a.Dispose()

	b, err := New(Config{Cipher: testCipher, Store: st})
	if err != nil {
		t.Fatal(err)
	}
	if err := b.Initialize(0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(b.Dispose)

	got := b.Remaining()
	if got < 1_799_000 || got > 1_800_000 {
		t.Errorf("Remaining = %d, want within [1799000, 1800000]", got)
	}
	if b.IsTampered() {
		t.Error("clean restart must not tamper")
	}
}
