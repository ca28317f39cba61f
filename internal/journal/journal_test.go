package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndTail(t *testing.T) {
	j := openTestJournal(t)

	events := []Event{
		{Kind: KindDaemonStart, RemainingMS: 3_600_000},
		{Kind: KindHeartbeatSaved, RemainingMS: 3_590_000, HeartbeatCount: 1},
		{Kind: KindHeartbeatSaved, RemainingMS: 3_580_000, HeartbeatCount: 2},
	}
	for _, ev := range events {
		if err := j.Record(ev); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	got, err := j.Tail(10)
	if err != nil {
		t.Fatalf("Tail: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Tail returned %d events, want 3", len(got))
	}
	if got[0].Kind != KindDaemonStart {
		t.Errorf("first event = %s, want daemon_start", got[0].Kind)
	}
	if got[2].HeartbeatCount != 2 {
		t.Errorf("last event heartbeat_count = %d, want 2", got[2].HeartbeatCount)
	}
}

func TestTailLimit(t *testing.T) {
	j := openTestJournal(t)

	for i := 0; i < 20; i++ {
		if err := j.Record(Event{Kind: KindHeartbeatSaved, HeartbeatCount: uint64(i)}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := j.Tail(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 5 {
		t.Fatalf("Tail(5) returned %d events", len(got))
	}
	// Most recent five, oldest first.
	if got[0].HeartbeatCount != 15 || got[4].HeartbeatCount != 19 {
		t.Errorf("unexpected tail window: first %d, last %d", got[0].HeartbeatCount, got[4].HeartbeatCount)
	}
}

func TestRecordFillsIDAndTimestamp(t *testing.T) {
	j := openTestJournal(t)

	before := time.Now().UTC().Add(-time.Second)
	if err := j.Record(Event{Kind: KindTamperDetected, DiscrepancyMS: 31_536_000_000, Detail: "wall jump"}); err != nil {
		t.Fatal(err)
	}

	got, err := j.Tail(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatal("expected one event")
	}
	if got[0].ID == "" {
		t.Error("ID not filled")
	}
	if got[0].At.Before(before) {
		t.Errorf("timestamp not filled: %v", got[0].At)
	}
	if got[0].DiscrepancyMS != 31_536_000_000 {
		t.Errorf("discrepancy = %d", got[0].DiscrepancyMS)
	}
}

func TestReopenKeepsEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := j.Record(Event{Kind: KindDaemonStart}); err != nil {
		t.Fatal(err)
	}
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}

	j2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer j2.Close()

	got, err := j2.Tail(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Errorf("events lost across reopen: got %d", len(got))
	}
}
