package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/dgallion1/docchunk/internal/chunker"
	"github.com/dgallion1/docchunk/internal/document"
)

func waitForStatus(t *testing.T, job *Job, want JobStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if job.Snapshot().Status == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s: expected status %q, got %q", job.ID, want, job.Snapshot().Status)
}

func TestOrchestrator_ProcessesSubmittedJobs(t *testing.T) {
	loader := &fakeLoader{texts: map[string]string{
		"a.txt": "First document text.",
		"b.txt": "Second document text.",
	}}
	idx := &fakeIndex{}
	o := NewOrchestrator(Options{WorkerCount: 2, MaxQueueSize: 4, Chunk: chunker.DefaultConfig()}, loader, idx, discardLogger())
	o.Start(context.Background())
	defer o.Stop()

	a := NewJob(document.Document{Source: "a.txt"})
	b := NewJob(document.Document{Source: "b.txt"})
	if err := o.Submit(a); err != nil {
		t.Fatal(err)
	}
	if err := o.Submit(b); err != nil {
		t.Fatal(err)
	}

	waitForStatus(t, a, StatusCompleted)
	waitForStatus(t, b, StatusCompleted)
	if o.GetJob(a.ID) != a {
		t.Error("expected job to be retrievable by id")
	}
	if got := len(idx.Records()); got != 2 {
		t.Errorf("expected 2 records indexed, got %d", got)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	// Not started: nothing drains the queue.
	o := NewOrchestrator(Options{WorkerCount: 1, MaxQueueSize: 1}, &fakeLoader{}, &fakeIndex{}, discardLogger())

	if err := o.Submit(NewJob(document.Document{Source: "a.txt"})); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	overflow := NewJob(document.Document{Source: "b.txt"})
	if err := o.Submit(overflow); err == nil {
		t.Fatal("expected queue full error")
	}
	if snap := overflow.Snapshot(); snap.Status != StatusFailed || snap.Phase != "queue_full" {
		t.Errorf("expected failed/queue_full, got %q/%q", snap.Status, snap.Phase)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}

func TestOrchestrator_StopIsIdempotent(t *testing.T) {
	o := NewOrchestrator(Options{}, &fakeLoader{}, &fakeIndex{}, discardLogger())
	o.Start(context.Background())
	o.Stop()
	o.Stop()
}
