package watch

import (
	"errors"
	"sync"
	"testing"
	"time"

	"skinforge"
)

type recordSink struct {
	mu     sync.Mutex
	events []string

	startedErr  error
	completeErr error
	logErr      error

	block chan struct{} // when non-nil, BuildLog blocks until closed
}

func (r *recordSink) TaskStarted(message string) error {
	r.record("started:" + message)
	return r.startedErr
}

func (r *recordSink) BuildLog(message string, level skinforge.LogLevel) error {
	if r.block != nil {
		<-r.block
	}
	r.record("log:" + message)
	return r.logErr
}

func (r *recordSink) BuildProgress(current, total int, status string) error {
	r.record("progress:" + status)
	return nil
}

func (r *recordSink) BuildComplete(success bool, exitCode int, message string) error {
	r.record("complete:" + message)
	return r.completeErr
}

func (r *recordSink) record(s string) {
	r.mu.Lock()
	r.events = append(r.events, s)
	r.mu.Unlock()
}

func (r *recordSink) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func TestBrokerPreservesOrderPerSubscriber(t *testing.T) {
	b := NewBroker()
	sink := &recordSink{}
	unsub := b.Subscribe(sink)

	if err := b.TaskStarted("init"); err != nil {
		t.Fatal(err)
	}
	_ = b.BuildProgress(1, 2, "bundle ui")
	_ = b.BuildLog("line one", skinforge.LevelInfo)
	if err := b.BuildComplete(true, 0, "done"); err != nil {
		t.Fatal(err)
	}
	unsub()

	want := []string{"started:init", "progress:bundle ui", "log:line one", "complete:done"}
	got := sink.snapshot()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBrokerFansOutToAllSubscribers(t *testing.T) {
	b := NewBroker()
	a, c := &recordSink{}, &recordSink{}
	b.Subscribe(a)
	b.Subscribe(c)

	if err := b.TaskStarted("init"); err != nil {
		t.Fatal(err)
	}
	b.Close()

	if len(a.snapshot()) != 1 || len(c.snapshot()) != 1 {
		t.Fatalf("both subscribers must see the milestone: %v / %v", a.snapshot(), c.snapshot())
	}
}

func TestBrokerMilestoneFailurePropagates(t *testing.T) {
	b := NewBroker()
	failed := errors.New("sink gone")
	b.Subscribe(&recordSink{completeErr: failed})
	defer b.Close()

	if err := b.BuildComplete(false, 1, "boom"); !errors.Is(err, failed) {
		t.Fatalf("got err %v, want propagation", err)
	}
}

func TestBrokerRoutineFailureIgnored(t *testing.T) {
	b := NewBroker()
	b.Subscribe(&recordSink{logErr: errors.New("sink gone")})
	defer b.Close()

	if err := b.BuildLog("line", skinforge.LevelInfo); err != nil {
		t.Fatalf("routine emit failures must not propagate: %v", err)
	}
}

func TestBrokerRoutineNeverBlocks(t *testing.T) {
	b := NewBroker()
	stuck := &recordSink{block: make(chan struct{})}
	b.Subscribe(stuck)
	defer func() {
		close(stuck.block)
		b.Close()
	}()

	done := make(chan struct{})
	go func() {
		// Far more events than the queue holds; extras must be dropped.
		for i := 0; i < 10*subscriberBufferCap; i++ {
			_ = b.BuildLog("line", skinforge.LevelInfo)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("routine publish blocked on a stuck subscriber")
	}
}

func TestBrokerUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBroker()
	sink := &recordSink{}
	unsub := b.Subscribe(sink)
	unsub()
	unsub() // idempotent

	_ = b.BuildLog("after", skinforge.LevelInfo)
	b.Close()

	if len(sink.snapshot()) != 0 {
		t.Fatalf("unsubscribed sink received events: %v", sink.snapshot())
	}
}

func TestBrokerPublishRacingUnsubscribe(t *testing.T) {
	// Routine publishes must never land on a channel the unsubscribe path
	// has already closed, no matter how the two interleave.
	b := NewBroker()
	defer b.Close()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					b.BuildLog("line", skinforge.LevelInfo)
				}
			}
		}()
	}

	for i := 0; i < 2000; i++ {
		unsubscribe := b.Subscribe(&recordSink{})
		unsubscribe()
	}

	close(stop)
	wg.Wait()
}
