// Package watch fans build events out to multiple sinks: the console
// renderer, a debug logger, a history recorder. Per-subscriber ordering is
// preserved; routine events are dropped rather than ever blocking the
// supervisor's streamers.
package watch

import (
	"log/slog"
	"sync"

	"skinforge"
)

// subscriberBufferCap bounds queued routine events per subscriber; a full
// queue drops, it never blocks the emitter.
const subscriberBufferCap = 128

type eventKind uint8

const (
	evStarted eventKind = iota + 1
	evLog
	evProgress
	evComplete
)

type event struct {
	kind eventKind

	message string
	level   skinforge.LogLevel

	current int
	total   int
	status  string

	success  bool
	exitCode int

	// reply is non-nil for milestone events: delivery is synchronous and
	// its failure propagates to the emitter.
	reply chan error
}

// Broker implements skinforge.Sink by forwarding every event to all
// subscribed sinks, each served in order by its own goroutine.
type Broker struct {
	mu     sync.Mutex
	subs   map[uint64]*subscriber
	nextID uint64
}

type subscriber struct {
	sink skinforge.Sink
	ch   chan event
	done chan struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[uint64]*subscriber)}
}

// Subscribe registers a sink and returns its unsubscribe function, which
// waits for the subscriber's queue to drain.
func (b *Broker) Subscribe(sink skinforge.Sink) func() {
	sub := &subscriber{
		sink: sink,
		ch:   make(chan event, subscriberBufferCap),
		done: make(chan struct{}),
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	go sub.run()
	slog.Debug("build sink subscribed", "id", id)

	return func() {
		b.mu.Lock()
		registered, ok := b.subs[id]
		if ok {
			delete(b.subs, id)
		}
		b.mu.Unlock()
		if !ok {
			return
		}
		close(registered.ch)
		<-registered.done
		slog.Debug("build sink unsubscribed", "id", id)
	}
}

// Close unsubscribes every sink and waits for their queues to drain.
func (b *Broker) Close() {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[uint64]*subscriber)
	b.mu.Unlock()

	for _, sub := range subs {
		close(sub.ch)
		<-sub.done
	}
}

func (sub *subscriber) run() {
	defer close(sub.done)
	for ev := range sub.ch {
		err := sub.dispatch(ev)
		if ev.reply != nil {
			ev.reply <- err
			continue
		}
		if err != nil {
			slog.Debug("routine event dropped by sink", "err", err)
		}
	}
}

func (sub *subscriber) dispatch(ev event) error {
	switch ev.kind {
	case evStarted:
		return sub.sink.TaskStarted(ev.message)
	case evLog:
		return sub.sink.BuildLog(ev.message, ev.level)
	case evProgress:
		return sub.sink.BuildProgress(ev.current, ev.total, ev.status)
	case evComplete:
		return sub.sink.BuildComplete(ev.success, ev.exitCode, ev.message)
	default:
		return nil
	}
}

// publish queues a routine event on every subscriber, dropping on full.
// Sends happen under the registry lock: an unsubscribed channel is deleted
// under the same lock before it is closed, so a send can never race the
// close.
func (b *Broker) publish(ev event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		select {
		case sub.ch <- ev:
		default:
			slog.Debug("subscriber queue full, event dropped")
		}
	}
}

// publishMilestone enqueues on every subscriber and waits for delivery;
// the first failure is returned. Enqueueing holds the registry lock for
// the same reason publish does; only the reply collection runs unlocked.
func (b *Broker) publishMilestone(ev event) error {
	b.mu.Lock()
	replies := make([]chan error, 0, len(b.subs))
	for _, sub := range b.subs {
		reply := make(chan error, 1)
		queued := ev
		queued.reply = reply
		sub.ch <- queued
		replies = append(replies, reply)
	}
	b.mu.Unlock()

	var first error
	for _, reply := range replies {
		if err := <-reply; err != nil && first == nil {
			first = err
		}
	}
	return first
}

// --- skinforge.Sink ---

func (b *Broker) TaskStarted(message string) error {
	return b.publishMilestone(event{kind: evStarted, message: message})
}

func (b *Broker) BuildLog(message string, level skinforge.LogLevel) error {
	b.publish(event{kind: evLog, message: message, level: level})
	return nil
}

func (b *Broker) BuildProgress(current, total int, status string) error {
	b.publish(event{kind: evProgress, current: current, total: total, status: status})
	return nil
}

func (b *Broker) BuildComplete(success bool, exitCode int, message string) error {
	return b.publishMilestone(event{kind: evComplete, success: success, exitCode: exitCode, message: message})
}
