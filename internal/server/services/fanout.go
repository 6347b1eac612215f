package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/printdesk/internal/logging"
	"github.com/dmitrijs2005/printdesk/internal/server/config"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
	"github.com/google/uuid"
)

// subscriberBuffer absorbs short bursts before the delivery timeout starts
// counting against a slow consumer.
const subscriberBuffer = 16

// deliveryTimeout bounds how long a publish goroutine waits on one subscriber
// before dropping the event for them.
var deliveryTimeout = 2 * time.Second

type subscriber struct {
	session *models.Session
	ch      chan *models.Event
	done    chan struct{}
	once    sync.Once
}

// stop closes done exactly once. The event channel itself is never closed;
// senders race with unsubscription and must not panic.
func (s *subscriber) stop() {
	s.once.Do(func() { close(s.done) })
}

// FanoutService delivers state-change events to subscribed sessions.
// Delivery is best-effort and fully decoupled from the operations that
// publish: a slow or gone subscriber costs one goroutine for at most
// deliveryTimeout and then the event is counted as dropped.
type FanoutService struct {
	sessions          *SessionService
	logger            logging.Logger
	reconcileInterval time.Duration

	mu      sync.RWMutex
	subs    map[string]*subscriber
	dropped atomic.Int64
}

// NewFanoutService constructs a FanoutService. The session service is used by
// the reconciler to evict subscribers whose sessions no longer validate.
func NewFanoutService(sessions *SessionService, cfg *config.Config, logger logging.Logger) *FanoutService {
	return &FanoutService{
		sessions:          sessions,
		logger:            logger.With("component", "fanout"),
		reconcileInterval: cfg.ReconcileInterval,
		subs:              make(map[string]*subscriber),
	}
}

// Subscribe registers the session for event delivery and returns the receive
// channel plus a cancel function. Subscribing twice with the same session
// token replaces the previous registration.
func (f *FanoutService) Subscribe(session *models.Session) (<-chan *models.Event, func()) {
	sub := &subscriber{
		session: session,
		ch:      make(chan *models.Event, subscriberBuffer),
		done:    make(chan struct{}),
	}

	f.mu.Lock()
	if old, ok := f.subs[session.Token]; ok {
		old.stop()
	}
	f.subs[session.Token] = sub
	f.mu.Unlock()

	return sub.ch, func() { f.unsubscribe(session.Token, sub) }
}

func (f *FanoutService) unsubscribe(token string, sub *subscriber) {
	sub.stop()
	f.mu.Lock()
	if cur, ok := f.subs[token]; ok && cur == sub {
		delete(f.subs, token)
	}
	f.mu.Unlock()
}

// SubscriberCount returns the number of registered subscribers.
func (f *FanoutService) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

// Dropped returns how many deliveries have been abandoned so far.
func (f *FanoutService) Dropped() int64 {
	return f.dropped.Load()
}

// wants reports whether the event's scope selects this subscriber's session.
func wants(event *models.Event, session *models.Session) bool {
	switch event.Scope {
	case models.EventScopeBroadcast:
		return true
	case models.EventScopeActor:
		return session.IsAdmin() || session.Username == event.Target
	case models.EventScopeAdmin:
		return session.IsAdmin()
	default:
		return false
	}
}

// Publish fans the event out to every matching subscriber. It fills in the
// event ID and timestamp if unset and returns immediately; each delivery runs
// in its own goroutine so a stuck consumer never blocks the caller or the
// other subscribers.
func (f *FanoutService) Publish(ctx context.Context, event *models.Event) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	f.mu.RLock()
	targets := make([]*subscriber, 0, len(f.subs))
	for _, sub := range f.subs {
		if wants(event, sub.session) {
			targets = append(targets, sub)
		}
	}
	f.mu.RUnlock()

	for _, sub := range targets {
		go f.deliver(ctx, sub, event)
	}
}

func (f *FanoutService) deliver(ctx context.Context, sub *subscriber, event *models.Event) {
	timer := time.NewTimer(deliveryTimeout)
	defer timer.Stop()

	select {
	case sub.ch <- event:
	case <-sub.done:
	case <-timer.C:
		f.dropped.Add(1)
		f.logger.Warn(ctx, "event dropped for slow subscriber",
			"event_type", event.Type, "username", sub.session.Username)
	}
}

// Reconcile re-validates every subscriber's session and evicts the ones that
// no longer resolve, so a revoked or expired session stops receiving events
// even if its consumer never disconnects.
func (f *FanoutService) Reconcile(ctx context.Context) {
	f.mu.RLock()
	snapshot := make(map[string]*subscriber, len(f.subs))
	for token, sub := range f.subs {
		snapshot[token] = sub
	}
	f.mu.RUnlock()

	for token, sub := range snapshot {
		if _, err := f.sessions.Validate(ctx, token); err != nil {
			f.unsubscribe(token, sub)
			f.logger.Debug(ctx, "subscriber evicted", "username", sub.session.Username, "reason", err)
		}
	}
}

// RunReconciler periodically evicts subscribers with dead sessions until the
// context is cancelled.
func (f *FanoutService) RunReconciler(ctx context.Context) {
	ticker := time.NewTicker(f.reconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.Reconcile(ctx)
		}
	}
}
