package services

import (
	"context"
	"sync"
	"time"

	"restopos/entity"
	"restopos/repository"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// KitchenEvent is what a kitchen display receives: either a fresh snapshot of
// the active orders or a terminal error after repeated poll failures.
type KitchenEvent struct {
	Orders []entity.Order `json:"orders,omitempty"`
	At     time.Time      `json:"at"`
	Err    error          `json:"-"`
}

// KitchenFeed polls the active orders once per process and fans every change
// out to its subscribers.
type KitchenFeed struct {
	DB          *gorm.DB
	Repo        *repository.OrderRepository
	Interval    time.Duration
	MaxFailures int
	Log         logrus.FieldLogger

	mu       sync.Mutex
	subs     map[int]chan KitchenEvent
	nextID   int
	last     *KitchenEvent
	failures int
}

func NewKitchenFeed(db *gorm.DB, interval time.Duration, log logrus.FieldLogger) *KitchenFeed {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &KitchenFeed{
		DB:          db,
		Repo:        repository.NewOrderRepository(db),
		Interval:    interval,
		MaxFailures: 5,
		Log:         log,
		subs:        map[int]chan KitchenEvent{},
	}
}

// Changed reports whether the displayed set differs: a different count, or
// any position holding a different order id or status.
func Changed(prev, next []entity.Order) bool {
	if len(prev) != len(next) {
		return true
	}
	for i := range prev {
		if prev[i].ID != next[i].ID || prev[i].Status != next[i].Status {
			return true
		}
	}
	return false
}

// Run polls until ctx is done.
func (f *KitchenFeed) Run(ctx context.Context) error {
	t := time.NewTicker(f.Interval)
	defer t.Stop()

	f.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			f.closeAll()
			return nil
		case <-t.C:
			f.poll(ctx)
		}
	}
}

func (f *KitchenFeed) poll(ctx context.Context) {
	orders, err := f.Repo.ListByStatus(f.DB.WithContext(ctx), entity.ActiveOrderStatuses)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		f.failures++
		f.Log.WithError(err).WithField("failures", f.failures).Warn("kitchen feed poll failed")
		if f.failures >= f.MaxFailures {
			ev := KitchenEvent{At: time.Now(), Err: errors.Wrapf(err, "kitchen feed gave up after %d attempts", f.failures)}
			for id, ch := range f.subs {
				offerLatest(ch, ev)
				close(ch)
				delete(f.subs, id)
			}
			f.failures = 0
			f.last = nil
		}
		return
	}
	f.failures = 0

	if f.last != nil && !Changed(f.last.Orders, orders) {
		return
	}
	ev := KitchenEvent{Orders: orders, At: time.Now()}
	f.last = &ev
	for _, ch := range f.subs {
		offerLatest(ch, ev)
	}
}

// offerLatest keeps only the newest event for a slow subscriber.
func offerLatest(ch chan KitchenEvent, ev KitchenEvent) {
	select {
	case ch <- ev:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- ev:
	default:
	}
}

// Subscribe registers a display. The current snapshot, if any, is delivered
// right away. The returned func unsubscribes; the channel is closed when the
// feed stops or gives up.
func (f *KitchenFeed) Subscribe() (<-chan KitchenEvent, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ch := make(chan KitchenEvent, 1)
	id := f.nextID
	f.nextID++
	f.subs[id] = ch
	if f.last != nil {
		ch <- *f.last
	}

	return ch, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if c, ok := f.subs[id]; ok {
			close(c)
			delete(f.subs, id)
		}
	}
}

func (f *KitchenFeed) closeAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, ch := range f.subs {
		close(ch)
		delete(f.subs, id)
	}
}
