package feed

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"reelfeed/internal/catalog"
	"reelfeed/internal/likes"
	"reelfeed/internal/pexels"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	DefaultTargetCount = 200
	DefaultPageSize    = 80

	subscriberBuffer = 8
)

// CatalogFetcher builds a complete catalog in one call.
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context, target, pageSize int) ([]catalog.Item, error)
}

// LikeService is the part of the like store the controller exposes.
type LikeService interface {
	IsLiked(itemID int64) bool
	LikeCount(itemID int64) int
	Toggle(itemID int64) (likes.Record, error)
	TotalLikes(ids []int64) int
}

type Options struct {
	TargetCount int
	PageSize    int
}

// Event is published on every state transition.
type Event struct {
	State State
	Count int
	Err   error
}

// Controller owns the current catalog and drives loads through the
// idle -> loading -> loaded|failed cycle. Only one load runs at a time.
type Controller struct {
	fetcher CatalogFetcher
	likes   LikeService
	opts    Options
	logger  zerolog.Logger

	mu       sync.RWMutex
	state    State
	items    []catalog.Item
	lastErr  error
	loadDone chan struct{}

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

func New(fetcher CatalogFetcher, likeService LikeService, opts Options, logger zerolog.Logger) *Controller {
	if opts.TargetCount <= 0 {
		opts.TargetCount = DefaultTargetCount
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}

	return &Controller{
		fetcher: fetcher,
		likes:   likeService,
		opts:    opts,
		logger:  logger.With().Str("component", "feed").Logger(),
		state:   StateIdle,
		items:   []catalog.Item{},
		subs:    make(map[int]chan Event),
	}
}

// Load starts a background reload. It returns false and does nothing when a
// load is already running. The load is not cancelled if ctx is.
func (c *Controller) Load(ctx context.Context) bool {
	started, _ := c.start(ctx)
	return started
}

// LoadAndWait starts a load, or joins the one in flight, and waits for it to
// finish. It returns the load's error, or ctx.Err() if ctx ends first.
func (c *Controller) LoadAndWait(ctx context.Context) error {
	_, done := c.start(ctx)

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state == StateFailed {
		return c.lastErr
	}
	return nil
}

func (c *Controller) start(ctx context.Context) (bool, <-chan struct{}) {
	c.mu.Lock()
	if c.state == StateLoading {
		done := c.loadDone
		c.mu.Unlock()
		c.logger.Debug().Msg("load already in progress")
		return false, done
	}

	done := make(chan struct{})
	c.state = StateLoading
	c.loadDone = done
	c.publish(Event{State: StateLoading, Count: len(c.items)})
	c.mu.Unlock()

	c.logger.Info().
		Int("target", c.opts.TargetCount).
		Int("per_page", c.opts.PageSize).
		Msg("loading catalog")

	go c.run(context.WithoutCancel(ctx), done)

	return true, done
}

func (c *Controller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	items, err := c.fetcher.FetchCatalog(ctx, c.opts.TargetCount, c.opts.PageSize)

	c.mu.Lock()
	if err != nil {
		// keep the previous catalog
		c.state = StateFailed
		c.lastErr = err
	} else {
		c.state = StateLoaded
		c.items = items
		c.lastErr = nil
	}
	c.publish(Event{State: c.state, Count: len(c.items), Err: err})
	c.mu.Unlock()

	if err != nil {
		c.logger.Error().Err(err).Msg("catalog load failed")
	} else {
		c.logger.Info().Int("count", len(items)).Msg("catalog loaded")
	}
}

func (c *Controller) CurrentState() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// LastError is the error of the most recent failed load, cleared by a
// successful one.
func (c *Controller) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// ErrorMessage is LastError in user-facing form.
func (c *Controller) ErrorMessage() string {
	return pexels.Message(c.LastError())
}

func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Items returns a copy of the current catalog.
func (c *Controller) Items() []catalog.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]catalog.Item, len(c.items))
	copy(out, c.items)
	return out
}

// ItemAt returns the item at index, or false when index is out of range.
func (c *Controller) ItemAt(index int) (catalog.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if index < 0 || index >= len(c.items) {
		return catalog.Item{}, false
	}
	return c.items[index], true
}

func (c *Controller) ToggleLike(itemID int64) (likes.Record, error) {
	return c.likes.Toggle(itemID)
}

func (c *Controller) IsLiked(itemID int64) bool {
	return c.likes.IsLiked(itemID)
}

func (c *Controller) LikeCount(itemID int64) int {
	return c.likes.LikeCount(itemID)
}

// Subscribe registers for state transitions. Events are dropped for a
// subscriber whose buffer is full. Call the returned func to unsubscribe.
func (c *Controller) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	c.subMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	c.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
			close(ch)
		})
	}
}

// publish is called with mu held so subscribers see transitions in order.
func (c *Controller) publish(ev Event) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for id, ch := range c.subs {
		select {
		case ch <- ev:
		default:
			c.logger.Warn().Int("subscriber", id).Str("state", ev.State.String()).Msg("dropping event for slow subscriber")
		}
	}
}
