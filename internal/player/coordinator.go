package player

import (
	"context"
	"io"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/harmony/internal/models"
)

const (
	DefaultVolume       = 0.7
	DefaultFallbackTerm = "trending"

	// restartThreshold is the position in seconds from which Retreat restarts
	// the current track instead of moving back.
	restartThreshold = 3.0
	// unmuteVolume is used by ToggleMute when no non-zero volume was ever set.
	unmuteVolume = 0.5
)

// Catalog is the part of the song catalog the coordinator needs. Implementations
// return empty values along with an error when the upstream is unavailable.
type Catalog interface {
	Search(ctx context.Context, term string) ([]models.Track, error)
	Lyrics(ctx context.Context, id string) (models.Lyrics, error)
}

// Executor runs asynchronous work (lyrics fetches, autoplay extension).
type Executor func(func())

func goExecutor(fn func()) { go fn() }

// Inline runs work on the calling goroutine. Useful in tests.
func Inline(fn func()) { fn() }

// Coordinator is the single source of truth for what is playing and what plays next.
// It is the only component that commands the [Sink].
//
// Every exported method is safe for concurrent use; queue mutations are serialized
// by one mutex. Operations that touch snapshot fields persist through the
// [Persister] after the lock is released.
type Coordinator struct {
	mu sync.Mutex

	sink      Sink
	catalog   Catalog
	persister Persister
	logger    *log.Logger
	rng       *rand.Rand
	exec      Executor
	fallback  string

	queue      []models.Track
	original   []models.Track
	index      int
	current    *models.Track
	state      State
	volume     float64
	lastVolume float64
	shuffle    bool
	repeat     RepeatMode
	position   int
	duration   int
	lyricsKey  string
	lyrics     string

	// generation is bumped by every user PlayTrack, JumpTo and Retreat;
	// autoplay results carry the generation they were requested under and are
	// dropped when it moved on.
	generation uint64
	extending  bool
	extendGen  uint64
	jobs       []func()

	ctx    context.Context
	cancel context.CancelFunc

	subs   []*Subscription
	subsMu sync.RWMutex
	closed bool
}

// Option configures a [Coordinator].
type Option func(*Coordinator)

func WithCatalog(catalog Catalog) Option {
	return func(c *Coordinator) { c.catalog = catalog }
}

func WithPersister(p Persister) Option {
	return func(c *Coordinator) { c.persister = p }
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// WithRand sets the source used for shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(c *Coordinator) { c.rng = rng }
}

// WithExecutor replaces the goroutine-per-job default.
func WithExecutor(exec Executor) Option {
	return func(c *Coordinator) { c.exec = exec }
}

// WithFallbackTerm sets the autoplay search term used when the current track has no artist.
func WithFallbackTerm(term string) Option {
	return func(c *Coordinator) {
		if term != "" {
			c.fallback = term
		}
	}
}

// WithVolume sets the initial volume, clamped to [0, 1]. Zero starts muted
// with no volume to restore.
func WithVolume(v float64) Option {
	return func(c *Coordinator) {
		c.volume = clampVolume(v)
		c.lastVolume = c.volume
	}
}

// New creates an idle coordinator driving sink.
func New(sink Sink, opts ...Option) *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		sink:       sink,
		index:      -1,
		volume:     DefaultVolume,
		lastVolume: DefaultVolume,
		fallback:   DefaultFallbackTerm,
		exec:       goExecutor,
		ctx:        ctx,
		cancel:     cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	if c.rng == nil {
		seed := uint64(time.Now().UnixNano())
		c.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	sink.SetVolume(c.volume)
	return c
}

// update runs fn under the lock and persists the resulting snapshot before
// releasing it, so saves reach the persister in mutation order. The async jobs
// fn scheduled run after the lock is released. Persisters must not call back
// into the coordinator.
func (c *Coordinator) update(fn func() error) error {
	c.mu.Lock()
	err := fn()
	c.save(c.snapshotLocked())
	jobs := c.jobs
	c.jobs = nil
	c.mu.Unlock()

	for _, job := range jobs {
		c.exec(job)
	}
	return err
}

// Run consumes sink events until ctx is cancelled or the coordinator is closed.
func (c *Coordinator) Run(ctx context.Context) error {
	events := c.sink.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			c.HandleSinkEvent(ev)
		}
	}
}

// HandleSinkEvent applies one sink event. Events for a source other than the
// current track are ignored. [Ended] always advances.
func (c *Coordinator) HandleSinkEvent(ev SinkEvent) {
	if ev.Kind == Ended {
		_ = c.update(func() error {
			if c.isCurrentSrc(ev.Src) {
				c.advanceLocked()
			}
			return nil
		})
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isCurrentSrc(ev.Src) {
		return
	}

	position, duration := int(ev.Position), c.duration
	if ev.Duration > 0 {
		duration = int(ev.Duration)
	}
	if ev.Kind == DurationKnown {
		position = c.position
	}
	if position == c.position && duration == c.duration {
		return
	}
	c.position, c.duration = position, duration
	c.publishProgress()
}

func (c *Coordinator) isCurrentSrc(src string) bool {
	return c.current != nil && c.current.PlayableURL == src
}

// Subscribe creates a new event subscription.
func (c *Coordinator) Subscribe() *Subscription {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	sub := newSubscription()
	c.subs = append(c.subs, sub)
	return sub
}

// Close cancels in-flight async work, ends every subscription and closes the sink.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.cancel()
	c.mu.Unlock()

	c.subsMu.Lock()
	for _, sub := range c.subs {
		sub.close()
	}
	c.subs = nil
	c.subsMu.Unlock()

	return c.sink.Close()
}

func (c *Coordinator) each(fn func(*Subscription)) {
	c.subsMu.RLock()
	defer c.subsMu.RUnlock()
	for _, sub := range c.subs {
		fn(sub)
	}
}

func (c *Coordinator) setState(s State) {
	if s == c.state {
		return
	}
	prev := c.state
	c.state = s
	c.each(func(sub *Subscription) { send(sub.stateCh, StateChange{Previous: prev, Current: s}) })
}

func (c *Coordinator) publishQueue() {
	e := QueueChange{Tracks: slices.Clone(c.queue), Index: c.index}
	c.each(func(sub *Subscription) { send(sub.queueCh, e) })
}

func (c *Coordinator) publishMode() {
	e := ModeChange{Repeat: c.repeat, Shuffle: c.shuffle}
	c.each(func(sub *Subscription) { send(sub.modeCh, e) })
}

func (c *Coordinator) publishProgress() {
	e := ProgressChange{Position: c.position, Duration: c.duration}
	c.each(func(sub *Subscription) { send(sub.progressCh, e) })
}

func (c *Coordinator) publishVolume() {
	e := VolumeChange{Volume: c.volume}
	c.each(func(sub *Subscription) { send(sub.volumeCh, e) })
}

func (c *Coordinator) setLyrics(key, text string) {
	c.lyricsKey, c.lyrics = key, text
	e := LyricsChange{Key: key, Text: text}
	c.each(func(sub *Subscription) { send(sub.lyricsCh, e) })
}

// fail logs err and reports it to subscribers. Nothing is retried.
func (c *Coordinator) fail(op, key string, err error) {
	c.logger.Warn("playback operation failed", "op", op, "track", key, "err", err)
	e := ErrorEvent{Operation: op, Key: key, Err: err}
	c.each(func(sub *Subscription) { send(sub.errorCh, e) })
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) IsPlaying() bool {
	return c.State() == StatePlaying
}

// CurrentTrack returns the current track, if any.
func (c *Coordinator) CurrentTrack() (models.Track, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return models.Track{}, false
	}
	return *c.current, true
}

// Queue returns a copy of the queue.
func (c *Coordinator) Queue() []models.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.queue)
}

// CurrentIndex returns the queue position of the current track, or -1.
func (c *Coordinator) CurrentIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

func (c *Coordinator) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

func (c *Coordinator) Shuffle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.shuffle
}

func (c *Coordinator) Repeat() RepeatMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.repeat
}

// Progress returns position and duration in whole seconds.
func (c *Coordinator) Progress() (position, duration int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position, c.duration
}

// Lyrics returns the latest lyrics text and the key of the track it was fetched for.
func (c *Coordinator) Lyrics() (key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lyricsKey, c.lyrics
}

// Extending reports whether an autoplay extension is in flight.
func (c *Coordinator) Extending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.extending
}

func clampVolume(v float64) float64 {
	return max(0, min(v, 1))
}
