package player

import (
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/harmony/internal/shared"
)

const (
	sinkBufferSize  = 32
	unknownDuration = 180.0
)

// ClockSink is a [Sink] that plays nothing and advances a clock instead.
//
// While playing it moves the position forward on every tick, emits [TimeUpdate]
// once per tick and [Ended] when the position reaches the duration. It lets the
// coordinator and the TUI run end to end without an audio backend.
type ClockSink struct {
	mu       sync.Mutex
	src      string
	position float64
	duration float64
	volume   float64
	playing  bool

	tick  time.Duration
	scale float64

	events chan SinkEvent
	done   chan struct{}
	once   sync.Once
}

// ClockOption configures a [ClockSink].
type ClockOption func(*ClockSink)

// WithTick sets how often the clock advances. Defaults to one second.
func WithTick(d time.Duration) ClockOption {
	return func(s *ClockSink) { s.tick = d }
}

// WithSpeed makes every tick advance the position by speed × tick.
func WithSpeed(speed float64) ClockOption {
	return func(s *ClockSink) { s.scale = speed }
}

// NewClockSink creates a [ClockSink] and starts its ticker.
func NewClockSink(opts ...ClockOption) *ClockSink {
	s := &ClockSink{
		tick:   time.Second,
		scale:  1,
		volume: 1,
		events: make(chan SinkEvent, sinkBufferSize),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.run()
	return s
}

func (s *ClockSink) run() {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			for _, ev := range s.advance(s.tick.Seconds() * s.scale) {
				select {
				case s.events <- ev:
				case <-s.done:
					return
				}
			}
		}
	}
}

// advance moves the clock by step seconds and returns the events to emit.
func (s *ClockSink) advance(step float64) []SinkEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.playing {
		return nil
	}

	s.position = min(s.position+step, s.duration)
	events := []SinkEvent{{Kind: TimeUpdate, Src: s.src, Position: s.position, Duration: s.duration}}
	if s.position >= s.duration {
		s.playing = false
		events = append(events, SinkEvent{Kind: Ended, Src: s.src, Position: s.position, Duration: s.duration})
	}
	return events
}

// emit delivers ev unless the buffer is full. Used from methods the coordinator
// calls under its own lock, where blocking could deadlock.
func (s *ClockSink) emit(ev SinkEvent) {
	select {
	case s.events <- ev:
	default:
	}
}

func (s *ClockSink) Load(src string, hint float64) {
	if hint <= 0 {
		hint = unknownDuration
	}

	s.mu.Lock()
	s.src = src
	s.position = 0
	s.duration = hint
	s.playing = false
	s.mu.Unlock()

	s.emit(SinkEvent{Kind: DurationKnown, Src: src, Duration: hint})
}

// Play starts the clock. Without a source it is rejected.
func (s *ClockSink) Play() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.src == "" {
		return fmt.Errorf("%w: no source loaded", shared.ErrPlaybackRejected)
	}
	if s.position >= s.duration {
		s.position = 0
	}
	s.playing = true
	return nil
}

func (s *ClockSink) Pause() {
	s.mu.Lock()
	s.playing = false
	s.mu.Unlock()
}

func (s *ClockSink) Seek(seconds float64) {
	s.mu.Lock()
	s.position = max(0, min(seconds, s.duration))
	ev := SinkEvent{Kind: TimeUpdate, Src: s.src, Position: s.position, Duration: s.duration}
	s.mu.Unlock()

	s.emit(ev)
}

func (s *ClockSink) SetVolume(v float64) {
	s.mu.Lock()
	s.volume = v
	s.mu.Unlock()
}

// Volume returns the last volume set.
func (s *ClockSink) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// Playing reports whether the clock is running.
func (s *ClockSink) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *ClockSink) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position
}

func (s *ClockSink) Duration() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.duration
}

func (s *ClockSink) Events() <-chan SinkEvent {
	return s.events
}

// Close stops the ticker. It is safe to call more than once.
func (s *ClockSink) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

var _ Sink = (*ClockSink)(nil)
