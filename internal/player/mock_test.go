package player

import "sync"

// MockSink records every command it receives.
type MockSink struct {
	mu       sync.Mutex
	src      string
	position float64
	duration float64
	volume   float64
	playing  bool
	playErr  error

	loads  []string
	plays  int
	pauses int
	seeks  []float64
	events chan SinkEvent
}

// NewMockSink creates a new mock sink for testing.
func NewMockSink() *MockSink {
	return &MockSink{events: make(chan SinkEvent, sinkBufferSize)}
}

func (m *MockSink) Load(src string, hint float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads = append(m.loads, src)
	m.src = src
	m.position = 0
	m.duration = hint
	m.playing = false
}

func (m *MockSink) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plays++
	if m.playErr != nil {
		m.playing = false
		return m.playErr
	}
	m.playing = true
	return nil
}

func (m *MockSink) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauses++
	m.playing = false
}

func (m *MockSink) Seek(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seeks = append(m.seeks, seconds)
	m.position = max(0, seconds)
	if m.duration > 0 {
		m.position = min(m.position, m.duration)
	}
}

func (m *MockSink) SetVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = v
}

func (m *MockSink) Position() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *MockSink) Duration() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *MockSink) Events() <-chan SinkEvent { return m.events }

func (m *MockSink) Close() error { return nil }

// SetPosition moves the playhead without recording a seek.
func (m *MockSink) SetPosition(seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = seconds
}

// SetPlayError makes subsequent Play calls fail with err.
func (m *MockSink) SetPlayError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

// Emit queues ev as if the sink produced it.
func (m *MockSink) Emit(ev SinkEvent) {
	m.events <- ev
}

// Src returns the loaded source.
func (m *MockSink) Src() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.src
}

// Loads returns every source loaded, in order.
func (m *MockSink) Loads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loads...)
}

// Plays returns the number of Play calls.
func (m *MockSink) Plays() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.plays
}

// Pauses returns the number of Pause calls.
func (m *MockSink) Pauses() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauses
}

// Seeks returns every seek target, in order.
func (m *MockSink) Seeks() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.seeks...)
}

// Playing reports whether the last Play succeeded and was not paused since.
func (m *MockSink) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

// Volume returns the last volume set.
func (m *MockSink) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

var _ Sink = (*MockSink)(nil)
