package player

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
//
// Sends never block the coordinator: when a subscriber falls behind, events are dropped.
type Subscription struct {
	StateChanged    <-chan StateChange
	TrackChanged    <-chan TrackChange
	QueueChanged    <-chan QueueChange
	ModeChanged     <-chan ModeChange
	ProgressChanged <-chan ProgressChange
	VolumeChanged   <-chan VolumeChange
	LyricsChanged   <-chan LyricsChange
	Error           <-chan ErrorEvent
	Done            <-chan struct{}

	stateCh    chan StateChange
	trackCh    chan TrackChange
	queueCh    chan QueueChange
	modeCh     chan ModeChange
	progressCh chan ProgressChange
	volumeCh   chan VolumeChange
	lyricsCh   chan LyricsChange
	errorCh    chan ErrorEvent
	doneCh     chan struct{}
}

func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		trackCh:    make(chan TrackChange, eventBufferSize),
		queueCh:    make(chan QueueChange, eventBufferSize),
		modeCh:     make(chan ModeChange, eventBufferSize),
		progressCh: make(chan ProgressChange, eventBufferSize),
		volumeCh:   make(chan VolumeChange, eventBufferSize),
		lyricsCh:   make(chan LyricsChange, eventBufferSize),
		errorCh:    make(chan ErrorEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.TrackChanged = s.trackCh
	s.QueueChanged = s.queueCh
	s.ModeChanged = s.modeCh
	s.ProgressChanged = s.progressCh
	s.VolumeChanged = s.volumeCh
	s.LyricsChanged = s.lyricsCh
	s.Error = s.errorCh
	s.Done = s.doneCh
	return s
}

func (s *Subscription) close() {
	close(s.doneCh)
}

// send delivers e on ch unless the buffer is full.
func send[E any](ch chan E, e E) {
	select {
	case ch <- e:
	default:
	}
}
