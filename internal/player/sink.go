package player

// SinkEventKind identifies what a [SinkEvent] reports.
type SinkEventKind int

const (
	TimeUpdate SinkEventKind = iota
	DurationKnown
	Ended
)

func (k SinkEventKind) String() string {
	switch k {
	case TimeUpdate:
		return "timeupdate"
	case DurationKnown:
		return "durationchange"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

// SinkEvent is emitted by a [Sink]. Src is the source that was loaded when the
// event fired, so events from a replaced source can be told apart.
type SinkEvent struct {
	Kind     SinkEventKind
	Src      string
	Position float64
	Duration float64
}

// Sink is the single audio output handle. Only the [Coordinator] drives it.
//
// Load assigns a source without starting playback; hint is the catalog duration
// in seconds and may be ignored by sinks that read real media. Play can be
// rejected, in which case the sink stays paused. Seek clamps to [0, duration].
type Sink interface {
	Load(src string, hint float64)
	Play() error
	Pause()
	Seek(seconds float64)
	SetVolume(v float64)
	Position() float64
	Duration() float64
	Events() <-chan SinkEvent
	Close() error
}
