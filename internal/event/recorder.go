package event

// Recorder keeps every event and cue it receives, in arrival order.
// It is both a Renderer and an Audio. Not safe for concurrent use.
type Recorder struct {
	Events []Event
	Cues   []Cue
}

func (that *Recorder) Render(ev Event) {
	that.Events = append(that.Events, ev)
}

func (that *Recorder) Play(cue Cue) {
	that.Cues = append(that.Cues, cue)
}

// Drain - returns everything recorded so far and empties the recorder.
func (that *Recorder) Drain() ([]Event, []Cue) {
	events, cues := that.Events, that.Cues
	that.Events, that.Cues = nil, nil

	return events, cues
}
