package dots

import (
	"fmt"
	"io"
)

// minuteMarker writes rough elapsed-time lines into a trace as classified
// frames accumulate. It is a progress hint, not a timestamp: the displayed
// minute always divides the frame count by 25 fps, even when the threshold
// rate was learned from the stream.
type minuteMarker struct {
	frames int
	rate   float64
}

func newMinuteMarker() *minuteMarker {
	return &minuteMarker{rate: 25}
}

// beforeFrame runs the minute test ahead of the frame increment, against
// the fixed 25 fps assumption. MPEG-2 tracing marks minutes this way, so a
// "0 minutes" line opens every trace.
func (m *minuteMarker) beforeFrame(w io.Writer) {
	if m.frames%(25*60) == 0 {
		m.mark(w)
	}
	m.frames++
}

// afterFrame increments first, then tests against the current threshold
// rate. AVS tracing marks minutes this way.
func (m *minuteMarker) afterFrame(w io.Writer) {
	m.frames++
	if m.frames%int(m.rate*60) == 0 {
		m.mark(w)
	}
}

// setRate replaces the threshold rate. Zero rates, as decoded from reserved
// frame-rate codes, are ignored.
func (m *minuteMarker) setRate(rate float64) {
	if rate > 0 {
		m.rate = rate
	}
}

func (m *minuteMarker) mark(w io.Writer) {
	mins := m.frames / (25 * 60)
	fmt.Fprintf(w, "\n%d minute%s\n", mins, plural(mins))
}
