package dots

import (
	"fmt"
	"io"

	"github.com/etomahawk/tstools/internal/es"
)

// The verbose legends, printed ahead of a trace.
const (
	h262Legend = `
Each character represents a single H.262 item
Pictures are represented according to their picture coding
type, and the slices within a picture are not shown.
    i means an I picture
    p means a  P picture
    b means a  B picture
    d means a  D picture (these should not occur in MPEG-2)
    x means some other picture (such should not occur)
Other items are represented as follows:
    [ means a  Sequence header
    > means a  Group Start header
    E means an Extension start header
    U means a  User data header
    X means a  Sequence Error
    ] means a  Sequence End
    R means a  Reserved item
    ? means something else. This may indicate that the stream
      is not an ES representing H.262 (it might, for instance
      be PES)

`

	avsLegend = `
Each character represents a single AVS item
Frames are represented according to their picture coding
type, and the slices within a frame are not shown.
    i means an I frame
    p means a  P frame
    b means a  B frame
    _ means a (stray) slice, normally only at the start of a stream
    ! means something else (this should not be possible)
Other items are represented as follows:
    [ means a  Sequence header
    E means an Extension start header
    U means a  User data header
    ] means a  Sequence End
    V means a  Video edit item
    ? means something else. This may indicate that the stream
      is not an ES representing AVS (it might, for instance
      be PES)

`

	h264Legend = `
Each character represents a single access unit

    D       means an IDR.
    d       means an IDR that is not all I slices.
    I, P, B means all slices of the primary picture are I, P or B,
            and this is a reference picture.
    i, p, b means all slices of the primary picture are I, P or B,
            and this is NOT a reference picture.
    X or x  means that not all slices are of the same type.
    ?       means some other type of access unit.
    _       means that the access unit doesn't contain a primary picture.

If -hasheos was specified:
    # means an EOS (end-of-stream) NAL unit.

`
)

// The raw ES unit legend is assembled from a shared header and trailer
// around a per-family body.
const (
	esLegendHeader = `
Each character represents a single ES unit
`

	esH262LegendBody = `Pictures are represented according to their picture coding
type, and the slices within a picture are not shown.
    i means an I picture
    p means a  P picture
    b means a  B picture
    d means a  D picture (these should not occur in MPEG-2)
    ! means some other picture (such should not occur)
Other items are represented as follows:
    [ means a  Sequence header
    > means a  Group Start header
    E means an Extension start header
    U means a  User data header
    X means a  Sequence Error
    ] means a  Sequence End
    R means a  Reserved item
`

	esAVSLegendBody = `Frames are represented according to their picture coding
type, and the slices within a frame are not shown.
    i means an I frame
    p means a  P frame
    b means a  B frame
    _ means a slice
    ! means something else (this should not be possible)
Other items are represented as follows:
    [ means a  Sequence header
    E means an Extension start header
    U means a  User data header
    ] means a  Sequence End
    V means a  Video edit item
`

	esLegendTrailer = `    ? means something else. This may indicate that the stream
      is not an ES representing %s (it might, for instance
      be PES)

`
)

func esLegend(w io.Writer, video es.VideoType) {
	io.WriteString(w, esLegendHeader)
	switch video {
	case es.VideoH262:
		io.WriteString(w, esH262LegendBody)
	case es.VideoAVS:
		io.WriteString(w, esAVSLegendBody)
	}
	fmt.Fprintf(w, esLegendTrailer, video)
}
