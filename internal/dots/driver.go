// Package dots turns decoded elementary-stream units into a glyph-per-unit
// trace: one character for every MPEG-2 item, AVS frame or H.264 access
// unit, written the moment the unit is classified. The package owns the
// classification rules, the driving loops with their stop policies, and the
// approximate minute markers. Reading and decoding the units is the job of
// the es, h262, avs and h264 packages.
package dots

import (
	"errors"
	"fmt"
	"io"

	"github.com/etomahawk/tstools/internal/avs"
	"github.com/etomahawk/tstools/internal/es"
	"github.com/etomahawk/tstools/internal/h262"
	"github.com/etomahawk/tstools/internal/h264"
)

// Options control a trace run.
type Options struct {
	// Max stops the run after this many units; 0 runs to exhaustion. The
	// counter compared against it is family specific: items for MPEG-2
	// and raw ES tracing, frames for AVS, NAL units for H.264.
	Max int

	// Verbose prints a legend for the glyphs ahead of the trace.
	Verbose bool

	// HashEOS makes H.264 tracing print "#" for an end-of-stream NAL
	// unit and carry on, instead of stopping.
	HashEOS bool
}

// ItemSource yields MPEG-2 items. h262.ItemReader is the production source.
type ItemSource interface {
	NextItem() (*h262.Item, error)
}

// FrameSource yields AVS frames. avs.FrameReader is the production source.
type FrameSource interface {
	NextFrame() (*avs.Frame, error)
}

// AccessUnitSource yields H.264 access units along with the stream state
// the driver steers on. h264.AccessUnitReader is the production source.
type AccessUnitSource interface {
	NextAccessUnit() (*h264.AccessUnit, error)
	NALCount() int
	EndOfStream() bool
	ResetEndOfStream()
}

// UnitSource yields raw elementary-stream units. es.Reader is the
// production source.
type UnitSource interface {
	NextUnit() (*es.Unit, error)
}

// H262Dots traces src as one glyph per MPEG-2 item.
func H262Dots(w io.Writer, src ItemSource, opts Options) error {
	if opts.Verbose {
		io.WriteString(w, h262Legend)
	}

	marker := newMinuteMarker()
	count := 0
	for {
		item, err := src.NextItem()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("dots: reading MPEG-2 item: %w", err)
		}
		count++

		if item.StartCode == h262.PictureStartCode {
			marker.beforeFrame(w)
		}
		if g := ItemGlyph(item); g != "" {
			io.WriteString(w, g)
		}
		flush(w)

		if opts.Max > 0 && count >= opts.Max {
			fmt.Fprintf(w, "\nStopping because %d MPEG2 items have been read\n", count)
			break
		}
	}
	fmt.Fprintf(w, "\nFound %d MPEG2 item%s\n", count, plural(count))
	flush(w)
	return nil
}

// AVSDots traces src as one glyph per AVS frame or standalone unit.
// Sequence headers feed their frame rate to the minute marker as they pass.
func AVSDots(w io.Writer, src FrameSource, opts Options) error {
	if opts.Verbose {
		io.WriteString(w, avsLegend)
	}

	marker := newMinuteMarker()
	count := 0
	for {
		frame, err := src.NextFrame()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("dots: reading AVS frame: %w", err)
		}
		count++

		if frame.IsSequenceHeader() {
			marker.setRate(frame.FrameRate())
		}
		io.WriteString(w, FrameGlyph(frame))
		if frame.IsFrame {
			marker.afterFrame(w)
		}
		flush(w)

		if opts.Max > 0 && marker.frames >= opts.Max {
			fmt.Fprintf(w, "\nStopping because %d frames have been read\n", marker.frames)
			break
		}
	}
	fmt.Fprintf(w, "\nFound %d frame%s in %d AVS item%s\n",
		marker.frames, plural(marker.frames), count, plural(count))
	flush(w)
	return nil
}

// H264Dots traces src as one glyph per access unit. An end-of-stream NAL
// unit normally ends the trace; with Options.HashEOS the driver prints "#",
// resets the source's end-of-stream state and reads on into whatever
// follows.
func H264Dots(w io.Writer, src AccessUnitSource, opts Options) error {
	if opts.Verbose {
		io.WriteString(w, h264Legend)
	}

	count := 0
	for {
		au, err := src.NextAccessUnit()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("dots: reading access unit: %w", err)
		}

		io.WriteString(w, AccessUnitGlyph(au))
		flush(w)
		count++

		// Did the logical stream end after this access unit?
		if src.EndOfStream() {
			if !opts.HashEOS {
				io.WriteString(w, "\nStopping because found end-of-stream NAL unit\n")
				break
			}
			io.WriteString(w, "#")
			src.ResetEndOfStream()
		}

		if opts.Max > 0 && src.NALCount() >= opts.Max {
			fmt.Fprintf(w, "\nStopping because %d NAL units have been read\n", src.NALCount())
			break
		}
	}
	fmt.Fprintf(w, "\nFound %d NAL unit%s in %d access unit%s\n",
		src.NALCount(), plural(src.NALCount()), count, plural(count))
	flush(w)
	return nil
}

// ESDots traces src as one glyph per raw elementary-stream unit, classified
// by the rule set for video. H.264 has no raw rule set.
func ESDots(w io.Writer, src UnitSource, video es.VideoType, opts Options) error {
	var glyph func(*es.Unit) string
	switch video {
	case es.VideoH262:
		glyph = RawH262Glyph
	case es.VideoAVS:
		glyph = RawAVSGlyph
	default:
		return fmt.Errorf("dots: no raw unit tracing for %s", video)
	}

	if opts.Verbose {
		esLegend(w, video)
	}

	count := 0
	for {
		u, err := src.NextUnit()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("dots: reading ES unit: %w", err)
		}

		io.WriteString(w, glyph(u))
		flush(w)
		count++

		if opts.Max > 0 && count >= opts.Max {
			fmt.Fprintf(w, "\nStopping because %d ES units have been read\n", count)
			break
		}
	}
	fmt.Fprintf(w, "\nFound %d ES unit%s\n", count, plural(count))
	flush(w)
	return nil
}

// flush pushes buffered output through so the trace stays visible while a
// long stream is read. Plain writers have nothing to flush.
func flush(w io.Writer) {
	if f, ok := w.(interface{ Flush() error }); ok {
		f.Flush()
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
