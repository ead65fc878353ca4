package es

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/etomahawk/tstools/internal/mpegts"
	"github.com/etomahawk/tstools/internal/ps"
)

// ErrUnknownStreamType is returned when the PMT names a video stream whose
// stream type the tool does not recognise.
var ErrUnknownStreamType = errors.New("es: unrecognised video stream type")

// Stream couples a unit Reader with the video type it carries and the
// underlying file, if any.
type Stream struct {
	*Reader
	Type VideoType

	closer io.Closer
}

// Close closes the underlying file. Streams over stdin have nothing to
// close.
func (s *Stream) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Open opens path as an elementary stream. An empty path means stdin. When
// usePES is set the input is transport or program stream data and the video
// elementary stream is unwrapped from its PES packets first. want fixes the
// video type; VideoUnknown asks for auto-detection, which probes seekable
// plain-ES files, takes the PMT stream type for TS input, and otherwise
// defaults to H.262.
func Open(path string, usePES bool, want VideoType) (*Stream, error) {
	if usePES {
		return openPES(path, want)
	}

	if path == "" {
		vt := want
		if vt == VideoUnknown {
			vt = VideoH262
		}
		return &Stream{Reader: NewReader(os.Stdin), Type: vt}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("es: %w", err)
	}

	vt := want
	if vt == VideoUnknown {
		vt, err = decideVideoType(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		if vt == VideoUnknown {
			vt = VideoH262
		}
	}
	return &Stream{Reader: NewReader(f), Type: vt, closer: f}, nil
}

// openPES wraps TS or PS input in the matching payload extractor. The two
// container formats are told apart by their first bytes: a repeating 0x47
// sync byte for TS, a 00 00 01 BA pack header for PS.
func openPES(path string, want VideoType) (*Stream, error) {
	var (
		src    io.Reader
		closer io.Closer
		name   = "<stdin>"
	)
	if path == "" {
		src = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("es: %w", err)
		}
		src = f
		closer = f
		name = path
	}

	br := bufio.NewReaderSize(src, 64*1024)
	head, err := br.Peek(mpegts.PacketSize + 1)
	if err != nil && !errors.Is(err, io.EOF) {
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("es: reading start of %s: %w", name, err)
	}

	switch {
	case looksLikeTS(head):
		return openTS(br, closer, name, want)
	case looksLikePS(head):
		return openPS(br, closer, name, want)
	}
	if closer != nil {
		closer.Close()
	}
	return nil, fmt.Errorf("es: %s is neither transport stream nor program stream", name)
}

func looksLikeTS(head []byte) bool {
	if len(head) == 0 || head[0] != 0x47 {
		return false
	}
	return len(head) <= mpegts.PacketSize || head[mpegts.PacketSize] == 0x47
}

func looksLikePS(head []byte) bool {
	return len(head) >= 4 &&
		head[0] == 0x00 && head[1] == 0x00 && head[2] == 0x01 && head[3] == 0xBA
}

func openTS(r io.Reader, closer io.Closer, name string, want VideoType) (*Stream, error) {
	x := mpegts.NewESReader(r)
	vt := want
	if vt == VideoUnknown {
		st, err := x.StreamType()
		if err != nil {
			if closer != nil {
				closer.Close()
			}
			return nil, fmt.Errorf("es: deciding video type of %s: %w", name, err)
		}
		var ok bool
		vt, ok = videoTypeForStreamType(st)
		if !ok {
			if closer != nil {
				closer.Close()
			}
			return nil, fmt.Errorf("%w 0x%02X in %s", ErrUnknownStreamType, st, name)
		}
		slog.Debug("video type from PMT", "file", name, "stream_type", st, "video", vt)
	}
	return &Stream{Reader: NewReader(x), Type: vt, closer: closer}, nil
}

func openPS(r io.Reader, closer io.Closer, name string, want VideoType) (*Stream, error) {
	// Program streams carry no PMT, so nothing to detect from. H.262 is the
	// assumption unless the caller says otherwise.
	vt := want
	if vt == VideoUnknown {
		vt = VideoH262
	}
	slog.Debug("reading program stream", "file", name, "video", vt)
	return &Stream{Reader: NewReader(ps.NewESReader(r)), Type: vt, closer: closer}, nil
}
