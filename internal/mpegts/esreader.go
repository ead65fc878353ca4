package mpegts

import (
	"errors"
	"io"
	"log/slog"
)

// ErrNoVideoStream is returned when no PMT names a video elementary stream
// the tool recognises.
var ErrNoVideoStream = errors.New("mpegts: no video stream found")

// ESReader serves the elementary-stream bytes of the first recognised video
// stream in a transport stream. Payload arriving before the PMT has named
// the video PID is discarded, since it cannot be attributed yet; broadcast
// streams repeat their PSI often enough that this loses a fraction of a
// second at most.
type ESReader struct {
	dmx     *Demuxer
	pid     uint16
	st      uint8
	havePID bool
	buf     []byte
}

// NewESReader creates an ESReader over a transport stream.
func NewESReader(r io.Reader) *ESReader {
	return &ESReader{dmx: NewDemuxer(r, nil)}
}

// StreamType pumps the demuxer until a PMT names a video stream and returns
// its stream type. No video payload can be served before that point anyway,
// since the video PID is unknown.
func (e *ESReader) StreamType() (uint8, error) {
	for !e.havePID {
		if err := e.pump(); err != nil {
			if errors.Is(err, io.EOF) {
				return 0, ErrNoVideoStream
			}
			return 0, err
		}
	}
	return e.st, nil
}

// Read serves the selected video stream's elementary-stream bytes.
func (e *ESReader) Read(p []byte) (int, error) {
	for len(e.buf) == 0 {
		if err := e.pump(); err != nil {
			if errors.Is(err, io.EOF) && !e.havePID {
				return 0, ErrNoVideoStream
			}
			return 0, err
		}
	}
	n := copy(p, e.buf)
	e.buf = e.buf[n:]
	return n, nil
}

func (e *ESReader) pump() error {
	data, err := e.dmx.NextData()
	if err != nil {
		return err
	}

	switch {
	case data.PMT != nil:
		if e.havePID {
			return nil // first selection wins
		}
		for _, s := range data.PMT.Streams {
			if IsVideoStreamType(s.Type) {
				e.pid = s.PID
				e.st = s.Type
				e.havePID = true
				slog.Debug("selected video stream", "pid", s.PID, "stream_type", s.Type)
				break
			}
		}

	case data.PES != nil:
		if e.havePID && data.PID == e.pid {
			e.buf = append(e.buf, data.PES.Data...)
		}
	}
	return nil
}
