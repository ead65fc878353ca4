// Package ps unwraps MPEG program streams. It walks the pack layer,
// skipping pack and system headers, and serves the payloads of the video
// PES packets as a contiguous elementary-stream byte source. Both MPEG-1
// system streams and MPEG-2 program streams are understood.
package ps

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

const (
	startPackHeader   = 0xBA
	startSystemHeader = 0xBB
	startProgramEnd   = 0xB9
)

// ErrNoPackHeader is returned when the input does not start with a pack
// header and no start code can be found at all.
var ErrNoPackHeader = errors.New("ps: no pack header found")

// ESReader serves the elementary-stream bytes of the video PES packets
// (stream ids 0xE0 through 0xEF) in a program stream.
type ESReader struct {
	br        *bufio.Reader
	log       *slog.Logger
	buf       []byte
	err       error
	sawPack   bool
	endOfProg bool
}

// NewESReader creates an ESReader over a program stream.
func NewESReader(r io.Reader) *ESReader {
	return &ESReader{
		br:  bufio.NewReaderSize(r, 64*1024),
		log: slog.With("component", "ps"),
	}
}

// Read serves the video elementary-stream bytes.
func (e *ESReader) Read(p []byte) (int, error) {
	for len(e.buf) == 0 {
		if e.err != nil {
			return 0, e.err
		}
		if err := e.pump(); err != nil {
			e.err = err
			if len(e.buf) == 0 {
				return 0, err
			}
			break
		}
	}
	n := copy(p, e.buf)
	e.buf = e.buf[n:]
	return n, nil
}

// pump consumes the next pack-layer item. Video PES payloads land in e.buf,
// everything else is skipped.
func (e *ESReader) pump() error {
	if e.endOfProg {
		return io.EOF
	}

	sid, err := e.nextStartCode()
	if err != nil {
		return err
	}

	switch {
	case sid == startPackHeader:
		return e.skipPackHeader()

	case sid == startSystemHeader:
		return e.skipLengthPrefixed()

	case sid == startProgramEnd:
		e.endOfProg = true
		return io.EOF

	case sid >= 0xE0 && sid <= 0xEF:
		body, err := e.readLengthPrefixed()
		if len(body) > 0 {
			e.buf = append(e.buf, pesPayload(body)...)
		}
		return err

	case sid >= 0xBC:
		// Some other PES packet (audio, padding, private). Skip it.
		return e.skipLengthPrefixed()

	default:
		// A bare video start code at pack level means the input is not
		// a program stream after all. Resync on the next prefix.
		e.log.Warn("unexpected start code at pack level", "code", fmt.Sprintf("0x%02X", sid))
		return nil
	}
}

// nextStartCode scans to the next 00 00 01 prefix and returns the byte
// after it. Garbage between packets is discarded.
func (e *ESReader) nextStartCode() (byte, error) {
	var w [3]byte
	n := 0
	for {
		b, err := e.br.ReadByte()
		if err != nil {
			return 0, err
		}
		if n < 3 {
			w[n] = b
			n++
		} else {
			w[0], w[1], w[2] = w[1], w[2], b
		}
		if n == 3 && w[0] == 0x00 && w[1] == 0x00 && w[2] == 0x01 {
			return e.br.ReadByte()
		}
	}
}

// skipPackHeader consumes a pack header body. The byte after the start code
// distinguishes MPEG-2 ('01' in the top bits, 10 bytes plus stuffing) from
// MPEG-1 ('0010' in the top nibble, 8 bytes).
func (e *ESReader) skipPackHeader() error {
	b, err := e.br.ReadByte()
	if err != nil {
		return err
	}

	if !e.sawPack {
		e.sawPack = true
		version := "MPEG-2"
		if b&0xF0 == 0x20 {
			version = "MPEG-1"
		}
		e.log.Debug("program stream pack layer", "version", version)
	}

	switch {
	case b&0xC0 == 0x40: // MPEG-2
		rest := make([]byte, 9)
		if _, err := io.ReadFull(e.br, rest); err != nil {
			return err
		}
		stuffing := int(rest[8] & 0x07)
		if _, err := e.br.Discard(stuffing); err != nil {
			return err
		}
		return nil

	case b&0xF0 == 0x20: // MPEG-1
		_, err := e.br.Discard(7)
		return err

	default:
		return fmt.Errorf("ps: malformed pack header byte 0x%02X", b)
	}
}

func (e *ESReader) readLength() (int, error) {
	hi, err := e.br.ReadByte()
	if err != nil {
		return 0, err
	}
	lo, err := e.br.ReadByte()
	if err != nil {
		return 0, err
	}
	return int(hi)<<8 | int(lo), nil
}

func (e *ESReader) skipLengthPrefixed() error {
	length, err := e.readLength()
	if err != nil {
		return err
	}
	_, err = e.br.Discard(length)
	return err
}

func (e *ESReader) readLengthPrefixed() ([]byte, error) {
	length, err := e.readLength()
	if err != nil {
		return nil, err
	}
	body := make([]byte, length)
	n, err := io.ReadFull(e.br, body)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}
	if err != nil {
		// A truncated final PES packet still carries usable payload.
		return body[:n], err
	}
	return body, nil
}

// pesPayload strips the PES header from a packet body, handling both the
// MPEG-2 optional header and the MPEG-1 stuffing/STD/timestamp forms.
func pesPayload(body []byte) []byte {
	if len(body) == 0 {
		return nil
	}

	// MPEG-2 PES: the first optional-header byte starts '10'.
	if body[0]&0xC0 == 0x80 {
		if len(body) < 3 {
			return nil
		}
		start := 3 + int(body[2])
		if start > len(body) {
			return nil
		}
		return body[start:]
	}

	// MPEG-1 PES: stuffing bytes, optional STD buffer size, then either
	// PTS (5 bytes), PTS+DTS (10 bytes) or a single '0000 1111' byte.
	i := 0
	for i < len(body) && body[i] == 0xFF {
		i++
	}
	if i < len(body) && body[i]&0xC0 == 0x40 {
		i += 2
	}
	if i >= len(body) {
		return nil
	}
	switch {
	case body[i]&0xF0 == 0x20:
		i += 5
	case body[i]&0xF0 == 0x30:
		i += 10
	default:
		i++
	}
	if i > len(body) {
		return nil
	}
	return body[i:]
}
