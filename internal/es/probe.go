package es

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// probeUnits is how many leading units the detection heuristic inspects.
const probeUnits = 8

// decideVideoType inspects the first few units of f and guesses whether the
// stream is H.262 or H.264, rewinding f afterwards. AVS is never guessed.
// Returns VideoUnknown when nothing decisive was seen.
func decideVideoType(f *os.File) (VideoType, error) {
	r := NewReader(f)
	vt := VideoUnknown
	for i := 0; i < probeUnits && vt == VideoUnknown; i++ {
		u, err := r.NextUnit()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return VideoUnknown, fmt.Errorf("es: probing %s: %w", f.Name(), err)
		}
		vt = guessFromStartCode(u.StartCode)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return VideoUnknown, fmt.Errorf("es: rewinding %s after probe: %w", f.Name(), err)
	}
	slog.Debug("probed elementary stream", "file", f.Name(), "guess", vt)
	return vt, nil
}

// guessFromStartCode votes on a video type from a single start code. The
// H.262 system codes are unambiguous. Anything else is read as an H.264 NAL
// header byte: forbidden bit clear and a NAL type that starts streams. The
// slice ranges of the two families overlap, so a stream that begins
// mid-picture can be misread; headers at the start of a stream decide
// correctly.
func guessFromStartCode(sc byte) VideoType {
	if sc == 0x00 || (sc >= 0xB0 && sc <= 0xB8) {
		return VideoH262
	}
	if sc&0x80 != 0 {
		return VideoUnknown
	}
	switch sc & 0x1F {
	case 1, 5, 6, 7, 8, 9:
		return VideoH264
	}
	return VideoUnknown
}
