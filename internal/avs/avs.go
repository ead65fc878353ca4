// Package avs reads AVS (GB/T 20090.2) elementary streams as a sequence of
// frames. A frame is a picture unit plus its trailing slices; sequence
// headers and the other non-picture units are delivered on their own.
package avs

import (
	"github.com/etomahawk/tstools/internal/es"
)

// Start codes from GB/T 20090.2.
const (
	SeqHeader      = 0xB0
	SeqEnd         = 0xB1
	UserData       = 0xB2
	IPictureStart  = 0xB3
	ExtensionStart = 0xB5
	PBPictureStart = 0xB6
	VideoEditCode  = 0xB7
)

// Picture coding types. I pictures have their own start code and no coding
// field; PB pictures carry the type in the two bits after bbv_delay.
const (
	CodingI = 0
	CodingP = 1
	CodingB = 2
)

// frameRates maps frame_rate_code to frames per second. Codes outside 1
// through 8 are reserved and map to 0.
var frameRates = [16]float64{
	0,
	24000.0 / 1001.0,
	24,
	25,
	30000.0 / 1001.0,
	30,
	50,
	60000.0 / 1001.0,
	60,
}

// Frame is one item of an AVS elementary stream: a picture with its slices,
// or a single non-picture unit.
type Frame struct {
	StartCode  byte
	IsFrame    bool
	CodingType byte
	Units      []*es.Unit
}

// IsSequenceHeader reports whether the frame is a sequence header unit.
func (f *Frame) IsSequenceHeader() bool {
	return f.StartCode == SeqHeader
}

// FrameRate returns the frame rate a sequence header declares, or 0 for
// reserved codes and units too short to carry one.
func (f *Frame) FrameRate() float64 {
	if !f.IsSequenceHeader() || len(f.Units) == 0 {
		return 0
	}
	d := f.Units[0].Data
	if len(d) < 12 {
		return 0
	}
	code := (d[10]&0x03)<<2 | (d[11]&0xC0)>>6
	return frameRates[code]
}

// FrameReader pulls frames from an elementary stream.
type FrameReader struct {
	r       *es.Reader
	pending *es.Unit
}

// NewFrameReader returns a FrameReader over r.
func NewFrameReader(r *es.Reader) *FrameReader {
	return &FrameReader{r: r}
}

func (fr *FrameReader) next() (*es.Unit, error) {
	if u := fr.pending; u != nil {
		fr.pending = nil
		return u, nil
	}
	return fr.r.NextUnit()
}

// NextFrame returns the next frame, or io.EOF once the stream is exhausted.
// A picture truncated by end of input is delivered with the slices read so
// far; the call after it returns io.EOF.
func (fr *FrameReader) NextFrame() (*Frame, error) {
	u, err := fr.next()
	if err != nil {
		return nil, err
	}

	switch u.StartCode {
	case IPictureStart, PBPictureStart:
		frame := &Frame{
			StartCode:  u.StartCode,
			IsFrame:    true,
			CodingType: PictureCodingType(u),
			Units:      []*es.Unit{u},
		}
		for {
			next, err := fr.next()
			if err != nil {
				// The sticky reader error surfaces on the next call.
				return frame, nil
			}
			if next.StartCode > 0xAF {
				fr.pending = next
				return frame, nil
			}
			frame.Units = append(frame.Units, next)
		}

	default:
		return &Frame{StartCode: u.StartCode, Units: []*es.Unit{u}}, nil
	}
}

// PictureCodingType returns the coding type of a picture unit. I pictures
// are CodingI by definition; PB pictures carry two bits of
// picture_coding_type after the 16-bit bbv_delay. Units too short for the
// field decode as the reserved value 3.
func PictureCodingType(u *es.Unit) byte {
	if u.StartCode == IPictureStart {
		return CodingI
	}
	if len(u.Data) < 7 {
		return 3
	}
	return (u.Data[6] & 0xC0) >> 6
}
