package h264

import (
	"errors"
	"io"

	"github.com/etomahawk/tstools/internal/es"
)

// AccessUnit is the set of NAL units for one coded picture. Primary points
// at the first VCL unit, or is nil for an access unit with no picture in it.
type AccessUnit struct {
	Primary *NAL
	NALs    []*NAL
}

// AllSlicesAre reports whether the access unit contains at least one slice
// and every slice in it has the given (normalized) slice type.
func (au *AccessUnit) AllSlicesAre(sliceType uint) bool {
	found := false
	for _, n := range au.NALs {
		if !n.IsSlice() {
			continue
		}
		found = true
		if n.SliceType != sliceType {
			return false
		}
	}
	return found
}

// AccessUnitReader assembles NAL units into access units. It also owns the
// stream-level state the caller steers on: the running NAL count, and the
// end-of-stream flag raised by an EOS NAL unit.
type AccessUnitReader struct {
	nr          *NALReader
	pending     *NAL
	endOfStream bool
	noMoreData  bool
}

// NewAccessUnitReader returns an AccessUnitReader over r.
func NewAccessUnitReader(r *es.Reader) *AccessUnitReader {
	return &AccessUnitReader{nr: NewNALReader(r)}
}

// NALCount returns the number of NAL units read so far, including any unit
// held back as the start of the next access unit.
func (ar *AccessUnitReader) NALCount() int {
	return ar.nr.Count()
}

// EndOfStream reports whether an end-of-stream NAL unit has been read.
func (ar *AccessUnitReader) EndOfStream() bool {
	return ar.endOfStream
}

// ResetEndOfStream clears the end-of-stream state so that reading can
// continue into a following concatenated stream.
func (ar *AccessUnitReader) ResetEndOfStream() {
	ar.endOfStream = false
	ar.noMoreData = false
}

func (ar *AccessUnitReader) nextNAL() (*NAL, error) {
	if n := ar.pending; n != nil {
		ar.pending = nil
		return n, nil
	}
	return ar.nr.NextNAL()
}

// NextAccessUnit returns the next access unit, or io.EOF once the stream is
// exhausted. An access unit truncated by end of input is delivered with the
// units read so far; the call after it returns io.EOF.
//
// An end-of-stream NAL unit closes the current access unit and raises the
// EndOfStream flag; it is up to the caller to stop, or to call
// ResetEndOfStream and read on.
func (ar *AccessUnitReader) NextAccessUnit() (*AccessUnit, error) {
	if ar.noMoreData {
		return nil, io.EOF
	}

	au := &AccessUnit{}
	for {
		n, err := ar.nextNAL()
		if err != nil {
			if errors.Is(err, io.EOF) {
				ar.noMoreData = true
				if len(au.NALs) > 0 {
					return au, nil
				}
				return nil, io.EOF
			}
			return nil, err
		}

		switch {
		case n.IsVCL():
			if au.Primary == nil {
				au.Primary = n
				au.NALs = append(au.NALs, n)
				continue
			}
			if n.IsSlice() && n.FirstMB == 0 {
				// First slice of the next picture.
				ar.pending = n
				return au, nil
			}
			au.NALs = append(au.NALs, n)

		case n.Type == NALTypeEndOfSeq:
			au.NALs = append(au.NALs, n)
			return au, nil

		case n.Type == NALTypeEndOfStream:
			ar.endOfStream = true
			ar.noMoreData = true
			if len(au.NALs) == 0 {
				return nil, io.EOF
			}
			return au, nil

		default:
			if au.Primary != nil {
				// Non-VCL units after the picture open the next
				// access unit.
				ar.pending = n
				return au, nil
			}
			au.NALs = append(au.NALs, n)
		}
	}
}
