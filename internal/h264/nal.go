// Package h264 reads H.264 (ITU-T H.264, ISO 14496-10) elementary streams
// as NAL units and assembles them into access units.
package h264

import (
	"errors"
	"fmt"

	"github.com/etomahawk/tstools/internal/es"
)

// NAL unit types from ITU-T H.264 table 7-1.
const (
	NALTypeNonIDR      = 1
	NALTypePartitionA  = 2
	NALTypePartitionB  = 3
	NALTypePartitionC  = 4
	NALTypeIDR         = 5
	NALTypeSEI         = 6
	NALTypeSPS         = 7
	NALTypePPS         = 8
	NALTypeAUD         = 9
	NALTypeEndOfSeq    = 10
	NALTypeEndOfStream = 11
	NALTypeFiller      = 12
)

// Slice types from table 7-6, normalized modulo 5 (the "all slices of this
// picture share my type" forms 5 through 9 fold onto 0 through 4).
const (
	SliceTypeP  = 0
	SliceTypeB  = 1
	SliceTypeI  = 2
	SliceTypeSP = 3
	SliceTypeSI = 4
)

var errSliceTooShort = errors.New("h264: slice header too short")

// NAL is one parsed NAL unit. FirstMB and SliceType are decoded slice-header
// fields, only meaningful when IsSlice reports true.
type NAL struct {
	RefIDC byte
	Type   byte
	Data   []byte

	FirstMB   uint
	SliceType uint
}

// IsSlice reports whether the unit is a coded slice carrying a slice header
// (non-IDR or IDR).
func (n *NAL) IsSlice() bool {
	return n.Type == NALTypeNonIDR || n.Type == NALTypeIDR
}

// IsVCL reports whether the unit carries coded picture data (slices and
// data partitions).
func (n *NAL) IsVCL() bool {
	return n.Type >= NALTypeNonIDR && n.Type <= NALTypeIDR
}

// NALReader pulls NAL units from an elementary stream, decoding the header
// byte and, for slices, the leading slice-header fields.
type NALReader struct {
	r     *es.Reader
	count int
}

// NewNALReader returns a NALReader over r.
func NewNALReader(r *es.Reader) *NALReader {
	return &NALReader{r: r}
}

// Count returns the number of NAL units read so far.
func (nr *NALReader) Count() int {
	return nr.count
}

// NextNAL returns the next NAL unit, or io.EOF once the stream is
// exhausted. A set forbidden_zero_bit or an undecodable slice header is an
// error: the stream can no longer be trusted at unit granularity.
func (nr *NALReader) NextNAL() (*NAL, error) {
	u, err := nr.r.NextUnit()
	if err != nil {
		return nil, err
	}
	nr.count++

	hdr := u.StartCode
	if hdr&0x80 != 0 {
		return nil, fmt.Errorf("h264: forbidden_zero_bit set in NAL header 0x%02X", hdr)
	}

	n := &NAL{
		RefIDC: (hdr >> 5) & 0x03,
		Type:   hdr & 0x1F,
		Data:   u.Data,
	}

	if n.IsSlice() {
		if err := parseSliceHeader(n); err != nil {
			return nil, fmt.Errorf("h264: NAL unit %d: %w", nr.count, err)
		}
	}
	return n, nil
}

// parseSliceHeader decodes first_mb_in_slice and slice_type from the start
// of the slice RBSP. Only a bounded prefix is de-escaped; the two fields fit
// comfortably within it.
func parseSliceHeader(n *NAL) error {
	payload := n.Data[4:]
	if len(payload) == 0 {
		return errSliceTooShort
	}
	if len(payload) > 16 {
		payload = payload[:16]
	}

	br := newBitReader(removeEmulationPrevention(payload))

	firstMB, err := br.readUE()
	if err != nil {
		return err
	}
	sliceType, err := br.readUE()
	if err != nil {
		return err
	}
	if sliceType > 9 {
		return fmt.Errorf("h264: slice_type %d out of range", sliceType)
	}

	n.FirstMB = firstMB
	n.SliceType = sliceType % 5
	return nil
}

type bitReader struct {
	data []byte
	pos  int
	bit  int
}

func newBitReader(data []byte) *bitReader {
	return &bitReader{data: data}
}

func (br *bitReader) readBit() (uint, error) {
	if br.pos >= len(br.data) {
		return 0, errSliceTooShort
	}
	val := uint((br.data[br.pos] >> (7 - br.bit)) & 1)
	br.bit++
	if br.bit == 8 {
		br.bit = 0
		br.pos++
	}
	return val, nil
}

func (br *bitReader) readBits(n int) (uint, error) {
	var val uint
	for i := 0; i < n; i++ {
		b, err := br.readBit()
		if err != nil {
			return 0, err
		}
		val = (val << 1) | b
	}
	return val, nil
}

func (br *bitReader) readUE() (uint, error) {
	zeros := 0
	for {
		b, err := br.readBit()
		if err != nil {
			return 0, err
		}
		if b == 1 {
			break
		}
		zeros++
		if zeros > 31 {
			return 0, errSliceTooShort
		}
	}
	if zeros == 0 {
		return 0, nil
	}
	suffix, err := br.readBits(zeros)
	if err != nil {
		return 0, err
	}
	return (1 << zeros) - 1 + suffix, nil
}

func removeEmulationPrevention(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if i+2 < len(data) && data[i] == 0 && data[i+1] == 0 && data[i+2] == 3 &&
			(i+3 >= len(data) || data[i+3] <= 3) {
			out = append(out, 0, 0)
			i += 2
		} else {
			out = append(out, data[i])
		}
	}
	return out
}
