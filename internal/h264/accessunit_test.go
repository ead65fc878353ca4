package h264

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/etomahawk/tstools/internal/es"
)

func newAccessUnitReader(stream []byte) *AccessUnitReader {
	return NewAccessUnitReader(es.NewReader(bytes.NewReader(stream)))
}

func TestAccessUnitReader_Boundaries(t *testing.T) {
	t.Parallel()
	var stream []byte
	stream = append(stream, plainNAL(3, NALTypeSPS, 0x64)...)
	stream = append(stream, plainNAL(3, NALTypePPS, 0xE8)...)
	stream = append(stream, sliceNAL(3, NALTypeIDR, 0, 7)...)
	stream = append(stream, sliceNAL(3, NALTypeIDR, 99, 7)...) // same picture
	stream = append(stream, sliceNAL(2, NALTypeNonIDR, 0, 5)...)

	ar := newAccessUnitReader(stream)

	au, err := ar.NextAccessUnit()
	if err != nil {
		t.Fatal(err)
	}
	if len(au.NALs) != 4 {
		t.Errorf("first AU has %d NALs, want 4", len(au.NALs))
	}
	if au.Primary == nil || au.Primary.Type != NALTypeIDR {
		t.Errorf("first AU primary = %+v, want IDR", au.Primary)
	}

	au, err = ar.NextAccessUnit()
	if err != nil {
		t.Fatal(err)
	}
	if len(au.NALs) != 1 {
		t.Errorf("second AU has %d NALs, want 1", len(au.NALs))
	}
	if au.Primary == nil || au.Primary.Type != NALTypeNonIDR {
		t.Errorf("second AU primary = %+v, want non-IDR", au.Primary)
	}

	if _, err := ar.NextAccessUnit(); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want io.EOF", err)
	}
	if got := ar.NALCount(); got != 5 {
		t.Errorf("NALCount = %d, want 5", got)
	}
}

func TestAccessUnitReader_NonVCLOpensNext(t *testing.T) {
	t.Parallel()
	var stream []byte
	stream = append(stream, sliceNAL(3, NALTypeNonIDR, 0, 0)...)
	stream = append(stream, plainNAL(0, NALTypeSEI, 0x06)...)
	stream = append(stream, sliceNAL(3, NALTypeNonIDR, 0, 0)...)

	ar := newAccessUnitReader(stream)

	au, err := ar.NextAccessUnit()
	if err != nil {
		t.Fatal(err)
	}
	if len(au.NALs) != 1 {
		t.Errorf("first AU has %d NALs, want 1", len(au.NALs))
	}

	au, err = ar.NextAccessUnit()
	if err != nil {
		t.Fatal(err)
	}
	if len(au.NALs) != 2 {
		t.Fatalf("second AU has %d NALs, want 2 (SEI + slice)", len(au.NALs))
	}
	if au.NALs[0].Type != NALTypeSEI {
		t.Errorf("second AU starts with type %d, want SEI", au.NALs[0].Type)
	}
	if au.Primary == nil || !au.Primary.IsSlice() {
		t.Errorf("second AU primary = %+v, want a slice", au.Primary)
	}
}

func TestAccessUnitReader_EndOfSequence(t *testing.T) {
	t.Parallel()
	var stream []byte
	stream = append(stream, sliceNAL(3, NALTypeIDR, 0, 7)...)
	stream = append(stream, plainNAL(0, NALTypeEndOfSeq)...)
	stream = append(stream, sliceNAL(3, NALTypeNonIDR, 0, 0)...)

	ar := newAccessUnitReader(stream)

	au, err := ar.NextAccessUnit()
	if err != nil {
		t.Fatal(err)
	}
	if len(au.NALs) != 2 {
		t.Errorf("first AU has %d NALs, want 2 (slice + end-of-seq)", len(au.NALs))
	}
	if au.NALs[1].Type != NALTypeEndOfSeq {
		t.Errorf("last NAL type = %d, want end-of-seq", au.NALs[1].Type)
	}

	au, err = ar.NextAccessUnit()
	if err != nil {
		t.Fatal(err)
	}
	if au.Primary == nil || au.Primary.Type != NALTypeNonIDR {
		t.Errorf("second AU primary = %+v, want non-IDR slice", au.Primary)
	}
}

func TestAccessUnitReader_EndOfStream(t *testing.T) {
	t.Parallel()
	var stream []byte
	stream = append(stream, sliceNAL(3, NALTypeIDR, 0, 7)...)
	stream = append(stream, plainNAL(0, NALTypeEndOfStream)...)
	stream = append(stream, sliceNAL(3, NALTypeNonIDR, 0, 0)...)

	ar := newAccessUnitReader(stream)

	au, err := ar.NextAccessUnit()
	if err != nil {
		t.Fatal(err)
	}
	if au.Primary == nil || au.Primary.Type != NALTypeIDR {
		t.Errorf("first AU primary = %+v, want IDR", au.Primary)
	}
	if !ar.EndOfStream() {
		t.Fatal("EndOfStream should be set")
	}

	// Without a reset the reader stays stopped.
	if _, err := ar.NextAccessUnit(); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want io.EOF", err)
	}

	ar.ResetEndOfStream()
	if ar.EndOfStream() {
		t.Error("EndOfStream should be clear after reset")
	}

	au, err = ar.NextAccessUnit()
	if err != nil {
		t.Fatal(err)
	}
	if au.Primary == nil || au.Primary.Type != NALTypeNonIDR {
		t.Errorf("post-reset AU primary = %+v, want non-IDR slice", au.Primary)
	}
}

func TestAccessUnitReader_EOSClosesNothing(t *testing.T) {
	t.Parallel()
	var stream []byte
	stream = append(stream, sliceNAL(3, NALTypeIDR, 0, 7)...)
	stream = append(stream, plainNAL(0, NALTypeEndOfSeq)...)
	stream = append(stream, plainNAL(0, NALTypeEndOfStream)...)

	ar := newAccessUnitReader(stream)

	if _, err := ar.NextAccessUnit(); err != nil {
		t.Fatal(err)
	}

	// The end-of-sequence already closed the only access unit, so the EOS
	// arrives with nothing in hand: no empty access unit is delivered.
	if _, err := ar.NextAccessUnit(); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want io.EOF", err)
	}
	if !ar.EndOfStream() {
		t.Error("EndOfStream should be set")
	}
}

func TestAccessUnitReader_TruncatedAtEOF(t *testing.T) {
	t.Parallel()
	var stream []byte
	stream = append(stream, plainNAL(3, NALTypeSPS, 0x64)...)
	stream = append(stream, sliceNAL(3, NALTypeIDR, 0, 7)...)

	ar := newAccessUnitReader(stream)

	au, err := ar.NextAccessUnit()
	if err != nil {
		t.Fatal(err)
	}
	if len(au.NALs) != 2 || au.Primary == nil {
		t.Errorf("AU = %+v, want SPS + IDR", au)
	}

	if _, err := ar.NextAccessUnit(); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

func TestAccessUnitReader_Empty(t *testing.T) {
	t.Parallel()
	ar := newAccessUnitReader(nil)
	if _, err := ar.NextAccessUnit(); !errors.Is(err, io.EOF) {
		t.Errorf("err = %v, want io.EOF", err)
	}
}

func TestAllSlicesAre(t *testing.T) {
	t.Parallel()
	slice := func(st uint) *NAL {
		return &NAL{Type: NALTypeNonIDR, SliceType: st}
	}

	tests := []struct {
		name string
		au   *AccessUnit
		st   uint
		want bool
	}{
		{"all_i", &AccessUnit{NALs: []*NAL{slice(SliceTypeI), slice(SliceTypeI)}}, SliceTypeI, true},
		{"mixed", &AccessUnit{NALs: []*NAL{slice(SliceTypeI), slice(SliceTypeP)}}, SliceTypeI, false},
		{"ignores_non_slices", &AccessUnit{NALs: []*NAL{{Type: NALTypeSEI}, slice(SliceTypeB)}}, SliceTypeB, true},
		{"no_slices", &AccessUnit{NALs: []*NAL{{Type: NALTypeSEI}}}, SliceTypeI, false},
		{"empty", &AccessUnit{}, SliceTypeI, false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.au.AllSlicesAre(tc.st); got != tc.want {
				t.Errorf("AllSlicesAre(%d) = %v, want %v", tc.st, got, tc.want)
			}
		})
	}
}
