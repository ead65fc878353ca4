package es

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGuessFromStartCode(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		sc   byte
		want VideoType
	}{
		{"h262_picture", 0x00, VideoH262},
		{"h262_sequence_header", 0xB3, VideoH262},
		{"h262_group", 0xB8, VideoH262},
		{"h262_extension", 0xB5, VideoH262},
		{"h264_aud", 0x09, VideoH264},
		{"h264_sps", 0x67, VideoH264},
		{"h264_pps", 0x68, VideoH264},
		{"h264_idr", 0x65, VideoH264},
		{"h264_sei", 0x06, VideoH264},
		{"forbidden_bit_set", 0x80, VideoUnknown},
		{"undecisive_filler", 0x0C, VideoUnknown},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := guessFromStartCode(tc.sc); got != tc.want {
				t.Errorf("guessFromStartCode(0x%02X) = %v, want %v", tc.sc, got, tc.want)
			}
		})
	}
}

func writeTempStream(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stream.es")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDecideVideoType_H262(t *testing.T) {
	t.Parallel()
	path := writeTempStream(t, []byte{
		0x00, 0x00, 0x01, 0xB3, 0x01, 0x02,
		0x00, 0x00, 0x01, 0x00, 0x03,
	})
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	vt, err := decideVideoType(f)
	if err != nil {
		t.Fatal(err)
	}
	if vt != VideoH262 {
		t.Errorf("video type = %v, want %v", vt, VideoH262)
	}

	// The probe must leave the file rewound.
	pos, err := f.Seek(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if pos != 0 {
		t.Errorf("file position after probe = %d, want 0", pos)
	}
}

func TestDecideVideoType_H264(t *testing.T) {
	t.Parallel()
	path := writeTempStream(t, []byte{
		0x00, 0x00, 0x01, 0x09, 0xF0,
		0x00, 0x00, 0x01, 0x67, 0x42, 0x00, 0x1E,
	})
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	vt, err := decideVideoType(f)
	if err != nil {
		t.Fatal(err)
	}
	if vt != VideoH264 {
		t.Errorf("video type = %v, want %v", vt, VideoH264)
	}
}

func TestDecideVideoType_Undecided(t *testing.T) {
	t.Parallel()
	path := writeTempStream(t, []byte{0x01, 0x02, 0x03})
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	vt, err := decideVideoType(f)
	if err != nil {
		t.Fatal(err)
	}
	if vt != VideoUnknown {
		t.Errorf("video type = %v, want %v", vt, VideoUnknown)
	}
}

func TestOpen_ForcedTypeSkipsProbe(t *testing.T) {
	t.Parallel()
	// H.262-looking bytes, but the caller insists on AVS.
	path := writeTempStream(t, []byte{0x00, 0x00, 0x01, 0xB3, 0x01})

	s, err := Open(path, false, VideoAVS)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if s.Type != VideoAVS {
		t.Errorf("stream type = %v, want %v", s.Type, VideoAVS)
	}
}

func TestOpen_AutoDetect(t *testing.T) {
	t.Parallel()
	path := writeTempStream(t, []byte{
		0x00, 0x00, 0x01, 0x09, 0xF0,
		0x00, 0x00, 0x01, 0x65, 0x88,
	})

	s, err := Open(path, false, VideoUnknown)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if s.Type != VideoH264 {
		t.Errorf("stream type = %v, want %v", s.Type, VideoH264)
	}

	u, err := s.NextUnit()
	if err != nil {
		t.Fatalf("NextUnit: %v", err)
	}
	if u.StartCode != 0x09 {
		t.Errorf("first unit start code = 0x%02X, want 0x09", u.StartCode)
	}
}

func TestOpen_MissingFile(t *testing.T) {
	t.Parallel()
	if _, err := Open(filepath.Join(t.TempDir(), "nope.es"), false, VideoUnknown); err == nil {
		t.Error("expected error for missing file")
	}
}
