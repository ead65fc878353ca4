package es

import (
	"bytes"
	"strings"
	"testing"

	"github.com/etomahawk/tstools/internal/mpegts"
)

// psStream wraps each payload in a PES packet behind a single MPEG-2 pack
// header, the minimal shape of a program stream.
func psStream(payloads ...[]byte) []byte {
	stream := []byte{
		0x00, 0x00, 0x01, 0xBA,
		0x44, 0x00, 0x04, 0x00, 0x04, 0x01, // SCR
		0x00, 0x00, 0x03, // mux rate
		0xF8,
	}
	for _, p := range payloads {
		body := append([]byte{0x80, 0x00, 0x00}, p...)
		stream = append(stream, 0x00, 0x00, 0x01, 0xE0, byte(len(body)>>8), byte(len(body)))
		stream = append(stream, body...)
	}
	return append(stream, 0x00, 0x00, 0x01, 0xB9)
}

func TestLooksLikeTS(t *testing.T) {
	t.Parallel()
	full := make([]byte, mpegts.PacketSize+1)
	full[0] = 0x47
	full[mpegts.PacketSize] = 0x47

	broken := make([]byte, mpegts.PacketSize+1)
	broken[0] = 0x47

	tests := []struct {
		name string
		head []byte
		want bool
	}{
		{"empty", nil, false},
		{"sync_only", []byte{0x47}, true},
		{"two_syncs", full, true},
		{"second_sync_missing", broken, false},
		{"no_sync", []byte{0x00, 0x47}, false},
	}
	for _, tt := range tests {
		if got := looksLikeTS(tt.head); got != tt.want {
			t.Errorf("looksLikeTS(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLooksLikePS(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		head []byte
		want bool
	}{
		{"pack_header", []byte{0x00, 0x00, 0x01, 0xBA, 0x44}, true},
		{"short", []byte{0x00, 0x00, 0x01}, false},
		{"pes_not_pack", []byte{0x00, 0x00, 0x01, 0xE0}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		if got := looksLikePS(tt.head); got != tt.want {
			t.Errorf("looksLikePS(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestOpen_ProgramStream(t *testing.T) {
	t.Parallel()
	path := writeTempStream(t, psStream(
		[]byte{0x00, 0x00, 0x01, 0xB3, 0xAA},
		[]byte{0x00, 0x00, 0x01, 0x00, 0xBB},
	))

	s, err := Open(path, true, VideoUnknown)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if s.Type != VideoH262 {
		t.Errorf("Type = %v, want VideoH262", s.Type)
	}
	u, err := s.NextUnit()
	if err != nil {
		t.Fatal(err)
	}
	if u.StartCode != 0xB3 {
		t.Errorf("StartCode = 0x%02X, want 0xB3", u.StartCode)
	}
	if !bytes.Equal(u.Data, []byte{0x00, 0x00, 0x01, 0xB3, 0xAA}) {
		t.Errorf("Data = %x", u.Data)
	}
}

func TestOpen_ProgramStreamForcedType(t *testing.T) {
	t.Parallel()
	path := writeTempStream(t, psStream([]byte{0x00, 0x00, 0x01, 0xB0, 0x01}))

	s, err := Open(path, true, VideoAVS)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if s.Type != VideoAVS {
		t.Errorf("Type = %v, want VideoAVS", s.Type)
	}
}

func TestOpen_PESNeitherTSNorPS(t *testing.T) {
	t.Parallel()
	path := writeTempStream(t, []byte{0x00, 0x00, 0x01, 0xB3, 0xAA, 0xBB})

	if _, err := Open(path, true, VideoUnknown); err == nil {
		t.Fatal("expected error for plain ES opened as PES")
	} else if !strings.Contains(err.Error(), "neither transport stream nor program stream") {
		t.Errorf("err = %v", err)
	}
}
