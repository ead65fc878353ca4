package mpegts

import (
	"bytes"
	"testing"
)

// buildPES builds a bounded PES packet with an MPEG-2 optional header.
// headerData fills PES_header_data_length bytes (PTS and friends), data is
// the elementary-stream payload.
func buildPES(streamID byte, headerData, data []byte) []byte {
	packetLength := 3 + len(headerData) + len(data)
	pes := []byte{0x00, 0x00, 0x01, streamID}
	pes = append(pes, byte(packetLength>>8), byte(packetLength))
	pes = append(pes, 0x80, 0x00, byte(len(headerData)))
	pes = append(pes, headerData...)
	return append(pes, data...)
}

func TestParsePES_Video(t *testing.T) {
	t.Parallel()
	want := []byte{0x00, 0x00, 0x01, 0xB3, 0x12, 0x34}
	pes, err := parsePES(buildPES(0xE0, nil, want))
	if err != nil {
		t.Fatal(err)
	}
	if pes.StreamID != 0xE0 {
		t.Errorf("StreamID = 0x%02X, want 0xE0", pes.StreamID)
	}
	if !bytes.Equal(pes.Data, want) {
		t.Errorf("Data = %x, want %x", pes.Data, want)
	}
}

func TestParsePES_SkipsOptionalFields(t *testing.T) {
	t.Parallel()
	// 5 bytes of PTS in the optional header must not leak into the payload.
	pts := []byte{0x21, 0x00, 0x01, 0x00, 0x01}
	want := []byte{0x00, 0x00, 0x01, 0x00, 0xAB}
	pes, err := parsePES(buildPES(0xE0, pts, want))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pes.Data, want) {
		t.Errorf("Data = %x, want %x", pes.Data, want)
	}
}

func TestParsePES_Unbounded(t *testing.T) {
	t.Parallel()
	// packet_length 0 means the payload runs to the end of the buffer.
	want := []byte{0x00, 0x00, 0x01, 0x09, 0x10}
	payload := []byte{0x00, 0x00, 0x01, 0xE0, 0x00, 0x00, 0x80, 0x00, 0x00}
	payload = append(payload, want...)

	pes, err := parsePES(payload)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pes.Data, want) {
		t.Errorf("Data = %x, want %x", pes.Data, want)
	}
}

func TestParsePES_BoundedTrimsStuffing(t *testing.T) {
	t.Parallel()
	want := []byte{0x01, 0x02, 0x03}
	payload := buildPES(0xE0, nil, want)
	payload = append(payload, 0xFF, 0xFF, 0xFF, 0xFF) // transport stuffing

	pes, err := parsePES(payload)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(pes.Data, want) {
		t.Errorf("Data = %x, want %x", pes.Data, want)
	}
}

func TestParsePES_PaddingStream(t *testing.T) {
	t.Parallel()
	// padding_stream has no optional header; payload starts right after the
	// packet length.
	payload := []byte{0x00, 0x00, 0x01, 0xBE, 0x00, 0x04, 0xFF, 0xFF, 0xFF, 0xFF}

	pes, err := parsePES(payload)
	if err != nil {
		t.Fatal(err)
	}
	if pes.StreamID != 0xBE {
		t.Errorf("StreamID = 0x%02X, want 0xBE", pes.StreamID)
	}
	if len(pes.Data) != 4 {
		t.Errorf("Data length = %d, want 4", len(pes.Data))
	}
}

func TestParsePES_TooShort(t *testing.T) {
	t.Parallel()
	if _, err := parsePES([]byte{0x00, 0x00, 0x01, 0xE0}); err == nil {
		t.Error("expected error for truncated PES")
	}
}

func TestParsePES_BadStartCode(t *testing.T) {
	t.Parallel()
	if _, err := parsePES([]byte{0x00, 0x00, 0x02, 0xE0, 0x00, 0x00}); err == nil {
		t.Error("expected error for bad start code")
	}
}
