// Package mpegts unwraps MPEG transport streams. It parses 188-byte
// packets, follows PAT and PMT sections to the programme's video elementary
// stream, reassembles that stream's PES packets, and serves their payloads
// as a contiguous elementary-stream byte source.
package mpegts

// PacketSize is the length of a transport stream packet.
const PacketSize = 188

// Packet is a parsed 188-byte transport stream packet.
type Packet struct {
	Header  PacketHeader
	Payload []byte
}

// PacketHeader contains the parsed header fields of a transport stream packet.
type PacketHeader struct {
	PID                       uint16
	ContinuityCounter         uint8
	HasAdaptationField        bool
	HasPayload                bool
	PayloadUnitStartIndicator bool
	TransportErrorIndicator   bool
	DiscontinuityIndicator    bool
}

// Data is one demuxed unit: a PMT section or a reassembled PES packet,
// tagged with the PID it arrived on. Exactly one of PMT and PES is non-nil.
type Data struct {
	PID uint16
	PMT *PMT
	PES *PES
}

// PMT lists the elementary streams of one programme.
type PMT struct {
	Streams []PMTStream
}

// PMTStream describes a single elementary stream in a PMT.
type PMTStream struct {
	PID  uint16
	Type uint8
}

// PES is a reassembled packetised elementary stream packet, reduced to its
// stream id and payload.
type PES struct {
	StreamID uint8
	Data     []byte
}

// Stream types assigned by ISO 13818-1 (and the AVS amendment) for the
// video formats this tool reads.
const (
	StreamTypeMPEG1Video = 0x01
	StreamTypeMPEG2Video = 0x02
	StreamTypeH264       = 0x1B
	StreamTypeAVS        = 0x42
)

// IsVideoStreamType reports whether st is a video stream type the tool
// understands.
func IsVideoStreamType(st uint8) bool {
	switch st {
	case StreamTypeMPEG1Video, StreamTypeMPEG2Video, StreamTypeH264, StreamTypeAVS:
		return true
	}
	return false
}
