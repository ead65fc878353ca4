// Package es reads video elementary streams as start-code delimited units.
// It owns the input stack of the tool: plain ES files and stdin, transport
// or program stream input unwrapped to ES via the mpegts and ps packages,
// and the heuristic used to decide what kind of video an ES file holds.
package es

import "github.com/etomahawk/tstools/internal/mpegts"

// Unit is one start-code delimited unit of an elementary stream. Data holds
// the complete unit, including the leading 00 00 01 prefix and the start
// code byte, so header fields keep their fixed bitstream offsets.
type Unit struct {
	StartCode byte
	Data      []byte
}

// VideoType identifies the bitstream family carried by an elementary stream.
type VideoType int

const (
	VideoUnknown VideoType = iota
	VideoH262
	VideoH264
	VideoAVS
)

func (v VideoType) String() string {
	switch v {
	case VideoH262:
		return "H.262"
	case VideoH264:
		return "H.264"
	case VideoAVS:
		return "AVS"
	}
	return "unknown"
}

// videoTypeForStreamType maps a PMT stream type to a video type.
func videoTypeForStreamType(st uint8) (VideoType, bool) {
	switch st {
	case mpegts.StreamTypeMPEG1Video, mpegts.StreamTypeMPEG2Video:
		return VideoH262, true
	case mpegts.StreamTypeH264:
		return VideoH264, true
	case mpegts.StreamTypeAVS:
		return VideoAVS, true
	}
	return VideoUnknown, false
}
