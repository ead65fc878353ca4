package dots

import (
	"fmt"

	"github.com/etomahawk/tstools/internal/avs"
	"github.com/etomahawk/tstools/internal/es"
	"github.com/etomahawk/tstools/internal/h262"
	"github.com/etomahawk/tstools/internal/h264"
)

// ItemGlyph classifies an MPEG-2 item. Slice items classify to the empty
// string: item tracing does not show slices.
func ItemGlyph(item *h262.Item) string {
	switch item.StartCode {
	case h262.PictureStartCode:
		return pictureGlyph(item.PictureCodingType(), "x")
	case 0xB0, 0xB1, 0xB6:
		return "R"
	case h262.UserDataStartCode:
		return "U"
	case h262.SequenceHeader:
		return "["
	case h262.SequenceError:
		return "X"
	case h262.ExtensionStart:
		return "E"
	case h262.SequenceEnd:
		return "]"
	case h262.GroupStart:
		return ">"
	}
	if item.IsSlice() {
		return ""
	}
	return "?"
}

// RawH262Glyph classifies one raw MPEG-2 ES unit. Unlike item tracing,
// every unit is visible: slices print "_", and a picture with an
// out-of-range coding type prints "!".
func RawH262Glyph(u *es.Unit) string {
	switch u.StartCode {
	case h262.PictureStartCode:
		item := h262.Item{StartCode: u.StartCode, Data: u.Data}
		return pictureGlyph(item.PictureCodingType(), "!")
	case 0xB0, 0xB1, 0xB6:
		return "R"
	case h262.UserDataStartCode:
		return "U"
	case h262.SequenceHeader:
		return "["
	case h262.SequenceError:
		return "X"
	case h262.ExtensionStart:
		return "E"
	case h262.SequenceEnd:
		return "]"
	case h262.GroupStart:
		return ">"
	}
	if u.StartCode >= 0x01 && u.StartCode <= 0xAF {
		return "_"
	}
	return "?"
}

func pictureGlyph(coding byte, other string) string {
	switch coding {
	case h262.CodingTypeI:
		return "i"
	case h262.CodingTypeP:
		return "p"
	case h262.CodingTypeB:
		return "b"
	case h262.CodingTypeD:
		return "d"
	}
	return other
}

// FrameGlyph classifies an AVS frame or standalone unit. Unrecognised start
// codes at or above 0xB0 render as an explicit hex tag rather than a
// catch-all glyph.
func FrameGlyph(f *avs.Frame) string {
	if f.IsFrame {
		switch f.CodingType {
		case avs.CodingI:
			return "i"
		case avs.CodingP:
			return "p"
		case avs.CodingB:
			return "b"
		}
		return "!"
	}
	if f.StartCode < 0xB0 {
		return "_"
	}
	switch f.StartCode {
	case avs.SeqHeader:
		return "["
	case avs.SeqEnd:
		return "]"
	case avs.UserData:
		return "U"
	case avs.ExtensionStart:
		return "E"
	case avs.VideoEditCode:
		return "V"
	}
	return fmt.Sprintf("<%x>", f.StartCode)
}

// RawAVSGlyph classifies one raw AVS ES unit.
func RawAVSGlyph(u *es.Unit) string {
	switch u.StartCode {
	case avs.IPictureStart:
		return "i"
	case avs.PBPictureStart:
		switch avs.PictureCodingType(u) {
		case avs.CodingP:
			return "p"
		case avs.CodingB:
			return "b"
		}
		return "!"
	case avs.SeqHeader:
		return "["
	case avs.SeqEnd:
		return "]"
	case avs.UserData:
		return "U"
	case avs.ExtensionStart:
		return "E"
	case avs.VideoEditCode:
		return "V"
	}
	if u.StartCode < 0xB0 {
		return "_"
	}
	return "?"
}

// AccessUnitGlyph classifies an H.264 access unit by its primary picture:
// upper case when it is a reference picture, lower case when not, D or d
// for IDRs, X or x for mixed slice types, and "_" for an access unit with
// no picture in it.
func AccessUnitGlyph(au *h264.AccessUnit) string {
	p := au.Primary
	switch {
	case p == nil:
		return "_"

	case p.RefIDC == 0:
		switch {
		case au.AllSlicesAre(h264.SliceTypeI):
			return "i"
		case au.AllSlicesAre(h264.SliceTypeP):
			return "p"
		case au.AllSlicesAre(h264.SliceTypeB):
			return "b"
		}
		return "x"

	case p.Type == h264.NALTypeIDR:
		if au.AllSlicesAre(h264.SliceTypeI) {
			return "D"
		}
		return "d"

	case p.Type == h264.NALTypeNonIDR:
		switch {
		case au.AllSlicesAre(h264.SliceTypeI):
			return "I"
		case au.AllSlicesAre(h264.SliceTypeP):
			return "P"
		case au.AllSlicesAre(h264.SliceTypeB):
			return "B"
		}
		return "X"
	}
	return "?"
}
