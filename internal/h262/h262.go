// Package h262 reads MPEG-2 (H.262) elementary streams as a sequence of
// items. An item is exactly one start-code delimited unit; pictures, slices
// and the various header units all arrive as separate items.
package h262

import (
	"github.com/etomahawk/tstools/internal/es"
)

// Start codes from ISO 13818-2 table 6-1.
const (
	PictureStartCode  = 0x00
	UserDataStartCode = 0xB2
	SequenceHeader    = 0xB3
	SequenceError     = 0xB4
	ExtensionStart    = 0xB5
	SequenceEnd       = 0xB7
	GroupStart        = 0xB8
)

// Picture coding types from ISO 13818-2 table 6-12.
const (
	CodingTypeI = 1
	CodingTypeP = 2
	CodingTypeB = 3
	CodingTypeD = 4
)

// Item is one unit of an H.262 elementary stream.
type Item struct {
	StartCode byte
	Data      []byte
}

// IsSlice reports whether the item is a slice (start codes 0x01 through
// 0xAF).
func (it *Item) IsSlice() bool {
	return it.StartCode >= 0x01 && it.StartCode <= 0xAF
}

// PictureCodingType returns the picture_coding_type of a picture header
// item, or 0 if the item is too short to carry one. Only meaningful when
// StartCode is PictureStartCode.
func (it *Item) PictureCodingType() byte {
	if len(it.Data) < 6 {
		return 0
	}
	return (it.Data[5] & 0x38) >> 3
}

// ItemReader pulls items from an elementary stream.
type ItemReader struct {
	r *es.Reader
}

// NewItemReader returns an ItemReader over r.
func NewItemReader(r *es.Reader) *ItemReader {
	return &ItemReader{r: r}
}

// NextItem returns the next item, or io.EOF once the stream is exhausted.
func (ir *ItemReader) NextItem() (*Item, error) {
	u, err := ir.r.NextUnit()
	if err != nil {
		return nil, err
	}
	return &Item{StartCode: u.StartCode, Data: u.Data}, nil
}
