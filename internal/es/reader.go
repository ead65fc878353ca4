package es

import (
	"bufio"
	"errors"
	"io"
)

// Reader scans an elementary stream for start-code delimited units.
type Reader struct {
	br      *bufio.Reader
	started bool
	err     error
}

// NewReader returns a Reader scanning r. Bytes before the first start code
// are discarded.
func NewReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReaderSize(r, 64*1024)}
}

// NextUnit returns the next unit from the stream, or io.EOF once the stream
// is exhausted. A final unit truncated by end of input is still delivered;
// the call after it returns io.EOF.
func (r *Reader) NextUnit() (*Unit, error) {
	if r.err != nil {
		return nil, r.err
	}

	if !r.started {
		if _, err := r.scanToPrefix(nil, false); err != nil {
			r.err = err
			return nil, err
		}
		r.started = true
	}

	sc, err := r.br.ReadByte()
	if err != nil {
		r.err = err
		return nil, err
	}

	data := make([]byte, 4, 64)
	data[2] = 1
	data[3] = sc

	data, err = r.scanToPrefix(data, true)
	if err != nil {
		r.err = err
		if errors.Is(err, io.EOF) {
			return &Unit{StartCode: sc, Data: data}, nil
		}
		return nil, err
	}
	return &Unit{StartCode: sc, Data: data}, nil
}

// scanToPrefix consumes bytes up to and including the next 00 00 01 prefix.
// The prefix itself is not appended to dst. When keep is false the scanned
// bytes are dropped instead of collected.
func (r *Reader) scanToPrefix(dst []byte, keep bool) ([]byte, error) {
	var w [3]byte
	n := 0
	for {
		b, err := r.br.ReadByte()
		if err != nil {
			if keep {
				dst = append(dst, w[:n]...)
			}
			return dst, err
		}
		if n < 3 {
			w[n] = b
			n++
		} else {
			if keep {
				dst = append(dst, w[0])
			}
			w[0], w[1], w[2] = w[1], w[2], b
		}
		if n == 3 && w[0] == 0x00 && w[1] == 0x00 && w[2] == 0x01 {
			return dst, nil
		}
	}
}
