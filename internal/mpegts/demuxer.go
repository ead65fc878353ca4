package mpegts

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Demuxer splits a transport stream into PMT sections and reassembled PES
// packets, pulled one at a time. The PAT is consumed internally to learn
// which PIDs carry PMTs.
type Demuxer struct {
	reader  io.Reader
	readBuf []byte
	log     *slog.Logger
	pool    *packetPool
	queued  []*Data
	eof     bool
}

// NewDemuxer creates a demuxer reading transport stream packets from r.
// If log is nil, slog.Default() is used.
func NewDemuxer(r io.Reader, log *slog.Logger) *Demuxer {
	if log == nil {
		log = slog.Default()
	}
	return &Demuxer{
		reader:  r,
		readBuf: make([]byte, PacketSize),
		log:     log.With("component", "demux"),
		pool:    newPacketPool(),
	}
}

// NextData returns the next demuxed unit from the stream. Returns io.EOF
// when all data has been consumed. Corrupt packets and sections are skipped,
// read errors from the underlying source are fatal.
func (d *Demuxer) NextData() (*Data, error) {
	for {
		if len(d.queued) > 0 {
			data := d.queued[0]
			d.queued = d.queued[1:]
			return data, nil
		}

		if d.eof {
			return nil, io.EOF
		}

		_, err := io.ReadFull(d.reader, d.readBuf)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				d.eof = true
				d.drainPool()
				continue
			}
			return nil, fmt.Errorf("mpegts: reading packet: %w", err)
		}

		pkt, err := parsePacket(d.readBuf)
		if err != nil {
			d.log.Debug("skipping corrupt packet", "error", err)
			continue
		}

		flushed := d.pool.add(pkt)
		if flushed == nil {
			continue
		}

		d.queued = append(d.queued, d.process(flushed)...)
	}
}

func (d *Demuxer) drainPool() {
	for _, packets := range d.pool.dump() {
		d.queued = append(d.queued, d.process(packets)...)
	}
}

// process turns one flushed packet run into demuxed units. PAT sections
// update the pool's PMT PID set and produce nothing themselves.
func (d *Demuxer) process(packets []*Packet) []*Data {
	if len(packets) == 0 {
		return nil
	}

	pid := packets[0].Header.PID

	var payload []byte
	for _, p := range packets {
		payload = append(payload, p.Payload...)
	}
	if len(payload) == 0 {
		return nil
	}

	if d.pool.isPSIPID(pid) {
		sections, err := parsePSI(payload)
		if err != nil {
			d.log.Debug("skipping corrupt section", "pid", pid, "error", err)
			return nil
		}
		for _, pmtPID := range sections.pmtPIDs {
			d.pool.addPMTPID(pmtPID)
		}
		var results []*Data
		for _, pmt := range sections.pmts {
			results = append(results, &Data{PID: pid, PMT: pmt})
		}
		return results
	}

	if isPESPayload(payload) {
		pes, err := parsePES(payload)
		if err != nil {
			d.log.Debug("skipping corrupt PES packet", "pid", pid, "error", err)
			return nil
		}
		return []*Data{{PID: pid, PES: pes}}
	}

	return nil
}
