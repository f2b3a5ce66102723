// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package miditempo rewrites the tempo of an already-written MIDI file in
// place, without re-running the composition pipeline. It's a small
// standalone post-processing step -- a performer who asks for the same
// composition slower or faster doesn't need a fresh generation, just a
// three-byte patch to the conductor track's tempo meta-event.
package miditempo

import (
	"fmt"
	"os"
)

// ReadTempo scans data for the first Set Tempo meta-event (FF 51 03) and
// returns the byte offset of its three-byte microseconds-per-quarter-note
// payload along with the decoded value.
func ReadTempo(data []byte) (addr int, microsecondsPerBeat uint32, err error) {
	var state int
	for i, b := range data {
		switch state {
		case 0:
			if b == 0xFF {
				state = 1
			}
		case 1:
			if b == 0x51 {
				state = 2
			} else {
				state = 0
			}
		case 2:
			if b == 0x03 {
				state = 3
			} else {
				state = 0
			}
		case 3:
			addr = i
			microsecondsPerBeat = uint32(b) << 16
			state = 4
		case 4:
			microsecondsPerBeat += uint32(b) << 8
			state = 5
		case 5:
			microsecondsPerBeat += uint32(b)
			return addr, microsecondsPerBeat, nil
		}
	}
	return 0, 0, fmt.Errorf("no tempo event found")
}

// low3 splits n into its low 24 bits, big-endian, matching the three-byte
// tempo payload's on-the-wire layout.
func low3(n uint32) [3]byte {
	return [3]byte{byte(n >> 16), byte(n >> 8), byte(n)}
}

// SetTempo returns a copy of data with its tempo event rewritten to bpm
// beats per minute. bpm must be in [20,300], matching the range the core
// validates requested tempos against.
func SetTempo(data []byte, bpm int) ([]byte, error) {
	if bpm < 20 || bpm > 300 {
		return nil, fmt.Errorf("bpm %d out of range [20,300]", bpm)
	}
	addr, _, err := ReadTempo(data)
	if err != nil {
		return nil, err
	}
	microsecondsPerBeat := uint32(60_000_000 / bpm)
	out := make([]byte, len(data))
	copy(out, data)
	payload := low3(microsecondsPerBeat)
	copy(out[addr:addr+3], payload[:])
	return out, nil
}

// RetempoFile reads the MIDI file at path, rewrites its tempo to bpm, and
// writes the result back to the same path.
func RetempoFile(path string, bpm int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	retempoed, err := SetTempo(data, bpm)
	if err != nil {
		return fmt.Errorf("retempoing %s: %w", path, err)
	}
	if err := os.WriteFile(path, retempoed, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
