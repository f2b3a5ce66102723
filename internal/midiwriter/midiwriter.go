// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package midiwriter assembles a finished track set into a Standard MIDI
// File, type 1, 480 ticks per quarter note. Track 0 carries the tempo and
// time signature; tracks 1..N carry one instrument each, with channel 9
// reserved for drums regardless of the planned program number.
package midiwriter

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Michael-F-Ellis/midigen/internal/model"
)

const ticksPerQuarterNote = 480

const (
	drumChannel = 9
	noteOn      = 0x90
	noteOff     = 0x80
	programChg  = 0xC0
)

// low3 returns the lower 3 bytes of n, big-endian, the width of the tempo
// meta event's microseconds-per-quarter-note payload.
func low3(n uint32) [3]byte {
	return [3]byte{
		byte((n & 0x00FFFFFF) >> 16),
		byte((n & 0x0000FFFF) >> 8),
		byte(n & 0x000000FF),
	}
}

// vlq encodes n as a MIDI variable-length quantity, 7 bits per byte with
// the continuation bit set on every byte but the last.
func vlq(n uint32) []byte {
	if n == 0 {
		return []byte{0x00}
	}
	var buf [5]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte(n & 0x7F)
		n >>= 7
	}
	for j := i; j < len(buf)-1; j++ {
		buf[j] |= 0x80
	}
	return buf[i:]
}

// event is one note-on or note-off at an absolute tick, used to build a
// track's delta-time-encoded event stream.
type event struct {
	tick     uint32
	status   byte
	pitch    byte
	velocity byte
}

// Encode renders tracks into a complete Standard MIDI File byte stream.
// It performs no I/O, so it round-trips deterministically for identical
// inputs and is safe to exercise directly in tests.
func Encode(tracks []model.Track, tempoBPM int, beatsPerBar int) []byte {
	if tempoBPM <= 0 {
		tempoBPM = 120
	}
	if beatsPerBar <= 0 {
		beatsPerBar = 4
	}

	buf := new(bytes.Buffer)
	buf.Write(header(len(tracks) + 1))
	buf.Write(mtrk(conductorTrack(tempoBPM, beatsPerBar)))
	for _, tr := range tracks {
		buf.Write(mtrk(instrumentTrack(tr)))
	}
	return buf.Bytes()
}

// header returns the MThd chunk: format 1, numTracks tracks, 480 ticks per
// quarter note.
func header(numTracks int) []byte {
	h := []byte{'M', 'T', 'h', 'd', 0, 0, 0, 6, 0, 1, 0, 0, 0, 0}
	h[10] = byte(numTracks >> 8)
	h[11] = byte(numTracks)
	h[12] = byte(ticksPerQuarterNote >> 8)
	h[13] = byte(ticksPerQuarterNote & 0xFF)
	return h
}

// mtrk wraps track data with its MTrk chunk header and length.
func mtrk(data []byte) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString("MTrk")
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(data)))
	buf.Write(length[:])
	buf.Write(data)
	return buf.Bytes()
}

// conductorTrack builds track 0: a 4/4-style time signature event (the
// numerator tracks beatsPerBar; the denominator is fixed at quarter-note
// beats), a tempo event, and end of track.
func conductorTrack(tempoBPM, beatsPerBar int) []byte {
	microsecondsPerBeat := uint32(60000000 / tempoBPM)
	us := low3(microsecondsPerBeat)

	buf := new(bytes.Buffer)
	// time signature: FF 58 04 nn dd cc bb
	buf.Write([]byte{0x00, 0xFF, 0x58, 0x04, byte(beatsPerBar), 0x02, 0x18, 0x08})
	// tempo: FF 51 03 <3 byte microseconds per quarter note>
	buf.Write([]byte{0x00, 0xFF, 0x51, 0x03})
	buf.Write(us[:])
	// end of track
	buf.Write([]byte{0x00, 0xFF, 0x2F, 0x00})
	return buf.Bytes()
}

// instrumentTrack builds one track: a program change at tick 0 on tr's
// channel (forced to 9 for drums), followed by the track's notes encoded
// as note-on/note-off pairs in tick order.
func instrumentTrack(tr model.Track) []byte {
	channel := tr.Channel
	if tr.TrackType == model.TrackDrums {
		channel = drumChannel
	}

	events := make([]event, 0, len(tr.Notes)*2)
	for _, n := range tr.Notes {
		if n.Velocity <= 0 || n.Duration <= 0 {
			continue
		}
		startTick := beatsToTicks(n.StartTime)
		endTick := beatsToTicks(n.StartTime + n.Duration)
		if endTick <= startTick {
			endTick = startTick + 1
		}
		events = append(events,
			event{tick: startTick, status: noteOn, pitch: clampByte(n.Pitch), velocity: clampByte(n.Velocity)},
			event{tick: endTick, status: noteOff, pitch: clampByte(n.Pitch), velocity: 0},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		if events[i].pitch != events[j].pitch {
			return events[i].pitch < events[j].pitch
		}
		// resolve same tick, same pitch by letting the off precede the on,
		// so a note never appears to retrigger before its predecessor ends
		return events[i].status < events[j].status
	})

	buf := new(bytes.Buffer)
	buf.Write([]byte{0x00, byte(programChg | channel), byte(tr.Program & 0x7F)})

	var lastTick uint32
	for _, e := range events {
		buf.Write(vlq(e.tick - lastTick))
		buf.WriteByte(e.status | byte(channel))
		buf.WriteByte(e.pitch)
		buf.WriteByte(e.velocity)
		lastTick = e.tick
	}
	buf.Write([]byte{0x00, 0xFF, 0x2F, 0x00})
	return buf.Bytes()
}

func beatsToTicks(beats float64) uint32 {
	if beats < 0 {
		beats = 0
	}
	return uint32(beats*ticksPerQuarterNote + 0.5)
}

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return byte(v)
}

// Filename returns the standard output name for a generation: a genre tag,
// the first 8 characters of the session id, and a timestamp, so repeated
// runs in the same session never collide on disk.
func Filename(genre, sessionID string, at time.Time) string {
	tag := sessionID
	if len(tag) > 8 {
		tag = tag[:8]
	}
	if tag == "" {
		tag = "nosession"
	}
	return fmt.Sprintf("midigen_%s_%s_%s.mid", genre, tag, at.Format("20060102_150405"))
}

// Write encodes tracks and writes the result to outDir under the standard
// filename convention, returning the full path written.
func Write(tracks []model.Track, tempoBPM, beatsPerBar int, genre, sessionID, outDir string) (string, error) {
	data := Encode(tracks, tempoBPM, beatsPerBar)
	name := Filename(genre, sessionID, time.Now())
	path := filepath.Join(outDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing midi file %s: %w", path, err)
	}
	return path, nil
}
