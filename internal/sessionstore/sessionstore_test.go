// Copyright 2019 Ellis & Grant, Inc. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package sessionstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Michael-F-Ellis/midigen/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sessions.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestLoadUnknownSessionReturnsFreshHistory(t *testing.T) {
	s := openTestStore(t)
	h, err := s.Load("no-such-session")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(h.Entries) != 0 {
		t.Errorf("expected an empty history, got %d entries", len(h.Entries))
	}
	if h.Capacity != model.DefaultHistoryCapacity {
		t.Errorf("Capacity = %d, want default %d", h.Capacity, model.DefaultHistoryCapacity)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	s := openTestStore(t)
	h := model.NewSessionHistory()
	h.Push(model.HistoryEntry{Signature: model.CompositionSignature{
		Melody: "a,b,c", Harmony: "d,e,f", Rhythm: "g,h,i", Tempo: 120, Genre: "pop",
	}})
	h.Push(model.HistoryEntry{Signature: model.CompositionSignature{
		Melody: "x,y,z", Harmony: "u,v,w", Rhythm: "p,q,r", Tempo: 95, Genre: "jazz",
	}})

	if err := s.Save("session-a", h); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := s.Load("session-a")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	assert.Equal(t, h, loaded, "round-tripped history should match what was saved, field for field")
}

func TestSaveOverwritesPriorHistoryForSameSession(t *testing.T) {
	s := openTestStore(t)
	first := model.NewSessionHistory()
	first.Push(model.HistoryEntry{Signature: model.CompositionSignature{Genre: "rock", Tempo: 130}})
	if err := s.Save("session-b", first); err != nil {
		t.Fatalf("Save first: %v", err)
	}

	second := model.NewSessionHistory()
	second.Push(model.HistoryEntry{Signature: model.CompositionSignature{Genre: "lofi", Tempo: 70}})
	if err := s.Save("session-b", second); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	loaded, err := s.Load("session-b")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Entries) != 1 || loaded.Entries[0].Signature.Genre != "lofi" {
		t.Errorf("expected the second save to replace the first, got %+v", loaded.Entries)
	}
}

func TestDistinctSessionsAreIsolated(t *testing.T) {
	s := openTestStore(t)
	a := model.NewSessionHistory()
	a.Push(model.HistoryEntry{Signature: model.CompositionSignature{Genre: "pop", Tempo: 120}})
	b := model.NewSessionHistory()
	b.Push(model.HistoryEntry{Signature: model.CompositionSignature{Genre: "ambient", Tempo: 65}})

	if err := s.Save("session-x", a); err != nil {
		t.Fatalf("Save x: %v", err)
	}
	if err := s.Save("session-y", b); err != nil {
		t.Fatalf("Save y: %v", err)
	}

	loadedX, err := s.Load("session-x")
	if err != nil {
		t.Fatalf("Load x: %v", err)
	}
	loadedY, err := s.Load("session-y")
	if err != nil {
		t.Fatalf("Load y: %v", err)
	}
	if loadedX.Entries[0].Signature.Genre != "pop" || loadedY.Entries[0].Signature.Genre != "ambient" {
		t.Errorf("sessions bled into each other: x=%+v y=%+v", loadedX.Entries, loadedY.Entries)
	}
}
