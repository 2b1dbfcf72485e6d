// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package store

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	embrerr "github.com/embr-dev/embr/pkg/errors"
)

// Event is one store operation recorded in the history log.
type Event struct {
	Timestamp  int64
	Hash       string
	SourcePath string
	Model      string
}

// appendHistory records ev in the canonical line shape:
// "<unix_ts> <hash> <source_path> <model>".
func (s *Store) appendHistory(ev Event) error {
	line := fmt.Sprintf("%d %s %s %s\n", ev.Timestamp, ev.Hash, ev.SourcePath, ev.Model)

	f, err := os.OpenFile(s.layout.LogPath(), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return embrerr.Wrapf(err, embrerr.CodeStoreIndexFailure, "opening history log")
	}
	if _, err := f.WriteString(line); err != nil {
		_ = f.Close()
		return embrerr.Wrapf(err, embrerr.CodeStoreIndexFailure, "appending history event")
	}
	return f.Close()
}

// History returns every parseable event in insertion order.
//
// Two historical line shapes are accepted:
//
//	<unix_ts> <hash> <source_path> <model>
//	<source_path> <hash> <ISO8601_ts> <model>
//
// Lines that match neither shape are skipped; a partially written tail
// line must not make the whole log unreadable.
func (s *Store) History() ([]Event, error) {
	data, err := os.ReadFile(s.layout.LogPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, embrerr.Wrapf(err, embrerr.CodeStoreIndexFailure, "reading history log")
	}

	var events []Event
	for _, line := range strings.Split(string(data), "\n") {
		ev, ok := parseHistoryLine(line)
		if ok {
			events = append(events, ev)
		}
	}
	return events, nil
}

func parseHistoryLine(line string) (Event, bool) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return Event{}, false
	}

	// Canonical shape: unix timestamp first, hash second.
	if ts, err := strconv.ParseInt(fields[0], 10, 64); err == nil && isFullHash(fields[1]) {
		return Event{
			Timestamp:  ts,
			Hash:       fields[1],
			SourcePath: fields[2],
			Model:      fields[3],
		}, true
	}

	// Legacy shape: source path first, ISO 8601 timestamp third.
	if isFullHash(fields[1]) {
		ts, err := parseISOTimestamp(fields[2])
		if err != nil {
			return Event{}, false
		}
		return Event{
			Timestamp:  ts,
			Hash:       fields[1],
			SourcePath: fields[0],
			Model:      fields[3],
		}, true
	}

	return Event{}, false
}

func isFullHash(s string) bool {
	return len(s) == FullHashLen && isHexToken(s)
}

func parseISOTimestamp(s string) (int64, error) {
	for _, format := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(format, s); err == nil {
			return t.Unix(), nil
		}
	}
	return 0, fmt.Errorf("timestamp %q is not ISO 8601", s)
}

// HistoryForPath returns the events for sourcePath, optionally filtered
// by model, in insertion order.
func (s *Store) HistoryForPath(sourcePath, model string) ([]Event, error) {
	events, err := s.History()
	if err != nil {
		return nil, err
	}

	var out []Event
	for _, ev := range events {
		if ev.SourcePath != sourcePath {
			continue
		}
		if model != "" && ev.Model != model {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

// ModelsForPath returns the distinct models that have ever stored an
// embedding for sourcePath, sorted by name.
func (s *Store) ModelsForPath(sourcePath string) ([]string, error) {
	events, err := s.HistoryForPath(sourcePath, "")
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var models []string
	for _, ev := range events {
		if _, ok := seen[ev.Model]; ok {
			continue
		}
		seen[ev.Model] = struct{}{}
		models = append(models, ev.Model)
	}
	sort.Strings(models)
	return models, nil
}

// modelsOf returns the set of models that have recorded (hash,
// sourcePath) store events. Used to attribute latest-index lines, which
// carry no model column; the same hash may serve several models when
// identical payloads were stored under each.
func (s *Store) modelsOf(hash, sourcePath string) (map[string]struct{}, error) {
	events, err := s.HistoryForPath(sourcePath, "")
	if err != nil {
		return nil, err
	}

	models := make(map[string]struct{})
	for _, ev := range events {
		if ev.Hash == hash {
			models[ev.Model] = struct{}{}
		}
	}
	return models, nil
}
