// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Embr Contributors

package store

import (
	"sort"

	embrerr "github.com/embr-dev/embr/pkg/errors"
)

// LogOptions controls Log rendering.
type LogOptions struct {
	// Model restricts the view to a single model when non-empty.
	Model string
	// Limit caps the number of entries per model group; 0 means all.
	Limit int
	// Verbose attaches each entry's meta sidecar.
	Verbose bool
}

// LogEntry is one rendered history event.
type LogEntry struct {
	Event   Event
	Current bool
	// Meta is populated in verbose mode when the sidecar exists.
	Meta *Meta
}

// ModelChain is the per-model version chain for a source path, newest
// entry first.
type ModelChain struct {
	Model   string
	Entries []LogEntry
}

// Log renders the version chains for sourcePath, grouped by model.
// Within each group the entry matching the latest-index hash is marked
// current; when none matches, the most recent entry is.
func (s *Store) Log(sourcePath string, opts LogOptions) ([]ModelChain, error) {
	events, err := s.HistoryForPath(sourcePath, opts.Model)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, embrerr.New(embrerr.CodeStoreEntryNotFound,
			"path has no history",
			embrerr.FieldPath(sourcePath),
			embrerr.FieldModel(opts.Model),
		)
	}

	// Newest first. The slice is reversed before the stable sort so that
	// among equal timestamps the later history line comes first.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp > events[j].Timestamp
	})

	groups := make(map[string][]LogEntry)
	var order []string
	for _, ev := range events {
		if _, seen := groups[ev.Model]; !seen {
			order = append(order, ev.Model)
		}
		groups[ev.Model] = append(groups[ev.Model], LogEntry{Event: ev})
	}
	sort.Strings(order)

	chains := make([]ModelChain, 0, len(order))
	for _, model := range order {
		entries := groups[model]
		s.markCurrent(sourcePath, model, entries)

		if opts.Limit > 0 && len(entries) > opts.Limit {
			entries = entries[:opts.Limit]
		}

		if opts.Verbose {
			for i := range entries {
				if meta, _, err := s.ReadMeta(entries[i].Event.Hash); err == nil {
					m := meta
					entries[i].Meta = &m
				}
			}
		}

		chains = append(chains, ModelChain{Model: model, Entries: entries})
	}
	return chains, nil
}

func (s *Store) markCurrent(sourcePath, model string, entries []LogEntry) {
	current, err := s.CurrentHash(sourcePath, model)
	if err == nil {
		for i := range entries {
			if entries[i].Event.Hash == current {
				entries[i].Current = true
				return
			}
		}
	}

	// No index entry matches this group; the most recent event stands in.
	if len(entries) > 0 {
		entries[0].Current = true
	}
}
