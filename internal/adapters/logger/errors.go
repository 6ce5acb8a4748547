package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager is implemented by zerr errors, which can report their own message
// without the cause chain.
type messager interface {
	Message() string
	Metadata() map[string]any
}

// ErrorEntry is one link of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks err from the outermost error inwards. A zerr
// error without a message only carries metadata, which is merged into the
// next entry. The walk stops at the first non-zerr error.
func collectErrorEntries(err error) []ErrorEntry {
	var (
		entries []ErrorEntry
		pending map[string]any
	)
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: pending})
			break
		}

		meta := m.Metadata()
		if m.Message() == "" {
			if pending == nil {
				pending = make(map[string]any, len(meta))
			}
			maps.Copy(pending, meta)
		} else {
			if pending != nil {
				maps.Copy(meta, pending)
				pending = nil
			}
			entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: meta})
		}
		current = errors.Unwrap(current)
	}
	return entries
}

// formatErrorEntries renders entries as
//
//	Error: outer
//	       key: value
//
//	  Caused by:
//	    → inner
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string
	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")
		if i == 0 {
			lines = append(lines, "Error: "+msgLines[0])
			lines = appendIndented(lines, "       ", msgLines[1:], entry.Metadata)
			continue
		}
		if i == 1 {
			lines = append(lines, "", "  Caused by:")
		}
		lines = append(lines, "    → "+msgLines[0])
		lines = appendIndented(lines, "      ", msgLines[1:], entry.Metadata)
	}
	return strings.Join(lines, "\n")
}

func appendIndented(lines []string, indent string, rest []string, meta map[string]any) []string {
	for _, line := range rest {
		lines = append(lines, indent+line)
	}
	for _, key := range slices.Sorted(maps.Keys(meta)) {
		lines = append(lines, fmt.Sprintf("%s%s: %v", indent, key, meta[key]))
	}
	return lines
}
