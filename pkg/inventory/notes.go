package inventory

import (
	"fmt"
	"strings"
	"time"
)

// The maintenance_notes blob predates the typed ledger columns: employee-facing
// screens render it verbatim, so state-changing operations still append
// human-readable lines to it. The tag lines additionally mirror the
// resource_tags table and must be stripped on tag removal.

const noteTimeLayout = "2006-01-02 15:04"

// appendNoteLine appends a timestamped line to a notes blob.
func appendNoteLine(notes, line string) string {
	stamped := fmt.Sprintf("[%s] %s", time.Now().UTC().Format(noteTimeLayout), line)
	if notes == "" {
		return stamped
	}
	return notes + "\n" + stamped
}

// tagNoteLine renders the legacy tag line appended to a resource's notes.
func tagNoteLine(name, category string) string {
	if category != "" {
		return fmt.Sprintf("TAG: %s [%s]", name, category)
	}
	return "TAG: " + name
}

// stripTagLines removes every notes line containing "TAG: <name>", leaving all
// other lines untouched.
func stripTagLines(notes, name string) string {
	if notes == "" {
		return notes
	}
	marker := "TAG: " + name
	lines := strings.Split(notes, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if idx := strings.Index(line, marker); idx >= 0 {
			// Guard against prefix collisions ("Emergency" vs "Emergency Medical"):
			// the marker must end the line or be followed by the category bracket.
			rest := line[idx+len(marker):]
			if rest == "" || strings.HasPrefix(rest, " [") {
				continue
			}
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
