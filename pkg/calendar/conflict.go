package calendar

import "time"

// FindConflicts returns every occurrence whose time range overlaps the
// candidate [start, end) range. Overlap is strict on both sides, so an
// event ending exactly when another starts does not conflict. When
// excludeID is non-empty the occurrence with that id is skipped, which
// keeps an event from conflicting with itself while being edited.
//
// Pure and O(n); cheap enough to run on every field change in the editor.
func FindConflicts(start, end time.Time, occurrences []EventOccurrence, excludeID string) []EventOccurrence {
	var conflicts []EventOccurrence
	for _, occ := range occurrences {
		if excludeID != "" && occ.ID == excludeID {
			continue
		}
		if start.Before(occ.EndAt) && end.After(occ.StartAt) {
			conflicts = append(conflicts, occ)
		}
	}
	return conflicts
}
