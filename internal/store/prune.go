package store

import "time"

// Prune drops deleted entries, messages older than maxAge, and anything
// beyond maxPerDialog per dialog (newest kept). A zero bound disables that
// check. Returns the number of entries dropped; call Flush to persist.
func (s *Store) Prune(maxAge time.Duration, maxPerDialog int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cutoff time.Time
	if maxAge > 0 {
		cutoff = time.Now().UTC().Add(-maxAge)
	}

	dropped := 0
	for id, log := range s.messages {
		kept := log[:0:0]
		for _, m := range log {
			switch {
			case m.Deleted:
				dropped++
			case !cutoff.IsZero() && m.Date.Before(cutoff):
				dropped++
			default:
				kept = append(kept, m)
			}
		}
		if maxPerDialog > 0 && len(kept) > maxPerDialog {
			dropped += len(kept) - maxPerDialog
			kept = append([]Message(nil), kept[len(kept)-maxPerDialog:]...)
		}
		if len(kept) != len(log) {
			s.messages[id] = kept
			s.dirtyLogs[id] = true
		}
	}
	return dropped
}
