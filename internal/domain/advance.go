package domain

import "errors"

type AdvanceStats struct {
	LinesFolded    int
	LinesSkipped   int
	SessionsOpened int
	SessionsClosed int
	BatchesStarted int
}

func (s AdvanceStats) Add(other AdvanceStats) AdvanceStats {
	return AdvanceStats{
		LinesFolded:    s.LinesFolded + other.LinesFolded,
		LinesSkipped:   s.LinesSkipped + other.LinesSkipped,
		SessionsOpened: s.SessionsOpened + other.SessionsOpened,
		SessionsClosed: s.SessionsClosed + other.SessionsClosed,
		BatchesStarted: s.BatchesStarted + other.BatchesStarted,
	}
}

// Advance folds the complete, ordered content of one source into the state.
//
// Lines up to the cursor are skipped when source matches the cursor's source,
// so feeding the same or a longer version of a source again only folds what
// is new. Sessions of clients in the final batch stay open: absence can only
// be proven by a later scan.
//
// A malformed line stops folding. Lines before it stay folded and the cursor
// points at the last consumed line.
func (s *EngineState) Advance(source string, lines []string) (AdvanceStats, error) {
	s.ensureInitialized()

	var stats AdvanceStats
	start := 0
	if s.Cursor.Source == source {
		if s.Cursor.Offset > len(lines) {
			return stats, &StaleResumeError{Source: source, Offset: s.Cursor.Offset, Lines: len(lines)}
		}
		start = s.Cursor.Offset
		stats.LinesSkipped = start
	}

	s.Cursor = ResumeCursor{Source: source, Offset: start}
	for i := start; i < len(lines); i++ {
		observation, err := ParseObservation(lines[i])
		if err != nil {
			var malformed *MalformedLineError
			if errors.As(err, &malformed) {
				malformed.Source = source
				malformed.Line = i + 1
			}
			return stats, err
		}

		s.fold(observation, &stats)
		s.Cursor.Offset = i + 1
		stats.LinesFolded++
	}

	return stats, nil
}

func (s *EngineState) fold(observation Observation, stats *AdvanceStats) {
	id := observation.ClientID
	if _, ok := s.Clients[id]; !ok {
		s.Clients[id] = []Session{}
	}

	if observation.Timestamp != s.Batch.CurrentTimestamp {
		stats.SessionsClosed += s.closeDeparted()
		s.Batch.shift(observation.Timestamp)
		stats.BatchesStarted++
	}

	sessions := s.Clients[id]
	if len(sessions) == 0 || !sessions[len(sessions)-1].Open() {
		s.Clients[id] = append(sessions, Session{
			Start:   observation.Timestamp,
			Address: observation.Address,
		})
		stats.SessionsOpened++
	}

	s.Batch.CurrentMembers.Add(id)
	s.Batch.PreviousMembers.Remove(id)
}

// closeDeparted ends the sessions of clients seen in the previous batch but not
// in the batch that is about to complete. The end is the previous batch's
// timestamp, the last time the client was actually seen.
func (s *EngineState) closeDeparted() int {
	closed := 0
	for _, id := range s.Batch.PreviousMembers.Sorted() {
		sessions := s.Clients[id]
		if len(sessions) == 0 {
			continue
		}

		last := &sessions[len(sessions)-1]
		if !last.Open() {
			continue
		}
		last.End = s.Batch.PreviousTimestamp
		closed++
	}

	return closed
}
