package domain

// BatchState tracks the two most recent distinct scan timestamps and which
// clients were seen in each.
type BatchState struct {
	CurrentTimestamp  Timestamp
	PreviousTimestamp Timestamp
	CurrentMembers    ClientSet
	PreviousMembers   ClientSet
}

// shift makes the current batch the previous one. The current member set is
// replaced, not cleared, so the two sets never alias.
func (b *BatchState) shift(next Timestamp) {
	b.PreviousMembers = b.CurrentMembers
	b.CurrentMembers = NewClientSet()
	b.PreviousTimestamp = b.CurrentTimestamp
	b.CurrentTimestamp = next
}

// ResumeCursor records how many lines of Source are already folded into state.
type ResumeCursor struct {
	Source string `json:"source" yaml:"source"`
	Offset int    `json:"line" yaml:"line"`
}

type EngineState struct {
	Clients ClientHistory
	Batch   BatchState
	Cursor  ResumeCursor
}

func NewEngineState() EngineState {
	return EngineState{
		Clients: ClientHistory{},
		Batch: BatchState{
			CurrentMembers:  NewClientSet(),
			PreviousMembers: NewClientSet(),
		},
	}
}

// Clone returns a deep copy, suitable as a snapshot to restore after an
// aborted Advance.
func (s EngineState) Clone() EngineState {
	return EngineState{
		Clients: s.Clients.clone(),
		Batch: BatchState{
			CurrentTimestamp:  s.Batch.CurrentTimestamp,
			PreviousTimestamp: s.Batch.PreviousTimestamp,
			CurrentMembers:    s.Batch.CurrentMembers.Clone(),
			PreviousMembers:   s.Batch.PreviousMembers.Clone(),
		},
		Cursor: s.Cursor,
	}
}

func (s *EngineState) ensureInitialized() {
	if s.Clients == nil {
		s.Clients = ClientHistory{}
	}
	if s.Batch.CurrentMembers == nil {
		s.Batch.CurrentMembers = NewClientSet()
	}
	if s.Batch.PreviousMembers == nil {
		s.Batch.PreviousMembers = NewClientSet()
	}
	if s.Cursor.Offset < 0 {
		s.Cursor.Offset = 0
	}
}
