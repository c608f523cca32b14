package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleHistory() ClientHistory {
	return ClientHistory{
		"B": {
			{Start: t1, End: t1, Address: "10.0.0.2"},
			{Start: t3, Address: "10.0.0.12"},
		},
		"A": {
			{Start: t1, End: t2, Address: "10.0.0.1"},
		},
		"C": {
			{Start: t2, Address: "10.0.0.3"},
		},
		"D": {},
	}
}

func TestClientHistoryCurrentSessions(t *testing.T) {
	t.Parallel()

	got := sampleHistory().CurrentSessions()

	assert.Equal(t, []ClientSession{
		{ClientID: "B", Session: Session{Start: t3, Address: "10.0.0.12"}},
		{ClientID: "C", Session: Session{Start: t2, Address: "10.0.0.3"}},
	}, got)
}

func TestClientHistoryLatestSessions(t *testing.T) {
	t.Parallel()

	got := sampleHistory().LatestSessions()

	assert.Equal(t, []ClientSession{
		{ClientID: "A", Session: Session{Start: t1, End: t2, Address: "10.0.0.1"}},
		{ClientID: "B", Session: Session{Start: t3, Address: "10.0.0.12"}},
		{ClientID: "C", Session: Session{Start: t2, Address: "10.0.0.3"}},
	}, got)
}

func TestClientHistorySessionsFor(t *testing.T) {
	t.Parallel()

	history := sampleHistory()

	tests := []struct {
		name       string
		clients    ClientSet
		latestOnly bool
		want       []ClientSession
	}{
		{
			name:    "all sessions keep per-client order",
			clients: NewClientSet("B"),
			want: []ClientSession{
				{ClientID: "B", Session: Session{Start: t1, End: t1, Address: "10.0.0.2"}},
				{ClientID: "B", Session: Session{Start: t3, Address: "10.0.0.12"}},
			},
		},
		{
			name:       "latest only",
			clients:    NewClientSet("B", "A"),
			latestOnly: true,
			want: []ClientSession{
				{ClientID: "A", Session: Session{Start: t1, End: t2, Address: "10.0.0.1"}},
				{ClientID: "B", Session: Session{Start: t3, Address: "10.0.0.12"}},
			},
		},
		{
			name:    "unknown and empty clients are skipped",
			clients: NewClientSet("D", "Z"),
			want:    []ClientSession{},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, history.SessionsFor(tc.clients, tc.latestOnly))
		})
	}
}

func TestClientHistoryAllSessionsAndOpenCount(t *testing.T) {
	t.Parallel()

	history := sampleHistory()

	assert.Len(t, history.AllSessions(), 4)
	assert.Equal(t, 2, history.OpenCount())
}

func TestEngineStateCloneIsDeep(t *testing.T) {
	t.Parallel()

	state := NewEngineState()
	state.Clients = sampleHistory()
	state.Batch.CurrentMembers.Add("C")

	cloned := state.Clone()
	cloned.Clients["C"][0].End = t4
	cloned.Batch.CurrentMembers.Add("Z")

	assert.True(t, state.Clients["C"][0].Open())
	assert.False(t, state.Batch.CurrentMembers.Has("Z"))
}
