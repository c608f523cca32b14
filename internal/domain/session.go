package domain

import "sort"

type Session struct {
	Start   Timestamp
	End     Timestamp
	Address string
}

// Open reports whether the client was still present in the last folded batch.
func (s Session) Open() bool {
	return s.End == ""
}

// ClientHistory holds each client's sessions in chronological order. Only the
// last session of a client may be open.
type ClientHistory map[ClientID][]Session

func (h ClientHistory) Latest(id ClientID) (Session, bool) {
	sessions, ok := h[id]
	if !ok || len(sessions) == 0 {
		return Session{}, false
	}

	return sessions[len(sessions)-1], true
}

func (h ClientHistory) OpenCount() int {
	count := 0
	for _, sessions := range h {
		if len(sessions) > 0 && sessions[len(sessions)-1].Open() {
			count++
		}
	}

	return count
}

func (h ClientHistory) clone() ClientHistory {
	cloned := make(ClientHistory, len(h))
	for id, sessions := range h {
		copied := make([]Session, len(sessions))
		copy(copied, sessions)
		cloned[id] = copied
	}

	return cloned
}

func (h ClientHistory) sortedIDs() []ClientID {
	ids := make([]ClientID, 0, len(h))
	for id := range h {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

type ClientSet map[ClientID]struct{}

func NewClientSet(ids ...ClientID) ClientSet {
	set := make(ClientSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return set
}

func (s ClientSet) Add(id ClientID) {
	s[id] = struct{}{}
}

func (s ClientSet) Remove(id ClientID) {
	delete(s, id)
}

func (s ClientSet) Has(id ClientID) bool {
	_, ok := s[id]
	return ok
}

func (s ClientSet) Sorted() []ClientID {
	ids := make([]ClientID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

func (s ClientSet) Clone() ClientSet {
	cloned := make(ClientSet, len(s))
	for id := range s {
		cloned[id] = struct{}{}
	}

	return cloned
}
