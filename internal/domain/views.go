package domain

type ClientSession struct {
	ClientID ClientID
	Session  Session
}

// CurrentSessions returns the open session of every client still present,
// ordered by client id.
func (h ClientHistory) CurrentSessions() []ClientSession {
	result := make([]ClientSession, 0)
	for _, id := range h.sortedIDs() {
		latest, ok := h.Latest(id)
		if ok && latest.Open() {
			result = append(result, ClientSession{ClientID: id, Session: latest})
		}
	}

	return result
}

// LatestSessions returns the last session of every client, open or closed.
func (h ClientHistory) LatestSessions() []ClientSession {
	result := make([]ClientSession, 0, len(h))
	for _, id := range h.sortedIDs() {
		if latest, ok := h.Latest(id); ok {
			result = append(result, ClientSession{ClientID: id, Session: latest})
		}
	}

	return result
}

func (h ClientHistory) AllSessions() []ClientSession {
	result := make([]ClientSession, 0, len(h))
	for _, id := range h.sortedIDs() {
		for _, session := range h[id] {
			result = append(result, ClientSession{ClientID: id, Session: session})
		}
	}

	return result
}

// SessionsFor restricts the history to the given clients. Clients without a
// history are ignored.
func (h ClientHistory) SessionsFor(clients ClientSet, latestOnly bool) []ClientSession {
	result := make([]ClientSession, 0, len(clients))
	for _, id := range clients.Sorted() {
		sessions, ok := h[id]
		if !ok || len(sessions) == 0 {
			continue
		}

		if latestOnly {
			sessions = sessions[len(sessions)-1:]
		}
		for _, session := range sessions {
			result = append(result, ClientSession{ClientID: id, Session: session})
		}
	}

	return result
}
