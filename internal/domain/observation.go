package domain

import "strings"

type ClientID string

// Canonical is the case-insensitive form used to match client ids from
// different sources.
func (id ClientID) Canonical() ClientID {
	return ClientID(strings.ToLower(strings.TrimSpace(string(id))))
}

// Timestamp is the "<date> <time>" token of a scan line. It is only ever
// compared, never converted to wall-clock time.
type Timestamp string

const observationSeparator = " = "

type Observation struct {
	Timestamp Timestamp
	Address   string
	ClientID  ClientID
}

// ParseObservation decodes a "<date> <time> <address> = <client_id>" line.
// The returned error is a *MalformedLineError without source context.
func ParseObservation(line string) (Observation, error) {
	line = strings.TrimRight(line, "\r\n")

	left, right, found := strings.Cut(line, observationSeparator)
	if !found {
		return Observation{}, &MalformedLineError{Text: line, Reason: "missing \" = \" separator"}
	}

	fields := strings.Fields(left)
	if len(fields) < 3 {
		return Observation{}, &MalformedLineError{Text: line, Reason: "expected date, time and address before separator"}
	}

	clientID := strings.TrimSpace(right)
	if clientID == "" {
		return Observation{}, &MalformedLineError{Text: line, Reason: "client id is empty"}
	}

	return Observation{
		Timestamp: Timestamp(fields[0] + " " + fields[1]),
		Address:   fields[2],
		ClientID:  ClientID(clientID),
	}, nil
}
