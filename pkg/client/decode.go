package client

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Status is the outcome of a response envelope.
type Status int

const (
	// StatusOK is a response carrying a valid session.
	StatusOK Status = iota
	// StatusAuthError means the session or the credentials were rejected.
	StatusAuthError
	// StatusFail is any other server-reported failure.
	StatusFail
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusAuthError:
		return "AUTH_ERROR"
	case StatusFail:
		return "FAIL"
	}
	return "Status(" + strconv.Itoa(int(s)) + ")"
}

// reasonNoSessionKey is the reason given when a response has neither an
// error nor a session key.
const reasonNoSessionKey = "no session key"

// Envelope is a decoded QRZDatabase response.
type Envelope struct {
	Version  string
	Status   Status
	Reason   string
	Session  SessionInfo
	Callsign *Callsign
	DXCC     []DXCC
}

// DecodeFunc decodes a response body into an Envelope.
type DecodeFunc func(data []byte) (*Envelope, error)

type wireDatabase struct {
	XMLName  xml.Name     `xml:"QRZDatabase"`
	Version  string       `xml:"version,attr"`
	Callsign *Callsign    `xml:"Callsign"`
	DXCC     []DXCC       `xml:"DXCC"`
	Session  *wireSession `xml:"Session"`
}

type wireSession struct {
	Key     string `xml:"Key"`
	Count   string `xml:"Count"`
	SubExp  string `xml:"SubExp"`
	GMTime  string `xml:"GMTime"`
	Message string `xml:"Message"`
	Error   string `xml:"Error"`
}

// Decode decodes a response body with DefaultStatusRules.
func Decode(data []byte) (*Envelope, error) {
	return DefaultStatusRules.Decode(data)
}

// Decode decodes a response body, deriving the envelope status from r.
func (r StatusRules) Decode(data []byte) (*Envelope, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &DecodeError{Err: errors.New("empty body")}
	}

	var db wireDatabase
	if err := xml.Unmarshal(data, &db); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if db.Session == nil {
		return nil, &DecodeError{Err: errors.New("missing Session element")}
	}

	ws := db.Session
	env := &Envelope{
		Version:  db.Version,
		Callsign: db.Callsign,
		DXCC:     db.DXCC,
		Session: SessionInfo{
			Key:        strings.TrimSpace(ws.Key),
			SubExp:     strings.TrimSpace(ws.SubExp),
			SubExpires: parseSubExp(ws.SubExp),
			GMTime:     strings.TrimSpace(ws.GMTime),
			Message:    strings.TrimSpace(ws.Message),
			ObtainedAt: time.Now(),
		},
	}
	if c := strings.TrimSpace(ws.Count); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil {
			return nil, &DecodeError{Err: fmt.Errorf("invalid Count %q: %w", c, err)}
		}
		env.Session.Count = &n
	}

	reason := strings.TrimSpace(ws.Error)
	switch {
	case reason == "" && env.Session.Key != "":
		env.Status = StatusOK
	case reason == "":
		env.Status = StatusAuthError
		env.Reason = reasonNoSessionKey
	case r.isAuth(reason):
		env.Status = StatusAuthError
		env.Reason = reason
	default:
		env.Status = StatusFail
		env.Reason = reason
	}
	return env, nil
}
