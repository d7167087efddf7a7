package client

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testUser     = "AA7BQ"
	testPassword = "hunter2-secret"
	testKey      = "test_session_key_12345"
)

// envelope renders a QRZDatabase document around a Session block and an
// optional record body.
func envelope(key, errMsg, record string) string {
	session := ""
	if key != "" {
		session += "<Key>" + key + "</Key>"
	}
	session += "<Count>42</Count><SubExp>Wed Jan 1 12:34:03 2025</SubExp><GMTime>Sun Nov 16 04:13:46 2025</GMTime>"
	if errMsg != "" {
		session += "<Error>" + errMsg + "</Error>"
	}
	return `<?xml version="1.0" encoding="utf-8" ?>
<QRZDatabase version="1.34" xmlns="http://xmldata.qrz.com">
` + record + `
<Session>` + session + `</Session>
</QRZDatabase>`
}

const callsignRecord = `<Callsign>
<call>AA7BQ</call>
<dxcc>291</dxcc>
<fname>FRED L</fname>
<name>LLOYD</name>
<addr2>PHOENIX</addr2>
<state>AZ</state>
<country>United States</country>
<lat>34.12345</lat>
<lon>-112.12345</lon>
<grid>DM32af</grid>
<eqsl>Y</eqsl>
<mqsl>N</mqsl>
<cqzone>3</cqzone>
<ituzone>6</ituzone>
<lotw>Y</lotw>
<TimeZone>Mountain</TimeZone>
</Callsign>`

const dxccRecord = `<DXCC>
<dxcc>291</dxcc>
<cc>US</cc>
<ccc>USA</ccc>
<name>United States</name>
<continent>NA</continent>
<ituzone>6</ituzone>
<cqzone>3</cqzone>
<timezone>-5</timezone>
<lat>37.788081</lat>
<lon>-97.470703</lon>
</DXCC>`

// fakeQRZ is an httptest server speaking the QRZ login and data protocol.
type fakeQRZ struct {
	*httptest.Server

	logins atomic.Int32
	data   atomic.Int32

	mu      sync.Mutex
	queries []url.Values

	// login returns the body of the nth login (1-based).
	login func(n int32, q url.Values) string
	// lookup returns the body of the nth data request (1-based).
	lookup func(n int32, q url.Values) string
}

func newFakeQRZ(t *testing.T) *fakeQRZ {
	t.Helper()
	f := &fakeQRZ{
		login: func(n int32, _ url.Values) string {
			return envelope(fmt.Sprintf("%s-%d", testKey, n), "", "")
		},
		lookup: func(_ int32, q url.Values) string {
			return envelope(q.Get("s"), "", callsignRecord)
		},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f.mu.Lock()
		f.queries = append(f.queries, q)
		f.mu.Unlock()

		w.Header().Set("Content-Type", "text/xml")
		if q.Has("username") {
			n := f.logins.Add(1)
			fmt.Fprint(w, f.login(n, q))
			return
		}
		n := f.data.Add(1)
		fmt.Fprint(w, f.lookup(n, q))
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeQRZ) lastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return nil
	}
	return f.queries[len(f.queries)-1]
}

func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	c, err := NewWithConfig(testUser, testPassword, VersionLegacy, Config{
		BaseURL:    baseURL,
		UserAgent:  "qrz-test/1.0",
		Timeout:    2 * time.Second,
		MaxRetries: 0,
	}, opts...)
	require.NoError(t, err)
	return c
}

type countingObserver struct {
	logins   atomic.Int32
	failures atomic.Int32
	expired  atomic.Int32
	lookups  atomic.Int32
}

func (o *countingObserver) LoginCompleted(err error, _ time.Duration) {
	o.logins.Add(1)
	if err != nil {
		o.failures.Add(1)
	}
}

func (o *countingObserver) SessionExpired() { o.expired.Add(1) }

func (o *countingObserver) LookupCompleted(string, error, time.Duration) { o.lookups.Add(1) }
