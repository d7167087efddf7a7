package command

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/qrz-mcp/internal/sessionstore"
)

func qrzDoc(key, errMsg, record string) string {
	session := "<Key>" + key + "</Key><Count>12</Count><SubExp>non-subscriber</SubExp>"
	if errMsg != "" {
		session = "<Error>" + errMsg + "</Error>"
	}
	return `<?xml version="1.0" ?><QRZDatabase version="1.34" xmlns="http://xmldata.qrz.com">` +
		record + `<Session>` + session + `</Session></QRZDatabase>`
}

type mockQRZ struct {
	*httptest.Server
	logins atomic.Int32
}

func newMockQRZ(t *testing.T) *mockQRZ {
	t.Helper()
	m := &mockQRZ{}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("username") != "":
			m.logins.Add(1)
			if q.Get("password") != "secret" {
				_, _ = w.Write([]byte(qrzDoc("", "Username/password incorrect", "")))
				return
			}
			_, _ = w.Write([]byte(qrzDoc("cli_key", "", "")))
		case q.Get("callsign") == "AA7BQ":
			_, _ = w.Write([]byte(qrzDoc("cli_key", "", `<Callsign><call>AA7BQ</call><fname>FRED</fname><name>LLOYD</name>
<addr2>PHOENIX</addr2><state>AZ</state><country>United States</country><grid>DM32af</grid><lotw>1</lotw></Callsign>`)))
		case q.Get("dxcc") == "all":
			_, _ = w.Write([]byte(qrzDoc("cli_key", "", `<DXCC><dxcc>1</dxcc><name>Canada</name><continent>NA</continent></DXCC>`+
				`<DXCC><dxcc>230</dxcc><name>Germany</name><continent>EU</continent></DXCC>`)))
		case q.Get("dxcc") == "291":
			_, _ = w.Write([]byte(qrzDoc("cli_key", "", `<DXCC><dxcc>291</dxcc><name>United States</name><continent>NA</continent><timezone>-5</timezone></DXCC>`)))
		case q.Get("html") == "AA7BQ":
			_, _ = w.Write([]byte(`<html><body><p>Licensed in 1985.</p><a href="https://example.org">site</a></body></html>`))
		default:
			_, _ = w.Write([]byte(qrzDoc("cli_key", "Not found: "+q.Get("callsign"), "")))
		}
	}))
	t.Cleanup(m.Close)
	return m
}

// run executes the CLI against m and returns stdout.
func run(t *testing.T, m *mockQRZ, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := App()
	app.Writer = &out
	base := []string{"qrz",
		"--base-url", m.URL, "--api-version", "legacy",
		"--username", "AA7BQ", "--password", "secret",
		"--no-session-cache",
	}
	err := app.Run(append(base, args...))
	return out.String(), err
}

func TestApp(t *testing.T) {
	app := App()
	assert.Equal(t, "qrz", app.Name)

	names := make(map[string]bool)
	for _, cmd := range app.Commands {
		names[cmd.Name] = true
	}
	for _, name := range []string{"lookup", "dxcc", "bio", "bulk", "session"} {
		assert.True(t, names[name], "missing command %s", name)
	}
}

func TestLookup_Text(t *testing.T) {
	m := newMockQRZ(t)

	out, err := run(t, m, "lookup", "aa7bq")
	require.NoError(t, err)
	assert.Contains(t, out, "FRED LLOYD")
	assert.Contains(t, out, "PHOENIX, AZ, United States")
	assert.Contains(t, out, "DM32af")
	assert.Contains(t, out, "LoTW")
}

func TestLookup_JSONAndJQ(t *testing.T) {
	m := newMockQRZ(t)

	out, err := run(t, m, "-o", "json", "lookup", "AA7BQ")
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "DM32af", rec["grid"])

	out, err = run(t, m, "--jq", ".grid", "lookup", "AA7BQ")
	require.NoError(t, err)
	assert.Equal(t, "DM32af\n", out)
}

func TestLookup_Errors(t *testing.T) {
	m := newMockQRZ(t)

	_, err := run(t, m, "lookup", "N0CALL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "N0CALL")

	_, err = run(t, m, "lookup")
	assert.Error(t, err)

	_, err = run(t, m, "-o", "yaml", "lookup", "AA7BQ")
	assert.Error(t, err)

	_, err = run(t, m, "--jq", ".grid[", "lookup", "AA7BQ")
	assert.Error(t, err)
}

func TestLookup_BadPasswordNotLeaked(t *testing.T) {
	m := newMockQRZ(t)
	var out bytes.Buffer
	app := App()
	app.Writer = &out
	err := app.Run([]string{"qrz", "--base-url", m.URL, "--api-version", "legacy",
		"--username", "AA7BQ", "--password", "wrong-pass", "--no-session-cache", "lookup", "AA7BQ"})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "wrong-pass")
}

func TestDXCC(t *testing.T) {
	m := newMockQRZ(t)

	out, err := run(t, m, "dxcc", "291")
	require.NoError(t, err)
	assert.Contains(t, out, "291 United States")
	assert.Contains(t, out, "-5h")

	out, err = run(t, m, "--jq", ".[].name", "dxcc", "all")
	require.NoError(t, err)
	assert.Equal(t, "Canada\nGermany\n", out)
}

func TestBio(t *testing.T) {
	m := newMockQRZ(t)

	out, err := run(t, m, "bio", "AA7BQ")
	require.NoError(t, err)
	assert.Contains(t, out, "Licensed in 1985. site")
	assert.Contains(t, out, "https://example.org")

	out, err = run(t, m, "bio", "--select", "p", "AA7BQ")
	require.NoError(t, err)
	assert.Equal(t, "Licensed in 1985.\n", out)

	out, err = run(t, m, "bio", "--select", `(\d{4})`, "--mode", "regex", "AA7BQ")
	require.NoError(t, err)
	assert.Equal(t, "1985\n", out)

	_, err = run(t, m, "bio", "--select", "p[", "AA7BQ")
	require.Error(t, err)
}

func TestBulk(t *testing.T) {
	m := newMockQRZ(t)
	list := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, os.WriteFile(list, []byte("# contest log\nAA7BQ, N0CALL\naa7bq\n"), 0o600))

	out, err := run(t, m, "bulk", "--rate", "0", "--file", list, "BAD!")
	require.NoError(t, err)
	assert.Contains(t, out, "AA7BQ")
	assert.Contains(t, out, "not_found")
	assert.Contains(t, out, "3 callsigns: 1 found, 1 not found, 1 invalid, 0 failed, 0 skipped")
	assert.Equal(t, int32(1), m.logins.Load())
}

func TestReadCallsigns_Stdin(t *testing.T) {
	calls, err := readCallsigns("-", strings.NewReader("K1ABC\tW1AW;DL1XYZ\n\n# done\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"K1ABC", "W1AW", "DL1XYZ"}, calls)
}

func TestSession_PersistsAcrossRuns(t *testing.T) {
	m := newMockQRZ(t)
	dir := t.TempDir()

	args := func(extra ...string) []string {
		return append([]string{"qrz", "--base-url", m.URL, "--api-version", "legacy",
			"--username", "AA7BQ", "--password", "secret", "--session-dir", dir}, extra...)
	}

	var out bytes.Buffer
	app := App()
	app.Writer = &out
	require.NoError(t, app.Run(args("lookup", "AA7BQ")))
	assert.Equal(t, int32(1), m.logins.Load())

	saved, ok, err := sessionstore.New(dir).Load("AA7BQ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "cli_key", saved.Key)

	// The second run reuses the saved token.
	app = App()
	out.Reset()
	app.Writer = &out
	require.NoError(t, app.Run(args("-o", "json", "session", "show")))
	assert.Equal(t, int32(1), m.logins.Load())
	assert.Contains(t, out.String(), `"authenticated": true`)
	assert.NotContains(t, out.String(), "cli_key")

	app = App()
	out.Reset()
	app.Writer = &out
	require.NoError(t, app.Run(args("session", "clear")))
	_, ok, err = sessionstore.New(dir).Load("AA7BQ")
	require.NoError(t, err)
	assert.False(t, ok)
}
