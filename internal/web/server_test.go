package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"folio/internal/resume"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

const resumeYAML = `personal:
  name: Ada Example
  title: Engineer
skills:
  categories:
    - name: Languages
      items: [Go, SQL]
banner:
  lines: ["ADA"]
  subtitle: welcome
`

func fixedNow() time.Time {
	return time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
}

func writeResume(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "resume.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func newTestServer(t *testing.T) (*Server, *httptest.Server, string) {
	t.Helper()
	path := writeResume(t, t.TempDir(), resumeYAML)
	srv, err := New(path, nil, Options{Now: fixedNow})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts, path
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + WSPath
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readState(t *testing.T, conn *websocket.Conn) StateMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg StateMessage
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, TypeState, msg.Type)
	return msg
}

func send(t *testing.T, conn *websocket.Conn, key, input string) StateMessage {
	t.Helper()
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: TypeKey, Key: key, Input: input}))
	return readState(t, conn)
}

func texts(msg StateMessage) string {
	var b strings.Builder
	for _, l := range msg.Lines {
		b.WriteString(l.Text)
		b.WriteString("\n")
	}
	return b.String()
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestIndexPage(t *testing.T) {
	_, ts, _ := newTestServer(t)

	code, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "Ada Example")
	assert.Contains(t, body, `data-ws="/ws"`)

	code, _ = get(t, ts.URL+"/nope")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestAssetsAndDocument(t *testing.T) {
	_, ts, _ := newTestServer(t)

	code, body := get(t, ts.URL+"/terminal.js")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "WebSocket")

	code, body = get(t, ts.URL+"/config.json")
	require.Equal(t, http.StatusOK, code)
	var doc resume.Document
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Equal(t, "Ada Example", doc.Personal.Name)
}

func TestDocumentUnavailable(t *testing.T) {
	srv, err := New(filepath.Join(t.TempDir(), "missing.yaml"), nil, Options{Now: fixedNow})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	code, body := get(t, ts.URL+"/config.json")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body, "error")

	code, body = get(t, ts.URL+"/")
	assert.Equal(t, http.StatusOK, code, "the page renders without a document")
	assert.Contains(t, body, "<title>Portfolio</title>")
}

func TestCancelledFirstRequestDoesNotFailLoad(t *testing.T) {
	path := writeResume(t, t.TempDir(), resumeYAML)
	srv, err := New(path, nil, Options{Now: fixedNow})
	require.NoError(t, err)
	h := srv.Handler()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config.json", nil).WithContext(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ready", srv.Store().State().String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/config.json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ada Example")
}

func TestHealth(t *testing.T) {
	_, ts, _ := newTestServer(t)
	get(t, ts.URL+"/")

	code, body := get(t, ts.URL+"/healthz")
	require.Equal(t, http.StatusOK, code)
	var health map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "ready", health["resume"])
}

func TestTerminalSession(t *testing.T) {
	_, ts, _ := newTestServer(t)
	conn := dial(t, ts)

	initial := readState(t, conn)
	assert.NotEmpty(t, initial.Session)
	assert.Contains(t, texts(initial), "ADA")

	st := send(t, conn, KeyEnter, "  SKILLS ")
	out := texts(st)
	assert.Contains(t, out, "Languages")
	assert.Contains(t, out, "SKILLS", "the echo keeps the raw input")
	assert.Empty(t, st.Input)

	st = send(t, conn, KeyTab, "ba")
	assert.Equal(t, "banner", st.Input)

	st = send(t, conn, KeyUp, "")
	assert.Equal(t, "  SKILLS ", st.Input)
	st = send(t, conn, KeyDown, "")
	assert.Empty(t, st.Input)

	st = send(t, conn, KeyEnter, "clear")
	assert.True(t, st.Cleared)
	assert.Empty(t, st.Lines)

	st = send(t, conn, KeyEnter, "sudo")
	assert.Contains(t, texts(st), "sudo")
	assert.False(t, st.Cleared)
}

func TestTerminalRejectsUnknownMessages(t *testing.T) {
	_, ts, _ := newTestServer(t)
	conn := dial(t, ts)
	readState(t, conn)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "paste", Key: "x"}))
	var msg ErrorMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, TypeError, msg.Type)

	// The connection survives a rejected message.
	st := send(t, conn, KeyEnter, "help")
	assert.Contains(t, texts(st), "skills")
}

func TestSessionsAreIndependent(t *testing.T) {
	_, ts, _ := newTestServer(t)
	a := dial(t, ts)
	b := dial(t, ts)
	sa := readState(t, a)
	sb := readState(t, b)
	assert.NotEqual(t, sa.Session, sb.Session)

	send(t, a, KeyEnter, "about")
	st := send(t, b, KeyUp, "")
	assert.Empty(t, st.Input, "history is per connection")
}

func TestReloadSwapsStoreForNewConnections(t *testing.T) {
	srv, ts, path := newTestServer(t)
	old := dial(t, ts)
	readState(t, old)

	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(resumeYAML, "Languages", "Tooling", 1)), 0644))
	require.NoError(t, srv.Reload(context.Background()))
	assert.EqualValues(t, 1, srv.Reloads())

	st := send(t, old, KeyEnter, "skills")
	assert.Contains(t, texts(st), "Languages", "open terminals keep their document")

	fresh := dial(t, ts)
	readState(t, fresh)
	st = send(t, fresh, KeyEnter, "skills")
	assert.Contains(t, texts(st), "Tooling")
}

func TestReloadFailureKeepsStore(t *testing.T) {
	srv, _, path := newTestServer(t)
	_, err := srv.Store().Load(context.Background())
	require.NoError(t, err)
	before := srv.Store()

	require.NoError(t, os.WriteFile(path, []byte("personal: [unclosed"), 0644))
	assert.Error(t, srv.Reload(context.Background()))
	assert.Same(t, before, srv.Store())
	assert.Zero(t, srv.Reloads())
}

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		origin string
		host   string
		want   bool
	}{
		{"", "example.com", true},
		{"http://localhost:3000", "example.com", true},
		{"http://example.com", "example.com", true},
		{"https://evil.test", "example.com", false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		r.Host = tt.host
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		assert.Equal(t, tt.want, checkOrigin(r), tt.origin)
	}
}

func TestRunWatchesAndShutsDown(t *testing.T) {
	path := writeResume(t, t.TempDir(), resumeYAML)
	srv, err := New(path, nil, Options{
		Addr:           "127.0.0.1:0",
		Watch:          true,
		ReloadDebounce: 30 * time.Millisecond,
		Now:            fixedNow,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool { return srv.Addr() != "" }, 2*time.Second, 10*time.Millisecond)
	code, _ := get(t, "http://"+srv.Addr()+"/healthz")
	assert.Equal(t, http.StatusOK, code)

	// Give the watcher time to register before editing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(resumeYAML, "Ada", "Grace", 1)), 0644))
	require.Eventually(t, func() bool { return srv.Reloads() >= 1 }, 3*time.Second, 20*time.Millisecond)

	doc, err := srv.Store().Document()
	require.NoError(t, err)
	assert.Equal(t, "Grace Example", doc.Personal.Name)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestIsLocal(t *testing.T) {
	assert.True(t, isLocal("resume.yaml"))
	assert.False(t, isLocal("https://example.com/resume.yaml"))
	assert.False(t, isLocal(""))
}
