package resume

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	store := NewStore(filepath.Join("testdata", "resume.yaml"))
	assert.Equal(t, StatePending, store.State())

	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateReady, store.State())
	assert.Equal(t, "Ada Example", doc.Personal.Name)
	require.Len(t, doc.Experience.Positions, 2)
	assert.Equal(t, "present", doc.Experience.Positions[0].End)
	require.Len(t, doc.Banner.Lines, 5)
	assert.Equal(t, `| |_ / _ \| | |/ _ \ `, doc.Banner.Lines[2])

	select {
	case <-store.Done():
	default:
		t.Fatal("Done should be closed after Load")
	}
}

func TestLoadOnlyOnce(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(`{"personal": {"name": "Remote"}}`))
	}))
	defer srv.Close()

	store := NewStore(srv.URL + "/config.json")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := store.Load(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "Remote", doc.Personal.Name)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestLoadFailureIsTerminal(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	store := NewStore(srv.URL)
	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Equal(t, StateUnavailable, store.State())

	fail.Store(false)
	_, err = store.Load(context.Background())
	assert.True(t, errors.Is(err, ErrUnavailable), "no retry after a failed load")
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"empty.yaml":  "   \n",
		"scalar.yaml": "just a string",
		"bad.json":    `{"personal": `,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			store := NewStore(path)
			_, err := store.Load(context.Background())
			require.Error(t, err)
			doc, state, snapErr := store.Snapshot()
			assert.Nil(t, doc)
			assert.Equal(t, StateUnavailable, state)
			assert.ErrorIs(t, snapErr, ErrUnavailable)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := store.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDocumentBeforeLoad(t *testing.T) {
	store := NewStore("testdata/resume.yaml")
	_, err := store.Document()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestStaticStore(t *testing.T) {
	doc := &Document{Personal: Personal{Name: "Static"}}
	store := NewStaticStore(doc)
	assert.Equal(t, StateReady, store.State())

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Same(t, doc, got)
}

func TestParseToleratesMissingSections(t *testing.T) {
	doc, err := Parse([]byte("personal:\n  name: Only Name\nunknown_section: 3\n"))
	require.NoError(t, err)
	assert.Equal(t, "Only Name", doc.Personal.Name)
	assert.Empty(t, doc.About.Summary)
	assert.Empty(t, doc.Skills.Categories)
}

func TestParseTabIndentedJSON(t *testing.T) {
	doc, err := Parse([]byte("{\n\t\"personal\": {\n\t\t\"name\": \"Tabs\"\n\t}\n}"))
	require.NoError(t, err)
	assert.Equal(t, "Tabs", doc.Personal.Name)
}

func TestMarshalRoundTripsBanner(t *testing.T) {
	doc, err := NewStore("testdata/resume.yaml").Load(context.Background())
	require.NoError(t, err)

	data, err := Marshal(doc)
	require.NoError(t, err)
	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, doc.Banner.Lines, again.Banner.Lines)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "pending", StatePending.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "unavailable", StateUnavailable.String())
	assert.Equal(t, "unknown", State(42).String())
}
