package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"memebrowser/application/queries"
	querybus "memebrowser/application/queries/bus"
	queryhandlers "memebrowser/application/queries/handlers"
	"memebrowser/application/services"
	"memebrowser/infrastructure/persistence/filesystem"
	"memebrowser/pkg/observability"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testSettings struct{}

func (testSettings) MatchThreshold() float64 { return 0.95 }
func (testSettings) DefaultLimit() int       { return 20 }

const recordTemplate = `{"id":"MEMEID","title":"TITLE","imageUrl":"IMG","originalText":"o","content":"c","tags":TAGS,"createdAt":"2024-02-03T04:05:06Z"}`

type testServer struct {
	mux     *chi.Mux
	store   *filesystem.RecordStore
	metrics *observability.Collector
}

func newTestServer(t *testing.T, options Options) *testServer {
	t.Helper()
	logger := zap.NewNop()
	store, err := filesystem.NewRecordStore(t.TempDir(), logger)
	require.NoError(t, err)

	loader := services.NewMemeLoader(store, filesystem.NewJSONRecordCodec(), nil, 4, logger)
	list := queryhandlers.NewListMemesHandler(store, loader, logger)
	search := queryhandlers.NewSearchMemesHandler(store, loader, testSettings{}, logger)

	bus := querybus.NewQueryBus()
	require.NoError(t, querybus.RegisterFunc(bus, list.Handle))
	require.NoError(t, querybus.RegisterFunc(bus, search.Handle))

	metrics := observability.NewCollector("test")
	router := NewRouter(bus, store, store, testSettings{}, metrics, options, logger)
	return &testServer{mux: router.Setup(), store: store, metrics: metrics}
}

func (s *testServer) addMeme(t *testing.T, id, title string, tags ...string) {
	t.Helper()
	encodedTags, err := json.Marshal(append([]string{}, tags...))
	require.NoError(t, err)
	record := strings.NewReplacer("MEMEID", id, "TITLE", title, "IMG", id+".png", "TAGS", string(encodedTags)).Replace(recordTemplate)
	require.NoError(t, os.WriteFile(filepath.Join(s.store.Layout().Records, id+".json"), []byte(record), 0o644))
}

func (s *testServer) addImage(t *testing.T, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(s.store.Layout().Images, name), []byte(content), 0o644))
}

func (s *testServer) do(method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func decodePage(t *testing.T, w *httptest.ResponseRecorder) queries.ResultPage {
	t.Helper()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var page queries.ResultPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	return page
}

func TestListMemesEndpoint(t *testing.T) {
	s := newTestServer(t, Options{})
	for _, id := range []string{"1", "2", "3", "5"} {
		s.addMeme(t, id, "meme "+id)
	}

	t.Run("Should use defaults", func(t *testing.T) {
		page := decodePage(t, s.do("GET", "/memes"))

		assert.Len(t, page.Data, 4)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, 20, page.Limit)
		assert.Equal(t, 4, page.Total)
		assert.False(t, page.HasMore)
	})

	t.Run("Should page", func(t *testing.T) {
		page := decodePage(t, s.do("GET", "/memes?page=1&limit=2"))

		require.Len(t, page.Data, 2)
		assert.Equal(t, "$1", page.Data[0].ID)
		assert.Equal(t, "$2", page.Data[1].ID)
		assert.True(t, page.HasMore)
	})

	t.Run("Should serve the trailing slash form", func(t *testing.T) {
		page := decodePage(t, s.do("GET", "/memes/?page=2&limit=2"))

		require.Len(t, page.Data, 2)
		assert.Equal(t, "$5", page.Data[1].ID)
		assert.False(t, page.HasMore)
	})

	t.Run("Should render the wire shape", func(t *testing.T) {
		w := s.do("GET", "/memes?limit=1")
		require.Equal(t, http.StatusOK, w.Code)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
		assert.ElementsMatch(t, []string{"data", "total", "page", "limit", "hasMore"}, keys(raw))

		item := raw["data"].([]any)[0].(map[string]any)
		assert.Equal(t, "$1", item["id"])
		assert.Equal(t, "1.png", item["imageUrl"])
		assert.Equal(t, []any{"$1"}, item["tags"])
		assert.NotContains(t, item, "recognizedText")
	})
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestPaginationErrors(t *testing.T) {
	s := newTestServer(t, Options{})

	tests := []struct {
		target  string
		message string
	}{
		{"/memes?page=0", "page must be >= 1"},
		{"/memes?limit=0", "limit must be >= 1"},
		{"/memes?page=-3&limit=10", "page must be >= 1"},
		{"/memes?page=abc", "page must be an integer"},
		{"/memes/search?limit=x&tag=cat", "limit must be an integer"},
		{"/memes/search?page=0&tag=cat", "page must be >= 1"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := s.do("GET", tt.target)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.message, w.Body.String())
		})
	}
}

func TestSearchMemesEndpoint(t *testing.T) {
	s := newTestServer(t, Options{})
	s.addMeme(t, "1", "Grumpy cat", "cat")
	s.addMeme(t, "2", "Keyboard cat", "cat", "music")
	s.addMeme(t, "3", "Doge", "dog")
	s.addMeme(t, "4", "Nyan cat", "cat", "music", "space")

	t.Run("Should filter by tag", func(t *testing.T) {
		page := decodePage(t, s.do("GET", "/memes/search?tag=cat&limit=2"))

		assert.Equal(t, 3, page.Total)
		assert.Len(t, page.Data, 2)
		assert.True(t, page.HasMore)
	})

	t.Run("Should require every repeated tags[] value", func(t *testing.T) {
		page := decodePage(t, s.do("GET", "/memes/search?tags[]=music&tags[]=space"))

		require.Len(t, page.Data, 1)
		assert.Equal(t, "$4", page.Data[0].ID)
	})

	t.Run("Should accept tags without brackets", func(t *testing.T) {
		page := decodePage(t, s.do("GET", "/memes/search?tags=music"))

		assert.Equal(t, 2, page.Total)
	})

	t.Run("Should treat empty filters as absent", func(t *testing.T) {
		page := decodePage(t, s.do("GET", "/memes/search?query=&tag="))

		assert.Equal(t, 4, page.Total)
	})

	t.Run("Should match titles fuzzily", func(t *testing.T) {
		page := decodePage(t, s.do("GET", "/memes/search?query=grumpy+cats"))

		require.Len(t, page.Data, 1)
		assert.Equal(t, "Grumpy cat", page.Data[0].Title)
	})

	t.Run("Should find by display id tag", func(t *testing.T) {
		page := decodePage(t, s.do("GET", "/memes/search?tag=%243"))

		require.Len(t, page.Data, 1)
		assert.Equal(t, "Doge", page.Data[0].Title)
	})
}

func TestImageEndpoint(t *testing.T) {
	s := newTestServer(t, Options{})
	s.addImage(t, "cat.png", "\x89PNG")
	s.addImage(t, "blob", "raw")
	require.NoError(t, os.WriteFile(filepath.Join(s.store.Layout().Base, "outside.png"), []byte("x"), 0o644))

	t.Run("Should stream the image", func(t *testing.T) {
		w := s.do("GET", "/memes/image/cat.png")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.Equal(t, "4", w.Header().Get("Content-Length"))
		assert.Equal(t, "\x89PNG", w.Body.String())
	})

	t.Run("Should fall back to octet-stream", func(t *testing.T) {
		w := s.do("GET", "/memes/image/blob")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
	})

	t.Run("Should answer HEAD without a body", func(t *testing.T) {
		w := s.do("HEAD", "/memes/image/cat.png")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "4", w.Header().Get("Content-Length"))
		assert.Empty(t, w.Body.String())
	})

	for _, target := range []string{"/memes/image/missing.png", "/memes/image/..%2Foutside.png", "/memes/image/%2E%2E"} {
		t.Run("Should not find "+target, func(t *testing.T) {
			w := s.do("GET", target)

			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
		})
	}
}

func TestStoreFailureHidesDetails(t *testing.T) {
	s := newTestServer(t, Options{})
	require.NoError(t, os.RemoveAll(s.store.Layout().Records))

	w := s.do("GET", "/memes")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", w.Body.String())
	assert.NotContains(t, w.Body.String(), s.store.Layout().Records)

	ready := s.do("GET", "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, ready.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	s := newTestServer(t, Options{})

	t.Run("Should report health", func(t *testing.T) {
		w := s.do("GET", "/health")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	})

	t.Run("Should report ready", func(t *testing.T) {
		w := s.do("GET", "/ready")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("Should expose metrics by route pattern", func(t *testing.T) {
		s.do("GET", "/memes/image/missing.png")

		w := s.do("GET", "/metrics")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `route="/memes/image/{name}"`)
		assert.NotContains(t, w.Body.String(), "missing.png")
	})

	t.Run("Should echo request id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		w := httptest.NewRecorder()
		s.mux.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	})
}

func TestCORSAndStatic(t *testing.T) {
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "index.html"), []byte("<html>memes</html>"), 0o644))
	s := newTestServer(t, Options{EnableCORS: true, StaticDir: static})

	req := httptest.NewRequest("GET", "/memes", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	index := s.do("GET", "/")
	assert.Equal(t, http.StatusOK, index.Code)
	assert.Contains(t, index.Body.String(), "memes")
}
