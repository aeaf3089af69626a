package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/domainrank/urlcounter/internal/topology"
	"github.com/domainrank/urlcounter/internal/wire"
	"github.com/domainrank/urlcounter/pkg/approxtop"
	"github.com/domainrank/urlcounter/pkg/async"
	"github.com/domainrank/urlcounter/pkg/hitcounter"
)

func TestHandleAdd_AndCounts(t *testing.T) {
	counter := hitcounter.New()
	adapter := async.New(counter)
	router, err := topology.New("node-1", []string{"node-1"})
	require.NoError(t, err)

	h := NewHandler(adapter, router, NewRemoteClient(http.DefaultClient, nil), zap.NewNop(), 0, nil)
	engine := NewRouter(h, false)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/add/http://Example.com/path", nil)
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/counts/5", nil)
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var decoded []wire.CountsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "example.com", decoded[0].Domain)
	assert.Equal(t, 3, decoded[0].Count)
}

func TestHandleAdd_RejectsMalformedURL(t *testing.T) {
	counter := hitcounter.New()
	adapter := async.New(counter)
	router, err := topology.New("node-1", []string{"node-1"})
	require.NoError(t, err)

	h := NewHandler(adapter, router, NewRemoteClient(http.DefaultClient, nil), zap.NewNop(), 0, nil)
	engine := NewRouter(h, false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/add/", nil)
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCounts_RejectsNegativeN(t *testing.T) {
	counter := hitcounter.New()
	adapter := async.New(counter)
	router, err := topology.New("node-1", []string{"node-1"})
	require.NoError(t, err)

	h := NewHandler(adapter, router, NewRemoteClient(http.DefaultClient, nil), zap.NewNop(), 0, nil)
	engine := NewRouter(h, false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/counts/-1", nil)
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTop_SingleNodeMatchesCounts(t *testing.T) {
	counter := hitcounter.New()
	counter.Add("a.com")
	counter.Add("a.com")
	counter.Add("b.com")
	adapter := async.New(counter)
	router, err := topology.New("node-1", []string{"node-1"})
	require.NoError(t, err)

	h := NewHandler(adapter, router, NewRemoteClient(http.DefaultClient, nil), zap.NewNop(), 0, nil)
	engine := NewRouter(h, false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/top/5", nil)
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var decoded []wire.CountsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "a.com", decoded[0].Domain)
	assert.Equal(t, 2, decoded[0].Count)
}

func TestHandleHeavyHitters_NilSketchReturnsEmpty(t *testing.T) {
	counter := hitcounter.New()
	adapter := async.New(counter)
	router, err := topology.New("node-1", []string{"node-1"})
	require.NoError(t, err)

	h := NewHandler(adapter, router, NewRemoteClient(http.DefaultClient, nil), zap.NewNop(), 0, nil)
	engine := NewRouter(h, false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/heavyhitters", nil)
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"heavy_hitters":null,"total":0}`, rec.Body.String())
}

func TestHandleHeavyHitters_FeedsFromAdd(t *testing.T) {
	counter := hitcounter.New()
	adapter := async.New(counter)
	router, err := topology.New("node-1", []string{"node-1"})
	require.NoError(t, err)
	sketch := approxtop.NewHeavyKeeper(5, 1000, 4, 0.925, 0)

	h := NewHandler(adapter, router, NewRemoteClient(http.DefaultClient, nil), zap.NewNop(), 0, sketch)
	engine := NewRouter(h, false)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/add/hot.com", nil)
		engine.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/heavyhitters", nil)
	engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var decoded heavyHittersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	require.NotEmpty(t, decoded.HeavyHitters)
	assert.Equal(t, "hot.com", decoded.HeavyHitters[0].Domain)
}
