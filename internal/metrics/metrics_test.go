package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHandler_ExposesRegisteredInstruments(t *testing.T) {
	AddTotal.WithLabelValues("local").Inc()
	TrackedDomains.Set(3)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "urlcounter_node_add_total")
	assert.Contains(t, body, "urlcounter_node_tracked_domains")
}
