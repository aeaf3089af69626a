package wire

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_CountsResponse(t *testing.T) {
	body, err := Encode([]CountsResponse{{Domain: "a.com", Count: 3}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"domain":"a.com","count":3}]`, string(body))
}

func TestJSON_RenderWritesContentTypeAndBody(t *testing.T) {
	rec := httptest.NewRecorder()
	r := JSON{Data: []CountsResponse{{Domain: "a.com", Count: 3}}}

	require.NoError(t, r.Render(rec))

	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `[{"domain":"a.com","count":3}]`, rec.Body.String())
}
