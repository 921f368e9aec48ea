package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-cms-backend/errs"
)

func TestDecodeJSONErrors(t *testing.T) {
	var dst struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	decodeBody := func(body string) error {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		return decodeJSON(httptest.NewRecorder(), r, &dst)
	}

	require.NoError(t, decodeBody(`{"name":"ok","count":2}`))
	assert.Equal(t, 2, dst.Count)

	assert.True(t, errs.IsMalformedPayloadError(decodeBody(``)))
	assert.True(t, errs.IsInvalidJSONError(decodeBody(`{"name":`)))

	err := decodeBody(`{"count":"many"}`)
	require.True(t, errs.IsValidationError(err))
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Fields, "count")

	huge := `{"name":"` + strings.Repeat("a", maxJSONBody) + `"}`
	assert.Equal(t, http.StatusRequestEntityTooLarge, errs.StatusCode(decodeBody(huge)))
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?featured=true&broken=maybe&page=3&bad=x", nil)

	v, ok := queryBool(r, "featured")
	assert.True(t, v)
	assert.True(t, ok)
	_, ok = queryBool(r, "broken")
	assert.False(t, ok)
	_, ok = queryBool(r, "absent")
	assert.False(t, ok)

	assert.Equal(t, 3, queryInt(r, "page", 1))
	assert.Equal(t, 1, queryInt(r, "bad", 1))
}
