package validators

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/luxemart/storefront/pkg/errors"
)

func TestParseQueryInt(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/api/products?page=3&limit=abc", nil)

	page, err := ParseQueryInt(r, "page", 1, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 3, page)

	absent, err := ParseQueryInt(r, "category", 12, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 12, absent)

	_, err = ParseQueryInt(r, "limit", 12, 1, 100)
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
	assert.Contains(t, err.Error(), "limit must be a whole number")

	r = httptest.NewRequest(http.MethodGet, "/api/products?page=0", nil)
	_, err = ParseQueryInt(r, "page", 1, 1, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page must be between 1 and 100")
}
