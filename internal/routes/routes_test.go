package routes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHref(t *testing.T) {
	assert.Equal(t, "/api/products/beer-1", ProductGet.Href("beer-1"))
	assert.Equal(t, "/api/customers/a@x.com", CustomerGet.Href("a@x.com"))

	t.Run("no placeholder leaves path unchanged", func(t *testing.T) {
		assert.Equal(t, "/api/products", ProductUpdate.Href())
		assert.Equal(t, "/api/products", ProductUpdate.Href("ignored"))
	})

	t.Run("escapes path parameters", func(t *testing.T) {
		assert.Equal(t, "/api/products/a%2Fb", ProductGet.Href("a/b"))
	})
}

func TestTable(t *testing.T) {
	seen := map[string]bool{}
	for _, r := range Table {
		require.NotEmpty(t, r.Name)
		require.False(t, seen[r.Pattern()], "duplicate pattern %s", r.Pattern())
		seen[r.Pattern()] = true

		assert.True(t, strings.HasPrefix(r.Path, "/api/"), "route %s outside /api", r.Name)
		assert.Contains(t, []string{"GET", "POST", "PUT", "DELETE"}, r.Method)
	}
}

func TestParams(t *testing.T) {
	assert.Equal(t, []string{"orderId"}, OrderUpdate.Params())
	assert.Empty(t, CustomerCreate.Params())
}
