package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Tienda Online":           "tienda-online",
		"Diseño Web & Marketing":  "diseno-web-marketing",
		"  API   REST -- v2  ":    "api-rest-v2",
		"Aplicación Móvil Ñandú":  "aplicacion-movil-nandu",
		"!!!":                     "",
		"Go 1.23 + PostgreSQL 16": "go-1-23-postgresql-16",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"portfolio": true, "portfolio-2": true}
	slug, err := UniqueSlug("portfolio", func(s string) (bool, error) { return taken[s], nil })
	require.NoError(t, err)
	assert.Equal(t, "portfolio-3", slug)

	slug, err = UniqueSlug("", func(s string) (bool, error) { return false, nil })
	require.NoError(t, err)
	assert.Equal(t, "item", slug)

	boom := errors.New("boom")
	_, err = UniqueSlug("x", func(string) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
}
