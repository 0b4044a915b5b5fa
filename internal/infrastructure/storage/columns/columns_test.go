package columns

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oflo/internal/core/apperror"
	"oflo/internal/core/entity"
)

type mockCatalog struct {
	entity.BaseEntity
	Name   string `db:"name"`
	Hidden string `db:"-"`
	Plain  string
}

func TestExtract(t *testing.T) {
	cols := Extract[mockCatalog]()
	assert.ElementsMatch(t, []string{"id", "created_at", "updated_at", "name"}, cols)

	assert.ElementsMatch(t, cols, Extract[*mockCatalog]())
}

func TestToMap(t *testing.T) {
	now := time.Now().UTC()
	m := ToMap(&mockCatalog{
		BaseEntity: entity.BaseEntity{ID: 42, CreatedAt: now},
		Name:       "Acme",
		Hidden:     "x",
	})

	assert.Equal(t, int64(42), m["id"])
	assert.Equal(t, now, m["created_at"])
	assert.Equal(t, "Acme", m["name"])
	assert.NotContains(t, m, "Hidden")
	assert.Len(t, m, 4)

	var nilPtr *mockCatalog
	assert.Nil(t, ToMap(nilPtr))
}

func TestParseOrder(t *testing.T) {
	allowed := NewSet("name", "date")
	def := Order{Field: "name"}

	o, err := ParseOrder("", allowed, def)
	require.NoError(t, err)
	assert.Equal(t, "name ASC", o.SQL())

	o, err = ParseOrder("-date", allowed, def)
	require.NoError(t, err)
	assert.Equal(t, "date DESC", o.SQL())

	o, err = ParseOrder("+date", allowed, def)
	require.NoError(t, err)
	assert.False(t, o.Desc)

	_, err = ParseOrder("-password", allowed, def)
	require.Error(t, err)
	assert.True(t, apperror.IsAppError(err))

	_, err = ParseOrder("-", allowed, def)
	require.Error(t, err)
}
