package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitflix/backend/internal/models"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.Equal(t, 4, c.Len())

	free, ok := c.Find(1)
	require.True(t, ok)
	assert.Equal(t, models.VideoTypeFree, free.Type)
	assert.Nil(t, free.Price)
	assert.NotEmpty(t, free.URL)

	paid, ok := c.Find(2)
	require.True(t, ok)
	assert.True(t, paid.IsPaid())
	require.NotNil(t, paid.Price)

	_, ok = c.Find(99)
	assert.False(t, ok)
}

func TestAllReturnsCopy(t *testing.T) {
	c := Default()

	all := c.All()
	all[0].Title = "mutated"

	first, _ := c.Find(1)
	assert.Equal(t, "Free Yoga Basics", first.Title)
}

func TestNewSkipsDuplicateIDs(t *testing.T) {
	c := New([]models.Video{
		{ID: 7, Title: "first"},
		{ID: 7, Title: "second"},
		{ID: 8, Title: "third"},
	})

	assert.Equal(t, 2, c.Len())
	v, _ := c.Find(7)
	assert.Equal(t, "first", v.Title)
	assert.Equal(t, []int{7, 8}, []int{c.All()[0].ID, c.All()[1].ID})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "catalog.json")
	require.NoError(t, os.WriteFile(good, []byte(`[
		{"id": 10, "title": "Mobility", "description": "Daily stretch", "url": "s3://media/mobility.mp4", "type": "free"},
		{"id": 11, "title": "Kettlebells", "url": "s3://media/kb.mp4", "type": "paid", "price": 299}
	]`), 0o600))

	c, err := Load(good)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())
	kb, ok := c.Find(11)
	require.True(t, ok)
	require.NotNil(t, kb.Price)
	assert.InDelta(t, 299.0, *kb.Price, 0.001)

	cases := map[string]string{
		"missing price": `[{"id": 1, "title": "x", "type": "paid"}]`,
		"bad type":      `[{"id": 1, "title": "x", "type": "premium"}]`,
		"zero id":       `[{"id": 0, "title": "x", "type": "free"}]`,
		"no title":      `[{"id": 1, "type": "free"}]`,
		"not json":      `{`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, "bad.json")
			require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
