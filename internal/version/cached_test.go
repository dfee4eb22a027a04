package version

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/gitver/internal/semver"
)

func TestReadCached_RoundTrip(t *testing.T) {
	t.Parallel()

	original := &Info{
		Tag:       "v1.2.0",
		TagPrefix: "v",
		Base:      semver.MustParse("1.2.0"),
		Distance:  3,
		SHA:       testSHA,
		SHAAbbrev: "a1b2c3d",
		Branch:    "main",
		Date:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Dirty:     true,
		Version:   "1.2.1-dev.3.dirty+ga1b2c3d",
	}

	content, err := JSONContent(original)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "version.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loaded, err := ReadCached(path)
	require.NoError(t, err)

	assert.Equal(t, original.Tag, loaded.Tag)
	assert.Equal(t, original.TagPrefix, loaded.TagPrefix)
	assert.Equal(t, original.Base.String(), loaded.Base.String())
	assert.Equal(t, original.Distance, loaded.Distance)
	assert.Equal(t, original.SHA, loaded.SHA)
	assert.Equal(t, original.SHAAbbrev, loaded.SHAAbbrev)
	assert.Equal(t, original.Branch, loaded.Branch)
	assert.True(t, original.Date.Equal(loaded.Date))
	assert.Equal(t, original.Dirty, loaded.Dirty)
	assert.Equal(t, original.Version, loaded.Version)
}

func TestReadCached_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "Not JSON", content: "this is not json"},
		{name: "Missing Version", content: `{"tag": "v1.2.0"}`},
		{name: "Bad Date", content: `{"version": "1.2.0", "date": "yesterday"}`},
		{name: "Bad Base", content: `{"version": "1.2.0", "base": "one.two"}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "version.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := ReadCached(path)
			require.Error(t, err)

			var cacheErr *InvalidCacheError
			require.ErrorAs(t, err, &cacheErr)
			assert.Equal(t, path, cacheErr.Path)
		})
	}
}

func TestReadCached_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := ReadCached(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}
