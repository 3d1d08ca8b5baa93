package patches

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patch_analysis.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "com.google.android.youtube": {
    "supported_versions": ["20.12.46", "20.14.43"],
    "recommended_version": "20.14.43",
    "supports_any_version": false
  },
  "com.google.android.apps.photos": {
    "supports_any_version": true
  }
}`), 0o644))

	analysis, err := Load(path)
	require.NoError(t, err)
	require.Len(t, analysis, 2)

	yt, ok := analysis.For("com.google.android.youtube")
	require.True(t, ok)
	assert.Equal(t, []string{"20.12.46", "20.14.43"}, yt.SupportedVersions)
	assert.Equal(t, "20.14.43", yt.RecommendedVersion)
	assert.False(t, yt.SupportsAnyVersion)

	photos, ok := analysis.For("com.google.android.apps.photos")
	require.True(t, ok)
	assert.True(t, photos.SupportsAnyVersion)

	_, ok = analysis.For("com.example.unknown")
	assert.False(t, ok)
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	analysis, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Empty(t, analysis)
}

func TestLoad_MalformedFileIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patch_analysis.json")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
