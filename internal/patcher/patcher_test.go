package patcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/autopatch/internal/types"
)

func TestFindTools(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "revanced-cli-5.0.1-all.jar"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "patches-5.12.0.rvp"), nil, 0o644))

	tools, err := FindTools(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "revanced-cli-5.0.1-all.jar"), tools.CLIJar)
	assert.Equal(t, filepath.Join(dir, "patches-5.12.0.rvp"), tools.PatchesFile)
}

func TestFindTools_MissingJar(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "patches-5.12.0.rvp"), nil, 0o644))

	_, err := FindTools(dir)
	require.Error(t, err)

	var toolsErr *ToolsError
	require.True(t, errors.As(err, &toolsErr))
	assert.Equal(t, dir, toolsErr.Dir)
}

func TestFindTools_MissingPatchesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "some-cli-tool.jar"), nil, 0o644))

	var toolsErr *ToolsError
	_, err := FindTools(dir)
	require.True(t, errors.As(err, &toolsErr))
	assert.Contains(t, err.Error(), "patch definitions")
}

func TestPatchedPath(t *testing.T) {
	assert.Equal(t, "/dl/app/app-v1.2.3-arm64-v8a-patched.apk",
		PatchedPath("/dl/app/app-v1.2.3-arm64-v8a.apk"))
}

func TestArchFromFilename(t *testing.T) {
	cases := []struct {
		name string
		want types.Architecture
	}{
		{"com.google.android.youtube-v20.14.43-arm64-v8a.apk", types.ArchArm64},
		{"com.google.android.youtube-v20.14.43-armeabi-v7a.apk", types.ArchArm},
		{"/dl/photos/com.google.android.apps.photos-v7.50.0-x86_64.apk", types.ArchX86_64},
		{"app-v1.0.0-universal.apk", types.ArchAll},
		{"app-v1.0.0-arm64-v8a-patched.apk", types.ArchArm64},
		{"unrelated.apk", types.ArchUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ArchFromFilename(tc.name), "filename %s", tc.name)
	}
}
