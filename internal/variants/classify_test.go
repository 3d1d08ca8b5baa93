package variants

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/autopatch/internal/types"
)

func TestClassify_URLSignal(t *testing.T) {
	all := types.AllArchitectures()

	arch := Classify("Download APK", "/apk/app/app-arm64-v8a-2-android-apk-download/", "", all)
	assert.Equal(t, types.ArchArm64, arch)

	arch = Classify("Download APK", "/apk/app/app-armeabi-v7a-android-apk-download/", "", all)
	assert.Equal(t, types.ArchArm, arch)
}

func TestClassify_X86NeverShadowsX86_64(t *testing.T) {
	all := types.AllArchitectures()

	arch := Classify("", "/apk/app/app-x86_64-android-apk-download/", "", all)
	assert.Equal(t, types.ArchX86_64, arch)

	arch = Classify("", "/apk/app/app-x86-android-apk-download/", "", all)
	assert.Equal(t, types.ArchX86, arch)

	// Context-only signal follows the same exclusion.
	arch = Classify("Download", "/apk/app/app-2-android-apk-download/", "x86_64 8 MB", all)
	assert.Equal(t, types.ArchX86_64, arch)
}

func TestClassify_SynonymContainment(t *testing.T) {
	all := types.AllArchitectures()

	assert.Equal(t, types.ArchArm, Classify("armeabi build", "/dl/1", "", all))
	assert.Equal(t, types.ArchArm64, Classify("", "/dl/2", "aarch64 variant row", all))
	assert.Equal(t, types.ArchAll, Classify("noarch", "/dl/3", "", all))
}

func TestClassify_RequestedFilter(t *testing.T) {
	// A clear arm64 signal must not classify when arm64 was not requested.
	arch := Classify("arm64-v8a", "/dl/app-arm64-v8a-android-apk-download/", "", []types.Architecture{types.ArchX86})
	assert.Equal(t, types.ArchUnknown, arch)
}

func TestClassify_NoSignalIsUnknown(t *testing.T) {
	// The classifier itself never defaults, even with universal requested;
	// the universal fallback is the discoverer's decision.
	arch := Classify("Download APK", "/apk/app/app-android-apk-download/", "8 MB", types.AllArchitectures())
	assert.Equal(t, types.ArchUnknown, arch)
}
