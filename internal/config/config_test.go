package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/usercrixus/42expertSystem/internal/xerrors"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".expertsystemrc")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing temp config: %s", err)
	}
	return path
}

func Test_Default(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	assert.Equal(defaultWrapWidth, cfg.WrapWidth)
	assert.False(cfg.NoColor)
}

func Test_Load_missingFileNotExplicit(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), ".expertsystemrc")
	cfg, err := Load(path, false)
	if assert.NoError(err) {
		assert.Equal(Default(), cfg)
	}
}

func Test_Load_missingFileExplicit(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "does-not-exist.toml")
	_, err := Load(path, true)
	assert.True(xerrors.IsIO(err))
}

func Test_Load_parsesFields(t *testing.T) {
	assert := assert.New(t)

	path := writeTempConfig(t, "wrap_width = 100\nno_color = true\n")
	cfg, err := Load(path, true)
	if assert.NoError(err) {
		assert.Equal(100, cfg.WrapWidth)
		assert.True(cfg.NoColor)
	}
}

func Test_Load_zeroWrapWidthFallsBackToDefault(t *testing.T) {
	assert := assert.New(t)

	path := writeTempConfig(t, "wrap_width = 0\n")
	cfg, err := Load(path, true)
	if assert.NoError(err) {
		assert.Equal(defaultWrapWidth, cfg.WrapWidth)
	}
}

func Test_Load_malformedTOML(t *testing.T) {
	assert := assert.New(t)

	path := writeTempConfig(t, "wrap_width = [this is not valid toml\n")
	_, err := Load(path, true)
	assert.True(xerrors.IsSyntax(err))
}

func Test_Load_existingFileNotExplicit(t *testing.T) {
	assert := assert.New(t)

	path := writeTempConfig(t, "wrap_width = 60\n")
	cfg, err := Load(path, false)
	if assert.NoError(err) {
		assert.Equal(60, cfg.WrapWidth)
	}
}
