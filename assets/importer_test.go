package assets

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportUnsupportedFormat(t *testing.T) {
	_, err := Import("model.fbx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestImportUsesRegisteredImporter(t *testing.T) {
	var imported string

	Register(".TEST", ImporterFunc(func(path string) (*Scene, error) {
		imported = path
		return &Scene{}, nil
	}))

	scene, err := Import("some/model.test")
	require.NoError(t, err)
	assert.NotNil(t, scene)
	assert.Equal(t, "some/model.test", imported)

	assert.Contains(t, Extensions(), "obj")
	assert.Contains(t, Extensions(), "test")
}

func TestImportWrapsImporterError(t *testing.T) {
	errBroken := errors.New("broken")

	Register(".broken", ImporterFunc(func(path string) (*Scene, error) {
		return nil, errBroken
	}))

	_, err := Import("model.broken")
	assert.ErrorIs(t, err, errBroken)
	assert.ErrorContains(t, err, "model.broken")
}
