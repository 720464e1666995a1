package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

var ErrUnsupportedFormat = errors.New("unsupported model format")

type Importer interface {
	Import(path string) (*Scene, error)
}

// ImporterFunc adapts a plain function to the Importer interface.
type ImporterFunc func(path string) (*Scene, error)

func (fn ImporterFunc) Import(path string) (*Scene, error) {
	return fn(path)
}

var registry = struct {
	sync.RWMutex
	byExtension map[string]Importer
}{
	byExtension: map[string]Importer{
		".obj": OBJ{},
	},
}

// Register installs an importer for files with the given extension,
// replacing any previous one. The extension includes the leading dot
// and is matched case insensitive.
func Register(extension string, importer Importer) {
	registry.Lock()
	defer registry.Unlock()

	registry.byExtension[strings.ToLower(extension)] = importer
}

// Extensions returns the registered file extensions without the leading dot.
func Extensions() []string {
	registry.RLock()
	defer registry.RUnlock()

	var extensions []string
	for ext := range registry.byExtension {
		extensions = append(extensions, strings.TrimPrefix(ext, "."))
	}

	slices.Sort(extensions)

	return extensions
}

// Import loads the scene at path with the importer registered for its extension.
func Import(path string) (*Scene, error) {
	ext := strings.ToLower(filepath.Ext(path))

	registry.RLock()
	importer, ok := registry.byExtension[ext]
	registry.RUnlock()

	if !ok {
		return nil, fmt.Errorf("import %q: %w", path, ErrUnsupportedFormat)
	}

	scene, err := importer.Import(path)
	if err != nil {
		return nil, fmt.Errorf("import %q: %w", path, err)
	}

	return scene, nil
}
