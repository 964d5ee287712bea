package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/df07/go-weekend-pathtracer/pkg/core"
)

// ErrUnknownScene is returned by Create for names that are neither a built-in
// scene nor a JSON file
var ErrUnknownScene = errors.New("unknown scene")

// builtins maps scene names to constructors. Constructors that place objects
// randomly draw from the sampler.
var builtins = map[string]func(sampler core.Sampler) *Scene{
	"default": func(core.Sampler) *Scene { return NewDefaultScene() },
	"random":  NewRandomScene,
}

// Names returns the built-in scene names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds the named scene. Names ending in .json are loaded from disk.
func Create(name string, sampler core.Sampler) (*Scene, error) {
	if strings.HasSuffix(strings.ToLower(name), ".json") {
		return LoadScene(name)
	}

	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
	}
	return build(sampler), nil
}
