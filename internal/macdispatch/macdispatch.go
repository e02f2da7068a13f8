// Package macdispatch resolves an algorithm name to a mac.Tagger,
// preferring a loaded WASM plugin over the built-in implementation so an
// operator can override or extend the supported algorithms without
// recompiling the daemon.
package macdispatch

import (
	"github.com/go-lemac/lemacd/internal/errorcodes"
	"github.com/go-lemac/lemacd/internal/plugins"
	"github.com/go-lemac/lemacd/pkg/lemac"
	"github.com/go-lemac/lemacd/pkg/mac"
	"github.com/go-lemac/lemacd/pkg/petitmac"
)

// Names of the built-in algorithms, also used as plugin lookup keys.
const (
	LeMacV1  = "lemac"
	LeMacV0  = "lemacv0"
	PetitMac = "petitmac"
)

var builtins = map[string]mac.Tagger{
	LeMacV1:  lemac.V1Tagger{},
	LeMacV0:  lemac.V0Tagger{},
	PetitMac: petitmac.Tagger{},
}

// pluginTagger adapts a PluginManager's ExecuteTag method to mac.Tagger for
// one fixed algorithm name.
type pluginTagger struct {
	pm   plugins.PluginManagerInterface
	name string
}

func (p pluginTagger) Tag(key, nonce, message []byte) ([16]byte, error) {
	tag, err := p.pm.ExecuteTag(p.name, key, nonce, message)
	if err != nil {
		return [16]byte{}, errorcodes.ErrPluginFailure
	}
	if len(tag) != 16 {
		return [16]byte{}, errorcodes.ErrPluginFailure
	}

	var out [16]byte
	copy(out[:], tag)

	return out, nil
}

// Resolve returns the mac.Tagger for name: a plugin implementation if one
// is loaded under that name, otherwise the built-in implementation.
// Returns errorcodes.ErrUnknownAlgorithm if neither exists.
func Resolve(pm plugins.PluginManagerInterface, name string) (mac.Tagger, error) {
	if pm != nil && pm.Has(name) {
		return pluginTagger{pm: pm, name: name}, nil
	}

	if t, ok := builtins[name]; ok {
		return t, nil
	}

	return nil, errorcodes.ErrUnknownAlgorithm
}
