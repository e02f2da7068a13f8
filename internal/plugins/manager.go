// Package plugins manages the loading and execution of WASM algorithm
// plugins: alternative or additional MAC tag implementations loaded at
// runtime alongside the built-in lemac and petitmac packages.
package plugins

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// PluginManager manages WASM plugin instances and supports hot reload by
// recreating the runtime from scratch.
type PluginManager struct {
	//nolint:containedctx // reused across LoadAll and ExecuteTag for the lifetime of the runtime.
	ctx      context.Context
	runtime  wazero.Runtime
	plugins  map[string]*PluginInstance
	registry *PluginRegistry
	mu       sync.RWMutex
}

// PluginInstance holds a WASM module and its exported functions.
type PluginInstance struct {
	Module        api.Module
	AllocFn       api.Function
	TagFn         api.Function
	VersionFn     api.Function
	DescriptionFn api.Function
	AuthorFn      api.Function
	mu            sync.Mutex
}

// NewPluginManager returns a PluginManager ready to load plugins.
func NewPluginManager(ctx context.Context) *PluginManager {
	return &PluginManager{
		ctx:      ctx,
		plugins:  make(map[string]*PluginInstance),
		registry: NewPluginRegistry(),
	}
}

// LoadAll loads every WASM module in dir, instantiating each and storing
// it under the algorithm name taken from its filename (e.g. lemac.wasm
// registers under "lemac").
func (pm *PluginManager) LoadAll(dir string) error {
	files, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	newRt := wazero.NewRuntime(pm.ctx)
	wasi_snapshot_preview1.MustInstantiate(pm.ctx, newRt)

	envBuilder := newRt.NewHostModuleBuilder("env")
	envBuilder.NewFunctionBuilder().
		WithFunc(func(_ context.Context, m api.Module, ptr, length uint32) {
			data, ok := m.Memory().Read(ptr, length)
			if !ok {
				log.Error().Msg("failed to read memory in log_debug")

				return
			}
			log.Debug().
				Str("event", "plugin_debug").
				Str("msg", string(data)).
				Msg("wasm")
		}).
		Export("log_debug")

	if _, err := envBuilder.Instantiate(pm.ctx); err != nil {
		return fmt.Errorf("failed to instantiate env module: %w", err)
	}

	newPlugins := make(map[string]*PluginInstance)
	newRegistry := NewPluginRegistry()

	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".wasm" {
			continue
		}

		wasmBytes, err := os.ReadFile(filepath.Join(dir, f.Name()))
		if err != nil {
			log.Error().Err(err).Str("file", f.Name()).Msg("failed to read plugin file")

			continue
		}

		algoName := strings.TrimSuffix(f.Name(), ".wasm")
		compiled, err := newRt.CompileModule(pm.ctx, wasmBytes)
		if err != nil {
			log.Error().Err(err).Str("file", f.Name()).Msg("failed to compile plugin module")

			continue
		}

		cfg := wazero.NewModuleConfig().
			WithName(algoName).
			WithStartFunctions() // don't run any start functions automatically.

		module, err := newRt.InstantiateModule(pm.ctx, compiled, cfg)
		if err != nil {
			log.Error().Err(err).Str("file", f.Name()).Msg("failed to instantiate plugin module")

			continue
		}

		tagFn := module.ExportedFunction("Tag")
		if tagFn == nil {
			log.Warn().Str("file", f.Name()).Msg("plugin does not export Tag function")

			continue
		}

		allocFn := module.ExportedFunction("Alloc")
		if allocFn == nil {
			log.Warn().Str("file", f.Name()).Msg("plugin does not export Alloc function")

			continue
		}

		inst := &PluginInstance{
			Module:        module,
			TagFn:         tagFn,
			AllocFn:       allocFn,
			VersionFn:     module.ExportedFunction("Version"),
			DescriptionFn: module.ExportedFunction("Description"),
			AuthorFn:      module.ExportedFunction("Author"),
		}
		newPlugins[algoName] = inst

		version, description, author := readMetadata(pm.ctx, inst)
		newRegistry.Register(&PluginInfo{
			Algorithm:   algoName,
			Version:     version,
			Description: description,
			Author:      author,
		})

		log.Info().Str("plugin", algoName).Msg("loaded wasm plugin")
	}

	pm.mu.Lock()
	if pm.runtime != nil {
		if err := pm.runtime.Close(pm.ctx); err != nil {
			log.Error().Err(err).Msg("failed to close previous runtime")
		}
	}
	pm.runtime = newRt
	pm.plugins = newPlugins
	pm.registry = newRegistry
	pm.mu.Unlock()

	return nil
}

// ExecuteTag runs the named algorithm's plugin over key, nonce, and
// message and returns the 16-byte tag. The guest receives a single
// concatenated buffer: 16 bytes of key, 16 bytes of nonce, then message.
func (pm *PluginManager) ExecuteTag(name string, key, nonce, message []byte) ([]byte, error) {
	pm.mu.RLock()
	inst, ok := pm.plugins[name]
	pm.mu.RUnlock()
	if !ok {
		return nil, errors.New("unknown algorithm")
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()

	input := make([]byte, 0, 32+len(message))
	input = append(input, key...)
	input = append(input, nonce...)
	input = append(input, message...)

	ptr, err := AllocBuffer(pm.ctx, inst.Module, inst.AllocFn, input)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate memory: %w", err)
	}

	log.Debug().
		Str("event", "plugin_execution").
		Str("algorithm", name).
		Str("request_hex", hex.EncodeToString(input)).
		Msg("plugin execution call")

	res, err := CallTag(pm.ctx, inst.TagFn, ptr, uint32(len(input)))
	if err != nil {
		return nil, fmt.Errorf("plugin execution error: %w", err)
	}

	tag, err := ReadBuffer(inst.Module, res)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	log.Debug().
		Str("event", "plugin_response").
		Str("algorithm", name).
		Str("response_hex", hex.EncodeToString(tag)).
		Msg("plugin execution response")

	return tag, nil
}

// Has reports whether an algorithm plugin with the given name is loaded.
func (pm *PluginManager) Has(name string) bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	_, ok := pm.plugins[name]

	return ok
}

// ListPlugins returns the names of every currently loaded algorithm plugin.
func (pm *PluginManager) ListPlugins() []string {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	names := make([]string, 0, len(pm.plugins))
	for name := range pm.plugins {
		names = append(names, name)
	}

	return names
}

// Context returns the context used by the plugin manager.
func (pm *PluginManager) Context() context.Context {
	return pm.ctx
}

// Close closes the underlying WASM runtime and releases resources.
func (pm *PluginManager) Close() error {
	if pm.runtime == nil {
		return nil
	}

	return pm.runtime.Close(pm.ctx)
}
