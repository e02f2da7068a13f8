package plugins

import (
	"context"

	"github.com/go-lemac/lemacd/pkg/algoplugin"
	"github.com/rs/zerolog/log"
	"github.com/tetratelabs/wazero/api"
)

// GetPluginInstance returns a plugin instance by algorithm name.
func (pm *PluginManager) GetPluginInstance(name string) *PluginInstance {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	return pm.plugins[name]
}

// GetPluginMetadata returns the metadata captured for an algorithm plugin
// at load time, rather than re-invoking its WASM exports on every call.
func (pm *PluginManager) GetPluginMetadata(name string) (version, description, author string) {
	pm.mu.RLock()
	info, ok := pm.registry.Get(name)
	pm.mu.RUnlock()
	if !ok {
		log.Debug().Str("algorithm", name).Msg("plugin instance not found")

		return "N/A", "Error: Plugin not loaded", "N/A"
	}

	return info.Version, info.Description, info.Author
}

// readMetadata calls a plugin's optional Version/Description/Author
// exports once, at load time, and returns "N/A" for anything the plugin
// does not export or that fails to execute.
func readMetadata(ctx context.Context, inst *PluginInstance) (version, description, author string) {
	log.Debug().
		Bool("has_version", inst.VersionFn != nil).
		Bool("has_desc", inst.DescriptionFn != nil).
		Bool("has_author", inst.AuthorFn != nil).
		Msg("checking plugin functions")

	version = callMetadataFn(ctx, inst, inst.VersionFn)
	description = callMetadataFn(ctx, inst, inst.DescriptionFn)
	author = callMetadataFn(ctx, inst, inst.AuthorFn)

	if version == "" {
		version = "N/A"
	}
	if description == "" {
		description = "N/A"
	}
	if author == "" {
		author = "N/A"
	}

	return version, description, author
}

func callMetadataFn(ctx context.Context, inst *PluginInstance, fn api.Function) string {
	if fn == nil {
		return ""
	}

	results, err := fn.Call(ctx)
	if err != nil || len(results) == 0 {
		return ""
	}

	ptr, size := algoplugin.UnpackResult(results[0])
	if size == 0 {
		return ""
	}

	data, ok := inst.Module.Memory().Read(ptr, size)
	if !ok {
		return ""
	}

	return string(data)
}
