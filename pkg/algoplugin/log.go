package algoplugin

// LogToHost sends a debug message from a plugin to the host's logger.
//
//go:wasm-module env
//export log_debug
func LogToHost(string) {}
