package algoplugin

import "github.com/go-lemac/lemacd/internal/errorcodes"

// WriteError packs err's code into guest memory and returns the Buffer the
// plugin's Tag export should return in place of a tag.
func WriteError(err error) Buffer {
	code := errorcodes.ErrPluginFailure.CodeOnly()
	if macErr, ok := err.(errorcodes.MacError); ok {
		code = macErr.CodeOnly()
	}

	return ToBuffer([]byte(code))
}
