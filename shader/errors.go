package shader

import "errors"

var (
	errMissingSamplerBinding = errors.New("shader: no texture/sampler supplied for a reflected sampler binding")
	errMissingBufferBinding  = errors.New("shader: no buffer supplied for a reflected storage buffer binding")
)
