package wgslcompiler

import "errors"

var errIncludeCycle = errors.New("wgslcompiler: include cycle")
