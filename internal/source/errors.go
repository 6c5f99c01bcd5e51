package source

import "errors"

// ErrUnknownFormat indicates the payload matches no known caption shape.
var ErrUnknownFormat = errors.New("unknown caption format")

// ErrNoCaptions indicates a well-formed payload with no caption text.
var ErrNoCaptions = errors.New("no captions in payload")
