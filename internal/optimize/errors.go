package optimize

import "errors"

// ErrTextTooLong indicates the transcript exceeds the token limit for
// the configured model.
var ErrTextTooLong = errors.New("transcript exceeds token limit")

// ErrEmptyAPIKey indicates that the API key was not provided.
var ErrEmptyAPIKey = errors.New("API key is required")
