package attachment

import "errors"

var (
	ErrNotFound    = errors.New("attachment: not found")
	ErrFileMissing = errors.New("attachment: multipart file field is missing")
)
