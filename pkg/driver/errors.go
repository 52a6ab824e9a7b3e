package driver

import "errors"

var (
	ErrEmptyGrid      = errors.New("empty parameter grid")
	ErrUnknownSetting = errors.New("setting not in result set")
)
