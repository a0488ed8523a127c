package internal

import "errors"

var (
	ErrConfig    = errors.New("configuration error")
	ErrRead      = errors.New("read error")
	ErrRetrieval = errors.New("retrieval error")
	ErrWrite     = errors.New("write error")
)
