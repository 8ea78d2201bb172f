package imagestore

import "errors"

var ErrNotFound = errors.New("image not found")
