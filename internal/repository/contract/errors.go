package contract

import "errors"

var ErrDuplicateKey = errors.New("duplicate key")
