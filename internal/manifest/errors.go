package manifest

import "errors"

var ErrCompare = errors.New("manifest comparison failed")
