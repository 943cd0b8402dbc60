package extract

import "errors"

var ErrExtract = errors.New("extraction failed")
