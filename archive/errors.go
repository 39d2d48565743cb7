package archive

import "errors"

// ErrInvalidDocument indicates a document that cannot be turned back into
// a SuperSet: malformed field meshes or coupling towards an absent mode.
var ErrInvalidDocument = errors.New("archive: invalid document")
