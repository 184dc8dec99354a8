package batch

import (
	"errors"

	"github.com/mj1618/seller-cli/internal/ident"
)

// ErrInputEmpty aborts a batch with no identifiers.
var ErrInputEmpty = ident.ErrEmpty

// ErrNoMatches aborts a batch whose matching pass found nothing.
var ErrNoMatches = errors.New("no matches found")

// Structural elements a batch depends on.
const (
	ElementTable  = "table"
	ElementHeader = "header"
	ElementColumn = "column"
)

// StructureError reports a page element the batch could not locate.
type StructureError struct {
	Element string
	// Selector is the lookup that failed, for diagnostics.
	Selector string
}

func (e *StructureError) Error() string {
	switch e.Element {
	case ElementColumn:
		return "target column missing"
	default:
		return e.Element + " missing"
	}
}

// IsFatal reports whether err aborts a whole batch.
func IsFatal(err error) bool {
	var se *StructureError
	return errors.Is(err, ErrInputEmpty) || errors.Is(err, ErrNoMatches) || errors.As(err, &se)
}
