// internal/domain/common/errors.go
package common

import "errors"

// Error kinds shared by every aggregate.
// Packages derive their own errors from these with fmt.Errorf("%w: ...", ErrX)
// so handlers can classify any error with errors.Is.
var (
	ErrNotFound          = errors.New("not_found")
	ErrInvalidArgument   = errors.New("invalid_argument")
	ErrUnavailable       = errors.New("unavailable")
	ErrInsufficientStock = errors.New("insufficient_stock")
	ErrDuplicate         = errors.New("duplicate")
)

// Kind returns the shared kind an error belongs to, or nil.
func Kind(err error) error {
	for _, k := range []error{
		ErrNotFound,
		ErrInvalidArgument,
		ErrUnavailable,
		ErrInsufficientStock,
		ErrDuplicate,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
