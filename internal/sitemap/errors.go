package sitemap

import (
	"errors"
	"fmt"
)

// Sentinel errors for sitemap rendering.
var (
	// ErrUnknownSection indicates that no section is registered under the requested label.
	ErrUnknownSection = errors.New("sitemap section not found")

	// ErrPageNotFound indicates that the requested page number is outside 1..PageCount.
	ErrPageNotFound = errors.New("sitemap page not found")

	// ErrMissingLocation indicates that neither the section nor the object can supply a location.
	ErrMissingLocation = errors.New("sitemap entry has no location")

	// ErrInvalidLocation indicates a location that is not a site-relative path.
	ErrInvalidLocation = errors.New("invalid sitemap location: must be a site-relative path")

	// ErrInvalidPriority indicates a priority outside the [0.0, 1.0] range.
	ErrInvalidPriority = errors.New("invalid sitemap priority: must be between 0.0 and 1.0")

	// ErrInvalidChangeFreq indicates a change frequency outside the protocol's token set.
	ErrInvalidChangeFreq = errors.New("invalid sitemap change frequency")

	// ErrInvalidLimit indicates a page size outside 1..MaxLimit.
	ErrInvalidLimit = errors.New("invalid sitemap page size")

	// ErrOmit may be returned by a derived attribute function to leave the
	// attribute out of the entry for that object.
	ErrOmit = errors.New("sitemap attribute omitted")
)

// ResolutionError reports a failure of a derived attribute function.
type ResolutionError struct {
	Attribute string
	Err       error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve sitemap %s: %v", e.Attribute, e.Err)
}

// Unwrap returns the error raised by the attribute function.
func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err should surface to clients as "not found".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUnknownSection) || errors.Is(err, ErrPageNotFound)
}
