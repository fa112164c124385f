package sitemap

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type attrKind uint8

const (
	kindDefault attrKind = iota
	kindFixed
	kindDerived
)

// Attr is one per-entry attribute of a section: a fixed value, a value
// derived from each object, or (the zero value) the attribute's default policy.
type Attr[T any] struct {
	kind  attrKind
	value T
	fn    func(obj any) (T, error)
}

// Fixed returns an attribute that resolves to v for every object.
func Fixed[T any](v T) Attr[T] {
	return Attr[T]{kind: kindFixed, value: v}
}

// Derived returns an attribute computed from each object by fn.
func Derived[T any](fn func(obj any) (T, error)) Attr[T] {
	return Attr[T]{kind: kindDerived, fn: fn}
}

// From adapts a typed accessor into a derived attribute.
// Objects of any other type fail resolution.
func From[O, T any](fn func(O) T) Attr[T] {
	return Derived(func(obj any) (T, error) {
		o, ok := obj.(O)
		if !ok {
			var zero T
			return zero, fmt.Errorf("unexpected object type %T", obj)
		}
		return fn(o), nil
	})
}

// IsDefault reports whether the attribute falls back to its default policy.
func (a Attr[T]) IsDefault() bool { return a.kind == kindDefault }

// IsFixed reports whether the attribute holds a single value for all objects.
func (a Attr[T]) IsFixed() bool { return a.kind == kindFixed }

// Value returns the fixed value and true, or the zero value and false for
// derived and default attributes.
func (a Attr[T]) Value() (T, bool) {
	if a.kind != kindFixed {
		var zero T
		return zero, false
	}
	return a.value, true
}

// resolve returns the attribute value for obj. ok is false when the
// attribute is absent for this object.
func (a Attr[T]) resolve(name string, obj any) (v T, ok bool, err error) {
	switch a.kind {
	case kindFixed:
		return a.value, true, nil
	case kindDerived:
		v, err = a.fn(obj)
		if errors.Is(err, ErrOmit) {
			var zero T
			return zero, false, nil
		}
		if err != nil {
			return v, false, &ResolutionError{Attribute: name, Err: err}
		}
		return v, true, nil
	default:
		return v, false, nil
	}
}

// ChangeFreq is the protocol's changefreq token.
type ChangeFreq string

const (
	Always  ChangeFreq = "always"
	Hourly  ChangeFreq = "hourly"
	Daily   ChangeFreq = "daily"
	Weekly  ChangeFreq = "weekly"
	Monthly ChangeFreq = "monthly"
	Yearly  ChangeFreq = "yearly"
	Never   ChangeFreq = "never"
)

// Valid reports whether c is one of the seven protocol tokens.
func (c ChangeFreq) Valid() bool {
	switch c {
	case Always, Hourly, Daily, Weekly, Monthly, Yearly, Never:
		return true
	}
	return false
}

// ParseChangeFreq parses a case-insensitive changefreq token.
func ParseChangeFreq(s string) (ChangeFreq, error) {
	c := ChangeFreq(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidChangeFreq, s)
	}
	return c, nil
}

// DefaultPriority is the priority search engines assume when an entry omits it.
const DefaultPriority = 0.5

// ValidatePriority rejects priorities outside [0.0, 1.0].
func ValidatePriority(p float64) error {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidPriority, p)
	}
	return nil
}

// ParsePriority parses a decimal priority such as "0.8".
func ParsePriority(s string) (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPriority, s)
	}
	if err := ValidatePriority(p); err != nil {
		return 0, err
	}
	if p == 0 {
		p = 0 // "-0"
	}
	return p, nil
}

// FormatPriority renders p with exactly one decimal digit. Negative zero
// renders as "0.0".
func FormatPriority(p float64) string {
	if p == 0 {
		p = 0
	}
	return strconv.FormatFloat(p, 'f', 1, 64)
}

// ValidateLocation checks that loc is a site-relative path with no scheme or host.
func ValidateLocation(loc string) error {
	if !strings.HasPrefix(loc, "/") || strings.HasPrefix(loc, "//") {
		return fmt.Errorf("%w: %q", ErrInvalidLocation, loc)
	}
	u, err := url.Parse(loc)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fmt.Errorf("%w: %q", ErrInvalidLocation, loc)
	}
	return nil
}

// Locator is implemented by objects that know their own site-relative URL.
// It is the default location policy.
type Locator interface {
	AbsoluteURL() string
}

// Attributes groups the four per-entry attributes of a section.
type Attributes struct {
	Location     Attr[string]
	LastModified Attr[time.Time]
	ChangeFreq   Attr[ChangeFreq]
	Priority     Attr[float64]
}

// Validate checks the fixed attribute values. Derived values are checked
// as each object is resolved.
func (a Attributes) Validate() error {
	if v, ok := a.Location.Value(); ok {
		if err := ValidateLocation(v); err != nil {
			return err
		}
	}
	if v, ok := a.ChangeFreq.Value(); ok && v != "" && !v.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidChangeFreq, v)
	}
	if v, ok := a.Priority.Value(); ok {
		if err := ValidatePriority(v); err != nil {
			return err
		}
	}
	return nil
}

// ResolveEntry resolves all four attributes of obj.
func (a Attributes) ResolveEntry(obj any) (Entry, error) {
	var e Entry

	loc, ok, err := a.Location.resolve("location", obj)
	if err != nil {
		return Entry{}, err
	}
	if !ok {
		l, isLocator := obj.(Locator)
		if !isLocator {
			return Entry{}, fmt.Errorf("%w: object of type %T", ErrMissingLocation, obj)
		}
		loc = l.AbsoluteURL()
	}
	if err := ValidateLocation(loc); err != nil {
		return Entry{}, err
	}
	e.Location = loc

	lastmod, ok, err := a.LastModified.resolve("lastmod", obj)
	if err != nil {
		return Entry{}, err
	}
	if ok && !lastmod.IsZero() {
		t := lastmod
		e.LastModified = &t
	}

	freq, ok, err := a.ChangeFreq.resolve("changefreq", obj)
	if err != nil {
		return Entry{}, err
	}
	if ok && freq != "" {
		if !freq.Valid() {
			return Entry{}, fmt.Errorf("%w: %q", ErrInvalidChangeFreq, freq)
		}
		e.ChangeFreq = freq
	}

	prio, ok, err := a.Priority.resolve("priority", obj)
	if err != nil {
		return Entry{}, err
	}
	if ok {
		if err := ValidatePriority(prio); err != nil {
			return Entry{}, err
		}
		p := prio
		e.Priority = &p
	}

	return e, nil
}
