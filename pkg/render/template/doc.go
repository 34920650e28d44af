// Package template defines renderer-agnostic template interfaces, the
// dialect contract engines expose to extensions, and the StandardDialect
// that routes template conversions through a conversion.Service.
package template
