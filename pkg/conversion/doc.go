// Package conversion defines the conversion-service contract used by template
// expressions whenever a value crosses the string/typed-value boundary, along
// with the Standard service that provides the engine's default behaviour.
//
// Services split conversion into two halves: ToString renders any value as
// text, and ConvertOther turns a value into an arbitrary target type. The
// Convert helper dispatches between them the same way the template dialect
// does, so callers rarely need to pick a half themselves.
package conversion
