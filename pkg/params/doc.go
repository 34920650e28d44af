// Package params holds the parameter converter registry shared by REST
// handlers and templates.
//
// Converters translate between a Go type and its text form. They are keyed by
// a raw type, a generic type and an optional annotation set so handlers can
// register qualified converters (for example a "date" format for time.Time)
// next to the unqualified default:
//
//	reg := params.NewRegistry(params.WithProvider(params.BasicProvider()))
//	params.MustRegisterFunc(reg, parseMoney, formatMoney)
//
//	amount, err := params.Query[Money](reg, r, "amount")
//
// Lookup consults exact entries first and then any configured providers in
// registration order.
package params
