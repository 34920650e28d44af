// Package parambridge lets templates reuse the converters registered for REST
// endpoint parameters.
//
// A Bridge implements conversion.Service on top of a params.Registry: values
// whose type has a registered converter are stringified and parsed by it,
// everything else falls back to the template engine's default conversions.
//
//	reg := params.NewRegistry()
//	params.MustRegisterFunc(reg, ParseMoney, FormatMoney)
//
//	engine, bridge, err := parambridge.NewEngine(reg, gotemplate.WithBaseDir("views"))
//	// {{ str(order.Total) }} now renders "10.50"
//
// Bridges are built once during bootstrap and shared by every request.
package parambridge
