package dashboard

// swagger:parameters findDashboard
type _ struct {
	// Start of the window. Either an RFC 3339 timestamp or a date
	// in: query
	// required: true
	Start string `json:"start"`

	// End of the window. A date covers the whole of that day
	// in: query
	// required: true
	End string `json:"end"`
}

// swagger:response Dashboard
type _ struct {
	// in: body
	_ Dashboard
}
