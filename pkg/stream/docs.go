package stream

// swagger:response Stream
type _ struct {
	// Server-sent events
	// in: body
	_ string
}
