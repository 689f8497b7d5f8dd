package docs

// swagger:response Health
type _ struct {
	// in: body
	Body struct {
		// Always "up" while the service accepts requests
		Status string `json:"status"`
	}
}
