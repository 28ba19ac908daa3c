package handler

// --- Request / Response types ---

type addConstituentRequest struct {
	FirstName     string  `json:"first_name" example:"Jane"`
	LastName      string  `json:"last_name" example:"Doe"`
	Age           *int    `json:"age" example:"40"`
	Phone         string  `json:"phone" example:"555-0100"`
	Email         string  `json:"email" example:"jane@example.com"`
	StreetAddress string  `json:"street_address" example:"1 Main St"`
	City          string  `json:"city" example:"Springfield"`
	State         string  `json:"state" example:"IL"`
	Zip           string  `json:"zip" example:"62701"`
	District      *string `json:"district" example:"D-7"`
}

type constituentResponse struct {
	ID            string  `json:"id"`
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Age           int     `json:"age"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email"`
	StreetAddress string  `json:"street_address"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Zip           string  `json:"zip"`
	District      *string `json:"district"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the envelope rendered for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Detail  string `json:"detail,omitempty"`
	Message string `json:"message,omitempty"`
}
