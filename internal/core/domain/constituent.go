package domain

import "time"

// StatusActive is the status the store assigns to newly registered constituents.
const StatusActive = "active"

// Candidate is a caller-submitted constituent that has not been persisted yet.
//
// Age is a pointer so that an absent age can be told apart from an explicit 0.
type Candidate struct {
	FirstName     string  `json:"first_name" validate:"required"`
	LastName      string  `json:"last_name"  validate:"required"`
	Age           *int    `json:"age"        validate:"required"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email"      validate:"required"`
	StreetAddress string  `json:"street_address"`
	City          string  `json:"city"`
	State         string  `json:"state"`
	Zip           string  `json:"zip"`
	District      *string `json:"district"`
}

// Constituent is a persisted constituent record. ID, Status and the
// timestamps are assigned by the store and never by callers.
type Constituent struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Age           int       `json:"age"`
	Phone         string    `json:"phone"`
	Email         string    `json:"email"`
	StreetAddress string    `json:"street_address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	Zip           string    `json:"zip"`
	District      *string   `json:"district"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DistrictOrEmpty returns the district, or "" when none was recorded.
func (c *Constituent) DistrictOrEmpty() string {
	if c.District == nil {
		return ""
	}
	return *c.District
}
