package domain

// Customer is identified by its email address. A customer owns its orders;
// an update replaces the whole collection with whatever the caller supplied.
type Customer struct {
	Email    string  `json:"email"`
	Password string  `json:"-"`
	Orders   []Order `json:"orders"`
}
