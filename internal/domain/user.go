package domain

// User is the identity record cached alongside the session token.
type User struct {
	ID     int    `json:"id,omitempty"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	RoleID int    `json:"role_id"`
}

// Role is an account role as listed by the backend.
type Role struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// Address is a delivery address owned by the remote backend. The client
// holds a read-through cached copy per checkout session.
type Address struct {
	ID           int    `json:"id,omitempty"`
	Title        string `json:"title"`
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	Phone        string `json:"phone"`
	City         string `json:"city"`
	District     string `json:"district"`
	Neighborhood string `json:"neighborhood"`
	Line         string `json:"address"`
}

// Card is a stored payment card. The backend assigns the id; the full PAN
// is only ever sent, never persisted client-side.
type Card struct {
	ID          int    `json:"id,omitempty"`
	No          string `json:"card_no"`
	NameOnCard  string `json:"name_on_card"`
	ExpireMonth int    `json:"expire_month"`
	ExpireYear  int    `json:"expire_year"`
}

// MaskedNo returns the card number reduced to its last four digits for
// display, e.g. "**** **** **** 4242".
func (c Card) MaskedNo() string {
	if len(c.No) < 4 {
		return c.No
	}
	return "**** **** **** " + c.No[len(c.No)-4:]
}
