package domain

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session identifies the caller of a service operation. It is supplied by the
// presentation layer and trusted as-is.
type Session struct {
	UserID string
	Name   string
}

func NewSession(u *User) Session {
	return Session{UserID: u.ID, Name: u.Name}
}
