package models

// Session is the authoritative authenticated-user-or-none value exposed to
// the rest of the application. It is derived state and never persisted as
// its own record.
type Session struct {
	User *User
}

// Authenticated builds a session for the given user.
func Authenticated(u *User) Session {
	return Session{User: u}
}

// Anonymous is the signed-out session.
func Anonymous() Session {
	return Session{}
}

// IsAuthenticated reports whether a user is present.
func (s Session) IsAuthenticated() bool {
	return s.User != nil
}
