package domain

type User struct {
	Username     string `json:"username"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email"`
	IsAdmin      bool   `json:"isAdmin"`
	PasswordHash string `json:"-"`
}

// UserWithJobs is the read view of a user together with the ids of the
// jobs they have an application for.
type UserWithJobs struct {
	User
	Jobs []int `json:"jobs"`
}

// Principal is the authenticated identity behind a request. A nil
// *Principal means the caller is anonymous.
type Principal struct {
	Username string
	IsAdmin  bool
}
