package domain

// User is an account holder. Authentication happens elsewhere; this service
// only reads the domain assignment, so the struct stays minimal.
type User struct {
	ID           int64
	Name         string
	PasswordHash string // bcrypt; empty for accounts provisioned without a password
}
