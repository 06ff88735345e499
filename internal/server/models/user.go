package models

// User is a registered account. The password is stored only as a bcrypt hash.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Email        string
}
