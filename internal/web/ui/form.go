package ui

import "regexp"

// the loose shape check browsers apply: something@something.tld
var emailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

const minPasswordLen = 6

// validateSignupForm checks the signup fields locally. It returns a
// user-facing message, or "" when the form is acceptable. Nothing is sent to
// the backend until this passes.
func validateSignupForm(username, email, password, confirm string) string {
	if username == "" || email == "" || password == "" || confirm == "" {
		return "All fields are required"
	}
	if !emailRe.MatchString(email) {
		return "Enter a valid email address"
	}
	if len(password) < minPasswordLen {
		return "Password must be at least 6 characters"
	}
	if password != confirm {
		return "Passwords do not match"
	}
	return ""
}
