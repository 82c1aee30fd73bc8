package auth

import (
	"vehicle-reservation/internal/domain/user"
	"vehicle-reservation/internal/pkg/password"
)

// Credentials is a validated login attempt.
type Credentials struct {
	email    user.Email
	password user.Password
}

func NewCredentials(emailStr, passwordStr string) (Credentials, error) {
	email, err := user.NewEmail(emailStr)
	if err != nil {
		return Credentials{}, err
	}

	password, err := user.NewPassword(passwordStr)
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{
		email:    email,
		password: password,
	}, nil
}

func (c Credentials) Email() user.Email {
	return c.email
}

// Verify checks the password against u's hash. A nil user costs the same
// bcrypt work and always fails.
func (c Credentials) Verify(u *user.User) bool {
	if u == nil {
		password.CompareDummy(c.password.Value())
		return false
	}
	return password.ComparePassword(u.PasswordHash(), c.password.Value()) == nil
}
