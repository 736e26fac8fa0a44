package entities

import (
	"errors"
	"strings"
	"time"
)

// Ошибки домена пользователя.
var (
	ErrEmptyUserID        = errors.New("user ID cannot be empty")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password must contain at least 8 characters")
	ErrPasswordTooWeak    = errors.New("password must contain at least one letter and one digit")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user account is inactive")
)

// User представляет учетную запись. Вместо имени пользователя
// используется адрес электронной почты.
type User struct {
	ID           string
	EmailAddress string
	FirstName    string
	LastName     string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName возвращает отображаемое имя пользователя.
func (u *User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.EmailAddress
	}
	return name
}

// NormalizeEmail приводит адрес почты к каноническому виду.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
