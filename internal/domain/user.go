package domain

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MinPasswordLength is the minimum number of characters in a raw password.
const MinPasswordLength = 7

const forbiddenPasswordWord = "password"

var validate = validator.New()

// User represents a registered account.
//
// Session tokens and the avatar image are stored alongside the user but are
// never loaded into this struct, so a User can always be rendered to clients.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Age            int       `json:"age"`
	Password       string    `json:"-"` // raw password, set only until it is hashed
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a normalized, validated User with a fresh ID.
//
// The raw password is kept in Password; the caller must hash it before the
// user is persisted.
func NewUser(name, email string, age int, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Age:       age,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	user.Normalize()

	if user.Password == "" {
		return nil, ErrEmptyPassword
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Normalize trims textual fields and case-folds the email address.
func (u *User) Normalize() {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = NormalizeEmail(u.Email)
	u.Password = strings.TrimSpace(u.Password)
}

// Validate checks every field. A pending raw password is checked against the
// password rules; otherwise a stored hash must be present.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyID
	}
	if u.Name == "" {
		return ErrEmptyName
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.Age < 0 {
		return ErrNegativeAge
	}
	if u.Password != "" {
		return ValidatePassword(u.Password)
	}
	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}
	return nil
}

// UserUpdate carries a partial profile update. Nil fields are left untouched.
type UserUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Age      *int    `json:"age"`
	Password *string `json:"password"`
}

// ApplyUpdate copies the non-nil fields of upd onto u, then normalizes and
// validates the result. u is left unchanged when validation fails.
func (u *User) ApplyUpdate(upd UserUpdate) error {
	next := *u
	if upd.Name != nil {
		next.Name = *upd.Name
	}
	if upd.Email != nil {
		next.Email = *upd.Email
	}
	if upd.Age != nil {
		next.Age = *upd.Age
	}
	if upd.Password != nil {
		next.Password = *upd.Password
		if strings.TrimSpace(next.Password) == "" {
			return ErrEmptyPassword
		}
	}
	next.Normalize()

	if err := next.Validate(); err != nil {
		return err
	}

	next.UpdatedAt = time.Now().UTC()
	*u = next
	return nil
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that email is present and syntactically valid.
func ValidateEmail(email string) error {
	if email == "" {
		return ErrEmptyEmail
	}
	if err := validate.Var(email, "email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword applies the raw password rules.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if strings.Contains(strings.ToLower(password), forbiddenPasswordWord) {
		return ErrPasswordForbidden
	}
	return nil
}
