package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }

func TestNewUser(t *testing.T) {
	user, err := NewUser("  Tony Stark ", "  Tony@StarkIndustries.US ", 45, " ilovepepper ")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "Tony Stark", user.Name)
	assert.Equal(t, "tony@starkindustries.us", user.Email)
	assert.Equal(t, 45, user.Age)
	assert.Equal(t, "ilovepepper", user.Password)
	assert.Empty(t, user.HashedPassword)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestNewUser_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		email    string
		age      int
		password string
		wantErr  error
	}{
		{"empty name", "   ", "thor@asgard.com", 0, "heimdall123", ErrEmptyName},
		{"empty email", "Thor", "", 0, "heimdall123", ErrEmptyEmail},
		{"invalid email", "Thor", "thor-at-asgard", 0, "heimdall123", ErrInvalidEmail},
		{"negative age", "Thor", "thor@asgard.com", -1, "heimdall123", ErrNegativeAge},
		{"empty password", "Thor", "thor@asgard.com", 0, "   ", ErrEmptyPassword},
		{"short password", "Thor", "thor@asgard.com", 0, "abc123", ErrPasswordTooShort},
		{"short after trim", "Thor", "thor@asgard.com", 0, "  abc123  ", ErrPasswordTooShort},
		{"forbidden word", "Thor", "thor@asgard.com", 0, "myPassWord1", ErrPasswordForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := NewUser(tt.userName, tt.email, tt.age, tt.password)

			assert.Nil(t, user)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.NotEmpty(t, vErr.Field)
		})
	}
}

func TestUserValidate_StoredHash(t *testing.T) {
	user := User{
		ID:             uuid.New(),
		Name:           "Tony",
		Email:          "tony@starkindustries.us",
		HashedPassword: "$2a$08$hash",
	}
	assert.NoError(t, user.Validate())

	user.HashedPassword = ""
	assert.ErrorIs(t, user.Validate(), ErrEmptyHashedPassword)

	user.ID = uuid.Nil
	assert.ErrorIs(t, user.Validate(), ErrEmptyID)
}

func TestUserApplyUpdate(t *testing.T) {
	base := func() *User {
		return &User{
			ID:             uuid.New(),
			Name:           "Tony",
			Email:          "tony@starkindustries.us",
			Age:            45,
			HashedPassword: "$2a$08$hash",
		}
	}

	t.Run("applies whitelisted fields", func(t *testing.T) {
		user := base()
		err := user.ApplyUpdate(UserUpdate{
			Name:     strPtr(" Iron Man "),
			Email:    strPtr("IRONMAN@stark.com"),
			Age:      intPtr(48),
			Password: strPtr(" jarvis2008 "),
		})

		require.NoError(t, err)
		assert.Equal(t, "Iron Man", user.Name)
		assert.Equal(t, "ironman@stark.com", user.Email)
		assert.Equal(t, 48, user.Age)
		assert.Equal(t, "jarvis2008", user.Password)
		assert.False(t, user.UpdatedAt.IsZero())
	})

	t.Run("leaves nil fields untouched", func(t *testing.T) {
		user := base()
		require.NoError(t, user.ApplyUpdate(UserUpdate{Age: intPtr(0)}))

		assert.Equal(t, "Tony", user.Name)
		assert.Equal(t, 0, user.Age)
		assert.Empty(t, user.Password)
	})

	t.Run("rejects invalid update without mutating", func(t *testing.T) {
		tests := []struct {
			name    string
			update  UserUpdate
			wantErr error
		}{
			{"blank name", UserUpdate{Name: strPtr("  ")}, ErrEmptyName},
			{"bad email", UserUpdate{Email: strPtr("nope")}, ErrInvalidEmail},
			{"negative age", UserUpdate{Age: intPtr(-5)}, ErrNegativeAge},
			{"blank password", UserUpdate{Password: strPtr("   ")}, ErrEmptyPassword},
			{"forbidden password", UserUpdate{Password: strPtr("password123")}, ErrPasswordForbidden},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				user := base()
				before := *user

				err := user.ApplyUpdate(tt.update)

				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, before, *user)
			})
		}
	})
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("pranav@94"))
	assert.NoError(t, ValidatePassword("1234567"))
	assert.ErrorIs(t, ValidatePassword("123456"), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidatePassword("xxPASSWORDxx"), ErrPasswordForbidden)
}

func TestFieldSet(t *testing.T) {
	assert.True(t, UserMutableFields.Contains("password"))
	assert.False(t, UserMutableFields.Contains("tokens"))
	assert.False(t, UserMutableFields.Contains("avatar"))

	assert.Empty(t, TaskMutableFields.Unknown([]string{"description", "completed"}))
	assert.Equal(t, []string{"foo", "owner"}, TaskMutableFields.Unknown([]string{"owner", "completed", "foo"}))
}
