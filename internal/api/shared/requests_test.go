package shared

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"  validate:"required"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		isEmpty bool
	}{
		{name: "valid body", body: `{"email":"a@b.co","name":"A"}`},
		{name: "empty body", body: "", wantErr: true, isEmpty: true},
		{name: "malformed", body: `{"email":`, wantErr: true},
		{name: "wrong type", body: `{"email":42}`, wantErr: true},
		{name: "trailing value", body: `{"name":"A"}{"name":"B"}`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tc.body))
			w := httptest.NewRecorder()

			var got sampleRequest
			err := DecodeJSON(w, r, &got)

			if !tc.wantErr {
				require.NoError(t, err)
				assert.Equal(t, "a@b.co", got.Email)
				return
			}
			require.Error(t, err)
			if tc.isEmpty {
				assert.ErrorIs(t, err, ErrEmptyBody)
			}
		})
	}
}

func TestDecodeJSONTooLarge(t *testing.T) {
	body := `{"name":"` + strings.Repeat("x", MaxJSONBodyBytes) + `"}`
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var got sampleRequest
	err := DecodeJSON(httptest.NewRecorder(), r, &got)

	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, err, &maxErr)
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(&sampleRequest{Email: "a@b.co", Name: "A"}))
	assert.Error(t, ValidateRequest(&sampleRequest{Email: "nope", Name: "A"}))
	assert.Error(t, ValidateRequest(&sampleRequest{Email: "a@b.co"}))
}
