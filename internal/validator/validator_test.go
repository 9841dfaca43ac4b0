package validator

import (
	"net/http"
	"testing"

	"foodorder/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registerBody struct {
	Name     string `json:"name" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,min=11,max=16,phone"`
	Password string `json:"password" validate:"required,min=8"`
}

type cartBody struct {
	Items []struct {
		Quantity int64 `json:"quantity" validate:"gte=1"`
	} `json:"items" validate:"required,min=1,dive"`
}

func TestValidate(t *testing.T) {
	v := New()

	cases := []struct {
		name string
		in   interface{}
		msg  string
	}{
		{"ok", &registerBody{Name: "Taro", Email: "a@b.com", Phone: "+962791234567", Password: "Secret123"}, ""},
		{"short name", &registerBody{Name: "Ta", Email: "a@b.com", Password: "Secret123"}, "name must be at least 3 characters"},
		{"missing email", &registerBody{Name: "Taro", Password: "Secret123"}, "email is required"},
		{"bad email", &registerBody{Name: "Taro", Email: "nope", Password: "Secret123"}, "email must be a valid email"},
		{"bad phone", &registerBody{Name: "Taro", Email: "a@b.com", Phone: "call-me-maybe!", Password: "Secret123"}, "phone must be a valid phone number"},
		{"no items", &cartBody{}, "items is required"},
		{"zero qty", &cartBody{Items: []struct {
			Quantity int64 `json:"quantity" validate:"gte=1"`
		}{{Quantity: 0}}}, "quantity must be >= 1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.in)
			if tc.msg == "" {
				assert.NoError(t, err)
				return
			}
			he, ok := usecase.AsHTTPError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, he.Status)
			assert.Equal(t, usecase.CodeValidation, he.Code)
			assert.Equal(t, tc.msg, he.Message)
		})
	}
}
