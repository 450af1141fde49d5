package bind_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floracart/floracart/pkg/bind"
)

type credentials struct {
	Email    string `form:"email"    json:"email"    validate:"required,email"`
	Password string `form:"password" json:"password" validate:"required,min=8"`
}

func TestBindForm(t *testing.T) {
	form := url.Values{"email": {"rose@example.com"}, "password": {"secret123"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var c credentials
	errs, err := bind.Request(req, &c)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "rose@example.com", c.Email)
	assert.Equal(t, "secret123", c.Password)
}

func TestBindJSON(t *testing.T) {
	body := `{"email":"rose@example.com","password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	var c credentials
	errs, err := bind.Request(req, &c)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, "rose@example.com", c.Email)
}

func TestBindValidationFailure(t *testing.T) {
	form := url.Values{"email": {"nope"}, "password": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var c credentials
	errs, err := bind.Request(req, &c)
	require.NoError(t, err)
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
}

func TestBindMalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	var c credentials
	_, err := bind.JSON(req, &c)
	assert.Error(t, err)
}

func TestFormTrimsWhitespace(t *testing.T) {
	form := url.Values{"email": {"  rose@example.com  "}, "password": {"secret123"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var c credentials
	_, err := bind.Form(req, &c)
	require.NoError(t, err)
	assert.Equal(t, "rose@example.com", c.Email)
}
