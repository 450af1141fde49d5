// Package bind decodes an HTTP request body into a typed payload struct
// and validates it. Handlers never read raw form values: every endpoint
// declares a payload type and binds it here.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/floracart/floracart/pkg/validate"
)

// maxBodyBytes caps request bodies to prevent memory exhaustion.
const maxBodyBytes = 4 << 20 // 4 MB

// Request decodes r into dest based on Content-Type (JSON or form) and
// runs validation.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed or too large.
func Request(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		return JSON(r, dest)
	}
	return Form(r, dest)
}

// JSON decodes r.Body as JSON into dest and runs validation.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err = dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	return check(dest)
}

// Form decodes an application/x-www-form-urlencoded body into dest's
// string fields, matched by `form` tag (falling back to `json`), and runs
// validation.
func Form(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("invalid form: %w", err)
	}

	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, errors.New("bind: dest must be a pointer to struct")
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if field.Type.Kind() != reflect.String || !rv.Field(i).CanSet() {
			continue
		}
		name := fieldName(field)
		if name == "" {
			continue
		}
		if vals, ok := r.Form[name]; ok && len(vals) > 0 {
			rv.Field(i).SetString(strings.TrimSpace(vals[0]))
		}
	}

	return check(dest)
}

func check(dest interface{}) (map[string]string, error) {
	errs := validate.Struct(dest)
	if validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}

func fieldName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name := f.Tag.Get(tag)
		if idx := strings.Index(name, ","); idx != -1 {
			name = name[:idx]
		}
		if name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(f.Name)
}
