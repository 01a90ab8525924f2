package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeJSONBody strictly decodes the request body into dst and runs
// struct-tag validation. Unknown fields and trailing data are rejected.
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, decodeMessage(err))
	}
	if decoder.More() {
		return pkgerrors.New(pkgerrors.CodeValidation, "request body must contain a single JSON object")
	}

	if err := validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "validate request")
		}
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields := make(map[string]string, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields[fieldKey(fe)] = fieldMessage(fe)
			}
			return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(fields)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "validate request")
	}
	return nil
}

func decodeMessage(err error) string {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError

	switch {
	case errors.Is(err, io.EOF):
		return "request body is empty"
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	case errors.As(err, &typeErr):
		if typeErr.Field != "" {
			return fmt.Sprintf("invalid value for field %q", typeErr.Field)
		}
		return "invalid JSON value type"
	case errors.As(err, &maxErr):
		return "request body too large"
	case strings.HasPrefix(err.Error(), "json: unknown field"):
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return fmt.Sprintf("unknown field %s", field)
	default:
		return "invalid request body"
	}
}

func fieldKey(fe validator.FieldError) string {
	// StructNamespace begins with the struct type name; drop it.
	parts := strings.SplitN(fe.StructNamespace(), ".", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or more", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "uuid":
		return "must be a valid UUID"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// UUIDParam extracts and parses a UUID path parameter.
func UUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid %s: must be a UUID", name))
	}
	return id, nil
}

// QueryInt parses an optional integer query parameter.
func QueryInt(r *http.Request, name string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// QueryString returns a trimmed query parameter.
func QueryString(r *http.Request, name string) string {
	return strings.TrimSpace(r.URL.Query().Get(name))
}

// PageParams reads page/limit query parameters with defaults applied.
func PageParams(r *http.Request) pagination.Params {
	return pagination.Normalize(pagination.Params{
		Page:  QueryInt(r, "page", 1),
		Limit: QueryInt(r, "limit", pagination.DefaultLimit),
	})
}
