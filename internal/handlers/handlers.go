// Package handlers exposes the HR services over HTTP. Handlers decode and
// check request shape; business rules stay in the services.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
	"github.com/ahmed7gendy/hr-edecs/internal/middleware"
	"github.com/ahmed7gendy/hr-edecs/internal/models"
	"github.com/ahmed7gendy/hr-edecs/internal/utils"
)

const dateLayout = "2006-01-02"

// newValidator reports field errors under their json names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads the body into dst and, when v is non-nil, runs struct
// validation. It writes the error response itself and reports success.
func decodeJSON(w http.ResponseWriter, r *http.Request, v *validator.Validate, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondWithAppError(w, apperror.New(apperror.KindValidation, "Invalid request payload"))
		return false
	}
	if v == nil {
		return true
	}
	if err := v.Struct(dst); err != nil {
		utils.RespondWithAppError(w, validationError(err))
		return false
	}
	return true
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.New(apperror.KindValidation, err.Error())
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			fields[fe.Field()] = "This field is required"
		case "email":
			fields[fe.Field()] = "Invalid email address"
		case "oneof":
			fields[fe.Field()] = "Must be one of: " + fe.Param()
		default:
			fields[fe.Field()] = "Failed the " + fe.Tag() + " rule"
		}
	}
	return apperror.Validation(fields)
}

// caller returns the authenticated caller or writes a 401.
func caller(w http.ResponseWriter, r *http.Request) (*models.AuthContext, bool) {
	ac, err := middleware.GetAuthContext(r)
	if err != nil {
		utils.RespondWithAppError(w, apperror.New(apperror.KindAuthentication, err.Error()))
		return nil, false
	}
	return ac, true
}

// scopeUser resolves which employee a self-service request is about. Callers
// may always act on themselves; acting on someone else needs one of perms.
func scopeUser(w http.ResponseWriter, ac *models.AuthContext, requested string, perms ...models.Permission) (string, bool) {
	if requested == "" || requested == ac.UserID {
		return ac.UserID, true
	}
	if !ac.Permissions.HasAny(perms...) {
		utils.RespondWithAppError(w, apperror.Forbidden("You can only access your own records"))
		return "", false
	}
	return requested, true
}

func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}

// queryDate parses an optional YYYY-MM-DD or RFC 3339 query parameter.
func queryDate(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperror.Validation(map[string]string{name: "Use YYYY-MM-DD or RFC 3339"})
	}
	return &t, nil
}

// queryLimit parses ?limit, falling back to def and capping at max.
func queryLimit(r *http.Request, def, max int64) int64 {
	limit, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	if err != nil || limit < 1 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func respondMessage(w http.ResponseWriter, code int, message string) {
	utils.RespondWithJSON(w, code, map[string]string{"message": message})
}
