package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ahmed7gendy/hr-edecs/internal/apperror"
)

const (
	tokenIssuer   = "hr-edecs"
	tokenAudience = "hr-edecs-clients"
)

// HashPassword hashes a plain-text password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a plain-text password with a hashed password
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// TokenClaims is the identity carried by an access token. Permissions are not
// embedded; they are resolved on every request.
type TokenClaims struct {
	UserID string
	Email  string
}

// GenerateToken generates a new JWT token for the user
func GenerateToken(userID, email string, ttl time.Duration, secretKey []byte) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"iat":     now.Unix(),
		"exp":     now.Add(ttl).Unix(),
		"iss":     tokenIssuer,
		"aud":     tokenAudience,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

// ParseToken validates tokenString and returns its claims.
func ParseToken(tokenString string, secretKey []byte) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secretKey, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, errors.New("user ID claim missing from token")
	}
	email, _ := claims["email"].(string)

	return &TokenClaims{UserID: userID, Email: email}, nil
}

// RespondWithError sends a JSON error response
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]interface{}{"error": true, "message": message})
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Error marshalling JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithAppError maps err onto a status and writes the error body. Only
// an AppError's message and details reach the client.
func RespondWithAppError(w http.ResponseWriter, err error) {
	body := map[string]interface{}{"error": true}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		body["message"] = appErr.Message
		body["kind"] = appErr.Kind
		if len(appErr.Details) > 0 {
			body["details"] = appErr.Details
		}
	} else {
		body["message"] = apperror.DefaultMessage(apperror.KindUnknown)
		body["kind"] = apperror.KindUnknown
	}
	RespondWithJSON(w, apperror.HTTPStatus(err), body)
}
