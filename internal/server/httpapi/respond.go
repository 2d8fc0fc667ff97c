package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/usersvc/internal/common"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
)

// envelope is the body of every JSON response.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type tokenData struct {
	AuthToken string `json:"auth_token"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Status: statusSuccess, Message: message, Data: data})
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, envelope{Status: statusFail, Message: message})
}

// statusFor maps a service or gate error to the HTTP status and message the
// client sees.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrInvalidPayload):
		return http.StatusBadRequest, common.MsgInvalidPayload
	case errors.Is(err, common.ErrUserAlreadyExists):
		return http.StatusBadRequest, common.MsgUserExists
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, common.MsgInvalidLogin
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, common.MsgInvalidToken
	case errors.Is(err, common.ErrInsufficientPrivilege):
		return http.StatusForbidden, common.MsgForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, common.MsgUserNotFound
	default:
		return http.StatusInternalServerError, common.MsgInternal
	}
}
