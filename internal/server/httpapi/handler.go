package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/usersvc/internal/common"
	"github.com/dmitrijs2005/usersvc/internal/logging"
	"github.com/dmitrijs2005/usersvc/internal/server/gate"
	"github.com/dmitrijs2005/usersvc/internal/server/models"
	"github.com/go-chi/chi/v5"
)

// maxBodyBytes caps request bodies; every payload here is a few short strings.
const maxBodyBytes = 1 << 20

// UserService is the subset of services.UserService the handlers call.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	AddUser(ctx context.Context, username, email, password string) (*models.User, error)
	UpdateStatus(ctx context.Context, id string, upd models.StatusUpdate) (*models.User, error)
}

type handler struct {
	users  UserService
	logger logging.Logger
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type usersData struct {
	Users []*models.User `json:"users"`
}

// decode reads a JSON object into dst. Anything that is not a JSON object
// fails, which the caller reports as an invalid payload.
func decode(r *http.Request, dst any) bool {
	if r.Body == nil {
		return false
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return false
	}
	return true
}

// fail writes the response for err and logs unexpected failures.
func (h *handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := statusFor(err)
	if code == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	writeFail(w, code, msg)
}

// GET /users/ping
func (h *handler) ping(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, common.MsgPong, nil)
}

// POST /auth/register
func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(r, &req) {
		writeFail(w, http.StatusBadRequest, common.MsgInvalidPayload)
		return
	}

	_, token, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, common.MsgRegistered, tokenData{AuthToken: token})
}

// POST /auth/login
func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(r, &req) {
		writeFail(w, http.StatusBadRequest, common.MsgInvalidPayload)
		return
	}

	token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, common.MsgLoggedIn, tokenData{AuthToken: token})
}

// GET /auth/logout. Tokens are not revocable, so logging out only confirms
// the token was valid; the client discards it.
func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, common.MsgLoggedOut, nil)
}

// GET /auth/status
func (h *handler) status(w http.ResponseWriter, r *http.Request) {
	user, _ := gate.UserFromContext(r.Context())
	writeSuccess(w, http.StatusOK, "", user)
}

// GET /users
func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.users.ListUsers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", usersData{Users: list})
}

// GET /users/{id}
func (h *handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", user)
}

// POST /users (admin)
func (h *handler) addUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(r, &req) {
		writeFail(w, http.StatusBadRequest, common.MsgInvalidPayload)
		return
	}

	user, err := h.users.AddUser(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, fmt.Sprintf(common.MsgUserAdded, user.Email), nil)
}

// PATCH /users/{id} (admin)
func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req models.StatusUpdate
	if !decode(r, &req) {
		writeFail(w, http.StatusBadRequest, common.MsgInvalidPayload)
		return
	}

	user, err := h.users.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, "", user)
}
