package handlers

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"aura/pkg/session"
	"aura/pkg/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"
)

type UserHandler struct {
	Sm        session.SessionManager
	Repo      UsersRepo
	PostsRepo PostsRepo
	Logger    *zap.SugaredLogger
}

type UsersRepo interface {
	GetByID(id int64) (*user.User, error)
	GetByUsername(username string) (*user.User, error)
	Add(user *user.User) (int64, error)
}

type AuthReq struct {
	Password *string `json:"password"`
	Username *string `json:"username"`
}

type MeResponse struct {
	User *UserResponse `json:"user"`
}

type UserResponse struct {
	Username  string `json:"username"`
	AuraTotal int    `json:"aura_total"`
	Streak    int    `json:"streak"`
}

func (r *AuthReq) validate() []*FieldError {
	usr := &Validator{value: r.Username, field: "username"}
	usrErr := func() *FieldError {
		err := usr.Required()
		if err != nil {
			return err
		}
		err = usr.Empty()
		if err != nil {
			return err
		}
		err = usr.MaxLength(32)
		if err != nil {
			return err
		}
		err = usr.Custom(func(value string) bool {
			return strings.TrimSpace(value) == value
		}, "cannot start or end with whitespace")
		if err != nil {
			return err
		}

		return usr.Matches("^[a-zA-Z0-9_-]+$")
	}()

	pwd := &Validator{value: r.Password, field: "password"}
	pwdErr := func() *FieldError {
		err := pwd.Required()
		if err != nil {
			return err
		}
		err = pwd.Empty()
		if err != nil {
			return err
		}
		err = pwd.MinLength(8)
		if err != nil {
			return err
		}
		return pwd.MaxLength(72)
	}()

	return mergeErrors(usrErr, pwdErr)
}

func (u *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	authReq, ok := u.readAuthReq(w, r)
	if !ok {
		return
	}

	// login does not re-validate field shapes: an empty password simply
	// fails the check below
	if authReq.Username == nil || authReq.Password == nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "username and password are required")
		return
	}

	account, err := u.Repo.GetByUsername(*authReq.Username)
	if err != nil {
		u.Logger.Error(err.Error())
		WriteError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	if account == nil {
		WriteError(w, http.StatusUnauthorized, "user_not_found", "")
		return
	}

	if !checkPass(account.Password, *authReq.Password) {
		WriteError(w, http.StatusUnauthorized, "invalid_password", "")
		return
	}

	u.startSession(w, account, http.StatusOK)
}

func (u *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	authReq, ok := u.readAuthReq(w, r)
	if !ok {
		return
	}

	validationErrors := authReq.validate()
	if len(validationErrors) > 0 {
		writeValidationErrors(w, validationErrors)
		return
	}

	existing, err := u.Repo.GetByUsername(*authReq.Username)
	if err != nil {
		u.Logger.Error(err.Error())
		WriteError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	if existing != nil {
		WriteError(w, http.StatusUnprocessableEntity, "username_taken", *authReq.Username+" already exists")
		return
	}

	salt := make([]byte, 8)
	rand.Read(salt)

	account := &user.User{
		Username: *authReq.Username,
		Password: HashPass(salt, *authReq.Password),
	}

	id, err := u.Repo.Add(account)
	if err != nil {
		u.Logger.Error(err.Error())
		WriteError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}
	account.ID = id

	u.startSession(w, account, http.StatusCreated)
}

// Logout destroys the session behind the request's cookie. Auth middleware
// guarantees a session is present.
func (u *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := u.Sm.Destroy(ctx, w, r); err != nil {
		u.Logger.Error(err.Error())
		WriteError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	WriteJSON(w, http.StatusOK, struct{}{})
}

// Me reports the current session's user, or user: null when the cookie is
// absent or stale. Never an error status: the client uses this to probe.
func (u *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	sess, err := u.Sm.Check(ctx, r)
	if err != nil {
		WriteJSON(w, http.StatusOK, &MeResponse{User: nil})
		return
	}

	auraTotal, err := u.PostsRepo.AuraTotal(ctx, sess.User.ID)
	if err != nil {
		u.Logger.Error(err.Error())
		WriteError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	streak, err := u.PostsRepo.Streak(ctx, sess.User.ID)
	if err != nil {
		u.Logger.Error(err.Error())
		WriteError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	WriteJSON(w, http.StatusOK, &MeResponse{User: &UserResponse{
		Username:  sess.User.Username,
		AuraTotal: auraTotal,
		Streak:    streak,
	}})
}

func (u *UserHandler) readAuthReq(w http.ResponseWriter, r *http.Request) (*AuthReq, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		u.Logger.Error(err.Error())
		WriteError(w, http.StatusInternalServerError, "internal_error", "")
		return nil, false
	}

	var authReq AuthReq
	if err := json.Unmarshal(body, &authReq); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_request", "body must be JSON")
		return nil, false
	}

	return &authReq, true
}

func (u *UserHandler) startSession(w http.ResponseWriter, account *user.User, status int) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessID := uuid.New().String()
	_, err := u.Sm.Create(ctx, w, &session.User{ID: account.ID, Username: account.Username}, sessID)
	if err != nil {
		u.Logger.Error(err.Error())
		WriteError(w, http.StatusInternalServerError, "internal_error", "")
		return
	}

	WriteJSON(w, status, struct{}{})
}

func HashPass(salt []byte, plainPassword string) []byte {
	hashedPass := argon2.IDKey([]byte(plainPassword), salt, 1, 64*1024, 4, 32)
	return append(salt, hashedPass...)
}

func checkPass(passHash []byte, plainPassword string) bool {
	if len(passHash) < 8 {
		return false
	}
	salt := make([]byte, 8)
	copy(salt, passHash[0:8])
	return bytes.Equal(HashPass(salt, plainPassword), passHash)
}
