package handlers

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aura/pkg/session"
	"aura/pkg/user"

	"github.com/golang/mock/gomock"
	"go.uber.org/zap"
)

var username = "amy"
var password = "secret_password"
var passwordDB = HashPass(getSalt(), password)

func getSalt() []byte {
	salt := make([]byte, 8)
	rand.Read(salt)
	return salt
}

func newUserHandler(t *testing.T) (*UserHandler, *MockUsersRepo, *MockPostsRepo, *session.MockSessionManager, *gomock.Controller) {
	t.Helper()

	ctrl := gomock.NewController(t)
	usersRepo := NewMockUsersRepo(ctrl)
	postsRepo := NewMockPostsRepo(ctrl)
	sm := session.NewMockSessionManager(ctrl)

	h := &UserHandler{
		Sm:        sm,
		Repo:      usersRepo,
		PostsRepo: postsRepo,
		Logger:    zap.NewNop().Sugar(),
	}

	return h, usersRepo, postsRepo, sm, ctrl
}

func authBody(t *testing.T, username, password string) *bytes.Buffer {
	t.Helper()
	raw, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return bytes.NewBuffer(raw)
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) *ErrorResponse {
	t.Helper()
	resp := &ErrorResponse{}
	if err := json.Unmarshal(w.Body.Bytes(), resp); err != nil {
		t.Fatalf("body is not an error response: %q", w.Body.String())
	}
	return resp
}

func TestLoginHappyCase(t *testing.T) {
	h, usersRepo, _, sm, ctrl := newUserHandler(t)
	defer ctrl.Finish()

	account := &user.User{ID: 1, Username: username, Password: passwordDB}
	usersRepo.EXPECT().GetByUsername(username).Return(account, nil)
	sm.EXPECT().Create(gomock.Any(), gomock.Any(), &session.User{ID: 1, Username: username}, gomock.Any()).
		Return(&session.Session{User: &session.User{ID: 1, Username: username}}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/login", authBody(t, username, password))

	h.Login(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected %d but was %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
}

func TestLoginUserNotFound(t *testing.T) {
	h, usersRepo, _, _, ctrl := newUserHandler(t)
	defer ctrl.Finish()

	usersRepo.EXPECT().GetByUsername(username).Return(nil, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/login", authBody(t, username, password))

	h.Login(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d but was %d", http.StatusUnauthorized, w.Code)
	}
	if resp := decodeError(t, w); resp.Error != "user_not_found" {
		t.Errorf("unexpected error: %v", resp.Error)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h, usersRepo, _, _, ctrl := newUserHandler(t)
	defer ctrl.Finish()

	account := &user.User{ID: 1, Username: username, Password: passwordDB}
	usersRepo.EXPECT().GetByUsername(username).Return(account, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/login", authBody(t, username, "not_the_password"))

	h.Login(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d but was %d", http.StatusUnauthorized, w.Code)
	}
	if resp := decodeError(t, w); resp.Error != "invalid_password" {
		t.Errorf("unexpected error: %v", resp.Error)
	}
}

// an empty password is still a full login attempt, rejected by the hash
// check rather than any field validation
func TestLoginEmptyPassword(t *testing.T) {
	h, usersRepo, _, _, ctrl := newUserHandler(t)
	defer ctrl.Finish()

	account := &user.User{ID: 1, Username: username, Password: passwordDB}
	usersRepo.EXPECT().GetByUsername(username).Return(account, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/login", authBody(t, username, ""))

	h.Login(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected %d but was %d", http.StatusUnauthorized, w.Code)
	}
}

func TestSignupHappyCase(t *testing.T) {
	h, usersRepo, _, sm, ctrl := newUserHandler(t)
	defer ctrl.Finish()

	usersRepo.EXPECT().GetByUsername(username).Return(nil, nil)
	usersRepo.EXPECT().Add(gomock.Any()).Return(int64(5), nil)
	sm.EXPECT().Create(gomock.Any(), gomock.Any(), &session.User{ID: 5, Username: username}, gomock.Any()).
		Return(&session.Session{User: &session.User{ID: 5, Username: username}}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/signup", authBody(t, username, password))

	h.Signup(w, r)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected %d but was %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
}

func TestSignupValidation(t *testing.T) {
	h, _, _, _, ctrl := newUserHandler(t)
	defer ctrl.Finish()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/signup", authBody(t, "bad name!", "short"))

	h.Signup(w, r)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected %d but was %d", http.StatusUnprocessableEntity, w.Code)
	}
	if resp := decodeError(t, w); resp.Error != "validation_failed" || resp.Detail == "" {
		t.Errorf("unexpected error: %+v", resp)
	}
}

func TestSignupDuplicate(t *testing.T) {
	h, usersRepo, _, _, ctrl := newUserHandler(t)
	defer ctrl.Finish()

	usersRepo.EXPECT().GetByUsername(username).Return(&user.User{ID: 1, Username: username}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/signup", authBody(t, username, password))

	h.Signup(w, r)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected %d but was %d", http.StatusUnprocessableEntity, w.Code)
	}
	if resp := decodeError(t, w); resp.Error != "username_taken" {
		t.Errorf("unexpected error: %v", resp.Error)
	}
}

func TestMeAnonymous(t *testing.T) {
	h, _, _, sm, ctrl := newUserHandler(t)
	defer ctrl.Finish()

	sm.EXPECT().Check(gomock.Any(), gomock.Any()).Return(nil, session.ErrNoSession)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/me", nil)

	h.Me(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected %d but was %d", http.StatusOK, w.Code)
	}
	if w.Body.String() != `{"user":null}` {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestMeLoggedIn(t *testing.T) {
	h, _, postsRepo, sm, ctrl := newUserHandler(t)
	defer ctrl.Finish()

	sess := &session.Session{User: &session.User{ID: 1, Username: username}, SessionID: "sid"}
	sm.EXPECT().Check(gomock.Any(), gomock.Any()).Return(sess, nil)
	postsRepo.EXPECT().AuraTotal(gomock.Any(), int64(1)).Return(42, nil)
	postsRepo.EXPECT().Streak(gomock.Any(), int64(1)).Return(3, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/me", nil)

	h.Me(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected %d but was %d", http.StatusOK, w.Code)
	}

	var resp MeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if resp.User == nil || resp.User.Username != username || resp.User.AuraTotal != 42 || resp.User.Streak != 3 {
		t.Errorf("unexpected user: %+v", resp.User)
	}
}

func TestLogout(t *testing.T) {
	h, _, _, sm, ctrl := newUserHandler(t)
	defer ctrl.Finish()

	sm.EXPECT().Destroy(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/logout", bytes.NewBufferString("{}"))

	h.Logout(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected %d but was %d", http.StatusOK, w.Code)
	}
}
