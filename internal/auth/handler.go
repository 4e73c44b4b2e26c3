package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gymform/backend/internal/telemetry/metrics"
	"github.com/gymform/backend/pkg"
	log "github.com/sirupsen/logrus"
)

// TokenHeader carries the session token on every authenticated request.
const TokenHeader = "X-GYMFORM-TOKEN"

type Handler struct {
	service *Service
	metrics *metrics.Manager
}

func NewHandler(service *Service, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		service: service,
		metrics: metricsManager,
	}
}

// SetupRoutes mounts the auth endpoints. The login rate limit is built
// by the server so this package stays free of redis plumbing.
func (handler *Handler) SetupRoutes(mainRouter *mux.Router, loginRateLimit func(http.Handler) http.Handler) {
	authRouter := mainRouter.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/register", handler.handleRegister).Methods("POST", "OPTIONS").Name("register")
	authRouter.Handle("/login", loginRateLimit(http.HandlerFunc(handler.handleLogin))).Methods("POST", "OPTIONS").Name("login")
	authRouter.HandleFunc("/logout", handler.handleLogout).Methods("POST", "OPTIONS").Name("logout")
	authRouter.HandleFunc("/me", handler.handleMe).Methods("GET", "OPTIONS").Name("me")
	authRouter.HandleFunc("/me", handler.handleUpdateProfile).Methods("PATCH", "OPTIONS").Name("update-profile")
}

type registerRequest struct {
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	FirstName    *string  `json:"firstName,omitempty"`
	LastName     *string  `json:"lastName,omitempty"`
	Height       *float64 `json:"height,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
	FitnessLevel string   `json:"fitnessLevel,omitempty"`
}

type sessionResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func (handler *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.Username == "" || req.Email == "" {
		http.Error(w, "username and email are required", http.StatusBadRequest)
		return
	}
	if len(req.Password) < 8 {
		http.Error(w, "password must have at least 8 characters", http.StatusBadRequest)
		return
	}

	user := User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Height:       req.Height,
		Weight:       req.Weight,
		FitnessLevel: req.FitnessLevel,
	}

	added, token, err := handler.service.Register(r.Context(), user, req.Password)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			http.Error(w, "username or email already taken", http.StatusConflict)
			return
		}
		log.Errorf("register user: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterUsersRegistered.Inc()

	respBytes, err := json.Marshal(sessionResponse{Token: token, User: added})
	if err != nil {
		log.Errorf("marshal register response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusCreated)
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var credentials Credentials
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if credentials.Username == "" || credentials.Password == "" {
		http.Error(w, "username and password are required", http.StatusBadRequest)
		return
	}

	user, token, err := handler.service.Login(r.Context(), credentials)
	if err != nil {
		if errors.Is(err, ErrWrongCredentials) {
			reqIP, _ := pkg.ReadUserIP(r)
			log.Tracef("failed login attempt for user [%s] from %s", credentials.Username, reqIP)
			http.Error(w, "wrong credentials", http.StatusUnauthorized)
			return
		}
		log.Errorf("login user: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(sessionResponse{Token: token, User: user})
	if err != nil {
		log.Errorf("marshal login response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteJSONResponseOK(w, string(respBytes))
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(TokenHeader)
	if token == "" {
		http.Error(w, "no token", http.StatusBadRequest)
		return
	}

	if err := handler.service.Logout(r.Context(), token); err != nil {
		if errors.Is(err, ErrNotLoggedIn) {
			http.Error(w, "not logged in", http.StatusUnauthorized)
			return
		}
		log.Errorf("logout: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, `{"loggedOut":true}`)
}

func (handler *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no auth token", http.StatusUnauthorized)
		return
	}

	user, err := handler.service.repo.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("get current user: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	respBytes, err := json.Marshal(user)
	if err != nil {
		log.Errorf("marshal user: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respBytes)
}

func (handler *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no auth token", http.StatusUnauthorized)
		return
	}

	var patch ProfilePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := handler.service.UpdateProfile(r.Context(), userID, patch); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("update profile for user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"updated":true,"userId":%d}`, userID))
}
