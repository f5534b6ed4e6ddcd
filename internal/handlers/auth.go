package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkwell/internal/models"
	"inkwell/internal/store"
	"inkwell/internal/token"
)

// Auth groups the registration, login, and session-restore handlers.
type Auth struct {
	users  *store.UserStore
	tokens *token.Manager
}

// NewAuth creates a new Auth handler group.
func NewAuth(users *store.UserStore, tokens *token.Manager) *Auth {
	return &Auth{users: users, tokens: tokens}
}

// publicUser is the projection returned with issued tokens. The password
// hash never leaves the store layer.
type publicUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// authResponse carries the token and user projection at the top level,
// next to the envelope fields, which is where the client looks for them.
type authResponse struct {
	Success bool       `json:"success"`
	Message string     `json:"message"`
	Token   string     `json:"token"`
	User    publicUser `json:"user"`
}

// credentials is the request body for register and login.
type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	return dec.Decode(v)
}

// Register handles POST /api/auth/register. It validates the input, rejects
// duplicate emails, stores the user with a hashed password, and issues a
// signed token alongside the public user projection.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cleaned, errs := registerSchema.Check(map[string]string{
		"name":     body.Name,
		"email":    body.Email,
		"password": body.Password,
	})
	if len(errs) > 0 {
		respondValidation(w, errs)
		return
	}

	existing, err := a.users.FindByEmail(cleaned["email"])
	if err != nil {
		respondServerError(w, "register lookup failed", err)
		return
	}
	if existing != nil {
		respondError(w, http.StatusBadRequest, "User already exists")
		return
	}

	user, err := a.users.Create(cleaned["name"], cleaned["email"], body.Password)
	if err != nil {
		// A concurrent registration can lose to the unique index.
		if store.IsUniqueViolation(err) {
			respondError(w, http.StatusBadRequest, "User already exists")
			return
		}
		respondServerError(w, "register create failed", err)
		return
	}

	signed, err := a.tokens.Issue(user.ID)
	if err != nil {
		respondServerError(w, "register token failed", err)
		return
	}

	respond(w, http.StatusCreated, authResponse{
		Success: true,
		Message: "User registered successfully",
		Token:   signed,
		User:    publicUser{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

// Login handles POST /api/auth/login. Unknown email and wrong password
// produce the same generic response so neither case leaks which part was
// wrong; both cost one bcrypt comparison.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cleaned, errs := loginSchema.Check(map[string]string{
		"email":    body.Email,
		"password": body.Password,
	})
	if len(errs) > 0 {
		respondValidation(w, errs)
		return
	}

	user, err := a.users.FindByEmail(cleaned["email"])
	if err != nil {
		respondServerError(w, "login lookup failed", err)
		return
	}

	if !a.users.CheckPassword(user, body.Password) {
		respondError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	signed, err := a.tokens.Issue(user.ID)
	if err != nil {
		respondServerError(w, "login token failed", err)
		return
	}

	respond(w, http.StatusOK, authResponse{
		Success: true,
		Message: "Login successful",
		Token:   signed,
		User:    publicUser{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

// userResponse carries the full public record for session restore.
type userResponse struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user"`
}

// CurrentUser handles GET /api/auth/user/{id}, which the client calls on
// load to turn a stored token back into a user record.
func (a *Auth) CurrentUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID format")
		return
	}

	user, err := a.users.FindByID(id)
	if err != nil {
		respondServerError(w, "current user lookup failed", err)
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respond(w, http.StatusOK, userResponse{Success: true, User: user})
}
