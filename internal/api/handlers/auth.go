package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rohits-web03/innerself/internal/api/middleware"
	"github.com/rohits-web03/innerself/internal/apperr"
	"github.com/rohits-web03/innerself/internal/models"
	"github.com/rohits-web03/innerself/internal/repositories"
	"golang.org/x/oauth2"
)

const (
	GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	stateCookie       = "oauth_state"
)

type TokenIssuer interface {
	Issue(userID uuid.UUID) (string, error)
}

// AuthSession is what signup and login return.
type AuthSession struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AuthHandler struct {
	users       *repositories.UserRepository
	tokens      TokenIssuer
	log         *slog.Logger
	google      *oauth2.Config
	userInfoURL string
	clientURL   string
	secure      bool
}

type AuthOptions struct {
	// Google is nil when Google sign-in is not configured.
	Google      *oauth2.Config
	UserInfoURL string
	ClientURL   string
	// SecureCookies marks the OAuth state cookie Secure.
	SecureCookies bool
}

func NewAuthHandler(users *repositories.UserRepository, tokens TokenIssuer, log *slog.Logger, opts AuthOptions) *AuthHandler {
	if opts.UserInfoURL == "" {
		opts.UserInfoURL = GoogleUserInfoURL
	}
	return &AuthHandler{
		users:       users,
		tokens:      tokens,
		log:         log,
		google:      opts.Google,
		userInfoURL: opts.UserInfoURL,
		clientURL:   strings.TrimRight(opts.ClientURL, "/"),
		secure:      opts.SecureCookies,
	}
}

// POST /api/auth/signup
// Signup godoc
// @Summary Create an account
// @Description Registers a user and returns a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body repositories.NewUser true "Account details"
// @Success 201 {object} utils.Payload{data=AuthSession}
// @Failure 400 {object} utils.Payload "Missing fields, short password, or taken email/username"
// @Router /api/auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input repositories.NewUser
	if !decode(w, r, &input) {
		return
	}

	user, err := h.users.Create(r.Context(), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	h.log.Info("user signed up", "user_id", user.ID)
	respond(w, http.StatusCreated, "User created successfully", AuthSession{Token: token, User: user})
}

// POST /api/auth/login
// Login godoc
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload{data=AuthSession}
// @Failure 400 {object} utils.Payload "Missing username or password"
// @Failure 401 {object} utils.Payload "Invalid username or password"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decode(w, r, &input) {
		return
	}

	user, err := h.users.Authenticate(r.Context(), input.Username, input.Password)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	respond(w, http.StatusOK, "Login successful", AuthSession{Token: token, User: user})
}

// POST /api/auth/logout
// Tokens are stateless, so there is nothing to revoke server side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, "Logged out successfully", nil)
}

// GET /api/auth/me
// Me godoc
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=models.User}
// @Failure 401 {object} utils.Payload
// @Router /api/auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		respondError(w, r, h.log, apperr.Auth("Token is not valid"))
		return
	}
	respond(w, http.StatusOK, "User retrieved successfully", user)
}

// PUT /api/auth/profile
// UpdateProfile godoc
// @Summary Update profile fields
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body repositories.ProfilePatch true "Fields to change"
// @Success 200 {object} utils.Payload{data=models.User}
// @Failure 400 {object} utils.Payload "Invalid or conflicting values"
// @Router /api/auth/profile [put]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var patch repositories.ProfilePatch
	if !decode(w, r, &patch) {
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), ownerID(r), patch)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Profile updated successfully", user)
}

// PUT /api/auth/change-password
// ChangePassword godoc
// @Summary Change password
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload "Missing fields, short password, or wrong current password"
// @Router /api/auth/change-password [put]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if !decode(w, r, &input) {
		return
	}

	if err := h.users.ChangePassword(r.Context(), ownerID(r), input.CurrentPassword, input.NewPassword); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Password changed successfully", nil)
}

// GET /api/auth/google/login
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		respondError(w, r, h.log, apperr.Unavailable("Google sign-in is not configured"))
		return
	}

	redirectType := r.URL.Query().Get("redirect") // "login" or "register"
	if redirectType == "" {
		redirectType = "login"
	}

	state, err := GenerateState(map[string]string{"flow": redirectType})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/api/auth/google",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.google.AuthCodeURL(state), http.StatusTemporaryRedirect)
}

// GET /api/auth/google/callback
// Redirects to the client with the session token in the URL fragment, or
// with an error query parameter.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.google == nil {
		respondError(w, r, h.log, apperr.Unavailable("Google sign-in is not configured"))
		return
	}

	state := r.FormValue("state")
	cookie, err := r.Cookie(stateCookie)
	if err != nil || state == "" || cookie.Value != state {
		h.failOAuth(w, r, "invalid_state", err)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/api/auth/google", MaxAge: -1})

	stateData, err := DecodeState(state)
	if err != nil {
		h.failOAuth(w, r, "invalid_state", err)
		return
	}
	flowType := stateData["flow"]

	token, err := h.google.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		h.failOAuth(w, r, "exchange_failed", err)
		return
	}

	googleUser, err := h.fetchGoogleUser(r, token)
	if err != nil {
		h.failOAuth(w, r, "userinfo_failed", err)
		return
	}
	// Accounts are linked by email, so only a verified address may claim one.
	if !googleUser.VerifiedEmail {
		h.failOAuth(w, r, "email_unverified", fmt.Errorf("google account %s has an unverified email", googleUser.ID))
		return
	}

	user, created, err := h.users.FindOrCreateExternal(r.Context(), googleUser.Name, googleUser.Email)
	if err != nil {
		h.failOAuth(w, r, "account_failed", err)
		return
	}
	session, err := h.tokens.Issue(user.ID)
	if err != nil {
		h.failOAuth(w, r, "token_failed", err)
		return
	}

	h.log.Info("google sign-in", "user_id", user.ID, "flow", flowType, "created", created)
	fragment := url.Values{"token": {session}, "flow": {flowType}}
	if created {
		fragment.Set("new", "1")
	}
	http.Redirect(w, r, h.clientURL+"/auth/callback#"+fragment.Encode(), http.StatusTemporaryRedirect)
}

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (h *AuthHandler) fetchGoogleUser(r *http.Request, token *oauth2.Token) (*googleUser, error) {
	client := h.google.Client(r.Context(), token)
	resp, err := client.Get(h.userInfoURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}
	var gu googleUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if gu.Email == "" {
		return nil, fmt.Errorf("userinfo without email")
	}
	return &gu, nil
}

func (h *AuthHandler) failOAuth(w http.ResponseWriter, r *http.Request, code string, err error) {
	h.log.Warn("google sign-in failed", "reason", code, "err", err)
	http.Redirect(w, r, h.clientURL+"/login?error="+url.QueryEscape(code), http.StatusTemporaryRedirect)
}
