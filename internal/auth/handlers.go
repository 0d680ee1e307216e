package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/readease/readease/internal/session"
)

// Controller handles the authentication endpoints. Login and sign-up are the
// only flows that surface error messages to the user; everything else in the
// core degrades silently.
type Controller struct {
	service  *Service
	sessions *SessionManager
	current  *session.Context
}

// NewController creates the auth controller. The session context is the
// process-wide identity holder the stores are scoped by; login and logout
// keep it in sync with the cookie session.
func NewController(service *Service, sessions *SessionManager, current *session.Context) *Controller {
	return &Controller{
		service:  service,
		sessions: sessions,
		current:  current,
	}
}

// RegisterRoutes registers the auth routes on the router.
func (ac *Controller) RegisterRoutes(router *gin.Engine) {
	router.POST("/api/auth/signup", ac.SignUp)
	router.POST("/api/auth/login", ac.Login)
	router.POST("/api/auth/logout", ac.Logout)
	router.GET("/api/auth/me", ac.Me)
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signUpRequest struct {
	credentialsRequest
	AvatarURL string `json:"avatar_url"`
}

// SignUp creates an account and signs the new user in. The avatar URL is
// optional profile data; accounts created without one keep it empty.
// POST /api/auth/signup
func (ac *Controller) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	ident, err := ac.service.SignUp(req.Email, req.Password, req.AvatarURL)
	switch {
	case errors.Is(err, ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, ErrEmailRequired),
		errors.Is(err, ErrEmailInvalid),
		errors.Is(err, ErrPasswordRequired),
		errors.Is(err, ErrPasswordTooShort),
		errors.Is(err, ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		log.Printf("auth: sign-up failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
		return
	}

	ac.signIn(c, ident, http.StatusCreated)
}

// Login verifies credentials and starts a session.
// POST /api/auth/login
func (ac *Controller) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	ident, err := ac.service.SignIn(req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Printf("auth: sign-in failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign in"})
		return
	}

	ac.signIn(c, ident, http.StatusOK)
}

func (ac *Controller) signIn(c *gin.Context, ident session.Identity, status int) {
	if err := ac.sessions.CreateSession(c.Request, ident); err != nil {
		log.Printf("auth: create session failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not sign in"})
		return
	}
	ac.current.Set(ident)
	c.JSON(status, ident)
}

// Logout destroys the session and clears the current identity.
// POST /api/auth/logout
func (ac *Controller) Logout(c *gin.Context) {
	if err := ac.sessions.DestroySession(c.Request); err != nil {
		log.Printf("auth: destroy session failed: %v", err)
	}
	ac.current.Clear()
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

// Me returns the identity bound to the request's session.
// GET /api/auth/me
func (ac *Controller) Me(c *gin.Context) {
	ident, ok := ac.sessions.CurrentIdentity(c.Request)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, ident)
}
