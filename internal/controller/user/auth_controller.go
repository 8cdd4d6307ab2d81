package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/examprep/config"
	"github.com/lshigami/examprep/internal/controller"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/middleware"
	"github.com/lshigami/examprep/internal/service"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	authService  service.AuthService
	cookieName   string
	cookieSecure bool
}

func NewAuthController(authService service.AuthService, cfg *config.Config) *AuthController {
	return &AuthController{
		authService:  authService,
		cookieName:   cfg.Auth.CookieName,
		cookieSecure: cfg.Auth.CookieSecure,
	}
}

func (c *AuthController) setSession(ctx *gin.Context, token string, maxAge int) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.cookieName, token, maxAge, "/", "", c.cookieSecure, true)
}

// Register godoc
// @Summary Create an account
// @Tags Auth
// @Accept json
// @Produce json
// @Param account body dto.RegisterRequest true "Email, password and optional username"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Email or username taken"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	resp, err := c.authService.Register(req)
	if err != nil {
		controller.Fail(ctx, "Register", err)
		return
	}
	c.setSession(ctx, resp.Token, int(c.authService.TokenTTL().Seconds()))
	log.Info().Uint("userID", resp.User.ID).Msg("User registered")
	ctx.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Sign in with email or username
// @Description Returns a JWT and also sets it as an HttpOnly cookie.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Login and password"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	resp, err := c.authService.Login(req)
	if err != nil {
		controller.Fail(ctx, "Login", err)
		return
	}
	c.setSession(ctx, resp.Token, int(c.authService.TokenTTL().Seconds()))
	ctx.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	c.setSession(ctx, "", -1)
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "logged out"})
}

// Profile godoc
// @Summary Current user
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse "Not signed in"
// @Router /auth/me [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	profile, err := c.authService.Profile(middleware.UserID(ctx))
	if err != nil {
		controller.Fail(ctx, "Profile", err)
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param passwords body dto.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} dto.ErrorResponse "Old password is wrong"
// @Router /auth/password [put]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controller.BadRequest(ctx, "Invalid request body", err)
		return
	}
	if err := c.authService.ChangePassword(middleware.UserID(ctx), req); err != nil {
		controller.Fail(ctx, "ChangePassword", err)
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "password updated"})
}
