package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tnqbao/gau-video-service/http/controller/dto"
	"github.com/tnqbao/gau-video-service/service"
	"github.com/tnqbao/gau-video-service/utils"
)

func (ctrl *Controller) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.RegisterRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Auth] Failed to bind register payload: %v", err)
		utils.JSON400(c, "Email and password are required")
		return
	}

	account, err := ctrl.Service.Account.Register(ctx, req.Email, req.Password)
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			utils.JSON400(c, validationErr.Reason)
		case errors.Is(err, service.ErrAlreadyRegistered):
			ctrl.Infra.Logger.WarningWithContextf(ctx, "[Auth] Email already registered")
			utils.JSON400(c, "User already registered")
		default:
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Registration error: %v", err)
			utils.JSON500(c, "Failed to register user")
		}
		return
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Auth] Registered account %s", account.ID)
	utils.JSON201(c, gin.H{"message": "User registered successfully"})
}

func (ctrl *Controller) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSON400(c, "Email and password are required")
		return
	}

	account, err := ctrl.Service.Account.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		var validationErr *service.ValidationError
		switch {
		case errors.As(err, &validationErr):
			utils.JSON400(c, validationErr.Reason)
		case errors.Is(err, service.ErrInvalidCredentials):
			utils.JSON401(c, "Invalid email or password")
		default:
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Login error: %v", err)
			utils.JSON500(c, "Failed to login")
		}
		return
	}

	env := ctrl.Config.EnvConfig
	token, err := utils.GenerateToken(account.ID, account.Email, env)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to sign session token: %v", err)
		utils.JSON500(c, "Failed to login")
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("access_token", token, env.JWT.Expire, "/", env.CORS.GlobalDomain, env.Environment.Mode == "production", true)

	utils.JSON200(c, dto.LoginResponseDTO{
		Message:     "Login successful",
		AccessToken: token,
		ExpiresIn:   env.JWT.Expire,
	})
}

func (ctrl *Controller) Me(c *gin.Context) {
	ctx := c.Request.Context()

	account, err := ctrl.Service.Account.GetByID(ctx, c.GetString("user_id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			utils.JSON401(c, "Unauthorized")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Auth] Failed to load account: %v", err)
		utils.JSON500(c, "Failed to load account")
		return
	}

	utils.JSON200(c, dto.AccountResponseDTO{
		ID:        account.ID,
		Email:     account.Email,
		CreatedAt: account.CreatedAt.Format(time.RFC3339),
	})
}

// GetUploadAuth returns a freshly signed tuple for one direct CDN upload.
func (ctrl *Controller) GetUploadAuth(c *gin.Context) {
	ctx := c.Request.Context()

	auth, err := ctrl.Service.UploadAuth.Issue(ctx)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Upload Auth] Failed to issue upload authorization: %v", err)
		utils.JSON500(c, "Authentication for upload failed")
		return
	}

	c.Header("Cache-Control", "no-store")
	utils.JSON200(c, auth)
}
