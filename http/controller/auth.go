package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/bqtran/filevault/config"
	"github.com/bqtran/filevault/infra"
	"github.com/bqtran/filevault/utils"
	"github.com/gin-gonic/gin"
)

// FailureLimiter is the slice of the rate-limit store the login path needs.
type FailureLimiter interface {
	GetInt64(ctx context.Context, key string) (int64, error)
	Increment(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type loginStatus int

const (
	loginAccepted loginStatus = iota
	loginRejected
	loginLocked
)

func (ctrl *Controller) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (ctrl *Controller) Login(c *gin.Context) {
	ctx := c.Request.Context()

	switch evaluateLogin(ctx, ctrl.Infra.Redis, ctrl.Infra.Logger, ctrl.Config.EnvConfig, c.ClientIP(), c.PostForm("password")) {
	case loginLocked:
		utils.JSON429(c, "Too many failed attempts, try again later")
	case loginAccepted:
		c.Redirect(http.StatusSeeOther, "/files")
	default:
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Error": "Please check the access password.",
		})
	}
}

// evaluateLogin checks the per-IP failure counter before the password, so a
// locked-out caller cannot probe the password at all. The counter expires on
// its own; a successful login clears it early.
func evaluateLogin(ctx context.Context, limiter FailureLimiter, logger *infra.LoggerClient, cfg *config.EnvConfig, clientIP, password string) loginStatus {
	failKey := "login:fail:" + clientIP

	failures, err := limiter.GetInt64(ctx, failKey)
	if err != nil {
		logger.ErrorWithContextf(ctx, err, "[Auth] Failed to read login failure count: %v", err)
		// Limiter unavailable; fall through to the password check itself
	}
	if failures >= cfg.Auth.MaxLoginFailures {
		logger.WarningWithContextf(ctx, "[Auth] Login locked out for %s after %d failures", clientIP, failures)
		return loginLocked
	}

	if cfg.Auth.AccessPassword != "" && utils.SecureCompare(password, cfg.Auth.AccessPassword) {
		_ = limiter.Delete(ctx, failKey)
		logger.InfoWithContextf(ctx, "[Auth] Successful login from %s", clientIP)
		return loginAccepted
	}

	count, err := limiter.Increment(ctx, failKey)
	if err != nil {
		logger.ErrorWithContextf(ctx, err, "[Auth] Failed to record login failure: %v", err)
	} else if count == 1 {
		lockout := time.Duration(cfg.Auth.LockoutMinutes) * time.Minute
		_ = limiter.Expire(ctx, failKey, lockout)
	}

	logger.WarningWithContextf(ctx, "[Auth] Failed login attempt from %s", clientIP)
	return loginRejected
}

func (ctrl *Controller) Logout(c *gin.Context) {
	// No session state to tear down; redirect back to the login page
	c.Redirect(http.StatusSeeOther, "/")
}
