package services

import (
	"net/http"
	"strings"
	"time"

	"github.com/rebooto/rebooto_api/dto"
	"github.com/rebooto/rebooto_api/model"
	"github.com/rebooto/rebooto_api/shared"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	context.DefaultService

	postgresSvc *PostgresService
	jwtSvc      *JWTService
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.postgresSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	return nil
}

// ==================== REGISTRATION & LOGIN ====================

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to process password")
	}

	user := &model.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Username:     strings.TrimSpace(req.Username),
		PasswordHash: string(passwordHash),
		Role:         model.RoleUser,
		Level:        1,
		IsActive:     true,
	}

	created, err := svc.postgresSvc.CreateUser(user)
	if err != nil {
		if shared.IsConflict(err) {
			return nil, shared.NewConflictError(nil, "Email or username already taken")
		}
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":  created.ID,
		"username": created.Username,
	}).Info("User registered")

	return &dto.RegisterResponse{
		UserID:    created.ID,
		Email:     created.Email,
		Username:  created.Username,
		CreatedAt: created.CreatedAt,
	}, nil
}

func (svc *AuthService) Login(req dto.LoginRequest, clientIP, userAgent string) (*dto.LoginResponse, error) {
	user, err := svc.postgresSvc.GetUserByEmailOrUsername(req.EmailOrUsername)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewUnauthorizedError(nil, "Invalid credentials")
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, shared.NewForbiddenError(nil, "Account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.WithFields(log.Fields{
			"user_id":   user.ID,
			"client_ip": clientIP,
		}).Warn("Failed login attempt")
		return nil, shared.NewUnauthorizedError(nil, "Invalid credentials")
	}

	tokens, err := svc.jwtSvc.GenerateTokenPair(user.ID)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to generate tokens")
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := svc.postgresSvc.UpdateUserFields(user.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("Failed to record login timestamp")
	}

	log.WithFields(log.Fields{
		"user_id":    user.ID,
		"client_ip":  clientIP,
		"user_agent": userAgent,
	}).Info("User logged in")

	return &dto.LoginResponse{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
		TokenPair:   *tokens,
		LastLoginAt: now,
	}, nil
}

// ==================== MIDDLEWARE ====================

func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", err.Error())
		}

		userID, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", "Invalid JWT token")
		}

		if userID == "" {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", "Invalid user ID in token")
		}

		user, err := svc.postgresSvc.GetUser(userID)
		if err != nil {
			return shared.ResponseJSON(c, http.StatusUnauthorized, "Unauthorized", "Unknown user")
		}

		if !user.IsActive {
			return shared.ResponseJSON(c, http.StatusForbidden, "Forbidden", "Account is deactivated")
		}

		c.Locals(shared.UserID, userID)
		c.Locals(shared.UserRole, user.Role)
		return c.Next()
	}
}

func (svc *AuthService) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, _ := c.Locals(shared.UserRole).(string)
		if userRole != role {
			return shared.ResponseJSON(c, http.StatusForbidden, "Forbidden", "Insufficient permissions")
		}
		return c.Next()
	}
}
