package handlers

import (
	"net/http"
	"time"

	"bistro-backend/internal/middleware"
	"bistro-backend/internal/models"
	"bistro-backend/internal/services"
	"bistro-backend/pkg/utils"

	"go.uber.org/zap"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	OK    bool                 `json:"ok"`
	Token string               `json:"token,omitempty"`
	User  *models.UserResponse `json:"user,omitempty"`
}

func Login(users *services.UserService, jwtSecret string, ttl time.Duration, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decode(w, r, &req) {
			return
		}

		user, err := users.Authenticate(req.Email, req.Password)
		if err != nil {
			logger.Info("login rejected", zap.String("email", req.Email))
			utils.RespondJSON(w, http.StatusUnauthorized, LoginResponse{OK: false})
			return
		}

		token, err := middleware.IssueToken(jwtSecret, user, ttl)
		if err != nil {
			logger.Error("failed to sign token", zap.Error(err))
			utils.RespondError(w, http.StatusInternalServerError, "Failed to create token")
			return
		}

		resp := user.ToUserResponse()
		logger.Info("login successful", zap.String("user_id", user.ID), zap.String("role", user.Role))
		utils.RespondJSON(w, http.StatusOK, LoginResponse{OK: true, Token: token, User: &resp})
	}
}

// GetAuthStatus returns the account behind the bearer token
func GetAuthStatus(users *services.UserService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetUserFromContext(r)
		if !ok {
			utils.RespondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		user, err := users.Get(claims.UserID)
		if err != nil {
			respondErr(w, err)
			return
		}
		utils.RespondData(w, http.StatusOK, user.ToUserResponse())
	}
}
