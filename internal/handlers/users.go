package handlers

import (
	"net/http"

	"bistro-backend/internal/services"
	"bistro-backend/pkg/utils"

	"go.uber.org/zap"
)

// CreateUser creates a staff account. Admin only.
func CreateUser(users *services.UserService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req services.CreateUserInput
		if !decode(w, r, &req) {
			return
		}
		user, err := users.Create(req)
		if err != nil {
			respondErr(w, err)
			return
		}
		logger.Info("user created", zap.String("user_id", user.ID), zap.String("role", user.Role))
		utils.RespondData(w, http.StatusCreated, user.ToUserResponse())
	}
}
