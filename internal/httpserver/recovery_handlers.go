package httpserver

import (
	"encoding/json"
	"net/http"

	"dmchat/internal/service"
)

type requestCodeRequest struct {
	Username string `json:"username"`
}

type resetPasswordRequest struct {
	Username    string `json:"username"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

func handleRequestCode(recoverySvc *service.RecoveryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requestCodeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		userID, err := recoverySvc.RequestCode(r.Context(), req.Username)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "recovery code sent to the support chat",
			"user_id": userID,
		})
	}
}

func handleResetPassword(recoverySvc *service.RecoveryService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resetPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}

		if err := recoverySvc.ResetPassword(r.Context(), req.Username, req.Code, req.NewPassword); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "password changed"})
	}
}
