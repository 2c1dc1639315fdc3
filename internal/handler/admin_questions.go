package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jtdaniels/QA3/internal/service"
	"github.com/jtdaniels/QA3/internal/storage"
)

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func RegisterAdminHandlers(mux *http.ServeMux, admin service.AdminService, auth service.AuthService, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}

	mux.HandleFunc("/admin/questions", requireAdmin(auth, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var in storage.QuestionInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				log.Warn("admin create question bad json", zap.Error(err))
				http.Error(w, "bad json", http.StatusBadRequest)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			row, err := admin.CreateQuestion(ctx, in)
			if err != nil {
				log.Warn("admin create question failed", zap.Error(err))
				http.Error(w, err.Error(), statusFor(err))
				return
			}

			log.Info("question created", zap.Int64("id", row.ID), zap.String("category", row.Category))
			_ = json.NewEncoder(w).Encode(row)

		case http.MethodGet:
			category := r.URL.Query().Get("category")

			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			rows, err := admin.ListQuestions(ctx, category)
			if err != nil {
				log.Error("admin list questions failed", zap.Error(err))
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}

			log.Info("questions listed", zap.String("category", category), zap.Int("count", len(rows)))
			_ = json.NewEncoder(w).Encode(rows)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.HandleFunc("/admin/questions/", requireAdmin(auth, func(w http.ResponseWriter, r *http.Request) {
		idStr := strings.TrimSpace(strings.TrimPrefix(r.URL.Path, "/admin/questions/"))
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil || id <= 0 {
			log.Warn("admin bad question id", zap.String("id", idStr))
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		switch r.Method {
		case http.MethodPut:
			var in storage.QuestionInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				log.Warn("admin update question bad json", zap.Int64("id", id), zap.Error(err))
				http.Error(w, "bad json", http.StatusBadRequest)
				return
			}

			row, err := admin.UpdateQuestion(ctx, id, in)
			if err != nil {
				log.Warn("admin update question failed", zap.Int64("id", id), zap.Error(err))
				http.Error(w, err.Error(), statusFor(err))
				return
			}

			log.Info("question updated", zap.Int64("id", id))
			_ = json.NewEncoder(w).Encode(row)

		case http.MethodDelete:
			if err := admin.DeleteQuestion(ctx, id); err != nil {
				log.Warn("admin delete question failed", zap.Int64("id", id), zap.Error(err))
				http.Error(w, err.Error(), statusFor(err))
				return
			}

			log.Info("question deleted", zap.Int64("id", id))
			w.WriteHeader(http.StatusNoContent)

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}))

	mux.HandleFunc("/admin/categories", requireAdmin(auth, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		cats, err := admin.ListCategories(ctx)
		if err != nil {
			log.Error("admin list categories failed", zap.Error(err))
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(cats)
	}))

	mux.HandleFunc("/auth/password", requireAdmin(auth, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req changePasswordReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Warn("change password bad json", zap.Error(err))
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := auth.ChangePassword(ctx, req.CurrentPassword, req.NewPassword); err != nil {
			log.Warn("change password failed", zap.Error(err))
			http.Error(w, err.Error(), statusFor(err))
			return
		}

		log.Info("admin password changed")
		w.WriteHeader(http.StatusNoContent)
	}))
}
