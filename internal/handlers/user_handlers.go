package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"duochat/internal/auth"
	"duochat/internal/config"
	"duochat/internal/database"
	"duochat/internal/models"
	"duochat/pkg/logger"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

var allowedAvatarTypes = []string{"image/jpeg", "image/png", "image/gif"}

type UserHandlers struct {
	authService *auth.Service
	db          database.UserRepository
	cfg         *config.Config
}

func NewUserHandlers(authService *auth.Service, db database.UserRepository, cfg *config.Config) *UserHandlers {
	return &UserHandlers{
		authService: authService,
		db:          db,
		cfg:         cfg,
	}
}

// ListUsers returns every user except the caller, projected down to the
// fields the contact list needs.
func (h *UserHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, err := userFromRequest(r.Context(), h.authService, r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	users, err := h.db.GetAllUsers(r.Context())
	if err != nil {
		logger.Error("List users error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	summaries := lo.FilterMap(users, func(u *models.User, _ int) (models.UserSummary, bool) {
		if u.ID == user.ID {
			return models.UserSummary{}, false
		}
		return models.UserSummary{
			ID:        u.ID,
			Username:  u.Username,
			IsOnline:  u.IsOnline,
			AvatarURL: u.AvatarURL,
		}, true
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}

// UpdateAvatar accepts a multipart upload, sniffs the actual content type
// and stores the file under a generated name before updating the user row.
func (h *UserHandlers) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	user, err := userFromRequest(r.Context(), h.authService, r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Upload.MaxBytes)
	if err := r.ParseMultipartForm(h.cfg.Upload.MaxBytes); err != nil {
		http.Error(w, "file too large or invalid form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("avatar")
	if err != nil {
		http.Error(w, "no file uploaded", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	// Trust the bytes, not the client's Content-Type header.
	mtype := mimetype.Detect(data)
	if !lo.Contains(allowedAvatarTypes, mtype.String()) {
		http.Error(w, "invalid file type, only JPEG, PNG and GIF are allowed", http.StatusBadRequest)
		return
	}

	if err := os.MkdirAll(h.cfg.Upload.Dir, 0o755); err != nil {
		logger.Error("Failed to create upload dir: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	filename := uuid.NewString() + mtype.Extension()
	if err := os.WriteFile(filepath.Join(h.cfg.Upload.Dir, filename), data, 0o644); err != nil {
		logger.Error("Failed to store avatar: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	updated, err := h.db.UpdateUserAvatar(r.Context(), user.ID, "/uploads/"+filename)
	if err != nil {
		logger.Error("Failed to update avatar for user %d: %v", user.ID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}
