package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"telegram-profile-bridge/internal/domain"
	"telegram-profile-bridge/internal/domain/model"
	"telegram-profile-bridge/internal/infra/logging"
	"telegram-profile-bridge/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler serves the JSON API on top of the use cases.
type Handler struct {
	profiles      usecase.ProfileUseCase
	notifications usecase.NotificationUseCase
	storage       usecase.StorageUseCase
	chats         usecase.ChatUseCase
	now           func() time.Time
	log           *zerolog.Logger
}

func NewHandler(
	profiles usecase.ProfileUseCase,
	notifications usecase.NotificationUseCase,
	storage usecase.StorageUseCase,
	chats usecase.ChatUseCase,
	logger *zerolog.Logger,
) *Handler {
	return &Handler{
		profiles:      profiles,
		notifications: notifications,
		storage:       storage,
		chats:         chats,
		now:           time.Now,
		log:           logger,
	}
}

// Endpoints is the route listing served by the banner.
var Endpoints = map[string]string{
	"auth":          "POST /api/auth/telegram",
	"profile":       "GET /api/profile/:id",
	"upload":        "POST /api/pinata/upload",
	"getData":       "GET /api/pinata/data/:hash",
	"progress":      "POST /api/progress",
	"notifications": "POST /api/notifications",
	"health":        "GET /api/health",
	"telegramChat":  "GET /api/telegram/chat/:id",
}

func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Server is running!",
		"endpoints": Endpoints,
		"timestamp": h.now().UTC(),
	})
}

type authRequest struct {
	ID        model.UserID `json:"id"`
	FirstName string       `json:"first_name"`
	LastName  string       `json:"last_name"`
	Username  string       `json:"username"`
	PhotoURL  string       `json:"photo_url"`
	Avatar    string       `json:"avatar"`
}

type profileResponse struct {
	Success bool           `json:"success"`
	Profile *model.Profile `json:"profile"`
}

func (h *Handler) AuthTelegram(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if req.ID.IsZero() {
		writeError(w, http.StatusBadRequest, "No Telegram user id")
		return
	}
	photo := req.PhotoURL
	if photo == "" {
		photo = req.Avatar
	}

	ctx := logging.WithTgID(r.Context(), req.ID.String())
	p, err := h.profiles.Authenticate(ctx, usecase.AuthInput{
		ID:        req.ID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		PhotoURL:  photo,
	})
	if err != nil {
		h.internalError(w, r, err, "authenticate failed")
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Success: true, Profile: p})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Profile not found")
		return
	}
	p, err := h.profiles.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		h.internalError(w, r, err, "profile lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type progressRequest struct {
	ID model.UserID `json:"id"`
	model.Progress
}

func (h *Handler) Progress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	ctx := logging.WithTgID(r.Context(), req.ID.String())
	p, err := h.profiles.RecordProgress(ctx, req.ID, req.Progress)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, "Unknown user")
			return
		}
		h.internalError(w, r, err, "progress update failed")
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{Success: true, Profile: p})
}

type notificationRequest struct {
	TelegramID   model.UserID              `json:"telegramId"`
	Message      string                    `json:"message"`
	ActivityType string                    `json:"activityType"`
	UserData     *usecase.NotificationUser `json:"userData"`
	Metadata     json.RawMessage           `json:"metadata"`
}

type notificationResponse struct {
	Success        bool      `json:"success"`
	Received       bool      `json:"received"`
	Timestamp      time.Time `json:"timestamp"`
	NotificationID string    `json:"notificationId"`
	Message        string    `json:"message"`
}

type notificationFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Notifications is fire-and-forget: unknown senders are acknowledged too,
// and only internal failures produce an error status.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	ctx := logging.WithTgID(r.Context(), req.TelegramID.String())
	receipt, err := h.notifications.Ingest(ctx, usecase.NotificationInput{
		TelegramID:   req.TelegramID,
		Message:      req.Message,
		ActivityType: req.ActivityType,
		UserData:     req.UserData,
		Metadata:     req.Metadata,
	})
	if err != nil {
		l := logging.With(ctx, h.log)
		l.Error().Err(err).Msg("error processing notification")
		writeJSON(w, http.StatusInternalServerError, notificationFailure{
			Success: false,
			Error:   "Internal server error",
			Message: "failed to process notification",
		})
		return
	}
	writeJSON(w, http.StatusOK, notificationResponse{
		Success:        true,
		Received:       true,
		Timestamp:      receipt.Timestamp,
		NotificationID: receipt.ID,
		Message:        "Notification processed successfully",
	})
}

type uploadRequest struct {
	FileBase64 string `json:"fileBase64"`
	FileName   string `json:"fileName"`
	FileType   string `json:"fileType"`
}

type uploadResponse struct {
	IpfsHash string `json:"ipfsHash"`
}

func (h *Handler) PinataUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	if strings.TrimSpace(req.FileBase64) == "" {
		writeError(w, http.StatusBadRequest, "No file")
		return
	}
	hash, err := h.storage.Upload(r.Context(), usecase.UploadInput{
		FileBase64: req.FileBase64,
		FileName:   req.FileName,
		FileType:   req.FileType,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, "Invalid file encoding")
			return
		}
		// detail was logged by the use case
		writeError(w, http.StatusInternalServerError, "Pinata upload failed")
		return
	}
	writeJSON(w, http.StatusOK, uploadResponse{IpfsHash: hash})
}

func (h *Handler) PinataData(w http.ResponseWriter, r *http.Request) {
	data, err := h.storage.Fetch(r.Context(), chi.URLParam(r, "hash"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch from Pinata")
		return
	}
	writeRawJSON(w, http.StatusOK, data)
}

func (h *Handler) TelegramChat(w http.ResponseWriter, r *http.Request) {
	id, err := model.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid chat id")
		return
	}
	info, err := h.chats.Lookup(r.Context(), id)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, info)
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "Invalid chat id")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Chat not found")
	case errors.Is(err, domain.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "Telegram bot is not configured")
	default:
		writeError(w, http.StatusInternalServerError, "Failed to fetch from Telegram")
	}
}

type healthResponse struct {
	Status        string    `json:"status"`
	Timestamp     time.Time `json:"timestamp"`
	ProfilesCount int       `json:"profilesCount"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	n, err := h.profiles.Count(r.Context())
	if err != nil {
		h.internalError(w, r, err, "profile count failed")
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "OK", Timestamp: h.now().UTC(), ProfilesCount: n})
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not found")
}

func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	l := logging.With(r.Context(), h.log)
	l.Error().Err(err).Msg(msg)
	writeError(w, http.StatusInternalServerError, "internal error")
}
