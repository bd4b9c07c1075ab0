package settings

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/backofhouse/backofhouse/internal/rest"
	log "github.com/sirupsen/logrus"
)

type SettingsDTO struct {
	Timezone     string `json:"timezone"`
	WeekFirstDay int    `json:"weekFirstDay"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetSettings godoc
// @Summary Get company settings
// @Description Retrieve the company timezone and calendar preferences
// @Tags Settings
// @Produce json
// @Success 200 {object} SettingsDTO
// @Router /api/settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	current, err := h.service.Get(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := json.NewEncoder(w).Encode(settingsToDTO(current)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// UpdateSettings godoc
// @Summary Update company settings
// @Description Store the company timezone and calendar preferences
// @Tags Settings
// @Accept json
// @Produce json
// @Success 200 {object} SettingsDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid timezone"
// @Router /api/settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var dto SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	updated, err := h.service.Update(r.Context(), Settings{
		Timezone:     dto.Timezone,
		WeekFirstDay: time.Weekday(dto.WeekFirstDay),
	})
	if err != nil {
		log.Warnf("rejected settings update: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error:   "Invalid settings",
			Details: err.Error(),
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	if err := json.NewEncoder(w).Encode(settingsToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func settingsToDTO(s Settings) SettingsDTO {
	return SettingsDTO{
		Timezone:     s.Timezone,
		WeekFirstDay: int(s.WeekFirstDay),
	}
}
