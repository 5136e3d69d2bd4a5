package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vrisa/alertengine/internal/api/dto"
	"github.com/vrisa/alertengine/internal/domain/threshold"
	"github.com/vrisa/alertengine/internal/pkg/errors"
	"github.com/vrisa/alertengine/internal/pkg/logger"
	"github.com/vrisa/alertengine/internal/pkg/utils"
	"github.com/vrisa/alertengine/internal/pkg/validator"
)

type ThresholdHandler struct {
	service   threshold.Service
	logger    *logger.Logger
	validator *validator.Validator
}

func NewThresholdHandler(service threshold.Service, log *logger.Logger, val *validator.Validator) *ThresholdHandler {
	return &ThresholdHandler{service: service, logger: log, validator: val}
}

// List returns every configured threshold
// @Summary List thresholds
// @Tags Thresholds
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]dto.ThresholdDTO} "Thresholds"
// @Failure 500 {object} utils.ErrorResponse "Storage failure"
// @Router /thresholds [get]
func (h *ThresholdHandler) List(w http.ResponseWriter, r *http.Request) {
	ts, err := h.service.List(r.Context())
	if err != nil {
		writeAppError(w, h.logger, err, "Failed to list thresholds")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.ToThresholdDTOs(ts))
}

// Get returns the tiers for one variable
// @Summary Get threshold
// @Tags Thresholds
// @Produce json
// @Param variableID path string true "Variable ID, e.g. PM25"
// @Success 200 {object} utils.SuccessResponse{data=dto.ThresholdDTO} "Threshold"
// @Failure 404 {object} utils.ErrorResponse "No threshold configured"
// @Failure 500 {object} utils.ErrorResponse "Storage failure"
// @Router /thresholds/{variableID} [get]
func (h *ThresholdHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.Get(r.Context(), chi.URLParam(r, "variableID"))
	if err != nil {
		writeAppError(w, h.logger, err, "Failed to get threshold")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.ToThresholdDTO(t))
}

// Set creates or replaces the tiers for a variable
// @Summary Set threshold
// @Description Create or replace the severity tiers for a variable. At least one tier is required.
// @Tags Thresholds
// @Accept json
// @Produce json
// @Param variableID path string true "Variable ID, e.g. PM25"
// @Param request body dto.SetThresholdRequest true "Tiers"
// @Success 200 {object} utils.SuccessResponse{data=dto.ThresholdDTO} "Saved threshold"
// @Failure 400 {object} utils.ErrorResponse "Invalid input"
// @Failure 500 {object} utils.ErrorResponse "Storage failure"
// @Router /thresholds/{variableID} [put]
func (h *ThresholdHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req dto.SetThresholdRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, h.logger, err, "Invalid request body")
		return
	}

	if errs := h.validator.Validate(req); len(errs) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", errs))
		return
	}

	t, err := h.service.Set(r.Context(), req.ToThreshold(chi.URLParam(r, "variableID")))
	if err != nil {
		writeAppError(w, h.logger, err, "Failed to save threshold")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.ToThresholdDTO(t))
}
