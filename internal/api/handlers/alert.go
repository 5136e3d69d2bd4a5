package handlers

import (
	"net/http"

	"github.com/vrisa/alertengine/internal/api/dto"
	"github.com/vrisa/alertengine/internal/domain/alert"
	"github.com/vrisa/alertengine/internal/pkg/logger"
	"github.com/vrisa/alertengine/internal/pkg/utils"
)

type AlertHandler struct {
	service alert.Service
	logger  *logger.Logger
}

func NewAlertHandler(service alert.Service, log *logger.Logger) *AlertHandler {
	return &AlertHandler{service: service, logger: log}
}

// List returns every alert, newest first
// @Summary List alerts
// @Description Get the alert ledger ordered from newest to oldest
// @Tags Alerts
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]dto.AlertDTO} "List of alerts"
// @Failure 500 {object} utils.ErrorResponse "Storage failure"
// @Router /alerts [get]
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.service.List(r.Context())
	if err != nil {
		writeAppError(w, h.logger, err, "Failed to list alerts")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.ToAlertDTOs(alerts))
}

// Get returns a single alert by ID
// @Summary Get alert by ID
// @Tags Alerts
// @Produce json
// @Param id path int true "Alert ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.AlertDTO} "Alert details"
// @Failure 400 {object} utils.ErrorResponse "Invalid ID"
// @Failure 404 {object} utils.ErrorResponse "Alert not found"
// @Failure 500 {object} utils.ErrorResponse "Storage failure"
// @Router /alerts/{id} [get]
func (h *AlertHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeAppError(w, h.logger, err, "Invalid alert ID")
		return
	}

	a, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeAppError(w, h.logger, err, "Failed to get alert")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.ToAlertDTO(a))
}

// Resolve marks an alert resolved
// @Summary Resolve alert
// @Description Mark an alert resolved. Resolving an already resolved alert returns it unchanged.
// @Tags Alerts
// @Produce json
// @Param id path int true "Alert ID"
// @Success 200 {object} utils.SuccessResponse{data=dto.AlertDTO} "Resolved alert"
// @Failure 400 {object} utils.ErrorResponse "Invalid ID"
// @Failure 404 {object} utils.ErrorResponse "Alert not found"
// @Failure 500 {object} utils.ErrorResponse "Storage failure"
// @Router /alerts/{id}/resolve [put]
func (h *AlertHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeAppError(w, h.logger, err, "Invalid alert ID")
		return
	}

	a, err := h.service.Resolve(r.Context(), id)
	if err != nil {
		writeAppError(w, h.logger, err, "Failed to resolve alert")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.ToAlertDTO(a))
}

// Summary returns unresolved alert counts per severity
// @Summary Active alert summary
// @Tags Alerts
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.AlertSummaryDTO} "Counts"
// @Failure 500 {object} utils.ErrorResponse "Storage failure"
// @Router /alerts/summary [get]
func (h *AlertHandler) Summary(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Summary(r.Context())
	if err != nil {
		writeAppError(w, h.logger, err, "Failed to summarize alerts")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.ToAlertSummaryDTO(counts))
}
