package handlers

import (
	"net/http"

	"github.com/vrisa/alertengine/internal/api/dto"
	"github.com/vrisa/alertengine/internal/api/middleware"
	"github.com/vrisa/alertengine/internal/domain/ingest"
	"github.com/vrisa/alertengine/internal/domain/measurement"
	"github.com/vrisa/alertengine/internal/pkg/logger"
	"github.com/vrisa/alertengine/internal/pkg/utils"
)

type MeasurementHandler struct {
	ingest  ingest.Service
	history measurement.Service
	logger  *logger.Logger
}

func NewMeasurementHandler(ingestSvc ingest.Service, history measurement.Service, log *logger.Logger) *MeasurementHandler {
	return &MeasurementHandler{ingest: ingestSvc, history: history, logger: log}
}

// Create ingests a sensor reading
// @Summary Ingest measurement
// @Description Record a reading and raise an alert when it breaches a threshold and no active alert exists for the station and variable
// @Tags Measurements
// @Accept json
// @Produce json
// @Param request body dto.CreateMeasurementRequest true "Reading"
// @Success 201 {object} utils.SuccessResponse{data=dto.MeasurementDTO} "Recorded measurement"
// @Failure 400 {object} utils.ErrorResponse "Invalid input"
// @Failure 404 {object} utils.ErrorResponse "Unknown sensor"
// @Failure 500 {object} utils.ErrorResponse "Storage failure"
// @Router /measurements [post]
func (h *MeasurementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMeasurementRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, h.logger, err, "Invalid request body")
		return
	}

	result, err := h.ingest.Ingest(r.Context(), req.ToIngestRequest())
	if err != nil {
		writeAppError(w, h.logger, err, "Failed to record measurement")
		return
	}

	middleware.AddLogField(w, "ingest_outcome", string(result.Outcome))
	if result.Alert != nil {
		middleware.AddLogField(w, "alert_id", result.Alert.ID)
	}

	utils.WriteSuccess(w, http.StatusCreated, dto.ToMeasurementDTO(result.Measurement))
}

// ListByStation returns a station's measurements
// @Summary Station measurements
// @Description Measurements recorded at a station, newest first
// @Tags Measurements
// @Produce json
// @Param id path int true "Station ID"
// @Param startDate query string false "Inclusive start (YYYY-MM-DD or RFC3339)"
// @Param endDate query string false "Inclusive end (YYYY-MM-DD or RFC3339)"
// @Param variable_id query string false "Variable filter, e.g. PM25"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 100, max: 1000)"
// @Success 200 {object} utils.SuccessResponse{data=utils.PaginatedResponse{data=[]dto.MeasurementDTO}} "Measurements"
// @Failure 400 {object} utils.ErrorResponse "Invalid filter"
// @Failure 500 {object} utils.ErrorResponse "Storage failure"
// @Router /measurements/station/{id} [get]
func (h *MeasurementHandler) ListByStation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeAppError(w, h.logger, err, "Invalid station ID")
		return
	}

	filter, err := measurementFilter(r)
	if err != nil {
		writeAppError(w, h.logger, err, "Invalid filter")
		return
	}
	filter.StationID = id

	p := utils.ParsePaginationParams(r)
	items, total, err := h.history.ListByStation(r.Context(), filter, p.PageSize, p.Offset)
	if err != nil {
		writeAppError(w, h.logger, err, "Failed to list measurements")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dto.ToMeasurementDTOs(items), p.Page, p.PageSize, int64(total)))
}

// ListBySensor returns a sensor's measurements
// @Summary Sensor measurements
// @Description Measurements recorded by a sensor, newest first
// @Tags Measurements
// @Produce json
// @Param id path int true "Sensor ID"
// @Param startDate query string false "Inclusive start (YYYY-MM-DD or RFC3339)"
// @Param endDate query string false "Inclusive end (YYYY-MM-DD or RFC3339)"
// @Param variable_id query string false "Variable filter"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Page size (default: 100, max: 1000)"
// @Success 200 {object} utils.SuccessResponse{data=utils.PaginatedResponse{data=[]dto.MeasurementDTO}} "Measurements"
// @Failure 400 {object} utils.ErrorResponse "Invalid filter"
// @Failure 500 {object} utils.ErrorResponse "Storage failure"
// @Router /measurements/sensor/{id} [get]
func (h *MeasurementHandler) ListBySensor(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeAppError(w, h.logger, err, "Invalid sensor ID")
		return
	}

	filter, err := measurementFilter(r)
	if err != nil {
		writeAppError(w, h.logger, err, "Invalid filter")
		return
	}
	filter.SensorID = id

	p := utils.ParsePaginationParams(r)
	items, total, err := h.history.ListBySensor(r.Context(), filter, p.PageSize, p.Offset)
	if err != nil {
		writeAppError(w, h.logger, err, "Failed to list measurements")
		return
	}

	utils.WriteSuccess(w, http.StatusOK, utils.NewPaginatedResponse(dto.ToMeasurementDTOs(items), p.Page, p.PageSize, int64(total)))
}

func measurementFilter(r *http.Request) (measurement.Filter, error) {
	q := r.URL.Query()

	start, err := parseDateParam(q.Get("startDate"), false)
	if err != nil {
		return measurement.Filter{}, err
	}
	end, err := parseDateParam(q.Get("endDate"), true)
	if err != nil {
		return measurement.Filter{}, err
	}

	return measurement.Filter{
		VariableID: q.Get("variable_id"),
		Start:      start,
		End:        end,
	}, nil
}
