package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vrisa/alertengine/internal/pkg/errors"
	"github.com/vrisa/alertengine/internal/pkg/logger"
	"github.com/vrisa/alertengine/internal/pkg/utils"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// writeAppError renders err. Errors that are not AppErrors come from storage
// and are reported as STORAGE_FAILURE without their internals.
func writeAppError(w http.ResponseWriter, log *logger.Logger, err error, msg string) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.StorageFailure(msg, err)
	}
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.ErrorWithErr(err, msg)
	}
	utils.WriteError(w, appErr)
}

// decodeJSON decodes a bounded JSON body, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.InvalidInput("Invalid request body")
	}
	return nil
}

// idParam parses a positive integer URL parameter
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.InvalidInput("Invalid " + name)
	}
	return id, nil
}

// storedPrecision is the resolution of persisted measurement timestamps
const storedPrecision = time.Microsecond

// parseDateParam accepts YYYY-MM-DD or RFC3339. A date-only end bound is
// moved to the following midnight so that the whole day is included.
func parseDateParam(value string, endOfRange bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		if endOfRange {
			// End bounds are exclusive downstream and stored timestamps keep
			// microseconds, so the next representable instant is one tick later
			t = t.Truncate(storedPrecision).Add(storedPrecision)
		}
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, errors.InvalidInput("Dates must be YYYY-MM-DD or RFC3339")
	}
	if endOfRange {
		t = t.AddDate(0, 0, 1)
	}
	return &t, nil
}
