package controllers

import (
	"net/http"

	json "github.com/goccy/go-json"

	apperrors "babylog/internal/errors"
	"babylog/internal/providers"
)

type okResponse struct {
	OK bool `json:"ok"`
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, gson)
}

// writeError translates err into its status and JSON body. Server-side
// failures are logged as errors, client mistakes as warnings.
func writeError(w http.ResponseWriter, r *http.Request, logger providers.Logger, err error) {
	appErr := apperrors.From(err)
	status := appErr.HTTPStatus()
	logType := providers.GetLogTypeByRequestType(r.Method)
	if status >= http.StatusInternalServerError {
		logger.Errorf(logType, "%s %s: %v", r.Method, r.URL.Path, err)
	} else {
		logger.Warnf(logType, "%s %s: %s", r.Method, r.URL.Path, appErr.Message)
	}
	writeJSON(w, status, appErr)
}
