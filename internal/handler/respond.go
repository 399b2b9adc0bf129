// Package handler holds the HTTP endpoints behind the role dashboards.
// Every body is the {data, status, message} envelope: status 0 is
// success, status 1 carries a business rejection the dashboard shows
// verbatim. Auth failures are plain 401s handled by the middleware and
// never reach this package.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dineflow-pos/api/internal/service"
)

type envelope struct {
	Data    any    `json:"data"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Data: data, Status: 0, Message: "success"})
}

// respondAppError keeps HTTP 200: the request reached the application
// and was answered; only the envelope status signals the rejection.
func respondAppError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusOK, envelope{Status: 1, Message: msg})
}

// respondError routes an error either into the envelope (business
// rejection) or to a logged 500.
func respondError(w http.ResponseWriter, op string, err error) {
	if service.IsAppError(err) {
		respondAppError(w, err.Error())
		return
	}
	log.Printf("ERROR: %s: %v", op, err)
	writeJSON(w, http.StatusInternalServerError, envelope{Status: 1, Message: "internal server error"})
}

var validate = validator.New()

// validateRequest runs struct validation and returns the first failure
// as a dashboard-ready message, or "" when the request is valid.
func validateRequest(v any) string {
	err := validate.Struct(v)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "required" {
			return fmt.Sprintf("%s is required", fe.Field())
		}
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
	return "invalid request"
}
