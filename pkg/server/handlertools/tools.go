package handlertools

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/gantapp/gant/internal"
	"github.com/gantapp/gant/pkg/models"
)

var log = internal.GetLogger()

// UserIDHeader carries the caller's identity. Authentication is handled
// upstream; the header value is trusted as an opaque user id.
const UserIDHeader = "X-User-ID"

// IntFromQuery extracts a query string value and converts it to an int
// if it is not empty. If the value is empty, it returns 0.
func IntFromQuery(r *http.Request, param string) (int, error) {
	p := r.URL.Query().Get(param)
	if p == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(p)
	if err != nil {
		return 0, err
	}
	return value, nil
}

// DateFromQuery extracts an ISO date query value. An empty value yields
// a nil time without error.
func DateFromQuery(r *http.Request, param string) (*time.Time, error) {
	p := r.URL.Query().Get(param)
	if p == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", p)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// UserIDFromRequest reads the identity header. Returns uuid.Nil without
// error for anonymous requests; a malformed header is an error.
func UserIDFromRequest(r *http.Request) (uuid.UUID, error) {
	header := r.Header.Get(UserIDHeader)
	if header == "" {
		return uuid.Nil, nil
	}
	userID, err := uuid.Parse(header)
	if err != nil {
		return uuid.Nil, errors.New("invalid " + UserIDHeader + " header")
	}
	return userID, nil
}

// EncodeJSON encodes data into JSON and writes it to the response writer.
func EncodeJSON(w http.ResponseWriter, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(data)
}

// DecodeJSON decodes a JSON request body into the provided data struct.
func DecodeJSON(r *http.Request, data interface{}) error {
	return json.NewDecoder(r.Body).Decode(&data)
}

// RenderError renders an error response.
func RenderError(w http.ResponseWriter, err error, status int) {
	if errors.Is(err, models.ErrNotFound) {
		status = http.StatusNotFound
	}
	if errors.Is(err, models.ErrBadRequest) {
		status = http.StatusBadRequest
	}

	if status != http.StatusNotFound {
		// Don't log not found errors
		log.Error(err)
	}

	http.Error(w, err.Error(), status)
}
