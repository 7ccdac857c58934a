package api

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

const (
	HeaderContentType = "Content-Type"

	MimeTypeJSON = "application/json"
)

// Error holds the information about an error, including metadata about its JSON structure.
type Error struct {
	HTTPCode int    `json:"-"`
	Message  string `json:"message"`
}

type BaseHandler struct {
}

func (h *BaseHandler) WriteJSON(res http.ResponseWriter, data interface{}, statusCode int) {
	res.Header().Set(HeaderContentType, MimeTypeJSON)
	res.WriteHeader(statusCode)

	if err := json.NewEncoder(res).Encode(data); err != nil {
		log.WithError(err).Error("Error while writing JSON")
		h.SendInternalServerError(res)
	}
}

func (h *BaseHandler) WriteJSONError(res http.ResponseWriter, err Error) {
	data := struct {
		Err Error `json:"error"`
	}{err}

	h.WriteJSON(res, data, err.HTTPCode)
}

func (h *BaseHandler) SendInternalServerError(res http.ResponseWriter) {
	http.Error(res, "Internal Server Error", http.StatusInternalServerError)
}
