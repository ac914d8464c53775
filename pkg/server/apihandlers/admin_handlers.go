package apihandlers

import (
	"net/http"

	"github.com/gantapp/gant/pkg/server/handlertools"
	"github.com/gantapp/gant/pkg/tasks"
)

// TriggerIngestHandler runs one ingest cycle synchronously and returns
// its report. Concurrent triggers are rejected by the ingestor itself.
func TriggerIngestHandler(ingestor *tasks.Ingestor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := ingestor.RunOnce(r.Context())
		if err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
			return
		}
		if err := handlertools.EncodeJSON(w, report); err != nil {
			handlertools.RenderError(w, err, http.StatusInternalServerError)
		}
	}
}
