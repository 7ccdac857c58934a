package v1

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/securelayer/sbom-analyzer/pkg/analysis"
	"github.com/securelayer/sbom-analyzer/pkg/etc"
	"github.com/securelayer/sbom-analyzer/pkg/http/api"
	"github.com/securelayer/sbom-analyzer/pkg/pipeline"
)

const (
	pathAPIPrefix   = "/api/v1"
	pathAnalyze     = "/analyze"
	pathMetadata    = "/metadata"
	pathProbeHealth = "/probe/healthy"
)

var analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sbom_analyzer_analyses_total",
	Help: "Total number of analyses served by the API, partitioned by outcome.",
}, []string{"status"})

// AnalyzeRequest identifies the codebase to analyze: a remote repository URL or a
// local directory path. Accepted as a JSON body on POST and as query parameters on GET.
type AnalyzeRequest struct {
	Target string `json:"target" schema:"target"`
}

// AnalyzeResponse pairs the report with its summary; the summary carries an error
// message only when the pipeline terminated abnormally.
type AnalyzeResponse struct {
	Report  analysis.Report  `json:"report"`
	Columns []string         `json:"columns"`
	Summary analysis.Summary `json:"summary"`
}

type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	BuiltAt string `json:"built_at"`
}

type requestHandler struct {
	info       etc.BuildInfo
	controller pipeline.Controller
	decoder    *schema.Decoder
	api.BaseHandler
}

func NewAPIHandler(info etc.BuildInfo, controller pipeline.Controller) http.Handler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	handler := &requestHandler{
		info:       info,
		controller: controller,
		decoder:    decoder,
	}

	router := mux.NewRouter()
	router.Use(logRequest)

	probeRouter := router.PathPrefix("/probe").Subrouter()
	probeRouter.Methods(http.MethodGet).Path("/healthy").HandlerFunc(handler.GetHealthy)

	v1Router := router.PathPrefix(pathAPIPrefix).Subrouter()
	v1Router.Methods(http.MethodPost).Path(pathAnalyze).HandlerFunc(handler.AcceptAnalyzeRequest)
	v1Router.Methods(http.MethodGet).Path(pathAnalyze).HandlerFunc(handler.AcceptAnalyzeQuery)
	v1Router.Methods(http.MethodGet).Path(pathMetadata).HandlerFunc(handler.GetMetadata)

	return router
}

func logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		log.WithFields(log.Fields{
			"method": req.Method,
			"path":   req.URL.Path,
		}).Trace("Handling request")
		next.ServeHTTP(res, req)
	})
}

func (h *requestHandler) AcceptAnalyzeRequest(res http.ResponseWriter, req *http.Request) {
	analyzeRequest := AnalyzeRequest{}
	if err := json.NewDecoder(req.Body).Decode(&analyzeRequest); err != nil {
		log.WithError(err).Error("Error while unmarshalling analyze request")
		h.WriteJSONError(res, api.Error{
			HTTPCode: http.StatusBadRequest,
			Message:  fmt.Sprintf("unmarshalling analyze request: %s", err.Error()),
		})
		return
	}

	h.analyze(res, req, analyzeRequest)
}

func (h *requestHandler) AcceptAnalyzeQuery(res http.ResponseWriter, req *http.Request) {
	analyzeRequest := AnalyzeRequest{}
	if err := h.decoder.Decode(&analyzeRequest, req.URL.Query()); err != nil {
		log.WithError(err).Error("Error while decoding analyze query")
		h.WriteJSONError(res, api.Error{
			HTTPCode: http.StatusBadRequest,
			Message:  fmt.Sprintf("decoding analyze query: %s", err.Error()),
		})
		return
	}

	h.analyze(res, req, analyzeRequest)
}

func (h *requestHandler) analyze(res http.ResponseWriter, req *http.Request, analyzeRequest AnalyzeRequest) {
	if analyzeRequest.Target == "" {
		h.WriteJSONError(res, api.Error{
			HTTPCode: http.StatusUnprocessableEntity,
			Message:  "missing target",
		})
		return
	}

	report, summary := h.controller.Analyze(req.Context(), analyzeRequest.Target)

	status := "succeeded"
	if summary.Error != "" {
		status = "failed"
	}
	analysesTotal.WithLabelValues(status).Inc()

	h.WriteJSON(res, AnalyzeResponse{
		Report:  report,
		Columns: analysis.Columns(),
		Summary: summary,
	}, http.StatusOK)
}

func (h *requestHandler) GetMetadata(res http.ResponseWriter, _ *http.Request) {
	h.WriteJSON(res, Metadata{
		Name:    "sbom-analyzer",
		Version: h.info.Version,
		Commit:  h.info.Commit,
		BuiltAt: h.info.Date,
	}, http.StatusOK)
}

func (h *requestHandler) GetHealthy(res http.ResponseWriter, _ *http.Request) {
	res.WriteHeader(http.StatusOK)
}
