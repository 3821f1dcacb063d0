package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/careledger/registry/internal/audit"
	"github.com/careledger/registry/internal/registry"
	"github.com/careledger/registry/pkg/logger"
	"github.com/careledger/registry/pkg/types"
)

// Service exposes the registry operations over HTTP. It owns transport
// concerns only: routing, JWT principal extraction, error mapping and
// request metrics. All policy and state live in the registry core.
type Service struct {
	router         *mux.Router
	server         *http.Server
	registry       *registry.Service
	auditIndex     *audit.Indexer
	tokenValidator *TokenValidator
	metrics        *Metrics
	promRegistry   *prometheus.Registry
	logger         *logger.Logger
}

// Config holds the gateway configuration
type Config struct {
	Host         string
	Port         int
	JWTSecret    string
	JWTIssuer    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewService creates a new gateway service
func NewService(config *Config, reg *registry.Service, auditIndex *audit.Indexer, promReg *prometheus.Registry, log *logger.Logger) *Service {
	if promReg == nil {
		promReg = prometheus.NewRegistry()
	}

	s := &Service{
		router:         mux.NewRouter(),
		registry:       reg,
		auditIndex:     auditIndex,
		tokenValidator: NewTokenValidator(config.JWTSecret, config.JWTIssuer),
		metrics:        NewMetrics(promReg),
		promRegistry:   promReg,
		logger:         log,
	}

	s.setupRoutes()
	s.setupMiddleware()

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      s.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	return s
}

// Handler returns the root handler, used by tests
func (s *Service) Handler() http.Handler {
	return s.router
}

// Start starts the gateway server
func (s *Service) Start() error {
	s.logger.WithComponent("gateway").Info("Starting registry gateway on ", s.server.Addr)
	return s.server.ListenAndServe()
}

// Stop stops the gateway server gracefully
func (s *Service) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.WithComponent("gateway").Info("Stopping registry gateway")
	return s.server.Shutdown(ctx)
}

// setupRoutes sets up the routing
func (s *Service) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.Handle("/metrics", promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{})).Methods("GET")

	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/admin/transfer", s.handleTransferAdmin).Methods("POST")

	api.HandleFunc("/doctors", s.handleRegisterDoctor).Methods("POST")
	api.HandleFunc("/doctors/{id:[0-9]+}", s.handleViewDoctor).Methods("GET")
	api.HandleFunc("/doctors/{id:[0-9]+}", s.handleUpdateDoctorDetails).Methods("PUT")
	api.HandleFunc("/doctors/{id:[0-9]+}/certification", s.handleUpdateDoctorCertification).Methods("PUT")
	api.HandleFunc("/doctors/{id:[0-9]+}", s.handleDeactivateDoctor).Methods("DELETE")

	api.HandleFunc("/patients", s.handleRegisterPatient).Methods("POST")
	api.HandleFunc("/patients/{id:[0-9]+}", s.handleViewPatient).Methods("GET")
	api.HandleFunc("/patients/{id:[0-9]+}/diseases", s.handleAddDisease).Methods("POST")
	api.HandleFunc("/patients/{id:[0-9]+}/records", s.handleAddRecord).Methods("POST")
	api.HandleFunc("/patients/{id:[0-9]+}", s.handleDeactivatePatient).Methods("DELETE")
	api.HandleFunc("/patients/{id:[0-9]+}/prescriptions", s.handleViewPrescriptions).Methods("GET")
	api.HandleFunc("/patients/{id:[0-9]+}/prescriptions", s.handlePrescribeMedicine).Methods("POST")

	api.HandleFunc("/medicines", s.handleAddMedicine).Methods("POST")
	api.HandleFunc("/medicines/{id:[0-9]+}", s.handleViewMedicine).Methods("GET")
	api.HandleFunc("/medicines/{id:[0-9]+}", s.handleUpdateMedicine).Methods("PUT")
	api.HandleFunc("/medicines/{id:[0-9]+}", s.handleDeactivateMedicine).Methods("DELETE")

	api.HandleFunc("/assignments", s.handleAssignDoctor).Methods("POST")

	api.HandleFunc("/audit", s.handleQueryAudit).Methods("GET")
}

// setupMiddleware sets up middleware
func (s *Service) setupMiddleware() {
	s.router.Use(s.corsMiddleware)
	s.router.Use(s.securityHeadersMiddleware)
	s.router.Use(s.metricsMiddleware)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.authMiddleware)
}

// writeJSON writes a JSON response body
func (s *Service) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			s.logger.WithError(err).Error("Failed to encode response body")
		}
	}
}

// writeError maps a registry error to its HTTP status and writes the
// error body verbatim
func (s *Service) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := types.CodeOf(err)

	switch code {
	case types.ErrCodeNotFound:
		status = http.StatusNotFound
	case types.ErrCodeAlreadyExists, types.ErrCodeDuplicate, types.ErrCodeNoOp:
		status = http.StatusConflict
	case types.ErrCodeUnauthorized:
		status = http.StatusForbidden
	case types.ErrCodeInvalidInput:
		status = http.StatusBadRequest
	case types.ErrCodeInactive:
		status = http.StatusUnprocessableEntity
	}

	s.writeJSON(w, status, map[string]interface{}{
		"error": err.Error(),
		"code":  string(code),
	})
}

// writeErrorResponse writes a plain transport-level error
func (s *Service) writeErrorResponse(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{"error": message})
}

// handleHealth handles health check requests
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().UTC(),
	})
}
