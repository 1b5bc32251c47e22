package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	chatservice "vantage/contexts/community-experience/chat-service"
	balanceservice "vantage/contexts/finance-core/balance-service"
	authguard "vantage/contexts/identity-access/authguard"
	authguarderrors "vantage/contexts/identity-access/authguard/domain/errors"
	applicationservice "vantage/contexts/marketplace/application-service"
	campaignservice "vantage/contexts/marketplace/campaign-service"
	submissionservice "vantage/contexts/marketplace/submission-service"
	"vantage/internal/shared/identity"

	_ "vantage/internal/platform/httpserver/docs"
)

type Server struct {
	mux          *http.ServeMux
	handler      http.Handler
	logger       *slog.Logger
	addr         string
	guard        authguard.Module
	campaigns    campaignservice.Module
	applications applicationservice.Module
	submissions  submissionservice.Module
	balances     balanceservice.Module
	chat         chatservice.Module
}

func New(
	guard authguard.Module,
	campaigns campaignservice.Module,
	applications applicationservice.Module,
	submissions submissionservice.Module,
	balances balanceservice.Module,
	chat chatservice.Module,
	allowedOrigins []string,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:          http.NewServeMux(),
		logger:       logger,
		addr:         addr,
		guard:        guard,
		campaigns:    campaigns,
		applications: applications,
		submissions:  submissions,
		balances:     balances,
		chat:         chat,
	}
	s.registerRoutes()
	s.handler = cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-User-Id", "X-Actor-Role"},
		AllowCredentials: true,
	}).Handler(s.mux)
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.handler)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /api/v1/campaigns", s.handleListCampaigns)
	s.mux.HandleFunc("POST /api/v1/campaigns", s.handleCreateCampaign)
	s.mux.HandleFunc("GET /api/v1/campaigns/{campaign_id}", s.handleGetCampaign)
	s.mux.HandleFunc("POST /api/v1/campaigns/{campaign_id}/status", s.handleChangeCampaignStatus)
	s.mux.HandleFunc("POST /api/v1/campaigns/{campaign_id}/favorite", s.handleFavoriteCampaign)
	s.mux.HandleFunc("DELETE /api/v1/campaigns/{campaign_id}/favorite", s.handleUnfavoriteCampaign)

	s.mux.HandleFunc("POST /api/v1/applications", s.handleApply)
	s.mux.HandleFunc("GET /api/v1/applications", s.handleListApplications)
	s.mux.HandleFunc("GET /api/v1/applications/{application_id}", s.handleGetApplication)
	s.mux.HandleFunc("POST /api/v1/applications/{application_id}/status", s.handleTransitionApplication)

	s.mux.HandleFunc("POST /api/v1/submissions", s.handleCreateSubmission)
	s.mux.HandleFunc("GET /api/v1/submissions", s.handleListSubmissions)
	s.mux.HandleFunc("GET /api/v1/submissions/{submission_id}", s.handleGetSubmission)
	s.mux.HandleFunc("POST /api/v1/submissions/{submission_id}/status", s.handleTransitionSubmission)

	s.mux.HandleFunc("GET /api/v1/balances/me", s.handleGetMyBalance)
	s.mux.HandleFunc("POST /api/v1/balances/adjust", s.handleAdjustBalance)

	s.mux.HandleFunc("GET /api/v1/conversations", s.handleListConversations)
	s.mux.HandleFunc("GET /api/v1/conversations/{conversation_id}/messages", s.handleListMessages)
	s.mux.HandleFunc("POST /api/v1/conversations/{conversation_id}/messages", s.handlePostMessage)
}

// resolveActor builds the request Actor once per request. A bearer token
// wins; the X-User-Id header (plus optional X-Actor-Role hint) is the
// fallback for service-to-service calls behind the gateway. An anonymous
// request resolves to the zero Actor, which protected endpoints reject.
func (s *Server) resolveActor(r *http.Request) (identity.Actor, error) {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return identity.Actor{}, authguarderrors.ErrInvalidToken
		}
		return s.guard.Guard.ResolveFromToken(r.Context(), parts[1])
	}

	subjectID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if subjectID == "" {
		return identity.Actor{}, nil
	}
	return s.guard.Guard.ResolveSubject(r.Context(), subjectID, r.Header.Get("X-Actor-Role"))
}

func writeActorError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authguarderrors.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "invalid_token", err.Error())
	case errors.Is(err, authguarderrors.ErrUnknownSubject),
		errors.Is(err, authguarderrors.ErrUnknownRole),
		errors.Is(err, identity.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "unauthenticated", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
