package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatservice "vantage/contexts/community-experience/chat-service"
	balanceservice "vantage/contexts/finance-core/balance-service"
	authguard "vantage/contexts/identity-access/authguard"
	applicationservice "vantage/contexts/marketplace/application-service"
	applicationmemory "vantage/contexts/marketplace/application-service/adapters/memory"
	applicationports "vantage/contexts/marketplace/application-service/ports"
	applicationhttp "vantage/contexts/marketplace/application-service/transport/http"
	campaignservice "vantage/contexts/marketplace/campaign-service"
	campaignmemory "vantage/contexts/marketplace/campaign-service/adapters/memory"
	campaignentities "vantage/contexts/marketplace/campaign-service/domain/entities"
	campaignhttp "vantage/contexts/marketplace/campaign-service/transport/http"
	submissionservice "vantage/contexts/marketplace/submission-service"
	submissionports "vantage/contexts/marketplace/submission-service/ports"
	submissionhttp "vantage/contexts/marketplace/submission-service/transport/http"
	"vantage/internal/shared/identity"
	"vantage/internal/shared/workflow"
)

type campaignLookup struct {
	store *campaignmemory.Store
}

func (l campaignLookup) GetCampaignSummary(ctx context.Context, campaignID string) (applicationports.CampaignSummary, error) {
	campaign, err := l.store.GetCampaign(ctx, campaignID)
	if err != nil {
		return applicationports.CampaignSummary{}, err
	}
	return applicationports.CampaignSummary{
		CampaignID:          campaign.CampaignID,
		BusinessID:          campaign.BusinessID,
		Status:              campaign.Status,
		PayoutPerSubmission: campaign.PayoutPerSubmission,
	}, nil
}

func (l campaignLookup) RecordApplication(ctx context.Context, campaignID string) error {
	return l.store.IncrementApplicationCount(ctx, campaignID)
}

type applicationLookup struct {
	store *applicationmemory.Store
}

func (l applicationLookup) GetApplicationSummary(ctx context.Context, applicationID string) (submissionports.ApplicationSummary, error) {
	item, err := l.store.GetApplication(ctx, applicationID)
	if err != nil {
		return submissionports.ApplicationSummary{}, err
	}
	return submissionports.ApplicationSummary{
		ApplicationID: item.ApplicationID,
		CampaignID:    item.CampaignID,
		BusinessID:    item.BusinessID,
		InfluencerID:  item.InfluencerID,
		Status:        item.Status,
		AgreedAmount:  item.AgreedAmount,
	}, nil
}

func newTestServer(seedCampaigns []campaignentities.Campaign) *Server {
	guard := authguard.NewInMemoryModule(map[string]identity.Role{
		"biz-1": identity.RoleBusiness,
		"inf-1": identity.RoleInfluencer,
		"adm-1": identity.RoleAdmin,
	}, nil)
	table := workflow.DefaultTable()
	dispatcher := workflow.NewDispatcher(nil)

	campaigns := campaignservice.NewInMemoryModule(seedCampaigns, guard.Guard, table, nil)
	applications := applicationservice.NewInMemoryModule(nil,
		campaignLookup{store: campaigns.Store}, guard.Guard, table, dispatcher, nil)
	submissions := submissionservice.NewInMemoryModule(nil,
		applicationLookup{store: applications.Store}, guard.Guard, table, dispatcher, nil)
	balances := balanceservice.NewInMemoryModule(guard.Guard, nil)
	chat := chatservice.NewInMemoryModule(guard.Guard, nil)

	return New(guard, campaigns, applications, submissions, balances, chat, []string{"*"}, nil, ":0")
}

func activeCampaign(id string, businessID string) campaignentities.Campaign {
	now := time.Now().UTC()
	return campaignentities.Campaign{
		CampaignID:          id,
		BusinessID:          businessID,
		Title:               "Launch clips",
		Description:         "Short-form clips for the launch week",
		Niche:               "gaming",
		BudgetTotal:         500,
		PayoutPerSubmission: 25,
		Status:              workflow.CampaignActive,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func doRequest(t *testing.T, s *Server, method string, path string, headers map[string]string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			reader = bytes.NewReader([]byte(raw))
		} else {
			payload, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(payload)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
}

func asBusiness() map[string]string   { return map[string]string{"X-User-Id": "biz-1"} }
func asInfluencer() map[string]string { return map[string]string{"X-User-Id": "inf-1"} }
func asAdmin() map[string]string      { return map[string]string{"X-User-Id": "adm-1"} }

func TestProtectedRoutesRejectAnonymousRequests(t *testing.T) {
	server := newTestServer(nil)

	cases := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodPost, "/api/v1/campaigns", campaignhttp.CreateCampaignRequest{Title: "x"}},
		{http.MethodPost, "/api/v1/applications", applicationhttp.ApplyRequest{CampaignID: "camp-1"}},
		{http.MethodGet, "/api/v1/balances/me", nil},
		{http.MethodGet, "/api/v1/conversations", nil},
	}
	for _, tc := range cases {
		rec := doRequest(t, server, tc.method, tc.path, nil, tc.body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)

		var errResp errorResponse
		decodeBody(t, rec, &errResp)
		assert.Equal(t, "unauthenticated", errResp.Code, "%s %s", tc.method, tc.path)
	}
}

func TestMalformedAuthorizationHeader(t *testing.T) {
	server := newTestServer(nil)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/balances/me",
		map[string]string{"Authorization": "Basic abc123"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var errResp errorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "invalid_token", errResp.Code)

	// No token parser is configured, so any bearer token fails closed.
	rec = doRequest(t, server, http.MethodGet, "/api/v1/balances/me",
		map[string]string{"Authorization": "Bearer some.jwt.token"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnknownSubjectHeaderRejected(t *testing.T) {
	server := newTestServer(nil)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/balances/me",
		map[string]string{"X-User-Id": "ghost"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var errResp errorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "unauthenticated", errResp.Code)
}

func TestCampaignLifecycleOverHTTP(t *testing.T) {
	server := newTestServer(nil)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/campaigns", asBusiness(), campaignhttp.CreateCampaignRequest{
		Title:               "Launch clips",
		Description:         "Short-form clips for the launch week",
		Niche:               "gaming",
		BudgetTotal:         500,
		PayoutPerSubmission: 25,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created campaignhttp.CreateCampaignResponse
	decodeBody(t, rec, &created)
	require.NotEmpty(t, created.Campaign.CampaignID)
	assert.Equal(t, "draft", created.Campaign.Status)
	assert.Equal(t, "biz-1", created.Campaign.BusinessID)

	campaignID := created.Campaign.CampaignID

	rec = doRequest(t, server, http.MethodPost, "/api/v1/campaigns/"+campaignID+"/status", asBusiness(),
		campaignhttp.ChangeStatusRequest{Status: "active"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var changed campaignhttp.ChangeStatusResponse
	decodeBody(t, rec, &changed)
	assert.Equal(t, "active", changed.Campaign.Status)
	assert.NotEmpty(t, changed.Campaign.LaunchedAt)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/campaigns/"+campaignID, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodPost, "/api/v1/campaigns/"+campaignID+"/status", asBusiness(),
		campaignhttp.ChangeStatusRequest{Status: "closed", Reason: "budget exhausted"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Closed is terminal; reopening maps to 422.
	rec = doRequest(t, server, http.MethodPost, "/api/v1/campaigns/"+campaignID+"/status", asBusiness(),
		campaignhttp.ChangeStatusRequest{Status: "active"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var errResp errorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "invalid_transition", errResp.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/v1/campaigns/ghost", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApplyOverHTTP(t *testing.T) {
	server := newTestServer([]campaignentities.Campaign{activeCampaign("camp-1", "biz-1")})

	rec := doRequest(t, server, http.MethodPost, "/api/v1/applications", asInfluencer(),
		applicationhttp.ApplyRequest{CampaignID: "camp-1", Pitch: "I can make these clips"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var applied applicationhttp.ApplyResponse
	decodeBody(t, rec, &applied)
	assert.Equal(t, "pending", applied.Application.Status)
	assert.Equal(t, 25.0, applied.Application.AgreedAmount)
	assert.Equal(t, "inf-1", applied.Application.InfluencerID)

	// One application per influencer per campaign.
	rec = doRequest(t, server, http.MethodPost, "/api/v1/applications", asInfluencer(),
		applicationhttp.ApplyRequest{CampaignID: "camp-1", Pitch: "again"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	var errResp errorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "already_exists", errResp.Code)

	rec = doRequest(t, server, http.MethodPost, "/api/v1/applications", asBusiness(),
		applicationhttp.ApplyRequest{CampaignID: "camp-1", Pitch: "businesses cannot apply"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestApplicationReviewOverHTTP(t *testing.T) {
	server := newTestServer([]campaignentities.Campaign{activeCampaign("camp-1", "biz-1")})

	rec := doRequest(t, server, http.MethodPost, "/api/v1/applications", asInfluencer(),
		applicationhttp.ApplyRequest{CampaignID: "camp-1", Pitch: "I can make these clips"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var applied applicationhttp.ApplyResponse
	decodeBody(t, rec, &applied)
	applicationID := applied.Application.ApplicationID

	// The influencer cannot approve their own application.
	rec = doRequest(t, server, http.MethodPost, "/api/v1/applications/"+applicationID+"/status", asInfluencer(),
		applicationhttp.TransitionRequest{Status: "approved"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, server, http.MethodPost, "/api/v1/applications/"+applicationID+"/status", asBusiness(),
		applicationhttp.TransitionRequest{Status: "approved"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var transitioned applicationhttp.TransitionResponse
	decodeBody(t, rec, &transitioned)
	assert.Equal(t, "approved", transitioned.Application.Status)

	// Repeating the same target is an idempotent no-op.
	rec = doRequest(t, server, http.MethodPost, "/api/v1/applications/"+applicationID+"/status", asBusiness(),
		applicationhttp.TransitionRequest{Status: "approved"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodPost, "/api/v1/applications/"+applicationID+"/status", asBusiness(),
		applicationhttp.TransitionRequest{Status: "pending"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSubmissionRequiresApprovedApplication(t *testing.T) {
	server := newTestServer([]campaignentities.Campaign{activeCampaign("camp-1", "biz-1")})

	rec := doRequest(t, server, http.MethodPost, "/api/v1/applications", asInfluencer(),
		applicationhttp.ApplyRequest{CampaignID: "camp-1", Pitch: "I can make these clips"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var applied applicationhttp.ApplyResponse
	decodeBody(t, rec, &applied)

	rec = doRequest(t, server, http.MethodPost, "/api/v1/submissions", asInfluencer(),
		submissionhttp.CreateSubmissionRequest{
			ApplicationID: applied.Application.ApplicationID,
			ContentURL:    "https://cdn.example.com/clip.mp4",
		})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())

	var errResp errorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "invalid_state", errResp.Code)
}

func TestFavoriteConflictMapping(t *testing.T) {
	server := newTestServer([]campaignentities.Campaign{activeCampaign("camp-1", "biz-1")})

	rec := doRequest(t, server, http.MethodPost, "/api/v1/campaigns/camp-1/favorite", asInfluencer(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, server, http.MethodPost, "/api/v1/campaigns/camp-1/favorite", asInfluencer(), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, server, http.MethodDelete, "/api/v1/campaigns/camp-1/favorite", asInfluencer(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, server, http.MethodDelete, "/api/v1/campaigns/camp-1/favorite", asInfluencer(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBalanceRoutes(t *testing.T) {
	server := newTestServer(nil)

	rec := doRequest(t, server, http.MethodGet, "/api/v1/balances/me", asInfluencer(), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Manual adjustments are an admin operation.
	rec = doRequest(t, server, http.MethodPost, "/api/v1/balances/adjust", asBusiness(),
		map[string]any{"influencer_id": "inf-1", "amount": 10.0, "notes": "manual bonus"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, server, http.MethodPost, "/api/v1/balances/adjust", asAdmin(),
		map[string]any{"influencer_id": "inf-1", "amount": 10.0, "notes": "manual bonus"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(t, server, http.MethodGet, "/api/v1/balances/me", asInfluencer(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Balance struct {
			Available     float64 `json:"available"`
			TotalEarnings float64 `json:"total_earnings"`
		} `json:"balance"`
	}
	decodeBody(t, rec, &payload)
	assert.Equal(t, 10.0, payload.Balance.Available)
	assert.Equal(t, 10.0, payload.Balance.TotalEarnings)
}

func TestInvalidJSONBody(t *testing.T) {
	server := newTestServer(nil)

	rec := doRequest(t, server, http.MethodPost, "/api/v1/campaigns", asBusiness(), "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp errorResponse
	decodeBody(t, rec, &errResp)
	assert.Equal(t, "invalid_json", errResp.Code)
}
