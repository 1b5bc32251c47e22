package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"vantage/contexts/marketplace/submission-service/application/commands"
	"vantage/contexts/marketplace/submission-service/application/queries"
	"vantage/contexts/marketplace/submission-service/domain/entities"
	"vantage/contexts/marketplace/submission-service/ports"
	httptransport "vantage/contexts/marketplace/submission-service/transport/http"
	"vantage/internal/shared/identity"
)

type Handler struct {
	Create     commands.CreateSubmissionUseCase
	Transition commands.TransitionUseCase
	Queries    queries.QueryUseCase
	Logger     *slog.Logger
}

func (h Handler) CreateSubmissionHandler(
	ctx context.Context,
	actor identity.Actor,
	req httptransport.CreateSubmissionRequest,
) (httptransport.CreateSubmissionResponse, error) {
	result, err := h.Create.Execute(ctx, commands.CreateSubmissionCommand{
		Actor:         actor,
		ApplicationID: req.ApplicationID,
		ContentURL:    req.ContentURL,
		MediaRefs:     append([]string(nil), req.MediaRefs...),
		Notes:         req.Notes,
		AutoApproveAt: req.AutoApproveAt,
	})
	if err != nil {
		return httptransport.CreateSubmissionResponse{}, err
	}
	return httptransport.CreateSubmissionResponse{Submission: mapSubmission(result)}, nil
}

func (h Handler) GetSubmissionHandler(ctx context.Context, actor identity.Actor, submissionID string) (httptransport.GetSubmissionResponse, error) {
	item, err := h.Queries.GetSubmission(ctx, actor, submissionID)
	if err != nil {
		return httptransport.GetSubmissionResponse{}, err
	}
	return httptransport.GetSubmissionResponse{Submission: mapSubmission(item)}, nil
}

func (h Handler) ListSubmissionsHandler(
	ctx context.Context,
	actor identity.Actor,
	applicationID string,
	campaignID string,
	status string,
) (httptransport.ListSubmissionsResponse, error) {
	items, err := h.Queries.ListSubmissions(ctx, actor, ports.SubmissionFilter{
		ApplicationID: applicationID,
		CampaignID:    campaignID,
		Status:        status,
	})
	if err != nil {
		return httptransport.ListSubmissionsResponse{}, err
	}
	result := make([]httptransport.SubmissionDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapSubmission(item))
	}
	return httptransport.ListSubmissionsResponse{Items: result}, nil
}

func (h Handler) TransitionHandler(
	ctx context.Context,
	actor identity.Actor,
	submissionID string,
	req httptransport.TransitionRequest,
) (httptransport.TransitionResponse, error) {
	result, err := h.Transition.Execute(ctx, commands.TransitionCommand{
		SubmissionID: submissionID,
		Actor:        actor,
		Target:       req.Status,
		Notes:        req.Notes,
	})
	if err != nil {
		return httptransport.TransitionResponse{Submission: mapSubmission(result)}, err
	}
	return httptransport.TransitionResponse{Submission: mapSubmission(result)}, nil
}

func mapSubmission(item entities.Submission) httptransport.SubmissionDTO {
	result := httptransport.SubmissionDTO{
		SubmissionID:  item.SubmissionID,
		ApplicationID: item.ApplicationID,
		CampaignID:    item.CampaignID,
		BusinessID:    item.BusinessID,
		InfluencerID:  item.InfluencerID,
		ContentURL:    item.ContentURL,
		MediaRefs:     append([]string(nil), item.MediaRefs...),
		Notes:         item.Notes,
		ReviewNotes:   item.ReviewNotes,
		AgreedAmount:  item.AgreedAmount,
		Status:        item.Status,
		CreatedAt:     item.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     item.UpdatedAt.Format(time.RFC3339),
	}
	if item.AutoApproveAt != nil {
		result.AutoApproveAt = item.AutoApproveAt.UTC().Format(time.RFC3339)
	}
	if item.ReviewedAt != nil {
		result.ReviewedAt = item.ReviewedAt.UTC().Format(time.RFC3339)
	}
	return result
}
