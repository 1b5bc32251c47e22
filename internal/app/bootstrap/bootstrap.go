package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	chatservice "vantage/contexts/community-experience/chat-service"
	chatpostgres "vantage/contexts/community-experience/chat-service/adapters/postgres"
	chatapp "vantage/contexts/community-experience/chat-service/application"
	chaterrors "vantage/contexts/community-experience/chat-service/domain/errors"
	balanceservice "vantage/contexts/finance-core/balance-service"
	balancepostgres "vantage/contexts/finance-core/balance-service/adapters/postgres"
	balanceapp "vantage/contexts/finance-core/balance-service/application"
	authguard "vantage/contexts/identity-access/authguard"
	authmemory "vantage/contexts/identity-access/authguard/adapters/memory"
	authpostgres "vantage/contexts/identity-access/authguard/adapters/postgres"
	authredis "vantage/contexts/identity-access/authguard/adapters/redis"
	"vantage/contexts/identity-access/authguard/adapters/token"
	authports "vantage/contexts/identity-access/authguard/ports"
	applicationservice "vantage/contexts/marketplace/application-service"
	applicationpostgres "vantage/contexts/marketplace/application-service/adapters/postgres"
	applicationports "vantage/contexts/marketplace/application-service/ports"
	campaignservice "vantage/contexts/marketplace/campaign-service"
	campaignpostgres "vantage/contexts/marketplace/campaign-service/adapters/postgres"
	campaignworkers "vantage/contexts/marketplace/campaign-service/application/workers"
	campaignports "vantage/contexts/marketplace/campaign-service/ports"
	submissionservice "vantage/contexts/marketplace/submission-service"
	submissionpostgres "vantage/contexts/marketplace/submission-service/adapters/postgres"
	submissionworkers "vantage/contexts/marketplace/submission-service/application/workers"
	submissionports "vantage/contexts/marketplace/submission-service/ports"
	"vantage/internal/platform/cache"
	"vantage/internal/platform/config"
	"vantage/internal/platform/db"
	"vantage/internal/platform/httpserver"
	"vantage/internal/platform/messaging"
	"vantage/internal/shared/outbox"
	"vantage/internal/shared/workflow"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

func (a *APIApp) Run() error {
	return a.server.Start()
}

func (a *APIApp) Close() error {
	return a.postgres.Close()
}

type WorkerApp struct {
	postgres       *db.Postgres
	deadlineCloser campaignworkers.DeadlineCloser
	autoApprove    submissionworkers.AutoApproveJob
	relays         []outbox.Relay
	relayDisabled  bool
	pollInterval   time.Duration
	logger         *slog.Logger
}

type modules struct {
	guard        authguard.Module
	campaigns    campaignservice.Module
	applications applicationservice.Module
	submissions  submissionservice.Module
	balances     balanceservice.Module
	chat         chatservice.Module

	applicationOutbox outbox.Repository
	submissionOutbox  outbox.Repository
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	pg, err := connectPostgres(cfg)
	if err != nil {
		return nil, err
	}

	wired, err := buildModules(cfg, pg, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	server := httpserver.New(
		wired.guard,
		wired.campaigns,
		wired.applications,
		wired.submissions,
		wired.balances,
		wired.chat,
		cfg.AllowedOrigins,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	pg, err := connectPostgres(cfg)
	if err != nil {
		return nil, err
	}

	wired, err := buildModules(cfg, pg, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	bus := messaging.NewBus(logger)
	relays := []outbox.Relay{
		{
			Outbox:    wired.applicationOutbox,
			Publisher: bus,
			Topic:     "application-events",
			BatchSize: cfg.WorkerBatchSize,
			Logger:    logger,
		},
		{
			Outbox:    wired.submissionOutbox,
			Publisher: bus,
			Topic:     "submission-events",
			BatchSize: cfg.WorkerBatchSize,
			Logger:    logger,
		},
	}

	return &WorkerApp{
		postgres:       pg,
		deadlineCloser: wired.campaigns.DeadlineCloser,
		autoApprove:    wired.submissions.AutoApproveJob,
		relays:         relays,
		relayDisabled:  !cfg.EnableOutboxRelay,
		pollInterval:   cfg.WorkerPollInterval,
		logger:         logger,
	}, nil
}

// Run drives the periodic jobs until ctx is cancelled. Each cycle runs every
// job once; a failing job logs and does not stop the others.
func (a *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	a.logger.Info("worker loop starting",
		"event", "worker_loop_starting",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", a.pollInterval.String(),
	)

	for {
		a.runCycle(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (a *WorkerApp) runCycle(ctx context.Context) {
	if err := a.deadlineCloser.RunOnce(ctx); err != nil {
		a.logger.Error("deadline closer cycle failed",
			"event", "deadline_closer_cycle_failed",
			"module", "internal/app/bootstrap",
			"layer", "worker",
			"error", err.Error(),
		)
	}
	if err := a.autoApprove.RunOnce(ctx); err != nil {
		a.logger.Error("auto approve cycle failed",
			"event", "auto_approve_cycle_failed",
			"module", "internal/app/bootstrap",
			"layer", "worker",
			"error", err.Error(),
		)
	}
	if a.relayDisabled {
		return
	}
	for _, relay := range a.relays {
		if err := relay.RunOnce(ctx); err != nil {
			a.logger.Error("outbox relay cycle failed",
				"event", "outbox_relay_cycle_failed",
				"module", "internal/app/bootstrap",
				"layer", "worker",
				"topic", relay.Topic,
				"error", err.Error(),
			)
		}
	}
}

func (a *WorkerApp) Close() error {
	return a.postgres.Close()
}

func connectPostgres(cfg config.Config) (*db.Postgres, error) {
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	return db.Connect(cfg.PostgresDSN)
}

func buildModules(cfg config.Config, pg *db.Postgres, logger *slog.Logger) (modules, error) {
	var tokens authports.TokenParser
	if strings.TrimSpace(cfg.AuthJWTSecret) != "" {
		parser, err := token.NewParser(cfg.AuthJWTSecret)
		if err != nil {
			return modules{}, err
		}
		tokens = parser
	}

	var roleCache authports.RoleCache = authmemory.NewCache()
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		client, err := cache.Connect(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return modules{}, err
		}
		roleCache = authredis.NewCache(client)
	}

	guardModule := authguard.NewModule(authguard.Dependencies{
		Roles:    authpostgres.NewRepository(pg.DB, logger),
		Cache:    roleCache,
		Tokens:   tokens,
		CacheTTL: 5 * time.Minute,
		Logger:   logger,
	})

	table, err := resolveTable(cfg)
	if err != nil {
		return modules{}, err
	}
	dispatcher := workflow.NewDispatcher(logger)

	campaignRepo := campaignpostgres.NewRepository(pg.DB, logger)
	campaignModule := campaignservice.NewModule(campaignservice.Dependencies{
		Campaigns:         campaignRepo,
		Engagement:        campaignRepo,
		History:           campaignRepo,
		Deadlines:         campaignRepo,
		Guard:             guardModule.Guard,
		Table:             table,
		Clock:             campaignpostgres.SystemClock{},
		IDGenerator:       campaignpostgres.UUIDGenerator{},
		DeadlineBatchSize: cfg.WorkerBatchSize,
		DeadlineDisabled:  !cfg.EnableDeadlineCloser,
		Logger:            logger,
	})

	applicationRepo := applicationpostgres.NewRepository(pg.DB, logger)
	applicationModule := applicationservice.NewModule(applicationservice.Dependencies{
		Applications: applicationRepo,
		History:      applicationRepo,
		Campaigns: campaignDirectory{
			campaigns:  campaignRepo,
			engagement: campaignRepo,
		},
		Guard:       guardModule.Guard,
		Table:       table,
		Dispatcher:  dispatcher,
		Outbox:      applicationRepo,
		Clock:       applicationpostgres.SystemClock{},
		IDGenerator: applicationpostgres.UUIDGenerator{},
		Logger:      logger,
	})

	submissionRepo := submissionpostgres.NewRepository(pg.DB, logger)
	submissionModule := submissionservice.NewModule(submissionservice.Dependencies{
		Submissions:          submissionRepo,
		History:              submissionRepo,
		Applications:         applicationDirectory{applications: applicationRepo},
		Guard:                guardModule.Guard,
		Table:                table,
		Dispatcher:           dispatcher,
		Outbox:               submissionRepo,
		Clock:                submissionpostgres.SystemClock{},
		IDGenerator:          submissionpostgres.UUIDGenerator{},
		AutoApproveBatchSize: cfg.WorkerBatchSize,
		AutoApproveDisabled:  !cfg.EnableAutoApprove,
		Logger:               logger,
	})

	balanceModule := balanceservice.NewModule(balanceservice.Dependencies{
		Balances:    balancepostgres.NewRepository(pg.DB, logger),
		Guard:       guardModule.Guard,
		Clock:       balancepostgres.SystemClock{},
		IDGenerator: balancepostgres.UUIDGenerator{},
		Logger:      logger,
	})

	chatRepo := chatpostgres.NewRepository(pg.DB, logger)
	chatModule := chatservice.NewModule(chatservice.Dependencies{
		Conversations: chatRepo,
		Messages:      chatRepo,
		Guard:         guardModule.Guard,
		Clock:         chatpostgres.SystemClock{},
		IDGenerator:   chatpostgres.UUIDGenerator{},
		Logger:        logger,
	})

	RegisterEffects(dispatcher, chatModule.Service, balanceModule.Service)

	return modules{
		guard:             guardModule,
		campaigns:         campaignModule,
		applications:      applicationModule,
		submissions:       submissionModule,
		balances:          balanceModule,
		chat:              chatModule,
		applicationOutbox: applicationRepo,
		submissionOutbox:  submissionRepo,
	}, nil
}

// RegisterEffects binds the side effects of accepted transitions. Every
// effect is idempotent: the balance ledger absorbs duplicate keys and
// conversation creation is a keyed upsert, so at-least-once dispatch is safe.
func RegisterEffects(dispatcher *workflow.Dispatcher, chat chatapp.Service, balances balanceapp.Service) {
	dispatcher.Register(workflow.EntityApplication, workflow.ApplicationApproved, "create_conversation",
		func(ctx context.Context, change workflow.Change) error {
			_, err := chat.EnsureConversation(ctx, change.BusinessID, change.InfluencerID, change.ApplicationID)
			return err
		})
	dispatcher.Register(workflow.EntityApplication, workflow.ApplicationApproved, "reserve_payout",
		func(ctx context.Context, change workflow.Change) error {
			return balances.Reserve(ctx, change.InfluencerID, change.Amount, change.IdempotencyKey(), change.EntityID)
		})

	for _, status := range []string{workflow.SubmissionApproved, workflow.SubmissionAutoApproved} {
		dispatcher.Register(workflow.EntitySubmission, status, "credit_payout",
			func(ctx context.Context, change workflow.Change) error {
				return balances.Credit(ctx, change.InfluencerID, change.Amount, change.IdempotencyKey(), change.EntityID)
			})
		dispatcher.Register(workflow.EntitySubmission, status, "notify_conversation",
			notifyConversation(chat, "submission approved, payout released"))
	}
	dispatcher.Register(workflow.EntitySubmission, workflow.SubmissionRejected, "notify_conversation",
		notifyConversation(chat, "submission rejected"))
	dispatcher.Register(workflow.EntitySubmission, workflow.SubmissionRevisionRequested, "notify_conversation",
		notifyConversation(chat, "revision requested"))
}

func notifyConversation(chat chatapp.Service, text string) func(context.Context, workflow.Change) error {
	return func(ctx context.Context, change workflow.Change) error {
		body := text
		if strings.TrimSpace(change.Notes) != "" {
			body = fmt.Sprintf("%s: %s", text, strings.TrimSpace(change.Notes))
		}
		err := chat.PostSystemNotice(ctx, change.ApplicationID, body)
		if errors.Is(err, chaterrors.ErrConversationNotFound) {
			// Conversations exist only for applications approved after the
			// chat rollout; missing ones must not fail the review.
			return nil
		}
		return err
	}
}

// campaignDirectory narrows the campaign module's repositories to what the
// application context needs, keeping the contexts decoupled at compile time.
type campaignDirectory struct {
	campaigns  campaignports.CampaignRepository
	engagement campaignports.EngagementRepository
}

func (d campaignDirectory) GetCampaignSummary(ctx context.Context, campaignID string) (applicationports.CampaignSummary, error) {
	campaign, err := d.campaigns.GetCampaign(ctx, campaignID)
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

func (d campaignDirectory) RecordApplication(ctx context.Context, campaignID string) error {
	return d.engagement.IncrementApplicationCount(ctx, campaignID)
}

type applicationDirectory struct {
	applications applicationports.ApplicationRepository
}

func (d applicationDirectory) GetApplicationSummary(ctx context.Context, applicationID string) (submissionports.ApplicationSummary, error) {
	item, err := d.applications.GetApplication(ctx, applicationID)
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

func resolveTable(cfg config.Config) (*workflow.Table, error) {
	if strings.TrimSpace(cfg.TransitionTablePath) == "" {
		return workflow.DefaultTable(), nil
	}
	return workflow.LoadTable(cfg.TransitionTablePath)
}

func normalizeAddr(port string) string {
	port = strings.TrimSpace(port)
	if port == "" {
		return ":8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}
