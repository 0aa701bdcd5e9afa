package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	api_utils "github.com/ethanbaker/api/pkg/utils"
	stores "github.com/ethanbaker/lawcus-relay/internal/stores/tokens"
	"github.com/ethanbaker/lawcus-relay/pkg/lawcus"
	"github.com/ethanbaker/lawcus-relay/pkg/leads"
	"github.com/ethanbaker/lawcus-relay/pkg/refresh"
	"github.com/ethanbaker/lawcus-relay/pkg/tokens"
	"github.com/ethanbaker/lawcus-relay/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	health_module "github.com/ethanbaker/lawcus-relay/internal/api/modules/health"
	leads_module "github.com/ethanbaker/lawcus-relay/internal/api/modules/leads"
	oauth_module "github.com/ethanbaker/lawcus-relay/internal/api/modules/oauth"
)

// Relay holds the components shared by the routes and the refresh schedule
type Relay struct {
	Config    *utils.Config
	Logger    *logrus.Logger
	Store     *tokens.Store
	OAuth     *lawcus.OAuthClient
	Refresh   *refresh.Service
	Validator *leads.Validator

	// Lawcus overrides endpoints; nil talks to production
	Lawcus *lawcus.Options
}

// NewRelay builds the relay components from configuration
func NewRelay(cfg *utils.Config, logger *logrus.Logger) (*Relay, error) {
	backend, err := stores.Open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open token store: %w", err)
	}

	creds := lawcus.Credentials{
		ClientID:     cfg.Get("CLIENT_ID"),
		ClientSecret: cfg.Get("CLIENT_SECRET"),
		RedirectURI:  cfg.Get("REDIRECT_URI"),
	}
	if creds.ClientID == "" || creds.ClientSecret == "" || creds.RedirectURI == "" {
		logger.WithField("module", "API").Warn("CLIENT_ID, CLIENT_SECRET or REDIRECT_URI not set; OAuth calls will be rejected by Lawcus")
	}

	store := tokens.NewStore(backend, logger)
	oauth := lawcus.NewOAuthClient(creds, nil)

	return &Relay{
		Config:    cfg,
		Logger:    logger,
		Store:     store,
		OAuth:     oauth,
		Refresh:   refresh.NewService(store, oauth, logger),
		Validator: leads.NewValidator(cfg.GetBoolWithDefault("LEADS_STRICT_VALIDATION", true)),
	}, nil
}

// NewEngine creates the gin engine serving the relay routes
func NewEngine(relay *Relay) *gin.Engine {
	engine := gin.New()
	engine.Use(RequestLogger(relay.Logger), gin.Recovery())
	engine.NoRoute(api_utils.NoRouteHandler)

	// Add trusted proxies
	engine.SetTrustedProxies(nil)

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(relay.Config.GetWithDefault("CORS_ALLOWED_ORIGINS", "*"), ","),
		AllowMethods:     []string{"OPTIONS", "GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	root := engine.Group("/")

	health_module.RegisterRoutes(root)
	oauth_module.RegisterRoutes(root, oauth_module.NewController(relay.OAuth, relay.Store, relay.Refresh, relay.Logger))
	leads_module.RegisterRoutes(root, leads_module.NewController(relay.Store, relay.Validator, relay.Lawcus, relay.Logger))

	return engine
}

// Start runs the refresh schedule and serves the API until the server fails
func Start(cfg *utils.Config, logger *logrus.Logger) error {
	port := cfg.GetFirst("8080", "API_PORT", "PORT")

	relay, err := NewRelay(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := relay.Store.Close(); err != nil {
			logger.WithField("module", "API").WithError(err).Error("failed to close token store")
		}
	}()

	manager, err := refresh.NewManager(relay.Refresh, cfg.GetDurationWithDefault("REFRESH_INTERVAL", refresh.DefaultInterval), logger)
	if err != nil {
		return err
	}

	if cfg.GetBool("REFRESH_ON_START") {
		manager.RunOnce(context.Background())
	}

	manager.Start()
	defer manager.Stop()

	logger.WithField("module", "API").WithField("port", port).Info("server is running")
	if err := NewEngine(relay).Run(":" + port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
