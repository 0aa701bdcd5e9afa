package oauth_module

import (
	"context"
	"errors"
	"net/http"

	"github.com/ethanbaker/lawcus-relay/pkg/lawcus"
	"github.com/ethanbaker/lawcus-relay/pkg/refresh"
	"github.com/ethanbaker/lawcus-relay/pkg/sdk"
	"github.com/ethanbaker/lawcus-relay/pkg/tokens"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const jsonContentType = "application/json; charset=utf-8"

// Controller handles the OAuth authorization-code and refresh routes
type Controller struct {
	oauth   *lawcus.OAuthClient
	store   *tokens.Store
	refresh *refresh.Service
	log     *logrus.Entry
}

// NewController creates the OAuth controller
func NewController(oauth *lawcus.OAuthClient, store *tokens.Store, refresh *refresh.Service, logger *logrus.Logger) *Controller {
	return &Controller{
		oauth:   oauth,
		store:   store,
		refresh: refresh,
		log:     logger.WithField("module", "OAUTH"),
	}
}

// Authorize redirects the browser to the Lawcus consent page
func (ctl *Controller) Authorize(c *gin.Context) {
	c.Redirect(http.StatusFound, ctl.oauth.AuthorizationURL())
}

// Callback handles the redirect back from Lawcus: exchanges the code, stores
// the token pair and returns the provider's token response
func (ctl *Controller) Callback(c *gin.Context) {
	// The user declined consent or the provider rejected the request
	if providerErr := c.Query("error"); providerErr != "" {
		message := c.DefaultQuery("error_description", providerErr)
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, message).AsGinResponse())
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Missing authorization code").AsGinResponse())
		return
	}

	resp, err := ctl.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		ctl.log.WithError(err).Error("error during OAuth token exchange")
		c.JSON(sdk.NewErrorResponse(lawcus.StatusAndMessage(err)).AsGinResponse())
		return
	}

	// Persisting is best effort; the exchange already succeeded
	ctl.persist(c.Request.Context(), resp.Pair())

	c.Data(http.StatusOK, jsonContentType, resp.Body)
}

// persist stores the pair even if the caller has gone away, since the
// authorization code it came from cannot be used twice
func (ctl *Controller) persist(ctx context.Context, pair tokens.Pair) bool {
	if !ctl.store.Write(context.WithoutCancel(ctx), pair) {
		ctl.log.Warn("token pair from the authorization code was not persisted; reconnect at / once storage is healthy")
		return false
	}
	return true
}

// Refresh trades the stored refresh token for a new pair
func (ctl *Controller) Refresh(c *gin.Context) {
	resp, err := ctl.refresh.Refresh(c.Request.Context())
	if err != nil {
		if errors.Is(err, lawcus.ErrNoRefreshToken) {
			c.JSON(sdk.NewErrorResponse(http.StatusUnauthorized, "No refresh token available, authentication is required").AsGinResponse())
			return
		}

		ctl.log.WithError(err).Error("error during OAuth token refresh")
		c.JSON(sdk.NewErrorResponse(lawcus.StatusAndMessage(err)).AsGinResponse())
		return
	}

	c.Data(http.StatusOK, jsonContentType, resp.Body)
}
