package leads_module

import (
	"net/http"

	"github.com/ethanbaker/lawcus-relay/pkg/lawcus"
	"github.com/ethanbaker/lawcus-relay/pkg/leads"
	"github.com/ethanbaker/lawcus-relay/pkg/sdk"
	"github.com/ethanbaker/lawcus-relay/pkg/tokens"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const unauthenticatedMessage = "Authentication required: no Lawcus access token is stored, visit / to connect"

// Controller proxies lead operations to Lawcus with the stored access token
type Controller struct {
	store     *tokens.Store
	validator *leads.Validator
	options   *lawcus.Options
	log       *logrus.Entry
}

// NewController creates the leads controller. options configures the CRM
// client built for each request.
func NewController(store *tokens.Store, validator *leads.Validator, options *lawcus.Options, logger *logrus.Logger) *Controller {
	return &Controller{
		store:     store,
		validator: validator,
		options:   options,
		log:       logger.WithField("module", "LEADS"),
	}
}

// ListLeads handles GET requests for the Lawcus lead sources
func (ctl *Controller) ListLeads(c *gin.Context) {
	ctx := c.Request.Context()

	accessToken, ok := ctl.store.Read(ctx, tokens.Access)
	if !ok {
		c.JSON(sdk.NewErrorResponse(http.StatusUnauthorized, unauthenticatedMessage).AsGinResponse())
		return
	}

	result, err := lawcus.NewCRMClient(ctx, accessToken, ctl.options).ListLeads(ctx)
	if err != nil {
		ctl.log.WithError(err).Error("failed to list leads")
		c.JSON(sdk.NewErrorResponse(lawcus.StatusAndMessage(err)).AsGinResponse())
		return
	}

	c.JSON(sdk.NewDataResponse(result.Status, result.Body).AsGinResponse())
}

// CreateLead handles POST requests creating a lead in Lawcus
func (ctl *Controller) CreateLead(c *gin.Context) {
	ctx := c.Request.Context()

	var req sdk.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Could not parse request body").AsGinResponse())
		return
	}

	if err := ctl.validator.Validate(req.LeadData); err != nil {
		ctl.log.WithError(err).Warn("rejected invalid lead")
		c.JSON(sdk.NewErrorResponse(http.StatusBadRequest, "Invalid lead data: "+err.Error()).AsGinResponse())
		return
	}

	accessToken, ok := ctl.store.Read(ctx, tokens.Access)
	if !ok {
		c.JSON(sdk.NewErrorResponse(http.StatusUnauthorized, unauthenticatedMessage).AsGinResponse())
		return
	}

	result, err := lawcus.NewCRMClient(ctx, accessToken, ctl.options).CreateLead(ctx, req.LeadData)
	if err != nil {
		ctl.log.WithError(err).Error("failed to create lead")
		c.JSON(sdk.NewErrorResponse(lawcus.StatusAndMessage(err)).AsGinResponse())
		return
	}

	c.JSON(sdk.NewDataResponse(result.Status, result.Body).AsGinResponse())
}
