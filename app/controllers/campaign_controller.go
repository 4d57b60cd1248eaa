package controllers

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/campaignfox/CampaignFox/app/models"
	"github.com/campaignfox/CampaignFox/app/repository"
	"github.com/campaignfox/CampaignFox/internal/pkg/entitlements"
	"github.com/campaignfox/CampaignFox/internal/pkg/gate"
	"github.com/campaignfox/CampaignFox/internal/pkg/metrics/counter"
	"github.com/campaignfox/CampaignFox/internal/pkg/middleware"
	"github.com/campaignfox/CampaignFox/internal/pkg/usercontext"
)

type createCampaignRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

// HandleCreateCampaign creates an active campaign. Workspace edit scope and
// a free campaign slot are checked in one gate call before anything is
// written.
func HandleCreateCampaign(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	workspace := middleware.GetWorkspace(c)

	var req createCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	campaignRepo := repository.GetGlobalFactory().GetCampaignRepository()
	activeCount, err := campaignRepo.CountActiveByWorkspace(workspace.ID)
	if err != nil {
		log.Printf("campaign create: count failed for workspace %d: %v", workspace.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create campaign"})
	}

	if ok, err := evaluateGate(c, workspace.ID, userCtx.UserID, gate.Request{
		Type:         gate.RequestQuota,
		Resource:     entitlements.ResourceCampaigns,
		CurrentCount: int(activeCount),
	}); !ok {
		return err
	}

	campaign := &models.Campaign{
		WorkspaceID: workspace.ID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Status:      models.CampaignStatusActive,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	}
	if err := campaign.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}
	if err := campaignRepo.Create(campaign); err != nil {
		log.Printf("campaign create failed for workspace %d: %v", workspace.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create campaign"})
	}

	return c.Status(fiber.StatusCreated).JSON(campaign)
}

// HandleListCampaigns lists the campaigns the caller may see. Members with
// campaign-scoped grants only receive the campaigns their grants cover.
func HandleListCampaigns(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	workspace := middleware.GetWorkspace(c)

	snap, err := gate.Default().Loader().AccessSnapshot(workspace.ID, userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load access state"})
	}

	campaigns, err := repository.GetGlobalFactory().GetCampaignRepository().ListByWorkspace(workspace.ID)
	if err != nil {
		log.Printf("campaign list failed for workspace %d: %v", workspace.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to list campaigns"})
	}

	if snap.CanAccessWorkspace() {
		return c.JSON(fiber.Map{"campaigns": campaigns})
	}

	ids := make([]uint, len(campaigns))
	for i, campaign := range campaigns {
		ids[i] = campaign.ID
	}
	visible := make(map[uint]bool)
	for _, id := range snap.FilterAccessibleCampaigns(ids) {
		visible[id] = true
	}
	filtered := make([]models.Campaign, 0, len(visible))
	for _, campaign := range campaigns {
		if visible[campaign.ID] {
			filtered = append(filtered, campaign)
		}
	}
	return c.JSON(fiber.Map{"campaigns": filtered})
}

// HandleGetCampaign returns one campaign and records a view. The view
// counter is buffered in Redis and flushed to the table periodically.
func HandleGetCampaign(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	workspace := middleware.GetWorkspace(c)

	campaign, ok, err := loadWorkspaceCampaign(c, workspace.ID)
	if !ok {
		return err
	}

	if ok, err := evaluateGate(c, workspace.ID, userCtx.UserID, gate.Request{
		Type:       gate.RequestCampaignAccess,
		CampaignID: campaign.ID,
	}); !ok {
		return err
	}

	if err := counter.AddCampaignView(campaign.ID); err != nil {
		log.Printf("campaign view count for %d failed: %v", campaign.ID, err)
	}

	return c.JSON(campaign)
}

type updateCampaignRequest struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

// HandleUpdateCampaign updates campaign fields, requires edit scope
func HandleUpdateCampaign(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	workspace := middleware.GetWorkspace(c)

	campaign, ok, err := loadWorkspaceCampaign(c, workspace.ID)
	if !ok {
		return err
	}

	if ok, err := evaluateGate(c, workspace.ID, userCtx.UserID, gate.Request{
		Type:       gate.RequestCampaignEdit,
		CampaignID: campaign.ID,
	}); !ok {
		return err
	}

	var req updateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if req.Name != nil {
		campaign.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		campaign.Description = *req.Description
	}
	if req.StartsAt != nil {
		campaign.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		campaign.EndsAt = req.EndsAt
	}
	if err := campaign.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	if err := repository.GetGlobalFactory().GetCampaignRepository().Update(campaign); err != nil {
		log.Printf("campaign update failed for %d: %v", campaign.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to update campaign"})
	}
	return c.JSON(campaign)
}

// HandleArchiveCampaign archives a campaign, freeing its plan slot
func HandleArchiveCampaign(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	workspace := middleware.GetWorkspace(c)

	campaign, ok, err := loadWorkspaceCampaign(c, workspace.ID)
	if !ok {
		return err
	}

	if ok, err := evaluateGate(c, workspace.ID, userCtx.UserID, gate.Request{
		Type:       gate.RequestCampaignEdit,
		CampaignID: campaign.ID,
	}); !ok {
		return err
	}

	if campaign.Status == models.CampaignStatusArchived {
		return c.JSON(campaign)
	}
	campaign.Status = models.CampaignStatusArchived
	if err := repository.GetGlobalFactory().GetCampaignRepository().Update(campaign); err != nil {
		log.Printf("campaign archive failed for %d: %v", campaign.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to archive campaign"})
	}
	return c.JSON(campaign)
}

type addCreatorRequest struct {
	Handle   string `json:"handle"`
	Platform string `json:"platform"`
}

// HandleAddCreator assigns a creator to a campaign. The quota gate carries
// the campaign id so members whose edit rights come from a campaign-scoped
// grant pass the access half of the check.
func HandleAddCreator(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	workspace := middleware.GetWorkspace(c)

	campaign, ok, err := loadWorkspaceCampaign(c, workspace.ID)
	if !ok {
		return err
	}

	var req addCreatorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	handle := strings.TrimSpace(strings.TrimPrefix(req.Handle, "@"))
	platform := strings.ToLower(strings.TrimSpace(req.Platform))
	if handle == "" || platform == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "Handle and platform are required"})
	}

	campaignRepo := repository.GetGlobalFactory().GetCampaignRepository()
	creatorCount, err := campaignRepo.CountCreators(campaign.ID)
	if err != nil {
		log.Printf("creator add: count failed for campaign %d: %v", campaign.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to add creator"})
	}

	if ok, err := evaluateGate(c, workspace.ID, userCtx.UserID, gate.Request{
		Type:         gate.RequestQuota,
		Resource:     entitlements.ResourceCreatorsPerCampaign,
		CampaignID:   campaign.ID,
		CurrentCount: int(creatorCount),
	}); !ok {
		return err
	}

	creator := &models.CampaignCreator{
		CampaignID: campaign.ID,
		Handle:     handle,
		Platform:   platform,
		Status:     models.CreatorStatusRequested,
	}
	if err := campaignRepo.AddCreator(creator); err != nil {
		log.Printf("creator add failed for campaign %d: %v", campaign.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to add creator"})
	}
	return c.Status(fiber.StatusCreated).JSON(creator)
}

// HandleListCreators lists the creators of a campaign
func HandleListCreators(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	workspace := middleware.GetWorkspace(c)

	campaign, ok, err := loadWorkspaceCampaign(c, workspace.ID)
	if !ok {
		return err
	}

	if ok, err := evaluateGate(c, workspace.ID, userCtx.UserID, gate.Request{
		Type:       gate.RequestCampaignAccess,
		CampaignID: campaign.ID,
	}); !ok {
		return err
	}

	creators, err := repository.GetGlobalFactory().GetCampaignRepository().ListCreators(campaign.ID)
	if err != nil {
		log.Printf("creator list failed for campaign %d: %v", campaign.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to list creators"})
	}
	return c.JSON(fiber.Map{"creators": creators})
}

// HandleRemoveCreator removes a creator assignment
func HandleRemoveCreator(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	workspace := middleware.GetWorkspace(c)

	campaign, ok, err := loadWorkspaceCampaign(c, workspace.ID)
	if !ok {
		return err
	}

	if ok, err := evaluateGate(c, workspace.ID, userCtx.UserID, gate.Request{
		Type:       gate.RequestCampaignEdit,
		CampaignID: campaign.ID,
	}); !ok {
		return err
	}

	creatorID := paramUint(c, "creatorID")
	if creatorID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid creator id"})
	}

	campaignRepo := repository.GetGlobalFactory().GetCampaignRepository()
	creator, err := campaignRepo.GetCreator(creatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Creator not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to remove creator"})
	}
	if creator.CampaignID != campaign.ID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Creator not found"})
	}

	if err := campaignRepo.RemoveCreator(creator.ID); err != nil {
		log.Printf("creator remove failed for %d: %v", creator.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to remove creator"})
	}
	return c.JSON(fiber.Map{"message": "Creator removed"})
}

// loadWorkspaceCampaign resolves the :campaignID parameter. Campaigns from
// other workspaces read as 404 so their existence is not disclosed. When ok
// is false the error response has already been written.
func loadWorkspaceCampaign(c *fiber.Ctx, workspaceID uint) (*models.Campaign, bool, error) {
	campaignID := paramUint(c, "campaignID")
	if campaignID == 0 {
		return nil, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid campaign id"})
	}

	campaign, err := repository.GetGlobalFactory().GetCampaignRepository().GetByID(campaignID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Campaign not found"})
		}
		return nil, false, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load campaign"})
	}
	if campaign.WorkspaceID != workspaceID {
		return nil, false, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Campaign not found"})
	}
	return campaign, true, nil
}
