package controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/campaignfox/CampaignFox/app/models"
	"github.com/campaignfox/CampaignFox/app/repository"
	"github.com/campaignfox/CampaignFox/internal/pkg/access"
	"github.com/campaignfox/CampaignFox/internal/pkg/gate"
	"github.com/campaignfox/CampaignFox/internal/pkg/middleware"
	"github.com/campaignfox/CampaignFox/internal/pkg/usercontext"
)

type createScopeGrantRequest struct {
	UserID     uint   `json:"user_id"`
	ScopeType  string `json:"scope_type"`
	CampaignID uint   `json:"campaign_id"`
	Level      string `json:"level"`
}

// HandleCreateScopeGrant adds a grant for an active member. The request is
// structured; it is re-encoded through the canonical scope encoding so
// only well-formed values ever reach the table.
func HandleCreateScopeGrant(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	workspace := middleware.GetWorkspace(c)

	if ok, err := evaluateGate(c, workspace.ID, userCtx.UserID, gate.Request{Type: gate.RequestTeamManagement}); !ok {
		return err
	}

	var req createScopeGrantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	ref, ok := scopeRefFromRequest(req)
	if !ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "scope_type must be workspace, campaign or calendar and level must be editor or viewer"})
	}

	repos := repository.GetGlobalRepositories()
	if _, err := repos.Membership.GetActive(workspace.ID, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "User is not an active member of this workspace"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create grant"})
	}

	if ref.Type == access.ScopeCampaign {
		campaign, err := repos.Campaign.GetByID(ref.CampaignID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "Campaign not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create grant"})
		}
		if campaign.WorkspaceID != workspace.ID {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "Campaign does not belong to this workspace"})
		}
	}

	scopeType, scopeValue := access.EncodeScopeValue(ref)
	grant := &models.ScopeGrant{
		WorkspaceID: workspace.ID,
		UserID:      req.UserID,
		ScopeType:   scopeType,
		ScopeValue:  scopeValue,
	}
	if err := repos.ScopeGrant.Create(grant); err != nil {
		log.Printf("scope grant create failed for workspace %d: %v", workspace.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create grant"})
	}

	gate.Default().Loader().InvalidateUser(workspace.ID, req.UserID)

	return c.Status(fiber.StatusCreated).JSON(grant)
}

// HandleListScopeGrants lists the grants held by one member
func HandleListScopeGrants(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	workspace := middleware.GetWorkspace(c)

	if ok, err := evaluateGate(c, workspace.ID, userCtx.UserID, gate.Request{Type: gate.RequestTeamManagement}); !ok {
		return err
	}

	targetID := paramUint(c, "userID")
	if targetID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid user id"})
	}

	grants, err := repository.GetGlobalFactory().GetScopeGrantRepository().ListByMember(workspace.ID, targetID)
	if err != nil {
		log.Printf("scope grant list failed for workspace %d: %v", workspace.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to list grants"})
	}
	return c.JSON(fiber.Map{"grants": grants})
}

// HandleDeleteScopeGrant removes a single grant
func HandleDeleteScopeGrant(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	workspace := middleware.GetWorkspace(c)

	if ok, err := evaluateGate(c, workspace.ID, userCtx.UserID, gate.Request{Type: gate.RequestTeamManagement}); !ok {
		return err
	}

	grantID := paramUint(c, "grantID")
	if grantID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid grant id"})
	}

	repo := repository.GetGlobalFactory().GetScopeGrantRepository()
	grant, err := repo.GetByID(grantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Grant not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete grant"})
	}
	if grant.WorkspaceID != workspace.ID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Grant not found"})
	}

	if err := repo.Delete(grant.ID); err != nil {
		log.Printf("scope grant delete failed for grant %d: %v", grant.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to delete grant"})
	}

	gate.Default().Loader().InvalidateUser(workspace.ID, grant.UserID)

	return c.JSON(fiber.Map{"message": "Grant deleted"})
}

func scopeRefFromRequest(req createScopeGrantRequest) (access.ScopeRef, bool) {
	var level access.Level
	switch req.Level {
	case string(access.LevelEditor):
		level = access.LevelEditor
	case string(access.LevelViewer):
		level = access.LevelViewer
	default:
		return access.ScopeRef{}, false
	}

	switch req.ScopeType {
	case string(access.ScopeWorkspace):
		return access.ScopeRef{Type: access.ScopeWorkspace, Level: level}, true
	case string(access.ScopeCalendar):
		return access.ScopeRef{Type: access.ScopeCalendar, Level: level}, true
	case string(access.ScopeCampaign):
		if req.CampaignID == 0 {
			return access.ScopeRef{}, false
		}
		return access.ScopeRef{Type: access.ScopeCampaign, CampaignID: req.CampaignID, Level: level}, true
	default:
		return access.ScopeRef{}, false
	}
}
