package controllers

import (
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/campaignfox/CampaignFox/app/models"
	"github.com/campaignfox/CampaignFox/app/repository"
	"github.com/campaignfox/CampaignFox/internal/pkg/entitlements"
	"github.com/campaignfox/CampaignFox/internal/pkg/gate"
	"github.com/campaignfox/CampaignFox/internal/pkg/middleware"
	"github.com/campaignfox/CampaignFox/internal/pkg/plan"
	"github.com/campaignfox/CampaignFox/internal/pkg/usercontext"
)

type createWorkspaceRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// HandleCreateWorkspace creates a workspace owned by the current user. The
// owner membership and a free subscription row are created with it.
func HandleCreateWorkspace(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req createWorkspaceRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if slug == "" {
		slug = slugify(req.Name)
	}

	workspace := &models.Workspace{
		Name:    strings.TrimSpace(req.Name),
		Slug:    slug,
		OwnerID: userCtx.UserID,
	}
	if err := workspace.Validate(); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": err.Error()})
	}

	repo := repository.GetGlobalFactory().GetWorkspaceRepository()
	if exists, err := repo.SlugExists(workspace.Slug); err != nil {
		log.Printf("workspace create: slug check failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create workspace"})
	} else if exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "Slug is already taken"})
	}

	if err := repo.Create(workspace); err != nil {
		log.Printf("workspace create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to create workspace"})
	}

	return c.Status(fiber.StatusCreated).JSON(workspace)
}

// HandleListWorkspaces lists the workspaces the current user belongs to
func HandleListWorkspaces(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	workspaces, err := repository.GetGlobalFactory().GetWorkspaceRepository().ListByUser(userCtx.UserID)
	if err != nil {
		log.Printf("workspace list failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to list workspaces"})
	}
	return c.JSON(fiber.Map{"workspaces": workspaces})
}

// HandleGetWorkspace returns the workspace plus the caller's role and
// effective permissions for UI affordances.
func HandleGetWorkspace(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	workspace := middleware.GetWorkspace(c)

	snap, err := gate.Default().Loader().AccessSnapshot(workspace.ID, userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load access state"})
	}
	if !snap.CanAccessWorkspace() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": string(gate.ReasonNoAccess), "message": "you do not have access to this workspace"})
	}

	return c.JSON(fiber.Map{
		"workspace": workspace,
		"permissions": fiber.Map{
			"can_edit_workspace":  snap.CanEditWorkspace(),
			"can_access_calendar": snap.CanAccessCalendar(),
			"can_edit_calendar":   snap.CanEditCalendar(),
			"can_manage_team":     snap.CanManageTeam(),
		},
	})
}

// HandleGetEntitlements returns the subscription snapshot with resolved
// limits, remaining quotas and feature availability. Access is checked
// before any plan detail is disclosed.
func HandleGetEntitlements(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	workspace := middleware.GetWorkspace(c)

	snap, err := gate.Default().Loader().AccessSnapshot(workspace.ID, userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load access state"})
	}
	if !snap.CanAccessWorkspace() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": string(gate.ReasonNoAccess), "message": "you do not have access to this workspace"})
	}

	sub, err := gate.Default().Loader().Subscription(workspace.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscription"})
	}

	repos := repository.GetGlobalRepositories()
	campaignCount, err := repos.Campaign.CountActiveByWorkspace(workspace.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count campaigns"})
	}
	memberCount, err := repos.Membership.CountActiveByWorkspace(workspace.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to count members"})
	}

	tier := entitlements.EffectiveTier(sub)
	features := make([]string, 0)
	for _, f := range []plan.Feature{
		plan.FeatureAPIAccess,
		plan.FeatureWhiteLabel,
		plan.FeatureAdvancedAnalytics,
		plan.FeatureContentCalendar,
		plan.FeatureCreatorCRM,
		plan.FeatureBulkMessaging,
		plan.FeatureCustomReports,
		plan.FeaturePrioritySupport,
	} {
		if entitlements.CanAccessFeature(sub, f) {
			features = append(features, string(f))
		}
	}

	return c.JSON(fiber.Map{
		"tier":            tier,
		"has_paid_access": entitlements.HasPaidAccess(sub),
		"in_grace_period": entitlements.IsInGracePeriod(sub),
		"agency_bypass":   entitlements.HasAgencyBypass(sub),
		"limits":          entitlements.EffectiveLimits(sub),
		"remaining": fiber.Map{
			"campaigns":    entitlements.RemainingQuota(sub, entitlements.ResourceCampaigns, int(campaignCount)),
			"team_members": entitlements.RemainingQuota(sub, entitlements.ResourceTeamMembers, int(memberCount)),
		},
		"features": features,
	})
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '-'
		default:
			return -1
		}
	}, slug)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = fmt.Sprintf("workspace-%s", uuid.NewString()[:8])
	}
	return slug
}
