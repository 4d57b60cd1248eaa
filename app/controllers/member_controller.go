package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/campaignfox/CampaignFox/app/models"
	"github.com/campaignfox/CampaignFox/app/repository"
	"github.com/campaignfox/CampaignFox/internal/pkg/access"
	"github.com/campaignfox/CampaignFox/internal/pkg/entitlements"
	"github.com/campaignfox/CampaignFox/internal/pkg/env"
	"github.com/campaignfox/CampaignFox/internal/pkg/gate"
	"github.com/campaignfox/CampaignFox/internal/pkg/mail"
	"github.com/campaignfox/CampaignFox/internal/pkg/middleware"
	"github.com/campaignfox/CampaignFox/internal/pkg/security"
	"github.com/campaignfox/CampaignFox/internal/pkg/usercontext"
)

const inviteTokenTTL = 7 * 24 * time.Hour

type inviteMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// HandleInviteMember creates a pending membership and mails an invite link.
// Team management rights and a free seat are both required; pending invites
// do not consume a seat until accepted.
func HandleInviteMember(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	workspace := middleware.GetWorkspace(c)

	var req inviteMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "Email is required"})
	}
	role := access.ParseRole(req.Role)
	if role == access.RoleNone || role == access.RoleBrandOwner {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "validation_failed", "message": "Role must be one of agency_admin, brand_member, agency_ops"})
	}

	memberRepo := repository.GetGlobalFactory().GetMembershipRepository()
	activeCount, err := memberRepo.CountActiveByWorkspace(workspace.ID)
	if err != nil {
		log.Printf("member invite: count failed for workspace %d: %v", workspace.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to invite member"})
	}

	if ok, err := evaluateGate(c, workspace.ID, userCtx.UserID, gate.Request{
		Type:         gate.RequestQuota,
		Resource:     entitlements.ResourceTeamMembers,
		CurrentCount: int(activeCount),
	}); !ok {
		return err
	}

	nonce, err := randomNonce()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to invite member"})
	}

	member := models.NewPendingInvite(workspace.ID, string(role), email, nonce)
	if err := memberRepo.Create(member); err != nil {
		log.Printf("member invite: create failed for workspace %d: %v", workspace.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to invite member"})
	}

	token, err := security.GenerateInviteToken(member.ID, workspace.ID, nonce, inviteTokenTTL, inviteSecret())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to invite member"})
	}

	if err := mail.SendInviteMail(email, workspace.Name, token); err != nil {
		// The invite row exists; the link can be re-sent later.
		log.Printf("member invite: mail to %s failed: %v", email, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"member": member})
}

type acceptInviteRequest struct {
	Token string `json:"token"`
}

// HandleAcceptInvite redeems an invite token for the logged-in user. The
// token signature, the stored nonce and the invited email all have to
// match before the membership is activated.
func HandleAcceptInvite(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	var req acceptInviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}

	claims, err := security.ValidateInviteToken(req.Token, inviteSecret())
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_token", "message": "Invite link is invalid or expired"})
	}

	repos := repository.GetGlobalRepositories()
	member, err := repos.Membership.GetByID(claims.MembershipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Invite not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to accept invite"})
	}
	if member.WorkspaceID != claims.WorkspaceID || member.InviteToken == "" || member.InviteToken != claims.Nonce {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_token", "message": "Invite link is invalid or expired"})
	}
	if member.Status != models.MemberStatusPending {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "Invite has already been used"})
	}

	user, err := repos.User.GetByID(userCtx.UserID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to accept invite"})
	}
	if !strings.EqualFold(user.Email, member.InvitedEmail) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden", "message": "Invite was sent to a different email address"})
	}

	if err := repos.Membership.Activate(member, userCtx.UserID); err != nil {
		if errors.Is(err, repository.ErrAlreadyMember) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "You are already a member of this workspace"})
		}
		log.Printf("member accept: activate failed for membership %d: %v", member.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to accept invite"})
	}

	gate.Default().Loader().InvalidateUser(member.WorkspaceID, userCtx.UserID)

	return c.JSON(fiber.Map{"member": member})
}

// HandleListMembers lists all memberships of the workspace
func HandleListMembers(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	workspace := middleware.GetWorkspace(c)

	if ok, err := evaluateGate(c, workspace.ID, userCtx.UserID, gate.Request{Type: gate.RequestTeamManagement}); !ok {
		return err
	}

	members, err := repository.GetGlobalFactory().GetMembershipRepository().ListByWorkspace(workspace.ID)
	if err != nil {
		log.Printf("member list failed for workspace %d: %v", workspace.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to list members"})
	}
	return c.JSON(fiber.Map{"members": members})
}

// HandleRemoveMember deletes a membership together with its scope grants.
// The owner membership cannot be removed.
func HandleRemoveMember(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	workspace := middleware.GetWorkspace(c)

	memberID := paramUint(c, "memberID")
	if memberID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid member id"})
	}

	if ok, err := evaluateGate(c, workspace.ID, userCtx.UserID, gate.Request{Type: gate.RequestTeamManagement}); !ok {
		return err
	}

	memberRepo := repository.GetGlobalFactory().GetMembershipRepository()
	member, err := memberRepo.GetByID(memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Member not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to remove member"})
	}
	if member.WorkspaceID != workspace.ID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Member not found"})
	}
	if member.Role == models.MemberRoleBrandOwner {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "conflict", "message": "The workspace owner cannot be removed"})
	}

	if err := memberRepo.DeleteWithGrants(member); err != nil {
		log.Printf("member remove: delete failed for membership %d: %v", member.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to remove member"})
	}

	if member.UserID != nil {
		gate.Default().Loader().InvalidateUser(workspace.ID, *member.UserID)
	}

	return c.JSON(fiber.Map{"message": "Member removed"})
}

func inviteSecret() string {
	return env.GetEnv("INVITE_TOKEN_SECRET", env.GetEnv("APP_SECRET", ""))
}

func randomNonce() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
