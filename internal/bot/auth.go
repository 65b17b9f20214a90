package bot

import (
	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/hatbot/internal/config"
)

// Tier is the authorization level of a caller
type Tier int

const (
	// TierStandard may add entries and draw
	TierStandard Tier = iota
	// TierElevated may also set, remove, list and reset
	TierElevated
)

// String returns a readable tier name
func (t Tier) String() string {
	switch t {
	case TierElevated:
		return "elevated"
	default:
		return "standard"
	}
}

// CallerContext is the identity and claims of whoever ran a command
type CallerContext struct {
	UserID      string
	Username    string
	RoleIDs     []string
	Permissions int64
}

// Policy configures who counts as a hat admin
type Policy struct {
	RoleID         string
	AdminIDs       []string
	AdminUsernames []string
}

// NewPolicy builds a Policy from configuration
func NewPolicy(cfg *config.Config) Policy {
	return Policy{
		RoleID:         cfg.HatRoleID,
		AdminIDs:       cfg.AdminIDs,
		AdminUsernames: cfg.AdminUsernames,
	}
}

const managePermissions = discordgo.PermissionManageGuild | discordgo.PermissionAdministrator

// ResolveTier decides the caller's tier from their claims alone
func ResolveTier(caller CallerContext, policy Policy) Tier {
	if caller.Permissions&managePermissions != 0 {
		return TierElevated
	}
	if policy.RoleID != "" && contains(caller.RoleIDs, policy.RoleID) {
		return TierElevated
	}
	if caller.UserID != "" && contains(policy.AdminIDs, caller.UserID) {
		return TierElevated
	}
	if caller.Username != "" && contains(policy.AdminUsernames, caller.Username) {
		return TierElevated
	}
	return TierStandard
}

// CallerFromInteraction extracts the caller's claims from an interaction.
// Outside a guild there is no member, so only the user identity is set.
func CallerFromInteraction(i *discordgo.InteractionCreate) CallerContext {
	caller := CallerContext{}
	if i.Member != nil {
		caller.RoleIDs = i.Member.Roles
		caller.Permissions = i.Member.Permissions
		if i.Member.User != nil {
			caller.UserID = i.Member.User.ID
			caller.Username = i.Member.User.Username
		}
	}
	if caller.UserID == "" && i.User != nil {
		caller.UserID = i.User.ID
		caller.Username = i.User.Username
	}
	return caller
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
