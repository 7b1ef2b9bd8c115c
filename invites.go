package chord

// invites.go contains the invite models used by channel invite operations.

// InviteTargetType represents the type of target an invite points at.
type InviteTargetType uint8

const (
	InviteTargetTypeStream InviteTargetType = 1 + iota
	InviteTargetTypeEmbeddedApplication
)

// Invite represents an invite into a guild channel.
type Invite struct {
	CreatedAt                Timestamp         `json:"created_at,omitempty"`
	ExpiresAt                *Timestamp        `json:"expires_at,omitempty"`
	GuildID                  *GuildID          `json:"guild_id,omitempty"`
	Channel                  *BaseChannel      `json:"channel,omitempty"`
	Inviter                  *User             `json:"inviter,omitempty"`
	TargetUser               *User             `json:"target_user,omitempty"`
	TargetType               *InviteTargetType `json:"target_type,omitempty"`
	Code                     string            `json:"code"`
	Uses                     int32             `json:"uses,omitempty"`
	MaxUses                  int32             `json:"max_uses,omitempty"`
	MaxAge                   int32             `json:"max_age,omitempty"`
	ApproximatePresenceCount int32             `json:"approximate_presence_count,omitempty"`
	ApproximateMemberCount   int32             `json:"approximate_member_count,omitempty"`
	Temporary                bool              `json:"temporary,omitempty"`
}

// InviteParams are the arguments for creating a channel invite. MaxAge and
// MaxUses are always sent: zero deliberately means unlimited.
type InviteParams struct {
	TargetType          *InviteTargetType `json:"target_type,omitempty"`
	TargetUserID        *UserID           `json:"target_user_id,omitempty"`
	TargetApplicationID *ApplicationID    `json:"target_application_id,omitempty"`
	MaxAge              int32             `json:"max_age"`
	MaxUses             int32             `json:"max_uses"`
	Temporary           bool              `json:"temporary"`
	Unique              bool              `json:"unique"`
}
