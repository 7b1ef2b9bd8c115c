package chord

// user.go represents the user structures referenced by the channel domain.

// UserFlags represents the flags on a user's account.
type UserFlags uint32

// UserPremiumType represents the type of Nitro on a user's account.
type UserPremiumType int

// User premium type.
const (
	UserPremiumTypeNone UserPremiumType = iota
	UserPremiumTypeNitroClassic
	UserPremiumTypeNitro
)

// User represents a user on discord.
type User struct {
	DMChannelID   *ChannelID      `json:"dm_channel_id,omitempty"`
	GlobalName    string          `json:"global_name"`
	Avatar        *string         `json:"avatar"`
	Username      string          `json:"username"`
	Discriminator string          `json:"discriminator"`
	ID            UserID          `json:"id"`
	PremiumType   UserPremiumType `json:"premium_type"`
	Flags         UserFlags       `json:"flags"`
	PublicFlags   UserFlags       `json:"public_flags"`
	Bot           bool            `json:"bot"`
	System        bool            `json:"system"`
}

// GuildMember represents a guild member on discord.
type GuildMember struct {
	User                       *User        `json:"user,omitempty"`
	GuildID                    *GuildID     `json:"guild_id,omitempty"`
	CommunicationDisabledUntil *string      `json:"communication_disabled_until,omitempty"`
	Nick                       string       `json:"nick,omitempty"`
	Avatar                     string       `json:"avatar,omitempty"`
	PremiumSince               string       `json:"premium_since,omitempty"`
	JoinedAt                   Timestamp    `json:"joined_at,omitempty"`
	Roles                      List[RoleID] `json:"roles"`
	Permissions                Int64        `json:"permissions"`
	Flags                      int          `json:"flags"`
	Deaf                       bool         `json:"deaf"`
	Mute                       bool         `json:"mute"`
	Pending                    bool         `json:"pending"`
}

// Emoji represents an Emoji on discord.
type Emoji struct {
	GuildID   *GuildID      `json:"guild_id,omitempty"`
	User      *User         `json:"user,omitempty"`
	Name      string        `json:"name"`
	Roles     SnowflakeList `json:"roles,omitempty"`
	ID        EmojiID       `json:"id"`
	Managed   bool          `json:"managed"`
	Animated  bool          `json:"animated"`
	Available bool          `json:"available"`
}
