package chord

// webhook.go contains the webhook models used by channel webhook operations.

// WebhookType is the type of webhook.
type WebhookType uint8

const (
	WebhookTypeIncoming WebhookType = 1 + iota
	WebhookTypeChannelFollower
	WebhookTypeApplication
)

// Webhook represents a channel webhook.
type Webhook struct {
	GuildID       *GuildID       `json:"guild_id,omitempty"`
	ChannelID     *ChannelID     `json:"channel_id,omitempty"`
	User          *User          `json:"user,omitempty"`
	ApplicationID *ApplicationID `json:"application_id,omitempty"`
	Name          string         `json:"name"`
	Avatar        string         `json:"avatar"`
	Token         string         `json:"token,omitempty"`
	URL           string         `json:"url,omitempty"`
	ID            WebhookID      `json:"id"`
	Type          WebhookType    `json:"type"`
}

// WebhookParams are the arguments for creating a channel webhook.
type WebhookParams struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// WebhookMessage is the payload for executing a webhook.
type WebhookMessage struct {
	AllowedMentions *MessageAllowedMentions `json:"allowed_mentions,omitempty"`
	Content         string                  `json:"content,omitempty"`
	Username        string                  `json:"username,omitempty"`
	AvatarURL       string                  `json:"avatar_url,omitempty"`
	Embeds          EmbedList               `json:"embeds,omitempty"`
	TTS             bool                    `json:"tts,omitempty"`
}
