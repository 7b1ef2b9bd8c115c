package chord

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
)

// message.go contains the message structures and create-message payloads.

// MessageType represents the type of message that has been sent.
type MessageType uint16

const (
	MessageTypeDefault MessageType = iota
	MessageTypeRecipientAdd
	MessageTypeRecipientRemove
	MessageTypeCall
	MessageTypeChannelNameChange
	MessageTypeChannelIconChange
	MessageTypeChannelPinnedMessage
	MessageTypeGuildMemberJoin
	MessageTypeUserPremiumGuildSubscription
	MessageTypeUserPremiumGuildSubscriptionTier1
	MessageTypeUserPremiumGuildSubscriptionTier2
	MessageTypeUserPremiumGuildSubscriptionTier3
	MessageTypeChannelFollowAdd
	_
	MessageTypeGuildDiscoveryDisqualified
	MessageTypeGuildDiscoveryRequalified
	MessageTypeGuildDiscoveryGracePeriodInitialWarning
	MessageTypeGuildDiscoveryGracePeriodFinalWarning
	MessageTypeThreadCreated
	MessageTypeReply
	MessageTypeApplicationCommand
	MessageTypeThreadStarterMessage
	MessageTypeGuildInviteReminder
)

// MessageFlags represents the extra information on a message.
type MessageFlags uint32

const (
	MessageFlagCrossposted MessageFlags = 1 << iota
	MessageFlagIsCrosspost
	MessageFlagSuppressEmbeds
	MessageFlagSourceMessageDeleted
	MessageFlagUrgent
	MessageFlagHasThread
	MessageFlagEphemeral
	MessageFlagLoading
	MessageFlagFailedToMentionSomeRolesInThread
	_
	_
	_
	MessageFlagSuppressNotifications
	MessageFlagIsVoiceMessage
)

// MessageAllowedMentionsType represents all the allowed mention types.
type MessageAllowedMentionsType string

const (
	MessageAllowedMentionsTypeRoles    MessageAllowedMentionsType = "roles"
	MessageAllowedMentionsTypeUsers    MessageAllowedMentionsType = "users"
	MessageAllowedMentionsTypeEveryone MessageAllowedMentionsType = "everyone"
)

// MessageAllowedMentions is the structure of the allowed mentions entry.
type MessageAllowedMentions struct {
	Parse       List[MessageAllowedMentionsType] `json:"parse"`
	Roles       SnowflakeList                    `json:"roles"`
	Users       SnowflakeList                    `json:"users"`
	RepliedUser bool                             `json:"replied_user"`
}

// MessageReference points a message at another message.
type MessageReference struct {
	ID              *MessageID `json:"message_id,omitempty"`
	ChannelID       *ChannelID `json:"channel_id,omitempty"`
	GuildID         *GuildID   `json:"guild_id,omitempty"`
	FailIfNotExists bool       `json:"fail_if_not_exists"`
}

// MessageAttachment represents a message attachment on discord.
type MessageAttachment struct {
	Filename  string    `json:"filename"`
	URL       string    `json:"url"`
	ProxyURL  string    `json:"proxy_url"`
	ID        Snowflake `json:"id"`
	Size      int32     `json:"size"`
	Height    int32     `json:"height"`
	Width     int32     `json:"width"`
	Ephemeral bool      `json:"ephemeral"`
}

// MessageComponentType represents the type of a component.
type MessageComponentType uint16

const (
	MessageComponentTypeActionRow MessageComponentType = 1 + iota
	MessageComponentTypeButton
	MessageComponentTypeStringSelect
	MessageComponentTypeTextInput
	MessageComponentTypeUserSelect
	MessageComponentTypeRoleSelect
	MessageComponentTypeMentionableSelect
	MessageComponentTypeChannelSelect
)

// MessageComponent represents an interactive component attached to a message.
type MessageComponent struct {
	Emoji        *Emoji               `json:"emoji,omitempty"`
	MaxValues    *int32               `json:"max_values,omitempty"`
	MinValues    *int32               `json:"min_values,omitempty"`
	Placeholder  string               `json:"placeholder,omitempty"`
	CustomID     string               `json:"custom_id,omitempty"`
	URL          string               `json:"url,omitempty"`
	Label        string               `json:"label,omitempty"`
	ChannelTypes []ChannelType        `json:"channel_types,omitempty"`
	Components   []MessageComponent   `json:"components,omitempty"`
	Disabled     bool                 `json:"disabled,omitempty"`
	Type         MessageComponentType `json:"type"`
	Style        uint16               `json:"style,omitempty"`
}

// MessageSticker is the partial sticker carried on messages.
type MessageSticker struct {
	Name       string    `json:"name"`
	ID         StickerID `json:"id"`
	FormatType uint16    `json:"format_type"`
}

// Message represents a message on discord.
type Message struct {
	Timestamp         Timestamp            `json:"timestamp"`
	EditedTimestamp   *Timestamp           `json:"edited_timestamp,omitempty"`
	Author            User                 `json:"author"`
	WebhookID         *WebhookID           `json:"webhook_id,omitempty"`
	Member            *GuildMember         `json:"member,omitempty"`
	GuildID           *GuildID             `json:"guild_id,omitempty"`
	ReferencedMessage *Message             `json:"referenced_message,omitempty"`
	MessageReference  *MessageReference    `json:"message_reference,omitempty"`
	Flags             *MessageFlags        `json:"flags,omitempty"`
	Content           string               `json:"content"`
	Embeds            EmbedList            `json:"embeds"`
	MentionRoles      List[RoleID]         `json:"mention_roles"`
	StickerItems      List[MessageSticker] `json:"sticker_items,omitempty"`
	Attachments       []MessageAttachment  `json:"attachments"`
	Components        []MessageComponent   `json:"components,omitempty"`
	Mentions          UserList             `json:"mentions"`
	ID                MessageID            `json:"id"`
	ChannelID         ChannelID            `json:"channel_id"`
	MentionEveryone   bool                 `json:"mention_everyone"`
	TTS               bool                 `json:"tts"`
	Type              MessageType          `json:"type"`
	Pinned            bool                 `json:"pinned"`
}

// File represents a file upload.
type File struct {
	Reader      io.Reader
	Name        string
	ContentType string
}

// MessageParams are the arguments for sending a message. Silent suppresses
// the push and desktop notification of the message.
type MessageParams struct {
	AllowedMentions *MessageAllowedMentions
	Reference       *MessageReference
	Content         string
	Embeds          []Embed
	Components      []MessageComponent
	StickerIDs      []Snowflake
	Files           []File
	Flags           MessageFlags
	TTS             bool
	Silent          bool
}

// buildMessagePayload assembles the create-message body. tts and
// allowed_mentions are always carried; everything else only when populated.
// Silent contributes the suppress-notifications flag bit, and the flags key
// is left out entirely when no flag is set.
func buildMessagePayload(params MessageParams) map[string]any {
	allowedMentions := params.AllowedMentions
	if allowedMentions == nil {
		allowedMentions = &MessageAllowedMentions{
			Parse: List[MessageAllowedMentionsType]{},
		}
	}

	payload := map[string]any{
		"tts":              params.TTS,
		"allowed_mentions": allowedMentions,
	}

	if params.Content != "" {
		payload["content"] = params.Content
	}

	if len(params.Embeds) > 0 {
		payload["embeds"] = EmbedList(params.Embeds)
	}

	if len(params.Components) > 0 {
		payload["components"] = params.Components
	}

	if len(params.StickerIDs) > 0 {
		payload["sticker_ids"] = SnowflakeList(params.StickerIDs)
	}

	if params.Reference != nil {
		payload["message_reference"] = params.Reference
	}

	flags := params.Flags
	if params.Silent {
		flags |= MessageFlagSuppressNotifications
	}

	if flags != 0 {
		payload["flags"] = flags
	}

	return payload
}

// encodeMultipart wraps a message payload and its files into a multipart
// form body.
func encodeMultipart(payloadJSON []byte, files []File) (contentType string, body []byte, err error) {
	buf := new(bytes.Buffer)
	writer := multipart.NewWriter(buf)

	field, err := writer.CreateFormField("payload_json")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create payload field: %w", err)
	}

	_, err = field.Write(payloadJSON)
	if err != nil {
		return "", nil, fmt.Errorf("failed to write payload field: %w", err)
	}

	for index, file := range files {
		fileContentType := file.ContentType
		if fileContentType == "" {
			fileContentType = "application/octet-stream"
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files[%d]"; filename=%q`, index, file.Name))
		header.Set("Content-Type", fileContentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return "", nil, fmt.Errorf("failed to create file part: %w", err)
		}

		_, err = io.Copy(part, file.Reader)
		if err != nil {
			return "", nil, fmt.Errorf("failed to write file part: %w", err)
		}
	}

	err = writer.Close()
	if err != nil {
		return "", nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return writer.FormDataContentType(), buf.Bytes(), nil
}
