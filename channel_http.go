package chord

import (
	"fmt"
	"net/http"

	"github.com/WelcomerTeam/Chord/chordjson"
)

// channel_http.go contains the channel operations issued over REST.

// FetchChannel fetches a single channel by id and decodes it into its
// concrete variant. Unknown channel types return ErrUnsupportedChannelType.
func FetchChannel(s *Session, channelID ChannelID) (Channel, error) {
	endpoint := fmt.Sprintf("/channels/%s", channelID)

	body, err := s.Interface.Fetch(s, http.MethodGet, endpoint, "", nil, nil)
	if err != nil {
		return nil, err
	}

	channel, ok, err := DecodeChannel(body)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrUnsupportedChannelType
	}

	return channel, nil
}

// FetchGuildChannels fetches a guild's channels. Channels of unknown types
// are skipped.
func FetchGuildChannels(s *Session, guildID GuildID) ([]GuildChannel, error) {
	endpoint := fmt.Sprintf("/guilds/%s/channels", guildID)

	var payloads []chordjson.RawMessage

	err := s.Interface.FetchBJ(s, http.MethodGet, endpoint, "", nil, nil, &payloads)
	if err != nil {
		return nil, err
	}

	channels := make([]GuildChannel, 0, len(payloads))

	for _, payload := range payloads {
		channel, ok, err := DecodeGuildChannel(payload, guildID)
		if err != nil {
			return nil, err
		}

		if !ok {
			continue
		}

		channels = append(channels, channel)
	}

	return channels, nil
}

func channelInvites(s *Session, channelID ChannelID) ([]Invite, error) {
	endpoint := fmt.Sprintf("/channels/%s/invites", channelID)

	var invites []Invite

	err := s.Interface.FetchBJ(s, http.MethodGet, endpoint, "", nil, nil, &invites)
	if err != nil {
		return nil, err
	}

	return invites, nil
}

func createChannelInvite(s *Session, channelID ChannelID, params InviteParams, reason string) (*Invite, error) {
	endpoint := fmt.Sprintf("/channels/%s/invites", channelID)

	var invite Invite

	err := s.Interface.FetchJJ(s, http.MethodPost, endpoint, params, auditLogReason(reason), &invite)
	if err != nil {
		return nil, err
	}

	return &invite, nil
}

func deleteChannelOverwrite(s *Session, channelID ChannelID, overwriteID Snowflake, reason string) error {
	endpoint := fmt.Sprintf("/channels/%s/permissions/%d", channelID, overwriteID)

	return s.Interface.FetchBJ(s, http.MethodDelete, endpoint, "", nil, auditLogReason(reason), nil)
}

func deleteChannel(s *Session, channelID ChannelID, reason string) error {
	endpoint := fmt.Sprintf("/channels/%s", channelID)

	return s.Interface.FetchBJ(s, http.MethodDelete, endpoint, "", nil, auditLogReason(reason), nil)
}

// modifyChannel sends a sparse channel patch and returns the updated channel
// payload. Keys with a nil value marshal as explicit JSON nulls, which the
// platform treats differently from an omitted key.
func modifyChannel(s *Session, channelID ChannelID, patch map[string]interface{}, reason string) ([]byte, error) {
	endpoint := fmt.Sprintf("/channels/%s", channelID)

	body, err := chordjson.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return s.Interface.Fetch(s, http.MethodPatch, endpoint, "application/json", body, auditLogReason(reason))
}

func (c *BaseGuildChannel) Invites(s *Session) ([]Invite, error) {
	return channelInvites(s, c.ID)
}

func (c *BaseGuildChannel) CreateInvite(s *Session, params InviteParams, reason string) (*Invite, error) {
	return createChannelInvite(s, c.ID, params, reason)
}

// UpdateOverwrites replaces the channel's full overwrite set in a single
// request.
func (c *BaseGuildChannel) UpdateOverwrites(s *Session, overwrites []ChannelOverwrite, reason string) error {
	patch := map[string]interface{}{
		"permission_overwrites": ChannelOverwriteList(overwrites),
	}

	_, err := modifyChannel(s, c.ID, patch, reason)

	return err
}

func (c *BaseGuildChannel) DeleteOverwrite(s *Session, overwriteID Snowflake, reason string) error {
	return deleteChannelOverwrite(s, c.ID, overwriteID, reason)
}

func (c *BaseGuildChannel) Delete(s *Session, reason string) error {
	return deleteChannel(s, c.ID, reason)
}

func (c *BaseGuildChannel) Webhooks(s *Session) ([]Webhook, error) {
	endpoint := fmt.Sprintf("/channels/%s/webhooks", c.ID)

	var webhooks []Webhook

	err := s.Interface.FetchBJ(s, http.MethodGet, endpoint, "", nil, nil, &webhooks)
	if err != nil {
		return nil, err
	}

	return webhooks, nil
}

func (c *BaseGuildChannel) CreateWebhook(s *Session, params WebhookParams, reason string) (*Webhook, error) {
	endpoint := fmt.Sprintf("/channels/%s/webhooks", c.ID)

	var webhook Webhook

	err := s.Interface.FetchJJ(s, http.MethodPost, endpoint, params, auditLogReason(reason), &webhook)
	if err != nil {
		return nil, err
	}

	return &webhook, nil
}

// FollowedChannel is returned when an announcement channel is followed.
type FollowedChannel struct {
	ChannelID ChannelID `json:"channel_id"`
	WebhookID WebhookID `json:"webhook_id"`
}

// Follow subscribes the target channel to this announcement channel. The
// channel type is checked locally before any request is made: following is
// only valid on announcement channels and the platform error for it is
// unhelpfully generic.
func (c *TextChannel) Follow(s *Session, targetID ChannelID, reason string) (*FollowedChannel, error) {
	if !c.IsAnnouncement() {
		return nil, ErrNotAnnouncementChannel
	}

	endpoint := fmt.Sprintf("/channels/%s/followers", c.ID)

	payload := map[string]interface{}{
		"webhook_channel_id": targetID,
	}

	var followed FollowedChannel

	err := s.Interface.FetchJJ(s, http.MethodPost, endpoint, payload, auditLogReason(reason), &followed)
	if err != nil {
		return nil, err
	}

	return &followed, nil
}
