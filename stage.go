package chord

import (
	"fmt"
	"net/http"
)

// stage.go contains stage instances and the stage channel operations.

// StageChannelPrivacyLevel represents the privacy level of a stage instance.
type StageChannelPrivacyLevel uint8

const (
	StageChannelPrivacyLevelPublic StageChannelPrivacyLevel = 1 + iota
	StageChannelPrivacyLevelGuildOnly
)

// StageInstance is a live stage running inside a stage channel.
type StageInstance struct {
	Topic                string                   `json:"topic"`
	ID                   StageInstanceID          `json:"id"`
	GuildID              GuildID                  `json:"guild_id"`
	ChannelID            ChannelID                `json:"channel_id"`
	PrivacyLevel         StageChannelPrivacyLevel `json:"privacy_level"`
	DiscoverableDisabled bool                     `json:"discoverable_disabled"`
}

// StageInstanceParams are the arguments for editing a running stage instance.
type StageInstanceParams struct {
	Topic        string                   `json:"topic,omitempty"`
	PrivacyLevel StageChannelPrivacyLevel `json:"privacy_level,omitempty"`
}

// StartStageInstance goes live in the stage channel.
func (c *StageChannel) StartStageInstance(s *Session, topic string, privacyLevel StageChannelPrivacyLevel, reason string) (*StageInstance, error) {
	payload := map[string]interface{}{
		"channel_id":    c.ID,
		"topic":         topic,
		"privacy_level": privacyLevel,
	}

	var instance StageInstance

	err := s.Interface.FetchJJ(s, http.MethodPost, "/stage-instances", payload, auditLogReason(reason), &instance)
	if err != nil {
		return nil, err
	}

	return &instance, nil
}

// StageInstance returns the stage instance currently live in the channel.
func (c *StageChannel) StageInstance(s *Session) (*StageInstance, error) {
	endpoint := fmt.Sprintf("/stage-instances/%s", c.ID)

	var instance StageInstance

	err := s.Interface.FetchBJ(s, http.MethodGet, endpoint, "", nil, nil, &instance)
	if err != nil {
		return nil, err
	}

	return &instance, nil
}

// EditStageInstance updates the live stage instance in the channel.
func (c *StageChannel) EditStageInstance(s *Session, params StageInstanceParams, reason string) (*StageInstance, error) {
	endpoint := fmt.Sprintf("/stage-instances/%s", c.ID)

	var instance StageInstance

	err := s.Interface.FetchJJ(s, http.MethodPatch, endpoint, params, auditLogReason(reason), &instance)
	if err != nil {
		return nil, err
	}

	return &instance, nil
}

// EndStageInstance takes the stage offline.
func (c *StageChannel) EndStageInstance(s *Session, reason string) error {
	endpoint := fmt.Sprintf("/stage-instances/%s", c.ID)

	return s.Interface.FetchBJ(s, http.MethodDelete, endpoint, "", nil, auditLogReason(reason), nil)
}
