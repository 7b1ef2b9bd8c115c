package chord

import (
	"bytes"
	"fmt"

	"github.com/WelcomerTeam/Chord/chordjson"
)

// voice.go contains voice state tracking primitives. Voice states are keyed
// by session id, not user id: a user on two devices holds two sessions.

// VoiceState is a member's state within a guild's voice channels.
type VoiceState struct {
	RequestToSpeakTimestamp *Timestamp   `json:"request_to_speak_timestamp,omitempty"`
	ChannelID               *ChannelID   `json:"channel_id"`
	GuildID                 *GuildID     `json:"guild_id,omitempty"`
	Member                  *GuildMember `json:"member,omitempty"`
	SessionID               string       `json:"session_id"`
	UserID                  UserID       `json:"user_id"`
	Deaf                    bool         `json:"deaf"`
	Mute                    bool         `json:"mute"`
	SelfDeaf                bool         `json:"self_deaf"`
	SelfMute                bool         `json:"self_mute"`
	SelfStream              bool         `json:"self_stream"`
	SelfVideo               bool         `json:"self_video"`
	Suppress                bool         `json:"suppress"`
}

// VoiceStateIntent is the effect a voice state update has on tracked state.
type VoiceStateIntent uint8

const (
	// VoiceStateUpsert stores the merged state under its session id.
	VoiceStateUpsert VoiceStateIntent = iota
	// VoiceStateRemove drops the session: the user left voice entirely.
	// Only the owner of the guild's voice state map acts on this.
	VoiceStateRemove
)

// VoiceStatePatch is a raw voice state update. Keys absent from the patch
// leave the previous value untouched. A present and null channel_id signals
// the user left voice, which is different from the key being absent.
type VoiceStatePatch map[string]chordjson.RawMessage

// ParseVoiceStatePatch splits a raw voice state payload into its fields.
func ParseVoiceStatePatch(data []byte) (VoiceStatePatch, error) {
	var patch VoiceStatePatch

	err := chordjson.Unmarshal(data, &patch)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal voice state payload: %w", err)
	}

	return patch, nil
}

// ApplyVoiceStatePatch merges a patch onto a previous voice state and reports
// whether the result should be stored or the session dropped. New sessions
// merge onto the zero VoiceState. Unrecognized keys are ignored. On error the
// previous state is returned unchanged.
func ApplyVoiceStatePatch(previous VoiceState, patch VoiceStatePatch) (VoiceState, VoiceStateIntent, error) {
	next := previous
	intent := VoiceStateUpsert

	for key, raw := range patch {
		var err error

		switch key {
		case "channel_id":
			if isJSONNull(raw) {
				next.ChannelID = nil
				intent = VoiceStateRemove

				continue
			}

			var channelID ChannelID

			err = chordjson.Unmarshal(raw, &channelID)
			if err == nil {
				next.ChannelID = &channelID
			}
		case "guild_id":
			if isJSONNull(raw) {
				next.GuildID = nil

				continue
			}

			var guildID GuildID

			err = chordjson.Unmarshal(raw, &guildID)
			if err == nil {
				next.GuildID = &guildID
			}
		case "member":
			if isJSONNull(raw) {
				next.Member = nil

				continue
			}

			var member GuildMember

			err = chordjson.Unmarshal(raw, &member)
			if err == nil {
				next.Member = &member
			}
		case "request_to_speak_timestamp":
			if isJSONNull(raw) {
				next.RequestToSpeakTimestamp = nil

				continue
			}

			var timestamp Timestamp

			err = chordjson.Unmarshal(raw, &timestamp)
			if err == nil {
				next.RequestToSpeakTimestamp = &timestamp
			}
		case "session_id":
			err = chordjson.Unmarshal(raw, &next.SessionID)
		case "user_id":
			err = chordjson.Unmarshal(raw, &next.UserID)
		case "deaf":
			err = chordjson.Unmarshal(raw, &next.Deaf)
		case "mute":
			err = chordjson.Unmarshal(raw, &next.Mute)
		case "self_deaf":
			err = chordjson.Unmarshal(raw, &next.SelfDeaf)
		case "self_mute":
			err = chordjson.Unmarshal(raw, &next.SelfMute)
		case "self_stream":
			err = chordjson.Unmarshal(raw, &next.SelfStream)
		case "self_video":
			err = chordjson.Unmarshal(raw, &next.SelfVideo)
		case "suppress":
			err = chordjson.Unmarshal(raw, &next.Suppress)
		default:
			continue
		}

		if err != nil {
			return previous, VoiceStateUpsert, fmt.Errorf("failed to apply voice state field %s: %w", key, err)
		}
	}

	return next, intent, nil
}

func isJSONNull(raw chordjson.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, null)
}
