package internal

import (
	"time"

	chord "github.com/WelcomerTeam/Chord"
	"github.com/WelcomerTeam/Chord/chordjson"
)

// ChordState stores the channel-focused view of every guild the daemon
// observes: guild channels and threads, voice sessions, stage instances and
// recently used DM channels.
type ChordState struct {
	GuildChannels DoubleCache[chord.GuildID, chord.ChannelID, chord.GuildChannel]

	// GuildVoiceStates is keyed by session id. A user connected from two
	// devices holds two sessions and they move independently.
	GuildVoiceStates DoubleCache[chord.GuildID, string, chord.VoiceState]

	StageInstances DoubleCache[chord.GuildID, chord.ChannelID, chord.StageInstance]

	DMChannels Cache[chord.ChannelID, StateDMChannel]

	Users Cache[chord.UserID, StateUser]
}

// ChordState resolves cached guild channels for the library's category and
// permission sync lookups.
var _ chord.StateProvider = (*ChordState)(nil)

func NewChordState() *ChordState {
	return &ChordState{
		GuildChannels: NewDoubleCache[chord.GuildID, chord.ChannelID, chord.GuildChannel](0, 50),

		GuildVoiceStates: NewDoubleCache[chord.GuildID, string, chord.VoiceState](0, 50),

		StageInstances: NewDoubleCache[chord.GuildID, chord.ChannelID, chord.StageInstance](0, 10),

		DMChannels: NewCache[chord.ChannelID, StateDMChannel](50),

		Users: NewCache[chord.UserID, StateUser](100),
	}
}

//
// Channel Operations
//

// GetGuildChannel returns the channel with the same ID from the cache.
// Returns a boolean to signify a match or not.
func (st *ChordState) GetGuildChannel(guildID chord.GuildID, channelID chord.ChannelID) (chord.GuildChannel, bool) {
	return st.GuildChannels.Load(guildID, channelID)
}

// SetGuildChannel creates or updates a channel entry in the cache. Threads
// live alongside their parents: both are guild channels.
func (st *ChordState) SetGuildChannel(channel chord.GuildChannel) {
	st.GuildChannels.Store(channel.ChannelGuildID(), channel.ChannelID(), channel)
}

// RemoveGuildChannel removes a channel from the cache.
func (st *ChordState) RemoveGuildChannel(guildID chord.GuildID, channelID chord.ChannelID) {
	st.GuildChannels.Delete(guildID, channelID)
}

// UpdateGuildChannel runs a function on a cached channel, storing the
// returned channel back.
func (st *ChordState) UpdateGuildChannel(guildID chord.GuildID, channelID chord.ChannelID, fn func(channel chord.GuildChannel) chord.GuildChannel) (chord.GuildChannel, bool) {
	return st.GuildChannels.Update(guildID, channelID, fn)
}

// GetAllGuildChannels returns all channels of a specific guild from the cache.
func (st *ChordState) GetAllGuildChannels(guildID chord.GuildID) ([]chord.GuildChannel, bool) {
	guildChannels, ok := st.GuildChannels.Inner(guildID)
	if !ok {
		return nil, false
	}

	guildChannelsList := make([]chord.GuildChannel, 0, guildChannels.Count())

	guildChannels.Range(func(_ chord.ChannelID, guildChannel chord.GuildChannel) bool {
		guildChannelsList = append(guildChannelsList, guildChannel)

		return false
	})

	return guildChannelsList, true
}

// GetGuildThreads returns all cached threads of a guild, optionally filtered
// to one parent channel. A nil parentID returns every thread.
func (st *ChordState) GetGuildThreads(guildID chord.GuildID, parentID *chord.ChannelID) []*chord.Thread {
	guildChannels, ok := st.GuildChannels.Inner(guildID)
	if !ok {
		return nil
	}

	threads := make([]*chord.Thread, 0)

	guildChannels.Range(func(_ chord.ChannelID, guildChannel chord.GuildChannel) bool {
		thread, isThread := guildChannel.(*chord.Thread)
		if !isThread {
			return false
		}

		if parentID != nil && thread.ParentID != *parentID {
			return false
		}

		threads = append(threads, thread)

		return false
	})

	return threads
}

// RemoveAllGuildChannels removes all channels of a specific guild from the
// cache.
func (st *ChordState) RemoveAllGuildChannels(guildID chord.GuildID) {
	st.GuildChannels.ClearKey(guildID)
}

// RemoveGuild removes everything tracked for a guild.
func (st *ChordState) RemoveGuild(guildID chord.GuildID) {
	st.GuildChannels.ClearKey(guildID)
	st.GuildVoiceStates.ClearKey(guildID)
	st.StageInstances.ClearKey(guildID)
}

//
// DM Channel Operations
//

// GetDMChannel returns a recently used DM channel. Reading one pushes its
// expiry back out.
func (st *ChordState) GetDMChannel(channelID chord.ChannelID) (chord.DMChannel, bool) {
	dmChannel, ok := st.DMChannels.Load(channelID)

	if !ok || int64(dmChannel.ExpiresAt) < time.Now().Unix() {
		return chord.DMChannel{}, false
	}

	dmChannel.ExpiresAt = chord.Int64(time.Now().Add(dmChannelExpiration).Unix())

	st.DMChannels.Store(channelID, dmChannel)

	return dmChannel.Channel, true
}

// AddDMChannel caches a DM channel against the user it belongs to.
func (st *ChordState) AddDMChannel(userID chord.UserID, channel chord.DMChannel) {
	st.DMChannels.Store(channel.ID, StateDMChannel{
		Channel:   channel,
		UserID:    userID,
		ExpiresAt: chord.Int64(time.Now().Add(dmChannelExpiration).Unix()),
	})

	if recipient, ok := channel.Recipient(); ok {
		st.SetUser(recipient)
	}
}

// RemoveDMChannelByChannelID removes a DM channel given its channel id.
func (st *ChordState) RemoveDMChannelByChannelID(channelID chord.ChannelID) {
	st.DMChannels.Delete(channelID)
}

// RemoveDMChannelByUserID removes a DM channel given its user id.
func (st *ChordState) RemoveDMChannelByUserID(userID chord.UserID) {
	var channelID chord.ChannelID

	st.DMChannels.Range(func(id chord.ChannelID, dmChannel StateDMChannel) bool {
		if dmChannel.UserID == userID {
			channelID = id

			return true
		}

		return false
	})

	if channelID != 0 {
		st.DMChannels.Delete(channelID)
	}
}

// EjectExpiredDMChannels drops DM channels past their expiry and returns how
// many were ejected.
func (st *ChordState) EjectExpiredDMChannels() int {
	now := time.Now().Unix()

	ejected := make([]chord.ChannelID, 0)

	st.DMChannels.Range(func(channelID chord.ChannelID, dmChannel StateDMChannel) bool {
		if int64(dmChannel.ExpiresAt) < now {
			ejected = append(ejected, channelID)
		}

		return false
	})

	for _, channelID := range ejected {
		st.DMChannels.Delete(channelID)
	}

	return len(ejected)
}

//
// VoiceState Operations
//

// GetVoiceState returns the voice state stored under a session id.
func (st *ChordState) GetVoiceState(guildID chord.GuildID, sessionID string) (chord.VoiceState, bool) {
	return st.GuildVoiceStates.Load(guildID, sessionID)
}

// GetAllVoiceStates returns all voice sessions of a specific guild from the
// cache.
func (st *ChordState) GetAllVoiceStates(guildID chord.GuildID) ([]chord.VoiceState, bool) {
	voiceStates, ok := st.GuildVoiceStates.Inner(guildID)
	if !ok {
		return nil, false
	}

	voiceStatesList := make([]chord.VoiceState, 0, voiceStates.Count())

	voiceStates.Range(func(_ string, voiceState chord.VoiceState) bool {
		voiceStatesList = append(voiceStatesList, voiceState)

		return false
	})

	return voiceStatesList, true
}

// UpdateVoiceState merges a voice state update into the guild's sessions.
// The state map is the sole owner of removal: a null channel id drops the
// session here and nowhere else, so replayed leave events are harmless.
func (st *ChordState) UpdateVoiceState(guildID chord.GuildID, patch chord.VoiceStatePatch) (chord.VoiceState, chord.VoiceStateIntent, error) {
	var sessionID string

	if raw, ok := patch["session_id"]; ok {
		if err := chordjson.Unmarshal(raw, &sessionID); err != nil {
			return chord.VoiceState{}, chord.VoiceStateUpsert, ErrMissingSessionID
		}
	}

	if sessionID == "" {
		return chord.VoiceState{}, chord.VoiceStateUpsert, ErrMissingSessionID
	}

	previous, _ := st.GuildVoiceStates.Load(guildID, sessionID)

	next, intent, err := chord.ApplyVoiceStatePatch(previous, patch)
	if err != nil {
		return previous, chord.VoiceStateUpsert, err
	}

	if next.Member != nil && next.Member.User != nil {
		st.SetUser(*next.Member.User)
	}

	switch intent {
	case chord.VoiceStateRemove:
		st.GuildVoiceStates.Delete(guildID, sessionID)
	default:
		st.GuildVoiceStates.Store(guildID, sessionID, next)
	}

	return next, intent, nil
}

// RemoveVoiceState drops a session. Removing an absent session is a no-op.
func (st *ChordState) RemoveVoiceState(guildID chord.GuildID, sessionID string) {
	st.GuildVoiceStates.Delete(guildID, sessionID)
}

// CountVoiceChannelMembers counts the sessions currently in a voice channel.
func (st *ChordState) CountVoiceChannelMembers(guildID chord.GuildID, channelID chord.ChannelID) int32 {
	voiceStates, ok := st.GuildVoiceStates.Inner(guildID)
	if !ok {
		return 0
	}

	var count int32

	voiceStates.Range(func(_ string, voiceState chord.VoiceState) bool {
		if voiceState.ChannelID != nil && *voiceState.ChannelID == channelID {
			count++
		}

		return false
	})

	return count
}

//
// Stage Instance Operations
//

// GetStageInstance returns the stage instance live in a channel.
func (st *ChordState) GetStageInstance(guildID chord.GuildID, channelID chord.ChannelID) (chord.StageInstance, bool) {
	return st.StageInstances.Load(guildID, channelID)
}

// SetStageInstance creates or updates a stage instance entry in the cache.
func (st *ChordState) SetStageInstance(instance chord.StageInstance) {
	st.StageInstances.Store(instance.GuildID, instance.ChannelID, instance)
}

// RemoveStageInstance removes a stage instance from the cache.
func (st *ChordState) RemoveStageInstance(guildID chord.GuildID, channelID chord.ChannelID) {
	st.StageInstances.Delete(guildID, channelID)
}

//
// User Operations
//

// GetUser returns the user with the same ID from the cache.
func (st *ChordState) GetUser(userID chord.UserID) (chord.User, bool) {
	stateUser, ok := st.Users.Load(userID)
	if !ok {
		return chord.User{}, false
	}

	return stateUser.User, true
}

// SetUser creates or updates a user entry in the cache.
func (st *ChordState) SetUser(user chord.User) {
	st.Users.Store(user.ID, StateUser{
		User:        user,
		LastUpdated: time.Now(),
	})
}

// RemoveUser removes a user from the cache.
func (st *ChordState) RemoveUser(userID chord.UserID) {
	st.Users.Delete(userID)
}

// Special state structs

type StateDMChannel struct {
	Channel   chord.DMChannel `json:"channel"`
	UserID    chord.UserID    `json:"user_id"`
	ExpiresAt chord.Int64     `json:"expires_at"`
}

type StateUser struct {
	LastUpdated time.Time `json:"__chord_last_updated,omitempty"`
	chord.User
}
