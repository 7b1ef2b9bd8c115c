package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	chord "github.com/WelcomerTeam/Chord"
	"github.com/WelcomerTeam/Chord/chordjson"
)

// guildStatePayload trims a GUILD_CREATE payload down to what the channel
// state tracks. Channels, threads and voice states arrive raw so they can be
// run through their own decoders individually.
type guildStatePayload struct {
	Channels       []chordjson.RawMessage  `json:"channels"`
	Threads        []chordjson.RawMessage  `json:"threads"`
	VoiceStates    []chordjson.RawMessage  `json:"voice_states"`
	StageInstances chord.StageInstanceList `json:"stage_instances"`
	ID             chord.GuildID           `json:"id"`
	Unavailable    bool                    `json:"unavailable"`
}

func OnReady(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	defer ctx.OnDispatchEvent(msg.Type)

	var readyPayload chord.Ready

	err = ctx.decodeContent(msg, &readyPayload)
	if err != nil {
		return
	}

	ctx.Logger.Info().Msg("Received READY payload")

	ctx.SessionID.Store(readyPayload.SessionID)
	ctx.ResumeGatewayURL.Store(readyPayload.ResumeGatewayUrl)

	ctx.userMu.Lock()
	ctx.User = readyPayload.User
	ctx.userMu.Unlock()

	ctx.UserID.Store(int64(readyPayload.User.ID))

	if ctx.CacheUsers {
		ctx.Daemon.State.SetUser(readyPayload.User)
	}

	for _, guild := range readyPayload.Guilds {
		ctx.Lazy.Store(guild.ID, true)
		ctx.Guilds.Store(guild.ID, true)
	}

	guildCreateEvents := 0

	readyTimeout := time.NewTicker(ReadyTimeout)
	defer readyTimeout.Stop()

ready:
	for {
		select {
		case err = <-ctx.ErrorCh:
			if !errors.Is(err, context.Canceled) {
				ctx.Logger.Error().Err(err).Msg("Encountered error during READY")
			}

			break ready
		case msg := <-ctx.MessageCh:
			if msg.Type == "GUILD_CREATE" {
				guildCreateEvents++

				readyTimeout.Reset(ReadyTimeout)
			}

			err = ctx.OnDispatch(ctx.context, msg, ChordTrace{
				"receive": chord.Int64(time.Now().Unix()),
			})
			if err != nil && !errors.Is(err, ErrNoDispatchHandler) {
				ctx.Logger.Error().Err(err).Msg("Failed to dispatch event")
			}
		case <-readyTimeout.C:
			ctx.Logger.Info().Int("guilds", guildCreateEvents).Msg("Finished lazy loading guilds")

			break ready
		}
	}

	select {
	case ctx.ready <- void{}:
	default:
	}

	ctx.SetStatus(ConsumerStatusReady)

	return result, false, nil
}

func OnResumed(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	defer ctx.OnDispatchEvent(msg.Type)

	ctx.Logger.Info().Msg("Received RESUMED payload")

	select {
	case ctx.ready <- void{}:
	default:
	}

	ctx.SetStatus(ConsumerStatusReady)

	return StateResult{
		Data: msg.Data,
	}, true, nil
}

func OnChannelCreate(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	channel, known, err := chord.DecodeChannel(msg.Data)
	if err != nil {
		return result, ok, fmt.Errorf("failed to decode CHANNEL_CREATE: %w", err)
	}

	if !known {
		ctx.OnDispatchEvent(msg.Type)
		ctx.OnDiscardEvent("unknown_channel_type")
		ctx.Logger.Debug().Msg("Skipping channel with unrecognised type")

		return StateResult{
			Data: msg.Data,
		}, true, nil
	}

	switch channel := channel.(type) {
	case *chord.DMChannel:
		ctx.OnDispatchEvent(msg.Type)

		if recipient, hasRecipient := channel.Recipient(); hasRecipient {
			ctx.Daemon.State.AddDMChannel(recipient.ID, *channel)

			if ctx.CacheUsers {
				ctx.Daemon.State.SetUser(recipient)
			}
		}
	case chord.GuildChannel:
		ctx.OnGuildDispatchEvent(msg.Type, channel.ChannelGuildID())

		ctx.Daemon.State.SetGuildChannel(channel)
	}

	return StateResult{
		Data: msg.Data,
	}, true, nil
}

func OnChannelUpdate(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	channel, known, err := chord.DecodeChannel(msg.Data)
	if err != nil {
		return result, ok, fmt.Errorf("failed to decode CHANNEL_UPDATE: %w", err)
	}

	if !known {
		ctx.OnDispatchEvent(msg.Type)
		ctx.OnDiscardEvent("unknown_channel_type")

		return StateResult{
			Data: msg.Data,
		}, true, nil
	}

	var beforeChannel interface{}

	switch channel := channel.(type) {
	case *chord.DMChannel:
		ctx.OnDispatchEvent(msg.Type)

		beforeChannel, _ = ctx.Daemon.State.GetDMChannel(channel.ChannelID())

		if recipient, hasRecipient := channel.Recipient(); hasRecipient {
			ctx.Daemon.State.AddDMChannel(recipient.ID, *channel)
		}
	case chord.GuildChannel:
		ctx.OnGuildDispatchEvent(msg.Type, channel.ChannelGuildID())

		beforeChannel, _ = ctx.Daemon.State.GetGuildChannel(channel.ChannelGuildID(), channel.ChannelID())
		ctx.Daemon.State.SetGuildChannel(channel)
	}

	extra, err := makeExtra(map[string]interface{}{
		"before": beforeChannel,
	})
	if err != nil {
		return result, ok, err
	}

	return StateResult{
		Data:  msg.Data,
		Extra: extra,
	}, true, nil
}

func OnChannelDelete(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	channel, known, err := chord.DecodeChannel(msg.Data)
	if err != nil {
		return result, ok, fmt.Errorf("failed to decode CHANNEL_DELETE: %w", err)
	}

	if !known {
		ctx.OnDispatchEvent(msg.Type)
		ctx.OnDiscardEvent("unknown_channel_type")

		return StateResult{
			Data: msg.Data,
		}, true, nil
	}

	var beforeChannel interface{}

	switch channel := channel.(type) {
	case *chord.DMChannel:
		ctx.OnDispatchEvent(msg.Type)

		beforeChannel, _ = ctx.Daemon.State.GetDMChannel(channel.ChannelID())
		ctx.Daemon.State.RemoveDMChannelByChannelID(channel.ChannelID())
	case chord.GuildChannel:
		ctx.OnGuildDispatchEvent(msg.Type, channel.ChannelGuildID())

		beforeChannel, _ = ctx.Daemon.State.GetGuildChannel(channel.ChannelGuildID(), channel.ChannelID())
		ctx.Daemon.State.RemoveGuildChannel(channel.ChannelGuildID(), channel.ChannelID())
	}

	extra, err := makeExtra(map[string]interface{}{
		"before": beforeChannel,
	})
	if err != nil {
		return result, ok, err
	}

	return StateResult{
		Data:  msg.Data,
		Extra: extra,
	}, true, nil
}

func OnChannelPinsUpdate(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	var channelPinsUpdatePayload chord.ChannelPinsUpdate

	err = ctx.decodeContent(msg, &channelPinsUpdatePayload)
	if err != nil {
		return
	}

	defer ctx.OnGuildDispatchEvent(msg.Type, channelPinsUpdatePayload.GuildID)

	ctx.Daemon.State.UpdateGuildChannel(
		channelPinsUpdatePayload.GuildID,
		channelPinsUpdatePayload.ChannelID,
		func(channel chord.GuildChannel) chord.GuildChannel {
			if textChannel, isText := channel.(*chord.TextChannel); isText {
				lastPinTimestamp := channelPinsUpdatePayload.LastPinTimestamp
				textChannel.LastPinTimestamp = &lastPinTimestamp
			}

			return channel
		},
	)

	return StateResult{
		Data: msg.Data,
	}, true, nil
}

func OnThreadCreate(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	thread, known, err := chord.DecodeChannel(msg.Data)
	if err != nil {
		return result, ok, fmt.Errorf("failed to decode THREAD_CREATE: %w", err)
	}

	if guildChannel, isGuildChannel := thread.(chord.GuildChannel); known && isGuildChannel {
		ctx.OnGuildDispatchEvent(msg.Type, guildChannel.ChannelGuildID())

		ctx.Daemon.State.SetGuildChannel(guildChannel)
	} else {
		ctx.OnDispatchEvent(msg.Type)
		ctx.OnDiscardEvent("unknown_channel_type")
	}

	return StateResult{
		Data: msg.Data,
	}, true, nil
}

func OnThreadUpdate(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	thread, known, err := chord.DecodeChannel(msg.Data)
	if err != nil {
		return result, ok, fmt.Errorf("failed to decode THREAD_UPDATE: %w", err)
	}

	var beforeThread interface{}

	if guildChannel, isGuildChannel := thread.(chord.GuildChannel); known && isGuildChannel {
		ctx.OnGuildDispatchEvent(msg.Type, guildChannel.ChannelGuildID())

		beforeThread, _ = ctx.Daemon.State.GetGuildChannel(guildChannel.ChannelGuildID(), guildChannel.ChannelID())
		ctx.Daemon.State.SetGuildChannel(guildChannel)
	} else {
		ctx.OnDispatchEvent(msg.Type)
		ctx.OnDiscardEvent("unknown_channel_type")
	}

	extra, err := makeExtra(map[string]interface{}{
		"before": beforeThread,
	})
	if err != nil {
		return result, ok, err
	}

	return StateResult{
		Data:  msg.Data,
		Extra: extra,
	}, true, nil
}

func OnThreadDelete(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	var threadDeletePayload chord.ThreadDelete

	err = ctx.decodeContent(msg, &threadDeletePayload)
	if err != nil {
		return
	}

	defer ctx.OnGuildDispatchEvent(msg.Type, threadDeletePayload.GuildID)

	beforeThread, _ := ctx.Daemon.State.GetGuildChannel(threadDeletePayload.GuildID, threadDeletePayload.ID)
	ctx.Daemon.State.RemoveGuildChannel(threadDeletePayload.GuildID, threadDeletePayload.ID)

	extra, err := makeExtra(map[string]interface{}{
		"before": beforeThread,
	})
	if err != nil {
		return result, ok, err
	}

	return StateResult{
		Data:  msg.Data,
		Extra: extra,
	}, true, nil
}

func OnThreadListSync(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	var threadListSyncPayload chord.ThreadListSync

	err = ctx.decodeContent(msg, &threadListSyncPayload)
	if err != nil {
		return
	}

	defer ctx.OnGuildDispatchEvent(msg.Type, threadListSyncPayload.GuildID)

	// Stale threads under the synced parents are dropped before the fresh
	// set is stored. An empty channel_ids list means the entire guild was
	// synced.
	if len(threadListSyncPayload.ChannelIDs) == 0 {
		for _, thread := range ctx.Daemon.State.GetGuildThreads(threadListSyncPayload.GuildID, nil) {
			ctx.Daemon.State.RemoveGuildChannel(threadListSyncPayload.GuildID, thread.ChannelID())
		}
	} else {
		for _, channelID := range threadListSyncPayload.ChannelIDs {
			parentID := channelID

			for _, thread := range ctx.Daemon.State.GetGuildThreads(threadListSyncPayload.GuildID, &parentID) {
				ctx.Daemon.State.RemoveGuildChannel(threadListSyncPayload.GuildID, thread.ChannelID())
			}
		}
	}

	members := make(map[chord.ChannelID]chord.ThreadMember, len(threadListSyncPayload.Members))

	for _, member := range threadListSyncPayload.Members {
		if member.ID != nil {
			members[*member.ID] = member
		}
	}

	for _, rawThread := range threadListSyncPayload.Threads {
		channel, known, threadErr := chord.DecodeGuildChannel(rawThread, threadListSyncPayload.GuildID)
		if threadErr != nil {
			ctx.OnDiscardEvent("decode_failure")
			ctx.Logger.Warn().Err(threadErr).Msg("Failed to decode synced thread")

			continue
		}

		if !known {
			ctx.OnDiscardEvent("unknown_channel_type")

			continue
		}

		if thread, isThread := channel.(*chord.Thread); isThread && thread.Member == nil {
			if member, hasMember := members[thread.ID]; hasMember {
				thread.Member = &member
			}
		}

		ctx.Daemon.State.SetGuildChannel(channel)
	}

	return StateResult{
		Data: msg.Data,
	}, true, nil
}

func OnThreadMemberUpdate(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	defer ctx.OnDispatchEvent(msg.Type)

	var threadMemberUpdatePayload chord.ThreadMemberUpdate

	err = ctx.decodeContent(msg, &threadMemberUpdatePayload)
	if err != nil {
		return
	}

	if threadMemberUpdatePayload.GuildID != nil && threadMemberUpdatePayload.ID != nil {
		ctx.Daemon.State.UpdateGuildChannel(
			*threadMemberUpdatePayload.GuildID,
			*threadMemberUpdatePayload.ID,
			func(channel chord.GuildChannel) chord.GuildChannel {
				if thread, isThread := channel.(*chord.Thread); isThread {
					threadMember := chord.ThreadMember(threadMemberUpdatePayload)
					thread.Member = &threadMember
				}

				return channel
			},
		)
	}

	return StateResult{
		Data: msg.Data,
	}, true, nil
}

func OnThreadMembersUpdate(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	var threadMembersUpdatePayload chord.ThreadMembersUpdate

	err = ctx.decodeContent(msg, &threadMembersUpdatePayload)
	if err != nil {
		return
	}

	defer ctx.OnGuildDispatchEvent(msg.Type, threadMembersUpdatePayload.GuildID)

	ctx.Daemon.State.UpdateGuildChannel(
		threadMembersUpdatePayload.GuildID,
		threadMembersUpdatePayload.ID,
		func(channel chord.GuildChannel) chord.GuildChannel {
			if thread, isThread := channel.(*chord.Thread); isThread {
				thread.MemberCount = threadMembersUpdatePayload.MemberCount
			}

			return channel
		},
	)

	return StateResult{
		Data: msg.Data,
	}, true, nil
}

func OnGuildCreate(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	var guildCreatePayload guildStatePayload

	err = ctx.decodeContent(msg, &guildCreatePayload)
	if err != nil {
		return
	}

	defer ctx.OnGuildDispatchEvent(msg.Type, guildCreatePayload.ID)

	for _, rawChannel := range guildCreatePayload.Channels {
		channel, known, channelErr := chord.DecodeGuildChannel(rawChannel, guildCreatePayload.ID)
		if channelErr != nil {
			ctx.OnDiscardEvent("decode_failure")
			ctx.Logger.Warn().Err(channelErr).Msg("Failed to decode guild channel")

			continue
		}

		if !known {
			ctx.OnDiscardEvent("unknown_channel_type")

			continue
		}

		ctx.Daemon.State.SetGuildChannel(channel)
	}

	for _, rawThread := range guildCreatePayload.Threads {
		thread, known, threadErr := chord.DecodeGuildChannel(rawThread, guildCreatePayload.ID)
		if threadErr != nil {
			ctx.OnDiscardEvent("decode_failure")
			ctx.Logger.Warn().Err(threadErr).Msg("Failed to decode guild thread")

			continue
		}

		if !known {
			ctx.OnDiscardEvent("unknown_channel_type")

			continue
		}

		ctx.Daemon.State.SetGuildChannel(thread)
	}

	for _, rawVoiceState := range guildCreatePayload.VoiceStates {
		patch, patchErr := chord.ParseVoiceStatePatch(rawVoiceState)
		if patchErr != nil {
			ctx.OnDiscardEvent("decode_failure")
			ctx.Logger.Warn().Err(patchErr).Msg("Failed to decode guild voice state")

			continue
		}

		_, _, patchErr = ctx.Daemon.State.UpdateVoiceState(guildCreatePayload.ID, patch)
		if patchErr != nil {
			ctx.OnDiscardEvent("decode_failure")
			ctx.Logger.Warn().Err(patchErr).Msg("Failed to apply guild voice state")
		}
	}

	for _, stageInstance := range guildCreatePayload.StageInstances {
		if stageInstance.GuildID.IsNil() {
			stageInstance.GuildID = guildCreatePayload.ID
		}

		ctx.Daemon.State.SetStageInstance(stageInstance)
	}

	lazy, _ := ctx.Lazy.Load(guildCreatePayload.ID)
	ctx.Lazy.Delete(guildCreatePayload.ID)

	unavailable, _ := ctx.Unavailable.Load(guildCreatePayload.ID)
	ctx.Unavailable.Delete(guildCreatePayload.ID)

	ctx.Guilds.Store(guildCreatePayload.ID, true)

	extra, err := makeExtra(map[string]interface{}{
		"lazy":        lazy,
		"unavailable": unavailable,
	})
	if err != nil {
		return result, ok, err
	}

	return StateResult{
		Data:  msg.Data,
		Extra: extra,
	}, true, nil
}

func OnGuildDelete(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	var guildDeletePayload chord.GuildDelete

	err = ctx.decodeContent(msg, &guildDeletePayload)
	if err != nil {
		return
	}

	defer ctx.OnGuildDispatchEvent(msg.Type, guildDeletePayload.ID)

	if guildDeletePayload.Unavailable {
		ctx.Unavailable.Store(guildDeletePayload.ID, true)
	} else {
		ctx.Daemon.State.RemoveGuild(guildDeletePayload.ID)
		ctx.Guilds.Delete(guildDeletePayload.ID)
	}

	return StateResult{
		Data: msg.Data,
	}, true, nil
}

func OnVoiceStateUpdate(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	var voiceStateUpdatePayload struct {
		GuildID   *chord.GuildID `json:"guild_id"`
		SessionID string         `json:"session_id"`
	}

	err = ctx.decodeContent(msg, &voiceStateUpdatePayload)
	if err != nil {
		return
	}

	// Private call voice states carry no guild and are not tracked.
	if voiceStateUpdatePayload.GuildID == nil {
		ctx.OnDispatchEvent(msg.Type)

		return StateResult{
			Data: msg.Data,
		}, true, nil
	}

	defer ctx.OnGuildDispatchEvent(msg.Type, *voiceStateUpdatePayload.GuildID)

	beforeVoiceState, _ := ctx.Daemon.State.GetVoiceState(
		*voiceStateUpdatePayload.GuildID,
		voiceStateUpdatePayload.SessionID,
	)

	patch, err := chord.ParseVoiceStatePatch(msg.Data)
	if err != nil {
		return result, ok, fmt.Errorf("failed to decode VOICE_STATE_UPDATE: %w", err)
	}

	_, _, err = ctx.Daemon.State.UpdateVoiceState(*voiceStateUpdatePayload.GuildID, patch)
	if err != nil {
		return result, ok, fmt.Errorf("failed to apply VOICE_STATE_UPDATE: %w", err)
	}

	extra, err := makeExtra(map[string]interface{}{
		"before": beforeVoiceState,
	})
	if err != nil {
		return result, ok, err
	}

	return StateResult{
		Data:  msg.Data,
		Extra: extra,
	}, true, nil
}

func OnStageInstanceCreate(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	var stageInstanceCreatePayload chord.StageInstanceCreate

	err = ctx.decodeContent(msg, &stageInstanceCreatePayload)
	if err != nil {
		return
	}

	defer ctx.OnGuildDispatchEvent(msg.Type, stageInstanceCreatePayload.GuildID)

	ctx.Daemon.State.SetStageInstance(chord.StageInstance(stageInstanceCreatePayload))

	return StateResult{
		Data: msg.Data,
	}, true, nil
}

func OnStageInstanceUpdate(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	var stageInstanceUpdatePayload chord.StageInstanceUpdate

	err = ctx.decodeContent(msg, &stageInstanceUpdatePayload)
	if err != nil {
		return
	}

	defer ctx.OnGuildDispatchEvent(msg.Type, stageInstanceUpdatePayload.GuildID)

	beforeStageInstance, _ := ctx.Daemon.State.GetStageInstance(
		stageInstanceUpdatePayload.GuildID,
		stageInstanceUpdatePayload.ChannelID,
	)

	ctx.Daemon.State.SetStageInstance(chord.StageInstance(stageInstanceUpdatePayload))

	extra, err := makeExtra(map[string]interface{}{
		"before": beforeStageInstance,
	})
	if err != nil {
		return result, ok, err
	}

	return StateResult{
		Data:  msg.Data,
		Extra: extra,
	}, true, nil
}

func OnStageInstanceDelete(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	var stageInstanceDeletePayload chord.StageInstanceDelete

	err = ctx.decodeContent(msg, &stageInstanceDeletePayload)
	if err != nil {
		return
	}

	defer ctx.OnGuildDispatchEvent(msg.Type, stageInstanceDeletePayload.GuildID)

	beforeStageInstance, _ := ctx.Daemon.State.GetStageInstance(
		stageInstanceDeletePayload.GuildID,
		stageInstanceDeletePayload.ChannelID,
	)

	ctx.Daemon.State.RemoveStageInstance(
		stageInstanceDeletePayload.GuildID,
		stageInstanceDeletePayload.ChannelID,
	)

	extra, err := makeExtra(map[string]interface{}{
		"before": beforeStageInstance,
	})
	if err != nil {
		return result, ok, err
	}

	return StateResult{
		Data:  msg.Data,
		Extra: extra,
	}, true, nil
}

func OnTypingStart(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	var typingStartPayload chord.TypingStart

	err = ctx.decodeContent(msg, &typingStartPayload)
	if err != nil {
		return
	}

	defer ctx.SafeOnGuildDispatchEvent(msg.Type, typingStartPayload.GuildID)

	return StateResult{
		Data: msg.Data,
	}, true, nil
}

func OnUserUpdate(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	defer ctx.OnDispatchEvent(msg.Type)

	var userUpdatePayload chord.UserUpdate

	err = ctx.decodeContent(msg, &userUpdatePayload)
	if err != nil {
		return
	}

	beforeUser, _ := ctx.Daemon.State.GetUser(userUpdatePayload.ID)

	if ctx.CacheUsers {
		ctx.Daemon.State.SetUser(chord.User(userUpdatePayload))
	}

	extra, err := makeExtra(map[string]interface{}{
		"before": beforeUser,
	})
	if err != nil {
		return result, ok, err
	}

	return StateResult{
		Data:  msg.Data,
		Extra: extra,
	}, true, nil
}

func OnInviteCreate(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	var inviteCreatePayload chord.InviteCreate

	err = ctx.decodeContent(msg, &inviteCreatePayload)
	if err != nil {
		return
	}

	defer ctx.SafeOnGuildDispatchEvent(msg.Type, inviteCreatePayload.GuildID)

	return StateResult{
		Data: msg.Data,
	}, true, nil
}

func OnInviteDelete(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	var inviteDeletePayload chord.InviteDelete

	err = ctx.decodeContent(msg, &inviteDeletePayload)
	if err != nil {
		return
	}

	defer ctx.SafeOnGuildDispatchEvent(msg.Type, inviteDeletePayload.GuildID)

	return StateResult{
		Data: msg.Data,
	}, true, nil
}

func OnMessageCreate(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	var messageCreatePayload chord.Message

	err = ctx.decodeContent(msg, &messageCreatePayload)
	if err != nil {
		return
	}

	defer ctx.SafeOnGuildDispatchEvent(msg.Type, messageCreatePayload.GuildID)

	return StateResult{
		Data: msg.Data,
	}, true, nil
}

func OnMessageUpdate(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	var messageUpdatePayload chord.Message

	err = ctx.decodeContent(msg, &messageUpdatePayload)
	if err != nil {
		return
	}

	defer ctx.SafeOnGuildDispatchEvent(msg.Type, messageUpdatePayload.GuildID)

	return StateResult{
		Data: msg.Data,
	}, true, nil
}

func OnMessageDelete(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	var messageDeletePayload chord.MessageDelete

	err = ctx.decodeContent(msg, &messageDeletePayload)
	if err != nil {
		return
	}

	defer ctx.SafeOnGuildDispatchEvent(msg.Type, messageDeletePayload.GuildID)

	return StateResult{
		Data: msg.Data,
	}, true, nil
}

func OnMessageDeleteBulk(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	var messageDeleteBulkPayload chord.MessageDeleteBulk

	err = ctx.decodeContent(msg, &messageDeleteBulkPayload)
	if err != nil {
		return
	}

	defer ctx.SafeOnGuildDispatchEvent(msg.Type, messageDeleteBulkPayload.GuildID)

	return StateResult{
		Data: msg.Data,
	}, true, nil
}

func OnWebhooksUpdate(ctx *StateCtx, msg chord.GatewayPayload, trace ChordTrace) (result StateResult, ok bool, err error) {
	var webhooksUpdatePayload chord.WebhooksUpdate

	err = ctx.decodeContent(msg, &webhooksUpdatePayload)
	if err != nil {
		return
	}

	defer ctx.OnGuildDispatchEvent(msg.Type, webhooksUpdatePayload.GuildID)

	return StateResult{
		Data: msg.Data,
	}, true, nil
}

func init() {
	registerDispatch("READY", OnReady)
	registerDispatch("RESUMED", OnResumed)
	registerDispatch("CHANNEL_CREATE", OnChannelCreate)
	registerDispatch("CHANNEL_UPDATE", OnChannelUpdate)
	registerDispatch("CHANNEL_DELETE", OnChannelDelete)
	registerDispatch("CHANNEL_PINS_UPDATE", OnChannelPinsUpdate)
	registerDispatch("THREAD_CREATE", OnThreadCreate)
	registerDispatch("THREAD_UPDATE", OnThreadUpdate)
	registerDispatch("THREAD_DELETE", OnThreadDelete)
	registerDispatch("THREAD_LIST_SYNC", OnThreadListSync)
	registerDispatch("THREAD_MEMBER_UPDATE", OnThreadMemberUpdate)
	registerDispatch("THREAD_MEMBERS_UPDATE", OnThreadMembersUpdate)
	registerDispatch("GUILD_CREATE", OnGuildCreate)
	registerDispatch("GUILD_DELETE", OnGuildDelete)
	registerDispatch("INVITE_CREATE", OnInviteCreate)
	registerDispatch("INVITE_DELETE", OnInviteDelete)
	registerDispatch("MESSAGE_CREATE", OnMessageCreate)
	registerDispatch("MESSAGE_UPDATE", OnMessageUpdate)
	registerDispatch("MESSAGE_DELETE", OnMessageDelete)
	registerDispatch("MESSAGE_DELETE_BULK", OnMessageDeleteBulk)
	registerDispatch("STAGE_INSTANCE_CREATE", OnStageInstanceCreate)
	registerDispatch("STAGE_INSTANCE_UPDATE", OnStageInstanceUpdate)
	registerDispatch("STAGE_INSTANCE_DELETE", OnStageInstanceDelete)
	registerDispatch("TYPING_START", OnTypingStart)
	registerDispatch("USER_UPDATE", OnUserUpdate)
	registerDispatch("VOICE_STATE_UPDATE", OnVoiceStateUpdate)
	registerDispatch("WEBHOOKS_UPDATE", OnWebhooksUpdate)
}
