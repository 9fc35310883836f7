package stream

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// protoMap renders a protocol message through its own field-name
// mapping so wire-compatible names are preserved.
func protoMap(m proto.Message) map[string]any {
	if m == nil {
		return nil
	}
	b, err := protojson.Marshal(m)
	if err != nil {
		return nil
	}
	var out map[string]any
	_ = json.Unmarshal(b, &out)
	return out
}

func jidString(j *types.JID) string {
	if j == nil {
		return ""
	}
	return j.String()
}

// Normalize converts a native notification into the uniform tagged
// shape the host consumes. The "type" field discriminates; the variant
// set is a fixed compatibility contract, so cases are exhaustive over
// the wrapped library's event surface with an "unknown:<T>" fallback
// for anything a library upgrade introduces.
func Normalize(raw interface{}) Event {
	switch evt := raw.(type) {
	// Connection lifecycle
	case *events.Connected:
		return Event{"type": "connected"}
	case *events.Disconnected:
		return Event{"type": "disconnected"}
	case *events.ManualLoginReconnect:
		return Event{"type": "manual_login_reconnect"}
	case *events.StreamReplaced:
		return Event{"type": "stream_replaced"}
	case *events.ClientOutdated:
		return Event{"type": "client_outdated"}
	case *events.QRScannedWithoutMultidevice:
		return Event{"type": "qr_scanned_without_multidevice"}
	case *events.PairSuccess:
		return Event{"type": "pair_success", "id": evt.ID.String(), "lid": evt.LID.String(), "business_name": evt.BusinessName, "platform": evt.Platform}
	case *events.PairError:
		// Pair succeeded remotely but the local finish failed.
		var errStr string
		if evt.Error != nil {
			errStr = evt.Error.Error()
		}
		return Event{"type": "pair_error", "id": evt.ID.String(), "lid": evt.LID.String(), "business_name": evt.BusinessName, "platform": evt.Platform, "error": errStr}
	case *events.LoggedOut:
		return Event{"type": "logged_out", "on_connect": evt.OnConnect, "reason": evt.Reason.NumberString()}
	case *events.CATRefreshError:
		return Event{"type": "cat_refresh_error", "error": evt.Error.Error()}
	case *events.ConnectFailure:
		return Event{"type": "connect_failure", "reason": evt.Reason.NumberString(), "message": evt.Message}
	case *events.StreamError:
		return Event{"type": "stream_error", "code": evt.Code}
	case *events.TemporaryBan:
		return Event{"type": "temporary_ban", "code": int(evt.Code), "expire_ms": int64(evt.Expire / time.Millisecond)}
	case *events.KeepAliveTimeout:
		return Event{"type": "keepalive_timeout", "error_count": evt.ErrorCount, "last_success": evt.LastSuccess.Format(time.RFC3339)}
	case *events.KeepAliveRestored:
		return Event{"type": "keepalive_restored"}

	// Receipts and presence
	case *events.Receipt:
		return Event{
			"type":           "receipt",
			"info":           evt.MessageSource,
			"message_ids":    evt.MessageIDs,
			"timestamp":      evt.Timestamp.Format(time.RFC3339),
			"receipt_type":   string(evt.Type),
			"message_sender": evt.MessageSender.String(),
		}
	case *events.Presence:
		return Event{"type": "presence", "from": evt.From.String(), "unavailable": evt.Unavailable, "last_seen": evt.LastSeen.Format(time.RFC3339)}
	case *events.ChatPresence:
		return Event{"type": "chat_presence", "chat": evt.MessageSource.Chat.String(), "sender": evt.MessageSource.Sender.String(), "is_from_me": evt.MessageSource.IsFromMe, "state": string(evt.State), "media": string(evt.Media)}

	// Message-like
	case *events.Message:
		out := Event{
			"type":                     "message",
			"info":                     evt.Info,
			"is_ephemeral":             evt.IsEphemeral,
			"is_view_once":             evt.IsViewOnce,
			"is_view_once_v2":          evt.IsViewOnceV2,
			"is_view_once_v2_ext":      evt.IsViewOnceV2Extension,
			"is_document_with_caption": evt.IsDocumentWithCaption,
			"is_lottie_sticker":        evt.IsLottieSticker,
			"is_edit":                  evt.IsEdit,
			"is_bot_invoke":            evt.IsBotInvoke,
			"retry_count":              evt.RetryCount,
		}
		if evt.Message != nil {
			out["message"] = protoMap(evt.Message)
		}
		if evt.RawMessage != nil {
			out["raw_message"] = protoMap(evt.RawMessage)
		}
		if evt.SourceWebMsg != nil {
			out["source_web_msg"] = protoMap(evt.SourceWebMsg)
		}
		if evt.UnavailableRequestID != "" {
			out["unavailable_request_id"] = string(evt.UnavailableRequestID)
		}
		if evt.NewsletterMeta != nil {
			out["newsletter_meta"] = map[string]any{
				"edit_ts":     evt.NewsletterMeta.EditTS.Format(time.RFC3339),
				"original_ts": evt.NewsletterMeta.OriginalTS.Format(time.RFC3339),
			}
		}
		return out
	case *events.UndecryptableMessage:
		return Event{
			"type":              "undecryptable_message",
			"info":              evt.Info,
			"is_unavailable":    evt.IsUnavailable,
			"unavailable_type":  string(evt.UnavailableType),
			"decrypt_fail_mode": string(evt.DecryptFailMode),
		}
	case *events.FBMessage:
		out := Event{
			"type":        "fb_message",
			"info":        evt.Info,
			"retry_count": evt.RetryCount,
		}
		if evt.Transport != nil {
			out["transport"] = protoMap(evt.Transport)
		}
		if evt.FBApplication != nil {
			out["fb_application"] = protoMap(evt.FBApplication)
		}
		if evt.IGTransport != nil {
			out["ig_transport"] = protoMap(evt.IGTransport)
		}
		// evt.Message is an interface, not a proto.Message; skip it.
		return out

	// History sync
	case *events.HistorySync:
		return Event{"type": "history_sync", "data": protoMap(evt.Data)}

	// Group and user
	case *events.JoinedGroup:
		return Event{
			"type":       "joined_group",
			"reason":     evt.Reason,
			"join_type":  evt.Type,
			"create_key": string(evt.CreateKey),
			"sender":     jidString(evt.Sender),
			"sender_pn":  jidString(evt.SenderPN),
			"notify":     evt.Notify,
			"group":      evt.GroupInfo,
		}
	case *events.GroupInfo:
		return Event{
			"type":                        "group_info",
			"jid":                         evt.JID.String(),
			"notify":                      evt.Notify,
			"sender":                      jidString(evt.Sender),
			"sender_pn":                   jidString(evt.SenderPN),
			"timestamp":                   evt.Timestamp.Format(time.RFC3339),
			"name":                        evt.Name,
			"topic":                       evt.Topic,
			"locked":                      evt.Locked,
			"announce":                    evt.Announce,
			"ephemeral":                   evt.Ephemeral,
			"membership_approval_mode":    evt.MembershipApprovalMode,
			"delete":                      evt.Delete,
			"link":                        evt.Link,
			"unlink":                      evt.Unlink,
			"new_invite_link":             evt.NewInviteLink,
			"prev_participant_version_id": evt.PrevParticipantVersionID,
			"participant_version_id":      evt.ParticipantVersionID,
			"join_reason":                 evt.JoinReason,
			"join":                        evt.Join,
			"leave":                       evt.Leave,
			"promote":                     evt.Promote,
			"demote":                      evt.Demote,
			"unknown_changes":             evt.UnknownChanges,
		}
	case *events.Picture:
		return Event{"type": "picture", "jid": evt.JID.String(), "author": evt.Author.String(), "timestamp": evt.Timestamp.Format(time.RFC3339), "remove": evt.Remove, "picture_id": evt.PictureID}
	case *events.UserAbout:
		return Event{"type": "user_about", "jid": evt.JID.String(), "status": evt.Status, "timestamp": evt.Timestamp.Format(time.RFC3339)}
	case *events.IdentityChange:
		return Event{"type": "identity_change", "jid": evt.JID.String(), "timestamp": evt.Timestamp.Format(time.RFC3339), "implicit": evt.Implicit}
	case *events.PrivacySettings:
		return Event{"type": "privacy_settings", "new_settings": evt.NewSettings, "group_add_changed": evt.GroupAddChanged, "last_seen_changed": evt.LastSeenChanged, "status_changed": evt.StatusChanged, "profile_changed": evt.ProfileChanged, "read_receipts_changed": evt.ReadReceiptsChanged, "online_changed": evt.OnlineChanged, "call_add_changed": evt.CallAddChanged}
	case *events.OfflineSyncPreview:
		return Event{"type": "offline_sync_preview", "total": evt.Total, "app_data_changes": evt.AppDataChanges, "messages": evt.Messages, "notifications": evt.Notifications, "receipts": evt.Receipts}
	case *events.OfflineSyncCompleted:
		return Event{"type": "offline_sync_completed", "count": evt.Count}
	case *events.MediaRetry:
		out := Event{"type": "media_retry", "ciphertext_b64": base64.StdEncoding.EncodeToString(evt.Ciphertext), "iv_b64": base64.StdEncoding.EncodeToString(evt.IV), "timestamp": evt.Timestamp.Format(time.RFC3339), "message_id": string(evt.MessageID), "chat_id": evt.ChatID.String(), "sender_id": evt.SenderID.String(), "from_me": evt.FromMe}
		if evt.Error != nil {
			out["error"] = map[string]any{"code": evt.Error.Code}
		}
		return out
	case *events.Blocklist:
		return Event{"type": "blocklist", "action": string(evt.Action), "dhash": evt.DHash, "prev_dhash": evt.PrevDHash, "changes": evt.Changes}
	case *events.NewsletterJoin:
		meta := map[string]any{
			"id":              evt.ID,         // JID marshals to its canonical string
			"state":           evt.State,      // carries json tags
			"thread_metadata": evt.ThreadMeta, // carries json tags
		}
		if evt.ViewerMeta != nil {
			meta["viewer_metadata"] = evt.ViewerMeta
		}
		return Event{"type": "newsletter_join", "metadata": meta}
	case *events.NewsletterLeave:
		return Event{"type": "newsletter_leave", "id": evt.ID.String(), "role": string(evt.Role)}
	case *events.NewsletterMuteChange:
		return Event{"type": "newsletter_mute_change", "id": evt.ID.String(), "mute": string(evt.Mute)}
	case *events.NewsletterLiveUpdate:
		msgs := make([]map[string]any, len(evt.Messages))
		for i, m := range evt.Messages {
			mm := map[string]any{
				"MessageServerID": int(m.MessageServerID),
				"MessageID":       string(m.MessageID),
				"Type":            m.Type,
				"Timestamp":       m.Timestamp.Format(time.RFC3339),
				"ViewsCount":      m.ViewsCount,
				"ReactionCounts":  m.ReactionCounts,
			}
			if m.Message != nil {
				mm["Message"] = protoMap(m.Message)
			}
			msgs[i] = mm
		}
		return Event{"type": "newsletter_live_update", "jid": evt.JID.String(), "time": evt.Time.Format(time.RFC3339), "messages": msgs}

	// App state sync actions
	case *events.Contact:
		return Event{"type": "appstate_contact", "jid": evt.JID.String(), "timestamp": evt.Timestamp.Format(time.RFC3339), "action": protoMap(evt.Action), "from_full_sync": evt.FromFullSync}
	case *events.PushName:
		return Event{"type": "appstate_push_name", "jid": evt.JID.String(), "message": evt.Message, "old_push_name": evt.OldPushName, "new_push_name": evt.NewPushName}
	case *events.BusinessName:
		return Event{"type": "appstate_business_name", "jid": evt.JID.String(), "message": evt.Message, "old_business_name": evt.OldBusinessName, "new_business_name": evt.NewBusinessName}
	case *events.Pin:
		return Event{"type": "appstate_pin", "jid": evt.JID.String(), "timestamp": evt.Timestamp.Format(time.RFC3339), "action": protoMap(evt.Action), "from_full_sync": evt.FromFullSync}
	case *events.Star:
		return Event{"type": "appstate_star", "chat_jid": evt.ChatJID.String(), "sender_jid": evt.SenderJID.String(), "is_from_me": evt.IsFromMe, "message_id": evt.MessageID, "timestamp": evt.Timestamp.Format(time.RFC3339), "action": protoMap(evt.Action), "from_full_sync": evt.FromFullSync}
	case *events.DeleteForMe:
		return Event{"type": "appstate_delete_for_me", "chat_jid": evt.ChatJID.String(), "sender_jid": evt.SenderJID.String(), "is_from_me": evt.IsFromMe, "message_id": evt.MessageID, "timestamp": evt.Timestamp.Format(time.RFC3339), "action": protoMap(evt.Action), "from_full_sync": evt.FromFullSync}
	case *events.Mute:
		return Event{"type": "appstate_mute", "jid": evt.JID.String(), "timestamp": evt.Timestamp.Format(time.RFC3339), "action": protoMap(evt.Action), "from_full_sync": evt.FromFullSync}
	case *events.Archive:
		return Event{"type": "appstate_archive", "jid": evt.JID.String(), "timestamp": evt.Timestamp.Format(time.RFC3339), "action": protoMap(evt.Action), "from_full_sync": evt.FromFullSync}
	case *events.MarkChatAsRead:
		return Event{"type": "appstate_mark_chat_as_read", "jid": evt.JID.String(), "timestamp": evt.Timestamp.Format(time.RFC3339), "action": protoMap(evt.Action), "from_full_sync": evt.FromFullSync}
	case *events.ClearChat:
		return Event{"type": "appstate_clear_chat", "jid": evt.JID.String(), "timestamp": evt.Timestamp.Format(time.RFC3339), "action": protoMap(evt.Action), "from_full_sync": evt.FromFullSync}
	case *events.DeleteChat:
		return Event{"type": "appstate_delete_chat", "jid": evt.JID.String(), "timestamp": evt.Timestamp.Format(time.RFC3339), "action": protoMap(evt.Action), "from_full_sync": evt.FromFullSync}
	case *events.PushNameSetting:
		return Event{"type": "appstate_push_name_setting", "timestamp": evt.Timestamp.Format(time.RFC3339), "action": protoMap(evt.Action), "from_full_sync": evt.FromFullSync}
	case *events.UnarchiveChatsSetting:
		return Event{"type": "appstate_unarchive_chats_setting", "timestamp": evt.Timestamp.Format(time.RFC3339), "action": protoMap(evt.Action), "from_full_sync": evt.FromFullSync}
	case *events.UserStatusMute:
		return Event{"type": "appstate_user_status_mute", "jid": evt.JID.String(), "timestamp": evt.Timestamp.Format(time.RFC3339), "action": protoMap(evt.Action), "from_full_sync": evt.FromFullSync}
	case *events.LabelEdit:
		return Event{"type": "appstate_label_edit", "timestamp": evt.Timestamp.Format(time.RFC3339), "label_id": evt.LabelID, "action": protoMap(evt.Action), "from_full_sync": evt.FromFullSync}
	case *events.LabelAssociationChat:
		return Event{"type": "appstate_label_association_chat", "jid": evt.JID.String(), "timestamp": evt.Timestamp.Format(time.RFC3339), "label_id": evt.LabelID, "action": protoMap(evt.Action), "from_full_sync": evt.FromFullSync}
	case *events.LabelAssociationMessage:
		return Event{"type": "appstate_label_association_message", "jid": evt.JID.String(), "timestamp": evt.Timestamp.Format(time.RFC3339), "label_id": evt.LabelID, "message_id": evt.MessageID, "action": protoMap(evt.Action), "from_full_sync": evt.FromFullSync}
	case *events.AppState:
		out := Event{"type": "appstate", "index": evt.Index}
		if evt.SyncActionValue != nil {
			out["value"] = protoMap(evt.SyncActionValue)
		}
		return out
	case *events.AppStateSyncComplete:
		return Event{"type": "appstate_sync_complete", "name": string(evt.Name)}

	// Calls
	case *events.CallOffer:
		return Event{"type": "call_offer", "basic": evt.BasicCallMeta, "remote": evt.CallRemoteMeta, "data": evt.Data}
	case *events.CallAccept:
		return Event{"type": "call_accept", "basic": evt.BasicCallMeta, "remote": evt.CallRemoteMeta, "data": evt.Data}
	case *events.CallPreAccept:
		return Event{"type": "call_pre_accept", "basic": evt.BasicCallMeta, "remote": evt.CallRemoteMeta, "data": evt.Data}
	case *events.CallTransport:
		return Event{"type": "call_transport", "basic": evt.BasicCallMeta, "remote": evt.CallRemoteMeta, "data": evt.Data}
	case *events.CallOfferNotice:
		return Event{"type": "call_offer_notice", "basic": evt.BasicCallMeta, "media": evt.Media, "notice_type": evt.Type, "data": evt.Data}
	case *events.CallRelayLatency:
		return Event{"type": "call_relay_latency", "basic": evt.BasicCallMeta, "data": evt.Data}
	case *events.CallTerminate:
		return Event{"type": "call_terminate", "basic": evt.BasicCallMeta, "reason": evt.Reason, "data": evt.Data}
	case *events.CallReject:
		return Event{"type": "call_reject", "basic": evt.BasicCallMeta, "data": evt.Data}
	case *events.UnknownCallEvent:
		return Event{"type": "call_unknown", "node": evt.Node}

	default:
		return Event{"type": fmt.Sprintf("unknown:%T", raw)}
	}
}
