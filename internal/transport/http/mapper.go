package http

import (
	"encoding/json"

	"github.com/roomrelay/roomrelay-server/internal/core"
	"github.com/roomrelay/roomrelay-server/internal/proto"
)

// inboundToCommand validates an inbound frame and maps it to a core command.
// A non-nil proto.Error means the frame was well-formed JSON but invalid at
// the protocol level; the connection stays open.
func inboundToCommand(in proto.Inbound) (*core.Command, *proto.Error, error) {
	switch in.Type {
	case proto.InboundTypeJoin:
		var d proto.JoinData
		if err := json.Unmarshal(in.Data, &d); err != nil {
			return nil, nil, err
		}
		if d.Username == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "username is required"}, nil
		}
		return &core.Command{Kind: core.CommandJoin, Username: d.Username, Room: d.Room}, nil, nil

	case proto.InboundTypeSend:
		var d proto.SendData
		if err := json.Unmarshal(in.Data, &d); err != nil {
			return nil, nil, err
		}
		if d.Text == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "text is required"}, nil
		}
		return &core.Command{Kind: core.CommandSend, Text: d.Text}, nil, nil

	case proto.InboundTypePrivateSend:
		var d proto.PrivateSendData
		if err := json.Unmarshal(in.Data, &d); err != nil {
			return nil, nil, err
		}
		if d.To == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "to is required"}, nil
		}
		return &core.Command{Kind: core.CommandSendPrivate, To: d.To, Text: d.Text}, nil, nil

	case proto.InboundTypeGetHistory:
		var d proto.GetHistoryData
		if err := json.Unmarshal(in.Data, &d); err != nil {
			return nil, nil, err
		}
		if d.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &core.Command{Kind: core.CommandGetHistory, Room: d.Room, Skip: d.Skip, Limit: d.Limit}, nil, nil

	case proto.InboundTypeReact:
		var d proto.ReactData
		if err := json.Unmarshal(in.Data, &d); err != nil {
			return nil, nil, err
		}
		if d.MessageID == 0 || d.Emoji == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "message_id and emoji are required"}, nil
		}
		return &core.Command{Kind: core.CommandReact, MessageID: d.MessageID, Emoji: d.Emoji, Username: d.Username}, nil, nil

	case proto.InboundTypeRead:
		var d proto.ReadData
		if err := json.Unmarshal(in.Data, &d); err != nil {
			return nil, nil, err
		}
		if d.MessageID == 0 || d.UserID == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "message_id and user_id are required"}, nil
		}
		return &core.Command{Kind: core.CommandMarkRead, MessageID: d.MessageID, UserID: d.UserID}, nil, nil

	case proto.InboundTypeTyping:
		var d proto.TypingData
		if err := json.Unmarshal(in.Data, &d); err != nil {
			return nil, nil, err
		}
		return &core.Command{Kind: core.CommandSetTyping, IsTyping: d.IsTyping}, nil, nil

	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Msg: "unknown message type"}, nil
	}
}

func messagePayload(m core.Message) proto.MessageData {
	var reactions []proto.ReactionData
	for _, r := range m.Reactions {
		reactions = append(reactions, proto.ReactionData{Emoji: r.Emoji, Username: r.Username})
	}
	return proto.MessageData{
		ID:        m.ID,
		Room:      m.Room,
		Sender:    m.From,
		SenderID:  m.SenderID,
		Text:      m.Text,
		Timestamp: m.CreatedAt,
		IsPrivate: m.Private,
		To:        m.To,
		Reactions: reactions,
		ReadBy:    m.ReadBy,
	}
}

func outboundFromEvent(ev *core.Event) proto.Outbound {
	switch ev.Kind {
	case core.EventWelcome:
		return proto.Outbound{
			Type: proto.OutboundTypeWelcome,
			Data: proto.WelcomeData{ConnectionID: ev.ConnID},
		}
	case core.EventUserList:
		users := make([]proto.User, 0, len(ev.Users))
		for _, u := range ev.Users {
			users = append(users, proto.User{ID: u.ConnID, Username: u.Username})
		}
		return proto.Outbound{
			Type: proto.OutboundTypeUserList,
			Data: proto.UserListData{Room: ev.Room, Users: users},
		}
	case core.EventUserJoined:
		return proto.Outbound{
			Type: proto.OutboundTypeUserJoined,
			Data: proto.UserJoinedData{Room: ev.Room, Username: ev.Username, ID: ev.ConnID},
		}
	case core.EventUserLeft:
		return proto.Outbound{
			Type: proto.OutboundTypeUserLeft,
			Data: proto.UserLeftData{Room: ev.Room, Username: ev.Username, ID: ev.ConnID},
		}
	case core.EventMessage:
		return proto.Outbound{
			Type: proto.OutboundTypeMessage,
			Data: messagePayload(ev.Message),
		}
	case core.EventPrivateMessage:
		return proto.Outbound{
			Type: proto.OutboundTypePrivateMessage,
			Data: messagePayload(ev.Message),
		}
	case core.EventHistory:
		messages := make([]proto.MessageData, 0, len(ev.Messages))
		for _, m := range ev.Messages {
			messages = append(messages, messagePayload(m))
		}
		return proto.Outbound{
			Type: proto.OutboundTypeHistory,
			Data: proto.HistoryData{Room: ev.Room, Messages: messages},
		}
	case core.EventReactionAdded:
		return proto.Outbound{
			Type: proto.OutboundTypeReactionAdded,
			Data: proto.ReactionAddedData{MessageID: ev.MessageID, Emoji: ev.Emoji, Username: ev.Username},
		}
	case core.EventMessageRead:
		return proto.Outbound{
			Type: proto.OutboundTypeMessageRead,
			Data: proto.MessageReadData{MessageID: ev.MessageID, UserID: ev.UserID},
		}
	case core.EventTypingUsers:
		users := ev.Usernames
		if users == nil {
			users = []string{}
		}
		return proto.Outbound{
			Type: proto.OutboundTypeTypingUsers,
			Data: proto.TypingUsersData{Room: ev.Room, Users: users},
		}
	case core.EventError:
		if ev.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: ev.Error.Code, Msg: ev.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unmapped event"}}
	}
}
