package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/roomrelay/roomrelay-server/internal/config"
	"github.com/roomrelay/roomrelay-server/internal/core"
	"github.com/roomrelay/roomrelay-server/internal/proto"
)

func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	hub := core.NewHub(core.Options{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	logger := zerolog.Nop()
	cfg := config.Default()
	cfg.Addr = ":0"

	ts := httptest.NewServer(NewRouter(hub, cfg, &logger))
	t.Cleanup(ts.Close)
	return ts
}

// recvFrame mirrors proto.Outbound with the payload left raw so tests can
// decode it into the expected type.
type recvFrame struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func dial(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func sendFrame(t *testing.T, ctx context.Context, conn *websocket.Conn, frameType string, data any) {
	t.Helper()

	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal %s: %v", frameType, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: frameType, Data: payload}); err != nil {
		t.Fatalf("write %s: %v", frameType, err)
	}
}

// awaitFrame reads frames until one of the wanted type arrives, discarding
// interleaved roster and typing traffic.
func awaitFrame(t *testing.T, ctx context.Context, conn *websocket.Conn, wantType string) recvFrame {
	t.Helper()

	for {
		var frame recvFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			t.Fatalf("read while waiting for %s: %v", wantType, err)
		}
		if frame.Type == wantType {
			return frame
		}
	}
}

func handshake(t *testing.T, ctx context.Context, conn *websocket.Conn, username, room string) string {
	t.Helper()

	frame := awaitFrame(t, ctx, conn, proto.OutboundTypeWelcome)
	var welcome proto.WelcomeData
	if err := json.Unmarshal(frame.Data, &welcome); err != nil {
		t.Fatalf("decode welcome: %v", err)
	}
	if welcome.ConnectionID == "" {
		t.Fatal("welcome frame carries no connection id")
	}

	sendFrame(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{Username: username, Room: room})
	awaitFrame(t, ctx, conn, proto.OutboundTypeUserJoined)
	return welcome.ConnectionID
}

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestWebSocketJoinAndBroadcast(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dial(t, ctx, ts)
	connB := dial(t, ctx, ts)

	idA := handshake(t, ctx, connA, "alice", "general")
	handshake(t, ctx, connB, "bob", "general")

	sendFrame(t, ctx, connA, proto.InboundTypeSend, proto.SendData{Text: "hello room"})

	frame := awaitFrame(t, ctx, connB, proto.OutboundTypeMessage)
	var msg proto.MessageData
	if err := json.Unmarshal(frame.Data, &msg); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if msg.Text != "hello room" || msg.Sender != "alice" || msg.SenderID != idA || msg.Room != "general" {
		t.Fatalf("unexpected message payload: %+v", msg)
	}
}

func TestWebSocketPrivateMessage(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dial(t, ctx, ts)
	connB := dial(t, ctx, ts)

	handshake(t, ctx, connA, "alice", "general")
	idB := handshake(t, ctx, connB, "bob", "general")

	sendFrame(t, ctx, connA, proto.InboundTypePrivateSend, proto.PrivateSendData{To: idB, Text: "psst"})

	frame := awaitFrame(t, ctx, connB, proto.OutboundTypePrivateMessage)
	var msg proto.MessageData
	if err := json.Unmarshal(frame.Data, &msg); err != nil {
		t.Fatalf("decode private message: %v", err)
	}
	if msg.Text != "psst" || !msg.IsPrivate || msg.To != idB {
		t.Fatalf("unexpected private payload: %+v", msg)
	}

	// Sender receives its own copy.
	awaitFrame(t, ctx, connA, proto.OutboundTypePrivateMessage)
}

func TestWebSocketHistoryRoundTrip(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, ts)
	handshake(t, ctx, conn, "alice", "general")

	for _, text := range []string{"m1", "m2", "m3"} {
		sendFrame(t, ctx, conn, proto.InboundTypeSend, proto.SendData{Text: text})
		awaitFrame(t, ctx, conn, proto.OutboundTypeMessage)
	}

	sendFrame(t, ctx, conn, proto.InboundTypeGetHistory, proto.GetHistoryData{Room: "general", Skip: 0, Limit: 2})
	frame := awaitFrame(t, ctx, conn, proto.OutboundTypeHistory)

	var page proto.HistoryData
	if err := json.Unmarshal(frame.Data, &page); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(page.Messages) != 2 || page.Messages[0].Text != "m2" || page.Messages[1].Text != "m3" {
		t.Fatalf("unexpected history page: %+v", page.Messages)
	}
}

func TestWebSocketProtocolErrors(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dial(t, ctx, ts)
	awaitFrame(t, ctx, conn, proto.OutboundTypeWelcome)

	// Unknown frame type.
	sendFrame(t, ctx, conn, "bogus", struct{}{})
	frame := awaitFrame(t, ctx, conn, proto.OutboundTypeError)
	if frame.Error == nil || frame.Error.Code != core.ErrCodeInvalidMessage {
		t.Fatalf("expected invalid_message error, got %+v", frame.Error)
	}

	// Join without a username.
	sendFrame(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{})
	frame = awaitFrame(t, ctx, conn, proto.OutboundTypeError)
	if frame.Error == nil || frame.Error.Code != core.ErrCodeBadRequest {
		t.Fatalf("expected bad_request error, got %+v", frame.Error)
	}

	// The connection survives protocol errors.
	sendFrame(t, ctx, conn, proto.InboundTypeJoin, proto.JoinData{Username: "alice", Room: "general"})
	awaitFrame(t, ctx, conn, proto.OutboundTypeUserJoined)
}

func TestWebSocketDisconnectNotifiesRoom(t *testing.T) {
	ts := startTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dial(t, ctx, ts)
	connB := dial(t, ctx, ts)

	idA := handshake(t, ctx, connA, "alice", "general")
	handshake(t, ctx, connB, "bob", "general")

	connA.Close(websocket.StatusNormalClosure, "bye")

	frame := awaitFrame(t, ctx, connB, proto.OutboundTypeUserLeft)
	var left proto.UserLeftData
	if err := json.Unmarshal(frame.Data, &left); err != nil {
		t.Fatalf("decode user_left: %v", err)
	}
	if left.Username != "alice" || left.ID != idA {
		t.Fatalf("unexpected user_left payload: %+v", left)
	}
}
