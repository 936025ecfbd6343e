package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/roomrelay/roomrelay-server/internal/config"
	"github.com/roomrelay/roomrelay-server/internal/core"
	"github.com/roomrelay/roomrelay-server/internal/proto"
)

func startAPIServer(t *testing.T) (*httptest.Server, *core.Hub) {
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
	return ts, hub
}

// seedClient registers a client straight on the hub and joins it, waiting
// until the join is observable.
func seedClient(t *testing.T, hub *core.Hub, id, username, room string) *core.Client {
	t.Helper()

	c := core.NewClient(id, 64)
	hub.RegisterClient(c)
	c.Commands <- &core.Command{Kind: core.CommandJoin, Username: username, Room: room}

	require.Eventually(t, func() bool {
		members, err := hub.Members(context.Background(), room)
		if err != nil {
			return false
		}
		for _, m := range members {
			if m.ConnID == id {
				return true
			}
		}
		return false
	}, 2*time.Second, 10*time.Millisecond)

	go func() {
		for range c.Events {
		}
	}()
	return c
}

func getJSON(t *testing.T, ts *httptest.Server, path string, out any) int {
	t.Helper()

	resp, err := ts.Client().Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestListRooms(t *testing.T) {
	ts, hub := startAPIServer(t)

	var rooms []RoomResponse
	status := getJSON(t, ts, "/api/rooms", &rooms)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, rooms)

	seedClient(t, hub, "a", "alice", "general")
	seedClient(t, hub, "b", "bob", "general")
	seedClient(t, hub, "c", "carol", "dev")

	status = getJSON(t, ts, "/api/rooms", &rooms)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, []RoomResponse{
		{Name: "general", Members: 2},
		{Name: "dev", Members: 1},
	}, rooms)
}

func TestListMembers(t *testing.T) {
	ts, hub := startAPIServer(t)

	seedClient(t, hub, "a", "alice", "general")
	seedClient(t, hub, "b", "bob", "general")

	var members []proto.User
	status := getJSON(t, ts, "/api/rooms/general/members", &members)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, []proto.User{
		{ID: "a", Username: "alice"},
		{ID: "b", Username: "bob"},
	}, members)

	status = getJSON(t, ts, "/api/rooms/ghost/members", &members)
	require.Equal(t, http.StatusOK, status)
	require.Empty(t, members)
}

func TestRoomMessagesPagination(t *testing.T) {
	ts, hub := startAPIServer(t)

	alice := seedClient(t, hub, "a", "alice", "general")
	for _, text := range []string{"m1", "m2", "m3", "m4", "m5"} {
		alice.Commands <- &core.Command{Kind: core.CommandSend, Text: text}
	}

	require.Eventually(t, func() bool {
		page, err := hub.History(context.Background(), "general", 0, 100)
		return err == nil && len(page) == 5
	}, 2*time.Second, 10*time.Millisecond)

	var page proto.HistoryData
	status := getJSON(t, ts, "/api/rooms/general/messages?skip=0&limit=2", &page)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, page.Messages, 2)
	require.Equal(t, "m4", page.Messages[0].Text)
	require.Equal(t, "m5", page.Messages[1].Text)

	status = getJSON(t, ts, "/api/rooms/general/messages?skip=1&limit=2", &page)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, page.Messages, 2)
	require.Equal(t, "m3", page.Messages[0].Text)
	require.Equal(t, "m4", page.Messages[1].Text)

	status = getJSON(t, ts, "/api/rooms/general/messages?skip=abc", &page)
	require.Equal(t, http.StatusBadRequest, status)
}
