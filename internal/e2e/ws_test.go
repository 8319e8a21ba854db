package e2e

import (
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"ollamachat/pkg/types"
)

func TestChatWebsocket(t *testing.T) {
	srv, _ := newStack(t, allModels)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	send := func(frame any) string {
		t.Helper()
		if err := conn.WriteJSON(frame); err != nil {
			t.Fatalf("write: %v", err)
		}
		var resp types.ChatResponse
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("read: %v", err)
		}
		return resp.Response
	}

	if got := send(types.ChatRequest{Message: "hi", ModelName: "llama3:8b"}); got != "llama3:8b: ok" {
		t.Fatalf("got %q", got)
	}
	// A frame without a model stays on the current one.
	if got := send(map[string]string{"message": "again"}); got != "llama3:8b: ok" {
		t.Fatalf("got %q", got)
	}
	if got := send(map[string]string{"message": "hi", "model": "mistral:7b"}); got != "mistral:7b: ok" {
		t.Fatalf("legacy frame got %q", got)
	}
	if got := models(t, srv.URL).CurrentModel; got != "mistral:7b" {
		t.Fatalf("current=%q", got)
	}
}
