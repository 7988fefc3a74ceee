package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/websocket"
)

// Two goroutines hammer the same wrapped connection, one with typed
// events and one with raw relays. gorilla panics on unsynchronized
// concurrent writes, so the test fails loudly if the lock is gone.
func TestConnSerializesConcurrentWrites(t *testing.T) {
	const perWriter = 50

	upgrader := websocket.Upgrader{}
	ready := make(chan *Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		ready <- Wrap(raw)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	conn := <-ready
	defer conn.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < perWriter; i++ {
			if err := conn.WriteTyped(PongResponse{Event: EventPong}); err != nil {
				t.Errorf("write typed: %v", err)
				return
			}
		}
	}()
	go func() {
		defer wg.Done()
		payload := []byte(`{"event":"submission"}`)
		for i := 0; i < perWriter; i++ {
			if err := conn.WriteRaw(payload); err != nil {
				t.Errorf("write raw: %v", err)
				return
			}
		}
	}()

	for i := 0; i < 2*perWriter; i++ {
		_, data, err := client.ReadMessage()
		if err != nil {
			t.Fatalf("read message %d: %v", i, err)
		}
		var decoded map[string]string
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("message %d is not valid JSON: %v", i, err)
		}
	}
	wg.Wait()
}

func TestConnWriteError(t *testing.T) {
	upgrader := websocket.Upgrader{}
	ready := make(chan *Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		ready <- Wrap(raw)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	conn := <-ready
	defer conn.Close()

	if err := conn.WriteError("unknown action"); err != nil {
		t.Fatalf("write error: %v", err)
	}

	var got ErrorResponse
	if err := client.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Event != EventError || got.Error != "unknown action" {
		t.Fatalf("unexpected payload: %+v", got)
	}
}
