package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/noriah/vmatrix/palette"
	"github.com/noriah/vmatrix/panel"
)

func TestBroadcast(t *testing.T) {
	d := NewDisplay()
	defer d.Close()

	srv := httptest.NewServer(d.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + Path

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for d.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	frame := panel.NewFrame(3, 2)
	frame.Set(2, 1, palette.RGB{R: 1, G: 2, B: 3})

	if err := d.Show(frame); err != nil {
		t.Fatal(err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	kind, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}

	if kind != websocket.BinaryMessage {
		t.Errorf("message type = %d, want binary", kind)
	}

	if len(msg) != 4+3*2*3 {
		t.Fatalf("message length = %d", len(msg))
	}

	if msg[1] != 3 || msg[3] != 2 {
		t.Errorf("header = %v, want 3x2", msg[:4])
	}

	if tail := msg[len(msg)-3:]; tail[0] != 1 || tail[1] != 2 || tail[2] != 3 {
		t.Errorf("last pixel = %v, want [1 2 3]", tail)
	}
}

func TestEncode(t *testing.T) {
	frame := panel.NewFrame(300, 1)

	msg := Encode(nil, frame)
	if msg[0] != 1 || msg[1] != 44 {
		t.Errorf("width header = %v, want 300 big endian", msg[:2])
	}
}
