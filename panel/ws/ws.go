// Package ws streams panel frames to websocket clients.
//
// Each shown frame is sent as one binary message: big endian uint16 width and
// height followed by width*height packed r, g, b bytes in row major order.
package ws

import (
	"encoding/binary"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/noriah/vmatrix/panel"
	"github.com/pkg/errors"
)

// DefaultListen is used when no listen address is configured.
const DefaultListen = "127.0.0.1:8090"

// Path is the websocket endpoint.
const Path = "/frames"

const writeWait = 250 * time.Millisecond

func init() {
	panel.Register("ws", New)
}

// Display broadcasts frames to every connected client. Slow or broken clients
// are dropped rather than stalling the frame loop.
type Display struct {
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]struct{}
	clientsMu sync.Mutex

	server *http.Server
	msg    []byte
}

// New starts an http server on opts.Listen serving Path.
func New(opts panel.Options) (panel.Display, error) {
	addr := opts.Listen
	if addr == "" {
		addr = DefaultListen
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to listen on %s", addr)
	}

	d := NewDisplay()
	d.server = &http.Server{
		Handler:           d.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := d.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("ws panel: server error: %v", err)
		}
	}()

	return d, nil
}

// NewDisplay returns a display with no server attached. Mount Handler to
// accept clients.
func NewDisplay() *Display {
	return &Display{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Handler serves the websocket endpoint at Path.
func (d *Display) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, d.handleWebSocket)
	return mux
}

func (d *Display) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws panel: upgrade error: %v", err)
		return
	}

	d.clientsMu.Lock()
	d.clients[conn] = struct{}{}
	d.clientsMu.Unlock()

	// clients never send anything, a read only returns when they leave
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				d.drop(conn)
				return
			}
		}
	}()
}

func (d *Display) drop(conn *websocket.Conn) {
	d.clientsMu.Lock()
	delete(d.clients, conn)
	d.clientsMu.Unlock()

	conn.Close()
}

// Clients is the number of connected clients.
func (d *Display) Clients() int {
	d.clientsMu.Lock()
	defer d.clientsMu.Unlock()
	return len(d.clients)
}

// Encode appends the wire form of frame to dst.
func Encode(dst []byte, frame *panel.Frame) []byte {
	dst = binary.BigEndian.AppendUint16(dst, uint16(frame.Width))
	dst = binary.BigEndian.AppendUint16(dst, uint16(frame.Height))
	return frame.AppendRGB(dst)
}

// Show sends frame to every client.
func (d *Display) Show(frame *panel.Frame) error {
	d.msg = Encode(d.msg[:0], frame)

	d.clientsMu.Lock()
	defer d.clientsMu.Unlock()

	for conn := range d.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))

		if err := conn.WriteMessage(websocket.BinaryMessage, d.msg); err != nil {
			delete(d.clients, conn)
			conn.Close()
		}
	}

	return nil
}

// Close disconnects every client and stops the server.
func (d *Display) Close() error {
	d.clientsMu.Lock()
	for conn := range d.clients {
		conn.Close()
	}
	clear(d.clients)
	d.clientsMu.Unlock()

	if d.server != nil {
		return d.server.Close()
	}

	return nil
}
