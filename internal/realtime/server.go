package realtime

import (
	"net/http"
	"time"

	ws "github.com/gorilla/websocket"
)

var upgrader = ws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler meng-upgrade koneksi ke websocket. authorize menerima token dari
// query ?token=; nil berarti tanpa autentikasi.
func Handler(hub *Hub, authorize func(token string) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if authorize != nil {
			if err := authorize(r.URL.Query().Get("token")); err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn)
		if !hub.Register(client) {
			conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	})
}

// NewServer: server HTTP terpisah untuk change feed di /ws. Fiber (fasthttp)
// tidak bisa meng-hijack koneksi untuk gorilla/websocket.
func NewServer(addr string, hub *Hub, authorize func(token string) error) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/ws", Handler(hub, authorize))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
