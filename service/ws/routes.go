package ws

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"gorm.io/gorm"

	"github.com/nishirajsingh/AyurSutra/cmd/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		allowed := os.Getenv("FRONTEND_URL")
		return origin == "" || origin == allowed
	},
}

type Handler struct {
	db  *gorm.DB
	hub *Hub
}

func NewHandler(db *gorm.DB, hub *Hub) *Handler {
	return &Handler{db: db, hub: hub}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws/notifications", utils.Auth(h.db, h.HandleNotificationStream)).Methods("GET")
}

// HandleNotificationStream upgrades the connection and keeps it
// subscribed to the caller's notifications until closed.
func (h *Handler) HandleNotificationStream(w http.ResponseWriter, r *http.Request) {
	user, err := utils.CurrentUser(r)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &client{userID: user.ID, conn: conn, send: make(chan []byte, 16)}
	h.hub.register(c)

	go c.writePump()
	go c.readPump(h.hub)
}
