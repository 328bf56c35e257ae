package socket

import (
	"log"

	"emberly_server/models"

	socketio "github.com/googollee/go-socket.io"
)

// NewSocketServer initializes and returns a new Socket.IO server. Clients
// join their own user room after connecting and receive match events there.
func NewSocketServer() *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		log.Println("Socket connected:", c.ID())
		return nil
	})

	server.OnEvent("/", "join", func(c socketio.Conn, userID string) {
		if userID == "" {
			log.Println("Invalid userId in join request")
			return
		}
		log.Printf("Socket %s joined room for user %s\n", c.ID(), userID)
		c.Join(userRoom(userID))
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		log.Println("Socket disconnected:", c.ID(), reason)
	})

	return server
}

// MatchBroadcaster pushes new matches to both users' rooms.
type MatchBroadcaster struct {
	Server *socketio.Server
}

// NotifyMatch broadcasts a newMatch event to both sides of the match.
func (b *MatchBroadcaster) NotifyMatch(match models.Match) {
	if b == nil || b.Server == nil {
		return
	}
	b.Server.BroadcastToRoom("/", userRoom(match.User1ID), "newMatch", match)
	b.Server.BroadcastToRoom("/", userRoom(match.User2ID), "newMatch", match)
}

func userRoom(userID string) string {
	return "user:" + userID
}
