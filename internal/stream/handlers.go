package stream

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Inbound receives what map clients send back.
type Inbound interface {
	HandleMessage(deviceID string, payload []byte)
	Disconnected(deviceID string)
}

func RegisterRoutes(r fiber.Router, hub *Hub, inbound Inbound) {
	r.Get("/ws/:device", websocket.New(func(c *websocket.Conn) {
		deviceID := c.Params("device")
		client := hub.Register(deviceID)

		done := make(chan struct{})
		go func() {
			for msg := range client.Send {
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					break
				}
			}
			close(done)
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}
			if inbound != nil {
				inbound.HandleMessage(deviceID, msg)
			}
		}

		hub.Unregister(client)
		<-done
		if inbound != nil && hub.Count(deviceID) == 0 {
			inbound.Disconnected(deviceID)
		}
	}))
}
