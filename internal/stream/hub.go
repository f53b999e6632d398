package stream

import (
	"context"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

const (
	channelPrefix = "map:"
	channelSuffix = ":broadcast"
)

// Hub fans messages out to the websocket clients of a device. With Redis the
// message goes through pub/sub so every instance delivers it to its own
// clients; without Redis delivery is local only.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex

	subscribed bool
	pubsub     *redis.PubSub
	done       chan struct{}
}

type Client struct {
	DeviceID string
	Send     chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		ctx := context.Background()
		pubsub := redisClient.PSubscribe(ctx, redisChannel("*"))
		if _, err := pubsub.Receive(ctx); err != nil {
			slog.Warn("redis subscribe failed, delivering locally", "err", err)
			_ = pubsub.Close()
			return h
		}
		h.subscribed = true
		h.pubsub = pubsub
		h.done = make(chan struct{})
		go h.subscribeRedis(pubsub)
	}
	return h
}

func (h *Hub) Register(deviceID string) *Client {
	client := &Client{
		DeviceID: deviceID,
		Send:     make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[deviceID] == nil {
		h.clients[deviceID] = map[*Client]struct{}{}
	}
	h.clients[deviceID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if deviceClients, ok := h.clients[client.DeviceID]; ok {
		if _, ok := deviceClients[client]; !ok {
			return
		}
		delete(deviceClients, client)
		if len(deviceClients) == 0 {
			delete(h.clients, client.DeviceID)
		}
		close(client.Send)
	}
}

// Count is the number of local clients attached to a device.
func (h *Hub) Count(deviceID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[deviceID])
}

func (h *Hub) Broadcast(deviceID string, payload []byte) {
	if h.subscribed {
		err := h.redis.Publish(context.Background(), redisChannel(deviceID), payload).Err()
		if err == nil {
			return
		}
		slog.Warn("redis publish failed", "device_id", deviceID, "err", err)
	}
	h.deliver(deviceID, payload)
}

// Close stops the Redis subscriber.
func (h *Hub) Close() {
	if h.pubsub == nil {
		return
	}
	_ = h.pubsub.Close()
	<-h.done
}

func (h *Hub) deliver(deviceID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[deviceID] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis(pubsub *redis.PubSub) {
	defer close(h.done)

	for msg := range pubsub.Channel() {
		deviceID := deviceIDFromChannel(msg.Channel)
		if deviceID == "" {
			continue
		}
		h.deliver(deviceID, []byte(msg.Payload))
	}
}

func redisChannel(deviceID string) string {
	return channelPrefix + deviceID + channelSuffix
}

func deviceIDFromChannel(ch string) string {
	// map:{device}:broadcast
	if len(ch) <= len(channelPrefix)+len(channelSuffix) {
		return ""
	}
	return ch[len(channelPrefix) : len(ch)-len(channelSuffix)]
}
