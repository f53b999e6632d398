package stream

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("device-1")
	defer hub.Unregister(client)

	hub.Broadcast("device-1", []byte("hello"))

	select {
	case msg := <-client.Send:
		if string(msg) != "hello" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for message")
	}
}

func TestHubBroadcastOtherDevice(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("device-1")
	defer hub.Unregister(client)

	hub.Broadcast("device-2", []byte("hello"))
	select {
	case <-client.Send:
		t.Fatalf("message leaked to another device")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestHubHelpers(t *testing.T) {
	ch := redisChannel("abc")
	if ch != "map:abc:broadcast" {
		t.Fatalf("unexpected channel %q", ch)
	}
	if deviceIDFromChannel(ch) != "abc" {
		t.Fatalf("unexpected device id")
	}
	if deviceIDFromChannel("bad") != "" {
		t.Fatalf("expected empty device id")
	}
}

func TestUnregisterCloses(t *testing.T) {
	hub := NewHub(nil)
	client := hub.Register("device-2")
	if hub.Count("device-2") != 1 {
		t.Fatalf("expected one client")
	}
	hub.Unregister(client)
	hub.Unregister(client)
	_, ok := <-client.Send
	if ok {
		t.Fatalf("expected channel closed")
	}
	if hub.Count("device-2") != 0 {
		t.Fatalf("expected no clients")
	}
}

func TestHubRedisBroadcastAndSubscribe(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	hub := NewHub(client)
	defer hub.Close()
	ws := hub.Register("device-redis")
	defer hub.Unregister(ws)

	hub.Broadcast("device-redis", []byte("ping"))

	select {
	case msg := <-ws.Send:
		if string(msg) != "ping" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for broadcast")
	}

	// a publish from another instance
	if err := client.Publish(context.Background(), "map:device-redis:broadcast", "pong").Err(); err != nil {
		t.Fatalf("publish error: %v", err)
	}

	select {
	case msg := <-ws.Send:
		if string(msg) != "pong" {
			t.Fatalf("unexpected message from redis")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timeout waiting for redis message")
	}

	select {
	case msg := <-ws.Send:
		t.Fatalf("duplicate delivery: %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubRedisUnavailableDeliversLocally(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr(), MaxRetries: -1})
	server.Close()
	defer client.Close()

	hub := NewHub(client)
	defer hub.Close()
	node := hub.Register("device-bad")
	defer hub.Unregister(node)

	hub.Broadcast("device-bad", []byte("ping"))
	select {
	case msg := <-node.Send:
		if string(msg) != "ping" {
			t.Fatalf("unexpected message")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("expected local delivery")
	}
}
