// Command loadclient connects a batch of websocket clients to one room and
// keeps them drawing, chatting and guessing.
package main

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sakshamg567/sketchguess/internal/gateway"
	"github.com/sakshamg567/sketchguess/internal/room"
	"github.com/sakshamg567/sketchguess/logger"
)

const defaultWSURL = "ws://localhost:3000/ws"

func main() {
	args := os.Args
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: loadclient <number_of_clients> [room_code]")
		os.Exit(2)
	}

	n, err := strconv.Atoi(args[1])
	if err != nil || n < 1 {
		fmt.Fprintln(os.Stderr, "invalid number of clients:", args[1])
		os.Exit(2)
	}

	url := os.Getenv("LOADCLIENT_URL")
	if url == "" {
		url = defaultWSURL
	}

	var wg sync.WaitGroup
	start := 0
	code := ""
	if len(args) >= 3 {
		code = strings.ToUpper(strings.TrimSpace(args[2]))
		logger.Info("using existing room %s", code)
	} else {
		host, created, err := createRoom(url, "player0")
		if err != nil {
			logger.Error("create room: %v", err)
			os.Exit(1)
		}
		code = created
		start = 1
		logger.Info("created room %s", code)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer host.conn.Close()
			host.spam(100)
		}()
	}

	for i := start; i < n; i++ {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			c, err := joinRoom(url, code, name)
			if err != nil {
				logger.Warn("%s: %v", name, err)
				return
			}
			defer c.conn.Close()
			c.spam(100)
		}(fmt.Sprintf("player%d", i))
	}
	wg.Wait()
	logger.Info("all clients finished")
}

type client struct {
	name string
	conn *websocket.Conn
	mu   sync.Mutex
	ack  int64
}

func dial(url, name string) (*client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, err
	}
	c := &client{name: name, conn: conn}
	return c, nil
}

func (c *client) send(event string, data any, wantAck bool) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	msg := gateway.WSMessage{Type: event, Data: raw}

	c.mu.Lock()
	defer c.mu.Unlock()
	if wantAck {
		c.ack++
		id := c.ack
		msg.Ack = &id
	}
	return c.conn.WriteJSON(msg)
}

func createRoom(url, name string) (*client, string, error) {
	c, err := dial(url, name)
	if err != nil {
		return nil, "", err
	}
	if err := c.send(gateway.EventCreateRoom, map[string]string{"username": name}, true); err != nil {
		return nil, "", err
	}

	c.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var f struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := c.conn.ReadJSON(&f); err != nil {
			return nil, "", err
		}
		if f.Type != gateway.EventAck {
			continue
		}
		var reply room.CreatedReply
		if err := json.Unmarshal(f.Data, &reply); err != nil || reply.RoomCode == "" {
			return nil, "", fmt.Errorf("unexpected createRoom reply %s", f.Data)
		}
		c.conn.SetReadDeadline(time.Time{})
		go c.drain()
		return c, reply.RoomCode, nil
	}
}

func joinRoom(url, code, name string) (*client, error) {
	c, err := dial(url, name)
	if err != nil {
		return nil, err
	}
	if err := c.send(gateway.EventJoinRoom, map[string]string{"roomCode": code, "username": name}, false); err != nil {
		c.conn.Close()
		return nil, err
	}
	go c.drain()
	return c, nil
}

// drain reads and discards server frames so the server never sees a slow
// consumer.
func (c *client) drain() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) spam(count int) {
	if err := c.send(gateway.EventSendReadyStatus, map[string]any{"username": c.name, "ready": true}, false); err != nil {
		logger.Warn("%s: ready: %v", c.name, err)
		return
	}

	for i := 0; i < count; i++ {
		var err error
		switch rand.Intn(3) {
		case 0:
			err = c.send(gateway.EventSendMessage, map[string]string{
				"username": c.name,
				"message":  "hello from " + c.name,
			}, false)
		case 1:
			err = c.send(gateway.EventDrawing, map[string]any{
				"offsetX": rand.Intn(800),
				"offsetY": rand.Intn(600),
				"color":   "#000000",
			}, false)
		default:
			err = c.send(gateway.EventSubmitGuess, map[string]string{"guess": "guess from " + c.name}, false)
		}
		if err != nil {
			logger.Warn("%s: write: %v", c.name, err)
			return
		}
		time.Sleep(time.Duration(100+rand.Intn(900)) * time.Millisecond)
	}
	logger.Info("%s finished sending", c.name)
}
