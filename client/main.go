// Interactive command-line client for playing against a running server.
// Lines starting with "/" are commands; anything else is sent as chat (and
// so becomes an answer when you are on the clock).
package main

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"

	"github.com/gorilla/websocket"
)

const (
	msgTypeCreateGame = 101
	msgTypeJoinGame   = 102
	msgTypeStartGame  = 103
	msgTypeStopGame   = 104
	msgTypeRandomWord = 105
	msgTypeChat       = 201
)

type request struct {
	GameID string `json:"game_id,omitempty"`
	Text   string `json:"text,omitempty"`
}

type display struct {
	ID       string `json:"id"`
	Author   string `json:"author,omitempty"`
	Content  string `json:"content,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
	Embed    *embed `json:"embed,omitempty"`
	Controls *struct {
		JoinGameID  string `json:"join_game_id,omitempty"`
		StartGameID string `json:"start_game_id,omitempty"`
	} `json:"controls,omitempty"`
}

type embed struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Fields      []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"fields,omitempty"`
}

func send(c *websocket.Conn, msgID uint16, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)

	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func printDisplay(d display) {
	if d.Author != "" {
		fmt.Printf("<%s> %s\n", d.Author, d.Content)
		return
	}
	if d.Symbol != "" {
		fmt.Printf("  reaction %s on %s\n", d.Symbol, d.ID)
		return
	}
	if d.Content != "" {
		fmt.Println(d.Content)
	}
	if d.Embed != nil {
		fmt.Printf("== %s ==\n", d.Embed.Title)
		if d.Embed.Description != "" {
			fmt.Println(d.Embed.Description)
		}
		for _, f := range d.Embed.Fields {
			fmt.Printf("  %s: %s\n", f.Name, f.Value)
		}
	}
	if d.Controls != nil && d.Controls.JoinGameID != "" {
		fmt.Printf("  [join with /join %s, start with /start %s]\n",
			d.Controls.JoinGameID, d.Controls.StartGameID)
	}
}

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	token := flag.String("token", "", "auth token")
	user := flag.String("user", "", "user identity")
	room := flag.String("room", "lobby", "room identity")
	flag.Parse()

	if *user == "" {
		log.Fatal("-user is required")
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	q := url.Values{}
	q.Set("token", *token)
	q.Set("user", *user)
	q.Set("room", *room)
	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws", RawQuery: q.Encode()}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	done := make(chan struct{})

	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Printf("Read error: %v", err)
				return
			}
			if len(message) < 4 {
				continue
			}
			var d display
			if err := json.Unmarshal(message[4:], &d); err != nil {
				continue
			}
			printDisplay(d)
		}
	}()

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			var err error
			switch {
			case line == "/create":
				err = send(c, msgTypeCreateGame, request{})
			case strings.HasPrefix(line, "/join "):
				err = send(c, msgTypeJoinGame, request{GameID: strings.TrimPrefix(line, "/join ")})
			case strings.HasPrefix(line, "/start "):
				err = send(c, msgTypeStartGame, request{GameID: strings.TrimPrefix(line, "/start ")})
			case line == "/stop":
				err = send(c, msgTypeStopGame, request{})
			case line == "/random":
				err = send(c, msgTypeRandomWord, request{})
			default:
				err = send(c, msgTypeChat, request{Text: line})
			}
			if err != nil {
				log.Printf("Send error: %v", err)
				return
			}
		}
	}()

	select {
	case <-done:
	case <-interrupt:
		log.Println("Interrupted, closing connection")
		_ = c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
}
