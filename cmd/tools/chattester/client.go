package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mindwell-ai/mindwell/backend/internal/model/chat"
)

type client struct {
	baseURL  string
	userID   string
	userName string
	mood     int
	timeout  time.Duration
	http     *http.Client
}

type errorBody struct {
	Error    string `json:"error"`
	Fallback string `json:"fallback"`
}

func (b errorBody) err(status int) error {
	if b.Fallback != "" {
		return fmt.Errorf("server returned %d: %s (fallback: %s)", status, b.Error, b.Fallback)
	}
	return fmt.Errorf("server returned %d: %s", status, b.Error)
}

func (c *client) httpClient() *http.Client {
	if c.http != nil {
		return c.http
	}
	return http.DefaultClient
}

func (c *client) request(message string) chat.Request {
	mood := c.mood
	return chat.Request{Message: message, Mood: &mood, UserName: c.userName, UserID: c.userID}
}

func (c *client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.baseURL, "/")+path, payload)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.httpClient().Do(req)
}

func (c *client) getJSON(ctx context.Context, path string, dst any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return decodeResponse(resp, dst)
}

func decodeResponse(resp *http.Response, dst any) error {
	if resp.StatusCode != http.StatusOK {
		var body errorBody
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return body.err(resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

// Chat performs one blocking chat turn.
func (c *client) Chat(ctx context.Context, message string) (chat.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.do(ctx, http.MethodPost, "/api/chat", c.request(message))
	if err != nil {
		return chat.Response{}, err
	}
	defer resp.Body.Close()

	var out chat.Response
	return out, decodeResponse(resp, &out)
}

// Stream performs one chat turn over SSE, forwarding deltas as they arrive.
func (c *client) Stream(ctx context.Context, message string, onDelta func(string)) (chat.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.do(ctx, http.MethodPost, "/api/chat/stream", c.request(message))
	if err != nil {
		return chat.Response{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return chat.Response{}, decodeResponse(resp, nil)
	}
	return readEvents(resp.Body, onDelta)
}

// maxEventLine bounds a single SSE line; the end event carries the whole reply.
const maxEventLine = 4 << 20

func readEvents(r io.Reader, onDelta func(string)) (chat.Response, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventLine)
	var event string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data := []byte(strings.TrimPrefix(line, "data: "))
			switch event {
			case "delta":
				var delta struct {
					Content string `json:"content"`
				}
				if err := json.Unmarshal(data, &delta); err == nil && onDelta != nil {
					onDelta(delta.Content)
				}
			case "end":
				var out chat.Response
				if err := json.Unmarshal(data, &out); err != nil {
					return chat.Response{}, fmt.Errorf("decode end event: %w", err)
				}
				return out, nil
			case "error":
				var body errorBody
				_ = json.Unmarshal(data, &body)
				return chat.Response{}, body.err(http.StatusOK)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return chat.Response{}, err
	}
	return chat.Response{}, fmt.Errorf("stream closed before end event")
}

type wsFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Converse reads lines from in and sends each as a chat turn over the
// WebSocket channel until in is exhausted.
func (c *client) Converse(ctx context.Context, in io.Reader, out io.Writer) error {
	url := "ws" + strings.TrimPrefix(strings.TrimRight(c.baseURL, "/"), "http") + "/api/chat/ws"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()

	var hello wsFrame
	if err := conn.ReadJSON(&hello); err != nil {
		return fmt.Errorf("read greeting: %w", err)
	}
	fmt.Fprintf(out, "connected: %s\n", hello.Data)

	lines := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !lines.Scan() {
			return lines.Err()
		}
		message := strings.TrimSpace(lines.Text())
		if message == "" {
			continue
		}

		if err := conn.WriteJSON(map[string]any{"type": "chat", "data": c.request(message)}); err != nil {
			return fmt.Errorf("send: %w", err)
		}
		if err := c.awaitReply(conn, out); err != nil {
			return err
		}
	}
}

func (c *client) awaitReply(conn *websocket.Conn, out io.Writer) error {
	_ = conn.SetReadDeadline(time.Now().Add(c.timeout))
	streamed := false
	for {
		var frame wsFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return fmt.Errorf("receive: %w", err)
		}

		switch frame.Type {
		case "delta":
			var delta struct {
				Content string `json:"content"`
			}
			_ = json.Unmarshal(frame.Data, &delta)
			fmt.Fprint(out, delta.Content)
			streamed = true
		case "reply":
			var resp chat.Response
			if err := json.Unmarshal(frame.Data, &resp); err != nil {
				return fmt.Errorf("decode reply: %w", err)
			}
			if streamed {
				fmt.Fprintf(out, "\n[%s]\n", resp.MoodAnalysis)
			} else {
				fmt.Fprintf(out, "[%s] %s\n", resp.MoodAnalysis, resp.Response)
			}
			return nil
		case "error":
			var body errorBody
			_ = json.Unmarshal(frame.Data, &body)
			fmt.Fprintf(out, "error: %s\n", body.Error)
			return nil
		}
	}
}

// Tips fetches the suggestions for a mood level.
func (c *client) Tips(ctx context.Context, level int) ([]string, error) {
	var out struct {
		Tips []string `json:"tips"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("/api/mood-tips/%d", level), &out); err != nil {
		return nil, err
	}
	return out.Tips, nil
}

// Health fetches the readiness payload.
func (c *client) Health(ctx context.Context) (map[string]string, error) {
	var out map[string]string
	return out, c.getJSON(ctx, "/health", &out)
}
