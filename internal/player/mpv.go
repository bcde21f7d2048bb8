package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"sync"
	"time"
)

const ipcTimeout = 2 * time.Second

// MPV talks to a running mpv instance over its JSON IPC socket
// (mpv --input-ipc-server=<path>). Commands are newline-delimited JSON
// objects; responses are matched to requests by request_id, with async
// event lines skipped.
type MPV struct {
	mu     sync.Mutex
	conn   net.Conn
	reader *bufio.Reader
	nextID int
}

// mpvRequest is a single IPC command frame.
type mpvRequest struct {
	Command   []any `json:"command"`
	RequestID int   `json:"request_id"`
}

// mpvResponse is a single IPC response or event frame.
type mpvResponse struct {
	Data      json.RawMessage `json:"data"`
	RequestID int             `json:"request_id"`
	Error     string          `json:"error"`
	Event     string          `json:"event"`
}

// Connect dials the mpv IPC socket at the given path.
func Connect(socket string) (*MPV, error) {
	conn, err := net.DialTimeout("unix", socket, ipcTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial mpv socket: %w", err)
	}
	return &MPV{
		conn:   conn,
		reader: bufio.NewReader(conn),
	}, nil
}

// Close closes the underlying connection.
func (m *MPV) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}

// SeekTo moves playback to the given position.
// Returns false when the command fails or the connection is gone.
func (m *MPV) SeekTo(seconds float64) bool {
	_, err := m.roundTrip([]any{"set_property", "time-pos", seconds})
	if err != nil {
		log.Printf("player: seek to %.3f failed: %v", seconds, err)
		return false
	}
	return true
}

// CurrentTime returns the current playback position,
// or 0 when it cannot be read.
func (m *MPV) CurrentTime() float64 {
	data, err := m.roundTrip([]any{"get_property", "time-pos"})
	if err != nil {
		log.Printf("player: reading time-pos failed: %v", err)
		return 0
	}
	var pos float64
	if err := json.Unmarshal(data, &pos); err != nil {
		// mpv reports null for time-pos before playback starts
		return 0
	}
	return pos
}

// roundTrip sends one command and reads frames until the matching response
// arrives. Event frames interleaved by mpv are skipped.
func (m *MPV) roundTrip(command []any) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.conn == nil {
		return nil, fmt.Errorf("connection closed")
	}

	m.nextID++
	req := mpvRequest{Command: command, RequestID: m.nextID}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	if err := m.conn.SetDeadline(time.Now().Add(ipcTimeout)); err != nil {
		return nil, err
	}
	if _, err := m.conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write command: %w", err)
	}

	for {
		line, err := m.reader.ReadBytes('\n')
		if err != nil {
			return nil, fmt.Errorf("read response: %w", err)
		}

		var resp mpvResponse
		if err := json.Unmarshal(line, &resp); err != nil {
			continue
		}
		if resp.Event != "" || resp.RequestID != req.RequestID {
			continue
		}
		if resp.Error != "success" {
			return nil, fmt.Errorf("mpv: %s", resp.Error)
		}
		return resp.Data, nil
	}
}
