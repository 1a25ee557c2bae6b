package api

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"evalgo.org/erdgen/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// editorSession is one live editor connection. Every incoming change gets a
// sequence number; generation starts once the editor has been quiet for the
// debounce period and is cancelled as soon as a newer change arrives.
type editorSession struct {
	id     string
	conn   *websocket.Conn
	server *Server
	send   chan EditorEvent

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	seq       uint64
	timer     *time.Timer
	inflight  context.CancelFunc
	closeOnce sync.Once
}

// @Summary Live editor session
// @Description WebSocket endpoint. Send {"dbml": "...", "layout": "..."} on every change; receive {"type": "diagram", "seq": n, "diagram": {...}} for the latest change only
// @Tags Diagrams
// @Param token query string false "Client token when authentication is enabled"
// @Success 101 "Switching Protocols"
// @Router /ws/editor [get]
func (s *Server) handleEditor(c echo.Context) error {
	if !isWebSocketUpgrade(c) {
		return BadRequestError("WebSocket upgrade required", "connect with a websocket client")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("ERROR: Failed to upgrade WebSocket connection: %v", err)
		return nil
	}

	session := newEditorSession(s, conn)
	s.debugLog("DEBUG: editor session %s opened", session.id)

	go session.writePump()
	session.push(EditorEvent{Type: EditorEventReady, Session: session.id})
	go session.readPump()

	return nil
}

func newEditorSession(s *Server, conn *websocket.Conn) *editorSession {
	ctx, cancel := context.WithCancel(context.Background())
	return &editorSession{
		id:     models.GenerateID("session"),
		conn:   conn,
		server: s,
		send:   make(chan EditorEvent, 16),
		ctx:    ctx,
		cancel: cancel,
	}
}

// readPump reads editor changes until the connection closes.
func (es *editorSession) readPump() {
	defer es.close()

	if limit := es.server.config.Editor.MaxMessageSize; limit > 0 {
		es.conn.SetReadLimit(limit)
	}
	es.conn.SetReadDeadline(time.Now().Add(pongWait))
	es.conn.SetPongHandler(func(string) error {
		es.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg EditorMessage
		if err := es.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ERROR: editor session %s: %v", es.id, err)
			}
			return
		}
		es.conn.SetReadDeadline(time.Now().Add(pongWait))
		es.schedule(msg)
	}
}

// writePump serialises events and keepalive pings onto the connection.
func (es *editorSession) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		es.close()
	}()

	for {
		select {
		case event := <-es.send:
			es.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := es.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			es.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := es.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-es.ctx.Done():
			es.conn.SetWriteDeadline(time.Now().Add(writeWait))
			es.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// schedule records a change and (re)arms the debounce timer. Any generation
// still running for an older change is cancelled.
func (es *editorSession) schedule(msg EditorMessage) {
	es.mu.Lock()
	defer es.mu.Unlock()

	es.seq++
	seq := es.seq

	if es.timer != nil {
		es.timer.Stop()
	}
	if es.inflight != nil {
		es.inflight()
		es.inflight = nil
	}

	es.timer = time.AfterFunc(es.server.config.Editor.Debounce, func() {
		es.run(seq, msg)
	})
}

// run generates the diagram for change seq unless a newer one arrived.
func (es *editorSession) run(seq uint64, msg EditorMessage) {
	es.mu.Lock()
	if seq != es.seq || es.ctx.Err() != nil {
		es.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(es.ctx)
	es.inflight = cancel
	es.mu.Unlock()
	defer cancel()

	event := EditorEvent{Type: EditorEventDiagram, Seq: seq}

	opts, err := es.server.layoutOptions(msg.Layout)
	if err != nil {
		event.Type = EditorEventError
		event.Error = BadRequestError("Invalid layout", err.Error())
	} else if d, err := es.server.generate(ctx, msg.DBML, opts); err != nil {
		event.Type = EditorEventError
		event.Error = asAPIError(err)
	} else {
		event.Diagram = d
	}

	if !es.current(seq) {
		es.server.debugLog("DEBUG: editor session %s dropped stale result %d", es.id, seq)
		return
	}
	es.push(event)
}

// current reports whether seq is still the latest change.
func (es *editorSession) current(seq uint64) bool {
	es.mu.Lock()
	defer es.mu.Unlock()
	return seq == es.seq && es.ctx.Err() == nil
}

func (es *editorSession) push(event EditorEvent) {
	select {
	case es.send <- event:
	case <-es.ctx.Done():
	}
}

func (es *editorSession) close() {
	es.closeOnce.Do(func() {
		es.mu.Lock()
		if es.timer != nil {
			es.timer.Stop()
		}
		es.mu.Unlock()

		es.cancel()
		es.conn.Close()
		es.server.debugLog("DEBUG: editor session %s closed", es.id)
	})
}

func asAPIError(err error) *APIError {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr
	}
	return pipelineError(err)
}
