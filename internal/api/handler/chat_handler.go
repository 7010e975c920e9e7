package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/oubuilding/apartment-client/internal/api/metrics"
	"github.com/oubuilding/apartment-client/internal/core/domain"
	"github.com/oubuilding/apartment-client/internal/infrastructure/queue"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingInterval   = (pongWait * 9) / 10
	maxMessageSize = 1024
	// resultBuffer bounds the send outcomes waiting for the write pump.
	resultBuffer   = 16
)

// Enqueuer hands an outbound chat message to the send workers.
type Enqueuer interface {
	Enqueue(ctx context.Context, msg queue.Message) error
}

// ChatHandler serves the chat screens and the websocket feed of a room.
type ChatHandler struct {
	sender   Enqueuer
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewChatHandler builds the handler. An empty allowedOrigins accepts any
// origin.
func NewChatHandler(sender Enqueuer, allowedOrigins []string, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		sender: sender,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" || len(allowedOrigins) == 0 {
					return true
				}
				return slices.Contains(allowedOrigins, origin)
			},
		},
		log: log,
	}
}

// Contacts handles GET /chat/contacts.
//
// @Summary      People the administrator can chat with
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Identity
// @Failure      403  {object}  errorResponse
// @Router       /chat/contacts [get]
func (h *ChatHandler) Contacts(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	var contacts []domain.Identity
	err = load(c, client, domain.ScreenMainChat, func(ctx context.Context) error {
		contacts, err = client.Chat().Contacts(ctx)
		return err
	})
	if err != nil {
		return actionErr("load contacts", err)
	}
	return c.JSON(http.StatusOK, contacts)
}

// Peer handles GET /chat/peer.
//
// @Summary      Resolve the chat peer and room
// @Tags         chat
// @Produce      json
// @Security     BearerAuth
// @Param        with  query     string  false  "Peer username, required for the administrator"
// @Success      200   {object}  peerResponse
// @Failure      400   {object}  errorResponse
// @Router       /chat/peer [get]
func (h *ChatHandler) Peer(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	var q peerQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	peer, err := client.Chat().Peer(q.With)
	if err != nil {
		return actionErr("open chat", err)
	}
	room := domain.RoomID(client.State().Username(), peer)
	return c.JSON(http.StatusOK, peerResponse{Peer: peer, Room: room})
}

// Feed handles GET /chat/ws. The server pushes the room in display order
// after every change; every text frame from the client is sent to the room.
//
// @Summary      Chat room feed (websocket)
// @Tags         chat
// @Security     BearerAuth
// @Param        with  query  string  false  "Peer username, required for the administrator"
// @Success      101
// @Failure      400  {object}  errorResponse
// @Router       /chat/ws [get]
func (h *ChatHandler) Feed(c echo.Context) error {
	client, err := ctxClient(c)
	if err != nil {
		return err
	}
	chat := client.Chat()
	peer, err := chat.Peer(c.QueryParam("with"))
	if err != nil {
		return actionErr("open chat", err)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already answered the handshake.
		h.log.Warn().Err(err).Msg("chat upgrade failed")
		return nil
	}

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	room := domain.RoomID(client.State().Username(), peer)
	f := &feed{
		conn:    conn,
		room:    room,
		send:    make(chan snapshotFrame, 1),
		results: make(chan error, resultBuffer),
		log:     h.log.With().Str("room", room).Str("session_id", client.ID()).Logger(),
	}

	conv, err := chat.Open(ctx, peer, f.push)
	if err != nil {
		f.log.Error().Err(err).Msg("open chat failed")
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, domain.Notice("open chat", err)),
			time.Now().Add(writeWait))
		_ = conn.Close()
		return nil
	}
	defer conv.Close()

	metrics.ChatSubscriptions.Inc()
	defer metrics.ChatSubscriptions.Dec()

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.write(ctx)
	}()
	f.read(ctx, func(text string) error {
		return h.sender.Enqueue(ctx, queue.Message{Room: room, Peer: peer, Text: text, Chat: chat, Result: f.results})
	})
	cancel()
	<-done
	return nil
}

// feed pumps one websocket connection. Only the newest snapshot matters, so
// send holds at most one pending frame. results carries the outcome of every
// queued message; a failure goes back to the client as an error frame.
type feed struct {
	conn    *websocket.Conn
	room    string
	send    chan snapshotFrame
	results chan error
	log     zerolog.Logger
}

func (f *feed) push(messages []domain.ChatMessage) {
	frame := snapshotFrame{Room: f.room, Messages: messages}
	for {
		select {
		case f.send <- frame:
			return
		default:
		}
		select {
		case <-f.send:
		default:
		}
	}
}

func (f *feed) write(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = f.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = f.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case frame := <-f.send:
			_ = f.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := f.conn.WriteJSON(frame); err != nil {
				f.log.Debug().Err(err).Msg("write snapshot failed")
				return
			}
		case err := <-f.results:
			if err == nil {
				continue
			}
			_ = f.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := f.conn.WriteJSON(errorResponse{Error: domain.Notice("send the message", err)}); err != nil {
				f.log.Debug().Err(err).Msg("write send failure failed")
				return
			}
		case <-ticker.C:
			_ = f.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := f.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// read returns when the client goes away or the connection fails.
func (f *feed) read(ctx context.Context, send func(text string) error) {
	f.conn.SetReadLimit(maxMessageSize)
	_ = f.conn.SetReadDeadline(time.Now().Add(pongWait))
	f.conn.SetPongHandler(func(string) error {
		return f.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := f.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				f.log.Warn().Err(err).Msg("chat feed closed unexpectedly")
			}
			return
		}
		var in sendFrame
		if err := json.Unmarshal(data, &in); err != nil {
			f.log.Debug().Err(err).Msg("ignored malformed frame")
			continue
		}
		if strings.TrimSpace(in.Text) == "" {
			continue
		}
		if err := send(in.Text); err != nil {
			if ctx.Err() == nil {
				f.log.Error().Err(err).Msg("queue message failed")
			}
			return
		}
	}
}
