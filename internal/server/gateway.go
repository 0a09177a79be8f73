package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/minemates/minemates/internal/game"
	"github.com/minemates/minemates/internal/session"
)

// Gateway validates inbound action messages, routes them to the room
// registry, and fans resulting events out through the broker. It also owns
// the disconnect lifecycle: grace timers and session-record upkeep.
type Gateway struct {
	registry *game.Registry
	sessions session.Store
	broker   *Broker
	logger   *slog.Logger
	grace    time.Duration
}

func NewGateway(registry *game.Registry, sessions session.Store, broker *Broker, logger *slog.Logger, grace time.Duration) *Gateway {
	return &Gateway{
		registry: registry,
		sessions: sessions,
		broker:   broker,
		logger:   logger,
		grace:    grace,
	}
}

// client is one websocket connection's gateway-side state. roomCode and
// playerID are set once the connection joins a room.
type client struct {
	send      chan []byte
	sessionID string
	roomCode  string
	playerID  string
	sub       *subscriber
}

func (c *client) enqueue(event any) {
	data, _ := json.Marshal(event)
	select {
	case c.send <- data:
	default:
	}
}

func (c *client) joined() bool { return c.roomCode != "" }

// handle dispatches one decoded message. Unknown types and actions sent
// before joining are ignored.
func (g *Gateway) handle(ctx context.Context, c *client, msg inbound) {
	switch msg.Type {
	case "join_room":
		g.handleJoin(ctx, c, msg)
	case "open_cell":
		g.withRoom(c, func(r *game.Room) []game.Outgoing {
			return r.Open(c.playerID, msg.Row, msg.Col)
		})
	case "toggle_flag":
		g.withRoom(c, func(r *game.Room) []game.Outgoing {
			return r.ToggleFlag(c.playerID, msg.Row, msg.Col)
		})
	case "chord_cell":
		g.withRoom(c, func(r *game.Room) []game.Outgoing {
			return r.Chord(c.playerID, msg.Row, msg.Col)
		})
	case "cell_hover":
		g.withRoom(c, func(r *game.Room) []game.Outgoing {
			return r.HoverEvent(c.playerID, msg.Row, msg.Col)
		})
	case "reset_board":
		g.withRoomErr(c, func(r *game.Room) ([]game.Outgoing, error) {
			return r.ResetBoard(c.playerID)
		})
	case "start_pvp":
		g.withRoomErr(c, func(r *game.Room) ([]game.Outgoing, error) {
			return r.StartPvP(c.playerID)
		})
	case "pvp_rematch":
		g.withRoomErr(c, func(r *game.Room) ([]game.Outgoing, error) {
			return r.Rematch(c.playerID)
		})
	case "leave_room":
		g.leave(ctx, c)
	}
}

func (g *Gateway) withRoom(c *client, act func(*game.Room) []game.Outgoing) {
	if !c.joined() {
		return
	}
	room, err := g.registry.Get(c.roomCode)
	if err != nil {
		return
	}
	g.deliver(c.roomCode, act(room))
}

func (g *Gateway) withRoomErr(c *client, act func(*game.Room) ([]game.Outgoing, error)) {
	if !c.joined() {
		return
	}
	room, err := g.registry.Get(c.roomCode)
	if err != nil {
		return
	}
	events, err := act(room)
	if errors.Is(err, game.ErrNotHost) {
		c.enqueue(errorMessage{Type: "error", Code: errNotHost, Message: "only the host can do that"})
		return
	}
	if err != nil {
		g.logger.Error("room action failed", "room", c.roomCode, "error", err)
		return
	}
	g.deliver(c.roomCode, events)
}

// deliver fans out room events: an empty To broadcasts, otherwise the event
// goes only to that player's connections.
func (g *Gateway) deliver(roomCode string, events []game.Outgoing) {
	for _, ev := range events {
		if ev.To == "" {
			g.broker.Publish(roomCode, ev.Msg)
		} else {
			g.broker.SendTo(roomCode, ev.To, ev.Msg)
		}
	}
}

func (g *Gateway) handleJoin(ctx context.Context, c *client, msg inbound) {
	if c.joined() {
		return
	}

	// A returning session reattaches to its old player slot and gets the
	// full authoritative state as one atomic snapshot. Store errors are
	// logged and fall through to a fresh join: play must not depend on the
	// session store being up.
	if msg.SessionID != "" {
		if g.resume(ctx, c, msg.SessionID) {
			return
		}
	}

	name := strings.TrimSpace(msg.Name)
	if name == "" || msg.Code == "" {
		c.enqueue(errorMessage{Type: "error", Code: errBadRequest, Message: "code and name are required"})
		return
	}

	room, player, events, err := g.registry.CreateOrJoin(msg.Code, game.ParseMode(msg.Mode), name)
	switch {
	case errors.Is(err, game.ErrRoomFull):
		c.enqueue(errorMessage{Type: "error", Code: errRoomFull, Message: "room is full"})
		return
	case err != nil:
		c.enqueue(errorMessage{Type: "error", Code: errInvalidConfig, Message: "could not create room"})
		g.logger.Error("join failed", "room", msg.Code, "error", err)
		return
	}

	sessionID := msg.SessionID
	if sessionID == "" {
		sessionID = newSessionID()
	}
	c.sessionID = sessionID
	c.roomCode = room.Code
	c.playerID = player.ID
	c.sub = g.broker.Subscribe(room.Code, player.ID, c.send)

	if err := g.sessions.Save(ctx, sessionID, session.Record{RoomCode: room.Code, PlayerID: player.ID}); err != nil {
		g.logger.Error("saving session record", "room", room.Code, "error", err)
	}

	c.enqueue(joinedMessage{Type: "joined", PlayerID: player.ID, SessionID: sessionID, Room: room.Code})
	c.enqueue(room.Snapshot(player.ID))
	g.deliver(room.Code, events)
	g.logger.Info("player joined", "room", room.Code, "player", player.ID, "mode", room.Mode)
}

// resume tries to reattach a returning session. It reports whether the
// connection was fully handled.
func (g *Gateway) resume(ctx context.Context, c *client, sessionID string) bool {
	rec, err := g.sessions.Lookup(ctx, sessionID)
	if errors.Is(err, session.ErrNotFound) {
		return false // expired or unknown: fresh join
	}
	if err != nil {
		g.logger.Error("session lookup failed, treating as fresh join", "error", err)
		return false
	}

	room, err := g.registry.Get(rec.RoomCode)
	if err != nil {
		// Room is gone; the record is stale.
		if derr := g.sessions.Delete(ctx, sessionID); derr != nil {
			g.logger.Error("deleting stale session", "error", derr)
		}
		return false
	}

	events, ok := room.Reattach(rec.PlayerID)
	if !ok {
		return false
	}

	c.sessionID = sessionID
	c.roomCode = rec.RoomCode
	c.playerID = rec.PlayerID
	c.sub = g.broker.Subscribe(rec.RoomCode, rec.PlayerID, c.send)

	// Refresh the record's TTL for the next drop.
	if err := g.sessions.Save(ctx, sessionID, rec); err != nil {
		g.logger.Error("refreshing session record", "error", err)
	}

	c.enqueue(joinedMessage{Type: "joined", PlayerID: rec.PlayerID, SessionID: sessionID, Room: rec.RoomCode})
	c.enqueue(room.Snapshot(rec.PlayerID))
	g.deliver(rec.RoomCode, events)
	g.logger.Info("player reattached", "room", rec.RoomCode, "player", rec.PlayerID)
	return true
}

func (g *Gateway) leave(ctx context.Context, c *client) {
	if !c.joined() {
		return
	}
	code, playerID := c.roomCode, c.playerID
	g.detach(c)

	events := g.registry.Leave(code, playerID)
	g.deliver(code, events)
	if err := g.sessions.Delete(ctx, c.sessionID); err != nil {
		g.logger.Error("deleting session record", "error", err)
	}
	c.sessionID = ""
}

// drop handles a transport-level disconnect: the player's slot survives in
// the room until the grace window lapses, then the match is resolved and
// the slot removed for good.
func (g *Gateway) drop(c *client) {
	if !c.joined() {
		return
	}
	code, playerID := c.roomCode, c.playerID
	g.detach(c)

	room, err := g.registry.Get(code)
	if err != nil {
		return
	}
	g.deliver(code, room.Disconnect(playerID))
	g.logger.Info("player disconnected", "room", code, "player", playerID, "grace", g.grace)

	time.AfterFunc(g.grace, func() {
		events, expired := g.registry.Expire(code, playerID)
		if !expired {
			return
		}
		g.deliver(code, events)
		g.logger.Info("grace window lapsed, player removed", "room", code, "player", playerID)
	})
}

// detach disconnects the client from broker and room bookkeeping without
// touching room state.
func (g *Gateway) detach(c *client) {
	if c.sub != nil {
		g.broker.Unsubscribe(c.roomCode, c.sub)
		c.sub = nil
	}
	c.roomCode = ""
	c.playerID = ""
}

func newSessionID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return hex.EncodeToString([]byte(time.Now().String()))[:32]
	}
	return hex.EncodeToString(b[:])
}
