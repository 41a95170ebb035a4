package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
	"github.com/saeidalz13/battleship-solo/internal/session"
	mc "github.com/saeidalz13/battleship-solo/models/connection"
)

const (
	URLQuerySessionIDKeyword string = "sessionID"

	requestTimeout = time.Second * 15
)

var (
	upgrader = websocket.Upgrader{

		// good average time since this is not a high-latency operation such as video streaming
		HandshakeTimeout: time.Second * 5,

		// probably more that enough but this is a good average size
		ReadBufferSize:  2048,
		WriteBufferSize: 2048,
		CheckOrigin:     func(r *http.Request) bool { return true },
	}
)

// RequestProcessor serves the websocket flavour of the game. The session
// id of the connection is the key the game is stored under.
type RequestProcessor struct {
	sessionManager mc.SessionManager
	game           session.Service
}

func NewRequestProcessor(sessionManager mc.SessionManager, game session.Service) RequestProcessor {
	return RequestProcessor{
		sessionManager: sessionManager,
		game:           game,
	}
}

func (rp RequestProcessor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// use Upgrade method to make a websocket connection
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	var sess *mc.Session
	sessionIdQuery := r.URL.Query().Get(URLQuerySessionIDKeyword)
	switch sessionIdQuery {
	case "":
		log.Println("a new connection established\tRemote Addr: ", conn.RemoteAddr().String())
		sess = rp.sessionManager.GenerateNewSession(conn)

	default:
		log.Println("connection resumed\tRemote Addr: ", conn.RemoteAddr().String())
		sess = rp.sessionManager.AttachSession(sessionIdQuery, conn)
	}

	rp.processSessionRequests(sess, conn)
}

func (rp RequestProcessor) processSessionRequests(sess *mc.Session, conn *websocket.Conn) {
	defer func() {
		// a reconnect may have handed the session to another conn already
		if sess.Conn() == conn {
			rp.sessionManager.TerminateSession(sess)
		}
		_ = conn.Close()
	}()

	resp := mc.NewMessage[mc.RespSessionId](mc.CodeSessionID)
	resp.AddPayload(mc.RespSessionId{SessionID: sess.Id()})
	if err := rp.sessionManager.WriteToSessionConn(sess, resp, mc.MessageTypeJSON); err != nil {
		return
	}

sessionLoop:
	for {
		// A WebSocket frame can be one of 6 types: text=1, binary=2, ping=9, pong=10, close=8 and continuation=0
		// https://www.rfc-editor.org/rfc/rfc6455.html#section-11.8
		_, payload, err := rp.sessionManager.ReadFromSessionConn(sess)
		if err != nil {
			// retries are exhausted by now, or the conn was replaced
			break sessionLoop
		}

		code, err := mc.FetchCodeFromMsg(payload)
		if err != nil {
			msg := mc.NewMessage[mc.NoPayload](mc.CodeSignalAbsent)
			msg.AddError("incoming req payload must contain 'code' field", "")
			if err = rp.sessionManager.WriteToSessionConn(sess, msg, mc.MessageTypeJSON); err != nil {
				break sessionLoop
			}
			continue sessionLoop
		}

		var reply any
		switch code {
		case mc.CodePlaceFleet:
			reply = rp.handlePlaceFleet(sess.Id())

		case mc.CodeShoot:
			reply = rp.handleShoot(sess.Id(), payload)

		case mc.CodeForget:
			reply = rp.handleForget(sess.Id())

		default:
			respInvalidSignal := mc.NewMessage[mc.NoPayload](mc.CodeInvalidSignal)
			respInvalidSignal.AddError("", "invalid code in the incoming payload")
			reply = respInvalidSignal
		}

		if err := rp.sessionManager.WriteToSessionConn(sess, reply, mc.MessageTypeJSON); err != nil {
			break sessionLoop
		}
	}
}

func (rp RequestProcessor) handlePlaceFleet(key string) any {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := rp.game.PlaceFleet(ctx, key)
	if err != nil {
		return internalErrorMessage(err)
	}

	msg := mc.NewMessage[mc.RespFleet](mc.CodePlaceFleet)
	msg.AddPayload(result)
	return msg
}

func (rp RequestProcessor) handleShoot(key string, payload []byte) any {
	var req mc.Message[mc.ReqShoot]
	if err := json.Unmarshal(payload, &req); err != nil {
		msg := mc.NewMessage[mc.NoPayload](mc.CodeShoot)
		msg.AddError(err.Error(), "row and column must be integers")
		return msg
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	result, err := rp.game.Shoot(ctx, key, req.Payload.Row, req.Payload.Column)
	if err != nil {
		return internalErrorMessage(err)
	}

	msg := mc.NewMessage[mc.RespShot](mc.CodeShoot)
	msg.AddPayload(result)
	return msg
}

func (rp RequestProcessor) handleForget(key string) any {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if err := rp.game.Forget(ctx, key); err != nil {
		return internalErrorMessage(err)
	}

	msg := mc.NewMessage[mc.Result[mc.NoPayload]](mc.CodeForget)
	msg.AddPayload(mc.Result[mc.NoPayload]{Message: mc.MsgSessionCleared, Success: true})
	return msg
}

func internalErrorMessage(err error) mc.Message[mc.NoPayload] {
	msg := mc.NewMessage[mc.NoPayload](mc.CodeInternalError)
	if errors.Is(err, cerr.ErrMissingSessionKey) {
		msg.AddError("", mc.MsgMissingSessionKey)
		return msg
	}

	log.Println(err)
	msg.AddError("", mc.MsgInternalFailure)
	return msg
}
