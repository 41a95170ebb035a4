package connection

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	cerr "github.com/saeidalz13/battleship-solo/internal/error"
)

const DefaultSessionCleanupInterval = time.Minute * 20

type SessionManager interface {
	GenerateNewSession(conn *websocket.Conn) *Session
	AttachSession(sessionId string, conn *websocket.Conn) *Session
	FindSession(sessionId string) (*Session, error)
	TerminateSession(session *Session)
	CleanupPeriodically(ctx context.Context)

	WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error
	ReadFromSessionConn(session *Session) (int, []byte, error)
}

type BattleshipSessionManager struct {
	cleanupInterval time.Duration
	sessions        map[string]*Session
	mu              sync.RWMutex
}

var _ SessionManager = (*BattleshipSessionManager)(nil)

func NewBattleshipSessionManager(cleanupInterval time.Duration) *BattleshipSessionManager {
	initMapSize := 10
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultSessionCleanupInterval
	}

	return &BattleshipSessionManager{
		sessions:        make(map[string]*Session, initMapSize),
		cleanupInterval: cleanupInterval,
	}
}

// NewSessionId returns a URL compatible session id.
func NewSessionId() string {
	return base64.RawURLEncoding.EncodeToString([]byte(uuid.New().String()))
}

func (bsm *BattleshipSessionManager) GenerateNewSession(conn *websocket.Conn) *Session {
	session := NewSession(NewSessionId(), conn)

	bsm.mu.Lock()
	bsm.sessions[session.id] = session
	bsm.mu.Unlock()

	return session
}

// AttachSession binds conn to the session with the given id. A live
// session has its old connection closed; an unknown id (expired or from
// another server) is registered as a new session under that id.
//
// The id is a bearer secret: whoever presents it takes over the session
// and its game, so it must only ever travel to the player it was minted
// for.
func (bsm *BattleshipSessionManager) AttachSession(sessionId string, conn *websocket.Conn) *Session {
	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	session, prs := bsm.sessions[sessionId]
	if !prs || session == nil {
		session = NewSession(sessionId, conn)
		bsm.sessions[sessionId] = session
		return session
	}

	if old := session.replaceConn(conn); old != nil && old != conn {
		_ = old.Close()
	}
	return session
}

func (bsm *BattleshipSessionManager) FindSession(sessionId string) (*Session, error) {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()

	session, prs := bsm.sessions[sessionId]
	if !prs {
		return nil, cerr.ErrSessionNotFoundID(sessionId)
	}

	if session == nil {
		return nil, cerr.ErrSessionIsNil(sessionId)
	}

	return session, nil
}

// TerminateSession drops the session from the registry unless another
// connection has taken it over in the meantime.
func (bsm *BattleshipSessionManager) TerminateSession(session *Session) {
	if session == nil {
		return
	}

	bsm.mu.Lock()
	defer bsm.mu.Unlock()

	if current, prs := bsm.sessions[session.id]; prs && current == session {
		delete(bsm.sessions, session.id)
	}
}

// To ensure that there is no dangling connections, the session manager
// marks sessions idle for longer than the cleanup interval as stale and
// deletes them.
func (bsm *BattleshipSessionManager) CleanupPeriodically(ctx context.Context) {
	assumedClosedConns := 10
	ticker := time.NewTicker(bsm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		bsm.mu.Lock()
		toDelete := make([]string, 0, assumedClosedConns)

		for ID, session := range bsm.sessions {
			if time.Since(session.LastSeen()) > bsm.cleanupInterval {
				toDelete = append(toDelete, ID)
			}
		}

		for _, ID := range toDelete {
			if conn := bsm.sessions[ID].Conn(); conn != nil {
				_ = conn.Close()
			}
			delete(bsm.sessions, ID)
			log.Printf("removed stale session: %s", ID)
		}
		bsm.mu.Unlock()
	}
}

func (bsm *BattleshipSessionManager) Len() int {
	bsm.mu.RLock()
	defer bsm.mu.RUnlock()
	return len(bsm.sessions)
}

func (bsm *BattleshipSessionManager) WriteToSessionConn(session *Session, msg interface{}, msgType uint8) error {
	return session.writeToConnWithRetry(msg, msgType)
}

func (bsm *BattleshipSessionManager) ReadFromSessionConn(session *Session) (int, []byte, error) {
	var retries uint8

	for {
		conn := session.Conn()
		if conn == nil {
			return -1, nil, NewConnErr(ConnLoopBreak).AddDesc("session has no connection")
		}

		messageType, payload, err := conn.ReadMessage()
		if err == nil {
			session.touch()
			return messageType, payload, nil
		}

		switch session.handleReadFromConnErr(err, retries) {
		case ConnLoopContinue:
			retries++
			continue

		default:
			return -1, nil, err
		}
	}
}

func FetchCodeFromMsg(payload []byte) (uint8, error) {
	var signal Signal
	const randomInvalidCode uint8 = 255

	if err := json.Unmarshal(payload, &signal); err != nil {
		return randomInvalidCode, err
	}

	return signal.Code, nil
}
