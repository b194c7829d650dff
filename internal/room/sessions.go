package room

import "sync"

// Session is the room membership of one connection.
type Session struct {
	RoomCode string
	Username string
}

type sessions struct {
	mu     sync.Mutex
	byConn map[ConnID]Session
}

func newSessions() *sessions {
	return &sessions{byConn: make(map[ConnID]Session)}
}

func (s *sessions) get(conn ConnID) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byConn[conn]
	return sess, ok
}

func (s *sessions) set(conn ConnID, sess Session) {
	s.mu.Lock()
	s.byConn[conn] = sess
	s.mu.Unlock()
}

func (s *sessions) delete(conn ConnID) {
	s.mu.Lock()
	delete(s.byConn, conn)
	s.mu.Unlock()
}

func (s *sessions) clear() {
	s.mu.Lock()
	s.byConn = make(map[ConnID]Session)
	s.mu.Unlock()
}
