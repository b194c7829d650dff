package room

// Transport delivers outbound events. Implementations must not block and must
// not call back into the Coordinator.
type Transport interface {
	EmitTo(conn ConnID, event string, payload any)
	JoinGroup(conn ConnID, code string)
	LeaveGroup(conn ConnID, code string)
	BroadcastToGroup(code, event string, payload any, exclude ...ConnID)
}
