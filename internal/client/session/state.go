package session

// State is the lifecycle state of the logical session.
type State int

const (
	StateNoSession State = iota
	StateAuthenticated
	StateRefreshing
	StateExpired
)

func (s State) String() string {
	switch s {
	case StateNoSession:
		return "NO_SESSION"
	case StateAuthenticated:
		return "AUTHENTICATED"
	case StateRefreshing:
		return "REFRESHING"
	case StateExpired:
		return "EXPIRED"
	default:
		return "UNKNOWN"
	}
}
