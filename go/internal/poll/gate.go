package poll

// Gate decides whether a snapshot needs rendering by comparing its version
// token with the one last rendered for the session.
type Gate struct {
	session *Session
}

func NewGate(session *Session) *Gate {
	return &Gate{session: session}
}

// ShouldRender reports whether a snapshot carrying token must be rendered and
// records the token when it does. An empty token renders only before any
// token has been stored.
func (g *Gate) ShouldRender(token string) bool {
	return g.session.swapToken(token)
}
