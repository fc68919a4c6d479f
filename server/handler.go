package server

import "github.com/joeycumines/go-nexio/reactor"

// Handler is the user-supplied per-connection dispatcher: each accepted
// Session is handed to Handle, and any returned Task is spawned on the
// worker Reactor that owns the Session. A nil Task with a nil error means
// the Handler fully handled (and is responsible for closing) the Session
// synchronously, with nothing left to spawn.
type Handler interface {
	Handle(cx *reactor.Context, sess *Session) (reactor.Task, error)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(cx *reactor.Context, sess *Session) (reactor.Task, error)

// Handle calls f.
func (f HandlerFunc) Handle(cx *reactor.Context, sess *Session) (reactor.Task, error) {
	return f(cx, sess)
}
