// Package registry owns the map from room code to live session. It is an
// actor: a single goroutine serializes create, lookup, and delete, so codes
// never collide within one process.
package registry

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/impostando/impostando-backend/internal/session"
)

type Msg interface{ isRegistryMsg() }

// Ensure returns the session for a code, creating it when absent.
type Ensure struct {
	Code  string
	Reply chan *session.Session
}

// Get returns the session for a code, or nil.
type Get struct {
	Code  string
	Reply chan *session.Session
}

// Remove drops the registry entry. Sent by a session when its roster
// reaches zero.
type Remove struct {
	Code string
}

type Shutdown struct{}

func (Ensure) isRegistryMsg()   {}
func (Get) isRegistryMsg()      {}
func (Remove) isRegistryMsg()   {}
func (Shutdown) isRegistryMsg() {}

type Registry struct {
	inbox    chan Msg
	sessions map[string]*session.Session
	pool     session.PoolBuilder
	log      *zap.Logger
	ctx      context.Context
	cancel   context.CancelFunc
}

func New(parent context.Context, pool session.PoolBuilder, log *zap.Logger) *Registry {
	ctx, cancel := context.WithCancel(parent)
	r := &Registry{
		inbox:    make(chan Msg, 64),
		sessions: make(map[string]*session.Session),
		pool:     pool,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
	go r.loop()
	return r
}

func (r *Registry) Inbox() chan<- Msg { return r.inbox }

func (r *Registry) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Ensure:
				code := canonical(msg.Code)
				if s := r.sessions[code]; s != nil {
					msg.Reply <- s
					break
				}
				s := session.New(r.ctx, code, r.pool, r.log, func(code string) {
					r.inbox <- Remove{Code: code}
				})
				r.sessions[code] = s
				r.log.Info("room created", zap.String("room", code))
				msg.Reply <- s

			case Get:
				msg.Reply <- r.sessions[canonical(msg.Code)] // may be nil

			case Remove:
				code := canonical(msg.Code)
				if _, ok := r.sessions[code]; ok {
					delete(r.sessions, code)
					r.log.Info("room deleted", zap.String("room", code))
				}

			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Registry) shutdown() {
	for code, s := range r.sessions {
		s.Inbox() <- session.Shutdown{}
		delete(r.sessions, code)
	}
	r.cancel()
}

// Room codes are case-insensitive on the wire and canonicalized to
// uppercase on every lookup.
func canonical(code string) string {
	return strings.ToUpper(code)
}
