package router

import (
	"crypto/subtle"
	"errors"
	"strings"
)

var (
	ErrNotFound         = errors.New("router: no route")
	ErrMethodNotAllowed = errors.New("router: method not allowed")
	ErrUnauthorized     = errors.New("router: unauthorized")
)

// Guard decides whether a caller presenting token may enter route.
type Guard func(route Route, token string) bool

// PassThrough admits every caller.
func PassThrough(Route, string) bool { return true }

// BearerGuard admits callers of routes that require auth only when they
// present want. An empty want admits nobody to those routes.
func BearerGuard(want string) Guard {
	return func(route Route, token string) bool {
		if !route.RequiresAuth {
			return true
		}
		if want == "" {
			return false
		}
		return subtle.ConstantTimeCompare([]byte(token), []byte(want)) == 1
	}
}

type Match struct {
	Route  Route
	Params map[string]string
}

func (m Match) Param(name string) string {
	return m.Params[name]
}

type compiled struct {
	route    Route
	segments []string
	static   int
}

type Router struct {
	routes []compiled
	guard  Guard
}

// New compiles routes. A nil guard admits everyone.
func New(routes []Route, guard Guard) *Router {
	if guard == nil {
		guard = PassThrough
	}
	r := &Router{guard: guard}
	for _, route := range routes {
		c := compiled{route: route, segments: split(route.Path)}
		for _, seg := range c.segments {
			if !strings.HasPrefix(seg, ":") {
				c.static++
			}
		}
		r.routes = append(r.routes, c)
	}
	return r
}

// Resolve finds the route for method and path. When several routes match,
// the one with the most literal segments wins.
func (r *Router) Resolve(method, path string) (Match, error) {
	parts := split(path)
	var (
		best      *compiled
		params    map[string]string
		pathFound bool
	)
	for i := range r.routes {
		c := &r.routes[i]
		p, ok := c.match(parts)
		if !ok {
			continue
		}
		pathFound = true
		if c.route.Method != method {
			continue
		}
		if best == nil || c.static > best.static {
			best, params = c, p
		}
	}
	switch {
	case best != nil:
		return Match{Route: best.route, Params: params}, nil
	case pathFound:
		return Match{}, ErrMethodNotAllowed
	default:
		return Match{}, ErrNotFound
	}
}

// Authorize runs the guard for a resolved route.
func (r *Router) Authorize(m Match, token string) error {
	if !r.guard(m.Route, token) {
		return ErrUnauthorized
	}
	return nil
}

func (c *compiled) match(parts []string) (map[string]string, bool) {
	if len(parts) != len(c.segments) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range c.segments {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			if parts[i] == "" {
				return nil, false
			}
			params[name] = parts[i]
			continue
		}
		if seg != parts[i] {
			return nil, false
		}
	}
	return params, true
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
