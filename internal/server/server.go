package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

type Action string

type Method string

const (
	Data    Action = "data"
	Api     Action = "api"
	Metrics Action = "metrics"

	GET  Method = "GET"
	POST Method = "POST"
)

type Handler func(r *http.Request) ([]byte, int, error)

type Route struct {
	Action Action
	Path   string
	Method Method
	Exec   Handler
}

type Server struct {
	name     string
	port     int
	debug    bool
	lock     *sync.Mutex
	handlers map[Action]http.Handler
	routes   []Route
}

func NewServer(name string, port int) *Server {
	return &Server{
		name:   name,
		port:   port,
		lock:     new(sync.Mutex),
		handlers: make(map[Action]http.Handler),
		routes:   make([]Route, 0),
	}
}

// Debug sets the server to debug mode
func (s *Server) Debug() *Server {
	s.debug = true
	return s
}

// AddRoute adds the given route to the server
func (s *Server) AddRoute(method Method, action Action, path string, exec Handler) *Server {
	s.routes = append(s.routes, Route{
		Action: action,
		Path:   path,
		Method: method,
		Exec:   exec,
	})
	return s
}

// Add adds the given routes to the server
func (s *Server) Add(route ...Route) *Server {
	s.routes = append(s.routes, route...)
	return s
}

// Handle adds a plain http handler to the server
func (s *Server) Handle(action Action, handler http.Handler) *Server {
	s.handlers[action] = handler
	return s
}

func (s *Server) handle(method Method, handler Handler) func(w http.ResponseWriter, r *http.Request) {
	// we only handle one request at a time
	name := runtime.FuncForPC(reflect.ValueOf(handler).Pointer()).Name()
	return func(w http.ResponseWriter, r *http.Request) {
		s.lock.Lock()
		defer s.lock.Unlock()
		start := time.Now()
		if s.debug {
			log.Debug().
				Str("method", string(method)).
				Str("handler", name).
				Msg("started execution")
		}
		requestMethod := Method(r.Method)
		switch requestMethod {
		case method:
			b, code, err := handler(r)
			if err != nil {
				s.error(w, err)
			} else if code != http.StatusOK {
				s.code(w, b, code)
			} else {
				s.respond(w, b)
			}
		default:
			w.WriteHeader(http.StatusNotImplemented)
		}
		if s.debug {
			log.Debug().
				Float64("duration", time.Since(start).Seconds()).
				Str("handler", name).
				Msg("completed execution")
		}
	}
}

// Handler returns a new http handler serving all routes added so far.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	for action, handler := range s.handlers {
		mux.Handle(fmt.Sprintf("/%s", action), handler)
	}
	for _, route := range s.routes {
		if route.Path != "" {
			mux.HandleFunc(fmt.Sprintf("/%s/%s", route.Action, route.Path), s.handle(route.Method, route.Exec))
		} else {
			mux.HandleFunc(fmt.Sprintf("/%s", route.Action), s.handle(route.Method, route.Exec))
		}
	}
	return mux
}

// Run starts the server
func (s *Server) Run() error {
	handler := s.Handler()
	log.Info().Str("server", s.name).Int("port", s.port).Msg("starting server")
	if err := http.ListenAndServe(fmt.Sprintf(":%d", s.port), handler); err != nil {
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) code(w http.ResponseWriter, b []byte, code int) {
	w.WriteHeader(code)
	s.respond(w, b)
}

func (s *Server) respond(w http.ResponseWriter, b []byte) {
	_, err := w.Write(b)
	if err != nil {
		log.Error().Err(err).Msg("could not write response")
	}
}

func (s *Server) error(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("error for http request")
	s.code(w, []byte(err.Error()), http.StatusInternalServerError)
}

func Live() Route {
	return Route{
		Action: Data,
		Method: GET,
		Exec: func(r *http.Request) (payload []byte, code int, err error) {
			return []byte{}, http.StatusOK, nil
		},
	}
}

// JsonRead decodes the request body into v.
func JsonRead(r *http.Request, debug bool, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if debug {
		log.Info().
			Str("url", fmt.Sprintf("%+v", r.URL)).
			Str("method", r.Method).
			Str("remote-address", r.RemoteAddr).
			Str("body", string(body)).
			Msg("received payload")
	}
	if len(body) > 0 {
		err = json.Unmarshal(body, v)
		if err != nil {
			return err
		}
	}
	return nil
}
