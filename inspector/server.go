// Package inspector implements a read-only HTTP+WebSocket service exposing
// a machine.Scheduler's state to external tooling: decoded scene
// summaries, per-bank memory save-form snapshots, the live object table,
// and a WebSocket stream of tick events. It is grounded in the teacher's
// api/server.go (route table + CORS-restricted mux), api/websocket.go
// (upgrade + read/write pumps), and api/broadcaster.go (fan-out hub,
// renamed Hub here since there is exactly one Scheduler per server rather
// than many sessions). This is inspection only; it never mutates the
// Scheduler it serves.
package inspector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rlvm/rlvm/bytecode"
	"github.com/rlvm/rlvm/machine"
	"github.com/rlvm/rlvm/memory"
	"github.com/rlvm/rlvm/object"
	"github.com/rlvm/rlvm/paramstore"
)

// SceneProvider resolves a scene id to its decoded form, decoupling the
// inspector from any one archive package (reallive, siglus, or a
// hand-built bytecode.Scene in tests).
type SceneProvider interface {
	Scene(id int) (*bytecode.Scene, error)
}

// Server serves read-only snapshots of a Scheduler plus whatever
// SceneProvider the caller wires in.
type Server struct {
	sched  *machine.Scheduler
	scenes SceneProvider
	hub    *Hub
	mux    *http.ServeMux
	server *http.Server
	addr   string
}

// NewServer builds a Server listening on addr (e.g. "127.0.0.1:18881",
// config.Inspector.ListenAddr's default) that inspects sched and resolves
// scenes through scenes.
func NewServer(addr string, sched *machine.Scheduler, scenes SceneProvider) *Server {
	s := &Server{
		sched:  sched,
		scenes: scenes,
		hub:    NewHub(),
		mux:    http.NewServeMux(),
		addr:   addr,
	}
	s.registerRoutes()
	return s
}

// Hub exposes the server's event hub so the driving loop can Publish tick
// events (object added/removed, mutator finished, kidoku recorded).
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/v1/ws", s.handleWebSocket)
	s.mux.HandleFunc("/api/v1/scene/", s.handleScene)
	s.mux.HandleFunc("/api/v1/memory/", s.handleMemory)
	s.mux.HandleFunc("/api/v1/objects", s.handleObjects)
}

// Handler returns the HTTP handler with the teacher's localhost-only CORS
// policy applied.
func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(s.mux)
}

// Start runs the HTTP server until it errors or is shut down.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Printf("inspector listening on http://%s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server and disconnects any WebSocket
// clients.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	s.hub.mu.Lock()
	for sub := range s.hub.subs {
		delete(s.hub.subs, sub)
		close(sub.ch)
	}
	s.hub.mu.Unlock()
	return err
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if isAllowedOrigin(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isAllowedOrigin(origin string) bool {
	if origin == "" {
		return true
	}
	return strings.HasPrefix(origin, "http://localhost") ||
		strings.HasPrefix(origin, "https://localhost") ||
		strings.HasPrefix(origin, "http://127.0.0.1") ||
		strings.HasPrefix(origin, "https://127.0.0.1")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	_, effectActive := s.sched.ActiveEffect()
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "ok",
		Ticks:        s.sched.Ticks(),
		Subscribers:  s.hub.SubscriberCount(),
		StackDepth:   s.sched.Depth(),
		EffectActive: effectActive,
	})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	idStr := strings.TrimPrefix(r.URL.Path, "/api/v1/scene/")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "scene id must be an integer")
		return
	}
	scene, err := s.scenes.Scene(id)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sceneResponse{
		ID:               scene.ID,
		Name:             scene.Name,
		InstructionCount: len(scene.Order),
		Entrypoints:      scene.Entrypoints,
		Labels:           scene.Labels,
	})
}

func (s *Server) handleMemory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	bank := memory.BankCode(strings.TrimPrefix(r.URL.Path, "/api/v1/memory/"))
	if bank == "" {
		writeError(w, http.StatusBadRequest, "bank code required")
		return
	}
	facade := s.sched.Memory

	if size, runs, err := facade.IntBankSnapshot(bank); err == nil {
		out := make([]memoryRunResponse, len(runs))
		for i, run := range runs {
			out[i] = memoryRunResponse{From: run.From, To: run.To, Value: run.Value}
		}
		writeJSON(w, http.StatusOK, memoryResponse{Bank: string(bank), Size: size, Runs: out})
		return
	}

	size, runs, err := facade.StrBankSnapshot(bank)
	if err != nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown bank %q", bank))
		return
	}
	out := make([]memoryRunResponse, len(runs))
	for i, run := range runs {
		out[i] = memoryRunResponse{From: run.From, To: run.To, Value: run.Value}
	}
	writeJSON(w, http.StatusOK, memoryResponse{Bank: string(bank), Size: size, Runs: out})
}

func (s *Server) handleObjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ids := s.sched.Objects.IDs()
	out := make([]objectResponse, 0, len(ids))
	for _, id := range ids {
		obj, ok := s.sched.Objects.Get(id)
		if !ok {
			continue
		}
		out = append(out, objectSnapshot(id, obj))
	}
	writeJSON(w, http.StatusOK, objectsResponse{Objects: out})
}

func objectSnapshot(id int, obj *object.GraphicsObject) objectResponse {
	resp := objectResponse{
		ID:      id,
		Visible: getInt32(obj, object.PropVisible) != 0,
		X:       getInt32(obj, object.PropX),
		Y:       getInt32(obj, object.PropY),
		Alpha:   getInt32(obj, object.PropAlpha),
		ZOrder:  getInt32(obj, object.PropZOrder),
		Dirty:   obj.Dirty,
	}
	if obj.Data != nil {
		resp.Kind = kindName(obj.Data.Kind)
		resp.FrameIndex = obj.Data.FrameIndex
		resp.FrameCount = obj.Data.FrameCount
		resp.Children = obj.Data.Children
	}
	return resp
}

func kindName(k object.ObjectKind) string {
	switch k {
	case object.ObjectFile:
		return "file"
	case object.ObjectText:
		return "text"
	case object.ObjectAnim:
		return "anim"
	case object.ObjectParent:
		return "parent"
	default:
		return "none"
	}
}

func getInt32(obj *object.GraphicsObject, prop object.PropertyID) int32 {
	v, ok := obj.Params.Get(paramstore.Key{Property: int(prop)})
	if !ok {
		return 0
	}
	n, _ := v.(int32)
	return n
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("inspector: error encoding JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: http.StatusText(status), Message: message, Code: status})
}
