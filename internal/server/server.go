package server

import (
	"net/http"

	"github.com/sw33tLie/rumscope/internal/utils"
	"github.com/sw33tLie/rumscope/pkg/storage"
)

// maxBodySize caps a single delivered report.
const maxBodySize = 1 << 20

// Server is the local collection sink: it accepts delivered reports and
// exposes them for querying.
type Server struct {
	DB       *storage.DB
	Username string
	Password string
}

func New(db *storage.DB, user, pass string) *Server {
	return &Server{
		DB:       db,
		Username: user,
		Password: pass,
	}
}

// Handler returns the sink's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Ingest, called from browsers so it stays open and CORS-enabled
	mux.HandleFunc("PUT /{$}", s.cors(s.handleIngest))
	mux.HandleFunc("POST /{$}", s.cors(s.handleIngest))
	mux.HandleFunc("OPTIONS /{$}", s.cors(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	// API Group
	mux.HandleFunc("GET /api/stats", s.basicAuth(s.handleStats))
	mux.HandleFunc("GET /api/reports", s.basicAuth(s.handleRecent))
	mux.HandleFunc("GET /api/sessions/{id}", s.basicAuth(s.handleSession))

	return mux
}

func (s *Server) Start(addr string) error {
	utils.Log.Infof("Starting collection sink on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) cors(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "PUT, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		next(w, r)
	}
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
