package transport

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"github.com/raywall/bookstore-service/catalog"
	"github.com/raywall/bookstore-service/pkg/metrics"
)

// RouterConfig reúne as dependências das rotas.
type RouterConfig struct {
	Books   catalog.Reader
	Metrics metrics.Provider
	// StaticDir, quando definido, serve a SPA compilada (index.html + assets).
	StaticDir string
}

// NewRouter monta as rotas da API, /healthz e o fallback da SPA.
// O roteador retornado já vem envolvido pelo ObservabilityMiddleware.
func NewRouter(cfg RouterConfig) http.Handler {
	return ObservabilityMiddleware(cfg.Metrics)(newMuxRouter(cfg))
}

func newMuxRouter(cfg RouterConfig) *mux.Router {
	r := mux.NewRouter()
	books := NewBooksHandler(cfg.Books, cfg.Metrics)

	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet, http.MethodHead)

	// qualquer caminho /api fica no sub-roteador: método errado vira 405 e
	// rota desconhecida vira 404 JSON, sem cair no fallback da SPA
	api := r.MatcherFunc(isAPIPath).Subrouter()
	api.HandleFunc("/api/books", books.List).Methods(http.MethodGet)
	api.HandleFunc("/api/books/{id}", books.Get).Methods(http.MethodGet)
	api.NotFoundHandler = http.HandlerFunc(apiNotFound)
	api.MethodNotAllowedHandler = http.HandlerFunc(apiMethodNotAllowed)

	if cfg.StaticDir != "" {
		r.PathPrefix("/").Handler(spaHandler{dir: cfg.StaticDir, index: "index.html"})
	} else {
		r.HandleFunc("/", apiRunning).Methods(http.MethodGet)
	}

	return r
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func apiRunning(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("API is running..."))
}

func apiNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, errorBody{Message: MsgRouteNotFound})
}

func apiMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", http.MethodGet)
	writeJSON(w, http.StatusMethodNotAllowed, errorBody{Message: MsgMethodDenied})
}

func isAPIPath(r *http.Request, _ *mux.RouteMatch) bool {
	return r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/")
}

// spaHandler serve o arquivo pedido quando ele existe em dir e, caso
// contrário, o documento de entrada da SPA.
type spaHandler struct {
	dir   string
	index string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := filepath.Join(h.dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))

	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		http.ServeFile(w, r, name)
		return
	}
	http.ServeFile(w, r, filepath.Join(h.dir, h.index))
}
