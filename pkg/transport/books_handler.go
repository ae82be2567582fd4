package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/raywall/bookstore-service/catalog"
	"github.com/raywall/bookstore-service/dyndb"
	"github.com/raywall/bookstore-service/pkg/metrics"
)

// Mensagens expostas ao cliente. Detalhes internos só vão para o log.
const (
	MsgListFailed    = "Error obteniendo libros"
	MsgGetFailed     = "Error obteniendo el libro"
	MsgBookNotFound  = "Libro no encontrado"
	MsgRouteNotFound = "Ruta no encontrada"
	MsgMethodDenied  = "Método no permitido"
)

type errorBody struct {
	Message string `json:"message"`
}

// BooksHandler expõe o catálogo em JSON.
type BooksHandler struct {
	books   catalog.Reader
	metrics metrics.Provider
}

func NewBooksHandler(books catalog.Reader, provider metrics.Provider) *BooksHandler {
	return &BooksHandler{books: books, metrics: provider}
}

// List responde GET /api/books.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.books.List(r.Context())
	if err != nil {
		h.storeFailure(r, "list", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: MsgListFailed})
		return
	}
	writeJSON(w, http.StatusOK, books)
}

// Get responde GET /api/books/{id}.
func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	book, err := h.books.Get(r.Context(), id)
	if errors.Is(err, catalog.ErrBookNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{Message: MsgBookNotFound})
		return
	}
	if err != nil {
		h.storeFailure(r, "get", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Message: MsgGetFailed})
		return
	}
	writeJSON(w, http.StatusOK, book)
}

func (h *BooksHandler) storeFailure(r *http.Request, op string, err error) {
	log.Ctx(r.Context()).Error().Err(err).
		Str("op", op).
		Bool("unavailable", dyndb.IsUnavailable(err)).
		Bool("table_not_found", errors.Is(err, dyndb.ErrTableNotFound)).
		Msg("falha ao consultar catálogo")
	if h.metrics != nil {
		_ = h.metrics.Count(metrics.StoreErrors, 1, []string{"op:" + op})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
