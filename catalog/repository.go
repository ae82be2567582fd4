package catalog

import (
	"context"
	"errors"

	"github.com/raywall/bookstore-service/dyndb"
)

// ErrBookNotFound é retornado por Get quando o id não existe.
var ErrBookNotFound = dyndb.ErrNotFound

// Reader é o contrato consumido pela camada HTTP.
type Reader interface {
	List(ctx context.Context) ([]Book, error)
	Get(ctx context.Context, id string) (*Book, error)
}

// Repository lê livros direto da tabela; não há cache.
type Repository struct {
	store dyndb.Store[Book]
}

// NewRepository cria o repositório sobre um store já configurado.
func NewRepository(store dyndb.Store[Book]) *Repository {
	return &Repository{store: store}
}

// NewStore cria o store tipado da tabela de livros.
func NewStore(client dyndb.DynamoDBClient, table string) dyndb.Store[Book] {
	return dyndb.New(client, dyndb.TableConfig[Book]{TableName: table, HashKey: "id"})
}

// List devolve todos os livros. Tabela vazia resulta em slice vazio, nunca nil.
func (r *Repository) List(ctx context.Context) ([]Book, error) {
	books, err := r.store.ScanAll(ctx, dyndb.WithProjection(attributes...))
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// Get busca pelo id exato.
func (r *Repository) Get(ctx context.Context, id string) (*Book, error) {
	book, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, dyndb.ErrNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}
