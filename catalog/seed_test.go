package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/bookstore-service/catalog"
	"github.com/raywall/bookstore-service/dyndb"
	"github.com/raywall/bookstore-service/pkg/config"
	"github.com/raywall/bookstore-service/pkg/metrics"
)

const table = "tb_books"

func newMemoryStore() (*dyndb.MemoryClient, dyndb.Store[catalog.Book]) {
	client := dyndb.NewMemoryClient(dyndb.WithTable(table, "id"))
	return client, catalog.NewStore(client, table)
}

func TestSeed_TwiceLeavesFourRecords(t *testing.T) {
	client, store := newMemoryStore()
	rec := &metrics.Recorder{}
	seeder := catalog.NewSeeder(store, catalog.WithSeedMetrics(rec))

	for i := 0; i < 2; i++ {
		n, err := seeder.Seed(context.Background(), catalog.DefaultBooks())
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	}

	assert.Equal(t, 4, client.ItemCount(table))
	assert.Equal(t, 8, client.CallCount("PutItem"))
	assert.Len(t, rec.Samples(metrics.SeedRuns), 2)
}

func TestSeed_AbortsOnFirstFailure(t *testing.T) {
	client, store := newMemoryStore()
	puts := 0
	client.FailFn = func(op, _ string) error {
		if op != "PutItem" {
			return nil
		}
		puts++
		if puts == 2 {
			return errors.New("throughput exceeded")
		}
		return nil
	}

	n, err := catalog.NewSeeder(store).Seed(context.Background(), catalog.DefaultBooks())

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"2"`)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, client.CallCount("PutItem"))
	assert.Equal(t, 1, client.ItemCount(table))
}

func TestSeed_MissingTable(t *testing.T) {
	store := catalog.NewStore(dyndb.NewMemoryClient(), table)

	_, err := catalog.NewSeeder(store).Seed(context.Background(), catalog.DefaultBooks())

	assert.ErrorIs(t, err, dyndb.ErrTableNotFound)
}

func TestSeeder_Validate(t *testing.T) {
	valid := catalog.DefaultBooks()[0]

	tests := []struct {
		name  string
		books []catalog.Book
		ok    bool
	}{
		{name: "catálogo padrão", books: catalog.DefaultBooks(), ok: true},
		{name: "lista vazia", books: nil, ok: true},
		{name: "id vazio", books: []catalog.Book{{Name: "x"}}},
		{name: "estoque negativo", books: []catalog.Book{{ID: "1", CountInStock: -1}}},
		{name: "preço negativo", books: []catalog.Book{{ID: "1", Price: -0.01}}},
		{name: "id repetido", books: []catalog.Book{valid, valid}},
	}

	seeder := catalog.NewSeeder(catalog.NewStore(dyndb.NewMemoryClient(), table))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := seeder.Validate(tt.books)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, catalog.ErrInvalidSeed)
		})
	}
}

func TestSeed_InvalidWritesNothing(t *testing.T) {
	client, store := newMemoryStore()
	books := append(catalog.DefaultBooks(), catalog.Book{ID: "1"})

	_, err := catalog.NewSeeder(store).Seed(context.Background(), books)

	assert.ErrorIs(t, err, catalog.ErrInvalidSeed)
	assert.Equal(t, 0, client.CallCount("PutItem"))
}

func TestLoadSeedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "books.yaml")
	content := `books:
  - id: "10"
    name: El Principito
    author: Antoine S.
    countInStock: 3
    price: 9.9
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	books, err := catalog.ResolveSeedBooks(config.SeedConf{File: path})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "10", books[0].ID)
	assert.Equal(t, "El Principito", books[0].Name)
	assert.Equal(t, 3, books[0].CountInStock)
	assert.Equal(t, 9.9, books[0].Price)
}

func TestLoadSeedFile_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.yaml")
	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("books: []\n"), 0o600))
	require.NoError(t, os.WriteFile(broken, []byte("books: [\n"), 0o600))

	for _, path := range []string{filepath.Join(dir, "missing.yaml"), empty, broken} {
		_, err := catalog.LoadSeedFile(path)
		assert.Error(t, err, path)
	}
}

func TestResolveSeedBooks_Default(t *testing.T) {
	books, err := catalog.ResolveSeedBooks(config.SeedConf{})
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultBooks(), books)
}

func TestSeedPolicy(t *testing.T) {
	local := config.StoreConf{EndpointOverride: "http://localhost:8000"}.Target()
	ambient := config.StoreConf{Region: "us-east-1"}.Target()
	ctx := context.Background()
	cause := errors.New("down")

	assert.Equal(t, catalog.FailFast, catalog.PolicyFor(local))
	assert.Equal(t, catalog.LogAndSkip, catalog.PolicyFor(ambient))

	assert.Equal(t, 1, catalog.FailFast.ExitCode(ctx, cause))
	assert.Equal(t, 0, catalog.LogAndSkip.ExitCode(ctx, cause))
	assert.Equal(t, 0, catalog.FailFast.ExitCode(ctx, nil))
}
