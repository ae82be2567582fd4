package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/raywall/bookstore-service/dyndb"
	"github.com/raywall/bookstore-service/pkg/config"
	"github.com/raywall/bookstore-service/pkg/metrics"
)

// seedFile é o formato do YAML aceito por LoadSeedFile.
type seedFile struct {
	Books []Book `yaml:"books"`
}

// LoadSeedFile lê uma lista de livros de um YAML no formato:
//
//	books:
//	  - id: "1"
//	    name: Liderazgo
func LoadSeedFile(path string) ([]Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: lendo %s: %w", path, err)
	}
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("catalog: YAML inválido em %s: %w", path, err)
	}
	if len(f.Books) == 0 {
		return nil, fmt.Errorf("catalog: %s não contém livros", path)
	}
	return f.Books, nil
}

// ResolveSeedBooks retorna o conteúdo de SEED_FILE, ou o catálogo embutido.
func ResolveSeedBooks(cfg config.SeedConf) ([]Book, error) {
	if cfg.File == "" {
		return DefaultBooks(), nil
	}
	return LoadSeedFile(cfg.File)
}

// ErrInvalidSeed agrupa falhas de validação da carga.
var ErrInvalidSeed = errors.New("catalog: carga inválida")

// Seeder grava os livros via Put (upsert por id).
type Seeder struct {
	store    dyndb.Store[Book]
	validate *validator.Validate
	metrics  metrics.Provider
}

type SeederOption func(*Seeder)

func WithSeedMetrics(p metrics.Provider) SeederOption {
	return func(s *Seeder) { s.metrics = p }
}

func NewSeeder(store dyndb.Store[Book], opts ...SeederOption) *Seeder {
	s := &Seeder{store: store, validate: validator.New()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checa as regras de cada livro e rejeita ids repetidos.
func (s *Seeder) Validate(books []Book) error {
	seen := make(map[string]int, len(books))
	for i, b := range books {
		if err := s.validate.Struct(b); err != nil {
			return fmt.Errorf("%w: livro[%d] (id %q): %v", ErrInvalidSeed, i, b.ID, err)
		}
		if j, dup := seen[b.ID]; dup {
			return fmt.Errorf("%w: id %q repetido nas posições %d e %d", ErrInvalidSeed, b.ID, j, i)
		}
		seen[b.ID] = i
	}
	return nil
}

// Seed valida e grava todos os livros. A primeira falha de escrita interrompe o
// restante e é retornada. Retorna quantos itens foram gravados.
func (s *Seeder) Seed(ctx context.Context, books []Book) (int, error) {
	logger := log.Ctx(ctx).With().Str("table", s.store.Table()).Logger()

	if err := s.Validate(books); err != nil {
		s.count(metrics.SeedRuns, 1, "result:invalid")
		return 0, err
	}

	written := 0
	for _, b := range books {
		if err := s.store.Put(ctx, b); err != nil {
			logger.Error().Err(err).Str("book_id", b.ID).Int("written", written).Msg("falha ao gravar livro")
			s.count(metrics.SeedItemsWritten, float64(written))
			s.count(metrics.SeedRuns, 1, "result:error")
			return written, fmt.Errorf("catalog: gravando livro %q: %w", b.ID, err)
		}
		written++
	}

	s.count(metrics.SeedItemsWritten, float64(written))
	s.count(metrics.SeedRuns, 1, "result:ok")
	logger.Info().Int("items", written).Msg("seed concluído")
	return written, nil
}

func (s *Seeder) count(name string, v float64, tags ...string) {
	if s.metrics == nil {
		return
	}
	_ = s.metrics.Count(name, v, append([]string{"table:" + s.store.Table()}, tags...))
}

// SeedPolicy decide o que fazer quando a carga falha.
type SeedPolicy int

const (
	// FailFast encerra o processo com código diferente de zero.
	FailFast SeedPolicy = iota
	// LogAndSkip registra "seed skipped" e encerra com sucesso.
	LogAndSkip
)

func (p SeedPolicy) String() string {
	if p == LogAndSkip {
		return "log-and-skip"
	}
	return "fail-fast"
}

// PolicyFor escolhe a política pelo destino: emulador local falha, ambient pula.
func PolicyFor(target config.Target) SeedPolicy {
	if target != nil && target.CredentialMode() == config.CredentialsFixedPlaceholder {
		return FailFast
	}
	return LogAndSkip
}

// ExitCode aplica a política a um erro de carga.
func (p SeedPolicy) ExitCode(ctx context.Context, err error) int {
	if err == nil {
		return 0
	}
	if p == LogAndSkip {
		log.Ctx(ctx).Warn().Err(err).Str("policy", p.String()).Msg("seed skipped")
		return 0
	}
	log.Ctx(ctx).Error().Err(err).Str("policy", p.String()).Msg("seed falhou")
	return 1
}
