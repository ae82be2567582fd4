package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/raywall/bookstore-service/catalog"
	"github.com/raywall/bookstore-service/dyndb"
	"github.com/raywall/bookstore-service/pkg/bootstrap"
	"github.com/raywall/bookstore-service/pkg/config"
	"github.com/raywall/bookstore-service/pkg/config/injector"
	"github.com/raywall/bookstore-service/pkg/logger"
	"github.com/raywall/bookstore-service/pkg/observability"
)

var (
	// Variáveis injetáveis para mocking
	clientFactory = func(ctx context.Context, target config.Target, opts dyndb.ClientOptions) (dyndb.DynamoDBClient, error) {
		return dyndb.NewClient(ctx, target, opts)
	}
	secretInjector = func(ctx context.Context, env config.Environment, s *config.Settings) error {
		return injector.InjectSettings(ctx, env, s)
	}
	bootstrapOptions []bootstrap.Option
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, config.OSEnvironment())
	stop()
	os.Exit(code)
}

// run executa bootstrap + carga e devolve o código de saída do processo.
func run(ctx context.Context, env config.Environment) int {
	settings := config.Resolve(env)
	injectErr := secretInjector(ctx, env, &settings)

	lg := logger.Configure(settings.Logging)
	ctx = lg.WithContext(ctx)

	target := settings.Store.Target()
	policy := catalog.PolicyFor(target)
	if injectErr != nil {
		return policy.ExitCode(ctx, injectErr)
	}
	table := settings.Store.TableName

	provider, err := observability.SetupMetrics(settings.Metrics, "service:bookstore-seeder")
	if err != nil {
		lg.Warn().Err(err).Msg("métricas desabilitadas")
		provider = &observability.NoopProvider{}
	}
	defer provider.Close()

	client, err := clientFactory(ctx, target, dyndb.ClientOptions{
		ConnectTimeout: settings.Store.ConnectTimeout,
		SocketTimeout:  settings.Store.SocketTimeout,
	})
	if err != nil {
		return policy.ExitCode(ctx, err)
	}

	if bootstrap.Required(target) {
		opts := append([]bootstrap.Option{bootstrap.WithMetrics(provider)}, bootstrapOptions...)
		if _, err := bootstrap.New(client, table, opts...).EnsureTable(ctx); err != nil {
			if !errors.Is(err, bootstrap.ErrTimeout) {
				return policy.ExitCode(ctx, err)
			}
			// a carga é tentada mesmo assim; Put falha se a tabela não estiver pronta
			log.Ctx(ctx).Warn().Err(err).Str("table", table).Msg("prosseguindo com a carga")
		}
	}

	books, err := catalog.ResolveSeedBooks(settings.Seed)
	if err != nil {
		return policy.ExitCode(ctx, err)
	}

	seeder := catalog.NewSeeder(catalog.NewStore(client, table), catalog.WithSeedMetrics(provider))
	_, err = seeder.Seed(ctx, books)
	return policy.ExitCode(ctx, err)
}
