package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/raywall/bookstore-service/catalog"
	"github.com/raywall/bookstore-service/dyndb"
	"github.com/raywall/bookstore-service/pkg/config"
	"github.com/raywall/bookstore-service/pkg/config/injector"
	"github.com/raywall/bookstore-service/pkg/logger"
	"github.com/raywall/bookstore-service/pkg/observability"
	"github.com/raywall/bookstore-service/pkg/transport"
)

var (
	// Variáveis injetáveis para mocking
	serverStarter = transport.StartHTTPServer
	lambdaStarter = lambda.Start
	clientFactory = func(ctx context.Context, target config.Target, opts dyndb.ClientOptions) (dyndb.DynamoDBClient, error) {
		return dyndb.NewClient(ctx, target, opts)
	}
	secretInjector = func(ctx context.Context, env config.Environment, s *config.Settings) error {
		return injector.InjectSettings(ctx, env, s)
	}
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config.OSEnvironment()); err != nil {
		log.Fatal().Err(err).Msg("FATAL: falha ao iniciar a API")
	}
}

// run contém a lógica principal testável
func run(ctx context.Context, env config.Environment) error {
	settings := config.Resolve(env)

	if err := secretInjector(ctx, env, &settings); err != nil {
		return fmt.Errorf("resolvendo referências da configuração: %w", err)
	}
	if err := config.NewValidator().Validate(&settings); err != nil {
		return err
	}

	lg := logger.Configure(settings.Logging)
	ctx = lg.WithContext(ctx)

	provider, err := observability.SetupMetrics(settings.Metrics, "service:bookstore-api", "runtime:"+settings.Runtime)
	if err != nil {
		return err
	}
	defer provider.Close()

	target := settings.Store.Target()
	client, err := clientFactory(ctx, target, dyndb.ClientOptions{
		ConnectTimeout: settings.Store.ConnectTimeout,
		SocketTimeout:  settings.Store.SocketTimeout,
	})
	if err != nil {
		return err
	}

	routes := transport.RouterConfig{
		Books:     catalog.NewRepository(catalog.NewStore(client, settings.Store.TableName)),
		Metrics:   provider,
		StaticDir: settings.Server.StaticDir,
	}

	lg.Info().
		Str("runtime", settings.Runtime).
		Int("port", settings.Server.Port).
		Str("table", settings.Store.TableName).
		Str("credentials", string(target.CredentialMode())).
		Msg("Servidor iniciado")

	switch settings.Runtime {
	case "local", "ec2", "ecs", "eks":
		return serverStarter(ctx, transport.ServerConfig{
			Port:            settings.Server.Port,
			ShutdownTimeout: settings.Server.ShutdownTimeout,
		}, transport.NewRouter(routes))
	case "lambda":
		lambdaStarter(transport.NewLambdaHandler(routes).Handle)
		return nil
	default:
		return fmt.Errorf("runtime desconhecido: %s", settings.Runtime)
	}
}
