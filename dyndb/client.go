package dyndb

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/raywall/bookstore-service/pkg/config"
)

// ClientOptions controla os timeouts do transporte HTTP do SDK.
type ClientOptions struct {
	// ConnectTimeout limita o estabelecimento da conexão TCP.
	ConnectTimeout time.Duration
	// SocketTimeout limita a espera pelos cabeçalhos de resposta.
	SocketTimeout time.Duration
}

// NewClient constrói um *dynamodb.Client para o destino resolvido.
// LocalTarget usa credenciais estáticas e endpoint fixo; AmbientTarget usa a
// cadeia padrão de credenciais e o endpoint regional.
func NewClient(ctx context.Context, target config.Target, opts ClientOptions) (*dynamodb.Client, error) {
	if target == nil {
		return nil, fmt.Errorf("dyndb: target nulo")
	}

	httpClient := awshttp.NewBuildableClient().
		WithDialerOptions(func(d *net.Dialer) {
			if opts.ConnectTimeout > 0 {
				d.Timeout = opts.ConnectTimeout
			}
		}).
		WithTransportOptions(func(tr *http.Transport) {
			if opts.SocketTimeout > 0 {
				tr.ResponseHeaderTimeout = opts.SocketTimeout
			}
		})

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(target.SigningRegion()),
		awsconfig.WithHTTPClient(httpClient),
	}

	var endpoint string
	if local, ok := target.(config.LocalTarget); ok {
		endpoint = local.Endpoint
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(local.Credentials.AccessKeyID, local.Credentials.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("dyndb: falha ao carregar config AWS: %w", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}
