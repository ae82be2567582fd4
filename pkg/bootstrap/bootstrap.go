// Package bootstrap garante que a tabela do catálogo exista em ambientes locais.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/raywall/bookstore-service/dyndb"
	"github.com/raywall/bookstore-service/pkg/config"
	"github.com/raywall/bookstore-service/pkg/metrics"
	"github.com/raywall/bookstore-service/pkg/retry"
)

// Status é o estado observado da tabela.
type Status string

const (
	StatusUnknown  Status = "UNKNOWN"
	StatusNotFound Status = "NOT_FOUND"
	StatusCreating Status = "CREATING"
	StatusActive   Status = "ACTIVE"
)

// ErrTimeout indica que a tabela criada não ficou ACTIVE dentro do orçamento de polling.
var ErrTimeout = errors.New("bootstrap: tabela não ficou ACTIVE a tempo")

var errNotActive = errors.New("bootstrap: tabela ainda não está ACTIVE")

const (
	DefaultDescribeAttempts = 10
	DefaultDescribeBackoff  = time.Second
	DefaultPollAttempts     = 20
	DefaultPollInterval     = 500 * time.Millisecond
	DefaultHashKey          = "id"
)

// Required reporta se o destino precisa de bootstrap. Em modo ambient a
// tabela pertence à infraestrutura.
func Required(target config.Target) bool {
	return target != nil && target.CredentialMode() == config.CredentialsFixedPlaceholder
}

// Result resume o que EnsureTable fez.
type Result struct {
	Initial Status
	Final   Status
	Created bool
}

// Bootstrapper executa a máquina de estados UNKNOWN → NOT_FOUND → CREATING → ACTIVE.
type Bootstrapper struct {
	client   dyndb.TableAdmin
	table    string
	hashKey  string
	describe retry.Policy
	poll     retry.Policy
	metrics  metrics.Provider
}

type Option func(*Bootstrapper)

// WithDescribePolicy substitui a política de retry do DescribeTable inicial.
func WithDescribePolicy(p retry.Policy) Option {
	return func(b *Bootstrapper) { b.describe = p }
}

// WithPollPolicy substitui a política de espera por ACTIVE.
func WithPollPolicy(p retry.Policy) Option {
	return func(b *Bootstrapper) { b.poll = p }
}

// WithSleep troca a espera das duas políticas (testes).
func WithSleep(fn retry.SleepFunc) Option {
	return func(b *Bootstrapper) {
		b.describe.Sleep = fn
		b.poll.Sleep = fn
	}
}

func WithMetrics(p metrics.Provider) Option {
	return func(b *Bootstrapper) { b.metrics = p }
}

func WithHashKey(name string) Option {
	return func(b *Bootstrapper) { b.hashKey = name }
}

func New(client dyndb.TableAdmin, table string, opts ...Option) *Bootstrapper {
	b := &Bootstrapper{
		client:  client,
		table:   table,
		hashKey: DefaultHashKey,
		describe: retry.Policy{
			MaxAttempts: DefaultDescribeAttempts,
			Backoff:     retry.Linear(DefaultDescribeBackoff),
		},
		poll: retry.Policy{
			MaxAttempts: DefaultPollAttempts,
			Backoff:     retry.Fixed(DefaultPollInterval),
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Describe consulta o estado da tabela. ResourceNotFound vira StatusNotFound;
// outras falhas são repetidas conforme a política e então propagadas.
func (b *Bootstrapper) Describe(ctx context.Context) (Status, error) {
	status := StatusUnknown
	p := b.describe
	p.OnRetry = func(attempt int, delay time.Duration, err error) {
		log.Ctx(ctx).Warn().Err(err).
			Str("table", b.table).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("DynamoDB não disponível, tentando novamente")
	}

	err := p.Do(ctx, func(ctx context.Context, _ int) error {
		s, err := b.describeOnce(ctx)
		if err != nil {
			return err
		}
		status = s
		return nil
	})
	if err != nil {
		return StatusUnknown, err
	}
	return status, nil
}

func (b *Bootstrapper) describeOnce(ctx context.Context) (Status, error) {
	out, err := b.client.DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(b.table)})
	if err != nil {
		se := dyndb.NewStoreError("DescribeTable", b.table, err)
		if errors.Is(se, dyndb.ErrTableNotFound) {
			return StatusNotFound, nil
		}
		return StatusUnknown, se
	}
	if out.Table == nil {
		return StatusUnknown, nil
	}
	switch out.Table.TableStatus {
	case types.TableStatusActive:
		return StatusActive, nil
	case types.TableStatusCreating:
		return StatusCreating, nil
	}
	return Status(out.Table.TableStatus), nil
}

// EnsureTable cria a tabela somente quando ela não existe e espera até ACTIVE.
// Qualquer outro estado é tratado como "já existe": nenhuma criação é feita.
func (b *Bootstrapper) EnsureTable(ctx context.Context) (Result, error) {
	logger := log.Ctx(ctx).With().Str("table", b.table).Logger()

	initial, err := b.Describe(ctx)
	if err != nil {
		return Result{Initial: StatusUnknown, Final: StatusUnknown}, fmt.Errorf("bootstrap: describe %s: %w", b.table, err)
	}
	res := Result{Initial: initial, Final: initial}
	if initial != StatusNotFound {
		logger.Info().Str("status", string(initial)).Msg("tabela já existe")
		return res, nil
	}

	logger.Info().Msg("criando tabela")
	_, err = b.client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(b.table),
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(b.hashKey), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(b.hashKey), KeyType: types.KeyTypeHash},
		},
	})
	if err != nil {
		var inUse *types.ResourceInUseException
		if !errors.As(err, &inUse) {
			return res, fmt.Errorf("bootstrap: create %s: %w", b.table, dyndb.NewStoreError("CreateTable", b.table, err))
		}
		logger.Info().Msg("tabela já está sendo criada por outro processo")
	} else {
		res.Created = true
		if b.metrics != nil {
			_ = b.metrics.Count(metrics.BootstrapCreated, 1, []string{"table:" + b.table})
		}
	}
	res.Final = StatusCreating

	err = b.poll.Do(ctx, func(ctx context.Context, _ int) error {
		s, err := b.describeOnce(ctx)
		if err != nil {
			logger.Debug().Err(err).Msg("falha ao consultar status durante polling")
			return errNotActive
		}
		res.Final = s
		if s != StatusActive {
			return errNotActive
		}
		return nil
	})
	if err != nil {
		var exhausted *retry.ExhaustedError
		if errors.As(err, &exhausted) {
			logger.Warn().Str("status", string(res.Final)).Msg("tabela não ficou ACTIVE a tempo")
			return res, ErrTimeout
		}
		return res, err
	}

	logger.Info().Msg("tabela ACTIVE")
	return res, nil
}
