package bootstrap_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raywall/bookstore-service/dyndb"
	"github.com/raywall/bookstore-service/pkg/bootstrap"
	"github.com/raywall/bookstore-service/pkg/config"
	"github.com/raywall/bookstore-service/pkg/metrics"
)

type sleeps struct {
	delays []time.Duration
}

func (s *sleeps) sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

func TestRequired(t *testing.T) {
	assert.True(t, bootstrap.Required(config.StoreConf{EndpointOverride: "http://localhost:8000"}.Target()))
	assert.False(t, bootstrap.Required(config.StoreConf{Region: "us-east-1"}.Target()))
	assert.False(t, bootstrap.Required(nil))
}

func TestEnsureTable_CreatesWhenMissing(t *testing.T) {
	client := dyndb.NewMemoryClient(dyndb.WithActivationDelay(3))
	rec := &metrics.Recorder{}
	s := &sleeps{}

	b := bootstrap.New(client, "tb_books", bootstrap.WithSleep(s.sleep), bootstrap.WithMetrics(rec))
	res, err := b.EnsureTable(context.Background())

	require.NoError(t, err)
	assert.Equal(t, bootstrap.StatusNotFound, res.Initial)
	assert.Equal(t, bootstrap.StatusActive, res.Final)
	assert.True(t, res.Created)
	assert.Equal(t, 1, client.CallCount("CreateTable"))
	// três leituras CREATING, uma espera de 500ms entre cada poll
	assert.Equal(t, []time.Duration{500 * time.Millisecond, 500 * time.Millisecond, 500 * time.Millisecond}, s.delays)
	assert.Len(t, rec.Samples(metrics.BootstrapCreated), 1)
}

func TestEnsureTable_SecondCallDoesNotCreate(t *testing.T) {
	client := dyndb.NewMemoryClient()
	b := bootstrap.New(client, "tb_books", bootstrap.WithSleep((&sleeps{}).sleep))

	_, err := b.EnsureTable(context.Background())
	require.NoError(t, err)

	res, err := b.EnsureTable(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, bootstrap.StatusActive, res.Initial)
	assert.Equal(t, 1, client.CallCount("CreateTable"))
}

func TestEnsureTable_ExistingStatusesAreNoop(t *testing.T) {
	for _, status := range []types.TableStatus{types.TableStatusActive, types.TableStatusCreating, types.TableStatusUpdating} {
		t.Run(string(status), func(t *testing.T) {
			creates := 0
			client := &dyndb.MockDynamoClient{
				DescribeTableFn: func(ctx context.Context, _ *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
					return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{TableStatus: status}}, nil
				},
				CreateTableFn: func(ctx context.Context, _ *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
					creates++
					return &dynamodb.CreateTableOutput{}, nil
				},
			}

			res, err := bootstrap.New(client, "tb_books").EnsureTable(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 0, creates)
			assert.Equal(t, bootstrap.Status(status), res.Final)
		})
	}
}

func TestEnsureTable_CreateInput(t *testing.T) {
	var got *dynamodb.CreateTableInput
	described := 0
	client := &dyndb.MockDynamoClient{
		DescribeTableFn: func(ctx context.Context, _ *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
			described++
			if got == nil {
				return nil, &types.ResourceNotFoundException{Message: aws.String("missing")}
			}
			return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{TableStatus: types.TableStatusActive}}, nil
		},
		CreateTableFn: func(ctx context.Context, in *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
			got = in
			return &dynamodb.CreateTableOutput{}, nil
		},
	}

	_, err := bootstrap.New(client, "tb_books", bootstrap.WithSleep((&sleeps{}).sleep)).EnsureTable(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "tb_books", aws.ToString(got.TableName))
	assert.Equal(t, types.BillingModePayPerRequest, got.BillingMode)
	require.Len(t, got.KeySchema, 1)
	assert.Equal(t, "id", aws.ToString(got.KeySchema[0].AttributeName))
	assert.Equal(t, types.KeyTypeHash, got.KeySchema[0].KeyType)
	require.Len(t, got.AttributeDefinitions, 1)
	assert.Equal(t, types.ScalarAttributeTypeS, got.AttributeDefinitions[0].AttributeType)
	assert.Equal(t, 2, described)
}

func TestEnsureTable_Timeout(t *testing.T) {
	client := dyndb.NewMemoryClient(dyndb.WithActivationDelay(100))
	s := &sleeps{}

	res, err := bootstrap.New(client, "tb_books", bootstrap.WithSleep(s.sleep)).EnsureTable(context.Background())

	assert.ErrorIs(t, err, bootstrap.ErrTimeout)
	assert.Equal(t, bootstrap.StatusCreating, res.Final)
	assert.Len(t, s.delays, bootstrap.DefaultPollAttempts-1)
}

func TestEnsureTable_ResourceInUseKeepsPolling(t *testing.T) {
	calls := 0
	client := &dyndb.MockDynamoClient{
		DescribeTableFn: func(ctx context.Context, _ *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
			calls++
			if calls == 1 {
				return nil, &types.ResourceNotFoundException{Message: aws.String("missing")}
			}
			return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{TableStatus: types.TableStatusActive}}, nil
		},
		CreateTableFn: func(ctx context.Context, _ *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
			return nil, &types.ResourceInUseException{Message: aws.String("in use")}
		},
	}

	res, err := bootstrap.New(client, "tb_books", bootstrap.WithSleep((&sleeps{}).sleep)).EnsureTable(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, bootstrap.StatusActive, res.Final)
}

func TestDescribe_RetriesWithLinearBackoff(t *testing.T) {
	calls := 0
	client := &dyndb.MockDynamoClient{
		DescribeTableFn: func(ctx context.Context, _ *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
			calls++
			if calls < 4 {
				return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
			}
			return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{TableStatus: types.TableStatusActive}}, nil
		},
	}
	s := &sleeps{}

	status, err := bootstrap.New(client, "tb_books", bootstrap.WithSleep(s.sleep)).Describe(context.Background())

	require.NoError(t, err)
	assert.Equal(t, bootstrap.StatusActive, status)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second}, s.delays)
}

func TestDescribe_ExhaustedPropagatesStoreError(t *testing.T) {
	calls := 0
	client := &dyndb.MockDynamoClient{
		DescribeTableFn: func(ctx context.Context, _ *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
			calls++
			return nil, &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
		},
	}

	_, err := bootstrap.New(client, "tb_books", bootstrap.WithSleep((&sleeps{}).sleep)).EnsureTable(context.Background())

	require.Error(t, err)
	assert.True(t, dyndb.IsUnavailable(err))
	assert.Equal(t, bootstrap.DefaultDescribeAttempts, calls)
}
