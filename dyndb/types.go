// dyndb/types.go
package dyndb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// DynamoDBClient interface para abstrair o cliente DynamoDB.
// *dynamodb.Client satisfaz esta interface; MemoryClient e MockDynamoClient também.
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	TableAdmin
}

// TableAdmin é o subconjunto usado para o ciclo de vida da tabela.
type TableAdmin interface {
	DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

// Store é a interface principal (genérica) para tabelas com chave hash simples.
type Store[T any] interface {
	Get(ctx context.Context, hashKey any) (*T, error)
	Put(ctx context.Context, item T) error
	// ScanAll percorre a tabela inteira, seguindo LastEvaluatedKey até o fim.
	ScanAll(ctx context.Context, opts ...ScanOption) ([]T, error)
	Table() string
}

// TableConfig configura a tabela.
type TableConfig[T any] struct {
	TableName string
	HashKey   string
	// ConsistentRead aplica leitura forte em Get.
	ConsistentRead bool
}
