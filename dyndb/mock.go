// dyndb/mock.go
package dyndb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// MockStore é um mock da interface Store[T] com campos de função.
// Campos nulos produzem respostas vazias (Get retorna ErrNotFound).
type MockStore[T any] struct {
	TableName string
	GetFn     func(ctx context.Context, hashKey any) (*T, error)
	PutFn     func(ctx context.Context, item T) error
	ScanAllFn func(ctx context.Context, opts ...ScanOption) ([]T, error)
}

func (m *MockStore[T]) Get(ctx context.Context, hashKey any) (*T, error) {
	if m.GetFn != nil {
		return m.GetFn(ctx, hashKey)
	}
	return nil, ErrNotFound
}

func (m *MockStore[T]) Put(ctx context.Context, item T) error {
	if m.PutFn != nil {
		return m.PutFn(ctx, item)
	}
	return nil
}

func (m *MockStore[T]) ScanAll(ctx context.Context, opts ...ScanOption) ([]T, error) {
	if m.ScanAllFn != nil {
		return m.ScanAllFn(ctx, opts...)
	}
	return []T{}, nil
}

func (m *MockStore[T]) Table() string { return m.TableName }

// MockDynamoClient é um mock para a interface DynamoDBClient de baixo nível.
//
// Permite testar a lógica interna do `dynamoStore` e do bootstrap sem tocar no AWS SDK.
type MockDynamoClient struct {
	GetItemFn       func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItemFn       func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	ScanFn          func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	DescribeTableFn func(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error)
	CreateTableFn   func(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error)
}

func (m *MockDynamoClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if m.GetItemFn != nil {
		return m.GetItemFn(ctx, params, optFns...)
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *MockDynamoClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if m.PutItemFn != nil {
		return m.PutItemFn(ctx, params, optFns...)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (m *MockDynamoClient) Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	if m.ScanFn != nil {
		return m.ScanFn(ctx, params, optFns...)
	}
	return &dynamodb.ScanOutput{}, nil
}

func (m *MockDynamoClient) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	if m.DescribeTableFn != nil {
		return m.DescribeTableFn(ctx, params, optFns...)
	}
	return &dynamodb.DescribeTableOutput{}, nil
}

func (m *MockDynamoClient) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, optFns ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	if m.CreateTableFn != nil {
		return m.CreateTableFn(ctx, params, optFns...)
	}
	return &dynamodb.CreateTableOutput{}, nil
}
