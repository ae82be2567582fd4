// dyndb/store.go
package dyndb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type dynamoStore[T any] struct {
	client DynamoDBClient
	cfg    TableConfig[T]
}

// New cria um store reutilizável. O client é compartilhado e seguro para uso concorrente.
func New[T any](client DynamoDBClient, cfg TableConfig[T]) Store[T] {
	if cfg.HashKey == "" {
		cfg.HashKey = "id"
	}
	return &dynamoStore[T]{
		client: client,
		cfg:    cfg,
	}
}

func (s *dynamoStore[T]) Table() string { return s.cfg.TableName }

// Get item por chave primária
func (s *dynamoStore[T]) Get(ctx context.Context, hashKey any) (*T, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.cfg.TableName),
		Key:            map[string]types.AttributeValue{s.cfg.HashKey: attr(hashKey)},
		ConsistentRead: aws.Bool(s.cfg.ConsistentRead),
	})
	if err != nil {
		return nil, NewStoreError("GetItem", s.cfg.TableName, err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var item T
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("dynamostore: unmarshal failed: %w", err)
	}
	return &item, nil
}

// Put item (upsert): sobrescreve pelo hash key, nunca duplica.
func (s *dynamoStore[T]) Put(ctx context.Context, item T) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("dynamostore: marshal failed: %w", err)
	}
	if _, ok := av[s.cfg.HashKey]; !ok {
		return fmt.Errorf("dynamostore: item sem atributo de chave %q", s.cfg.HashKey)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.cfg.TableName),
		Item:      av,
	})
	if err != nil {
		return NewStoreError("PutItem", s.cfg.TableName, err)
	}
	return nil
}

// ScanOption ajusta um ScanAll.
type ScanOption func(*scanOptions)

type scanOptions struct {
	projection []string
	pageSize   int32
}

// WithProjection restringe os atributos retornados. Nomes reservados
// (ex.: "name") são tratados pelo expression builder.
func WithProjection(attrs ...string) ScanOption {
	return func(o *scanOptions) { o.projection = append(o.projection, attrs...) }
}

// WithPageSize define o Limit de cada página interna do scan.
func WithPageSize(n int32) ScanOption {
	return func(o *scanOptions) { o.pageSize = n }
}

func (s *dynamoStore[T]) ScanAll(ctx context.Context, opts ...ScanOption) ([]T, error) {
	var o scanOptions
	for _, opt := range opts {
		opt(&o)
	}

	input := &dynamodb.ScanInput{TableName: aws.String(s.cfg.TableName)}
	if len(o.projection) > 0 {
		names := make([]expression.NameBuilder, 0, len(o.projection))
		for _, a := range o.projection {
			names = append(names, expression.Name(a))
		}
		expr, err := expression.NewBuilder().
			WithProjection(expression.NamesList(names[0], names[1:]...)).
			Build()
		if err != nil {
			return nil, fmt.Errorf("dynamostore: projection: %w", err)
		}
		input.ProjectionExpression = expr.Projection()
		input.ExpressionAttributeNames = expr.Names()
	}
	if o.pageSize > 0 {
		input.Limit = aws.Int32(o.pageSize)
	}

	result := make([]T, 0)
	for {
		out, err := s.client.Scan(ctx, input)
		if err != nil {
			return nil, NewStoreError("Scan", s.cfg.TableName, err)
		}
		for _, item := range out.Items {
			var t T
			if err := attributevalue.UnmarshalMap(item, &t); err != nil {
				return nil, fmt.Errorf("dynamostore: unmarshal failed: %w", err)
			}
			result = append(result, t)
		}
		if len(out.LastEvaluatedKey) == 0 {
			return result, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// attr converte qualquer valor para types.AttributeValue
func attr(v any) types.AttributeValue {
	if v == nil {
		return &types.AttributeValueMemberNULL{Value: true}
	}
	av, err := attributevalue.Marshal(v)
	if err != nil {
		return &types.AttributeValueMemberNULL{Value: true}
	}
	return av
}
