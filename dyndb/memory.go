package dyndb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// MemoryClient é um DynamoDBClient em memória para testes e execução sem emulador.
// Suporta tabelas com chave hash simples, paginação de Scan via Limit e
// ProjectionExpression com nomes substituídos.
type MemoryClient struct {
	mu              sync.Mutex
	tables          map[string]*memTable
	activationDelay int
	calls           map[string]int

	// FailFn, quando definido, é consultado antes de cada operação; um erro
	// não nulo é retornado no lugar da resposta.
	FailFn func(op, table string) error
}

type memTable struct {
	hashKey      string
	status       types.TableStatus
	pendingReads int
	items        map[string]map[string]types.AttributeValue
}

type MemoryOption func(*MemoryClient)

// WithTable pré-cria uma tabela já ACTIVE.
func WithTable(name, hashKey string) MemoryOption {
	return func(c *MemoryClient) {
		c.tables[name] = &memTable{
			hashKey: hashKey,
			status:  types.TableStatusActive,
			items:   map[string]map[string]types.AttributeValue{},
		}
	}
}

// WithActivationDelay faz tabelas criadas ficarem CREATING por n DescribeTable.
func WithActivationDelay(n int) MemoryOption {
	return func(c *MemoryClient) { c.activationDelay = n }
}

func NewMemoryClient(opts ...MemoryOption) *MemoryClient {
	c := &MemoryClient{
		tables: map[string]*memTable{},
		calls:  map[string]int{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CallCount retorna quantas vezes op foi chamada (ex.: "CreateTable").
func (c *MemoryClient) CallCount(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[op]
}

// ItemCount retorna o número de itens da tabela, ou -1 se ela não existir.
func (c *MemoryClient) ItemCount(table string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tables[table]
	if !ok {
		return -1
	}
	return len(t.items)
}

func (c *MemoryClient) begin(op, table string) (*memTable, error) {
	c.calls[op]++
	if c.FailFn != nil {
		if err := c.FailFn(op, table); err != nil {
			return nil, err
		}
	}
	t, ok := c.tables[table]
	if !ok {
		return nil, &types.ResourceNotFoundException{Message: aws.String("Cannot do operations on a non-existent table")}
	}
	return t, nil
}

func (c *MemoryClient) DescribeTable(ctx context.Context, params *dynamodb.DescribeTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.DescribeTableOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := aws.ToString(params.TableName)
	t, err := c.begin("DescribeTable", name)
	if err != nil {
		return nil, err
	}

	status := t.status
	if t.status == types.TableStatusCreating {
		if t.pendingReads <= 0 {
			t.status = types.TableStatusActive
			status = t.status
		} else {
			t.pendingReads--
		}
	}

	return &dynamodb.DescribeTableOutput{Table: &types.TableDescription{
		TableName:   aws.String(name),
		TableStatus: status,
		ItemCount:   aws.Int64(int64(len(t.items))),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(t.hashKey), KeyType: types.KeyTypeHash},
		},
	}}, nil
}

func (c *MemoryClient) CreateTable(ctx context.Context, params *dynamodb.CreateTableInput, _ ...func(*dynamodb.Options)) (*dynamodb.CreateTableOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := aws.ToString(params.TableName)
	c.calls["CreateTable"]++
	if c.FailFn != nil {
		if err := c.FailFn("CreateTable", name); err != nil {
			return nil, err
		}
	}
	if _, exists := c.tables[name]; exists {
		return nil, &types.ResourceInUseException{Message: aws.String("Table already exists: " + name)}
	}

	var hashKey string
	for _, k := range params.KeySchema {
		if k.KeyType == types.KeyTypeHash {
			hashKey = aws.ToString(k.AttributeName)
		}
	}
	if hashKey == "" {
		return nil, fmt.Errorf("memory: KeySchema sem chave HASH")
	}

	t := &memTable{
		hashKey:      hashKey,
		status:       types.TableStatusActive,
		pendingReads: c.activationDelay,
		items:        map[string]map[string]types.AttributeValue{},
	}
	if c.activationDelay > 0 {
		t.status = types.TableStatusCreating
	}
	c.tables[name] = t

	return &dynamodb.CreateTableOutput{TableDescription: &types.TableDescription{
		TableName:   aws.String(name),
		TableStatus: t.status,
	}}, nil
}

func (c *MemoryClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.begin("PutItem", aws.ToString(params.TableName))
	if err != nil {
		return nil, err
	}
	key, err := keyString(params.Item[t.hashKey])
	if err != nil {
		return nil, fmt.Errorf("memory: PutItem: %w", err)
	}

	item := make(map[string]types.AttributeValue, len(params.Item))
	for k, v := range params.Item {
		item[k] = v
	}
	t.items[key] = item
	return &dynamodb.PutItemOutput{}, nil
}

func (c *MemoryClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.begin("GetItem", aws.ToString(params.TableName))
	if err != nil {
		return nil, err
	}
	key, err := keyString(params.Key[t.hashKey])
	if err != nil {
		return nil, fmt.Errorf("memory: GetItem: %w", err)
	}

	item, ok := t.items[key]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: project(item, params.ProjectionExpression, params.ExpressionAttributeNames)}, nil
}

func (c *MemoryClient) Scan(ctx context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.begin("Scan", aws.ToString(params.TableName))
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(t.items))
	for k := range t.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start := 0
	if len(params.ExclusiveStartKey) > 0 {
		after, err := keyString(params.ExclusiveStartKey[t.hashKey])
		if err != nil {
			return nil, fmt.Errorf("memory: Scan: %w", err)
		}
		start = sort.SearchStrings(keys, after)
		if start < len(keys) && keys[start] == after {
			start++
		}
	}

	limit := len(keys) - start
	if params.Limit != nil && int(*params.Limit) < limit {
		limit = int(*params.Limit)
	}

	out := &dynamodb.ScanOutput{Items: make([]map[string]types.AttributeValue, 0, limit)}
	for _, k := range keys[start : start+limit] {
		out.Items = append(out.Items, project(t.items[k], params.ProjectionExpression, params.ExpressionAttributeNames))
	}
	out.Count = int32(len(out.Items))
	out.ScannedCount = out.Count

	if start+limit < len(keys) && limit > 0 {
		last := t.items[keys[start+limit-1]]
		out.LastEvaluatedKey = map[string]types.AttributeValue{t.hashKey: last[t.hashKey]}
	}
	return out, nil
}

func keyString(av types.AttributeValue) (string, error) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return "S:" + v.Value, nil
	case *types.AttributeValueMemberN:
		return "N:" + v.Value, nil
	case nil:
		return "", fmt.Errorf("atributo de chave ausente")
	}
	return "", fmt.Errorf("tipo de chave não suportado %T", av)
}

func project(item map[string]types.AttributeValue, expr *string, names map[string]string) map[string]types.AttributeValue {
	if expr == nil || *expr == "" {
		out := make(map[string]types.AttributeValue, len(item))
		for k, v := range item {
			out[k] = v
		}
		return out
	}

	out := map[string]types.AttributeValue{}
	for _, part := range strings.Split(*expr, ",") {
		name := strings.TrimSpace(part)
		if real, ok := names[name]; ok {
			name = real
		}
		if v, ok := item[name]; ok {
			out[name] = v
		}
	}
	return out
}
