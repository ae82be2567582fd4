// Package dyndb fornece uma abstração genérica e fortemente tipada sobre o
// AWS DynamoDB Go SDK (v2), restrita a tabelas com chave hash simples.
//
// Funcionalidades Principais:
//   - Store[T]: Get, Put (upsert) e ScanAll, que segue LastEvaluatedKey até
//     o fim e aceita projeção via expression builder.
//   - NewClient: constrói o cliente do SDK a partir de um config.Target,
//     com timeouts de conexão e de resposta.
//   - Erros: ErrNotFound para item ausente; qualquer falha do SDK chega como
//     *StoreError, casável com errors.Is(err, ErrTableNotFound) e consultável
//     via IsUnavailable.
//   - Testes: MemoryClient (DynamoDB em memória), MockDynamoClient e MockStore.
//
// Exemplo:
//
//	type Book struct {
//		ID   string `dynamodbav:"id"`
//		Name string `dynamodbav:"name"`
//	}
//
//	client, err := dyndb.NewClient(ctx, settings.Store.Target(), dyndb.ClientOptions{})
//	books := dyndb.New(client, dyndb.TableConfig[Book]{TableName: "tb_books", HashKey: "id"})
//
//	all, err := books.ScanAll(ctx, dyndb.WithProjection("id", "name"))
//	b, err := books.Get(ctx, "2")
//	if errors.Is(err, dyndb.ErrNotFound) { /* ... */ }
package dyndb
