// Package bookstore_service é o backend do catálogo da livraria: uma API
// somente-leitura sobre uma tabela DynamoDB, mais o processo de carga inicial.
//
// Visão Geral:
// 1. Configuração (envloader, pkg/config): ambiente → Settings, com destino
//    LocalTarget (emulador, credenciais fixas) ou AmbientTarget (cadeia padrão).
// 2. Persistência (dyndb): Store[T] genérico, cliente do SDK com timeouts e
//    um DynamoDB em memória para testes.
// 3. Catálogo (catalog): modelo Book, repositório de leitura e Seeder.
// 4. Ciclo de vida da tabela (pkg/bootstrap): cria a tabela em ambientes locais.
// 5. HTTP (pkg/transport): GET /api/books, GET /api/books/{id}, /healthz e SPA.
//
// Executáveis:
//   - cmd/api: servidor HTTP (local, ec2, ecs, eks) ou handler Lambda.
//   - cmd/seeder: bootstrap + carga; o código de saída segue a SeedPolicy.
package bookstore_service
