// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Package envloader carrega variáveis de ambiente para campos de uma struct
// usando as tags `env` e `envDefault`.
//
// A tag `env` aceita uma cadeia de nomes separados por vírgula. O primeiro nome
// com valor não vazio vence, o que permite expressar fallbacks como
// `env:"AWS_REGION,REGION"`. Tipos suportados: string, int*, bool e
// time.Duration, além de structs aninhadas (inclusive ponteiros).
//
// Exemplo:
//
//	type StoreConf struct {
//	    Region  string        `env:"AWS_REGION,REGION" envDefault:"us-east-1"`
//	    Timeout time.Duration `env:"DDB_SOCKET_TIMEOUT" envDefault:"5s"`
//	}
//
//	var cfg StoreConf
//	if err := envloader.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Opções:
//   - WithLookup troca os.LookupEnv por outra fonte (ex.: um snapshot em mapa).
//   - Lenient descarta valores que não convertem e aplica o envDefault no lugar,
//     sem retornar erro.
package envloader
