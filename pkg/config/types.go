package config

import "time"

// Settings é a configuração completa do processo, lida do ambiente.
type Settings struct {
	Runtime string `env:"RUNTIME" envDefault:"local" validate:"oneof=local ec2 ecs eks lambda"`
	Store   StoreConf
	Server  ServerConf
	Logging LoggingConf
	Metrics MetricsConf
	Seed    SeedConf
}

// StoreConf descreve a tabela DynamoDB e como alcançá-la.
type StoreConf struct {
	Region           string        `env:"AWS_REGION,REGION" envDefault:"us-east-1"`
	TableName        string        `env:"TABLE_NAME" envDefault:"tb_books"`
	EndpointOverride string        `env:"ENDPOINT_OVERRIDE,DDB_ENDPOINT"`
	ConnectTimeout   time.Duration `env:"DDB_CONNECT_TIMEOUT" envDefault:"2s"`
	SocketTimeout    time.Duration `env:"DDB_SOCKET_TIMEOUT" envDefault:"5s"`
}

type ServerConf struct {
	Port            int           `env:"PORT" envDefault:"5001" validate:"gte=1,lte=65535"`
	StaticDir       string        `env:"STATIC_DIR"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`
}

type LoggingConf struct {
	Enabled bool   `env:"LOG_ENABLED" envDefault:"true"`
	Level   string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	Format  string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`
}

type MetricsConf struct {
	Datadog DatadogConf
}

type DatadogConf struct {
	Enabled   bool   `env:"DD_ENABLED" envDefault:"false"`
	Addr      string `env:"DD_AGENT_ADDR" envDefault:"localhost:8125" validate:"required_if=Enabled true"`
	Namespace string `env:"DD_NAMESPACE" envDefault:"bookstore."`
}

// SeedConf controla o processo de carga inicial.
type SeedConf struct {
	// File aponta para um YAML que substitui o catálogo embutido.
	File string `env:"SEED_FILE"`
}

// CredentialMode indica de onde vêm as credenciais do cliente DynamoDB.
type CredentialMode string

const (
	CredentialsAmbient          CredentialMode = "ambient"
	CredentialsFixedPlaceholder CredentialMode = "fixed-placeholder"
)

// Credenciais aceitas pelo DynamoDB Local. Não são segredos.
const (
	PlaceholderAccessKeyID     = "fake"
	PlaceholderSecretAccessKey = "fake"
)

// Credentials é um par de chaves estático.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
}

// Target é o destino resolvido do cliente DynamoDB: LocalTarget ou AmbientTarget.
type Target interface {
	CredentialMode() CredentialMode
	SigningRegion() string
}

// LocalTarget aponta para um emulador (DynamoDB Local) com credenciais fixas.
type LocalTarget struct {
	Endpoint    string
	Region      string
	Credentials Credentials
}

func (LocalTarget) CredentialMode() CredentialMode { return CredentialsFixedPlaceholder }
func (t LocalTarget) SigningRegion() string       { return t.Region }

// AmbientTarget usa o endpoint regional e a cadeia padrão de credenciais
// (role da instância, task role, variáveis AWS_*).
type AmbientTarget struct {
	Region string
}

func (AmbientTarget) CredentialMode() CredentialMode { return CredentialsAmbient }
func (t AmbientTarget) SigningRegion() string       { return t.Region }

// CredentialMode deriva o modo a partir da presença do endpoint override.
func (s StoreConf) CredentialMode() CredentialMode {
	if s.EndpointOverride != "" {
		return CredentialsFixedPlaceholder
	}
	return CredentialsAmbient
}

// Target retorna a variante de destino correspondente.
func (s StoreConf) Target() Target {
	if s.EndpointOverride == "" {
		return AmbientTarget{Region: s.Region}
	}
	return LocalTarget{
		Endpoint: s.EndpointOverride,
		Region:   s.Region,
		Credentials: Credentials{
			AccessKeyID:     PlaceholderAccessKeyID,
			SecretAccessKey: PlaceholderSecretAccessKey,
		},
	}
}

// IsLocal reporta se o destino é um emulador.
func (s StoreConf) IsLocal() bool {
	return s.CredentialMode() == CredentialsFixedPlaceholder
}
