package injector

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/raywall/bookstore-service/pkg/config"
)

// Regex para capturar padrões ${tipo.chave}
// Ex: ${env.API_KEY}, ${ssm./bookstore/table}, ${secret.bookstore#table}
var pattern = regexp.MustCompile(`\$\{(env|ssm|secret)\.([^}]+)\}`)

// SSMClient abstrai o Parameter Store (permite mock).
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SecretsClient abstrai o Secrets Manager (permite mock).
type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Injector substitui referências ${...} em campos string de uma struct.
// Os clientes AWS só são criados se alguma referência ssm/secret aparecer.
type Injector struct {
	region  string
	lookup  func(string) (string, bool)
	ssm     SSMClient
	secrets SecretsClient

	once    sync.Once
	loadErr error
}

type Option func(*Injector)

func WithRegion(region string) Option {
	return func(i *Injector) { i.region = region }
}

func WithLookup(fn func(string) (string, bool)) Option {
	return func(i *Injector) { i.lookup = fn }
}

func WithSSM(c SSMClient) Option {
	return func(i *Injector) { i.ssm = c }
}

func WithSecrets(c SecretsClient) Option {
	return func(i *Injector) { i.secrets = c }
}

func New(opts ...Option) *Injector {
	i := &Injector{lookup: func(string) (string, bool) { return "", false }}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Inject percorre target (ponteiro para struct) e resolve as referências.
func (i *Injector) Inject(ctx context.Context, target interface{}) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("injector: target deve ser um ponteiro para struct não nulo")
	}
	return i.injectRecursive(ctx, v.Elem())
}

func (i *Injector) injectRecursive(ctx context.Context, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Struct:
		t := v.Type()
		for k := 0; k < t.NumField(); k++ {
			value := v.Field(k)
			if !value.CanSet() {
				continue
			}
			if value.Kind() == reflect.String {
				newValue, err := i.interpolateString(ctx, value.String())
				if err != nil {
					return fmt.Errorf("injector: campo %s: %w", t.Field(k).Name, err)
				}
				value.SetString(newValue)
				continue
			}
			if err := i.injectRecursive(ctx, value); err != nil {
				return err
			}
		}

	case reflect.Ptr:
		if !v.IsNil() {
			return i.injectRecursive(ctx, v.Elem())
		}
	}
	return nil
}

func (i *Injector) interpolateString(ctx context.Context, input string) (string, error) {
	if !strings.Contains(input, "${") {
		return input, nil
	}

	var firstErr error
	result := pattern.ReplaceAllStringFunc(input, func(match string) string {
		if firstErr != nil {
			return match
		}
		groups := pattern.FindStringSubmatch(match)
		val, err := i.fetchValue(ctx, groups[1], groups[2])
		if err != nil {
			firstErr = err
			return match
		}
		return val
	})

	return result, firstErr
}

func (i *Injector) fetchValue(ctx context.Context, sourceType, key string) (string, error) {
	switch sourceType {
	case "env":
		val, _ := i.lookup(key)
		return val, nil

	case "ssm":
		if err := i.ensureClients(ctx); err != nil {
			return "", err
		}
		out, err := i.ssm.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String(key),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			return "", fmt.Errorf("erro no SSM GetParameter(%s): %w", key, err)
		}
		if out.Parameter == nil || out.Parameter.Value == nil {
			return "", fmt.Errorf("parâmetro SSM %s sem valor", key)
		}
		return *out.Parameter.Value, nil

	case "secret":
		if err := i.ensureClients(ctx); err != nil {
			return "", err
		}
		return i.fetchSecret(ctx, key)
	}

	return "", fmt.Errorf("fonte desconhecida %q", sourceType)
}

// fetchSecret aceita "id" (valor bruto) ou "id#campo" para segredos JSON.
func (i *Injector) fetchSecret(ctx context.Context, ref string) (string, error) {
	secretID, field, hasField := strings.Cut(ref, "#")

	out, err := i.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return "", fmt.Errorf("erro no SecretsManager(%s): %w", secretID, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("segredo %s não é textual", secretID)
	}
	if !hasField {
		return *out.SecretString, nil
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(*out.SecretString), &data); err != nil {
		return "", fmt.Errorf("segredo %s não é JSON: %w", secretID, err)
	}
	val, ok := data[field]
	if !ok {
		return "", fmt.Errorf("segredo %s não possui o campo %q", secretID, field)
	}
	return fmt.Sprintf("%v", val), nil
}

// ensureClients cria os clientes reais sob demanda, usando a cadeia padrão de credenciais.
func (i *Injector) ensureClients(ctx context.Context) error {
	if i.ssm != nil && i.secrets != nil {
		return nil
	}
	i.once.Do(func() {
		opts := []func(*awsconfig.LoadOptions) error{}
		if i.region != "" {
			opts = append(opts, awsconfig.WithRegion(i.region))
		}
		cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			i.loadErr = fmt.Errorf("falha ao carregar config AWS: %w", err)
			return
		}
		if i.ssm == nil {
			i.ssm = ssm.NewFromConfig(cfg)
		}
		if i.secrets == nil {
			i.secrets = secretsmanager.NewFromConfig(cfg)
		}
	})
	return i.loadErr
}

// InjectSettings resolve as referências de Settings usando env para ${env.X}
// e a região da própria configuração para os clientes SSM e Secrets Manager.
func InjectSettings(ctx context.Context, env config.Environment, s *config.Settings, opts ...Option) error {
	if env == nil {
		env = config.OSEnvironment()
	}
	base := []Option{WithRegion(s.Store.Region), WithLookup(env)}
	return New(append(base, opts...)...).Inject(ctx, s)
}
