package envloader

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// LookupFunc resolve o valor de uma variável. Segue a assinatura de os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type options struct {
	lookup  LookupFunc
	lenient bool
}

// Option ajusta o comportamento de Load.
type Option func(*options)

// WithLookup troca a fonte das variáveis (padrão: os.LookupEnv).
// Útil para resolver configuração a partir de um snapshot imutável.
func WithLookup(fn LookupFunc) Option {
	return func(o *options) {
		if fn != nil {
			o.lookup = fn
		}
	}
}

// Lenient faz Load ignorar valores que não convertem para o tipo do campo.
// O campo mantém o envDefault (ou o valor anterior) e nenhum erro é retornado.
func Lenient() Option {
	return func(o *options) { o.lenient = true }
}

var durationType = reflect.TypeOf(time.Duration(0))

// Load preenche uma struct com valores de variáveis de ambiente
// baseado nas tags "env" e "envDefault".
//
// A tag env aceita uma cadeia de nomes separados por vírgula; o primeiro
// com valor não vazio vence: `env:"AWS_REGION,REGION"`.
func Load(config interface{}, opts ...Option) error {
	o := options{lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(&o)
	}

	val := reflect.ValueOf(config)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return &InvalidConfigError{Value: val.Type()}
	}

	return loadStruct(val.Elem(), &o)
}

func loadStruct(val reflect.Value, o *options) error {
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := loadStruct(field, o); err != nil {
				return err
			}
			continue
		}

		if field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct {
			if field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}
			if err := loadStruct(field.Elem(), o); err != nil {
				return err
			}
			continue
		}

		envTag := fieldType.Tag.Get("env")
		if envTag == "" {
			continue
		}
		defaultTag := fieldType.Tag.Get("envDefault")

		name, envValue := firstNonEmpty(o.lookup, envTag)
		if envValue != "" {
			err := setFieldValue(field, envValue)
			if err == nil {
				continue
			}
			if !o.lenient {
				return &FieldError{FieldName: fieldType.Name, EnvVar: name, Value: envValue, Err: err}
			}
		}

		if defaultTag == "" {
			continue
		}
		if err := setFieldValue(field, defaultTag); err != nil {
			// default inválido é erro de programação, mesmo no modo leniente
			return &FieldError{FieldName: fieldType.Name, EnvVar: envTag, Value: defaultTag, Err: err}
		}
	}

	return nil
}

// firstNonEmpty percorre a cadeia "A,B,C" e retorna o primeiro valor definido.
func firstNonEmpty(lookup LookupFunc, chain string) (string, string) {
	for _, name := range strings.Split(chain, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if v, ok := lookup(name); ok && strings.TrimSpace(v) != "" {
			return name, v
		}
	}
	return chain, ""
}

func setFieldValue(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(intValue)

	case reflect.Bool:
		boolValue, err := strconv.ParseBool(strings.ToLower(value))
		if err != nil {
			return err
		}
		field.SetBool(boolValue)

	default:
		return &UnsupportedTypeError{Type: field.Type()}
	}

	return nil
}
