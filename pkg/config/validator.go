package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator cria uma nova instância do validador
func NewValidator() *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
	}
}

// Validate checa as regras das tags `validate` e as regras entre campos.
func (cv *ConfigValidator) Validate(cfg *Settings) error {
	if err := cv.validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errMsgs := make([]string, 0, len(validationErrors))
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("campo '%s' falhou na regra '%s' (valor: %v)", e.Namespace(), e.Tag(), e.Value()))
			}
			return fmt.Errorf("configuração inválida:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("configuração inválida: %w", err)
	}

	if cfg.Store.TableName == "" {
		return errors.New("configuração inválida: nome da tabela vazio")
	}
	if cfg.Runtime == "lambda" && cfg.Server.StaticDir != "" {
		return errors.New("configuração inválida: STATIC_DIR não é suportado no runtime lambda")
	}
	return nil
}
