package config

import (
	"os"
	"time"

	"github.com/raywall/bookstore-service/envloader"
)

// Environment é um snapshot somente-leitura de variáveis de ambiente.
type Environment func(key string) (string, bool)

// OSEnvironment lê do processo atual.
func OSEnvironment() Environment {
	return os.LookupEnv
}

// MapEnvironment expõe um mapa como Environment. O mapa é copiado.
func MapEnvironment(vars map[string]string) Environment {
	snapshot := make(map[string]string, len(vars))
	for k, v := range vars {
		snapshot[k] = v
	}
	return func(key string) (string, bool) {
		v, ok := snapshot[key]
		return v, ok
	}
}

const (
	defaultConnectTimeout = 2 * time.Second
	defaultSocketTimeout  = 5 * time.Second
)

// Resolve deriva Settings do ambiente. Nunca falha: valores ausentes ou
// malformados caem silenciosamente nos defaults.
func Resolve(env Environment) Settings {
	if env == nil {
		env = OSEnvironment()
	}

	var s Settings
	// Apenas um envDefault inválido retornaria erro aqui, e os defaults são fixos.
	_ = envloader.Load(&s, envloader.WithLookup(envloader.LookupFunc(env)), envloader.Lenient())

	if s.Store.ConnectTimeout <= 0 {
		s.Store.ConnectTimeout = defaultConnectTimeout
	}
	if s.Store.SocketTimeout <= 0 {
		s.Store.SocketTimeout = defaultSocketTimeout
	}
	return s
}
