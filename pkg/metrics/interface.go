package metrics

import (
	"sync"
	"time"
)

// Provider define o contrato para envio de métricas.
type Provider interface {
	Count(name string, value float64, tags []string) error
	Gauge(name string, value float64, tags []string) error
	Histogram(name string, value float64, tags []string) error
	Close() error
}

// Nomes das métricas emitidas pelo serviço.
const (
	HTTPRequests      = "http.requests"
	HTTPLatencyMillis = "http.latency_ms"
	StoreErrors       = "store.errors"
	SeedItemsWritten  = "seed.items_written"
	SeedRuns          = "seed.runs"
	BootstrapCreated  = "bootstrap.tables_created"
)

// Sample é uma observação capturada pelo Recorder.
type Sample struct {
	Type  string
	Name  string
	Value float64
	Tags  []string
}

// Recorder guarda métricas em memória. Usado em testes.
type Recorder struct {
	mu      sync.Mutex
	samples []Sample
}

func (r *Recorder) record(kind, name string, value float64, tags []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, Sample{Type: kind, Name: name, Value: value, Tags: append([]string(nil), tags...)})
	return nil
}

func (r *Recorder) Count(name string, value float64, tags []string) error {
	return r.record("count", name, value, tags)
}

func (r *Recorder) Gauge(name string, value float64, tags []string) error {
	return r.record("gauge", name, value, tags)
}

func (r *Recorder) Histogram(name string, value float64, tags []string) error {
	return r.record("histogram", name, value, tags)
}

func (r *Recorder) Close() error { return nil }

// Samples retorna uma cópia das observações com o nome informado.
func (r *Recorder) Samples(name string) []Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Sample
	for _, s := range r.samples {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

// Since converte a duração desde start em milissegundos.
func Since(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
