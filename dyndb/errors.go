package dyndb

import (
	"context"
	"errors"
	"fmt"
	"net"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// ErrNotFound – erro padrão quando o item não existe
var ErrNotFound = errors.New("dyndb: item not found")

// ErrTableNotFound é casado via errors.Is quando o DynamoDB responde
// ResourceNotFoundException (tabela inexistente).
var ErrTableNotFound = errors.New("dyndb: table not found")

// ErrKind classifica falhas do store.
type ErrKind int

const (
	KindUnknown ErrKind = iota
	KindTableNotFound
	KindUnavailable
)

func (k ErrKind) String() string {
	switch k {
	case KindTableNotFound:
		return "table not found"
	case KindUnavailable:
		return "unavailable"
	default:
		return "store failure"
	}
}

// StoreError envolve qualquer falha retornada pelo SDK.
type StoreError struct {
	Op    string
	Table string
	Kind  ErrKind
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("dyndb: %s %s: %s: %v", e.Op, e.Table, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrTableNotFound).
func (e *StoreError) Is(target error) bool {
	return target == ErrTableNotFound && e.Kind == KindTableNotFound
}

// IsUnavailable reporta falhas de rede, timeout ou 5xx.
func (e *StoreError) IsUnavailable() bool { return e.Kind == KindUnavailable }

// NewStoreError envolve err classificando-o.
func NewStoreError(op, table string, err error) *StoreError {
	return &StoreError{Op: op, Table: table, Kind: classify(err), Err: err}
}

func classify(err error) ErrKind {
	var rnf *types.ResourceNotFoundException
	if errors.As(err, &rnf) {
		return KindTableNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindUnavailable
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() >= 500 {
		return KindUnavailable
	}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		if ae.ErrorCode() == "ResourceNotFoundException" {
			return KindTableNotFound
		}
		if ae.ErrorFault() == smithy.FaultServer {
			return KindUnavailable
		}
	}
	return KindUnknown
}

// IsUnavailable é o atalho para qualquer erro encadeado.
func IsUnavailable(err error) bool {
	var se *StoreError
	return errors.As(err, &se) && se.IsUnavailable()
}
