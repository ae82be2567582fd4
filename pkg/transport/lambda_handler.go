package transport

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/core"
	"github.com/awslabs/aws-lambda-go-api-proxy/gorillamux"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// LambdaHandler adapta eventos do API Gateway (REST, proxy) para o mesmo
// roteador usado no servidor HTTP.
type LambdaHandler struct {
	adapter *gorillamux.GorillaMuxAdapter
}

// NewLambdaHandler cria o adaptador. A SPA nunca é servida em Lambda.
// O adaptador exige um *mux.Router, então as rotas ficam sob um roteador
// externo que aplica o middleware de observabilidade a toda requisição.
func NewLambdaHandler(cfg RouterConfig) *LambdaHandler {
	cfg.StaticDir = ""
	outer := mux.NewRouter()
	outer.PathPrefix("/").Handler(NewRouter(cfg))
	return &LambdaHandler{adapter: gorillamux.New(outer)}
}

// Handle processa a requisição Lambda.
func (h *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	resp, err := h.adapter.ProxyWithContext(ctx, *core.NewSwitchableAPIGatewayRequestV1(&req))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).
			Str("method", req.HTTPMethod).
			Str("path", req.Path).
			Msg("falha ao adaptar evento do API Gateway")
		return internalErrorResponse(), nil
	}

	v1 := resp.Version1()
	if v1 == nil {
		log.Ctx(ctx).Error().Str("path", req.Path).Msg("adaptador não retornou resposta REST")
		return internalErrorResponse(), nil
	}
	return *v1, nil
}

func internalErrorResponse() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusInternalServerError,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"message":"internal server error"}`,
	}
}
