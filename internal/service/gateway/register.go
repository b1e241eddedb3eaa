package gateway

import (
	"google.golang.org/grpc"

	"github.com/oggyb/habesha-match/internal/app"
)

// Registrar ties the Gateway service into the gRPC server
type Registrar struct {
	appCtx  *app.AppContext
	handler Handler
	lanes   Submitter
}

// NewRegistrar creates a new Registrar for the Gateway service
func NewRegistrar(appCtx *app.AppContext, handler Handler, lanes Submitter) *Registrar {
	return &Registrar{appCtx: appCtx, handler: handler, lanes: lanes}
}

// Register attaches the Gateway service implementation to the gRPC server
func (r *Registrar) Register(s *grpc.Server) {
	RegisterGatewayServer(s, NewGatewayService(r.handler, r.lanes, r.appCtx.Logger))
}
