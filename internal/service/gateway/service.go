// Package gateway exposes the bot router over gRPC for channels that prefer a
// request/response call to the webhook: the caller sends one event and gets
// the replies back in the same call.
//
// Messages are google.protobuf.Struct so no generated code is needed:
//
//	rpc Dispatch(google.protobuf.Struct) returns (google.protobuf.Struct)
//
// The request carries the bot.Update fields (user_id, kind, text, data, lat,
// lon, photo_id); the response is {"replies": [chat.Reply...]}.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oggyb/habesha-match/internal/bot"
	"github.com/oggyb/habesha-match/internal/chat"
	"github.com/oggyb/habesha-match/internal/dispatch"
	svcErr "github.com/oggyb/habesha-match/internal/errors"
	"github.com/oggyb/habesha-match/internal/logger"
)

// Handler processes one inbound event. *bot.Router satisfies it.
type Handler interface {
	Handle(ctx context.Context, up bot.Update) ([]chat.Reply, error)
}

// Submitter queues work on a user's lane. *dispatch.Dispatcher satisfies it.
type Submitter interface {
	Submit(userID int64, job dispatch.Job) error
}

// Response is the decoded Dispatch result.
type Response struct {
	Replies []chat.Reply `json:"replies"`
}

type outcome struct {
	replies []chat.Reply
	err     error
}

// Service implements GatewayServer.
type Service struct {
	handler Handler
	lanes   Submitter
	timeout time.Duration
	log     *slog.Logger
}

// NewGatewayService creates the gateway. Events go through lanes so they
// stay ordered with webhook traffic from the same user.
func NewGatewayService(handler Handler, lanes Submitter, log *slog.Logger) *Service {
	if log == nil {
		log = logger.L()
	}
	return &Service{handler: handler, lanes: lanes, timeout: 10 * time.Second, log: log}
}

// Dispatch runs one event and returns the router's replies.
//
// Behavior:
//   - Fields that don't decode into an Update, or an Update that fails
//     validation → InvalidArgument.
//   - Sender over the flood limit → ResourceExhausted; shutting down → Unavailable.
//   - Store failure during handling → Unavailable.
//   - If the caller goes away while the event is queued, the event still
//     runs; its replies are dropped.
//
// Example:
//
//	in, _ := structpb.NewStruct(map[string]any{"user_id": 42, "kind": "text", "text": "/start"})
//	out, err := svc.Dispatch(ctx, in)
func (s *Service) Dispatch(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	up, err := decodeUpdate(in)
	if err != nil {
		return nil, err
	}
	s.log.Debug("Dispatch called", "user", logger.UserRef(up.UserID), "kind", up.Kind)

	done := make(chan outcome, 1)
	err = s.lanes.Submit(up.UserID, func(laneCtx context.Context) {
		laneCtx, cancel := context.WithTimeout(laneCtx, s.timeout)
		defer cancel()
		replies, err := s.handler.Handle(laneCtx, up)
		done <- outcome{replies: replies, err: err}
	})
	if errors.Is(err, dispatch.ErrClosed) {
		return nil, status.Error(codes.Unavailable, "shutting down")
	}
	if err != nil {
		return nil, svcErr.Map(err)
	}

	select {
	case <-ctx.Done():
		return nil, svcErr.Map(ctx.Err())
	case res := <-done:
		if res.err != nil {
			s.log.Error("Dispatch handling failed", "user", logger.UserRef(up.UserID), "err", res.err)
			return nil, svcErr.Map(res.err)
		}
		return encodeResponse(Response{Replies: res.replies})
	}
}

func decodeUpdate(in *structpb.Struct) (bot.Update, error) {
	var up bot.Update
	raw, err := protojson.Marshal(in)
	if err != nil {
		return up, svcErr.InvalidArgument("request is not a valid struct")
	}
	if err := json.Unmarshal(raw, &up); err != nil {
		return up, svcErr.InvalidArgument("request fields have the wrong types")
	}
	if err := up.Validate(); err != nil {
		return up, svcErr.Map(err)
	}
	return up, nil
}

func encodeResponse(r Response) (*structpb.Struct, error) {
	if r.Replies == nil {
		r.Replies = []chat.Reply{}
	}
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}
