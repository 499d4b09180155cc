package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	comms "github.com/nats-io/nats.go"

	"github.com/morezero/employee-service/pkg/commsutil"
	"github.com/morezero/employee-service/pkg/rpc"
)

// handleFrame decodes one raw RPC frame, routes it and encodes the envelope.
// The bool is false when the frame itself could not be decoded.
func handleFrame(ctx context.Context, router *rpc.Router, data []byte) ([]byte, bool) {
	req, bad := rpc.DecodeRequest(data)
	if bad != nil {
		slog.Warn(fmt.Sprintf("%s - undecodable frame (method %q): %s", logPrefix, rpc.PeekMethod(data), bad.Error.Message))
		return encodeEnvelope(*bad), false
	}
	return encodeEnvelope(router.Route(ctx, req)), true
}

func encodeEnvelope(resp rpc.Response) []byte {
	data, err := json.Marshal(resp)
	if err != nil {
		slog.Error(fmt.Sprintf("%s - failed to encode response: %v", logPrefix, err))
		data, _ = json.Marshal(rpc.ErrorFrom(resp.ID, "", err))
	}
	return data
}

// SubscribeRPC serves RPC frames arriving on subject. Every request runs
// under its own timeout derived from ctx.
func SubscribeRPC(ctx context.Context, nc *comms.Conn, subject string, router *rpc.Router, timeout time.Duration) (*comms.Subscription, error) {
	sub, err := nc.Subscribe(subject, func(msg *comms.Msg) {
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		data, _ := handleFrame(reqCtx, router, msg.Data)
		if msg.Reply == "" {
			return
		}
		reply := comms.NewMsg(msg.Reply)
		reply.Header.Set(commsutil.HeaderContentType, commsutil.ContentTypeJSON)
		reply.Data = data
		if err := msg.RespondMsg(reply); err != nil {
			slog.Error(fmt.Sprintf("%s - failed to respond on %s: %v", logPrefix, subject, err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%s - failed to subscribe to %s: %w", logPrefix, subject, err)
	}
	slog.Info(fmt.Sprintf("%s - Subscribed to %s", logPrefix, subject))
	return sub, nil
}
