package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/taurusgroup/alsz-ot/pkg/party"
	"github.com/taurusgroup/alsz-ot/pkg/pool"
	"github.com/taurusgroup/alsz-ot/pkg/protocol"
	"github.com/taurusgroup/alsz-ot/protocols/alsz"
)

// handlerLoop relays messages until the handler finishes, or ctx is done.
func handlerLoop(ctx context.Context, id party.ID, h protocol.Handler, n Network) error {
	for {
		select {
		case <-ctx.Done():
			h.Stop()
			return ctx.Err()
		case msg, ok := <-h.Listen():
			if !ok {
				return nil
			}
			n.Send(msg)
		case msg := <-n.Next(id):
			h.Accept(msg)
		}
	}
}

func Receive(ctx context.Context, cfg alsz.Config, id, senderID party.ID, choices []uint8, n Network, pl *pool.Pool, log zerolog.Logger) (*alsz.ReceiveResult, error) {
	h, err := protocol.NewTwoPartyHandlerWithLogger(alsz.Receive(cfg, id, senderID, choices, pl), nil, true, log)
	if err != nil {
		return nil, err
	}
	if err = handlerLoop(ctx, id, h, n); err != nil {
		return nil, err
	}
	r, err := h.Result()
	if err != nil {
		return nil, err
	}
	result, ok := r.(*alsz.ReceiveResult)
	if !ok {
		return nil, errors.New("failed to cast result to *alsz.ReceiveResult")
	}
	return result, nil
}

func Send(ctx context.Context, cfg alsz.Config, id, receiverID party.ID, x0s, x1s [][]byte, n Network, pl *pool.Pool, log zerolog.Logger) (*alsz.SendResult, error) {
	h, err := protocol.NewTwoPartyHandlerWithLogger(alsz.Send(cfg, id, receiverID, x0s, x1s, pl), nil, false, log)
	if err != nil {
		return nil, err
	}
	if err = handlerLoop(ctx, id, h, n); err != nil {
		return nil, err
	}
	r, err := h.Result()
	if err != nil {
		return nil, err
	}
	result, ok := r.(*alsz.SendResult)
	if !ok {
		return nil, fmt.Errorf("failed to cast result %T to *alsz.SendResult", r)
	}
	return result, nil
}
