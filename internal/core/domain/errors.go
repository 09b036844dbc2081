package domain

import "errors"

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedEvent   = errors.New("malformed webhook event")

	ErrAcceptFailed = errors.New("call accept failed")

	ErrStreamConnect = errors.New("stream connect failed")
	ErrStreamIO      = errors.New("stream i/o error")
	ErrStreamClosed  = errors.New("stream closed by remote")

	ErrSessionExists = errors.New("relay session already running for call")
	ErrHubStopped    = errors.New("relay hub stopped")
)
