package handler

import (
	"context"
	"net"
	"net/http"
)

// NewServer wraps h in an http.Server whose request contexts are cancelled
// as soon as Shutdown starts, so long-lived event streams return instead of
// holding shutdown open until its deadline.
func NewServer(addr string, h http.Handler) *http.Server {
	base, cancel := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:        addr,
		Handler:     h,
		BaseContext: func(net.Listener) context.Context { return base },
	}
	server.RegisterOnShutdown(cancel)
	return server
}
