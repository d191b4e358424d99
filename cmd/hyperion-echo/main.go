// Command hyperion-echo is a minimal TCP client/server exercising the
// smart dispatcher end to end: the client sends one message and waits for
// the echo, the server accepts connections and echoes back whatever it
// receives. It is scaffolding around the protocol core, the way the
// teacher repo's cmd/rtmp-server sits around internal/rtmp.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/TechTeaStudio/HyperionProtocol/internal/hconfig"
	"github.com/TechTeaStudio/HyperionProtocol/internal/hlog"
	"github.com/TechTeaStudio/HyperionProtocol/internal/hyperion/dispatch"
	"github.com/TechTeaStudio/HyperionProtocol/internal/hyperion/serializer"
	"github.com/TechTeaStudio/HyperionProtocol/internal/hyperion/stats"
)

func main() {
	cfg, err := hconfig.Parse(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	hlog.Init()
	if err := hlog.SetLevel(cfg.LogLevel); err != nil {
		fmt.Printf("warning: invalid log level %q, using default\n", cfg.LogLevel)
	}
	log := hlog.Logger().With("component", "cli", "mode", cfg.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cfg.Mode {
	case "server":
		if err := runServer(ctx, cfg); err != nil {
			log.Error("server exited with error", "error", err)
			os.Exit(1)
		}
	case "client":
		if err := runClient(ctx, cfg); err != nil {
			log.Error("client exited with error", "error", err)
			os.Exit(1)
		}
	}
}

func runServer(ctx context.Context, cfg *hconfig.Config) error {
	log := hlog.Logger().With("component", "server")

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	log.Info("listening", "addr", ln.Addr().String())

	var wg sync.WaitGroup
	go func() {
		<-ctx.Done()
		log.Info("shutdown signal received")
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				wg.Wait()
				return nil
			default:
				return fmt.Errorf("accept: %w", err)
			}
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			handleConn(ctx, conn, log)
		}()
	}
}

func handleConn(ctx context.Context, conn net.Conn, log interface {
	Info(string, ...any)
	Error(string, ...any)
}) {
	defer conn.Close()

	counters := &stats.Counters{}
	engine := dispatch.New().WithStats(counters)
	s := serializer.NewDefault[string]()
	w := bufio.NewWriter(conn)

	data, err := engine.Receive(ctx, conn)
	if err != nil {
		log.Error("receive failed", "error", err, "remote", conn.RemoteAddr().String())
		return
	}
	msg, err := s.Decode(data)
	if err != nil {
		log.Error("decode failed", "error", err)
		return
	}
	log.Info("received message", "remote", conn.RemoteAddr().String(), "bytes", len(data))

	echo, err := s.Encode(msg)
	if err != nil {
		log.Error("encode failed", "error", err)
		return
	}
	if err := engine.Send(ctx, echo, w); err != nil {
		log.Error("send failed", "error", err)
		return
	}
}

func runClient(ctx context.Context, cfg *hconfig.Config) error {
	log := hlog.Logger().With("component", "client")

	dialer := net.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	counters := &stats.Counters{}
	engine := dispatch.New().WithStats(counters)
	s := serializer.NewDefault[string]()
	w := bufio.NewWriter(conn)

	payload, err := s.Encode(cfg.Message)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := engine.Send(ctx, payload, w); err != nil {
		return fmt.Errorf("send: %w", err)
	}

	data, err := engine.Receive(ctx, conn)
	if err != nil {
		return fmt.Errorf("receive: %w", err)
	}
	echo, err := s.Decode(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	snap := counters.Snapshot()
	log.Info("round trip complete", "sent", cfg.Message, "received", echo,
		"bytes_sent", snap.BytesSent, "bytes_received", snap.BytesReceived)
	fmt.Println(echo)
	return nil
}
