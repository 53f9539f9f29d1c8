// Package serve runs an http.Handler either on a socket or inside AWS Lambda.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/rs/zerolog"
)

// Mode selects how the handler is exposed.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeListen Mode = "listen"
	ModeLambda Mode = "lambda"
)

// lambdaEnv is set by the Lambda runtime in every function container.
const lambdaEnv = "LAMBDA_TASK_ROOT"

// ParseMode validates a mode string.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeAuto, ModeListen, ModeLambda:
		return m, nil
	case "":
		return ModeAuto, nil
	default:
		return "", fmt.Errorf("unknown serve mode %q", s)
	}
}

// Resolve turns ModeAuto into a concrete mode using lookupEnv.
func Resolve(m Mode, lookupEnv func(string) (string, bool)) Mode {
	if m != ModeAuto {
		return m
	}
	if v, ok := lookupEnv(lambdaEnv); ok && v != "" {
		return ModeLambda
	}
	return ModeListen
}

// Options configures the listen mode.
type Options struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
	// Listener, when set, is used instead of binding Addr.
	Listener net.Listener
}

// Run exposes handler according to mode and blocks until ctx is cancelled
// or the server fails.
func Run(ctx context.Context, mode Mode, handler http.Handler, opts Options, logger *zerolog.Logger) error {
	switch Resolve(mode, os.LookupEnv) {
	case ModeLambda:
		logger.Info().Msg("starting lambda handler")
		return runLambda(ctx, handler)
	default:
		return runListener(ctx, handler, opts, logger)
	}
}

func runListener(ctx context.Context, handler http.Handler, opts Options, logger *zerolog.Logger) error {
	server := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
	}

	ln := opts.Listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", opts.Addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", opts.Addr, err)
		}
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	logger.Info().Str("addr", ln.Addr().String()).Msg("server running")

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
		defer cancel()

		logger.Info().Msg("shutting down http server")
		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}

// runLambda hands the handler to the Lambda runtime, which owns the process
// from here on.
func runLambda(ctx context.Context, handler http.Handler) error {
	lambda.StartWithOptions(lambdaHandler(handler), lambda.WithContext(ctx))
	return nil
}

// lambdaHandler adapts handler to API Gateway proxy events.
func lambdaHandler(handler http.Handler) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return httpadapter.New(handler).ProxyWithContext
}
