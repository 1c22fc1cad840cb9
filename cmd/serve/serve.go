// Package serve runs the read-only HTTP API
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"fjacquet/bank-import/cmd/root"
	"fjacquet/bank-import/internal/api"
	"fjacquet/bank-import/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve report queries over HTTP",
	Long: `Serve the report queries as JSON over HTTP. The database is opened read-only.

Routes:
  GET /healthz
  GET /api/queries
  GET /api/query/{name}?month=YYYY-MM&type=INCOME|EXPENSE[&format=csv]
  GET /metrics

Example:
  bank-import serve --addr 127.0.0.1:8080`,
	RunE: serveFunc,
}

func init() {
	Cmd.Flags().String("addr", "127.0.0.1:8080", "Listen address")
}

func serveFunc(cmd *cobra.Command, _ []string) error {
	c := root.GetContainer()
	if c == nil {
		return errors.New("container not initialized")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, err := c.Reports(ctx)
	if err != nil {
		return err
	}

	addr := c.GetConfig().Server.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(svc, c.GetRecorder().Registry(), root.Log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		root.Log.Info("Serving report API", logging.F("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		root.Log.Info("Shutting down report API")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
