// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/protocol-reports/internal/logging"
	"github.com/pdiddy/protocol-reports/internal/report"
	"github.com/pdiddy/protocol-reports/pkg/types"
)

const (
	maxRequestBody  = 32 << 20
	shutdownTimeout = 10 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve report generation over HTTP",
	Long: `Serve starts an HTTP server with one endpoint per record kind:

  POST /reports/official    official protocol
  POST /reports/unofficial  unofficial protocol
  POST /transcript          speaker transcript

Each endpoint takes a JSON (or YAML) request body and answers with the
generated file as an attachment.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from serve.addr, \":8000\")")
	_ = viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := reportsConfig(viper.GetViper())
	g, closeFn, err := newGenerator(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Serve.Addr,
		Handler:           newRouter(g),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		slog.Info("serving reports", "addr", cfg.Serve.Addr, "output_dir", g.OutputDir())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	slog.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

// newRouter wires the report endpoints onto a gin engine.
func newRouter(g *report.Generator) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		ExposeHeaders:   []string{"Content-Disposition"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, "/healthz")
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.POST("/reports/official", reportHandler(g, types.KindOfficial))
	router.POST("/reports/unofficial", reportHandler(g, types.KindUnofficial))
	router.POST("/transcript", reportHandler(g, types.KindTranscript))
	return router
}

func reportHandler(g *report.Generator, kind types.RecordKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBody))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"message": "can't read request body: " + err.Error(),
			})
			return
		}

		var req types.ReportRequest
		if strings.Contains(c.ContentType(), "yaml") {
			req, err = types.DecodeRequestYAML(kind, body)
		} else {
			req, err = types.DecodeRequest(kind, body)
		}
		if err != nil {
			c.AbortWithStatusJSON(decodeStatus(err), gin.H{
				"message": "can't decode request: " + err.Error(),
				"type":    report.ErrorTypeInvalidRequest.String(),
			})
			return
		}

		res, err := g.Generate(c.Request.Context(), req)
		if err != nil {
			slog.ErrorContext(c.Request.Context(), "report generation failed",
				"kind", string(kind), "type", report.TypeOf(err).String(), logging.Err(err))
			c.AbortWithStatusJSON(statusFor(err), gin.H{
				"message": err.Error(),
				"type":    report.TypeOf(err).String(),
			})
			return
		}

		if res.ConversionErr != nil {
			c.Header("X-Conversion-Error", res.ConversionErr.Error())
		}
		c.FileAttachment(res.Path, req.Name+"."+res.Format.Ext())
	}
}

// decodeStatus separates bodies that parse but carry unusable envelope
// fields (400) from bodies that cannot be parsed at all (422).
func decodeStatus(err error) int {
	if errors.Is(err, types.ErrInvalidRequest) {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

// statusFor maps a pipeline error to an HTTP status.
func statusFor(err error) int {
	switch report.TypeOf(err) {
	case report.ErrorTypeInvalidRequest, report.ErrorTypeUnsupportedRecordKind:
		return http.StatusBadRequest
	case report.ErrorTypeConversionFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
