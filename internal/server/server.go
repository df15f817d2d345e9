// Package server exposes roster processing over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/acf-tools/startrack/internal/progression"
	"github.com/acf-tools/startrack/internal/report"
	"github.com/acf-tools/startrack/internal/roster"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Server serves the roster processing API.
type Server struct {
	// embedded web server
	e *echo.Echo
	// the host address this instance listens on
	host string
	// the port this instance listens on
	port int
	// largest accepted request body
	maxUploadBytes int64

	log        *zap.Logger
	engine     *progression.Engine
	processor  *report.Processor
	workers    int
	rosterOpts roster.Options
	runs       *runCache
}

// New creates a server evaluating against engine.
func New(engine *progression.Engine, options ...Option) (*Server, error) {
	if engine == nil {
		return nil, errors.New("engine must not be nil")
	}

	srv := &Server{
		host:           "localhost",
		port:           5000,
		maxUploadBytes: 10 << 20,
		log:            zap.NewNop(),
		engine:         engine,
		rosterOpts:     roster.DefaultOptions(),
		runs:           newRunCache(defaultRunCacheSize),
	}
	if err := srv.setOptions(options...); err != nil {
		return nil, err
	}
	srv.processor = report.NewProcessor(engine, srv.workers, srv.log)

	srv.e = echo.New()
	srv.e.HideBanner = true
	srv.e.HidePort = true
	srv.e.Use(middleware.Recover())
	srv.e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURIPath: true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("path", v.URIPath),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				srv.log.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			srv.log.Debug("request", fields...)
			return nil
		},
	}))

	// pingable method to know we're up
	srv.e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, "OK")
	})
	srv.e.POST("/api/process", srv.handleProcess)
	srv.e.GET("/api/download/:id", srv.handleDownload)
	srv.e.POST("/api/evaluate", srv.handleEvaluate)
	srv.e.GET("/api/syllabus", srv.handleSyllabus)

	return srv, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.e
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info("server listening",
		zap.String("addr", s.Addr()),
		zap.String("syllabus", s.engine.Syllabus().Version()))
	if err := s.e.Start(s.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shut down server: %w", err)
	}
	return nil
}

// processResponse is returned by POST /api/process.
type processResponse struct {
	Message      string         `json:"message"`
	RunID        string         `json:"runId"`
	Data         report.Summary `json:"data"`
	DownloadPath string         `json:"downloadPath"`
}

// multipartOverhead allows for form boundaries and part headers on top of
// the file itself.
const multipartOverhead = 64 << 10

func (s *Server) handleProcess(c echo.Context) error {
	req := c.Request()
	limit := s.maxUploadBytes + multipartOverhead
	if req.ContentLength > limit {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds %d bytes", s.maxUploadBytes))
	}
	req.Body = http.MaxBytesReader(c.Response(), req.Body, limit)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge,
				fmt.Sprintf("file exceeds %d bytes", s.maxUploadBytes))
		}
		return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}
	if fh.Size > s.maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds %d bytes", s.maxUploadBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	defer f.Close()

	records, err := roster.ReadCSV(f, s.engine.Syllabus(), s.rosterOpts)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rep, err := s.processor.Run(c.Request().Context(), records)
	if err != nil {
		s.log.Error("process roster", zap.String("file", fh.Filename), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Error processing file")
	}

	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, rep); err != nil {
		s.log.Error("write workbook", zap.String("run_id", rep.RunID), zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "Error processing file")
	}
	s.runs.put(rep.RunID, buf.Bytes())

	return c.JSON(http.StatusOK, processResponse{
		Message:      "File processed successfully",
		RunID:        rep.RunID,
		Data:         rep.Summary,
		DownloadPath: "/api/download/" + rep.RunID,
	})
}

func (s *Server) handleDownload(c echo.Context) error {
	id := c.Param("id")
	data, ok := s.runs.get(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "no processed file with that id")
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", "progress-"+id+".xlsx"))
	return c.Blob(http.StatusOK, xlsxContentType, data)
}

func (s *Server) handleEvaluate(c echo.Context) error {
	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, s.maxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	records, err := roster.ParseJSON(body, s.engine.Syllabus())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rep, err := s.processor.Run(c.Request().Context(), records)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rep)
}

func (s *Server) handleSyllabus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.engine.Syllabus().Document())
}
