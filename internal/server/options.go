package server

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/acf-tools/startrack/internal/roster"
)

// Option configures a Server.
type Option func(*Server) error

func (s *Server) setOptions(options ...Option) error {
	for _, opt := range options {
		if err := opt(s); err != nil {
			return err
		}
	}
	return nil
}

// Host sets the host address to listen on.
func Host(host string) Option {
	return func(s *Server) error {
		if host == "" {
			return errors.New("host must not be empty")
		}
		s.host = host
		return nil
	}
}

// Port sets the port to listen on. Zero picks a free port.
func Port(port int) Option {
	return func(s *Server) error {
		if port < 0 || port > 65535 {
			return fmt.Errorf("invalid port %d", port)
		}
		s.port = port
		return nil
	}
}

// Logger sets the logger.
func Logger(log *zap.Logger) Option {
	return func(s *Server) error {
		if log == nil {
			return errors.New("logger must not be nil")
		}
		s.log = log
		return nil
	}
}

// MaxUploadBytes bounds accepted uploads and request bodies.
func MaxUploadBytes(n int64) Option {
	return func(s *Server) error {
		if n < 1 {
			return fmt.Errorf("max upload bytes must be positive, got %d", n)
		}
		s.maxUploadBytes = n
		return nil
	}
}

// Workers bounds concurrent evaluations per request.
func Workers(n int) Option {
	return func(s *Server) error {
		s.workers = n
		return nil
	}
}

// RosterOptions sets how uploaded CSV files are read.
func RosterOptions(opts roster.Options) Option {
	return func(s *Server) error {
		s.rosterOpts = opts
		return nil
	}
}
