package bfrontapp

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// Environment defines the interface that all environment configurations must implement.
// Embed BaseEnvironment in your struct to satisfy this interface.
type Environment interface {
	port() int
	serviceName() string
	readinessCheckPath() string
	metricsPath() string
	logLevel() zapcore.Level
	otelExporter() string
	errorHandler() string
	catchErrors() bool
	maxLoop() int
	bufferLimit() int
	requestTimeout() time.Duration
	routesFile() string
}

// BaseEnvironment contains the environment variables every front app reads.
// Embed this in your custom environment struct.
type BaseEnvironment struct {
	Port               int           `env:"BF_PORT,required"`
	ServiceName        string        `env:"BF_SERVICE_NAME,required"`
	ReadinessCheckPath string        `env:"BF_READINESS_CHECK_PATH" envDefault:"/health"`
	MetricsPath        string        `env:"BF_METRICS_PATH" envDefault:"/metrics"`
	LogLevel           zapcore.Level `env:"BF_LOG_LEVEL" envDefault:"info"`
	OtelExporter       string        `env:"BF_OTEL_EXPORTER" envDefault:"stdout"`
	// ErrorHandler names the handler failed dispatches are recovered with. Recovery is off when it is empty.
	ErrorHandler   string        `env:"BF_ERROR_HANDLER"`
	CatchErrors    bool          `env:"BF_CATCH_ERRORS" envDefault:"true"`
	MaxLoop        int           `env:"BF_MAX_LOOP" envDefault:"20"`
	BufferLimit    int           `env:"BF_BUFFER_LIMIT" envDefault:"-1"`
	RequestTimeout time.Duration `env:"BF_REQUEST_TIMEOUT" envDefault:"30s"`
	// RoutesFile is an optional YAML route table that is loaded before the routing function runs.
	RoutesFile string `env:"BF_ROUTES_FILE"`
}

func (e BaseEnvironment) port() int                     { return e.Port }
func (e BaseEnvironment) serviceName() string           { return e.ServiceName }
func (e BaseEnvironment) readinessCheckPath() string    { return e.ReadinessCheckPath }
func (e BaseEnvironment) metricsPath() string           { return e.MetricsPath }
func (e BaseEnvironment) logLevel() zapcore.Level       { return e.LogLevel }
func (e BaseEnvironment) otelExporter() string          { return e.OtelExporter }
func (e BaseEnvironment) errorHandler() string          { return e.ErrorHandler }
func (e BaseEnvironment) catchErrors() bool             { return e.CatchErrors }
func (e BaseEnvironment) maxLoop() int                  { return e.MaxLoop }
func (e BaseEnvironment) bufferLimit() int              { return e.BufferLimit }
func (e BaseEnvironment) requestTimeout() time.Duration { return e.RequestTimeout }
func (e BaseEnvironment) routesFile() string            { return e.RoutesFile }

var _ Environment = BaseEnvironment{}

// ParseEnv parses environment variables into the given Environment type.
func ParseEnv[E Environment]() func() (E, error) {
	return func() (e E, err error) {
		if err := env.Parse(&e); err != nil {
			return e, errors.Wrap(err, "failed to parse environment")
		}

		if e.maxLoop() < 0 {
			return e, errors.Newf("BF_MAX_LOOP must not be negative, got: %d", e.maxLoop())
		}

		return e, nil
	}
}
