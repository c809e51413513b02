package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/kubev2v/search-query/pkg/searchquery"
)

type Configuration struct {
	Server    Server
	Query     Query
	Service   Service
	LogLevel  string `default:"info" flag:"log-level" validate:"oneof=debug info warn error"`
	LogFormat string `default:"console" flag:"log-format" validate:"oneof=console json"`
}

type Server struct {
	HTTPPort        int           `default:"8000" flag:"server-http-port" validate:"min=1,max=65535"`
	ServerMode      string        `default:"dev" flag:"server-mode" validate:"oneof=dev prod"`
	ShutdownTimeout time.Duration `default:"5s" flag:"server-shutdown-timeout" validate:"min=0"`
}

// Query holds the default parser and compiler options. Requests can override
// them.
type Query struct {
	Keywords    []string `flag:"keywords" validate:"dive,required,excludesall=:0x2C"`
	Ranges      []string `flag:"ranges" validate:"dive,required,excludesall=:0x2C"`
	Offsets     bool     `default:"true" flag:"offsets"`
	AlwaysQuote bool     `flag:"always-quote"`
}

type Service struct {
	NumWorkers     int           `default:"3" flag:"num-workers" validate:"min=1"`
	MaxBatchSize   int           `default:"100" flag:"max-batch-size" validate:"min=1"`
	RequestTimeout time.Duration `default:"10s" flag:"request-timeout" validate:"min=0"`
}

type Option func(*Configuration)

func WithServerMode(mode string) Option {
	return func(c *Configuration) {
		c.Server.ServerMode = mode
	}
}

func WithHTTPPort(port int) Option {
	return func(c *Configuration) {
		c.Server.HTTPPort = port
	}
}

func WithKeywords(fields ...string) Option {
	return func(c *Configuration) {
		c.Query.Keywords = fields
	}
}

func WithRanges(fields ...string) Option {
	return func(c *Configuration) {
		c.Query.Ranges = fields
	}
}

func WithNumWorkers(n int) Option {
	return func(c *Configuration) {
		c.Service.NumWorkers = n
	}
}

func WithMaxBatchSize(n int) Option {
	return func(c *Configuration) {
		c.Service.MaxBatchSize = n
	}
}

func NewConfigurationWithOptionsAndDefaults(opts ...Option) *Configuration {
	c := &Configuration{}
	defaults.MustSet(c)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// QueryOptions returns the configured defaults as library options.
func (c *Configuration) QueryOptions() searchquery.Options {
	return searchquery.NewOptions(
		searchquery.WithKeywords(c.Query.Keywords...),
		searchquery.WithRanges(c.Query.Ranges...),
		searchquery.WithOffsets(c.Query.Offsets),
		searchquery.WithAlwaysQuote(c.Query.AlwaysQuote),
	)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("flag"); name != "" {
			return name
		}
		return strings.ToLower(fld.Name)
	})
	return v
}

// Validate reports the first invalid setting by its flag name.
func (c *Configuration) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i > 0 {
		name = name[:i]
	}

	switch fe.Tag() {
	case "oneof":
		return fmt.Errorf("invalid %s %q: must be one of %s", name, fe.Value(), fe.Param())
	case "required":
		return fmt.Errorf("invalid %s: field names cannot be empty", name)
	case "excludesall":
		return fmt.Errorf("invalid %s %q: field names cannot contain ':' or ','", name, fe.Value())
	default:
		return fmt.Errorf("invalid %s: %v", name, fe.Value())
	}
}
