// Copyright (c) 2026 John Dewey

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to
// deal in the Software without restriction, including without limitation the
// rights to use, copy, modify, merge, publish, distribute, sublicense, and/or
// sell copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER
// DEALINGS IN THE SOFTWARE.

package config

import (
	"time"
)

// Config represents the root structure of the YAML configuration file.
// This struct is used to unmarshal configuration data from Viper.
type Config struct {
	API        API        `mapstructure:"api"`
	RequestLog RequestLog `mapstructure:"requestlog"`
	Stream     Stream     `mapstructure:"stream"`
	Identity   Identity   `mapstructure:"identity"`
	Telemetry  Telemetry  `mapstructure:"telemetry"`
	// Debug enable or disable debug option set from CLI.
	Debug bool `mapstructure:"debug"`
}

// Telemetry configuration settings.
type Telemetry struct {
	Tracing TracingConfig `mapstructure:"tracing,omitempty"`
	Metrics MetricsConfig `mapstructure:"metrics,omitempty"`
}

// MetricsConfig configuration settings for Prometheus metrics.
type MetricsConfig struct {
	// Path is the HTTP path for the Prometheus scrape endpoint.
	// Defaults to "/metrics" when empty.
	Path string `mapstructure:"path" validate:"omitempty,startswith=/"`
}

// TracingConfig configuration settings for distributed tracing.
type TracingConfig struct {
	// Enabled enables or disables tracing.
	Enabled bool `mapstructure:"enabled"`
	// Exporter selects the trace exporter: "stdout" or "otlp".
	Exporter string `mapstructure:"exporter" validate:"omitempty,oneof=none stdout otlp"`
	// OTLPEndpoint is the gRPC endpoint for the OTLP exporter (e.g., "localhost:4317").
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

// API configuration settings.
type API struct {
	Client
	Server
}

// Client configuration settings.
type Client struct {
	// URL the client will connect to
	URL string `mapstructure:"url" validate:"omitempty,url"`
	// Security contains security-related configuration for the client, such as access tokens.
	Security ClientSecurity `mapstructure:"security"`
}

// Server configuration settings.
type Server struct {
	// Port the server will bind to.
	Port int `mapstructure:"port" validate:"gte=0,lte=65535"`
	// Security contains security-related configuration for the server, such as CORS and tokens.
	Security ServerSecurity `mapstructure:"security"`
}

// ServerSecurity represents security-related settings for the server.
type ServerSecurity struct {
	// CORS Cross-Origin Resource Sharing (CORS) settings for the server.
	// The same list gates WebSocket origins.
	CORS CORS `mapstructure:"cors"`
	// SigningKey is the key used for signing or validating tokens.
	SigningKey string `mapstructure:"signing_key" validate:"required"`
	// TokenTTL is how long issued tokens stay valid. Defaults to 24h.
	TokenTTL time.Duration `mapstructure:"token_ttl" validate:"gte=0"`
}

// ClientSecurity represents security-related settings for the client.
type ClientSecurity struct {
	// BearerToken is the JWT sent with client requests. `client login`
	// prints one.
	BearerToken string `mapstructure:"bearer_token"`
}

// CORS represents the CORS (Cross-Origin Resource Sharing) settings.
type CORS struct {
	// List of origins allowed to access the server (e.g., "foo").
	AllowOrigins []string `mapstructure:"allow_origins,omitempty"`
}

// RequestLog configuration for the in-memory request history.
type RequestLog struct {
	// Capacity is the number of entries retained. Defaults to 300.
	Capacity int `mapstructure:"capacity" validate:"gte=0"`
}

// Stream configuration for WebSocket subscribers.
type Stream struct {
	// QueueSize is the per-subscriber outbound queue length.
	QueueSize int `mapstructure:"queue_size" validate:"gte=0"`
	// WriteTimeout bounds a single frame write.
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gte=0"`
	// PingInterval is how often keepalive pings are sent.
	PingInterval time.Duration `mapstructure:"ping_interval" validate:"gte=0"`
}

// Identity configuration settings.
type Identity struct {
	Bootstrap Bootstrap `mapstructure:"bootstrap,omitempty"`
}

// Bootstrap describes an ADMIN identity created at server start.
type Bootstrap struct {
	Email       string `mapstructure:"email"        validate:"omitempty,email"`
	DisplayName string `mapstructure:"display_name"`
	Password    string `mapstructure:"password"     validate:"required_with=Email"`
}
