package config

import (
	"fmt"
	"io/ioutil"
	"strconv"
	"time"

	"github.com/ghodss/yaml"
)

// Options configures a client connection. It can be built with
// functional options or loaded wholesale from a YAML document via
// LoadOptions.
type Options struct {
	Host    string        `yaml:"host"`
	Port    int           `yaml:"port"`
	Timeout time.Duration `yaml:"timeout"`
	DB      int           `yaml:"db"`
}

// DefaultOptions is used whenever a caller doesn't override a field.
func DefaultOptions() *Options {
	return &Options{
		Host:    "localhost",
		Port:    6379,
		Timeout: 500 * time.Millisecond,
		DB:      0,
	}
}

type Option func(*Options)

func WithHost(host string) Option {
	return func(o *Options) { o.Host = host }
}

func WithPort(port int) Option {
	return func(o *Options) { o.Port = port }
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) { o.Timeout = timeout }
}

func WithDB(db int) Option {
	return func(o *Options) { o.DB = db }
}

// NewOptions builds an Options from DefaultOptions with the given
// overrides applied in order.
func NewOptions(opts ...Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Addr returns the "host:port" dial target.
func (o *Options) Addr() string {
	return o.Host + ":" + strconv.Itoa(o.Port)
}

// yamlOptions mirrors Options but with a plain int64 duration field,
// since a bare "timeoutMs: 500" in a YAML document is more natural to
// write than a Go duration string and matches how the reference
// server's own config file expresses millisecond fields.
type yamlOptions struct {
	Host    string `json:"host"`
	Port    int    `json:"port"`
	Timeout int64  `json:"timeoutMs"`
	DB      int    `json:"db"`
}

// LoadOptions loads client options from a YAML file at path, starting
// from DefaultOptions for any field the document omits. A malformed
// file or path is returned as a plain error: this is a library, and
// panicking on bad input owned by the embedding application is not
// this package's call to make.
func LoadOptions(path string) (*Options, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	doc := yamlOptions{
		Host:    "localhost",
		Port:    6379,
		Timeout: 500,
		DB:      0,
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &Options{
		Host:    doc.Host,
		Port:    doc.Port,
		Timeout: time.Duration(doc.Timeout) * time.Millisecond,
		DB:      doc.DB,
	}, nil
}
