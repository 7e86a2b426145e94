package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Astemirdum/bookshelf/pkg/auth0"
	"github.com/Astemirdum/bookshelf/pkg/kafka"
	"github.com/Astemirdum/bookshelf/pkg/logger"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"GATEWAY_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"GATEWAY_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"GATEWAY_HTTP_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"GATEWAY_HTTP_WRITE_TIMEOUT"`
	// RPS caps /api/v1 requests per client IP.
	RPS float64 `yaml:"rps" envconfig:"GATEWAY_HTTP_RPS" default:"100"`
}

// CatalogAPI is the remote REST API that owns books, reading lists and reviews.
type CatalogAPI struct {
	URL     string        `yaml:"url" envconfig:"CATALOG_API_URL" default:"http://localhost:3000"`
	Timeout time.Duration `yaml:"timeout" envconfig:"CATALOG_API_TIMEOUT" default:"30s"`
}

type IdentityAPI struct {
	URL     string        `yaml:"url" envconfig:"IDENTITY_API_URL" default:"http://localhost:8090"`
	Timeout time.Duration `yaml:"timeout" envconfig:"IDENTITY_API_TIMEOUT" default:"15s"`
}

type Session struct {
	TTL time.Duration `yaml:"ttl" envconfig:"SESSION_TTL" default:"30m"`
}

type Catalog struct {
	PageSize int `yaml:"pageSize" envconfig:"CATALOG_PAGE_SIZE" default:"12"`
}

type Config struct {
	Server      HTTPServer `yaml:"server"`
	CatalogAPI  CatalogAPI
	IdentityAPI IdentityAPI
	Session     Session
	Catalog     Catalog
	Kafka       kafka.Config
	Auth0       auth0.Config
	Log         logger.Log `yaml:"log"`
}

var (
	once sync.Once
	cfg  Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
