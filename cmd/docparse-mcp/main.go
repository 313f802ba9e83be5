// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	docparse "github.com/nicholasgasior/docparse-go"
	"github.com/nicholasgasior/docparse-go/internal/tools"
)

var version = "dev"

type config struct {
	BaseURL      string
	PollInterval time.Duration
	Timeout      time.Duration
	CacheMaxDocs int
	CacheMaxAge  time.Duration
	LogLevel     string
	Transport    string // "stdio" or "http"
	HTTPAddr     string
}

func loadConfig() config {
	return config{
		BaseURL:      os.Getenv("DOCPARSE_BASE_URL"),
		PollInterval: getEnvDuration("DOCPARSE_POLL_INTERVAL", 2*time.Second),
		Timeout:      getEnvDuration("DOCPARSE_TIMEOUT", time.Hour),
		CacheMaxDocs: getEnvInt("DOCPARSE_CACHE_MAX_DOCS", 0),
		CacheMaxAge:  getEnvDuration("DOCPARSE_CACHE_MAX_AGE", 0),
		LogLevel:     getEnv("DOCPARSE_LOG_LEVEL", "info"),
		Transport:    getEnv("DOCPARSE_TRANSPORT", "stdio"),
		HTTPAddr:     getEnv("DOCPARSE_HTTP_ADDR", ":8080"),
	}
}

func main() {
	// A missing .env file is fine; real env vars still apply.
	_ = godotenv.Load()

	cfg := loadConfig()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	if cfg.BaseURL == "" {
		log.Fatal("DOCPARSE_BASE_URL is required (conversion backend base URL)")
	}

	client := docparse.NewClient(docparse.ClientConfig{
		BaseURL:      cfg.BaseURL,
		PollInterval: cfg.PollInterval,
		Timeout:      cfg.Timeout,
		Logger:       log,
	})

	cache := docparse.NewDocumentCache(docparse.CacheConfig{
		MaxDocuments: cfg.CacheMaxDocs,
		MaxAge:       cfg.CacheMaxAge,
	})

	pipeline := docparse.NewPipeline(client,
		docparse.WithCache(cache),
		docparse.WithLogger(log),
	)

	s := server.NewMCPServer(
		"docparse",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)
	tools.Register(s, pipeline, log)

	log.WithFields(logrus.Fields{
		"backend":   cfg.BaseURL,
		"transport": cfg.Transport,
	}).Info("starting docparse MCP server")

	switch cfg.Transport {
	case "http":
		httpServer := server.NewStreamableHTTPServer(s)
		if err := httpServer.Start(cfg.HTTPAddr); err != nil {
			log.WithError(err).Fatal("HTTP server stopped")
		}
	default:
		if err := server.ServeStdio(s); err != nil {
			log.WithError(err).Fatal("stdio server stopped")
		}
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
