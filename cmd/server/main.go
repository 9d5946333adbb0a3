package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/csv2geojson/internal/config"
	"github.com/woozymasta/csv2geojson/internal/logger"
	"github.com/woozymasta/csv2geojson/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string   `short:"c" long:"config"   env:"CONFIG_FILE"    description:"Path to YAML file with default conversion options"`
	Addr       string   `short:"a" long:"addr"     env:"LISTEN_ADDRESS" description:"Address to listen on"          default:"0.0.0.0"`
	Port       int      `short:"p" long:"port"     env:"LISTEN_PORT"    description:"Port to listen on"             default:"8080"`
	MaxBody    int64    `short:"m" long:"max-body" env:"MAX_BODY"       description:"Upload size limit in bytes"    default:"33554432"`
	Set        []string `short:"o" long:"option"                        description:"Default option as key=value, may be repeated"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}
	}

	cfg, err := cfg.MergePairs(opts.Set)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid option")
	}

	srvCtx := server.NewServerContext(cfg, opts.MaxBody)

	// Routes
	mux := http.NewServeMux()
	mux.HandleFunc("/convert", srvCtx.HandleConvert)
	mux.HandleFunc("/healthz", srvCtx.HandleHealth)

	handler := server.RequestLogger(mux)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Str("crs", string(cfg.CRS)).
		Msg("Web server started")

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
