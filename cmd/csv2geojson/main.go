package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/woozymasta/csv2geojson/internal/config"
	"github.com/woozymasta/csv2geojson/internal/logger"
	"github.com/woozymasta/csv2geojson/internal/processor"
	"github.com/woozymasta/csv2geojson/internal/render"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile string `short:"c" long:"config"  env:"CONFIG_FILE" description:"YAML file with options, command line pairs override it"`
	Output     string `short:"o" long:"out"     description:"Output file path or URL. Writes to stdout if empty"`
	Format     string `short:"f" long:"format"  description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Indent     bool   `short:"i" long:"indent"  description:"Indent JSON output"`
	IDs        bool   `long:"ids"               description:"Add a stable id to every feature"`
	Preview    string `long:"preview"           description:"Also write a WebP preview image to this path"`
	PreviewPx  int    `long:"preview-size"      description:"Preview image width and height in pixels" default:"512"`
	Viewer     string `long:"viewer"            description:"Also write a standalone HTML map to this path"`

	Args struct {
		File    string   `positional-arg-name:"file" description:"CSV or XLSX file, local path or URL"`
		Options []string `positional-arg-name:"key=value" description:"crs, field, field_x, field_y"`
	} `positional-args:"yes"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] file [key=value ...]"
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Args.File == "" {
		fmt.Fprintln(os.Stderr, "Error: filename missing")
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	opts.Logger.Setup()

	if err := run(context.Background(), &opts); err != nil {
		log.Error().Err(err).Str("file", opts.Args.File).Msg("Conversion failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, opts *Options) error {
	cfg := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if cfg, err = config.Load(opts.ConfigFile); err != nil {
			return err
		}
	}

	cfg, err := cfg.MergePairs(opts.Args.Options)
	if err != nil {
		return err
	}

	var pipeOpts []processor.Option
	if opts.IDs {
		pipeOpts = append(pipeOpts, processor.WithIDs())
	}

	res, err := processor.NewPipeline(cfg, pipeOpts...).ConvertFile(ctx, opts.Args.File)
	if err != nil {
		return err
	}

	// render everything before writing anything
	var doc bytes.Buffer
	if err := render.Encode(&doc, res.Collection, render.Format(opts.Format), opts.Indent); err != nil {
		return err
	}

	var img bytes.Buffer
	if opts.Preview != "" {
		previewOpts := render.DefaultPreviewOptions()
		previewOpts.Width, previewOpts.Height = opts.PreviewPx, opts.PreviewPx
		if err := render.Preview(&img, res.Collection, previewOpts); err != nil {
			return err
		}
	}

	var page bytes.Buffer
	if opts.Viewer != "" {
		title := strings.TrimSuffix(filepath.Base(opts.Args.File), filepath.Ext(opts.Args.File))
		if err := render.Viewer(&page, title, res.Collection); err != nil {
			return err
		}
	}

	if opts.Preview != "" {
		if err := render.Save(ctx, opts.Preview, img.Bytes()); err != nil {
			return err
		}
	}
	if opts.Viewer != "" {
		if err := render.Save(ctx, opts.Viewer, page.Bytes()); err != nil {
			return err
		}
	}

	if opts.Output != "" {
		if err := render.Save(ctx, opts.Output, doc.Bytes()); err != nil {
			return err
		}
	} else if _, err := os.Stdout.Write(doc.Bytes()); err != nil {
		return err
	}

	event := log.Info()
	if len(res.Skipped) > 0 {
		event = log.Warn()
	}
	event.
		Str("file", opts.Args.File).
		Str("crs", string(cfg.CRS)).
		Stringer("strategy", res.Plan.Strategy).
		Int("rows", res.Rows).
		Int("features", len(res.Collection.Features)).
		Int("skipped", len(res.Skipped)).
		Msg("Converted")

	return nil
}
