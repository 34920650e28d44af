package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-parambridge"
	"github.com/goliatone/go-parambridge/internal/config"
	"github.com/goliatone/go-parambridge/pkg/params"
	"github.com/goliatone/go-parambridge/pkg/render/template/gotemplate"
)

func main() {
	logger := logrus.New()
	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		logger.WithError(err).Fatal("render failed")
	}
}

func run(args []string, stdout io.Writer, logger *logrus.Logger) error {
	cfg, err := config.LoadEnv()
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("parambridge-render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Template, "template", cfg.Template, "template file to render")
	fs.StringVar(&cfg.Data, "data", cfg.Data, "YAML data file exposed to the template")
	fs.StringVar(&cfg.Converters, "converters", cfg.Converters, "YAML converter configuration")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "output file (stdout if empty)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	logger.SetLevel(level)

	if strings.TrimSpace(cfg.Template) == "" {
		return errors.New("a -template file is required")
	}

	converters, err := config.LoadConverters(cfg.Converters)
	if err != nil {
		return err
	}
	registry := params.NewRegistry(append(converters.RegistryOptions(), params.WithLogger(logger))...)
	if err := converters.Apply(registry); err != nil {
		return err
	}

	data, err := config.LoadData(cfg.Data)
	if err != nil {
		return err
	}

	dir, file := filepath.Split(cfg.Template)
	if dir == "" {
		dir = "."
	}
	ext := filepath.Ext(file)
	if ext == "" {
		return fmt.Errorf("template %q needs a file extension", cfg.Template)
	}
	engine, _, err := parambridge.NewEngine(registry,
		gotemplate.WithBaseDir(dir),
		gotemplate.WithExtension(ext),
		gotemplate.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	rendered, err := engine.RenderTemplate(strings.TrimSuffix(file, ext), data)
	if err != nil {
		return err
	}

	if cfg.Output == "" {
		_, err = io.WriteString(stdout, rendered)
		return err
	}
	if err := os.WriteFile(cfg.Output, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.WithField("output", cfg.Output).Info("template rendered")
	return nil
}
