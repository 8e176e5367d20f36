// Command sitegen writes sitemap.xml and robots.txt for a static deploy,
// either into a directory or an S3 bucket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/wolfman30/realestate-site/cmd/mainconfig"
	appconfig "github.com/wolfman30/realestate-site/internal/config"
	"github.com/wolfman30/realestate-site/internal/publish"
	"github.com/wolfman30/realestate-site/internal/site"
	"github.com/wolfman30/realestate-site/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.NewWithOptions(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})
	if err := run(context.Background(), os.Args[1:], cfg, logger, os.Stdout); err != nil {
		logger.Error("sitegen failed", "error", err)
		os.Exit(1)
	}
}

type options struct {
	base     string
	out      string
	bucket   string
	prefix   string
	artifact string
}

func parseFlags(args []string, cfg *appconfig.Config) (options, error) {
	var opts options
	fs := flag.NewFlagSet("sitegen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.base, "base", cfg.PublicBaseURL, "public origin, e.g. https://example.com")
	fs.StringVar(&opts.out, "out", "public", "output directory")
	fs.StringVar(&opts.bucket, "s3-bucket", "", "upload to this bucket instead of -out")
	fs.StringVar(&opts.prefix, "s3-prefix", "", "key prefix inside the bucket")
	fs.StringVar(&opts.artifact, "print", "", "print sitemap.xml or robots.txt to stdout and exit")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.base = strings.TrimRight(strings.TrimSpace(opts.base), "/")
	if opts.base == "" {
		return opts, errors.New("-base or PUBLIC_BASE_URL is required")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, cfg *appconfig.Config, logger *logging.Logger, stdout io.Writer) error {
	opts, err := parseFlags(args, cfg)
	if err != nil {
		return err
	}

	artifacts := publish.Artifacts(opts.base, site.RoutePaths())

	if opts.artifact != "" {
		for _, a := range artifacts {
			if a.Name == opts.artifact {
				_, err := stdout.Write(a.Body)
				return err
			}
		}
		return fmt.Errorf("unknown artifact %q", opts.artifact)
	}

	publisher, dest, err := buildPublisher(ctx, opts, cfg, logger)
	if err != nil {
		return err
	}
	if err := publish.PublishAll(ctx, publisher, artifacts); err != nil {
		return err
	}
	logger.Info("site files published", "destination", dest, "base", opts.base, "files", len(artifacts))
	return nil
}

func buildPublisher(ctx context.Context, opts options, cfg *appconfig.Config, logger *logging.Logger) (publish.Publisher, string, error) {
	if opts.bucket == "" {
		p, err := publish.NewDirPublisher(opts.out)
		if err != nil {
			return nil, "", err
		}
		return p, opts.out, nil
	}

	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, "", fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.AWSEndpointOverride != "" {
			o.UsePathStyle = true
		}
	})
	return publish.NewS3Publisher(client, opts.bucket, opts.prefix, logger), "s3://" + opts.bucket + "/" + strings.Trim(opts.prefix, "/"), nil
}
