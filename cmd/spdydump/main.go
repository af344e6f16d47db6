// Command spdydump decodes a raw SPDY/3.1 byte stream and logs every frame
// event the decoder emits, one structured log line per event.
package main

import (
	"io"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/amikey/spdyframe/common"
	"github.com/amikey/spdyframe/decoder"
)

func main() {
	app := cli.App{
		Name:            "spdydump",
		HelpName:        "spdydump",
		Usage:           "Decode a raw SPDY/3.1 byte stream and log every frame event",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Path to a file of raw SPDY/3.1 bytes, or - for stdin",
				Value:   "-",
			},
			&cli.UintFlag{
				Name:    "version",
				Aliases: []string{"v"},
				Usage:   "Expected SPDY protocol version",
				Value:   decoder.SPDYVersion,
			},
			&cli.IntFlag{
				Name:    "chunk-size",
				Aliases: []string{"c"},
				Usage:   "Maximum number of bytes read and handed to the decoder per call",
				Value:   4096,
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Use the human-readable development log encoder instead of JSON",
			},
		},
		Action: func(ctx *cli.Context) error {
			log, err := newCLILogger(ctx.Bool("debug"))
			if err != nil {
				return err
			}
			defer log.Sync()

			input, closeInput, err := openInput(ctx.String("input"))
			if err != nil {
				return err
			}
			defer closeInput()

			return run(log, input, uint16(ctx.Uint("version")), ctx.Int("chunk-size"))
		},
		Authors:   []*cli.Author{{Name: "spdyframe authors"}},
		Copyright: "Copyright (C) The spdyframe authors",
	}

	if err := app.Run(os.Args); err != nil {
		zap.L().Fatal("spdydump failed", zap.Error(err))
	}
}

// run drives a Decoder over input in chunkSize-byte reads, logging every
// event through a logSink. It is factored out of Action so it can be
// exercised directly by tests without going through the CLI parser.
func run(log *zap.Logger, input io.Reader, version uint16, chunkSize int) error {
	if chunkSize <= 0 {
		chunkSize = 4096
	}

	sink := newLogSink(log)
	dec := decoder.New(version, sink)

	buf := make([]byte, chunkSize)
	for {
		n, err := input.Read(buf)
		if n > 0 {
			dec.Decode(buf[:n])
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, func() {}, err
	}
	return f, func() { f.Close() }, nil
}

// newCLILogger mirrors dispatch/config.InitializeLogging's debug/production
// split: human-readable colorized output in debug mode, JSON otherwise. The
// resulting logger also becomes the package-level common logger, so any
// future caller reaching for common.GetLogger sees the CLI's configuration.
func newCLILogger(debug bool) (*zap.Logger, error) {
	if !debug {
		log, err := zap.NewProductionConfig().Build()
		if err != nil {
			return nil, err
		}
		common.SetLogger(log)
		return log, nil
	}
	log, err := common.NewHumanLogger()
	if err != nil {
		return nil, err
	}
	common.SetLogger(log)
	return log, nil
}
