package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel/metric/noop"

	"github.com/hazyhaar/phonocoach/pkg/api"
	"github.com/hazyhaar/phonocoach/pkg/kit"
)

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ExitOnError)
}

func cmdIPA(args []string) {
	fs := newFlagSet("ipa")
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	locale := fs.String("locale", "en", "locale tag (en, en-GB, it...)")
	fs.Parse(args)

	text := strings.Join(fs.Args(), " ")
	if text == "" {
		fmt.Fprintln(os.Stderr, "Usage: phonocoach ipa [-locale en] <text>")
		os.Exit(1)
	}
	runCLI(*cfgPath, func(a *app) kit.Endpoint { return a.eps.IPA }, &api.IPARequest{Text: text, Locale: *locale})
}

func cmdDiff(args []string) {
	fs := newFlagSet("diff")
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	target := fs.String("target", "", "phrase the learner was asked to say")
	transcript := fs.String("transcript", "", "what the recognizer heard")
	fs.Parse(args)

	if *target == "" {
		fmt.Fprintln(os.Stderr, `Usage: phonocoach diff -target "Nice to meet you" -transcript "nice to eat you"`)
		os.Exit(1)
	}
	runCLI(*cfgPath, func(a *app) kit.Endpoint { return a.eps.Evaluate }, &api.DiffRequest{Target: *target, Transcript: *transcript})
}

// runCLI calls one endpoint with the CLI transport and prints its JSON
// response on stdout.
func runCLI(cfgPath string, pick func(*app) kit.Endpoint, req any) {
	cfg, logger := setup(cfgPath)
	a, err := newApp(cfg, logger, noop.NewMeterProvider())
	if err != nil {
		fatal(logger, "startup", err)
	}

	ctx := kit.WithTransport(context.Background(), kit.TransportCLI)
	resp, err := pick(a)(ctx, req)
	if err != nil {
		fatal(logger, "command failed", err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(resp); err != nil {
		fatal(logger, "encode", err)
	}
}
