package commands

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pageforge/pageforge/internal/fetch"
	"github.com/pageforge/pageforge/internal/logger"
	"github.com/pageforge/pageforge/internal/output"
	"github.com/pageforge/pageforge/pkg/document"
	"github.com/pageforge/pageforge/pkg/elements"
	"github.com/pageforge/pageforge/pkg/rules"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract records from URLs with a rules file",
	Long: `Fetch pages and extract structured records.

The rules file names the item selector and, per field, a take selector
plus a filter pipeline. See the examples directory for complete files.

Examples:
  # Single page
  pageforge extract -u "https://example.com/products" -r products.yaml

  # Several pages into one JSONL stream
  pageforge extract -u "https://example.com/p1" -u "https://example.com/p2" \
      -r products.yaml --format jsonl -o records.jsonl`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	flags := extractCmd.Flags()
	flags.StringSliceP("url", "u", nil, "URL(s) to extract from (can be repeated)")
	flags.StringP("rules", "r", "", "path to rules file (required)")

	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "json", "output format: json, jsonl, yaml")
	flags.Bool("compact", false, "disable pretty-printing")

	flags.String("fetch-mode", "auto", "fetch mode: auto, static, dynamic")
	flags.Duration("timeout", 30*time.Second, "request timeout")
	flags.String("user-agent", "", "override the User-Agent header")
	flags.StringSlice("header", nil, "extra request header, key=value (can be repeated)")
	flags.String("wait-for", "", "CSS selector to wait for (dynamic fetch)")
	flags.Duration("wait", 0, "extra wait after page load (dynamic fetch)")

	_ = extractCmd.MarkFlagRequired("rules")
}

func runExtract(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	urls, _ := cmd.Flags().GetStringSlice("url")
	if len(urls) == 0 {
		return cmd.Help()
	}

	rulesPath, _ := cmd.Flags().GetString("rules")
	rs, err := rules.FromFile(rulesPath)
	if err != nil {
		logError("loading rules: %v", err)
		return err
	}
	logger.Debug("rules loaded", "name", rs.Name, "fields", len(rs.Fields))

	mode, _ := cmd.Flags().GetString("fetch-mode")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	userAgent, _ := cmd.Flags().GetString("user-agent")
	fetcher, err := fetch.New(fetch.Mode(mode), fetch.Config{
		UserAgent: userAgent,
		Timeout:   timeout,
	})
	if err != nil {
		logError("%v", err)
		return err
	}
	defer fetcher.Close()

	opts, err := fetchOptions(cmd)
	if err != nil {
		logError("%v", err)
		return err
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			logError("opening output: %v", err)
			return err
		}
		defer f.Close()
		out = f
	}

	format, _ := cmd.Flags().GetString("format")
	var wopts []output.Option
	if compact, _ := cmd.Flags().GetBool("compact"); compact {
		wopts = append(wopts, output.Compact())
	}
	writer, err := output.NewWriter(out, output.Format(format), wopts...)
	if err != nil {
		logError("%v", err)
		return err
	}

	total := 0
	for _, target := range urls {
		n, err := extractOne(ctx, fetcher, rs, writer, target, opts)
		total += n
		if err != nil {
			logError("%s: %v", target, err)
			return err
		}
		logInfo("%s: %d records", target, n)
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	logInfo("%d records total", total)
	return nil
}

func extractOne(ctx context.Context, fetcher fetch.Fetcher, rs *rules.Ruleset, writer output.Writer, target string, opts fetch.Options) (int, error) {
	result, err := fetcher.Fetch(ctx, target, opts)
	if err != nil {
		return 0, err
	}
	doc, err := document.Parse(result.Body, result.ContentType)
	if err != nil {
		return 0, err
	}
	base, err := url.Parse(result.URL)
	if err != nil {
		return 0, err
	}

	seq := rs.Element().Extract(doc, elements.WithBaseURL(base))
	n := 0
	for seq.Next() {
		if err := writer.Write(seq.Item()); err != nil {
			return n, err
		}
		n++
	}
	return n, seq.Err()
}

func fetchOptions(cmd *cobra.Command) (fetch.Options, error) {
	opts := fetch.Options{}
	headers, _ := cmd.Flags().GetStringSlice("header")
	for _, h := range headers {
		k, v, ok := strings.Cut(h, "=")
		if !ok {
			return opts, fmt.Errorf("malformed header %q, want key=value", h)
		}
		if opts.Headers == nil {
			opts.Headers = map[string]string{}
		}
		opts.Headers[k] = v
	}
	opts.WaitFor, _ = cmd.Flags().GetString("wait-for")
	opts.WaitExtra, _ = cmd.Flags().GetDuration("wait")
	return opts, nil
}
