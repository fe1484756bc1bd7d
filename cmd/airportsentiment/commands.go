package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"AirportSentiment/internal/app"
	"AirportSentiment/internal/config"
	"AirportSentiment/internal/domain"
	"AirportSentiment/internal/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "airportsentiment",
		Short:         "Score, weight and aggregate airport sentiment from news, forums and reviews",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to the YAML configuration (default $AIRPORT_SENTIMENT_CONFIG)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the configured log level")

	root.AddCommand(
		topicCommand(opts, "score", "Score the combined table and write one result table per topic", (*app.Application).Score),
		topicCommand(opts, "summarize", "Aggregate scored tables into airport summaries", (*app.Application).Summarize),
		topicCommand(opts, "correlate", "Correlate topic summaries with flight statistics", (*app.Application).Correlate),
		topicCommand(opts, "run", "Score, summarize and correlate in order", (*app.Application).Run),
		hubsCommand(opts),
		collectCommand(opts),
		&cobra.Command{
			Use:   "combine",
			Short: "Merge the raw source tables into the combined table",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), opts, func(a *app.Application) error {
					return a.Combine(cmd.Context())
				})
			},
		},
	)
	return root
}

type topicStage func(*app.Application, context.Context, []domain.Topic) error

func topicCommand(opts *rootOptions, use, short string, stage topicStage) *cobra.Command {
	var topic string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			selected, err := parseTopics(topic)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), opts, func(a *app.Application) error {
				return stage(a, cmd.Context(), selected)
			})
		},
	}
	cmd.Flags().StringVar(&topic, "topic", "all", "general, delay, noise or all")
	return cmd
}

func hubsCommand(opts *rootOptions) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "hubs",
		Short: "List the busiest airports of the flights table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(a *app.Application) error {
				ranks, err := a.Hubs(cmd.Context(), top)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for i, r := range ranks {
					fmt.Fprintf(out, "%2d  %-4s  %d\n", i+1, r.Code, r.Movements)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "number of hubs (default weighting.hubTopN)")
	return cmd
}

func collectCommand(opts *rootOptions) *cobra.Command {
	var sources []string
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Fetch raw text records for every registry airport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), opts, func(a *app.Application) error {
				return a.Collect(cmd.Context(), sources)
			})
		},
	}
	cmd.Flags().StringSliceVar(&sources, "source", nil, "sources to collect (default all configured)")
	return cmd
}

// withApp builds the application for one command and always flushes it.
func withApp(ctx context.Context, opts *rootOptions, fn func(*app.Application) error) error {
	cfg := config.Load(opts.configPath)
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	application, err := app.New(ctx, cfg, logging.New(cfg.Logging.Level))
	if err != nil {
		return fmt.Errorf("build application: %w", err)
	}

	runErr := fn(application)
	if runErr != nil {
		application.Logger().Error("command failed", "error", runErr)
	}
	if err := application.Close(); err != nil {
		application.Logger().Warn("close application", "error", err)
	}
	return runErr
}

func parseTopics(raw string) ([]domain.Topic, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return domain.Topics(), nil
	}

	var out []domain.Topic
	for _, part := range strings.Split(raw, ",") {
		topic, ok := domain.ParseTopic(part)
		if !ok {
			return nil, fmt.Errorf("unknown topic %q", part)
		}
		out = append(out, topic)
	}
	return out, nil
}
