package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"muxext/internal/generate"
	"muxext/internal/muxer"
)

type describeReport struct {
	muxer.Result
	Descriptor string `json:"descriptor,omitempty"`
}

func newDescribeCommand(ctx *commandContext) *cobra.Command {
	var (
		jsonOutput bool
		raw        bool
	)
	cmd := &cobra.Command{
		Use:   "describe <muxer>",
		Short: "Show how a single muxer is classified",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd)
			if err != nil {
				return err
			}
			client, _ := ctx.ffmpegClient(cfg, logger)

			result, text, err := generate.Describe(cmd.Context(), client, strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprint(out, text)
				return nil
			}
			if jsonOutput {
				return writeJSON(cmd, describeReport{Result: result, Descriptor: text})
			}

			colorize := shouldColorize(out)
			fmt.Fprintf(out, "Muxer:       %s\n", result.Name)
			fmt.Fprintf(out, "Kind:        %s\n", colorKind(result.Kind, colorize))
			fmt.Fprintf(out, "Extensions:  %s\n", orNone(strings.Join(result.Extensions, " ")))
			fmt.Fprintf(out, "Mime type:   %s\n", orNone(result.MimeType))
			fmt.Fprintf(out, "Codec lines: %s\n", orNone(strings.Join(result.Codecs, ", ")))
			if result.Reason != "" {
				fmt.Fprintf(out, "Reason:      %s\n", result.Reason)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON including the raw help text")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print FFmpeg's help text unchanged")
	return cmd
}

func orNone(value string) string {
	if strings.TrimSpace(value) == "" {
		return "(none)"
	}
	return value
}
