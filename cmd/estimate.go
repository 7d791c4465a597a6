package main

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var estimateFile string

var estimateCmd = &cobra.Command{
	Use:   "estimate [profile text]",
	Short: "Estimate a salary range for a candidate profile",
	Long:  "Reads a free-text candidate profile from the argument, --file, or stdin and prints the estimation result as JSON.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		profileText, err := readProfileText(args)
		if err != nil {
			return err
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Pipeline.Run(ctx, profileText)
		if err != nil {
			return eris.Wrap(err, "estimate")
		}

		zap.L().Info("estimation complete",
			zap.Float64("score", result.Confidence.Score),
			zap.String("level", result.Confidence.Level),
			zap.Int("data_points", result.Confidence.DataPoints),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// readProfileText resolves the profile text from the positional argument,
// the --file flag, or stdin, in that order.
func readProfileText(args []string) (string, error) {
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}

	if estimateFile != "" {
		data, err := os.ReadFile(estimateFile)
		if err != nil {
			return "", eris.Wrap(err, "read profile file")
		}
		return string(data), nil
	}

	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", eris.Wrap(err, "read profile from stdin")
		}
		if strings.TrimSpace(string(data)) != "" {
			return string(data), nil
		}
	}

	return "", eris.New("no profile text provided (pass as argument, --file, or stdin)")
}

func init() {
	estimateCmd.Flags().StringVar(&estimateFile, "file", "", "read profile text from a file")
	rootCmd.AddCommand(estimateCmd)
}
