package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adverant/docintel/internal/config"
	"github.com/adverant/docintel/internal/kerrors"
	"github.com/adverant/docintel/internal/model"
	"github.com/adverant/docintel/internal/orchestrator"
)

var (
	mimeHint         string
	configPath       string
	configJSON       string
	configJSONBase64 string
	outputFormat     string
	useCacheFlag     bool
	noCacheFlag      bool
	forceOCRFlag     bool
	maxConcurrency   int
)

// extractCmd is the sole verb: extract content from one or more paths.
// A single path runs the single-document pipeline (Engine.ExtractFile); more than one
// path runs the bounded-concurrency batch pipeline, preserving input
// order in the output.
var extractCmd = &cobra.Command{
	Use:   "extract PATH [PATH...]",
	Short: "Extract content from one or more documents",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&mimeHint, "mime", "", "MIME type hint (skips content sniffing)")
	extractCmd.Flags().StringVar(&configPath, "config", "", "path to a kreuzberg config file (.toml/.yaml/.json)")
	extractCmd.Flags().StringVar(&configJSON, "config-json", "", "inline JSON ExtractionConfig, overrides the file layer wholesale")
	extractCmd.Flags().StringVar(&configJSONBase64, "config-json-base64", "", "base64-encoded JSON ExtractionConfig, same semantics as --config-json")
	extractCmd.Flags().StringVar(&outputFormat, "output", "text", "output format: text (content only) or json (full result)")
	extractCmd.Flags().BoolVar(&useCacheFlag, "cache", false, "force-enable the extraction-result cache")
	extractCmd.Flags().BoolVar(&noCacheFlag, "no-cache", false, "force-disable the extraction-result cache")
	extractCmd.Flags().BoolVar(&forceOCRFlag, "force-ocr", false, "force OCR even on documents with extractable text")
	extractCmd.Flags().IntVar(&maxConcurrency, "max-concurrency", 0, "batch concurrency bound (0 = available parallelism)")
}

func runExtract(cmd *cobra.Command, args []string) error {
	if outputFormat != "text" && outputFormat != "json" {
		printError("invalid --output %q: must be text or json", outputFormat)
		os.Exit(2)
	}

	cfg, err := resolveRequestConfig(cmd)
	if err != nil {
		printError("%v", err)
		os.Exit(2)
	}

	svcCfg, err := config.LoadServiceConfig()
	if err != nil {
		printError("%v", err)
		os.Exit(2)
	}

	ctx := context.Background()
	engine, err := orchestrator.New(ctx, svcCfg)
	if err != nil {
		printError("%v", err)
		os.Exit(1)
	}
	defer engine.Shutdown(ctx)

	if len(args) == 1 {
		result, err := engine.ExtractFile(ctx, args[0], mimeHint, cfg)
		if err != nil {
			printError("%v", err)
			os.Exit(1)
		}
		return writeResult(result)
	}

	results, errs := engine.BatchExtractFile(ctx, args, mimeHint, cfg)
	failed := false
	for i, err := range errs {
		if err != nil {
			failed = true
			printWarning("%s: %v", args[i], err)
		}
	}
	if err := writeBatchResults(results); err != nil {
		return err
	}
	if failed {
		os.Exit(1)
	}
	return nil
}

// resolveRequestConfig implements the C10 three-layer chain: defaults,
// then a discovered or explicit config file, then the command-line
// overrides, each layer wholly replacing the one before it.
func resolveRequestConfig(cmd *cobra.Command) (model.ExtractionConfig, error) {
	var fileCfg model.ExtractionConfig
	var err error
	if configPath != "" {
		fileCfg, err = config.LoadFile(configPath)
	} else {
		cwd, cwdErr := os.Getwd()
		if cwdErr != nil {
			return model.ExtractionConfig{}, kerrors.NewIoError("failed to resolve working directory", cwdErr)
		}
		fileCfg, err = config.LoadWithDiscovery(cwd)
	}
	if err != nil {
		return model.ExtractionConfig{}, err
	}

	request := fileCfg
	switch {
	case configJSONBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(configJSONBase64)
		if err != nil {
			return model.ExtractionConfig{}, kerrors.NewValidationError("invalid --config-json-base64", err)
		}
		if err := json.Unmarshal(decoded, &request); err != nil {
			return model.ExtractionConfig{}, kerrors.NewValidationError("invalid --config-json-base64 payload", err)
		}
	case configJSON != "":
		if err := json.Unmarshal([]byte(configJSON), &request); err != nil {
			return model.ExtractionConfig{}, kerrors.NewValidationError("invalid --config-json", err)
		}
	}

	if cmd.Flags().Changed("cache") {
		request.UseCache = true
	}
	if cmd.Flags().Changed("no-cache") {
		request.UseCache = false
	}
	if cmd.Flags().Changed("force-ocr") {
		request.ForceOCR = forceOCRFlag
	}
	if cmd.Flags().Changed("max-concurrency") {
		bound := maxConcurrency
		request.MaxConcurrentExtractions = &bound
	}

	return model.Merge(fileCfg, request), nil
}

func writeResult(result *model.ExtractionResult) error {
	if outputFormat == "text" {
		fmt.Println(result.Content)
		return nil
	}
	return writeJSON(result)
}

func writeBatchResults(results []*model.ExtractionResult) error {
	if outputFormat == "text" {
		for _, r := range results {
			if r == nil {
				continue
			}
			fmt.Println(r.Content)
		}
		return nil
	}
	return writeJSON(results)
}

func writeJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return kerrors.NewSerializationError("json", err)
	}
	return nil
}
