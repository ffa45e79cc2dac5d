package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andreazorzetto/yh/highlight"
	"github.com/hokaccha/go-prettyjson"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"gopkg.in/yaml.v3"

	"github.com/looplj/anonhub/conf"
	"github.com/looplj/anonhub/internal/build"
	"github.com/looplj/anonhub/internal/dataset"
	"github.com/looplj/anonhub/internal/log"
	"github.com/looplj/anonhub/internal/pipeline"
	"github.com/looplj/anonhub/internal/tracing"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "anonymize":
			runAnonymize(os.Args[2:])
			return
		case "inspect":
			runInspect(os.Args[2:])
			return
		case "suggest-config":
			runSuggestConfig(os.Args[2:])
			return
		case "config":
			handleConfigCommand()
			return
		case "version", "--version", "-v":
			showVersion()
			return
		case "build-info":
			showBuildInfo()
			return
		case "help", "--help", "-h":
			showHelp()
			return
		}
	}

	showHelp()
	os.Exit(1)
}

func showBuildInfo() {
	fmt.Println(build.GetBuildInfo())
}

func showVersion() {
	fmt.Println(build.Version)
}

type logger struct{}

func (l *logger) LogEvent(event fxevent.Event) {
	log.Debug(context.Background(), "fx event", log.Any("event", event))
}

type anonymizeFlags struct {
	input        string
	output       string
	configPath   string
	irreversible bool
	sampleRows   int
}

func parseAnonymizeFlags(name string, args []string) anonymizeFlags {
	var flags anonymizeFlags

	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.StringVar(&flags.input, "input", "", "input CSV file (required)")
	fs.StringVar(&flags.output, "output", "", "output path")
	fs.StringVar(&flags.configPath, "config", "", "configuration file")
	fs.BoolVar(&flags.irreversible, "irreversible", false, "force irreversible techniques")
	fs.IntVar(&flags.sampleRows, "sample", 0, "transform a reproducible sample of at most N rows")
	_ = fs.Parse(args)

	if flags.input == "" {
		fmt.Fprintln(os.Stderr, "missing required flag: -input")
		fs.Usage()
		os.Exit(1)
	}

	return flags
}

// deriveOutputPath places the anonymized copy next to the input, with an
// _anonymized suffix before the extension.
func deriveOutputPath(input string) string {
	ext := filepath.Ext(input)

	return strings.TrimSuffix(input, ext) + "_anonymized" + ext
}

// runJob assembles the engine with fx and runs one batch job. The
// irreversible switch forces the operating mode regardless of the config
// file, matching the command-line contract.
func runJob(configPath string, irreversible bool, job func(ctx context.Context, p *pipeline.Pipeline) error) {
	var jobErr error

	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return &logger{}
		}),
		fx.Provide(func() (conf.Config, error) {
			config, err := conf.Load(configPath)
			if err != nil {
				return conf.Config{}, err
			}

			if irreversible {
				config.Anonymizer.Mode = "irreversible"
			}

			return config, config.Validate()
		}),
		fx.Provide(func(config conf.Config) (*pipeline.Pipeline, error) {
			pc, err := config.PipelineConfig()
			if err != nil {
				return nil, err
			}

			return pipeline.New(pc)
		}),
		fx.Invoke(func(config conf.Config) error {
			l, err := log.New(config.Log)
			if err != nil {
				return err
			}

			log.SetGlobalLogger(l)
			tracing.SetupLogger(l)

			return nil
		}),
		fx.Invoke(func(lc fx.Lifecycle, shutdowner fx.Shutdowner, p *pipeline.Pipeline) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go func() {
						ctx := tracing.WithTraceID(context.Background(), tracing.GenerateTraceID())

						jobErr = job(ctx, p)
						if jobErr != nil {
							log.Error(ctx, "run failed", log.Cause(jobErr))
						}

						_ = shutdowner.Shutdown()
					}()

					return nil
				},
				OnStop: func(context.Context) error {
					return log.GetGlobalLogger().Sync()
				},
			})
		}),
	)

	app.Run()

	if err := app.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "anonhub: %v\n", err)
		os.Exit(1)
	}

	if jobErr != nil {
		os.Exit(1)
	}
}

func runAnonymize(args []string) {
	flags := parseAnonymizeFlags("anonymize", args)

	output := flags.output
	if output == "" {
		output = deriveOutputPath(flags.input)
	}

	runJob(flags.configPath, flags.irreversible, func(ctx context.Context, p *pipeline.Pipeline) error {
		table, err := dataset.LoadCSV(flags.input)
		if err != nil {
			return err
		}

		result, err := p.Run(ctx, table, pipeline.RunOptions{
			SampleRows: flags.sampleRows,
			Persistent: true,
		})
		if err != nil {
			return err
		}

		fmt.Println(result.Report)

		if err := dataset.SaveCSV(output, result.Table); err != nil {
			return err
		}

		fmt.Printf("Anonymized dataset written to %s\n", output)
		log.Info(ctx, "anonymized dataset written",
			log.String("path", output),
			log.Int("rows", result.Table.NumRows()),
		)

		return nil
	})
}

func runInspect(args []string) {
	flags := parseAnonymizeFlags("inspect", args)

	runJob(flags.configPath, flags.irreversible, func(ctx context.Context, p *pipeline.Pipeline) error {
		table, err := dataset.LoadCSV(flags.input)
		if err != nil {
			return err
		}

		result, err := p.Run(ctx, table, pipeline.RunOptions{InspectOnly: true})
		if err != nil {
			return err
		}

		fmt.Println(result.Report)

		return nil
	})
}

// suggestedConfig is the document suggest-config writes: one override per
// detected column, everything else allowlisted, ready to review and edit.
type suggestedConfig struct {
	Overrides       []conf.OverrideRule  `yaml:"overrides"`
	Allowlist       []string             `yaml:"allowlist"`
	DefaultStrategy conf.DefaultStrategy `yaml:"default_strategy"`
}

func runSuggestConfig(args []string) {
	flags := parseAnonymizeFlags("suggest-config", args)

	output := flags.output
	if output == "" {
		output = "configs/generated_config.yaml"
	}

	runJob(flags.configPath, flags.irreversible, func(ctx context.Context, p *pipeline.Pipeline) error {
		table, err := dataset.LoadCSV(flags.input)
		if err != nil {
			return err
		}

		result, err := p.Run(ctx, table, pipeline.RunOptions{InspectOnly: true})
		if err != nil {
			return err
		}

		suggestion := suggestedConfig{
			DefaultStrategy: conf.DefaultStrategy{
				Reversible:   "pseudonym",
				Irreversible: "hash",
			},
		}

		detected := make(map[string]string, len(result.Detections))
		for _, detection := range result.Detections {
			detected[detection.Column] = detection.Detector
		}

		for _, selection := range result.Selections {
			suggestion.Overrides = append(suggestion.Overrides, conf.OverrideRule{
				Column:       selection.Column,
				DetectorHint: detected[selection.Column],
				Technique:    selection.Technique.String(),
				Params:       selection.Params,
			})
		}

		for _, name := range table.ColumnNames() {
			if _, ok := detected[name]; !ok {
				suggestion.Allowlist = append(suggestion.Allowlist, name)
			}
		}

		b, err := yaml.Marshal(suggestion)
		if err != nil {
			return err
		}

		if dir := filepath.Dir(output); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}

		if err := os.WriteFile(output, b, 0o644); err != nil {
			return err
		}

		fmt.Printf("Suggested config written to %s\n", output)

		return nil
	})
}

func handleConfigCommand() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: anonhub config <preview|validate>")
		os.Exit(1)
	}

	switch os.Args[2] {
	case "preview":
		configPreview()
	case "validate":
		configValidate()
	default:
		fmt.Println("Usage: anonhub config <preview|validate>")
		os.Exit(1)
	}
}

func configFlagPath(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "--config" || args[i] == "-config" {
			if i+1 < len(args) {
				return args[i+1]
			}
		}
	}

	return ""
}

func configPreview() {
	format := "yml"

	for i := 3; i < len(os.Args); i++ {
		if os.Args[i] == "--format" || os.Args[i] == "-f" {
			if i+1 < len(os.Args) {
				format = os.Args[i+1]
			}
		}
	}

	config, err := conf.Load(configFlagPath(os.Args[3:]))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	var output string

	switch format {
	case "json":
		b, err := prettyjson.Marshal(config)
		if err != nil {
			fmt.Printf("Failed to preview config: %v\n", err)
			os.Exit(1)
		}

		output = string(b)
	case "yml", "yaml":
		b, err := yaml.Marshal(config)
		if err != nil {
			fmt.Printf("Failed to preview config: %v\n", err)
			os.Exit(1)
		}

		output, err = highlight.Highlight(bytes.NewBuffer(b))
		if err != nil {
			fmt.Printf("Failed to preview config: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Printf("Unsupported format: %s\n", format)
		os.Exit(1)
	}

	fmt.Println(output)
}

func configValidate() {
	config, err := conf.Load(configFlagPath(os.Args[3:]))
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := config.Validate(); err != nil {
		fmt.Println("Configuration validation failed:")
		fmt.Printf("%v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration is valid!")
}

func showHelp() {
	fmt.Println("AnonHub tabular data de-identification")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  anonhub anonymize -input FILE [-output FILE] [-config FILE] [-irreversible] [-sample N]")
	fmt.Println("  anonhub inspect -input FILE [-config FILE] [-irreversible]")
	fmt.Println("  anonhub suggest-config -input FILE [-output FILE] [-irreversible]")
	fmt.Println("  anonhub config preview     Preview configuration")
	fmt.Println("  anonhub config validate    Validate configuration")
	fmt.Println("  anonhub version            Show version")
	fmt.Println("  anonhub build-info         Show build details")
	fmt.Println("  anonhub help               Show this help message")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -f, --format FORMAT       Output format for config preview (yml, json)")
	fmt.Println("")
	fmt.Println("Environment:")
	fmt.Println("  ANONHUB_SECRET            Salt for irreversible hashing")
}
