package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oxhq/midc/internal/diag"
	"github.com/oxhq/midc/internal/pipeline"
	"github.com/oxhq/midc/internal/target"
)

func newBuildCmd(flags *globalFlags) *cobra.Command {
	var defines []string
	var dumpTransform bool

	cmd := &cobra.Command{
		Use:   "build <path-or-glob>...",
		Short: "Compile one or more source files through the semantic pipeline",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := resolveConfig(flags)

			t := target.Host()
			if cfg.TargetTriple != "" {
				var err error
				t, err = target.New(cfg.TargetTriple)
				if err != nil {
					return fmt.Errorf("resolving target triple %q: %w", cfg.TargetTriple, err)
				}
			}

			paths, err := expandPaths(args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no source files matched %v", args)
			}

			inputs, err := loadInputs(paths)
			if err != nil {
				return err
			}
			if len(defines) > 0 {
				defInput, err := definesInput(defines)
				if err != nil {
					return err
				}
				inputs = append(inputs, defInput)
			}

			store, err := openCache(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			log.Printf("midc build: %d file(s), target %s", len(inputs), t.Triple())
			start := time.Now()

			p := pipeline.New(t)
			p.DumpTransform = dumpTransform
			p.Cache = store
			result := p.Build(inputs)

			for _, w := range result.Warnings {
				fmt.Fprintln(os.Stderr, w.String())
			}
			if cfg.WarningsAsErrors && len(result.Warnings) > 0 && result.Status == pipeline.StatusSuccess {
				return fmt.Errorf("%d warning(s) treated as errors", len(result.Warnings))
			}

			if dumpTransform {
				printTransformDiffs(result.TransformDiffs)
			}

			if result.Status != pipeline.StatusSuccess {
				fmt.Fprintf(os.Stderr, "build failed at %s: %v\n", result.FailedAtStep, result.Error)
				return fmt.Errorf("build failed")
			}

			log.Printf("midc build: succeeded in %s", time.Since(start))
			return nil
		},
	}

	var flagSet *pflag.FlagSet = cmd.Flags()
	flagSet.StringArrayVar(&defines, "define", nil, "KEY=VALUE preprocessor define, repeatable; injected as a global i32 constant in a synthetic cli_defines namespace")
	flagSet.BoolVar(&dumpTransform, "dump-transform", false, "print a unified diff of every function's body before/after the C8 code transformer")

	return cmd
}

func expandPaths(args []string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for _, pattern := range args {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			// Not a glob, or a glob matching nothing: treat as a literal
			// path and let loadInputs report a clear "file not found".
			matches = []string{pattern}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				out = append(out, m)
			}
		}
	}
	return out, nil
}

func loadInputs(paths []string) ([]pipeline.Input, error) {
	inputs := make([]pipeline.Input, len(paths))
	for i, p := range paths {
		src, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		inputs[i] = pipeline.Input{Path: p, Src: src}
	}
	return inputs, nil
}

// definesInput turns "--define NAME=VALUE" flags into one synthetic source
// file declaring each as a global i32 constant in a fixed namespace, so
// downstream files can reference e.g. cli_defines.NAME through the
// ordinary name-resolution path rather than a bespoke preprocessor.
func definesInput(defines []string) (pipeline.Input, error) {
	var b strings.Builder
	b.WriteString("namespace cli_defines {\n")
	for _, d := range defines {
		name, value, ok := strings.Cut(d, "=")
		if !ok {
			return pipeline.Input{}, fmt.Errorf("--define %q: expected NAME=VALUE", d)
		}
		fmt.Fprintf(&b, "\tlet %s: i32 = %s;\n", strings.TrimSpace(name), strings.TrimSpace(value))
	}
	b.WriteString("}\n")
	return pipeline.Input{Path: "<defines>", Src: []byte(b.String())}, nil
}

func printTransformDiffs(diffs []pipeline.TransformDiff) {
	for _, d := range diffs {
		diffText, err := diffFunc(d)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dump-transform %s: %v\n", d.Name, err)
			continue
		}
		if diffText == "" {
			continue
		}
		fmt.Println(diffText)
	}
}

// diffFunc renders one function's before/after body dump as a unified diff.
func diffFunc(d pipeline.TransformDiff) (string, error) {
	return diag.Diff(d.Before, d.After, d.Name)
}
