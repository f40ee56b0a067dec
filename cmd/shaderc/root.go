package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/btouchard/shaderx"
)

// rootCmd is shaderc's one command: a flat flag set plus positional
// input filenames, no subcommands.
var rootCmd = &cobra.Command{
	Use:   "shaderc [flags] shader-file...",
	Short: "Cross-compile HLSL shaders to GLSL/ESSL/VKSL.",
	Long: `shaderc translates an HLSL-dialect shader (Shader Model 3-5) into a
GLSL, ESSL, or VKSL target (or re-emits HLSL), one source file at a time.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

// Execute runs rootCmd. Called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.StringP("target", "t", "fragment", "shader pipeline stage: vertex, tess-control, tess-eval, geometry, fragment, compute")
	flags.String("entry", "main", "entry point function name")
	flags.String("secondary-entry", "", "secondary entry point function name (tessellation stages)")
	flags.String("input-version", "hlsl5", "input shader version (only hlsl5 is supported)")
	flags.String("output-version", "glsl450", "output shader version: glsl<NNN>, essl<NNN>, vksl<NNN>, or hlsl5")
	flags.StringP("output", "o", "", "output filename (default: <input-stem>.<entry>.<ext>)")
	flags.StringArrayP("define", "D", nil, "predefine NAME or NAME=VALUE")
	flags.StringArrayP("include-path", "I", nil, "add a directory to the #include search path")
	flags.String("config", "", "YAML config file (nameMangling prefixes, minOutputVersion)")
	flags.String("bindings", "", "JSON binding-table file (vertexSemantics/fragmentSemantics)")
	flags.String("diagnostics-format", "text", "diagnostic output format: text or lsp")
	flags.Bool("preprocess-only", false, "stop after preprocessing and print the expanded source")
	flags.Bool("validate-only", false, "analyze only; never write output")
	flags.Bool("optimize", false, "fold constants and eliminate dead branches before codegen")
	flags.Bool("preserve-comments", false, "passed to the generator; source comments are not emitted in the generated output")
	flags.Bool("allow-extensions", false, "allow #extension directives in GLSL-family output")
	flags.Bool("separate-shaders", false, "emit for ARB_separate_shader_objects-style pipelines")
	flags.Bool("auto-binding", false, "auto-assign texture/sampler/buffer binding slots")
	flags.Bool("explicit-binding", false, "emit layout(binding = N) for register()-decorated declarations")
	flags.Bool("row-major", false, "lay out matrices row-major instead of column-major")
	flags.Bool("show-ast", false, "dump the decorated AST instead of generated source")
	flags.BoolP("verbose", "v", false, "raise log level to debug")
}

// runCompile is rootCmd's Run function: it loops over every positional
// input filename, recomputing per-file state (outputFilename,
// entryPoint) for each one, and exits non-zero if any file fails.
func runCompile(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if ok, _ := flags.GetBool("verbose"); ok {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := loadConfig(mustString(flags, "config"))
	if err != nil {
		return fmt.Errorf("reading --config: %w", err)
	}
	bindings, err := loadBindings(mustString(flags, "bindings"))
	if err != nil {
		return fmt.Errorf("reading --bindings: %w", err)
	}

	target, err := parseTarget(mustString(flags, "target"))
	if err != nil {
		return err
	}
	inputVersion, err := parseVersion(mustString(flags, "input-version"))
	if err != nil {
		return err
	}
	outputVersion, err := parseVersion(mustString(flags, "output-version"))
	if err != nil {
		return err
	}
	if cfg.MinOutputVersion > 0 && outputVersion.Number < cfg.MinOutputVersion {
		return fmt.Errorf("--output-version %d is below --config's minOutputVersion %d", outputVersion.Number, cfg.MinOutputVersion)
	}

	defines, err := parseDefines(mustStringArray(flags, "define"))
	if err != nil {
		return err
	}
	searchPaths := mustStringArray(flags, "include-path")

	diagFormat := mustString(flags, "diagnostics-format")
	entryPoint := mustString(flags, "entry")
	secondaryEntry := mustString(flags, "secondary-entry")
	explicitOutput := mustString(flags, "output")

	opts := shaderx.Options{
		PreprocessOnly:    must(flags.GetBool("preprocess-only")),
		ValidateOnly:      must(flags.GetBool("validate-only")),
		Optimize:          must(flags.GetBool("optimize")),
		PreserveComments:  must(flags.GetBool("preserve-comments")),
		AllowExtensions:   must(flags.GetBool("allow-extensions")),
		SeparateShaders:   must(flags.GetBool("separate-shaders")),
		AutoBinding:       must(flags.GetBool("auto-binding")),
		ExplicitBinding:   must(flags.GetBool("explicit-binding")),
		RowMajorAlignment: must(flags.GetBool("row-major")),
		ShowAST:           must(flags.GetBool("show-ast")),
	}

	var failed bool
	for _, inputFile := range args {
		log.Debugf("compiling %s", inputFile)
		// Per-file state (outputFilename, entryPoint) is recomputed fresh
		// here each iteration, never carried over from the previous file.
		outputFile := explicitOutput
		if outputFile == "" {
			stem := strings.TrimSuffix(filepath.Base(inputFile), filepath.Ext(inputFile))
			outputFile = shaderx.DefaultOutputFilename(stem, entryPoint, target)
		}
		if !compileOne(inputFile, outputFile, compileParams{
			target:         target,
			entryPoint:     entryPoint,
			secondaryEntry: secondaryEntry,
			inputVersion:   inputVersion,
			outputVersion:  outputVersion,
			defines:        defines,
			searchPaths:    searchPaths,
			opts:           opts,
			mangling:       cfg.nameMangling(),
			vertexSem:      bindings.VertexSemantics,
			fragmentSem:    bindings.FragmentSemantics,
			diagFormat:     diagFormat,
		}) {
			failed = true
		}
	}
	if failed {
		return fmt.Errorf("one or more shaders failed to compile")
	}
	return nil
}

func mustString(flags interface{ GetString(string) (string, error) }, name string) string {
	return must(flags.GetString(name))
}

func mustStringArray(flags interface{ GetStringArray(string) ([]string, error) }, name string) []string {
	return must(flags.GetStringArray(name))
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// parseDefines turns "-D NAME" / "-D NAME=VALUE" arguments into the
// predefined-macro map ShaderInput.Defines expects.
func parseDefines(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	defines := make(map[string]string, len(raw))
	for _, d := range raw {
		if name, value, ok := strings.Cut(d, "="); ok {
			defines[name] = value
		} else {
			defines[d] = "1"
		}
	}
	return defines, nil
}
