//go:build js && wasm

// Command playground is the browser entry point for shaderx: it
// exposes one JS-callable function, compileShader(source, target,
// version), and keeps the WASM module alive with select{}.
package main

import (
	"fmt"
	"strings"
	"syscall/js"

	"github.com/btouchard/shaderx"
)

func main() {
	js.Global().Set("compileShader", js.FuncOf(compileShaderWrapper))

	// Keep the program alive.
	select {}
}

// compileShaderWrapper wraps compileShader with panic recovery so a
// broken shader never tears down the WASM module.
func compileShaderWrapper(this js.Value, args []js.Value) interface{} {
	var result map[string]interface{}

	defer func() {
		if r := recover(); r != nil {
			result = map[string]interface{}{
				"code":        "",
				"diagnostics": []interface{}{fmt.Sprintf("panic: %v", r)},
			}
		}
	}()

	if len(args) != 3 {
		return js.ValueOf(map[string]interface{}{
			"code":        "",
			"diagnostics": []interface{}{"expected 3 arguments (source, target, version)"},
		})
	}

	source := args[0].String()
	targetName := args[1].String()
	versionName := args[2].String()

	code, diagnostics := compileShader(source, targetName, versionName)

	jsDiagnostics := make([]interface{}, len(diagnostics))
	for i, d := range diagnostics {
		jsDiagnostics[i] = d
	}
	result = map[string]interface{}{
		"code":        code,
		"diagnostics": jsDiagnostics,
	}
	return js.ValueOf(result)
}

// compileShader compiles one HLSL source string against targetName/
// versionName (the same "fragment"/"glsl450"-style spellings shaderc
// accepts) and returns the generated text plus any diagnostics
// collected along the way. The playground compiles one pasted-in
// source string; includes and search paths are deliberately out of
// scope here.
func compileShader(source, targetName, versionName string) (string, []string) {
	target, err := parseTarget(targetName)
	if err != nil {
		return "", []string{err.Error()}
	}
	version, err := parseVersion(versionName)
	if err != nil {
		return "", []string{err.Error()}
	}

	var col collectorLog
	var sink strings.Builder
	in := shaderx.ShaderInput{
		Filename:      "playground.hlsl",
		EntryPoint:    "main",
		ShaderTarget:  target,
		ShaderVersion: shaderx.HLSL5,
		SourceCode:    source,
	}
	out := &shaderx.ShaderOutput{
		ShaderVersion: version,
		Sink:          &sink,
		NameMangling:  shaderx.NameMangling{ReservedWord: "r_", Temporary: "t_"},
	}

	ok := shaderx.CompileShader(in, out, &col, nil)
	diagnostics := make([]string, len(col.reports))
	for i, r := range col.reports {
		diagnostics[i] = r.String()
	}
	if !ok {
		return "", diagnostics
	}
	return sink.String(), diagnostics
}

// collectorLog is a minimal shaderx.Log that only accumulates Reports,
// avoiding a dependency on the internal diag.Collector from the WASM
// build (this package only imports the public shaderx API).
type collectorLog struct {
	reports []shaderx.Report
}

func (c *collectorLog) Report(r shaderx.Report) { c.reports = append(c.reports, r) }
