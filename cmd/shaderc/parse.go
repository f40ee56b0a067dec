package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btouchard/shaderx"
)

// parseTarget maps a --target string onto shaderx.Target.
func parseTarget(s string) (shaderx.Target, error) {
	switch strings.ToLower(s) {
	case "vertex":
		return shaderx.TargetVertex, nil
	case "tess-control", "tesscontrol", "hull":
		return shaderx.TargetTessControl, nil
	case "tess-eval", "tesseval", "domain":
		return shaderx.TargetTessEval, nil
	case "geometry":
		return shaderx.TargetGeometry, nil
	case "fragment", "pixel":
		return shaderx.TargetFragment, nil
	case "compute":
		return shaderx.TargetCompute, nil
	default:
		return shaderx.TargetUndefined, fmt.Errorf("unknown --target %q", s)
	}
}

// parseVersion maps a --input-version/--output-version string like
// "glsl450", "essl310", "vksl450", or "hlsl5" onto shaderx.Version.
func parseVersion(s string) (shaderx.Version, error) {
	lower := strings.ToLower(s)
	var dialect shaderx.Dialect
	var numStr string
	switch {
	case strings.HasPrefix(lower, "glsl"):
		dialect, numStr = shaderx.DialectGLSL, lower[len("glsl"):]
	case strings.HasPrefix(lower, "essl"):
		dialect, numStr = shaderx.DialectESSL, lower[len("essl"):]
	case strings.HasPrefix(lower, "vksl"):
		dialect, numStr = shaderx.DialectVKSL, lower[len("vksl"):]
	case strings.HasPrefix(lower, "hlsl"):
		dialect, numStr = shaderx.DialectHLSL, lower[len("hlsl"):]
	default:
		return shaderx.Version{}, fmt.Errorf("unrecognized shader version %q (expected glslNNN, esslNNN, vkslNNN, or hlslN)", s)
	}
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return shaderx.Version{}, fmt.Errorf("unrecognized shader version %q: %w", s, err)
	}
	return shaderx.Version{Dialect: dialect, Number: num}, nil
}
