// Command shaderc is the CLI glue around package shaderx: positional
// input filenames, -/-- flag routing, default output filenames, exit
// codes, and per-file state reset. Everything interesting lives in
// the compiler packages; this is a thin main() around them.
package main

func main() {
	Execute()
}
