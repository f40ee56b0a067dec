package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/btouchard/shaderx"
)

// fileConfig is the --config YAML document: the name-mangling prefixes
// and dialect version floor a team wants every invocation to default
// to, rather than repeating four flags on every CLI call. Read once
// before building a ShaderOutput.
type fileConfig struct {
	NameMangling struct {
		Input        string `yaml:"input"`
		Output       string `yaml:"output"`
		ReservedWord string `yaml:"reservedWord"`
		Temporary    string `yaml:"temporary"`
		Namespace    string `yaml:"namespace"`
	} `yaml:"nameMangling"`
	MinOutputVersion int `yaml:"minOutputVersion"`
}

// loadConfig reads and parses path, returning the zero fileConfig when
// path is empty (no --config given).
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// nameMangling builds the shaderx.NameMangling this config implies,
// falling back to the hard-coded defaults every scenario test in the
// root package also uses when the file leaves a prefix blank.
func (c fileConfig) nameMangling() shaderx.NameMangling {
	m := shaderx.NameMangling{
		Input:        c.NameMangling.Input,
		Output:       c.NameMangling.Output,
		ReservedWord: c.NameMangling.ReservedWord,
		Temporary:    c.NameMangling.Temporary,
		Namespace:    c.NameMangling.Namespace,
	}
	if m.ReservedWord == "" {
		m.ReservedWord = "r_"
	}
	if m.Temporary == "" {
		m.Temporary = "t_"
	}
	return m
}
