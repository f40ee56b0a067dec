package main

import (
	"os"

	"github.com/buger/jsonparser"
)

// bindingTables is the --bindings JSON file's decoded shape: two flat
// semantic-name -> slot maps, matching ShaderOutput's VertexSemantics/
// FragmentSemantics fields.
type bindingTables struct {
	VertexSemantics   map[string]int
	FragmentSemantics map[string]int
}

// loadBindings reads path with jsonparser rather than encoding/json,
// skipping the reflection-based unmarshal for a file read on every
// invocation. Returns a zero-value bindingTables when path is empty.
func loadBindings(path string) (bindingTables, error) {
	var tables bindingTables
	if path == "" {
		return tables, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return tables, err
	}
	tables.VertexSemantics, err = semanticTable(data, "vertexSemantics")
	if err != nil {
		return tables, err
	}
	tables.FragmentSemantics, err = semanticTable(data, "fragmentSemantics")
	if err != nil {
		return tables, err
	}
	return tables, nil
}

// semanticTable reads data[key] as a flat object of semantic-name ->
// integer-slot pairs using jsonparser.ObjectEach's callback-based,
// no-intermediate-tree traversal.
func semanticTable(data []byte, key string) (map[string]int, error) {
	table := make(map[string]int)
	var cbErr error
	err := jsonparser.ObjectEach(data, func(k, v []byte, dataType jsonparser.ValueType, offset int) error {
		if dataType != jsonparser.Number {
			return nil
		}
		n, err := jsonparser.ParseInt(v)
		if err != nil {
			cbErr = err
			return err
		}
		table[string(k)] = int(n)
		return nil
	}, key)
	if err == jsonparser.KeyPathNotFoundError {
		return map[string]int{}, nil
	}
	if err != nil {
		return nil, err
	}
	if cbErr != nil {
		return nil, cbErr
	}
	return table, nil
}
