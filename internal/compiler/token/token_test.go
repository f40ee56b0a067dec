package token

import "testing"

func TestHLSLLookup(t *testing.T) {
	tests := []struct {
		input    string
		expected Kind
	}{
		// Keywords
		{"if", IF},
		{"else", ELSE},
		{"for", FOR},
		{"return", RETURN},
		{"struct", STRUCT},
		{"cbuffer", CBUFFER},
		{"static", STATIC},
		{"centroid", CENTROID},
		{"register", REGISTER},
		// Type names
		{"float", TYPE_NAME},
		{"float4", TYPE_NAME},
		{"float4x4", TYPE_NAME},
		{"int3", TYPE_NAME},
		{"Texture2D", TYPE_NAME},
		{"SamplerState", TYPE_NAME},
		// Non-keywords
		{"variable", IDENT},
		{"Foo", IDENT},
		{"userId", IDENT},
		{"", IDENT},
		{"unknown", IDENT},
	}

	for _, tt := range tests {
		if got := HLSL.Lookup(tt.input); got != tt.expected {
			t.Errorf("HLSL.Lookup(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestVecAndMatNames(t *testing.T) {
	for _, name := range []string{"float2", "float3x3", "int4", "bool2x4", "half3"} {
		if !HLSL.TypeNames[name] {
			t.Errorf("expected %q to be a recognized type name", name)
		}
	}
}
