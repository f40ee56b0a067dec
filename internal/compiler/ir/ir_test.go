package ir

import "testing"

func TestNameManglingValidate(t *testing.T) {
	tests := []struct {
		name    string
		m       NameMangling
		wantErr bool
	}{
		{"minimal valid", NameMangling{ReservedWord: "r_", Temporary: "t_"}, false},
		{"all five distinct", NameMangling{Input: "in_", Output: "out_", ReservedWord: "r_", Temporary: "t_", Namespace: "sx_"}, false},
		{"empty reservedWord", NameMangling{Temporary: "t_"}, true},
		{"empty temporary", NameMangling{ReservedWord: "r_"}, true},
		{"input collides with output", NameMangling{Input: "x_", Output: "x_", ReservedWord: "r_", Temporary: "t_"}, true},
		{"namespace collides with input", NameMangling{Input: "sx_", Namespace: "sx_", ReservedWord: "r_", Temporary: "t_"}, true},
		{"namespace collides with temporary", NameMangling{ReservedWord: "r_", Temporary: "t_", Namespace: "t_"}, true},
		{"empty input and output do not collide", NameMangling{ReservedWord: "r_", Temporary: "t_"}, false},
	}
	for _, tt := range tests {
		err := tt.m.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: Validate() = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}
