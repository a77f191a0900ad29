package domain

import (
	"encoding/json"
	"testing"
)

func TestID_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(ID(9007199254740993))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `"9007199254740993"` {
		t.Fatalf("expected quoted decimal string, got %s", data)
	}
}

func TestID_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{name: "string", input: `"42"`, want: 42},
		{name: "number", input: `42`, want: 42},
		{name: "large string", input: `"9007199254740993"`, want: 9007199254740993},
		{name: "null", input: `null`, want: 0},
		{name: "empty string", input: `""`, want: 0},
		{name: "garbage", input: `"abc"`, wantErr: true},
		{name: "float", input: `1.5`, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var id ID
			err := json.Unmarshal([]byte(tc.input), &id)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for input %s", tc.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if id != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, id)
			}
		})
	}
}

func TestID_RoundTripInStruct(t *testing.T) {
	type payload struct {
		OrderID ID `json:"ordenId"`
	}

	data, err := json.Marshal(payload{OrderID: 7})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(data) != `{"ordenId":"7"}` {
		t.Fatalf("unexpected encoding: %s", data)
	}

	var decoded payload
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.OrderID != 7 {
		t.Fatalf("expected 7, got %d", decoded.OrderID)
	}
}
