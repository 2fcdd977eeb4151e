// internal/parse/parse_test.go
package parse

import (
	"reflect"
	"testing"
)

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   []string
		wantOK bool
	}{
		{
			name:   "array embedded in prose",
			text:   `I think the answer is ["d1","d3","d2"] based on the arguments so far`,
			want:   []string{"d1", "d3", "d2"},
			wantOK: true,
		},
		{
			name:   "bare array",
			text:   `["a","b"]`,
			want:   []string{"a", "b"},
			wantOK: true,
		},
		{
			name:   "array with whitespace",
			text:   "Ranking:\n[ \"x\" , \"y\" ]\nDone.",
			want:   []string{"x", "y"},
			wantOK: true,
		},
		{
			name:   "no array",
			text:   "I cannot rank the participants.",
			wantOK: false,
		},
		{
			name:   "brackets but not JSON",
			text:   "see [citation needed] for details",
			wantOK: false,
		},
		{
			name:   "empty array rejected",
			text:   "here: []",
			wantOK: false,
		},
		{
			name:   "skips non-json bracket then finds array",
			text:   `[sic] the order is ["one","two"]`,
			want:   []string{"one", "two"},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONArray(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		wantOK bool
	}{
		{
			name:   "object in prose",
			text:   `Here is my proposal: {"title":"Cache layer","description":"Add Redis"} hope it helps`,
			wantOK: true,
		},
		{
			name:   "nested object",
			text:   `{"a":{"b":1},"c":[2,3]}`,
			wantOK: true,
		},
		{
			name:   "braces inside string values",
			text:   `{"reasoning":"use {} literals","consensus":7}`,
			wantOK: true,
		},
		{
			name:   "unbalanced",
			text:   `{"title":"oops"`,
			wantOK: false,
		},
		{
			name:   "no object",
			text:   "plain text only",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := ExtractJSONObject(tt.text)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestProposalParseAndFallback(t *testing.T) {
	res := Proposal(`{"title":"Sharding","description":"Split by key","steps":["pick key"],"risks":["hot spots"],"benefits":["scale"]}`)
	if res.Fallback {
		t.Fatal("unexpected fallback")
	}
	if res.Value.Title != "Sharding" || len(res.Value.Steps) != 1 {
		t.Errorf("unexpected value: %+v", res.Value)
	}

	raw := "I'd suggest we simply split the table by customer id."
	res = Proposal(raw)
	if !res.Fallback {
		t.Fatal("want fallback for prose")
	}
	if res.Value.Description != raw {
		t.Errorf("fallback description = %q", res.Value.Description)
	}
	if res.Value.Steps == nil || res.Value.Risks == nil || res.Value.Benefits == nil {
		t.Error("fallback lists must be empty, not nil")
	}
}

func TestVoteParseClampAndFallback(t *testing.T) {
	res := Vote(`{"logic":9,"feasibility":12,"safety":0,"benefit":7,"ethics":4,"reasoning":"solid"}`)
	if res.Fallback {
		t.Fatal("unexpected fallback")
	}
	v := res.Value
	if v.Feasibility != 10 {
		t.Errorf("feasibility not clamped: %d", v.Feasibility)
	}
	if v.Safety != 1 {
		t.Errorf("safety not clamped: %d", v.Safety)
	}
	if v.Ethics != 4 {
		t.Errorf("ethics = %d, want 4", v.Ethics)
	}

	res = Vote("this proposal seems fine to me")
	if !res.Fallback {
		t.Fatal("want fallback for prose")
	}
	v = res.Value
	for _, score := range []int{v.Logic, v.Feasibility, v.Safety, v.Benefit, v.Ethics} {
		if score != DefaultDimensionScore {
			t.Errorf("fallback score = %d, want %d", score, DefaultDimensionScore)
		}
	}
}

func TestDecisionParseAndFallback(t *testing.T) {
	res := Decision(`{"reasoning":"builder plan wins","recommendations":["start small"],"risks":[],"mitigations":[],"consensus":8.5}`)
	if res.Fallback {
		t.Fatal("unexpected fallback")
	}
	if res.Value.Consensus != 8.5 {
		t.Errorf("consensus = %v", res.Value.Consensus)
	}

	res = Decision("After weighing everything, go with option two.")
	if !res.Fallback {
		t.Fatal("want fallback")
	}
	if res.Value.Reasoning == "" || res.Value.Recommendations == nil {
		t.Errorf("bad fallback: %+v", res.Value)
	}
}

func TestDecisionConsensusClamped(t *testing.T) {
	res := Decision(`{"reasoning":"x","consensus":42}`)
	if res.Value.Consensus != 10 {
		t.Errorf("consensus = %v, want 10", res.Value.Consensus)
	}
}

func TestReflectionParseAndFallback(t *testing.T) {
	res := Reflection(`{"went_well":["fast convergence"],"could_have_improved":[],"learnings":["ask auditor earlier"],"summary":"good session"}`)
	if res.Fallback {
		t.Fatal("unexpected fallback")
	}
	if len(res.Value.Learnings) != 1 {
		t.Errorf("learnings = %v", res.Value.Learnings)
	}

	res = Reflection("overall it went fine")
	if !res.Fallback {
		t.Fatal("want fallback")
	}
	if res.Value.Summary != "overall it went fine" {
		t.Errorf("summary = %q", res.Value.Summary)
	}
}
