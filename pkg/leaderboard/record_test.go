package leaderboard_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-leaderboard/pkg/leaderboard"
	"github.com/goliatone/go-leaderboard/pkg/source"
)

func cells(list leaderboard.RecordList) [][]string {
	out := make([][]string, 0, len(list))
	for _, record := range list {
		out = append(out, record.Cells())
	}
	return out
}

func TestDecode_Cells(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [][]string
	}{
		{
			name: "numbers",
			in:   `[{"rank":1,"score":100},{"rank":2,"score":90}]`,
			want: [][]string{{"1", "100"}, {"2", "90"}},
		},
		{
			name: "zero score collapses to empty",
			in:   `[{"rank":1,"score":0}]`,
			want: [][]string{{"1", ""}},
		},
		{
			name: "empty list",
			in:   `[]`,
			want: [][]string{},
		},
		{
			name: "strings kept verbatim",
			in:   `[{"rank":"1","score":"0.91234567"}]`,
			want: [][]string{{"1", "0.91234567"}},
		},
		{
			name: "absent null false and empty string",
			in:   `[{"score":null},{"rank":false,"score":""},{"rank":0.0,"score":"0"}]`,
			want: [][]string{{"", ""}, {"", ""}, {"", "0"}},
		},
		{
			name: "extra fields ignored",
			in:   `[{"rank":3,"score":12.5,"team":"acme"}]`,
			want: [][]string{{"3", "12.5"}},
		},
		{
			name: "non object entries become empty rows",
			in:   `[null, 7, {"rank":1,"score":2}]`,
			want: [][]string{{"", ""}, {"", ""}, {"1", "2"}},
		},
		{
			name: "float formatting",
			in:   `[{"rank":1e1,"score":1.50}]`,
			want: [][]string{{"10", "1.5"}},
		},
		{
			name: "small exponents are not zero padded",
			in:   `[{"rank":1e-7,"score":1.5e-9}]`,
			want: [][]string{{"1e-7", "1.5e-9"}},
		},
		{
			name: "large exponents keep their sign",
			in:   `[{"rank":1e21,"score":-2.5e300}]`,
			want: [][]string{{"1e+21", "-2.5e+300"}},
		},
		{
			name: "arrays join elements",
			in:   `[{"rank":[1,2],"score":[0,false,null,"x",[3,4]]}]`,
			want: [][]string{{"1,2", "0,false,,x,3,4"}},
		},
		{
			name: "empty array and objects",
			in:   `[{"rank":[],"score":{"a":1}}]`,
			want: [][]string{{"", "[object Object]"}},
		},
		{
			name: "true renders as text",
			in:   `[{"rank":true,"score":-1}]`,
			want: [][]string{{"true", "-1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := leaderboard.Decode([]byte(tt.in))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if diff := cmp.Diff(tt.want, cells(list)); diff != "" {
				t.Fatalf("cells mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_PreservesOrderAndCount(t *testing.T) {
	list, err := leaderboard.Decode([]byte(`[{"rank":3},{"rank":1},{"rank":2}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 records, got %d", len(list))
	}
	got := []string{list[0].Rank.Text(), list[1].Rank.Text(), list[2].Rank.Text()}
	if diff := cmp.Diff([]string{"3", "1", "2"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Malformed(t *testing.T) {
	for _, in := range []string{``, `{`, `{"rank":1}`, `[{"rank":1}`, `null`} {
		_, err := leaderboard.Decode([]byte(in))
		if !errors.Is(err, leaderboard.ErrMalformed) {
			t.Fatalf("decode %q: expected ErrMalformed, got %v", in, err)
		}
	}
}

func TestValue_PresentDistinguishesZero(t *testing.T) {
	list, err := leaderboard.Decode([]byte(`[{"rank":1,"score":0}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	score := list[0].Score
	if !score.Present() {
		t.Fatalf("expected zero score to be present")
	}
	if score.Truthy() {
		t.Fatalf("expected zero score to be falsy")
	}
	if list[0].Field("team").Present() {
		t.Fatalf("unknown field should be absent")
	}
}

func TestDecodeYAML(t *testing.T) {
	in := "- rank: 1\n  score: 0.75\n- rank: 2\n  score: 0\n- plain\n"
	list, err := leaderboard.DecodeYAML([]byte(in))
	if err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	want := [][]string{{"1", "0.75"}, {"2", ""}, {"", ""}}
	if diff := cmp.Diff(want, cells(list)); diff != "" {
		t.Fatalf("cells mismatch (-want +got):\n%s", diff)
	}

	if _, err := leaderboard.DecodeYAML([]byte("rank: 1\n")); !errors.Is(err, leaderboard.ErrMalformed) {
		t.Fatalf("expected ErrMalformed for mapping, got %v", err)
	}
}

func TestDecodeDocument_PicksDecoderByExtension(t *testing.T) {
	doc := source.MustNewDocument(source.SourceFromFile("board.yml"), []byte("- rank: 4\n  score: 9\n"))
	list, err := leaderboard.DecodeDocument(doc)
	if err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if diff := cmp.Diff([][]string{{"4", "9"}}, cells(list)); diff != "" {
		t.Fatalf("cells mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_MarshalJSONOmitsAbsentFields(t *testing.T) {
	list, err := leaderboard.Decode([]byte(`[{"rank":1,"score":0},{"score":"x"}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got, err := list[0].MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(got) != `{"rank":1,"score":0}` {
		t.Fatalf("unexpected json: %s", got)
	}
	got, err = list[1].MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(got) != `{"score":"x"}` {
		t.Fatalf("unexpected json: %s", got)
	}
}
