package diagram

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/poolkit/pkg/errors"
	"github.com/matzehuels/poolkit/pkg/pool"
)

const sampleJSON = `{
  "width": 400,
  "height": 300,
  "lanes": [
    {"id": "plan", "size": 100},
    {"label": "Build", "sublanes": [{"label": "Backend", "size": 150}]},
    {}
  ],
  "milestones": [{"label": "Q1", "size": 40}, {"label": "Q2"}]
}`

const sampleTOML = `
width = 400.0
height = 300.0

[[lanes]]
id = "plan"
size = 100.0

[[lanes]]
label = "Build"

  [[lanes.sublanes]]
  label = "Backend"
  size = 150.0

[[lanes]]

[[milestones]]
label = "Q1"
size = 40.0

[[milestones]]
label = "Q2"
`

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"json", sampleJSON, FormatJSON},
		{"toml", sampleTOML, FormatTOML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Decode([]byte(tt.data), tt.format)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if len(doc.Lanes) != 3 || len(doc.Lanes[1].Sublanes) != 1 || len(doc.Milestones) != 2 {
				t.Fatalf("Decode() = %+v", doc)
			}

			p, err := doc.Pool()
			if err != nil {
				t.Fatalf("Pool() error = %v", err)
			}
			// The milestone strip takes 30 of the 300 units.
			if h, _ := p.LaneHeight("plan"); h != 100 {
				t.Errorf("LaneHeight(plan) = %v, want 100", h)
			}
			if h, _ := p.LaneHeight("2"); h != 20 {
				t.Errorf("LaneHeight(2) = %v, want 20", h)
			}
			if w, _ := p.MilestoneWidth("milestone_1"); w != 360 {
				t.Errorf("MilestoneWidth(milestone_1) = %v, want 360", w)
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		code   errors.Code
	}{
		{"lane size of wrong type", `{"lanes":[{"size":"big"}]}`, FormatJSON, errors.ErrCodeStructural},
		{"lanes not a list", `{"lanes":5}`, FormatJSON, errors.ErrCodeStructural},
		{"nested sublane", `{"lanes":[{"sublanes":[{"label":7}]}]}`, FormatJSON, errors.ErrCodeStructural},
		{"milestone of wrong type", `{"milestones":["q1"]}`, FormatJSON, errors.ErrCodeStructural},
		{"pool field of wrong type", `{"width":"wide"}`, FormatJSON, errors.ErrCodeInvalidFormat},
		{"unknown field", `{"lanez":[]}`, FormatJSON, errors.ErrCodeInvalidFormat},
		{"malformed json", `{`, FormatJSON, errors.ErrCodeInvalidFormat},
		{"malformed toml", `width = `, FormatTOML, errors.ErrCodeInvalidFormat},
		{"unknown toml key", "colour = \"red\"\n", FormatTOML, errors.ErrCodeInvalidFormat},
		{"toml lanes not a list", "lanes = 5\n", FormatTOML, errors.ErrCodeStructural},
		{"toml milestones not a list", "milestones = \"q1\"\n", FormatTOML, errors.ErrCodeStructural},
		{"toml sublanes not a list", "[[lanes]]\nsublanes = 3\n", FormatTOML, errors.ErrCodeStructural},
		{"toml lane entry not a table", "lanes = [1, 2]\n", FormatTOML, errors.ErrCodeStructural},
		{"toml lane size of wrong type", "[[lanes]]\nsize = \"big\"\n", FormatTOML, errors.ErrCodeStructural},
		{"toml pool field of wrong type", "width = \"wide\"\n", FormatTOML, errors.ErrCodeInvalidFormat},
		{"negative width", `{"width":-1}`, FormatJSON, errors.ErrCodeInvalidInput},
		{"unknown format", `{}`, Format("yaml"), errors.ErrCodeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), tt.format)
			if err == nil {
				t.Fatal("Decode() error = nil")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("Decode() code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestDuplicateIDIsStructural(t *testing.T) {
	doc, err := Decode([]byte(`{"lanes":[{"id":"A"},{"id":"A"}]}`), FormatJSON)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if _, err := doc.Pool(); !pool.IsStructural(err) {
		t.Errorf("Pool() error = %v, want structural", err)
	}
}

func TestPoolDefaultsAndAutoResize(t *testing.T) {
	doc := &Document{Lanes: []pool.LaneSpec{{Size: pool.Fixed(1000)}}}
	p, err := doc.Pool()
	if err != nil {
		t.Fatalf("Pool() error = %v", err)
	}
	if got := p.Size(); got.Width != pool.DefaultWidth || got.Height != pool.DefaultHeight {
		t.Errorf("Size() = %+v, want defaults", got)
	}

	doc.AutoResize = true
	doc.Width = 100
	p, err = doc.Pool()
	if err != nil {
		t.Fatalf("Pool() error = %v", err)
	}
	if got := p.Size(); got.Width != 100 || got.Height != 1000 {
		t.Errorf("Size() = %+v, want {100 1000}", got)
	}
}

func TestFileRoundTrip(t *testing.T) {
	doc, err := Decode([]byte(sampleJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	want, err := doc.Pool()
	if err != nil {
		t.Fatalf("Pool() error = %v", err)
	}

	dir := t.TempDir()
	for _, name := range []string{"pool.json", "pool.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteFile(path, FromPool(want)); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			back, err := ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			got, err := back.Pool()
			if err != nil {
				t.Fatalf("Pool() error = %v", err)
			}
			if !reflect.DeepEqual(got.Layout(), want.Layout()) {
				t.Error("layout changed after a write/read cycle")
			}
		})
	}
}

func TestReadFileErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadFile(filepath.Join(dir, "missing.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile(missing) error = %v", err)
	}

	yaml := filepath.Join(dir, "pool.yaml")
	if err := os.WriteFile(yaml, []byte("lanes: []"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadFile(yaml); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ReadFile(yaml) error = %v", err)
	}

	if _, err := ReadFile(""); !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("ReadFile(\"\") error = %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"lanes":[{"size":"x"}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadFile(bad)
	if !errors.Is(err, errors.ErrCodeStructural) || !strings.Contains(err.Error(), "bad.json") {
		t.Errorf("ReadFile(bad) error = %v", err)
	}
}

func TestWriteTOML(t *testing.T) {
	doc := &Document{
		Width: 200,
		Lanes: []pool.LaneSpec{{Label: "A", Sublanes: []pool.LaneSpec{{ID: "b"}}}},
	}
	var buf bytes.Buffer
	if err := Write(&buf, doc, FormatTOML); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"width = 200", "[[lanes]]", "[[lanes.sublanes]]", `id = "b"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Write() output missing %q:\n%s", want, out)
		}
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	doc, _ := Decode([]byte(sampleJSON), FormatJSON)
	p, err := doc.Pool()
	if err != nil {
		t.Fatalf("Pool() error = %v", err)
	}
	l := p.Layout()

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(path, l); err != nil {
		t.Fatalf("WriteLayoutFile() error = %v", err)
	}
	back, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error = %v", err)
	}
	if !reflect.DeepEqual(back, l) {
		t.Errorf("ReadLayoutFile() = %+v, want %+v", back, l)
	}

	if _, err := UnmarshalLayout([]byte("[")); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("UnmarshalLayout(garbage) error = %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"pool.json", FormatJSON, true},
		{"dir/Pool.TOML", FormatTOML, true},
		{"pool.yml", "", false},
		{"pool", "", false},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if got != tt.want || (err == nil) != tt.ok {
			t.Errorf("FormatFromPath(%q) = %q, %v", tt.path, got, err)
		}
	}
}
