package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"strata/internal/ast"
	"strata/internal/diag"
	"strata/internal/lang"
	"strata/internal/source"
	"strata/internal/token"
)

func TestJSON_Basic(t *testing.T) {
	file := makeFile(t, "data.json", `{"a": "oops`)

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.LexUnterminatedString,
		source.Span{Start: 6, End: 11}, "unterminated string literal"))

	var buf bytes.Buffer
	opts := JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
	}
	if err := JSON(&buf, bag, file, opts); err != nil {
		t.Fatal(err)
	}

	// Вывод обязан быть валидным JSON.
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("output = %+v", output)
	}
	d := output.Diagnostics[0]
	if d.Severity != "ERROR" || d.Code != "LEX1002" {
		t.Errorf("diagnostic = %+v", d)
	}
	if d.Location.File != "data.json" || d.Location.StartByte != 6 || d.Location.EndByte != 11 {
		t.Errorf("location = %+v", d.Location)
	}
	if d.Location.StartLine != 1 || d.Location.StartCol != 7 {
		t.Errorf("position = %+v", d.Location)
	}
}

func TestJSON_MaxTruncates(t *testing.T) {
	file := makeFile(t, "t.json", `@@@@`)

	bag := diag.NewBag(10)
	for i := uint32(0); i < 4; i++ {
		bag.Add(diag.NewError(diag.LexUnknownByte, source.Span{Start: i, End: i + 1}, "bad byte"))
	}

	var buf bytes.Buffer
	if err := JSON(&buf, bag, file, JSONOpts{Max: 2}); err != nil {
		t.Fatal(err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatal(err)
	}
	if output.Count != 2 || len(output.Diagnostics) != 2 {
		t.Errorf("output = %+v", output)
	}
}

func TestJSON_FixesIncluded(t *testing.T) {
	file := makeFile(t, "t.json", `{`)

	bag := diag.NewBag(10)
	bag.Add(diag.NewError(diag.SynMissingCloser, source.Span{Start: 1, End: 1}, "missing '}'").
		WithFix("insert '}'", diag.FixEdit{Span: source.Span{Start: 1, End: 1}, NewText: "}"}))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, file, JSONOpts{IncludeFixes: true}); err != nil {
		t.Fatal(err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatal(err)
	}
	fixes := output.Diagnostics[0].Fixes
	if len(fixes) != 1 || fixes[0].Title != "insert '}'" {
		t.Fatalf("fixes = %+v", fixes)
	}
	if fixes[0].Edits[0].NewText != "}" {
		t.Errorf("edit = %+v", fixes[0].Edits[0])
	}
}

func TestFormatTree_Outline(t *testing.T) {
	file := makeFile(t, "t.json", `{"a": 1}`)

	tree := ast.NewTree()
	key := tree.NewValue(source.Span{Start: 1, End: 4}, token.String, `"a"`)
	val := tree.NewValue(source.Span{Start: 6, End: 7}, token.Number, "1")
	field := tree.NewField(source.Span{Start: 1, End: 7}, key, val)
	root := tree.NewContainer(source.Span{Start: 0, End: 8}, lang.TagBrace, []ast.NodeID{field})
	tree.SetRoot(root)

	var buf bytes.Buffer
	if err := FormatTree(&buf, tree, file); err != nil {
		t.Fatal(err)
	}
	output := buf.String()

	for _, want := range []string{
		"Container(brace)",
		"Field",
		`Value(String) "\"a\""`,
		`Value(Number) "1"`,
	} {
		if !bytes.Contains(buf.Bytes(), []byte(want)) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
	// Вложенность передаётся отступами.
	if !bytes.Contains(buf.Bytes(), []byte("  Field")) || !bytes.Contains(buf.Bytes(), []byte("    Value")) {
		t.Errorf("indentation broken:\n%s", output)
	}
}

func TestFormatTree_Empty(t *testing.T) {
	file := makeFile(t, "t.json", ``)

	var buf bytes.Buffer
	if err := FormatTree(&buf, ast.NewTree(), file); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("<empty tree>")) {
		t.Errorf("output = %q", buf.String())
	}
}
