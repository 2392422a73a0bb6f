package fuzztests

import (
	"testing"

	"strata/internal/incremental"
	"strata/internal/lang/jsonlang"
	"strata/internal/source"
	"strata/internal/token"
)

func fuzzSessionEdit(t *testing.T, input []byte) {
	t.Helper()

	session := incremental.NewSession(input, jsonlang.New(), incremental.DefaultOptions())

	// Вставка в середину буфера, затем проверка лексической потоковой
	// целостности.
	at := uint32(len(input) / 2)
	_, err := session.ApplyEdit(incremental.Edit{
		OldSpan: source.Span{Start: at, End: at},
		NewText: []byte(`"x"`),
	})
	if err != nil {
		t.Fatalf("ApplyEdit failed: %v", err)
	}

	var rebuilt []byte
	for _, tok := range session.Tokens() {
		if tok.Kind == token.EOF {
			break
		}
		rebuilt = append(rebuilt, tok.Text...)
	}
	if string(rebuilt) != string(session.Source()) {
		t.Fatalf("session tokens do not reassemble buffer after edit: got %d bytes, want %d",
			len(rebuilt), len(session.Source()))
	}
}
