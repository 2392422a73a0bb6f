package fuzztests

import "testing"

const maxFuzzInput = 1 << 16 // 64 KiB

func addCorpusSeeds(f *testing.F) {
	seeds := [][]byte{
		{},
		[]byte(`{}`),
		[]byte(`[]`),
		[]byte(`{"a": 1, "b": [true, false, null]}`),
		[]byte(`{"a":1,"b":[1,2,}`),
		[]byte(`[[[[`),
		[]byte(`)]}`),
		[]byte(`{"s": "unterminated`),
		[]byte("// comment\n{\"a\": 1}"),
		[]byte("/* open block"),
		[]byte(`{"nested": {"deep": {"deeper": [1, [2, [3]]]}}}`),
		[]byte("int main(void) { return f(a, b); }\n"),
		[]byte("if (x) { y(); } else { z(); }\n"),
		[]byte("\"\\u00e9\\n\\t\""),
		[]byte(","),
		[]byte("::::"),
	}
	for _, seed := range seeds {
		f.Add(clampSeed(seed))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxFuzzInput {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxFuzzInput]...)
}
