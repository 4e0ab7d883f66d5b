// FILE: lixenwraith/fanlog/sanitizer/sanitizer_test.go
package sanitizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizer(t *testing.T) {
	testCases := []struct {
		name     string
		san      *Sanitizer
		input    string
		expected string
	}{
		{
			name:     "raw policy passes through",
			san:      New().Policy(PolicyRaw),
			input:    "hello\x00world\n",
			expected: "hello\x00world\n",
		},
		{
			name:     "txt hex encodes null byte",
			san:      New().Policy(PolicyTxt),
			input:    "test\x00data",
			expected: "test<00>data",
		},
		{
			name:     "txt hex encodes control chars",
			san:      New().Policy(PolicyTxt),
			input:    "bell\x07tab\x09form\x0c",
			expected: "bell<07>tab<09>form<0c>",
		},
		{
			name:     "txt preserves printable",
			san:      New().Policy(PolicyTxt),
			input:    "Hello World 123!@#",
			expected: "Hello World 123!@#",
		},
		{
			name:     "txt hex encodes multi-byte control",
			san:      New().Policy(PolicyTxt),
			input:    "line1\u0085line2",
			expected: "line1<c285>line2",
		},
		{
			name:     "txt preserves UTF-8",
			san:      New().Policy(PolicyTxt),
			input:    "Hello 世界 ✓",
			expected: "Hello 世界 ✓",
		},
		{
			name:     "strip removes control chars",
			san:      New().Rule(FilterControl, TransformStrip),
			input:    "clean\x00\x07\ntxt",
			expected: "cleantxt",
		},
		{
			name:     "strip preserves spaces",
			san:      New().Rule(FilterControl, TransformStrip),
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:     "strip whitespace",
			san:      New().Rule(FilterWhitespace, TransformStrip),
			input:    "a b\tc\n",
			expected: "abc",
		},
		{
			name:     "json escapes common control chars",
			san:      New().Policy(PolicyJSON),
			input:    "line1\nline2\ttab\rreturn",
			expected: "line1\\nline2\\ttab\\rreturn",
		},
		{
			name:     "json escapes other control chars as unicode",
			san:      New().Policy(PolicyJSON),
			input:    "text\x01\x1f",
			expected: "text\\u0001\\u001f",
		},
		{
			name:     "json escapes backspace and form feed",
			san:      New().Policy(PolicyJSON),
			input:    "back\bspace form\ffeed",
			expected: "back\\bspace form\\ffeed",
		},
		{
			name:     "first matching rule wins",
			san:      New().Rule(FilterControl, TransformStrip).Rule(FilterNonPrintable, TransformHexEncode),
			input:    "a\x00b\u200bc",
			expected: "ab<e2808b>c",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.san.Sanitize(tc.input))
		})
	}
}

func TestSanitizerImmutable(t *testing.T) {
	base := New()
	strict := base.Rule(FilterControl, TransformStrip)

	assert.Equal(t, "a\x00b", base.Sanitize("a\x00b"), "deriving a sanitizer must not change the base")
	assert.Equal(t, "ab", strict.Sanitize("a\x00b"))
}

func TestSerializer(t *testing.T) {
	t.Run("raw format", func(t *testing.T) {
		se := NewSerializer("raw", New().Policy(PolicyTxt))

		var buf []byte
		se.WriteString(&buf, "test\x00data")
		assert.Equal(t, "test<00>data", string(buf))

		buf = nil
		se.WriteNil(&buf)
		assert.Equal(t, "nil", string(buf))

		assert.False(t, se.NeedsQuotes("any string"))
	})

	t.Run("txt format", func(t *testing.T) {
		se := NewSerializer("txt", New().Policy(PolicyTxt))

		var buf []byte
		se.WriteString(&buf, "hello world")
		assert.Equal(t, `"hello world"`, string(buf))

		buf = nil
		se.WriteString(&buf, "single")
		assert.Equal(t, "single", string(buf))

		buf = nil
		se.WriteString(&buf, `say "hi"`)
		assert.Equal(t, `"say \"hi\""`, string(buf))

		buf = nil
		se.WriteBare(&buf, "hello world")
		assert.Equal(t, "hello world", string(buf))

		buf = nil
		se.WriteNil(&buf)
		assert.Equal(t, "null", string(buf))

		assert.True(t, se.NeedsQuotes(""))
		assert.True(t, se.NeedsQuotes("has space"))
		assert.True(t, se.NeedsQuotes("k=v"))
		assert.False(t, se.NeedsQuotes("nospace"))
	})

	t.Run("json format", func(t *testing.T) {
		se := NewSerializer("json", New().Policy(PolicyJSON))

		var buf []byte
		se.WriteString(&buf, "line1\nline2\t\"quoted\"")
		assert.Equal(t, `"line1\nline2\t\"quoted\""`, string(buf))

		buf = nil
		se.WriteString(&buf, "null\x00byte")
		assert.Equal(t, `"null\u0000byte"`, string(buf))

		buf = nil
		se.WriteString(&buf, "naïve")
		assert.Equal(t, `"naïve"`, string(buf))

		assert.True(t, se.NeedsQuotes("anything"))
	})

	t.Run("nil sanitizer is passthrough", func(t *testing.T) {
		se := NewSerializer("raw", nil)
		var buf []byte
		se.WriteString(&buf, "a\x00b")
		assert.Equal(t, "a\x00b", string(buf))
	})

	t.Run("scalars", func(t *testing.T) {
		se := NewSerializer("txt", nil)
		var buf []byte
		se.WriteNumber(&buf, "42")
		buf = append(buf, ' ')
		se.WriteBool(&buf, true)
		assert.Equal(t, "42 true", string(buf))
	})

	t.Run("complex value handling", func(t *testing.T) {
		san := New().Policy(PolicyTxt)

		// Raw dumps with type information
		var buf []byte
		NewSerializer("raw", san).WriteComplex(&buf, map[string]int{"a": 1})
		assert.Contains(t, string(buf), "map[string]int")
		assert.Contains(t, string(buf), `"a": (int) 1`)

		buf = nil
		NewSerializer("txt", san).WriteComplex(&buf, []int{1, 2, 3})
		assert.Equal(t, `"[1 2 3]"`, string(buf))
	})
}

func BenchmarkSanitizer(b *testing.B) {
	input := strings.Repeat("normal text\x00\n\t", 100)

	benchmarks := []struct {
		name string
		san  *Sanitizer
	}{
		{"Raw", New().Policy(PolicyRaw)},
		{"Txt", New().Policy(PolicyTxt)},
		{"Strip", New().Rule(FilterControl, TransformStrip)},
		{"JSON", New().Policy(PolicyJSON)},
	}

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = bm.san.Sanitize(input)
			}
		})
	}
}
