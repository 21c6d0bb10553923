//go:build jstream

package compare_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/bcicen/jstream"

	jsonrnc "github.com/reoring/jsonrnc"
)

// jstream: stream array elements and validate each as its own instance
func Benchmark_StreamValidate_jstream_HugeArray(b *testing.B) {
	ctx := context.Background()
	data := generateBooks(cmpHugeN)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v := jsonrnc.NewValidator(bookGrammar)
		dec := jstream.NewDecoder(bytes.NewReader(data), 1)
		for mv := range dec.Stream() {
			if res := v.Validate(ctx, mv.Value); !res.OK {
				b.Fatal(res.Issues)
			}
		}
		// drain the decoder error if any
		if err := dec.Err(); err != nil && err != io.EOF {
			b.Fatal(err)
		}
		if v.Stats().Documents != cmpHugeN {
			b.Fatalf("documents: %d", v.Stats().Documents)
		}
	}
}
