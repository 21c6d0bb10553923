//go:build jscan

package compare_test

import (
	"context"
	"testing"

	"github.com/romshark/jscan"

	jsonrnc "github.com/reoring/jsonrnc"
)

// jscan: syntax pre-check over the raw bytes before decoding and validating
func Benchmark_PrecheckValidate_jscan_HugeArray(b *testing.B) {
	ctx := context.Background()
	data := generateBooks(cmpHugeN)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		it := jscan.Begin()
		if err := it.Feed(data); err != nil {
			b.Fatal(err)
		}
		for it.Next() {
			_ = it.Value()
		}
		if err := it.Err(); err != nil {
			b.Fatal(err)
		}
		v := jsonrnc.NewValidator(bookGrammar)
		if err := v.ValidateSource(ctx, jsonrnc.JSONBytes(data), jsonrnc.ReadOpt{Framing: jsonrnc.FramingArray}, nil); err != nil {
			b.Fatal(err)
		}
	}
}
