package jsonrnc_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"testing"

	jsonrnc "github.com/reoring/jsonrnc"
)

// ---- Helpers ----

var (
	smallUserStrict = jsonrnc.MustCompile("start = { id: string, name?: string }")
	smallUserOpen   = jsonrnc.MustCompile("start = { id: string, *: {} | [] | string | number | boolean | null }")
)

func smallUserJSON() []byte {
	return []byte(`{"id":"u_1","name":"alice"}`)
}

// generateHugeJSONArray returns a JSON array of objects of the form:
// [{"id":"obj_0","name":"n0","age":0,"active":true,"meta":{"score":0},"k0":"v0",...}, ...]
func generateHugeJSONArray(numObjects int, extraFields int) []byte {
	var buf bytes.Buffer
	buf.Grow(numObjects * (64 + extraFields*16))
	buf.WriteByte('[')
	for i := 0; i < numObjects; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		// stable core fields
		fmt.Fprintf(&buf, "\"id\":\"obj_%d\",", i)
		fmt.Fprintf(&buf, "\"name\":\"n%d\",", i)
		fmt.Fprintf(&buf, "\"age\":%d,", i)
		if i%2 == 0 {
			buf.WriteString("\"active\":true,")
		} else {
			buf.WriteString("\"active\":false,")
		}
		fmt.Fprintf(&buf, "\"meta\":{\"score\":%d}", i)
		// extras
		for k := 0; k < extraFields; k++ {
			buf.WriteByte(',')
			buf.WriteByte('"')
			buf.WriteString("k")
			buf.WriteString(strconv.Itoa(k))
			buf.WriteString("\":\"v")
			buf.WriteString(strconv.Itoa(i))
			buf.WriteString("_")
			buf.WriteString(strconv.Itoa(k))
			buf.WriteString("\"")
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// hugeItem declares the core fields and lets the extra keys through.
var hugeItem = jsonrnc.MustCompile(`
start = Item
Item = { id: string, name: string, age: integer @(minimum = 0), active: boolean, meta: { score: number }, *: string }
`)

// ---- Micro benchmarks (small inputs) ----

func Benchmark_ValidateFrom_Object_Small_JSONBytes(b *testing.B) {
	ctx := context.Background()
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := jsonrnc.ValidateFrom(ctx, smallUserStrict, jsonrnc.JSONBytes(data)); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ValidateFrom_Object_Small_JSONReader(b *testing.B) {
	ctx := context.Background()
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := jsonrnc.ValidateFrom(ctx, smallUserStrict, jsonrnc.JSONReader(bytes.NewReader(data))); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_ValidateFrom_Object_Small_Enforced(b *testing.B) {
	ctx := context.Background()
	data := smallUserJSON()
	opt := jsonrnc.ReadOpt{Strictness: jsonrnc.Strictness{OnDuplicateKey: jsonrnc.Error}, MaxDepth: 32}
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := jsonrnc.ValidateFrom(ctx, smallUserOpen, jsonrnc.JSONBytes(data), opt); err != nil {
			b.Fatal(err)
		}
	}
}

// Pre-decoded: matching only.
func Benchmark_ValidateDocument_Object_Small(b *testing.B) {
	ctx := context.Background()
	var doc any
	if err := json.Unmarshal(smallUserJSON(), &doc); err != nil {
		b.Fatal(err)
	}
	st := jsonrnc.NewStats()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if res := jsonrnc.ValidateDocument(ctx, smallUserStrict, doc, st); !res.OK {
			b.Fatal(res.Issues)
		}
	}
}

// ---- Macro benchmarks (huge JSON) ----

// 10k objects with 8 extra fields each
const (
	hugeObjects   = 10000
	hugeExtraKeys = 8
)

func Benchmark_ValidateSource_HugeArray_Objects(b *testing.B) {
	ctx := context.Background()
	data := generateHugeJSONArray(hugeObjects, hugeExtraKeys)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v := jsonrnc.NewValidator(hugeItem)
		if err := v.ValidateSource(ctx, jsonrnc.JSONReader(bytes.NewReader(data)), jsonrnc.ReadOpt{}, nil); err != nil {
			b.Fatal(err)
		}
		if !v.Stats().AllPassed() {
			b.Fatal("unexpected failures")
		}
	}
}

func Benchmark_ValidateSource_HugeArray_Objects_NumberFloat64(b *testing.B) {
	ctx := context.Background()
	data := generateHugeJSONArray(hugeObjects, hugeExtraKeys)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v := jsonrnc.NewValidator(hugeItem)
		src := jsonrnc.WithNumberMode(jsonrnc.JSONBytes(data), jsonrnc.NumberFloat64)
		if err := v.ValidateSource(ctx, src, jsonrnc.ReadOpt{Framing: jsonrnc.FramingArray}, nil); err != nil {
			b.Fatal(err)
		}
	}
}

// ---- Baseline: encoding/json ----

func Benchmark_encodingJSON_Unmarshal_SmallObject(b *testing.B) {
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_encodingJSON_Decoder_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(hugeObjects, hugeExtraKeys)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v []map[string]any
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&v); err != nil && err != io.EOF {
			b.Fatal(err)
		}
	}
}
