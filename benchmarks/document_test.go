package benchmarks

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/document"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/persist"
)

// BenchmarkMarshal measures serializing and encoding a graph.
func BenchmarkMarshal(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("nodes_%d", n), func(b *testing.B) {
			s, _ := buildChain(b, n)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := document.Marshal(document.Serialize(s)); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkDeserialize measures decoding, validating and hydrating a graph.
func BenchmarkDeserialize(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("nodes_%d", n), func(b *testing.B) {
			s, _ := buildChain(b, n)
			data, err := document.Marshal(document.Serialize(s))
			if err != nil {
				b.Fatal(err)
			}
			b.SetBytes(int64(len(data)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				doc, err := document.Unmarshal(data)
				if err != nil {
					b.Fatal(err)
				}
				if _, _, err := document.Deserialize(doc, cat); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkSQLiteSave measures persisting a 100-node graph.
func BenchmarkSQLiteSave(b *testing.B) {
	store, err := persist.NewSQLiteStore(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = store.Close() })

	s, _ := buildChain(b, 100)
	data, err := document.Marshal(document.Serialize(s))
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.Save(ctx, "bench", data); err != nil {
			b.Fatal(err)
		}
	}
}
