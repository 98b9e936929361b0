package benchmarks

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/zoobzio/clockz"

	"github.com/zoobzio/settle"
)

func accept(context.Context, string) (bool, error) { return true, nil }

// warm returns a validator whose cache holds value.
func warm(b *testing.B, value string) (*settle.Validator[string], *clockz.FakeClock) {
	b.Helper()
	clock := clockz.NewFakeClock()
	v := settle.New[string](accept).Clock(clock).Delay(time.Millisecond)
	ch := v.Submit(value)
	clock.Advance(time.Millisecond)
	clock.BlockUntilReady()
	<-ch
	return v, clock
}

func BenchmarkValidator_CacheHit(b *testing.B) {
	v, _ := warm(b, "gopher")
	defer v.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		<-v.Submit("gopher")
	}
}

func BenchmarkValidator_CacheHitParallel(b *testing.B) {
	v, _ := warm(b, "gopher")
	defer v.Close()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			<-v.Submit("gopher")
		}
	})
}

func BenchmarkValidator_DefaultBypass(b *testing.B) {
	v := settle.New[string](accept).Default("")
	defer v.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		<-v.Submit("")
	}
}

func BenchmarkValidator_DebouncedSubmit(b *testing.B) {
	clock := clockz.NewFakeClock()
	v := settle.New[string](accept).Clock(clock).Delay(time.Hour)
	defer v.Close()

	values := make([]string, 1024)
	for i := range values {
		values[i] = strconv.Itoa(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Submit(values[i%len(values)])
	}
}

func BenchmarkValidator_FullWindow(b *testing.B) {
	clock := clockz.NewFakeClock()
	v := settle.New[string](accept).Clock(clock).Delay(time.Millisecond).MaxCacheSize(1)
	defer v.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ch := v.Submit(strconv.Itoa(i))
		clock.Advance(time.Millisecond)
		clock.BlockUntilReady()
		<-ch
	}
}
