package benchmarks

import (
	"testing"

	"github.com/randalmurphal/handlertable/pkg/handlertable"
)

func nop() {}

// BenchmarkHandle_Hit dispatches to a registered handler.
func BenchmarkHandle_Hit(b *testing.B) {
	table := handlertable.New[handlertable.Handler](32)
	table.RegisterHandler(7, nop)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		table.Handle(7)
	}
}

// BenchmarkHandle_Miss dispatches to an empty slot.
func BenchmarkHandle_Miss(b *testing.B) {
	table := handlertable.New[handlertable.Handler](32)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		table.Handle(7)
	}
}

// BenchmarkHandle_OutOfRange dispatches past the end of the table.
func BenchmarkHandle_OutOfRange(b *testing.B) {
	table := handlertable.New[handlertable.Handler](32)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		table.Handle(64)
	}
}

// BenchmarkRegisterUnregister cycles one slot through its full lifecycle.
func BenchmarkRegisterUnregister(b *testing.B) {
	table := handlertable.New[handlertable.Handler](32)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		table.RegisterHandler(3, nop)
		table.UnregisterHandler(3)
	}
}

// BenchmarkHandle_Parallel dispatches one slot from every P.
func BenchmarkHandle_Parallel(b *testing.B) {
	table := handlertable.New[handlertable.Handler](32)
	table.RegisterHandler(0, nop)

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			table.Handle(0)
		}
	})
}

// BenchmarkHandle_ParallelSpread dispatches distinct slots from every P.
func BenchmarkHandle_ParallelSpread(b *testing.B) {
	const n = 64
	table := handlertable.New[handlertable.Handler](n)
	for i := 0; i < n; i++ {
		table.RegisterHandler(i, nop)
	}

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			table.Handle(i % n)
			i++
		}
	})
}

// BenchmarkHandle_DuringChurn dispatches while another goroutine keeps
// re-registering the same slot.
func BenchmarkHandle_DuringChurn(b *testing.B) {
	table := handlertable.New[handlertable.Handler](4)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			table.RegisterHandler(1, nop)
			table.UnregisterHandler(1)
		}
	}()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		table.Handle(1)
	}
	b.StopTimer()
	close(stop)
	<-done
}
