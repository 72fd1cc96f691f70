package port

import (
	"sync/atomic"

	"github.com/sigflow/engine/pkg/util"
)

// atomicFloat64 stores a float64 behind an int64 bit pattern so the current
// value of a Control/Cv port can be read from any thread without a lock,
// while the Executor keeps writing it every period.
type atomicFloat64 struct {
	bits int64
}

func (a *atomicFloat64) Load() float64 {
	return util.AtomicFloat64FromBits(uint64(atomic.LoadInt64(&a.bits)))
}

func (a *atomicFloat64) Store(v float64) {
	atomic.StoreInt64(&a.bits, int64(util.AtomicFloat64ToBits(v)))
}

func (a *atomicFloat64) CompareAndSwap(old, new float64) bool {
	return atomic.CompareAndSwapInt64(&a.bits,
		int64(util.AtomicFloat64ToBits(old)), int64(util.AtomicFloat64ToBits(new)))
}
