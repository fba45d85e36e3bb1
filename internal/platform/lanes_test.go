package platform

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLanesKeepPerKeyOrder(t *testing.T) {
	l := NewLanes()
	var mu sync.Mutex
	got := map[string][]int{}
	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("s%d", i%4)
		l.Do(key, func() {
			mu.Lock()
			got[key] = append(got[key], i)
			mu.Unlock()
		})
	}
	l.Wait()

	assert.Len(t, got, 4)
	for key, seq := range got {
		assert.Len(t, seq, 25, key)
		assert.IsIncreasing(t, seq, key)
	}
	assert.Zero(t, l.Active())
}

func TestLanesRunKeysConcurrently(t *testing.T) {
	l := NewLanes()
	block := make(chan struct{})
	done := make(chan struct{})
	l.Do("a", func() { <-block })
	l.Do("b", func() { close(done) })
	<-done
	assert.Eventually(t, func() bool { return l.Active() == 1 }, time.Second, 5*time.Millisecond,
		"b drains while a is still blocked")
	close(block)
	l.Wait()
}
