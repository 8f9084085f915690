package registry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	r := New[int]()

	_, ok := r.Get("missing")
	assert.False(t, ok)

	r.Add("b", 2)
	r.Add("a", 1)
	v, ok := r.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, []string{"a", "b"}, r.Names())
	assert.Equal(t, 2, r.Len())

	v, loaded := r.GetOrAdd("a", func() int { return 10 })
	assert.True(t, loaded)
	assert.Equal(t, 1, v)

	v, loaded = r.GetOrAdd("c", func() int { return 3 })
	assert.False(t, loaded)
	assert.Equal(t, 3, v)

	r.Del("b")
	assert.Equal(t, []string{"a", "c"}, r.Names())
}

func TestRegistryConcurrentAdd(t *testing.T) {
	r := New[int]()
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Add(name, i)
		}()
	}
	wg.Wait()

	assert.Equal(t, names, r.Names())
}
