// Copyright (c) 2026 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package future

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/beanrpc/beanerrors"
)

func TestCompleteOnce(t *testing.T) {
	f := New()
	assert.Equal(t, Pending, f.State())

	assert.True(t, f.Complete("first"))
	assert.False(t, f.Complete("second"))
	assert.False(t, f.Fail(errors.New("late")))
	assert.False(t, f.Cancel())

	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", v)
	assert.Equal(t, Done, f.State())
}

func TestFail(t *testing.T) {
	f := New()
	boom := errors.New("boom")
	require.True(t, f.Fail(boom))

	_, err := f.Wait(context.Background())
	assert.Equal(t, boom, err)
	assert.Equal(t, Failed, f.State())
}

func TestFailNil(t *testing.T) {
	f := New()
	require.True(t, f.Fail(nil))
	_, err := f.Wait(context.Background())
	assert.Equal(t, beanerrors.CodeInternal, beanerrors.ErrorCode(err))
}

func TestCancel(t *testing.T) {
	f := New()
	require.True(t, f.Cancel())
	_, err := f.Wait(context.Background())
	assert.True(t, beanerrors.IsCancelled(err))
	assert.Equal(t, Cancelled, f.State())
}

func TestWaitTimeoutLeavesPending(t *testing.T) {
	f := New()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Wait(ctx)
	assert.True(t, beanerrors.IsTimeout(err))
	assert.Equal(t, Pending, f.State())

	assert.True(t, f.Complete(42))
	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

func TestWaitContextCancelled(t *testing.T) {
	f := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Wait(ctx)
	assert.True(t, beanerrors.IsCancelled(err))
}

func TestOnComplete(t *testing.T) {
	f := New()

	var (
		mu   sync.Mutex
		seen []interface{}
	)
	record := func(v interface{}, err error) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, v)
	}

	f.OnComplete(record)
	f.Complete("x")
	f.OnComplete(record)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []interface{}{"x", "x"}, seen)
}

func TestConcurrentResolveHasOneWinner(t *testing.T) {
	f := New()
	var (
		wg   sync.WaitGroup
		wins = make(chan int, 16)
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if f.Complete(i) {
				wins <- i
			}
		}(i)
	}
	wg.Wait()
	close(wins)

	var winners []int
	for w := range wins {
		winners = append(winners, w)
	}
	require.Len(t, winners, 1)

	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, winners[0], v)
}
