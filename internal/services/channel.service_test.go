package services

import (
	"sync"
	"testing"

	"diskmosaic/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelManyProducers(t *testing.T) {
	tx, rx := NewChannel()
	const producers, perProducer = 8, 500

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				msg := models.DirectoryScanDoneMessage{Result: models.ScanResult{FileCount: uint64(p), Size: uint64(i)}}
				assert.NoError(t, tx.Send(msg))
			}
		}(p)
	}
	wg.Wait()

	msgs := rx.Drain()
	require.Len(t, msgs, producers*perProducer)

	// Messages from one producer arrive in send order.
	next := make(map[uint64]uint64)
	for _, m := range msgs {
		r := m.(models.DirectoryScanDoneMessage).Result
		assert.Equal(t, next[r.FileCount], r.Size)
		next[r.FileCount] = r.Size + 1
	}
}

func TestChannelDrainIsNonBlocking(t *testing.T) {
	_, rx := NewChannel()
	assert.Empty(t, rx.Drain())
	assert.Zero(t, rx.Len())
}

func TestChannelClose(t *testing.T) {
	tx, rx := NewChannel()
	require.NoError(t, tx.Send(models.FinishedMessage{}))
	assert.Equal(t, 1, rx.Len())

	rx.Close()

	assert.ErrorIs(t, tx.Send(models.FinishedMessage{}), ErrReceiverClosed)
	assert.Empty(t, rx.Drain())
}

func TestBucketConcurrentAdds(t *testing.T) {
	var b smallFileBucket
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.add(3)
		}()
	}
	wg.Wait()

	assert.Equal(t, models.ScanResult{FileCount: 100, Size: 300}, b.stats())
	n := b.node(1)
	require.NotNil(t, n)
	assert.Equal(t, "100 small files", n.Name)
}

func TestBucketWithoutBytesHasNoNode(t *testing.T) {
	var b smallFileBucket
	assert.Nil(t, b.node(0))
	b.add(0)
	assert.Nil(t, b.node(0))
	assert.Equal(t, uint64(1), b.stats().FileCount)
}

func TestCancelToken(t *testing.T) {
	var nilToken *CancelToken
	assert.False(t, nilToken.Cancelled())

	tok := NewCancelToken()
	assert.False(t, tok.Cancelled())
	tok.Cancel()
	tok.Cancel()
	assert.True(t, tok.Cancelled())
}
