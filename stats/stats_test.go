package stats

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregatorReadLengthHistogram(t *testing.T) {
	a := NewAggregator(false, false)
	a.AddReadLength(10)
	a.AddReadLength(10)
	a.AddReadLength(20)
	a.AddRecords(3)

	snap := a.Snapshot(100, 100, nil, nil)
	assert.Equal(t, int64(2), snap.ReadLengths[10])
	assert.Equal(t, int64(1), snap.ReadLengths[20])
	assert.Equal(t, 20, snap.LongestRead)
	assert.Equal(t, int64(3), snap.RecordsParsed)
}

func TestAggregatorReadLengthClampsToMax(t *testing.T) {
	a := NewAggregator(false, false)
	a.AddReadLength(MaxReadLength + 500)

	snap := a.Snapshot(0, 0, nil, nil)
	assert.Equal(t, int64(1), snap.ReadLengths[MaxReadLength-1])
}

func TestAggregatorCompositionOptIn(t *testing.T) {
	off := NewAggregator(false, false)
	off.AddComposition([]byte("ACGTN"))
	snapOff := off.Snapshot(0, 0, nil, nil)
	assert.Nil(t, snapOff.Composition)

	on := NewAggregator(true, false)
	on.AddComposition([]byte("AACGTN"))
	on.AddComposition([]byte("AAXX"))
	snapOn := on.Snapshot(0, 0, nil, nil)
	if assert.NotNil(t, snapOn.Composition) {
		assert.Equal(t, int64(4), snapOn.Composition.A)
		assert.Equal(t, int64(1), snapOn.Composition.C)
		assert.Equal(t, int64(1), snapOn.Composition.G)
		assert.Equal(t, int64(1), snapOn.Composition.T)
		assert.Equal(t, int64(1), snapOn.Composition.N)
		assert.Equal(t, int64(2), snapOn.Composition.Other)
	}
}

func TestAggregatorQualitySweepOptIn(t *testing.T) {
	a := NewAggregator(false, true)
	a.AddQualitySweep([]byte("IIII!!!!IIII"), 'I')
	snap := a.Snapshot(0, 0, nil, nil)
	if assert.NotNil(t, snap.QualitySweep) {
		assert.Len(t, snap.QualitySweep, 2*AMinSteps)
	}
}

func TestAggregatorConcurrentAdds(t *testing.T) {
	a := NewAggregator(true, true)
	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				a.AddReadLength(50)
				a.AddRecords(1)
				a.AddComposition([]byte("ACGT"))
				a.AddQualitySweep([]byte("IIIIIIII"), 'I')
			}
		}()
	}
	wg.Wait()

	snap := a.Snapshot(0, 0, nil, nil)
	assert.Equal(t, int64(1600), snap.ReadLengths[50])
	assert.Equal(t, int64(1600), snap.RecordsParsed)
	assert.Equal(t, int64(1600), snap.Composition.A)
}
