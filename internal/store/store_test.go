// internal/store/store_test.go
package store

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tamzrod/modbus-master/internal/format"
)

func TestConfigureBuildsInvalidWindow(t *testing.T) {
	s := New()
	s.Configure(100, 5, false)

	want := []Cell{
		{Address: 100}, {Address: 101}, {Address: 102}, {Address: 103}, {Address: 104},
	}
	if diff := cmp.Diff(want, s.Cells()); diff != "" {
		t.Fatalf("cells mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, s.Editable())
	assert.Equal(t, uint16(100), s.Start())
}

func TestConfigureReplacesSequence(t *testing.T) {
	s := New()
	s.Configure(0, 10, false)
	s.SetValue(3, 42)

	s.Configure(20, 2, true)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, uint16(0), s.Value(0))
	assert.True(t, s.Editable())
	assert.Equal(t, uint16(21), s.Cells()[1].Address)
}

func TestSetAllInvalidKeepsValues(t *testing.T) {
	s := New()
	s.Configure(0, 3, false)
	for i := 0; i < 3; i++ {
		require.True(t, s.SetValue(i, uint16(i+7)))
	}

	s.SetAllInvalid()

	want := []Cell{
		{Address: 0, Value: 7}, {Address: 1, Value: 8}, {Address: 2, Value: 9},
	}
	if diff := cmp.Diff(want, s.Cells()); diff != "" {
		t.Fatalf("cells mismatch (-want +got):\n%s", diff)
	}
}

func TestSetValueOutOfRange(t *testing.T) {
	s := New()
	s.Configure(0, 2, false)

	assert.False(t, s.SetValue(2, 1))
	assert.False(t, s.SetValue(-1, 1))
	assert.Equal(t, uint16(0), s.Value(5))
	assert.Equal(t, []uint16{0, 0, 0}, s.Values(3))
}

func TestTextAndSetText(t *testing.T) {
	s := New()
	s.Configure(0, 2, true)
	s.SetDisplay(Display{Base: format.Hex, Is16Bit: true})

	require.NoError(t, s.SetText(0, "00ff"))
	assert.Equal(t, "00FF", s.Text(0))
	assert.Equal(t, uint16(0xFF), s.Value(0))

	s.SetDisplay(Display{Base: format.Decimal, Signed: true, Is16Bit: true})
	require.NoError(t, s.SetText(1, "-2"))
	assert.Equal(t, uint16(0xFFFE), s.Value(1))
	assert.Equal(t, "-2", s.Text(1))

	assert.Error(t, s.SetText(2, "1"))
}

func TestSetTextCoilBounds(t *testing.T) {
	s := New()
	s.Configure(0, 1, true)
	s.SetDisplay(Display{Base: format.Decimal})

	assert.Error(t, s.SetText(0, "2"))
	require.NoError(t, s.SetText(0, "1"))
	assert.Equal(t, uint16(1), s.Value(0))
}

func TestConcurrentReadersSeeWholeWindows(t *testing.T) {
	s := New()
	s.Configure(0, 4, false)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			if i%2 == 0 {
				s.Configure(0, 4, false)
			} else {
				s.Configure(0, 8, false)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			n := len(s.Cells())
			if n != 4 && n != 8 {
				t.Errorf("partial window of %d cells", n)
				return
			}
		}
	}()
	wg.Wait()
}
