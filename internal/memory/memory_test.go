package memory

import "testing"

func TestWriteReadRoundTrip64(t *testing.T) {
	m := New(DefaultSize)
	addr := uint64(0x100)
	want := uint64(0x0102030405060708)
	if err := m.Write64(addr, want); err != nil {
		t.Fatalf("Write64: %v", err)
	}
	got, err := m.Read64(addr)
	if err != nil {
		t.Fatalf("Read64: %v", err)
	}
	if got != want {
		t.Errorf("Read64 = 0x%x, want 0x%x", got, want)
	}
}

func TestBigEndianByteOrder(t *testing.T) {
	m := New(DefaultSize)
	if err := m.Write64(0x100, 0x0102030405060708); err != nil {
		t.Fatalf("Write64: %v", err)
	}
	first, err := m.Read8(0x100)
	if err != nil {
		t.Fatalf("Read8: %v", err)
	}
	if first != 0x01 {
		t.Errorf("first byte = 0x%x, want 0x01", first)
	}
	last, err := m.Read8(0x107)
	if err != nil {
		t.Fatalf("Read8: %v", err)
	}
	if last != 0x08 {
		t.Errorf("last byte = 0x%x, want 0x08", last)
	}
}

func TestRoundTripWidths(t *testing.T) {
	cases := []struct {
		width uint8
		value uint64
	}{
		{1, 0xAB},
		{2, 0xABCD},
		{4, 0xABCD1234},
		{8, 0x0102030405060708},
	}
	for _, c := range cases {
		m := New(DefaultSize)
		if err := m.WriteWidth(0x10, c.width, c.value); err != nil {
			t.Fatalf("WriteWidth(%d): %v", c.width, err)
		}
		got, err := m.ReadWidth(0x10, c.width)
		if err != nil {
			t.Fatalf("ReadWidth(%d): %v", c.width, err)
		}
		if got != c.value {
			t.Errorf("width %d: got 0x%x, want 0x%x", c.width, got, c.value)
		}
	}
}

func TestBoundaryWrite64(t *testing.T) {
	m := New(16)
	if err := m.Write64(8, 1); err != nil {
		t.Errorf("write at pointer_limit-8 should succeed: %v", err)
	}
	if err := m.Write64(9, 1); err == nil {
		t.Errorf("write at pointer_limit-7 should fault")
	}
}

func TestBoundaryRead8(t *testing.T) {
	m := New(16)
	if _, err := m.Read8(15); err != nil {
		t.Errorf("read at pointer_limit-1 should succeed: %v", err)
	}
	if _, err := m.Read8(16); err == nil {
		t.Errorf("read at pointer_limit should fault")
	}
}

func TestPointerLimitIncreaseBoundary(t *testing.T) {
	m := NewWithLimit(16, 32)
	if err := m.PointerLimitIncrease(16); err != nil {
		t.Errorf("increase to max_memory_length should succeed: %v", err)
	}
	if err := m.PointerLimitIncrease(1); err == nil {
		t.Errorf("increase past max_memory_length should fault")
	}
}

func TestIncreaseUpperLimitCapsAtHardCeiling(t *testing.T) {
	m := NewWithLimit(16, HardCeiling-1)
	if err := m.IncreaseUpperLimit(1); err != nil {
		t.Errorf("increase to hard ceiling should succeed: %v", err)
	}
	if err := m.IncreaseUpperLimit(1); err == nil {
		t.Errorf("increase past hard ceiling should fault")
	}
}

func TestEnsureCapacityGrowsWithoutTruncating(t *testing.T) {
	m := New(16)
	if err := m.EnsureCapacity(1024); err != nil {
		t.Fatalf("EnsureCapacity: %v", err)
	}
	if m.CurrentSize() != 1024 {
		t.Errorf("CurrentSize() = %d, want 1024", m.CurrentSize())
	}
	if err := m.Write8(1023, 0x42); err != nil {
		t.Errorf("write within grown region should succeed: %v", err)
	}
}

func TestSplitTaggedAddress(t *testing.T) {
	addr := MakeTaggedAddress(4, 0x200)
	width, offset := SplitTaggedAddress(addr)
	if width != 4 || offset != 0x200 {
		t.Errorf("SplitTaggedAddress = (%d, 0x%x), want (4, 0x200)", width, offset)
	}
}

func TestTaggedReadWrite(t *testing.T) {
	m := New(DefaultSize)
	addr := MakeTaggedAddress(1, 0x200)
	if err := m.WriteTagged(addr, 0xFF); err != nil {
		t.Fatalf("WriteTagged: %v", err)
	}
	got, err := m.ReadTagged(addr)
	if err != nil {
		t.Fatalf("ReadTagged: %v", err)
	}
	if got != 0xFF {
		t.Errorf("ReadTagged = 0x%x, want 0xFF", got)
	}
}
