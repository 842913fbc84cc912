package formats

import "testing"

func TestAsSurface_SlotMapping(t *testing.T) {
	e := TileElement{
		Type:            ElementSurface,
		BaseHeight:      14,
		ClearanceHeight: 18,
	}
	e.Slots = [ElementSlotCount]byte{0xEE, 0x13, 7, 3, 0x80, 5, 2, 0xAA}

	s, ok := e.AsSurface()
	if !ok {
		t.Fatal("AsSurface() returned false for a surface element")
	}

	if s.BaseHeight != 14 || s.ClearanceHeight != 18 {
		t.Errorf("heights = %d/%d, want 14/18", s.BaseHeight, s.ClearanceHeight)
	}
	if s.Slope != SlopeNorthUp|SlopeEastUp|SlopeDoubleHeight {
		t.Errorf("slope = %#x, want 0x13", s.Slope)
	}
	if s.WaterHeight != 7 {
		t.Errorf("water height = %d, want 7", s.WaterHeight)
	}
	if s.GrassLength != 3 {
		t.Errorf("grass length = %d, want 3", s.GrassLength)
	}
	if s.Ownership != 0x80 {
		t.Errorf("ownership = %#x, want 0x80", s.Ownership)
	}
	if s.SurfaceStyle != 5 {
		t.Errorf("surface style = %d, want 5", s.SurfaceStyle)
	}
	if s.EdgeStyle != 2 {
		t.Errorf("edge style = %d, want 2", s.EdgeStyle)
	}
}

func TestAsSurface_MasksUnknownSlopeBits(t *testing.T) {
	e := TileElement{Type: ElementSurface}
	e.Slots[1] = 0xE4

	s, _ := e.AsSurface()
	if s.Slope != SlopeSouthUp {
		t.Errorf("slope = %#x, want %#x", s.Slope, SlopeSouthUp)
	}
}

func TestAsSurface_WrongType(t *testing.T) {
	for _, typ := range []ElementType{ElementPath, ElementTrack, ElementWall, ElementCorrupt} {
		if _, ok := (TileElement{Type: typ}).AsSurface(); ok {
			t.Errorf("AsSurface() on %s returned true", typ)
		}
	}
}

func TestNewSurfaceElement(t *testing.T) {
	want := SurfaceElement{
		BaseHeight:      20,
		ClearanceHeight: 24,
		Slope:           SlopeWestUp | SlopeSouthUp,
		WaterHeight:     9,
		GrassLength:     1,
		Ownership:       0x20,
		SurfaceStyle:    4,
		EdgeStyle:       1,
	}

	got, ok := NewSurfaceElement(want).AsSurface()
	if !ok {
		t.Fatal("encoded element is not a surface")
	}
	if got != want {
		t.Errorf("surface = %+v, want %+v", got, want)
	}
}

func TestSlope(t *testing.T) {
	s := SlopeNorthUp | SlopeWestUp | SlopeDoubleHeight

	if !s.Has(SlopeNorthUp) || !s.Has(SlopeWestUp) {
		t.Error("expected north and west corners set")
	}
	if s.Has(SlopeEastUp) {
		t.Error("east corner should not be set")
	}
	if !s.IsDoubleHeight() {
		t.Error("expected double height")
	}
	if s.Corners() != SlopeNorthUp|SlopeWestUp {
		t.Errorf("Corners() = %#x, want %#x", s.Corners(), SlopeNorthUp|SlopeWestUp)
	}
}

func TestElementType_String(t *testing.T) {
	tests := []struct {
		typ      ElementType
		expected string
	}{
		{ElementSurface, "Surface"},
		{ElementLargeScenery, "LargeScenery"},
		{ElementCorrupt, "Corrupt"},
		{ElementType(42), "Unknown(42)"},
	}

	for _, tc := range tests {
		if tc.typ.String() != tc.expected {
			t.Errorf("expected %q, got %q", tc.expected, tc.typ.String())
		}
	}
}

func TestDecodeElement_UnknownTypeIsCorrupt(t *testing.T) {
	record := make([]byte, ElementRecordSize)
	record[0] = 0x3F
	record[2] = 10

	e := decodeElement(record)
	if e.Type != ElementCorrupt {
		t.Errorf("type = %s, want Corrupt", e.Type)
	}
	if e.BaseHeight != 10 {
		t.Errorf("base height = %d, want 10", e.BaseHeight)
	}
}
