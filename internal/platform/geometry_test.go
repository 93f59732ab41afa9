package platform

import "testing"

func TestScaleToVirtualDesktop_PrimaryMonitorOrigin(t *testing.T) {
	vs := VirtualScreen{OriginX: 0, OriginY: 0, Width: 1920, Height: 1080}
	dx, dy := ScaleToVirtualDesktop(0, 0, vs)
	if dx != 0 || dy != 0 {
		t.Fatalf("expected (0,0), got (%d,%d)", dx, dy)
	}

	dx, dy = ScaleToVirtualDesktop(1919, 1079, vs)
	if dx != 65535 || dy != 65535 {
		t.Fatalf("expected (65535,65535) at bottom-right, got (%d,%d)", dx, dy)
	}
}

// TestScaleToVirtualDesktop_SecondaryMonitor verifies that a point on a
// secondary monitor offset from the origin scales relative to the full
// virtual desktop, not the primary monitor alone, element center (2500,500)).
func TestScaleToVirtualDesktop_SecondaryMonitor(t *testing.T) {
	// Two 1920x1080 monitors side by side: virtual screen is 3840x1080.
	vs := VirtualScreen{OriginX: 0, OriginY: 0, Width: 3840, Height: 1080}

	dx, dy := ScaleToVirtualDesktop(2500, 500, vs)

	// The point is in the right half: dx must exceed the midpoint (32767).
	if dx <= 32767 {
		t.Fatalf("expected secondary-monitor point to scale past midpoint, got dx=%d", dx)
	}
	if dy == 0 {
		t.Fatalf("expected non-zero dy for y=500, got 0")
	}
}

func TestScaleToVirtualDesktop_ClampsOutOfBounds(t *testing.T) {
	vs := VirtualScreen{OriginX: 100, OriginY: 100, Width: 800, Height: 600}

	dx, dy := ScaleToVirtualDesktop(0, 0, vs)
	if dx != 0 || dy != 0 {
		t.Fatalf("expected clamp to (0,0) for coordinates below origin, got (%d,%d)", dx, dy)
	}

	dx, dy = ScaleToVirtualDesktop(10000, 10000, vs)
	if dx != 65535 || dy != 65535 {
		t.Fatalf("expected clamp to (65535,65535) for coordinates beyond extent, got (%d,%d)", dx, dy)
	}
}

func TestScaleToVirtualDesktop_DegenerateExtentReturnsZero(t *testing.T) {
	vs := VirtualScreen{OriginX: 0, OriginY: 0, Width: 1, Height: 0}
	dx, dy := ScaleToVirtualDesktop(5, 5, vs)
	if dx != 0 || dy != 0 {
		t.Fatalf("expected (0,0) for degenerate extent, got (%d,%d)", dx, dy)
	}
}
