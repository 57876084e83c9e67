package engine

import (
	"testing"
)

func TestRotateIdentity(t *testing.T) {
	grid := Grid{
		{2, 4, 0},
		{0, 8, 16},
	}

	out := Rotate(grid, 0)
	if !GridsEqual(out, grid) {
		t.Errorf("Rotate 0 must be an identity copy, got %v", out)
	}

	// Identity copy, not an alias.
	out[0][0] = 999
	if grid[0][0] != 2 {
		t.Error("Rotate 0 returned an alias of the input")
	}
}

func TestRotate90SwapsDimensions(t *testing.T) {
	grid := NewGrid(2, 3)
	out := Rotate(grid, 90)

	if len(out) != 3 || len(out[0]) != 2 {
		t.Errorf("Expected 3x2 grid, got %dx%d", len(out), len(out[0]))
	}
}

func TestRotate90MapsTopEdgeToLeftEdge(t *testing.T) {
	// The top row must become the left column so that an upward slide
	// turns into a leftward slide.
	grid := Grid{
		{1, 2},
		{3, 4},
	}

	out := Rotate(grid, 90)
	expected := Grid{
		{2, 4},
		{1, 3},
	}
	if !GridsEqual(out, expected) {
		t.Errorf("Expected %v, got %v", expected, out)
	}
}

func TestRotate180(t *testing.T) {
	grid := Grid{
		{1, 2, 3},
		{4, 5, 6},
	}

	out := Rotate(grid, 180)
	expected := Grid{
		{6, 5, 4},
		{3, 2, 1},
	}
	if !GridsEqual(out, expected) {
		t.Errorf("Expected %v, got %v", expected, out)
	}
}

func TestRotateRoundTripPerDirection(t *testing.T) {
	grids := []Grid{
		{
			{2, 0, 4, 8},
			{0, 16, 0, 0},
			{32, 0, 64, 0},
			{0, 128, 0, 2},
		},
		{
			{2, 4, 8},
			{16, 32, 64},
		},
		NewGrid(1, 5),
	}

	for _, grid := range grids {
		for _, dir := range Directions {
			fwd := forwardRotation[dir]
			rev := reverseRotation[dir]

			out := Rotate(Rotate(grid, fwd), rev)
			if !GridsEqual(out, grid) {
				t.Errorf("Direction %s (fwd=%d rev=%d): round trip changed the grid: %v", dir, fwd, rev, out)
			}
		}
	}

	// Left is the canonical direction and must not rotate at all.
	if forwardRotation[DirLeft] != 0 || reverseRotation[DirLeft] != 0 {
		t.Error("Left must map to the 0 degree rotation")
	}
}

func TestRotateFullCircle(t *testing.T) {
	grid := Grid{
		{2, 4},
		{8, 16},
		{32, 64},
	}

	out := Rotate(Rotate(Rotate(Rotate(grid, 90), 90), 90), 90)
	if !GridsEqual(out, grid) {
		t.Errorf("Four quarter turns must be the identity, got %v", out)
	}
}

func TestRotateEmptyGrid(t *testing.T) {
	out := Rotate(Grid{}, 90)
	if len(out) != 0 {
		t.Errorf("Expected empty grid, got %v", out)
	}
}
