package mesh

// UnitSquare builds a 2-triangle, 4-vertex regression fixture: a unit
// square split along one diagonal.
func UnitSquare() *Mesh {
	m := New(2)
	coords := []float64{
		0, 0,
		1, 0,
		1, 1,
		0, 1,
	}
	m.SetNents(VERT, 4)
	m.SetCoords(coords)
	tris := []int32{
		0, 1, 2,
		0, 2, 3,
	}
	m.SetVertsOf(TRI, tris)
	return m
}

// UnitCube builds a 6-tetrahedron, 8-vertex decomposition of the unit
// cube (the standard Kuhn/Freudenthal triangulation).
func UnitCube() *Mesh {
	m := New(3)
	coords := []float64{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 1, 0,
		0, 0, 1,
		1, 0, 1,
		1, 1, 1,
		0, 1, 1,
	}
	m.SetNents(VERT, 8)
	m.SetCoords(coords)
	// Kuhn triangulation: 6 tets fanning around the cube's main diagonal
	// from vertex 0 to vertex 6.
	tets := []int32{
		0, 1, 2, 6,
		0, 2, 3, 6,
		0, 3, 7, 6,
		0, 7, 4, 6,
		0, 4, 5, 6,
		0, 5, 1, 6,
	}
	m.SetVertsOf(TET, tets)
	return m
}
