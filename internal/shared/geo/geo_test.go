package geo

import "testing"

func TestHaversineKm(t *testing.T) {
	// Jakarta (-6.2, 106.816) to Bandung (-6.9175, 107.6191) ~ 115-120 km
	d := HaversineKm(-6.2, 106.816, -6.9175, 107.6191)
	if d < 100 || d > 140 {
		t.Fatalf("unexpected distance: %v", d)
	}
}

func TestPlanarDistanceCloseToHaversine(t *testing.T) {
	// New Delhi, two points about 15 m apart
	planar := PlanarDistanceM(28.6139, 77.2090, 28.6140, 77.2091)
	if planar < 10 || planar > 20 {
		t.Fatalf("unexpected planar distance: %v", planar)
	}

	great := HaversineKm(28.6139, 77.2090, 28.65, 77.25) * 1000
	approx := PlanarDistanceM(28.6139, 77.2090, 28.65, 77.25)
	if diff := great - approx; diff > 5 || diff < -5 {
		t.Fatalf("planar drifted from haversine: %v vs %v", approx, great)
	}
}

func TestGridKey(t *testing.T) {
	if GridKey(28.61391, 77.20904) != "28.614,77.209" {
		t.Fatalf("unexpected key: %s", GridKey(28.61391, 77.20904))
	}
	if GridKey(28.6139, 77.2090) != GridKey(28.6141, 77.2089) {
		t.Fatalf("expected same bucket for nearby points")
	}
}
