package pdfpipeline

import "testing"

func TestClusterFontSizesSeparatesHeadingFromBody(t *testing.T) {
	sizes := []float64{24, 24, 12, 12, 12, 12, 12, 12}
	clusters := clusterFontSizes(sizes, 2)
	if len(clusters) != 2 {
		t.Fatalf("got %d clusters, want 2", len(clusters))
	}
	if clusters[0].centroid != 24 {
		t.Errorf("largest cluster centroid = %v, want 24 (descending order)", clusters[0].centroid)
	}
}

func TestClusterFontSizesEmptyInput(t *testing.T) {
	if clusters := clusterFontSizes(nil, 3); clusters != nil {
		t.Errorf("expected nil clusters for empty input, got %v", clusters)
	}
}

func TestClusterFontSizesFewerSizesThanK(t *testing.T) {
	sizes := []float64{12, 12, 12}
	clusters := clusterFontSizes(sizes, 6)
	if len(clusters) == 0 {
		t.Fatal("expected at least one cluster")
	}
}

func TestAssignHeadingLevelsMostPopulousIsBody(t *testing.T) {
	clusters := []fontCluster{
		{centroid: 24, members: 2},
		{centroid: 12, members: 50},
	}
	levels := assignHeadingLevels(clusters)
	var bodyLevel, headingLevel int = -1, -1
	for _, e := range levels {
		if e.centroid == 12 {
			bodyLevel = e.level
		}
		if e.centroid == 24 {
			headingLevel = e.level
		}
	}
	if bodyLevel != 0 {
		t.Errorf("most populous cluster (12pt) should be body (level 0), got %d", bodyLevel)
	}
	if headingLevel != 1 {
		t.Errorf("24pt cluster should be H1, got %d", headingLevel)
	}
}

func TestAssignHeadingLevelsRejectsTooSmallGap(t *testing.T) {
	// 12.5pt is not a 1.25x ratio nor a 2pt gap over the 12pt body cluster.
	clusters := []fontCluster{
		{centroid: 12.5, members: 2},
		{centroid: 12, members: 50},
	}
	levels := assignHeadingLevels(clusters)
	for _, e := range levels {
		if e.level != 0 {
			t.Errorf("centroid %v should not qualify as a heading, got level %d", e.centroid, e.level)
		}
	}
}

func TestAssignHeadingLevelsSingleClusterIsBody(t *testing.T) {
	levels := assignHeadingLevels([]fontCluster{{centroid: 12, members: 10}})
	if len(levels) != 1 || levels[0].level != 0 {
		t.Errorf("single cluster should be body, got %+v", levels)
	}
}

func TestAssignHeadingLevelsCapsAtSixLevels(t *testing.T) {
	clusters := []fontCluster{
		{centroid: 12, members: 100}, // body
	}
	for _, size := range []float64{14, 16, 18, 20, 22, 24, 26, 28} {
		clusters = append(clusters, fontCluster{centroid: size, members: 1})
	}
	levels := assignHeadingLevels(clusters)
	maxLevel := 0
	for _, e := range levels {
		if e.level > maxLevel {
			maxLevel = e.level
		}
	}
	if maxLevel > 6 {
		t.Errorf("heading levels should never exceed 6, got %d", maxLevel)
	}
}
