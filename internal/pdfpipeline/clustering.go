package pdfpipeline

import "sort"

// fontCluster is one k-means cluster over segment font sizes.
type fontCluster struct {
	centroid float64
	members  int
}

// clusterFontSizes groups fontSizes into at most k clusters using k-means
// with a fixed iteration budget, returning clusters sorted by centroid
// descending (largest font first). Centroids are seeded from the actual
// font-size distribution rather than dividing the range uniformly, which
// is more robust against sparse/duplicated sizes.
func clusterFontSizes(fontSizes []float64, k int) []fontCluster {
	if len(fontSizes) == 0 || k <= 0 {
		return nil
	}

	actualK := k
	if actualK > len(fontSizes) {
		actualK = len(fontSizes)
	}

	unique := dedupSorted(fontSizes)

	centroids := seedCentroids(unique, actualK)

	for iter := 0; iter < kmeansMaxIterations; iter++ {
		assignments := assignToNearest(fontSizes, centroids)

		newCentroids := make([]float64, len(centroids))
		converged := true
		for i, members := range assignments {
			if len(members) == 0 {
				newCentroids[i] = centroids[i]
				continue
			}
			sum := 0.0
			for _, v := range members {
				sum += v
			}
			newCentroids[i] = sum / float64(len(members))
			if abs(newCentroids[i]-centroids[i]) >= kmeansConvergenceThreshold {
				converged = false
			}
		}
		centroids = newCentroids
		if converged {
			break
		}
	}

	assignments := assignToNearest(fontSizes, centroids)
	var clusters []fontCluster
	for i, members := range assignments {
		if len(members) == 0 {
			continue
		}
		clusters = append(clusters, fontCluster{centroid: centroids[i], members: len(members)})
	}

	sort.Slice(clusters, func(i, j int) bool { return clusters[i].centroid > clusters[j].centroid })
	return clusters
}

// dedupSorted returns the distinct font sizes sorted descending, merging
// values within 0.05pt of each other (float imprecision from the content
// stream tokenizer).
func dedupSorted(fontSizes []float64) []float64 {
	sorted := append([]float64(nil), fontSizes...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	var out []float64
	for _, v := range sorted {
		if len(out) == 0 || abs(out[len(out)-1]-v) >= 0.05 {
			out = append(out, v)
		}
	}
	return out
}

// seedCentroids picks k evenly-spaced sizes from unique (descending) if
// there are at least k distinct sizes, else interpolates between the
// extremes to reach k.
func seedCentroids(unique []float64, k int) []float64 {
	if len(unique) >= k {
		step := len(unique) / k
		centroids := make([]float64, k)
		for i := 0; i < k; i++ {
			idx := i * step
			if idx > len(unique)-1 {
				idx = len(unique) - 1
			}
			centroids[i] = unique[idx]
		}
		return centroids
	}

	centroids := append([]float64(nil), unique...)
	if len(centroids) == 0 {
		return centroids
	}
	minFont := centroids[len(centroids)-1]
	maxFont := centroids[0]
	rng := maxFont - minFont

	for len(centroids) < k {
		t := float64(len(centroids)) / float64(k-1)
		centroids = append(centroids, maxFont-t*rng)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(centroids)))
	return centroids
}

func assignToNearest(values []float64, centroids []float64) [][]float64 {
	out := make([][]float64, len(centroids))
	for _, v := range values {
		best := 0
		bestDist := infinity
		for i, c := range centroids {
			d := abs(v - c)
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
		out[best] = append(out[best], v)
	}
	return out
}

const infinity = 1e308

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// assignHeadingLevels implements the "most populous cluster = body" rule:
// the cluster with the most members is body text; clusters with
// sufficiently larger font size (by ratio AND absolute gap) become
// headings H1-H6, largest first, capped at maxHeadingLevels.
func assignHeadingLevels(clusters []fontCluster) []headingMapEntry {
	if len(clusters) == 0 {
		return nil
	}
	if len(clusters) == 1 {
		return []headingMapEntry{{centroid: clusters[0].centroid, level: 0}}
	}

	bodyIdx := 0
	for i, c := range clusters {
		if c.members > clusters[bodyIdx].members {
			bodyIdx = i
		}
	}
	bodyCentroid := clusters[bodyIdx].centroid

	threshold := bodyCentroid * minHeadingFontRatio
	if absGap := bodyCentroid + minHeadingFontGap; absGap > threshold {
		threshold = absGap
	}

	type candidate struct {
		index    int
		centroid float64
	}
	var candidates []candidate
	for i, c := range clusters {
		if i != bodyIdx && c.centroid >= threshold {
			candidates = append(candidates, candidate{index: i, centroid: c.centroid})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].centroid > candidates[j].centroid })

	levelByIndex := map[int]int{}
	for pos, c := range candidates {
		if pos < maxHeadingLevels {
			levelByIndex[c.index] = pos + 1
		}
	}

	result := make([]headingMapEntry, len(clusters))
	for i, c := range clusters {
		if i == bodyIdx {
			result[i] = headingMapEntry{centroid: c.centroid, level: 0}
			continue
		}
		result[i] = headingMapEntry{centroid: c.centroid, level: levelByIndex[i]}
	}
	return result
}
