package clustering

// DemoResult returns a fixed single-year Fuzzy C-Means result used when no
// dataset has been uploaded yet
func DemoResult() *SingleYearResult {
	db, silhouette := 0.8234, 0.6789

	region := func(name string, ipm, gk, membership float64) Row {
		return Row{
			"kabupaten_kota":   name,
			"tahun":            float64(2023),
			"ipm":              ipm,
			"garis_kemiskinan": gk,
			"membership":       membership,
		}
	}

	return &SingleYearResult{
		Summary: &Summary{
			TotalRegions:  34,
			NumClusters:   3,
			Iterations:    42,
			ExecutionTime: 2.34,
		},
		Evaluation: &Evaluation{
			DaviesBouldin:   &db,
			SilhouetteScore: &silhouette,
		},
		Clusters: []Cluster{
			{
				ID:       IntClusterID(0),
				Centroid: map[string]float64{"ipm": 81.5, "garis_kemiskinan": 580000},
				Members: []Row{
					region("Jakarta Pusat", 82.5, 532000, 0.95),
					region("Jakarta Selatan", 81.3, 580000, 0.92),
					region("Surabaya", 76.8, 465000, 0.87),
				},
			},
			{
				ID:       IntClusterID(1),
				Centroid: map[string]float64{"ipm": 74.2, "garis_kemiskinan": 445000},
				Members: []Row{
					region("Bandung", 75.2, 485000, 0.89),
					region("Semarang", 74.5, 445000, 0.91),
					region("Makassar", 73.2, 380000, 0.85),
				},
			},
			{
				ID:       IntClusterID(2),
				Centroid: map[string]float64{"ipm": 70.1, "garis_kemiskinan": 380000},
				Members: []Row{
					region("Medan", 72.1, 420000, 0.88),
					region("Palembang", 69.8, 385000, 0.84),
					region("Banjarmasin", 68.5, 355000, 0.82),
				},
			},
		},
	}
}
