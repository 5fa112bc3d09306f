package clustering

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestIsNoiseCluster(t *testing.T) {
	var fromString, fromNumber ClusterID
	if err := json.Unmarshal([]byte(`"-1"`), &fromString); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(`-1`), &fromNumber); err != nil {
		t.Fatal(err)
	}

	if !IsNoiseCluster(fromString) || !IsNoiseCluster(fromNumber) || !IsNoiseCluster(NoiseClusterID) {
		t.Error("-1 must be noise in both JSON forms")
	}
	if IsNoiseCluster(IntClusterID(0)) || IsNoiseCluster(StringClusterID("1")) {
		t.Error("regular ids must not be noise")
	}

	for _, in := range []string{`-1.0`, `-1e0`, `-1.00`} {
		var id ClusterID
		if err := json.Unmarshal([]byte(in), &id); err != nil {
			t.Fatal(err)
		}
		if !IsNoiseCluster(id) {
			t.Errorf("numeric id %s must be noise", in)
		}
	}
	if IsNoiseCluster(StringClusterID("-1.0")) || IsNoiseCluster(IntClusterID(-2)) {
		t.Error("only the number -1 and the string \"-1\" are noise")
	}
}

func TestFilterValidClustersDropsFloatNoise(t *testing.T) {
	result, err := DecodeResult([]byte(`{"clusters": [{"id": 0}, {"id": -1.0}]}`))
	if err != nil {
		t.Fatal(err)
	}
	single := result.(*SingleYearResult)
	if got := len(FilterValidClusters(single.Clusters)); got != 1 {
		t.Errorf("expected 1 valid cluster, got %d", got)
	}
}

func TestClusterIDKeepsJSONType(t *testing.T) {
	tests := []string{`3`, `"3"`, `-1`, `"-1"`}
	for _, in := range tests {
		var id ClusterID
		if err := json.Unmarshal([]byte(in), &id); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		out, err := json.Marshal(id)
		if err != nil {
			t.Fatalf("marshal %s: %v", in, err)
		}
		if string(out) != in {
			t.Errorf("round trip of %s gave %s", in, out)
		}
	}
}

func TestClusterColor(t *testing.T) {
	n := len(ClusterPalette)
	for i := 0; i < 3*n; i++ {
		if ClusterColor(i) != ClusterPalette[i%n] {
			t.Errorf("ClusterColor(%d) = %s", i, ClusterColor(i))
		}
	}
	if ClusterColor(-1) != ClusterPalette[n-1] {
		t.Errorf("negative index should wrap, got %s", ClusterColor(-1))
	}
}

func TestClusterLabel(t *testing.T) {
	tests := []struct {
		name    string
		cluster *Cluster
		want    string
	}{
		{"nil", nil, "Unknown"},
		{"noise", &Cluster{ID: NoiseClusterID, Interpretation: &Interpretation{Label: "x"}}, NoiseClusterLabel},
		{"interpretation", &Cluster{ID: IntClusterID(2), Interpretation: &Interpretation{Label: "Sejahtera"}}, "Sejahtera"},
		{"empty interpretation", &Cluster{ID: IntClusterID(2), Interpretation: &Interpretation{}}, "Cluster 2"},
		{"plain", &Cluster{ID: IntClusterID(0)}, "Cluster 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClusterLabel(tt.cluster); got != tt.want {
				t.Errorf("ClusterLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInterpretationLabelScalar(t *testing.T) {
	var c Cluster
	if err := json.Unmarshal([]byte(`{"id": 1, "interpretation": {"label": 7}}`), &c); err != nil {
		t.Fatal(err)
	}
	if ClusterLabel(&c) != "7" {
		t.Errorf("numeric label not kept, got %q", ClusterLabel(&c))
	}
}

func TestFilterValidClusters(t *testing.T) {
	clusters := []Cluster{
		{ID: IntClusterID(0)},
		{ID: NoiseClusterID},
		{ID: IntClusterID(1)},
		{ID: StringClusterID("-1")},
	}

	valid := FilterValidClusters(clusters)
	var ids []string
	for _, c := range valid {
		ids = append(ids, c.ID.String())
	}
	if !reflect.DeepEqual(ids, []string{"0", "1"}) {
		t.Errorf("unexpected clusters %v", ids)
	}

	if got := FilterValidClusters([]ClusterSummary(nil)); got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestClusterMetricValues(t *testing.T) {
	c := Cluster{Members: []Row{
		{"ipm": 70.5},
		{"ipm": "71.5"},
		{"ipm": nil},
		{"ipm": "n/a"},
		{},
		{"ipm": json.Number("69")},
	}}

	got := ClusterMetricValues(c, MetricIPM)
	if !reflect.DeepEqual(got, []float64{70.5, 71.5, 69}) {
		t.Errorf("unexpected values %v", got)
	}
}

func TestParametersFormValues(t *testing.T) {
	p := DefaultParameters()
	values := p.FormValues()
	if values["algorithm"] != "fcm" || values["num_clusters"] != "3" || values["fuzzy_coeff"] != "2" {
		t.Errorf("unexpected FCM form values %v", values)
	}
	if _, ok := values["min_samples"]; ok {
		t.Error("OPTICS fields must not be sent for FCM")
	}

	p.Algorithm = AlgorithmOPTICS
	values = p.FormValues()
	if values["xi"] != "0.05" || values["min_samples"] != "5" {
		t.Errorf("unexpected OPTICS form values %v", values)
	}
	if _, ok := values["num_clusters"]; ok {
		t.Error("FCM fields must not be sent for OPTICS")
	}
}
