package clustering

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// The backend result is loosely typed. Fields of an unexpected type fall back
// to their zero value instead of failing the whole result, and a per-year
// entry that cannot be decoded at all is kept as a failed year.

// UnmarshalJSON decodes each year on its own so one malformed year does not
// lose the others
func (r *PerYearResult) UnmarshalJSON(data []byte) error {
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return fmt.Errorf("per-year result must be an object")
	}

	*r = PerYearResult{
		ResultHeader:   decodeHeader(root),
		ClusteringType: root.Get("clustering_type").String(),
		ResultsPerYear: make(map[Year]YearResult),
	}

	root.Get("results_per_year").ForEach(func(key, value gjson.Result) bool {
		year := Year(key.String())
		if value.Type == gjson.Null {
			r.ResultsPerYear[year] = YearResult{Error: "no result for this year"}
			return true
		}
		var yr YearResult
		if err := json.Unmarshal([]byte(value.Raw), &yr); err != nil {
			yr = YearResult{Error: fmt.Sprintf("invalid year result: %v", err)}
		}
		r.ResultsPerYear[year] = yr
		return true
	})
	return nil
}

// UnmarshalJSON accepts an error of any type. A truthy error marks the year
// as failed.
func (y *YearResult) UnmarshalJSON(data []byte) error {
	type plain YearResult
	var raw struct {
		plain
		Error              json.RawMessage `json:"error"`
		DaviesBouldinScore json.RawMessage `json:"davies_bouldin_score"`
		SilhouetteScore    json.RawMessage `json:"silhouette_score"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*y = YearResult(raw.plain)
	y.Error = errorText(gjson.ParseBytes(raw.Error))
	y.DaviesBouldinScore = optionalNumber(gjson.ParseBytes(raw.DaviesBouldinScore))
	y.SilhouetteScore = optionalNumber(gjson.ParseBytes(raw.SilhouetteScore))
	return nil
}

// UnmarshalJSON reads the header leniently and the rest as usual
func (r *SingleYearResult) UnmarshalJSON(data []byte) error {
	type plain SingleYearResult
	var raw struct {
		plain
		Algorithm      json.RawMessage `json:"algorithm"`
		OverallSummary json.RawMessage `json:"overall_summary"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = SingleYearResult(raw.plain)
	r.ResultHeader = decodeHeader(gjson.ParseBytes(data))
	return nil
}

// UnmarshalJSON keeps numeric counts in any JSON spelling and ignores the rest
func (s *Summary) UnmarshalJSON(data []byte) error {
	*s = Summary{}
	v := gjson.ParseBytes(data)
	if !v.IsObject() {
		return nil
	}

	if year := v.Get("selectedYear"); year.Type == gjson.String || year.Type == gjson.Number {
		s.SelectedYear = Year(year.String())
	}
	s.TotalRegions = optionalInt(v.Get("total_regions"))
	s.NumClusters = optionalInt(v.Get("num_clusters"))
	s.Iterations = optionalInt(v.Get("iterations"))
	if t := optionalNumber(v.Get("execution_time")); t != nil {
		s.ExecutionTime = *t
	}
	return nil
}

// UnmarshalJSON leaves a score nil unless it is a finite number
func (e *Evaluation) UnmarshalJSON(data []byte) error {
	*e = Evaluation{}
	v := gjson.ParseBytes(data)
	if !v.IsObject() {
		return nil
	}
	e.DaviesBouldin = optionalNumber(v.Get("davies_bouldin"))
	e.SilhouetteScore = optionalNumber(v.Get("silhouette_score"))
	return nil
}

// UnmarshalJSON requires a scalar id. Members that are not objects are
// skipped and only numeric centroid entries are kept.
func (c *Cluster) UnmarshalJSON(data []byte) error {
	*c = Cluster{}
	v := gjson.ParseBytes(data)
	if !v.IsObject() {
		return fmt.Errorf("cluster must be an object")
	}

	if id := v.Get("id"); id.Exists() {
		if err := c.ID.UnmarshalJSON([]byte(id.Raw)); err != nil {
			return err
		}
	}

	v.Get("members").ForEach(func(_, member gjson.Result) bool {
		if !member.IsObject() {
			return true
		}
		var row Row
		if err := json.Unmarshal([]byte(member.Raw), &row); err == nil {
			c.Members = append(c.Members, row)
		}
		return true
	})

	if centroid := v.Get("centroid"); centroid.IsObject() {
		c.Centroid = make(map[string]float64)
		centroid.ForEach(func(key, value gjson.Result) bool {
			if value.Type == gjson.Number {
				c.Centroid[key.String()] = value.Float()
			}
			return true
		})
	}

	if interpretation := v.Get("interpretation"); interpretation.IsObject() {
		c.Interpretation = &Interpretation{}
		if err := c.Interpretation.UnmarshalJSON([]byte(interpretation.Raw)); err != nil {
			return err
		}
	}
	return nil
}

func decodeHeader(v gjson.Result) ResultHeader {
	var h ResultHeader
	if algorithm := v.Get("algorithm"); algorithm.Type == gjson.String {
		h.Algorithm = algorithm.Str
	}
	if overall := v.Get("overall_summary"); overall.IsObject() {
		h.OverallSummary = &OverallSummary{}
		if algorithm := overall.Get("algorithm"); algorithm.Type == gjson.String {
			h.OverallSummary.Algorithm = algorithm.Str
		}
	}
	return h
}

// errorText follows JavaScript truthiness: null, false, 0 and "" are not
// errors. Objects yield their message or error field when present.
func errorText(v gjson.Result) string {
	switch v.Type {
	case gjson.Null, gjson.False:
		return ""
	case gjson.True:
		return "unknown error"
	case gjson.String:
		return v.Str
	case gjson.Number:
		if v.Float() == 0 {
			return ""
		}
		return v.String()
	}

	if !v.Exists() {
		return ""
	}
	for _, field := range []string{"message", "error", "detail"} {
		if msg := v.Get(field); msg.Type == gjson.String && msg.Str != "" {
			return msg.Str
		}
	}
	return v.Raw
}

// optionalNumber returns a finite number or numeric string, nil otherwise
func optionalNumber(v gjson.Result) *float64 {
	var f float64
	switch v.Type {
	case gjson.Number:
		f = v.Float()
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func optionalInt(v gjson.Result) int {
	f := optionalNumber(v)
	if f == nil {
		return 0
	}
	return int(*f)
}
