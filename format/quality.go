package format

// Quality grades a clustering evaluation score
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
	QualityUnknown   Quality = "unknown"
)

// Davies-Bouldin thresholds; lower is better
const (
	DaviesBouldinExcellent = 1.0
	DaviesBouldinGood      = 1.5
	DaviesBouldinFair      = 2.0
)

// Silhouette thresholds; higher is better
const (
	SilhouetteExcellent = 0.7
	SilhouetteGood      = 0.5
	SilhouetteFair      = 0.25
)

// CSSClass returns the style class used for the grade
func (q Quality) CSSClass() string {
	return "quality-" + string(q)
}

// DaviesBouldinQuality grades a Davies-Bouldin index
func DaviesBouldinQuality(score *float64) Quality {
	if score == nil {
		return QualityUnknown
	}
	switch v := *score; {
	case v <= DaviesBouldinExcellent:
		return QualityExcellent
	case v <= DaviesBouldinGood:
		return QualityGood
	case v <= DaviesBouldinFair:
		return QualityFair
	default:
		return QualityPoor
	}
}

// SilhouetteQuality grades a silhouette score
func SilhouetteQuality(score *float64) Quality {
	if score == nil {
		return QualityUnknown
	}
	switch v := *score; {
	case v >= SilhouetteExcellent:
		return QualityExcellent
	case v >= SilhouetteGood:
		return QualityGood
	case v >= SilhouetteFair:
		return QualityFair
	default:
		return QualityPoor
	}
}
