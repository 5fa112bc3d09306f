package clustering

// Algorithm identifies a backend clustering algorithm
type Algorithm string

const (
	AlgorithmFCM    Algorithm = "fcm"
	AlgorithmOPTICS Algorithm = "optics"
)

// DisplayName returns the human readable algorithm name
func (a Algorithm) DisplayName() string {
	switch a {
	case AlgorithmFCM:
		return "Fuzzy C-Means"
	case AlgorithmOPTICS:
		return "OPTICS"
	default:
		return string(a)
	}
}

// Mode is the clustering mode: one model per year or one model over all years
type Mode string

const (
	ModePerYear  Mode = "per_year"
	ModeAllYears Mode = "all_years"
)

// ClusterPalette is the color scheme shared by every visualization.
// Index with ClusterColor, never directly.
var ClusterPalette = [...]string{
	"#667eea", // purple
	"#48bb78", // green
	"#ed8936", // orange
	"#4299e1", // blue
	"#f56565", // red
	"#38b2ac", // teal
	"#9f7aea", // light purple
	"#ecc94b", // yellow
	"#f687b3", // pink
	"#4fd1c5", // cyan
}

// NoiseClusterLabel is the label shown for the OPTICS noise pseudo-cluster
const NoiseClusterLabel = "Noise (Outliers)"

// Metric keys used by the backend
const (
	MetricIPM                  = "ipm"
	MetricGarisKemiskinan      = "garis_kemiskinan"
	MetricPengeluaranPerKapita = "pengeluaran_per_kapita"
	MetricMembership           = "membership"
)

// Metrics lists the numeric metrics clustered by the backend, in display order
var Metrics = []string{MetricIPM, MetricGarisKemiskinan, MetricPengeluaranPerKapita}

var metricLabels = map[string]string{
	MetricIPM:                  "IPM",
	MetricGarisKemiskinan:      "Garis Kemiskinan (Rp)",
	MetricPengeluaranPerKapita: "Pengeluaran Per Kapita (Rp)",
}

var metricDisplayNames = map[string]string{
	MetricIPM:                  "Indeks Pembangunan Manusia",
	MetricGarisKemiskinan:      "Garis Kemiskinan",
	MetricPengeluaranPerKapita: "Pengeluaran Per Kapita",
}

// currencyMetrics are metrics expressed in Rupiah
var currencyMetrics = map[string]bool{
	MetricGarisKemiskinan:      true,
	MetricPengeluaranPerKapita: true,
}

// FormatMetricLabel returns the short label for a metric key, or the key itself
func FormatMetricLabel(metric string) string {
	if label, ok := metricLabels[metric]; ok {
		return label
	}
	return metric
}

// MetricDisplayName returns the long chart title for a metric key, or the key itself
func MetricDisplayName(metric string) string {
	if name, ok := metricDisplayNames[metric]; ok {
		return name
	}
	return metric
}

// IsCurrencyMetric reports whether the metric is an amount in Rupiah
func IsCurrencyMetric(metric string) bool {
	return currencyMetrics[metric]
}

// Upload limits
const (
	MaxUploadSizeMB    = 10
	MaxUploadSizeBytes = MaxUploadSizeMB * 1024 * 1024
)

// AcceptedUploadExtensions lists the dataset formats the backend accepts
var AcceptedUploadExtensions = []string{".csv", ".xlsx", ".xls"}

// AcceptedUploadMimeTypes lists the MIME types matching AcceptedUploadExtensions
var AcceptedUploadMimeTypes = map[string]string{
	".csv":  "text/csv",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// User facing messages
const (
	MsgFileUploadFailed   = "Gagal mengunggah file. Pastikan file dalam format yang benar."
	MsgNoSession          = "Session ID tidak tersedia."
	MsgPDFGenerationFail  = "Gagal membuat PDF. Silakan coba lagi."
	MsgDataLoadFailed     = "Gagal memuat data hasil clustering."
	MsgInvalidFile        = "File tidak valid. Gunakan format CSV atau Excel (.xlsx)."
	MsgFileTooLarge       = "Ukuran file terlalu besar. Maksimal 10MB."
	MsgFileUploadSuccess  = "File berhasil diunggah dan diproses."
	MsgPDFDownloadSuccess = "PDF berhasil diunduh."
	MsgDataExportSuccess  = "Data berhasil diekspor."
)
