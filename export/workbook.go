package export

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
	"github.com/Nicholas-Eugene/cluster-web-frontend/format"
)

// SummarySheet is the name of the first sheet of a workbook
const SummarySheet = "Ringkasan"

// regionField holds the region name in data rows
const regionField = "kabupaten_kota"

// WriteWorkbook writes report as an XLSX workbook: a summary sheet with one
// row per year, then one sheet per year listing clusters and their members.
func WriteWorkbook(report clustering.NormalizedReport, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to rename summary sheet: %w", err)
	}

	if err := writeSummary(f, report); err != nil {
		return err
	}

	years := report.Years()
	for i, name := range sheetNames(years) {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
		if err := writeYear(f, name, report.YearlyResults[years[i]]); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// sheetNames maps year keys to valid, unique sheet names. Characters Excel
// rejects are dropped, names are cut to the length limit, and clashes with
// the summary sheet or each other get a numeric suffix.
func sheetNames(years []string) []string {
	taken := map[string]bool{strings.ToLower(SummarySheet): true}
	names := make([]string, 0, len(years))

	for _, year := range years {
		base := strings.Map(func(r rune) rune {
			if strings.ContainsRune(`/\?*[]:`, r) {
				return -1
			}
			return r
		}, year)
		base = strings.Trim(base, "' ")
		if base == "" {
			base = "Tahun"
		}

		name := truncateRunes(base, excelize.MaxSheetNameLength)
		for n := 2; taken[strings.ToLower(name)]; n++ {
			suffix := " (" + strconv.Itoa(n) + ")"
			name = truncateRunes(base, excelize.MaxSheetNameLength-len(suffix)) + suffix
		}
		taken[strings.ToLower(name)] = true
		names = append(names, name)
	}
	return names
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimRight(string(runes[:limit]), "'")
}

func writeSummary(f *excelize.File, report clustering.NormalizedReport) error {
	sw := sheetWriter{f: f, sheet: SummarySheet}

	sw.row(1, "Algoritma", report.Algorithm)
	sw.row(3, "Tahun", "Jumlah Cluster", "Jumlah Wilayah", "Davies-Bouldin", "Kualitas DB", "Silhouette", "Kualitas Silhouette")

	for i, year := range report.Years() {
		yr := report.YearlyResults[year]
		valid := clustering.FilterValidClusters(yr.Clusters)
		sw.row(4+i,
			year,
			len(valid),
			len(yr.Data),
			scoreCell(yr.Evaluation.DaviesBouldin),
			string(format.DaviesBouldinQuality(yr.Evaluation.DaviesBouldin)),
			scoreCell(yr.Evaluation.SilhouetteScore),
			string(format.SilhouetteQuality(yr.Evaluation.SilhouetteScore)),
		)
	}
	return sw.err
}

func writeYear(f *excelize.File, sheet string, yr clustering.YearReport) error {
	sw := sheetWriter{f: f, sheet: sheet}

	centroidKeys := centroidMetrics(yr.Clusters)
	header := []any{"Cluster", "Label", "Jumlah Anggota"}
	for _, key := range centroidKeys {
		header = append(header, "Centroid "+clustering.MetricDisplayName(key))
	}
	sw.row(1, header...)

	rowNum := 2
	for _, c := range yr.Clusters {
		cells := []any{c.ID.String(), c.Label(), c.Size}
		for _, key := range centroidKeys {
			if v, ok := c.Centroid[key]; ok {
				cells = append(cells, v)
			} else {
				cells = append(cells, "")
			}
		}
		sw.row(rowNum, cells...)
		rowNum++
	}

	// members table
	rowNum++
	memberHeader := []any{"Cluster", "Wilayah"}
	for _, metric := range clustering.Metrics {
		memberHeader = append(memberHeader, clustering.MetricDisplayName(metric))
	}
	sw.row(rowNum, memberHeader...)
	rowNum++

	for _, c := range yr.Clusters {
		for _, member := range c.Members {
			cells := []any{c.Label(), member.Text(regionField)}
			for _, metric := range clustering.Metrics {
				if v, ok := member.Float(metric); ok {
					cells = append(cells, v)
				} else {
					cells = append(cells, "")
				}
			}
			sw.row(rowNum, cells...)
			rowNum++
		}
	}

	return sw.err
}

// centroidMetrics returns the sorted union of centroid keys
func centroidMetrics(clusters []clustering.ClusterSummary) []string {
	seen := make(map[string]bool)
	var keys []string
	for _, c := range clusters {
		for key := range c.Centroid {
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

func scoreCell(score *float64) any {
	if score == nil {
		return format.NotAvailable
	}
	return *score
}

// sheetWriter keeps the first error of a run of cell writes
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (s *sheetWriter) row(row int, values ...any) {
	for col, v := range values {
		if s.err != nil {
			return
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			s.err = err
			return
		}
		if err := s.f.SetCellValue(s.sheet, cell, v); err != nil {
			s.err = fmt.Errorf("failed to write %s!%s: %w", s.sheet, cell, err)
		}
	}
}
