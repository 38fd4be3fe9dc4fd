// Package codec serializes the store to the JSON backup and CSV report formats
// and parses backups for restore.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/serialpro/internal/domain/models"
	"github.com/mamadbah2/serialpro/internal/query"
	"github.com/mamadbah2/serialpro/internal/store"
)

const (
	// JSONContentType is the MIME type of backup files.
	JSONContentType = "application/json"
	// CSVContentType is the MIME type of report files.
	CSVContentType = "text/csv; charset=utf-8"

	exportedAtLayout = "2006-01-02T15:04:05.000Z"
	fileDateLayout   = "2006-01-02"
	utf8BOM          = "\uFEFF"
)

var (
	// ErrUnsupportedExtension rejects import files not named *.json.
	ErrUnsupportedExtension = errors.New("restore accepts system backup files (.json) only")
	// ErrInvalidBackup reports content that is not a JSON backup document.
	ErrInvalidBackup = errors.New("invalid backup file format or corrupted file")
)

// CSVHeader lists the report column labels in output order.
var CSVHeader = []string{"시리얼 번호", "제품명", "제품 코드", "카테고리", "납품 업체", "출고일자", "상태", "비고"}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// BackupFileName names a JSON backup taken at now.
func BackupFileName(now time.Time) string {
	return fmt.Sprintf("serial_system_backup_%s.json", now.UTC().Format(fileDateLayout))
}

// ReportFileName names a CSV report taken at now.
func ReportFileName(now time.Time) string {
	return fmt.Sprintf("serial_list_%s.csv", now.UTC().Format(fileDateLayout))
}

// ExportedAt formats the provenance timestamp of a backup.
func ExportedAt(now time.Time) string {
	return now.UTC().Format(exportedAtLayout)
}

// EncodeBackup renders the full snapshot as an indented JSON backup document.
func EncodeBackup(snap store.Snapshot, now time.Time) ([]byte, error) {
	doc := models.Backup{
		Products:   snap.Products,
		Records:    snap.Records,
		ExportedAt: ExportedAt(now),
	}
	if doc.Products == nil {
		doc.Products = []models.Product{}
	}
	if doc.Records == nil {
		doc.Records = []models.ShipmentRecord{}
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode backup: %w", err)
	}
	return out, nil
}

// ReportRows resolves each record into its report columns, in store order.
func ReportRows(snap store.Snapshot) [][]string {
	rows := make([][]string, 0, len(snap.Records))
	for _, r := range snap.Records {
		p, _ := query.FindProduct(snap.Products, r.ProductID)
		rows = append(rows, []string{
			r.Serial,
			p.Name,
			p.Code,
			p.Category,
			r.Customer,
			r.ShipDate,
			r.Status,
			lineBreaks.Replace(r.Memo),
		})
	}
	return rows
}

// EncodeReport renders the CSV report: a byte-order mark, the header line,
// then one fully quoted line per record, joined by "\n".
func EncodeReport(snap store.Snapshot) []byte {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)
	buf.WriteString(strings.Join(CSVHeader, ","))
	for _, row := range ReportRows(snap) {
		buf.WriteByte('\n')
		for i, field := range row {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(quote(field))
		}
	}
	return buf.Bytes()
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

// CheckImportName rejects files whose name does not end in .json.
func CheckImportName(name string) error {
	if !strings.HasSuffix(strings.ToLower(name), ".json") {
		return ErrUnsupportedExtension
	}
	return nil
}

// DecodeBackup parses a backup document into a restore candidate. A field is
// taken whenever it holds an array. Elements are decoded one by one and never
// dropped: a value of the wrong type leaves that entity field at its zero value.
func DecodeBackup(data []byte) (models.RestoreCandidate, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return models.RestoreCandidate{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if fields == nil {
		return models.RestoreCandidate{}, fmt.Errorf("%w: document is null", ErrInvalidBackup)
	}

	var candidate models.RestoreCandidate
	if raw, ok := fields["products"]; ok && isArray(raw) {
		candidate.Products = decodeEach[models.Product](raw)
		candidate.HasProducts = true
	}
	if raw, ok := fields["records"]; ok && isArray(raw) {
		candidate.Records = decodeEach[models.ShipmentRecord](raw)
		candidate.HasRecords = true
	}
	if raw, ok := fields["exportedAt"]; ok {
		var exportedAt string
		if err := json.Unmarshal(raw, &exportedAt); err == nil {
			candidate.ExportedAt = exportedAt
		}
	}
	return candidate, nil
}

// decodeEach decodes every element of a JSON array into T. encoding/json keeps
// decoding past a type mismatch, so the fields that fit are still filled.
func decodeEach[T any](raw json.RawMessage) []T {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return []T{}
	}
	out := make([]T, len(elems))
	for i, elem := range elems {
		_ = json.Unmarshal(elem, &out[i])
	}
	return out
}

func isArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
