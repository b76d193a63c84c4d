package importer

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/fxstore/internal/types"
	"github.com/rxtech-lab/fxstore/pkg/errors"
)

// DateLayout is the layout of the Date column, e.g. "20230101 120000".
// Values carry no zone and are read as UTC.
const DateLayout = "20060102 150405"

// CSVHeader lists the required columns in order.
var CSVHeader = []string{"Date", "Open", "High", "Low", "Close", "Volume"}

// maxEpochSeconds keeps seconds * 1e9 inside int64.
const maxEpochSeconds = math.MaxInt64 / int64(time.Second)

// csvDate is the Date column in nanoseconds since the epoch.
type csvDate int64

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (d *csvDate) UnmarshalCSV(value string) error {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYYMMDD HHMMSS", value)
	}

	seconds := t.Unix()
	if seconds < 0 {
		return fmt.Errorf("date %q is before the Unix epoch", value)
	}

	if seconds > maxEpochSeconds {
		return fmt.Errorf("date %q is out of range", value)
	}

	*d = csvDate(seconds * int64(time.Second))

	return nil
}

// csvPrice rejects empty cells, which gocsv would otherwise read as zero,
// and non-finite values.
type csvPrice float64

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (p *csvPrice) UnmarshalCSV(value string) error {
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fmt.Errorf("invalid price %q", value)
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("price %q is not a finite number", value)
	}

	*p = csvPrice(v)

	return nil
}

type csvVolume uint64

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (v *csvVolume) UnmarshalCSV(value string) error {
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid volume %q", value)
	}

	*v = csvVolume(n)

	return nil
}

type csvRow struct {
	Date   csvDate   `csv:"Date"`
	Open   csvPrice  `csv:"Open"`
	High   csvPrice  `csv:"High"`
	Low    csvPrice  `csv:"Low"`
	Close  csvPrice  `csv:"Close"`
	Volume csvVolume `csv:"Volume"`
}

func (r csvRow) bar() types.Bar {
	return types.Bar{
		Timestamp: int64(r.Date),
		Open:      float64(r.Open),
		High:      float64(r.High),
		Low:       float64(r.Low),
		Close:     float64(r.Close),
		Volume:    uint64(r.Volume),
	}
}

// CSVSource reads bars from a Date,Open,High,Low,Close,Volume file.
type CSVSource struct {
	name string
	open func() (io.ReadCloser, error)
}

// NewCSVFileSource creates a source that reads the CSV file at path.
func NewCSVFileSource(path string) *CSVSource {
	return &CSVSource{
		name: path,
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// NewCSVReaderSource creates a source over an already open stream.
// name is only used in errors and logs.
func NewCSVReaderSource(name string, r io.Reader) *CSVSource {
	return &CSVSource{
		name: name,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(r), nil
		},
	}
}

// Name implements Source.
func (s *CSVSource) Name() string {
	return s.name
}

// Load implements Source.
func (s *CSVSource) Load() ([]types.Bar, error) {
	rc, err := s.open()
	if err != nil {
		return nil, errors.NewImportError(s.name, err)
	}
	defer rc.Close()

	return decodeCSV(s.name, rc)
}

func decodeCSV(name string, r io.Reader) ([]types.Bar, error) {
	bars := make([]types.Bar, 0)
	br := bufio.NewReader(r)

	header, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, errors.NewImportError(name, err)
	}

	if strings.TrimSpace(header) == "" && err == io.EOF {
		return bars, nil
	}

	if err := checkHeader(header); err != nil {
		return bars, errors.NewParseError(name, 1, 0, err)
	}

	// gocsv sees a canonical header so stray whitespace or a BOM in the
	// original cannot leave a column unmatched.
	in := io.MultiReader(strings.NewReader(strings.Join(CSVHeader, ",")+"\n"), br)
	lines := &lineReader{r: csv.NewReader(in), line: 0, failed: false}

	rows := make(chan csvRow)
	done := make(chan error, 1)

	go func() {
		done <- gocsv.UnmarshalDecoderToChan(gocsv.NewSimpleDecoderFromCSVReader(lines), rows)
	}()

	for row := range rows {
		bars = append(bars, row.bar())
	}

	if err := <-done; err != nil {
		return bars, classifyCSVError(name, err, lines)
	}

	return bars, nil
}

// lineReader remembers the physical line of the last record it returned.
// gocsv numbers rows by record index, which drifts from the file on blank
// lines and quoted fields spanning lines.
type lineReader struct {
	r    *csv.Reader
	line int
	// failed is set when the csv.Reader itself rejected a record
	failed bool
}

// Read implements gocsv.CSVReader.
func (l *lineReader) Read() ([]string, error) {
	record, err := l.r.Read()
	if err != nil {
		l.failed = err != io.EOF

		return record, err
	}

	l.line, _ = l.r.FieldPos(0)

	return record, nil
}

// ReadAll implements gocsv.CSVReader.
func (l *lineReader) ReadAll() ([][]string, error) {
	var records [][]string

	for {
		record, err := l.Read()
		if err == io.EOF {
			return records, nil
		}

		if err != nil {
			return records, err
		}

		records = append(records, record)
	}
}

func checkHeader(line string) error {
	line = strings.TrimPrefix(strings.TrimRight(line, "\r\n"), "\ufeff")
	fields := strings.Split(line, ",")

	if len(fields) != len(CSVHeader) {
		return fmt.Errorf("expected header %q, got %q", strings.Join(CSVHeader, ","), line)
	}

	for i, field := range fields {
		if strings.TrimSpace(field) != CSVHeader[i] {
			return fmt.Errorf("expected header %q, got %q", strings.Join(CSVHeader, ","), line)
		}
	}

	return nil
}

// classifyCSVError maps decoder failures onto the import error taxonomy.
// Row-level failures surface from gocsv and encoding/csv as *csv.ParseError.
// encoding/csv already reports physical lines; conversion failures raised
// by gocsv are moved to the line of the record being converted.
func classifyCSVError(name string, err error, lines *lineReader) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) {
		line := csvErr.Line
		if !lines.failed && lines.line > 0 {
			line = lines.line
		}

		return errors.NewParseError(name, line, csvErr.Column, csvErr.Err)
	}

	return errors.NewImportError(name, err)
}
