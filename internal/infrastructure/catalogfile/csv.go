package catalogfile

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readCSV reads a CSV export, detecting legacy single-byte encodings and
// converting them to UTF-8. Input whose sample is valid UTF-8 is read as is.
// Semicolon-separated spreadsheet exports are accepted.
func readCSV(r io.Reader) ([]map[string]string, error) {
	br := bufio.NewReader(r)

	if bom, _ := br.Peek(3); bytes.Equal(bom, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	peek, _ := br.Peek(4096)
	var dec io.Reader = br
	if !validUTF8Sample(peek) {
		switch detectCharset(peek) {
		case "windows-1252", "iso-8859-1":
			dec = transform.NewReader(br, charmap.Windows1252.NewDecoder())
		case "windows-1251":
			dec = transform.NewReader(br, charmap.Windows1251.NewDecoder())
		}
	}

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.Comma = sniffDelimiter(peek)

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rowsToMaps(rows, pickHeader(rows)), nil
}

// validUTF8Sample reports whether sample is UTF-8, ignoring a rune cut off
// at the end of the sample
func validUTF8Sample(sample []byte) bool {
	end := len(sample)
	for i := end - 1; i >= 0 && i >= end-utf8.UTFMax; i-- {
		if utf8.RuneStart(sample[i]) {
			if !utf8.FullRune(sample[i:]) {
				end = i
			}
			break
		}
	}
	return utf8.Valid(sample[:end])
}

func detectCharset(sample []byte) string {
	if len(sample) == 0 {
		return "utf-8"
	}
	res, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || res == nil {
		return "utf-8"
	}
	return strings.ToLower(res.Charset)
}

// sniffDelimiter picks ';' when the first line has more semicolons than commas
func sniffDelimiter(sample []byte) rune {
	line := string(sample)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}
