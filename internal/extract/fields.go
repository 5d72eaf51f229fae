// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract reads metadata fields from TEI manuscript descriptions
// and assembles them into flat Records.
//
// Each field extractor queries a fixed location under
// TEI/teiHeader/fileDesc/sourceDesc/msDesc. Absent or empty values are
// missing, never zero. Values that are present but malformed (non-numeric
// dimensions, non-integer column or line counts) are reported as warnings
// and the affected field is left missing; they never fail the record.
package extract

import (
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/genizah-data/internal/logger"
	"github.com/pdiddy/genizah-data/internal/tei"
	"github.com/pdiddy/genizah-data/pkg/types"
)

// msDesc returns the location path of the manuscript description followed
// by the given steps.
func msDesc(q tei.Qualifier, steps ...string) string {
	base := []string{"", "TEI", "teiHeader", "fileDesc", "sourceDesc", "msDesc"}
	return tei.Path(q, append(base, steps...)...)
}

func normalized(loc string) string { return "normalize-space(" + loc + ")" }

var (
	titleQuery = tei.MustCompile(func(q tei.Qualifier) string {
		return normalized(msDesc(q, "msContents", "msItem[1]", "title"))
	})

	summaryQuery = tei.MustCompile(func(q tei.Qualifier) string {
		return normalized(msDesc(q, "msContents", "summary"))
	})

	materialQuery = tei.MustCompile(func(q tei.Qualifier) string {
		return normalized(msDesc(q, "physDesc", "objectDesc", "supportDesc") + "/@material")
	})

	originDateQuery = tei.MustCompile(func(q tei.Qualifier) string {
		return msDesc(q, "history", "origin", "date[1]")
	})

	dimensionsQuery = tei.MustCompile(func(q tei.Qualifier) string {
		return msDesc(q, "physDesc", "objectDesc", "supportDesc", "extent", "dimensions") +
			`[@unit="cm"][count(*)=2][` + q("height") + `][` + q("width") + `]`
	})

	widthQuery = tei.MustCompile(func(q tei.Qualifier) string { return normalized(q("width")) })

	heightQuery = tei.MustCompile(func(q tei.Qualifier) string { return normalized(q("height")) })

	layoutQuery = tei.MustCompile(func(q tei.Qualifier) string {
		return msDesc(q, "physDesc", "objectDesc", "layoutDesc", "layout") + "[@columns]"
	})
)

// linesPattern finds a line count such as "15 lines" in layout prose.
var linesPattern = regexp.MustCompile(`\b(\d+)\s+lines\b`)

// Title returns the title of the first manuscript item.
func Title(doc tei.Document) types.Optional[string] {
	return types.Text(doc.Text(titleQuery))
}

// Summary returns the manuscript contents summary.
func Summary(doc tei.Document) types.Optional[string] {
	return types.Text(doc.Text(summaryQuery))
}

// Material returns the support description's material attribute.
func Material(doc tei.Document) types.Optional[string] {
	return types.Text(doc.Text(materialQuery))
}

// DateRange returns the notBefore and notAfter attributes of the first
// origin date, verbatim. It is missing when there is no origin date.
func DateRange(doc tei.Document) types.Optional[types.DateRange] {
	date := doc.First(originDateQuery)
	if date == nil {
		return types.None[types.DateRange]()
	}
	return types.Some(types.DateRange{
		Start: date.SelectAttr("notBefore"),
		End:   date.SelectAttr("notAfter"),
	})
}

// Classmark derives a shelf-mark from a source path: the final path
// segment with its last dot-extension removed. Leading dots belong to the
// name, not an extension. Both slash styles are accepted since archive
// entry names always use forward slashes.
func Classmark(source string) string {
	base := path.Base(strings.ReplaceAll(source, `\`, "/"))
	if !strings.Contains(strings.TrimLeft(base, "."), ".") {
		return base
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// Extractor runs the field extractors that can emit data-quality warnings.
type Extractor struct {
	log logger.Logger
}

// New returns an Extractor that reports warnings to log.
func New(log logger.Logger) *Extractor {
	if log == nil {
		log = logger.NewNop()
	}
	return &Extractor{log: log}
}

// FragmentSize returns the width and height of a centimetre dimensions
// element that has exactly a height and a width child. If either value is
// not a number the size is missing and one warning is logged with both raw
// values.
func (e *Extractor) FragmentSize(doc tei.Document) types.Optional[types.FragmentSize] {
	dims := doc.First(dimensionsQuery)
	if dims == nil {
		return types.None[types.FragmentSize]()
	}

	rawWidth := tei.Text(dims, widthQuery)
	rawHeight := tei.Text(dims, heightQuery)

	width, werr := parseFloat(rawWidth)
	height, herr := parseFloat(rawHeight)
	if werr != nil || herr != nil {
		e.log.Warn("non-numeric fragment dimensions",
			logger.String("source", doc.Source),
			logger.String("width", rawWidth),
			logger.String("height", rawHeight),
		)
		return types.None[types.FragmentSize]()
	}
	return types.Some(types.FragmentSize{Width: width, Height: height})
}

// Layout returns the column count of the first layout element with a
// columns attribute, paired with a "<n> lines" count from its text. The
// result is all-or-nothing: without a line count there is no layout even
// if the columns parsed.
func (e *Extractor) Layout(doc tei.Document) types.Optional[types.Layout] {
	el := doc.First(layoutQuery)
	if el == nil {
		return types.None[types.Layout]()
	}

	raw := el.SelectAttr("columns")
	columns, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		e.log.Warn("non-integer layout columns",
			logger.String("source", doc.Source),
			logger.String("columns", raw),
		)
		return types.None[types.Layout]()
	}

	text := strings.Join(strings.Fields(el.InnerText()), " ")
	m := linesPattern.FindStringSubmatch(text)
	if m == nil {
		return types.None[types.Layout]()
	}
	lines, err := strconv.Atoi(m[1])
	if err != nil {
		e.log.Warn("out-of-range layout line count",
			logger.String("source", doc.Source),
			logger.String("lines", m[1]),
			logger.String("text", text),
		)
		return types.None[types.Layout]()
	}
	return types.Some(types.Layout{Columns: columns, Lines: lines})
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
