package record

import (
	"fmt"
	"unicode"

	"github.com/kailas-cloud/customerdata/internal/db"
	"github.com/kailas-cloud/customerdata/internal/importer"
)

// buildIndex derives an FT index over JSON documents from an import shape.
// Numbers become NUMERIC and strings TAG, both SORTABLE.
func buildIndex(name, prefix string, shape importer.Shape) (*db.IndexDefinition, error) {
	b := db.NewIndex(name).OnJSON().Prefix(prefix)
	for _, f := range shape.Fields() {
		attr := jsonName(f.Name)
		path := "$." + attr
		switch f.Type {
		case importer.TypeInt, importer.TypeFloat:
			b.Numeric(path).As(attr).Sortable()
		case importer.TypeString:
			b.Tag(path).As(attr).Sortable()
		case importer.TypeTime:
			// stored, not indexed
		default:
			return nil, fmt.Errorf("shape %s: unsupported field type %s", shape.Name(), f.Type)
		}
	}
	return b.Build()
}

// jsonName lower-cases the leading capital run of a field name:
// "OrderDate" -> "orderDate", "ID" -> "id", "URLPath" -> "urlPath".
func jsonName(field string) string {
	runes := []rune(field)
	for i, r := range runes {
		if !unicode.IsUpper(r) {
			break
		}
		if i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
			break
		}
		runes[i] = unicode.ToLower(r)
	}
	return string(runes)
}
