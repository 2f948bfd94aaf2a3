package tui

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

// ContentType reports the media type Serialize produces for format.
func ContentType(format OutputFormat) string {
	switch format {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Serialize renders a submitted record. Keys are emitted in sorted order.
func Serialize(record model.Record, format OutputFormat) ([]byte, error) {
	switch format {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(record)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(record)), nil
	case OutputFormatJSON, "":
		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", format)
	}
}

func flattenForm(record model.Record) string {
	out := url.Values{}
	for key, value := range record {
		switch v := value.(type) {
		case []string:
			for _, item := range v {
				out.Add(key+"[]", item)
			}
		case []any:
			for _, item := range v {
				out.Add(key+"[]", visibility.Stringify(item))
			}
		default:
			out.Set(key, visibility.Stringify(v))
		}
	}
	return out.Encode()
}

func prettyPrint(record model.Record) string {
	keys := make([]string, 0, len(record))
	for k := range record {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		fmt.Fprintf(&b, "%s=%s\n", key, visibility.Stringify(record[key]))
	}
	return b.String()
}
