package formatter

import (
	"encoding/json"
)

// JSONFormatter formats rows as a JSON array of objects keyed by header.
type JSONFormatter struct {
	// Pretty determines if the JSON should be pretty-printed
	Pretty bool
}

// Format converts the rows to JSON format.
func (f JSONFormatter) Format(rows [][]Field, headers []string) string {
	objects := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		cells := values(row, headers)
		object := make(map[string]string, len(headers))
		for i, header := range headers {
			object[header] = cells[i]
		}
		objects = append(objects, object)
	}

	var (
		data []byte
		err  error
	)
	if f.Pretty {
		data, err = json.MarshalIndent(objects, "", "  ")
	} else {
		data, err = json.Marshal(objects)
	}
	if err != nil {
		return "{\"error\": \"Failed to format as JSON\"}"
	}
	return string(data)
}
