package output

import "encoding/json"

// FormatJSON renders the report as JSON, optionally indented.
func FormatJSON(report *Report, pretty bool) (string, error) {
	var data []byte
	var err error

	if pretty {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}
