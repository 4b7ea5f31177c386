package decode

import (
	"bufio"
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/tabstreamproject/tabstream/internal/httpingester/model"
)

// Decode converts a raw request body into a batch of rows. With lines set the
// payload is treated as line-delimited JSON (one object per non-empty line),
// otherwise as a single JSON object or an array of objects.
func Decode(payload []byte, lines bool) (*model.Batch, error) {
	if lines {
		return decodeLines(payload)
	}

	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 {
		return nil, errors.New("empty payload")
	}

	var rows []model.Row
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, errors.WithMessage(err, "error unmarshalling record array")
		}
	} else {
		var row model.Row
		if err := json.Unmarshal(trimmed, &row); err != nil {
			return nil, errors.WithMessage(err, "error unmarshalling record")
		}
		rows = []model.Row{row}
	}

	if len(rows) == 0 {
		return nil, errors.New("payload contains no records")
	}
	return model.NewBatch(rows), nil
}

func decodeLines(payload []byte) (*model.Batch, error) {
	var rows []model.Row
	scanner := bufio.NewScanner(bytes.NewReader(payload))
	scanner.Buffer(nil, len(payload)+1)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var row model.Row
		if err := json.Unmarshal(line, &row); err != nil {
			return nil, errors.WithMessagef(err, "error unmarshalling record on line %d", lineNo)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WithMessage(err, "error scanning payload lines")
	}
	if len(rows) == 0 {
		return nil, errors.New("payload contains no records")
	}
	return model.NewBatch(rows), nil
}
