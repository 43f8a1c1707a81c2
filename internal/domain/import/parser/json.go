package parser

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// backupEnvelope is the export wrapper: {version, exportedAt, transactions}.
type backupEnvelope struct {
	Version      *int              `json:"version"`
	ExportedAt   string            `json:"exportedAt"`
	Transactions []json.RawMessage `json:"transactions"`
}

// ParseJSON parses a JSON payload whose root must be a list of transaction
// objects. Only a non-list root is envelope-fatal: zero records, one error.
// A non-object element inside the list fails per-record and never affects its
// neighbours.
func ParseJSON(data []byte) *Result {
	if len(data) > MaxFileBytes {
		return sizeExceeded(len(data))
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return &Result{Errors: []string{ErrNotAList.Error()}}
	}
	return parseRecordList(rawRecords(raws))
}

// ParseBackup parses the backup envelope. An envelope missing its version or
// its transactions list is rejected wholesale, before any record validation.
func ParseBackup(data []byte) *Result {
	if len(data) > MaxFileBytes {
		return sizeExceeded(len(data))
	}

	var env backupEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return &Result{Errors: []string{ErrInvalidBackup.Error()}}
	}
	if env.Version == nil || env.Transactions == nil {
		return &Result{Errors: []string{ErrInvalidBackup.Error()}}
	}

	return parseRecordList(rawRecords(env.Transactions))
}

// rawRecords decodes each list element into a field object. An element that
// is not an object becomes the empty map, keeping record numbering aligned
// while failing validation with a per-record error.
func rawRecords(raws []json.RawMessage) []map[string]json.RawMessage {
	records := make([]map[string]json.RawMessage, 0, len(raws))
	for _, raw := range raws {
		var rec map[string]json.RawMessage
		if err := json.Unmarshal(raw, &rec); err != nil {
			rec = map[string]json.RawMessage{}
		}
		records = append(records, rec)
	}
	return records
}

func parseRecordList(records []map[string]json.RawMessage) *Result {
	res := &Result{RowsTotal: len(records)}

	if len(records) > MaxRecords {
		records = records[:MaxRecords]
		res.Truncated = true
	}

	for i, rec := range records {
		fields := lowerKeyFields(rec)
		tx, err := buildRecord(
			fields["id"],
			fields["date"],
			fields["type"],
			fields["category"],
			fields["amount"],
			fields["note"],
			fmt.Sprintf("record %d", i+1),
		)
		if err != nil {
			res.Errors = append(res.Errors, err.Error())
			continue
		}
		res.Transactions = append(res.Transactions, tx)
	}

	if res.Truncated {
		res.Errors = append(res.Errors, truncationNotice())
	}
	return res
}

// lowerKeyFields flattens a raw JSON object into the case-insensitive field
// table: keys lower-cased, values rendered as strings (numbers keep their
// decimal form, everything else must be a string or it stays empty and fails
// validation downstream).
func lowerKeyFields(rec map[string]json.RawMessage) map[string]string {
	fields := make(map[string]string, len(rec))
	for key, raw := range rec {
		name := strings.ToLower(strings.TrimSpace(key))
		if _, known := fields[name]; known {
			continue
		}

		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			fields[name] = s
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err == nil {
			fields[name] = strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	return fields
}
