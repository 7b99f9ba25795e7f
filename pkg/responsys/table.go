package responsys

import "sort"

// ToTable converts member records into the field-names plus rows shape.
// The field names are the sorted keys of the first record; every row follows
// that order and keys missing from a record become nil.
func ToTable(records []Record) ([]string, [][]any) {
	if len(records) == 0 {
		return []string{}, [][]any{}
	}

	fieldNames := make([]string, 0, len(records[0]))
	for name := range records[0] {
		fieldNames = append(fieldNames, name)
	}

	sort.Strings(fieldNames)

	rows := make([][]any, 0, len(records))

	for _, record := range records {
		row := make([]any, len(fieldNames))
		for i, name := range fieldNames {
			row[i] = record[name]
		}

		rows = append(rows, row)
	}

	return fieldNames, rows
}

// FromTable zips each row with the field names. Rows shorter than the
// header only carry the fields they have.
func FromTable(fieldNames []string, rows [][]any) []Record {
	records := make([]Record, 0, len(rows))

	for _, row := range rows {
		record := make(Record, len(fieldNames))
		for i, name := range fieldNames {
			if i >= len(row) {
				break
			}

			record[name] = row[i]
		}

		records = append(records, record)
	}

	return records
}

// NewRecordData builds the request shape for a batch of records.
func NewRecordData(records []Record) RecordData {
	fieldNames, rows := ToTable(records)

	return RecordData{
		FieldNames: fieldNames,
		Records:    rows,
	}
}
