package responsys

import "time"

// Record is a single member row keyed by field name.
type Record map[string]any

// RecordData is the column-oriented shape Responsys uses for member rows.
type RecordData struct {
	FieldNames      []string `json:"fieldNames"      yaml:"fieldNames"`
	Records         [][]any  `json:"records"         yaml:"records"`
	MapTemplateName *string  `json:"mapTemplateName" yaml:"mapTemplateName"`
}

// Len returns the number of rows.
func (d *RecordData) Len() int {
	if d == nil {
		return 0
	}

	return len(d.Records)
}

// ProfileList is a Responsys profile list.
type ProfileList struct {
	Name        string `json:"name"                  yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	FolderName  string `json:"folderName,omitempty"  yaml:"folderName,omitempty"`
}

// ProfileExtension identifies a list extension table.
type ProfileExtension struct {
	ObjectName string `json:"objectName"           yaml:"objectName"`
	FolderName string `json:"folderName,omitempty" yaml:"folderName,omitempty"`
}

// Field describes one column of a list extension table.
type Field struct {
	FieldName string `json:"fieldName" yaml:"fieldName"`
	FieldType string `json:"fieldType" yaml:"fieldType"`
}

// ListExtension is a profile extension table attached to a profile list.
type ListExtension struct {
	ProfileExtension ProfileExtension `json:"profileExtension" yaml:"profileExtension"`
	Fields           []Field          `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// MergeResult is returned by the merge endpoints. Each row holds the RIID
// of the merged member or a failure message.
type MergeResult struct {
	RecordData RecordData `json:"recordData" yaml:"recordData"`
}

// Members converts the result rows into records.
func (r *MergeResult) Members() []Record {
	return FromTable(r.RecordData.FieldNames, r.RecordData.Records)
}

// SessionInfo is a read-only view of the current authentication session.
type SessionInfo struct {
	AuthToken string    `json:"auth_token" yaml:"auth_token"`
	EndPoint  string    `json:"end_point"  yaml:"end_point"`
	IssuedAt  time.Time `json:"issued_at"  yaml:"issued_at"`
}
