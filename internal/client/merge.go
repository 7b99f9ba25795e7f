package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/fivetwenty-io/responsys-client/internal/constants"
	rshttp "github.com/fivetwenty-io/responsys-client/internal/http"
	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
)

// Merge rule values applied to every profile list merge.
const (
	mergeHTMLValue               = "H"
	mergeOptinValue              = "I"
	mergeOptoutValue             = "O"
	mergeTextValue               = "T"
	mergeUpdateOnMatch           = "REPLACE_ALL"
	mergeMatchOperator           = "NONE"
	mergeDefaultPermissionStatus = "OPTIN"
)

// profileMergeRule is the fixed merge policy for profile lists.
type profileMergeRule struct {
	HTMLValue                  string  `json:"htmlValue"`
	OptinValue                 string  `json:"optinValue"`
	TextValue                  string  `json:"textValue"`
	InsertOnNoMatch            bool    `json:"insertOnNoMatch"`
	UpdateOnMatch              string  `json:"updateOnMatch"`
	MatchColumnName1           string  `json:"matchColumnName1"`
	MatchColumnName2           *string `json:"matchColumnName2"`
	MatchOperator              string  `json:"matchOperator"`
	OptoutValue                string  `json:"optoutValue"`
	RejectRecordIfChannelEmpty *string `json:"rejectRecordIfChannelEmpty"`
	DefaultPermissionStatus    string  `json:"defaultPermissionStatus"`
}

type profileMergeRequest struct {
	RecordData responsys.RecordData `json:"recordData"`
	MergeRule  profileMergeRule     `json:"mergeRule"`
}

type extensionMergeRequest struct {
	RecordData       responsys.RecordData `json:"recordData"`
	InsertOnNoMatch  bool                 `json:"insertOnNoMatch"`
	UpdateOnMatch    string               `json:"updateOnMatch"`
	MatchColumnName1 string               `json:"matchColumnName1"`
}

type supplementalMergeRequest struct {
	RecordData      responsys.RecordData `json:"recordData"`
	InsertOnNoMatch bool                 `json:"insertOnNoMatch"`
	UpdateOnMatch   string               `json:"updateOnMatch"`
}

func newProfileMergeRequest(records []responsys.Record, matchColumn string) *profileMergeRequest {
	if matchColumn == "" {
		matchColumn = constants.DefaultProfileMatchColumn
	}

	return &profileMergeRequest{
		RecordData: responsys.NewRecordData(records),
		MergeRule: profileMergeRule{
			HTMLValue:               mergeHTMLValue,
			OptinValue:              mergeOptinValue,
			TextValue:               mergeTextValue,
			InsertOnNoMatch:         true,
			UpdateOnMatch:           mergeUpdateOnMatch,
			MatchColumnName1:        matchColumn,
			MatchOperator:           mergeMatchOperator,
			OptoutValue:             mergeOptoutValue,
			DefaultPermissionStatus: mergeDefaultPermissionStatus,
		},
	}
}

func newExtensionMergeRequest(records []responsys.Record, matchColumn string) *extensionMergeRequest {
	if matchColumn == "" {
		matchColumn = constants.DefaultExtensionMatchColumn
	}

	return &extensionMergeRequest{
		RecordData:       responsys.NewRecordData(records),
		InsertOnNoMatch:  true,
		UpdateOnMatch:    mergeUpdateOnMatch,
		MatchColumnName1: matchColumn,
	}
}

func newSupplementalMergeRequest(records []responsys.Record) *supplementalMergeRequest {
	return &supplementalMergeRequest{
		RecordData:      responsys.NewRecordData(records),
		InsertOnNoMatch: true,
		UpdateOnMatch:   mergeUpdateOnMatch,
	}
}

// checkRecordLimit rejects batches Responsys would refuse, before any
// network call is made.
func checkRecordLimit(records []responsys.Record) error {
	if len(records) == 0 {
		return &responsys.ClientError{
			Kind:    responsys.ErrNoRecords,
			Message: "at least one member is required",
		}
	}

	if len(records) > constants.RecordProcessLimit {
		return responsys.NewRecordLimitError(constants.RecordProcessLimit, len(records))
	}

	return nil
}

// checkResponse fails unless resp carries the expected status.
func checkResponse(method, path string, resp *rshttp.Response, expected int) error {
	if resp.StatusCode != expected {
		return responsys.NewUnexpectedStatusError(method, path, resp.StatusCode, resp.Body)
	}

	return nil
}

func decode(method, path string, resp *rshttp.Response, target interface{}) error {
	err := json.Unmarshal(resp.Body, target)
	if err != nil {
		return responsys.NewInvalidResponseError(method, path, resp.Body, err)
	}

	return nil
}

// decodeNumbers decodes like decode but keeps numbers as json.Number, so
// large RIIDs survive unchanged.
func decodeNumbers(method, path string, resp *rshttp.Response, target interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(resp.Body))
	decoder.UseNumber()

	err := decoder.Decode(target)
	if err != nil {
		return responsys.NewInvalidResponseError(method, path, resp.Body, err)
	}

	return nil
}

// firstMember decodes a member lookup and returns its first row. Numeric
// fields are json.Number values.
func firstMember(path string, resp *rshttp.Response, customerID string) (responsys.Record, error) {
	var result responsys.MergeResult

	err := decodeNumbers(http.MethodGet, path, resp, &result)
	if err != nil {
		return nil, err
	}

	members := result.Members()
	if len(members) == 0 {
		return nil, &responsys.ClientError{
			Kind:       responsys.ErrMemberNotFound,
			Message:    fmt.Sprintf("no member with customer ID %s at %s", customerID, path),
			Method:     http.MethodGet,
			Path:       path,
			StatusCode: resp.StatusCode,
		}
	}

	return members[0], nil
}

// riid extracts the recipient ID from a member record.
func riid(path string, member responsys.Record) (string, error) {
	value, ok := member[constants.RIIDField]
	if !ok || value == nil {
		return "", &responsys.ClientError{
			Kind:    responsys.ErrInvalidResponse,
			Message: fmt.Sprintf("member returned by %s has no %s", path, constants.RIIDField),
			Method:  http.MethodGet,
			Path:    path,
		}
	}

	switch number := value.(type) {
	case json.Number:
		return number.String(), nil
	case float64:
		return strconv.FormatFloat(number, 'f', -1, 64), nil
	default:
		return fmt.Sprint(value), nil
	}
}
