package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fivetwenty-io/responsys-client/internal/constants"
	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
)

// SupplementalMembersClient implements responsys.SupplementalMembersClient.
type SupplementalMembersClient struct {
	dispatcher *Dispatcher
}

// NewSupplementalMembersClient creates a new supplemental members client.
func NewSupplementalMembersClient(dispatcher *Dispatcher) *SupplementalMembersClient {
	return &SupplementalMembersClient{
		dispatcher: dispatcher,
	}
}

func supplementalMembersPath(folder, table string) string {
	return constants.FoldersPath + "/" + url.PathEscape(folder) +
		"/suppData/" + url.PathEscape(table) + "/members"
}

// Merge implements responsys.SupplementalMembersClient.Merge.
func (c *SupplementalMembersClient) Merge(ctx context.Context, folder, table string, rows []responsys.Record) (*responsys.MergeResult, error) {
	err := checkRecordLimit(rows)
	if err != nil {
		return nil, err
	}

	path := supplementalMembersPath(folder, table)

	resp, err := c.dispatcher.Send(ctx, http.MethodPost, path, nil, newSupplementalMergeRequest(rows))
	if err != nil {
		return nil, fmt.Errorf("merging rows into %s/%s: %w", folder, table, err)
	}

	err = checkResponse(http.MethodPost, path, resp, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var result responsys.MergeResult

	err = decode(http.MethodPost, path, resp, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetByCustomerID implements responsys.SupplementalMembersClient.GetByCustomerID.
func (c *SupplementalMembersClient) GetByCustomerID(ctx context.Context, folder, table, customerID string) (responsys.Record, error) {
	path := supplementalMembersPath(folder, table)

	resp, err := c.dispatcher.Send(ctx, http.MethodGet, path, customerQuery(constants.QueryAttributeSupplementalCustomerID, customerID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting row %s of %s/%s: %w", customerID, folder, table, err)
	}

	err = checkResponse(http.MethodGet, path, resp, http.StatusOK)
	if err != nil {
		return nil, err
	}

	return firstMember(path, resp, customerID)
}

// Delete implements responsys.SupplementalMembersClient.Delete. Supplemental
// rows are deleted by key directly, without a lookup.
func (c *SupplementalMembersClient) Delete(ctx context.Context, folder, table, customerID string) error {
	path := supplementalMembersPath(folder, table)
	query := url.Values{
		"qa": {constants.QueryAttributeSupplementalCustomerID},
		"id": {customerID},
	}

	resp, err := c.dispatcher.Send(ctx, http.MethodDelete, path, query, nil)
	if err != nil {
		return fmt.Errorf("deleting row %s of %s/%s: %w", customerID, folder, table, err)
	}

	return checkResponse(http.MethodDelete, path, resp, http.StatusOK)
}
