package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fivetwenty-io/responsys-client/internal/constants"
	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
)

// ExtensionMembersClient implements responsys.ExtensionMembersClient.
type ExtensionMembersClient struct {
	dispatcher *Dispatcher
}

// NewExtensionMembersClient creates a new extension members client.
func NewExtensionMembersClient(dispatcher *Dispatcher) *ExtensionMembersClient {
	return &ExtensionMembersClient{
		dispatcher: dispatcher,
	}
}

func extensionMembersPath(profileList, extension string) string {
	return constants.ListsPath + "/" + url.PathEscape(profileList) +
		"/listExtensions/" + url.PathEscape(extension) + "/members"
}

// Merge implements responsys.ExtensionMembersClient.Merge.
func (c *ExtensionMembersClient) Merge(ctx context.Context, profileList, extension string, rows []responsys.Record, matchColumn string) (*responsys.MergeResult, error) {
	err := checkRecordLimit(rows)
	if err != nil {
		return nil, err
	}

	path := extensionMembersPath(profileList, extension)

	resp, err := c.dispatcher.Send(ctx, http.MethodPost, path, nil, newExtensionMergeRequest(rows, matchColumn))
	if err != nil {
		return nil, fmt.Errorf("merging rows into %s/%s: %w", profileList, extension, err)
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

// GetByCustomerID implements responsys.ExtensionMembersClient.GetByCustomerID.
func (c *ExtensionMembersClient) GetByCustomerID(ctx context.Context, profileList, extension, customerID string) (responsys.Record, error) {
	path := extensionMembersPath(profileList, extension)

	resp, err := c.dispatcher.Send(ctx, http.MethodGet, path, customerQuery(constants.QueryAttributeCustomerID, customerID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting row %s of %s/%s: %w", customerID, profileList, extension, err)
	}

	err = checkResponse(http.MethodGet, path, resp, http.StatusOK)
	if err != nil {
		return nil, err
	}

	return firstMember(path, resp, customerID)
}

// Delete implements responsys.ExtensionMembersClient.Delete.
func (c *ExtensionMembersClient) Delete(ctx context.Context, profileList, extension, customerID string) error {
	member, err := c.GetByCustomerID(ctx, profileList, extension, customerID)
	if err != nil {
		return err
	}

	id, err := riid(extensionMembersPath(profileList, extension), member)
	if err != nil {
		return err
	}

	path := extensionMembersPath(profileList, extension) + "/" + url.PathEscape(id)

	resp, err := c.dispatcher.Send(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return fmt.Errorf("deleting row %s of %s/%s: %w", customerID, profileList, extension, err)
	}

	return checkResponse(http.MethodDelete, path, resp, http.StatusOK)
}
