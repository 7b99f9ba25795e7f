package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fivetwenty-io/responsys-client/internal/constants"
	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
)

// ProfileMembersClient implements responsys.ProfileMembersClient.
type ProfileMembersClient struct {
	dispatcher *Dispatcher
}

// NewProfileMembersClient creates a new profile members client.
func NewProfileMembersClient(dispatcher *Dispatcher) *ProfileMembersClient {
	return &ProfileMembersClient{
		dispatcher: dispatcher,
	}
}

func profileMembersPath(profileList string) string {
	return constants.ListsPath + "/" + url.PathEscape(profileList) + "/members"
}

// Merge implements responsys.ProfileMembersClient.Merge.
func (c *ProfileMembersClient) Merge(ctx context.Context, profileList string, members []responsys.Record, matchColumn string) (*responsys.MergeResult, error) {
	err := checkRecordLimit(members)
	if err != nil {
		return nil, err
	}

	path := profileMembersPath(profileList)

	resp, err := c.dispatcher.Send(ctx, http.MethodPost, path, nil, newProfileMergeRequest(members, matchColumn))
	if err != nil {
		return nil, fmt.Errorf("merging members into %s: %w", profileList, err)
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

// GetByCustomerID implements responsys.ProfileMembersClient.GetByCustomerID.
func (c *ProfileMembersClient) GetByCustomerID(ctx context.Context, profileList, customerID string) (responsys.Record, error) {
	path := profileMembersPath(profileList)

	resp, err := c.dispatcher.Send(ctx, http.MethodGet, path, customerQuery(constants.QueryAttributeCustomerID, customerID), nil)
	if err != nil {
		return nil, fmt.Errorf("getting member %s of %s: %w", customerID, profileList, err)
	}

	err = checkResponse(http.MethodGet, path, resp, http.StatusOK)
	if err != nil {
		return nil, err
	}

	return firstMember(path, resp, customerID)
}

// Delete implements responsys.ProfileMembersClient.Delete. The member is
// looked up by customer ID and removed by RIID.
func (c *ProfileMembersClient) Delete(ctx context.Context, profileList, customerID string) error {
	member, err := c.GetByCustomerID(ctx, profileList, customerID)
	if err != nil {
		return err
	}

	id, err := riid(profileMembersPath(profileList), member)
	if err != nil {
		return err
	}

	path := profileMembersPath(profileList) + "/" + url.PathEscape(id)

	resp, err := c.dispatcher.Send(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return fmt.Errorf("deleting member %s of %s: %w", customerID, profileList, err)
	}

	return checkResponse(http.MethodDelete, path, resp, http.StatusOK)
}

func customerQuery(attribute, customerID string) url.Values {
	return url.Values{
		"qa": {attribute},
		"id": {customerID},
		"fs": {constants.FieldSelectionAll},
	}
}
