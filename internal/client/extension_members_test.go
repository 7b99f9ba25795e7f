package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/fivetwenty-io/responsys-client/pkg/responsys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestExtensionMembersClient(t *testing.T) {
	t.Parallel()

	t.Run("Merge uses the extension match column by default", func(t *testing.T) {
		t.Parallel()

		fake := newFakeResponsys(t)
		fake.Respond(respondOK(emptyLookupBody))
		client := NewTestClient(t, fake)

		_, err := client.ExtensionMembers().Merge(context.Background(), "CONTACTS_LIST", "CONTACTS_PET",
			[]responsys.Record{{"CUSTOMER_ID": "42", "PET_NAME": "Rex"}}, "")
		require.NoError(t, err)

		calls := fake.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "/rest/api/v1.1/lists/CONTACTS_LIST/listExtensions/CONTACTS_PET/members", calls[0].Path)
		assert.JSONEq(t, `{
			"recordData": {
				"fieldNames": ["CUSTOMER_ID", "PET_NAME"],
				"records": [["42", "Rex"]],
				"mapTemplateName": null
			},
			"insertOnNoMatch": true,
			"updateOnMatch": "REPLACE_ALL",
			"matchColumnName1": "CUSTOMER_ID"
		}`, calls[0].Body)
	})

	t.Run("Merge over the limit sends nothing", func(t *testing.T) {
		t.Parallel()

		fake := newFakeResponsys(t)
		client := NewTestClient(t, fake)

		_, err := client.ExtensionMembers().Merge(context.Background(), "L", "E", makeRecords(250), "")
		require.Error(t, err)
		assert.True(t, responsys.IsRecordLimitExceeded(err))
		assert.Empty(t, fake.Calls())
	})

	t.Run("GetByCustomerID queries by customer ID", func(t *testing.T) {
		t.Parallel()

		fake := newFakeResponsys(t)
		fake.Respond(respondOK(`{"recordData":{"fieldNames":["RIID_","PET_NAME"],"records":[["15001","Rex"]],"mapTemplateName":null}}`))
		client := NewTestClient(t, fake)

		row, err := client.ExtensionMembers().GetByCustomerID(context.Background(), "CONTACTS_LIST", "CONTACTS_PET", "42")
		require.NoError(t, err)
		assert.Equal(t, "Rex", row["PET_NAME"])

		query := fake.Calls()[0].Query
		assert.Equal(t, "c", query.Get("qa"))
		assert.Equal(t, "42", query.Get("id"))
		assert.Equal(t, "all", query.Get("fs"))
	})

	t.Run("Delete looks up then deletes by RIID", func(t *testing.T) {
		t.Parallel()

		fake := newFakeResponsys(t)
		fake.Respond(respondOK(memberLookupBody), respondOK(`{}`))
		client := NewTestClient(t, fake)

		err := client.ExtensionMembers().Delete(context.Background(), "CONTACTS_LIST", "CONTACTS_PET", "42")
		require.NoError(t, err)

		calls := fake.Calls()
		require.Len(t, calls, 2)
		assert.Equal(t, http.MethodDelete, calls[1].Method)
		assert.Equal(t, "/rest/api/v1.1/lists/CONTACTS_LIST/listExtensions/CONTACTS_PET/members/15001", calls[1].Path)
	})

	t.Run("Delete of a missing row", func(t *testing.T) {
		t.Parallel()

		fake := newFakeResponsys(t)
		fake.Respond(respondOK(emptyLookupBody))
		client := NewTestClient(t, fake)

		err := client.ExtensionMembers().Delete(context.Background(), "CONTACTS_LIST", "CONTACTS_PET", "42")
		require.Error(t, err)
		assert.True(t, errors.Is(err, responsys.ErrMemberNotFound))
		assert.Len(t, fake.Calls(), 1)
	})
}
