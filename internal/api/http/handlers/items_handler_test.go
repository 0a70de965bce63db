package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemCRUD(t *testing.T) {
	app := newTestApp(t, defaultAdmission())

	// create
	resp := doJSON(t, app, http.MethodPost, "/api/items/", map[string]any{
		"name":        "widget",
		"description": "a widget",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode(t, resp)
	id := created["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "widget", created["name"])

	// list
	resp = doJSON(t, app, http.MethodGet, "/api/items/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var items []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	require.Len(t, items, 1)

	// get
	resp = doJSON(t, app, http.MethodGet, "/api/items/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "widget", decode(t, resp)["name"])

	// update
	resp = doJSON(t, app, http.MethodPut, "/api/items/"+id, map[string]any{
		"name":        "gadget",
		"description": "renamed",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "gadget", decode(t, resp)["name"])

	// delete
	resp = doJSON(t, app, http.MethodDelete, "/api/items/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/items/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestItemNotFound(t *testing.T) {
	app := newTestApp(t, defaultAdmission())

	resp := doJSON(t, app, http.MethodGet, "/api/items/does-not-exist", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Item not found", decode(t, resp)["error"])
}

func TestItemValidation(t *testing.T) {
	app := newTestApp(t, defaultAdmission())

	resp := doJSON(t, app, http.MethodPost, "/api/items/", map[string]any{
		"description": "no name",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Contains(t, body["details"], "name")
}
