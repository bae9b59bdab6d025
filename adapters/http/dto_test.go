package http

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListsAcceptStringsOrArrays(t *testing.T) {
	var req ProjectRequest
	require.NoError(t, json.Unmarshal([]byte(`{"technologies":"Go, SQL,,","keyFeatures":"one\n\ntwo"}`), &req))
	assert.Equal(t, CommaList{"Go", "SQL"}, *req.Technologies)
	assert.Equal(t, LineList{"one", "two"}, *req.KeyFeatures)

	req = ProjectRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"technologies":["Go"],"keyFeatures":[]}`), &req))
	assert.Equal(t, CommaList{"Go"}, *req.Technologies)
	assert.Empty(t, *req.KeyFeatures)

	assert.Error(t, json.Unmarshal([]byte(`{"technologies":3}`), &req))
}

func TestPostRequest_Date(t *testing.T) {
	date := "2024-05-01"
	p, err := (&PostRequest{Date: &date}).ToPost()
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", p.Date.Format("2006-01-02"))

	bad := "05/01/2024"
	_, err = (&PostRequest{Date: &bad}).ToPatch()
	assert.Error(t, err)
}
